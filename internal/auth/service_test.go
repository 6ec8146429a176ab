package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lixtic/Intellisynth2/internal/domain"
)

// mockUserRepo is an in-memory user store for auth tests.
type mockUserRepo struct {
	byID    map[uuid.UUID]*domain.User
	byEmail map[string]*domain.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		byID:    make(map[uuid.UUID]*domain.User),
		byEmail: make(map[string]*domain.User),
	}
}

func (m *mockUserRepo) Create(_ context.Context, u *domain.User) error {
	m.byID[u.ID] = u
	m.byEmail[u.Email] = u
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func newTestService(repo *mockUserRepo) *Service {
	return NewService(repo, "test-secret", 15*time.Minute, 24*time.Hour)
}

func TestService_RegisterAndLogin(t *testing.T) {
	t.Parallel()

	svc := newTestService(newMockUserRepo())

	user, err := svc.Register(context.Background(), "ops@example.com", "hunter2hunter2", "Ops")
	require.NoError(t, err)
	assert.Equal(t, "analyst", user.Role)
	assert.NotEqual(t, "hunter2hunter2", user.PasswordHash)
	assert.Contains(t, user.PasswordHash, "$")

	access, refresh, err := svc.Login(context.Background(), "ops@example.com", "hunter2hunter2")
	require.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)
	assert.NotEqual(t, access, refresh)
}

func TestService_Register_DuplicateEmail(t *testing.T) {
	t.Parallel()

	svc := newTestService(newMockUserRepo())

	_, err := svc.Register(context.Background(), "ops@example.com", "hunter2hunter2", "Ops")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "ops@example.com", "different", "Other")
	require.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestService_Login_WrongPassword(t *testing.T) {
	t.Parallel()

	svc := newTestService(newMockUserRepo())
	_, err := svc.Register(context.Background(), "ops@example.com", "hunter2hunter2", "Ops")
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "ops@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_Login_UnknownUser(t *testing.T) {
	t.Parallel()

	svc := newTestService(newMockUserRepo())

	_, _, err := svc.Login(context.Background(), "nobody@example.com", "whatever")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_RefreshToken(t *testing.T) {
	t.Parallel()

	repo := newMockUserRepo()
	svc := newTestService(repo)
	user, err := svc.Register(context.Background(), "ops@example.com", "hunter2hunter2", "Ops")
	require.NoError(t, err)

	access, refresh, err := svc.Login(context.Background(), "ops@example.com", "hunter2hunter2")
	require.NoError(t, err)

	t.Run("refresh token yields a new access token", func(t *testing.T) {
		t.Parallel()

		newAccess, err := svc.RefreshToken(context.Background(), refresh)
		require.NoError(t, err)

		claims, err := ValidateToken("test-secret", newAccess)
		require.NoError(t, err)
		assert.Equal(t, user.ID.String(), claims.UserID)
		assert.Equal(t, tokenTypeAccess, claims.TokenType)
	})

	t.Run("access token is rejected as refresh", func(t *testing.T) {
		t.Parallel()

		_, err := svc.RefreshToken(context.Background(), access)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("deleted user cannot refresh", func(t *testing.T) {
		t.Parallel()

		// Own repo and service so the delete cannot race the sibling
		// subtests sharing the outer fixture.
		repo := newMockUserRepo()
		svc := newTestService(repo)
		user, err := svc.Register(context.Background(), "gone@example.com", "hunter2hunter2", "Gone")
		require.NoError(t, err)

		_, refresh, err := svc.Login(context.Background(), "gone@example.com", "hunter2hunter2")
		require.NoError(t, err)

		delete(repo.byID, user.ID)

		_, err = svc.RefreshToken(context.Background(), refresh)
		require.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestValidateToken(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("valid token round-trips claims", func(t *testing.T) {
		t.Parallel()

		token, err := IssueAccessToken("secret", userID, "admin", time.Minute)
		require.NoError(t, err)

		claims, err := ValidateToken("secret", token)
		require.NoError(t, err)
		assert.Equal(t, userID.String(), claims.UserID)
		assert.Equal(t, "admin", claims.Role)
		assert.Equal(t, "intellisynth", claims.Issuer)
	})

	t.Run("wrong secret is rejected", func(t *testing.T) {
		t.Parallel()

		token, err := IssueAccessToken("secret", userID, "admin", time.Minute)
		require.NoError(t, err)

		_, err = ValidateToken("other-secret", token)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		t.Parallel()

		token, err := IssueAccessToken("secret", userID, "admin", -time.Minute)
		require.NoError(t, err)

		_, err = ValidateToken("secret", token)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage is rejected", func(t *testing.T) {
		t.Parallel()

		_, err := ValidateToken("secret", "not-a-jwt")
		require.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestPasswordHashing(t *testing.T) {
	t.Parallel()

	hash, err := hashPassword("correct horse battery staple")
	require.NoError(t, err)

	assert.True(t, verifyPassword("correct horse battery staple", hash))
	assert.False(t, verifyPassword("incorrect horse", hash))
	assert.False(t, verifyPassword("correct horse battery staple", "malformed"))

	// Salts are random: same password, different hash.
	other, err := hashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, hash, other)
}
