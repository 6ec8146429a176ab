package v1_test

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Lixtic/Intellisynth2/internal/chatbot"
	"github.com/Lixtic/Intellisynth2/internal/compliance"
	"github.com/Lixtic/Intellisynth2/internal/detect"
	"github.com/Lixtic/Intellisynth2/internal/domain"
)

// ---------------------------------------------------------------------------
// Mock DataStore
// ---------------------------------------------------------------------------

type mockDataStore struct {
	activities domain.ActivityRepository
	rules      domain.RuleRepository
	violations domain.ViolationRepository
	agents     domain.AgentRepository
}

func (m *mockDataStore) Activities() domain.ActivityRepository  { return m.activities }
func (m *mockDataStore) Rules() domain.RuleRepository           { return m.rules }
func (m *mockDataStore) Violations() domain.ViolationRepository { return m.violations }
func (m *mockDataStore) Agents() domain.AgentRepository         { return m.agents }

// ---------------------------------------------------------------------------
// Mock ActivityRepository
// ---------------------------------------------------------------------------

type mockActivityRepo struct {
	insertFunc func(ctx context.Context, a *domain.ActivityRecord) error
	queryFunc  func(ctx context.Context, start, end time.Time, agentID string) ([]*domain.ActivityRecord, error)
	listFunc   func(ctx context.Context, f domain.ActivityFilter) ([]*domain.ActivityRecord, error)
	statsFunc  func(ctx context.Context) (*domain.ActivityStats, error)
}

func (m *mockActivityRepo) Insert(ctx context.Context, a *domain.ActivityRecord) error {
	return m.insertFunc(ctx, a)
}

func (m *mockActivityRepo) Query(ctx context.Context, start, end time.Time, agentID string) ([]*domain.ActivityRecord, error) {
	return m.queryFunc(ctx, start, end, agentID)
}

func (m *mockActivityRepo) List(ctx context.Context, f domain.ActivityFilter) ([]*domain.ActivityRecord, error) {
	return m.listFunc(ctx, f)
}

func (m *mockActivityRepo) Stats(ctx context.Context) (*domain.ActivityStats, error) {
	return m.statsFunc(ctx)
}

// ---------------------------------------------------------------------------
// Mock RuleRepository
// ---------------------------------------------------------------------------

type mockRuleRepo struct {
	createFunc      func(ctx context.Context, r *domain.ComplianceRule) error
	getByIDFunc     func(ctx context.Context, id uuid.UUID) (*domain.ComplianceRule, error)
	listFunc        func(ctx context.Context) ([]*domain.ComplianceRule, error)
	listEnabledFunc func(ctx context.Context) ([]*domain.ComplianceRule, error)
	updateFunc      func(ctx context.Context, r *domain.ComplianceRule) error
}

func (m *mockRuleRepo) Create(ctx context.Context, r *domain.ComplianceRule) error {
	return m.createFunc(ctx, r)
}

func (m *mockRuleRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ComplianceRule, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockRuleRepo) List(ctx context.Context) ([]*domain.ComplianceRule, error) {
	return m.listFunc(ctx)
}

func (m *mockRuleRepo) ListEnabled(ctx context.Context) ([]*domain.ComplianceRule, error) {
	return m.listEnabledFunc(ctx)
}

func (m *mockRuleRepo) Update(ctx context.Context, r *domain.ComplianceRule) error {
	return m.updateFunc(ctx, r)
}

// ---------------------------------------------------------------------------
// Mock AgentRepository
// ---------------------------------------------------------------------------

type mockAgentRepo struct {
	createFunc    func(ctx context.Context, a *domain.Agent) error
	getByIDFunc   func(ctx context.Context, id uuid.UUID) (*domain.Agent, error)
	getByNameFunc func(ctx context.Context, name string) (*domain.Agent, error)
	listFunc      func(ctx context.Context) ([]*domain.Agent, error)
	updateFunc    func(ctx context.Context, a *domain.Agent) error
	deleteFunc    func(ctx context.Context, id uuid.UUID) error
}

func (m *mockAgentRepo) Create(ctx context.Context, a *domain.Agent) error {
	return m.createFunc(ctx, a)
}

func (m *mockAgentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Agent, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockAgentRepo) GetByName(ctx context.Context, name string) (*domain.Agent, error) {
	return m.getByNameFunc(ctx, name)
}

func (m *mockAgentRepo) List(ctx context.Context) ([]*domain.Agent, error) {
	return m.listFunc(ctx)
}

func (m *mockAgentRepo) Update(ctx context.Context, a *domain.Agent) error {
	return m.updateFunc(ctx, a)
}

func (m *mockAgentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFunc(ctx, id)
}

// ---------------------------------------------------------------------------
// Mock AnomalyDetector
// ---------------------------------------------------------------------------

type mockDetector struct {
	detectFunc func(ctx context.Context, window detect.TimeRange, cfg detect.Config) (*domain.AnomalyReport, error)
}

func (m *mockDetector) Detect(ctx context.Context, window detect.TimeRange, cfg detect.Config) (*domain.AnomalyReport, error) {
	return m.detectFunc(ctx, window, cfg)
}

// ---------------------------------------------------------------------------
// Mock ComplianceEngine
// ---------------------------------------------------------------------------

type mockEngine struct {
	evaluateFunc    func(ctx context.Context, window detect.TimeRange) ([]*domain.ComplianceViolation, error)
	investigateFunc func(ctx context.Context, id uuid.UUID) error
	resolveFunc     func(ctx context.Context, id uuid.UUID) error
	snoozeFunc      func(ctx context.Context, id uuid.UUID, d time.Duration) error
	dismissFunc     func(ctx context.Context, id uuid.UUID) error
	listFunc        func(ctx context.Context, since time.Time) ([]*domain.ComplianceViolation, error)
	statusFunc      func(ctx context.Context, since time.Time) (*compliance.Status, error)
}

func (m *mockEngine) Evaluate(ctx context.Context, window detect.TimeRange) ([]*domain.ComplianceViolation, error) {
	return m.evaluateFunc(ctx, window)
}

func (m *mockEngine) Investigate(ctx context.Context, id uuid.UUID) error {
	return m.investigateFunc(ctx, id)
}

func (m *mockEngine) Resolve(ctx context.Context, id uuid.UUID) error {
	return m.resolveFunc(ctx, id)
}

func (m *mockEngine) Snooze(ctx context.Context, id uuid.UUID, d time.Duration) error {
	return m.snoozeFunc(ctx, id, d)
}

func (m *mockEngine) Dismiss(ctx context.Context, id uuid.UUID) error {
	return m.dismissFunc(ctx, id)
}

func (m *mockEngine) ListViolations(ctx context.Context, since time.Time) ([]*domain.ComplianceViolation, error) {
	return m.listFunc(ctx, since)
}

func (m *mockEngine) StatusReport(ctx context.Context, since time.Time) (*compliance.Status, error) {
	return m.statusFunc(ctx, since)
}

// ---------------------------------------------------------------------------
// Mock Chatbot
// ---------------------------------------------------------------------------

type mockChatbot struct {
	answerFunc func(ctx context.Context, question string) (*chatbot.Reply, error)
}

func (m *mockChatbot) Answer(ctx context.Context, question string) (*chatbot.Reply, error) {
	return m.answerFunc(ctx, question)
}

// ---------------------------------------------------------------------------
// Mock AuthService
// ---------------------------------------------------------------------------

type mockAuthService struct {
	registerFunc     func(ctx context.Context, email, password, name string) (*domain.User, error)
	loginFunc        func(ctx context.Context, email, password string) (string, string, error)
	refreshTokenFunc func(ctx context.Context, refreshToken string) (string, error)
}

func (m *mockAuthService) Register(ctx context.Context, email, password, name string) (*domain.User, error) {
	return m.registerFunc(ctx, email, password, name)
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (accessToken, refreshToken string, err error) {
	return m.loginFunc(ctx, email, password)
}

func (m *mockAuthService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	return m.refreshTokenFunc(ctx, refreshToken)
}

// ---------------------------------------------------------------------------
// Mock FeedPublisher
// ---------------------------------------------------------------------------

type mockFeed struct {
	published []*domain.ActivityRecord
	err       error
}

func (m *mockFeed) PublishActivity(_ context.Context, a *domain.ActivityRecord) error {
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, a)
	return nil
}
