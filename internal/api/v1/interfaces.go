package v1

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Lixtic/Intellisynth2/internal/chatbot"
	"github.com/Lixtic/Intellisynth2/internal/compliance"
	"github.com/Lixtic/Intellisynth2/internal/detect"
	"github.com/Lixtic/Intellisynth2/internal/domain"
)

// DataStore abstracts the repository accessor pattern for handler testing.
// *postgres.Store satisfies this interface.
type DataStore interface {
	Activities() domain.ActivityRepository
	Rules() domain.RuleRepository
	Violations() domain.ViolationRepository
	Agents() domain.AgentRepository
}

// AnomalyDetector runs the detection suite over a window.
// *detect.Aggregator satisfies this interface.
type AnomalyDetector interface {
	Detect(ctx context.Context, window detect.TimeRange, cfg detect.Config) (*domain.AnomalyReport, error)
}

// ComplianceEngine evaluates rules and drives the violation lifecycle.
// *compliance.Engine satisfies this interface.
type ComplianceEngine interface {
	Evaluate(ctx context.Context, window detect.TimeRange) ([]*domain.ComplianceViolation, error)
	Investigate(ctx context.Context, id uuid.UUID) error
	Resolve(ctx context.Context, id uuid.UUID) error
	Snooze(ctx context.Context, id uuid.UUID, d time.Duration) error
	Dismiss(ctx context.Context, id uuid.UUID) error
	ListViolations(ctx context.Context, since time.Time) ([]*domain.ComplianceViolation, error)
	StatusReport(ctx context.Context, since time.Time) (*compliance.Status, error)
}

// Chatbot answers operator questions about the activity log.
// *chatbot.Service satisfies this interface.
type Chatbot interface {
	Answer(ctx context.Context, question string) (*chatbot.Reply, error)
}

// AuthService abstracts authentication operations for handler testing.
// *auth.Service satisfies this interface.
type AuthService interface {
	Register(ctx context.Context, email, password, name string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (accessToken, refreshToken string, err error)
	RefreshToken(ctx context.Context, refreshToken string) (string, error)
}

// FeedPublisher pushes freshly logged activities onto the live feed.
// The redis-backed publisher in the server package satisfies this interface.
type FeedPublisher interface {
	PublishActivity(ctx context.Context, a *domain.ActivityRecord) error
}
