package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RuleType classifies a compliance rule's condition. Only error_threshold
// and keyword_match carry machine-evaluable conditions; the remaining types
// exist for administrator bookkeeping and are skipped by the engine.
type RuleType string

const (
	RuleErrorThreshold RuleType = "error_threshold"
	RuleKeywordMatch   RuleType = "keyword_match"
	RuleDataRetention  RuleType = "data_retention"
	RuleAccessControl  RuleType = "access_control"
	RuleEncryption     RuleType = "encryption"
	RuleCustom         RuleType = "custom"
)

// ComplianceRule is an administrator-managed rule evaluated against the
// activity window. Rules are read-only input to the engine.
type ComplianceRule struct {
	ID          uuid.UUID
	Name        string
	Type        RuleType
	Severity    Severity
	Enabled     bool
	Threshold   int
	Keyword     string // keyword_match rules only
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ViolationStatus is the lifecycle state of a compliance violation.
type ViolationStatus string

const (
	ViolationOpen          ViolationStatus = "open"
	ViolationInvestigating ViolationStatus = "investigating"
	ViolationResolved      ViolationStatus = "resolved"
	ViolationSnoozed       ViolationStatus = "snoozed"
	ViolationDismissed     ViolationStatus = "dismissed"
)

// ValidTransition checks if a violation state transition is allowed.
// resolved and dismissed are terminal. snoozed may only reopen (the snooze
// timer elapsing); all triage actions require reopening first.
func (s ViolationStatus) ValidTransition(to ViolationStatus) bool {
	switch s {
	case ViolationOpen:
		return to == ViolationInvestigating || to == ViolationResolved ||
			to == ViolationSnoozed || to == ViolationDismissed
	case ViolationInvestigating:
		return to == ViolationResolved || to == ViolationSnoozed || to == ViolationDismissed
	case ViolationSnoozed:
		return to == ViolationOpen
	default:
		return false
	}
}

// Active reports whether the violation still counts for deduplication:
// one open or investigating violation per (rule, agent) pair at a time.
func (s ViolationStatus) Active() bool {
	return s == ViolationOpen || s == ViolationInvestigating
}

// ComplianceViolation is a detected breach of an enabled rule. Status is the
// only mutable field; dismissed and resolved records are retained for audit,
// never deleted.
type ComplianceViolation struct {
	ID          uuid.UUID
	RuleID      uuid.UUID
	Severity    Severity
	Description string
	AgentID     string
	DetectedAt  time.Time
	Status      ViolationStatus
	ResolvedAt  *time.Time
	SnoozeUntil *time.Time
}

type RuleRepository interface {
	Create(ctx context.Context, r *ComplianceRule) error
	GetByID(ctx context.Context, id uuid.UUID) (*ComplianceRule, error)
	List(ctx context.Context) ([]*ComplianceRule, error)
	ListEnabled(ctx context.Context) ([]*ComplianceRule, error)
	Update(ctx context.Context, r *ComplianceRule) error
}

type ViolationRepository interface {
	Create(ctx context.Context, v *ComplianceViolation) error
	GetByID(ctx context.Context, id uuid.UUID) (*ComplianceViolation, error)
	// FindActive returns the open or investigating violation for the
	// (rule, agent) pair, or ErrNotFound.
	FindActive(ctx context.Context, ruleID uuid.UUID, agentID string) (*ComplianceViolation, error)
	ListSince(ctx context.Context, since time.Time) ([]*ComplianceViolation, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status ViolationStatus, resolvedAt, snoozeUntil *time.Time) error
}
