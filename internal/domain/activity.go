package domain

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// ActionType classifies what an agent was doing. The set is open to
// extension; these are the well-known values.
type ActionType string

const (
	ActionDecision        ActionType = "decision"
	ActionDataCollection  ActionType = "data_collection"
	ActionAnalysis        ActionType = "analysis"
	ActionComplianceCheck ActionType = "compliance_check"
	ActionSecurityScan    ActionType = "security_scan"
	ActionError           ActionType = "error"
)

// ResourceUsage captures the resource footprint reported with an activity.
type ResourceUsage struct {
	CPU     float64
	Memory  float64
	Network float64
}

// ActivityMetrics is the structured numeric payload attached to an activity.
// Detectors consume these fields as inputs.
type ActivityMetrics struct {
	ExecutionTimeMS float64
	ResourceUsage   ResourceUsage
	Confidence      float64
	ImpactScore     float64
}

// ActivityRecord is a single logged agent action. Records are immutable
// after creation: the store is append-only and IntegrityHash is computed
// exactly once, at creation time.
type ActivityRecord struct {
	ID            uuid.UUID
	Timestamp     time.Time
	AgentID       string
	ActionType    ActionType
	Severity      Severity
	Message       string
	Metrics       ActivityMetrics
	IntegrityHash string
	CreatedAt     time.Time
}

// ComputeIntegrityHash derives the tamper-evidence hash from the immutable
// fields of the record. The first 16 hex characters of the SHA-256 digest
// are kept, matching the stored format. The timestamp is truncated to
// microseconds, the precision a timestamptz column retains, so the hash
// survives a store round-trip.
func ComputeIntegrityHash(agentID string, ts time.Time, action ActionType, message string) string {
	input := agentID + "|" + ts.UTC().Truncate(time.Microsecond).Format(time.RFC3339Nano) + "|" + string(action) + "|" + message
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])[:16]
}

// VerifyIntegrity recomputes the hash from the record's fields and compares
// it to the stored value.
func (a *ActivityRecord) VerifyIntegrity() bool {
	return a.IntegrityHash == ComputeIntegrityHash(a.AgentID, a.Timestamp, a.ActionType, a.Message)
}

// IsError reports whether the record counts as an error for rate
// computations: explicit error actions, or critical/high severity.
func (a *ActivityRecord) IsError() bool {
	return a.ActionType == ActionError || a.Severity.AtLeast(SeverityHigh)
}

// ActivityFilter narrows an activity listing. Zero values mean "no filter".
type ActivityFilter struct {
	AgentID    string
	ActionType ActionType
	Severity   Severity
	Since      *time.Time
	Limit      int
}

// ActivityStats is the aggregate view rendered on the dashboard.
type ActivityStats struct {
	TotalActivities int
	Decisions       int
	DataPoints      int
	Errors          int
	AvgExecutionMS  float64
	ActiveAgents    int
}

// ActivityRepository is the append-only activity store. There are no update
// or delete operations; retention lives outside this core.
type ActivityRepository interface {
	Insert(ctx context.Context, a *ActivityRecord) error
	// Query returns all records with Timestamp in [start, end), optionally
	// scoped to one agent, ordered oldest first.
	Query(ctx context.Context, start, end time.Time, agentID string) ([]*ActivityRecord, error)
	// List returns records matching the filter, newest first.
	List(ctx context.Context, f ActivityFilter) ([]*ActivityRecord, error)
	Stats(ctx context.Context) (*ActivityStats, error)
}
