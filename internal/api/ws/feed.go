package ws

import (
	"time"

	"github.com/google/uuid"

	"github.com/Lixtic/Intellisynth2/internal/domain"
)

// replayCount is how many buffered activities a feed client receives on
// connect before live streaming begins.
const replayCount = 50

// EventType tags a feed message.
type EventType string

const (
	EventActivity  EventType = "activity"
	EventAnomaly   EventType = "anomaly"
	EventViolation EventType = "violation"
)

// FeedEvent is a message on the live activity feed.
type FeedEvent struct {
	Type     EventType              `json:"type"`
	Activity *domain.ActivityRecord `json:"activity"`
}

// AlertEvent is a message on the alert channel. Exactly one of Anomaly and
// Violation is set, matching Type.
type AlertEvent struct {
	Type      EventType                   `json:"type"`
	Severity  domain.Severity             `json:"severity"`
	Anomaly   *domain.Anomaly             `json:"anomaly,omitempty"`
	Violation *domain.ComplianceViolation `json:"violation,omitempty"`
	ID        uuid.UUID                   `json:"id"`
	At        time.Time                   `json:"at"`
}

// NewAnomalyAlert builds the alert payload for a detected anomaly.
func NewAnomalyAlert(a *domain.Anomaly) AlertEvent {
	return AlertEvent{
		Type:     EventAnomaly,
		Severity: a.Severity,
		Anomaly:  a,
		ID:       a.ID,
		At:       time.Now().UTC(),
	}
}

// NewViolationAlert builds the alert payload for a compliance violation.
func NewViolationAlert(v *domain.ComplianceViolation) AlertEvent {
	return AlertEvent{
		Type:      EventViolation,
		Severity:  v.Severity,
		Violation: v,
		ID:        v.ID,
		At:        time.Now().UTC(),
	}
}
