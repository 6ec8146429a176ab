package domain

import (
	"time"

	"github.com/google/uuid"
)

// AnomalyType identifies which detector produced an anomaly.
type AnomalyType string

const (
	AnomalyStatisticalOutlier AnomalyType = "statistical_outlier"
	AnomalyActivityPattern    AnomalyType = "activity_pattern"
	AnomalyBehavioral         AnomalyType = "behavioral"
	AnomalyCorrelation        AnomalyType = "correlation"
)

// Anomaly is a detected deviation from a statistical or behavioral baseline.
// Anomalies are transient: every detection run recomputes them from the
// activity log, so they carry no mutable lifecycle.
type Anomaly struct {
	ID            uuid.UUID
	Type          AnomalyType
	Metric        string
	ObservedValue float64
	BaselineValue float64
	Severity      Severity
	DetectedAt    time.Time
	Description   string
	AgentID       string // empty for population-level anomalies
}

// AnomalySummary holds the aggregate counts for one detection run.
// Degraded lists detectors that failed and were excluded from the result.
type AnomalySummary struct {
	Total      int
	BySeverity map[Severity]int
	ByType     map[AnomalyType]int
	Degraded   []string
}

// AnomalyReport is the full result of a detection run: the ranked anomaly
// list plus summary counts.
type AnomalyReport struct {
	Anomalies   []*Anomaly
	Summary     AnomalySummary
	GeneratedAt time.Time
}
