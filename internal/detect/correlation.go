package detect

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Lixtic/Intellisynth2/internal/domain"
)

// CorrelationFunc decides whether two activity records from different agents
// count as a cross-reference. The exact criterion is deliberately pluggable;
// the default is co-occurrence within the same CorrelationBucket interval.
type CorrelationFunc func(a, b *domain.ActivityRecord) bool

// BucketCorrelation returns the default criterion: two records correlate
// when their timestamps fall in the same fixed-size time bucket.
func BucketCorrelation(bucket time.Duration) CorrelationFunc {
	return func(a, b *domain.ActivityRecord) bool {
		return a.Timestamp.UTC().Truncate(bucket).Equal(b.Timestamp.UTC().Truncate(bucket))
	}
}

// CorrelationBreakdown measures the fraction of active agents with zero
// cross-references to any other agent's activity. When that fraction
// strictly exceeds IsolationRateThreshold a single population-level anomaly
// is emitted; this is a systemic signal, never per-agent.
func CorrelationBreakdown(current []*domain.ActivityRecord, cfg Config, correlated CorrelationFunc, now time.Time) ([]*domain.Anomaly, error) {
	if correlated == nil {
		correlated = BucketCorrelation(cfg.CorrelationBucket)
	}

	agents := make(map[string]bool) // agentID -> has cross-reference
	for _, rec := range current {
		if _, seen := agents[rec.AgentID]; !seen {
			agents[rec.AgentID] = false
		}
	}
	if len(agents) < 2 {
		// A lone agent has nobody to correlate with.
		return nil, nil
	}

	for i, a := range current {
		if agents[a.AgentID] {
			continue
		}
		for j, b := range current {
			if i == j || a.AgentID == b.AgentID {
				continue
			}
			if correlated(a, b) {
				agents[a.AgentID] = true
				agents[b.AgentID] = true
				break
			}
		}
	}

	var isolated int
	for _, connected := range agents {
		if !connected {
			isolated++
		}
	}

	fraction := float64(isolated) / float64(len(agents))
	if fraction <= cfg.IsolationRateThreshold {
		return nil, nil
	}

	severity := domain.SeverityMedium
	if fraction >= 0.9 {
		severity = domain.SeverityHigh
	}

	return []*domain.Anomaly{{
		ID:            uuid.New(),
		Type:          domain.AnomalyCorrelation,
		Metric:        "isolation_rate",
		ObservedValue: fraction,
		BaselineValue: cfg.IsolationRateThreshold,
		Severity:      severity,
		DetectedAt:    now,
		Description: fmt.Sprintf("%d of %d active agents show no cross-agent correlation (%.0f%% isolated, threshold %.0f%%)",
			isolated, len(agents), fraction*100, cfg.IsolationRateThreshold*100),
	}}, nil
}
