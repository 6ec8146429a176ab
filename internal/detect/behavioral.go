package detect

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Lixtic/Intellisynth2/internal/domain"
)

// BehavioralAnomalies flags agents whose error fraction over the evaluation
// window exceeds ErrorRateThreshold. Agents with fewer than MinSampleSize
// activities are skipped so a single failed action cannot condemn an agent.
// Severity scales with how far the rate exceeds the threshold.
func BehavioralAnomalies(current []*domain.ActivityRecord, cfg Config, now time.Time) ([]*domain.Anomaly, error) {
	totals := make(map[string]int)
	errCounts := make(map[string]int)
	for _, rec := range current {
		totals[rec.AgentID]++
		if rec.IsError() {
			errCounts[rec.AgentID]++
		}
	}

	var anomalies []*domain.Anomaly
	for agentID, total := range totals {
		if total < cfg.MinSampleSize {
			continue
		}
		rate := float64(errCounts[agentID]) / float64(total)
		if rate <= cfg.ErrorRateThreshold {
			continue
		}

		ratio := rate / cfg.ErrorRateThreshold
		severity := domain.SeverityMedium
		switch {
		case ratio > 3:
			severity = domain.SeverityCritical
		case ratio > 1.5:
			severity = domain.SeverityHigh
		}

		anomalies = append(anomalies, &domain.Anomaly{
			ID:            uuid.New(),
			Type:          domain.AnomalyBehavioral,
			Metric:        "error_rate",
			ObservedValue: rate,
			BaselineValue: cfg.ErrorRateThreshold,
			Severity:      severity,
			DetectedAt:    now,
			AgentID:       agentID,
			Description: fmt.Sprintf("agent %s error rate %.1f%% (%d/%d) exceeds threshold %.1f%%",
				agentID, rate*100, errCounts[agentID], total, cfg.ErrorRateThreshold*100),
		})
	}

	return anomalies, nil
}
