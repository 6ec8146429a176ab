package detect

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Lixtic/Intellisynth2/internal/domain"
)

// ActivityPatterns compares each agent's recent activities-per-hour rate
// against its own historical baseline. Agents running hotter than
// ActivityMultiplierHigh times their baseline are flagged high-rate; agents
// below ActivityMultiplierLow times the baseline are flagged low-rate. An
// agent with no historical baseline is never flagged: it cannot be "too
// quiet" and has no reference for "too busy".
func ActivityPatterns(history, current []*domain.ActivityRecord, histRange, curRange TimeRange, cfg Config, now time.Time) ([]*domain.Anomaly, error) {
	baseCounts := make(map[string]int)
	for _, rec := range history {
		baseCounts[rec.AgentID]++
	}
	curCounts := make(map[string]int)
	for _, rec := range current {
		curCounts[rec.AgentID]++
	}

	histHours := histRange.Hours()
	curHours := curRange.Hours()

	var anomalies []*domain.Anomaly
	for agentID, baseCount := range baseCounts {
		baseline := float64(baseCount) / histHours
		if baseline <= 0 {
			continue
		}
		recent := float64(curCounts[agentID]) / curHours

		switch {
		case recent > cfg.ActivityMultiplierHigh*baseline:
			anomalies = append(anomalies, &domain.Anomaly{
				ID:            uuid.New(),
				Type:          domain.AnomalyActivityPattern,
				Metric:        "activity_rate_per_hour",
				ObservedValue: recent,
				BaselineValue: baseline,
				Severity:      domain.SeverityMedium,
				DetectedAt:    now,
				AgentID:       agentID,
				Description: fmt.Sprintf("agent %s activity rate %.2f/hr exceeds %.1fx baseline %.2f/hr",
					agentID, recent, cfg.ActivityMultiplierHigh, baseline),
			})
		case recent < cfg.ActivityMultiplierLow*baseline:
			anomalies = append(anomalies, &domain.Anomaly{
				ID:            uuid.New(),
				Type:          domain.AnomalyActivityPattern,
				Metric:        "activity_rate_per_hour",
				ObservedValue: recent,
				BaselineValue: baseline,
				Severity:      domain.SeverityLow,
				DetectedAt:    now,
				AgentID:       agentID,
				Description: fmt.Sprintf("agent %s activity rate %.2f/hr is below %.1fx baseline %.2f/hr",
					agentID, recent, cfg.ActivityMultiplierLow, baseline),
			})
		}
	}

	return anomalies, nil
}
