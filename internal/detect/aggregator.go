package detect

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Lixtic/Intellisynth2/internal/domain"
)

// Aggregator is the single entry point for anomaly detection. It queries the
// activity store once per run and fans the windows out to the four
// detectors; the detectors are pure functions of their input, so they run
// concurrently without coordination.
type Aggregator struct {
	activities domain.ActivityRepository
	correlated CorrelationFunc // nil selects the bucket default
}

func NewAggregator(activities domain.ActivityRepository, correlated CorrelationFunc) *Aggregator {
	return &Aggregator{activities: activities, correlated: correlated}
}

// detectorRun pairs a detector name with its invocation, for uniform
// failure handling.
type detectorRun struct {
	name string
	fn   func() ([]*domain.Anomaly, error)
}

// Detect runs all detectors over the given window and returns the merged,
// ranked report. A failing detector is logged and listed in
// Summary.Degraded; it never aborts the others. A store query failure aborts
// the whole run with ErrStoreUnavailable: no partial window is better than a
// wrong one. Given an unchanged window and config the anomaly set is
// identical across runs (IDs aside).
func (a *Aggregator) Detect(ctx context.Context, window TimeRange, cfg Config) (*domain.AnomalyReport, error) {
	cfg = cfg.withDefaults()
	now := time.Now().UTC()

	histRange := TimeRange{Start: window.Start.Add(-cfg.BaselineWindow), End: window.Start}

	history, err := a.activities.Query(ctx, histRange.Start, histRange.End, "")
	if err != nil {
		return nil, fmt.Errorf("detect.Aggregator.Detect: history query: %w: %w", domain.ErrStoreUnavailable, err)
	}
	current, err := a.activities.Query(ctx, window.Start, window.End, "")
	if err != nil {
		return nil, fmt.Errorf("detect.Aggregator.Detect: window query: %w: %w", domain.ErrStoreUnavailable, err)
	}

	runs := []detectorRun{
		{"statistical_outlier", func() ([]*domain.Anomaly, error) {
			return StatisticalOutliers(history, current, window, cfg, now)
		}},
		{"activity_pattern", func() ([]*domain.Anomaly, error) {
			return ActivityPatterns(history, current, histRange, window, cfg, now)
		}},
		{"behavioral", func() ([]*domain.Anomaly, error) {
			return BehavioralAnomalies(current, cfg, now)
		}},
		{"correlation", func() ([]*domain.Anomaly, error) {
			return CorrelationBreakdown(current, cfg, a.correlated, now)
		}},
	}

	results := make([][]*domain.Anomaly, len(runs))
	errs := make([]error, len(runs))

	var wg sync.WaitGroup
	for i, run := range runs {
		wg.Add(1)
		go func(i int, run detectorRun) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					errs[i] = fmt.Errorf("detect.Aggregator.Detect: %s panicked: %v", run.name, r)
				}
			}()
			results[i], errs[i] = run.fn()
		}(i, run)
	}
	wg.Wait()

	report := &domain.AnomalyReport{
		Summary: domain.AnomalySummary{
			BySeverity: make(map[domain.Severity]int),
			ByType:     make(map[domain.AnomalyType]int),
		},
		GeneratedAt: now,
	}

	for i, run := range runs {
		if errs[i] != nil {
			log.Warn().Err(errs[i]).Str("detector", run.name).Msg("detector degraded")
			report.Summary.Degraded = append(report.Summary.Degraded, run.name)
		}
		// A detector that excluded malformed records still returns the
		// anomalies it could compute; keep the partial result.
		report.Anomalies = append(report.Anomalies, results[i]...)
	}

	sortAnomalies(report.Anomalies)

	report.Summary.Total = len(report.Anomalies)
	for _, an := range report.Anomalies {
		report.Summary.BySeverity[an.Severity]++
		report.Summary.ByType[an.Type]++
	}

	return report, nil
}

// sortAnomalies orders by severity rank (critical first), then detection
// time newest first, then type/metric/agent for a deterministic order within
// a single run.
func sortAnomalies(anomalies []*domain.Anomaly) {
	sort.SliceStable(anomalies, func(i, j int) bool {
		a, b := anomalies[i], anomalies[j]
		if a.Severity.Rank() != b.Severity.Rank() {
			return a.Severity.Rank() < b.Severity.Rank()
		}
		if !a.DetectedAt.Equal(b.DetectedAt) {
			return a.DetectedAt.After(b.DetectedAt)
		}
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		if a.Metric != b.Metric {
			return a.Metric < b.Metric
		}
		return a.AgentID < b.AgentID
	})
}
