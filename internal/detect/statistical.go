package detect

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/Lixtic/Intellisynth2/internal/domain"
)

// metricFunc computes one tracked metric over a set of records. It returns
// the value, whether the metric is defined for this set, and how many
// records had to be excluded for malformed payloads.
type metricFunc func(recs []*domain.ActivityRecord, window TimeRange) (value float64, ok bool, malformed int)

// trackedMetrics are the series the outlier detector watches.
var trackedMetrics = []struct {
	name string
	fn   metricFunc
}{
	{"error_rate", metricErrorRate},
	{"activity_count", metricActivityRate},
	{"avg_execution_time", metricAvgExecutionTime},
}

func metricErrorRate(recs []*domain.ActivityRecord, _ TimeRange) (float64, bool, int) {
	if len(recs) == 0 {
		return 0, false, 0
	}
	var errors int
	for _, rec := range recs {
		if rec.IsError() {
			errors++
		}
	}
	return float64(errors) / float64(len(recs)), true, 0
}

func metricActivityRate(recs []*domain.ActivityRecord, window TimeRange) (float64, bool, int) {
	return float64(len(recs)) / window.Hours(), true, 0
}

func metricAvgExecutionTime(recs []*domain.ActivityRecord, _ TimeRange) (float64, bool, int) {
	var sum float64
	var n, malformed int
	for _, rec := range recs {
		v := rec.Metrics.ExecutionTimeMS
		if !wellFormed(v) {
			malformed++
			continue
		}
		if v > 0 {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0, false, malformed
	}
	return sum / float64(n), true, malformed
}

// StatisticalOutliers compares each tracked metric's current-window value
// against the historical baseline (mean and sample standard deviation over
// hourly sub-windows). A metric is flagged iff |x-mu| strictly exceeds
// k*sigma. Fewer than two historical samples means the baseline is
// undefined and the metric is skipped. When sigma is zero and the current
// value still differs from the mean, severity is scaled by the absolute
// deviation instead of the sigma ratio.
//
// Returns domain.ErrMalformedRecord (wrapped) alongside any anomalies when
// records had to be excluded; the result is then partial, not absent.
func StatisticalOutliers(history, current []*domain.ActivityRecord, curRange TimeRange, cfg Config, now time.Time) ([]*domain.Anomaly, error) {
	var anomalies []*domain.Anomaly
	var malformedTotal int

	buckets := hourlyBuckets(history)

	for _, tm := range trackedMetrics {
		var samples []float64
		for _, bucket := range buckets {
			h := bucket[0].Timestamp.UTC().Truncate(time.Hour)
			hourRange := TimeRange{Start: h, End: h.Add(time.Hour)}
			v, ok, malformed := tm.fn(bucket, hourRange)
			malformedTotal += malformed
			if ok {
				samples = append(samples, v)
			}
		}

		// Fewer than two samples: sigma is undefined, skip. Insufficient
		// data is not evidence of anomaly.
		if len(samples) < 2 {
			continue
		}

		cur, ok, malformed := tm.fn(current, curRange)
		malformedTotal += malformed
		if !ok {
			continue
		}

		mu := mean(samples)
		sigma := stddev(samples)
		dev := math.Abs(cur - mu)

		var severity domain.Severity
		switch {
		case sigma == 0:
			if dev == 0 {
				continue
			}
			// Constant history: scale by deviation relative to the mean
			// rather than dividing by a zero sigma.
			if dev > math.Max(math.Abs(mu), 1e-9) {
				severity = domain.SeverityHigh
			} else {
				severity = domain.SeverityMedium
			}
		case dev > cfg.ThresholdMultiplier*sigma:
			if dev > 2*cfg.ThresholdMultiplier*sigma {
				severity = domain.SeverityHigh
			} else {
				severity = domain.SeverityMedium
			}
		default:
			continue
		}

		anomalies = append(anomalies, &domain.Anomaly{
			ID:            uuid.New(),
			Type:          domain.AnomalyStatisticalOutlier,
			Metric:        tm.name,
			ObservedValue: cur,
			BaselineValue: mu,
			Severity:      severity,
			DetectedAt:    now,
			Description: fmt.Sprintf("metric %s value %.4f deviates from baseline %.4f (sigma %.4f, k %.1f)",
				tm.name, cur, mu, sigma, cfg.ThresholdMultiplier),
		})
	}

	if malformedTotal > 0 {
		return anomalies, fmt.Errorf("detect.StatisticalOutliers: %d records excluded: %w",
			malformedTotal, domain.ErrMalformedRecord)
	}
	return anomalies, nil
}
