package detect

import "time"

// Config holds the detection thresholds. Zero fields are replaced with the
// defaults below, so API callers can override a subset.
type Config struct {
	// ThresholdMultiplier is k in the |x-mu| > k*sigma outlier test.
	ThresholdMultiplier float64
	// ErrorRateThreshold is the per-agent error fraction above which the
	// behavioral detector flags.
	ErrorRateThreshold float64
	// ActivityMultiplierHigh flags an agent whose recent rate exceeds this
	// multiple of its baseline.
	ActivityMultiplierHigh float64
	// ActivityMultiplierLow flags an agent whose recent rate falls below
	// this multiple of its baseline (only when a baseline exists).
	ActivityMultiplierLow float64
	// IsolationRateThreshold is the fraction of isolated agents above which
	// the correlation detector reports a systemic breakdown.
	IsolationRateThreshold float64
	// MinSampleSize is the minimum per-agent activity count before the
	// behavioral detector will flag.
	MinSampleSize int
	// BaselineWindow is how far before the evaluation window the historical
	// baseline reaches.
	BaselineWindow time.Duration
	// CorrelationBucket is the co-occurrence proximity used by the default
	// correlation criterion.
	CorrelationBucket time.Duration
}

// DefaultConfig returns the stock thresholds.
func DefaultConfig() Config {
	return Config{
		ThresholdMultiplier:    2.0,
		ErrorRateThreshold:     0.2,
		ActivityMultiplierHigh: 3.0,
		ActivityMultiplierLow:  0.2,
		IsolationRateThreshold: 0.7,
		MinSampleSize:          5,
		BaselineWindow:         24 * time.Hour,
		CorrelationBucket:      5 * time.Minute,
	}
}

// withDefaults fills zero-valued fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.ThresholdMultiplier <= 0 {
		c.ThresholdMultiplier = d.ThresholdMultiplier
	}
	if c.ErrorRateThreshold <= 0 {
		c.ErrorRateThreshold = d.ErrorRateThreshold
	}
	if c.ActivityMultiplierHigh <= 0 {
		c.ActivityMultiplierHigh = d.ActivityMultiplierHigh
	}
	if c.ActivityMultiplierLow <= 0 {
		c.ActivityMultiplierLow = d.ActivityMultiplierLow
	}
	if c.IsolationRateThreshold <= 0 {
		c.IsolationRateThreshold = d.IsolationRateThreshold
	}
	if c.MinSampleSize <= 0 {
		c.MinSampleSize = d.MinSampleSize
	}
	if c.BaselineWindow <= 0 {
		c.BaselineWindow = d.BaselineWindow
	}
	if c.CorrelationBucket <= 0 {
		c.CorrelationBucket = d.CorrelationBucket
	}
	return c
}
