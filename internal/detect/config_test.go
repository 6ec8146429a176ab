package detect_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Lixtic/Intellisynth2/internal/detect"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := detect.DefaultConfig()

	assert.InDelta(t, 2.0, cfg.ThresholdMultiplier, 1e-9)
	assert.InDelta(t, 0.2, cfg.ErrorRateThreshold, 1e-9)
	assert.InDelta(t, 3.0, cfg.ActivityMultiplierHigh, 1e-9)
	assert.InDelta(t, 0.2, cfg.ActivityMultiplierLow, 1e-9)
	assert.InDelta(t, 0.7, cfg.IsolationRateThreshold, 1e-9)
	assert.Equal(t, 5, cfg.MinSampleSize)
	assert.Equal(t, 24*time.Hour, cfg.BaselineWindow)
	assert.Equal(t, 5*time.Minute, cfg.CorrelationBucket)
}
