package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/Lixtic/Intellisynth2/internal/detect"
	"github.com/Lixtic/Intellisynth2/internal/domain"
)

type DetectAnomaliesInput struct {
	WindowHours         int     `query:"window_hours" minimum:"1" maximum:"24" default:"1" doc:"Evaluation window ending now"`
	ThresholdMultiplier float64 `query:"threshold_multiplier" minimum:"0.5" maximum:"10" doc:"Override the sigma multiplier"`
	ErrorRateThreshold  float64 `query:"error_rate_threshold" minimum:"0" maximum:"1" doc:"Override the error-rate threshold"`
}

type DetectAnomaliesOutput struct {
	Body *domain.AnomalyReport
}

type AnomalySummaryOutput struct {
	Body *domain.AnomalySummary
}

func RegisterAnomalyRoutes(api huma.API, detector AnomalyDetector) {
	run := func(ctx context.Context, input *DetectAnomaliesInput) (*domain.AnomalyReport, error) {
		now := time.Now().UTC()
		window := detect.TimeRange{
			Start: now.Add(-time.Duration(input.WindowHours) * time.Hour),
			End:   now,
		}

		cfg := detect.Config{
			ThresholdMultiplier: input.ThresholdMultiplier,
			ErrorRateThreshold:  input.ErrorRateThreshold,
		}

		report, err := detector.Detect(ctx, window, cfg)
		if err != nil {
			if errors.Is(err, domain.ErrStoreUnavailable) {
				return nil, huma.Error503ServiceUnavailable("activity store unavailable")
			}
			return nil, huma.Error500InternalServerError("anomaly detection failed", err)
		}

		return report, nil
	}

	huma.Register(api, huma.Operation{
		OperationID: "detect-anomalies",
		Method:      http.MethodGet,
		Path:        "/anomalies",
		Summary:     "Run anomaly detection over a recent window",
		Tags:        []string{"Anomalies"},
	}, func(ctx context.Context, input *DetectAnomaliesInput) (*DetectAnomaliesOutput, error) {
		report, err := run(ctx, input)
		if err != nil {
			return nil, err
		}
		return &DetectAnomaliesOutput{Body: report}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "anomaly-summary",
		Method:      http.MethodGet,
		Path:        "/anomalies/summary",
		Summary:     "Summarize anomalies over a recent window",
		Tags:        []string{"Anomalies"},
	}, func(ctx context.Context, input *DetectAnomaliesInput) (*AnomalySummaryOutput, error) {
		report, err := run(ctx, input)
		if err != nil {
			return nil, err
		}
		return &AnomalySummaryOutput{Body: &report.Summary}, nil
	})
}
