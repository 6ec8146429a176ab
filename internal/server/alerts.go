package server

import (
	"context"

	"github.com/rs/zerolog/log"

	v1 "github.com/Lixtic/Intellisynth2/internal/api/v1"
	"github.com/Lixtic/Intellisynth2/internal/api/ws"
	"github.com/Lixtic/Intellisynth2/internal/detect"
	"github.com/Lixtic/Intellisynth2/internal/domain"
	"github.com/Lixtic/Intellisynth2/internal/notify"
)

// alertingDetector decorates an AnomalyDetector so every detection run fans
// its anomalies out to Slack and the websocket alert channel. Delivery is
// best effort; the report is returned regardless.
type alertingDetector struct {
	v1.AnomalyDetector
	notifier *notify.SlackNotifier
	hub      *ws.Hub
}

func withAnomalyAlerts(inner v1.AnomalyDetector, notifier *notify.SlackNotifier, hub *ws.Hub) v1.AnomalyDetector {
	return &alertingDetector{AnomalyDetector: inner, notifier: notifier, hub: hub}
}

func (d *alertingDetector) Detect(ctx context.Context, window detect.TimeRange, cfg detect.Config) (*domain.AnomalyReport, error) {
	report, err := d.AnomalyDetector.Detect(ctx, window, cfg)
	if err != nil {
		return nil, err
	}

	for _, a := range report.Anomalies {
		if err := d.notifier.AnomalyAlert(ctx, a); err != nil {
			log.Warn().Err(err).Str("anomaly_id", a.ID.String()).Msg("slack anomaly alert failed")
		}
		if err := d.hub.PublishAlert(ctx, ws.NewAnomalyAlert(a)); err != nil {
			log.Warn().Err(err).Str("anomaly_id", a.ID.String()).Msg("feed anomaly alert failed")
		}
	}

	return report, nil
}

// alertingEngine decorates a ComplianceEngine so newly created violations
// produce the same alert fan-out. Only Evaluate alerts; lifecycle
// transitions pass through untouched.
type alertingEngine struct {
	v1.ComplianceEngine
	notifier *notify.SlackNotifier
	hub      *ws.Hub
}

func withViolationAlerts(inner v1.ComplianceEngine, notifier *notify.SlackNotifier, hub *ws.Hub) v1.ComplianceEngine {
	return &alertingEngine{ComplianceEngine: inner, notifier: notifier, hub: hub}
}

func (e *alertingEngine) Evaluate(ctx context.Context, window detect.TimeRange) ([]*domain.ComplianceViolation, error) {
	created, err := e.ComplianceEngine.Evaluate(ctx, window)
	if err != nil {
		return nil, err
	}

	for _, v := range created {
		if err := e.notifier.ViolationAlert(ctx, v); err != nil {
			log.Warn().Err(err).Str("violation_id", v.ID.String()).Msg("slack violation alert failed")
		}
		if err := e.hub.PublishAlert(ctx, ws.NewViolationAlert(v)); err != nil {
			log.Warn().Err(err).Str("violation_id", v.ID.String()).Msg("feed violation alert failed")
		}
	}

	return created, nil
}
