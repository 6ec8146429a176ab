// Package notify pushes anomaly and violation alerts to Slack. Alert
// delivery is best effort: a failed post is logged and never propagated to
// the detection path that triggered it.
package notify

import (
	"context"
	"fmt"

	slacklib "github.com/slack-go/slack"

	"github.com/Lixtic/Intellisynth2/internal/domain"
)

// SlackAPI abstracts the subset of the Slack client used by the notifier.
// This allows testing without real HTTP calls.
type SlackAPI interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slacklib.MsgOption) (string, string, error)
}

// SlackNotifier posts alerts to a fixed alert channel. A nil API or empty
// channel disables it; every method is then a no-op.
type SlackNotifier struct {
	api      SlackAPI
	channel  string
	minAlert domain.Severity
}

// NewSlackNotifier creates a notifier posting to the given channel. Alerts
// below minAlert severity are suppressed.
func NewSlackNotifier(api SlackAPI, channel string, minAlert domain.Severity) *SlackNotifier {
	return &SlackNotifier{api: api, channel: channel, minAlert: minAlert}
}

// Enabled reports whether the notifier is configured to deliver anything.
func (n *SlackNotifier) Enabled() bool {
	return n != nil && n.api != nil && n.channel != ""
}

// AnomalyAlert posts a single anomaly to the alert channel.
func (n *SlackNotifier) AnomalyAlert(ctx context.Context, a *domain.Anomaly) error {
	if !n.Enabled() || !a.Severity.AtLeast(n.minAlert) {
		return nil
	}

	_, _, err := n.api.PostMessageContext(ctx, n.channel,
		slacklib.MsgOptionText(fmt.Sprintf("Anomaly detected: %s", a.Description), false),
		slacklib.MsgOptionBlocks(BuildAnomalyBlocks(a)...),
	)
	if err != nil {
		return fmt.Errorf("notify.SlackNotifier.AnomalyAlert: %w", err)
	}
	return nil
}

// ViolationAlert posts a new compliance violation to the alert channel.
func (n *SlackNotifier) ViolationAlert(ctx context.Context, v *domain.ComplianceViolation) error {
	if !n.Enabled() || !v.Severity.AtLeast(n.minAlert) {
		return nil
	}

	_, _, err := n.api.PostMessageContext(ctx, n.channel,
		slacklib.MsgOptionText(fmt.Sprintf("Compliance violation: %s", v.Description), false),
		slacklib.MsgOptionBlocks(BuildViolationBlocks(v)...),
	)
	if err != nil {
		return fmt.Errorf("notify.SlackNotifier.ViolationAlert: %w", err)
	}
	return nil
}

// BuildAnomalyBlocks builds Slack Block Kit blocks for an anomaly alert.
func BuildAnomalyBlocks(a *domain.Anomaly) []slacklib.Block {
	header := fmt.Sprintf("*Anomaly* `%s` severity `%s`", a.Type, a.Severity)
	body := fmt.Sprintf("%s\n*Metric:* `%s` observed %.4g against baseline %.4g", a.Description, a.Metric, a.ObservedValue, a.BaselineValue)
	if a.AgentID != "" {
		body += fmt.Sprintf("\n*Agent:* `%s`", a.AgentID)
	}

	return []slacklib.Block{
		slacklib.NewSectionBlock(slacklib.NewTextBlockObject(slacklib.MarkdownType, header, false, false), nil, nil),
		slacklib.NewSectionBlock(slacklib.NewTextBlockObject(slacklib.MarkdownType, body, false, false), nil, nil),
	}
}

// BuildViolationBlocks builds Slack Block Kit blocks for a violation alert.
func BuildViolationBlocks(v *domain.ComplianceViolation) []slacklib.Block {
	header := fmt.Sprintf("*Compliance violation* severity `%s`", v.Severity)
	body := fmt.Sprintf("%s\n*Agent:* `%s`\n*Status:* `%s`", v.Description, v.AgentID, v.Status)

	return []slacklib.Block{
		slacklib.NewSectionBlock(slacklib.NewTextBlockObject(slacklib.MarkdownType, header, false, false), nil, nil),
		slacklib.NewSectionBlock(slacklib.NewTextBlockObject(slacklib.MarkdownType, body, false, false), nil, nil),
	}
}
