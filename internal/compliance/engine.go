package compliance

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Lixtic/Intellisynth2/internal/detect"
	"github.com/Lixtic/Intellisynth2/internal/domain"
)

// Engine evaluates enabled compliance rules against an activity window and
// manages the violation lifecycle. Rules are read-only input; violations are
// the only state the engine mutates, and only through explicit transitions.
type Engine struct {
	rules      domain.RuleRepository
	violations domain.ViolationRepository
	activities domain.ActivityRepository
}

func NewEngine(rules domain.RuleRepository, violations domain.ViolationRepository, activities domain.ActivityRepository) *Engine {
	return &Engine{rules: rules, violations: violations, activities: activities}
}

// Evaluate applies every enabled rule to the window and returns the
// violations created by this run. A rule+agent pair with an existing open or
// investigating violation is left untouched: one active violation per pair.
// The check-then-create is not atomic across concurrent evaluations; the
// store's uniqueness constraint is the backstop.
func (e *Engine) Evaluate(ctx context.Context, window detect.TimeRange) ([]*domain.ComplianceViolation, error) {
	rules, err := e.rules.ListEnabled(ctx)
	if err != nil {
		return nil, fmt.Errorf("compliance.Engine.Evaluate: list rules: %w", err)
	}

	activities, err := e.activities.Query(ctx, window.Start, window.End, "")
	if err != nil {
		return nil, fmt.Errorf("compliance.Engine.Evaluate: activity query: %w: %w", domain.ErrStoreUnavailable, err)
	}

	now := time.Now().UTC()
	var created []*domain.ComplianceViolation

	for _, rule := range rules {
		counts, evaluable := countMatches(rule, activities)
		if !evaluable {
			log.Debug().Str("rule", rule.Name).Str("type", string(rule.Type)).
				Msg("rule type has no machine-evaluable condition, skipped")
			continue
		}

		// Sort agent IDs so violation creation order is deterministic.
		agentIDs := make([]string, 0, len(counts))
		for agentID := range counts {
			agentIDs = append(agentIDs, agentID)
		}
		sort.Strings(agentIDs)

		for _, agentID := range agentIDs {
			count := counts[agentID]
			if count <= rule.Threshold {
				continue
			}

			_, err := e.violations.FindActive(ctx, rule.ID, agentID)
			if err == nil {
				continue // active violation already tracked for this pair
			}
			if !errors.Is(err, domain.ErrNotFound) {
				return created, fmt.Errorf("compliance.Engine.Evaluate: dedup lookup: %w", err)
			}

			v := &domain.ComplianceViolation{
				ID:         uuid.New(),
				RuleID:     rule.ID,
				Severity:   rule.Severity,
				AgentID:    agentID,
				DetectedAt: now,
				Status:     domain.ViolationOpen,
				Description: fmt.Sprintf("rule %q: %d matching activities exceed threshold %d",
					rule.Name, count, rule.Threshold),
			}
			if err := e.violations.Create(ctx, v); err != nil {
				return created, fmt.Errorf("compliance.Engine.Evaluate: create violation: %w", err)
			}
			created = append(created, v)
		}
	}

	return created, nil
}

// countMatches applies the rule's typed condition per agent. The second
// return is false for rule types without a machine-evaluable condition.
func countMatches(rule *domain.ComplianceRule, activities []*domain.ActivityRecord) (map[string]int, bool) {
	counts := make(map[string]int)

	switch rule.Type {
	case domain.RuleErrorThreshold:
		for _, a := range activities {
			if a.IsError() {
				counts[a.AgentID]++
			}
		}
	case domain.RuleKeywordMatch:
		keyword := strings.ToLower(rule.Keyword)
		if keyword == "" {
			return nil, false
		}
		for _, a := range activities {
			if strings.Contains(strings.ToLower(a.Message), keyword) {
				counts[a.AgentID]++
			}
		}
	default:
		return nil, false
	}

	return counts, true
}

// Investigate moves an open violation into triage.
func (e *Engine) Investigate(ctx context.Context, id uuid.UUID) error {
	return e.transition(ctx, id, domain.ViolationInvestigating, nil, nil)
}

// Resolve closes a violation and stamps ResolvedAt.
func (e *Engine) Resolve(ctx context.Context, id uuid.UUID) error {
	now := time.Now().UTC()
	return e.transition(ctx, id, domain.ViolationResolved, &now, nil)
}

// Snooze parks a violation until the given duration elapses, after which it
// reopens on the next read.
func (e *Engine) Snooze(ctx context.Context, id uuid.UUID, d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("compliance.Engine.Snooze: duration must be positive, got %s", d)
	}
	until := time.Now().UTC().Add(d)
	return e.transition(ctx, id, domain.ViolationSnoozed, nil, &until)
}

// Dismiss closes a violation without resolution. Dismissed records are
// retained for audit.
func (e *Engine) Dismiss(ctx context.Context, id uuid.UUID) error {
	return e.transition(ctx, id, domain.ViolationDismissed, nil, nil)
}

func (e *Engine) transition(ctx context.Context, id uuid.UUID, to domain.ViolationStatus, resolvedAt, snoozeUntil *time.Time) error {
	v, err := e.getCurrent(ctx, id)
	if err != nil {
		return fmt.Errorf("compliance.Engine.transition: %w", err)
	}

	if !v.Status.ValidTransition(to) {
		return fmt.Errorf("compliance: transition %s -> %s: %w", v.Status, to, domain.ErrInvalidTransition)
	}

	if err := e.violations.UpdateStatus(ctx, id, to, resolvedAt, snoozeUntil); err != nil {
		return fmt.Errorf("compliance.Engine.transition: %w", err)
	}
	return nil
}

// getCurrent loads a violation and applies the lazy snooze expiry: a
// snoozed violation whose timer has elapsed reopens before anything else
// sees it. There is no background scheduler; expiry happens on read.
func (e *Engine) getCurrent(ctx context.Context, id uuid.UUID) (*domain.ComplianceViolation, error) {
	v, err := e.violations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return e.reopenIfElapsed(ctx, v)
}

func (e *Engine) reopenIfElapsed(ctx context.Context, v *domain.ComplianceViolation) (*domain.ComplianceViolation, error) {
	if v.Status != domain.ViolationSnoozed || v.SnoozeUntil == nil || time.Now().UTC().Before(*v.SnoozeUntil) {
		return v, nil
	}

	if err := e.violations.UpdateStatus(ctx, v.ID, domain.ViolationOpen, nil, nil); err != nil {
		return nil, fmt.Errorf("reopen elapsed snooze: %w", err)
	}
	v.Status = domain.ViolationOpen
	v.SnoozeUntil = nil
	return v, nil
}

// ListViolations returns violations detected since the given time, with
// elapsed snoozes reopened.
func (e *Engine) ListViolations(ctx context.Context, since time.Time) ([]*domain.ComplianceViolation, error) {
	violations, err := e.violations.ListSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("compliance.Engine.ListViolations: %w", err)
	}

	for i, v := range violations {
		refreshed, err := e.reopenIfElapsed(ctx, v)
		if err != nil {
			return nil, fmt.Errorf("compliance.Engine.ListViolations: %w", err)
		}
		violations[i] = refreshed
	}
	return violations, nil
}

// ResolutionRate reports the percentage of violations resolved since the
// given time. A window with no violations is vacuously 100% compliant.
func (e *Engine) ResolutionRate(ctx context.Context, since time.Time) (float64, error) {
	violations, err := e.ListViolations(ctx, since)
	if err != nil {
		return 0, fmt.Errorf("compliance.Engine.ResolutionRate: %w", err)
	}

	if len(violations) == 0 {
		return 100, nil
	}

	var resolved int
	for _, v := range violations {
		if v.Status == domain.ViolationResolved {
			resolved++
		}
	}
	return float64(resolved) / float64(len(violations)) * 100, nil
}

// Status is the aggregate compliance picture rendered on the dashboard.
type Status struct {
	Overall        string // "compliant", "warning", "non_compliant"
	ResolutionRate float64
	ByStatus       map[domain.ViolationStatus]int
	RulesEnabled   int
}

// StatusReport summarizes violations from the reporting window.
func (e *Engine) StatusReport(ctx context.Context, since time.Time) (*Status, error) {
	violations, err := e.ListViolations(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("compliance.Engine.StatusReport: %w", err)
	}

	rules, err := e.rules.ListEnabled(ctx)
	if err != nil {
		return nil, fmt.Errorf("compliance.Engine.StatusReport: %w", err)
	}

	st := &Status{
		ResolutionRate: 100,
		ByStatus:       make(map[domain.ViolationStatus]int),
		RulesEnabled:   len(rules),
	}

	var resolved int
	for _, v := range violations {
		st.ByStatus[v.Status]++
		if v.Status == domain.ViolationResolved {
			resolved++
		}
	}
	if len(violations) > 0 {
		st.ResolutionRate = float64(resolved) / float64(len(violations)) * 100
	}

	switch {
	case st.ResolutionRate > 95:
		st.Overall = "compliant"
	case st.ResolutionRate < 80:
		st.Overall = "non_compliant"
	default:
		st.Overall = "warning"
	}

	return st, nil
}
