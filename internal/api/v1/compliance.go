package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/Lixtic/Intellisynth2/internal/compliance"
	"github.com/Lixtic/Intellisynth2/internal/detect"
	"github.com/Lixtic/Intellisynth2/internal/domain"
)

type CreateRuleInput struct {
	Body struct {
		Name        string `json:"name" minLength:"1" maxLength:"255" doc:"Rule name"`
		RuleType    string `json:"rule_type" enum:"error_threshold,keyword_match,data_retention,access_control,encryption,custom" doc:"Rule type"`
		Severity    string `json:"severity,omitempty" enum:"critical,high,medium,low,info" default:"medium" doc:"Severity of resulting violations"`
		Enabled     *bool  `json:"enabled,omitempty" doc:"Whether the rule is evaluated; defaults to true"`
		Threshold   int    `json:"threshold" minimum:"0" doc:"Count that must be exceeded to fire"`
		Keyword     string `json:"keyword,omitempty" maxLength:"255" doc:"Keyword for keyword_match rules"`
		Description string `json:"description,omitempty" maxLength:"4096" doc:"What the rule enforces"`
	}
}

type RuleOutput struct {
	Body *domain.ComplianceRule
}

type ListRulesOutput struct {
	Body []*domain.ComplianceRule
}

type GetRuleInput struct {
	ID uuid.UUID `path:"id" doc:"Rule ID"`
}

type UpdateRuleInput struct {
	ID   uuid.UUID `path:"id" doc:"Rule ID"`
	Body struct {
		Name        string `json:"name" minLength:"1" maxLength:"255" doc:"Rule name"`
		Severity    string `json:"severity" enum:"critical,high,medium,low,info" doc:"Severity of resulting violations"`
		Enabled     bool   `json:"enabled" doc:"Whether the rule is evaluated"`
		Threshold   int    `json:"threshold" minimum:"0" doc:"Count that must be exceeded to fire"`
		Keyword     string `json:"keyword,omitempty" maxLength:"255" doc:"Keyword for keyword_match rules"`
		Description string `json:"description,omitempty" maxLength:"4096" doc:"What the rule enforces"`
	}
}

type EvaluateComplianceInput struct {
	WindowHours int `query:"window_hours" minimum:"1" maximum:"168" default:"24" doc:"Evaluation window ending now"`
}

type EvaluateComplianceOutput struct {
	Body []*domain.ComplianceViolation
}

type ListViolationsInput struct {
	SinceHours int `query:"since_hours" minimum:"1" maximum:"8760" default:"720" doc:"How far back to list"`
}

type ListViolationsOutput struct {
	Body []*domain.ComplianceViolation
}

type ViolationActionInput struct {
	ID uuid.UUID `path:"id" doc:"Violation ID"`
}

type SnoozeViolationInput struct {
	ID   uuid.UUID `path:"id" doc:"Violation ID"`
	Body struct {
		Hours int `json:"hours" minimum:"1" maximum:"720" doc:"How long to snooze"`
	}
}

type ComplianceStatusInput struct {
	SinceHours int `query:"since_hours" minimum:"1" maximum:"8760" default:"720" doc:"Reporting window"`
}

type ComplianceStatusOutput struct {
	Body *compliance.Status
}

// RegisterRuleAdminRoutes registers the rule management operations. The
// server mounts these behind the admin role.
func RegisterRuleAdminRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-rule",
		Method:        http.MethodPost,
		Path:          "/compliance/rules",
		Summary:       "Create a compliance rule",
		Tags:          []string{"Compliance"},
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *CreateRuleInput) (*RuleOutput, error) {
		if domain.RuleType(input.Body.RuleType) == domain.RuleKeywordMatch && input.Body.Keyword == "" {
			return nil, huma.Error422UnprocessableEntity("keyword_match rules require a keyword")
		}

		now := time.Now().UTC()
		rule := &domain.ComplianceRule{
			ID:          uuid.New(),
			Name:        input.Body.Name,
			Type:        domain.RuleType(input.Body.RuleType),
			Severity:    domain.Severity(input.Body.Severity),
			Enabled:     input.Body.Enabled == nil || *input.Body.Enabled,
			Threshold:   input.Body.Threshold,
			Keyword:     input.Body.Keyword,
			Description: input.Body.Description,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if err := store.Rules().Create(ctx, rule); err != nil {
			return nil, huma.Error500InternalServerError("failed to create rule", err)
		}

		return &RuleOutput{Body: rule}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-rule",
		Method:      http.MethodPut,
		Path:        "/compliance/rules/{id}",
		Summary:     "Update a compliance rule",
		Tags:        []string{"Compliance"},
	}, func(ctx context.Context, input *UpdateRuleInput) (*RuleOutput, error) {
		rule, err := store.Rules().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("rule not found")
			}
			return nil, huma.Error500InternalServerError("failed to get rule", err)
		}

		rule.Name = input.Body.Name
		rule.Severity = domain.Severity(input.Body.Severity)
		rule.Enabled = input.Body.Enabled
		rule.Threshold = input.Body.Threshold
		rule.Keyword = input.Body.Keyword
		rule.Description = input.Body.Description
		rule.UpdatedAt = time.Now().UTC()

		if err := store.Rules().Update(ctx, rule); err != nil {
			return nil, huma.Error500InternalServerError("failed to update rule", err)
		}

		return &RuleOutput{Body: rule}, nil
	})
}

func RegisterComplianceRoutes(api huma.API, store DataStore, engine ComplianceEngine) {
	huma.Register(api, huma.Operation{
		OperationID: "list-rules",
		Method:      http.MethodGet,
		Path:        "/compliance/rules",
		Summary:     "List compliance rules",
		Tags:        []string{"Compliance"},
	}, func(ctx context.Context, _ *struct{}) (*ListRulesOutput, error) {
		rules, err := store.Rules().List(ctx)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list rules", err)
		}

		return &ListRulesOutput{Body: rules}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-rule",
		Method:      http.MethodGet,
		Path:        "/compliance/rules/{id}",
		Summary:     "Get a compliance rule by ID",
		Tags:        []string{"Compliance"},
	}, func(ctx context.Context, input *GetRuleInput) (*RuleOutput, error) {
		rule, err := store.Rules().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("rule not found")
			}
			return nil, huma.Error500InternalServerError("failed to get rule", err)
		}

		return &RuleOutput{Body: rule}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "evaluate-compliance",
		Method:      http.MethodPost,
		Path:        "/compliance/evaluate",
		Summary:     "Evaluate enabled rules over a recent window",
		Tags:        []string{"Compliance"},
	}, func(ctx context.Context, input *EvaluateComplianceInput) (*EvaluateComplianceOutput, error) {
		now := time.Now().UTC()
		window := detect.TimeRange{
			Start: now.Add(-time.Duration(input.WindowHours) * time.Hour),
			End:   now,
		}

		created, err := engine.Evaluate(ctx, window)
		if err != nil {
			if errors.Is(err, domain.ErrStoreUnavailable) {
				return nil, huma.Error503ServiceUnavailable("activity store unavailable")
			}
			return nil, huma.Error500InternalServerError("compliance evaluation failed", err)
		}

		if created == nil {
			created = []*domain.ComplianceViolation{}
		}
		return &EvaluateComplianceOutput{Body: created}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-violations",
		Method:      http.MethodGet,
		Path:        "/compliance/violations",
		Summary:     "List violations, newest first",
		Tags:        []string{"Compliance"},
	}, func(ctx context.Context, input *ListViolationsInput) (*ListViolationsOutput, error) {
		since := time.Now().UTC().Add(-time.Duration(input.SinceHours) * time.Hour)
		violations, err := engine.ListViolations(ctx, since)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list violations", err)
		}

		if violations == nil {
			violations = []*domain.ComplianceViolation{}
		}
		return &ListViolationsOutput{Body: violations}, nil
	})

	transition := func(op string, apply func(context.Context, uuid.UUID) error) func(context.Context, *ViolationActionInput) (*RuleActionResult, error) {
		return func(ctx context.Context, input *ViolationActionInput) (*RuleActionResult, error) {
			if err := apply(ctx, input.ID); err != nil {
				return nil, mapTransitionError(op, err)
			}

			out := &RuleActionResult{}
			out.Body.Status = "ok"
			return out, nil
		}
	}

	huma.Register(api, huma.Operation{
		OperationID: "investigate-violation",
		Method:      http.MethodPost,
		Path:        "/compliance/violations/{id}/investigate",
		Summary:     "Move a violation into investigation",
		Tags:        []string{"Compliance"},
	}, transition("investigate", engine.Investigate))

	huma.Register(api, huma.Operation{
		OperationID: "resolve-violation",
		Method:      http.MethodPost,
		Path:        "/compliance/violations/{id}/resolve",
		Summary:     "Resolve a violation",
		Tags:        []string{"Compliance"},
	}, transition("resolve", engine.Resolve))

	huma.Register(api, huma.Operation{
		OperationID: "dismiss-violation",
		Method:      http.MethodPost,
		Path:        "/compliance/violations/{id}/dismiss",
		Summary:     "Dismiss a violation",
		Tags:        []string{"Compliance"},
	}, transition("dismiss", engine.Dismiss))

	huma.Register(api, huma.Operation{
		OperationID: "snooze-violation",
		Method:      http.MethodPost,
		Path:        "/compliance/violations/{id}/snooze",
		Summary:     "Snooze a violation",
		Tags:        []string{"Compliance"},
	}, func(ctx context.Context, input *SnoozeViolationInput) (*RuleActionResult, error) {
		if err := engine.Snooze(ctx, input.ID, time.Duration(input.Body.Hours)*time.Hour); err != nil {
			return nil, mapTransitionError("snooze", err)
		}

		out := &RuleActionResult{}
		out.Body.Status = "ok"
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "compliance-status",
		Method:      http.MethodGet,
		Path:        "/compliance/status",
		Summary:     "Aggregate compliance status",
		Tags:        []string{"Compliance"},
	}, func(ctx context.Context, input *ComplianceStatusInput) (*ComplianceStatusOutput, error) {
		since := time.Now().UTC().Add(-time.Duration(input.SinceHours) * time.Hour)
		st, err := engine.StatusReport(ctx, since)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to build compliance status", err)
		}

		return &ComplianceStatusOutput{Body: st}, nil
	})
}

// RuleActionResult is the generic acknowledgement body for lifecycle actions.
type RuleActionResult struct {
	Body struct {
		Status string `json:"status"`
	}
}

func mapTransitionError(op string, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return huma.Error404NotFound("violation not found")
	case errors.Is(err, domain.ErrInvalidTransition):
		return huma.Error409Conflict("cannot " + op + " violation in its current state")
	default:
		return huma.Error500InternalServerError("failed to "+op+" violation", err)
	}
}
