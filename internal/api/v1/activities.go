package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Lixtic/Intellisynth2/internal/domain"
)

type LogActivityInput struct {
	Body struct {
		AgentID    string  `json:"agent_id" minLength:"1" maxLength:"255" doc:"Reporting agent identifier"`
		ActionType string  `json:"action_type" enum:"decision,data_collection,analysis,compliance_check,security_scan,error" doc:"What the agent was doing"`
		Severity   string  `json:"severity,omitempty" enum:"critical,high,medium,low,info" default:"info" doc:"Severity of the activity"`
		Message    string  `json:"message" maxLength:"4096" doc:"Human-readable description"`
		Timestamp  *string `json:"timestamp,omitempty" format:"date-time" doc:"Activity time; defaults to now"`

		ExecutionTimeMS float64 `json:"execution_time_ms,omitempty" minimum:"0" doc:"Execution time in milliseconds"`
		CPU             float64 `json:"cpu,omitempty" minimum:"0" doc:"CPU usage"`
		Memory          float64 `json:"memory,omitempty" minimum:"0" doc:"Memory usage"`
		Network         float64 `json:"network,omitempty" minimum:"0" doc:"Network usage"`
		Confidence      float64 `json:"confidence,omitempty" minimum:"0" maximum:"1" doc:"Agent confidence"`
		ImpactScore     float64 `json:"impact_score,omitempty" minimum:"0" doc:"Impact score"`
	}
}

type LogActivityOutput struct {
	Body *domain.ActivityRecord
}

type ListActivitiesInput struct {
	AgentID    string `query:"agent_id" doc:"Filter by agent"`
	ActionType string `query:"action_type" doc:"Filter by action type"`
	Severity   string `query:"severity" doc:"Filter by severity"`
	Limit      int    `query:"limit" minimum:"1" maximum:"1000" default:"100" doc:"Max results"`
}

type ListActivitiesOutput struct {
	Body []*domain.ActivityRecord
}

type ActivityStatsOutput struct {
	Body *domain.ActivityStats
}

type IntegrityReportInput struct {
	WindowHours int `query:"window_hours" minimum:"1" maximum:"168" default:"24" doc:"How far back to audit"`
}

type IntegrityReportOutput struct {
	Body struct {
		Checked  int         `json:"checked"`
		Valid    int         `json:"valid"`
		Tampered []uuid.UUID `json:"tampered"`
	}
}

func RegisterActivityRoutes(api huma.API, store DataStore, feed FeedPublisher) {
	huma.Register(api, huma.Operation{
		OperationID:   "log-activity",
		Method:        http.MethodPost,
		Path:          "/activities",
		Summary:       "Log an agent activity",
		Tags:          []string{"Activities"},
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *LogActivityInput) (*LogActivityOutput, error) {
		ts := time.Now().UTC()
		if input.Body.Timestamp != nil {
			parsed, err := time.Parse(time.RFC3339, *input.Body.Timestamp)
			if err != nil {
				return nil, huma.Error422UnprocessableEntity("timestamp must be RFC 3339")
			}
			ts = parsed.UTC()
		}
		// Postgres keeps microseconds; store what the audit will read back.
		ts = ts.Truncate(time.Microsecond)

		record := &domain.ActivityRecord{
			ID:         uuid.New(),
			Timestamp:  ts,
			AgentID:    input.Body.AgentID,
			ActionType: domain.ActionType(input.Body.ActionType),
			Severity:   domain.Severity(input.Body.Severity),
			Message:    input.Body.Message,
			Metrics: domain.ActivityMetrics{
				ExecutionTimeMS: input.Body.ExecutionTimeMS,
				ResourceUsage: domain.ResourceUsage{
					CPU:     input.Body.CPU,
					Memory:  input.Body.Memory,
					Network: input.Body.Network,
				},
				Confidence:  input.Body.Confidence,
				ImpactScore: input.Body.ImpactScore,
			},
			CreatedAt: time.Now().UTC(),
		}
		record.IntegrityHash = domain.ComputeIntegrityHash(record.AgentID, record.Timestamp, record.ActionType, record.Message)

		if err := store.Activities().Insert(ctx, record); err != nil {
			return nil, huma.Error500InternalServerError("failed to log activity", err)
		}

		// Live feed delivery is best effort.
		if feed != nil {
			if err := feed.PublishActivity(ctx, record); err != nil {
				log.Warn().Err(err).Str("activity_id", record.ID.String()).Msg("activity feed publish failed")
			}
		}

		return &LogActivityOutput{Body: record}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-activities",
		Method:      http.MethodGet,
		Path:        "/activities",
		Summary:     "List recent activities, newest first",
		Tags:        []string{"Activities"},
	}, func(ctx context.Context, input *ListActivitiesInput) (*ListActivitiesOutput, error) {
		records, err := store.Activities().List(ctx, domain.ActivityFilter{
			AgentID:    input.AgentID,
			ActionType: domain.ActionType(input.ActionType),
			Severity:   domain.Severity(input.Severity),
			Limit:      input.Limit,
		})
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list activities", err)
		}

		return &ListActivitiesOutput{Body: records}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "activity-stats",
		Method:      http.MethodGet,
		Path:        "/activities/stats",
		Summary:     "Aggregate activity statistics",
		Tags:        []string{"Activities"},
	}, func(ctx context.Context, _ *struct{}) (*ActivityStatsOutput, error) {
		stats, err := store.Activities().Stats(ctx)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to compute stats", err)
		}

		return &ActivityStatsOutput{Body: stats}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "activity-integrity",
		Method:      http.MethodGet,
		Path:        "/activities/integrity",
		Summary:     "Audit integrity hashes over a recent window",
		Tags:        []string{"Activities"},
	}, func(ctx context.Context, input *IntegrityReportInput) (*IntegrityReportOutput, error) {
		since := time.Now().UTC().Add(-time.Duration(input.WindowHours) * time.Hour)
		records, err := store.Activities().List(ctx, domain.ActivityFilter{Since: &since})
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to load activities", err)
		}

		out := &IntegrityReportOutput{}
		out.Body.Tampered = []uuid.UUID{}
		for _, r := range records {
			out.Body.Checked++
			if r.VerifyIntegrity() {
				out.Body.Valid++
			} else {
				out.Body.Tampered = append(out.Body.Tampered, r.ID)
			}
		}

		return out, nil
	})
}
