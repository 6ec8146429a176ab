package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/Lixtic/Intellisynth2/internal/domain"
)

type RegisterAgentInput struct {
	Body struct {
		Name        string `json:"name" minLength:"1" maxLength:"255" doc:"Unique agent name"`
		AgentType   string `json:"agent_type,omitempty" enum:"monitor,analyzer,collector,decision_maker,compliance,security,general" default:"general" doc:"Agent role"`
		Description string `json:"description,omitempty" maxLength:"4096" doc:"What the agent does"`
		Version     string `json:"version,omitempty" maxLength:"63" doc:"Agent version string"`
	}
}

type AgentOutput struct {
	Body *domain.Agent
}

type ListAgentsOutput struct {
	Body []*domain.Agent
}

type GetAgentInput struct {
	ID uuid.UUID `path:"id" doc:"Agent ID"`
}

type UpdateAgentInput struct {
	ID   uuid.UUID `path:"id" doc:"Agent ID"`
	Body struct {
		Status      string `json:"status" enum:"active,inactive,error,maintenance" doc:"Agent status"`
		Description string `json:"description,omitempty" maxLength:"4096" doc:"What the agent does"`
		Version     string `json:"version,omitempty" maxLength:"63" doc:"Agent version string"`
	}
}

type DeleteAgentInput struct {
	ID uuid.UUID `path:"id" doc:"Agent ID"`
}

type DeleteAgentOutput struct {
	Body struct {
		Status string `json:"status"`
	}
}

func RegisterAgentRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID:   "register-agent",
		Method:        http.MethodPost,
		Path:          "/agents",
		Summary:       "Register a reporting agent",
		Tags:          []string{"Agents"},
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *RegisterAgentInput) (*AgentOutput, error) {
		if _, err := store.Agents().GetByName(ctx, input.Body.Name); err == nil {
			return nil, huma.Error409Conflict("agent name already registered")
		}

		now := time.Now().UTC()
		agent := &domain.Agent{
			ID:          uuid.New(),
			Name:        input.Body.Name,
			AgentType:   input.Body.AgentType,
			Status:      domain.AgentStatusActive,
			Description: input.Body.Description,
			Version:     input.Body.Version,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if err := store.Agents().Create(ctx, agent); err != nil {
			return nil, huma.Error500InternalServerError("failed to register agent", err)
		}

		return &AgentOutput{Body: agent}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-agents",
		Method:      http.MethodGet,
		Path:        "/agents",
		Summary:     "List registered agents",
		Tags:        []string{"Agents"},
	}, func(ctx context.Context, _ *struct{}) (*ListAgentsOutput, error) {
		agents, err := store.Agents().List(ctx)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list agents", err)
		}

		return &ListAgentsOutput{Body: agents}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-agent",
		Method:      http.MethodGet,
		Path:        "/agents/{id}",
		Summary:     "Get an agent by ID",
		Tags:        []string{"Agents"},
	}, func(ctx context.Context, input *GetAgentInput) (*AgentOutput, error) {
		agent, err := store.Agents().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("agent not found")
			}
			return nil, huma.Error500InternalServerError("failed to get agent", err)
		}

		return &AgentOutput{Body: agent}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-agent",
		Method:      http.MethodPut,
		Path:        "/agents/{id}",
		Summary:     "Update an agent's status or metadata",
		Tags:        []string{"Agents"},
	}, func(ctx context.Context, input *UpdateAgentInput) (*AgentOutput, error) {
		agent, err := store.Agents().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("agent not found")
			}
			return nil, huma.Error500InternalServerError("failed to get agent", err)
		}

		agent.Status = domain.AgentStatus(input.Body.Status)
		agent.Description = input.Body.Description
		agent.Version = input.Body.Version
		agent.UpdatedAt = time.Now().UTC()

		if err := store.Agents().Update(ctx, agent); err != nil {
			return nil, huma.Error500InternalServerError("failed to update agent", err)
		}

		return &AgentOutput{Body: agent}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-agent",
		Method:      http.MethodDelete,
		Path:        "/agents/{id}",
		Summary:     "Deregister an agent",
		Tags:        []string{"Agents"},
	}, func(ctx context.Context, input *DeleteAgentInput) (*DeleteAgentOutput, error) {
		if err := store.Agents().Delete(ctx, input.ID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("agent not found")
			}
			return nil, huma.Error500InternalServerError("failed to delete agent", err)
		}

		out := &DeleteAgentOutput{}
		out.Body.Status = "deleted"
		return out, nil
	})
}
