package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type AgentStatus string

const (
	AgentStatusActive      AgentStatus = "active"
	AgentStatusInactive    AgentStatus = "inactive"
	AgentStatusError       AgentStatus = "error"
	AgentStatusMaintenance AgentStatus = "maintenance"
)

// Agent is a registered reporter in the monitoring system. Agents are
// external processes; the registry only tracks identity and liveness, it
// does not manage their execution.
type Agent struct {
	ID          uuid.UUID
	Name        string
	AgentType   string // "monitor", "analyzer", "collector", "decision_maker", "compliance", "security", "general"
	Status      AgentStatus
	Description string
	Version     string
	LastActive  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type AgentRepository interface {
	Create(ctx context.Context, a *Agent) error
	GetByID(ctx context.Context, id uuid.UUID) (*Agent, error)
	GetByName(ctx context.Context, name string) (*Agent, error)
	List(ctx context.Context) ([]*Agent, error)
	Update(ctx context.Context, a *Agent) error
	Delete(ctx context.Context, id uuid.UUID) error
}
