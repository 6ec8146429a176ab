package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Lixtic/Intellisynth2/internal/domain"
)

type AgentRepo struct {
	pool *pgxpool.Pool
}

func NewAgentRepo(pool *pgxpool.Pool) *AgentRepo {
	return &AgentRepo{pool: pool}
}

func (r *AgentRepo) Create(ctx context.Context, a *domain.Agent) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO agents (id, name, agent_type, status, description, version, last_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		a.ID, a.Name, a.AgentType, a.Status, a.Description, a.Version, a.LastActive, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("agentRepo.Create: %w", err)
	}

	return nil
}

func (r *AgentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Agent, error) {
	return r.get(ctx, `WHERE id = $1`, id)
}

func (r *AgentRepo) GetByName(ctx context.Context, name string) (*domain.Agent, error) {
	return r.get(ctx, `WHERE name = $1`, name)
}

func (r *AgentRepo) get(ctx context.Context, where string, arg any) (*domain.Agent, error) {
	var a domain.Agent

	err := r.pool.QueryRow(ctx,
		`SELECT id, name, agent_type, status, description, version, last_active, created_at, updated_at
		 FROM agents `+where,
		arg,
	).Scan(
		&a.ID, &a.Name, &a.AgentType, &a.Status, &a.Description,
		&a.Version, &a.LastActive, &a.CreatedAt, &a.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("agentRepo.get: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("agentRepo.get: %w", err)
	}

	return &a, nil
}

func (r *AgentRepo) List(ctx context.Context) ([]*domain.Agent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, agent_type, status, description, version, last_active, created_at, updated_at
		 FROM agents ORDER BY name ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("agentRepo.List: %w", err)
	}
	defer rows.Close()

	var agents []*domain.Agent
	for rows.Next() {
		var a domain.Agent

		if err := rows.Scan(
			&a.ID, &a.Name, &a.AgentType, &a.Status, &a.Description,
			&a.Version, &a.LastActive, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("agentRepo.List: scan: %w", err)
		}
		agents = append(agents, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("agentRepo.List: rows: %w", err)
	}

	return agents, nil
}

func (r *AgentRepo) Update(ctx context.Context, a *domain.Agent) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE agents
		 SET name = $1, agent_type = $2, status = $3, description = $4,
		     version = $5, last_active = $6, updated_at = $7
		 WHERE id = $8`,
		a.Name, a.AgentType, a.Status, a.Description, a.Version, a.LastActive, a.UpdatedAt, a.ID,
	)
	if err != nil {
		return fmt.Errorf("agentRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("agentRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *AgentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM agents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("agentRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("agentRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}
