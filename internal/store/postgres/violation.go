package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Lixtic/Intellisynth2/internal/domain"
)

// ViolationRepo persists compliance violations. A partial unique index on
// (rule_id, agent_id) over active rows enforces the one-active-violation
// invariant even under concurrent evaluations.
type ViolationRepo struct {
	pool *pgxpool.Pool
}

func NewViolationRepo(pool *pgxpool.Pool) *ViolationRepo {
	return &ViolationRepo{pool: pool}
}

func (r *ViolationRepo) Create(ctx context.Context, v *domain.ComplianceViolation) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO compliance_violations (id, rule_id, severity, description, agent_id, detected_at, status, resolved_at, snooze_until)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		v.ID, v.RuleID, v.Severity, v.Description, v.AgentID,
		v.DetectedAt, v.Status, v.ResolvedAt, v.SnoozeUntil,
	)
	if err != nil {
		return fmt.Errorf("violationRepo.Create: %w", err)
	}

	return nil
}

func (r *ViolationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ComplianceViolation, error) {
	var v domain.ComplianceViolation

	err := r.pool.QueryRow(ctx,
		`SELECT id, rule_id, severity, description, agent_id, detected_at, status, resolved_at, snooze_until
		 FROM compliance_violations WHERE id = $1`,
		id,
	).Scan(
		&v.ID, &v.RuleID, &v.Severity, &v.Description, &v.AgentID,
		&v.DetectedAt, &v.Status, &v.ResolvedAt, &v.SnoozeUntil,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("violationRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("violationRepo.GetByID: %w", err)
	}

	return &v, nil
}

func (r *ViolationRepo) FindActive(ctx context.Context, ruleID uuid.UUID, agentID string) (*domain.ComplianceViolation, error) {
	var v domain.ComplianceViolation

	err := r.pool.QueryRow(ctx,
		`SELECT id, rule_id, severity, description, agent_id, detected_at, status, resolved_at, snooze_until
		 FROM compliance_violations
		 WHERE rule_id = $1 AND agent_id = $2 AND status IN ('open', 'investigating')`,
		ruleID, agentID,
	).Scan(
		&v.ID, &v.RuleID, &v.Severity, &v.Description, &v.AgentID,
		&v.DetectedAt, &v.Status, &v.ResolvedAt, &v.SnoozeUntil,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("violationRepo.FindActive: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("violationRepo.FindActive: %w", err)
	}

	return &v, nil
}

func (r *ViolationRepo) ListSince(ctx context.Context, since time.Time) ([]*domain.ComplianceViolation, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, rule_id, severity, description, agent_id, detected_at, status, resolved_at, snooze_until
		 FROM compliance_violations WHERE detected_at >= $1
		 ORDER BY detected_at DESC`,
		since,
	)
	if err != nil {
		return nil, fmt.Errorf("violationRepo.ListSince: %w", err)
	}
	defer rows.Close()

	var violations []*domain.ComplianceViolation
	for rows.Next() {
		var v domain.ComplianceViolation

		if err := rows.Scan(
			&v.ID, &v.RuleID, &v.Severity, &v.Description, &v.AgentID,
			&v.DetectedAt, &v.Status, &v.ResolvedAt, &v.SnoozeUntil,
		); err != nil {
			return nil, fmt.Errorf("violationRepo.ListSince: scan: %w", err)
		}
		violations = append(violations, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("violationRepo.ListSince: rows: %w", err)
	}

	return violations, nil
}

func (r *ViolationRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ViolationStatus, resolvedAt, snoozeUntil *time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE compliance_violations
		 SET status = $1, resolved_at = $2, snooze_until = $3
		 WHERE id = $4`,
		status, resolvedAt, snoozeUntil, id,
	)
	if err != nil {
		return fmt.Errorf("violationRepo.UpdateStatus: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("violationRepo.UpdateStatus: %w", domain.ErrNotFound)
	}

	return nil
}
