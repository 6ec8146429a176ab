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

type RuleRepo struct {
	pool *pgxpool.Pool
}

func NewRuleRepo(pool *pgxpool.Pool) *RuleRepo {
	return &RuleRepo{pool: pool}
}

func (r *RuleRepo) Create(ctx context.Context, rule *domain.ComplianceRule) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO compliance_rules (id, name, rule_type, severity, enabled, threshold, keyword, description, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		rule.ID, rule.Name, rule.Type, rule.Severity, rule.Enabled,
		rule.Threshold, rule.Keyword, rule.Description, rule.CreatedAt, rule.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("ruleRepo.Create: %w", err)
	}

	return nil
}

func (r *RuleRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ComplianceRule, error) {
	var rule domain.ComplianceRule

	err := r.pool.QueryRow(ctx,
		`SELECT id, name, rule_type, severity, enabled, threshold, keyword, description, created_at, updated_at
		 FROM compliance_rules WHERE id = $1`,
		id,
	).Scan(
		&rule.ID, &rule.Name, &rule.Type, &rule.Severity, &rule.Enabled,
		&rule.Threshold, &rule.Keyword, &rule.Description, &rule.CreatedAt, &rule.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("ruleRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("ruleRepo.GetByID: %w", err)
	}

	return &rule, nil
}

func (r *RuleRepo) List(ctx context.Context) ([]*domain.ComplianceRule, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, rule_type, severity, enabled, threshold, keyword, description, created_at, updated_at
		 FROM compliance_rules ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("ruleRepo.List: %w", err)
	}
	defer rows.Close()

	return scanRules(rows, "ruleRepo.List")
}

func (r *RuleRepo) ListEnabled(ctx context.Context) ([]*domain.ComplianceRule, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, rule_type, severity, enabled, threshold, keyword, description, created_at, updated_at
		 FROM compliance_rules WHERE enabled ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("ruleRepo.ListEnabled: %w", err)
	}
	defer rows.Close()

	return scanRules(rows, "ruleRepo.ListEnabled")
}

func (r *RuleRepo) Update(ctx context.Context, rule *domain.ComplianceRule) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE compliance_rules
		 SET name = $1, rule_type = $2, severity = $3, enabled = $4, threshold = $5,
		     keyword = $6, description = $7, updated_at = $8
		 WHERE id = $9`,
		rule.Name, rule.Type, rule.Severity, rule.Enabled, rule.Threshold,
		rule.Keyword, rule.Description, rule.UpdatedAt, rule.ID,
	)
	if err != nil {
		return fmt.Errorf("ruleRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("ruleRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func scanRules(rows pgx.Rows, caller string) ([]*domain.ComplianceRule, error) {
	var rules []*domain.ComplianceRule
	for rows.Next() {
		var rule domain.ComplianceRule

		if err := rows.Scan(
			&rule.ID, &rule.Name, &rule.Type, &rule.Severity, &rule.Enabled,
			&rule.Threshold, &rule.Keyword, &rule.Description, &rule.CreatedAt, &rule.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", caller, err)
		}
		rules = append(rules, &rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", caller, err)
	}

	return rules, nil
}
