package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Lixtic/Intellisynth2/internal/domain"
)

// ActivityRepo is the append-only activity log. There are no UPDATE or
// DELETE statements in this file on purpose.
type ActivityRepo struct {
	pool *pgxpool.Pool
}

func NewActivityRepo(pool *pgxpool.Pool) *ActivityRepo {
	return &ActivityRepo{pool: pool}
}

// metricsDoc fixes the JSONB key layout independently of the domain struct.
type metricsDoc struct {
	ExecutionTimeMS float64 `json:"execution_time_ms"`
	CPU             float64 `json:"cpu"`
	Memory          float64 `json:"memory"`
	Network         float64 `json:"network"`
	Confidence      float64 `json:"confidence"`
	ImpactScore     float64 `json:"impact_score"`
}

func toMetricsDoc(m domain.ActivityMetrics) metricsDoc {
	return metricsDoc{
		ExecutionTimeMS: m.ExecutionTimeMS,
		CPU:             m.ResourceUsage.CPU,
		Memory:          m.ResourceUsage.Memory,
		Network:         m.ResourceUsage.Network,
		Confidence:      m.Confidence,
		ImpactScore:     m.ImpactScore,
	}
}

func (d metricsDoc) toDomain() domain.ActivityMetrics {
	return domain.ActivityMetrics{
		ExecutionTimeMS: d.ExecutionTimeMS,
		ResourceUsage:   domain.ResourceUsage{CPU: d.CPU, Memory: d.Memory, Network: d.Network},
		Confidence:      d.Confidence,
		ImpactScore:     d.ImpactScore,
	}
}

func (r *ActivityRepo) Insert(ctx context.Context, a *domain.ActivityRecord) error {
	metrics, err := json.Marshal(toMetricsDoc(a.Metrics))
	if err != nil {
		return fmt.Errorf("activityRepo.Insert: marshal metrics: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO activities (id, ts, agent_id, action_type, severity, message, metrics, integrity_hash, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		a.ID, a.Timestamp, a.AgentID, a.ActionType, a.Severity, a.Message, metrics, a.IntegrityHash, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("activityRepo.Insert: %w", err)
	}

	return nil
}

func (r *ActivityRepo) Query(ctx context.Context, start, end time.Time, agentID string) ([]*domain.ActivityRecord, error) {
	query := `SELECT id, ts, agent_id, action_type, severity, message, metrics, integrity_hash, created_at
	          FROM activities WHERE ts >= $1 AND ts < $2`
	args := []any{start, end}

	if agentID != "" {
		query += ` AND agent_id = $3`
		args = append(args, agentID)
	}
	query += ` ORDER BY ts ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("activityRepo.Query: %w", err)
	}
	defer rows.Close()

	return scanActivities(rows, "activityRepo.Query")
}

func (r *ActivityRepo) List(ctx context.Context, f domain.ActivityFilter) ([]*domain.ActivityRecord, error) {
	var conds []string
	var args []any

	addCond := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, cond+"$"+strconv.Itoa(len(args)))
	}

	if f.AgentID != "" {
		addCond("agent_id = ", f.AgentID)
	}
	if f.ActionType != "" {
		addCond("action_type = ", f.ActionType)
	}
	if f.Severity != "" {
		addCond("severity = ", f.Severity)
	}
	if f.Since != nil {
		addCond("ts >= ", *f.Since)
	}

	query := `SELECT id, ts, agent_id, action_type, severity, message, metrics, integrity_hash, created_at
	          FROM activities`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY ts DESC`

	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("activityRepo.List: %w", err)
	}
	defer rows.Close()

	return scanActivities(rows, "activityRepo.List")
}

func (r *ActivityRepo) Stats(ctx context.Context) (*domain.ActivityStats, error) {
	var st domain.ActivityStats

	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE action_type = 'decision'),
		        COUNT(*) FILTER (WHERE action_type = 'data_collection'),
		        COUNT(*) FILTER (WHERE action_type = 'error' OR severity IN ('high', 'critical')),
		        COALESCE(AVG((metrics->>'execution_time_ms')::float8), 0),
		        COUNT(DISTINCT agent_id)
		 FROM activities`,
	).Scan(&st.TotalActivities, &st.Decisions, &st.DataPoints, &st.Errors, &st.AvgExecutionMS, &st.ActiveAgents)
	if err != nil {
		return nil, fmt.Errorf("activityRepo.Stats: %w", err)
	}

	return &st, nil
}

func scanActivities(rows pgx.Rows, caller string) ([]*domain.ActivityRecord, error) {
	var records []*domain.ActivityRecord
	for rows.Next() {
		var a domain.ActivityRecord
		var metrics []byte

		if err := rows.Scan(
			&a.ID, &a.Timestamp, &a.AgentID, &a.ActionType, &a.Severity,
			&a.Message, &metrics, &a.IntegrityHash, &a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", caller, err)
		}
		var doc metricsDoc
		if err := json.Unmarshal(metrics, &doc); err != nil {
			return nil, fmt.Errorf("%s: unmarshal metrics: %w", caller, err)
		}
		a.Metrics = doc.toDomain()
		records = append(records, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", caller, err)
	}

	return records, nil
}
