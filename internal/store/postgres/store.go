package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Lixtic/Intellisynth2/internal/domain"
)

type Store struct {
	pool       *pgxpool.Pool
	activities *ActivityRepo
	rules      *RuleRepo
	violations *ViolationRepo
	agents     *AgentRepo
	users      *UserRepo
}

func New(ctx context.Context, dsn string, maxConns int32) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: parse config: %w", err)
	}

	cfg.MaxConns = maxConns

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: connect: %w", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.New: ping: %w", err)
	}

	return &Store{
		pool:       pool,
		activities: NewActivityRepo(pool),
		rules:      NewRuleRepo(pool),
		violations: NewViolationRepo(pool),
		agents:     NewAgentRepo(pool),
		users:      NewUserRepo(pool),
	}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Activities() domain.ActivityRepository { return s.activities }
func (s *Store) Rules() domain.RuleRepository          { return s.rules }
func (s *Store) Violations() domain.ViolationRepository {
	return s.violations
}
func (s *Store) Agents() domain.AgentRepository { return s.agents }
func (s *Store) Users() domain.UserRepository   { return s.users }
