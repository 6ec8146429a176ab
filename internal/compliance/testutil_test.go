package compliance_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Lixtic/Intellisynth2/internal/domain"
)

// fakeRuleRepo serves a fixed rule set.
type fakeRuleRepo struct {
	rules []*domain.ComplianceRule
}

func (f *fakeRuleRepo) Create(context.Context, *domain.ComplianceRule) error { return nil }

func (f *fakeRuleRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.ComplianceRule, error) {
	for _, r := range f.rules {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRuleRepo) List(context.Context) ([]*domain.ComplianceRule, error) {
	return f.rules, nil
}

func (f *fakeRuleRepo) ListEnabled(context.Context) ([]*domain.ComplianceRule, error) {
	var enabled []*domain.ComplianceRule
	for _, r := range f.rules {
		if r.Enabled {
			enabled = append(enabled, r)
		}
	}
	return enabled, nil
}

func (f *fakeRuleRepo) Update(context.Context, *domain.ComplianceRule) error { return nil }

// fakeViolationRepo is an in-memory violation store with the active-pair
// lookup the engine relies on for dedup.
type fakeViolationRepo struct {
	mu         sync.Mutex
	violations map[uuid.UUID]*domain.ComplianceViolation
}

func newFakeViolationRepo() *fakeViolationRepo {
	return &fakeViolationRepo{violations: make(map[uuid.UUID]*domain.ComplianceViolation)}
}

func (f *fakeViolationRepo) Create(_ context.Context, v *domain.ComplianceViolation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *v
	f.violations[v.ID] = &cp
	return nil
}

func (f *fakeViolationRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.ComplianceViolation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.violations[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (f *fakeViolationRepo) FindActive(_ context.Context, ruleID uuid.UUID, agentID string) (*domain.ComplianceViolation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, v := range f.violations {
		if v.RuleID == ruleID && v.AgentID == agentID && v.Status.Active() {
			cp := *v
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeViolationRepo) ListSince(_ context.Context, since time.Time) ([]*domain.ComplianceViolation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.ComplianceViolation
	for _, v := range f.violations {
		if !v.DetectedAt.Before(since) {
			cp := *v
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeViolationRepo) UpdateStatus(_ context.Context, id uuid.UUID, status domain.ViolationStatus, resolvedAt, snoozeUntil *time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.violations[id]
	if !ok {
		return domain.ErrNotFound
	}
	v.Status = status
	v.ResolvedAt = resolvedAt
	v.SnoozeUntil = snoozeUntil
	return nil
}

// stubActivityRepo serves a fixed window of activities.
type stubActivityRepo struct {
	activities []*domain.ActivityRecord
	queryErr   error
}

func (s *stubActivityRepo) Insert(context.Context, *domain.ActivityRecord) error { return nil }

func (s *stubActivityRepo) Query(context.Context, time.Time, time.Time, string) ([]*domain.ActivityRecord, error) {
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	return s.activities, nil
}

func (s *stubActivityRepo) List(context.Context, domain.ActivityFilter) ([]*domain.ActivityRecord, error) {
	return nil, nil
}

func (s *stubActivityRepo) Stats(context.Context) (*domain.ActivityStats, error) { return nil, nil }
