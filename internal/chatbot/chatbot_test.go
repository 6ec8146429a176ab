package chatbot_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lixtic/Intellisynth2/internal/chatbot"
	"github.com/Lixtic/Intellisynth2/internal/domain"
)

type stubActivityRepo struct {
	activities []*domain.ActivityRecord
	listErr    error
}

func (s *stubActivityRepo) Insert(context.Context, *domain.ActivityRecord) error { return nil }

func (s *stubActivityRepo) Query(context.Context, time.Time, time.Time, string) ([]*domain.ActivityRecord, error) {
	return nil, nil
}

func (s *stubActivityRepo) List(context.Context, domain.ActivityFilter) ([]*domain.ActivityRecord, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.activities, nil
}

func (s *stubActivityRepo) Stats(context.Context) (*domain.ActivityStats, error) { return nil, nil }

func act(agentID string, action domain.ActionType, severity domain.Severity, message string) *domain.ActivityRecord {
	return &domain.ActivityRecord{
		ID:         uuid.New(),
		Timestamp:  time.Now().UTC(),
		AgentID:    agentID,
		ActionType: action,
		Severity:   severity,
		Message:    message,
	}
}

func sampleActivities() []*domain.ActivityRecord {
	return []*domain.ActivityRecord{
		act("agent-1", domain.ActionError, domain.SeverityCritical, "pipeline failed"),
		act("agent-1", domain.ActionAnalysis, domain.SeverityInfo, "trend analysis complete"),
		act("agent-2", domain.ActionDecision, domain.SeverityInfo, "routed request"),
		act("agent-2", domain.ActionComplianceCheck, domain.SeverityInfo, "quarterly audit pass"),
		act("agent-3", domain.ActionDataCollection, domain.SeverityInfo, "scraped feed"),
	}
}

func TestService_Answer_Dispatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		question    string
		wantAnswer  string
		wantRecords int
	}{
		{"errors", "show me recent ERRORS", "1 error-related", 1},
		{"compliance", "any compliance issues?", "Found 1 compliance-related", 1},
		{"recent", "what are the latest activities", "most recent", 5},
		{"status", "what's the system status?", "3 active agents", 0},
		{"agents", "how many agents are active?", "Active agents (3)", 5},
		{"metrics", "give me performance stats", "error rate 20.0%", 0},
		{"decisions", "list decision records", "1 decision-making", 1},
		{"analysis", "analyze the data", "1 analysis activities", 1},
		{"help", "help", "recent errors", 0},
		{"fallback", "tell me a joke", "Try asking about errors", 0},
	}

	svc := chatbot.NewService(&stubActivityRepo{activities: sampleActivities()})

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			reply, err := svc.Answer(context.Background(), tt.question)
			require.NoError(t, err)
			assert.Contains(t, reply.Answer, tt.wantAnswer)
			assert.Len(t, reply.Records, tt.wantRecords)
			assert.False(t, reply.Timestamp.IsZero())
		})
	}
}

func TestService_Answer_FirstMatchWins(t *testing.T) {
	t.Parallel()

	svc := chatbot.NewService(&stubActivityRepo{activities: sampleActivities()})

	// "error" outranks "agent" in the handler table.
	reply, err := svc.Answer(context.Background(), "which agent caused the error?")
	require.NoError(t, err)
	assert.Contains(t, reply.Answer, "error-related")
}

func TestService_Answer_EmptyStore(t *testing.T) {
	t.Parallel()

	svc := chatbot.NewService(&stubActivityRepo{})

	reply, err := svc.Answer(context.Background(), "anything happening?")
	require.NoError(t, err)
	assert.Contains(t, reply.Answer, "No activity has been recorded yet")
}

func TestService_Answer_CapsReturnedRecords(t *testing.T) {
	t.Parallel()

	var activities []*domain.ActivityRecord
	for i := 0; i < 30; i++ {
		activities = append(activities, act("agent-1", domain.ActionAnalysis, domain.SeverityInfo, "batch"))
	}
	svc := chatbot.NewService(&stubActivityRepo{activities: activities})

	reply, err := svc.Answer(context.Background(), "latest activity please")
	require.NoError(t, err)
	assert.Len(t, reply.Records, 10)
}

func TestService_Answer_StoreUnavailable(t *testing.T) {
	t.Parallel()

	svc := chatbot.NewService(&stubActivityRepo{listErr: errors.New("connection reset")})

	reply, err := svc.Answer(context.Background(), "status")
	require.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.Nil(t, reply)
}
