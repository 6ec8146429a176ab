// Package chatbot answers operator questions about agent activity in plain
// language. It is a keyword dispatcher over the activity store, not a
// language model: every answer is computed from real records.
package chatbot

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Lixtic/Intellisynth2/internal/domain"
)

// lookbackLimit caps how many recent records a single question scans.
const lookbackLimit = 500

// Reply is the chatbot's answer plus the records that back it up.
type Reply struct {
	Answer    string
	Records   []*domain.ActivityRecord
	Timestamp time.Time
}

// Service answers free-form questions from the activity log.
type Service struct {
	activities domain.ActivityRepository
	handlers   []handler
}

type handler struct {
	keywords []string
	answer   func(question string, recent []*domain.ActivityRecord) (string, []*domain.ActivityRecord)
}

func NewService(activities domain.ActivityRepository) *Service {
	s := &Service{activities: activities}
	s.handlers = []handler{
		{[]string{"error", "fail", "problem"}, s.answerErrors},
		{[]string{"compliance", "audit"}, s.answerCompliance},
		{[]string{"latest", "recent", "new"}, s.answerRecent},
		{[]string{"status", "health", "running"}, s.answerStatus},
		{[]string{"agent"}, s.answerAgents},
		{[]string{"performance", "metric", "stats"}, s.answerMetrics},
		{[]string{"decision"}, s.answerDecisions},
		{[]string{"analysis", "analyze"}, s.answerAnalysis},
		{[]string{"help", "what can you do", "commands"}, s.answerHelp},
	}
	return s
}

// Answer matches the question against the handler table in order and runs
// the first handler whose keyword appears in the question. Unmatched
// questions get the capability hint.
func (s *Service) Answer(ctx context.Context, question string) (*Reply, error) {
	recent, err := s.activities.List(ctx, domain.ActivityFilter{Limit: lookbackLimit})
	if err != nil {
		return nil, fmt.Errorf("chatbot.Service.Answer: %w: %w", domain.ErrStoreUnavailable, err)
	}

	lower := strings.ToLower(question)
	for _, h := range s.handlers {
		for _, kw := range h.keywords {
			if strings.Contains(lower, kw) {
				answer, records := h.answer(lower, recent)
				return reply(answer, records), nil
			}
		}
	}

	if len(recent) == 0 {
		return reply("No activity has been recorded yet. Agents may still be starting up.", nil), nil
	}
	return reply("I can help you analyze activity logs and system status. "+
		"Try asking about errors, recent activity, system health, or specific agents.", nil), nil
}

func reply(answer string, records []*domain.ActivityRecord) *Reply {
	if len(records) > 10 {
		records = records[:10]
	}
	return &Reply{Answer: answer, Records: records, Timestamp: time.Now().UTC()}
}

func (s *Service) answerErrors(_ string, recent []*domain.ActivityRecord) (string, []*domain.ActivityRecord) {
	var matched []*domain.ActivityRecord
	for _, r := range recent {
		if r.IsError() || strings.Contains(strings.ToLower(r.Message), "fail") {
			matched = append(matched, r)
		}
	}
	if len(matched) == 0 {
		return "No error activity in the recent window.", nil
	}
	return fmt.Sprintf("Found %d error-related activities in the last %d records.", len(matched), len(recent)), matched
}

func (s *Service) answerCompliance(_ string, recent []*domain.ActivityRecord) (string, []*domain.ActivityRecord) {
	var matched []*domain.ActivityRecord
	for _, r := range recent {
		if r.ActionType == domain.ActionComplianceCheck || strings.Contains(strings.ToLower(r.Message), "audit") {
			matched = append(matched, r)
		}
	}
	return fmt.Sprintf("Found %d compliance-related activities, covering rule checks and audit trails.", len(matched)), matched
}

func (s *Service) answerRecent(_ string, recent []*domain.ActivityRecord) (string, []*domain.ActivityRecord) {
	n := len(recent)
	if n > 10 {
		n = 10
	}
	return fmt.Sprintf("Here are the %d most recent activities.", n), recent
}

func (s *Service) answerStatus(_ string, recent []*domain.ActivityRecord) (string, []*domain.ActivityRecord) {
	agents := agentSet(recent)
	return fmt.Sprintf("System running. %d activities in the recent window across %d active agents.",
		len(recent), len(agents)), nil
}

func (s *Service) answerAgents(_ string, recent []*domain.ActivityRecord) (string, []*domain.ActivityRecord) {
	agents := agentSet(recent)
	if len(agents) == 0 {
		return "No agents have reported activity recently.", nil
	}
	preview := agents
	if len(preview) > 5 {
		preview = preview[:5]
	}
	return fmt.Sprintf("Active agents (%d): %s.", len(agents), strings.Join(preview, ", ")), recent
}

func (s *Service) answerMetrics(_ string, recent []*domain.ActivityRecord) (string, []*domain.ActivityRecord) {
	if len(recent) == 0 {
		return "No activity recorded yet, so there are no metrics to report.", nil
	}
	var errs int
	for _, r := range recent {
		if r.IsError() {
			errs++
		}
	}
	rate := float64(errs) / float64(len(recent)) * 100
	return fmt.Sprintf("Recent window: %d activities, %d agents, error rate %.1f%%.",
		len(recent), len(agentSet(recent)), rate), nil
}

func (s *Service) answerDecisions(_ string, recent []*domain.ActivityRecord) (string, []*domain.ActivityRecord) {
	matched := byAction(recent, domain.ActionDecision)
	return fmt.Sprintf("Found %d decision-making activities.", len(matched)), matched
}

func (s *Service) answerAnalysis(_ string, recent []*domain.ActivityRecord) (string, []*domain.ActivityRecord) {
	matched := byAction(recent, domain.ActionAnalysis)
	return fmt.Sprintf("Found %d analysis activities, covering data processing and pattern recognition.", len(matched)), matched
}

func (s *Service) answerHelp(_ string, _ []*domain.ActivityRecord) (string, []*domain.ActivityRecord) {
	return "I can report on errors, recent activity, compliance checks, agent rosters, and system metrics. " +
		`Try "show me recent errors", "what's the system status?", or "how many agents are active?".`, nil
}

func byAction(recent []*domain.ActivityRecord, action domain.ActionType) []*domain.ActivityRecord {
	var out []*domain.ActivityRecord
	for _, r := range recent {
		if r.ActionType == action {
			out = append(out, r)
		}
	}
	return out
}

func agentSet(recent []*domain.ActivityRecord) []string {
	seen := make(map[string]struct{})
	for _, r := range recent {
		if r.AgentID != "" {
			seen[r.AgentID] = struct{}{}
		}
	}
	agents := make([]string, 0, len(seen))
	for id := range seen {
		agents = append(agents, id)
	}
	sort.Strings(agents)
	return agents
}
