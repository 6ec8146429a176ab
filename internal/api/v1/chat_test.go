package v1_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/Lixtic/Intellisynth2/internal/api/v1"
	"github.com/Lixtic/Intellisynth2/internal/chatbot"
	"github.com/Lixtic/Intellisynth2/internal/domain"
)

// ---------------------------------------------------------------------------
// TestChat
// ---------------------------------------------------------------------------

func TestChat(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		bot := &mockChatbot{
			answerFunc: func(_ context.Context, question string) (*chatbot.Reply, error) {
				assert.Equal(t, "how many errors today?", question)
				return &chatbot.Reply{
					Answer: "Found 3 error records.",
					Records: []*domain.ActivityRecord{
						{ID: uuid.New(), AgentID: "agent-1", ActionType: domain.ActionError},
					},
					Timestamp: time.Now().UTC(),
				}, nil
			},
		}
		v1.RegisterChatRoutes(api, bot)

		resp := api.Post("/chat", map[string]any{
			"question": "how many errors today?",
		})

		require.Equal(t, http.StatusOK, resp.Code)

		var body struct {
			Answer    string                   `json:"answer"`
			Records   []*domain.ActivityRecord `json:"records"`
			Timestamp time.Time                `json:"timestamp"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "Found 3 error records.", body.Answer)
		assert.Len(t, body.Records, 1)
		assert.False(t, body.Timestamp.IsZero())
	})

	t.Run("no_records_is_json_array", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		bot := &mockChatbot{
			answerFunc: func(_ context.Context, _ string) (*chatbot.Reply, error) {
				return &chatbot.Reply{Answer: "Nothing matched.", Timestamp: time.Now().UTC()}, nil
			},
		}
		v1.RegisterChatRoutes(api, bot)

		resp := api.Post("/chat", map[string]any{
			"question": "anything odd?",
		})

		require.Equal(t, http.StatusOK, resp.Code)

		var raw map[string]json.RawMessage
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
		assert.JSONEq(t, "[]", string(raw["records"]))
	})

	t.Run("empty_question_rejected", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		v1.RegisterChatRoutes(api, &mockChatbot{})

		resp := api.Post("/chat", map[string]any{
			"question": "",
		})

		assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	})

	t.Run("store_unavailable", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		bot := &mockChatbot{
			answerFunc: func(_ context.Context, _ string) (*chatbot.Reply, error) {
				return nil, domain.ErrStoreUnavailable
			},
		}
		v1.RegisterChatRoutes(api, bot)

		resp := api.Post("/chat", map[string]any{
			"question": "status?",
		})

		assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
	})

	t.Run("bot_failure", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		bot := &mockChatbot{
			answerFunc: func(_ context.Context, _ string) (*chatbot.Reply, error) {
				return nil, errors.New("boom")
			},
		}
		v1.RegisterChatRoutes(api, bot)

		resp := api.Post("/chat", map[string]any{
			"question": "status?",
		})

		assert.Equal(t, http.StatusInternalServerError, resp.Code)
	})
}
