package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/Lixtic/Intellisynth2/internal/domain"
)

type ChatInput struct {
	Body struct {
		Question string `json:"question" minLength:"1" maxLength:"1024" doc:"Free-form question about agent activity"`
	}
}

type ChatOutput struct {
	Body struct {
		Answer    string                   `json:"answer"`
		Records   []*domain.ActivityRecord `json:"records"`
		Timestamp time.Time                `json:"timestamp"`
	}
}

func RegisterChatRoutes(api huma.API, bot Chatbot) {
	huma.Register(api, huma.Operation{
		OperationID: "chat",
		Method:      http.MethodPost,
		Path:        "/chat",
		Summary:     "Ask the data analyst assistant a question",
		Tags:        []string{"Chat"},
	}, func(ctx context.Context, input *ChatInput) (*ChatOutput, error) {
		reply, err := bot.Answer(ctx, input.Body.Question)
		if err != nil {
			if errors.Is(err, domain.ErrStoreUnavailable) {
				return nil, huma.Error503ServiceUnavailable("activity store unavailable")
			}
			return nil, huma.Error500InternalServerError("chat failed", err)
		}

		out := &ChatOutput{}
		out.Body.Answer = reply.Answer
		out.Body.Records = reply.Records
		if out.Body.Records == nil {
			out.Body.Records = []*domain.ActivityRecord{}
		}
		out.Body.Timestamp = reply.Timestamp
		return out, nil
	})
}
