package server

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	v1 "github.com/Lixtic/Intellisynth2/internal/api/v1"
	"github.com/Lixtic/Intellisynth2/internal/api/ws"
	"github.com/Lixtic/Intellisynth2/internal/auth"
	"github.com/Lixtic/Intellisynth2/internal/store/postgres"
)

func registerAuthRoutes(api huma.API, authSvc *auth.Service) {
	v1.RegisterAuthRoutes(api, authSvc)
}

func registerAdminRoutes(api huma.API, store *postgres.Store) {
	v1.RegisterRuleAdminRoutes(api, store)
}

func registerAPIRoutes(api huma.API, store *postgres.Store, detector v1.AnomalyDetector, engine v1.ComplianceEngine, bot v1.Chatbot, feed v1.FeedPublisher) {
	v1.RegisterActivityRoutes(api, store, feed)
	v1.RegisterAnomalyRoutes(api, detector)
	v1.RegisterComplianceRoutes(api, store, engine)
	v1.RegisterAgentRoutes(api, store)
	v1.RegisterChatRoutes(api, bot)
}

func registerWSRoutes(r chi.Router, hub *ws.Hub) {
	r.Get("/feed", hub.ServeFeed)
	r.Get("/alerts", hub.ServeAlerts)
}
