package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"SupsBrief/api"
	slackbot "SupsBrief/internal/slack"
)

func SetupRouter(srv *api.Server) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", srv.HandleHealthCheck)

	r.Get("/slack/install", srv.HandleSlackInstall)
	r.Get(slackbot.CallbackPath, srv.HandleSlackOAuthCallback)
	r.Post("/slack/events", srv.HandleSlackEvents)

	r.Post("/api/reminders/check", srv.HandleReminderCheck)

	return r
}
