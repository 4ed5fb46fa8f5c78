package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/multierr"
)

const healthTimeout = 2 * time.Second

// HandleReminderCheck runs one polling tick. An external cron calls it every
// minute; ?at=RFC3339 replaces the current time.
func (s *Server) HandleReminderCheck(w http.ResponseWriter, r *http.Request) {
	if token := s.cfg.ReminderCheckToken; token != "" {
		got := r.Header.Get("Authorization")
		if subtle.ConstantTimeCompare([]byte(got), []byte("Bearer "+token)) != 1 {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
	}

	now := s.now()
	if at := r.URL.Query().Get("at"); at != "" {
		parsed, err := time.Parse(time.RFC3339, at)
		if err != nil {
			http.Error(w, "Invalid at parameter, expected RFC3339", http.StatusBadRequest)
			return
		}
		now = parsed
	}

	result, err := s.runner.CheckReminders(r.Context(), now)
	resp := checkResponse{Status: "ok", Reminded: result.Reminded, Posted: result.Posted}
	status := http.StatusOK
	if err != nil {
		resp.Status = "error"
		for _, e := range multierr.Errors(err) {
			resp.Errors = append(resp.Errors, e.Error())
		}
		status = http.StatusInternalServerError
		s.log.Error("reminder check failed", "reminded", result.Reminded, "posted", result.Posted, "err", err)
	}
	writeJSON(w, status, resp)
}

func (s *Server) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Database: "ok"}
	if s.cfg.Health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()
		if err := s.cfg.Health.Ping(ctx); err != nil {
			s.log.Warn("health check failed", "err", err)
			resp = healthResponse{Status: "degraded", Database: "unreachable"}
			writeJSON(w, http.StatusServiceUnavailable, resp)
			return
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
