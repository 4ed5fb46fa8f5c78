package api

import (
	"net/http"
)

func (s *Server) HandleSlackInstall(w http.ResponseWriter, r *http.Request) {
	redirect := s.cfg.Installer.AuthorizeURL()
	s.log.Info("redirecting to slack oauth", "url", redirect)
	http.Redirect(w, r, redirect, http.StatusFound)
}

func (s *Server) HandleSlackOAuthCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if reason := query.Get("error"); reason != "" {
		s.log.Info("installation cancelled", "reason", reason)
		http.Error(w, "Installation was cancelled", http.StatusBadRequest)
		return
	}

	code := query.Get("code")
	if code == "" {
		s.log.Error("missing authorization code in request")
		http.Error(w, "Missing authorization code", http.StatusBadRequest)
		return
	}

	inst, err := s.cfg.Installer.Exchange(r.Context(), code)
	if err != nil {
		s.log.Error("oauth exchange failed", "err", err)
		http.Error(w, "OAuth request failed", http.StatusBadGateway)
		return
	}

	team, err := s.bot.Installed(r.Context(), inst)
	if err != nil {
		s.log.Error("failed to save installation", "team", inst.TeamID, "err", err)
		http.Error(w, "Failed to save team configuration", http.StatusInternalServerError)
		return
	}

	s.log.Info("slack oauth installation successful", "team", team.SlackTeamID, "name", team.Name)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("✅ Slack app installed successfully. You can now return to Slack."))
}
