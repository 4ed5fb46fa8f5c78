package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	log15 "github.com/inconshreveable/log15/v3"
	slackapi "github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"gorm.io/gorm"

	"SupsBrief/db"
	"SupsBrief/scheduler"
)

const (
	maxEventBody = 1 << 20
	eventTimeout = 30 * time.Second
)

// Server exposes the bot and the polling tick over HTTP.
type Server struct {
	bot    *Bot
	runner *scheduler.Runner
	cfg    ServerConfig
	now    func() time.Time
	log    log15.Logger
}

func NewServer(bot *Bot, runner *scheduler.Runner, cfg ServerConfig, logger log15.Logger) *Server {
	return &Server{
		bot:    bot,
		runner: runner,
		cfg:    cfg,
		now:    bot.now,
		log:    logger.New("module", "http"),
	}
}

// HandleSlackEvents verifies the request signature, answers URL verification
// and dispatches callback events. Events are handled before the response is
// written; Slack retries caused by a slow response are acknowledged and
// dropped since the first delivery is still being processed.
func (s *Server) HandleSlackEvents(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxEventBody))
	if err != nil {
		http.Error(w, "Unable to read request body", http.StatusBadRequest)
		return
	}

	if err := s.verify(r.Header, body); err != nil {
		s.log.Warn("rejected slack request", "err", err)
		http.Error(w, "Invalid request signature", http.StatusUnauthorized)
		return
	}

	if r.Header.Get("X-Slack-Retry-Num") != "" && r.Header.Get("X-Slack-Retry-Reason") == "http_timeout" {
		s.log.Debug("dropping slack timeout retry", "retry", r.Header.Get("X-Slack-Retry-Num"))
		w.WriteHeader(http.StatusOK)
		return
	}

	event, err := slackevents.ParseEvent(json.RawMessage(body), slackevents.OptionNoVerifyToken())
	if err != nil {
		var outer slackevents.EventsAPICallbackEvent
		if json.Unmarshal(body, &outer) == nil && outer.Type == slackevents.CallbackEvent {
			// Unsubscribed inner event types fail to parse; ack them so Slack
			// does not retry.
			s.log.Debug("ignoring unparsed callback event", "err", err)
			w.WriteHeader(http.StatusOK)
			return
		}
		http.Error(w, "Invalid Slack event format", http.StatusBadRequest)
		return
	}

	switch event.Type {
	case slackevents.URLVerification:
		var challenge slackevents.ChallengeResponse
		if err := json.Unmarshal(body, &challenge); err != nil {
			http.Error(w, "Invalid challenge", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte(challenge.Challenge))
		return
	case slackevents.CallbackEvent:
		ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), eventTimeout)
		defer cancel()
		s.dispatch(ctx, event)
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) verify(header http.Header, body []byte) error {
	sv, err := slackapi.NewSecretsVerifier(header, s.cfg.SigningSecret)
	if err != nil {
		return err
	}
	if _, err := sv.Write(body); err != nil {
		return err
	}
	return sv.Ensure()
}

func (s *Server) dispatch(ctx context.Context, event slackevents.EventsAPIEvent) {
	teamID := event.TeamID
	log := s.log.New("team", teamID, "event", event.InnerEvent.Type)

	var err error
	switch ev := event.InnerEvent.Data.(type) {
	case *slackevents.MessageEvent:
		if ev.ChannelType != "im" || ev.BotID != "" || ev.SubType != "" || ev.User == "" || teamID == "" {
			return
		}
		team := s.lookupTeam(ctx, teamID)
		if team == nil || ev.User == team.BotUserID {
			return
		}
		err = s.bot.DirectMessage(ctx, team, ev.User, ev.Channel, ev.Text)
	case *slackevents.AppMentionEvent:
		if ev.User == "" || ev.BotID != "" || teamID == "" {
			return
		}
		team := s.lookupTeam(ctx, teamID)
		if team == nil {
			return
		}
		err = s.bot.Mention(ctx, team, ev.User, ev.Channel, ev.Text)
	case *slackevents.AppUninstalledEvent, *slackevents.TokensRevokedEvent:
		if teamID == "" {
			return
		}
		err = s.bot.Uninstalled(ctx, teamID)
	default:
		log.Debug("ignoring event")
		return
	}

	if err != nil {
		log.Error("event handling failed", "err", err)
	}
}

func (s *Server) lookupTeam(ctx context.Context, teamID string) *db.Team {
	team, err := s.bot.store.GetTeam(ctx, teamID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.log.Warn("event for unknown team", "team", teamID)
		return nil
	}
	if err != nil {
		s.log.Error("failed to load team", "team", teamID, "err", err)
		return nil
	}
	return team
}
