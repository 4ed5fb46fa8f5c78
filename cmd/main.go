package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log15 "github.com/inconshreveable/log15/v3"
	"golang.ngrok.com/ngrok"
	ngrokcfg "golang.ngrok.com/ngrok/config"

	"SupsBrief/api"
	"SupsBrief/config"
	"SupsBrief/db"
	slackbot "SupsBrief/internal/slack"
	"SupsBrief/scheduler"
	"SupsBrief/standup"
	"SupsBrief/utils"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.NewLogger("info").Crit("invalid configuration", "err", err)
		os.Exit(1)
	}

	logger := utils.NewLogger(cfg.LogLevel)
	if err := run(cfg, logger); err != nil {
		logger.Crit("server failed", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger log15.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.Migrate(ctx); err != nil {
		return err
	}

	cipher, err := utils.NewCipher(cfg.EncryptionKey)
	if err != nil {
		return err
	}
	factory := slackbot.NewFactory(cipher, cfg.SlackAPIURL, logger)

	var claims scheduler.Claimer = scheduler.NoopClaimer{}
	if cfg.RedisURL != "" {
		rdb, err := utils.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rdb.Close()
		claims = scheduler.NewRedisClaimer(rdb, "sups:")
		logger.Info("redis claims enabled")
	}

	now := time.Now
	agg := standup.NewAggregator(store, now)
	tracker := standup.NewTracker(agg)
	poster := standup.NewPoster(agg, tracker, logger)
	runner := scheduler.NewRunner(scheduler.New(store, now), tracker, poster, store, factory, claims, logger)

	bot := api.NewBot(api.Deps{
		Store:      store,
		Aggregator: agg,
		Tracker:    tracker,
		Poster:     poster,
		Runner:     runner,
		Slack:      factory,
		Now:        now,
		Logger:     logger,
	})
	srv := api.NewServer(bot, runner, api.ServerConfig{
		SigningSecret:      cfg.SlackSigningSecret,
		ReminderCheckToken: cfg.ReminderCheckToken,
		Installer:          slackbot.NewOAuth(cfg.SlackClientID, cfg.SlackClientSecret, cfg.BaseURL),
		Health:             store,
	}, logger)

	if cfg.SchedulerEnabled {
		c, err := scheduler.StartCron(runner, logger)
		if err != nil {
			return err
		}
		defer c.Stop()
	}

	listener, err := listen(ctx, cfg, logger)
	if err != nil {
		return err
	}

	server := &http.Server{
		Handler:           SetupRouter(srv),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(listener)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// listen opens the local port, or an ngrok tunnel when an auth token is set.
func listen(ctx context.Context, cfg *config.Config, logger log15.Logger) (net.Listener, error) {
	if cfg.NgrokAuthToken == "" {
		logger.Info("server running", "port", cfg.Port)
		return net.Listen("tcp", ":"+cfg.Port)
	}

	tunnel, err := ngrok.Listen(ctx, ngrokcfg.HTTPEndpoint(), ngrok.WithAuthtoken(cfg.NgrokAuthToken))
	if err != nil {
		return nil, err
	}
	logger.Info("server running through ngrok", "url", tunnel.URL())
	return tunnel, nil
}
