package scheduler

import (
	"context"
	"time"

	log15 "github.com/inconshreveable/log15/v3"
	"github.com/robfig/cron/v3"
)

const tickTimeout = 50 * time.Second

// StartCron calls CheckReminders at second zero of every minute. A tick that
// is still running when the next minute starts causes that minute to be
// skipped rather than overlapped.
func StartCron(runner *Runner, logger log15.Logger) (*cron.Cron, error) {
	log := logger.New("module", "cron")
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))

	_, err := c.AddFunc("* * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), tickTimeout)
		defer cancel()

		result, err := runner.CheckReminders(ctx, time.Now())
		if err != nil {
			log.Error("tick finished with failures", "reminded", result.Reminded, "posted", result.Posted, "err", err)
			return
		}
		if result.Reminded > 0 || result.Posted > 0 {
			log.Info("tick finished", "reminded", result.Reminded, "posted", result.Posted)
		}
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	log.Info("scheduler started")
	return c, nil
}
