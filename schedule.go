package moodindex

import (
	"context"
	"fmt"

	"github.com/robfig/cron"
)

// Schedule registers Run on a cron spec (seconds field included). Ticks never
// overlap: a tick that finds a run in progress is dropped. Runs started by
// the schedule are cancelled with ctx.
func (e *MoodIndex) Schedule(ctx context.Context, spec string) (*cron.Cron, error) {
	e.lg.Info().Str("spec", spec).Msg("Registering MMI schedule")

	c := cron.New()
	if err := c.AddFunc(spec, func() { e.tick(ctx) }); err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return c, nil
}

func (e *MoodIndex) tick(ctx context.Context) bool {
	if !e.running.TryLock() {
		e.lg.Warn().Msg("Previous run still in progress, skipping tick")
		return false
	}
	defer e.running.Unlock()

	if err := e.Run(ctx); err != nil {
		e.lg.Error().Err(err).Msg("Scheduled run failed")
	}
	return true
}
