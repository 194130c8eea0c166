package moodindex

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"moodindex/bot"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrFetch   = errors.New("fetch failed")
	ErrHistory = errors.New("history update failed")
	ErrRender  = errors.New("chart render failed")
	ErrPublish = errors.New("status publish failed")
)

type MoodIndex struct {
	ft         fetcher
	stg        storage
	rd         renderer
	pb         publisher
	msg        messenger
	chartPath  string
	windowDays int
	running    sync.Mutex
	lg         zerolog.Logger
}

type MoodIndexConfig struct {
	Fetcher    fetcher
	Storage    storage
	Renderer   renderer
	Publisher  publisher
	Messenger  messenger // optional
	ChartPath  string
	WindowDays int
}

func NewMoodIndex(conf MoodIndexConfig) *MoodIndex {
	return &MoodIndex{
		ft:         conf.Fetcher,
		stg:        conf.Storage,
		rd:         conf.Renderer,
		pb:         conf.Publisher,
		msg:        conf.Messenger,
		chartPath:  conf.ChartPath,
		windowDays: conf.WindowDays,
		lg:         zerolog.New(os.Stdout).With().Str("Module", "MoodIndex").Timestamp().Logger(),
	}
}

/*
Run executes one pass of the pipeline.
  - fetch: a failure ends the run before anything is written
  - append: idempotent per source timestamp
  - chart: rendered from the full history; a render error does not stop publication
  - status: published from the last history record

A stage never undoes what an earlier stage already persisted.
*/
func (e *MoodIndex) Run(ctx context.Context) error {
	lg := e.lg.With().Str("run", uuid.NewString()).Logger()
	lg.Info().Msg("Starting MMI run")

	p, err := e.ft.MarketMoodIndex(ctx)
	if err != nil {
		lg.Error().Err(err).Msg("Failed to fetch data, skipping update")
		return fmt.Errorf("%w: %w", ErrFetch, err)
	}

	history, appended, err := e.stg.Append(*p)
	if err != nil {
		lg.Error().Err(err).Msg("Failed to append history")
		return fmt.Errorf("%w: %w", ErrHistory, err)
	}

	if appended && e.msg != nil {
		if err := e.msg.SendMessage(bot.MoodMessage(history[len(history)-1])); err != nil {
			lg.Warn().Err(err).Msg("Failed to send notification")
		}
	}

	var renderErr error
	rendered, err := e.rd.Render(history, e.windowDays, e.chartPath)
	if err != nil {
		lg.Error().Err(err).Msg("Failed to render chart")
		renderErr = fmt.Errorf("%w: %w", ErrRender, err)
	} else if !rendered {
		lg.Info().Int("window_days", e.windowDays).Msg("Chart skipped, no data in window")
	}

	if len(history) > 0 {
		latest := history[len(history)-1]
		if err := e.pb.Publish(&latest, e.chartPath); err != nil {
			lg.Error().Err(err).Msg("Failed to publish status")
			return errors.Join(renderErr, fmt.Errorf("%w: %w", ErrPublish, err))
		}
	}

	if renderErr != nil {
		return renderErr
	}

	lg.Info().Bool("appended", appended).Bool("chart", rendered).Int("records", len(history)).Msg("MMI run completed")
	return nil
}
