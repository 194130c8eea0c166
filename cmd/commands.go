package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"moodindex"
	"moodindex/bot"
	"moodindex/chart"
	"moodindex/config"
	"moodindex/export"
	"moodindex/internal/db"
	"moodindex/publish"
	"moodindex/scrape"

	"github.com/kr/pretty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func loadConfig(flags *globalFlags) (*config.Config, error) {
	if err := config.LoadEnv(flags.envFile); err != nil {
		return nil, fmt.Errorf("load %s: %w", flags.envFile, err)
	}

	conf, err := config.NewConfig(flags.config)
	if err != nil {
		return nil, err
	}

	level, err := conf.LogLevel()
	if err != nil {
		log.Warn().Err(err).Str("log", conf.Log).Msg("Unknown log level, using info")
	}
	zerolog.SetGlobalLevel(level)

	return conf, nil
}

func newMoodIndex(conf *config.Config) (*moodindex.MoodIndex, error) {
	scraper, err := scrape.NewScraper(conf.ScraperConfig())
	if err != nil {
		return nil, err
	}

	pb, err := publish.NewPublisher(conf.PublisherConfig())
	if err != nil {
		return nil, err
	}

	mc := moodindex.MoodIndexConfig{
		Fetcher:    scraper,
		Storage:    db.NewStorage(conf.History.Path),
		Renderer:   chart.NewRenderer(conf.RendererConfig()),
		Publisher:  pb,
		ChartPath:  conf.Chart.Path,
		WindowDays: conf.Chart.WindowDays,
	}

	if conf.TelegramEnabled() {
		teleBot, err := newTeleBot(conf)
		if err != nil {
			log.Warn().Err(err).Msg("Telegram notifier disabled")
		} else {
			mc.Messenger = teleBot
		}
	}

	return moodindex.NewMoodIndex(mc), nil
}

func newTeleBot(conf *config.Config) (*bot.TeleBot, error) {
	botConf, err := conf.BotConfig()
	if err != nil {
		return nil, err
	}
	return bot.NewTeleBot(botConf)
}

func newRunCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the pipeline once (fetch, append, chart, status)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := loadConfig(flags)
			if err != nil {
				return err
			}

			mi, err := newMoodIndex(conf)
			if err != nil {
				return err
			}

			return mi.Run(cmd.Context())
		},
	}
}

func newScheduleCmd(flags *globalFlags) *cobra.Command {
	var now bool
	var spec string

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Keep running and trigger the pipeline on a cron spec",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if spec == "" {
				spec = conf.Schedule
			}

			mi, err := newMoodIndex(conf)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			c, err := mi.Schedule(ctx, spec)
			if err != nil {
				return err
			}

			if now {
				if err := mi.Run(ctx); err != nil {
					log.Error().Err(err).Msg("Initial run failed")
				}
			}

			c.Start()
			log.Info().Str("spec", spec).Msg("Scheduler started")
			<-ctx.Done()
			c.Stop()
			log.Info().Msg("Scheduler stopped")
			return nil
		},
	}
	cmd.Flags().BoolVar(&now, "now", false, "run once immediately before waiting for the schedule")
	cmd.Flags().StringVar(&spec, "spec", "", "cron spec with seconds field (default: config schedule)")
	return cmd
}

func newProbeCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Look for upstream history sources (history endpoint, page NEXT_DATA)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := loadConfig(flags)
			if err != nil {
				return err
			}

			scraper, err := scrape.NewScraper(conf.ScraperConfig(), scrape.WithProbe(conf.ProbeConfig()))
			if err != nil {
				return err
			}

			report, err := scraper.ProbeHistory(cmd.Context())
			if report != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%# v\n", pretty.Formatter(report))
			}
			return err
		},
	}
}

func newExportCmd(flags *globalFlags) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the stored history to an xlsx workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := loadConfig(flags)
			if err != nil {
				return err
			}

			history := db.NewStorage(conf.History.Path).Load()
			if err := export.WriteXLSX(history, out); err != nil {
				return err
			}

			log.Info().Str("path", out).Int("records", len(history)).Msg("History exported")
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "history.xlsx", "output workbook")
	return cmd
}


func newEncryptCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "encrypt <value>",
		Short: "Encrypt a secret with MMI_CONFIG_KEY for use as an enc: config value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadEnv(flags.envFile); err != nil {
				return fmt.Errorf("load %s: %w", flags.envFile, err)
			}

			enc, err := config.EncryptSecret(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), enc)
			return nil
		},
	}
}
