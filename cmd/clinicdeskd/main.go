package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"clinic-desk-backend/config"
	"clinic-desk-backend/internal/dashboard"
	"clinic-desk-backend/internal/fixture"
	"clinic-desk-backend/internal/period"
	"clinic-desk-backend/internal/upstream"
)

// backend is a data source that also accepts the doctor's commands.
type backend interface {
	dashboard.Source
	dashboard.Commands
}

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "clinicdeskd",
		Short:         "Doctor dashboard backend for the clinic scheduling system",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to the YAML config (default $CONFIG_PATH or ./config/config.yaml)")

	rootCmd.AddCommand(serveCmd(&configPath))
	rootCmd.AddCommand(scheduleCmd(&configPath))
	rootCmd.AddCommand(migrateCmd(&configPath))

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("clinicdeskd failed")
		os.Exit(1)
	}
}

func loadConfig(flagPath string) (*config.Config, error) {
	path := flagPath
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = "./config/config.yaml"
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration from %s: %w", path, err)
	}
	setupLogging(cfg.Log)
	log.Info().Str("path", path).Str("source", cfg.Source.Mode).Msg("configuration loaded")
	return cfg, nil
}

func setupLogging(cfg config.LogConfig) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if cfg.Pretty {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
	}
	log.Logger = logger
}

func vocabulary(cfg config.DashboardConfig) *period.Vocabulary {
	if len(cfg.Periods) == 0 {
		return period.Default()
	}
	periods := make([]period.Period, 0, len(cfg.Periods))
	for _, p := range cfg.Periods {
		periods = append(periods, period.Period{Code: p.Code, Label: p.Label, Detail: p.Detail})
	}
	return period.New(periods)
}

func newBackend(cfg *config.Config, loc *time.Location) (backend, error) {
	if cfg.Source.Mode == config.SourceFixture {
		log.Warn().Msg("serving fixture data; no clinic backend is contacted")
		return fixture.New(time.Now().In(loc)), nil
	}
	client, err := upstream.NewClient(cfg.Upstream)
	if err != nil {
		return nil, fmt.Errorf("failed to create upstream client: %w", err)
	}
	return client, nil
}
