package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"clinic-desk-backend/config"
	"clinic-desk-backend/internal/api"
	"clinic-desk-backend/internal/dashboard"
	"clinic-desk-backend/internal/db"
	"clinic-desk-backend/internal/notification"
	"clinic-desk-backend/internal/store"
)

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			return runServer(cfg)
		},
	}
}

func runServer(cfg *config.Config) error {
	loc := cfg.Dashboard.Location()

	src, err := newBackend(cfg, loc)
	if err != nil {
		return err
	}

	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	appStore := store.NewGormStore(gormDB)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var webpushOptions *webpush.Options
	var notifier dashboard.Notifier
	if cfg.Push.PublicKey != "" && cfg.Push.PrivateKey != "" {
		webpushOptions = &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
		pool := notification.NewWorkerPool(cfg.WorkerPool.Size, appStore, webpushOptions)
		pool.Start(ctx)
		notifier = pool
	} else {
		log.Warn().Msg("VAPID keys are not configured; browser alerts are disabled")
	}

	session := dashboard.NewSession(src, dashboard.Options{
		Vocabulary:          vocabulary(cfg.Dashboard),
		Location:            loc,
		ClearErrorOnSuccess: cfg.Dashboard.ClearErrorOnSuccess,
		Notifier:            notifier,
	})
	defer session.Teardown()

	if cfg.Dashboard.Resume() {
		resumeSession(ctx, session, appStore)
	}
	if cfg.Dashboard.RefreshInterval > 0 {
		go session.Run(ctx, cfg.Dashboard.RefreshInterval)
	}

	router := api.NewRouter(session, src, appStore, webpushOptions, cfg.Server)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info().Msg("shutdown signal received, stopping services")
	case err := <-serverErr:
		return fmt.Errorf("HTTP server ListenAndServe: %w", err)
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server Shutdown: %w", err)
	}

	log.Info().Msg("server gracefully stopped")
	return nil
}

// resumeSession initializes the session for the doctor stored by a previous run.
func resumeSession(ctx context.Context, session *dashboard.Session, s store.Store) {
	doctorID, err := s.LastDoctorID(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("could not read stored doctor session")
		return
	}
	if doctorID == "" {
		return
	}
	log.Info().Str("doctor_id", doctorID).Msg("resuming stored doctor session")
	if err := session.Initialize(ctx, doctorID); err != nil {
		log.Warn().Err(err).Str("doctor_id", doctorID).Msg("resuming doctor session failed")
	}
}
