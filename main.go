package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/tgranjon/reverb/internal/api"
	"github.com/tgranjon/reverb/internal/config"
	"github.com/tgranjon/reverb/internal/mpris"
	"github.com/tgranjon/reverb/internal/notify"
	"github.com/tgranjon/reverb/internal/playback"
	"github.com/tgranjon/reverb/internal/player"
	"github.com/tgranjon/reverb/internal/state"
	"github.com/tgranjon/reverb/internal/views"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		With().Timestamp().Logger()

	if err := run(log); err != nil {
		log.Fatal().Err(err).Msg("exiting")
	}
}

func run(log zerolog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	stateMgr, err := state.Open(cfg.StatePath)
	if err != nil {
		return err
	}
	defer stateMgr.Close()

	var reporter views.Interface = views.Noop{}
	if cfg.HasCatalogConfig() {
		reporter = views.New(cfg.Catalog.URL)
		log.Info().Str("url", cfg.Catalog.URL).Msg("view reporting enabled")
	}

	backend := player.New()
	defer backend.Close()
	backend.SetVolume(cfg.InitialVolume())

	svc := playback.New(backend, stateMgr, reporter, log)
	defer svc.Close()

	if mp, err := mpris.New(svc); err != nil {
		log.Warn().Err(err).Msg("mpris unavailable")
	} else {
		defer mp.Close()
	}

	if cfg.NotificationsEnabled() {
		notifier, err := notify.New()
		if err != nil {
			log.Warn().Err(err).Msg("desktop notifications unavailable")
		} else {
			watcher := notify.Watch(svc, notifier, cfg.NotificationTimeout())
			defer watcher.Close()
		}
	}

	handler := api.New(svc, log)
	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Listen).Msg("control API listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("server shutdown incomplete")
	}

	return nil
}
