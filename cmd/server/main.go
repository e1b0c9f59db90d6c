package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Thechi2000/were-legends/internal/config"
	"github.com/Thechi2000/were-legends/internal/engine"
	"github.com/Thechi2000/were-legends/internal/game"
	"github.com/Thechi2000/were-legends/internal/httpapi"
	"github.com/Thechi2000/were-legends/internal/hub"
	"github.com/Thechi2000/were-legends/internal/session"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := newLogger(cfg.Debug)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	h := hub.NewHub(ctx, game.Options{
		Logger:       logger,
		Source:       engine.Global,
		Now:          time.Now,
		MinDuration:  cfg.MinGameDuration,
		FeedInterval: cfg.FeedInterval,
	})
	defer h.Shutdown()

	handler := httpapi.SetupRoutes(h, session.NewIssuer(cfg.JWTSecret), logger, httpapi.Options{
		BaseURI:         cfg.BaseURI,
		LongPollTimeout: cfg.LongPollTimeout,
	})
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", cfg.Addr), zap.String("base_uri", cfg.BaseURI))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		h.Shutdown()

		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}
