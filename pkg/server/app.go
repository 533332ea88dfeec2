package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"Moonlander/internal/domain/repository"
	"Moonlander/internal/scheduler"
	"Moonlander/internal/usecase"
	"Moonlander/pkg/config"
	xhttp "Moonlander/pkg/http"
	applogger "Moonlander/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg       *config.Config
	log       *applogger.Logger
	gen       *usecase.Generator
	sched     *scheduler.Scheduler
	publisher repository.Publisher
	handler   xhttp.Handler

	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	gen *usecase.Generator,
	sched *scheduler.Scheduler,
	publisher repository.Publisher,
	handler xhttp.Handler,
) *App {
	return &App{
		cfg:       cfg,
		log:       log,
		gen:       gen,
		sched:     sched,
		publisher: publisher,
		handler:   handler,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Serve the last mirrored batch while the first cycle runs.
	a.gen.WarmStart(ctx)

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithLogger(a.log),
	)
	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}

	if a.cfg.Generator.RunOnStart {
		a.gen.Refresh()
	}

	if err := a.sched.Register(); err != nil {
		return err
	}
	a.sched.Start()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	a.sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	if err := a.publisher.Close(); err != nil {
		a.log.Warn("publisher close error", applogger.Error(err))
	}

	a.log.Info("shutdown complete")
	return nil
}
