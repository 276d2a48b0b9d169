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

	"github.com/MimeLyc/dreamsense/internal/config"
	"github.com/MimeLyc/dreamsense/internal/httpapi"
	"github.com/MimeLyc/dreamsense/internal/llm"
	"github.com/MimeLyc/dreamsense/internal/service"
	"github.com/MimeLyc/dreamsense/pkg/log"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

const shutdownTimeout = 10 * time.Second

type scheduler interface {
	Schedule(ctx context.Context) error
}

type cronEngine interface {
	Start()
	Stop() context.Context
}

type httpServer interface {
	ListenAndServe(addr string) error
	Shutdown(ctx context.Context) error
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn("Failed to load .env: %v", err)
	}

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatal("Failed to load configuration: %v", err)
	}

	closeLog, err := log.Setup(cfg.Log.Level, cfg.Log.File, os.Stdout)
	if err != nil {
		log.Fatal("Failed to set up logging: %v", err)
	}
	defer closeLog()

	engine := cron.New()
	store, err := service.NewDictionaryStore(cfg.Dictionary, engine)
	if err != nil {
		log.Fatal("Failed to load dictionary: %v (advice: %s)", err, service.Advice(err))
	}

	var remote service.Interpreter
	if cfg.LLM.Enabled {
		client, err := llm.NewClient(cfg.LLM.ClientConfig())
		if err != nil {
			log.Fatal("Failed to create LLM client: %v", err)
		}
		remote = service.NewLLMInterpreter(client, store)
		log.Info("LLM interpretation enabled with model %s", client.Model())
	} else {
		log.Info("LLM interpretation disabled, answering from the dictionary")
	}

	svc := service.NewInterpretService(store, remote)
	srv := httpapi.NewServer(svc,
		httpapi.WithAllowedOrigins(cfg.HTTP.AllowedOrigins),
		httpapi.WithUI(cfg.HTTP.UIStaticDir, cfg.HTTP.UIEnabled()),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := runWithComponents(ctx, cfg, store, engine, srv); err != nil {
		log.Error("Server stopped: %v", err)
		os.Exit(1)
	}
}

// runWithComponents starts the reload schedule and the API server and blocks
// until ctx is done or the server fails.
func runWithComponents(ctx context.Context, cfg *config.Config, sched scheduler, engine cronEngine, httpSrv httpServer) error {
	if err := sched.Schedule(ctx); err != nil {
		return fmt.Errorf("schedule dictionary reload: %w", err)
	}
	engine.Start()
	defer engine.Stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("DreamSense API listening on %s", cfg.HTTP.Addr)
		errCh <- httpSrv.ListenAndServe(cfg.HTTP.Addr)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}
