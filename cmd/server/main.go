package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gyaneshwarpardhi/pipetree/internal/api"
	"github.com/gyaneshwarpardhi/pipetree/internal/config"
	"github.com/gyaneshwarpardhi/pipetree/internal/engine"
	"github.com/gyaneshwarpardhi/pipetree/internal/graph"
	"github.com/gyaneshwarpardhi/pipetree/internal/hook"
	"github.com/gyaneshwarpardhi/pipetree/internal/pipeline"
)

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	cfgPath := flag.String("config", "configs/pipeline.yaml", "Path to pipeline YAML or TOML file")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// ── Load config ──────────────────────────────────────────────────────────
	loader, err := config.NewLoader(*cfgPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	cfg := loader.Config()
	if err := config.Validate(cfg); err != nil {
		slog.Error("config validation failed", "err", err)
		os.Exit(1)
	}

	// ── Seed graph service ───────────────────────────────────────────────────
	svc, ids, err := graph.Build(cfg)
	if err != nil {
		slog.Error("failed to build pipeline", "err", err)
		os.Exit(1)
	}
	slog.Info("pipeline seeded", "sources", len(ids))

	// ── Browser + controller hooks ───────────────────────────────────────────
	sess := pipeline.NewSession(svc, logger)
	hooks := hook.NewRegistry(logger)
	browser := pipeline.NewBrowser(sess, hooks,
		pipeline.WithActionIcon(pipeline.ActionDelete, cfg.Browser.DeleteIcon))
	hook.RegisterDefaults(hooks, svc, browser, logger)

	// ── Engine ────────────────────────────────────────────────────────────────
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eng := engine.New(ctx, browser, cfg.Server)
	if _, err := eng.Update(ctx); err != nil {
		slog.Error("initial update failed", "err", err)
		os.Exit(1)
	}

	// ── Hot-reload watcher ────────────────────────────────────────────────────
	loader.OnChange(func(newCfg *config.PipelineConfig) {
		if err := config.Validate(newCfg); err != nil {
			slog.Warn("hot-reload skipped: config invalid", "err", err)
			return
		}
		if _, err := eng.Do(ctx, api.Reseed(svc, newCfg)); err != nil {
			slog.Warn("hot-reload failed", "err", err)
			return
		}
		slog.Info("pipeline hot-reloaded", "sources", svc.Len())
	})
	stopWatch, err := loader.Watch()
	if err != nil {
		slog.Warn("config watcher unavailable (hot-reload disabled)", "err", err)
	} else {
		defer stopWatch()
	}

	// ── HTTP server ───────────────────────────────────────────────────────────
	srv := &http.Server{
		Addr:         *addr,
		Handler:      api.New(eng, svc, loader),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", *addr, "session", sess.ID.String())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	// ── Graceful shutdown ─────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down…")

	shutCtx, shutCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutCancel()
	_ = srv.Shutdown(shutCtx)
	eng.Shutdown()
	cancel()
	slog.Info("goodbye")
}
