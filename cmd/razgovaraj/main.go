package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/smokvina/Razgovaraj-sa-svojim-dokumentom/internal/chat"
	"github.com/smokvina/Razgovaraj-sa-svojim-dokumentom/internal/config"
	"github.com/smokvina/Razgovaraj-sa-svojim-dokumentom/internal/corpus"
	"github.com/smokvina/Razgovaraj-sa-svojim-dokumentom/internal/events"
	"github.com/smokvina/Razgovaraj-sa-svojim-dokumentom/internal/markup"
	"github.com/smokvina/Razgovaraj-sa-svojim-dokumentom/internal/metrics"
	"github.com/smokvina/Razgovaraj-sa-svojim-dokumentom/internal/server/handlers"
	"github.com/smokvina/Razgovaraj-sa-svojim-dokumentom/internal/server/httpserver"
	"github.com/smokvina/Razgovaraj-sa-svojim-dokumentom/internal/suggestions"
	"github.com/smokvina/Razgovaraj-sa-svojim-dokumentom/internal/version"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"config.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Serve struct {
	} `cmd:"" help:"Start the chat server"`

	Ingest struct {
	} `cmd:"" help:"Load and index the configured document sources, then exit"`

	Ask struct {
		Question string `arg:"" help:"Question to answer from the indexed documents"`
	} `cmd:"" help:"Answer a single question from the command line"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Initialize a new configuration file"`

	Version struct {
	} `cmd:"" help:"Print version information"`
}

func main() {
	ctx := kong.Parse(&CLI)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	switch ctx.Command() {
	case "serve":
		cfg, err := config.Load(CLI.Config)
		if err != nil {
			slog.Error("Failed to load configuration", "error", err)
			os.Exit(1)
		}
		if err := runServe(cfg, logger); err != nil {
			slog.Error("Serve failed", "error", err)
			os.Exit(1)
		}
	case "ingest":
		cfg, err := config.Load(CLI.Config)
		if err != nil {
			slog.Error("Failed to load configuration", "error", err)
			os.Exit(1)
		}
		if err := runIngest(cfg); err != nil {
			slog.Error("Ingest failed", "error", err)
			os.Exit(1)
		}
	case "ask <question>":
		cfg, err := config.Load(CLI.Config)
		if err != nil {
			slog.Error("Failed to load configuration", "error", err)
			os.Exit(1)
		}
		if err := runAsk(cfg, CLI.Ask.Question); err != nil {
			slog.Error("Ask failed", "error", err)
			os.Exit(1)
		}
	case "init":
		slog.Info("Initializing configuration", "path", CLI.Config, "force", CLI.Init.Force)
		if err := config.Init(CLI.Config, CLI.Init.Force); err != nil {
			slog.Error("Init failed", "error", err)
			os.Exit(1)
		}
	case "version":
		fmt.Printf("razgovaraj %s (commit %s, built %s)\n", version.Version, version.GitCommit, version.BuildTime)
	}
}

func runServe(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registry := prom.NewRegistry()
	recorder := metrics.NewPrometheusRecorder(registry)

	store, err := chat.NewSQLiteStore(cfg.History.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Warn("Failed to close chat store", "error", err)
		}
	}()

	c := corpus.New(cfg.Corpus, recorder)
	if err := c.Reindex(ctx); err != nil {
		return err
	}
	docs, chunks := c.Stats()
	slog.Info("Corpus indexed", "documents", docs, "chunks", chunks)

	rotator, err := suggestions.NewRotator(cfg.Suggestions, recorder)
	if err != nil {
		return err
	}
	rotator.Start()
	defer func() {
		if err := rotator.Stop(); err != nil {
			slog.Warn("Failed to stop suggestion rotator", "error", err)
		}
	}()

	publisher, err := events.NewPublisher(cfg.Events)
	if err != nil {
		return err
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			slog.Warn("Failed to close event publisher", "error", err)
		}
	}()

	if cfg.Corpus.Watch {
		watcher, err := corpus.NewWatcher(c)
		if err != nil {
			return err
		}
		if err := watcher.Start(ctx); err != nil {
			return err
		}
		defer func() {
			if err := watcher.Close(); err != nil {
				slog.Warn("Failed to close corpus watcher", "error", err)
			}
		}()
	}

	h := handlers.New(store, c, rotator, publisher, recorder, logger, version.Version)
	srv := httpserver.New(cfg.Server, h, registry, logger)
	if err := srv.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeoutDuration())
	defer cancel()
	return srv.Stop(shutdownCtx)
}

func runIngest(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c := corpus.New(cfg.Corpus, nil)
	if err := c.Reindex(ctx); err != nil {
		return err
	}
	docs, chunks := c.Stats()
	slog.Info("Corpus indexed", "documents", docs, "chunks", chunks)
	return nil
}

func runAsk(cfg *config.Config, question string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c := corpus.New(cfg.Corpus, nil)
	if err := c.Reindex(ctx); err != nil {
		return err
	}

	hits := c.Search(question, 0)
	if len(hits) == 0 {
		fmt.Println("No matching documents found.")
		return nil
	}
	for _, hit := range hits {
		label := hit.Document
		if hit.Section != "" {
			label = fmt.Sprintf("%s, %s", hit.Document, hit.Section)
		}
		fmt.Printf("%s\n%s\n\n", label, markup.Convert(hit.Text))
	}
	return nil
}
