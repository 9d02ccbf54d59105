// Roomrec - Clustering-Based Room Recommendation Engine
// Copyright 2026 Moim Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moimlab/roomrec

// Package main is the entry point for the roomrec batch tool and service.
//
// Roomrec segments a community's users into behavioral clusters and serves
// room recommendations from per-cluster popularity tables, falling back to
// deterministic category scoring when the cluster path cannot answer.
//
// # Subcommands
//
//	roomrec train -users users.json
//	    Retrain the cluster model from a user population export and
//	    publish a new artifact generation.
//
//	roomrec refresh -log actions.json
//	    Rebuild the per-cluster popularity tables from an action log
//	    against the current generation's cluster map.
//
//	roomrec rank -request request.json
//	    Rank one request (user + candidates) and print the response JSON.
//
//	roomrec run
//	    Run the supervised periodic pipeline (train, refresh, swap) until
//	    SIGINT/SIGTERM.
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins): ROOMREC_* environment variables, a YAML config file
// (ROOMREC_CONFIG_PATH or ./config.yaml), then built-in defaults.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	json "github.com/goccy/go-json"

	"github.com/moimlab/roomrec/internal/config"
	"github.com/moimlab/roomrec/internal/jobs"
	"github.com/moimlab/roomrec/internal/logging"
	"github.com/moimlab/roomrec/internal/recommend"
	"github.com/moimlab/roomrec/internal/recommend/cluster"
	"github.com/moimlab/roomrec/internal/recommend/popularity"
	"github.com/moimlab/roomrec/internal/recommend/storage"
	"github.com/moimlab/roomrec/internal/validation"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(cfg.Logging)
	logger := logging.Logger()

	store, err := storage.NewStore(cfg.Artifacts.Dir, logger)
	if err != nil {
		logging.Fatal().Err(err).Str("dir", cfg.Artifacts.Dir).Msg("Failed to open artifact store")
	}

	switch os.Args[1] {
	case "train":
		err = runTrain(cfg, store, os.Args[2:])
	case "refresh":
		err = runRefresh(cfg, store, os.Args[2:])
	case "rank":
		err = runRank(cfg, store, os.Args[2:])
	case "run":
		err = runService(cfg, store, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		logging.Fatal().Err(err).Str("command", os.Args[1]).Msg("Command failed")
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: roomrec <train|refresh|rank|run> [flags]")
}

// runTrain retrains the model from a user export and prints the summary.
func runTrain(cfg *config.Config, store *storage.Store, args []string) error {
	fs := flag.NewFlagSet("train", flag.ExitOnError)
	usersPath := fs.String("users", cfg.Jobs.UsersFile, "path to JSON array of user profiles")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *usersPath == "" {
		return errors.New("train: -users is required")
	}

	source := &jobs.FileUserSource{Path: *usersPath}
	users, err := source.Users(context.Background())
	if err != nil {
		return err
	}

	trainer := cluster.NewTrainer(&cfg.Recommend, store, logging.Logger())
	summary, err := trainer.Train(context.Background(), users)
	if err != nil {
		return err
	}

	if err := store.Prune(cfg.Artifacts.KeepGenerations); err != nil {
		logging.Warn().Err(err).Msg("Failed to prune old generations")
	}

	return printJSON(summary)
}

// runRefresh rebuilds popularity tables from an action log export.
func runRefresh(cfg *config.Config, store *storage.Store, args []string) error {
	fs := flag.NewFlagSet("refresh", flag.ExitOnError)
	logPath := fs.String("log", cfg.Jobs.ActionLogFile, "path to JSON array of action log entries")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *logPath == "" {
		return errors.New("refresh: -log is required")
	}

	source := &jobs.FileActionLogSource{Path: *logPath}
	entries, err := source.Entries(context.Background())
	if err != nil {
		return err
	}

	agg := popularity.NewAggregator(store, logging.Logger())
	if err := agg.Refresh(context.Background(), entries); err != nil {
		return err
	}

	if err := store.Prune(cfg.Artifacts.KeepGenerations); err != nil {
		logging.Warn().Err(err).Msg("Failed to prune old generations")
	}

	logging.Info().Int("entries", len(entries)).Msg("Popularity tables refreshed")
	return nil
}

// runRank ranks a single request read from a JSON file (or stdin with "-").
func runRank(cfg *config.Config, store *storage.Store, args []string) error {
	fs := flag.NewFlagSet("rank", flag.ExitOnError)
	reqPath := fs.String("request", "-", "path to request JSON, or - for stdin")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var data []byte
	var err error
	if *reqPath == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(*reqPath)
	}
	if err != nil {
		return fmt.Errorf("reading request: %w", err)
	}

	var req recommend.Request
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("decoding request: %w", err)
	}
	if err := validation.ValidateStruct(&req); err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}

	orch := buildOrchestrator(cfg, store)
	resp, err := orch.Rank(context.Background(), req)
	if err != nil {
		return err
	}
	return printJSON(resp)
}

// runService runs the supervised periodic pipeline until shutdown.
func runService(cfg *config.Config, store *storage.Store, args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if cfg.Jobs.UsersFile == "" {
		return errors.New("run: jobs.users_file must be configured")
	}

	logger := logging.Logger()
	tier0 := cluster.NewRecommender(&cfg.Recommend, store, logger)
	trainer := cluster.NewTrainer(&cfg.Recommend, store, logger)
	agg := popularity.NewAggregator(store, logger)

	pipeline := jobs.NewPipeline(
		&jobs.FileUserSource{Path: cfg.Jobs.UsersFile},
		&jobs.FileActionLogSource{Path: cfg.Jobs.ActionLogFile},
		trainer,
		agg,
		tier0,
		logger,
	)

	slogger := slog.New(logging.NewSlogHandler(logger))
	tree := jobs.NewTree(slogger, jobs.DefaultTreeConfig())
	tree.Add(jobs.NewPipelineService(pipeline, cfg.Jobs.Interval, logger))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logging.Info().Msg("Stopped gracefully")
	return nil
}

// buildOrchestrator wires the two-tier serving stack.
func buildOrchestrator(cfg *config.Config, store *storage.Store) *recommend.Orchestrator {
	logger := logging.Logger()
	tier0 := cluster.NewRecommender(&cfg.Recommend, store, logger)
	tier1 := recommend.NewCategoryRecommender(&cfg.Recommend)
	return recommend.NewOrchestrator(&cfg.Recommend, tier0, tier1, logger)
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
