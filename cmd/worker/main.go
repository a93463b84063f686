// riftrecap worker: analyzes one or more matches from the command line and
// prints the resulting metrics. Useful for backfills and for running the
// pipeline without the intake server.
//
// Usage:
//
//	worker -region na1 -participant 3 -webhook https://... NA1_5296710101 NA1_5296712345
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go.uber.org/zap"

	"riftrecap/internal/analysis"
	"riftrecap/internal/config"
	"riftrecap/internal/delivery"
	"riftrecap/internal/logging"
	"riftrecap/internal/narrative"
	"riftrecap/internal/refdata"
	"riftrecap/internal/riot"
	"riftrecap/internal/store"
	"riftrecap/internal/task"
)

func main() {
	region := flag.String("region", "na1", "platform region of the matches")
	participant := flag.Int("participant", 1, "participant id to analyze (1-10, 1-16 for arena)")
	webhook := flag.String("webhook", "", "delivery webhook URL (optional, results are always persisted)")
	requester := flag.String("requester", "cli", "requester id recorded with the analysis")
	noStore := flag.Bool("no-store", false, "skip Postgres persistence")
	flag.Parse()

	matchIDs := flag.Args()
	if len(matchIDs) == 0 {
		fmt.Fprintln(os.Stderr, "usage: worker [flags] MATCH_ID [MATCH_ID...]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogJSON)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := riot.NewClient(cfg.RiotAPIKey, logger)
	if err != nil {
		logger.Fatal("riot client init failed", zap.Error(err))
	}

	var persistence task.Persistence
	if !*noStore {
		db, err := store.New(ctx, cfg.DatabaseURL, logger.Named("store"))
		if err != nil {
			logger.Fatal("database connection failed, use -no-store to run without it", zap.Error(err))
		}
		defer db.Close()
		if err := db.CreateTables(ctx); err != nil {
			logger.Fatal("schema creation failed", zap.Error(err))
		}
		persistence = db
	}

	arena, err := refdata.Open(cfg.RefDataPath, logger.Named("refdata"))
	if err != nil {
		logger.Warn("refdata unavailable, continuing without it", zap.Error(err))
		arena = nil
	} else {
		defer arena.Close()
	}

	var generator analysis.Generator
	if cfg.GenAIAPIKey != "" {
		gen, err := narrative.NewGeminiGenerator(ctx, cfg.GenAIAPIKey, cfg.GenAIModel, logger.Named("narrative"))
		if err != nil {
			logger.Warn("generator unavailable, using template summaries", zap.Error(err))
		} else {
			generator = gen
		}
	}

	orch := task.NewOrchestrator(client, persistence, delivery.NewClient(logger.Named("delivery")),
		generator, arena, logger.Named("task"))
	scheduler := task.NewScheduler(orch, task.SchedulerConfig{
		WorkerCount: cfg.WorkerCount,
		MaxRetries:  cfg.MaxRetries,
		BaseDelay:   cfg.RetryBaseDelay,
	}, logger.Named("scheduler"))

	var mu sync.Mutex
	var results []task.Metrics
	done := make(chan struct{})
	scheduler.OnComplete = func(m task.Metrics) {
		mu.Lock()
		results = append(results, m)
		finished := len(results) == len(matchIDs)
		mu.Unlock()
		if finished {
			close(done)
		}
	}

	for _, matchID := range matchIDs {
		req := task.Request{
			MatchID:        matchID,
			ParticipantID:  *participant,
			Region:         *region,
			RequesterID:    *requester,
			DeliveryTarget: *webhook,
		}
		if err := scheduler.Submit(req); err != nil {
			logger.Fatal("submission failed", zap.String("match_id", matchID), zap.Error(err))
		}
	}

	runCtx, cancel := context.WithCancel(ctx)
	go func() {
		select {
		case <-done:
		case <-ctx.Done():
		}
		cancel()
	}()
	scheduler.Run(runCtx)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	failed := 0
	for _, m := range results {
		enc.Encode(m)
		if !m.Success {
			failed++
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}
