// riftrecap server: HTTP intake for analysis tasks, result reads, and a live
// status feed. Workers run in-process; a task accepted here is analyzed and
// delivered without any external queue.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
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

// taskStore is the slice of the persistence layer the HTTP handlers touch.
type taskStore interface {
	UpdateStatus(ctx context.Context, matchID string, participantID int, status, errMsg string) error
	GetAnalysisResult(ctx context.Context, matchID string, participantID int) (*store.AnalysisRecord, error)
	GetTaskStatus(ctx context.Context, matchID string, participantID int) (status, errMsg string, err error)
}

type server struct {
	scheduler *task.Scheduler
	db        taskStore
	arena     *refdata.Arena
	hub       *statusHub
	logger    *zap.Logger
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogJSON)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := store.New(ctx, cfg.DatabaseURL, logger.Named("store"))
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()
	if err := db.CreateTables(ctx); err != nil {
		logger.Fatal("schema creation failed", zap.Error(err))
	}

	arena, err := refdata.Open(cfg.RefDataPath, logger.Named("refdata"))
	if err != nil {
		logger.Fatal("refdata open failed", zap.Error(err))
	}
	defer arena.Close()

	client, err := riot.NewClient(cfg.RiotAPIKey, logger)
	if err != nil {
		logger.Fatal("riot client init failed", zap.Error(err))
	}

	var generator analysis.Generator
	if cfg.GenAIAPIKey != "" {
		gen, err := narrative.NewGeminiGenerator(ctx, cfg.GenAIAPIKey, cfg.GenAIModel, logger.Named("narrative"))
		if err != nil {
			logger.Warn("generator unavailable, all reports will use template summaries", zap.Error(err))
		} else {
			generator = gen
		}
	} else {
		logger.Warn("GENAI_API_KEY not set, all reports will use template summaries")
	}

	orch := task.NewOrchestrator(client, db, delivery.NewClient(logger.Named("delivery")), generator, arena, logger.Named("task"))
	scheduler := task.NewScheduler(orch, task.SchedulerConfig{
		WorkerCount: cfg.WorkerCount,
		QueueBuffer: cfg.QueueBuffer,
		MaxRetries:  cfg.MaxRetries,
		BaseDelay:   cfg.RetryBaseDelay,
	}, logger.Named("scheduler"))

	hub := newStatusHub(logger.Named("hub"))
	scheduler.OnComplete = hub.broadcast

	s := &server{scheduler: scheduler, db: db, arena: arena, hub: hub, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/analyze", s.handleAnalyze)
	mux.HandleFunc("/api/result/", s.handleResult)
	mux.HandleFunc("/api/status/", s.handleStatus)
	mux.HandleFunc("/api/refdata/version", s.handleRefdataVersion)
	mux.HandleFunc("/ws/status", hub.handleWS)

	httpServer := &http.Server{Addr: ":" + cfg.Port, Handler: mux}

	schedulerDone := make(chan struct{})
	go func() {
		scheduler.Run(ctx)
		close(schedulerDone)
	}()

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Port))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown incomplete", zap.Error(err))
	}
	hub.closeAll()

	select {
	case <-schedulerDone:
	case <-time.After(cfg.ShutdownTimeout):
		logger.Warn("scheduler did not drain in time")
	}
	logger.Info("goodbye")
}

// handleAnalyze accepts a task and returns 202 with its trace id.
func (s *server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req task.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.MatchID == "" || req.ParticipantID < 1 || req.Region == "" {
		http.Error(w, "matchId, participantId and region are required", http.StatusBadRequest)
		return
	}
	if req.TraceID == "" {
		req.TraceID = uuid.NewString()
	}

	if err := s.scheduler.Submit(req); err != nil {
		switch {
		case errors.Is(err, task.ErrDuplicateTask):
			http.Error(w, "analysis already requested for this participant", http.StatusConflict)
		case errors.Is(err, task.ErrQueueFull):
			http.Error(w, "queue is full, retry later", http.StatusServiceUnavailable)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	// Record the pending row now so /api/status answers for a task that has
	// been accepted but not yet picked up by a worker.
	if err := s.db.UpdateStatus(r.Context(), req.MatchID, req.ParticipantID, store.StatusPending, ""); err != nil {
		s.logger.Warn("pending status write failed",
			zap.String("match_id", req.MatchID),
			zap.Error(err))
	}

	s.logger.Info("task accepted",
		zap.String("match_id", req.MatchID),
		zap.Int("participant_id", req.ParticipantID),
		zap.String("trace_id", req.TraceID))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{
		"matchId": req.MatchID,
		"traceId": req.TraceID,
		"status":  store.StatusPending,
	})
}

// handleResult reads back a persisted analysis: /api/result/{matchID}?participant=N
func (s *server) handleResult(w http.ResponseWriter, r *http.Request) {
	matchID, participantID, ok := s.taskPathParams(w, r, "/api/result/")
	if !ok {
		return
	}

	rec, err := s.db.GetAnalysisResult(r.Context(), matchID, participantID)
	if err != nil {
		if errors.Is(err, store.ErrResultNotFound) {
			http.Error(w, "no result for this match", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rec)
}

// handleStatus exposes the task status row: /api/status/{matchID}?participant=N
func (s *server) handleStatus(w http.ResponseWriter, r *http.Request) {
	matchID, participantID, ok := s.taskPathParams(w, r, "/api/status/")
	if !ok {
		return
	}

	status, errMsg, err := s.db.GetTaskStatus(r.Context(), matchID, participantID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if status == "" {
		http.Error(w, "unknown task", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"matchId": matchID,
		"status":  status,
		"error":   errMsg,
	})
}

func (s *server) handleRefdataVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"version": s.arena.Version()})
}

// taskPathParams extracts {matchID} from the path and the participant query
// parameter, writing the error response itself on bad input.
func (s *server) taskPathParams(w http.ResponseWriter, r *http.Request, prefix string) (string, int, bool) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return "", 0, false
	}
	matchID := strings.TrimPrefix(r.URL.Path, prefix)
	if matchID == "" || strings.Contains(matchID, "/") {
		http.Error(w, "match id required", http.StatusBadRequest)
		return "", 0, false
	}
	participantID, err := strconv.Atoi(r.URL.Query().Get("participant"))
	if err != nil || participantID < 1 {
		http.Error(w, "participant query parameter required", http.StatusBadRequest)
		return "", 0, false
	}
	return matchID, participantID, true
}
