package task

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/bits-and-blooms/bloom/v3"
	"go.uber.org/zap"

	"riftrecap/internal/riot"
)

const (
	DefaultWorkerCount = 4
	DefaultQueueBuffer = 100
	DefaultMaxRetries  = 5
	DefaultBaseDelay   = 2 * time.Second

	// Sized for roughly a day of submissions at a 1% false positive rate.
	dedupCapacity = 100000
	dedupFPRate   = 0.01
)

var (
	// ErrDuplicateTask reports a match+participant pair already submitted
	// this session.
	ErrDuplicateTask = errors.New("task already submitted")

	// ErrQueueFull reports scheduler backpressure.
	ErrQueueFull = errors.New("task queue is full")
)

// SchedulerConfig tunes the worker pool and retry policy.
type SchedulerConfig struct {
	WorkerCount int
	QueueBuffer int
	MaxRetries  int
	BaseDelay   time.Duration
}

// Scheduler fans requests out to a fixed worker pool. Rate-limited runs are
// retried with exponential backoff and jitter up to the retry ceiling; the
// user hears nothing until the ceiling is hit.
type Scheduler struct {
	orch   *Orchestrator
	cfg    SchedulerConfig
	logger *zap.Logger

	queue chan Request

	// Duplicate submissions are dropped for the lifetime of the process.
	seenMu sync.Mutex
	seen   *bloom.BloomFilter

	rngMu sync.Mutex
	rng   *rand.Rand

	// OnComplete, when set before Run, observes every finished task.
	OnComplete func(Metrics)

	wg sync.WaitGroup
}

// NewScheduler creates a scheduler around an orchestrator.
func NewScheduler(orch *Orchestrator, cfg SchedulerConfig, logger *zap.Logger) *Scheduler {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = DefaultWorkerCount
	}
	if cfg.QueueBuffer <= 0 {
		cfg.QueueBuffer = DefaultQueueBuffer
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = DefaultBaseDelay
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		orch:   orch,
		cfg:    cfg,
		logger: logger,
		queue:  make(chan Request, cfg.QueueBuffer),
		seen:   bloom.NewWithEstimates(dedupCapacity, dedupFPRate),
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Submit enqueues a request. Duplicate match+participant pairs and a full
// queue are rejected with sentinel errors. The dedup key is recorded only
// after a successful enqueue; the filter cannot forget, so marking a request
// the queue rejected would make that rejection permanent.
func (s *Scheduler) Submit(req Request) error {
	key := fmt.Sprintf("%s:%d", req.MatchID, req.ParticipantID)

	s.seenMu.Lock()
	defer s.seenMu.Unlock()
	if s.seen.TestString(key) {
		return ErrDuplicateTask
	}

	select {
	case s.queue <- req:
		s.seen.AddString(key)
		return nil
	default:
		return ErrQueueFull
	}
}

// Run starts the worker pool and blocks until ctx is cancelled and all
// in-flight tasks finish.
func (s *Scheduler) Run(ctx context.Context) {
	s.logger.Info("scheduler starting",
		zap.Int("workers", s.cfg.WorkerCount),
		zap.Int("queue_buffer", s.cfg.QueueBuffer),
		zap.Int("max_retries", s.cfg.MaxRetries))

	for i := 0; i < s.cfg.WorkerCount; i++ {
		s.wg.Add(1)
		go s.worker(ctx, i)
	}
	s.wg.Wait()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) worker(ctx context.Context, id int) {
	defer s.wg.Done()
	logger := s.logger.With(zap.Int("worker", id))

	for {
		select {
		case <-ctx.Done():
			return
		case req := <-s.queue:
			metrics := s.executeWithRetry(ctx, req, logger)
			if s.OnComplete != nil {
				s.OnComplete(metrics)
			}
		}
	}
}

// executeWithRetry runs one task, backing off on rate-limit signals until
// the ceiling. Any other outcome is final on the first attempt.
func (s *Scheduler) executeWithRetry(ctx context.Context, req Request, logger *zap.Logger) Metrics {
	var metrics Metrics
	var err error

	for attempt := 0; attempt <= s.cfg.MaxRetries; attempt++ {
		metrics, err = s.orch.Analyze(ctx, req)
		if err == nil {
			return metrics
		}
		if !riot.IsRetryable(err) {
			// Analyze only surfaces retryable errors; anything else is a bug,
			// treat it as final.
			logger.Error("non-retryable error escaped the orchestrator", zap.Error(err))
			return metrics
		}
		if attempt == s.cfg.MaxRetries {
			break
		}

		delay := s.backoff(attempt)
		logger.Info("rate limited, backing off",
			zap.String("match_id", req.MatchID),
			zap.Int("attempt", attempt+1),
			zap.Duration("delay", delay))

		select {
		case <-ctx.Done():
			metrics.Success = false
			return metrics
		case <-time.After(delay):
		}
	}

	logger.Warn("retry ceiling reached, task failed",
		zap.String("match_id", req.MatchID),
		zap.Int("attempts", s.cfg.MaxRetries+1))
	s.orch.NotifyExhausted(ctx, req, metrics.ErrorStage)
	metrics.Success = false
	return metrics
}

// backoff returns baseDelay * 2^attempt plus up to 50% jitter.
func (s *Scheduler) backoff(attempt int) time.Duration {
	delay := s.cfg.BaseDelay * (1 << attempt)

	s.rngMu.Lock()
	jitter := time.Duration(s.rng.Int63n(int64(delay) / 2))
	s.rngMu.Unlock()

	return delay + jitter
}
