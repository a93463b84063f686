package task

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"riftrecap/internal/analysis"
	"riftrecap/internal/delivery"
	"riftrecap/internal/gamemode"
	"riftrecap/internal/logging"
	"riftrecap/internal/refdata"
	"riftrecap/internal/riot"
	"riftrecap/internal/store"
)

// MatchDataProvider fetches raw match artifacts.
type MatchDataProvider interface {
	GetMatchDetails(ctx context.Context, matchID, region string) (*riot.MatchResponse, error)
	GetTimeline(ctx context.Context, matchID, region string) (*riot.TimelineResponse, error)
}

// Persistence stores artifacts, status transitions, and finished results.
type Persistence interface {
	SaveMatchData(ctx context.Context, matchID, region string, matchJSON, timelineJSON []byte) error
	SaveAnalysisResult(ctx context.Context, rec *store.AnalysisRecord) error
	UpdateStatus(ctx context.Context, matchID string, participantID int, status, errMsg string) error
}

// Deliverer pushes reports and failure notifications to the task's callback.
type Deliverer interface {
	Publish(ctx context.Context, target string, report *delivery.FinalAnalysisReport) bool
	SendError(ctx context.Context, target string, errReport *delivery.ErrorReport)
}

// Request identifies one analysis to run.
type Request struct {
	MatchID         string `json:"matchId"`
	ParticipantID   int    `json:"participantId"`
	Region          string `json:"region"`
	RequesterID     string `json:"requesterId"`
	DeliveryTarget  string `json:"deliveryTarget"`
	TraceID         string `json:"traceId,omitempty"`
	Personalization string `json:"personalization,omitempty"`
}

// Orchestrator runs the full pipeline for one request. It holds only shared,
// concurrency-safe collaborators; everything task-scoped lives inside Analyze.
type Orchestrator struct {
	provider  MatchDataProvider
	store     Persistence
	deliverer Deliverer
	generator analysis.Generator
	refdata   *refdata.Arena
	logger    *zap.Logger
}

// NewOrchestrator wires the pipeline. generator and arena may be nil; a nil
// generator means every strategy degrades to the template fallback.
func NewOrchestrator(provider MatchDataProvider, persistence Persistence, deliverer Deliverer,
	generator analysis.Generator, arena *refdata.Arena, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		provider:  provider,
		store:     persistence,
		deliverer: deliverer,
		generator: generator,
		refdata:   arena,
		logger:    logger,
	}
}

// Analyze executes the stages fetching, persisting, mode-resolving,
// strategizing, persisting-result, delivering, strictly in order. The
// returned error is non-nil only for a retryable rate-limit signal; the
// caller owns backoff and re-submission. Every other failure is absorbed:
// the user gets one error notification and the metrics carry the stage.
func (o *Orchestrator) Analyze(ctx context.Context, req Request) (m Metrics, retryErr error) {
	start := time.Now()
	if req.TraceID == "" {
		req.TraceID = uuid.NewString()
	}

	logger := logging.ForTask(o.logger, req.TraceID, req.MatchID)
	m = Metrics{MatchID: req.MatchID, TraceID: req.TraceID}

	// Task-scoped context, torn down on every exit path.
	taskCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sm := NewStateMachine()
	sm.OnTransition(func(from, to Stage) {
		logger.Debug("stage transition", zap.String("from", string(from)), zap.String("to", string(to)))
		o.recordStatus(taskCtx, req, to, "")
	})

	defer func() {
		m.DurationMS = time.Since(start).Milliseconds()
		if r := recover(); r != nil {
			logger.Error("task panicked",
				zap.String("stage", string(sm.Current())),
				zap.Any("panic", r))
			m = o.fail(taskCtx, req, m, sm, fmt.Errorf("internal error: %v", r))
			retryErr = nil
		}
	}()

	// fetching
	sm.TransitionTo(StageFetching)
	match, err := o.provider.GetMatchDetails(taskCtx, req.MatchID, req.Region)
	if err != nil {
		if riot.IsRetryable(err) {
			m.ErrorStage = string(StageFetching)
			return m, err
		}
		return o.fail(taskCtx, req, m, sm, fmt.Errorf("match fetch: %w", err)), nil
	}

	participant := match.ParticipantByID(req.ParticipantID)
	if participant == nil {
		return o.fail(taskCtx, req, m, sm,
			fmt.Errorf("participant %d not present in match", req.ParticipantID)), nil
	}

	tl, err := o.provider.GetTimeline(taskCtx, req.MatchID, req.Region)
	if err != nil {
		if riot.IsRetryable(err) {
			m.ErrorStage = string(StageFetching)
			return m, err
		}
		// Analysis works without a timeline, just with less evidence.
		logger.Warn("timeline unavailable, continuing without it", zap.Error(err))
		tl = nil
	}

	// persisting
	sm.TransitionTo(StagePersisting)
	o.persistArtifacts(taskCtx, req, match, tl, logger)

	// mode-resolving
	sm.TransitionTo(StageResolvingMode)
	mode := gamemode.NewResolver(logger).Resolve(
		match.Info.QueueID, match.Info.GameMode, len(match.Info.Participants))
	m.GameMode = string(mode)
	if o.refdata != nil {
		if q, ok := o.refdata.Queue(match.Info.QueueID); ok {
			logger.Debug("queue identified",
				zap.String("queue", q.Description),
				zap.String("refdata_version", o.refdata.Version()))
		}
	}

	// strategizing
	sm.TransitionTo(StageStrategizing)
	strategy := analysis.NewStrategy(mode, analysis.Deps{Generator: o.generator, Logger: logger})
	result := strategy.Execute(taskCtx, match, tl, req.ParticipantID, analysis.RequestContext{
		RequesterID:     req.RequesterID,
		TraceID:         req.TraceID,
		Personalization: req.Personalization,
	})
	m.Degraded = result.Metrics.Degraded

	// Best-effort enrichments, failures only log.
	condensed, err := condenseSummary(result.ScoreData.Narrative)
	if err != nil {
		logger.Warn("condensed summary skipped", zap.Error(err))
	}
	voice, err := voiceSummary(participant.ChampionName, participant.Win, result.ScoreData.Narrative)
	if err != nil {
		logger.Warn("voice summary skipped", zap.Error(err))
	}

	// persisting-result
	sm.TransitionTo(StagePersistingResult)
	o.persistResult(taskCtx, req, result, condensed, voice, logger)

	// delivering
	sm.TransitionTo(StageDelivering)
	report := buildReport(req, match, participant, result, time.Since(start))
	m.WebhookDelivered = o.deliverer.Publish(taskCtx, req.DeliveryTarget, report)
	if !m.WebhookDelivered && req.DeliveryTarget != "" {
		logger.Warn("report delivery failed, analysis result is still persisted")
	}

	sm.TransitionTo(StageDone)
	m.Success = true
	logger.Info("task complete",
		zap.String("mode", m.GameMode),
		zap.Bool("degraded", m.Degraded),
		zap.Bool("delivered", m.WebhookDelivered),
		zap.Duration("elapsed", time.Since(start)))
	return m, nil
}

// NotifyExhausted sends the one user-facing notification after the scheduler
// gives up on a rate-limited task.
func (o *Orchestrator) NotifyExhausted(ctx context.Context, req Request, stage string) {
	o.deliverer.SendError(ctx, req.DeliveryTarget, &delivery.ErrorReport{
		MatchID: req.MatchID,
		TraceID: req.TraceID,
		Stage:   stage,
		Message: "provider rate limit persisted across all retries",
	})
	if o.store != nil {
		o.store.UpdateStatus(ctx, req.MatchID, req.ParticipantID, store.StatusFailed, "rate limit retries exhausted")
	}
}

// fail moves the machine to failed, records status, and sends the single
// error notification. Never returns an error to the caller.
func (o *Orchestrator) fail(ctx context.Context, req Request, m Metrics, sm *StateMachine, cause error) Metrics {
	stage := sm.Current()
	m.ErrorStage = string(stage)
	m.Success = false

	logger := logging.ForTask(o.logger, req.TraceID, req.MatchID)
	logger.Error("task failed",
		zap.String("stage", string(stage)),
		zap.Error(cause))

	sm.TransitionTo(StageFailed)
	o.recordStatus(ctx, req, StageFailed, cause.Error())

	o.deliverer.SendError(ctx, req.DeliveryTarget, &delivery.ErrorReport{
		MatchID: req.MatchID,
		TraceID: req.TraceID,
		Stage:   string(stage),
		Message: cause.Error(),
	})
	return m
}

// recordStatus maps stages onto the persisted status column. Store errors
// only log; status tracking never gates the pipeline.
func (o *Orchestrator) recordStatus(ctx context.Context, req Request, stage Stage, errMsg string) {
	if o.store == nil {
		return
	}
	var status string
	switch stage {
	case StageDone:
		status = store.StatusCompleted
	case StageFailed:
		status = store.StatusFailed
	case StageFetching:
		status = store.StatusProcessing
	default:
		return
	}
	if err := o.store.UpdateStatus(ctx, req.MatchID, req.ParticipantID, status, errMsg); err != nil {
		o.logger.Warn("status update failed",
			zap.String("match_id", req.MatchID),
			zap.String("status", status),
			zap.Error(err))
	}
}

func (o *Orchestrator) persistArtifacts(ctx context.Context, req Request, match *riot.MatchResponse, tl *riot.TimelineResponse, logger *zap.Logger) {
	if o.store == nil {
		return
	}
	// The provider attaches the wire bytes; persisting those keeps fields the
	// typed model does not decode. Marshal only when a caller handed us a bare
	// struct with no captured body.
	matchJSON := match.Raw
	if len(matchJSON) == 0 {
		var err error
		if matchJSON, err = json.Marshal(match); err != nil {
			logger.Warn("match artifact marshal failed", zap.Error(err))
			return
		}
	}
	var tlJSON []byte
	if tl != nil {
		tlJSON = tl.Raw
		if len(tlJSON) == 0 {
			var err error
			if tlJSON, err = json.Marshal(tl); err != nil {
				logger.Warn("timeline artifact marshal failed", zap.Error(err))
				tlJSON = nil
			}
		}
	}
	if err := o.store.SaveMatchData(ctx, req.MatchID, req.Region, matchJSON, tlJSON); err != nil {
		logger.Warn("artifact persistence failed, analysis continues", zap.Error(err))
	}
}

// scorePayload is the persisted score_data document.
type scorePayload struct {
	Scores            any      `json:"scores"`
	Highlights        []string `json:"highlights,omitempty"`
	Suggestions       []string `json:"suggestions,omitempty"`
	Evidence          any      `json:"evidence,omitempty"`
	DegradationReason string   `json:"degradationReason,omitempty"`
	CondensedSummary  string   `json:"condensedSummary,omitempty"`
	VoiceSummary      string   `json:"voiceSummary,omitempty"`
}

func (o *Orchestrator) persistResult(ctx context.Context, req Request, result analysis.StrategyResult, condensed, voice string, logger *zap.Logger) {
	if o.store == nil {
		return
	}
	payload, err := json.Marshal(scorePayload{
		Scores:            result.ScoreData.Scores,
		Highlights:        result.ScoreData.Highlights,
		Suggestions:       result.ScoreData.Suggestions,
		Evidence:          result.ScoreData.Evidence,
		DegradationReason: result.Metrics.DegradationReason,
		CondensedSummary:  condensed,
		VoiceSummary:      voice,
	})
	if err != nil {
		logger.Warn("score payload marshal failed", zap.Error(err))
		return
	}
	rec := &store.AnalysisRecord{
		MatchID:       req.MatchID,
		ParticipantID: req.ParticipantID,
		GameMode:      result.Mode,
		Degraded:      result.Metrics.Degraded,
		Narrative:     result.ScoreData.Narrative,
		Tone:          result.ScoreData.Tone,
		ScoreData:     payload,
		TraceID:       req.TraceID,
	}
	if err := o.store.SaveAnalysisResult(ctx, rec); err != nil {
		logger.Error("result persistence failed, report will still be delivered", zap.Error(err))
	}
}

// buildReport assembles the immutable externally delivered shape.
func buildReport(req Request, match *riot.MatchResponse, p *riot.MatchParticipant, result analysis.StrategyResult, elapsed time.Duration) *delivery.FinalAnalysisReport {
	return &delivery.FinalAnalysisReport{
		MatchID:           req.MatchID,
		TraceID:           req.TraceID,
		RequesterID:       req.RequesterID,
		ChampionName:      p.ChampionName,
		Mode:              result.Mode,
		Win:               p.Win,
		Degraded:          result.Metrics.Degraded,
		DegradationReason: result.Metrics.DegradationReason,
		Narrative:         result.ScoreData.Narrative,
		Tone:              result.ScoreData.Tone,
		Highlights:        result.ScoreData.Highlights,
		Suggestions:       result.ScoreData.Suggestions,
		KDA:               fmt.Sprintf("%d/%d/%d", p.Kills, p.Deaths, p.Assists),
		OverallScore:      result.ScoreData.Scores.Overall,
		ProcessingMS:      elapsed.Milliseconds(),
	}
}
