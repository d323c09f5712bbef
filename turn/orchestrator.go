package turn

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/ccalde29/CHAIT-world-sub001/config"
	"github.com/ccalde29/CHAIT-world-sub001/internal/metrics"
	"github.com/ccalde29/CHAIT-world-sub001/mood"
	"github.com/ccalde29/CHAIT-world-sub001/speaking"
	"github.com/ccalde29/CHAIT-world-sub001/state"
	"github.com/ccalde29/CHAIT-world-sub001/types"
)

// Speaking roles a response can carry.
const (
	RolePrimary   = "primary"
	RoleSecondary = "secondary"
)

// TurnInput is one incoming user message plus the roster and conversation
// context the caller already holds.
type TurnInput struct {
	SessionID string
	UserID    string
	Message   string

	// Characters is the active roster. Must be non-empty.
	Characters []types.Character

	// LastSpeakerID is who produced the previous message (character ID or
	// user ID), feeding the relationship term.
	LastSpeakerID string

	// RecentSpeakers lists who produced the most recent responses in this
	// session, newest first, feeding the recency penalty.
	RecentSpeakers []string
}

// Response is one character's contribution to a turn.
type Response struct {
	ID            string          `json:"id"`
	CharacterID   string          `json:"character_id"`
	CharacterName string          `json:"character_name"`
	Role          string          `json:"role"`
	Text          string          `json:"text"`
	Mood          types.MoodState `json:"mood"`

	// Delay is how long the caller should wait before showing this
	// response, staggering secondary voices behind the primary.
	Delay time.Duration `json:"delay"`

	// Fallback marks a primary response whose generation failed and was
	// replaced by the configured fallback line.
	Fallback bool `json:"fallback,omitempty"`
}

// Skipped records a character that was queued to speak but produced
// nothing; its failure never aborts the turn.
type Skipped struct {
	CharacterID string `json:"character_id"`
	Role        string `json:"role"`
	Reason      string `json:"reason"`
}

// TurnResult is everything one turn produced.
type TurnResult struct {
	TurnID    string                     `json:"turn_id"`
	Queue     speaking.Queue             `json:"queue"`
	Responses []Response                 `json:"responses"`
	Skipped   []Skipped                  `json:"skipped,omitempty"`
	Moods     map[string]types.MoodState `json:"moods"`
}

// Orchestrator runs complete conversation turns: it updates every
// character's mood from the incoming message, ranks the roster, generates
// the primary response and then the staggered secondary ones, and writes
// session/topic state back through the store.
//
// Turns for the same session are serialized on a per-session lock, keeping
// the participation counters monotonic; turns for different sessions run
// independently.
type Orchestrator struct {
	store     state.Store
	generator Generator
	cfg       config.EngineConfig
	logger    *zap.Logger
	collector *metrics.Collector
	tracer    trace.Tracer

	sessionLocks sync.Map // sessionID -> *sync.Mutex
}

// Option configures the Orchestrator.
type Option func(*Orchestrator)

// WithMetrics attaches a metrics collector.
func WithMetrics(c *metrics.Collector) Option {
	return func(o *Orchestrator) { o.collector = c }
}

// NewOrchestrator wires the turn pipeline. The transition tables are
// validated here: an incomplete mood state machine is a build defect and
// fails construction instead of surfacing mid-conversation.
func NewOrchestrator(store state.Store, gen Generator, cfg config.EngineConfig, logger *zap.Logger, opts ...Option) (*Orchestrator, error) {
	if store == nil || gen == nil {
		return nil, types.NewError(types.ErrInvalidInput, "store and generator are required")
	}
	if err := mood.ValidateTransitions(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	o := &Orchestrator{
		store:     store,
		generator: gen,
		cfg:       cfg,
		logger:    logger.With(zap.String("component", "turn_orchestrator")),
		tracer:    otel.Tracer("github.com/ccalde29/CHAIT-world-sub001/turn"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// RunTurn processes one user message end to end and returns the queue,
// the responses and the updated moods. Collaborator failures are isolated
// per character: a failed secondary is reported in Skipped, a failed
// primary gets the fallback line, and a failed write-back is logged
// without touching the turn's output.
func (o *Orchestrator) RunTurn(ctx context.Context, in TurnInput) (*TurnResult, error) {
	if len(in.Characters) == 0 {
		return nil, types.NewError(types.ErrNoActiveCharacters, "turn requires at least one active character")
	}
	if in.SessionID == "" || in.Message == "" {
		return nil, types.NewError(types.ErrInvalidInput, "session id and message are required")
	}

	lock := o.sessionLock(in.SessionID)
	lock.Lock()
	defer lock.Unlock()

	ctx, span := o.tracer.Start(ctx, "turn.RunTurn",
		trace.WithAttributes(
			attribute.String("session.id", in.SessionID),
			attribute.Int("characters", len(in.Characters)),
		))
	defer span.End()

	started := time.Now()
	turnID := uuid.New().String()
	log := o.logger.With(zap.String("turn_id", turnID), zap.String("session_id", in.SessionID))

	// Mood update happens before scoring: the queue must rank the roster
	// on post-message moods, not pre-message ones.
	triggers := mood.DetectTriggers(in.Message)
	moods := o.updateMoods(ctx, in, triggers, log)

	tc := o.buildContext(ctx, in, moods, log)
	queue, ok := speaking.BuildQueue(in.Characters, tc)
	if !ok {
		return nil, types.NewError(types.ErrNoActiveCharacters, "scoring produced no queue")
	}
	if o.collector != nil {
		o.collector.ObserveQueue(len(queue.Secondary), len(queue.Silent))
	}
	log.Info("speaking queue built",
		zap.String("primary", queue.Primary.Character.ID),
		zap.Float64("primary_score", queue.Primary.Score),
		zap.Int("secondary", len(queue.Secondary)),
		zap.Int("silent", len(queue.Silent)),
	)

	result := &TurnResult{TurnID: turnID, Queue: queue, Moods: moods}

	// Primary speaks first; its text feeds the secondary prompts.
	primary := o.generatePrimary(ctx, in, queue.Primary, log)
	result.Responses = append(result.Responses, primary)
	o.writeBack(ctx, in, queue.Primary.Character, log)

	secondaries, skipped := o.generateSecondaries(ctx, in, queue.Secondary, primary.Text, log)
	for _, r := range secondaries {
		result.Responses = append(result.Responses, r)
	}
	result.Skipped = skipped

	if o.collector != nil {
		o.collector.ObserveTurn(time.Since(started))
	}
	log.Info("turn completed",
		zap.Int("responses", len(result.Responses)),
		zap.Int("skipped", len(result.Skipped)),
		zap.Duration("elapsed", time.Since(started)),
	)
	return result, nil
}

// sessionLock returns the mutex serializing turns of one session.
func (o *Orchestrator) sessionLock(sessionID string) *sync.Mutex {
	v, _ := o.sessionLocks.LoadOrStore(sessionID, &sync.Mutex{})
	return v.(*sync.Mutex)
}

// updateMoods advances every character's mood by the incoming message and
// persists the results. Store failures degrade to defaults (reads) or are
// logged and dropped (writes); they never fail the turn.
func (o *Orchestrator) updateMoods(ctx context.Context, in TurnInput, triggers []types.Trigger, log *zap.Logger) map[string]types.MoodState {
	now := time.Now()
	moods := make(map[string]types.MoodState, len(in.Characters))

	for _, c := range in.Characters {
		current, err := o.store.GetMoodState(ctx, in.SessionID, c.ID)
		if err != nil {
			if !errors.Is(err, state.ErrNotFound) {
				log.Warn("mood load failed, using default",
					zap.String("character_id", c.ID), zap.Error(err))
			}
			current = types.NewMoodState()
		}

		next := mood.Next(current, triggers, c.Volatility())
		next.UpdatedAt = now
		moods[c.ID] = next

		if err := o.store.PutMoodState(ctx, in.SessionID, c.ID, next); err != nil {
			if o.collector != nil {
				o.collector.ObserveStoreFailure("put_mood")
			}
			log.Warn("mood persist failed",
				zap.String("character_id", c.ID), zap.Error(err))
		}
	}
	return moods
}

// buildContext loads the scoring history for the roster. Missing or
// unreadable records degrade to "no history".
func (o *Orchestrator) buildContext(ctx context.Context, in TurnInput, moods map[string]types.MoodState, log *zap.Logger) *speaking.TurnContext {
	tc := &speaking.TurnContext{
		Message:        in.Message,
		SessionID:      in.SessionID,
		UserID:         in.UserID,
		LastSpeakerID:  in.LastSpeakerID,
		RecentSpeakers: in.RecentSpeakers,
		Moods:          moods,
		Sessions:       make(map[string]types.SessionState, len(in.Characters)),
		Topics:         make(map[string][]types.TopicEngagement, len(in.Characters)),
	}
	if w := o.cfg.RecentSpeakerWindow; w > 0 && len(tc.RecentSpeakers) > w {
		tc.RecentSpeakers = tc.RecentSpeakers[:w]
	}

	for _, c := range in.Characters {
		if ss, err := o.store.GetSessionState(ctx, in.SessionID, c.ID); err == nil {
			tc.Sessions[c.ID] = ss
		} else if !errors.Is(err, state.ErrNotFound) {
			log.Warn("session load failed, using default",
				zap.String("character_id", c.ID), zap.Error(err))
		}
		if tes, err := o.store.TopicEngagements(ctx, in.UserID, c.ID); err == nil {
			if len(tes) > 0 {
				tc.Topics[c.ID] = tes
			}
		} else {
			log.Warn("topic load failed, using default",
				zap.String("character_id", c.ID), zap.Error(err))
		}
	}

	if edges, err := o.store.Relationships(ctx, in.UserID); err == nil {
		tc.Relationships = edges
	} else {
		log.Warn("relationship load failed, using default", zap.Error(err))
	}
	return tc
}

// generatePrimary produces the primary response, substituting the fallback
// line when the LLM call fails so the conversation never stalls.
func (o *Orchestrator) generatePrimary(ctx context.Context, in TurnInput, sc speaking.ScoredCharacter, log *zap.Logger) Response {
	resp := Response{
		ID:            uuid.New().String(),
		CharacterID:   sc.Character.ID,
		CharacterName: sc.Character.Name,
		Role:          RolePrimary,
		Mood:          sc.MoodState,
	}

	text, err := o.generator.Generate(ctx, GenerateRequest{
		Character: sc.Character,
		MoodHint:  mood.Prompt(sc.MoodState.Mood, sc.MoodState.Intensity, sc.Character),
		Message:   in.Message,
		MaxTokens: sc.Character.MaxTokens,
	})
	if err != nil {
		if o.collector != nil {
			o.collector.ObserveGenerationFailure(RolePrimary)
		}
		log.Warn("primary generation failed, using fallback",
			zap.String("character_id", sc.Character.ID), zap.Error(err))
		resp.Text = o.cfg.FallbackLine
		resp.Fallback = true
	} else {
		resp.Text = text
	}
	if o.collector != nil {
		o.collector.ObserveResponse(RolePrimary)
	}
	return resp
}

// generateSecondaries fans out the secondary LLM calls with bounded
// concurrency and collects result-or-error per character; one failure
// never aborts its siblings. Responses come back in queue order with the
// staggered per-index delay filled in.
func (o *Orchestrator) generateSecondaries(ctx context.Context, in TurnInput, secondary []speaking.ScoredCharacter, primaryText string, log *zap.Logger) ([]Response, []Skipped) {
	if max := o.cfg.MaxSecondary; max > 0 && len(secondary) > max {
		for _, sc := range secondary[max:] {
			log.Debug("secondary capped", zap.String("character_id", sc.Character.ID))
		}
		secondary = secondary[:max]
	}
	if len(secondary) == 0 {
		return nil, nil
	}

	limit := int64(o.cfg.SecondaryConcurrency)
	if limit <= 0 {
		limit = int64(len(secondary))
	}
	sem := semaphore.NewWeighted(limit)

	texts := make([]string, len(secondary))
	errs := make([]error, len(secondary))
	var wg sync.WaitGroup

	for i, sc := range secondary {
		wg.Add(1)
		go func(i int, sc speaking.ScoredCharacter) {
			defer wg.Done()
			if err := sem.Acquire(ctx, 1); err != nil {
				errs[i] = err
				return
			}
			defer sem.Release(1)

			texts[i], errs[i] = o.generator.Generate(ctx, GenerateRequest{
				Character:       sc.Character,
				MoodHint:        mood.Prompt(sc.MoodState.Mood, sc.MoodState.Intensity, sc.Character),
				Message:         in.Message,
				PrimaryResponse: primaryText,
				MaxTokens:       sc.Character.MaxTokens,
			})
		}(i, sc)
	}
	wg.Wait()

	var responses []Response
	var skipped []Skipped
	for i, sc := range secondary {
		if errs[i] != nil {
			if o.collector != nil {
				o.collector.ObserveGenerationFailure(RoleSecondary)
			}
			log.Warn("secondary generation failed, omitting response",
				zap.String("character_id", sc.Character.ID), zap.Error(errs[i]))
			skipped = append(skipped, Skipped{
				CharacterID: sc.Character.ID,
				Role:        RoleSecondary,
				Reason:      errs[i].Error(),
			})
			continue
		}
		responses = append(responses, Response{
			ID:            uuid.New().String(),
			CharacterID:   sc.Character.ID,
			CharacterName: sc.Character.Name,
			Role:          RoleSecondary,
			Text:          texts[i],
			Mood:          sc.MoodState,
			Delay:         o.cfg.SecondaryDelay * time.Duration(len(responses)+1),
		})
		if o.collector != nil {
			o.collector.ObserveResponse(RoleSecondary)
		}
		o.writeBack(ctx, in, sc.Character, log)
	}
	return responses, skipped
}

// writeBack records that a character actually spoke: once per responding
// character per turn, never for silent ones. Failures are logged and
// isolated; the turn's output is already computed and stays intact.
func (o *Orchestrator) writeBack(ctx context.Context, in TurnInput, c types.Character, log *zap.Logger) {
	now := time.Now()
	if err := o.store.RecordSpeaking(ctx, in.SessionID, c.ID, now); err != nil {
		if o.collector != nil {
			o.collector.ObserveStoreFailure("record_speaking")
		}
		log.Warn("record speaking failed",
			zap.String("character_id", c.ID), zap.Error(err))
	}
	keywords := speaking.ExtractKeywords(in.Message)
	if err := o.store.RecordTopicEngagement(ctx, in.UserID, c.ID, keywords, now); err != nil {
		if o.collector != nil {
			o.collector.ObserveStoreFailure("record_topic")
		}
		log.Warn("record topic engagement failed",
			zap.String("character_id", c.ID), zap.Error(err))
	}
}
