// Package runner drives the two periodic checks of a running coach: the
// journey tick that detects phase changes and unlocks, and the prompt check
// of an active writing session.
package runner

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	journeydto "inkstone/internal/modules/journey/dto"
	promptdto "inkstone/internal/modules/prompt/dto"
	"inkstone/internal/platform/clock"
	"inkstone/internal/platform/logger"
)

type PhaseTicker interface {
	Tick(ctx context.Context) (journeydto.TickOutput, error)
}

type PromptChecker interface {
	CheckAndShow(ctx context.Context) (promptdto.CheckOutput, error)
}

type EventKind string

const (
	EventPhaseChange EventKind = "phase_change"
	EventUnlocks     EventKind = "unlocks"
	EventPrompt      EventKind = "prompt"
)

type Event struct {
	Kind        EventKind
	At          time.Time
	PhaseChange *journeydto.PhaseChangeOutput
	Unlocks     []journeydto.UnlockEventOutput
	Prompt      *promptdto.PromptOutput
}

type Config struct {
	PhaseEvery  time.Duration
	PromptEvery time.Duration
	Buffer      int
}

type Runner struct {
	journey PhaseTicker
	prompts PromptChecker
	clock   clock.Clock
	log     *logger.Logger
	cfg     Config
	events  chan Event
	dropped atomic.Int64
}

// New returns a runner that stamps events with clk.
func New(journey PhaseTicker, prompts PromptChecker, clk clock.Clock, log *logger.Logger, cfg Config) *Runner {
	if cfg.PhaseEvery <= 0 {
		cfg.PhaseEvery = time.Minute
	}
	if cfg.PromptEvery <= 0 {
		cfg.PromptEvery = 30 * time.Second
	}
	if cfg.Buffer <= 0 {
		cfg.Buffer = 16
	}
	return &Runner{
		journey: journey,
		prompts: prompts,
		clock:   clk,
		log:     log.With("component", "runner"),
		cfg:     cfg,
		events:  make(chan Event, cfg.Buffer),
	}
}

// Events is closed when Run returns.
func (r *Runner) Events() <-chan Event {
	return r.events
}

// Dropped counts events discarded because nobody was reading.
func (r *Runner) Dropped() int64 {
	return r.dropped.Load()
}

// Run checks both schedules immediately and then on their tickers until ctx
// is cancelled. Failed checks are logged and retried on the next tick.
func (r *Runner) Run(ctx context.Context) error {
	defer close(r.events)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.loop(gctx, r.cfg.PhaseEvery, r.tickPhase)
	})
	g.Go(func() error {
		return r.loop(gctx, r.cfg.PromptEvery, r.checkPrompt)
	})
	return g.Wait()
}

func (r *Runner) loop(ctx context.Context, every time.Duration, check func(context.Context)) error {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	check(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			check(ctx)
		}
	}
}

func (r *Runner) tickPhase(ctx context.Context) {
	out, err := r.journey.Tick(ctx)
	if err != nil {
		r.log.Warn("journey tick failed", "error", err)
		return
	}
	now := r.clock.Now()
	if out.PhaseChange != nil {
		r.offer(ctx, Event{Kind: EventPhaseChange, At: now, PhaseChange: out.PhaseChange})
	}
	if len(out.Unlocks) > 0 {
		r.offer(ctx, Event{Kind: EventUnlocks, At: now, Unlocks: out.Unlocks})
	}
}

func (r *Runner) checkPrompt(ctx context.Context) {
	out, err := r.prompts.CheckAndShow(ctx)
	if err != nil {
		r.log.Warn("prompt check failed", "error", err)
		return
	}
	if out.Shown && out.Prompt != nil {
		r.offer(ctx, Event{Kind: EventPrompt, At: r.clock.Now(), Prompt: out.Prompt})
	}
}

// offer never blocks: a full buffer drops the event.
func (r *Runner) offer(ctx context.Context, ev Event) {
	select {
	case <-ctx.Done():
		return
	default:
	}
	select {
	case r.events <- ev:
	default:
		r.dropped.Add(1)
		r.log.Warn("event dropped", "kind", string(ev.Kind))
	}
}
