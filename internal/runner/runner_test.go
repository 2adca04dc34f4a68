package runner_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	journeydto "inkstone/internal/modules/journey/dto"
	promptdto "inkstone/internal/modules/prompt/dto"
	"inkstone/internal/platform/logger"
	"inkstone/internal/runner"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fixedClock struct {
	now time.Time
}

func (f fixedClock) Now() time.Time { return f.now }

var stamp = fixedClock{now: time.Date(2026, 10, 17, 21, 30, 0, 0, time.UTC)}

// scriptedTicker replays outputs in order and then reports nothing.
type scriptedTicker struct {
	mu      sync.Mutex
	outputs []journeydto.TickOutput
	calls   int
}

func (s *scriptedTicker) Tick(context.Context) (journeydto.TickOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if len(s.outputs) == 0 {
		return journeydto.TickOutput{}, nil
	}
	out := s.outputs[0]
	s.outputs = s.outputs[1:]
	return out, nil
}

type scriptedChecker struct {
	mu      sync.Mutex
	outputs []promptdto.CheckOutput
	err     error
}

func (s *scriptedChecker) CheckAndShow(context.Context) (promptdto.CheckOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return promptdto.CheckOutput{}, s.err
	}
	if len(s.outputs) == 0 {
		return promptdto.CheckOutput{}, nil
	}
	out := s.outputs[0]
	s.outputs = s.outputs[1:]
	return out, nil
}

func collect(t *testing.T, events <-chan runner.Event, n int) []runner.Event {
	t.Helper()
	var got []runner.Event
	timeout := time.After(2 * time.Second)
	for len(got) < n {
		select {
		case ev, ok := <-events:
			require.True(t, ok, "events closed early")
			got = append(got, ev)
		case <-timeout:
			t.Fatalf("timed out after %d of %d events", len(got), n)
		}
	}
	return got
}

func TestRunPublishesTickAndPromptEvents(t *testing.T) {
	ticker := &scriptedTicker{outputs: []journeydto.TickOutput{{
		PhaseChange: &journeydto.PhaseChangeOutput{From: "stone", To: "transfer"},
		Unlocks:     []journeydto.UnlockEventOutput{{Feature: "text_editor", Title: "Text Editor"}},
	}}}
	checker := &scriptedChecker{outputs: []promptdto.CheckOutput{
		{},
		{Shown: true, Prompt: &promptdto.PromptOutput{ID: "transfer-pause"}},
	}}
	r := runner.New(ticker, checker, stamp, logger.NewNop(), runner.Config{PhaseEvery: 5 * time.Millisecond, PromptEvery: 5 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	got := collect(t, r.Events(), 3)
	cancel()
	require.NoError(t, <-done)

	kinds := map[runner.EventKind]runner.Event{}
	for _, ev := range got {
		kinds[ev.Kind] = ev
	}
	require.Contains(t, kinds, runner.EventPhaseChange)
	require.Contains(t, kinds, runner.EventUnlocks)
	require.Contains(t, kinds, runner.EventPrompt)
	assert.Equal(t, "transfer", kinds[runner.EventPhaseChange].PhaseChange.To)
	assert.Equal(t, "text_editor", kinds[runner.EventUnlocks].Unlocks[0].Feature)
	assert.Equal(t, "transfer-pause", kinds[runner.EventPrompt].Prompt.ID)
	for _, ev := range got {
		assert.Equal(t, stamp.now, ev.At, "events carry the injected clock's time")
	}

	for range r.Events() {
	}
}

func TestRunStopsOnCancelAndClosesEvents(t *testing.T) {
	r := runner.New(&scriptedTicker{}, &scriptedChecker{err: errors.New("store offline")}, stamp, logger.NewNop(), runner.Config{PhaseEvery: time.Millisecond, PromptEvery: time.Millisecond})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	require.NoError(t, r.Run(ctx))

	_, open := <-r.Events()
	assert.False(t, open, "events must be closed after Run returns")
}

func TestFullBufferDropsInsteadOfBlocking(t *testing.T) {
	outputs := make([]journeydto.TickOutput, 5)
	for i := range outputs {
		outputs[i] = journeydto.TickOutput{Unlocks: []journeydto.UnlockEventOutput{{Feature: "text_editor"}}}
	}
	ticker := &scriptedTicker{outputs: outputs}
	r := runner.New(ticker, &scriptedChecker{}, stamp, logger.NewNop(), runner.Config{PhaseEvery: time.Millisecond, PromptEvery: time.Hour, Buffer: 1})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	require.Eventually(t, func() bool { return r.Dropped() >= 4 }, 2*time.Second, time.Millisecond)
	cancel()
	require.NoError(t, <-done)
}
