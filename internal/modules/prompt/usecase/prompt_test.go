package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	journeydto "inkstone/internal/modules/journey/dto"
	promptout "inkstone/internal/modules/prompt/adapter/out"
	"inkstone/internal/modules/prompt/domain"
	promptin "inkstone/internal/modules/prompt/port/in"
	"inkstone/internal/modules/prompt/service"
	"inkstone/internal/modules/prompt/usecase"
	"inkstone/internal/platform/blob"
	apperrors "inkstone/internal/platform/errors"
	"inkstone/internal/platform/logger"
)

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

func (f *fakeClock) advance(d time.Duration) { f.now = f.now.Add(d) }

// fakeJourney reports a fixed week of the journey.
type fakeJourney struct {
	status journeydto.StatusOutput
}

func (f *fakeJourney) Status(context.Context) (journeydto.StatusOutput, error) { return f.status, nil }
func (f *fakeJourney) Start(context.Context) (journeydto.StatusOutput, error)  { return f.status, nil }
func (f *fakeJourney) Skip(context.Context) (journeydto.StatusOutput, error)   { return f.status, nil }
func (f *fakeJourney) Reset(context.Context) (journeydto.StatusOutput, error)  { return f.status, nil }
func (f *fakeJourney) SetDailyGoal(context.Context, int) (journeydto.StatusOutput, error) {
	return f.status, nil
}
func (f *fakeJourney) Tick(context.Context) (journeydto.TickOutput, error) {
	return journeydto.TickOutput{Status: f.status}, nil
}
func (f *fakeJourney) ForcePhase(context.Context, string) (journeydto.StatusOutput, error) {
	return f.status, nil
}
func (f *fakeJourney) ClearPin(context.Context) (journeydto.StatusOutput, error) { return f.status, nil }
func (f *fakeJourney) ForceDay(context.Context, int) (journeydto.StatusOutput, error) {
	return f.status, nil
}
func (f *fakeJourney) ForceUnlock(context.Context, string) (journeydto.StatusOutput, error) {
	return f.status, nil
}

type firstPicker struct{}

func (firstPicker) IntN(int) int { return 0 }

func transferWeek() *fakeJourney {
	return &fakeJourney{status: journeydto.StatusOutput{Started: true, Week: 2, Phase: "transfer",
		PromptInterval: 5 * time.Minute, PromptsScheduled: true, PromptMode: journeydto.PromptModeScheduled}}
}

func newPrompts(t *testing.T, clk *fakeClock, journey *fakeJourney, store blob.Store, catalog domain.Catalog) promptin.Usecase {
	t.Helper()
	svc := service.NewPromptService(clk, firstPicker{}, catalog, promptout.NewBlobStateStore(store), logger.NewNop(), 2*time.Second)
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("load prompts: %v", err)
	}
	return usecase.NewInteractor(svc, journey)
}

func TestCheckIsANoOpWhileIdle(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{now: time.Date(2026, 10, 17, 20, 0, 0, 0, time.UTC)}
	uc := newPrompts(t, clk, transferWeek(), blob.NewFileStore(t.TempDir()), domain.DefaultCatalog())

	clk.advance(time.Hour)
	out, err := uc.CheckAndShow(context.Background())
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if out.Prompt != nil || out.Shown {
		t.Fatalf("idle scheduler must not show prompts: %+v", out)
	}
}

func TestScheduledPromptLifecycle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	clk := &fakeClock{now: time.Date(2026, 10, 17, 20, 0, 0, 0, time.UTC)}
	uc := newPrompts(t, clk, transferWeek(), blob.NewFileStore(t.TempDir()), domain.DefaultCatalog())

	if _, err := uc.Begin(ctx, "w1"); err != nil {
		t.Fatalf("begin: %v", err)
	}
	clk.advance(4 * time.Minute)
	if out, _ := uc.CheckAndShow(ctx); out.Prompt != nil {
		t.Fatalf("prompt shown before the interval: %+v", out.Prompt)
	}

	clk.advance(time.Minute)
	out, err := uc.CheckAndShow(ctx)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !out.Shown || out.Prompt == nil || out.Prompt.ID != "transfer-stillness" {
		t.Fatalf("expected the first transfer prompt, got %+v", out)
	}
	if out.Prompt.MinDisplayMs != 2000 {
		t.Fatalf("expected 2000ms minimum display, got %d", out.Prompt.MinDisplayMs)
	}

	again, _ := uc.CheckAndShow(ctx)
	if again.Shown || again.Prompt == nil || again.Prompt.ID != out.Prompt.ID {
		t.Fatalf("a displayed prompt stays until dismissed: %+v", again)
	}

	clk.advance(time.Second)
	early, err := uc.Dismiss(ctx)
	if err != nil {
		t.Fatalf("dismiss: %v", err)
	}
	if early.Dismissed || early.RemainingMs != 1000 {
		t.Fatalf("early dismiss should be refused with 1000ms left, got %+v", early)
	}
	clk.advance(time.Second)
	late, err := uc.Dismiss(ctx)
	if err != nil || !late.Dismissed {
		t.Fatalf("dismiss after minimum display: %+v err=%v", late, err)
	}

	if _, err := uc.Dismiss(ctx); !errors.Is(err, apperrors.ErrNoActivePrompt) {
		t.Fatalf("expected ErrNoActivePrompt, got %v", err)
	}

	clk.advance(5 * time.Minute)
	next, _ := uc.CheckAndShow(ctx)
	if next.Prompt == nil || next.Prompt.ID == out.Prompt.ID {
		t.Fatalf("next prompt should avoid the one shown today, got %+v", next.Prompt)
	}

	state, err := uc.End(ctx)
	if err != nil {
		t.Fatalf("end: %v", err)
	}
	if state.Active || state.Current != nil || state.Shown != 2 || state.Answered != 1 {
		t.Fatalf("unexpected state after end: %+v", state)
	}
}

func TestManualWeeksOnlyShowOnDemand(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	clk := &fakeClock{now: time.Date(2026, 10, 17, 20, 0, 0, 0, time.UTC)}
	journey := &fakeJourney{status: journeydto.StatusOutput{Started: true, Week: 11, Phase: "autonomous", PromptMode: journeydto.PromptModeManual}}
	uc := newPrompts(t, clk, journey, blob.NewFileStore(t.TempDir()), domain.DefaultCatalog())

	if _, err := uc.ShowNow(ctx); !errors.Is(err, apperrors.ErrNoActiveSession) {
		t.Fatalf("show now needs a session, got %v", err)
	}
	if _, err := uc.Begin(ctx, "w1"); err != nil {
		t.Fatalf("begin: %v", err)
	}
	clk.advance(12 * time.Hour)
	if out, _ := uc.CheckAndShow(ctx); out.Prompt != nil {
		t.Fatalf("manual weeks never schedule prompts: %+v", out.Prompt)
	}
	p, err := uc.ShowNow(ctx)
	if err != nil {
		t.Fatalf("show now: %v", err)
	}
	if p.ID != "autonomous-intent" {
		t.Fatalf("expected first autonomous prompt, got %s", p.ID)
	}
}

func TestDisabledPromptsStayOffAcrossRestart(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	clk := &fakeClock{now: time.Date(2026, 10, 17, 20, 0, 0, 0, time.UTC)}
	store := blob.NewFileStore(t.TempDir())

	uc := newPrompts(t, clk, transferWeek(), store, domain.DefaultCatalog())
	if _, err := uc.SetEnabled(ctx, false); err != nil {
		t.Fatalf("disable: %v", err)
	}

	restarted := newPrompts(t, clk, transferWeek(), store, domain.DefaultCatalog())
	state, err := restarted.Begin(ctx, "w1")
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if state.Enabled {
		t.Fatalf("enabled toggle must persist")
	}
	clk.advance(time.Hour)
	if out, _ := restarted.CheckAndShow(ctx); out.Prompt != nil {
		t.Fatalf("disabled prompts must not show: %+v", out.Prompt)
	}
}

func TestExhaustedPoolStartsOver(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	clk := &fakeClock{now: time.Date(2026, 10, 17, 20, 0, 0, 0, time.UTC)}
	catalog := domain.Catalog{"transfer": {
		{ID: "one", Message: "One", Type: domain.TypeReflection},
		{ID: "two", Message: "Two", Type: domain.TypeReflection},
	}}
	uc := newPrompts(t, clk, transferWeek(), blob.NewFileStore(t.TempDir()), catalog)
	if _, err := uc.Begin(ctx, "w1"); err != nil {
		t.Fatalf("begin: %v", err)
	}

	var seen []string
	for i := 0; i < 3; i++ {
		clk.advance(5 * time.Minute)
		out, err := uc.CheckAndShow(ctx)
		if err != nil || out.Prompt == nil {
			t.Fatalf("round %d: expected a prompt, got %+v err=%v", i, out, err)
		}
		seen = append(seen, out.Prompt.ID)
		clk.advance(2 * time.Second)
		if d, _ := uc.Dismiss(ctx); !d.Dismissed {
			t.Fatalf("round %d: dismiss refused", i)
		}
	}
	want := []string{"one", "two", "one"}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, seen)
		}
	}
}

func TestStoneWeekRefusesOnDemandPrompts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	clk := &fakeClock{now: time.Date(2026, 10, 17, 20, 0, 0, 0, time.UTC)}
	journey := &fakeJourney{status: journeydto.StatusOutput{Started: true, Week: 1, Phase: "stone", PromptMode: journeydto.PromptModeOff}}
	uc := newPrompts(t, clk, journey, blob.NewFileStore(t.TempDir()), domain.DefaultCatalog())

	if _, err := uc.Begin(ctx, "w1"); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if _, err := uc.ShowNow(ctx); !errors.Is(err, apperrors.ErrPromptsLocked) {
		t.Fatalf("week one must refuse prompts on request, got %v", err)
	}
	clk.advance(time.Hour)
	if out, _ := uc.CheckAndShow(ctx); out.Prompt != nil {
		t.Fatalf("week one never schedules prompts: %+v", out.Prompt)
	}
	state, err := uc.State(ctx)
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if state.Shown != 0 {
		t.Fatalf("no prompt should have been shown, got %d", state.Shown)
	}
}

func TestCheckSeesSessionEndedByAnotherProcess(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	clk := &fakeClock{now: time.Date(2026, 10, 17, 20, 0, 0, 0, time.UTC)}
	store := blob.NewFileStore(t.TempDir())

	writer := newPrompts(t, clk, transferWeek(), store, domain.DefaultCatalog())
	if _, err := writer.Begin(ctx, "w1"); err != nil {
		t.Fatalf("begin: %v", err)
	}
	watcher := newPrompts(t, clk, transferWeek(), store, domain.DefaultCatalog())
	ender := newPrompts(t, clk, transferWeek(), store, domain.DefaultCatalog())
	if _, err := ender.End(ctx); err != nil {
		t.Fatalf("end: %v", err)
	}

	clk.advance(6 * time.Minute)
	out, err := watcher.CheckAndShow(ctx)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if out.Shown || out.Prompt != nil {
		t.Fatalf("no prompt may fire after the session ended elsewhere: %+v", out.Prompt)
	}

	reloaded := newPrompts(t, clk, transferWeek(), store, domain.DefaultCatalog())
	state, err := reloaded.State(ctx)
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if state.Active || state.SessionID != "" {
		t.Fatalf("ended session was written back as active: %+v", state)
	}
}

func TestLongRunningInstanceKeepsItsOwnWrites(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	clk := &fakeClock{now: time.Date(2026, 10, 17, 20, 0, 0, 0, time.UTC)}
	store := blob.NewFileStore(t.TempDir())

	watcher := newPrompts(t, clk, transferWeek(), store, domain.DefaultCatalog())
	if _, err := watcher.Begin(ctx, "w1"); err != nil {
		t.Fatalf("begin: %v", err)
	}
	clk.advance(5 * time.Minute)
	out, err := watcher.CheckAndShow(ctx)
	if err != nil || !out.Shown {
		t.Fatalf("expected a prompt, got %+v err=%v", out, err)
	}

	other := newPrompts(t, clk, transferWeek(), store, domain.DefaultCatalog())
	current, err := other.Current(ctx)
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if current == nil || current.ID != out.Prompt.ID {
		t.Fatalf("other instance should see the displayed prompt, got %+v", current)
	}
}
