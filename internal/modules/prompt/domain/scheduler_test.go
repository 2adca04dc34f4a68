package domain_test

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"inkstone/internal/modules/prompt/domain"
)

var t0 = time.Date(2026, 10, 17, 20, 0, 0, 0, time.UTC)

type fixedPicker int

func (f fixedPicker) IntN(n int) int { return int(f) % n }

var pool = []domain.Prompt{
	{ID: "a", Message: "A", Type: domain.TypeReflection},
	{ID: "b", Message: "B", Type: domain.TypeTechnique},
	{ID: "c", Message: "C", Type: domain.TypeChallenge},
}

func TestSelectSkipsPromptsShownToday(t *testing.T) {
	t.Parallel()
	got, ok := domain.Select(pool, []string{"a", "b"}, fixedPicker(0))
	if !ok || got.ID != "c" {
		t.Fatalf("expected the only unseen prompt c, got %+v ok=%t", got, ok)
	}
}

func TestSelectFallsBackToFullPoolWhenExhausted(t *testing.T) {
	t.Parallel()
	got, ok := domain.Select(pool, []string{"a", "b", "c"}, fixedPicker(1))
	if !ok || got.ID != "b" {
		t.Fatalf("expected b from the full pool, got %+v ok=%t", got, ok)
	}
	if _, ok := domain.Select(nil, nil, fixedPicker(0)); ok {
		t.Fatalf("empty pool must report no prompt")
	}
}

func TestSelectIsDeterministicForASeed(t *testing.T) {
	t.Parallel()
	pick := func() []string {
		r := rand.New(rand.NewPCG(7, 11))
		var ids []string
		for i := 0; i < 10; i++ {
			p, _ := domain.Select(pool, nil, r)
			ids = append(ids, p.ID)
		}
		return ids
	}
	if diff := cmp.Diff(pick(), pick()); diff != "" {
		t.Fatalf("same seed produced different picks (-first +second):\n%s", diff)
	}
}

func TestBeginSchedulesFirstPromptOneIntervalOut(t *testing.T) {
	t.Parallel()
	s := domain.NewState().Begin(t0, "w1", 5*time.Minute, true)
	if !s.Active || s.SessionID != "w1" || !s.NextPromptAt.Equal(t0.Add(5*time.Minute)) {
		t.Fatalf("unexpected begun state: %+v", s)
	}
	if s.Due(t0.Add(4*time.Minute), true) {
		t.Fatalf("prompt must not be due before the interval")
	}
	if !s.Due(t0.Add(5*time.Minute), true) {
		t.Fatalf("prompt should be due at the interval")
	}

	manual := domain.NewState().Begin(t0, "w2", 0, false)
	if !manual.NextPromptAt.IsZero() || manual.Due(t0.Add(time.Hour), false) {
		t.Fatalf("unscheduled weeks never come due: %+v", manual)
	}
}

func TestDueIsFalseWhenIdleDisabledOrDisplaying(t *testing.T) {
	t.Parallel()
	late := t0.Add(time.Hour)
	if domain.NewState().Due(late, true) {
		t.Fatalf("idle scheduler must not be due")
	}
	active := domain.NewState().Begin(t0, "w1", time.Minute, true)
	if active.WithEnabled(false).Due(late, true) {
		t.Fatalf("disabled scheduler must not be due")
	}
	showing := active.Show(late, pool[0], 2*time.Second, time.Minute, true)
	if showing.Due(late.Add(time.Hour), true) {
		t.Fatalf("a displayed prompt blocks the next one")
	}
}

func TestShowAndDismissHonourMinimumDisplay(t *testing.T) {
	t.Parallel()
	s := domain.NewState().Begin(t0, "w1", 10*time.Minute, true)
	at := t0.Add(10 * time.Minute)
	s = s.Show(at, pool[1], 2*time.Second, 10*time.Minute, true)

	if s.Current == nil || s.Current.ID != "b" || s.Shown != 1 {
		t.Fatalf("prompt not displayed: %+v", s)
	}
	if diff := cmp.Diff([]string{"b"}, s.ShownToday); diff != "" {
		t.Fatalf("shown today mismatch (-want +got):\n%s", diff)
	}
	if !s.NextPromptAt.Equal(at.Add(10 * time.Minute)) {
		t.Fatalf("next prompt should be rescheduled from show time, got %s", s.NextPromptAt)
	}

	if _, ok := s.Dismiss(at.Add(1999 * time.Millisecond)); ok {
		t.Fatalf("dismiss before minimum display must be refused")
	}
	dismissed, ok := s.Dismiss(at.Add(2 * time.Second))
	if !ok || dismissed.Current != nil || dismissed.Answered != 1 {
		t.Fatalf("dismiss after minimum display should clear the prompt: %+v ok=%t", dismissed, ok)
	}
	if _, ok := dismissed.Dismiss(at.Add(time.Minute)); ok {
		t.Fatalf("nothing left to dismiss")
	}
}

func TestBeginResetsShownListOnNewDay(t *testing.T) {
	t.Parallel()
	s := domain.NewState().Begin(t0, "w1", time.Minute, true)
	s = s.Show(t0.Add(time.Minute), pool[0], 0, time.Minute, true).End()

	sameDay := s.Begin(t0.Add(2*time.Hour), "w2", time.Minute, true)
	if len(sameDay.ShownToday) != 1 {
		t.Fatalf("same day must keep the shown list, got %v", sameDay.ShownToday)
	}
	nextDay := s.Begin(t0.Add(24*time.Hour), "w3", time.Minute, true)
	if len(nextDay.ShownToday) != 0 || nextDay.ShownDate != "2026-10-18" {
		t.Fatalf("new day must clear the shown list: %+v", nextDay)
	}
}

func TestEndReturnsToIdle(t *testing.T) {
	t.Parallel()
	s := domain.NewState().Begin(t0, "w1", time.Minute, true)
	s = s.Show(t0.Add(time.Minute), pool[0], time.Second, time.Minute, true).End()
	if s.Active || s.Current != nil || s.SessionID != "" || !s.NextPromptAt.IsZero() {
		t.Fatalf("end should leave an idle scheduler: %+v", s)
	}
	if s.Shown != 1 {
		t.Fatalf("counters survive end, got %d", s.Shown)
	}
}

func TestCatalogValidate(t *testing.T) {
	t.Parallel()
	if err := domain.DefaultCatalog().Validate(); err != nil {
		t.Fatalf("default catalog invalid: %v", err)
	}
	dup := domain.Catalog{"stone": pool, "transfer": {pool[0]}}
	if err := dup.Validate(); err == nil {
		t.Fatalf("duplicate ids must be rejected")
	}
	empty := domain.Catalog{"stone": {{ID: "x"}}}
	if err := empty.Validate(); err == nil {
		t.Fatalf("empty message must be rejected")
	}
	if got := domain.DefaultCatalog().Pool("Transfer"); len(got) == 0 {
		t.Fatalf("pool lookup should ignore case")
	}
}
