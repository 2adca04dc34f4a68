package domain_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"inkstone/internal/modules/journey/domain"
)

var today = time.Date(2026, 10, 17, 15, 4, 0, 0, time.UTC)

func startedDaysAgo(days int) domain.State {
	s, _ := domain.NewState(2).Begin(today.AddDate(0, 0, -days))
	return s
}

func TestScenarioStartToday(t *testing.T) {
	t.Parallel()
	s := startedDaysAgo(0).Recompute(today)
	pos := s.Position(today)
	if s.Phase != domain.PhaseStone || pos.Week != 1 || pos.DayOfWeek != 1 {
		t.Fatalf("expected stone week 1 day 1, got %s %+v", s.Phase, pos)
	}
	if diff := cmp.Diff(domain.UnlockState{}, s.Unlocked); diff != "" {
		t.Fatalf("nothing should be unlocked on day one:\n%s", diff)
	}
}

func TestScenarioSevenDaysAgo(t *testing.T) {
	t.Parallel()
	s := startedDaysAgo(7).Recompute(today)
	if s.Phase != domain.PhaseTransfer || s.Position(today).Week != 2 {
		t.Fatalf("expected transfer in week 2, got %s week %d", s.Phase, s.Position(today).Week)
	}
	if diff := cmp.Diff(domain.UnlockState{TextEditor: true}, s.Unlocked); diff != "" {
		t.Fatalf("only the text editor should be unlocked:\n%s", diff)
	}
}

func TestScenarioEightyFourDaysAgo(t *testing.T) {
	t.Parallel()
	s := startedDaysAgo(84).Recompute(today)
	if s.Phase != domain.PhaseAutonomous {
		t.Fatalf("expected autonomous, got %s", s.Phase)
	}
	if len(s.Unlocked.Features()) != len(domain.AllFeatures()) {
		t.Fatalf("expected every flag, got %+v", s.Unlocked)
	}
	if _, limited := domain.MaxChapters(s.Position(today).Week); limited {
		t.Fatalf("chapters should be unlimited")
	}
}

func TestRecomputeIsIdempotent(t *testing.T) {
	t.Parallel()
	s := startedDaysAgo(30)
	first := s.Recompute(today)
	for i := 0; i < 5; i++ {
		if again := first.Recompute(today); again.Phase != first.Phase || again.Unlocked != first.Unlocked {
			t.Fatalf("recompute drifted: %+v vs %+v", again, first)
		}
	}
}

func TestRecomputeNeverRegressesOrDropsFlags(t *testing.T) {
	t.Parallel()
	s := startedDaysAgo(30).Recompute(today)
	earlier := today.AddDate(0, 0, -20)
	back := s.Recompute(earlier)
	if back.Phase != domain.PhaseApplication {
		t.Fatalf("phase must not regress when the clock goes back, got %s", back.Phase)
	}
	if !back.Unlocked.Contains(s.Unlocked) {
		t.Fatalf("flags must not be dropped")
	}
}

func TestBeginOnlyOnce(t *testing.T) {
	t.Parallel()
	s, ok := domain.NewState(3).Begin(today)
	if !ok || !s.Started() || s.DailyStoneGoal != 3 {
		t.Fatalf("begin should start the journey with the goal kept: %+v", s)
	}
	if !s.StartDate.Equal(domain.Midnight(today)) {
		t.Fatalf("start date should be midnight, got %s", s.StartDate)
	}
	again, ok := s.Begin(today.AddDate(0, 0, 4))
	if ok || !again.StartDate.Equal(*s.StartDate) {
		t.Fatalf("second begin must not move the start date")
	}
}

func TestAdvanceEmitsEventsOncePerCrossing(t *testing.T) {
	t.Parallel()
	start := today
	s, _ := domain.NewState(2).Begin(start)

	s, res := s.Advance(start.AddDate(0, 0, 6))
	if !res.Empty() {
		t.Fatalf("no events expected inside week 1, got %+v", res)
	}

	s, res = s.Advance(start.AddDate(0, 0, 7))
	if len(res.Unlocks) != 1 || res.Unlocks[0].Feature != string(domain.FeatureTextEditor) {
		t.Fatalf("expected text editor unlock, got %+v", res.Unlocks)
	}
	if diff := cmp.Diff(&domain.PhaseChange{From: domain.PhaseStone, To: domain.PhaseTransfer}, res.PhaseChange); diff != "" {
		t.Fatalf("phase change mismatch:\n%s", diff)
	}

	s, res = s.Advance(start.AddDate(0, 0, 7))
	if !res.Empty() {
		t.Fatalf("repeated tick must be silent, got %+v", res)
	}

	// App closed from week 2 until week 4: week 3->4 announcement is forfeited.
	s, res = s.Advance(start.AddDate(0, 0, 22))
	if len(res.Unlocks) != 0 {
		t.Fatalf("skipped boundary must not backfill, got %+v", res.Unlocks)
	}
	if res.PhaseChange == nil || res.PhaseChange.To != domain.PhaseApplication {
		t.Fatalf("phase change should still be reported, got %+v", res.PhaseChange)
	}
	if !s.Unlocked.MultipleChapters {
		t.Fatalf("capability flags still follow the week")
	}
}

func TestAdvanceBeforeStartIsSilent(t *testing.T) {
	t.Parallel()
	s, res := domain.NewState(2).Advance(today)
	if !res.Empty() || s.Started() || s.Phase != domain.PhaseStone {
		t.Fatalf("unstarted journey should stay idle, got %+v %+v", s, res)
	}
}

func TestPinWinsUntilCleared(t *testing.T) {
	t.Parallel()
	s := startedDaysAgo(2).Pin(today, domain.PhaseApplication)
	if got, ok := s.PinnedPhase(); !ok || got != domain.PhaseApplication {
		t.Fatalf("expected pin to application, got %s %t", got, ok)
	}
	s = s.Recompute(today.AddDate(0, 0, 200))
	if s.Phase != domain.PhaseApplication {
		t.Fatalf("pin must suspend recalculation, got %s", s.Phase)
	}
	s = s.Unpin(today)
	if _, ok := s.PinnedPhase(); ok || s.Phase != domain.PhaseStone {
		t.Fatalf("unpin should return to the calendar phase, got %s", s.Phase)
	}
}

func TestSkipPhaseMovesToNextBoundary(t *testing.T) {
	t.Parallel()
	s := startedDaysAgo(3).SkipPhase(today)
	if s.Phase != domain.PhaseTransfer || s.Position(today).ElapsedDays != 7 {
		t.Fatalf("expected skip to day 7 transfer, got %s day %d", s.Phase, s.Position(today).ElapsedDays)
	}
	s = s.SkipPhase(today).SkipPhase(today)
	if s.Phase != domain.PhaseAutonomous || s.Position(today).ElapsedDays != 84 {
		t.Fatalf("expected autonomous at day 84, got %s day %d", s.Phase, s.Position(today).ElapsedDays)
	}
	if again := s.SkipPhase(today); again.Position(today).ElapsedDays != 84 {
		t.Fatalf("skip in the last phase must be a no-op")
	}
	if fresh := domain.NewState(2).SkipPhase(today); !fresh.Started() || fresh.Phase != domain.PhaseTransfer {
		t.Fatalf("skip on a fresh journey should start and skip stone, got %+v", fresh)
	}
}

func TestForceDayRebuildsAndAnnouncesNextTick(t *testing.T) {
	t.Parallel()
	s, _ := startedDaysAgo(0).Advance(today)
	s = s.ForceDay(today, 7)
	if s.Phase != domain.PhaseTransfer || !s.Unlocked.TextEditor {
		t.Fatalf("expected transfer with text editor, got %+v", s)
	}
	s, res := s.Advance(today)
	if len(res.Unlocks) != 1 || res.PhaseChange == nil {
		t.Fatalf("forced crossing should be announced, got %+v", res)
	}

	s = s.ForceDay(today, 1)
	if s.Phase != domain.PhaseStone || s.Unlocked.TextEditor {
		t.Fatalf("force day is an override and may go back, got %+v", s)
	}
	if _, res := s.Advance(today); !res.Empty() {
		t.Fatalf("going back must not celebrate, got %+v", res)
	}
}

func TestResetKeepsGoalAndClearsPin(t *testing.T) {
	t.Parallel()
	s := startedDaysAgo(40).WithDailyGoal(today, 4).Pin(today, domain.PhaseAutonomous).Unlock(today, domain.FeatureExport)
	s = s.Reset(today)
	if s.Started() || s.DailyStoneGoal != 4 || s.Unlocked != (domain.UnlockState{}) {
		t.Fatalf("unexpected state after reset: %+v", s)
	}
	if _, ok := s.PinnedPhase(); ok {
		t.Fatalf("reset must clear the pin")
	}
}
