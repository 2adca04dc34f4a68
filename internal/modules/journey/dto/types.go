package dto

import "time"

type UnlocksOutput struct {
	TextEditor            bool
	MultipleChapters      bool
	FullChapterManagement bool
	ReflectionWorkspace   bool
	CommunityFeatures     bool
	FullEditor            bool
	ExportFeatures        bool
}

// Values of StatusOutput.PromptMode.
const (
	PromptModeOff       = "off"
	PromptModeScheduled = "scheduled"
	PromptModeManual    = "manual"
)

type StatusOutput struct {
	Started           bool
	StartDate         time.Time
	DaysSinceStart    int
	Week              int
	Day               int
	WeekStart         time.Time
	Phase             string
	PhaseTitle        string
	PhaseProgress     float64
	Pinned            bool
	DailyStoneGoal    int
	Unlocked          UnlocksOutput
	Features          []string
	MaxChapters       int
	ChaptersUnlimited bool
	PromptInterval    time.Duration
	PromptsScheduled  bool
	PromptMode        string
}

type PhaseChangeOutput struct {
	From      string
	To        string
	FromTitle string
	ToTitle   string
}

type UnlockEventOutput struct {
	Feature     string
	Title       string
	Description string
	Icon        string
}

type TickOutput struct {
	PhaseChange *PhaseChangeOutput
	Unlocks     []UnlockEventOutput
	Status      StatusOutput
}
