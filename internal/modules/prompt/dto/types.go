package dto

import "time"

type PromptOutput struct {
	ID            string
	Message       string
	Type          string
	MinDisplayMs  int64
	DisplayedAt   time.Time
	DismissibleAt time.Time
}

type CheckOutput struct {
	Prompt *PromptOutput
	// Shown is true when this call displayed the prompt.
	Shown bool
}

type DismissOutput struct {
	Dismissed   bool
	RemainingMs int64
}

type StateOutput struct {
	Active       bool
	Enabled      bool
	SessionID    string
	Current      *PromptOutput
	NextPromptAt time.Time
	ShownToday   int
	Shown        int
	Answered     int
}
