package dto

import "time"

type StoneInput struct {
	DurationSec int
	Reflection  string
}

type StoneOutput struct {
	SessionID      string
	Date           string
	DurationSec    int
	Reflection     string
	SessionsToday  int
	DailyGoal      int
	CanPracticeNow bool
}

type StartWritingOutput struct {
	SessionID string
	StartedAt time.Time
	Phase     string
}

type EndWritingInput struct {
	SessionID string
	WordCount int
}

type EndWritingOutput struct {
	SessionID   string
	Ended       bool
	DurationMin int
	WordCount   int
	Path        string
}

type ResonanceInput struct {
	SessionID string
	Score     int
}

type ResonanceOutput struct {
	ScoreID   string
	SessionID string
	Score     int
	Rated     bool
}

type StatsOutput struct {
	Today                    string
	SessionsToday            int
	DailyGoal                int
	CanPracticeNow           bool
	WritingSessionsThisWeek  int
	AverageResonanceThisWeek float64
	AverageResonanceAllTime  float64
	TotalStoneSessions       int
	TotalWritingSessions     int
	ActiveSessionID          string
}
