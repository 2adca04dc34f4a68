package domain

import (
	"math"
	"strings"
	"time"
	"unicode"
)

const (
	SchemaVersion     = 1
	DateLayout        = "2006-01-02"
	MaxReflectionSent = 3
	MinResonance      = 1
	MaxResonance      = 10
)

type StoneSession struct {
	ID          string    `json:"id"`
	Date        string    `json:"date"`
	CreatedAt   time.Time `json:"created_at"`
	DurationSec int       `json:"duration_sec"`
	Completed   bool      `json:"completed"`
	Reflection  string    `json:"reflection,omitempty"`
}

// WritingSession is open until Ended is set. Resonance 0 means unrated.
type WritingSession struct {
	ID          string    `json:"id"`
	Date        string    `json:"date"`
	StartedAt   time.Time `json:"started_at"`
	DurationMin int       `json:"duration_min"`
	WordCount   int       `json:"word_count"`
	Resonance   int       `json:"resonance"`
	Phase       string    `json:"phase"`
	Ended       bool      `json:"ended"`
}

type ResonanceScore struct {
	ID         string    `json:"id"`
	Date       string    `json:"date"`
	Score      int       `json:"score"`
	SessionID  string    `json:"session_id,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

// ActiveSession points at the writing session the user is in.
type ActiveSession struct {
	SessionID string    `json:"session_id"`
	StartedAt time.Time `json:"started_at"`
}

func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

func ValidResonance(score int) bool {
	return score >= MinResonance && score <= MaxResonance
}

// TrimReflection keeps at most the first three sentences of text. A sentence
// ends at '.', '!' or '?' followed by whitespace or the end of the text.
func TrimReflection(text string) string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	count := 0
	for i, r := range runes {
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
			continue
		}
		count++
		if count == MaxReflectionSent {
			return string(runes[:i+1])
		}
	}
	return text
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// DurationMinutes is the elapsed time between start and end rounded to the
// nearest minute, never negative.
func DurationMinutes(start, end time.Time) int {
	minutes := int(math.Round(end.Sub(start).Minutes()))
	if minutes < 0 {
		return 0
	}
	return minutes
}
