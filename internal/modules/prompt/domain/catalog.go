package domain

import (
	"fmt"
	"strings"

	apperrors "inkstone/internal/platform/errors"
)

type Type string

const (
	TypeReflection Type = "reflection"
	TypeTechnique  Type = "technique"
	TypeChallenge  Type = "challenge"
)

type Prompt struct {
	ID      string `yaml:"id" json:"id"`
	Message string `yaml:"message" json:"message"`
	Type    Type   `yaml:"type" json:"type"`
}

// Catalog maps a phase key to its prompt pool.
type Catalog map[string][]Prompt

// phaseKeys are the journey phases a pool can belong to.
var phaseKeys = []string{"stone", "transfer", "application", "autonomous"}

// PhaseKey normalizes raw to a known phase key.
func PhaseKey(raw string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	for _, k := range phaseKeys {
		if k == key {
			return key, nil
		}
	}
	return "", fmt.Errorf("%w: unknown phase %q", apperrors.ErrInvalidInput, raw)
}

func (c Catalog) Pool(phase string) []Prompt {
	return c[strings.ToLower(strings.TrimSpace(phase))]
}

// Validate rejects empty ids, empty messages and duplicate ids.
func (c Catalog) Validate() error {
	seen := map[string]bool{}
	for phase, pool := range c {
		for _, p := range pool {
			if strings.TrimSpace(p.ID) == "" || strings.TrimSpace(p.Message) == "" {
				return fmt.Errorf("%w: prompt in %s needs an id and a message", apperrors.ErrInvalidInput, phase)
			}
			if seen[p.ID] {
				return fmt.Errorf("%w: duplicate prompt id %q", apperrors.ErrInvalidInput, p.ID)
			}
			seen[p.ID] = true
		}
	}
	return nil
}

func DefaultCatalog() Catalog {
	return Catalog{
		"stone": {
			{ID: "stone-breath", Message: "Before the next line, take one slow breath and notice what you want to say.", Type: TypeReflection},
			{ID: "stone-senses", Message: "Name one thing you can hear right now and put it on the page.", Type: TypeTechnique},
			{ID: "stone-one-line", Message: "Write a single sentence you would be proud to keep.", Type: TypeChallenge},
		},
		"transfer": {
			{ID: "transfer-stillness", Message: "Carry the stillness from your stone practice into this paragraph.", Type: TypeReflection},
			{ID: "transfer-pause", Message: "Pause. Is the last sentence what you meant, or what came first?", Type: TypeReflection},
			{ID: "transfer-verb", Message: "Find the weakest verb in the last paragraph and replace it.", Type: TypeTechnique},
			{ID: "transfer-short", Message: "Write the next three sentences in under ten words each.", Type: TypeChallenge},
		},
		"application": {
			{ID: "application-reader", Message: "Who is reading this? Write the next line for them.", Type: TypeReflection},
			{ID: "application-detail", Message: "Add one concrete detail a reader could picture.", Type: TypeTechnique},
			{ID: "application-cut", Message: "Cut one sentence you do not need.", Type: TypeChallenge},
			{ID: "application-resonance", Message: "How does this section feel so far, from one to ten?", Type: TypeReflection},
		},
		"autonomous": {
			{ID: "autonomous-intent", Message: "Restate the intent of this session in one sentence.", Type: TypeReflection},
			{ID: "autonomous-risk", Message: "Try the version of this scene you were avoiding.", Type: TypeChallenge},
			{ID: "autonomous-rhythm", Message: "Read the last paragraph aloud and fix the rhythm.", Type: TypeTechnique},
		},
	}
}
