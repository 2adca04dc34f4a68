package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "inkstone/internal/platform/errors"
)

type Feature string

const (
	FeatureTextEditor            Feature = "text_editor"
	FeatureMultipleChapters      Feature = "multiple_chapters"
	FeatureFullChapterManagement Feature = "full_chapter_management"
	FeatureReflectionWorkspace   Feature = "reflection_workspace"
	FeatureCommunity             Feature = "community_features"
	FeatureFullEditor            Feature = "full_editor"
	FeatureExport                Feature = "export_features"
)

// unlockTable lists the week from which each group of features is available.
var unlockTable = []struct {
	week     int
	features []Feature
}{
	{2, []Feature{FeatureTextEditor}},
	{4, []Feature{FeatureMultipleChapters}},
	{7, []Feature{FeatureFullChapterManagement, FeatureReflectionWorkspace}},
	{10, []Feature{FeatureCommunity, FeatureFullEditor, FeatureExport}},
}

// UnlockState is the fixed set of capability flags.
type UnlockState struct {
	TextEditor            bool `json:"text_editor"`
	MultipleChapters      bool `json:"multiple_chapters"`
	FullChapterManagement bool `json:"full_chapter_management"`
	ReflectionWorkspace   bool `json:"reflection_workspace"`
	CommunityFeatures     bool `json:"community_features"`
	FullEditor            bool `json:"full_editor"`
	ExportFeatures        bool `json:"export_features"`
}

func AllFeatures() []Feature {
	var out []Feature
	for _, row := range unlockTable {
		out = append(out, row.features...)
	}
	return out
}

// ParseFeature accepts snake_case, camelCase or kebab-case keys.
func ParseFeature(raw string) (Feature, error) {
	want := normalizeKey(raw)
	for _, f := range AllFeatures() {
		if normalizeKey(string(f)) == want {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: unknown feature %q", apperrors.ErrInvalidInput, raw)
}

func normalizeKey(raw string) string {
	return strings.NewReplacer("_", "", "-", "", " ", "").Replace(strings.ToLower(strings.TrimSpace(raw)))
}

// UnlocksFor is the flag set earned by reaching week. It depends on nothing
// but the week number.
func UnlocksFor(week int) UnlockState {
	out := UnlockState{}
	for _, row := range unlockTable {
		if week < row.week {
			break
		}
		for _, f := range row.features {
			out = out.With(f)
		}
	}
	return out
}

func (u UnlockState) Has(f Feature) bool {
	if flag := u.flag(f); flag != nil {
		return *flag
	}
	return false
}

func (u UnlockState) With(f Feature) UnlockState {
	if flag := u.flag(f); flag != nil {
		*flag = true
	}
	return u
}

// Union keeps every flag set in either state.
func (u UnlockState) Union(other UnlockState) UnlockState {
	for _, f := range other.Features() {
		u = u.With(f)
	}
	return u
}

// Contains reports whether every flag set in other is also set in u.
func (u UnlockState) Contains(other UnlockState) bool {
	return u.Union(other) == u
}

// Features lists the set flags in unlock order.
func (u UnlockState) Features() []Feature {
	var out []Feature
	for _, f := range AllFeatures() {
		if u.Has(f) {
			out = append(out, f)
		}
	}
	return out
}

func (u *UnlockState) flag(f Feature) *bool {
	switch f {
	case FeatureTextEditor:
		return &u.TextEditor
	case FeatureMultipleChapters:
		return &u.MultipleChapters
	case FeatureFullChapterManagement:
		return &u.FullChapterManagement
	case FeatureReflectionWorkspace:
		return &u.ReflectionWorkspace
	case FeatureCommunity:
		return &u.CommunityFeatures
	case FeatureFullEditor:
		return &u.FullEditor
	case FeatureExport:
		return &u.ExportFeatures
	default:
		return nil
	}
}

// MaxChapters returns the chapter cap for week; limited is false once
// chapters are unlimited.
func MaxChapters(week int) (limit int, limited bool) {
	switch {
	case week < 4:
		return 1, true
	case week < 7:
		return 5, true
	default:
		return 0, false
	}
}

// PromptMode says how prompts reach the writer in a given week. Off allows no
// prompts at all, not even on request; manual shows them only on request.
type PromptMode string

const (
	PromptsOff       PromptMode = "off"
	PromptsScheduled PromptMode = "scheduled"
	PromptsManual    PromptMode = "manual"
)

func PromptModeFor(week int) PromptMode {
	switch {
	case week < 2:
		return PromptsOff
	case week <= 9:
		return PromptsScheduled
	default:
		return PromptsManual
	}
}

// PromptInterval is the spacing between engagement prompts in week. ok is
// false when prompts are not scheduled; PromptModeFor tells the two
// unscheduled cases apart.
func PromptInterval(week int) (interval time.Duration, ok bool) {
	switch {
	case week < 2:
		return 0, false
	case week <= 3:
		return 5 * time.Minute, true
	case week <= 6:
		return 10 * time.Minute, true
	case week <= 9:
		return 15 * time.Minute, true
	default:
		return 0, false
	}
}
