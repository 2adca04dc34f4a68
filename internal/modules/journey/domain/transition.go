package domain

// UnlockEvent is a one-time announcement shown when a feature group opens.
type UnlockEvent struct {
	Feature     string
	Title       string
	Description string
	Icon        string
}

// PhaseChange is the celebration payload for crossing into a later phase.
type PhaseChange struct {
	From Phase
	To   Phase
}

type weekPair struct {
	from int
	to   int
}

// announcements fire only on the exact week crossing they are keyed by.
var announcements = map[weekPair][]UnlockEvent{
	{1, 2}: {
		{Feature: string(FeatureTextEditor), Title: "Text Editor", Description: "Your first blank page. Write freely, nothing is graded.", Icon: "pen"},
	},
	{3, 4}: {
		{Feature: string(FeatureMultipleChapters), Title: "Multiple Chapters", Description: "Split your work into up to five chapters.", Icon: "book"},
	},
	{6, 7}: {
		{Feature: string(FeatureFullChapterManagement), Title: "Chapter Management", Description: "Unlimited chapters, reordering and archiving.", Icon: "layers"},
		{Feature: string(FeatureReflectionWorkspace), Title: "Reflection Workspace", Description: "A space to look back at your sessions and resonance.", Icon: "mirror"},
	},
	{9, 10}: {
		{Feature: string(FeatureCommunity), Title: "Community", Description: "Share excerpts and read others.", Icon: "users"},
		{Feature: string(FeatureFullEditor), Title: "Full Editor", Description: "Formatting, outline view and focus mode.", Icon: "sparkles"},
		{Feature: string(FeatureExport), Title: "Export", Description: "Export chapters as markdown or plain text.", Icon: "download"},
	},
	{12, 13}: {
		{Feature: "autonomous_mode", Title: "Autonomous Mode", Description: "Prompts become optional. You set the pace now.", Icon: "compass"},
	},
}

// CheckTransition returns the announcements for moving from previousWeek to
// currentWeek. Only adjacent threshold crossings match; skipped weeks are not
// backfilled.
func CheckTransition(previousWeek, currentWeek int) []UnlockEvent {
	events := announcements[weekPair{from: previousWeek, to: currentWeek}]
	if len(events) == 0 {
		return nil
	}
	out := make([]UnlockEvent, len(events))
	copy(out, events)
	return out
}
