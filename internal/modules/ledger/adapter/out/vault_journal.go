package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"inkstone/internal/modules/ledger/domain"
	ledgerout "inkstone/internal/modules/ledger/port/out"
	"inkstone/internal/platform/markdown"
)

const (
	stoneBlockStart = "<!-- inkstone:stone:start -->"
	stoneBlockEnd   = "<!-- inkstone:stone:end -->"
)

// VaultJournal writes one note per finished writing session and one daily
// note listing the stone sessions of that day.
type VaultJournal struct {
	vaultPath string
}

func NewVaultJournal(vaultPath string) ledgerout.Journal {
	return &VaultJournal{vaultPath: vaultPath}
}

func (j *VaultJournal) writingPath(session domain.WritingSession) string {
	date := session.StartedAt
	return filepath.Join(j.vaultPath, "sessions", date.Format("2006"), date.Format("01"), date.Format("02"),
		fmt.Sprintf("%s-writing.md", date.Format("150405")))
}

// WriteWritingSession creates the note on first write and afterwards only
// patches its frontmatter, so edits to the body survive a later rating.
func (j *VaultJournal) WriteWritingSession(_ context.Context, session domain.WritingSession) (string, error) {
	path := j.writingPath(session)
	meta := map[string]any{
		"schema_version":   domain.SchemaVersion,
		"id":               session.ID,
		"date":             session.Date,
		"phase":            session.Phase,
		"started_at":       session.StartedAt.Format(time.RFC3339),
		"duration_minutes": session.DurationMin,
		"word_count":       session.WordCount,
		"resonance":        session.Resonance,
	}

	existing, err := os.ReadFile(path)
	switch {
	case err == nil:
		patched, err := markdown.PatchFrontmatter(string(existing), meta)
		if err != nil {
			return "", err
		}
		if err := os.WriteFile(path, []byte(patched), 0o644); err != nil {
			return "", fmt.Errorf("write writing note: %w", err)
		}
		return path, nil
	case !os.IsNotExist(err):
		return "", fmt.Errorf("read writing note: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create session dir: %w", err)
	}
	body := fmt.Sprintf("# Writing session %s\n\n- Phase: %s\n- Duration: %d minutes\n- Words: %d\n\n## Notes\n\n",
		session.StartedAt.Format("2006-01-02 15:04"), session.Phase, session.DurationMin, session.WordCount)
	rendered, err := markdown.RenderFrontmatter(meta, body)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("write writing note: %w", err)
	}
	return path, nil
}

func (j *VaultJournal) WriteStoneDay(_ context.Context, date string, stones []domain.StoneSession) (string, error) {
	dir := filepath.Join(j.vaultPath, "stone")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create stone dir: %w", err)
	}
	path := filepath.Join(dir, date+".md")

	content := ""
	if raw, err := os.ReadFile(path); err == nil {
		content = string(raw)
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("read stone note: %w", err)
	}
	if content == "" {
		rendered, err := markdown.RenderFrontmatter(map[string]any{"date": date, "kind": "stone"}, "# Stone practice "+date+"\n")
		if err != nil {
			return "", err
		}
		content = rendered
	}

	meta, body, err := markdown.SplitFrontmatter(content)
	if err != nil {
		return "", err
	}
	meta["sessions"] = len(stones)
	body = markdown.ReplaceManagedBlock(body, stoneBlockStart, stoneBlockEnd, renderStones(stones))
	rendered, err := markdown.RenderFrontmatter(meta, body)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("write stone note: %w", err)
	}
	return path, nil
}

func renderStones(stones []domain.StoneSession) string {
	lines := make([]string, 0, len(stones))
	for _, s := range stones {
		line := fmt.Sprintf("- %s %ds", s.CreatedAt.Format("15:04"), s.DurationSec)
		if !s.Completed {
			line += " (abandoned)"
		}
		if s.Reflection != "" {
			line += ": " + s.Reflection
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return "_No sessions yet._"
	}
	return strings.Join(lines, "\n")
}
