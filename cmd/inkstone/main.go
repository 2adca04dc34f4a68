package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"inkstone/internal/bootstrap"
	journeydto "inkstone/internal/modules/journey/dto"
	"inkstone/internal/platform/config"
	"inkstone/internal/runner"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dataDir string

	root := &cobra.Command{
		Use:           "inkstone",
		Short:         "Daily stone practice and writing coach",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dataDir, "data", defaultDataDir(), "data directory (config, store, journal)")

	root.AddCommand(newStatusCmd(&dataDir))
	root.AddCommand(newJourneyCmd(&dataDir))
	root.AddCommand(newStoneCmd(&dataDir))
	root.AddCommand(newWriteCmd(&dataDir))
	root.AddCommand(newPromptCmd(&dataDir))
	root.AddCommand(newDevCmd(&dataDir))
	root.AddCommand(newWatchCmd(&dataDir))
	root.AddCommand(newTUICmd(&dataDir))
	return root
}

func defaultDataDir() string {
	if dir := os.Getenv("INKSTONE_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".inkstone"
	}
	return filepath.Join(home, ".inkstone")
}

func loadApp(ctx context.Context, dataDir string) (*bootstrap.App, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	cfg, err := config.New(dataDir)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(ctx, cfg)
}

// withApp opens the app for one command and closes it afterwards.
func withApp(dataDir string, fn func(ctx context.Context, app *bootstrap.App) error) error {
	ctx := context.Background()
	app, err := loadApp(ctx, dataDir)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()
	return fn(ctx, app)
}

func newStatusCmd(dataDir *string) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show journey phase, unlocks and practice stats",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(ctx context.Context, app *bootstrap.App) error {
				status, err := app.JourneyCLI.Status(ctx)
				if err != nil {
					return err
				}
				stats, err := app.LedgerCLI.Stats(ctx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if asJSON {
					enc := json.NewEncoder(out)
					enc.SetIndent("", "  ")
					return enc.Encode(map[string]any{"journey": status, "stats": stats})
				}
				printStatus(cmd, status)
				_, _ = fmt.Fprintf(out, "stone today=%d/%d can_practice=%t total=%d\n",
					stats.SessionsToday, stats.DailyGoal, stats.CanPracticeNow, stats.TotalStoneSessions)
				_, _ = fmt.Fprintf(out, "writing this_week=%d total=%d resonance_week=%.1f resonance_all=%.1f\n",
					stats.WritingSessionsThisWeek, stats.TotalWritingSessions,
					stats.AverageResonanceThisWeek, stats.AverageResonanceAllTime)
				if stats.ActiveSessionID != "" {
					_, _ = fmt.Fprintf(out, "active writing session=%s\n", stats.ActiveSessionID)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func printStatus(cmd *cobra.Command, status journeydto.StatusOutput) {
	out := cmd.OutOrStdout()
	if !status.Started {
		_, _ = fmt.Fprintln(out, "journey not started (inkstone journey start)")
		return
	}
	pinned := ""
	if status.Pinned {
		pinned = " (pinned)"
	}
	_, _ = fmt.Fprintf(out, "phase=%s%s week=%d day=%d progress=%.0f%% started=%s\n",
		status.PhaseTitle, pinned, status.Week, status.Day, status.PhaseProgress, status.StartDate.Format(time.DateOnly))
	features := "none"
	if len(status.Features) > 0 {
		features = strings.Join(status.Features, ",")
	}
	chapters := strconv.Itoa(status.MaxChapters)
	if status.ChaptersUnlimited {
		chapters = "unlimited"
	}
	_, _ = fmt.Fprintf(out, "unlocked=%s chapters=%s\n", features, chapters)
	switch status.PromptMode {
	case journeydto.PromptModeScheduled:
		_, _ = fmt.Fprintf(out, "prompts every %s\n", status.PromptInterval)
	case journeydto.PromptModeManual:
		_, _ = fmt.Fprintln(out, "prompts on request only")
	default:
		_, _ = fmt.Fprintln(out, "prompts unlock in week 2")
	}
}

func newJourneyCmd(dataDir *string) *cobra.Command {
	journey := &cobra.Command{Use: "journey", Short: "Start and steer the phase journey"}

	journey.AddCommand(&cobra.Command{
		Use:   "start",
		Short: "Start the journey today",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(ctx context.Context, app *bootstrap.App) error {
				status, err := app.JourneyCLI.Start(ctx)
				if err != nil {
					return err
				}
				printStatus(cmd, status)
				return nil
			})
		},
	})
	journey.AddCommand(&cobra.Command{
		Use:   "skip",
		Short: "Jump to the start of the next phase",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(ctx context.Context, app *bootstrap.App) error {
				status, err := app.JourneyCLI.Skip(ctx)
				if err != nil {
					return err
				}
				printStatus(cmd, status)
				return nil
			})
		},
	})
	journey.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Clear the journey and all unlocks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(ctx context.Context, app *bootstrap.App) error {
				status, err := app.JourneyCLI.Reset(ctx)
				if err != nil {
					return err
				}
				printStatus(cmd, status)
				return nil
			})
		},
	})
	journey.AddCommand(&cobra.Command{
		Use:   "goal <n>",
		Short: "Set the daily stone session goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			goal, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("goal must be a number: %w", err)
			}
			return withApp(*dataDir, func(ctx context.Context, app *bootstrap.App) error {
				status, err := app.JourneyCLI.SetDailyGoal(ctx, goal)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "daily goal=%d\n", status.DailyStoneGoal)
				return nil
			})
		},
	})
	journey.AddCommand(&cobra.Command{
		Use:   "tick",
		Short: "Check for a phase change or new unlocks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.JourneyCLI.Tick(ctx)
				if err != nil {
					return err
				}
				printTick(cmd, out)
				return nil
			})
		},
	})
	return journey
}

func printTick(cmd *cobra.Command, out journeydto.TickOutput) {
	w := cmd.OutOrStdout()
	if out.PhaseChange != nil {
		_, _ = fmt.Fprintf(w, "phase %s -> %s\n", out.PhaseChange.FromTitle, out.PhaseChange.ToTitle)
	}
	for _, ev := range out.Unlocks {
		_, _ = fmt.Fprintf(w, "unlocked %s: %s\n", ev.Title, ev.Description)
	}
	if out.PhaseChange == nil && len(out.Unlocks) == 0 {
		_, _ = fmt.Fprintln(w, "no changes")
	}
}

func newStoneCmd(dataDir *string) *cobra.Command {
	stone := &cobra.Command{Use: "stone", Short: "Record stone practice"}

	var reflection string
	doneCmd := &cobra.Command{
		Use:   "done <seconds>",
		Short: "Record a completed stone session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seconds, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("seconds must be a number: %w", err)
			}
			return withApp(*dataDir, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.LedgerCLI.StoneDone(ctx, seconds, reflection)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "recorded %s (%ds) today=%d/%d\n",
					out.SessionID, out.DurationSec, out.SessionsToday, out.DailyGoal)
				return nil
			})
		},
	}
	doneCmd.Flags().StringVar(&reflection, "reflection", "", "short reflection on the session")

	reflectCmd := &cobra.Command{
		Use:   "reflect <text>",
		Short: "Attach a reflection to today's latest stone session",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dataDir, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.LedgerCLI.Reflect(ctx, strings.Join(args, " "))
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "reflection saved on %s: %s\n", out.SessionID, out.Reflection)
				return nil
			})
		},
	}

	stone.AddCommand(doneCmd, reflectCmd)
	return stone
}

func newWriteCmd(dataDir *string) *cobra.Command {
	write := &cobra.Command{Use: "write", Short: "Track writing sessions"}

	write.AddCommand(&cobra.Command{
		Use:   "start",
		Short: "Start a writing session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.LedgerCLI.StartWriting(ctx)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "writing session %s started in %s\n", out.SessionID, out.Phase)
				return nil
			})
		},
	})

	var sessionID string
	var words int
	endCmd := &cobra.Command{
		Use:   "end",
		Short: "End the active writing session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.LedgerCLI.EndWriting(ctx, sessionID, words)
				if err != nil {
					return err
				}
				if !out.Ended {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "session %s already ended\n", out.SessionID)
					return nil
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "ended %s: %d min, %d words note=%s\n",
					out.SessionID, out.DurationMin, out.WordCount, out.Path)
				return nil
			})
		},
	}
	endCmd.Flags().StringVar(&sessionID, "session", "", "session id (default: active session)")
	endCmd.Flags().IntVar(&words, "words", 0, "words written")

	var rateID string
	resonanceCmd := &cobra.Command{
		Use:   "resonance <1-10>",
		Short: "Rate how much a writing session resonated",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			score, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("score must be a number: %w", err)
			}
			return withApp(*dataDir, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.LedgerCLI.Resonance(ctx, rateID, score)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "resonance %d recorded for %s\n", out.Score, out.SessionID)
				return nil
			})
		},
	}
	resonanceCmd.Flags().StringVar(&rateID, "session", "", "session id (default: latest session)")

	write.AddCommand(endCmd, resonanceCmd)
	return write
}

func newPromptCmd(dataDir *string) *cobra.Command {
	prompt := &cobra.Command{Use: "prompt", Short: "Writing prompts"}

	prompt.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Show a prompt if one is due",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.PromptCLI.Check(ctx)
				if err != nil {
					return err
				}
				if out.Prompt == nil {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no prompt due")
					return nil
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s\n", out.Prompt.Type, out.Prompt.Message)
				return nil
			})
		},
	})
	prompt.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show a prompt now",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.PromptCLI.ShowNow(ctx)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s\n", out.Type, out.Message)
				return nil
			})
		},
	})
	prompt.AddCommand(&cobra.Command{
		Use:   "dismiss",
		Short: "Dismiss the displayed prompt",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.PromptCLI.Dismiss(ctx)
				if err != nil {
					return err
				}
				if !out.Dismissed {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "too soon, %dms left\n", out.RemainingMs)
					return nil
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "dismissed")
				return nil
			})
		},
	})
	for _, enabled := range []bool{true, false} {
		use, short := "enable", "Turn scheduled prompts on"
		if !enabled {
			use, short = "disable", "Turn scheduled prompts off"
		}
		prompt.AddCommand(&cobra.Command{
			Use:   use,
			Short: short,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withApp(*dataDir, func(ctx context.Context, app *bootstrap.App) error {
					state, err := app.PromptCLI.SetEnabled(ctx, enabled)
					if err != nil {
						return err
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "prompts enabled=%t\n", state.Enabled)
					return nil
				})
			},
		})
	}
	return prompt
}

func newDevCmd(dataDir *string) *cobra.Command {
	dev := &cobra.Command{Use: "dev", Short: "Developer overrides for testing the journey", Hidden: true}

	dev.AddCommand(&cobra.Command{
		Use:   "force-phase <stone|transfer|application|autonomous>",
		Short: "Pin the displayed phase",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dataDir, func(ctx context.Context, app *bootstrap.App) error {
				status, err := app.JourneyCLI.ForcePhase(ctx, args[0])
				if err != nil {
					return err
				}
				printStatus(cmd, status)
				return nil
			})
		},
	})
	dev.AddCommand(&cobra.Command{
		Use:   "clear-pin",
		Short: "Return to the computed phase",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(ctx context.Context, app *bootstrap.App) error {
				status, err := app.JourneyCLI.ClearPin(ctx)
				if err != nil {
					return err
				}
				printStatus(cmd, status)
				return nil
			})
		},
	})
	dev.AddCommand(&cobra.Command{
		Use:   "force-day <n>",
		Short: "Move the start date so today is day n",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("day must be a number: %w", err)
			}
			return withApp(*dataDir, func(ctx context.Context, app *bootstrap.App) error {
				status, err := app.JourneyCLI.ForceDay(ctx, day)
				if err != nil {
					return err
				}
				printStatus(cmd, status)
				return nil
			})
		},
	})
	dev.AddCommand(&cobra.Command{
		Use:   "force-unlock <feature>",
		Short: "Set one unlock flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dataDir, func(ctx context.Context, app *bootstrap.App) error {
				status, err := app.JourneyCLI.ForceUnlock(ctx, args[0])
				if err != nil {
					return err
				}
				printStatus(cmd, status)
				return nil
			})
		},
	})
	return dev
}

func newWatchCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Run the phase and prompt checks and print what happens",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app, err := loadApp(ctx, *dataDir)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			r := app.NewRunner()
			done := make(chan struct{})
			go func() {
				defer close(done)
				for ev := range r.Events() {
					printEvent(cmd, ev)
				}
			}()
			err = r.Run(ctx)
			<-done
			if dropped := r.Dropped(); dropped > 0 {
				app.Log.Warn("events dropped", "count", dropped)
			}
			return err
		},
	}
}

func printEvent(cmd *cobra.Command, ev runner.Event) {
	w := cmd.OutOrStdout()
	at := ev.At.Format(time.TimeOnly)
	switch ev.Kind {
	case runner.EventPhaseChange:
		_, _ = fmt.Fprintf(w, "%s phase %s -> %s\n", at, ev.PhaseChange.FromTitle, ev.PhaseChange.ToTitle)
	case runner.EventUnlocks:
		for _, u := range ev.Unlocks {
			_, _ = fmt.Fprintf(w, "%s unlocked %s\n", at, u.Title)
		}
	case runner.EventPrompt:
		_, _ = fmt.Fprintf(w, "%s [%s] %s\n", at, ev.Prompt.Type, ev.Prompt.Message)
	}
}

func newTUICmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the inkstone dashboard",
		RunE: func(_ *cobra.Command, _ []string) error {
			if !isatty.IsTerminal(os.Stdout.Fd()) {
				return fmt.Errorf("tui needs a terminal")
			}
			return withApp(*dataDir, func(_ context.Context, app *bootstrap.App) error {
				return bootstrap.RunTUI(app)
			})
		},
	}
}
