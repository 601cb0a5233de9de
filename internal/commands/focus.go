package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/balkashynov/flowstate/internal/apperr"
	"github.com/balkashynov/flowstate/internal/config"
	"github.com/balkashynov/flowstate/internal/engine"
	"github.com/balkashynov/flowstate/internal/models"
	"github.com/balkashynov/flowstate/internal/session"
	"github.com/balkashynov/flowstate/internal/tui"
)

var focusCmd = &cobra.Command{
	Use:     "focus",
	Aliases: []string{"start"},
	Short:   "Run a focus session",
	Long: `Run a focus session. A countdown targets a timeline task (the one
scheduled for now unless --task is given) and forges a crystal when it runs
out; a stopwatch runs until you finish it.

Opens the interactive timer by default, use --no-ui for a plain ticker.
Strict mode and auto-start are Pro features.

Examples:
  flowstate focus                     # countdown on the current task
  flowstate focus --task 42 -m 50     # 50 minute countdown on task 42
  flowstate focus --stopwatch --no-ui # stopwatch, Ctrl+C to finish`,
	Args: cobra.NoArgs,
	RunE: withSession(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		snap, err := a.svc.Snapshot()
		if err != nil {
			return err
		}

		cfg, err := timerConfig(cmd, a.cfg.Timer, snap.IsPro)
		if err != nil {
			return err
		}
		machine := session.New(cfg)

		stopwatch, _ := cmd.Flags().GetBool("stopwatch")
		if stopwatch {
			if err := machine.SetKind(models.SessionStopwatch); err != nil {
				return err
			}
		}
		if minutes, _ := cmd.Flags().GetInt("minutes"); minutes != 0 {
			if err := machine.SetDuration(time.Duration(minutes) * time.Minute); err != nil {
				return err
			}
		}

		task, err := focusTarget(cmd, snap)
		if err != nil {
			return err
		}
		if task != nil {
			if err := machine.SelectTask(task.ID); err != nil {
				return err
			}
		}

		a.log.Debug("focus session opened",
			zap.String("kind", string(machine.State().Kind)),
			zap.Duration("duration", machine.State().Duration),
			zap.Bool("strict", cfg.Strict),
			zap.Bool("auto_start", cfg.AutoStart),
		)

		if noUI, _ := cmd.Flags().GetBool("no-ui"); noUI {
			ticker := time.NewTicker(session.TickInterval)
			defer ticker.Stop()
			return runHeadless(ctx, a, machine, task, ticker.C)
		}
		return tui.RunFocusTUI(ctx, a.svc, machine, task)
	}),
}

// timerConfig merges configured defaults with flags. Pro-only switches asked
// for on the command line are rejected for free accounts; configured ones are
// dropped with a note.
func timerConfig(cmd *cobra.Command, tc config.TimerConfig, pro bool) (session.Config, error) {
	cfg := session.DefaultConfig()
	if tc.FocusMinutes > 0 {
		cfg.Focus = time.Duration(tc.FocusMinutes) * time.Minute
	}
	if tc.BreakMinutes > 0 {
		cfg.Break = time.Duration(tc.BreakMinutes) * time.Minute
	}
	if tc.AutoStartDelaySeconds > 0 {
		cfg.AutoStartDelay = time.Duration(tc.AutoStartDelaySeconds) * time.Second
	}
	if tc.AbandonDelaySeconds > 0 {
		cfg.AbandonDelay = time.Duration(tc.AbandonDelaySeconds) * time.Second
	}

	autoFlag, _ := cmd.Flags().GetBool("auto-start")
	strictFlag, _ := cmd.Flags().GetBool("strict")
	if (autoFlag || strictFlag) && !pro {
		return cfg, fmt.Errorf("%w: strict mode and auto-start", apperr.ProRequired)
	}
	cfg.AutoStart = autoFlag || (tc.AutoStart && pro)
	cfg.Strict = strictFlag || (tc.Strict && pro)
	if (tc.AutoStart || tc.Strict) && !pro {
		fmt.Fprintln(cmd.OutOrStdout(), "💡 Strict mode and auto-start from your config need Pro; running without them.")
	}
	return cfg, nil
}

// focusTarget resolves --task, falling back to the task scheduled for now.
func focusTarget(cmd *cobra.Command, snap *models.UserData) (*models.Task, error) {
	if id, _ := cmd.Flags().GetInt64("task"); id != 0 {
		i := snap.FindTask(id)
		if i < 0 {
			return nil, fmt.Errorf("%w: %d", apperr.TaskNotFound, id)
		}
		t := snap.Tasks[i]
		return &t, nil
	}
	if t, ok := engine.CurrentTask(snap.Tasks, clock()); ok {
		return &t, nil
	}
	return nil, nil
}

// runHeadless drives machine from ticks and prints progress once a minute.
// Cancelling ctx finishes a stopwatch and abandons a countdown.
func runHeadless(ctx context.Context, a *app, machine *session.Machine, task *models.Task, ticks <-chan time.Time) error {
	if err := machine.Start(); err != nil {
		return err
	}
	st := machine.State()
	if task != nil {
		a.printf("⏱️  Focusing on #%d: %s\n", task.ID, task.Title)
	}
	if st.Kind == models.SessionStopwatch {
		a.printf("Stopwatch running. Press Ctrl+C to finish.\n")
	} else {
		a.printf("Countdown: %s. Press Ctrl+C to abandon.\n", st.Duration)
	}

	var outs []engine.Outcome
	for {
		select {
		case <-ctx.Done():
			return stopHeadless(a, machine, outs)

		case <-ticks:
			c, done := machine.Tick()
			if done {
				out, err := a.svc.Dispatch(context.WithoutCancel(ctx), engine.SessionCompleted{Completion: c})
				if err != nil {
					return err
				}
				outs = append(outs, out)
				a.printf("✅ Session complete: %dm focused\n", c.Minutes())
				printReward(a, out)
				if !machine.Config().AutoStart {
					return nil
				}
				a.printf("☕ Break for %s\n", machine.Config().Break)
				continue
			}

			st := machine.State()
			switch {
			case st.Phase == session.PhaseRunning && st.Kind == models.SessionStopwatch && st.Elapsed%time.Minute == 0:
				a.printf("   %s elapsed\n", st.Elapsed)
			case st.Phase == session.PhaseRunning && st.Remaining%time.Minute == 0:
				a.printf("   %s remaining\n", st.Remaining)
			}
		}
	}
}

func stopHeadless(a *app, machine *session.Machine, outs []engine.Outcome) error {
	st := machine.State()
	if st.Kind == models.SessionStopwatch && (st.Phase == session.PhaseRunning || st.Phase == session.PhasePaused) {
		c, err := machine.Finish()
		if err != nil {
			if errors.Is(err, apperr.SessionTooShort) {
				machine.Cancel()
			}
			return err
		}
		out, err := a.svc.Dispatch(context.Background(), engine.SessionCompleted{Completion: c})
		if err != nil {
			return err
		}
		a.printf("✅ Stopwatch finished: %dm focused\n", c.Minutes())
		printReward(a, out)
		return nil
	}

	if st.Phase == session.PhaseRunning || st.Phase == session.PhasePaused {
		_ = machine.Abandon()
		a.printf("✗ Session abandoned. No crystal this time.\n")
	}
	machine.Cancel()
	if len(outs) > 0 {
		tui.PrintOutcomes(outs)
	}
	return nil
}

func printReward(a *app, out engine.Outcome) {
	if out.Reward != nil && out.Reward.HasCrystal() {
		a.printf("💎 Forged a %s crystal\n", out.Reward.Crystal.Title())
	}
	if out.Reward != nil {
		a.printf("✦ +%d focus dust\n", out.Reward.Dust)
	}
	printOutcome(a, engine.Outcome{Completed: out.Completed, TierUps: out.TierUps})
}

func init() {
	focusCmd.Flags().Bool("stopwatch", false, "open-ended stopwatch instead of a countdown")
	focusCmd.Flags().Int64("task", 0, "target timeline task ID")
	focusCmd.Flags().IntP("minutes", "m", 0, "countdown length in minutes (1-180)")
	focusCmd.Flags().Bool("no-ui", false, "plain ticker instead of the interactive timer")
	focusCmd.Flags().Bool("auto-start", false, "start a break and the next session automatically (Pro)")
	focusCmd.Flags().Bool("strict", false, "pause and flag the session when you look away (Pro)")
}
