package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/flowstate/internal/apperr"
	"github.com/balkashynov/flowstate/internal/engine"
	"github.com/balkashynov/flowstate/internal/models"
	"github.com/balkashynov/flowstate/internal/parser"
)

const (
	defaultTaskMinutes  = 30
	defaultTaskCategory = models.CategoryPersonal
)

var taskCmd = &cobra.Command{
	Use:     "task",
	Aliases: []string{"t"},
	Short:   "Manage timeline tasks",
}

var taskAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a timeline task",
	Long: `Add a task to today's timeline.

Smart parsing syntax:
  🧘            Leading emoji
  @category     wellness | work | personal
  at:HH:MM      Start time (defaults to now)
  for:45m       Length (45, 45m, 1h30m, 2 hours)

Example:
  flowstate task add "🧘 Stretch @wellness at:07:30 for:15m"`,
	Args: cobra.MinimumNArgs(1),
	RunE: withSession(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		parsed := parser.ParseEntry(strings.Join(args, " "))
		if len(parsed.Errors) > 0 {
			return fmt.Errorf("%w: %s", apperr.InvalidInput, strings.Join(parsed.Errors, "; "))
		}

		task := models.Task{
			Title:    parsed.Title,
			Emoji:    parsed.Emoji,
			Time:     parsed.Time,
			Duration: parsed.Duration,
			Category: parsed.Category,
		}
		if task.Time == "" {
			now := clock()
			task.Time = models.FormatClock(now.Hour()*60 + now.Minute())
		}
		if task.Duration == 0 {
			task.Duration = defaultTaskMinutes
		}
		if task.Category == "" {
			task.Category = defaultTaskCategory
		}
		if err := applyTaskFlags(cmd, &task); err != nil {
			return err
		}

		out, err := a.svc.Dispatch(ctx, engine.TaskAdded{Task: task})
		if err != nil {
			return err
		}
		snap, err := a.svc.Snapshot()
		if err != nil {
			return err
		}
		added := snap.Tasks[len(snap.Tasks)-1]
		a.printf("✅ New task \"%s\" at %s for %dm - ID: %d\n", added.Title, added.Time, added.Duration, added.ID)
		printOutcome(a, out)
		return nil
	}),
}

var taskEditCmd = &cobra.Command{
	Use:   "edit <id> [title]",
	Short: "Edit a timeline task",
	Long: `Edit a task. Any smart-syntax fields or flags given replace the stored
values; everything else is kept.

Example:
  flowstate task edit 42 "Deep work @work at:14:00 for:2h"`,
	Args: cobra.MinimumNArgs(1),
	RunE: withSession(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		snap, err := a.svc.Snapshot()
		if err != nil {
			return err
		}
		i := snap.FindTask(id)
		if i < 0 {
			return fmt.Errorf("%w: %d", apperr.TaskNotFound, id)
		}
		task := snap.Tasks[i]

		if len(args) > 1 {
			parsed := parser.ParseEntry(strings.Join(args[1:], " "))
			if len(parsed.Errors) > 0 {
				return fmt.Errorf("%w: %s", apperr.InvalidInput, strings.Join(parsed.Errors, "; "))
			}
			if parsed.Title != "" {
				task.Title = parsed.Title
			}
			if parsed.Emoji != "" {
				task.Emoji = parsed.Emoji
			}
			if parsed.Time != "" {
				task.Time = parsed.Time
			}
			if parsed.Duration > 0 {
				task.Duration = parsed.Duration
			}
			if parsed.Category != "" {
				task.Category = parsed.Category
			}
		}
		if err := applyTaskFlags(cmd, &task); err != nil {
			return err
		}

		if _, err := a.svc.Dispatch(ctx, engine.TaskEdited{Task: task}); err != nil {
			return err
		}
		a.printf("✏️  Updated task #%d: %s\n", task.ID, task.Title)
		return nil
	}),
}

var taskRmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete"},
	Short:   "Delete a timeline task",
	Args:    cobra.ExactArgs(1),
	RunE: withSession(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if _, err := a.svc.Dispatch(ctx, engine.TaskDeleted{ID: id}); err != nil {
			return err
		}
		a.printf("🗑️  Deleted task #%d\n", id)
		return nil
	}),
}

var taskDoneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Toggle a timeline task's completion",
	Args:  cobra.ExactArgs(1),
	RunE: withSession(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		out, err := a.svc.Dispatch(ctx, engine.TaskToggled{ID: id})
		if err != nil {
			return err
		}
		snap, err := a.svc.Snapshot()
		if err != nil {
			return err
		}
		t := snap.Tasks[snap.FindTask(id)]
		if t.Completed {
			a.printf("✅ Marked task #%d as done: %s\n", t.ID, t.Title)
		} else {
			a.printf("↩️  Marked task #%d back to todo: %s\n", t.ID, t.Title)
		}
		printOutcome(a, out)
		return nil
	}),
}

var taskLsCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List today's timeline",
	Args:    cobra.NoArgs,
	RunE: withSession(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		snap, err := a.svc.Snapshot()
		if err != nil {
			return err
		}
		if len(snap.Tasks) == 0 {
			a.printf("No tasks found. Use 'flowstate task add \"title\"' to plan your day.\n")
			return nil
		}
		current, hasCurrent := engine.CurrentTask(snap.Tasks, clock())

		a.printf("   %-20s %-6s %-6s %-9s %-6s %s\n", "ID", "TIME", "LEN", "CATEGORY", "STATUS", "TITLE")
		a.printf("%s\n", strings.Repeat("-", 80))
		for _, t := range snap.Tasks {
			marker := "  "
			if hasCurrent && t.ID == current.ID {
				marker = "▶ "
			}
			status := "todo"
			if t.Completed {
				status = "done"
			}
			a.printf("%s %-20d %-6s %-6s %-9s %-6s %s\n",
				marker, t.ID, t.Time, fmt.Sprintf("%dm", t.Duration), t.Category, status,
				strings.TrimSpace(t.Emoji+" "+t.Title))
		}
		return nil
	}),
}

// applyTaskFlags lets explicit flags override parsed values.
func applyTaskFlags(cmd *cobra.Command, t *models.Task) error {
	if v, _ := cmd.Flags().GetString("at"); v != "" {
		minute, err := models.ParseClock(v)
		if err != nil {
			return fmt.Errorf("%w: %v", apperr.InvalidInput, err)
		}
		t.Time = models.FormatClock(minute)
	}
	if v, _ := cmd.Flags().GetString("for"); v != "" {
		minutes, err := parser.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %v", apperr.InvalidInput, err)
		}
		t.Duration = minutes
	}
	if v, _ := cmd.Flags().GetString("category"); v != "" {
		t.Category = models.TaskCategory(strings.ToLower(v))
	}
	if v, _ := cmd.Flags().GetString("emoji"); v != "" {
		t.Emoji = v
	}
	if v, _ := cmd.Flags().GetString("color"); v != "" {
		t.Color = v
	}
	return nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(s, "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid ID '%s'", apperr.InvalidInput, s)
	}
	return id, nil
}

// printOutcome reports the side effects of an applied event.
func printOutcome(a *app, out engine.Outcome) {
	if out.Forged != nil {
		a.printf("💎 Forged a %s crystal\n", out.Forged.Type.Title())
	}
	if out.DustEarned > 0 {
		a.printf("✦ +%d focus dust\n", out.DustEarned)
	}
	if out.DustSpent > 0 {
		a.printf("✦ -%d focus dust\n", out.DustSpent)
	}
	if n := len(out.Completed); n > 0 {
		a.printf("🎯 %d ritual(s) complete, claim them with 'flowstate claim'\n", n)
	}
	for _, up := range out.TierUps {
		a.printf("🏆 %s reached %s (level %d)\n", up.Title, up.Tier, up.Level)
	}
}

func init() {
	for _, c := range []*cobra.Command{taskAddCmd, taskEditCmd} {
		c.Flags().String("at", "", "start time HH:MM")
		c.Flags().String("for", "", "length, e.g. 45m or 1h30m")
		c.Flags().StringP("category", "c", "", "wellness|work|personal")
		c.Flags().String("emoji", "", "emoji shown next to the title")
		c.Flags().String("color", "", "hex color, e.g. #7C3AED")
	}
	taskCmd.AddCommand(taskAddCmd, taskEditCmd, taskRmCmd, taskDoneCmd, taskLsCmd)
}
