package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/flowstate/internal/apperr"
	"github.com/balkashynov/flowstate/internal/engine"
	"github.com/balkashynov/flowstate/internal/models"
	"github.com/balkashynov/flowstate/internal/parser"
)

var todoCmd = &cobra.Command{
	Use:   "todo",
	Short: "Manage unscheduled to-dos",
}

var todoAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a to-do",
	Long: `Add an unscheduled to-do.

Smart parsing syntax:
  📚            Leading emoji
  +priority     low | medium | high (or 1/2/3), medium by default

Example:
  flowstate todo add "📚 Read chapter 3 +high"`,
	Args: cobra.MinimumNArgs(1),
	RunE: withSession(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		parsed := parser.ParseEntry(strings.Join(args, " "))
		if len(parsed.Errors) > 0 {
			return fmt.Errorf("%w: %s", apperr.InvalidInput, strings.Join(parsed.Errors, "; "))
		}
		todo := models.TodoItem{Title: parsed.Title, Emoji: parsed.Emoji, Priority: parsed.Priority}
		if p, _ := cmd.Flags().GetString("priority"); p != "" {
			todo.Priority = parser.NormalizePriority(p)
		}

		if _, err := a.svc.Dispatch(ctx, engine.TodoAdded{Todo: todo}); err != nil {
			return err
		}
		snap, err := a.svc.Snapshot()
		if err != nil {
			return err
		}
		added := snap.Todos[len(snap.Todos)-1]
		a.printf("✅ New to-do \"%s\" (%s) - ID: %d\n", added.Title, added.Priority, added.ID)
		return nil
	}),
}

var todoRmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete"},
	Short:   "Delete a to-do",
	Args:    cobra.ExactArgs(1),
	RunE: withSession(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if _, err := a.svc.Dispatch(ctx, engine.TodoDeleted{ID: id}); err != nil {
			return err
		}
		a.printf("🗑️  Deleted to-do #%d\n", id)
		return nil
	}),
}

var todoDoneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Toggle a to-do's completion",
	Args:  cobra.ExactArgs(1),
	RunE: withSession(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		out, err := a.svc.Dispatch(ctx, engine.TodoToggled{ID: id})
		if err != nil {
			return err
		}
		snap, err := a.svc.Snapshot()
		if err != nil {
			return err
		}
		t := snap.Todos[snap.FindTodo(id)]
		if t.Completed {
			a.printf("✅ Marked to-do #%d as done: %s\n", t.ID, t.Title)
		} else {
			a.printf("↩️  Marked to-do #%d back to open: %s\n", t.ID, t.Title)
		}
		printOutcome(a, out)
		return nil
	}),
}

var todoLsCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List to-dos",
	Args:    cobra.NoArgs,
	RunE: withSession(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		snap, err := a.svc.Snapshot()
		if err != nil {
			return err
		}
		if len(snap.Todos) == 0 {
			a.printf("No to-dos. Use 'flowstate todo add \"title\"' or 'flowstate plan \"goal\"'.\n")
			return nil
		}
		a.printf("%-20s %-8s %-6s %s\n", "ID", "PRIORITY", "STATUS", "TITLE")
		a.printf("%s\n", strings.Repeat("-", 70))
		for _, t := range snap.Todos {
			status := "open"
			if t.Completed {
				status = "done"
			}
			a.printf("%-20d %-8s %-6s %s\n", t.ID, t.Priority, status, strings.TrimSpace(t.Emoji+" "+t.Title))
		}
		return nil
	}),
}

func init() {
	todoAddCmd.Flags().String("priority", "", "low|medium|high")
	todoCmd.AddCommand(todoAddCmd, todoRmCmd, todoDoneCmd, todoLsCmd)
}
