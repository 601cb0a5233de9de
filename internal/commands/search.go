package commands

import (
	"context"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"github.com/balkashynov/flowstate/internal/models"
)

// searchEntry is a task or to-do as seen by the fuzzy matcher.
type searchEntry struct {
	kind  string
	id    int64
	title string
	done  bool
}

type searchEntries []searchEntry

func (s searchEntries) String(i int) string { return s[i].title }
func (s searchEntries) Len() int            { return len(s) }

func searchIndex(u *models.UserData) searchEntries {
	entries := make(searchEntries, 0, len(u.Tasks)+len(u.Todos))
	for _, t := range u.Tasks {
		entries = append(entries, searchEntry{kind: "task", id: t.ID, title: strings.TrimSpace(t.Emoji + " " + t.Title), done: t.Completed})
	}
	for _, t := range u.Todos {
		entries = append(entries, searchEntry{kind: "todo", id: t.ID, title: strings.TrimSpace(t.Emoji + " " + t.Title), done: t.Completed})
	}
	return entries
}

// searchEntriesFor returns matches best first.
func searchEntriesFor(u *models.UserData, query string, limit int) []searchEntry {
	index := searchIndex(u)
	matches := fuzzy.FindFrom(query, index)
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]searchEntry, 0, len(matches))
	for _, m := range matches {
		out = append(out, index[m.Index])
	}
	return out
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Fuzzy-search tasks and to-dos",
	Long: `Search task and to-do titles with fuzzy matching. Characters must
appear in order but not next to each other, so "wrt rpt" finds "Write report".`,
	Args: cobra.MinimumNArgs(1),
	RunE: withSession(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		snap, err := a.svc.Snapshot()
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")
		results := searchEntriesFor(snap, strings.Join(args, " "), limit)
		if len(results) == 0 {
			a.printf("No matches.\n")
			return nil
		}
		for _, r := range results {
			mark := "○"
			if r.done {
				mark = "✓"
			}
			a.printf("%s %-4s %-20d %s\n", mark, r.kind, r.id, r.title)
		}
		return nil
	}),
}

func init() {
	searchCmd.Flags().IntP("limit", "n", 20, "maximum number of results")
}
