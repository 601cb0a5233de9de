package store

import (
	"encoding/json"

	"github.com/balkashynov/flowstate/internal/models"
	"github.com/balkashynov/flowstate/internal/progress"
)

// SchemaVersion is stamped on every migrated snapshot.
const SchemaVersion = 4

// Defaults supplies the values injected for fields missing from old snapshots.
type Defaults struct {
	Challenges   func() []models.Challenge
	Achievements func() []models.Achievement
}

type step struct {
	name    string
	applies func(doc map[string]any, d Defaults) bool
	patch   func(doc map[string]any, d Defaults)
}

// absent treats a missing key and an explicit null the same way.
func absent(doc map[string]any, key string) bool {
	v, ok := doc[key]
	return !ok || v == nil
}

func fill(key string, value func(Defaults) any) step {
	return step{
		name:    "fill " + key,
		applies: func(doc map[string]any, _ Defaults) bool { return absent(doc, key) },
		patch:   func(doc map[string]any, d Defaults) { doc[key] = value(d) },
	}
}

func empty(Defaults) any { return []any{} }

var steps = []step{
	fill("tasks", empty),
	fill("todos", empty),
	fill("sanctuary", empty),
	fill("blockedApps", empty),
	fill("isPro", func(Defaults) any { return false }),
	fill("streak", func(Defaults) any { return models.Streak{} }),
	fill("stats", func(Defaults) any { return map[string]any{} }),
	fill("challenges", func(d Defaults) any { return d.Challenges() }),
	fill("achievements", func(d Defaults) any { return d.Achievements() }),
	{
		name: "fill stats counters",
		applies: func(doc map[string]any, _ Defaults) bool {
			stats, ok := doc["stats"].(map[string]any)
			if !ok {
				return false
			}
			for _, k := range statsKeys {
				if absent(stats, k) {
					return true
				}
			}
			return false
		},
		patch: func(doc map[string]any, _ Defaults) {
			stats := doc["stats"].(map[string]any)
			for _, k := range statsKeys {
				if absent(stats, k) {
					stats[k] = 0
				}
			}
		},
	},
	{
		// Their metrics are recomputed on the next check, so the catalog entry
		// added below loses nothing.
		name:    "drop legacy achievement ids",
		applies: func(doc map[string]any, _ Defaults) bool { return legacyAchievements(doc) > 0 },
		patch: func(doc map[string]any, _ Defaults) {
			list, _ := doc["achievements"].([]any)
			kept := make([]any, 0, len(list))
			for _, item := range list {
				if !isLegacyAchievement(item) {
					kept = append(kept, item)
				}
			}
			doc["achievements"] = kept
		},
	},
	{
		name:    "fill achievement tier and level",
		applies: func(doc map[string]any, _ Defaults) bool { return len(untiered(doc)) > 0 },
		patch: func(doc map[string]any, _ Defaults) {
			for _, a := range untiered(doc) {
				if absent(a, "level") {
					a["level"] = 1
				}
				if absent(a, "tier") {
					a["tier"] = string(models.TierBronze)
				}
			}
		},
	},
	{
		name:    "add missing catalog achievements",
		applies: func(doc map[string]any, d Defaults) bool { return len(missingAchievements(doc, d)) > 0 },
		patch: func(doc map[string]any, d Defaults) {
			list, _ := doc["achievements"].([]any)
			for _, a := range missingAchievements(doc, d) {
				list = append(list, a)
			}
			doc["achievements"] = list
		},
	},
}

var statsKeys = []string{"totalTasksCompleted", "focusSessionsCompleted", "aiPlansGenerated", "focusDust"}

func isLegacyAchievement(item any) bool {
	a, ok := item.(map[string]any)
	if !ok {
		return false
	}
	id, _ := a["id"].(string)
	_, legacy := progress.LegacyIDs[id]
	return legacy
}

func legacyAchievements(doc map[string]any) int {
	list, _ := doc["achievements"].([]any)
	n := 0
	for _, item := range list {
		if isLegacyAchievement(item) {
			n++
		}
	}
	return n
}

func untiered(doc map[string]any) []map[string]any {
	list, _ := doc["achievements"].([]any)
	var out []map[string]any
	for _, item := range list {
		a, ok := item.(map[string]any)
		if ok && (absent(a, "level") || absent(a, "tier")) {
			out = append(out, a)
		}
	}
	return out
}

// missingAchievements returns the catalog entries whose id is not in doc.
func missingAchievements(doc map[string]any, d Defaults) []models.Achievement {
	list, ok := doc["achievements"].([]any)
	if !ok {
		return nil
	}
	have := make(map[string]bool, len(list))
	for _, item := range list {
		switch a := item.(type) {
		case map[string]any:
			if id, ok := a["id"].(string); ok {
				have[id] = true
			}
		case models.Achievement:
			have[a.ID] = true
		}
	}

	var out []models.Achievement
	for _, a := range d.Achievements() {
		if !have[a.ID] {
			out = append(out, a)
		}
	}
	return out
}

func version(doc map[string]any) int {
	switch v := doc["schemaVersion"].(type) {
	case json.Number:
		n, _ := v.Int64()
		return int(n)
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}

// Migrate brings a decoded snapshot document up to SchemaVersion in place. Only
// absent fields are filled; present values are never replaced. It returns the
// names of the steps that ran.
func Migrate(doc map[string]any, d Defaults) []string {
	var applied []string
	for _, s := range steps {
		if s.applies(doc, d) {
			s.patch(doc, d)
			applied = append(applied, s.name)
		}
	}
	if version(doc) < SchemaVersion {
		doc["schemaVersion"] = SchemaVersion
	}
	return applied
}
