package parser

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/balkashynov/flowstate/internal/models"
)

// ParsedEntry is a task or to-do parsed from quick-add syntax.
type ParsedEntry struct {
	Title    string
	Emoji    string
	Priority models.Priority
	Category models.TaskCategory
	Time     string // "HH:MM", empty when not given
	Duration int    // minutes, 0 when not given
	Errors   []string
}

var (
	priorityRegex = regexp.MustCompile(`\+([a-zA-Z0-9]+)`)
	categoryRegex = regexp.MustCompile(`@([a-zA-Z]+)`)
	atRegex       = regexp.MustCompile(`\bat:([^\s]+)`)
	forRegex      = regexp.MustCompile(`\bfor:([^\s]+)`)
)

// ParseEntry extracts metadata from quick-add input.
// Syntax: "🧘 Stretch +high @wellness at:07:30 for:15m"
func ParseEntry(input string) ParsedEntry {
	result := ParsedEntry{Errors: []string{}}

	// Extract priority (+high, +3, +med)
	if m := priorityRegex.FindStringSubmatch(input); len(m) > 1 {
		p := strings.ToLower(m[1])
		if isValidPriority(p) {
			result.Priority = NormalizePriority(p)
		} else {
			result.Errors = append(result.Errors, "Invalid priority '"+m[1]+"'. Use: low, medium, high, 1, 2, or 3")
		}
		input = priorityRegex.ReplaceAllString(input, "")
	}

	// Extract category (@work, @wellness, @personal)
	if m := categoryRegex.FindStringSubmatch(input); len(m) > 1 {
		c := models.TaskCategory(strings.ToLower(m[1]))
		if c.IsValid() {
			result.Category = c
		} else {
			result.Errors = append(result.Errors, "Invalid category '"+m[1]+"'. Use: wellness, work, or personal")
		}
		input = categoryRegex.ReplaceAllString(input, "")
	}

	// Extract start time (at:09:30)
	if m := atRegex.FindStringSubmatch(input); len(m) > 1 {
		if minute, err := models.ParseClock(m[1]); err != nil {
			result.Errors = append(result.Errors, "Invalid time '"+m[1]+"': "+err.Error())
		} else {
			result.Time = models.FormatClock(minute)
		}
		input = atRegex.ReplaceAllString(input, "")
	}

	// Extract duration (for:45m, for:1h30m)
	if m := forRegex.FindStringSubmatch(input); len(m) > 1 {
		if minutes, err := ParseDuration(m[1]); err != nil {
			result.Errors = append(result.Errors, "Invalid duration '"+m[1]+"': "+err.Error())
		} else {
			result.Duration = minutes
		}
		input = forRegex.ReplaceAllString(input, "")
	}

	fields := strings.Fields(input)
	if len(fields) > 0 && isEmoji(fields[0]) {
		result.Emoji = fields[0]
		fields = fields[1:]
	}
	result.Title = strings.Join(fields, " ")

	return result
}

// isEmoji reports whether token is one non-ASCII grapheme with no letters or digits.
func isEmoji(token string) bool {
	if !models.IsSingleGrapheme(token) {
		return false
	}
	for _, r := range token {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r < 0x80 {
			return false
		}
	}
	return true
}

// isValidPriority checks if a priority value is valid
func isValidPriority(priority string) bool {
	validPriorities := map[string]bool{
		"low":    true,
		"medium": true,
		"med":    true,
		"high":   true,
		"1":      true,
		"2":      true,
		"3":      true,
	}
	return validPriorities[priority]
}

// NormalizePriority converts priority to standard form
func NormalizePriority(priority string) models.Priority {
	priority = strings.ToLower(strings.TrimSpace(priority))
	switch priority {
	case "1", "low":
		return models.PriorityLow
	case "2", "medium", "med":
		return models.PriorityMedium
	case "3", "high":
		return models.PriorityHigh
	default:
		return models.PriorityLow
	}
}
