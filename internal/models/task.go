package models

import (
	"fmt"
	"strconv"
	"strings"
)

// TaskCategory groups timeline tasks.
type TaskCategory string

const (
	CategoryWellness TaskCategory = "wellness"
	CategoryWork     TaskCategory = "work"
	CategoryPersonal TaskCategory = "personal"
)

func (c TaskCategory) IsValid() bool {
	switch c {
	case CategoryWellness, CategoryWork, CategoryPersonal:
		return true
	default:
		return false
	}
}

// Priority of a todo item.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

// Task is a scheduled block on the daily timeline
type Task struct {
	ID        int64        `json:"id"`
	Title     string       `json:"title" validate:"required,max=120"`
	Emoji     string       `json:"emoji" validate:"omitempty,grapheme"`
	Time      string       `json:"time" validate:"required,hhmm"` // "HH:MM"
	Duration  int          `json:"duration" validate:"gt=0,lte=1440"`
	Color     string       `json:"color" validate:"omitempty,hexcolor"`
	Completed bool         `json:"completed"`
	Category  TaskCategory `json:"category" validate:"required,oneof=wellness work personal"`
}

// StartMinute returns minutes since midnight of the task's start time.
func (t Task) StartMinute() (int, error) {
	return ParseClock(t.Time)
}

// Covers reports whether minuteOfDay falls inside [start, start+duration).
func (t Task) Covers(minuteOfDay int) bool {
	start, err := t.StartMinute()
	if err != nil {
		return false
	}
	return minuteOfDay >= start && minuteOfDay < start+t.Duration
}

// TodoItem is an unscheduled to-do entry.
type TodoItem struct {
	ID        int64    `json:"id"`
	Title     string   `json:"title" validate:"required,max=120"`
	Emoji     string   `json:"emoji" validate:"omitempty,grapheme"`
	Priority  Priority `json:"priority" validate:"required,oneof=high medium low"`
	Completed bool     `json:"completed"`
}

// GeneratedTask is one item returned by the task-breakdown generator.
type GeneratedTask struct {
	Title    string   `json:"title" validate:"required,max=120"`
	Emoji    string   `json:"emoji" validate:"required,grapheme"`
	Priority Priority `json:"priority" validate:"required,oneof=high medium low"`
}

// ParseClock parses "HH:MM" (24h) into minutes since midnight.
func ParseClock(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 || len(parts[0]) == 0 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("invalid time %q, use HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return h*60 + m, nil
}

// FormatClock renders minutes since midnight as "HH:MM".
func FormatClock(minute int) string {
	minute = ((minute % 1440) + 1440) % 1440
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}
