// Package breakdown turns a free-text goal into a short list of to-dos.
package breakdown

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/balkashynov/flowstate/internal/apperr"
	"github.com/balkashynov/flowstate/internal/models"
)

const (
	MinItems = 3
	MaxItems = 5
)

// Generator produces the breakdown for one goal. Implementations return
// apperr.GeneratorFailed or apperr.GeneratorMalformed wrapped with detail.
type Generator interface {
	Generate(ctx context.Context, goal string) ([]models.GeneratedTask, error)
}

// Prompt renders the instruction sent to the model.
func Prompt(goal string) string {
	return fmt.Sprintf(`Break down the following goal into %d-%d actionable sub-tasks for a todo list.
Goal: %q.
Assign a relevant emoji and a priority level (high, medium, low) based on urgency/impact.`, MinItems, MaxItems, goal)
}

// Parse decodes and validates a JSON array response.
func Parse(text string) ([]models.GeneratedTask, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: empty response", apperr.GeneratorMalformed)
	}
	var items []models.GeneratedTask
	if err := json.Unmarshal([]byte(text), &items); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.GeneratorMalformed, err)
	}
	if err := Validate(items); err != nil {
		return nil, err
	}
	return items, nil
}

// Validate enforces the 3 to 5 item contract and each item's fields.
func Validate(items []models.GeneratedTask) error {
	if len(items) < MinItems || len(items) > MaxItems {
		return fmt.Errorf("%w: got %d items, want %d-%d", apperr.GeneratorMalformed, len(items), MinItems, MaxItems)
	}
	for i, it := range items {
		if err := models.Validate(it); err != nil {
			return fmt.Errorf("%w: item %d: %v", apperr.GeneratorMalformed, i, err)
		}
	}
	return nil
}
