package engine

import (
	"github.com/balkashynov/flowstate/internal/models"
	"github.com/balkashynov/flowstate/internal/session"
)

// Event is one user-facing action applied to a snapshot.
type Event interface {
	Name() string
}

type TaskAdded struct{ Task models.Task }

type TaskEdited struct{ Task models.Task }

type TaskDeleted struct{ ID int64 }

type TaskToggled struct{ ID int64 }

type TodoAdded struct{ Todo models.TodoItem }

type TodoDeleted struct{ ID int64 }

type TodoToggled struct{ ID int64 }

// SessionCompleted is emitted by the timer when a focus session ends normally.
type SessionCompleted struct{ Completion session.Completion }

type CrystalFused struct{ Input models.CrystalType }

type ChallengeClaimed struct{ ID string }

// RedeemMethod is how Pro is paid for.
type RedeemMethod string

const (
	RedeemCash    RedeemMethod = "cash"
	RedeemCrystal RedeemMethod = "crystal"
	RedeemDust    RedeemMethod = "dust"
)

type ProRedeemed struct{ Method RedeemMethod }

// BreakdownApplied adds generated to-dos and charges Cost dust in one step.
type BreakdownApplied struct {
	Items []models.GeneratedTask
	Cost  int
}

type AppBlocked struct{ App string }

type AppUnblocked struct{ App string }

func (TaskAdded) Name() string        { return "task_added" }
func (TaskEdited) Name() string       { return "task_edited" }
func (TaskDeleted) Name() string      { return "task_deleted" }
func (TaskToggled) Name() string      { return "task_toggled" }
func (TodoAdded) Name() string        { return "todo_added" }
func (TodoDeleted) Name() string      { return "todo_deleted" }
func (TodoToggled) Name() string      { return "todo_toggled" }
func (SessionCompleted) Name() string { return "session_completed" }
func (CrystalFused) Name() string     { return "crystal_fused" }
func (ChallengeClaimed) Name() string { return "challenge_claimed" }
func (ProRedeemed) Name() string      { return "pro_redeemed" }
func (BreakdownApplied) Name() string { return "breakdown_applied" }
func (AppBlocked) Name() string       { return "app_blocked" }
func (AppUnblocked) Name() string     { return "app_unblocked" }
