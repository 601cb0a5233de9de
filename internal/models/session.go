package models

// SessionKind distinguishes a committed countdown from an open-ended stopwatch.
type SessionKind string

const (
	SessionCountdown SessionKind = "countdown"
	SessionStopwatch SessionKind = "stopwatch"
)

func (k SessionKind) IsValid() bool {
	return k == SessionCountdown || k == SessionStopwatch
}
