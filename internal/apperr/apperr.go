package apperr

import "errors"

// Kind groups error codes by how the caller should react.
type Kind int

const (
	KindPrecondition Kind = iota + 1 // rejected, nothing mutated, show inline
	KindAuth                         // no session established
	KindExternal                     // dependency failed, retryable
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindPrecondition:
		return "precondition"
	case KindAuth:
		return "auth"
	case KindExternal:
		return "external"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Definition is a coded error value. Compare with errors.Is.
type Definition struct {
	Code    string
	Message string
	Kind    Kind
}

func (d Definition) Error() string {
	return d.Message
}

// Precondition violations.
var (
	NoTargetTask           = Definition{Code: "NO_TARGET_TASK", Message: "select a task before starting a countdown", Kind: KindPrecondition}
	SessionBusy            = Definition{Code: "SESSION_BUSY", Message: "a session is already running", Kind: KindPrecondition}
	SessionNotRunning      = Definition{Code: "SESSION_NOT_RUNNING", Message: "no focus session is running", Kind: KindPrecondition}
	SessionNotPaused       = Definition{Code: "SESSION_NOT_PAUSED", Message: "session is not paused", Kind: KindPrecondition}
	SessionTooShort        = Definition{Code: "SESSION_TOO_SHORT", Message: "sessions under a minute earn nothing", Kind: KindPrecondition}
	InvalidDuration        = Definition{Code: "INVALID_DURATION", Message: "focus length must be between 1 and 180 minutes", Kind: KindPrecondition}
	InsufficientCrystals   = Definition{Code: "INSUFFICIENT_CRYSTALS", Message: "not enough crystals to fuse", Kind: KindPrecondition}
	TerminalCrystal        = Definition{Code: "TERMINAL_CRYSTAL", Message: "moonstone cannot be fused further", Kind: KindPrecondition}
	ChallengeNotClaimable  = Definition{Code: "CHALLENGE_NOT_CLAIMABLE", Message: "challenge is not completed or already claimed", Kind: KindPrecondition}
	InsufficientMoonstones = Definition{Code: "INSUFFICIENT_MOONSTONES", Message: "redeeming Pro needs a moonstone", Kind: KindPrecondition}
	InsufficientDust       = Definition{Code: "INSUFFICIENT_DUST", Message: "not enough focus dust", Kind: KindPrecondition}
	AlreadyPro             = Definition{Code: "ALREADY_PRO", Message: "Pro is already unlocked", Kind: KindPrecondition}
	ProRequired            = Definition{Code: "PRO_REQUIRED", Message: "this feature needs Pro", Kind: KindPrecondition}
	InvalidInput           = Definition{Code: "INVALID_INPUT", Message: "invalid input", Kind: KindPrecondition}
	NotLoggedIn            = Definition{Code: "NOT_LOGGED_IN", Message: "not logged in, run 'flowstate login' first", Kind: KindPrecondition}
)

// Authentication failures.
var (
	InvalidCredentials = Definition{Code: "INVALID_CREDENTIALS", Message: "invalid username or password", Kind: KindAuth}
	UsernameTaken      = Definition{Code: "USERNAME_TAKEN", Message: "username already exists", Kind: KindAuth}
)

// External-dependency failures.
var (
	GeneratorFailed    = Definition{Code: "GENERATOR_FAILED", Message: "failed to generate tasks, please try again", Kind: KindExternal}
	GeneratorMalformed = Definition{Code: "GENERATOR_MALFORMED", Message: "task generator returned malformed data", Kind: KindExternal}
)

// Lookups that found nothing.
var (
	TaskNotFound      = Definition{Code: "TASK_NOT_FOUND", Message: "task not found", Kind: KindNotFound}
	TodoNotFound      = Definition{Code: "TODO_NOT_FOUND", Message: "todo not found", Kind: KindNotFound}
	ChallengeNotFound = Definition{Code: "CHALLENGE_NOT_FOUND", Message: "challenge not found", Kind: KindNotFound}
	UserNotFound      = Definition{Code: "USER_NOT_FOUND", Message: "user not found", Kind: KindNotFound}
)

// Lookup maps codes back to definitions.
var Lookup = map[string]Definition{}

func init() {
	for _, d := range []Definition{
		NoTargetTask, SessionBusy, SessionNotRunning, SessionNotPaused, SessionTooShort,
		InvalidDuration, InsufficientCrystals, TerminalCrystal, ChallengeNotClaimable,
		InsufficientMoonstones, InsufficientDust, AlreadyPro, ProRequired, InvalidInput, NotLoggedIn,
		InvalidCredentials, UsernameTaken,
		GeneratorFailed, GeneratorMalformed,
		TaskNotFound, TodoNotFound, ChallengeNotFound, UserNotFound,
	} {
		Lookup[d.Code] = d
	}
}

// As extracts the Definition wrapped in err.
func As(err error) (Definition, bool) {
	var d Definition
	if errors.As(err, &d) {
		return d, true
	}
	return Definition{}, false
}

// IsKind reports whether err wraps a Definition of kind k.
func IsKind(err error, k Kind) bool {
	d, ok := As(err)
	return ok && d.Kind == k
}
