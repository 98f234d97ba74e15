// Package lifecycle models the daily response flow as an explicit finite
// state machine: how a session obtains today's question, submits at most
// one answer, and gains read access to the collective board.
package lifecycle

// State is a position in the daily response lifecycle.
type State string

const (
	// Bootstrapping: identity and question resolution in progress.
	Bootstrapping State = "bootstrapping"
	// Unanswered: identity and question resolved, no response committed yet.
	Unanswered State = "unanswered"
	// AnsweredLocal: the user's response is committed but the collective
	// board has not been fetched successfully yet.
	AnsweredLocal State = "answered_local"
	// AnsweredBoardVisible: the collective board has loaded at least once.
	AnsweredBoardVisible State = "answered_board_visible"
	// AuthDisabled: anonymous provisioning is rejected by configuration.
	// Recoverable only by external reconfiguration plus a manual retry.
	AuthDisabled State = "auth_disabled"
)

// Event is an observed outcome that may advance the lifecycle.
type Event string

const (
	// EventIdentityReady: anonymous identity established.
	EventIdentityReady Event = "identity_ready"
	// EventAuthRejected: provisioning refused as a configuration problem.
	EventAuthRejected Event = "auth_rejected"
	// EventAnswerFound: a prior response for today's question exists.
	EventAnswerFound Event = "answer_found"
	// EventNoAnswer: no prior response for today's question.
	EventNoAnswer Event = "no_answer"
	// EventSaved: a response insert committed.
	EventSaved Event = "saved"
	// EventDuplicateSave: the insert hit the one-per-day constraint. The
	// session converges to the same state as a successful save.
	EventDuplicateSave Event = "duplicate_save"
	// EventBoardLoaded: the collective list fetch succeeded.
	EventBoardLoaded Event = "board_loaded"
	// EventBoardUnavailable: the collective list fetch failed; the session
	// stays answered-local pending a deferred retry.
	EventBoardUnavailable Event = "board_unavailable"
	// EventRetry: a manual retry re-enters bootstrapping.
	EventRetry Event = "retry"
)

// Next is the pure transition function: given the current state and an
// observed event it returns the next state. Unknown combinations leave the
// state unchanged, so stray events can never corrupt a session.
func Next(s State, e Event) State {
	if e == EventAuthRejected {
		return AuthDisabled
	}

	switch s {
	case Bootstrapping:
		switch e {
		case EventNoAnswer:
			return Unanswered
		case EventAnswerFound:
			return AnsweredLocal
		}
	case Unanswered:
		switch e {
		case EventSaved, EventDuplicateSave:
			return AnsweredLocal
		}
	case AnsweredLocal:
		switch e {
		case EventBoardLoaded:
			return AnsweredBoardVisible
		case EventBoardUnavailable:
			return AnsweredLocal
		}
	case AnsweredBoardVisible:
		// Terminal for the day; board refreshes do not change state.
	case AuthDisabled:
		if e == EventRetry {
			return Bootstrapping
		}
	}
	return s
}
