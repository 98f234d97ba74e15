package lifecycle

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/perguntaquedoi/api/models"
	"github.com/perguntaquedoi/api/store"
)

// IdentitySource establishes the anonymous principal for a session.
type IdentitySource interface {
	EnsureIdentity(ctx context.Context) (models.Identity, error)
}

// QuestionSource resolves today's question. Implementations never fail; they
// degrade through generation to a hardcoded fallback.
type QuestionSource interface {
	TodayQuestion(ctx context.Context) models.Question
}

// HistorySource loads a user's private response history.
type HistorySource interface {
	UserHistory(ctx context.Context, userID string) []models.Response
}

// BoardSource loads the collective board for a question.
type BoardSource interface {
	Responses(ctx context.Context, questionID, viewerID string) ([]models.Response, error)
}

// RetryPolicy governs the deferred board refresh after answering: a bounded
// number of delayed attempts, cancelled with the caller's context. The
// observed product behavior is a single retry after 800ms.
type RetryPolicy struct {
	Attempts int
	Delay    time.Duration
}

// DefaultRetryPolicy matches observed behavior.
var DefaultRetryPolicy = RetryPolicy{Attempts: 1, Delay: 800 * time.Millisecond}

// Snapshot is the composite result of running the lifecycle once: everything
// a thin client needs to render without further round trips.
type Snapshot struct {
	State       State             `json:"state"`
	Identity    models.Identity   `json:"identity"`
	Question    models.Question   `json:"question"`
	Answered    bool              `json:"answered"`
	OwnResponse *models.Response  `json:"own_response,omitempty"`
	History     []models.Response `json:"history"`
	Board       []models.Response `json:"board"`
}

// Runner sequences the lifecycle's asynchronous store calls. It issues no
// overlapping writes; every step suspends on a single network call.
type Runner struct {
	Identity IdentitySource
	Question QuestionSource
	History  HistorySource
	Board    BoardSource
	Retry    RetryPolicy
	Log      *zap.SugaredLogger
}

// Bootstrap runs the full flow: identity, then question, then history, then
// the board when a prior answer exists. When provisioning is rejected as a
// configuration problem no further calls are attempted.
func (r *Runner) Bootstrap(ctx context.Context) (Snapshot, error) {
	snap := Snapshot{State: Bootstrapping, History: []models.Response{}, Board: []models.Response{}}

	ident, err := r.Identity.EnsureIdentity(ctx)
	if err != nil {
		if errors.Is(err, store.ErrAuthDisabled) {
			snap.State = Next(snap.State, EventAuthRejected)
			return snap, nil
		}
		return snap, err
	}
	snap.Identity = ident

	return r.Resume(ctx, ident)
}

// Resume runs the post-identity portion for an already established identity.
func (r *Runner) Resume(ctx context.Context, ident models.Identity) (Snapshot, error) {
	snap := Snapshot{
		State:    Bootstrapping,
		Identity: ident,
		History:  []models.Response{},
		Board:    []models.Response{},
	}

	snap.Question = r.Question.TodayQuestion(ctx)
	snap.History = r.History.UserHistory(ctx, ident.ID)

	for i := range snap.History {
		if snap.History[i].QuestionID == snap.Question.ID {
			snap.OwnResponse = &snap.History[i]
			break
		}
	}

	if snap.OwnResponse == nil {
		snap.State = Next(snap.State, EventNoAnswer)
		return snap, nil
	}

	snap.Answered = true
	snap.State = Next(snap.State, EventAnswerFound)

	board, ok := r.BoardWithRetry(ctx, snap.Question.ID, ident.ID)
	if ok {
		snap.Board = board
		snap.State = Next(snap.State, EventBoardLoaded)
	} else {
		snap.State = Next(snap.State, EventBoardUnavailable)
	}
	return snap, nil
}

// BoardWithRetry fetches the collective board, retrying per the policy. The
// delay is cancellable: when ctx ends, the remaining attempts are abandoned
// and the caller stays in the answered-local state.
func (r *Runner) BoardWithRetry(ctx context.Context, questionID, viewerID string) ([]models.Response, bool) {
	for attempt := 0; ; attempt++ {
		board, err := r.Board.Responses(ctx, questionID, viewerID)
		if err == nil {
			return board, true
		}
		if r.Log != nil {
			r.Log.Warnf("board fetch failed (attempt %d) question=%s: %v", attempt+1, questionID, err)
		}
		if attempt >= r.Retry.Attempts {
			return nil, false
		}
		select {
		case <-ctx.Done():
			return nil, false
		case <-time.After(r.Retry.Delay):
		}
	}
}
