package lifecycle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perguntaquedoi/api/models"
	"github.com/perguntaquedoi/api/store"
)

type fakeIdentity struct {
	ident models.Identity
	err   error
	calls int
}

func (f *fakeIdentity) EnsureIdentity(ctx context.Context) (models.Identity, error) {
	f.calls++
	return f.ident, f.err
}

type fakeQuestion struct {
	q     models.Question
	calls int
}

func (f *fakeQuestion) TodayQuestion(ctx context.Context) models.Question {
	f.calls++
	return f.q
}

type fakeHistory struct {
	rows []models.Response
}

func (f *fakeHistory) UserHistory(ctx context.Context, userID string) []models.Response {
	return f.rows
}

type fakeBoard struct {
	rows  []models.Response
	errs  []error
	calls int
}

func (f *fakeBoard) Responses(ctx context.Context, questionID, viewerID string) ([]models.Response, error) {
	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	return f.rows, nil
}

func newRunner(ident *fakeIdentity, q *fakeQuestion, h *fakeHistory, b *fakeBoard) *Runner {
	return &Runner{
		Identity: ident,
		Question: q,
		History:  h,
		Board:    b,
		Retry:    RetryPolicy{Attempts: 1, Delay: time.Millisecond},
	}
}

func TestBootstrapAuthDisabledStopsEarly(t *testing.T) {
	ident := &fakeIdentity{err: store.ErrAuthDisabled}
	q := &fakeQuestion{}
	b := &fakeBoard{}
	r := newRunner(ident, q, &fakeHistory{}, b)

	snap, err := r.Bootstrap(context.Background())

	require.NoError(t, err)
	assert.Equal(t, AuthDisabled, snap.State)
	assert.Zero(t, q.calls, "no further calls after auth rejection")
	assert.Zero(t, b.calls)
}

func TestBootstrapUnansweredSkipsBoard(t *testing.T) {
	ident := &fakeIdentity{ident: models.Identity{ID: "u1"}}
	q := &fakeQuestion{q: models.Question{ID: "q1"}}
	b := &fakeBoard{}
	r := newRunner(ident, q, &fakeHistory{}, b)

	snap, err := r.Bootstrap(context.Background())

	require.NoError(t, err)
	assert.Equal(t, Unanswered, snap.State)
	assert.False(t, snap.Answered)
	assert.Nil(t, snap.OwnResponse)
	assert.Zero(t, b.calls, "board is gated until the user answers")
}

func TestResumeAnsweredLoadsBoard(t *testing.T) {
	own := models.Response{ID: "r1", QuestionID: "q1", UserID: "u1", Content: "anotado"}
	ident := &fakeIdentity{ident: models.Identity{ID: "u1"}}
	q := &fakeQuestion{q: models.Question{ID: "q1"}}
	h := &fakeHistory{rows: []models.Response{own}}
	b := &fakeBoard{rows: []models.Response{own, {ID: "r2"}}}
	r := newRunner(ident, q, h, b)

	snap, err := r.Resume(context.Background(), ident.ident)

	require.NoError(t, err)
	assert.Equal(t, AnsweredBoardVisible, snap.State)
	assert.True(t, snap.Answered)
	require.NotNil(t, snap.OwnResponse)
	assert.Equal(t, "r1", snap.OwnResponse.ID)
	assert.Len(t, snap.Board, 2)
}

func TestResumeBoardFailureStaysAnsweredLocal(t *testing.T) {
	own := models.Response{ID: "r1", QuestionID: "q1", UserID: "u1"}
	ident := &fakeIdentity{ident: models.Identity{ID: "u1"}}
	q := &fakeQuestion{q: models.Question{ID: "q1"}}
	boom := errors.New("boom")
	b := &fakeBoard{errs: []error{boom, boom}}
	r := newRunner(ident, q, &fakeHistory{rows: []models.Response{own}}, b)

	snap, err := r.Resume(context.Background(), ident.ident)

	require.NoError(t, err)
	assert.Equal(t, AnsweredLocal, snap.State)
	assert.True(t, snap.Answered)
	assert.Empty(t, snap.Board)
	assert.Equal(t, 2, b.calls, "one retry after the initial attempt")
}

func TestBoardWithRetryRecoversOnSecondAttempt(t *testing.T) {
	b := &fakeBoard{rows: []models.Response{{ID: "r2"}}, errs: []error{errors.New("transient")}}
	r := newRunner(&fakeIdentity{}, &fakeQuestion{}, &fakeHistory{}, b)

	rows, ok := r.BoardWithRetry(context.Background(), "q1", "u1")

	assert.True(t, ok)
	assert.Len(t, rows, 1)
	assert.Equal(t, 2, b.calls)
}

func TestBoardWithRetryHonorsContextCancellation(t *testing.T) {
	boom := errors.New("boom")
	b := &fakeBoard{errs: []error{boom, boom, boom}}
	r := newRunner(&fakeIdentity{}, &fakeQuestion{}, &fakeHistory{}, b)
	r.Retry = RetryPolicy{Attempts: 2, Delay: time.Hour}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	_, ok := r.BoardWithRetry(ctx, "q1", "u1")

	assert.False(t, ok)
	assert.Equal(t, 1, b.calls, "remaining attempts abandoned when ctx ends")
	assert.Less(t, time.Since(start), time.Second)
}
