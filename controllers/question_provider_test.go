package controllers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perguntaquedoi/api/models"
)

type fakeGenerator struct {
	q     models.Question
	err   error
	calls int
}

func (f *fakeGenerator) GenerateQuestion(ctx context.Context, date string) (models.Question, error) {
	f.calls++
	return f.q, f.err
}

func TestTodayQuestionUsesScheduledRow(t *testing.T) {
	st := newTestStore(t)
	date := models.DateKey(time.Now())

	q := models.Question{ID: "manual-1", Text: "Pergunta do dia", ScheduledFor: date}
	require.NoError(t, st.SaveQuestion(context.Background(), q))

	gen := &fakeGenerator{err: errors.New("must not be called")}
	p := NewQuestionProvider(st, gen, nil)

	got := p.TodayQuestion(context.Background())
	assert.Equal(t, "manual-1", got.ID)
	assert.Equal(t, "Pergunta do dia", got.Text)
	assert.Zero(t, gen.calls)
}

func TestTodayQuestionFallsBackToGenerator(t *testing.T) {
	st := newTestStore(t)
	date := models.DateKey(time.Now())

	gen := &fakeGenerator{q: models.Question{
		ID:           models.QuestionIDGeneratedPrefix + date,
		Text:         "Gerada",
		ScheduledFor: date,
	}}
	p := NewQuestionProvider(st, gen, nil)

	got := p.TodayQuestion(context.Background())
	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, "Gerada", got.Text)
	assert.Equal(t, models.QuestionIDGeneratedPrefix+date, got.ID)

	// Generated questions are persisted so the date stays bound to one ID.
	persisted, err := st.QuestionByDate(context.Background(), date)
	require.NoError(t, err)
	assert.Equal(t, models.QuestionIDGeneratedPrefix+date, persisted.ID)
}

func TestTodayQuestionLastResortFallback(t *testing.T) {
	st := newTestStore(t)
	date := models.DateKey(time.Now())

	gen := &fakeGenerator{err: errors.New("generator down")}
	p := NewQuestionProvider(st, gen, nil)

	got := p.TodayQuestion(context.Background())
	assert.Equal(t, models.QuestionIDFallbackPrefix+date, got.ID)
	assert.Equal(t, fallbackQuestionText, got.Text)
	assert.Equal(t, fallbackQuestionVerse, got.VerseReference)
}

func TestTodayQuestionFallbackWithoutGenerator(t *testing.T) {
	st := newTestStore(t)
	date := models.DateKey(time.Now())

	p := NewQuestionProvider(st, nil, nil)

	got := p.TodayQuestion(context.Background())
	assert.Equal(t, models.QuestionIDFallbackPrefix+date, got.ID)
}

func TestFallbackQuestionShape(t *testing.T) {
	q := FallbackQuestion("2026-09-01")
	assert.Equal(t, "fallback-2026-09-01", q.ID)
	assert.Equal(t, "2026-09-01", q.ScheduledFor)
	assert.NotEmpty(t, q.Text)
	assert.NotEmpty(t, q.VerseReference)
}
