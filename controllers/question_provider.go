package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/perguntaquedoi/api/models"
	"github.com/perguntaquedoi/api/store"
	"github.com/perguntaquedoi/api/utils"
)

// Hardcoded last-resort question, used when both the store and the
// generator are unavailable. The date-namespaced ID keeps the response
// uniqueness key stable across degraded sessions.
const (
	fallbackQuestionText  = "O que você anda fingindo que não sente?"
	fallbackQuestionVerse = "Salmos 139:23"
)

// generator is the external question-generation collaborator.
type generator interface {
	GenerateQuestion(ctx context.Context, date string) (models.Question, error)
}

// QuestionProvider resolves today's question through three tiers: the
// persisted schedule, the AI generator, and a hardcoded constant. It never
// fails; each tier's failure is swallowed and logged.
type QuestionProvider struct {
	store *store.Store
	gen   generator
	log   *zap.SugaredLogger
}

// NewQuestionProvider creates a provider. gen may be nil, in which case the
// generated tier is skipped.
func NewQuestionProvider(st *store.Store, gen generator, log *zap.SugaredLogger) *QuestionProvider {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &QuestionProvider{store: st, gen: gen, log: log}
}

// TodayQuestion always returns a renderable question for the current date.
func (p *QuestionProvider) TodayQuestion(ctx context.Context) models.Question {
	date := models.DateKey(time.Now())
	cacheKey := "cache:question:today:" + date

	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		var q models.Question
		if err := json.Unmarshal(b, &q); err == nil {
			return q
		}
	}

	q, err := p.store.QuestionByDate(ctx, date)
	if err == nil {
		utils.CacheSetJSON(cacheKey, q, 15*time.Minute)
		return q
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		p.log.Warnf("question lookup failed for %s: %v", date, err)
	}

	if p.gen != nil {
		q, err := p.gen.GenerateQuestion(ctx, date)
		if err == nil {
			// Persist so the generated question survives restarts and the
			// date stays bound to one question ID.
			if err := p.store.SaveQuestion(ctx, q); err != nil {
				p.log.Warnf("failed to persist generated question for %s: %v", date, err)
			}
			utils.CacheSetJSON(cacheKey, q, 15*time.Minute)
			return q
		}
		p.log.Warnf("question generation failed for %s: %v", date, err)
	}

	// The fallback is not cached so a recovered store or generator takes
	// over on the next request.
	return FallbackQuestion(date)
}

// FallbackQuestion builds the hardcoded tier-three question for a date.
func FallbackQuestion(date string) models.Question {
	return models.Question{
		ID:             models.QuestionIDFallbackPrefix + date,
		Text:           fallbackQuestionText,
		ScheduledFor:   date,
		VerseReference: fallbackQuestionVerse,
	}
}
