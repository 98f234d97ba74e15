package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	mysqldriver "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/perguntaquedoi/api/models"
)

// Store is the persistence adapter for identities, questions, responses and
// reactions. It owns the translation of driver errors into the typed
// taxonomy; nothing above it inspects database error strings.
type Store struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

// New creates a Store. A nil logger falls back to a no-op logger.
func New(db *gorm.DB, log *zap.SugaredLogger) *Store {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Store{db: db, log: log}
}

// EnsureIdentity returns the identity for id, recreating the row when the
// token outlived the database, or provisions a fresh principal when id is
// empty.
func (s *Store) EnsureIdentity(ctx context.Context, id string) (models.Identity, error) {
	if id != "" {
		var existing models.Identity
		err := s.db.WithContext(ctx).First(&existing, "id = ?", id).Error
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Identity{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
	}

	ident := models.Identity{ID: id}
	if err := s.db.WithContext(ctx).Create(&ident).Error; err != nil {
		return models.Identity{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return ident, nil
}

// UpdateIdentityDefaults stores the identity's last-used name and pseudonym.
// Empty values are skipped so answering under one disclosure mode does not
// erase the default saved under another.
func (s *Store) UpdateIdentityDefaults(ctx context.Context, id, name, pseudonym string) {
	updates := map[string]interface{}{}
	if name != "" {
		updates["name"] = name
	}
	if pseudonym != "" {
		updates["pseudonym"] = pseudonym
	}
	if len(updates) == 0 {
		return
	}
	err := s.db.WithContext(ctx).Model(&models.Identity{}).Where("id = ?", id).
		Updates(updates).Error
	if err != nil {
		s.log.Warnf("failed to update identity defaults id=%s: %v", id, err)
	}
}

// QuestionByDate returns the question scheduled for the given YYYY-MM-DD
// date. A miss is reported as gorm.ErrRecordNotFound.
func (s *Store) QuestionByDate(ctx context.Context, date string) (models.Question, error) {
	var q models.Question
	if err := s.db.WithContext(ctx).First(&q, "scheduled_for = ?", date).Error; err != nil {
		return models.Question{}, err
	}
	return q, nil
}

// SaveQuestion persists a question for its scheduled date. A concurrent
// insert for the same date wins silently; the row already there is kept.
func (s *Store) SaveQuestion(ctx context.Context, q models.Question) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&q).Error
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// SaveResponse inserts a response row. The database unique index on
// (user_id, question_id) is the only arbiter of the one-per-day rule; a
// duplicate-key violation comes back as ErrAlreadyAnswered.
func (s *Store) SaveResponse(ctx context.Context, resp models.Response) (models.Response, error) {
	if err := s.db.WithContext(ctx).Create(&resp).Error; err != nil {
		switch {
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return models.Response{}, ErrAlreadyAnswered
		case isPermissionSignature(err):
			s.log.Warnf("response write hit permission signature for user=%s: %v", resp.UserID, err)
			return models.Response{}, ErrBoardPreparing
		default:
			return models.Response{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
	}
	return resp, nil
}

// ResponseFor returns the viewer's own response to a question, or nil.
func (s *Store) ResponseFor(ctx context.Context, userID, questionID string) (*models.Response, error) {
	var resp models.Response
	err := s.db.WithContext(ctx).
		First(&resp, "user_id = ? AND question_id = ?", userID, questionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return &resp, nil
}

// HasAnswered reports whether the user committed a response to the question.
func (s *Store) HasAnswered(ctx context.Context, userID, questionID string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Response{}).
		Where("user_id = ? AND question_id = ?", userID, questionID).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return n > 0, nil
}

// Responses returns the collective board for a question: non-flagged rows,
// newest first, annotated with reaction tallies counted at read time. Board
// access is gated on the viewer having answered; a viewer who has not yet
// answered receives an empty list, which callers treat as a normal
// pre-condition rather than an error.
func (s *Store) Responses(ctx context.Context, questionID, viewerID string) ([]models.Response, error) {
	answered, err := s.HasAnswered(ctx, viewerID, questionID)
	if err != nil {
		return nil, err
	}
	if !answered {
		return []models.Response{}, nil
	}

	var rows []models.Response
	err = s.db.WithContext(ctx).
		Where("question_id = ? AND is_flagged = ?", questionID, false).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if err := s.attachTallies(ctx, rows); err != nil {
		// Tallies degrade to zero rather than hiding the board.
		s.log.Warnf("failed to count reactions for question=%s: %v", questionID, err)
	}
	return rows, nil
}

// UserHistory returns all of the user's responses, newest first, including
// flagged ones (history is private). It degrades to an empty list on failure.
func (s *Store) UserHistory(ctx context.Context, userID string) []models.Response {
	var rows []models.Response
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		s.log.Warnf("failed to load history for user=%s: %v", userID, err)
		return []models.Response{}
	}
	if rows == nil {
		rows = []models.Response{}
	}
	return rows
}

// AddReaction inserts a reaction row unconditionally and reports success.
// There is no uniqueness and no toggle: every insert counts toward the tally.
func (s *Store) AddReaction(ctx context.Context, r models.Reaction) bool {
	if err := s.db.WithContext(ctx).Create(&r).Error; err != nil {
		s.log.Warnf("failed to insert reaction response=%s type=%s: %v", r.ResponseID, r.Type, err)
		return false
	}
	return true
}

// ResponseExists reports whether a response row exists.
func (s *Store) ResponseExists(ctx context.Context, responseID string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Response{}).
		Where("id = ?", responseID).Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return n > 0, nil
}

// FlagResponse marks a response as flagged, removing it from the collective
// board while keeping it in the author's history.
func (s *Store) FlagResponse(ctx context.Context, responseID string) error {
	res := s.db.WithContext(ctx).Model(&models.Response{}).
		Where("id = ?", responseID).
		Update("is_flagged", true)
	if res.Error != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DailyStats returns today's participation counts, each degrading to zero on
// failure so the stats endpoint never errors.
func (s *Store) DailyStats(ctx context.Context, date string) (responses, reactions int64) {
	dayStart := date + " 00:00:00"
	dayEnd := date + " 23:59:59"

	if err := s.db.WithContext(ctx).Model(&models.Response{}).
		Where("created_at BETWEEN ? AND ?", dayStart, dayEnd).
		Count(&responses).Error; err != nil {
		responses = 0
	}
	if err := s.db.WithContext(ctx).Model(&models.Reaction{}).
		Where("created_at BETWEEN ? AND ?", dayStart, dayEnd).
		Count(&reactions).Error; err != nil {
		reactions = 0
	}
	return responses, reactions
}

// VisitCount returns the number of recorded visits for a date, degrading to
// zero on failure or when no row exists yet.
func (s *Store) VisitCount(ctx context.Context, date string) int64 {
	var v models.Visit
	err := s.db.WithContext(ctx).First(&v, "date = ?", date).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Warnf("failed to load visit count for date=%s: %v", date, err)
		}
		return 0
	}
	return v.Count
}

// attachTallies fills the per-type reaction counts for the given responses
// with a single grouped query.
func (s *Store) attachTallies(ctx context.Context, rows []models.Response) error {
	if len(rows) == 0 {
		return nil
	}
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}

	type tallyRow struct {
		ResponseID string
		Type       string
		N          int64
	}
	var tallies []tallyRow
	err := s.db.WithContext(ctx).Model(&models.Reaction{}).
		Select("response_id, type, COUNT(*) AS n").
		Where("response_id IN ?", ids).
		Group("response_id, type").
		Scan(&tallies).Error
	if err != nil {
		return err
	}

	byID := make(map[string]models.ReactionTally, len(rows))
	for _, t := range tallies {
		tally := byID[t.ResponseID]
		switch t.Type {
		case models.ReactionIdentificado:
			tally.Identificado = t.N
		case models.ReactionOrando:
			tally.Orando = t.N
		}
		byID[t.ResponseID] = tally
	}
	for i := range rows {
		rows[i].Reactions = byID[rows[i].ID]
	}
	return nil
}

// isPermissionSignature recognizes the access-denied error signature that
// shows up transiently while grants propagate after schema changes.
func isPermissionSignature(err error) bool {
	var myErr *mysqldriver.MySQLError
	if errors.As(err, &myErr) {
		// ER_TABLEACCESS_DENIED_ERROR / ER_COLUMNACCESS_DENIED_ERROR
		return myErr.Number == 1142 || myErr.Number == 1143
	}
	return strings.Contains(err.Error(), "command denied")
}
