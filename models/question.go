package models

import "time"

// Question provider tiers. The prefix keeps response uniqueness keys stable
// for a given date even when the persisted question is unavailable.
const (
	QuestionIDGeneratedPrefix = "ai-"
	QuestionIDFallbackPrefix  = "fallback-"
)

// Question is the single reflection question assigned to one calendar date.
// Rows are immutable once created.
type Question struct {
	ID             string    `gorm:"primaryKey;size:64" json:"id"`
	Text           string    `gorm:"type:text;not null" json:"text"`
	ScheduledFor   string    `gorm:"size:10;not null;uniqueIndex" json:"scheduled_for"` // YYYY-MM-DD
	VerseReference string    `gorm:"size:64" json:"verse_reference,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// DateKey returns today's date formatted the way questions are keyed.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
