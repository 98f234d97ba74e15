package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Identity disclosure levels a user can pick per response.
const (
	DisplayModeRealName  = "real_name"
	DisplayModePseudonym = "pseudonym"
	DisplayModeAnonymous = "anonymous"
)

// ValidDisplayMode reports whether s is one of the known disclosure levels.
func ValidDisplayMode(s string) bool {
	return s == DisplayModeRealName || s == DisplayModePseudonym || s == DisplayModeAnonymous
}

// ReactionTally holds per-type reaction counts computed at read time.
type ReactionTally struct {
	Identificado int64 `json:"identificado"`
	Orando       int64 `json:"orando"`
}

// Response is a user's answer to one day's question. The composite unique
// index enforces at most one response per (user, question) pair; the store
// relies on the database constraint, never on a client-side check.
type Response struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	QuestionID    string    `gorm:"size:64;not null;uniqueIndex:uidx_responses_user_question,priority:2" json:"question_id"`
	UserID        string    `gorm:"size:36;not null;uniqueIndex:uidx_responses_user_question,priority:1;index" json:"user_id"`
	Content       string    `gorm:"type:text;not null" json:"content"`
	DisplayMode   string    `gorm:"size:16;not null;default:'anonymous'" json:"display_mode"`
	UserName      string    `gorm:"size:64" json:"user_name,omitempty"`
	UserPseudonym string    `gorm:"size:64" json:"user_pseudonym,omitempty"`
	IsFlagged     bool      `gorm:"not null;default:false" json:"is_flagged"`
	CreatedAt     time.Time `json:"created_at"`

	Reactions ReactionTally `gorm:"-" json:"reactions"`
}

// BeforeCreate assigns the row ID and creation time when not provided.
func (r *Response) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	return nil
}
