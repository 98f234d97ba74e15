package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reaction types offered on the collective board.
const (
	ReactionIdentificado = "identificado"
	ReactionOrando       = "orando"
)

// ValidReactionType reports whether s is a known reaction type.
func ValidReactionType(s string) bool {
	return s == ReactionIdentificado || s == ReactionOrando
}

// Reaction records one act of support on a response. Inserts are
// unconditional: the same user may react with the same type repeatedly and
// every row counts toward the tally.
type Reaction struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	ResponseID string    `gorm:"size:36;not null;index" json:"response_id"`
	UserID     string    `gorm:"size:36;not null" json:"user_id"`
	Type       string    `gorm:"size:16;not null" json:"type"`
	CreatedAt  time.Time `json:"created_at"`
}

func (r *Reaction) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	return nil
}
