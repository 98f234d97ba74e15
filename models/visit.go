package models

import "time"

// Visit stores an aggregated visit counter per day, feeding the public
// participation stats.
type Visit struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Date      string    `gorm:"size:10;not null;uniqueIndex" json:"date"` // YYYY-MM-DD
	Count     int64     `gorm:"not null;default:0" json:"count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
