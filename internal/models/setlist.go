package models

import (
	"time"
)

// Setlist is an ordered show plan. Duration totals are always computed live
// from the entries; nothing is cached on the row.
type Setlist struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name                  string `json:"name" gorm:"not null"`
	Description           string `json:"description"`
	TargetDurationSeconds *int   `json:"target_duration_seconds"`

	// Show window bounds as "HH:MM" time-of-day. An end earlier than the
	// start means the show crosses midnight.
	ShowStart string `json:"show_start" gorm:"type:varchar(5)"`
	ShowEnd   string `json:"show_end" gorm:"type:varchar(5)"`

	Entries []SetlistEntry `json:"entries" gorm:"constraint:OnDelete:CASCADE"`
}

// SetlistEntry places one song at one position of a setlist.
// Positions are 1-based and kept contiguous by the setlist service after
// every structural change.
type SetlistEntry struct {
	ID        uint `gorm:"primarykey" json:"id"`
	SetlistID uint `json:"setlist_id" gorm:"index;not null"`
	SongID    uint `json:"song_id" gorm:"index;not null"`

	Position     int    `json:"position" gorm:"not null"`
	Notes        string `json:"notes"`
	StartsEncore bool   `json:"starts_encore" gorm:"not null;default:false"`

	// Song is nil when the referenced song has been deleted out from under
	// the entry; readers treat that as zero duration.
	Song *Song `json:"song"`
}
