package models

import (
	"strings"
	"time"

	"github.com/Mrjmbjmb/setlist-manager/internal/format"
)

// Song represents a playable track in the catalog
type Song struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Core Metadata
	Title  string `json:"title" gorm:"not null;index"`
	Artist string `json:"artist" gorm:"not null;index"`
	Alias  string `json:"alias"` // Display override for printed setlists

	DurationSeconds int    `json:"duration_seconds" gorm:"not null"`
	Genre           string `json:"genre" gorm:"index"`
	Energy          *int   `json:"energy"`

	// Tag vocabulary (fixed; see TagDefinitions)
	IsMultitrack bool `json:"is_multitrack" gorm:"not null;default:false"`
	IsCover      bool `json:"is_cover" gorm:"not null;default:false"`
	IsVocalsOnly bool `json:"is_vocals_only" gorm:"not null;default:false"`
}

// TagDefinition binds a tag code to its display label and storage field.
type TagDefinition struct {
	Code  string
	Label string
	Field func(*Song) *bool
}

// TagDefinitions is the full tag vocabulary. Iterated explicitly wherever
// tags are read or written; adding a tag means adding a column and one row
// here.
var TagDefinitions = []TagDefinition{
	{Code: "M", Label: "Multitrack", Field: func(s *Song) *bool { return &s.IsMultitrack }},
	{Code: "CVR", Label: "Cover", Field: func(s *Song) *bool { return &s.IsCover }},
	{Code: "VO", Label: "Vocals Only", Field: func(s *Song) *bool { return &s.IsVocalsOnly }},
}

// SetTag sets the tag matching the given code or label (case-insensitive).
// Unknown tags report false so importers can count them as skipped.
func (s *Song) SetTag(name string, on bool) bool {
	for _, def := range TagDefinitions {
		if strings.EqualFold(name, def.Code) || strings.EqualFold(name, def.Label) {
			*def.Field(s) = on
			return true
		}
	}
	return false
}

// TagCodes returns the short codes of every set tag, in vocabulary order.
func (s *Song) TagCodes() []string {
	var codes []string
	for _, def := range TagDefinitions {
		if *def.Field(s) {
			codes = append(codes, def.Code)
		}
	}
	return codes
}

// TagLabels returns the display labels of every set tag.
func (s *Song) TagLabels() []string {
	var labels []string
	for _, def := range TagDefinitions {
		if *def.Field(s) {
			labels = append(labels, def.Label)
		}
	}
	return labels
}

func (s *Song) TagSummary() string {
	return strings.Join(s.TagCodes(), ", ")
}

// PrintTitle is the name to put on a printed setlist.
func (s *Song) PrintTitle() string {
	if s.Alias != "" {
		return s.Alias
	}
	return s.Title
}

func (s *Song) DurationLabel() string {
	return format.Duration(s.DurationSeconds)
}
