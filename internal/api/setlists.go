package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Mrjmbjmb/setlist-manager/internal/format"
	"github.com/Mrjmbjmb/setlist-manager/internal/models"
	"github.com/Mrjmbjmb/setlist-manager/internal/setlist"
)

// entryView resolves an entry's song into the display fields the setlist
// page needs. Song stays nil for dangling references.
type entryView struct {
	models.SetlistEntry
	PrintTitle    string `json:"print_title,omitempty"`
	DurationLabel string `json:"duration_label,omitempty"`
}

type setlistView struct {
	models.Setlist
	Entries             []entryView       `json:"entries"`
	TargetDurationLabel string            `json:"target_duration_label"`
	Breakdown           setlist.Breakdown `json:"breakdown"`
}

func (s *Server) newSetlistView(sl models.Setlist) setlistView {
	view := setlistView{
		Setlist:             sl,
		Entries:             make([]entryView, 0, len(sl.Entries)),
		TargetDurationLabel: "-",
		Breakdown:           setlist.Compute(&sl, s.gaps),
	}
	if sl.TargetDurationSeconds != nil {
		view.TargetDurationLabel = format.Duration(*sl.TargetDurationSeconds)
	}
	for _, entry := range sl.Entries {
		ev := entryView{SetlistEntry: entry}
		if entry.Song != nil {
			ev.PrintTitle = entry.Song.PrintTitle()
			ev.DurationLabel = entry.Song.DurationLabel()
		}
		view.Entries = append(view.Entries, ev)
	}
	return view
}

// loadSetlist fetches a setlist with its entries in position order, each
// with its song resolved.
func (s *Server) loadSetlist(id string) (*models.Setlist, error) {
	var sl models.Setlist
	err := s.db.DB.
		Preload("Entries", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Entries.Song").
		First(&sl, id).Error
	if err != nil {
		return nil, err
	}
	return &sl, nil
}

// GetSetlists lists every setlist, newest first, with its live duration
// breakdown.
func (s *Server) GetSetlists(c *gin.Context) {
	var setlists []models.Setlist
	err := s.db.DB.
		Preload("Entries", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Entries.Song").
		Order("created_at DESC").
		Find(&setlists).Error
	if err != nil {
		slog.Error("Failed to fetch setlists", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	views := make([]setlistView, 0, len(setlists))
	for _, sl := range setlists {
		views = append(views, s.newSetlistView(sl))
	}

	c.JSON(http.StatusOK, gin.H{"data": views})
}

// GetSetlist returns one setlist with entries and the computed breakdown
func (s *Server) GetSetlist(c *gin.Context) {
	sl, err := s.loadSetlist(c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Setlist not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, s.newSetlistView(*sl))
}

type setlistInput struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	TargetDuration string `json:"target_duration"` // "mm:ss" or decimal minutes, empty = none
	ShowStart      string `json:"show_start"`      // "HH:MM", empty = unset
	ShowEnd        string `json:"show_end"`
	Action         string `json:"action"` // "create" (default) or "generate"
}

func (in *setlistInput) apply(sl *models.Setlist) (string, bool) {
	if in.Name != "" {
		sl.Name = in.Name
	}
	sl.Description = in.Description

	if in.TargetDuration == "" {
		sl.TargetDurationSeconds = nil
	} else {
		seconds, err := format.ParseDuration(in.TargetDuration)
		if err != nil || seconds <= 0 {
			return "Invalid target duration (format mm:ss or minutes)", false
		}
		sl.TargetDurationSeconds = &seconds
	}

	for _, bound := range []string{in.ShowStart, in.ShowEnd} {
		if bound == "" {
			continue
		}
		if _, err := time.Parse("15:04", bound); err != nil {
			return "Show times must be HH:MM", false
		}
	}
	sl.ShowStart = in.ShowStart
	sl.ShowEnd = in.ShowEnd

	return "", true
}

// CreateSetlist creates a setlist, optionally pre-populated by the
// generator when action is "generate".
func (s *Server) CreateSetlist(c *gin.Context) {
	var input setlistInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Setlist name is required"})
		return
	}

	var sl models.Setlist
	if msg, ok := input.apply(&sl); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	if input.Action == "generate" {
		if err := s.svc.CreateGenerated(&sl); err != nil {
			if errors.Is(err, setlist.ErrEmptyCatalog) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Add some songs before generating a setlist"})
				return
			}
			slog.Error("Failed to generate setlist", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate setlist"})
			return
		}
	} else if err := s.db.DB.Create(&sl).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create setlist"})
		return
	}

	created, err := s.loadSetlist(strconv.FormatUint(uint64(sl.ID), 10))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusCreated, s.newSetlistView(*created))
}

// UpdateSetlist edits name, description, target and show window.
func (s *Server) UpdateSetlist(c *gin.Context) {
	var sl models.Setlist
	if err := s.db.DB.First(&sl, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Setlist not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	var input setlistInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if msg, ok := input.apply(&sl); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	if err := s.db.DB.Save(&sl).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update setlist"})
		return
	}

	updated, err := s.loadSetlist(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, s.newSetlistView(*updated))
}

// DeleteSetlist removes a setlist and its entries
func (s *Server) DeleteSetlist(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid setlist ID"})
		return
	}

	if err := s.svc.DeleteSetlist(uint(id)); err != nil {
		if errors.Is(err, setlist.ErrSetlistNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Setlist not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete setlist"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Setlist deleted"})
}

// RegenerateSetlist rebuilds the song sequence from the full catalog
// against the stored target duration.
func (s *Server) RegenerateSetlist(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid setlist ID"})
		return
	}

	placed, err := s.svc.Regenerate(uint(id))
	if err != nil {
		if errors.Is(err, setlist.ErrSetlistNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Setlist not found"})
			return
		}
		slog.Error("Failed to regenerate setlist", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to regenerate setlist"})
		return
	}

	sl, err := s.loadSetlist(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Setlist regenerated",
		"songs_placed": placed,
		"setlist":      s.newSetlistView(*sl),
	})
}
