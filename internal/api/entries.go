package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Mrjmbjmb/setlist-manager/internal/setlist"
)

func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + param})
		return 0, false
	}
	return uint(id), true
}

func (s *Server) entryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, setlist.ErrSetlistNotFound),
		errors.Is(err, setlist.ErrSongNotFound),
		errors.Is(err, setlist.ErrEntryNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, setlist.ErrEncoreOnOpener),
		errors.Is(err, setlist.ErrBadDirection):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		slog.Error("Setlist mutation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
	}
}

// AddEntry appends a song to the end of a setlist
func (s *Server) AddEntry(c *gin.Context) {
	setlistID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input struct {
		SongID uint   `json:"song_id" binding:"required"`
		Notes  string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Select a song to add"})
		return
	}

	entry, err := s.svc.AddSong(setlistID, input.SongID, input.Notes)
	if err != nil {
		s.entryError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// RemoveEntry deletes an entry and renumbers the rest of the setlist
func (s *Server) RemoveEntry(c *gin.Context) {
	setlistID, ok := parseID(c, "id")
	if !ok {
		return
	}
	entryID, ok := parseID(c, "entryID")
	if !ok {
		return
	}

	if err := s.svc.RemoveEntry(setlistID, entryID); err != nil {
		s.entryError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Removed song from setlist"})
}

// MoveEntry swaps an entry with its up/down neighbour
func (s *Server) MoveEntry(c *gin.Context) {
	setlistID, ok := parseID(c, "id")
	if !ok {
		return
	}
	entryID, ok := parseID(c, "entryID")
	if !ok {
		return
	}

	var input struct {
		Direction string `json:"direction" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Direction is required"})
		return
	}

	if err := s.svc.MoveEntry(setlistID, entryID, input.Direction); err != nil {
		s.entryError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Moved"})
}

// ToggleEncore flips the encore-break flag on one entry
func (s *Server) ToggleEncore(c *gin.Context) {
	setlistID, ok := parseID(c, "id")
	if !ok {
		return
	}
	entryID, ok := parseID(c, "entryID")
	if !ok {
		return
	}

	starts, err := s.svc.ToggleEncore(setlistID, entryID)
	if err != nil {
		s.entryError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"starts_encore": starts})
}
