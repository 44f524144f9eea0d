package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Mrjmbjmb/setlist-manager/internal/format"
	"github.com/Mrjmbjmb/setlist-manager/internal/models"
	"github.com/Mrjmbjmb/setlist-manager/internal/setlist"
)

// LibrarySong is the lightweight row shape for catalog listings.
// It prevents shipping every column for hundreds of rows.
type LibrarySong struct {
	ID              uint   `json:"id"`
	Title           string `json:"title"`
	Artist          string `json:"artist"`
	DurationSeconds int    `json:"duration_seconds"`
	Genre           string `json:"genre"`
}

// songView is the full single-song payload including the derived display
// fields the model computes.
type songView struct {
	models.Song
	DurationLabel string   `json:"duration_label"`
	PrintTitle    string   `json:"print_title"`
	TagCodes      []string `json:"tag_codes"`
	TagLabels     []string `json:"tag_labels"`
	TagSummary    string   `json:"tag_summary"`
}

func newSongView(song models.Song) songView {
	return songView{
		Song:          song,
		DurationLabel: song.DurationLabel(),
		PrintTitle:    song.PrintTitle(),
		TagCodes:      song.TagCodes(),
		TagLabels:     song.TagLabels(),
		TagSummary:    song.TagSummary(),
	}
}

// GetSongs returns a paginated, lightweight list of catalog songs
// Query Params: limit (default 100), offset, search, sort
func (s *Server) GetSongs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	search := c.Query("search")
	sortBy := c.DefaultQuery("sort", "alphabetical")

	if limit > 200 {
		limit = 200 // Hard cap to protect the server
	}

	query := s.db.DB.Model(&models.Song{})

	if search != "" {
		searchTerm := "%" + search + "%"
		query = query.Where("artist LIKE ? OR title LIKE ?", searchTerm, searchTerm)
	}

	var total int64
	query.Count(&total)

	switch sortBy {
	case "duration":
		query = query.Order("duration_seconds DESC")
	case "newest":
		query = query.Order("id DESC")
	default: // "alphabetical"
		query = query.Order("title ASC")
	}

	var songs []LibrarySong
	result := query.Select("id, title, artist, duration_seconds, genre").
		Limit(limit).
		Offset(offset).
		Find(&songs)

	if result.Error != nil {
		slog.Error("Failed to fetch songs", "error", result.Error)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": songs,
		"meta": gin.H{
			"total":  total,
			"limit":  limit,
			"offset": offset,
		},
	})
}

// GetSong returns the full metadata for a single song
func (s *Server) GetSong(c *gin.Context) {
	id := c.Param("id")

	var song models.Song
	if err := s.db.DB.First(&song, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Song not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, newSongView(song))
}

type songInput struct {
	Title    string   `json:"title"`
	Artist   string   `json:"artist"`
	Alias    string   `json:"alias"`
	Duration string   `json:"duration"` // "mm:ss" or decimal minutes
	Genre    string   `json:"genre"`
	Energy   *int     `json:"energy"`
	Tags     []string `json:"tags"`
}

// CreateSong adds one song to the catalog
func (s *Server) CreateSong(c *gin.Context) {
	var input songInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Title == "" || input.Artist == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title and artist are required"})
		return
	}

	durationSeconds, err := format.ParseDuration(input.Duration)
	if err != nil || durationSeconds <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Duration is required (format mm:ss or minutes)"})
		return
	}

	song := models.Song{
		Title:           input.Title,
		Artist:          input.Artist,
		Alias:           input.Alias,
		DurationSeconds: durationSeconds,
		Genre:           input.Genre,
		Energy:          input.Energy,
	}
	for _, name := range input.Tags {
		if !song.SetTag(name, true) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown tag: " + name})
			return
		}
	}

	if err := s.db.DB.Create(&song).Error; err != nil {
		slog.Error("Failed to create song", "title", song.Title, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create song"})
		return
	}

	c.JSON(http.StatusCreated, newSongView(song))
}

// UpdateSong edits catalog metadata. Alias, genre, energy and tags are
// always overwritten so users can clear them; title/artist/duration only
// change when provided.
func (s *Server) UpdateSong(c *gin.Context) {
	id := c.Param("id")

	var song models.Song
	if err := s.db.DB.First(&song, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Song not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	var input songInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Title != "" {
		song.Title = input.Title
	}
	if input.Artist != "" {
		song.Artist = input.Artist
	}
	if input.Duration != "" {
		durationSeconds, err := format.ParseDuration(input.Duration)
		if err != nil || durationSeconds <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid duration (format mm:ss or minutes)"})
			return
		}
		song.DurationSeconds = durationSeconds
	}
	song.Alias = input.Alias
	song.Genre = input.Genre
	song.Energy = input.Energy

	for _, def := range models.TagDefinitions {
		*def.Field(&song) = false
	}
	for _, name := range input.Tags {
		if !song.SetTag(name, true) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown tag: " + name})
			return
		}
	}

	if err := s.db.DB.Save(&song).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update song"})
		return
	}

	c.JSON(http.StatusOK, newSongView(song))
}

// DeleteSong removes a song, drops its setlist memberships and renumbers
// every setlist that referenced it
func (s *Server) DeleteSong(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid song ID"})
		return
	}

	song, err := s.svc.DeleteSong(uint(id))
	if err != nil {
		if errors.Is(err, setlist.ErrSongNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Song not found"})
			return
		}
		slog.Error("Failed to delete song", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete song"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Removed \"" + song.Title + "\""})
}

// ImportSongs ingests a CSV upload into the catalog. Malformed rows are
// skipped and reported, never fatal.
func (s *Server) ImportSongs(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to open file"})
		return
	}
	defer file.Close()

	report, err := s.csvImporter.Import(c.Request.Context(), file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	slog.Info("CSV import finished",
		"filename", fileHeader.Filename,
		"imported", report.Imported,
		"skipped", report.Skipped)

	c.JSON(http.StatusOK, report)
}
