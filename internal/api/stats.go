package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Mrjmbjmb/setlist-manager/internal/format"
	"github.com/Mrjmbjmb/setlist-manager/internal/models"
)

// GetStats aggregates library data for the dashboard
func (s *Server) GetStats(c *gin.Context) {
	var stats struct {
		TotalSongs     int64  `json:"total_songs"`
		TotalSetlists  int64  `json:"total_setlists"`
		UniqueArtists  int64  `json:"unique_artists"`
		CatalogSeconds int64  `json:"catalog_seconds"`
		CatalogLabel   string `json:"catalog_label"`
	}

	s.db.DB.Model(&models.Song{}).Count(&stats.TotalSongs)
	s.db.DB.Model(&models.Setlist{}).Count(&stats.TotalSetlists)
	s.db.DB.Model(&models.Song{}).Distinct("artist").Count(&stats.UniqueArtists)
	s.db.DB.Model(&models.Song{}).Select("COALESCE(SUM(duration_seconds), 0)").Scan(&stats.CatalogSeconds)
	stats.CatalogLabel = format.Duration(int(stats.CatalogSeconds))

	// Recent additions for the dashboard sidebar
	var recentSongs []LibrarySong
	if err := s.db.DB.Model(&models.Song{}).
		Select("id, title, artist, duration_seconds, genre").
		Order("id DESC").
		Limit(5).
		Find(&recentSongs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recent songs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats":        stats,
		"recent_songs": recentSongs,
	})
}
