package api

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Mrjmbjmb/setlist-manager/internal/config"
	database "github.com/Mrjmbjmb/setlist-manager/internal/db"
	"github.com/Mrjmbjmb/setlist-manager/internal/importer"
	"github.com/Mrjmbjmb/setlist-manager/internal/setlist"
)

type Server struct {
	cfg         *config.Config
	db          *database.Client
	svc         *setlist.Service
	csvImporter *importer.CSVImporter
	gaps        setlist.Gaps
	router      *gin.Engine
}

func New(cfg *config.Config, db *database.Client, svc *setlist.Service) *Server {
	if cfg.Server.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		cfg:         cfg,
		db:          db,
		svc:         svc,
		csvImporter: importer.NewCSVImporter(db.DB),
		gaps: setlist.Gaps{
			BetweenSongSeconds: cfg.Timing.BetweenSongSeconds,
			EncoreBreakSeconds: cfg.Timing.EncoreBreakSeconds,
		},
		router: gin.Default(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	// CORS Configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type"}

	s.router.Use(cors.New(corsConfig))
}

func (s *Server) setupRoutes() {
	// Health Check
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "setlist-manager"})
	})

	// API Group
	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/songs", s.GetSongs)
		v1.POST("/songs", s.CreateSong)
		v1.GET("/songs/:id", s.GetSong)
		v1.PUT("/songs/:id", s.UpdateSong)
		v1.DELETE("/songs/:id", s.DeleteSong)
		v1.POST("/import/songs", s.ImportSongs)

		v1.GET("/setlists", s.GetSetlists)
		v1.POST("/setlists", s.CreateSetlist)
		v1.GET("/setlists/:id", s.GetSetlist)
		v1.PUT("/setlists/:id", s.UpdateSetlist)
		v1.DELETE("/setlists/:id", s.DeleteSetlist)
		v1.POST("/setlists/:id/regenerate", s.RegenerateSetlist)

		v1.POST("/setlists/:id/entries", s.AddEntry)
		v1.DELETE("/setlists/:id/entries/:entryID", s.RemoveEntry)
		v1.POST("/setlists/:id/entries/:entryID/move", s.MoveEntry)
		v1.POST("/setlists/:id/entries/:entryID/encore", s.ToggleEncore)

		v1.GET("/stats", s.GetStats)
	}
}

// Start runs the server on the configured port
func (s *Server) Start(addr string) error {
	return s.router.Run(addr)
}

// Router exposes the underlying engine for tests.
func (s *Server) Router() http.Handler {
	return s.router
}
