package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/Mrjmbjmb/setlist-manager/internal/api"
	"github.com/Mrjmbjmb/setlist-manager/internal/config"
	database "github.com/Mrjmbjmb/setlist-manager/internal/db"
	"github.com/Mrjmbjmb/setlist-manager/internal/importer"
	"github.com/Mrjmbjmb/setlist-manager/internal/setlist"
)

var dbPath string

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	rootCmd := &cobra.Command{
		Use:   "setlistd",
		Short: "Music library and live-show setlist planner",
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (overrides SETLIST_DATABASE_PATH)")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(scanCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func openDatabase(cfg *config.Config) (*database.Client, error) {
	path := cfg.Database.Path
	if dbPath != "" {
		path = dbPath
	}

	db, err := database.New(path)
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(); err != nil {
		return nil, err
	}
	return db, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Println("Starting Setlist Manager API Server...")

			cfg := config.Load()

			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}

			setlist.RegisterMetrics()
			importer.RegisterMetrics()
			go func() {
				http.Handle("/metrics", promhttp.Handler())
				log.Printf("📊 Metrics exposed at http://localhost%s/metrics", cfg.Server.MetricsPort)
				if err := http.ListenAndServe(cfg.Server.MetricsPort, nil); err != nil {
					log.Printf("⚠️ Metrics server error: %v", err)
				}
			}()

			svc := setlist.NewService(db.DB)
			srv := api.New(cfg, db, svc)

			log.Printf("🚀 API Server starting on %s", cfg.Server.Port)
			return srv.Start(cfg.Server.Port)
		},
	}
}

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import catalog songs from a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()

			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			report, err := importer.NewCSVImporter(db.DB).Import(context.Background(), f)
			if err != nil {
				return err
			}

			return printReport(report)
		},
	}
}

func scanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan <dir>",
		Short: "Import catalog songs from a directory of audio files",
		Long:  "Walks a directory, reading title/artist/genre from embedded tags and playback length via ffprobe.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()

			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}

			report, err := importer.NewAudioScanner(db.DB).Scan(context.Background(), args[0])
			if err != nil {
				return err
			}

			return printReport(report)
		},
	}
}

func printReport(report *importer.Report) error {
	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
