package importer

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
	"gorm.io/gorm"

	"github.com/Mrjmbjmb/setlist-manager/internal/audio"
	"github.com/Mrjmbjmb/setlist-manager/internal/models"
	"github.com/Mrjmbjmb/setlist-manager/internal/utils"
)

// AudioScanner walks a directory of audio files and imports one catalog song
// per file, reading title/artist/genre from the embedded tags and the
// playback length via ffprobe.
type AudioScanner struct {
	db *gorm.DB

	// probe is swappable so tests don't need ffprobe on PATH.
	probe func(path string) (int, error)
}

func NewAudioScanner(db *gorm.DB) *AudioScanner {
	return &AudioScanner{db: db, probe: audio.ProbeDuration}
}

func (s *AudioScanner) Scan(ctx context.Context, dir string) (*Report, error) {
	report := &Report{}
	line := 0

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if d.IsDir() || !audio.IsSupportedFormat(d.Name()) {
			return nil
		}

		line++
		song, reason := s.readFile(path)
		if song == nil {
			report.skip(line, fmt.Sprintf("%s: %s", d.Name(), reason))
			imports.WithLabelValues("skipped").Inc()
			return nil
		}

		if err := s.db.Create(song).Error; err != nil {
			report.skip(line, fmt.Sprintf("%s: database error", d.Name()))
			imports.WithLabelValues("skipped").Inc()
			return nil
		}

		report.Imported++
		imports.WithLabelValues("imported").Inc()
		return nil
	})
	if err != nil {
		return report, err
	}

	log.Printf("Scan of '%s' complete: %d imported, %d skipped", dir, report.Imported, report.Skipped)
	return report, nil
}

func (s *AudioScanner) readFile(path string) (*models.Song, string) {
	durationSeconds, err := s.probe(path)
	if err != nil {
		return nil, "unreadable duration"
	}

	song := &models.Song{
		DurationSeconds: durationSeconds,
		// Filename fallback when the file carries no title tag.
		Title: utils.CleanFilename(filepath.Base(path)),
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, "unreadable file"
	}
	defer f.Close()

	if meta, err := tag.ReadFrom(f); err == nil {
		if title := strings.TrimSpace(meta.Title()); title != "" {
			song.Title = title
		}
		song.Artist = strings.TrimSpace(meta.Artist())
		song.Genre = strings.TrimSpace(meta.Genre())
	}

	if song.Artist == "" {
		return nil, "no artist tag"
	}
	return song, ""
}
