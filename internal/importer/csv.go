package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/Mrjmbjmb/setlist-manager/internal/format"
	"github.com/Mrjmbjmb/setlist-manager/internal/models"
)

// Report summarises an import run. A malformed row is skipped and counted,
// never fatal; Errors carries one line per skipped row for display.
type Report struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

func (r *Report) skip(line int, reason string) {
	r.Skipped++
	r.Errors = append(r.Errors, fmt.Sprintf("row %d: %s", line, reason))
}

// CSVImporter loads catalog songs from a CSV export.
//
// Expected columns (header-mapped, order-independent): title, artist,
// duration, genre, energy, tags. Title, artist and duration are required
// per row; duration accepts "mm:ss" or decimal minutes; tags is a
// ";"-separated list of tag codes or labels.
type CSVImporter struct {
	db *gorm.DB
}

func NewCSVImporter(db *gorm.DB) *CSVImporter {
	return &CSVImporter{db: db}
}

func (c *CSVImporter) Import(ctx context.Context, r io.Reader) (*Report, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"title", "artist", "duration"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("CSV header is missing the %q column", required)
		}
	}

	report := &Report{}
	line := 1

	for {
		select {
		case <-ctx.Done():
			return report, ctx.Err()
		default:
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			report.skip(line, err.Error())
			continue
		}

		song, reason := c.parseRow(columns, record)
		if song == nil {
			report.skip(line, reason)
			imports.WithLabelValues("skipped").Inc()
			continue
		}

		if err := c.db.Create(song).Error; err != nil {
			slog.Error("Failed to insert imported song", "title", song.Title, "error", err)
			report.skip(line, "database error")
			imports.WithLabelValues("skipped").Inc()
			continue
		}

		report.Imported++
		imports.WithLabelValues("imported").Inc()
	}

	return report, nil
}

// parseRow validates one record. Returns a nil song plus a reason when the
// row cannot be imported.
func (c *CSVImporter) parseRow(columns map[string]int, record []string) (*models.Song, string) {
	field := func(name string) string {
		index, ok := columns[name]
		if !ok || index >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[index])
	}

	title := field("title")
	artist := field("artist")
	if title == "" || artist == "" {
		return nil, "title and artist are required"
	}

	durationSeconds, err := format.ParseDuration(field("duration"))
	if err != nil || durationSeconds <= 0 {
		return nil, fmt.Sprintf("bad duration %q", field("duration"))
	}

	song := &models.Song{
		Title:           title,
		Artist:          artist,
		DurationSeconds: durationSeconds,
		Genre:           field("genre"),
	}

	if raw := field("energy"); raw != "" {
		energy, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Sprintf("bad energy %q", raw)
		}
		song.Energy = &energy
	}

	if raw := field("tags"); raw != "" {
		for _, name := range strings.FieldsFunc(raw, func(r rune) bool { return r == ';' || r == '|' }) {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			if !song.SetTag(name, true) {
				return nil, fmt.Sprintf("unknown tag %q", name)
			}
		}
	}

	return song, ""
}
