package setlist

import (
	"fmt"
	"sort"
	"time"

	"github.com/Mrjmbjmb/setlist-manager/internal/format"
	"github.com/Mrjmbjmb/setlist-manager/internal/models"
)

// Gaps carries the configured transition buffers. It is passed in explicitly
// so the computation stays pure and testable.
type Gaps struct {
	BetweenSongSeconds int
	EncoreBreakSeconds int
}

// DefaultGaps returns the stock transition buffers: 30s between songs,
// 4 minutes before an encore.
func DefaultGaps() Gaps {
	return Gaps{BetweenSongSeconds: 30, EncoreBreakSeconds: 240}
}

// Breakdown is the computed duration view over a setlist's entries.
type Breakdown struct {
	SongCount        int    `json:"song_count"`
	SongSeconds      int    `json:"song_seconds"`
	TransitionSeconds int    `json:"transition_seconds"`
	TotalSeconds     int    `json:"total_seconds"`
	TotalLabel       string `json:"total_label"`
	EncoreBreakCount int    `json:"encore_break_count"`

	// Show window fit. Only populated when both window bounds are set.
	HasShowWindow     bool   `json:"has_show_window"`
	ShowWindowSeconds int    `json:"show_window_seconds"`
	OverageSeconds    int    `json:"overage_seconds"`
	ExceedsWindow     bool   `json:"exceeds_window"`
	FitLabel          string `json:"fit_label,omitempty"`
}

// Compute derives the full duration breakdown for a setlist. Entries with a
// missing song contribute zero playback time; the read path never fails on
// inconsistent data.
func Compute(sl *models.Setlist, gaps Gaps) Breakdown {
	entries := make([]models.SetlistEntry, len(sl.Entries))
	copy(entries, sl.Entries)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Position < entries[j].Position
	})

	var breakdown Breakdown
	breakdown.SongCount = len(entries)

	for i, entry := range entries {
		if entry.Song != nil {
			breakdown.SongSeconds += entry.Song.DurationSeconds
		}
		// The first song never starts an encore; tolerate the flag anyway.
		if i > 0 && entry.StartsEncore {
			breakdown.EncoreBreakCount++
		}
	}

	for i := 0; i < len(entries)-1; i++ {
		if entries[i+1].StartsEncore {
			breakdown.TransitionSeconds += gaps.EncoreBreakSeconds
		} else {
			breakdown.TransitionSeconds += gaps.BetweenSongSeconds
		}
	}

	breakdown.TotalSeconds = breakdown.SongSeconds + breakdown.TransitionSeconds
	breakdown.TotalLabel = format.Duration(breakdown.TotalSeconds)

	window := ShowWindowSeconds(sl.ShowStart, sl.ShowEnd)
	if window > 0 {
		breakdown.HasShowWindow = true
		breakdown.ShowWindowSeconds = window
		breakdown.OverageSeconds = window - breakdown.TotalSeconds
		breakdown.ExceedsWindow = breakdown.OverageSeconds < 0
		breakdown.FitLabel = FitLabel(breakdown.OverageSeconds)
	}

	return breakdown
}

// ShowWindowSeconds returns the elapsed seconds between two "HH:MM"
// time-of-day bounds. An end earlier than the start rolls over to the next
// day, so a 23:00-01:00 show is two hours, not minus twenty-two.
// Returns 0 when either bound is missing or malformed.
func ShowWindowSeconds(start, end string) int {
	startAt, err := time.Parse("15:04", start)
	if err != nil {
		return 0
	}
	endAt, err := time.Parse("15:04", end)
	if err != nil {
		return 0
	}

	minutes := (endAt.Hour()*60 + endAt.Minute()) - (startAt.Hour()*60 + startAt.Minute())
	if minutes < 0 {
		minutes += 24 * 60
	}
	return minutes * 60
}

// FitLabel renders the overage as a human string. Overage is window minus
// total, so a negative value means the setlist runs long; the label flips
// the sign to read as "time over". Hour granularity above one hour,
// minute/second granularity below.
func FitLabel(overageSeconds int) string {
	if overageSeconds == 0 {
		return "Perfect fit!"
	}

	sign := "-"
	if overageSeconds < 0 {
		sign = "+"
		overageSeconds = -overageSeconds
	}

	if overageSeconds >= 3600 {
		return fmt.Sprintf("%s%dh %dm", sign, overageSeconds/3600, (overageSeconds%3600)/60)
	}
	return fmt.Sprintf("%s%dm %ds", sign, overageSeconds/60, overageSeconds%60)
}
