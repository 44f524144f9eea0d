package audio

import (
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
)

// IsSupportedFormat reports whether a filename looks like an audio file we
// can read tags from.
func IsSupportedFormat(filename string) bool {
	extensions := []string{
		".mp3", ".flac", ".wav", ".ogg", ".m4a", ".aac", ".aiff", ".alac",
	}
	lower := strings.ToLower(filename)
	for _, ext := range extensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// ProbeDuration asks ffprobe for the playback length of a file, rounded to
// whole seconds.
func ProbeDuration(path string) (int, error) {
	cmd := exec.Command("ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path)

	out, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w", path, err)
	}

	seconds, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: unparsable duration %q", path, strings.TrimSpace(string(out)))
	}
	if seconds <= 0 {
		return 0, fmt.Errorf("ffprobe %s: zero-length stream", path)
	}
	return int(math.Round(seconds)), nil
}
