package format

import (
	"fmt"
	"strconv"
	"strings"
)

// Duration renders a second count as "M:SS", switching to "H:MM:SS" at one
// hour. The leading component is never zero-padded. Callers guarantee a
// non-negative input; use SignedDuration for values that can go negative.
func Duration(totalSeconds int) string {
	if totalSeconds >= 3600 {
		hours := totalSeconds / 3600
		minutes := (totalSeconds % 3600) / 60
		seconds := totalSeconds % 60
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	minutes := totalSeconds / 60
	seconds := totalSeconds % 60
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

// SignedDuration formats the absolute value and prefixes a sign.
// Zero renders without a sign.
func SignedDuration(totalSeconds int) string {
	if totalSeconds < 0 {
		return "-" + Duration(-totalSeconds)
	}
	return Duration(totalSeconds)
}

// ParseDuration converts user input to whole seconds. Two forms are
// accepted: "mm:ss" (seconds must be 0-59) and decimal minutes ("4.5").
func ParseDuration(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty duration")
	}

	if strings.Contains(value, ":") {
		minutesPart, secondsPart, _ := strings.Cut(value, ":")
		minutes, err := strconv.Atoi(strings.TrimSpace(minutesPart))
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", value)
		}
		seconds, err := strconv.Atoi(strings.TrimSpace(secondsPart))
		if err != nil || seconds < 0 || seconds >= 60 {
			return 0, fmt.Errorf("invalid duration %q", value)
		}
		return minutes*60 + seconds, nil
	}

	minutes, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", value)
	}
	return int(minutes * 60), nil
}
