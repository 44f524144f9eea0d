package utils

import (
	"path/filepath"
	"strings"
)

// CleanFilename turns a filename into a usable display title: extension
// stripped, separators replaced with spaces.
func CleanFilename(filename string) string {
	ext := filepath.Ext(filename)
	clean := strings.TrimSuffix(filename, ext)
	clean = strings.ReplaceAll(clean, "_", " ")
	clean = strings.ReplaceAll(clean, "-", " ")
	return strings.TrimSpace(clean)
}
