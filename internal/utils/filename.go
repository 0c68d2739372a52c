package utils

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// SanitizeBaseName strips path components and replaces anything outside
// [A-Za-z0-9._-] so the result is safe as an on-disk file name.
func SanitizeBaseName(name string) string {
	base := filepath.Base(name)
	if base == "." || base == ".." || base == string(filepath.Separator) {
		return "file"
	}
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "file"
	}
	return b.String()
}

// GenerateUploadName builds a collision-resistant on-disk name of the form
// <unix-millis>_<sanitized-base><ext>, preserving the original extension.
func GenerateUploadName(originalName string, now time.Time) string {
	ext := filepath.Ext(originalName)
	base := strings.TrimSuffix(filepath.Base(originalName), ext)
	return fmt.Sprintf("%d_%s%s", now.UnixMilli(), SanitizeBaseName(base), ext)
}
