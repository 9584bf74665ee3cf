package upload

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

const maxOriginalNameLen = 100

// Slugify converts s to a lowercase, URL-safe slug.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// cleanOriginal keeps the client's base name but only safe characters.
func cleanOriginal(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	out := strings.Trim(b.String(), ".-")
	if len(out) > maxOriginalNameLen {
		out = out[len(out)-maxOriginalNameLen:]
	}
	if out == "" {
		return "image"
	}
	return out
}

// storedName builds `<slug>-<unix nanos>-<original>`.
func storedName(key, fallback, original string, now time.Time) string {
	slug := Slugify(key)
	if slug == "" {
		slug = fallback
	}
	return fmt.Sprintf("%s-%d-%s", slug, now.UnixNano(), cleanOriginal(original))
}
