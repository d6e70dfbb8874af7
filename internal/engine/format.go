package engine

import "strings"

const (
	extFilterPrefix = "[ext="
	bestAudioToken  = "bestaudio"
)

// ParseFormat recovers the quality token and container extension from the
// first alternative of a format expression such as "720p[ext=mp4]/best".
// Engines without a format language use this to approximate the selection.
func ParseFormat(expr string) (quality, ext string) {
	first, _, _ := strings.Cut(strings.TrimSpace(expr), "/")
	if first == "" {
		return "", ""
	}
	quality = first
	if idx := strings.Index(first, extFilterPrefix); idx >= 0 {
		quality = first[:idx]
		rest := first[idx+len(extFilterPrefix):]
		if end := strings.IndexByte(rest, ']'); end >= 0 {
			ext = rest[:end]
		}
	}
	if quality == bestAudioToken {
		quality = "best"
	}
	return quality, ext
}
