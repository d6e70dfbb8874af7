package model

import (
	"strings"
	"time"
)

// DownloadResult describes a completed download operation
type DownloadResult struct {
	RequestID  string
	Kind       OperationKind
	URL        string
	Title      string    // title reported by the engine, if any
	Files      []string  // files written under the destination
	StartedAt  time.Time // when the engine call started
	FinishedAt time.Time // when the engine call returned
}

// Elapsed returns how long the engine call took
func (r *DownloadResult) Elapsed() time.Duration {
	if r.FinishedAt.IsZero() || r.StartedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// GetDisplayTitle returns title, filename, or URL in order of preference
func (r *DownloadResult) GetDisplayTitle() string {
	if r.Title != "" && !strings.HasPrefix(r.Title, "http") {
		return r.Title
	}

	if len(r.Files) > 0 {
		// support both / and \ separators
		parts := strings.FieldsFunc(r.Files[0], func(c rune) bool {
			return c == '/' || c == '\\'
		})
		if len(parts) > 0 {
			filename := parts[len(parts)-1]
			if idx := strings.LastIndex(filename, "."); idx > 0 {
				filename = filename[:idx]
			}
			return filename
		}
	}

	return r.URL
}
