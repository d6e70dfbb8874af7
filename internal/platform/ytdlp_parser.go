package platform

import (
	"encoding/json"
	"fmt"
	"strings"
)

// URL parameters and separators
const (
	PlaylistParam  = "list="
	VideoParam     = "v="
	QuerySeparator = "?"
	ShortLinkHost  = "youtu.be/"
	ShortsPath     = "/shorts/"
	ParamSeparator = "&"
)

// URL templates
const (
	YouTubeVideoURLTemplate = "https://www.youtube.com/watch?v=%s"
)

// YTDLPInfo is the subset of a yt-dlp info JSON document the application reads.
// Pointer fields stay nil when the key is absent or null.
type YTDLPInfo struct {
	ID            string   `json:"id"`
	Title         *string  `json:"title"`
	Duration      *float64 `json:"duration"`
	Uploader      *string  `json:"uploader"`
	ViewCount     *int64   `json:"view_count"`
	UploadDate    *string  `json:"upload_date"`
	Filename      *string  `json:"filename"`
	PlaylistTitle *string  `json:"playlist_title"`
}

// ParseYTDLPJSON parses yt-dlp JSON output, one document per line.
// Lines that are not JSON objects (warnings, progress) are skipped.
func ParseYTDLPJSON(output string) ([]*YTDLPInfo, error) {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	var infos []*YTDLPInfo
	var lastErr error
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || !strings.HasPrefix(line, "{") {
			continue
		}
		var info YTDLPInfo
		if err := json.Unmarshal([]byte(line), &info); err != nil {
			lastErr = err
			continue
		}
		infos = append(infos, &info)
	}
	if len(infos) == 0 {
		if lastErr != nil {
			return nil, fmt.Errorf("parse yt-dlp json: %w", lastErr)
		}
		return nil, fmt.Errorf("parse yt-dlp json: no info document in output")
	}
	return infos, nil
}

// IsPlaylistURL checks if the URL carries a playlist parameter
func IsPlaylistURL(url string) bool {
	return strings.Contains(url, PlaylistParam)
}

// ExtractPlaylistID extracts the playlist ID from various URL formats
func ExtractPlaylistID(url string) string {
	if strings.Contains(url, PlaylistParam) {
		parts := strings.Split(url, PlaylistParam)
		if len(parts) > 1 {
			playlistPart := parts[1]
			if strings.Contains(playlistPart, ParamSeparator) {
				playlistPart = strings.Split(playlistPart, ParamSeparator)[0]
			}
			return playlistPart
		}
	}
	return ""
}

// VideoURL builds a watch URL for a video ID
func VideoURL(videoID string) string {
	return fmt.Sprintf(YouTubeVideoURLTemplate, videoID)
}

// ExtractVideoID extracts the video ID from watch, short and youtu.be URLs
func ExtractVideoID(url string) string {
	for _, marker := range []string{QuerySeparator + VideoParam, ParamSeparator + VideoParam, ShortLinkHost, ShortsPath} {
		idx := strings.Index(url, marker)
		if idx < 0 {
			continue
		}
		id := url[idx+len(marker):]
		if cut := strings.IndexAny(id, "?&#/"); cut >= 0 {
			id = id[:cut]
		}
		if id != "" {
			return id
		}
	}
	return ""
}
