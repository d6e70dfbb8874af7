package platform

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ytget/ytdl-shell/internal/model"
)

func TestNewPlaylistParserService(t *testing.T) {
	service := NewPlaylistParserService()

	if service.timeout != DefaultPlaylistParseTimeout {
		t.Errorf("expected timeout %v, got %v", DefaultPlaylistParseTimeout, service.timeout)
	}
	if service.fetch == nil {
		t.Error("expected default fetcher to be set")
	}

	service.SetTimeout(5 * time.Second)
	if service.timeout != 5*time.Second {
		t.Errorf("expected timeout 5s, got %v", service.timeout)
	}
}

func TestParsePlaylist(t *testing.T) {
	service := NewPlaylistParserService()
	var gotID string
	service.SetFetcher(func(ctx context.Context, playlistID string) ([]PlaylistItem, error) {
		gotID = playlistID
		return []PlaylistItem{
			{VideoID: "a1", Title: "Live at the Hall - Part 1"},
			{VideoID: "b2", Title: "Live at the Hall - Part 2"},
		}, nil
	})

	playlist, err := service.ParsePlaylist(context.Background(), "https://www.youtube.com/playlist?list=PL123&index=2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotID != "PL123" {
		t.Errorf("expected fetcher to receive PL123, got %q", gotID)
	}
	if playlist.ID != "PL123" {
		t.Errorf("expected playlist ID PL123, got %q", playlist.ID)
	}
	if playlist.TotalVideos != 2 {
		t.Fatalf("expected 2 videos, got %d", playlist.TotalVideos)
	}
	if playlist.Videos[0].URL != "https://www.youtube.com/watch?v=a1" {
		t.Errorf("unexpected video URL %s", playlist.Videos[0].URL)
	}
	if playlist.Title != "Live at the Hall - Part" {
		t.Errorf("unexpected playlist title %q", playlist.Title)
	}
}

func TestParsePlaylist_Errors(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		fetchErr error
		errorMsg string
	}{
		{
			name:     "invalid URL without playlist parameter",
			url:      "https://www.youtube.com/watch?v=VIDEO_ID",
			errorMsg: "invalid playlist URL",
		},
		{
			name:     "URL with empty playlist ID",
			url:      "https://www.youtube.com/watch?v=VIDEO_ID&list=",
			errorMsg: "could not extract playlist ID",
		},
		{
			name:     "fetch failure",
			url:      "https://www.youtube.com/playlist?list=PL1",
			fetchErr: errors.New("boom"),
			errorMsg: "failed to get playlist items: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewPlaylistParserService()
			service.SetFetcher(func(ctx context.Context, playlistID string) ([]PlaylistItem, error) {
				return nil, tt.fetchErr
			})

			_, err := service.ParsePlaylist(context.Background(), tt.url)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.errorMsg) {
				t.Errorf("expected error to contain %q, got %q", tt.errorMsg, err.Error())
			}
		})
	}
}

func TestPlaylistTitle(t *testing.T) {
	tests := []struct {
		name     string
		videos   []*model.PlaylistVideo
		expected string
	}{
		{
			name:     "empty videos list",
			videos:   []*model.PlaylistVideo{},
			expected: DefaultPlaylistTitle,
		},
		{
			name:     "single video",
			videos:   []*model.PlaylistVideo{{Title: "Test Video"}},
			expected: "Test Video",
		},
		{
			name: "single video with long title",
			videos: []*model.PlaylistVideo{
				{Title: "This is a very long video title that should be truncated because it exceeds the maximum length limit"},
			},
			expected: "This is a very long video title that should be tru...",
		},
		{
			name: "shared prefix",
			videos: []*model.PlaylistVideo{
				{Title: "Course Lecture 01"},
				{Title: "Course Lecture 02"},
			},
			expected: "Course Lecture 0",
		},
		{
			name: "short shared prefix falls back to first title",
			videos: []*model.PlaylistVideo{
				{Title: "First Video Title"},
				{Title: "Fine Second Title"},
			},
			expected: "First Video Title",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PlaylistTitle(tt.videos); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestFindCommonPrefix(t *testing.T) {
	tests := []struct {
		s1, s2, expected string
	}{
		{"hello world", "hello world", "hello world"},
		{"hello world", "hello there", "hello "},
		{"hello world", "goodbye world", ""},
		{"hello", "hello world", "hello"},
		{"", "hello", ""},
	}

	for _, tt := range tests {
		if got := findCommonPrefix(tt.s1, tt.s2); got != tt.expected {
			t.Errorf("findCommonPrefix(%q, %q) = %q, expected %q", tt.s1, tt.s2, got, tt.expected)
		}
	}
}
