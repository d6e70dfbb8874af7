package platform

import (
	"context"
	"fmt"
	"strings"
	"time"

	ytget "github.com/ytget/ytdlp/v2"

	"github.com/ytget/ytdl-shell/internal/model"
)

// Timeout constants
const (
	DefaultPlaylistParseTimeout = 60 * time.Second
)

// Playlist title constants
const (
	DefaultPlaylistTitle = "Untitled Playlist"
	MinPrefixLength      = 10
	MaxTitleLength       = 50
	TitleTruncateSuffix  = "..."
)

// PlaylistItem is a single entry returned by the playlist source
type PlaylistItem struct {
	VideoID string
	Title   string
}

// PlaylistFetcher returns every item of the playlist with the given ID
type PlaylistFetcher func(ctx context.Context, playlistID string) ([]PlaylistItem, error)

// PlaylistParserService lists playlist entries through the native ytdlp library
type PlaylistParserService struct {
	timeout time.Duration
	fetch   PlaylistFetcher
}

// NewPlaylistParserService creates a new playlist parser service
func NewPlaylistParserService() *PlaylistParserService {
	return &PlaylistParserService{
		timeout: DefaultPlaylistParseTimeout,
		fetch:   fetchPlaylistItems,
	}
}

// SetTimeout sets the timeout for playlist parsing
func (p *PlaylistParserService) SetTimeout(timeout time.Duration) {
	p.timeout = timeout
}

// SetFetcher replaces the playlist source
func (p *PlaylistParserService) SetFetcher(fetch PlaylistFetcher) {
	p.fetch = fetch
}

// ParsePlaylist lists the entries of a playlist URL
func (p *PlaylistParserService) ParsePlaylist(ctx context.Context, url string) (*model.Playlist, error) {
	if !IsPlaylistURL(url) {
		return nil, fmt.Errorf("invalid playlist URL: %s", url)
	}

	playlistID := ExtractPlaylistID(url)
	if playlistID == "" {
		return nil, fmt.Errorf("could not extract playlist ID from URL: %s", url)
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	items, err := p.fetch(ctx, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist items: %w", err)
	}

	playlist := model.NewPlaylist(playlistID, url)
	for _, it := range items {
		playlist.AddVideo(&model.PlaylistVideo{
			ID:       it.VideoID,
			Title:    it.Title,
			Duration: model.NotAvailable,
			URL:      VideoURL(it.VideoID),
		})
	}
	playlist.Title = PlaylistTitle(playlist.Videos)

	return playlist, nil
}

func fetchPlaylistItems(ctx context.Context, playlistID string) ([]PlaylistItem, error) {
	items, err := ytget.New().GetPlaylistItemsAll(ctx, playlistID, 0)
	if err != nil {
		return nil, err
	}
	out := make([]PlaylistItem, 0, len(items))
	for _, it := range items {
		out = append(out, PlaylistItem{VideoID: it.VideoID, Title: it.Title})
	}
	return out, nil
}

// PlaylistTitle derives a directory-friendly playlist title from its entries:
// the common prefix of the first two titles when it is long enough, otherwise
// the (truncated) first title.
func PlaylistTitle(videos []*model.PlaylistVideo) string {
	if len(videos) == 0 {
		return DefaultPlaylistTitle
	}
	if len(videos) > 1 {
		prefix := strings.TrimSpace(findCommonPrefix(videos[0].Title, videos[1].Title))
		prefix = strings.TrimRight(prefix, " -|:")
		if len(prefix) > MinPrefixLength {
			return prefix
		}
	}
	title := strings.TrimSpace(videos[0].Title)
	if title == "" {
		return DefaultPlaylistTitle
	}
	if runes := []rune(title); len(runes) > MaxTitleLength {
		title = string(runes[:MaxTitleLength]) + TitleTruncateSuffix
	}
	return title
}

// findCommonPrefix finds the common prefix between two strings
func findCommonPrefix(s1, s2 string) string {
	minLen := min(len(s1), len(s2))
	for i := 0; i < minLen; i++ {
		if s1[i] != s2[i] {
			return s1[:i]
		}
	}
	return s1[:minLen]
}
