package model

// PlaylistVideo represents a single entry of a playlist listing
type PlaylistVideo struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Duration string `json:"duration"`
	URL      string `json:"url"`
}

// Playlist represents a playlist and its entries as reported by the engine
type Playlist struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	URL         string           `json:"url"`
	Videos      []*PlaylistVideo `json:"videos"`
	TotalVideos int              `json:"total_videos"`
}

// NewPlaylist creates a new playlist instance
func NewPlaylist(id, url string) *Playlist {
	return &Playlist{
		ID:     id,
		URL:    url,
		Videos: make([]*PlaylistVideo, 0),
	}
}

// AddVideo adds a video to the playlist
func (p *Playlist) AddVideo(video *PlaylistVideo) {
	p.Videos = append(p.Videos, video)
	p.TotalVideos = len(p.Videos)
}

// IsEmpty reports whether the playlist has no entries
func (p *Playlist) IsEmpty() bool {
	return p.TotalVideos == 0
}
