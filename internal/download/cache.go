package download

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/ytget/ytdl-shell/internal/model"
)

// infoCache remembers metadata lookups per URL
type infoCache struct {
	inner *lru.LRU[string, model.VideoInfo]
}

func newInfoCache(size int, ttl time.Duration) *infoCache {
	if size <= 0 {
		return nil
	}
	return &infoCache{inner: lru.NewLRU[string, model.VideoInfo](size, nil, ttl)}
}

// get returns a copy of the cached snapshot
func (c *infoCache) get(url string) (*model.VideoInfo, bool) {
	if c == nil {
		return nil, false
	}
	info, ok := c.inner.Get(url)
	if !ok {
		return nil, false
	}
	return &info, true
}

func (c *infoCache) set(url string, info *model.VideoInfo) {
	if c == nil || info == nil {
		return
	}
	c.inner.Add(url, *info)
}
