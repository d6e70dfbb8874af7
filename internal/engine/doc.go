// Package engine is the boundary to the external media extraction engine.
//
// It defines the per-call configuration object (output template, format
// selector, post-processing directives), the Engine interface the download
// facade delegates to, and two bindings: the yt-dlp executable driven through
// github.com/lrstanley/go-ytdlp, and a pure Go downloader backed by
// github.com/ytget/ytdlp/v2. Failures are wrapped in *Error and classified as
// transient or permanent.
package engine
