package download

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ytget/ytdl-shell/internal/engine"
	"github.com/ytget/ytdl-shell/internal/model"
	"github.com/ytget/ytdl-shell/internal/platform"
)

type fakeEngine struct {
	downloadErrs []error // consumed one per call, nil means success
	infoErrs     []error
	metadata     *engine.Metadata
	download     *engine.Download

	downloadCalls []engine.Options
	infoCalls     int
}

func (f *fakeEngine) Name() string { return "fake" }

func (f *fakeEngine) Download(_ context.Context, opts engine.Options, _ string) (*engine.Download, error) {
	f.downloadCalls = append(f.downloadCalls, opts)
	if len(f.downloadErrs) > 0 {
		err := f.downloadErrs[0]
		f.downloadErrs = f.downloadErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	return f.download, nil
}

func (f *fakeEngine) ExtractInfo(context.Context, string) (*engine.Metadata, error) {
	f.infoCalls++
	if len(f.infoErrs) > 0 {
		err := f.infoErrs[0]
		f.infoErrs = f.infoErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	return f.metadata, nil
}

func strPtr(s string) *string { return &s }

func newTestService(t *testing.T, eng engine.Engine) (*Service, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "downloads")
	s, err := NewService(dir, eng)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return s, dir
}

func TestNewServiceCreatesDirectory(t *testing.T) {
	s, dir := newTestService(t, &fakeEngine{})

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Fatalf("expected directory %s to exist: %v", dir, err)
	}
	if s.DownloadDirectory() != dir {
		t.Errorf("DownloadDirectory() = %q, want %q", s.DownloadDirectory(), dir)
	}

	// Existing directory is a no-op
	if _, err := NewService(dir, &fakeEngine{}); err != nil {
		t.Fatalf("second NewService on existing directory: %v", err)
	}
}

func TestNewServiceRejectsNilEngine(t *testing.T) {
	if _, err := NewService(t.TempDir(), nil); err == nil {
		t.Fatal("expected error for nil engine")
	}
}

func TestDownloadVideoOptions(t *testing.T) {
	eng := &fakeEngine{download: &engine.Download{Title: "Clip", Files: []string{"Clip.mp4"}}}
	s, dir := newTestService(t, eng)

	result, err := s.DownloadVideo(context.Background(), " https://example.test/abc ", "720P", "")
	if err != nil {
		t.Fatalf("DownloadVideo: %v", err)
	}

	if len(eng.downloadCalls) != 1 {
		t.Fatalf("expected one engine call, got %d", len(eng.downloadCalls))
	}
	opts := eng.downloadCalls[0]
	if opts.Format != "720p[ext=mp4]/best[ext=mp4]/best" {
		t.Errorf("unexpected format %q", opts.Format)
	}
	if opts.OutputTemplate != filepath.Join(dir, "%(title)s.%(ext)s") {
		t.Errorf("unexpected template %q", opts.OutputTemplate)
	}
	if len(opts.PostProcessors) != 0 {
		t.Errorf("video download must not post-process: %+v", opts.PostProcessors)
	}

	if result.URL != "https://example.test/abc" || result.Kind != model.OperationVideo {
		t.Errorf("unexpected result %+v", result)
	}
	if result.Title != "Clip" || len(result.Files) != 1 {
		t.Errorf("engine output not propagated: %+v", result)
	}
	if result.RequestID == "" {
		t.Error("expected request id")
	}
	if result.FinishedAt.Before(result.StartedAt) {
		t.Error("finish precedes start")
	}
}

func TestDownloadAudioOnlyOptions(t *testing.T) {
	eng := &fakeEngine{}
	s, dir := newTestService(t, eng)

	if _, err := s.DownloadAudioOnly(context.Background(), "https://example.test/abc", "wav"); err != nil {
		t.Fatalf("DownloadAudioOnly: %v", err)
	}

	opts := eng.downloadCalls[0]
	if opts.Format != AudioFormatSelector {
		t.Errorf("unexpected format %q", opts.Format)
	}
	if opts.OutputTemplate != filepath.Join(dir, "%(title)s.%(ext)s") {
		t.Errorf("unexpected template %q", opts.OutputTemplate)
	}
	want := engine.PostProcessor{Key: engine.KeyExtractAudio, PreferredCodec: "wav", PreferredQuality: "192"}
	if len(opts.PostProcessors) != 1 || opts.PostProcessors[0] != want {
		t.Errorf("post-processors = %+v, want [%+v]", opts.PostProcessors, want)
	}
}

func TestDownloadAudioOnlyConfiguredQuality(t *testing.T) {
	eng := &fakeEngine{}
	s, _ := newTestService(t, eng)
	s.SetAudioQuality("320")

	if _, err := s.DownloadAudioOnly(context.Background(), "u", ""); err != nil {
		t.Fatalf("DownloadAudioOnly: %v", err)
	}
	pp := eng.downloadCalls[0].PostProcessors[0]
	if pp.PreferredCodec != model.DefaultAudioCodec || pp.PreferredQuality != "320" {
		t.Errorf("unexpected post-processor %+v", pp)
	}
}

func TestDownloadPlaylistOptions(t *testing.T) {
	eng := &fakeEngine{}
	s, dir := newTestService(t, eng)

	result, err := s.DownloadPlaylist(context.Background(), "https://example.test/playlist?list=PL1", "best", "webm")
	if err != nil {
		t.Fatalf("DownloadPlaylist: %v", err)
	}
	opts := eng.downloadCalls[0]
	if opts.Format != "best[ext=webm]/best[ext=webm]/best" {
		t.Errorf("unexpected format %q", opts.Format)
	}
	if opts.OutputTemplate != filepath.Join(dir, "%(playlist_title)s", "%(title)s.%(ext)s") {
		t.Errorf("unexpected template %q", opts.OutputTemplate)
	}
	if result.Kind != model.OperationPlaylist {
		t.Errorf("unexpected kind %s", result.Kind)
	}
}

func TestDownloadFailureReturnsError(t *testing.T) {
	cause := &engine.Error{Engine: "fake", Op: "download", Err: errors.New("unsupported URL")}
	eng := &fakeEngine{downloadErrs: []error{cause}}
	s, _ := newTestService(t, eng)

	result, err := s.DownloadVideo(context.Background(), "https://example.test/abc", "720p", "mp4")
	if result != nil {
		t.Errorf("expected nil result, got %+v", result)
	}
	var engineErr *engine.Error
	if !errors.As(err, &engineErr) {
		t.Fatalf("expected *engine.Error, got %v", err)
	}
}

func TestDownloadReleasesLock(t *testing.T) {
	eng := &fakeEngine{downloadErrs: []error{errors.New("boom")}}
	s, dir := newTestService(t, eng)

	_, _ = s.DownloadVideo(context.Background(), "u", "", "")
	if _, err := s.DownloadVideo(context.Background(), "u", "", ""); err != nil {
		t.Fatalf("second call should acquire the released lock: %v", err)
	}

	other := platform.NewDestinationLock(dir)
	if err := other.Acquire(); err != nil {
		t.Fatalf("lock still held after operations: %v", err)
	}
	_ = other.Release()
}

func TestDownloadLogsDisplayTitle(t *testing.T) {
	eng := &fakeEngine{download: &engine.Download{Files: []string{"/media/My Clip.mp4"}}}
	s, _ := newTestService(t, eng)
	var logs bytes.Buffer
	s.SetLogger(zerolog.New(&logs))

	if _, err := s.DownloadVideo(context.Background(), "https://youtu.be/abc", "", ""); err != nil {
		t.Fatalf("DownloadVideo: %v", err)
	}
	if !strings.Contains(logs.String(), `"title":"My Clip"`) {
		t.Errorf("completion line should name the file title, got:\n%s", logs.String())
	}
}

func TestDownloadBusyDestination(t *testing.T) {
	eng := &fakeEngine{}
	s, dir := newTestService(t, eng)

	holder := platform.NewDestinationLock(dir)
	if err := holder.Acquire(); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer holder.Release()

	_, err := s.DownloadVideo(context.Background(), "u", "", "")
	if !errors.Is(err, platform.ErrDestinationBusy) {
		t.Fatalf("expected ErrDestinationBusy, got %v", err)
	}
	if len(eng.downloadCalls) != 0 {
		t.Error("engine must not run while the destination is locked")
	}
}

func TestGetVideoInfoPassesThrough(t *testing.T) {
	duration := 120.0
	views := int64(5)
	eng := &fakeEngine{metadata: &engine.Metadata{
		Title:      strPtr("T"),
		Duration:   &duration,
		Uploader:   strPtr("U"),
		ViewCount:  &views,
		UploadDate: strPtr("20240101"),
	}}
	s, _ := newTestService(t, eng)

	info, err := s.GetVideoInfo(context.Background(), "https://example.test/abc")
	if err != nil {
		t.Fatalf("GetVideoInfo: %v", err)
	}
	if info.Title != "T" || info.Uploader != "U" || info.UploadDate != "20240101" {
		t.Errorf("unexpected text fields %+v", info)
	}
	if info.Duration == nil || *info.Duration != 120 {
		t.Errorf("unexpected duration %v", info.Duration)
	}
	if info.ViewCount == nil || *info.ViewCount != 5 {
		t.Errorf("unexpected view count %v", info.ViewCount)
	}
}

func TestGetVideoInfoDefaults(t *testing.T) {
	s, _ := newTestService(t, &fakeEngine{metadata: &engine.Metadata{}})

	info, err := s.GetVideoInfo(context.Background(), "u")
	if err != nil {
		t.Fatalf("GetVideoInfo: %v", err)
	}
	for name, got := range map[string]string{
		"title":       info.Title,
		"uploader":    info.Uploader,
		"upload date": info.UploadDate,
		"duration":    info.DurationString(),
		"views":       info.ViewCountString(),
	} {
		if got != model.NotAvailable {
			t.Errorf("%s = %q, want %q", name, got, model.NotAvailable)
		}
	}
}

func TestGetVideoInfoFailure(t *testing.T) {
	s, _ := newTestService(t, &fakeEngine{infoErrs: []error{errors.New("private video")}})

	info, err := s.GetVideoInfo(context.Background(), "u")
	if info != nil {
		t.Errorf("expected nil info, got %+v", info)
	}
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestGetVideoInfoCache(t *testing.T) {
	eng := &fakeEngine{metadata: &engine.Metadata{Title: strPtr("T")}}
	s, _ := newTestService(t, eng)
	s.SetInfoCache(4, time.Minute)

	for i := 0; i < 3; i++ {
		if _, err := s.GetVideoInfo(context.Background(), "u"); err != nil {
			t.Fatalf("GetVideoInfo: %v", err)
		}
	}
	if eng.infoCalls != 1 {
		t.Errorf("expected one engine call with cache, got %d", eng.infoCalls)
	}
	if s.cache.inner.Len() != 1 {
		t.Errorf("expected one cached entry, got %d", s.cache.inner.Len())
	}
}

func TestGetVideoInfoCacheDisabled(t *testing.T) {
	eng := &fakeEngine{metadata: &engine.Metadata{Title: strPtr("T")}}
	s, _ := newTestService(t, eng)
	s.SetInfoCache(0, time.Minute)

	_, _ = s.GetVideoInfo(context.Background(), "u")
	_, _ = s.GetVideoInfo(context.Background(), "u")
	if eng.infoCalls != 2 {
		t.Errorf("expected two engine calls without cache, got %d", eng.infoCalls)
	}
}

func TestRetryTransientFailures(t *testing.T) {
	transient := &engine.Error{Engine: "fake", Op: "download", Transient: true, Err: errors.New("timed out")}
	eng := &fakeEngine{downloadErrs: []error{transient, transient, nil}}
	s, _ := newTestService(t, eng)
	s.SetLogger(zerolog.Nop())
	s.SetRetryPolicy(2, time.Millisecond)

	if _, err := s.DownloadVideo(context.Background(), "u", "", ""); err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if len(eng.downloadCalls) != 3 {
		t.Errorf("expected 3 attempts, got %d", len(eng.downloadCalls))
	}
}

func TestRetrySkipsPermanentFailures(t *testing.T) {
	permanent := &engine.Error{Engine: "fake", Op: "download", Err: errors.New("video unavailable")}
	eng := &fakeEngine{downloadErrs: []error{permanent, nil}}
	s, _ := newTestService(t, eng)
	s.SetRetryPolicy(3, time.Millisecond)

	_, err := s.DownloadVideo(context.Background(), "u", "", "")
	if !errors.Is(err, permanent) {
		t.Fatalf("expected the permanent failure, got %v", err)
	}
	if len(eng.downloadCalls) != 1 {
		t.Errorf("permanent failure must not be retried, got %d attempts", len(eng.downloadCalls))
	}
}

func TestNoRetryByDefault(t *testing.T) {
	transient := &engine.Error{Engine: "fake", Op: "download", Transient: true, Err: errors.New("timed out")}
	eng := &fakeEngine{downloadErrs: []error{transient, nil}}
	s, _ := newTestService(t, eng)

	if _, err := s.DownloadVideo(context.Background(), "u", "", ""); err == nil {
		t.Fatal("expected single attempt to fail")
	}
	if len(eng.downloadCalls) != 1 {
		t.Errorf("expected 1 attempt, got %d", len(eng.downloadCalls))
	}
}

func TestProgressForwarded(t *testing.T) {
	eng := &fakeEngine{}
	s, _ := newTestService(t, eng)
	called := false
	s.SetProgressFunc(func(engine.Progress) { called = true })

	if _, err := s.DownloadVideo(context.Background(), "u", "", ""); err != nil {
		t.Fatalf("DownloadVideo: %v", err)
	}
	if eng.downloadCalls[0].Progress == nil {
		t.Fatal("progress callback not forwarded")
	}
	eng.downloadCalls[0].Progress(engine.Progress{})
	if !called {
		t.Error("forwarded callback did not reach the configured function")
	}
}

func TestBuildFormatSelector(t *testing.T) {
	tests := []struct {
		quality, format, want string
	}{
		{"best", "mp4", "best[ext=mp4]/best[ext=mp4]/best"},
		{"worst", "webm", "worst[ext=webm]/best[ext=webm]/best"},
		{"480p", "mkv", "480p[ext=mkv]/best[ext=mkv]/best"},
	}
	for _, tt := range tests {
		if got := BuildFormatSelector(tt.quality, tt.format); got != tt.want {
			t.Errorf("BuildFormatSelector(%q, %q) = %q, want %q", tt.quality, tt.format, got, tt.want)
		}
	}
}
