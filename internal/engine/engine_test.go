package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		expr        string
		wantQuality string
		wantExt     string
	}{
		{"best[ext=mp4]/best[ext=mp4]/best", "best", "mp4"},
		{"720p[ext=webm]/best[ext=webm]/best", "720p", "webm"},
		{"bestaudio/best", "best", ""},
		{"worst", "worst", ""},
		{"", "", ""},
	}
	for _, tt := range tests {
		q, ext := ParseFormat(tt.expr)
		if q != tt.wantQuality || ext != tt.wantExt {
			t.Errorf("ParseFormat(%q) = (%q, %q), want (%q, %q)", tt.expr, q, ext, tt.wantQuality, tt.wantExt)
		}
	}
}

func TestOptionsExtractAudio(t *testing.T) {
	opts := Options{PostProcessors: []PostProcessor{{Key: KeyExtractAudio, PreferredCodec: "mp3", PreferredQuality: "192"}}}
	pp, ok := opts.ExtractAudio()
	if !ok {
		t.Fatal("expected audio post-processor")
	}
	if pp.PreferredCodec != "mp3" || pp.PreferredQuality != "192" {
		t.Errorf("unexpected post-processor %+v", pp)
	}

	if _, ok := (Options{}).ExtractAudio(); ok {
		t.Error("empty options must not extract audio")
	}
}

func TestYTDLPMissingBinary(t *testing.T) {
	y := NewYTDLP("ytdl-shell-no-such-binary", time.Second, zerolog.Nop())

	_, err := y.Download(context.Background(), Options{}, "https://www.youtube.com/watch?v=x")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if IsTransient(err) {
		t.Error("missing binary must not be retried")
	}

	_, err = y.ExtractInfo(context.Background(), "https://www.youtube.com/watch?v=x")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestNewYTDLPDefaultsBinary(t *testing.T) {
	if got := NewYTDLP(" ", 0, zerolog.Nop()).Binary(); got != NameYTDLP {
		t.Errorf("got %q, want %q", got, NameYTDLP)
	}
}

type fakeConverter struct {
	calls []string
}

func (f *fakeConverter) ExtractAudio(_ context.Context, input, codec, _ string) (string, error) {
	f.calls = append(f.calls, input)
	out := strings.TrimSuffix(input, filepath.Ext(input)) + "." + codec
	if err := os.Rename(input, out); err != nil {
		return "", err
	}
	return out, nil
}

func newTestNative(conv *fakeConverter) *Native {
	n := NewNative(NativeConfig{}, conv, zerolog.Nop())
	n.fetch = func(_ context.Context, _, outputPath, _, _ string) (string, error) {
		return "My: Video", os.WriteFile(outputPath, []byte("media"), 0o644)
	}
	return n
}

func TestNativeDownloadRenamesByTitle(t *testing.T) {
	dir := t.TempDir()
	n := newTestNative(&fakeConverter{})

	opts := Options{
		OutputTemplate: filepath.Join(dir, PlaceholderTitle+"."+PlaceholderExt),
		Format:         "best[ext=webm]/best[ext=webm]/best",
		NoPlaylist:     true,
	}
	dl, err := n.Download(context.Background(), opts, "https://www.youtube.com/watch?v=abc123")
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if dl.Title != "My: Video" {
		t.Errorf("unexpected title %q", dl.Title)
	}
	want := filepath.Join(dir, "My- Video.webm")
	if len(dl.Files) != 1 || dl.Files[0] != want {
		t.Fatalf("files = %v, want [%s]", dl.Files, want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("expected renamed file: %v", err)
	}
}

func TestNativePlaylistTemplateOnSingleVideo(t *testing.T) {
	dir := t.TempDir()
	n := newTestNative(&fakeConverter{})

	opts := Options{
		OutputTemplate: filepath.Join(dir, PlaceholderPlaylistTitle, PlaceholderTitle+"."+PlaceholderExt),
		Format:         "best[ext=mp4]/best[ext=mp4]/best",
	}
	dl, err := n.Download(context.Background(), opts, "https://www.youtube.com/watch?v=abc123")
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	want := filepath.Join(dir, MissingFieldValue, "My- Video.mp4")
	if len(dl.Files) != 1 || dl.Files[0] != want {
		t.Fatalf("files = %v, want [%s]", dl.Files, want)
	}
	if _, err := os.Stat(filepath.Join(dir, PlaceholderPlaylistTitle)); !os.IsNotExist(err) {
		t.Errorf("placeholder directory should not exist, stat err = %v", err)
	}
}

func TestNativeDownloadExtractsAudio(t *testing.T) {
	dir := t.TempDir()
	conv := &fakeConverter{}
	n := newTestNative(conv)

	opts := Options{
		OutputTemplate: filepath.Join(dir, PlaceholderTitle+"."+PlaceholderExt),
		Format:         "bestaudio/best",
		NoPlaylist:     true,
		PostProcessors: []PostProcessor{{Key: KeyExtractAudio, PreferredCodec: "mp3", PreferredQuality: "192"}},
	}
	dl, err := n.Download(context.Background(), opts, "https://youtu.be/abc123")
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if len(conv.calls) != 1 {
		t.Fatalf("expected one conversion, got %d", len(conv.calls))
	}
	if len(dl.Files) != 1 || filepath.Ext(dl.Files[0]) != ".mp3" {
		t.Errorf("unexpected files %v", dl.Files)
	}
}

func TestNativeDownloadFailureIsWrapped(t *testing.T) {
	n := NewNative(NativeConfig{}, nil, zerolog.Nop())
	n.fetch = func(context.Context, string, string, string, string) (string, error) {
		return "", errors.New("dial tcp: connection refused")
	}

	opts := Options{OutputTemplate: filepath.Join(t.TempDir(), PlaceholderTitle+"."+PlaceholderExt), NoPlaylist: true}
	_, err := n.Download(context.Background(), opts, "https://www.youtube.com/watch?v=abc")

	var engineErr *Error
	if !errors.As(err, &engineErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if engineErr.Engine != NameNative || !engineErr.Transient {
		t.Errorf("unexpected error %+v", engineErr)
	}
}

func TestNativeExtractInfoUnsupported(t *testing.T) {
	n := NewNative(NativeConfig{}, nil, zerolog.Nop())
	if _, err := n.ExtractInfo(context.Background(), "u"); !errors.Is(err, ErrUnsupported) {
		t.Errorf("expected ErrUnsupported, got %v", err)
	}
}

func TestTemplateDir(t *testing.T) {
	tmpl := filepath.Join("out", PlaceholderPlaylistTitle, PlaceholderTitle+"."+PlaceholderExt)
	if got := templateDir(tmpl, "Mix"); got != filepath.Join("out", "Mix") {
		t.Errorf("got %q", got)
	}
	if got := templateDir(PlaceholderTitle+"."+PlaceholderExt, ""); got != "." {
		t.Errorf("got %q, want .", got)
	}
}

func TestTemplateDirWithoutPlaylistTitle(t *testing.T) {
	tmpl := filepath.Join("out", PlaceholderPlaylistTitle, PlaceholderTitle+"."+PlaceholderExt)
	got := templateDir(tmpl, "")
	if got != filepath.Join("out", MissingFieldValue) {
		t.Errorf("got %q, want %q", got, filepath.Join("out", MissingFieldValue))
	}
	if strings.Contains(got, PlaceholderPlaylistTitle) {
		t.Errorf("placeholder left in %q", got)
	}
}
