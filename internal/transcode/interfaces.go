package transcode

import "context"

// Converter turns a downloaded media file into an audio-only file.
type Converter interface {
	ExtractAudio(ctx context.Context, inputPath, codec, quality string) (string, error)
}
