package transcode

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// FFmpeg constants for audio extraction
const (
	FFmpegCommand  = "ffmpeg"
	NoVideoFlag    = "-vn"
	BitrateSuffix  = "k"
	LogLevelFlag   = "-loglevel"
	LogLevelErrors = "error"
)

// audioEncoders maps a target codec name to its ffmpeg encoder and output extension
var audioEncoders = map[string]struct {
	encoder   string
	extension string
	lossless  bool
}{
	"mp3":    {encoder: "libmp3lame", extension: ".mp3"},
	"aac":    {encoder: "aac", extension: ".m4a"},
	"m4a":    {encoder: "aac", extension: ".m4a"},
	"opus":   {encoder: "libopus", extension: ".opus"},
	"vorbis": {encoder: "libvorbis", extension: ".ogg"},
	"ogg":    {encoder: "libvorbis", extension: ".ogg"},
	"wav":    {encoder: "pcm_s16le", extension: ".wav", lossless: true},
	"flac":   {encoder: "flac", extension: ".flac", lossless: true},
}

// Service runs ffmpeg to extract and re-encode audio
type Service struct {
	binary    string
	keepInput bool
	logger    zerolog.Logger
}

// NewService creates a converter using the given ffmpeg binary
func NewService(binary string, logger zerolog.Logger) *Service {
	if strings.TrimSpace(binary) == "" {
		binary = FFmpegCommand
	}
	return &Service{
		binary: binary,
		logger: logger.With().Str("component", "transcode").Logger(),
	}
}

// SetKeepInput controls whether the source file survives a successful conversion
func (s *Service) SetKeepInput(keep bool) {
	s.keepInput = keep
}

// ExtractAudio converts inputPath to codec at quality kbit/s and returns the output path
func (s *Service) ExtractAudio(ctx context.Context, inputPath, codec, quality string) (string, error) {
	if _, err := os.Stat(inputPath); err != nil {
		return "", fmt.Errorf("input file does not exist: %s", inputPath)
	}

	outputPath, err := OutputPath(inputPath, codec)
	if err != nil {
		return "", err
	}
	args, err := BuildFFmpegArgs(inputPath, outputPath, codec, quality)
	if err != nil {
		return "", err
	}

	s.logger.Debug().Str("input", inputPath).Str("output", outputPath).Strs("args", args).Msg("running ffmpeg")

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, s.binary, args...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		os.Remove(outputPath)
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return "", fmt.Errorf("ffmpeg: %w: %s", err, detail)
		}
		return "", fmt.Errorf("ffmpeg: %w", err)
	}

	if !s.keepInput && outputPath != inputPath {
		if err := os.Remove(inputPath); err != nil {
			s.logger.Warn().Err(err).Str("input", inputPath).Msg("failed to remove source after conversion")
		}
	}
	return outputPath, nil
}

// BuildFFmpegArgs builds the ffmpeg command arguments for audio extraction
func BuildFFmpegArgs(inputPath, outputPath, codec, quality string) ([]string, error) {
	enc, ok := audioEncoders[codec]
	if !ok {
		return nil, fmt.Errorf("unsupported audio codec: %s", codec)
	}

	args := []string{
		"-y",
		LogLevelFlag, LogLevelErrors,
		"-i", inputPath,
		NoVideoFlag,
		"-c:a", enc.encoder,
	}
	if !enc.lossless && quality != "" {
		args = append(args, "-b:a", strings.TrimSuffix(quality, BitrateSuffix)+BitrateSuffix)
	}
	return append(args, outputPath), nil
}

// OutputPath derives the converted file path from the input path
func OutputPath(inputPath, codec string) (string, error) {
	enc, ok := audioEncoders[codec]
	if !ok {
		return "", fmt.Errorf("unsupported audio codec: %s", codec)
	}
	ext := filepath.Ext(inputPath)
	return strings.TrimSuffix(inputPath, ext) + enc.extension, nil
}
