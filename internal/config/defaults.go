package config

const (
	defaultDownloadDir       = "./downloads"
	defaultQuality           = "best"
	defaultFormat            = "mp4"
	defaultAudioCodec        = "mp3"
	defaultAudioQuality      = "192"
	defaultEngine            = EngineYTDLP
	defaultYTDLPBinary       = "yt-dlp"
	defaultFFmpegBinary      = "ffmpeg"
	defaultTimeoutSeconds    = 0
	defaultRetries           = 0
	defaultRetryDelaySeconds = 2
	defaultUserAgent         = "ytdl-shell/1.0"
	defaultInfoCacheSize     = 64
	defaultInfoCacheTTL      = 600
	defaultLogFormat         = LogFormatConsole
	defaultLogLevel          = "warn"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DownloadDir: defaultDownloadDir,
		},
		Defaults: Defaults{
			Quality:      defaultQuality,
			Format:       defaultFormat,
			AudioCodec:   defaultAudioCodec,
			AudioQuality: defaultAudioQuality,
		},
		Engine: Engine{
			Name:              defaultEngine,
			YTDLPBinary:       defaultYTDLPBinary,
			FFmpegBinary:      defaultFFmpegBinary,
			TimeoutSeconds:    defaultTimeoutSeconds,
			Retries:           defaultRetries,
			RetryDelaySeconds: defaultRetryDelaySeconds,
			UserAgent:         defaultUserAgent,
		},
		Cache: Cache{
			InfoSize:       defaultInfoCacheSize,
			InfoTTLSeconds: defaultInfoCacheTTL,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
