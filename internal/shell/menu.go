package shell

import (
	"fmt"
	"io"
	"strings"
)

// Menu choices
const (
	ChoiceVideo    = "1"
	ChoiceAudio    = "2"
	ChoiceInfo     = "3"
	ChoicePlaylist = "4"
	ChoiceCustom   = "5"
	ChoiceExit     = "6"
)

// Menu text
const (
	MenuTitle     = "YouTube Video Downloader"
	MenuRuleWidth = 50
)

var menuItems = []string{
	ChoiceVideo + ". Download video (MP4)",
	ChoiceAudio + ". Download audio only (MP3)",
	ChoiceInfo + ". Get video information",
	ChoicePlaylist + ". Download playlist",
	ChoiceCustom + ". Custom download options",
	ChoiceExit + ". Exit",
}

// Prompts
const (
	PromptChoice          = "\nSelect an option (1-6): "
	PromptVideoURL        = "Enter YouTube video URL: "
	PromptPlaylistURL     = "Enter YouTube playlist URL: "
	PromptQualityTemplate = "Enter quality (best/worst/720p/480p/360p) [default: %s]: "
	PromptCustomQuality   = "Enter quality (best/worst/720p/etc.) [default: %s]: "
	PromptFormatTemplate  = "Enter format (mp4/webm/mkv) [default: %s]: "
)

// Messages
const (
	MsgGoodbye       = "Goodbye!"
	MsgInvalidChoice = "Invalid choice. Please try again."

	MsgDownloading         = "Downloading: %s"
	MsgDownloadingAudio    = "Downloading audio: %s"
	MsgDownloadingPlaylist = "Downloading playlist: %s"

	MsgVideoDone    = "Download completed successfully!"
	MsgAudioDone    = "Audio download completed successfully!"
	MsgPlaylistDone = "Playlist download completed successfully!"
	MsgSaved        = "Saved: %s"

	MsgErrorTemplate = "Error %s: %v"
)

// PrintMenu writes the banner and the numbered options
func PrintMenu(w io.Writer) {
	rule := strings.Repeat("=", MenuRuleWidth)
	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, MenuTitle)
	fmt.Fprintln(w, rule)
	for _, item := range menuItems {
		fmt.Fprintln(w, item)
	}
}
