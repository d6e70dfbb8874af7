package model

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
)

// NotAvailable is shown for metadata fields the engine did not report
const NotAvailable = "N/A"

// VideoInfo is a read-only metadata snapshot of a single video.
// String fields default to NotAvailable; numeric fields are nil when unknown.
type VideoInfo struct {
	Title      string   `json:"title"`
	Duration   *float64 `json:"duration"`
	Uploader   string   `json:"uploader"`
	ViewCount  *int64   `json:"view_count"`
	UploadDate string   `json:"upload_date"`
}

// DurationString returns the duration in whole seconds, or NotAvailable
func (v *VideoInfo) DurationString() string {
	if v.Duration == nil {
		return NotAvailable
	}
	return strconv.FormatFloat(*v.Duration, 'f', -1, 64)
}

// ClockDuration returns the duration formatted as hh:mm:ss or mm:ss
func (v *VideoInfo) ClockDuration() string {
	if v.Duration == nil || *v.Duration <= 0 {
		return NotAvailable
	}
	return FormatClock(int(*v.Duration))
}

// ViewCountString returns the raw view count, or NotAvailable
func (v *VideoInfo) ViewCountString() string {
	if v.ViewCount == nil {
		return NotAvailable
	}
	return strconv.FormatInt(*v.ViewCount, 10)
}

// HumanViewCount returns the view count with thousands separators
func (v *VideoInfo) HumanViewCount() string {
	if v.ViewCount == nil {
		return NotAvailable
	}
	return humanize.Comma(*v.ViewCount)
}

// FormatClock formats seconds as hh:mm:ss, or mm:ss under an hour
func FormatClock(totalSeconds int) string {
	if totalSeconds <= 0 {
		return "00:00"
	}

	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
