package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// InstallInstructions is printed when the yt-dlp executable is missing
const InstallInstructions = "yt-dlp is not installed. Please install it using:\npip install yt-dlp"

// Requirement defines an external executable ytdl-shell relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Path        string
	Detail      string
}

// Requirements lists the executables needed by the selected engine. yt-dlp is
// required only by the yt-dlp engine; ffmpeg is optional since only audio
// extraction uses it.
func Requirements(engineName, ytdlpBinary, ffmpegBinary string) []Requirement {
	reqs := make([]Requirement, 0, 2)
	if engineName != "native" {
		reqs = append(reqs, Requirement{
			Name:        "yt-dlp",
			Command:     ytdlpBinary,
			Description: "Media extraction and download engine",
		})
	}
	reqs = append(reqs, Requirement{
		Name:        "ffmpeg",
		Command:     ffmpegBinary,
		Description: "Audio extraction and container merging",
		Optional:    true,
	})
	return reqs
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		path, err := exec.LookPath(cmd)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		status.Path = path
		results = append(results, status)
	}
	return results
}

// MissingRequired returns the unavailable, non-optional dependencies.
func MissingRequired(statuses []Status) []Status {
	var missing []Status
	for _, s := range statuses {
		if !s.Available && !s.Optional {
			missing = append(missing, s)
		}
	}
	return missing
}
