package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// File extensions left behind by unfinished downloads
var (
	SkippedExtensions = []string{".part", ".ytdl", ".temp", ".tmp"}
)

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	info, err := os.Stat(dirPath)
	if os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s exists and is not a directory", dirPath)
	}
	return nil
}

// DirSnapshot records the files present under a directory tree
type DirSnapshot map[string]struct{}

// SnapshotDir lists every regular file below root. A missing root yields an
// empty snapshot.
func SnapshotDir(root string) (DirSnapshot, error) {
	snap := make(DirSnapshot)
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		snap[path] = struct{}{}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", root, err)
	}
	return snap, nil
}

// NewFiles returns files under root that are not in before, skipping
// partial download artifacts. The result is sorted.
func NewFiles(root string, before DirSnapshot) ([]string, error) {
	after, err := SnapshotDir(root)
	if err != nil {
		return nil, err
	}
	var added []string
	for path := range after {
		if _, seen := before[path]; seen {
			continue
		}
		if isPartialFile(path) || filepath.Base(path) == LockFileName {
			continue
		}
		added = append(added, path)
	}
	sort.Strings(added)
	return added, nil
}

// isPartialFile checks if a path looks like an unfinished download artifact
func isPartialFile(path string) bool {
	for _, ext := range SkippedExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// SafeDirName replaces characters that cannot appear in a directory name
func SafeDirName(name string) string {
	replacer := strings.NewReplacer(
		"/", "-",
		"\\", "-",
		":", "-",
		"*", "-",
		"?", "",
		"\"", "",
		"<", "",
		">", "",
		"|", "",
	)
	name = strings.TrimSpace(replacer.Replace(name))
	name = strings.Trim(name, ".")
	if name == "" {
		return DefaultPlaylistTitle
	}
	return name
}
