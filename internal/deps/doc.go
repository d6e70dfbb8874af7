// Package deps checks that the external executables ytdl-shell drives are
// installed.
package deps
