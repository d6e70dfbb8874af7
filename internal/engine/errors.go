package engine

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

var (
	// ErrNotFound is returned when the engine executable cannot be located
	ErrNotFound = errors.New("engine executable not found")

	// ErrUnsupported is returned when an engine does not offer an operation
	ErrUnsupported = errors.New("operation not supported by engine")
)

// Error wraps a failed engine invocation
type Error struct {
	Engine    string
	Op        string
	URL       string
	Transient bool
	Detail    string // trimmed diagnostic output, if any
	Err       error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Engine)
	b.WriteString(" ")
	b.WriteString(e.Op)
	if e.URL != "" {
		fmt.Fprintf(&b, " %s", e.URL)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if e.Detail != "" {
		fmt.Fprintf(&b, " (%s)", e.Detail)
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err is an engine failure worth retrying.
// Cancellation is never transient.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var engineErr *Error
	if errors.As(err, &engineErr) {
		return engineErr.Transient
	}
	return false
}

// transientMarkers are substrings of engine diagnostics that indicate a
// network-level failure rather than a problem with the URL or media.
var transientMarkers = []string{
	"timed out",
	"timeout",
	"connection reset",
	"connection refused",
	"temporary failure in name resolution",
	"network is unreachable",
	"no route to host",
	"http error 429",
	"http error 500",
	"http error 502",
	"http error 503",
	"http error 504",
	"too many requests",
	"eof occurred in violation of protocol",
}

// classify decides whether a failure is transient from the error chain and the
// engine's diagnostic output.
func classify(err error, detail string) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, ErrNotFound) || errors.Is(err, ErrUnsupported) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.IsTemporary || dnsErr.IsTimeout
	}

	text := strings.ToLower(err.Error() + "\n" + detail)
	for _, marker := range transientMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

// newError builds a classified *Error
func newError(engine, op, url string, err error, output string) *Error {
	detail := lastErrorLine(output)
	return &Error{
		Engine:    engine,
		Op:        op,
		URL:       url,
		Transient: classify(err, output),
		Detail:    detail,
		Err:       err,
	}
}

// lastErrorLine picks the most useful line of engine stderr: the last line
// starting with "ERROR:", falling back to the last non-empty line.
func lastErrorLine(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	var fallback string
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "ERROR:") {
			return strings.TrimSpace(strings.TrimPrefix(line, "ERROR:"))
		}
		if fallback == "" {
			fallback = line
		}
	}
	return fallback
}
