package output

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Sink receives human-readable progress narration, one line per call.
// A nil Sink is valid and discards everything.
type Sink func(line string)

// Emit sends a formatted line to the sink
func (s Sink) Emit(format string, args ...interface{}) {
	if s == nil {
		return
	}
	if len(args) == 0 {
		s(format)
		return
	}
	s(fmt.Sprintf(format, args...))
}

// Discard is a sink that drops every line
func Discard(string) {}

// Recorder collects narration lines, mainly for tests and buffered UIs
type Recorder struct {
	mu    sync.Mutex
	lines []string
}

// Sink returns a sink appending to the recorder
func (r *Recorder) Sink() Sink {
	return func(line string) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.lines = append(r.lines, line)
	}
}

// Lines returns a copy of the recorded lines
func (r *Recorder) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.lines...)
}

// GetLogFilePath returns the path to the log file.
// If BRANCHSYNC_LOG_FILE is set, uses that path.
// Otherwise, uses ~/.branchsync/logs/branchsync.log
func GetLogFilePath() string {
	if customPath := os.Getenv("BRANCHSYNC_LOG_FILE"); customPath != "" {
		return customPath
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "branchsync.log"
	}

	return filepath.Join(homeDir, ".branchsync", "logs", "branchsync.log")
}
