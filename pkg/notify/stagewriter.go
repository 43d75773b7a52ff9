package notify

import (
	"fmt"
	"io"
	"sync"
	"unicode"
	"unicode/utf8"
)

// StageSeparatingWriter inserts a blank line before each stage title so
// multi-stage command output reads as separated blocks. A stage title is any
// line starting with a pictographic emoji (🚢, 📦, ...); the message symbols
// written by this package (►, ✔, ✗, ⚠, ℹ, ✚, ⏲) are not treated as titles.
//
// Wrap a command's output writer once and all WriteMessage calls through it
// get stage separation without per-command bookkeeping:
//
//	cmd.SetOut(notify.NewStageSeparatingWriter(cmd.OutOrStdout()))
type StageSeparatingWriter struct {
	underlying io.Writer
	hasWritten bool
	mu         sync.Mutex
}

// NewStageSeparatingWriter wraps the given writer with stage separation.
func NewStageSeparatingWriter(underlying io.Writer) *StageSeparatingWriter {
	return &StageSeparatingWriter{underlying: underlying}
}

// Write implements io.Writer.
func (w *StageSeparatingWriter) Write(data []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(data) == 0 {
		return 0, nil
	}

	if w.hasWritten && isStageTitle(data) {
		_, err := w.underlying.Write([]byte{'\n'})
		if err != nil {
			return 0, fmt.Errorf("write stage separator: %w", err)
		}
	}

	written, err := w.underlying.Write(data)
	if written > 0 {
		w.hasWritten = true
	}

	if err != nil {
		return written, fmt.Errorf("write stage content: %w", err)
	}

	return written, nil
}

// Reset makes the next title render without a leading separator.
func (w *StageSeparatingWriter) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.hasWritten = false
}

// isStageTitle reports whether data begins with a pictographic emoji.
func isStageTitle(data []byte) bool {
	firstRune, _ := utf8.DecodeRune(data)
	if firstRune == utf8.RuneError {
		return false
	}

	// Message symbols share the Unicode So category with emojis but mark
	// regular lines, not titles.
	switch firstRune {
	case '►', '✔', '✗', '⚠', 'ℹ', '✚', '⏲':
		return false
	}

	return unicode.Is(unicode.So, firstRune)
}
