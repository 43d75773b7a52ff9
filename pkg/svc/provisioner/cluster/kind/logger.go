package kindprovisioner

import (
	"fmt"
	"io"
	"strings"

	"sigs.k8s.io/kind/pkg/log"
)

// streamLogger bridges kind's log.Logger to an io.Writer so cluster progress
// shows up in the command output. Only info-level messages (V(0)) are enabled
// to avoid verbose debug output.
type streamLogger struct {
	writer io.Writer
}

func (l *streamLogger) Warn(message string) {
	l.write(message)
}

func (l *streamLogger) Warnf(format string, args ...any) {
	l.write(fmt.Sprintf(format, args...))
}

func (l *streamLogger) Error(message string) {
	l.write(message)
}

func (l *streamLogger) Errorf(format string, args ...any) {
	l.write(fmt.Sprintf(format, args...))
}

func (l *streamLogger) Info(message string) {
	l.write(message)
}

func (l *streamLogger) Infof(format string, args ...any) {
	l.write(fmt.Sprintf(format, args...))
}

func (l *streamLogger) Enabled() bool {
	return true
}

func (l *streamLogger) V(level log.Level) log.InfoLogger {
	if level > 0 {
		return noopInfoLogger{}
	}

	return l
}

func (l *streamLogger) write(message string) {
	if l == nil || l.writer == nil {
		return
	}

	if message == "" {
		_, _ = io.WriteString(l.writer, "\n")

		return
	}

	// Kind emits progress spinners with carriage returns; pass those through
	// untouched so the animation renders.
	if strings.ContainsRune(message, '\r') || strings.HasSuffix(message, "\n") {
		_, _ = io.WriteString(l.writer, message)

		return
	}

	_, _ = io.WriteString(l.writer, message+"\n")
}

// noopInfoLogger discards verbose and debug messages (V(1) and higher).
type noopInfoLogger struct{}

func (noopInfoLogger) Info(string)          {}
func (noopInfoLogger) Infof(string, ...any) {}
func (noopInfoLogger) Enabled() bool        { return false }
