// Package notify renders user-facing CLI messages with consistent symbols
// and colors. Every message type maps to a fixed symbol so command output
// stays scannable: errors (✗), warnings (⚠), activities (►), generated
// files (✚), successes (✔), info (ℹ), and emoji-prefixed stage titles.
package notify

import (
	"fmt"
	"io"
	"os"
	"strings"

	fcolor "github.com/fatih/color"

	"github.com/slipway-dev/slipway/pkg/ui/timer"
)

// MessageType selects the styling (symbol and color) of a message.
type MessageType int

const (
	// ErrorType renders red with a ✗ symbol.
	ErrorType MessageType = iota
	// WarningType renders yellow with a ⚠ symbol.
	WarningType
	// ActivityType renders plain with a ► symbol.
	ActivityType
	// GenerateType renders plain with a ✚ symbol, used for written files.
	GenerateType
	// SuccessType renders green with a ✔ symbol.
	SuccessType
	// InfoType renders blue with an ℹ symbol.
	InfoType
	// TitleType renders bold with a leading emoji instead of a symbol.
	TitleType
)

// Message is a single notification to display.
type Message struct {
	// Type selects symbol and color.
	Type MessageType
	// Content is the message text, optionally a format string when Args is set.
	Content string
	// Args are format arguments applied to Content.
	Args []any
	// Emoji overrides the leading icon for TitleType messages.
	Emoji string
	// Timer, when set on a SuccessType message, appends a timing block.
	Timer timer.Timer
	// Writer receives the output. Defaults to os.Stdout when nil.
	Writer io.Writer
}

// Errorf writes an error message.
func Errorf(writer io.Writer, format string, args ...any) {
	WriteMessage(Message{Type: ErrorType, Content: format, Args: args, Writer: writer})
}

// Warningf writes a warning message.
func Warningf(writer io.Writer, format string, args ...any) {
	WriteMessage(Message{Type: WarningType, Content: format, Args: args, Writer: writer})
}

// Activityf writes an activity message.
func Activityf(writer io.Writer, format string, args ...any) {
	WriteMessage(Message{Type: ActivityType, Content: format, Args: args, Writer: writer})
}

// Generatef writes a file generation message.
func Generatef(writer io.Writer, format string, args ...any) {
	WriteMessage(Message{Type: GenerateType, Content: format, Args: args, Writer: writer})
}

// Successf writes a success message.
func Successf(writer io.Writer, format string, args ...any) {
	WriteMessage(Message{Type: SuccessType, Content: format, Args: args, Writer: writer})
}

// SuccessWithTimerf writes a success message followed by a timing block.
func SuccessWithTimerf(writer io.Writer, tmr timer.Timer, format string, args ...any) {
	WriteMessage(Message{Type: SuccessType, Content: format, Args: args, Timer: tmr, Writer: writer})
}

// Infof writes an informational message.
func Infof(writer io.Writer, format string, args ...any) {
	WriteMessage(Message{Type: InfoType, Content: format, Args: args, Writer: writer})
}

// Titlef writes a bold stage title prefixed with the given emoji.
func Titlef(writer io.Writer, emoji, format string, args ...any) {
	WriteMessage(Message{
		Type:    TitleType,
		Content: fmt.Sprintf(format, args...),
		Emoji:   emoji,
		Writer:  writer,
	})
}

// WriteMessage renders a message according to its type. Multi-line content is
// indented so continuation lines align under the first line's symbol. For
// SuccessType messages carrying a Timer, a timing block follows the message.
//
// Prefer the convenience functions (Errorf, Successf, ...) for simple cases.
func WriteMessage(msg Message) {
	writer := msg.Writer
	if writer == nil {
		writer = os.Stdout
	}

	content := msg.Content
	if len(msg.Args) > 0 {
		content = fmt.Sprintf(msg.Content, msg.Args...)
	}

	style := styleFor(msg.Type)
	content = indentContinuationLines(content, style.symbol)

	if msg.Type == TitleType {
		emoji := msg.Emoji
		if emoji == "" {
			emoji = "ℹ️"
		}

		_, err := style.color.Fprintf(writer, "%s %s\n", emoji, content)
		reportWriteError(err)

		return
	}

	_, err := style.color.Fprintf(writer, "%s%s\n", style.symbol, content)
	reportWriteError(err)

	if msg.Type == SuccessType && msg.Timer != nil {
		total, stage := msg.Timer.GetTiming()

		_, err = style.color.Fprintf(writer, "⏲ current: %s\n", stage.String())
		reportWriteError(err)
		_, err = style.color.Fprintf(writer, "  total:  %s\n", total.String())
		reportWriteError(err)
	}
}

// style pairs a message symbol with its color.
type style struct {
	symbol string
	color  *fcolor.Color
}

func styleFor(msgType MessageType) style {
	switch msgType {
	case ErrorType:
		return style{symbol: "✗ ", color: fcolor.New(fcolor.FgRed)}
	case WarningType:
		return style{symbol: "⚠ ", color: fcolor.New(fcolor.FgYellow)}
	case ActivityType:
		return style{symbol: "► ", color: fcolor.New(fcolor.Reset)}
	case GenerateType:
		return style{symbol: "✚ ", color: fcolor.New(fcolor.Reset)}
	case SuccessType:
		return style{symbol: "✔ ", color: fcolor.New(fcolor.FgGreen)}
	case InfoType:
		return style{symbol: "ℹ ", color: fcolor.New(fcolor.FgBlue)}
	case TitleType:
		return style{symbol: "", color: fcolor.New(fcolor.Reset, fcolor.Bold)}
	default:
		return style{symbol: "", color: fcolor.New(fcolor.Reset)}
	}
}

// indentContinuationLines aligns lines after the first under the symbol width.
func indentContinuationLines(content, symbol string) string {
	if symbol == "" || !strings.Contains(content, "\n") {
		return content
	}

	indent := strings.Repeat(" ", len([]rune(symbol)))
	lines := strings.Split(content, "\n")

	for i := 1; i < len(lines); i++ {
		if lines[i] != "" {
			lines[i] = indent + lines[i]
		}
	}

	return strings.Join(lines, "\n")
}

// reportWriteError surfaces print failures on stderr without failing the command.
func reportWriteError(err error) {
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "notify: failed to print message: %v\n", err)
	}
}
