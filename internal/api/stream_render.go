package api

import (
	"fmt"
	"io"
	"strings"

	"letta-cli/internal/transcript"
)

// StreamRenderer prints a live stream as it arrives, for one-shot (non-TUI)
// use. It classifies each event and renders role transitions as it goes:
// reasoning dim, tool calls as labeled blocks, assistant text through the
// markdown printer. Pass it to StreamMessage as the callback.
type StreamRenderer struct {
	w            io.Writer
	showThoughts bool

	md mdPrinter

	lastRole   transcript.Role
	thoughtUp  bool // thought header printed for the current run
	chatUp     bool // response header printed for the current run
	actionName string
	argBuf     strings.Builder

	// FinalAnswer accumulates the assistant text across the whole stream.
	FinalAnswer string
	StopReason  string
}

func NewStreamRenderer(w io.Writer, showThoughts bool) *StreamRenderer {
	r := &StreamRenderer{w: w, showThoughts: showThoughts, lastRole: transcript.RoleIgnored}
	r.md.w = w
	return r
}

// HandleEvent is the StreamCallback for StreamMessage.
func (r *StreamRenderer) HandleEvent(msg transcript.Message) {
	f := transcript.Classify(msg)

	if f.Role != r.lastRole {
		r.closeRun(f.Role)
	}

	switch f.Role {
	case transcript.RoleThought:
		if !r.showThoughts {
			break
		}
		if !r.thoughtUp {
			fmt.Fprintf(r.w, "\n  %s🧠 Thinking%s\n  ", ansiMagenta, ansiReset)
			r.thoughtUp = true
		}
		fmt.Fprintf(r.w, "%s%s%s", ansiDim, strings.ReplaceAll(f.Text, "\n", "\n  "), ansiReset)

	case transcript.RoleAction:
		if f.ActionName != "" && r.actionName == "" {
			r.actionName = f.ActionName
		}
		r.argBuf.WriteString(f.ArgsDelta)

	case transcript.RoleOutcome:
		r.printOutcome(f.Text, f.Status)

	case transcript.RoleResponse:
		if !r.chatUp {
			fmt.Fprintf(r.w, "\n  %s💬 Response%s\n", ansiGreen, ansiReset)
			r.chatUp = true
		}
		r.md.printMarkdown(f.Text)
		r.FinalAnswer += f.Text

	case transcript.RoleBoundary:
		if msg.StopReason != "" {
			r.StopReason = msg.StopReason
		}
		r.Flush()
	}

	r.lastRole = f.Role
}

// closeRun finishes whatever block the previous role had open before a
// different role starts printing.
func (r *StreamRenderer) closeRun(next transcript.Role) {
	if r.thoughtUp {
		fmt.Fprintln(r.w)
		r.thoughtUp = false
	}
	if r.chatUp && next != transcript.RoleResponse {
		r.md.flush()
		fmt.Fprintln(r.w)
		r.chatUp = false
	}
	if r.actionName != "" && next != transcript.RoleAction {
		r.printAction()
	}
}

func (r *StreamRenderer) printAction() {
	fmt.Fprintf(r.w, "\n  %s⚙ %s%s\n", ansiYellow, r.actionName, ansiReset)
	if args := transcript.FormatArgs(r.argBuf.String()); args != "" {
		fmt.Fprintf(r.w, "%s%s%s\n", ansiDim, indentLines(args, "     "), ansiReset)
	}
	r.actionName = ""
	r.argBuf.Reset()
}

func (r *StreamRenderer) printOutcome(text, status string) {
	label := "✓"
	color := ansiGreen
	if status == "error" {
		label = "✗"
		color = "\033[31m"
	}
	fmt.Fprintf(r.w, "  %s%s %s%s\n", color, label, status, ansiReset)
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if len(text) > 400 {
		text = text[:397] + "..."
	}
	fmt.Fprintf(r.w, "%s%s%s\n", ansiGray, indentLines(text, "     "), ansiReset)
}

// Flush closes any open block. Call after the stream ends, whether or not
// a stop reason arrived.
func (r *StreamRenderer) Flush() {
	r.closeRun(transcript.RoleIgnored)
}

func indentLines(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}
