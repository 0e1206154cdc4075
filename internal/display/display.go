package display

import (
	"fmt"
	"os"
	"strings"
	"time"

	"letta-cli/internal/transcript"
)

const (
	Reset   = "\033[0m"
	Bold    = "\033[1m"
	Dim     = "\033[2m"
	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Blue    = "\033[34m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
	White   = "\033[37m"
	Gray    = "\033[90m"
)

func Header(text string) {
	fmt.Printf("\n%s%s%s\n", Bold+Cyan, text, Reset)
	fmt.Println(strings.Repeat("─", min(len(text)+4, 80)))
}

func SubHeader(text string) {
	fmt.Printf("%s%s%s\n", Bold+White, text, Reset)
}

func Success(text string) {
	fmt.Printf("%s✓%s %s\n", Green, Reset, text)
}

func Error(text string) {
	fmt.Fprintf(os.Stderr, "%s✗%s %s\n", Red, Reset, text)
}

func Warn(text string) {
	fmt.Printf("%s!%s %s\n", Yellow, Reset, text)
}

func Info(label, value string) {
	fmt.Printf("  %s%-20s%s %s\n", Dim, label, Reset, value)
}

func Spinner(text string) {
	fmt.Printf("\r%s⟳%s %s", Yellow, Reset, text)
}

func ClearLine() {
	fmt.Print("\r\033[K")
}

// Group kind labels for transcript output
func GroupKindLabel(k transcript.GroupKind) string {
	labels := map[transcript.GroupKind]string{
		transcript.GroupUser:          Cyan + "You" + Reset,
		transcript.GroupAssistant:     Green + "Agent" + Reset,
		transcript.GroupAction:        Yellow + "⚙ Tool" + Reset,
		transcript.GroupOrphanOutcome: Gray + "⚙ Tool result" + Reset,
		transcript.GroupControl:       Magenta + "◆ System" + Reset,
	}
	if label, ok := labels[k]; ok {
		return label
	}
	return Gray + k.String() + Reset
}

// ToolStatusLabel colors a tool return status.
func ToolStatusLabel(status string) string {
	labels := map[string]string{
		"success": Green + "✓ success" + Reset,
		"error":   Red + "✗ error" + Reset,
	}
	if label, ok := labels[status]; ok {
		return label
	}
	return status
}

// RenderGroup formats one message group for non-TTY output. showThoughts
// controls whether reasoning text is included.
func RenderGroup(g transcript.MessageGroup, showThoughts bool) string {
	var b strings.Builder

	ts := ""
	if !g.CreatedAt.IsZero() {
		ts = Dim + g.CreatedAt.Local().Format("15:04:05") + Reset + " "
	}
	fmt.Fprintf(&b, "%s%s\n", ts, GroupKindLabel(g.Kind))

	if showThoughts && g.Thought != "" {
		b.WriteString(indent(Dim+g.Thought+Reset, "  "))
		b.WriteByte('\n')
	}

	switch g.Kind {
	case transcript.GroupAction:
		fmt.Fprintf(&b, "  %s%s%s\n", Bold, g.ActionName, Reset)
		if g.ActionArgs != "" {
			b.WriteString(indent(g.ActionArgs, "    "))
			b.WriteByte('\n')
		}
		if g.HasOutcome {
			fmt.Fprintf(&b, "  %s\n", ToolStatusLabel(g.OutcomeStatus))
			if g.Outcome != "" {
				b.WriteString(indent(g.Outcome, "    "))
				b.WriteByte('\n')
			}
		}
	case transcript.GroupOrphanOutcome:
		fmt.Fprintf(&b, "  %s\n", ToolStatusLabel(g.OutcomeStatus))
		if g.Outcome != "" {
			b.WriteString(indent(g.Outcome, "    "))
			b.WriteByte('\n')
		}
	default:
		if g.Text != "" {
			text := g.Text
			if g.Kind == transcript.GroupAssistant {
				text = Markdown(text, 96)
			}
			b.WriteString(indent(text, "  "))
			b.WriteByte('\n')
		}
		if len(g.Images) > 0 {
			fmt.Fprintf(&b, "  %s[%d image(s) attached]%s\n", Dim, len(g.Images), Reset)
		}
	}

	return b.String()
}

func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

func FormatTime(ts string) string {
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		t, err = time.Parse(time.RFC3339, ts)
		if err != nil {
			return ts
		}
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
