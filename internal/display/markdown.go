package display

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// Markdown renders agent-authored markdown for terminal output. Width 0
// keeps the renderer's default wrap. Any renderer failure falls back to
// the raw text so content is never lost.
func Markdown(text string, width int) string {
	opts := []glamour.TermRendererOption{
		glamour.WithAutoStyle(),
		glamour.WithEmoji(),
	}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.Trim(out, "\n")
}
