package display

import (
	"strings"
	"testing"
)

func TestMarkdown(t *testing.T) {
	t.Run("plain text preserved", func(t *testing.T) {
		out := Markdown("just a sentence", 80)
		if !strings.Contains(out, "just a sentence") {
			t.Errorf("Markdown() = %q, missing input text", out)
		}
	})

	t.Run("heading text preserved", func(t *testing.T) {
		out := Markdown("# Disk Report\n\nall good", 80)
		if !strings.Contains(out, "Disk Report") {
			t.Errorf("Markdown() = %q, missing heading text", out)
		}
		if !strings.Contains(out, "all good") {
			t.Errorf("Markdown() = %q, missing body text", out)
		}
	})

	t.Run("no trailing blank lines", func(t *testing.T) {
		out := Markdown("hello", 80)
		if strings.HasSuffix(out, "\n") {
			t.Errorf("Markdown() should trim trailing newlines, got %q", out)
		}
	})
}
