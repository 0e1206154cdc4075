package tui

import (
	"strings"
	"testing"

	"letta-cli/internal/transcript"
)

// ─── Welcome ─────────────────────────────────────────────────────────────────

func TestRenderWelcome(t *testing.T) {
	t.Run("no server shows login hint", func(t *testing.T) {
		out := renderWelcome("1.0.0", "", "")
		if !strings.Contains(out, "Letta CLI") {
			t.Errorf("title missing from welcome:\n%s", out)
		}
		if !strings.Contains(out, "/login") {
			t.Errorf("login hint missing when no server configured:\n%s", out)
		}
	})

	t.Run("server and agent shown", func(t *testing.T) {
		out := renderWelcome("1.0.0", "http://localhost:8283", "agent-42")
		if !strings.Contains(out, "http://localhost:8283") {
			t.Errorf("server missing from welcome:\n%s", out)
		}
		if !strings.Contains(out, "agent-42") {
			t.Errorf("agent missing from welcome:\n%s", out)
		}
	})

	t.Run("no agent set", func(t *testing.T) {
		out := renderWelcome("1.0.0", "http://localhost:8283", "")
		if !strings.Contains(out, "no agent set") {
			t.Errorf("placeholder missing when no agent configured:\n%s", out)
		}
	})
}

func TestRenderLogo(t *testing.T) {
	out := renderLogo()
	if out == "" {
		t.Fatal("logo should not be empty")
	}
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == "" {
			t.Error("logo should not contain blank edge lines")
		}
	}
}

// ─── Groups ──────────────────────────────────────────────────────────────────

func TestRenderGroup(t *testing.T) {
	t.Run("user", func(t *testing.T) {
		g := transcript.MessageGroup{Kind: transcript.GroupUser, Text: "hello"}
		out := renderGroup(g, true)
		if !strings.Contains(out, "❯") || !strings.Contains(out, "hello") {
			t.Errorf("user group = %q", out)
		}
	})

	t.Run("user with images", func(t *testing.T) {
		g := transcript.MessageGroup{
			Kind:   transcript.GroupUser,
			Text:   "look at this",
			Images: []transcript.Image{{MediaType: "image/png"}, {MediaType: "image/jpeg"}},
		}
		out := renderGroup(g, true)
		if !strings.Contains(out, "2 image(s)") {
			t.Errorf("image count missing: %q", out)
		}
	})

	t.Run("assistant with thought shown", func(t *testing.T) {
		g := transcript.MessageGroup{
			Kind:    transcript.GroupAssistant,
			Thought: "pondering",
			Text:    "the answer",
		}
		out := renderGroup(g, true)
		if !strings.Contains(out, "pondering") {
			t.Errorf("thought missing when showThoughts=true: %q", out)
		}
		if !strings.Contains(out, "the answer") {
			t.Errorf("response text missing: %q", out)
		}
	})

	t.Run("assistant with thought hidden", func(t *testing.T) {
		g := transcript.MessageGroup{
			Kind:    transcript.GroupAssistant,
			Thought: "pondering",
			Text:    "the answer",
		}
		out := renderGroup(g, false)
		if strings.Contains(out, "pondering") {
			t.Errorf("thought leaked when showThoughts=false: %q", out)
		}
		if !strings.Contains(out, "the answer") {
			t.Errorf("response text missing: %q", out)
		}
	})

	t.Run("action without outcome", func(t *testing.T) {
		g := transcript.MessageGroup{
			Kind:       transcript.GroupAction,
			ActionName: "web_search",
			ActionArgs: `{"query": "weather"}`,
		}
		out := renderGroup(g, true)
		if !strings.Contains(out, "⚙ web_search") {
			t.Errorf("action header missing: %q", out)
		}
		if !strings.Contains(out, "weather") {
			t.Errorf("args missing: %q", out)
		}
		if strings.Contains(out, "✓") {
			t.Errorf("outcome marker present without an outcome: %q", out)
		}
	})

	t.Run("action with outcome", func(t *testing.T) {
		g := transcript.MessageGroup{
			Kind:          transcript.GroupAction,
			ActionName:    "web_search",
			Outcome:       "3 results",
			OutcomeStatus: "success",
			HasOutcome:    true,
		}
		out := renderGroup(g, true)
		if !strings.Contains(out, "✓") || !strings.Contains(out, "3 results") {
			t.Errorf("outcome block missing: %q", out)
		}
	})

	t.Run("orphan outcome", func(t *testing.T) {
		g := transcript.MessageGroup{
			Kind:          transcript.GroupOrphanOutcome,
			Outcome:       "late result",
			OutcomeStatus: "success",
			HasOutcome:    true,
		}
		out := renderGroup(g, true)
		if !strings.Contains(out, "late result") {
			t.Errorf("orphan outcome text missing: %q", out)
		}
	})

	t.Run("control", func(t *testing.T) {
		g := transcript.MessageGroup{Kind: transcript.GroupControl, Text: "Summary: earlier chat"}
		out := renderGroup(g, true)
		if !strings.Contains(out, "◆") || !strings.Contains(out, "Summary: earlier chat") {
			t.Errorf("control group = %q", out)
		}
	})
}

func TestRenderOutcome(t *testing.T) {
	t.Run("error status uses cross", func(t *testing.T) {
		g := transcript.MessageGroup{OutcomeStatus: "error", Outcome: "boom", HasOutcome: true}
		out := renderOutcome(g)
		if !strings.Contains(out, "✗") {
			t.Errorf("error outcome should use ✗: %q", out)
		}
	})

	t.Run("long text truncated", func(t *testing.T) {
		g := transcript.MessageGroup{
			OutcomeStatus: "success",
			Outcome:       strings.Repeat("x", 1000),
			HasOutcome:    true,
		}
		out := renderOutcome(g)
		if !strings.Contains(out, "...") {
			t.Errorf("long outcome should be truncated: %d bytes", len(out))
		}
		if strings.Contains(out, strings.Repeat("x", 500)) {
			t.Error("truncated outcome still contains 500 consecutive chars")
		}
	})

	t.Run("empty text renders status only", func(t *testing.T) {
		g := transcript.MessageGroup{OutcomeStatus: "success", HasOutcome: true}
		out := renderOutcome(g)
		if !strings.Contains(out, "success") {
			t.Errorf("status missing: %q", out)
		}
		if strings.Contains(out, "\n") {
			t.Errorf("empty outcome should be a single line: %q", out)
		}
	})
}

// ─── Markdown ────────────────────────────────────────────────────────────────

func TestRenderMarkdownIndented(t *testing.T) {
	out := renderMarkdownIndented("line one\nline two", "  ")
	for _, line := range strings.Split(out, "\n") {
		if !strings.HasPrefix(line, "  ") {
			t.Errorf("line not prefixed: %q", line)
		}
	}
}

func TestRenderMarkdownLine(t *testing.T) {
	t.Run("headers", func(t *testing.T) {
		for _, input := range []string{"# H1", "## H2", "###### H6"} {
			state := &mdState{}
			out := renderMarkdownLine(input, state)
			if strings.Contains(out, "#") {
				t.Errorf("header marker should be stripped from %q, got %q", input, out)
			}
			if !strings.Contains(out, ansiHeading) {
				t.Errorf("header %q should use heading style: %q", input, out)
			}
		}
	})

	t.Run("code fence toggles state", func(t *testing.T) {
		state := &mdState{}
		open := renderMarkdownLine("```go", state)
		if !state.inCodeBlock {
			t.Fatal("opening fence should enter code block")
		}
		if !strings.Contains(open, "go") || !strings.Contains(open, "┌") {
			t.Errorf("opening fence = %q", open)
		}

		body := renderMarkdownLine("fmt.Println()", state)
		if !strings.Contains(body, "│") || !strings.Contains(body, "fmt.Println()") {
			t.Errorf("code body = %q", body)
		}

		closing := renderMarkdownLine("```", state)
		if state.inCodeBlock {
			t.Fatal("closing fence should exit code block")
		}
		if !strings.Contains(closing, "└") {
			t.Errorf("closing fence = %q", closing)
		}
	})

	t.Run("bullet list", func(t *testing.T) {
		out := renderMarkdownLine("- item", &mdState{})
		if !strings.Contains(out, "•") || !strings.Contains(out, "item") {
			t.Errorf("bullet = %q", out)
		}
	})

	t.Run("indented bullet keeps indent", func(t *testing.T) {
		out := renderMarkdownLine("    - nested", &mdState{})
		if !strings.Contains(out, "    ") || !strings.Contains(out, "•") {
			t.Errorf("nested bullet = %q", out)
		}
	})

	t.Run("numbered list", func(t *testing.T) {
		out := renderMarkdownLine("1. first", &mdState{})
		if !strings.Contains(out, "first") || !strings.Contains(out, ansiAccent) {
			t.Errorf("numbered item = %q", out)
		}
	})

	t.Run("horizontal rule", func(t *testing.T) {
		out := renderMarkdownLine("---", &mdState{})
		if !strings.Contains(out, "─") {
			t.Errorf("rule = %q", out)
		}
	})

	t.Run("blockquote", func(t *testing.T) {
		out := renderMarkdownLine("> quoted", &mdState{})
		if !strings.Contains(out, "│") || !strings.Contains(out, "quoted") {
			t.Errorf("blockquote = %q", out)
		}
	})
}

func TestRenderInlineMarkdown(t *testing.T) {
	t.Run("bold", func(t *testing.T) {
		out := renderInlineMarkdown("**bold**")
		if !strings.Contains(out, "bold") || !strings.Contains(out, ansiBold) {
			t.Errorf("bold = %q", out)
		}
	})

	t.Run("inline code", func(t *testing.T) {
		out := renderInlineMarkdown("`code`")
		if !strings.Contains(out, "code") || !strings.Contains(out, ansiWarning) {
			t.Errorf("code = %q", out)
		}
	})

	t.Run("link", func(t *testing.T) {
		out := renderInlineMarkdown("[here](https://example.com)")
		if !strings.Contains(out, "here") || !strings.Contains(out, "https://example.com") {
			t.Errorf("link = %q", out)
		}
	})

	t.Run("plain passthrough", func(t *testing.T) {
		if out := renderInlineMarkdown("no markdown here"); out != "no markdown here" {
			t.Errorf("plain text changed: %q", out)
		}
	})
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func TestIndentText(t *testing.T) {
	out := indentText("a\nb\nc", "> ", ". ")
	want := "> a\n. b\n. c"
	if out != want {
		t.Errorf("indentText = %q, want %q", out, want)
	}
}

func TestRenderBody(t *testing.T) {
	out := renderBody("first\nsecond", "    ")
	if out != "first\n    second" {
		t.Errorf("renderBody = %q", out)
	}
}
