package tui

import (
	"fmt"
	"strings"

	"letta-cli/internal/transcript"
)

// ─── Welcome Screen ─────────────────────────────────────────────────────────

func renderWelcome(version, server, agentID string) string {
	titleLine := logoTitleStyle.Render("Letta CLI") + " " + versionStyle.Render("v"+version)

	var infoLine string
	if server == "" {
		infoLine = welcomeHintStyle.Render("Type /login <url> to get started")
	} else {
		serverDisplay := server
		if len(serverDisplay) > 40 {
			serverDisplay = serverDisplay[:37] + "..."
		}
		agentDisplay := dimStyle.Render("no agent set")
		if agentID != "" {
			agentDisplay = agentID
			if len(agentDisplay) > 36 {
				agentDisplay = agentDisplay[:33] + "..."
			}
		}
		infoLine = welcomeInfoLabel.Render(fmt.Sprintf("%s · %s", serverDisplay, agentDisplay))
	}

	return fmt.Sprintf("\n%s\n\n%s\n%s\n", renderLogo(), titleLine, infoLine)
}

const logoArt = `
    ██╗     ███████╗████████╗████████╗ █████╗
    ██║     ██╔════╝╚══██╔══╝╚══██╔══╝██╔══██╗
    ██║     █████╗     ██║      ██║   ███████║
    ██║     ██╔══╝     ██║      ██║   ██╔══██║
    ███████╗███████╗   ██║      ██║   ██║  ██║
    ╚══════╝╚══════╝   ╚═╝      ╚═╝   ╚═╝  ╚═╝
`

func renderLogo() string {
	lines := trimEmptyEdgeLines(strings.Split(logoArt, "\n"))

	minIndent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := countLeadingSpaces(line)
		if minIndent == -1 || indent < minIndent {
			minIndent = indent
		}
	}

	for i, line := range lines {
		line = strings.TrimRight(line, " ")
		if minIndent > 0 && len(line) >= minIndent {
			line = line[minIndent:]
		}
		lines[i] = logoStyle.Render(line)
	}

	return strings.Join(lines, "\n")
}

func trimEmptyEdgeLines(lines []string) []string {
	start := 0
	for start < len(lines) && strings.TrimSpace(lines[start]) == "" {
		start++
	}

	end := len(lines)
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return lines[start:end]
}

func countLeadingSpaces(s string) int {
	i := 0
	for i < len(s) && s[i] == ' ' {
		i++
	}
	return i
}

// ─── Message groups ─────────────────────────────────────────────────────────

// renderGroup formats one settled message group as a styled block for
// tea.Println.
func renderGroup(g transcript.MessageGroup, showThoughts bool) string {
	var b strings.Builder

	switch g.Kind {
	case transcript.GroupUser:
		b.WriteString(userPromptStyle.Render("  ❯ ") + renderBody(g.Text, "    "))
		if len(g.Images) > 0 {
			b.WriteString("\n" + dimStyle.Render(fmt.Sprintf("    [%d image(s) attached]", len(g.Images))))
		}

	case transcript.GroupAssistant:
		if showThoughts && g.Thought != "" {
			b.WriteString(thoughtStyle.Render(indentText(g.Thought, "  ∴ ", "    ")))
			b.WriteString("\n")
		}
		b.WriteString(renderMarkdownIndented(g.Text, "  "))

	case transcript.GroupAction:
		if showThoughts && g.Thought != "" {
			b.WriteString(thoughtStyle.Render(indentText(g.Thought, "  ∴ ", "    ")))
			b.WriteString("\n")
		}
		b.WriteString(toolHeaderStyle.Render("  ⚙ " + g.ActionName))
		if g.ActionArgs != "" {
			b.WriteString("\n" + toolArgsStyle.Render(indentText(g.ActionArgs, "    ", "    ")))
		}
		if g.HasOutcome {
			b.WriteString("\n" + renderOutcome(g))
		}

	case transcript.GroupOrphanOutcome:
		b.WriteString(renderOutcome(g))

	case transcript.GroupControl:
		b.WriteString(controlStyle.Render("  ◆ ") + dimStyle.Render(g.Text))
	}

	return b.String()
}

// renderOutcome formats the outcome block of an action (or an orphan
// outcome). Long tool returns are truncated; the full text stays in the
// transcript's durable state, this is only the inline view.
func renderOutcome(g transcript.MessageGroup) string {
	icon := successMsgStyle.Render("  ✓")
	if g.OutcomeStatus == "error" {
		icon = errorMsgStyle.Render("  ✗")
	}

	line := icon + " " + dimStyle.Render(g.OutcomeStatus)
	text := strings.TrimSpace(g.Outcome)
	if text == "" {
		return line
	}
	if len(text) > 400 {
		text = text[:397] + "..."
	}
	return line + "\n" + toolReturnStyle.Render(indentText(text, "    ", "    "))
}

// renderBody renders user/control text with continuation-line indentation.
func renderBody(text, contPrefix string) string {
	lines := strings.Split(text, "\n")
	for i := 1; i < len(lines); i++ {
		lines[i] = contPrefix + lines[i]
	}
	return strings.Join(lines, "\n")
}

// ─── Markdown ───────────────────────────────────────────────────────────────

// mdState tracks state across lines (e.g., inside code block)
type mdState struct {
	inCodeBlock bool
}

const (
	ansiReset     = "\033[0m"
	ansiBold      = "\033[1m"
	ansiItalic    = "\033[3m"
	ansiUnderline = "\033[4m"

	ansiHeading = "\033[1;97m"     // bold bright white — all header levels
	ansiInfo    = "\033[38;5;39m"  // cyan 39    — links
	ansiWarning = "\033[38;5;220m" // yellow 220 — inline code
	ansiSuccess = "\033[38;5;78m"  // green 78   — code borders
	ansiAccent  = "\033[38;5;73m"  // teal 73    — │, ──, numbered dots
	ansiBody    = "\033[38;5;252m" // light 252  — body text
)

// renderMarkdownIndented renders a markdown block with every output line
// prefixed, for transcript indentation.
func renderMarkdownIndented(content, prefix string) string {
	lines := strings.Split(content, "\n")
	state := &mdState{}
	var result []string
	for _, line := range lines {
		result = append(result, prefix+renderMarkdownLine(line, state))
	}
	return strings.Join(result, "\n")
}

// renderMarkdownLine renders a single line of markdown to styled terminal
// output.
func renderMarkdownLine(line string, state *mdState) string {
	trimmed := strings.TrimSpace(line)

	// Code block fences
	if strings.HasPrefix(trimmed, "```") {
		if !state.inCodeBlock {
			state.inCodeBlock = true
			lang := strings.TrimSpace(trimmed[3:])
			if lang != "" {
				return fmt.Sprintf("%s┌─ %s ─%s", ansiSuccess, lang, ansiReset)
			}
			return fmt.Sprintf("%s┌──%s", ansiSuccess, ansiReset)
		}
		state.inCodeBlock = false
		return fmt.Sprintf("%s└──%s", ansiSuccess, ansiReset)
	}

	if state.inCodeBlock {
		return fmt.Sprintf("%s│%s %s%s%s", ansiSuccess, ansiReset, ansiBody, line, ansiReset)
	}

	// Headers — bold only, no color (all levels)
	for level := 6; level >= 1; level-- {
		marker := strings.Repeat("#", level) + " "
		if strings.HasPrefix(trimmed, marker) {
			return fmt.Sprintf("%s%s%s", ansiHeading, trimmed[len(marker):], ansiReset)
		}
	}

	// Horizontal rules
	if trimmed == "---" || trimmed == "***" || trimmed == "___" {
		return fmt.Sprintf("%s────────────────────────────────────────%s", ansiAccent, ansiReset)
	}

	// Blockquotes
	if strings.HasPrefix(trimmed, "> ") {
		return fmt.Sprintf("%s│%s %s%s%s", ansiAccent, ansiReset, ansiBody, renderInlineMarkdown(trimmed[2:]), ansiReset)
	}

	// Preserve indentation for lists
	indent := len(line) - len(strings.TrimLeft(line, " \t"))
	pad := strings.Repeat(" ", indent)

	// Bullet lists
	if strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ") {
		return fmt.Sprintf("%s%s• %s%s", pad, ansiBody, renderInlineMarkdown(trimmed[2:]), ansiReset)
	}

	// Numbered lists
	if dotIdx := strings.Index(trimmed, ". "); dotIdx > 0 && dotIdx <= 3 {
		num := trimmed[:dotIdx]
		allDigit := true
		for _, c := range num {
			if c < '0' || c > '9' {
				allDigit = false
				break
			}
		}
		if allDigit {
			return fmt.Sprintf("%s%s%s.%s %s%s%s", pad, ansiAccent, num, ansiReset, ansiBody, renderInlineMarkdown(trimmed[dotIdx+2:]), ansiReset)
		}
	}

	// Regular text
	return fmt.Sprintf("%s%s%s", ansiBody, renderInlineMarkdown(line), ansiReset)
}

func renderInlineMarkdown(text string) string {
	var out strings.Builder
	i := 0
	for i < len(text) {
		// Bold: **text**
		if i+3 < len(text) && text[i] == '*' && text[i+1] == '*' {
			end := strings.Index(text[i+2:], "**")
			if end > 0 {
				out.WriteString(ansiBold)
				out.WriteString(renderInlineMarkdown(text[i+2 : i+2+end]))
				out.WriteString(ansiReset)
				i += 4 + end
				continue
			}
		}

		// Italic: *text*
		if text[i] == '*' && (i == 0 || text[i-1] == ' ') {
			end := strings.IndexByte(text[i+1:], '*')
			if end > 0 {
				out.WriteString(ansiItalic)
				out.WriteString(text[i+1 : i+1+end])
				out.WriteString(ansiReset)
				i += 2 + end
				continue
			}
		}

		// Inline code: `code`
		if text[i] == '`' {
			end := strings.IndexByte(text[i+1:], '`')
			if end >= 0 {
				out.WriteString(ansiWarning)
				out.WriteString(text[i+1 : i+1+end])
				out.WriteString(ansiReset)
				i += 2 + end
				continue
			}
		}

		// Links: [text](url)
		if text[i] == '[' {
			cb := strings.IndexByte(text[i:], ']')
			if cb > 1 && i+cb+1 < len(text) && text[i+cb+1] == '(' {
				cp := strings.IndexByte(text[i+cb+1:], ')')
				if cp > 0 {
					linkText := text[i+1 : i+cb]
					url := text[i+cb+2 : i+cb+1+cp]
					out.WriteString(ansiUnderline)
					out.WriteString(ansiInfo)
					out.WriteString(linkText)
					out.WriteString(ansiReset)
					out.WriteString(ansiInfo)
					out.WriteString(" (")
					out.WriteString(url)
					out.WriteString(")")
					out.WriteString(ansiReset)
					i += cb + 1 + cp + 1
					continue
				}
			}
		}

		out.WriteByte(text[i])
		i++
	}
	return out.String()
}

// indentText prefixes the first line with head and every following line
// with cont.
func indentText(text, head, cont string) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	for i, line := range lines {
		if i == 0 {
			lines[i] = head + line
		} else {
			lines[i] = cont + line
		}
	}
	return strings.Join(lines, "\n")
}
