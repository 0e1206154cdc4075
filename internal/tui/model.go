package tui

import (
	"strings"

	"letta-cli/internal/api"
	"letta-cli/internal/config"
	"letta-cli/internal/transcript"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

// ─── App mode ───────────────────────────────────────────────────────────────

type appMode int

const (
	modeIdle appMode = iota
	modeStreaming
	modeLoginURL
	modeLoginToken
)

// ─── Slash command registry ─────────────────────────────────────────────────

type slashCmd struct {
	name string
	desc string
}

var slashCommands = []slashCmd{
	{"/agent", "Set the active agent (ID or ADE URL)"},
	{"/agents", "List available agents"},
	{"/alerts", "Toggle system alert visibility"},
	{"/clear", "Clear the screen"},
	{"/config", "Show current configuration"},
	{"/help", "Show all commands"},
	{"/history", "Reload conversation history"},
	{"/link", "Get the ADE URL for the active agent"},
	{"/login", "Login to a Letta server"},
	{"/quit", "Exit"},
	{"/thoughts", "Toggle reasoning visibility"},
}

// ─── Model ──────────────────────────────────────────────────────────────────

type model struct {
	width  int
	height int

	// Bubble Tea components
	input   textinput.Model
	spinner spinner.Model

	// App state
	mode    appMode
	cfg     *config.Config
	client  api.LettaAPI
	version string
	profile string

	// Transcript state. The assembler owns the conversation view; the
	// model only tracks which settled groups have already been printed,
	// since inline output cannot be rewritten once emitted.
	asm           *transcript.Assembler
	printed       map[string]bool // render keys already printed
	outcomesShown map[string]bool // action keys whose outcome block was printed
	showThoughts  bool

	// Login flow state
	loginURL string

	// UI state
	ready        bool
	cmdMenuIdx   int    // selected index in command menu (-1 = none)
	cmdMenuOpen  bool   // whether the command menu is visible
	lastInputVal string // track input changes to reset menu index

	// Command history
	history      []string // stored command history
	historyIdx   int      // current position in history (-1 = not browsing)
	historySaved string   // saved input value when entering history mode
}

func initialModel(version, profile string) model {
	ti := textinput.New()
	ti.Placeholder = "Message your agent or type /help..."
	ti.Focus()
	ti.CharLimit = 4096
	ti.Prompt = "❯ "
	ti.PromptStyle = promptSymbol
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(colorAccent)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorAccent)

	cfg, _ := config.Load(profile)

	var client api.LettaAPI
	if cfg != nil && cfg.Server != "" && cfg.Token != "" {
		client = api.NewClient(cfg)
	}

	return model{
		input:         ti,
		spinner:       sp,
		version:       version,
		profile:       profile,
		cfg:           cfg,
		client:        client,
		mode:          modeIdle,
		asm:           transcript.NewAssembler(zap.NewNop()),
		printed:       make(map[string]bool),
		outcomesShown: make(map[string]bool),
		showThoughts:  true,
		history:       make([]string, 0),
		historyIdx:    -1,
	}
}

// ─── Init ───────────────────────────────────────────────────────────────────

func (m model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
	)
}

// ─── Update ─────────────────────────────────────────────────────────────────

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = m.width - 6

		if !m.ready {
			m.ready = true
			welcome := renderWelcome(m.version, serverStr(m.cfg), agentStr(m.cfg))
			cmds = append(cmds, tea.Println(welcome))
			// Load the conversation so far, if an agent is configured
			if m.client != nil && m.cfg != nil && m.cfg.AgentID != "" {
				cmds = append(cmds, loadHistory(m.client, m.cfg.AgentID))
			}
		}

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			if m.mode == modeStreaming {
				return m.cancelStream()
			}
			return m, tea.Quit

		case tea.KeyEsc:
			if m.mode == modeStreaming {
				return m.cancelStream()
			}
			if m.mode == modeLoginURL || m.mode == modeLoginToken {
				m.mode = modeIdle
				m.input.Placeholder = "Message your agent or type /help..."
				m.input.SetValue("")
				m.input.EchoMode = textinput.EchoNormal
				cmds = append(cmds, tea.Println(warnMsgStyle.Render("  ! Login cancelled.")))
				return m, tea.Batch(cmds...)
			}
			if m.cmdMenuOpen {
				m.cmdMenuOpen = false
				m.cmdMenuIdx = 0
				return m, nil
			}

		case tea.KeyUp:
			if m.mode == modeIdle {
				if m.cmdMenuOpen {
					matches := matchCommands(m.input.Value())
					if len(matches) > 0 {
						m.cmdMenuIdx--
						if m.cmdMenuIdx < 0 {
							m.cmdMenuIdx = len(matches) - 1
						}
						return m, nil
					}
				} else if len(m.history) > 0 {
					// Navigate command history
					if m.historyIdx == -1 {
						m.historySaved = m.input.Value()
						m.historyIdx = len(m.history) - 1
					} else {
						m.historyIdx--
						if m.historyIdx < 0 {
							m.historyIdx = 0
						}
					}
					m.input.SetValue(m.history[m.historyIdx])
					m.input.CursorEnd()
					return m, nil
				}
			}

		case tea.KeyDown:
			if m.mode == modeIdle {
				if m.cmdMenuOpen {
					matches := matchCommands(m.input.Value())
					if len(matches) > 0 {
						m.cmdMenuIdx++
						if m.cmdMenuIdx >= len(matches) {
							m.cmdMenuIdx = 0
						}
						return m, nil
					}
				} else if m.historyIdx != -1 {
					m.historyIdx++
					if m.historyIdx >= len(m.history) {
						// Exit history mode - restore saved input
						m.historyIdx = -1
						m.input.SetValue(m.historySaved)
						m.historySaved = ""
					} else {
						m.input.SetValue(m.history[m.historyIdx])
					}
					m.input.CursorEnd()
					return m, nil
				}
			}

		case tea.KeyTab:
			if m.mode == modeIdle && m.cmdMenuOpen {
				matches := matchCommands(m.input.Value())
				if len(matches) > 0 {
					idx := m.cmdMenuIdx
					if idx < 0 || idx >= len(matches) {
						idx = 0
					}
					m.input.SetValue(matches[idx].name + " ")
					m.input.CursorEnd()
					m.cmdMenuOpen = false
					m.cmdMenuIdx = 0
				}
				return m, nil
			}

		case tea.KeyEnter:
			// If command menu is open and an item is selected, pick it
			if m.mode == modeIdle && m.cmdMenuOpen && m.cmdMenuIdx >= 0 {
				matches := matchCommands(m.input.Value())
				if m.cmdMenuIdx < len(matches) {
					m.input.SetValue(matches[m.cmdMenuIdx].name + " ")
					m.input.CursorEnd()
					m.cmdMenuOpen = false
					m.cmdMenuIdx = 0
					return m, nil
				}
			}

			value := strings.TrimSpace(m.input.Value())
			if value == "" {
				return m, nil
			}

			// Add to history (avoid duplicates if same as last command)
			if len(m.history) == 0 || m.history[len(m.history)-1] != value {
				m.history = append(m.history, value)
				if len(m.history) > 1000 {
					m.history = m.history[len(m.history)-1000:]
				}
			}
			m.historyIdx = -1
			m.historySaved = ""

			m.input.SetValue("")
			m.cmdMenuOpen = false
			m.cmdMenuIdx = 0

			switch m.mode {
			case modeLoginURL:
				return m.handleLoginURLSubmit(value)
			case modeLoginToken:
				return m.handleLoginTokenSubmit(value)
			default:
				return m.dispatchInput(value)
			}
		}

	// ── Stream messages ───────────────────────────────────────────────
	case streamEventMsg:
		printCmd, done := m.handleStreamEvent(msg.msg)
		if printCmd != nil {
			cmds = append(cmds, printCmd)
		}
		if done {
			m.mode = modeIdle
			endStream()
			cmds = append(cmds, tea.Println(""))
		} else if activeStreamCh != nil {
			cmds = append(cmds, waitForStream(activeStreamCh))
		}
		return m, tea.Batch(cmds...)

	case streamDoneMsg:
		// Channel closed without a terminal event: flush whatever the
		// accumulator holds so partial turns survive as durable groups.
		if m.mode == modeStreaming {
			m.asm.Complete()
			cmds = append(cmds, m.printNewGroups()...)
			cmds = append(cmds, tea.Println(""))
		}
		m.mode = modeIdle
		endStream()
		return m, tea.Batch(cmds...)

	case streamErrMsg:
		m.mode = modeIdle
		endStream()
		// A broken stream may have dropped events mid-turn; discard the
		// partial turn rather than show it as if it were final.
		m.asm.Abort()
		cmds = append(cmds, tea.Println(errorMsgStyle.Render("  ✗ Stream error: "+msg.err.Error())))
		return m, tea.Batch(cmds...)

	// ── Async results ─────────────────────────────────────────────────
	case historyLoadedMsg:
		return m.handleHistoryLoaded(msg)

	case agentsLoadedMsg:
		return m.handleAgentsLoaded(msg)

	case loginResultMsg:
		return m.handleLoginResult(msg)
	}

	// Update sub-components
	var cmd tea.Cmd

	if m.mode != modeStreaming {
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	m.spinner, cmd = m.spinner.Update(msg)
	cmds = append(cmds, cmd)

	// Track input changes to open/close command menu and reset selection
	newVal := m.input.Value()
	if newVal != m.lastInputVal {
		m.lastInputVal = newVal
		// Exit history mode when user types (manually edits input)
		if m.historyIdx != -1 {
			if m.historyIdx < len(m.history) && m.history[m.historyIdx] != newVal {
				m.historyIdx = -1
				m.historySaved = ""
			}
		}
		if strings.HasPrefix(newVal, "/") {
			m.cmdMenuOpen = true
			m.cmdMenuIdx = 0
		} else {
			m.cmdMenuOpen = false
			m.cmdMenuIdx = 0
		}
	}

	return m, tea.Batch(cmds...)
}

// ─── Stream handling ────────────────────────────────────────────────────────

// handleStreamEvent feeds one wire message to the assembler and prints any
// groups that settled as a result. Returns done=true after the terminal
// event, once the provisional-to-durable hand-off has run.
func (m *model) handleStreamEvent(msg transcript.Message) (tea.Cmd, bool) {
	done := m.asm.HandleEvent(msg)

	printCmds := m.printNewGroups()
	if len(printCmds) == 0 {
		return nil, done
	}
	return tea.Sequence(printCmds...), done
}

// printNewGroups walks the settled view and emits anything not yet on
// screen: whole groups first seen now, and outcome blocks that attached to
// an action group that was already printed.
func (m *model) printNewGroups() []tea.Cmd {
	var cmds []tea.Cmd
	for _, g := range m.asm.Settled() {
		if m.skipGroup(g) {
			continue
		}
		if !m.printed[g.RenderKey] {
			m.printed[g.RenderKey] = true
			if g.HasOutcome {
				m.outcomesShown[g.RenderKey] = true
			}
			cmds = append(cmds, tea.Println(renderGroup(g, m.showThoughts)))
			continue
		}
		if g.Kind == transcript.GroupAction && g.HasOutcome && !m.outcomesShown[g.RenderKey] {
			m.outcomesShown[g.RenderKey] = true
			cmds = append(cmds, tea.Println(renderOutcome(g)))
		}
	}
	return cmds
}

// markAllSettled records every current group as printed without emitting
// it, so replays and self-sent messages are not printed twice.
func (m *model) markAllSettled() {
	for _, g := range m.asm.Settled() {
		m.printed[g.RenderKey] = true
		if g.HasOutcome {
			m.outcomesShown[g.RenderKey] = true
		}
	}
}

func (m *model) skipGroup(g transcript.MessageGroup) bool {
	return g.Kind == transcript.GroupControl && m.cfg != nil && m.cfg.HideSystemAlerts
}

func (m model) cancelStream() (tea.Model, tea.Cmd) {
	m.mode = modeIdle
	endStream()
	m.asm.Abort()
	return m, tea.Println(warnMsgStyle.Render("  ! Turn cancelled."))
}

// ─── View ───────────────────────────────────────────────────────────────────
//
// Inline mode: View() only shows the input prompt + hints.
// All output is printed above via tea.Println.

func (m model) View() string {
	if !m.ready {
		return ""
	}

	var s strings.Builder

	// Input or streaming indicator
	if m.mode == modeStreaming {
		s.WriteString(m.spinner.View() + " " + statusStyle.Render(m.streamStatus()))
	} else {
		s.WriteString(m.input.View())
	}
	s.WriteString("\n")

	// Separator
	sepWidth := min(m.width, 80)
	if sepWidth < 20 {
		sepWidth = 20
	}
	s.WriteString(separatorStyle.Render(strings.Repeat("─", sepWidth)))
	s.WriteString("\n")

	// Hint bar
	s.WriteString(m.renderHints())

	return s.String()
}

// streamStatus describes the in-flight turn for the spinner line.
func (m model) streamStatus() string {
	open, ok := m.asm.OpenTurn()
	if !ok {
		return "Waiting..."
	}
	switch {
	case open.Kind == transcript.TurnAction && open.ActionName != "":
		return "Running " + open.ActionName + "..."
	case open.Kind == transcript.TurnAction:
		return "Calling a tool..."
	case open.Kind == transcript.TurnResponse:
		return "Responding..."
	default:
		return "Thinking..."
	}
}

// ─── Hint bar ───────────────────────────────────────────────────────────────

func (m model) renderHints() string {
	if m.mode == modeStreaming {
		return hintBarStyle.Render("  Esc cancel")
	}

	if m.mode == modeLoginURL || m.mode == modeLoginToken {
		return hintBarStyle.Render("  Enter submit   Esc cancel")
	}

	// Show vertical command menu when menu is open
	if m.cmdMenuOpen {
		val := m.input.Value()
		matches := matchCommands(val)
		if len(matches) > 0 {
			return m.renderCommandMenu(matches)
		}
	}

	return hintBarStyle.Render("  ? for help")
}

// renderCommandMenu renders a vertical list of matching commands.
func (m model) renderCommandMenu(matches []slashCmd) string {
	maxLen := 0
	for _, c := range matches {
		if len(c.name) > maxLen {
			maxLen = len(c.name)
		}
	}

	var lines []string
	for i, c := range matches {
		padded := c.name
		for len(padded) < maxLen {
			padded += " "
		}

		var line string
		if i == m.cmdMenuIdx {
			line = "  " + cmdSelectedNameStyle.Render(padded) + "  " + cmdSelectedDescStyle.Render(c.desc)
		} else {
			line = "  " + cmdNameStyle.Render(padded) + "  " + cmdDescStyle.Render(c.desc)
		}
		lines = append(lines, line)
	}

	lines = append(lines, hintBarStyle.Render("  ↑↓ navigate  Tab/Enter select"))

	return strings.Join(lines, "\n")
}

// matchCommands returns all slash commands matching a prefix.
func matchCommands(prefix string) []slashCmd {
	prefix = strings.ToLower(prefix)
	// Just "/" with nothing else — show all
	if prefix == "/" {
		return slashCommands
	}
	var matches []slashCmd
	for _, c := range slashCommands {
		if strings.HasPrefix(c.name, prefix) {
			matches = append(matches, c)
		}
	}
	return matches
}

// ─── Helpers ────────────────────────────────────────────────────────────────

func serverStr(cfg *config.Config) string {
	if cfg == nil {
		return ""
	}
	return cfg.Server
}

func agentStr(cfg *config.Config) string {
	if cfg == nil {
		return ""
	}
	return cfg.AgentID
}

func truncateID(s string) string {
	if len(s) > 20 {
		return s[:8] + "..." + s[len(s)-4:]
	}
	return s
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
