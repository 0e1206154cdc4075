package tui

import (
	"fmt"
	"strings"

	"letta-cli/internal/api"
	"letta-cli/internal/config"
	"letta-cli/internal/service"
	"letta-cli/internal/transcript"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// ─── Input dispatcher ───────────────────────────────────────────────────────

func (m model) dispatchInput(input string) (tea.Model, tea.Cmd) {
	if input == "?" {
		return m.cmdHelp()
	}
	if strings.HasPrefix(input, "/") {
		return m.dispatchCommand(input)
	}
	// Default: send to the agent
	return m.cmdSend(input)
}

func (m model) dispatchCommand(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "/help", "/h":
		return m.cmdHelp()
	case "/login":
		return m.cmdLogin(args)
	case "/agents":
		return m.cmdAgents()
	case "/agent":
		return m.cmdAgent(args)
	case "/history":
		return m.cmdHistory()
	case "/config":
		return m.cmdConfig()
	case "/alerts":
		return m.cmdAlerts()
	case "/thoughts":
		return m.cmdThoughts()
	case "/link":
		return m.cmdLink()
	case "/clear":
		return m.cmdClear()
	case "/quit", "/exit", "/q":
		return m, tea.Quit
	default:
		return m, tea.Println(errorMsgStyle.Render(fmt.Sprintf("  ✗ Unknown command: %s — type /help", cmd)))
	}
}

// ─── /help ──────────────────────────────────────────────────────────────────

func (m model) cmdHelp() (tea.Model, tea.Cmd) {
	pad := func(s string, w int) string {
		for len(s) < w {
			s += " "
		}
		return s
	}

	lines := []tea.Cmd{
		tea.Println(""),
		tea.Println(dimStyle.Render("  Shortcuts:")),
		tea.Println(""),
		tea.Println("  " + pad(hintKeyStyle.Render("/login <url>"), 30) + dimStyle.Render("Login to a Letta server")),
		tea.Println("  " + pad(hintKeyStyle.Render("/agents"), 30) + dimStyle.Render("List available agents")),
		tea.Println("  " + pad(hintKeyStyle.Render("/agent <id>"), 30) + dimStyle.Render("Set the active agent")),
		tea.Println("  " + pad(hintKeyStyle.Render("/history"), 30) + dimStyle.Render("Reload conversation history")),
		tea.Println("  " + pad(hintKeyStyle.Render("/alerts"), 30) + dimStyle.Render("Toggle system alert visibility")),
		tea.Println("  " + pad(hintKeyStyle.Render("/thoughts"), 30) + dimStyle.Render("Toggle reasoning visibility")),
		tea.Println("  " + pad(hintKeyStyle.Render("/link"), 30) + dimStyle.Render("Get the ADE URL for the agent")),
		tea.Println("  " + pad(hintKeyStyle.Render("/config"), 30) + dimStyle.Render("Show current configuration")),
		tea.Println("  " + pad(hintKeyStyle.Render("/clear"), 30) + dimStyle.Render("Clear the screen")),
		tea.Println("  " + pad(hintKeyStyle.Render("/quit"), 30) + dimStyle.Render("Exit")),
		tea.Println(""),
		tea.Println(dimStyle.Render("  Or just type a message to talk to your agent.")),
		tea.Println(""),
	}
	return m, tea.Sequence(lines...)
}

// ─── /login ─────────────────────────────────────────────────────────────────

func (m model) cmdLogin(args []string) (tea.Model, tea.Cmd) {
	if len(args) > 0 {
		m.loginURL = args[0]
		m.mode = modeLoginToken
		m.input.Placeholder = "API token..."
		m.input.SetValue("")
		m.input.EchoCharacter = '•'
		m.input.EchoMode = textinput.EchoPassword
		return m, tea.Println(dimStyle.Render(fmt.Sprintf("  Logging in to %s", m.loginURL)))
	}

	m.mode = modeLoginURL
	m.input.Placeholder = "Server URL (e.g. http://localhost:8283)..."
	m.input.SetValue("")
	return m, tea.Println(dimStyle.Render("  Enter the Letta server URL:"))
}

func (m model) handleLoginURLSubmit(value string) (tea.Model, tea.Cmd) {
	m.loginURL = value
	m.mode = modeLoginToken
	m.input.Placeholder = "API token..."
	m.input.SetValue("")
	m.input.EchoCharacter = '•'
	m.input.EchoMode = textinput.EchoPassword
	return m, tea.Println(dimStyle.Render("  Enter your API token:"))
}

type loginResultMsg struct {
	cfg *config.Config
	err error
}

func (m model) handleLoginTokenSubmit(value string) (tea.Model, tea.Cmd) {
	token := value
	m.input.EchoMode = textinput.EchoNormal
	m.input.SetValue("")
	m.input.Placeholder = "Authenticating..."

	serverURL := strings.TrimRight(m.loginURL, "/")
	profile := m.profile

	return m, tea.Sequence(
		tea.Println(statusStyle.Render("  ⟳ Authenticating...")),
		func() tea.Msg {
			cfg, err := config.Load(profile)
			if err != nil {
				return loginResultMsg{err: err}
			}
			cfg.Server = serverURL
			cfg.Token = token

			client := api.NewClient(cfg)
			if err := client.CheckAuth(); err != nil {
				return loginResultMsg{err: fmt.Errorf("authentication failed: %w", err)}
			}

			if err := cfg.Save(); err != nil {
				return loginResultMsg{err: err}
			}
			return loginResultMsg{cfg: cfg}
		},
	)
}

func (m model) handleLoginResult(msg loginResultMsg) (tea.Model, tea.Cmd) {
	m.mode = modeIdle
	m.input.Placeholder = "Message your agent or type /help..."

	if msg.err != nil {
		return m, tea.Println(errorMsgStyle.Render(fmt.Sprintf("  ✗ %v", msg.err)))
	}

	m.cfg = msg.cfg
	m.client = api.NewClient(m.cfg)

	var cmds []tea.Cmd
	cmds = append(cmds,
		tea.Println(successMsgStyle.Render("  ✓ Logged in successfully!")),
		tea.Println(dimStyle.Render(fmt.Sprintf("    Server: %s", m.cfg.Server))),
	)
	if m.cfg.AgentID == "" {
		cmds = append(cmds, tea.Println(dimStyle.Render("    Next: type /agents to pick an agent")))
	}
	cmds = append(cmds, tea.Println(""))

	m.loginURL = ""
	return m, tea.Sequence(cmds...)
}

// ─── /config ────────────────────────────────────────────────────────────────

func (m model) cmdConfig() (tea.Model, tea.Cmd) {
	if m.cfg == nil {
		return m, tea.Println(warnMsgStyle.Render("  ! No configuration found. Run /login first."))
	}

	val := func(s string) string {
		if s == "" {
			return dimStyle.Render("(not set)")
		}
		return s
	}
	token := dimStyle.Render("(not set)")
	if m.cfg.Token != "" {
		end := 12
		if len(m.cfg.Token) < end {
			end = len(m.cfg.Token)
		}
		token = m.cfg.Token[:end] + "..."
	}
	alerts := "shown"
	if m.cfg.HideSystemAlerts {
		alerts = "hidden"
	}

	return m, tea.Sequence(
		tea.Println(""),
		tea.Println(dimStyle.Render("  Configuration:")),
		tea.Println(fmt.Sprintf("    Profile:       %s", config.ProfileName(m.profile))),
		tea.Println(fmt.Sprintf("    Server:        %s", val(m.cfg.Server))),
		tea.Println(fmt.Sprintf("    Agent:         %s", val(m.cfg.AgentID))),
		tea.Println(fmt.Sprintf("    Token:         %s", token)),
		tea.Println(fmt.Sprintf("    System alerts: %s", alerts)),
		tea.Println(""),
	)
}

// ─── /agents ────────────────────────────────────────────────────────────────

type agentsLoadedMsg struct {
	agents []api.Agent
	err    error
}

func (m model) cmdAgents() (tea.Model, tea.Cmd) {
	if m.client == nil {
		return m, tea.Println(errorMsgStyle.Render("  ✗ Not logged in. Run /login first."))
	}

	client := m.client

	return m, tea.Sequence(
		tea.Println(statusStyle.Render("  ⟳ Loading agents...")),
		func() tea.Msg {
			agents, err := client.ListAgents(50)
			if err != nil {
				return agentsLoadedMsg{err: err}
			}
			return agentsLoadedMsg{agents: agents}
		},
	)
}

func (m model) handleAgentsLoaded(msg agentsLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m, tea.Println(errorMsgStyle.Render(fmt.Sprintf("  ✗ Failed to load agents: %v", msg.err)))
	}

	if len(msg.agents) == 0 {
		return m, tea.Println(warnMsgStyle.Render("  ! No agents found."))
	}

	activeID := ""
	if m.cfg != nil {
		activeID = m.cfg.AgentID
	}

	var cmds []tea.Cmd
	cmds = append(cmds,
		tea.Println(""),
		tea.Println(fmt.Sprintf("  Agents (%d):", len(msg.agents))),
		tea.Println(""),
	)

	for _, a := range msg.agents {
		row := service.FormatAgentRow(a, activeID)
		marker := "⏺"
		name := row.Name
		if row.Active {
			marker = successMsgStyle.Render("⏺")
			name = successMsgStyle.Render(name + " (active)")
		}
		line := fmt.Sprintf("  %s %s", marker, name)
		if row.Model != "" {
			line += dimStyle.Render("  " + row.Model)
		}
		cmds = append(cmds,
			tea.Println(line),
			tea.Println(dimStyle.Render("    "+row.ID)),
		)
	}

	cmds = append(cmds,
		tea.Println(""),
		tea.Println(dimStyle.Render("  Use /agent <id> to select an agent")),
		tea.Println(""),
	)

	return m, tea.Sequence(cmds...)
}

// ─── /agent ─────────────────────────────────────────────────────────────────

func (m model) cmdAgent(args []string) (tea.Model, tea.Cmd) {
	if len(args) == 0 {
		if m.cfg != nil && m.cfg.AgentID != "" {
			return m, tea.Println(dimStyle.Render(fmt.Sprintf("  Active agent: %s", m.cfg.AgentID)))
		}
		return m, tea.Println(dimStyle.Render("  No active agent. Use /agent <id>."))
	}
	if m.cfg == nil {
		return m, tea.Println(errorMsgStyle.Render("  ✗ Not logged in. Run /login first."))
	}

	agentID, err := service.ParseAgentRef(args[0])
	if err != nil {
		return m, tea.Println(errorMsgStyle.Render(fmt.Sprintf("  ✗ %v", err)))
	}

	m.cfg.AgentID = agentID
	if err := m.cfg.Save(); err != nil {
		return m, tea.Println(errorMsgStyle.Render(fmt.Sprintf("  ✗ Failed to save config: %v", err)))
	}

	// Fresh conversation view for the new agent
	m.asm = transcript.NewAssembler(zap.NewNop())
	m.printed = make(map[string]bool)
	m.outcomesShown = make(map[string]bool)

	cmds := []tea.Cmd{
		tea.Println(successMsgStyle.Render(fmt.Sprintf("  ✓ Agent set to: %s", agentID))),
	}
	if m.client != nil {
		cmds = append(cmds, loadHistory(m.client, agentID))
	}
	return m, tea.Sequence(cmds...)
}

// ─── /history ───────────────────────────────────────────────────────────────

type historyLoadedMsg struct {
	msgs []transcript.Message
	err  error
}

func loadHistory(client api.LettaAPI, agentID string) tea.Cmd {
	return func() tea.Msg {
		msgs, err := client.ListMessages(agentID, 100)
		if err != nil {
			return historyLoadedMsg{err: err}
		}
		return historyLoadedMsg{msgs: msgs}
	}
}

func (m model) cmdHistory() (tea.Model, tea.Cmd) {
	if m.client == nil {
		return m, tea.Println(errorMsgStyle.Render("  ✗ Not logged in. Run /login first."))
	}
	if m.cfg == nil || m.cfg.AgentID == "" {
		return m, tea.Println(errorMsgStyle.Render("  ✗ No agent set. Use /agents to pick one."))
	}

	return m, tea.Sequence(
		tea.Println(statusStyle.Render("  ⟳ Loading history...")),
		loadHistory(m.client, m.cfg.AgentID),
	)
}

func (m model) handleHistoryLoaded(msg historyLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m, tea.Println(errorMsgStyle.Render(fmt.Sprintf("  ✗ Failed to load history: %v", msg.err)))
	}

	m.asm.SeedHistory(msg.msgs)
	m.printed = make(map[string]bool)
	m.outcomesShown = make(map[string]bool)

	cmds := m.printNewGroups()
	if len(cmds) == 0 {
		return m, tea.Println(dimStyle.Render("  (no messages yet)"))
	}
	return m, tea.Sequence(cmds...)
}

// ─── /alerts ────────────────────────────────────────────────────────────────

func (m model) cmdAlerts() (tea.Model, tea.Cmd) {
	if m.cfg == nil {
		return m, tea.Println(errorMsgStyle.Render("  ✗ Not logged in. Run /login first."))
	}
	m.cfg.HideSystemAlerts = !m.cfg.HideSystemAlerts
	if err := m.cfg.Save(); err != nil {
		return m, tea.Println(errorMsgStyle.Render(fmt.Sprintf("  ✗ Failed to save config: %v", err)))
	}
	if m.cfg.HideSystemAlerts {
		return m, tea.Println(successMsgStyle.Render("  ✓ System alerts hidden."))
	}
	return m, tea.Println(successMsgStyle.Render("  ✓ System alerts shown."))
}

// ─── /thoughts ──────────────────────────────────────────────────────────────

func (m model) cmdThoughts() (tea.Model, tea.Cmd) {
	m.showThoughts = !m.showThoughts
	if m.showThoughts {
		return m, tea.Println(successMsgStyle.Render("  ✓ Reasoning shown."))
	}
	return m, tea.Println(successMsgStyle.Render("  ✓ Reasoning hidden."))
}

// ─── /link ──────────────────────────────────────────────────────────────────

func (m model) cmdLink() (tea.Model, tea.Cmd) {
	if m.cfg == nil || m.cfg.AgentID == "" {
		return m, tea.Println(errorMsgStyle.Render("  ✗ No agent set. Use /agents to pick one."))
	}
	url := service.BuildAgentURL(m.cfg.Server, m.cfg.AgentID)
	return m, tea.Sequence(
		tea.Println(""),
		tea.Println("  🔗 "+url),
		tea.Println(""),
	)
}

// ─── /clear ─────────────────────────────────────────────────────────────────

func (m model) cmdClear() (tea.Model, tea.Cmd) {
	return m, tea.ClearScreen
}

// ─── Send ───────────────────────────────────────────────────────────────────

func (m model) cmdSend(prompt string) (tea.Model, tea.Cmd) {
	if m.client == nil {
		return m, tea.Println(errorMsgStyle.Render("  ✗ Not logged in. Type /login to get started."))
	}
	if m.cfg == nil || m.cfg.AgentID == "" {
		return m, tea.Println(errorMsgStyle.Render("  ✗ No agent set. Use /agents to pick one."))
	}

	m.asm.AppendUser(prompt)
	m.markAllSettled()
	m.mode = modeStreaming

	return m, tea.Sequence(
		tea.Println(""),
		tea.Println(userPromptStyle.Render("  ❯ "+prompt)),
		tea.Println(""),
		beginStream(m.client, m.cfg.AgentID, prompt),
	)
}
