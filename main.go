package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"letta-cli/internal/api"
	"letta-cli/internal/config"
	"letta-cli/internal/display"
	"letta-cli/internal/service"
	"letta-cli/internal/transcript"
	"letta-cli/internal/tui"

	"go.uber.org/zap"
)

const version = "0.1.0"

var activeProfile string

func main() {
	args := os.Args[1:]

	// Parse global flags first (--profile)
	args = parseGlobalFlags(args)

	// No args → launch interactive mode (default)
	if len(args) == 0 {
		if err := tui.Run(version, activeProfile); err != nil {
			display.Error(err.Error())
			os.Exit(1)
		}
		return
	}

	// Explicit -i flag also launches interactive mode
	if args[0] == "-i" || args[0] == "--interactive" || args[0] == "interactive" {
		if err := tui.Run(version, activeProfile); err != nil {
			display.Error(err.Error())
			os.Exit(1)
		}
		return
	}

	var err error

	switch args[0] {
	case "login":
		err = cmdLogin(args[1:])
	case "set":
		err = cmdSet(args[1:])
	case "config":
		err = cmdConfig()
	case "chat", "ask":
		err = cmdChat(args[1:])
	case "history":
		err = cmdHistory(args[1:])
	case "agents":
		err = cmdAgents(args[1:])
	case "agent":
		err = cmdAgent(args[1:])
	case "link":
		err = cmdLink()
	case "profiles":
		err = cmdProfiles()
	case "help", "--help", "-h":
		printUsage()
	case "version", "--version", "-v":
		fmt.Printf("letta-cli %s\n", version)
	default:
		display.Error(fmt.Sprintf("Unknown command: %s", args[0]))
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		display.Error(err.Error())
		os.Exit(1)
	}
}

// ─── login ───────────────────────────────────────────────────────────────────

func cmdLogin(args []string) error {
	var token string
	var positional []string

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-t", "--token":
			if i+1 < len(args) {
				i++
				token = args[i]
			} else {
				return fmt.Errorf("--token requires a value")
			}
		default:
			positional = append(positional, args[i])
		}
	}

	if len(positional) == 0 {
		fmt.Println("Usage: letta-cli login <server-url> -t <api-token>")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  letta-cli login https://api.letta.com -t sk-let-...")
		fmt.Println("  letta-cli login http://localhost:8283 -t mytoken")
		return nil
	}

	serverURL := strings.TrimRight(positional[0], "/")

	if token == "" {
		fmt.Print("API token: ")
		fmt.Scanln(&token)
	}
	if token == "" {
		return fmt.Errorf("an API token is required")
	}

	cfg, err := config.Load(activeProfile)
	if err != nil {
		return err
	}
	cfg.Server = serverURL
	cfg.Token = token

	fmt.Println()
	display.Spinner("Authenticating...")

	client := api.NewClient(cfg)
	if err := client.CheckAuth(); err != nil {
		display.ClearLine()
		return fmt.Errorf("authentication failed: %w", err)
	}

	display.ClearLine()
	display.Success("Authenticated successfully")

	if err := cfg.Save(); err != nil {
		return err
	}

	display.Info("Server:", serverURL)

	pf := ""
	if activeProfile != "" {
		pf = " --profile " + activeProfile
	}

	fmt.Println()
	if cfg.AgentID == "" {
		fmt.Printf("  %sNext:%s Run %sletta-cli%s agents%s to pick an agent.\n\n",
			display.Dim, display.Reset, display.Cyan, pf, display.Reset)
	} else {
		fmt.Printf("  %sReady!%s Agent is already set to %s.\n",
			display.Dim, display.Reset, cfg.AgentID)
		fmt.Printf("  %sNext:%s Run %sletta-cli%s chat \"<message>\"%s to start.\n\n",
			display.Dim, display.Reset, display.Cyan, pf, display.Reset)
	}

	return nil
}

// ─── set ────────────────────────────────────────────────────────────────────

func cmdSet(args []string) error {
	if len(args) < 2 {
		fmt.Println("Usage: letta-cli set <key> <value>")
		fmt.Println()
		fmt.Println("Keys:")
		fmt.Println("  server   Letta server URL  (e.g. http://localhost:8283)")
		fmt.Println("  agent    Active agent ID")
		fmt.Println("  token    API authentication token")
		fmt.Println("  alerts   System alert visibility (on|off)")
		return nil
	}

	cfg, err := config.Load(activeProfile)
	if err != nil {
		return err
	}

	key, value := args[0], args[1]

	switch key {
	case "server":
		cfg.Server = strings.TrimRight(value, "/")
	case "agent":
		agentID, err := service.ParseAgentRef(value)
		if err != nil {
			return err
		}
		cfg.AgentID = agentID
		value = agentID
	case "token":
		cfg.Token = value
	case "alerts":
		switch value {
		case "on":
			cfg.HideSystemAlerts = false
		case "off":
			cfg.HideSystemAlerts = true
		default:
			return fmt.Errorf("alerts must be on or off, got %q", value)
		}
	default:
		return fmt.Errorf("unknown config key: %s (valid: server, agent, token, alerts)", key)
	}

	if err := cfg.Save(); err != nil {
		return err
	}

	display.Success(fmt.Sprintf("%s set to %s", key, value))
	return nil
}

// ─── config ─────────────────────────────────────────────────────────────────

func cmdConfig() error {
	cfg, err := config.Load(activeProfile)
	if err != nil {
		return err
	}

	display.Header("Letta CLI Configuration")

	display.Info("Profile:", config.ProfileName(activeProfile))

	server := cfg.Server
	if server == "" {
		server = display.Dim + "(not set)" + display.Reset
	}
	display.Info("Server:", server)

	agent := cfg.AgentID
	if agent == "" {
		agent = display.Dim + "(not set)" + display.Reset
	}
	display.Info("Agent:", agent)

	token := display.Dim + "(not set)" + display.Reset
	if cfg.Token != "" {
		end := 12
		if len(cfg.Token) < end {
			end = len(cfg.Token)
		}
		token = cfg.Token[:end] + "..."
	}
	display.Info("Token:", token)

	alerts := "shown"
	if cfg.HideSystemAlerts {
		alerts = "hidden"
	}
	display.Info("System alerts:", alerts)
	fmt.Println()

	return nil
}

// ─── chat ───────────────────────────────────────────────────────────────────

func cmdChat(args []string) error {
	var agentID string
	hideThoughts := false
	var positional []string

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-a", "--agent":
			if i+1 < len(args) {
				i++
				agentID = args[i]
			} else {
				return fmt.Errorf("--agent requires a value")
			}
		case "--no-thoughts":
			hideThoughts = true
		default:
			positional = append(positional, args[i])
		}
	}

	if len(positional) == 0 {
		fmt.Println("Usage: letta-cli chat <message> [--agent <id>] [--no-thoughts]")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println(`  letta-cli chat "What did we discuss yesterday?"`)
		fmt.Println(`  letta-cli chat "Summarize my tasks" --agent agent-123`)
		return nil
	}
	prompt := strings.Join(positional, " ")

	cfg, err := config.Load(activeProfile)
	if err != nil {
		return err
	}
	if agentID != "" {
		if agentID, err = service.ParseAgentRef(agentID); err != nil {
			return err
		}
		cfg.AgentID = agentID
	}
	if err := cfg.ValidateAgent(); err != nil {
		return err
	}

	client := api.NewClient(cfg)

	fmt.Printf("\n %s── Letta ──────────────────────────────────────────────────────────────────%s\n", display.Dim, display.Reset)
	fmt.Println()
	fmt.Printf("    %sAgent:%s   %s\n", display.Dim, display.Reset, cfg.AgentID)
	fmt.Printf("    %s❯%s %s\n", display.Cyan, display.Reset, prompt)
	fmt.Println()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	renderer := api.NewStreamRenderer(os.Stdout, !hideThoughts)
	err = client.StreamMessage(ctx, cfg.AgentID, prompt, renderer.HandleEvent)
	renderer.Flush()

	fmt.Println()
	fmt.Printf(" %s───────────────────────────────────────────────────────────────────────────%s\n", display.Dim, display.Reset)

	if err != nil {
		if errors.Is(err, context.Canceled) {
			display.Warn("Interrupted.")
			return nil
		}
		return fmt.Errorf("stream error: %w", err)
	}

	if renderer.StopReason != "" && renderer.StopReason != "end_turn" {
		display.Warn(fmt.Sprintf("Turn stopped: %s", renderer.StopReason))
	}

	fmt.Printf("\n  %sTip:%s Run %sletta-cli history%s to review the conversation.\n\n",
		display.Dim, display.Reset, display.Cyan, display.Reset)

	return nil
}

// ─── history ────────────────────────────────────────────────────────────────

func cmdHistory(args []string) error {
	limit := 50
	showThoughts := false

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-n", "--limit":
			if i+1 < len(args) {
				i++
				n, err := strconv.Atoi(args[i])
				if err != nil {
					return fmt.Errorf("invalid limit: %s", args[i])
				}
				limit = n
			}
		case "--thoughts":
			showThoughts = true
		}
	}

	cfg, err := config.Load(activeProfile)
	if err != nil {
		return err
	}
	if err := cfg.ValidateAgent(); err != nil {
		return err
	}

	client := api.NewClient(cfg)

	msgs, err := client.ListMessages(cfg.AgentID, limit)
	if err != nil {
		return fmt.Errorf("listing messages: %w", err)
	}

	groups := transcript.GroupHistory(msgs, newLogger())

	display.Header(fmt.Sprintf("Conversation (%d messages)", len(groups)))

	if len(groups) == 0 {
		display.Warn("No messages yet.")
		return nil
	}

	for _, g := range groups {
		if g.Kind == transcript.GroupControl && cfg.HideSystemAlerts {
			continue
		}
		fmt.Println(display.RenderGroup(g, showThoughts))
	}

	return nil
}

// ─── agents ─────────────────────────────────────────────────────────────────

func cmdAgents(args []string) error {
	limit := 50
	search := ""

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-n", "--limit":
			if i+1 < len(args) {
				i++
				n, err := strconv.Atoi(args[i])
				if err != nil {
					return fmt.Errorf("invalid limit: %s", args[i])
				}
				limit = n
			}
		default:
			search = args[i]
		}
	}

	cfg, err := config.Load(activeProfile)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	client := api.NewClient(cfg)

	agents, err := client.ListAgents(limit)
	if err != nil {
		return fmt.Errorf("listing agents: %w", err)
	}

	if search != "" {
		agents = service.FilterAgents(agents, search)
	}

	display.Header(fmt.Sprintf("Agents (%d)", len(agents)))

	if len(agents) == 0 {
		display.Warn("No agents found.")
		return nil
	}

	for _, a := range agents {
		row := service.FormatAgentRow(a, cfg.AgentID)

		marker := "⏺"
		name := display.Bold + row.Name + display.Reset
		if row.Active {
			marker = display.Green + "⏺" + display.Reset
			name += display.Green + " (active)" + display.Reset
		}

		fmt.Printf("\n  %s %s\n", marker, name)
		fmt.Printf("    %sID:%s      %s\n", display.Dim, display.Reset, row.ID)
		if row.Model != "" {
			fmt.Printf("    %sModel:%s   %s\n", display.Dim, display.Reset, row.Model)
		}
		if row.Created != "" {
			fmt.Printf("    %sCreated:%s %s\n", display.Dim, display.Reset, row.Created)
		}
		if a.Description != "" {
			for _, line := range wrapText(a.Description, 70) {
				fmt.Printf("    %s%s%s\n", display.Gray, line, display.Reset)
			}
		}
	}

	fmt.Println()
	fmt.Println(strings.Repeat("─", 80))
	fmt.Printf("  %sTip:%s Run %sletta-cli agent <agent-id>%s to select an agent.\n\n",
		display.Dim, display.Reset, display.Cyan, display.Reset)

	return nil
}

// ─── agent ──────────────────────────────────────────────────────────────────

func cmdAgent(args []string) error {
	cfg, err := config.Load(activeProfile)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		if cfg.AgentID == "" {
			fmt.Println("Usage: letta-cli agent <agent-id | ADE URL>")
			return nil
		}
		if err := cfg.Validate(); err != nil {
			display.Info("Agent:", cfg.AgentID)
			return nil
		}
		client := api.NewClient(cfg)
		a, err := client.GetAgent(cfg.AgentID)
		if err != nil {
			return fmt.Errorf("fetching agent: %w", err)
		}
		row := service.FormatAgentRow(*a, cfg.AgentID)
		display.Header("Active Agent")
		display.Info("Name:", row.Name)
		display.Info("ID:", row.ID)
		if row.Model != "" {
			display.Info("Model:", row.Model)
		}
		if a.Description != "" {
			display.Info("Description:", truncate(a.Description, 80))
		}
		fmt.Println()
		return nil
	}

	agentID, err := service.ParseAgentRef(args[0])
	if err != nil {
		return err
	}

	// Verify the agent exists before saving when we can reach the server.
	if cfg.Validate() == nil {
		client := api.NewClient(cfg)
		if a, err := client.GetAgent(agentID); err == nil && a.Name != "" {
			display.Info("Agent:", a.Name)
		}
	}

	cfg.AgentID = agentID
	if err := cfg.Save(); err != nil {
		return err
	}

	display.Success(fmt.Sprintf("Agent set to %s", agentID))
	return nil
}

// ─── link ───────────────────────────────────────────────────────────────────

func cmdLink() error {
	cfg, err := config.Load(activeProfile)
	if err != nil {
		return err
	}
	if cfg.AgentID == "" {
		return fmt.Errorf("agent not set. Run: letta-cli agent <agent-id>")
	}

	fmt.Println()
	fmt.Printf("  🔗 %s\n\n", service.BuildAgentURL(cfg.Server, cfg.AgentID))
	return nil
}

// ─── profiles ───────────────────────────────────────────────────────────────

func cmdProfiles() error {
	profiles, err := config.ListProfiles()
	if err != nil {
		return err
	}

	display.Header(fmt.Sprintf("Profiles (%d)", len(profiles)))

	if len(profiles) == 0 {
		display.Warn("No profiles found.")
		return nil
	}

	for _, p := range profiles {
		marker := " "
		if p == config.ProfileName(activeProfile) {
			marker = display.Green + "●" + display.Reset
		}
		fmt.Printf("  %s %s\n", marker, p)
	}
	fmt.Println()

	return nil
}

// ─── helpers ────────────────────────────────────────────────────────────────

func newLogger() *zap.Logger {
	if os.Getenv("LETTA_DEBUG") != "" {
		log, err := zap.NewDevelopment()
		if err == nil {
			return log
		}
	}
	return zap.NewNop()
}

func wrapText(text string, width int) []string {
	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		if paragraph == "" {
			lines = append(lines, "")
			continue
		}
		words := strings.Fields(paragraph)
		current := ""
		for _, word := range words {
			if current == "" {
				current = word
			} else if len(current)+1+len(word) <= width {
				current += " " + word
			} else {
				lines = append(lines, current)
				current = word
			}
		}
		if current != "" {
			lines = append(lines, current)
		}
	}
	return lines
}

func parseGlobalFlags(args []string) []string {
	var remaining []string
	for i := 0; i < len(args); i++ {
		if args[i] == "--profile" {
			if i+1 < len(args) {
				i++
				activeProfile = args[i]
			}
			continue
		}
		remaining = append(remaining, args[i])
	}
	return remaining
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

// ─── usage ──────────────────────────────────────────────────────────────────

func printUsage() {
	fmt.Printf(`%sLetta CLI%s — chat with your Letta agents from the terminal (v%s)

%sUsage:%s
  letta-cli                                          Launch interactive mode (default)
  letta-cli [--profile <name>] <command> [arguments] Run a specific command

%sGetting Started:%s
  login <url> -t <token>    Authenticate against a Letta server
  agents                    List available agents
  agent <id>                Set the active agent (accepts an ADE URL too)
  config                    Show current configuration

%sSettings:%s
  set server <url>          Override the server URL
  set agent <id>            Set the active agent ID
  set token <token>         Manually set the API token
  set alerts <on|off>       Show or hide system alerts in transcripts

%sChat:%s
  chat|ask "<message>"      Send one message and stream the reply
    -a, --agent <id>        Use a specific agent for this message
    --no-thoughts           Hide the agent's reasoning

%sHistory:%s
  history                   Show the conversation transcript
    -n, --limit <count>     Number of messages to fetch (default: 50)
    --thoughts              Include the agent's reasoning

%sMisc:%s
  link                      Print the ADE URL for the active agent
  profiles                  List all config profiles
  --profile <name>          Use a named config profile (default: unnamed)

%sExamples:%s
  letta-cli                                          # Start interactive mode
  letta-cli login https://api.letta.com -t sk-let-abc123
  letta-cli agent agent-6a2f9c10-33d8-4e6b-9f51-7b2f0c9d1a44
  letta-cli chat "What did we discuss yesterday?"
  letta-cli history -n 100 --thoughts
  letta-cli --profile staging login http://localhost:8283 -t mytoken

`, display.Bold, display.Reset, version,
		display.Cyan, display.Reset,
		display.Cyan, display.Reset,
		display.Cyan, display.Reset,
		display.Cyan, display.Reset,
		display.Cyan, display.Reset,
		display.Cyan, display.Reset,
		display.Cyan, display.Reset)
}
