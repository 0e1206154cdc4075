package service

import (
	"strings"
	"time"

	"letta-cli/internal/api"
)

// AgentDisplay holds display-ready agent info.
type AgentDisplay struct {
	ID      string
	Name    string
	Model   string
	Created string
	LastRun string
	Active  bool
}

// FormatAgentRow maps a raw Agent to a display-ready struct. activeID marks
// the currently selected agent so both CLI and TUI can highlight it.
func FormatAgentRow(a api.Agent, activeID string) AgentDisplay {
	name := a.Name
	if name == "" {
		name = "(unnamed)"
	}

	return AgentDisplay{
		ID:      a.ID,
		Name:    name,
		Model:   shortModel(a.Model),
		Created: formatTimestamp(a.CreatedAt),
		LastRun: formatTimestamp(a.LastRunAt),
		Active:  a.ID == activeID,
	}
}

// FilterAgents keeps agents whose name or ID contains the search term,
// case-insensitively. An empty term keeps everything.
func FilterAgents(agents []api.Agent, search string) []api.Agent {
	if search == "" {
		return agents
	}
	needle := strings.ToLower(search)
	var filtered []api.Agent
	for _, a := range agents {
		if strings.Contains(strings.ToLower(a.Name), needle) ||
			strings.Contains(strings.ToLower(a.ID), needle) {
			filtered = append(filtered, a)
		}
	}
	return filtered
}

// shortModel strips the provider prefix from handles like
// "openai/gpt-4o-mini" for compact listing.
func shortModel(model string) string {
	if i := strings.LastIndex(model, "/"); i >= 0 {
		return model[i+1:]
	}
	return model
}

// formatTimestamp renders an RFC3339 timestamp as a local date-time.
// Unparseable or empty input comes back unchanged.
func formatTimestamp(ts string) string {
	if ts == "" {
		return ""
	}
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return t.Local().Format("2006-01-02 15:04")
}
