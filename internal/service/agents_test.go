package service

import (
	"testing"

	"letta-cli/internal/api"
)

func TestFormatAgentRow(t *testing.T) {
	tests := []struct {
		name     string
		agent    api.Agent
		activeID string
		want     AgentDisplay
	}{
		{
			name: "full agent",
			agent: api.Agent{
				ID:        "agent-1",
				Name:      "sre-helper",
				Model:     "openai/gpt-4o-mini",
				CreatedAt: "2026-08-01T12:00:00Z",
			},
			activeID: "agent-1",
			want: AgentDisplay{
				ID:      "agent-1",
				Name:    "sre-helper",
				Model:   "gpt-4o-mini",
				Active:  true,
				Created: formatTimestamp("2026-08-01T12:00:00Z"),
			},
		},
		{
			name:     "unnamed agent",
			agent:    api.Agent{ID: "agent-2"},
			activeID: "agent-1",
			want: AgentDisplay{
				ID:     "agent-2",
				Name:   "(unnamed)",
				Active: false,
			},
		},
		{
			name: "model without provider prefix",
			agent: api.Agent{
				ID:    "agent-3",
				Name:  "x",
				Model: "letta-free",
			},
			want: AgentDisplay{
				ID:    "agent-3",
				Name:  "x",
				Model: "letta-free",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatAgentRow(tt.agent, tt.activeID)
			if got != tt.want {
				t.Errorf("FormatAgentRow() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFormatTimestamp(t *testing.T) {
	if got := formatTimestamp(""); got != "" {
		t.Errorf("formatTimestamp(\"\") = %q, want empty", got)
	}
	if got := formatTimestamp("not-a-time"); got != "not-a-time" {
		t.Errorf("formatTimestamp passthrough = %q", got)
	}
	if got := formatTimestamp("2026-08-01T12:00:00Z"); got == "" {
		t.Error("formatTimestamp returned empty for valid RFC3339 input")
	}
}

func TestFilterAgents(t *testing.T) {
	agents := []api.Agent{
		{ID: "agent-alpha", Name: "Prod Watcher"},
		{ID: "agent-beta", Name: "staging helper"},
		{ID: "agent-gamma", Name: "scratch"},
	}

	tests := []struct {
		name   string
		search string
		want   int
	}{
		{"empty keeps all", "", 3},
		{"matches name case-insensitively", "PROD", 1},
		{"matches ID", "beta", 1},
		{"matches multiple", "agent-", 3},
		{"no match", "zzz", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterAgents(agents, tt.search)
			if len(got) != tt.want {
				t.Errorf("FilterAgents(%q) = %d agents, want %d", tt.search, len(got), tt.want)
			}
		})
	}
}
