package service

import (
	"fmt"
	"net/url"
	"strings"
)

// BuildAgentURL constructs the web ADE URL for an agent.
// Cloud servers map to https://app.letta.com/agents/{id}; anything else is
// treated as a self-hosted server reachable through the local development
// server view.
func BuildAgentURL(serverURL, agentID string) string {
	base := strings.TrimRight(serverURL, "/")
	if strings.Contains(base, "api.letta.com") {
		return "https://app.letta.com/agents/" + agentID
	}
	return "https://app.letta.com/development-servers/local/agents/" + agentID
}

// ParseAgentRef accepts either a bare agent ID or an ADE URL and returns
// the agent ID. Used by the `agent` command so users can paste either form.
func ParseAgentRef(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty agent reference")
	}
	if !strings.Contains(raw, "://") {
		return raw, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i+1 < len(segments); i++ {
		if segments[i] == "agents" && segments[i+1] != "" {
			return segments[i+1], nil
		}
	}
	return "", fmt.Errorf("URL path does not contain /agents/{id}")
}
