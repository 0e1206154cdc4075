package api

import (
	"context"

	"letta-cli/internal/transcript"
)

// LettaAPI defines the interface for the Letta API client.
// *Client satisfies this interface. TUI and tests can use mock implementations.
type LettaAPI interface {
	CheckAuth() error
	ListAgents(limit int) ([]Agent, error)
	GetAgent(agentID string) (*Agent, error)
	ListMessages(agentID string, limit int) ([]transcript.Message, error)
	StreamMessage(ctx context.Context, agentID, text string, cb StreamCallback) error
}
