package api

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"letta-cli/internal/config"
	"letta-cli/internal/transcript"
)

// Client talks to a Letta server. All agent and message operations go
// through here; the transcript engine only ever sees the decoded
// transcript.Message records this client hands it.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.Server, "/"),
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
		token: cfg.Token,
	}
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

// --- Agents ---

type Agent struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Model       string `json:"model,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
	LastRunAt   string `json:"last_run_completion,omitempty"`
}

func (c *Client) ListAgents(limit int) ([]Agent, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	var agents []Agent
	if err := c.doJSON("GET", "/v1/agents/?"+params.Encode(), nil, &agents); err != nil {
		return nil, err
	}
	return agents, nil
}

func (c *Client) GetAgent(agentID string) (*Agent, error) {
	var agent Agent
	if err := c.doJSON("GET", "/v1/agents/"+agentID, nil, &agent); err != nil {
		return nil, err
	}
	return &agent, nil
}

// CheckAuth probes the server with the configured token. Used by login to
// validate credentials before saving them.
func (c *Client) CheckAuth() error {
	if _, err := c.ListAgents(1); err != nil {
		return fmt.Errorf("authentication check failed: %w", err)
	}
	return nil
}

// --- Message history ---

// ListMessages fetches one bounded page of persisted messages for an
// agent, oldest first. The caller feeds the result to the history grouper;
// no cursoring beyond the page is done here.
func (c *Client) ListMessages(agentID string, limit int) ([]transcript.Message, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	var msgs []transcript.Message
	if err := c.doJSON("GET", "/v1/agents/"+agentID+"/messages?"+params.Encode(), nil, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// --- Streaming ---

type messageCreate struct {
	Role    string             `json:"role"`
	Content []messageCreatePart `json:"content"`
}

type messageCreatePart struct {
	Type   string                  `json:"type"`
	Text   string                  `json:"text,omitempty"`
	Source *transcript.ImageSource `json:"source,omitempty"`
}

type streamRequest struct {
	Messages     []messageCreate `json:"messages"`
	StreamTokens bool            `json:"stream_tokens"`
}

// StreamCallback is invoked once per decoded stream event, in arrival
// order, on the goroutine reading the response body.
type StreamCallback func(msg transcript.Message)

// StreamMessage sends a user message and consumes the SSE response,
// invoking cb for every event until the [DONE] sentinel. Unparseable
// lines are skipped; the transport error, if any, is returned after the
// stream ends. Cancelling ctx aborts the request and the body read,
// returning the context's error.
func (c *Client) StreamMessage(ctx context.Context, agentID, text string, cb StreamCallback) error {
	reqBody := streamRequest{
		Messages: []messageCreate{
			{
				Role:    "user",
				Content: []messageCreatePart{{Type: "text", Text: text}},
			},
		},
		StreamTokens: true,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/v1/agents/"+agentID+"/messages/stream", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(errBody))
	}

	scanner := bufio.NewScanner(resp.Body)
	// Increase buffer for large streamed chunks
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "event:") || strings.HasPrefix(line, ":") {
			continue
		}
		data, ok := strings.CutPrefix(line, "data:")
		if !ok {
			continue
		}
		data = strings.TrimSpace(data)
		if data == "[DONE]" {
			break
		}

		var msg transcript.Message
		if err := json.Unmarshal([]byte(data), &msg); err != nil {
			// Skip unparseable lines
			continue
		}
		cb(msg)
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}
	return scanner.Err()
}

// --- Generic JSON helper ---

func (c *Client) doJSON(method, path string, reqBody interface{}, result interface{}) error {
	var bodyReader io.Reader
	if reqBody != nil && method != "GET" {
		data, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(respBody))
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("parsing response: %w", err)
		}
	}
	return nil
}
