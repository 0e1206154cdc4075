package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"letta-cli/internal/config"
	"letta-cli/internal/transcript"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(&config.Config{Server: srv.URL, Token: "test-token"})
}

func TestListAgents(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "/v1/agents/", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		w.Write([]byte(`[{"id":"agent-1","name":"scout","model":"gpt-4"}]`))
	})

	agents, err := c.ListAgents(5)
	require.NoError(t, err)
	require.Len(t, agents, 1)
	assert.Equal(t, "agent-1", agents[0].ID)
	assert.Equal(t, "scout", agents[0].Name)
}

func TestGetAgentServerError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"agent not found"}`, http.StatusNotFound)
	})

	_, err := c.GetAgent("agent-missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestListMessagesDecodesUnion(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/agents/agent-1/messages", r.URL.Path)
		w.Write([]byte(`[
			{"id":"m1","message_type":"reasoning_message","reasoning":"hm","date":"2026-08-01T12:00:00Z"},
			{"id":"m2","message_type":"tool_call_message","tool_call":{"name":"search","arguments":"{}","tool_call_id":"tc1"},"date":"2026-08-01T12:00:01Z"},
			{"id":"m3","message_type":"tool_return_message","tool_return":"ok","status":"success","tool_call_id":"tc1","date":"2026-08-01T12:00:02Z"}
		]`))
	})

	msgs, err := c.ListMessages("agent-1", 100)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, transcript.TypeReasoning, msgs[0].MessageType)
	require.NotNil(t, msgs[1].ToolCall)
	assert.Equal(t, "tc1", msgs[1].ToolCall.ToolCallID)
	assert.Equal(t, "tc1", msgs[2].ToolCallID)
}

func TestStreamMessage(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/agents/agent-1/messages/stream", r.URL.Path)
		assert.Equal(t, "text/event-stream", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte("event: message\n" +
			"data: {\"id\":\"m1\",\"message_type\":\"reasoning_message\",\"reasoning\":\"thinking\"}\n\n" +
			"data: not json, skipped\n\n" +
			"data: {\"id\":\"m1\",\"message_type\":\"assistant_message\",\"content\":\"hi\"}\n\n" +
			"data: [DONE]\n\n" +
			"data: {\"id\":\"late\",\"message_type\":\"assistant_message\"}\n\n"))
	})

	var got []transcript.Message
	err := c.StreamMessage(context.Background(), "agent-1", "hello", func(m transcript.Message) {
		got = append(got, m)
	})
	require.NoError(t, err)
	require.Len(t, got, 2, "junk lines skipped, nothing after [DONE]")
	assert.Equal(t, transcript.TypeReasoning, got[0].MessageType)
	assert.Equal(t, transcript.TypeAssistant, got[1].MessageType)
}

func TestStreamMessageHTTPError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	})

	err := c.StreamMessage(context.Background(), "agent-1", "hello", func(transcript.Message) {
		t.Error("callback must not fire on transport failure")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestStreamMessageContextCancel(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte("data: {\"id\":\"m1\",\"message_type\":\"reasoning_message\"}\n\n"))
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	err := c.StreamMessage(ctx, "agent-1", "hello", func(transcript.Message) {
		cancel()
	})
	require.ErrorIs(t, err, context.Canceled)
}
