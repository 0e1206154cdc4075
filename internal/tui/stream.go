package tui

import (
	"context"
	"errors"

	"letta-cli/internal/api"
	"letta-cli/internal/transcript"

	tea "github.com/charmbracelet/bubbletea"
)

// ─── Messages sent from stream goroutine to Bubble Tea ──────────────────────

type streamEventMsg struct {
	msg transcript.Message
}

type streamDoneMsg struct{}

type streamErrMsg struct {
	err error
}

// ─── Stream command ─────────────────────────────────────────────────────────
//
// Launches the send in a goroutine, forwards each decoded stream event
// through a channel, and returns a tea.Cmd that keeps reading from that
// channel until the stream ends.
//
// activeStreamCh is stored package-level so cancellation can detach the
// reader; endStream also cancels the stream context so the goroutine and
// the underlying transport shut down instead of lingering until the
// server closes the connection.

var (
	activeStreamCh     chan tea.Msg
	activeStreamCancel context.CancelFunc
)

func beginStream(client api.LettaAPI, agentID, prompt string) tea.Cmd {
	ch := make(chan tea.Msg, 64)
	ctx, cancel := context.WithCancel(context.Background())
	activeStreamCh = ch
	activeStreamCancel = cancel

	go func() {
		defer close(ch)
		defer cancel()

		err := client.StreamMessage(ctx, agentID, prompt, func(msg transcript.Message) {
			select {
			case ch <- streamEventMsg{msg: msg}:
			case <-ctx.Done():
			}
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			select {
			case ch <- streamErrMsg{err: err}:
			case <-ctx.Done():
			}
		}
	}()

	return waitForStream(ch)
}

// endStream detaches the reader and cancels the stream context.
func endStream() {
	if activeStreamCancel != nil {
		activeStreamCancel()
		activeStreamCancel = nil
	}
	activeStreamCh = nil
}

// waitForStream reads the next message from the channel.
func waitForStream(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return streamDoneMsg{}
		}
		return msg
	}
}
