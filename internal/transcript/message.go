package transcript

import (
	"encoding/json"
	"time"
)

// ─── Wire types ─────────────────────────────────────────────────────────────
//
// Message mirrors one record of the Letta message union. The same shape
// arrives over the SSE stream (as incremental deltas) and from the history
// endpoint (as complete messages). Only the fields for the active
// message_type are populated; everything else is zero.

type Message struct {
	ID          string          `json:"id,omitempty"`
	MessageType string          `json:"message_type,omitempty"`
	Date        time.Time       `json:"date,omitempty"`
	OtID        string          `json:"otid,omitempty"`

	// reasoning_message
	Reasoning string `json:"reasoning,omitempty"`

	// assistant_message / user_message / system_message.
	// Either a JSON string or an array of content parts (text + images).
	Content json.RawMessage `json:"content,omitempty"`

	// tool_call_message
	ToolCall *ToolCall `json:"tool_call,omitempty"`

	// tool_return_message
	ToolReturn string `json:"tool_return,omitempty"`
	Status     string `json:"status,omitempty"`
	ToolCallID string `json:"tool_call_id,omitempty"`

	// stop_reason
	StopReason string `json:"stop_reason,omitempty"`
}

// ToolCall carries one tool invocation fragment. During streaming the
// Arguments field holds a partial delta, not a complete JSON document.
type ToolCall struct {
	Name       string `json:"name,omitempty"`
	Arguments  string `json:"arguments,omitempty"`
	ToolCallID string `json:"tool_call_id,omitempty"`
}

// Message type constants as sent by the backend.
const (
	TypeReasoning  = "reasoning_message"
	TypeToolCall   = "tool_call_message"
	TypeToolReturn = "tool_return_message"
	TypeAssistant  = "assistant_message"
	TypeUser       = "user_message"
	TypeSystem     = "system_message"
	TypeStopReason = "stop_reason"
	TypeUsage      = "usage_statistics"
)

// ─── Content decoding ───────────────────────────────────────────────────────

// ContentPart is one element of a structured content array. User messages
// with attachments arrive this way; plain messages arrive as a bare string.
type ContentPart struct {
	Type   string       `json:"type"`
	Text   string       `json:"text,omitempty"`
	Source *ImageSource `json:"source,omitempty"`
}

// ImageSource describes an inline or referenced image attachment.
type ImageSource struct {
	Type      string `json:"type,omitempty"`
	MediaType string `json:"media_type,omitempty"`
	Data      string `json:"data,omitempty"`
	URL       string `json:"url,omitempty"`
}

// Image is the display-level view of an attachment: just enough for the
// rendering layer to show a placeholder or fetch the referenced resource.
type Image struct {
	MediaType string
	URL       string
}

// DecodeContent flattens a content field into display text plus any image
// attachments. Unrecognized shapes fall back to the raw bytes as text so
// content is never silently lost.
func DecodeContent(raw json.RawMessage) (string, []Image) {
	if len(raw) == 0 {
		return "", nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}

	var parts []ContentPart
	if err := json.Unmarshal(raw, &parts); err != nil {
		return string(raw), nil
	}

	var text string
	var images []Image
	for _, p := range parts {
		switch p.Type {
		case "text":
			if text != "" && p.Text != "" {
				text += "\n"
			}
			text += p.Text
		case "image":
			img := Image{}
			if p.Source != nil {
				img.MediaType = p.Source.MediaType
				img.URL = p.Source.URL
			}
			images = append(images, img)
		}
	}
	return text, images
}
