package transcript

import (
	"encoding/json"
	"testing"
	"time"
)

var testDate = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func TestClassifyReasoning(t *testing.T) {
	f := Classify(Message{ID: "m1", MessageType: TypeReasoning, Date: testDate, Reasoning: "thinking"})
	if f.Role != RoleThought {
		t.Fatalf("expected RoleThought, got %v", f.Role)
	}
	if f.TurnID != "m1" || f.Text != "thinking" {
		t.Errorf("unexpected fragment: %+v", f)
	}
}

func TestClassifyToolCall(t *testing.T) {
	f := Classify(Message{
		ID:          "m1",
		MessageType: TypeToolCall,
		Date:        testDate,
		ToolCall:    &ToolCall{Name: "search", Arguments: `{"q":`, ToolCallID: "tc1"},
	})
	if f.Role != RoleAction {
		t.Fatalf("expected RoleAction, got %v", f.Role)
	}
	if f.ActionName != "search" || f.ArgsDelta != `{"q":` || f.PairID != "tc1" {
		t.Errorf("unexpected fragment: %+v", f)
	}
}

func TestClassifyToolCallWithoutPayload(t *testing.T) {
	f := Classify(Message{ID: "m1", MessageType: TypeToolCall, Date: testDate})
	if f.Role != RoleAction {
		t.Fatalf("expected RoleAction, got %v", f.Role)
	}
	if f.ActionName != "" || f.ArgsDelta != "" {
		t.Errorf("nil tool_call should classify empty, got %+v", f)
	}
}

func TestClassifyToolReturn(t *testing.T) {
	f := Classify(Message{
		ID:          "m9",
		MessageType: TypeToolReturn,
		Date:        testDate,
		ToolReturn:  "42 results",
		Status:      "success",
		ToolCallID:  "tc1",
	})
	if f.Role != RoleOutcome {
		t.Fatalf("expected RoleOutcome, got %v", f.Role)
	}
	if f.PairID != "tc1" || f.Text != "42 results" || f.Status != "success" {
		t.Errorf("unexpected fragment: %+v", f)
	}
}

func TestClassifyAssistantStringContent(t *testing.T) {
	f := Classify(Message{ID: "m1", MessageType: TypeAssistant, Date: testDate, Content: json.RawMessage(`"hi"`)})
	if f.Role != RoleResponse || f.Text != "hi" {
		t.Errorf("unexpected fragment: %+v", f)
	}
}

func TestClassifyUserWithImageParts(t *testing.T) {
	content := `[{"type":"image","source":{"type":"base64","media_type":"image/jpeg","data":"abc"}},{"type":"text","text":"Describe this image."}]`
	f := Classify(Message{ID: "u1", MessageType: TypeUser, Date: testDate, Content: json.RawMessage(content)})
	if f.Role != RoleUser {
		t.Fatalf("expected RoleUser, got %v", f.Role)
	}
	if f.Text != "Describe this image." {
		t.Errorf("expected text part, got %q", f.Text)
	}
	if len(f.Images) != 1 || f.Images[0].MediaType != "image/jpeg" {
		t.Errorf("expected one jpeg image, got %+v", f.Images)
	}
}

func TestClassifyStopReason(t *testing.T) {
	f := Classify(Message{ID: "s1", MessageType: TypeStopReason, Date: testDate, StopReason: "end_turn"})
	if f.Role != RoleBoundary || f.Status != "end_turn" {
		t.Errorf("unexpected fragment: %+v", f)
	}
}

func TestClassifyUnknownKind(t *testing.T) {
	f := Classify(Message{ID: "x1", MessageType: "someday_message", Date: testDate})
	if f.Role != RoleIgnored {
		t.Errorf("unknown kinds must classify as ignored, got %v", f.Role)
	}
}

func TestDecodeContentFallback(t *testing.T) {
	text, images := DecodeContent(json.RawMessage(`{"weird":"shape"}`))
	if text != `{"weird":"shape"}` {
		t.Errorf("unrecognized content should fall back to raw text, got %q", text)
	}
	if images != nil {
		t.Errorf("expected no images, got %+v", images)
	}
}
