package transcript

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCompileAssistantTurn(t *testing.T) {
	g := Compile(FinalizedTurn{
		ID:        "A",
		StartedAt: testDate,
		Thought:   "hello",
		Kind:      TurnResponse,
		Response:  "hi",
	})
	if g.Kind != GroupAssistant {
		t.Fatalf("expected assistant group, got %v", g.Kind)
	}
	if g.Text != "hi" || g.Thought != "hello" {
		t.Errorf("unexpected group: %+v", g)
	}
	if !g.Provisional {
		t.Error("compiled groups must be provisional")
	}
	if g.RenderKey == "" || !strings.HasPrefix(g.RenderKey, "A/") {
		t.Errorf("render key should derive from id, got %q", g.RenderKey)
	}
}

func TestCompileActionTurn(t *testing.T) {
	g := Compile(FinalizedTurn{
		ID:         "A",
		StartedAt:  testDate,
		Kind:       TurnAction,
		ActionName: "search",
		Args:       `{"q":"x"}`,
		PairID:     "tc1",
	})
	if g.Kind != GroupAction || g.ActionName != "search" || g.PairID != "tc1" {
		t.Errorf("unexpected group: %+v", g)
	}
	if !strings.Contains(g.ActionArgs, `"q"`) {
		t.Errorf("arguments should be formatted, got %q", g.ActionArgs)
	}
	if g.HasOutcome {
		t.Error("freshly compiled action must not carry an outcome")
	}
}

func TestCompileIdempotent(t *testing.T) {
	turn := FinalizedTurn{
		ID:         "A",
		StartedAt:  testDate,
		Thought:    "t",
		Kind:       TurnAction,
		ActionName: "search",
		Args:       `search(q="x", limit=5)`,
		PairID:     "tc1",
	}
	first := Compile(turn)
	second := Compile(turn)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("compilation not idempotent (-first +second):\n%s", diff)
	}
}

func TestFormatArgsJSONObject(t *testing.T) {
	got := FormatArgs(`{"query":"outage","limit":5}`)
	if !strings.Contains(got, "\n") {
		t.Errorf("JSON object should pretty-print, got %q", got)
	}
	if !strings.Contains(got, `"query"`) || !strings.Contains(got, `"limit"`) {
		t.Errorf("keys lost in formatting: %q", got)
	}
}

func TestFormatArgsCallExpression(t *testing.T) {
	got := FormatArgs(`search(q="outage", limit=5)`)
	if !strings.Contains(got, `"q"`) || !strings.Contains(got, `"outage"`) {
		t.Errorf("call expression should convert to structured text, got %q", got)
	}
	if !strings.Contains(got, "5") {
		t.Errorf("numeric argument lost: %q", got)
	}
}

func TestFormatArgsFallsBackVerbatim(t *testing.T) {
	for _, raw := range []string{
		`{"broken":`,
		`search(q=`,
		`not structured at all`,
	} {
		if got := FormatArgs(raw); got != raw {
			t.Errorf("unparseable %q should pass through verbatim, got %q", raw, got)
		}
	}
}

func TestFormatArgsEmpty(t *testing.T) {
	if got := FormatArgs("   "); got != "" {
		t.Errorf("whitespace-only args should format empty, got %q", got)
	}
}
