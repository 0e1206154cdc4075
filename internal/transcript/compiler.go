package transcript

import (
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

// Compile materializes the display view of a turn snapshot. Pure and
// idempotent: the same snapshot always yields a byte-identical group.
// Compiled groups are provisional; reconciliation against history flips
// them durable.
func Compile(t FinalizedTurn) MessageGroup {
	g := MessageGroup{
		ID:          t.ID,
		CreatedAt:   t.StartedAt,
		Thought:     t.Thought,
		Provisional: true,
	}

	switch t.Kind {
	case TurnAction:
		g.Kind = GroupAction
		g.ActionName = t.ActionName
		g.ActionArgs = FormatArgs(t.Args)
		g.PairID = t.PairID
	default:
		// A thought with no body yet still renders as an assistant group
		// so in-flight reasoning is visible.
		g.Kind = GroupAssistant
		g.Text = t.Response
	}

	g.RenderKey = renderKey(g.ID, g.Kind)
	return g
}

// FormatArgs re-serializes accumulated argument text for display. Call
// expressions (`name(arg=value, ...)`) and JSON objects come back
// pretty-printed; anything unparseable is returned verbatim. Never fails.
func FormatArgs(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	if _, args, ok := ParseCallExpression(trimmed); ok {
		return prettyJSON(args)
	}

	if strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}") && gjson.Valid(trimmed) {
		return prettyJSON(trimmed)
	}

	return raw
}

func prettyJSON(s string) string {
	opts := &pretty.Options{Indent: "  ", SortKeys: false}
	return strings.TrimRight(string(pretty.PrettyOptions([]byte(s), opts)), "\n")
}
