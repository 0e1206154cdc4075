package transcript

import "time"

// ─── Fragment roles ─────────────────────────────────────────────────────────

// Role identifies what a classified fragment contributes to a turn.
type Role int

const (
	RoleThought  Role = iota // reasoning delta
	RoleAction               // tool invocation delta
	RoleOutcome              // tool return (complete, correlated by ToolCallID)
	RoleResponse             // assistant text delta
	RoleUser                 // user message echoed on the stream
	RoleBoundary             // stop_reason: the turn sequence is complete
	RoleIgnored              // usage stats, unknown kinds; no accumulation effect
)

func (r Role) String() string {
	switch r {
	case RoleThought:
		return "thought"
	case RoleAction:
		return "action"
	case RoleOutcome:
		return "outcome"
	case RoleResponse:
		return "response"
	case RoleUser:
		return "user"
	case RoleBoundary:
		return "boundary"
	default:
		return "ignored"
	}
}

// Fragment is the classified view of one wire message: a closed variant
// per role, decoded once at this boundary so downstream stages never touch
// raw JSON.
type Fragment struct {
	Role   Role
	TurnID string
	PairID string // tool_call_id shared by an action and its outcome
	At     time.Time

	Text       string  // thought / response / outcome / user text
	Images     []Image // user attachments
	ActionName string  // set on the tool-call fragment that carries it
	ArgsDelta  string  // partial argument text for an action fragment
	Status     string  // outcome status (success / error)
}

// Classify maps one wire message to its fragment role. Pure: no state, no
// side effects. Unrecognized message types come back as RoleIgnored so a
// protocol addition never breaks accumulation of subsequent events.
func Classify(m Message) Fragment {
	switch m.MessageType {
	case TypeReasoning:
		return Fragment{Role: RoleThought, TurnID: m.ID, At: m.Date, Text: m.Reasoning}

	case TypeToolCall:
		f := Fragment{Role: RoleAction, TurnID: m.ID, At: m.Date}
		if m.ToolCall != nil {
			f.ActionName = m.ToolCall.Name
			f.ArgsDelta = m.ToolCall.Arguments
			f.PairID = m.ToolCall.ToolCallID
		}
		return f

	case TypeToolReturn:
		return Fragment{
			Role:   RoleOutcome,
			TurnID: m.ID,
			PairID: m.ToolCallID,
			At:     m.Date,
			Text:   m.ToolReturn,
			Status: m.Status,
		}

	case TypeAssistant:
		text, _ := DecodeContent(m.Content)
		// Some backends record the tool_call_id a response was produced
		// through; the grouper's conflict resolution keys on it.
		return Fragment{Role: RoleResponse, TurnID: m.ID, PairID: m.ToolCallID, At: m.Date, Text: text}

	case TypeUser:
		text, images := DecodeContent(m.Content)
		return Fragment{Role: RoleUser, TurnID: m.ID, At: m.Date, Text: text, Images: images}

	case TypeStopReason:
		return Fragment{Role: RoleBoundary, TurnID: m.ID, At: m.Date, Status: m.StopReason}

	default:
		return Fragment{Role: RoleIgnored, TurnID: m.ID, At: m.Date}
	}
}
