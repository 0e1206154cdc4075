package transcript

import "time"

// ─── Message groups ─────────────────────────────────────────────────────────

// GroupKind is the display variant of a message group.
type GroupKind int

const (
	GroupUser          GroupKind = iota // user text + optional images
	GroupAssistant                      // final response text + optional thought
	GroupAction                         // tool invocation, optionally with outcome
	GroupOrphanOutcome                  // outcome whose invocation never arrived
	GroupControl                        // system-injected alert, cleaned
)

func (k GroupKind) String() string {
	switch k {
	case GroupUser:
		return "user"
	case GroupAssistant:
		return "assistant"
	case GroupAction:
		return "action"
	case GroupOrphanOutcome:
		return "orphan-outcome"
	default:
		return "control"
	}
}

// MessageGroup is the unit the rendering layer consumes: one fully grouped
// conversational step. Immutable once produced.
type MessageGroup struct {
	ID        string
	RenderKey string // stable disambiguator when variants share an ID
	Kind      GroupKind
	CreatedAt time.Time

	Text    string // user text / assistant text / cleaned control message
	Thought string
	Images  []Image

	ActionName    string
	ActionArgs    string // formatted for display
	PairID        string // tool_call_id correlating an action with its outcome
	Outcome       string // empty until the paired outcome arrives
	OutcomeStatus string
	HasOutcome    bool

	Provisional bool // stream-sourced, not yet reconciled with history
}

// renderKey builds the deterministic per-variant key. Derived purely from
// the group identity so recompiling the same snapshot yields the same key.
func renderKey(id string, kind GroupKind) string {
	return id + "/" + kind.String()
}

// ─── Pairing (shared by the live and historical paths) ──────────────────────

// pairOutcomes attaches each outcome whose pair ID matches an action group
// to that group's outcome slot, first match wins. Outcomes left over are
// returned so the caller can render them standalone. Pure: inputs are not
// mutated, so the pass can run on every snapshot.
func pairOutcomes(groups []MessageGroup, outcomes []Outcome) ([]MessageGroup, []Outcome) {
	out := make([]MessageGroup, len(groups))
	copy(out, groups)

	used := make([]bool, len(outcomes))
	for i := range out {
		if out[i].Kind != GroupAction || out[i].HasOutcome || out[i].PairID == "" {
			continue
		}
		for j, o := range outcomes {
			if used[j] || o.PairID != out[i].PairID {
				continue
			}
			out[i].Outcome = o.Text
			out[i].OutcomeStatus = o.Status
			out[i].HasOutcome = true
			used[j] = true
			break
		}
	}

	var orphans []Outcome
	for j, o := range outcomes {
		if !used[j] {
			orphans = append(orphans, o)
		}
	}
	return out, orphans
}

// orphanGroup wraps an unmatched outcome in a standalone group rather
// than dropping it.
func orphanGroup(o Outcome, provisional bool) MessageGroup {
	return MessageGroup{
		ID:            o.ID,
		RenderKey:     renderKey(o.ID, GroupOrphanOutcome),
		Kind:          GroupOrphanOutcome,
		CreatedAt:     o.At,
		Outcome:       o.Text,
		OutcomeStatus: o.Status,
		HasOutcome:    true,
		Provisional:   provisional,
	}
}
