package transcript

import (
	"sort"

	"go.uber.org/zap"
)

// GroupHistory reconstructs message groups from a batch of persisted
// messages. Unlike the live accumulator, the batch holds complete messages
// (no deltas) with no ordering guarantee, so grouping works over the whole
// batch at once:
//
//  1. drop terminal/usage noise and housekeeping user turns
//  2. sort by timestamp
//  3. group by id, one group per id
//  4. an action supersedes a bare assistant response for the same step
//  5. pair outcomes onto actions by tool_call_id; leftovers stay standalone
//  6. unwrap control alerts hiding in user turns
//  7. stable-sort the result by creation time
//
// A malformed message is skipped with a diagnostic; one bad record never
// aborts the pass.
func GroupHistory(msgs []Message, log *zap.Logger) []MessageGroup {
	if log == nil {
		log = zap.NewNop()
	}

	kept := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		if m.ID == "" {
			log.Warn("history message without id skipped",
				zap.String("message_type", m.MessageType))
			continue
		}
		switch m.MessageType {
		case TypeStopReason, TypeUsage, TypeSystem:
			continue
		case TypeUser:
			text, _ := DecodeContent(m.Content)
			if IsHousekeeping(text) {
				continue
			}
		}
		kept = append(kept, m)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Date.Before(kept[j].Date)
	})

	// Group by id, preserving first-seen order.
	byID := make(map[string][]Message)
	var order []string
	for _, m := range kept {
		if _, seen := byID[m.ID]; !seen {
			order = append(order, m.ID)
		}
		byID[m.ID] = append(byID[m.ID], m)
	}

	var groups []MessageGroup
	var outcomes []Outcome
	for _, id := range order {
		g, o, ok := compileHistoryGroup(id, byID[id], log)
		if !ok {
			continue
		}
		if o != nil {
			outcomes = append(outcomes, *o)
			continue
		}
		groups = append(groups, g)
	}

	groups = dropSupersededResponses(groups, log)
	groups, orphans := pairOutcomes(groups, outcomes)
	for _, o := range orphans {
		log.Debug("history outcome without invocation", zap.String("pair_id", o.PairID))
		groups = append(groups, orphanGroup(o, false))
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].CreatedAt.Before(groups[j].CreatedAt)
	})
	return groups
}

// compileHistoryGroup folds all messages sharing one id into a single
// group, using the same kind-disambiguation rules the live compiler
// applies: user beats everything, action beats response, outcome-only
// groups become candidates for pairing.
func compileHistoryGroup(id string, msgs []Message, log *zap.Logger) (MessageGroup, *Outcome, bool) {
	g := MessageGroup{ID: id, CreatedAt: msgs[0].Date}

	var (
		hasUser, hasAction, hasResponse bool
		outcome                         *Outcome
	)

	for _, m := range msgs {
		f := Classify(m)
		switch f.Role {
		case RoleUser:
			hasUser = true
			g.Text = UnwrapUserText(f.Text)
			g.Images = f.Images

		case RoleAction:
			hasAction = true
			g.ActionName = f.ActionName
			g.ActionArgs = FormatArgs(f.ArgsDelta)
			g.PairID = f.PairID

		case RoleOutcome:
			outcome = &Outcome{
				ID:     f.TurnID,
				PairID: f.PairID,
				At:     f.At,
				Text:   f.Text,
				Status: f.Status,
			}

		case RoleResponse:
			hasResponse = true
			g.Text = f.Text
			if g.PairID == "" {
				g.PairID = f.PairID
			}

		case RoleThought:
			// Historical messages are complete, not deltas: when several
			// reasoning records share the id, the last one wins.
			g.Thought = f.Text

		default:
			log.Debug("unrecognized history message ignored",
				zap.String("id", id), zap.String("message_type", m.MessageType))
		}
	}

	switch {
	case hasUser:
		if cleaned, ok := ExtractAlert(g.Text); ok {
			g.Kind = GroupControl
			g.Text = cleaned
			g.Images = nil
		} else {
			g.Kind = GroupUser
		}
	case hasAction:
		g.Kind = GroupAction
	case hasResponse:
		g.Kind = GroupAssistant
	case outcome != nil:
		// Outcome-only id: tentatively an orphan, resolved by the pairing pass.
		return MessageGroup{}, outcome, true
	default:
		return MessageGroup{}, nil, false
	}

	g.RenderKey = renderKey(g.ID, g.Kind)
	return g, nil, true
}

// dropSupersededResponses removes assistant groups whose pairing key is
// claimed by an action group: the backend records both when a response is
// produced through a tool, and the action is the authoritative record.
func dropSupersededResponses(groups []MessageGroup, log *zap.Logger) []MessageGroup {
	actionPairs := make(map[string]bool)
	for _, g := range groups {
		if g.Kind == GroupAction && g.PairID != "" {
			actionPairs[g.PairID] = true
		}
	}
	if len(actionPairs) == 0 {
		return groups
	}

	out := groups[:0]
	for _, g := range groups {
		if g.Kind == GroupAssistant && g.PairID != "" && actionPairs[g.PairID] {
			log.Debug("assistant response superseded by action", zap.String("id", g.ID))
			continue
		}
		out = append(out, g)
	}
	return out
}
