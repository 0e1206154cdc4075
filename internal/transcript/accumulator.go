package transcript

import (
	"strings"
	"time"

	"go.uber.org/zap"
)

// ─── Finalized turns ────────────────────────────────────────────────────────

// TurnKind says what the body of a turn turned out to be.
type TurnKind int

const (
	TurnUnset    TurnKind = iota // thought only, no body yet
	TurnAction                   // body is a tool invocation
	TurnResponse                 // body is assistant text
)

// FinalizedTurn is an immutable snapshot of an accumulating turn, taken at
// the moment a boundary is detected (or on demand for the still-open turn).
// Downstream stages only ever see these snapshots, never the live turn.
type FinalizedTurn struct {
	ID         string
	StartedAt  time.Time
	Thought    string
	Kind       TurnKind
	ActionName string
	Args       string // accumulated argument text (TurnAction)
	Response   string // accumulated response text (TurnResponse)
	PairID     string // tool_call_id for TurnAction
}

// Outcome is a tool return held in the side table until something claims it
// by PairID.
type Outcome struct {
	ID     string
	PairID string
	At     time.Time
	Text   string
	Status string
}

// ─── Accumulator ────────────────────────────────────────────────────────────

// accumTurn is the single mutable in-progress turn. It is owned exclusively
// by the Accumulator and never escapes by reference.
type accumTurn struct {
	id         string
	startedAt  time.Time
	thought    strings.Builder
	args       strings.Builder
	response   strings.Builder
	kind       TurnKind
	actionName string
	pairID     string
}

func (t *accumTurn) snapshot() FinalizedTurn {
	return FinalizedTurn{
		ID:         t.id,
		StartedAt:  t.startedAt,
		Thought:    t.thought.String(),
		Kind:       t.kind,
		ActionName: t.actionName,
		Args:       t.args.String(),
		Response:   t.response.String(),
		PairID:     t.pairID,
	}
}

// Accumulator reassembles a live fragment stream into turns. It holds at
// most one open turn plus a buffer of turns finalized during the current
// connection, and a side table of outcomes awaiting their invocation.
//
// Single-threaded by construction: the caller feeds one fragment to
// completion before the next.
type Accumulator struct {
	log      *zap.Logger
	open     *accumTurn
	done     []FinalizedTurn
	outcomes []Outcome
	complete bool
}

func NewAccumulator(log *zap.Logger) *Accumulator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Accumulator{log: log}
}

// Feed applies one classified fragment. Returns true when the fragment was
// a boundary and the stream is now complete.
func (a *Accumulator) Feed(f Fragment) bool {
	switch f.Role {
	case RoleThought:
		// The only boundary-detection rule: a thought for a new ID closes
		// the previous turn. Kind transitions never do.
		if a.open != nil && a.open.id != f.TurnID {
			a.finalizeOpen()
		}
		a.ensureOpen(f)
		a.open.thought.WriteString(f.Text)

	case RoleAction:
		a.ensureOpen(f)
		if a.open.id != f.TurnID {
			a.log.Debug("action fragment id differs from open turn",
				zap.String("open", a.open.id), zap.String("fragment", f.TurnID))
		}
		if a.open.kind != TurnAction {
			a.open.kind = TurnAction
		}
		if f.ActionName != "" && a.open.actionName == "" {
			a.open.actionName = f.ActionName
		}
		if f.PairID != "" && a.open.pairID == "" {
			a.open.pairID = f.PairID
		}
		a.open.args.WriteString(f.ArgsDelta)

	case RoleResponse:
		a.ensureOpen(f)
		if a.open.id != f.TurnID {
			a.log.Debug("response fragment id differs from open turn",
				zap.String("open", a.open.id), zap.String("fragment", f.TurnID))
		}
		if a.open.kind == TurnUnset {
			a.open.kind = TurnResponse
		}
		a.open.response.WriteString(f.Text)

	case RoleOutcome:
		// Outcomes never open or close turns; they wait in the side table.
		a.outcomes = append(a.outcomes, Outcome{
			ID:     f.TurnID,
			PairID: f.PairID,
			At:     f.At,
			Text:   f.Text,
			Status: f.Status,
		})

	case RoleBoundary:
		a.finalizeOpen()
		a.complete = true
		return true

	case RoleUser:
		// The stream does not normally echo user turns; the caller records
		// its own outbound message. Nothing to accumulate.
		a.log.Debug("user fragment on live stream ignored", zap.String("id", f.TurnID))

	case RoleIgnored:
		// No accumulation effect.
	}
	return false
}

func (a *Accumulator) ensureOpen(f Fragment) {
	if a.open == nil {
		a.open = &accumTurn{id: f.TurnID, startedAt: f.At}
	}
}

func (a *Accumulator) finalizeOpen() {
	if a.open == nil {
		return
	}
	a.done = append(a.done, a.open.snapshot())
	a.open = nil
}

// Finalized returns the buffered finalized turns in order.
func (a *Accumulator) Finalized() []FinalizedTurn {
	out := make([]FinalizedTurn, len(a.done))
	copy(out, a.done)
	return out
}

// Open returns a snapshot of the still-open turn, if any.
func (a *Accumulator) Open() (FinalizedTurn, bool) {
	if a.open == nil {
		return FinalizedTurn{}, false
	}
	return a.open.snapshot(), true
}

// Outcomes returns the side table in arrival order. Pairing against action
// turns is a pure pass over this slice, so repeated snapshots stay
// deterministic.
func (a *Accumulator) Outcomes() []Outcome {
	out := make([]Outcome, len(a.outcomes))
	copy(out, a.outcomes)
	return out
}

// Complete reports whether a boundary has closed the stream.
func (a *Accumulator) Complete() bool { return a.complete }

// Drain finalizes any open turn and returns every buffered turn, clearing
// the buffer. Called by the assembler during the end-of-turn hand-off.
func (a *Accumulator) Drain() []FinalizedTurn {
	a.finalizeOpen()
	out := a.done
	a.done = nil
	return out
}

// Reset discards all provisional state: the open turn, the finalized
// buffer, and unmatched outcomes. Used on stream error or abort, where
// showing a partial turn as final would be worse than losing it.
func (a *Accumulator) Reset() {
	a.open = nil
	a.done = nil
	a.outcomes = nil
	a.complete = false
}
