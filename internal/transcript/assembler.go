package transcript

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Assembler is the single surface the rendering layer reads. It merges the
// durable transcript (from a history fetch) with the provisional view the
// accumulator reconstructs live, and performs the end-of-turn hand-off so
// the reader never sees a turn both ways, or neither way, at once.
//
// One assembler per conversation; all methods are driven from a single
// event loop, so there is no locking.
type Assembler struct {
	log     *zap.Logger
	acc     *Accumulator
	durable []MessageGroup
	active  bool
}

func NewAssembler(log *zap.Logger) *Assembler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Assembler{log: log, acc: NewAccumulator(log)}
}

// SeedHistory replaces the durable transcript with freshly grouped
// history. Provisional state is untouched: reconciliation happens on
// Complete, not here.
func (s *Assembler) SeedHistory(msgs []Message) {
	s.durable = GroupHistory(msgs, s.log)
}

// AppendUser records the caller's own outbound message. It goes straight
// into the durable list: the caller sent it, there is nothing provisional
// about it.
func (s *Assembler) AppendUser(text string) {
	id := "local-" + uuid.NewString()
	s.durable = append(s.durable, MessageGroup{
		ID:        id,
		RenderKey: renderKey(id, GroupUser),
		Kind:      GroupUser,
		CreatedAt: time.Now(),
		Text:      text,
	})
	s.active = true
}

// HandleEvent consumes one live wire message. Returns true when the event
// was the stream terminal, after the hand-off has run.
func (s *Assembler) HandleEvent(m Message) bool {
	f := Classify(m)
	if f.Role == RoleIgnored {
		s.log.Debug("unrecognized stream event ignored",
			zap.String("message_type", m.MessageType))
		return false
	}
	if done := s.acc.Feed(f); done {
		s.Complete()
		return true
	}
	s.active = true
	return false
}

// Complete performs the provisional-to-durable hand-off: every buffered
// turn plus the still-open one is compiled, paired, and appended to the
// durable list, and all provisional state clears in the same step. Safe to
// call twice; the second call finds nothing to move.
func (s *Assembler) Complete() {
	groups := compileTurns(s.acc.Drain())
	groups, orphans := pairOutcomes(groups, s.acc.Outcomes())
	for _, o := range orphans {
		s.log.Debug("stream outcome without invocation", zap.String("pair_id", o.PairID))
		groups = append(groups, orphanGroup(o, true))
	}
	for i := range groups {
		groups[i].Provisional = false
	}
	s.durable = append(s.durable, groups...)
	s.acc.Reset()
	s.active = false
}

// Abort discards all provisional state without compiling it. Partial
// content from a cancelled turn is dropped rather than shown as if it
// were final.
func (s *Assembler) Abort() {
	s.acc.Reset()
	s.active = false
}

// TurnActive reports whether a turn is currently in flight.
func (s *Assembler) TurnActive() bool { return s.active }

// Snapshot produces the ordered sequence the rendering layer consumes:
// durable groups first, then the provisional view of the in-flight turn
// (finalized-but-unflushed turns, then the open turn), then any outcomes
// still waiting for an invocation.
func (s *Assembler) Snapshot() []MessageGroup {
	out := make([]MessageGroup, len(s.durable))
	copy(out, s.durable)

	turns := s.acc.Finalized()
	if open, ok := s.acc.Open(); ok {
		turns = append(turns, open)
	}
	groups := compileTurns(turns)
	groups, orphans := pairOutcomes(groups, s.acc.Outcomes())
	out = append(out, groups...)
	for _, o := range orphans {
		out = append(out, orphanGroup(o, true))
	}
	return out
}

// Settled is Snapshot without the still-open turn: the part of the view
// that no further delta can change. Incremental renderers print from here
// and show the open turn through a status line instead.
func (s *Assembler) Settled() []MessageGroup {
	out := make([]MessageGroup, len(s.durable))
	copy(out, s.durable)

	groups := compileTurns(s.acc.Finalized())
	groups, orphans := pairOutcomes(groups, s.acc.Outcomes())
	out = append(out, groups...)

	// While a turn is open its invocation has not settled yet, so an
	// outcome unclaimed by the finalized turns may still belong to it.
	// Withhold unclaimed outcomes until the turn closes; Complete emits
	// any that remain truly unmatched.
	if _, open := s.acc.Open(); !open {
		for _, o := range orphans {
			out = append(out, orphanGroup(o, true))
		}
	}
	return out
}

// OpenTurn exposes the in-flight turn's current state for status display.
func (s *Assembler) OpenTurn() (FinalizedTurn, bool) {
	return s.acc.Open()
}

func compileTurns(turns []FinalizedTurn) []MessageGroup {
	var groups []MessageGroup
	for _, t := range turns {
		groups = append(groups, Compile(t))
	}
	return groups
}
