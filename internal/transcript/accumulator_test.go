package transcript

import (
	"strings"
	"testing"
)

// ─── Fragment constructors ──────────────────────────────────────────────────

func thoughtFrag(id, text string) Fragment {
	return Fragment{Role: RoleThought, TurnID: id, At: testDate, Text: text}
}

func actionFrag(id, name, argsDelta, pairID string) Fragment {
	return Fragment{Role: RoleAction, TurnID: id, At: testDate, ActionName: name, ArgsDelta: argsDelta, PairID: pairID}
}

func responseFrag(id, text string) Fragment {
	return Fragment{Role: RoleResponse, TurnID: id, At: testDate, Text: text}
}

func outcomeFrag(id, pairID, text, status string) Fragment {
	return Fragment{Role: RoleOutcome, TurnID: id, PairID: pairID, At: testDate, Text: text, Status: status}
}

func boundaryFrag() Fragment {
	return Fragment{Role: RoleBoundary, TurnID: "stop", At: testDate, Status: "end_turn"}
}

// ─── Delta reassembly ───────────────────────────────────────────────────────

// splitsOf enumerates every way to cut s into contiguous chunks.
func splitsOf(s string) [][]string {
	if len(s) <= 1 {
		return [][]string{{s}}
	}
	var all [][]string
	for i := 1; i <= len(s); i++ {
		head := s[:i]
		if i == len(s) {
			all = append(all, []string{head})
			continue
		}
		for _, rest := range splitsOf(s[i:]) {
			all = append(all, append([]string{head}, rest...))
		}
	}
	return all
}

func TestDeltaReassemblyAllSplits(t *testing.T) {
	const text = "hello wor"
	for _, chunks := range splitsOf(text) {
		a := NewAccumulator(nil)
		for _, c := range chunks {
			a.Feed(thoughtFrag("A", c))
		}
		open, ok := a.Open()
		if !ok {
			t.Fatalf("split %v: no open turn", chunks)
		}
		if open.Thought != text {
			t.Errorf("split %v: got %q, want %q", chunks, open.Thought, text)
		}
	}
}

func TestDeltaReassemblyResponse(t *testing.T) {
	a := NewAccumulator(nil)
	for _, c := range []string{"The ", "answer ", "is ", "42."} {
		a.Feed(responseFrag("A", c))
	}
	open, _ := a.Open()
	if open.Response != "The answer is 42." {
		t.Errorf("got %q", open.Response)
	}
}

// ─── Boundary correctness ───────────────────────────────────────────────────

func TestBoundaryOnNewThoughtID(t *testing.T) {
	a := NewAccumulator(nil)
	a.Feed(thoughtFrag("A", "first"))
	a.Feed(thoughtFrag("B", "second"))

	done := a.Finalized()
	if len(done) != 1 {
		t.Fatalf("expected exactly 1 finalized turn, got %d", len(done))
	}
	if done[0].ID != "A" || done[0].Thought != "first" {
		t.Errorf("unexpected finalized turn: %+v", done[0])
	}
	open, ok := a.Open()
	if !ok || open.ID != "B" || open.Thought != "second" {
		t.Errorf("expected open turn B, got %+v ok=%v", open, ok)
	}
}

func TestNoBoundaryOnKindTransition(t *testing.T) {
	a := NewAccumulator(nil)
	a.Feed(thoughtFrag("A", "think"))
	a.Feed(actionFrag("A", "search", `{"q":"x"}`, "tc1"))
	a.Feed(responseFrag("A", "done"))

	if len(a.Finalized()) != 0 {
		t.Error("kind transitions must not finalize a turn")
	}
	open, _ := a.Open()
	if open.Kind != TurnAction || open.ActionName != "search" {
		t.Errorf("expected action turn, got %+v", open)
	}
}

func TestActionArgumentDeltas(t *testing.T) {
	a := NewAccumulator(nil)
	a.Feed(actionFrag("A", "search", `{"q"`, "tc1"))
	a.Feed(actionFrag("A", "", `:"out`, ""))
	a.Feed(actionFrag("A", "", `age"}`, ""))

	open, _ := a.Open()
	if open.Args != `{"q":"outage"}` {
		t.Errorf("argument deltas must concatenate, got %q", open.Args)
	}
	if open.ActionName != "search" || open.PairID != "tc1" {
		t.Errorf("name and pair id must stick from first fragment: %+v", open)
	}
}

func TestOutcomeNeverChangesState(t *testing.T) {
	a := NewAccumulator(nil)
	a.Feed(thoughtFrag("A", "thinking"))
	a.Feed(outcomeFrag("Z", "tc9", "result", "success"))

	if len(a.Finalized()) != 0 {
		t.Error("outcome must not finalize the open turn")
	}
	open, ok := a.Open()
	if !ok || open.ID != "A" {
		t.Error("outcome must not replace the open turn")
	}
	if got := a.Outcomes(); len(got) != 1 || got[0].PairID != "tc9" {
		t.Errorf("outcome should land in the side table, got %+v", got)
	}
}

func TestTerminalFinalizesOpenTurn(t *testing.T) {
	a := NewAccumulator(nil)
	a.Feed(thoughtFrag("A", "thinking"))
	done := a.Feed(boundaryFrag())
	if !done {
		t.Fatal("boundary must report completion")
	}
	if !a.Complete() {
		t.Error("accumulator should be complete")
	}
	if len(a.Finalized()) != 1 {
		t.Errorf("open turn should be finalized, got %d", len(a.Finalized()))
	}
	if _, ok := a.Open(); ok {
		t.Error("no turn should remain open after terminal")
	}
}

// ─── Snapshot isolation ─────────────────────────────────────────────────────

func TestSnapshotIsImmutable(t *testing.T) {
	a := NewAccumulator(nil)
	a.Feed(thoughtFrag("A", "before"))
	snap, _ := a.Open()
	a.Feed(thoughtFrag("A", " after"))

	if snap.Thought != "before" {
		t.Errorf("snapshot mutated by later fragment: %q", snap.Thought)
	}
	if !strings.HasSuffix(mustOpen(t, a).Thought, " after") {
		t.Error("live turn should keep accumulating")
	}
}

func TestResetDiscardsEverything(t *testing.T) {
	a := NewAccumulator(nil)
	a.Feed(thoughtFrag("A", "one"))
	a.Feed(thoughtFrag("B", "two"))
	a.Feed(outcomeFrag("Z", "tc1", "res", "success"))
	a.Reset()

	if len(a.Finalized()) != 0 || len(a.Outcomes()) != 0 {
		t.Error("reset must clear finalized buffer and outcomes")
	}
	if _, ok := a.Open(); ok {
		t.Error("reset must discard the open turn")
	}
	if a.Complete() {
		t.Error("reset must clear completion")
	}
}

func TestDrainClearsBuffer(t *testing.T) {
	a := NewAccumulator(nil)
	a.Feed(thoughtFrag("A", "one"))
	a.Feed(thoughtFrag("B", "two"))

	turns := a.Drain()
	if len(turns) != 2 {
		t.Fatalf("drain should finalize the open turn too, got %d", len(turns))
	}
	if turns[0].ID != "A" || turns[1].ID != "B" {
		t.Errorf("drain order wrong: %+v", turns)
	}
	if len(a.Finalized()) != 0 {
		t.Error("drain must clear the buffer")
	}
}

func mustOpen(t *testing.T, a *Accumulator) FinalizedTurn {
	t.Helper()
	open, ok := a.Open()
	if !ok {
		t.Fatal("expected an open turn")
	}
	return open
}
