package sim

import (
	"strings"
	"testing"
)

func TestEventLog_FilterAndQuery(t *testing.T) {
	el := NewEventLog(false)
	el.Add(1, "G0", "state", "change", "patrol → chase", 12)
	el.Add(2, "G1", "alert", "raised", "player entered territory", 0)
	el.Add(5, "G0", "state", "change", "chase → return", 300)
	el.AddVerbose(5, "G0", "move", "position", "(1,2)", 0)

	if el.Len() != 3 {
		t.Fatalf("verbose entry should be dropped, got %d entries", el.Len())
	}
	if n := el.Count("state", "change"); n != 2 {
		t.Fatalf("expected 2 state changes, got %d", n)
	}
	if !el.HasEntry("state", "", "→ return") {
		t.Fatal("expected a return transition")
	}
	if el.HasEntry("catch", "", "") {
		t.Fatal("no catch was recorded")
	}
	last, ok := el.LastOf("state", "change")
	if !ok || last.Tick != 5 || last.NumVal != 300 {
		t.Fatalf("unexpected last state change: %+v", last)
	}
	if got := len(el.FilterAgent("G0")); got != 2 {
		t.Fatalf("expected 2 entries for G0, got %d", got)
	}
	if got := len(el.FilterTickRange(2, 4)); got != 1 {
		t.Fatalf("expected 1 entry in ticks 2..4, got %d", got)
	}
	if !strings.Contains(el.Format(), "[T=002] G1") {
		t.Fatalf("formatted log missing G1 line:\n%s", el.Format())
	}
}

func TestEventLog_VerboseAndSink(t *testing.T) {
	el := NewEventLog(true)
	var seen []Event
	el.OnAdd(func(e Event) { seen = append(seen, e) })
	el.AddVerbose(1, "P", "move", "position", "(0,0)", 0)
	el.Add(2, "--", "outcome", "won", "reached goal", 1.5)
	if len(seen) != 2 {
		t.Fatalf("sink should see every recorded entry, got %d", len(seen))
	}
	if seen[1].Key != "won" {
		t.Fatalf("unexpected sink entry %+v", seen[1])
	}
}

func TestEventLog_LimitKeepsNewest(t *testing.T) {
	el := NewEventLog(false)
	el.SetLimit(10)
	for i := range 35 {
		el.Add(i, "G0", "state", "change", "", float64(i))
	}
	if el.Len() != 10 {
		t.Fatalf("expected 10 retained entries, got %d", el.Len())
	}
	es := el.Entries()
	if es[0].Tick != 25 || es[9].Tick != 34 {
		t.Fatalf("expected ticks 25..34, got %d..%d", es[0].Tick, es[9].Tick)
	}
	if n := el.Count("state", "change"); n != 10 {
		t.Fatalf("queries should see only retained entries, got %d", n)
	}
	if cap(el.entries) > 40 {
		t.Fatalf("backing array grew past the batch bound: cap %d", cap(el.entries))
	}

	el.SetLimit(0)
	for i := range 30 {
		el.Add(100+i, "G0", "state", "change", "", 0)
	}
	if el.Len() != 40 {
		t.Fatalf("unbounded log should keep everything, got %d", el.Len())
	}
}
