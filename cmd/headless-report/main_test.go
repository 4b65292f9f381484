package main

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/Garsondee/Patrol-Sense/internal/sim"
)

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestFirstTick_MatchesCategoryKeyAndValue(t *testing.T) {
	entries := []sim.Event{
		{Tick: 3, Category: "state", Key: "change", Value: "patrol → return"},
		{Tick: 9, Category: "state", Key: "change", Value: "patrol → chase"},
		{Tick: 12, Category: "catch", Key: "player"},
	}
	if got := firstTick(entries, "state", "change", "→ chase"); got != 9 {
		t.Fatalf("expected tick 9, got %d", got)
	}
	if got := firstTick(entries, "catch", "player", ""); got != 12 {
		t.Fatalf("expected tick 12, got %d", got)
	}
	if got := firstTick(entries, "alert", "raised", ""); got != -1 {
		t.Fatalf("expected -1 for a missing marker, got %d", got)
	}
}

func TestAvgHelpers(t *testing.T) {
	if avg(10, 0) != 0 || avg(10, 4) != 2.5 {
		t.Fatalf("avg: got %v and %v", avg(10, 0), avg(10, 4))
	}
	if avgTickString(nil) != "n/a" {
		t.Fatalf("expected n/a, got %s", avgTickString(nil))
	}
	if got := avgTickString([]int{10, 20}); got != "15.0" {
		t.Fatalf("expected 15.0, got %s", got)
	}
}

func TestSummarize_CountsOutcomes(t *testing.T) {
	all := []runStats{
		{stats: sim.SessionStats{Outcome: sim.OutcomeWon, Ticks: 100, Score: 3, OutcomeTick: 100}, firstContactTick: 40, firstCatchTick: -1},
		{stats: sim.SessionStats{Outcome: sim.OutcomeLost, Ticks: 50, Catches: 1, OutcomeTick: 50}, firstContactTick: -1, firstCatchTick: 50,
			catchers: map[string]struct{}{"G2": {}}},
		{stats: sim.SessionStats{Outcome: sim.OutcomeRunning, Ticks: 300, OutcomeTick: -1}, firstContactTick: 20, firstCatchTick: -1},
	}
	ag := summarize(all)
	if ag.runs != 3 || ag.won != 1 || ag.lost != 1 || ag.running != 1 {
		t.Fatalf("unexpected outcome counts %+v", ag)
	}
	if ag.avgTicks != 150 || ag.avgScore != 1 {
		t.Fatalf("unexpected averages ticks=%.1f score=%.1f", ag.avgTicks, ag.avgScore)
	}
	if len(ag.contactTicks) != 2 || len(ag.catchTicks) != 1 || len(ag.outcomeTicks) != 2 {
		t.Fatalf("unexpected marker counts %+v", ag)
	}
	if joinSet(ag.catchers) != "G2" {
		t.Fatalf("expected catcher G2, got %s", joinSet(ag.catchers))
	}
}

func TestParseScenarios(t *testing.T) {
	all, err := parseScenarios("all")
	if err != nil || len(all) != 2 {
		t.Fatalf("all: got %v, %v", all, err)
	}
	one, err := parseScenarios("museum")
	if err != nil || len(one) != 1 || one[0] != sim.ScenarioMuseum {
		t.Fatalf("museum: got %v, %v", one, err)
	}
	if _, err := parseScenarios("tag"); err == nil {
		t.Fatal("expected an error for an unknown scenario")
	}
}

func TestRunScenario_DeterministicPerSeed(t *testing.T) {
	cfg := sim.DefaultConfig()
	a, err := runScenario(cfg, sim.ScenarioPatintero, 1, 42, 900, quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	b, err := runScenario(cfg, sim.ScenarioPatintero, 1, 42, 900, quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	if a.stats.Ticks != b.stats.Ticks || a.stats.Outcome != b.stats.Outcome || a.stateChanges != b.stateChanges {
		t.Fatalf("same seed diverged: %+v vs %+v", a.stats, b.stats)
	}
	if a.stats.Ticks == 0 || a.stats.Ticks > 900 {
		t.Fatalf("unexpected tick count %d", a.stats.Ticks)
	}

	var buf bytes.Buffer
	printRun(&buf, a)
	printAggregate(&buf, sim.ScenarioPatintero, []runStats{a, b})
	out := buf.String()
	if !strings.Contains(out, "patintero run 1 (seed=42)") || !strings.Contains(out, "=== Aggregate: patintero ===") {
		t.Fatalf("unexpected report:\n%s", out)
	}
}

func TestMarkdownReport_RendersToHTML(t *testing.T) {
	cfg := sim.DefaultConfig()
	rs, err := runScenario(cfg, sim.ScenarioMuseum, 1, 7, 300, quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	md := markdownReport([]sim.Scenario{sim.ScenarioMuseum}, map[sim.Scenario][]runStats{sim.ScenarioMuseum: {rs}}, 300)
	if !strings.Contains(md, "## museum") || !strings.Contains(md, "### museum run (seed 7)") {
		t.Fatalf("unexpected markdown:\n%s", md)
	}
	html, err := renderHTML(md)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"<h1>Headless chase report</h1>", "<table>", "<h3>museum run (seed 7)</h3>"} {
		if !bytes.Contains(html, []byte(want)) {
			t.Fatalf("expected %q in HTML:\n%s", want, html)
		}
	}
}
