package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/Garsondee/Patrol-Sense/internal/sim"
	"github.com/atotto/clipboard"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
)

type runStats struct {
	runIndex int
	seed     int64
	stats    sim.SessionStats

	firstContactTick int
	firstChaseTick   int
	firstAlertTick   int
	firstCatchTick   int
	firstCollectTick int

	stateChanges int
	chaseEntries int
	contactNew   int
	contactLost  int
	collects     int
	catchers     map[string]struct{}
}

func main() {
	var (
		runs       int
		ticks      int
		seedBase   int64
		seedStep   int64
		scenario   string
		configPath string
		format     string
		htmlPath   string
		copyReport bool
		logJSON    bool
	)
	flag.IntVar(&runs, "runs", 5, "number of headless runs per scenario")
	flag.IntVar(&ticks, "ticks", 3600, "tick limit per run")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&scenario, "scenario", "all", "scenario name (museum|patintero|all)")
	flag.StringVar(&configPath, "config", "", "YAML tuning file overlaid on the built-in defaults")
	flag.StringVar(&format, "format", "text", "report format (text|markdown)")
	flag.StringVar(&htmlPath, "html", "", "also write the markdown report rendered as HTML to this file")
	flag.BoolVar(&copyReport, "copy", false, "copy the markdown report to the clipboard")
	flag.BoolVar(&logJSON, "log-json", false, "log session lifecycle as JSON on stderr")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		os.Exit(2)
	}
	if ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		os.Exit(2)
	}
	if format != "text" && format != "markdown" {
		fmt.Printf("error: unsupported format %q (text|markdown)\n", format)
		os.Exit(2)
	}
	scenarios, err := parseScenarios(scenario)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(2)
	}
	cfg, err := sim.LoadConfig(configPath)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if logJSON {
		logger = slog.New(slog.NewJSONHandler(os.Stderr, nil))
	}

	results := map[sim.Scenario][]runStats{}
	for _, sc := range scenarios {
		all := make([]runStats, 0, runs)
		for i := 0; i < runs; i++ {
			seed := seedBase + int64(i)*seedStep
			rs, err := runScenario(cfg, sc, i+1, seed, ticks, logger)
			if err != nil {
				fmt.Printf("error: %v\n", err)
				os.Exit(1)
			}
			all = append(all, rs)
		}
		results[sc] = all
	}

	md := markdownReport(scenarios, results, ticks)
	switch format {
	case "markdown":
		fmt.Print(md)
	default:
		fmt.Printf("=== Headless Chase Report ===\n")
		fmt.Printf("scenarios=%s runs=%d ticks=%d seed_base=%d seed_step=%d\n\n", scenario, runs, ticks, seedBase, seedStep)
		for _, sc := range scenarios {
			for _, rs := range results[sc] {
				printRun(os.Stdout, rs)
			}
			printAggregate(os.Stdout, sc, results[sc])
		}
	}

	if htmlPath != "" {
		if err := writeHTML(htmlPath, md); err != nil {
			fmt.Printf("error: %v\n", err)
			os.Exit(1)
		}
	}
	if copyReport {
		if err := clipboard.WriteAll(md); err != nil {
			fmt.Printf("warning: copy to clipboard: %v\n", err)
		}
	}
}

func parseScenarios(name string) ([]sim.Scenario, error) {
	if strings.EqualFold(strings.TrimSpace(name), "all") {
		return sim.Scenarios(), nil
	}
	sc, err := sim.ParseScenario(name)
	if err != nil {
		return nil, err
	}
	return []sim.Scenario{sc}, nil
}

// runScenario plays one seed with the autopilot until the session ends
// or the tick limit is hit.
func runScenario(cfg sim.Config, sc sim.Scenario, runIndex int, seed int64, ticks int, logger *slog.Logger) (runStats, error) {
	s, err := sim.NewScenarioSession(cfg, sc, seed, logger)
	if err != nil {
		return runStats{}, err
	}
	pilot := sim.NewAutopilot()
	s.RunUntil(pilot.Next, func(s *sim.Session) bool { return s.Outcome() != sim.OutcomeRunning }, ticks)

	entries := s.Events.Entries()
	catchers := map[string]struct{}{}
	for _, e := range entries {
		if e.Category == "catch" {
			catchers[e.Agent] = struct{}{}
		}
	}
	chaseEntries := 0
	for _, e := range s.Events.Filter("state", "change") {
		if strings.HasSuffix(e.Value, sim.StateChase.String()) || strings.HasSuffix(e.Value, sim.StateIntercept.String()) {
			chaseEntries++
		}
	}

	return runStats{
		runIndex:         runIndex,
		seed:             seed,
		stats:            s.Stats(),
		firstContactTick: firstTick(entries, "vision", "contact_new", ""),
		firstChaseTick:   firstTick(entries, "state", "change", "→ chase"),
		firstAlertTick:   firstTick(entries, "alert", "raised", ""),
		firstCatchTick:   firstTick(entries, "catch", "player", ""),
		firstCollectTick: firstTick(entries, "collect", "artifact", ""),
		stateChanges:     s.Events.Count("state", "change"),
		chaseEntries:     chaseEntries,
		contactNew:       s.Events.Count("vision", "contact_new"),
		contactLost:      s.Events.Count("vision", "contact_lost"),
		collects:         s.Events.Count("collect", "artifact"),
		catchers:         catchers,
	}, nil
}

func firstTick(entries []sim.Event, category, key, contains string) int {
	for _, e := range entries {
		if e.Category != category || e.Key != key {
			continue
		}
		if contains == "" || strings.Contains(e.Value, contains) {
			return e.Tick
		}
	}
	return -1
}

func printRun(w io.Writer, rs runStats) {
	st := rs.stats
	fmt.Fprintf(w, "--- %s run %d (seed=%d) ---\n", st.Scenario, rs.runIndex, rs.seed)
	fmt.Fprintf(w, "outcome=%s ticks=%d elapsed=%.1fs score=%d/%d catches=%d lives_left=%d\n",
		st.Outcome, st.Ticks, st.Elapsed, st.Score, st.Total, st.Catches, st.LivesLeft)
	fmt.Fprintf(w, "phase_markers: contact=%d chase=%d alert=%d first_collect=%d first_catch=%d\n",
		rs.firstContactTick, rs.firstChaseTick, rs.firstAlertTick, rs.firstCollectTick, rs.firstCatchTick)
	fmt.Fprintf(w, "event_totals: state_change=%d chase_entries=%d contact_new=%d contact_lost=%d collect=%d\n",
		rs.stateChanges, rs.chaseEntries, rs.contactNew, rs.contactLost, rs.collects)
	fmt.Fprintf(w, "agent_totals: detections=%d alerts=%d returns=%d bounces=%d\n",
		st.Detections, st.Alerts, st.Returns, st.Bounces)
	fmt.Fprintf(w, "catchers: %s\n\n", joinSet(rs.catchers))
}

// aggregate is the per-scenario roll-up shared by the text and markdown
// reports.
type aggregate struct {
	runs, won, lost, running int

	avgTicks, avgScore, avgCatches     float64
	avgDetections, avgAlerts, avgChase float64

	contactTicks, catchTicks, outcomeTicks []int
	catchers                               map[string]struct{}
}

func summarize(all []runStats) aggregate {
	ag := aggregate{runs: len(all), catchers: map[string]struct{}{}}
	var ticks, score, catches, detections, alerts, chase int
	for _, rs := range all {
		st := rs.stats
		switch st.Outcome {
		case sim.OutcomeWon:
			ag.won++
		case sim.OutcomeLost:
			ag.lost++
		default:
			ag.running++
		}
		ticks += st.Ticks
		score += st.Score
		catches += st.Catches
		detections += st.Detections
		alerts += st.Alerts
		chase += rs.chaseEntries
		if rs.firstContactTick >= 0 {
			ag.contactTicks = append(ag.contactTicks, rs.firstContactTick)
		}
		if rs.firstCatchTick >= 0 {
			ag.catchTicks = append(ag.catchTicks, rs.firstCatchTick)
		}
		if st.OutcomeTick >= 0 {
			ag.outcomeTicks = append(ag.outcomeTicks, st.OutcomeTick)
		}
		for label := range rs.catchers {
			ag.catchers[label] = struct{}{}
		}
	}
	n := len(all)
	ag.avgTicks = avg(ticks, n)
	ag.avgScore = avg(score, n)
	ag.avgCatches = avg(catches, n)
	ag.avgDetections = avg(detections, n)
	ag.avgAlerts = avg(alerts, n)
	ag.avgChase = avg(chase, n)
	return ag
}

func printAggregate(w io.Writer, sc sim.Scenario, all []runStats) {
	ag := summarize(all)
	fmt.Fprintf(w, "=== Aggregate: %s ===\n", sc)
	fmt.Fprintf(w, "runs=%d won=%d lost=%d unfinished=%d\n", ag.runs, ag.won, ag.lost, ag.running)
	fmt.Fprintf(w, "avg_per_run: ticks=%.1f score=%.1f catches=%.1f detections=%.1f alerts=%.1f chase_entries=%.1f\n",
		ag.avgTicks, ag.avgScore, ag.avgCatches, ag.avgDetections, ag.avgAlerts, ag.avgChase)
	fmt.Fprintf(w, "phase_marker_avg_ticks: first_contact=%s first_catch=%s outcome=%s\n",
		avgTickString(ag.contactTicks), avgTickString(ag.catchTicks), avgTickString(ag.outcomeTicks))
	fmt.Fprintf(w, "catchers=%d [%s]\n\n", len(ag.catchers), joinSet(ag.catchers))
}

// markdownReport renders every run plus one summary table per scenario.
func markdownReport(scenarios []sim.Scenario, results map[sim.Scenario][]runStats, ticks int) string {
	var sb strings.Builder
	sb.WriteString("# Headless chase report\n\n")
	fmt.Fprintf(&sb, "Tick limit per run: %d.\n\n", ticks)
	for _, sc := range scenarios {
		all := results[sc]
		ag := summarize(all)
		fmt.Fprintf(&sb, "## %s\n\n", sc)
		sb.WriteString("| runs | won | lost | unfinished | avg ticks | avg score | avg catches | avg detections | first contact |\n")
		sb.WriteString("|---|---|---|---|---|---|---|---|---|\n")
		fmt.Fprintf(&sb, "| %d | %d | %d | %d | %.1f | %.1f | %.1f | %.1f | %s |\n\n",
			ag.runs, ag.won, ag.lost, ag.running, ag.avgTicks, ag.avgScore, ag.avgCatches, ag.avgDetections,
			avgTickString(ag.contactTicks))
		for _, rs := range all {
			sb.WriteString("#" + rs.stats.Markdown() + "\n")
		}
	}
	return sb.String()
}

func renderHTML(md string) ([]byte, error) {
	conv := goldmark.New(
		goldmark.WithExtensions(extension.Table),
		goldmark.WithRendererOptions(goldmarkhtml.WithHardWraps()),
	)
	var buf bytes.Buffer
	if err := conv.Convert([]byte(md), &buf); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}
	return buf.Bytes(), nil
}

func writeHTML(path, md string) error {
	body, err := renderHTML(md)
	if err != nil {
		return err
	}
	page := append([]byte("<!doctype html>\n<meta charset=\"utf-8\">\n<title>Headless chase report</title>\n"), body...)
	if err := os.WriteFile(path, page, 0o644); err != nil { // #nosec G306 -- report output
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

func joinSet(s map[string]struct{}) string {
	if len(s) == 0 {
		return "none"
	}
	labels := make([]string, 0, len(s))
	for k := range s {
		labels = append(labels, k)
	}
	sort.Strings(labels)
	return strings.Join(labels, ",")
}
