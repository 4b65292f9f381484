package sim

import (
	"fmt"
	"sort"
	"strings"
)

// SessionStats is the per-session summary used by reports.
type SessionStats struct {
	ID        string
	Scenario  Scenario
	Seed      int64
	Outcome   Outcome
	Ticks     int
	Elapsed   float64
	Score     int
	Total     int
	Catches   int
	LivesLeft int

	Detections int
	Alerts     int
	Returns    int
	Bounces    int

	FirstDetectionTick int // -1 when nothing was detected
	OutcomeTick        int // -1 while running
}

// Stats summarises the session so far, including agents already removed.
func (s *Session) Stats() SessionStats {
	st := SessionStats{
		ID:                 s.ID.String(),
		Scenario:           s.Scenario,
		Seed:               s.seed,
		Outcome:            s.outcome,
		Ticks:              s.tick,
		Elapsed:            s.elapsed,
		Score:              s.score,
		Total:              len(s.Collectibles),
		Catches:            s.catches,
		LivesLeft:          s.lives,
		Detections:         s.retired.Detections,
		Alerts:             s.retired.Alerts,
		Returns:            s.retired.Returns,
		Bounces:            s.retired.Bounces,
		FirstDetectionTick: -1,
		OutcomeTick:        -1,
	}
	for _, a := range s.Agents {
		as := a.Stats()
		st.Detections += as.Detections
		st.Alerts += as.Alerts
		st.Returns += as.Returns
		st.Bounces += as.Bounces
	}
	for _, e := range s.Events.Filter("state", "change") {
		if strings.HasSuffix(e.Value, StateChase.String()) || strings.HasSuffix(e.Value, StateIntercept.String()) {
			st.FirstDetectionTick = e.Tick
			break
		}
	}
	if e, ok := s.Events.LastOf("outcome", ""); ok {
		st.OutcomeTick = e.Tick
	}
	return st
}

// Summary returns a short human-readable snapshot of the session.
func (s *Session) Summary() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Summary at T=%03d (%s, seed %d) ---\n", s.tick, s.Scenario, s.seed)
	fmt.Fprintf(&sb, "Outcome: %s  lives=%d  catches=%d\n", s.outcome, s.lives, s.catches)
	if len(s.Collectibles) > 0 {
		fmt.Fprintf(&sb, "Artifacts: %d/%d\n", s.score, len(s.Collectibles))
	}

	counts := map[AgentState]int{}
	for _, a := range s.Agents {
		counts[a.State()]++
	}
	sb.WriteString("Agents: ")
	for _, st := range []AgentState{StatePatrol, StateChase, StateIntercept, StateReturn} {
		if n := counts[st]; n > 0 {
			fmt.Fprintf(&sb, "%s=%d  ", st, n)
		}
	}
	sb.WriteByte('\n')

	p := s.Player.Pos()
	near := make([]*Agent, len(s.Agents))
	copy(near, s.Agents)
	sort.Slice(near, func(i, j int) bool { return near[i].Pos().Dist(p) < near[j].Pos().Dist(p) })
	for _, a := range near {
		fmt.Fprintf(&sb, "  %s %-9s dist=%.0f accel=%.2f\n", a.Label, a.State(), a.Pos().Dist(p), a.Acceleration())
	}
	return sb.String()
}

// Markdown renders the stats as a small markdown report.
func (st SessionStats) Markdown() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s run (seed %d)\n\n", st.Scenario, st.Seed)
	fmt.Fprintf(&sb, "- session: `%s`\n", st.ID)
	fmt.Fprintf(&sb, "- outcome: **%s** after %d ticks (%.1fs)\n", st.Outcome, st.Ticks, st.Elapsed)
	if st.Total > 0 {
		fmt.Fprintf(&sb, "- artifacts: %d/%d\n", st.Score, st.Total)
	}
	fmt.Fprintf(&sb, "- catches: %d, lives left: %d\n", st.Catches, st.LivesLeft)
	fmt.Fprintf(&sb, "- detections: %d, alerts: %d, returns: %d, bounces: %d\n",
		st.Detections, st.Alerts, st.Returns, st.Bounces)
	if st.FirstDetectionTick >= 0 {
		fmt.Fprintf(&sb, "- first detection: tick %d\n", st.FirstDetectionTick)
	}
	return sb.String()
}
