package sim

import (
	"fmt"
	"strings"
)

// Event is one recorded occurrence during a session.
type Event struct {
	Tick     int
	Agent    string  // label e.g. "G0", "R3", "P" for the player, "--" for session events
	Category string  // state, alert, catch, collect, outcome, spawn, move
	Key      string  // specific event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the event as a fixed-width log line.
//
//	[T=042] G1   state     change           patrol → chase
func (e Event) String() string {
	return fmt.Sprintf("[T=%03d] %-4s %-9s %-16s %s",
		e.Tick, e.Agent, e.Category, e.Key, e.Value)
}

// EventLog collects structured events for a session. It is unbounded
// unless a limit is set, in which case only the newest entries are kept.
type EventLog struct {
	entries []Event
	verbose bool
	limit   int
	sink    func(Event)
}

// NewEventLog creates an EventLog. With verbose set, per-tick positions
// are recorded too.
func NewEventLog(verbose bool) *EventLog {
	return &EventLog{verbose: verbose}
}

// OnAdd registers a callback invoked for every recorded event.
func (el *EventLog) OnAdd(fn func(Event)) { el.sink = fn }

// InteractiveEventLimit caps the log in frontends that run indefinitely.
const InteractiveEventLimit = 5000

// SetLimit keeps at most n entries, dropping the oldest. n <= 0 removes
// the limit. Long interactive sessions set one; batch runs do not.
func (el *EventLog) SetLimit(n int) {
	el.limit = max(n, 0)
	el.trim()
}

// Limit is the entry cap, 0 when unbounded.
func (el *EventLog) Limit() int { return el.limit }

func (el *EventLog) trim() {
	if el.limit > 0 && len(el.entries) > el.limit {
		el.entries = append(el.entries[:0], el.entries[len(el.entries)-el.limit:]...)
	}
}

// view is the retained entries after any pending trim.
func (el *EventLog) view() []Event {
	el.trim()
	return el.entries
}

// Verbose reports whether per-tick entries are recorded.
func (el *EventLog) Verbose() bool { return el.verbose }

// Add records a new entry.
func (el *EventLog) Add(tick int, agent, category, key, value string, numVal float64) {
	e := Event{
		Tick:     tick,
		Agent:    agent,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	}
	el.entries = append(el.entries, e)
	// Trim in batches so appends stay amortised O(1).
	if el.limit > 0 && len(el.entries) >= 2*el.limit {
		el.trim()
	}
	if el.sink != nil {
		el.sink(e)
	}
}

// AddVerbose records an entry only when verbose mode is on.
func (el *EventLog) AddVerbose(tick int, agent, category, key, value string, numVal float64) {
	if !el.verbose {
		return
	}
	el.Add(tick, agent, category, key, value, numVal)
}

// Entries returns the retained entries, oldest first.
func (el *EventLog) Entries() []Event { return el.view() }

// Len is the number of retained entries.
func (el *EventLog) Len() int { return len(el.view()) }

// Filter returns entries matching category and key. Empty strings match anything.
func (el *EventLog) Filter(category, key string) []Event {
	var out []Event
	for _, e := range el.view() {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// FilterAgent returns entries for one label.
func (el *EventLog) FilterAgent(label string) []Event {
	var out []Event
	for _, e := range el.view() {
		if e.Agent == label {
			out = append(out, e)
		}
	}
	return out
}

// FilterTickRange returns entries within [fromTick, toTick] inclusive.
func (el *EventLog) FilterTickRange(fromTick, toTick int) []Event {
	var out []Event
	for _, e := range el.view() {
		if e.Tick >= fromTick && e.Tick <= toTick {
			out = append(out, e)
		}
	}
	return out
}

// Count returns how many entries match category and key.
func (el *EventLog) Count(category, key string) int {
	n := 0
	for _, e := range el.view() {
		if (category == "" || e.Category == category) && (key == "" || e.Key == key) {
			n++
		}
	}
	return n
}

// LastOf returns the most recent entry matching category+key.
func (el *EventLog) LastOf(category, key string) (Event, bool) {
	entries := el.view()
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if (category == "" || e.Category == category) && (key == "" || e.Key == key) {
			return e, true
		}
	}
	return Event{}, false
}

// HasEntry reports whether any entry matches category, key and contains valueSubstr.
func (el *EventLog) HasEntry(category, key, valueSubstr string) bool {
	for _, e := range el.view() {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		if valueSubstr != "" && !strings.Contains(e.Value, valueSubstr) {
			continue
		}
		return true
	}
	return false
}

// Format returns the full log as one string, for t.Log output.
func (el *EventLog) Format() string {
	return formatEvents(el.view())
}

// FormatRange returns the log filtered to a tick range.
func (el *EventLog) FormatRange(fromTick, toTick int) string {
	return formatEvents(el.FilterTickRange(fromTick, toTick))
}

func formatEvents(es []Event) string {
	var sb strings.Builder
	for _, e := range es {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
