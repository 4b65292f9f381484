package game

import (
	"fmt"
	"image/color"

	"github.com/Garsondee/Patrol-Sense/internal/sim"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	logPanelWidth = 320
	logMaxEntries = 60
	logLineHeight = 11
	logTitleH     = 16
)

// EventPanel is a ring buffer of session events rendered beside the
// playfield.
type EventPanel struct {
	entries []sim.Event
	head    int
	count   int
}

// NewEventPanel creates a panel with a fixed capacity.
func NewEventPanel() *EventPanel {
	return &EventPanel{
		entries: make([]sim.Event, logMaxEntries),
	}
}

// Add appends an event, overwriting the oldest once full.
func (p *EventPanel) Add(e sim.Event) {
	p.entries[p.head] = e
	p.head = (p.head + 1) % logMaxEntries
	if p.count < logMaxEntries {
		p.count++
	}
}

// Note adds a frontend-side line (restart, clipboard, ...).
func (p *EventPanel) Note(tick int, msg string) {
	p.Add(sim.Event{Tick: tick, Agent: "--", Category: "ui", Value: msg})
}

// Clear drops every entry.
func (p *EventPanel) Clear() {
	p.head, p.count = 0, 0
}

// Len is the number of buffered entries.
func (p *EventPanel) Len() int { return p.count }

// Recent returns entries in chronological order (oldest first).
func (p *EventPanel) Recent() []sim.Event {
	result := make([]sim.Event, p.count)
	for i := 0; i < p.count; i++ {
		idx := (p.head - p.count + i + logMaxEntries) % logMaxEntries
		result[i] = p.entries[idx]
	}
	return result
}

// panelLine formats one row; the panel is narrow so the key is dropped
// when a value is present.
func panelLine(e sim.Event) string {
	msg := e.Value
	if msg == "" {
		msg = e.Key
	}
	return fmt.Sprintf("%4d [%s] %s %s", e.Tick, e.Agent, e.Category, msg)
}

// categoryColor picks the marker dot colour for an event row.
func categoryColor(category string) color.RGBA {
	switch category {
	case "catch", "alert":
		return color.RGBA{R: 220, G: 70, B: 70, A: 255}
	case "state", "vision":
		return color.RGBA{R: 230, G: 170, B: 60, A: 255}
	case "collect", "outcome":
		return color.RGBA{R: 90, G: 200, B: 120, A: 255}
	default:
		return color.RGBA{R: 110, G: 130, B: 200, A: 255}
	}
}

// Draw renders the panel at panelX, full height.
func (p *EventPanel) Draw(screen *ebiten.Image, panelX, panelH int) {
	vector.FillRect(screen, float32(panelX), 0, float32(logPanelWidth), float32(panelH), color.RGBA{R: 10, G: 12, B: 14, A: 248}, false)
	vector.StrokeLine(screen, float32(panelX), 0, float32(panelX), float32(panelH), 1.0, color.RGBA{R: 50, G: 60, B: 80, A: 255}, false)

	vector.FillRect(screen, float32(panelX), 0, float32(logPanelWidth), logTitleH, color.RGBA{R: 20, G: 24, B: 34, A: 255}, false)
	ebitenutil.DebugPrintAt(screen, "EVENTS", panelX+8, 2)
	vector.StrokeLine(screen, float32(panelX), logTitleH, float32(panelX+logPanelWidth), logTitleH, 1.0, color.RGBA{R: 50, G: 60, B: 90, A: 200}, false)

	entries := p.Recent()

	// Newest at the bottom.
	maxVisible := (panelH - 24) / logLineHeight
	if len(entries) > maxVisible {
		entries = entries[len(entries)-maxVisible:]
	}
	const highlight = 3

	y := 20
	for i, e := range entries {
		if i >= len(entries)-highlight {
			vector.FillRect(screen, float32(panelX+2), float32(y), float32(logPanelWidth-4), float32(logLineHeight), color.RGBA{R: 30, G: 34, B: 46, A: 160}, false)
		}
		vector.FillRect(screen, float32(panelX+5), float32(y+3), 3, 5, categoryColor(e.Category), false)
		ebitenutil.DebugPrintAt(screen, panelLine(e), panelX+12, y)
		y += logLineHeight
	}
}
