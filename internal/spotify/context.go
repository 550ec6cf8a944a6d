package spotify

import "time"

// ContextItem is one entry of the active play context (playlist, album or
// queue) as fetched from Spotify.
type ContextItem struct {
	ID       string
	Name     string
	Artist   string
	Album    string
	Duration time.Duration
}

// PlayContext maps the ordered item ids of the active context to zero-based
// playlist positions. Rebuilt wholesale when the upstream reports a new
// context, never mutated incrementally.
type PlayContext struct {
	items []ContextItem
}

// NewPlayContext builds a tracker over the given ordered items.
func NewPlayContext(items []ContextItem) *PlayContext {
	return &PlayContext{items: items}
}

// PositionForID returns the zero-based position of the first item with the
// given id, or 0 when the id is not tracked. Callers cannot distinguish "not
// found" from "found at 0" through this lookup; that matches the protocol's
// best-effort position semantics.
func (c *PlayContext) PositionForID(id string) int {
	for pos, item := range c.items {
		if item.ID == id {
			return pos
		}
	}
	return 0
}

// Size returns the number of tracked items.
func (c *PlayContext) Size() int {
	return len(c.items)
}

// Items returns the tracked items in order.
func (c *PlayContext) Items() []ContextItem {
	return c.items
}
