// Package idle implements the broadcast bus that wakes connections blocked in
// an idle command when a subsystem changes.
package idle

import (
	"log"
	"sync"
	"time"

	"github.com/fossabot/mpdify/internal/mpd"
)

// subscriberBuffer bounds how many unread messages a subscriber can hold.
// A subscriber that falls further behind misses messages, which matches the
// at-most-once broadcast contract.
const subscriberBuffer = 16

// Message is one change notification. Ephemeral: delivered to the subscribers
// alive at publish time, never replayed.
type Message struct {
	Subsystem mpd.IdleSubsystem `json:"subsystem"`
	At        time.Time         `json:"at"`
}

// Bus fans change notifications out to any number of subscribers. Created
// once at startup and passed explicitly to publishers and subscribers.
type Bus struct {
	mu   sync.Mutex
	subs map[*Subscription]struct{}
}

// Subscription receives messages published after Subscribe was called.
type Subscription struct {
	C   <-chan Message
	c   chan Message
	bus *Bus
}

func NewBus() *Bus {
	return &Bus{subs: make(map[*Subscription]struct{})}
}

// Subscribe registers a new subscriber. The caller must Close it when done.
func (b *Bus) Subscribe() *Subscription {
	c := make(chan Message, subscriberBuffer)
	sub := &Subscription{C: c, c: c, bus: b}
	b.mu.Lock()
	b.subs[sub] = struct{}{}
	b.mu.Unlock()
	return sub
}

// Close removes the subscription from the bus. Pending messages stay readable
// on C until drained.
func (s *Subscription) Close() {
	s.bus.mu.Lock()
	delete(s.bus.subs, s)
	s.bus.mu.Unlock()
}

// Notify publishes a change in the given subsystem to every current
// subscriber. Publishing with no subscribers is a no-op; it never blocks.
func (b *Bus) Notify(subsystem mpd.IdleSubsystem) {
	log.Printf("idle: notifying change in %s", subsystem)
	msg := Message{Subsystem: subsystem, At: time.Now()}
	b.mu.Lock()
	defer b.mu.Unlock()
	for sub := range b.subs {
		select {
		case sub.c <- msg:
		default:
		}
	}
}
