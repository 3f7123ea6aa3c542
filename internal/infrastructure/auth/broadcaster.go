package auth

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/elevva/client-portal/internal/core/ports"
)

const subscriberBuffer = 16

// Broadcaster fans session-change events out to every subscriber. Delivery
// is at-least-zero per subscriber: a full channel drops the event rather
// than block sign-in, which is safe because consumers re-resolve identity
// from scratch on every event and later events supersede earlier ones.
type Broadcaster struct {
	mu      sync.Mutex
	subs    map[int]chan ports.SessionEvent
	nextSub int
	log     zerolog.Logger
}

func NewBroadcaster(log zerolog.Logger) *Broadcaster {
	return &Broadcaster{
		subs: make(map[int]chan ports.SessionEvent),
		log:  log,
	}
}

// Subscribe registers a new consumer. The returned function cancels the
// subscription and closes the channel.
func (b *Broadcaster) Subscribe() (<-chan ports.SessionEvent, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextSub
	b.nextSub++
	ch := make(chan ports.SessionEvent, subscriberBuffer)
	b.subs[id] = ch

	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if c, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(c)
		}
	}
}

// Publish delivers an event to every current subscriber.
func (b *Broadcaster) Publish(ev ports.SessionEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			b.log.Warn().
				Int("subscriber", id).
				Str("event", string(ev.Type)).
				Msg("session event dropped for slow subscriber")
		}
	}
}
