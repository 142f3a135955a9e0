package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Event is the change notification published on every schools mutation.
// Consumers treat it as a refetch trigger; the payload carries no row data.
type Event struct {
	Type  string `json:"type"` // insert, update, delete
	Table string `json:"table"`
}

const (
	EventInsert = "insert"
	EventUpdate = "update"
	EventDelete = "delete"

	schoolsTable = "schools"
	redisChannel = "bazar:schools:changes"
)

// envelope wraps an Event for the Redis backplane so a broker can skip its
// own publications when they come back around.
type envelope struct {
	Origin string `json:"origin"`
	Event  Event  `json:"event"`
}

// Broker fans out change events to all local subscribers. With a Redis
// client it also relays events between instances, so every broker sees every
// mutation regardless of which instance handled the write.
type Broker struct {
	id     string
	logger *slog.Logger
	rdb    *redis.Client

	mu   sync.RWMutex
	subs map[chan []byte]struct{}
}

func NewBroker(logger *slog.Logger, rdb *redis.Client) *Broker {
	return &Broker{
		id:     uuid.NewString(),
		logger: logger,
		rdb:    rdb,
		subs:   make(map[chan []byte]struct{}),
	}
}

// Subscribe returns a channel receiving JSON-encoded events.
func (b *Broker) Subscribe() chan []byte {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *Broker) Unsubscribe(ch chan []byte) {
	b.mu.Lock()
	delete(b.subs, ch)
	b.mu.Unlock()
}

// Publish delivers an event to local subscribers and, when the backplane is
// configured, to the other instances. Backplane failures are logged and
// otherwise ignored; local delivery never blocks on them.
func (b *Broker) Publish(ctx context.Context, event Event) {
	b.deliver(event)

	if b.rdb != nil {
		data, _ := json.Marshal(envelope{Origin: b.id, Event: event})
		if err := b.rdb.Publish(ctx, redisChannel, data).Err(); err != nil {
			b.logger.Error("backplane publish failed", "error", err)
		}
	}
}

func (b *Broker) deliver(event Event) {
	data, _ := json.Marshal(event)
	b.mu.RLock()
	for ch := range b.subs {
		select {
		case ch <- data:
		default:
			// Drop if subscriber is slow.
		}
	}
	b.mu.RUnlock()
}

// Run consumes backplane events until ctx is done. Without a Redis client it
// just waits for cancellation.
func (b *Broker) Run(ctx context.Context) error {
	if b.rdb == nil {
		<-ctx.Done()
		return nil
	}

	sub := b.rdb.Subscribe(ctx, redisChannel)
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-sub.Channel():
			if !ok {
				return nil
			}
			var env envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				b.logger.Error("backplane decode failed", "error", err)
				continue
			}
			if env.Origin == b.id {
				continue
			}
			b.deliver(env.Event)
		}
	}
}
