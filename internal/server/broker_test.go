package server

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

func TestBrokerDeliversToSubscribers(t *testing.T) {
	b := NewBroker(testLogger(), nil)

	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.Publish(context.Background(), Event{Type: EventInsert, Table: schoolsTable})

	select {
	case data := <-ch:
		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			t.Fatalf("decode event: %v", err)
		}
		if ev.Type != EventInsert || ev.Table != schoolsTable {
			t.Errorf("got %+v, want insert on schools", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("expected an event")
	}
}

func TestBrokerUnsubscribeStopsDelivery(t *testing.T) {
	b := NewBroker(testLogger(), nil)

	ch := b.Subscribe()
	b.Unsubscribe(ch)

	b.Publish(context.Background(), Event{Type: EventUpdate, Table: schoolsTable})

	select {
	case data := <-ch:
		t.Fatalf("expected no delivery, got %s", data)
	default:
	}
}

func TestBrokerDropsSlowSubscriber(t *testing.T) {
	b := NewBroker(testLogger(), nil)

	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	// Fill the buffer and keep publishing; extra events are dropped instead
	// of blocking the publisher.
	for i := 0; i < cap(ch)+5; i++ {
		b.Publish(context.Background(), Event{Type: EventUpdate, Table: schoolsTable})
	}

	if got := len(ch); got != cap(ch) {
		t.Errorf("expected a full buffer of %d, got %d", cap(ch), got)
	}
}

func TestBrokerRunWithoutBackplane(t *testing.T) {
	b := NewBroker(testLogger(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected nil, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}
