package store

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/example/artisan-market/internal/infrastructure/kafka"
	"github.com/google/uuid"
)

// EventStore is the in-memory event log, used when no database is
// configured. Every append is also published to Kafka when a producer
// is attached.
type EventStore struct {
	mu        sync.RWMutex
	events    map[string][]Event // aggregateID -> ordered events
	snapshots map[string]*Snapshot
	producer  *kafka.Producer
}

func NewEventStore(producer *kafka.Producer) *EventStore {
	return &EventStore{
		events:    make(map[string][]Event),
		snapshots: make(map[string]*Snapshot),
		producer:  producer,
	}
}

// Append stores an event and publishes it to Kafka.
func (es *EventStore) Append(ctx context.Context, aggregateID, aggregateType, eventType string, data any) (*Event, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	es.mu.Lock()
	event := Event{
		ID:            uuid.New().String(),
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		EventType:     eventType,
		Data:          jsonData,
		Timestamp:     time.Now(),
		Version:       len(es.events[aggregateID]) + 1,
	}
	es.events[aggregateID] = append(es.events[aggregateID], event)
	es.mu.Unlock()

	if es.producer != nil {
		if err := es.producer.Publish(ctx, aggregateID, event); err != nil {
			return nil, err
		}
	}

	return &event, nil
}

// GetEvents returns all events for an aggregate.
func (es *EventStore) GetEvents(aggregateID string) []Event {
	es.mu.RLock()
	defer es.mu.RUnlock()
	return es.events[aggregateID]
}

// GetAllEvents returns every stored event.
func (es *EventStore) GetAllEvents() []Event {
	es.mu.RLock()
	defer es.mu.RUnlock()

	var all []Event
	for _, events := range es.events {
		all = append(all, events...)
	}
	return all
}

// GetEventsFromVersion returns the events after fromVersion for an
// aggregate, in version order.
func (es *EventStore) GetEventsFromVersion(_ context.Context, aggregateID string, fromVersion int) []Event {
	es.mu.RLock()
	defer es.mu.RUnlock()

	var out []Event
	for _, e := range es.events[aggregateID] {
		if e.Version > fromVersion {
			out = append(out, e)
		}
	}
	return out
}

// GetSnapshot returns the latest snapshot for an aggregate, or nil.
func (es *EventStore) GetSnapshot(_ context.Context, aggregateID string) (*Snapshot, error) {
	es.mu.RLock()
	defer es.mu.RUnlock()
	return es.snapshots[aggregateID], nil
}

// SaveSnapshot stores a snapshot, replacing any previous one.
func (es *EventStore) SaveSnapshot(_ context.Context, snapshot *Snapshot) error {
	es.mu.Lock()
	defer es.mu.Unlock()
	es.snapshots[snapshot.AggregateID] = snapshot
	return nil
}
