package store

import "context"

// EventStoreInterface is the write-side contract: an append-only event
// log with point-in-time snapshots for hot aggregates.
type EventStoreInterface interface {
	Append(ctx context.Context, aggregateID, aggregateType, eventType string, data any) (*Event, error)
	GetEvents(aggregateID string) []Event
	GetAllEvents() []Event

	// GetEventsFromVersion returns the events for an aggregate with a
	// version strictly greater than fromVersion.
	GetEventsFromVersion(ctx context.Context, aggregateID string, fromVersion int) []Event
	GetSnapshot(ctx context.Context, aggregateID string) (*Snapshot, error)
	SaveSnapshot(ctx context.Context, snapshot *Snapshot) error
}
