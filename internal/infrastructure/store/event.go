package store

import (
	"encoding/json"
	"time"
)

// Event is one immutable fact about an aggregate. Events are appended to
// the event store, published to Kafka and folded into read models by the
// projector.
type Event struct {
	ID            string          `json:"id"`
	AggregateID   string          `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	EventType     string          `json:"event_type"`
	Data          json.RawMessage `json:"data"`
	Timestamp     time.Time       `json:"timestamp"`
	Version       int             `json:"version"`
}
