package store

import (
	"encoding/json"
	"time"
)

// SnapshotThreshold is the number of events after which an aggregate's
// state is snapshotted, bounding replay cost for busy carts and wishlists.
const SnapshotThreshold = 10

// Snapshot is a serialized point-in-time state of an aggregate.
type Snapshot struct {
	AggregateID   string          `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	Version       int             `json:"version"`
	State         json.RawMessage `json:"state"`
	CreatedAt     time.Time       `json:"created_at"`
}
