package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/example/artisan-market/internal/infrastructure/kafka"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// appendRetries bounds how often a lost version race is retried before
// the error is surfaced to the caller.
const appendRetries = 3

// PostgresEventStore is the durable event log. Read models are rebuilt
// from it at boot and kept current through Kafka, so Postgres only needs
// to serve the write path and replay.
type PostgresEventStore struct {
	db       *sql.DB
	producer *kafka.Producer
}

func NewPostgresEventStore(db *sql.DB, producer *kafka.Producer) *PostgresEventStore {
	return &PostgresEventStore{
		db:       db,
		producer: producer,
	}
}

// Append stores an event in PostgreSQL and publishes it to Kafka.
// Concurrent appends to one aggregate race on the next version number;
// the UNIQUE (aggregate_id, version) constraint on the events table
// rejects the loser, which re-reads the version and tries again.
func (es *PostgresEventStore) Append(ctx context.Context, aggregateID, aggregateType, eventType string, data any) (*Event, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var event Event
	for attempt := 0; ; attempt++ {
		var currentVersion int
		err = es.db.QueryRowContext(ctx,
			"SELECT COALESCE(MAX(version), 0) FROM events WHERE aggregate_id = $1",
			aggregateID,
		).Scan(&currentVersion)
		if err != nil {
			return nil, err
		}

		event = Event{
			ID:            uuid.New().String(),
			AggregateID:   aggregateID,
			AggregateType: aggregateType,
			EventType:     eventType,
			Data:          jsonData,
			Timestamp:     time.Now(),
			Version:       currentVersion + 1,
		}

		_, err = es.db.ExecContext(ctx,
			`INSERT INTO events (id, aggregate_id, aggregate_type, event_type, data, version, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			event.ID,
			event.AggregateID,
			event.AggregateType,
			event.EventType,
			event.Data,
			event.Version,
			event.Timestamp,
		)
		if err == nil {
			break
		}
		if isUniqueViolation(err) && attempt < appendRetries {
			continue
		}
		return nil, err
	}

	if es.producer != nil {
		if err := es.producer.Publish(ctx, aggregateID, event); err != nil {
			return nil, err
		}
	}

	return &event, nil
}

// isUniqueViolation reports whether err is the Postgres unique_violation
// error (code 23505).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// GetEvents returns all events for an aggregate in version order.
func (es *PostgresEventStore) GetEvents(aggregateID string) []Event {
	return es.queryEvents(context.Background(),
		`SELECT id, aggregate_id, aggregate_type, event_type, data, version, created_at
		 FROM events
		 WHERE aggregate_id = $1
		 ORDER BY version ASC`,
		aggregateID,
	)
}

// GetAllEvents returns every event in creation order, for replay.
func (es *PostgresEventStore) GetAllEvents() []Event {
	return es.queryEvents(context.Background(),
		`SELECT id, aggregate_id, aggregate_type, event_type, data, version, created_at
		 FROM events
		 ORDER BY created_at ASC`,
	)
}

// GetEventsFromVersion returns the events after fromVersion for an
// aggregate.
func (es *PostgresEventStore) GetEventsFromVersion(ctx context.Context, aggregateID string, fromVersion int) []Event {
	return es.queryEvents(ctx,
		`SELECT id, aggregate_id, aggregate_type, event_type, data, version, created_at
		 FROM events
		 WHERE aggregate_id = $1 AND version > $2
		 ORDER BY version ASC`,
		aggregateID, fromVersion,
	)
}

func (es *PostgresEventStore) queryEvents(ctx context.Context, query string, args ...any) []Event {
	rows, err := es.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.AggregateID, &e.AggregateType, &e.EventType, &e.Data, &e.Version, &e.Timestamp); err != nil {
			continue
		}
		events = append(events, e)
	}
	return events
}

// GetSnapshot returns the latest snapshot for an aggregate, or nil.
func (es *PostgresEventStore) GetSnapshot(ctx context.Context, aggregateID string) (*Snapshot, error) {
	var s Snapshot
	err := es.db.QueryRowContext(ctx,
		`SELECT aggregate_id, aggregate_type, version, state, created_at
		 FROM snapshots
		 WHERE aggregate_id = $1
		 ORDER BY version DESC
		 LIMIT 1`,
		aggregateID,
	).Scan(&s.AggregateID, &s.AggregateType, &s.Version, &s.State, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// SaveSnapshot upserts the snapshot for an aggregate.
func (es *PostgresEventStore) SaveSnapshot(ctx context.Context, snapshot *Snapshot) error {
	_, err := es.db.ExecContext(ctx,
		`INSERT INTO snapshots (aggregate_id, aggregate_type, version, state, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (aggregate_id)
		 DO UPDATE SET version = EXCLUDED.version, state = EXCLUDED.state, created_at = EXCLUDED.created_at`,
		snapshot.AggregateID,
		snapshot.AggregateType,
		snapshot.Version,
		snapshot.State,
		snapshot.CreatedAt,
	)
	return err
}

// ConnectPostgres opens and verifies a PostgreSQL connection.
func ConnectPostgres(connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}
