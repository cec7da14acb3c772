package store

import (
	"database/sql"
	"time"
)

// EventKind classifies a fired gesture trigger.
type EventKind string

const (
	// EventPinch is a completed pinch hold, interpreted as a click.
	EventPinch EventKind = "pinch"
	// EventFist is a completed fist hold, interpreted as clear/cancel.
	EventFist EventKind = "fist"
	// EventDwell is a completed dwell period, interpreted as hover-select.
	EventDwell EventKind = "dwell"
)

// Event is one fired gesture trigger. Finger is empty for fist events.
type Event struct {
	ID        string    `json:"id"`
	Hand      string    `json:"hand"`
	Finger    string    `json:"finger,omitempty"`
	Kind      EventKind `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}

// EventRepository provides access to the gesture event log.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Record inserts a new event, stamping its creation time.
func (r *EventRepository) Record(e *Event) error {
	e.CreatedAt = time.Now().UTC()

	_, err := r.db.Exec(
		`INSERT INTO events (id, hand, finger, kind, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.Hand, e.Finger, string(e.Kind), e.CreatedAt,
	)
	return err
}

// ListRecent returns up to limit events, newest first.
func (r *EventRepository) ListRecent(limit int) ([]*Event, error) {
	rows, err := r.db.Query(
		`SELECT id, hand, finger, kind, created_at
		 FROM events ORDER BY created_at DESC, id LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		e := &Event{}
		var kind string
		if err := rows.Scan(&e.ID, &e.Hand, &e.Finger, &kind, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Kind = EventKind(kind)
		events = append(events, e)
	}

	return events, rows.Err()
}

// PruneBefore deletes events older than the cutoff and returns how many rows
// were removed.
func (r *EventRepository) PruneBefore(cutoff time.Time) (int64, error) {
	res, err := r.db.Exec(`DELETE FROM events WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
