package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/fardannozami/streak-limpo/internal/domain"
)

// TriggerRepository is the append-only trigger log. There is no update or
// delete.
type TriggerRepository struct {
	db *sql.DB
}

func NewTriggerRepository(db *sql.DB) *TriggerRepository {
	return &TriggerRepository{db: db}
}

func (r *TriggerRepository) AppendTrigger(ctx context.Context, e *domain.TriggerEvent) error {
	id := uuid.NewString()
	query := `
		INSERT INTO trigger_logs (id, user_id, emotion, context, intensity, timestamp_ns, date_key, day_number, time_slot, created_at_local)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query, id, e.UserID, e.Emotion, e.Context, e.Intensity,
		e.Timestamp.UnixNano(), e.DateKey, e.DayNumber, string(e.TimeSlot), e.Timestamp.Format(time.RFC3339Nano))
	if err != nil {
		return err
	}
	e.ID = id
	return nil
}

func (r *TriggerRepository) ListTriggersSince(ctx context.Context, userID, sinceDay string) ([]*domain.TriggerEvent, error) {
	query := `
		SELECT id, user_id, emotion, context, intensity, timestamp_ns, date_key, day_number, time_slot, created_at_local
		FROM trigger_logs
		WHERE user_id = ? AND date_key >= ?
		ORDER BY date_key DESC, timestamp_ns DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID, sinceDay)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []*domain.TriggerEvent{}
	for rows.Next() {
		var e domain.TriggerEvent
		var ts int64
		var slot, local string
		if err := rows.Scan(&e.ID, &e.UserID, &e.Emotion, &e.Context, &e.Intensity, &ts, &e.DateKey, &e.DayNumber, &slot, &local); err != nil {
			return nil, err
		}
		e.Timestamp = localTimestamp(ts, local)
		e.TimeSlot = domain.TimeSlot(slot)
		events = append(events, &e)
	}
	return events, rows.Err()
}

func (r *TriggerRepository) InitTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS trigger_logs (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			emotion TEXT NOT NULL,
			context TEXT NOT NULL,
			intensity INTEGER NOT NULL,
			timestamp_ns INTEGER NOT NULL,
			date_key TEXT NOT NULL,
			day_number INTEGER NOT NULL,
			time_slot TEXT NOT NULL,
			created_at_local TEXT NOT NULL
		);
	`
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return err
	}

	_, err := r.db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_trigger_logs_user_date ON trigger_logs (user_id, date_key)`)
	return err
}

// localTimestamp restores the instant with the offset it was logged in.
func localTimestamp(ns int64, local string) time.Time {
	instant := time.Unix(0, ns).UTC()
	t, err := time.Parse(time.RFC3339Nano, local)
	if err != nil || !t.Equal(instant) {
		return instant
	}
	return t
}
