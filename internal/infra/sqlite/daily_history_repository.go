package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/fardannozami/streak-limpo/internal/domain"
)

type DailyHistoryRepository struct {
	db *sql.DB
}

func NewDailyHistoryRepository(db *sql.DB) *DailyHistoryRepository {
	return &DailyHistoryRepository{db: db}
}

func (r *DailyHistoryRepository) UpsertDailyHistory(ctx context.Context, userID string, h *domain.DailyHistory) error {
	ids, err := json.Marshal(nonNil(h.HabitIDs))
	if err != nil {
		return err
	}

	query := `
		INSERT INTO daily_history (user_id, day_key, completed_count, total_habits, habit_ids, percentage, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, day_key) DO UPDATE SET
			completed_count = excluded.completed_count,
			total_habits = excluded.total_habits,
			habit_ids = excluded.habit_ids,
			percentage = excluded.percentage,
			last_updated = excluded.last_updated
	`
	_, err = r.db.ExecContext(ctx, query, userID, h.DayKey, h.CompletedCount, h.TotalHabits, string(ids),
		h.Percentage, formatTime(h.LastUpdated))
	return err
}

func (r *DailyHistoryRepository) GetDailyHistory(ctx context.Context, userID, dayKey string) (*domain.DailyHistory, error) {
	query := `SELECT day_key, completed_count, total_habits, habit_ids, percentage, last_updated
		FROM daily_history WHERE user_id = ? AND day_key = ?`
	row := r.db.QueryRowContext(ctx, query, userID, dayKey)

	var h domain.DailyHistory
	var ids, lastUpdated string
	err := row.Scan(&h.DayKey, &h.CompletedCount, &h.TotalHabits, &ids, &h.Percentage, &lastUpdated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(ids), &h.HabitIDs); err != nil {
		return nil, err
	}
	if h.LastUpdated, err = parseTime(lastUpdated); err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *DailyHistoryRepository) InitTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS daily_history (
			user_id TEXT NOT NULL,
			day_key TEXT NOT NULL,
			completed_count INTEGER NOT NULL,
			total_habits INTEGER NOT NULL,
			habit_ids TEXT NOT NULL,
			percentage INTEGER NOT NULL,
			last_updated TEXT NOT NULL,
			PRIMARY KEY (user_id, day_key)
		);
	`
	_, err := r.db.ExecContext(ctx, query)
	return err
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
