package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fardannozami/streak-limpo/internal/domain"
)

type ProfileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

const profileColumns = `user_id, streak_anchor, relapse_count, last_relapse_at, victory_mode, focus_pillar,
	addiction_score, onboarding_completed, email, created_at, last_updated`

func (r *ProfileRepository) GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = ?`
	row := r.db.QueryRowContext(ctx, query, userID)

	var p domain.UserProfile
	var anchor, createdAt, lastUpdated string
	var lastRelapse sql.NullString
	err := row.Scan(&p.UserID, &anchor, &p.RelapseCount, &lastRelapse, &p.VictoryMode, &p.FocusPillar,
		&p.AddictionScore, &p.OnboardingCompleted, &p.Email, &createdAt, &lastUpdated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if p.StreakAnchor, err = parseTime(anchor); err != nil {
		return nil, err
	}
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if p.LastUpdated, err = parseTime(lastUpdated); err != nil {
		return nil, err
	}
	if lastRelapse.Valid && lastRelapse.String != "" {
		t, err := parseTime(lastRelapse.String)
		if err != nil {
			return nil, err
		}
		p.LastRelapseAt = &t
	}

	return &p, nil
}

func (r *ProfileRepository) UpsertProfile(ctx context.Context, p *domain.UserProfile) error {
	query := `
		INSERT INTO profiles (` + profileColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			streak_anchor = excluded.streak_anchor,
			relapse_count = excluded.relapse_count,
			last_relapse_at = excluded.last_relapse_at,
			victory_mode = excluded.victory_mode,
			focus_pillar = excluded.focus_pillar,
			addiction_score = excluded.addiction_score,
			onboarding_completed = excluded.onboarding_completed,
			email = excluded.email,
			last_updated = excluded.last_updated
	`
	var lastRelapse sql.NullString
	if p.LastRelapseAt != nil {
		lastRelapse = sql.NullString{String: formatTime(*p.LastRelapseAt), Valid: true}
	}
	_, err := r.db.ExecContext(ctx, query, p.UserID, formatTime(p.StreakAnchor), p.RelapseCount, lastRelapse,
		p.VictoryMode, p.FocusPillar, p.AddictionScore, p.OnboardingCompleted, p.Email,
		formatTime(p.CreatedAt), formatTime(p.LastUpdated))
	return err
}

// ApplyRelapse resets the anchor and bumps the counter in one statement.
func (r *ProfileRepository) ApplyRelapse(ctx context.Context, userID string, at time.Time) error {
	query := `
		UPDATE profiles SET
			streak_anchor = ?,
			relapse_count = relapse_count + 1,
			last_relapse_at = ?,
			last_updated = ?
		WHERE user_id = ?
	`
	ts := formatTime(at)
	res, err := r.db.ExecContext(ctx, query, ts, ts, ts, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

func (r *ProfileRepository) InitTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS profiles (
			user_id TEXT PRIMARY KEY,
			streak_anchor TEXT NOT NULL,
			relapse_count INTEGER NOT NULL DEFAULT 0,
			last_relapse_at TEXT,
			victory_mode TEXT NOT NULL DEFAULT '',
			focus_pillar TEXT NOT NULL DEFAULT '',
			addiction_score INTEGER NOT NULL DEFAULT 0,
			onboarding_completed INTEGER NOT NULL DEFAULT 0,
			email TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			last_updated TEXT NOT NULL
		);
	`
	_, err := r.db.ExecContext(ctx, query)
	return err
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
