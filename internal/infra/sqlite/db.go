package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// Open opens the store with WAL mode and a busy timeout to avoid
// "database is locked" errors, and waits until it answers a ping.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = backoff.Retry(func() error {
		if err := db.PingContext(ctx); err != nil {
			logrus.Warnf("database ping failed: %v, retrying...", err)
			return err
		}
		return nil
	}, backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5), ctx))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("database not reachable: %w", err)
	}
	return db, nil
}

type tableInitializer interface {
	InitTable(ctx context.Context) error
}

// InitTables creates every table the repositories need.
func InitTables(ctx context.Context, repos ...tableInitializer) error {
	for _, r := range repos {
		if err := r.InitTable(ctx); err != nil {
			return err
		}
	}
	return nil
}
