package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sirupsen/logrus"
)

// LIDResolver maps WhatsApp linked-device ids to phone numbers using the
// mapping table whatsmeow keeps in the same database file.
type LIDResolver struct {
	db *sql.DB
}

func NewLIDResolver(db *sql.DB) *LIDResolver {
	return &LIDResolver{db: db}
}

// Resolve returns the phone number for lid, or lid itself when unknown.
func (r *LIDResolver) Resolve(ctx context.Context, lid string) string {
	var pn string
	err := r.db.QueryRowContext(ctx, `SELECT pn FROM whatsmeow_lid_map WHERE lid = ?`, lid).Scan(&pn)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			logrus.Debugf("lid lookup for %s failed: %v", lid, err)
		}
		return lid
	}
	if pn == "" {
		return lid
	}
	return pn
}
