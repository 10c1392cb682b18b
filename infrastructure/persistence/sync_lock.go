package persistence

import (
	"context"
	"database/sql"

	"channel-studio/infrastructure/logger"
)

// syncLockKey is an arbitrary but fixed advisory lock id shared by every
// process of this application.
const syncLockKey = 727274001

// SyncLock guards sync cycles with a Postgres advisory lock, so overlapping
// runs are refused across processes, not just within one.
type SyncLock struct{ db *sql.DB }

func NewSyncLock(db *sql.DB) *SyncLock {
	return &SyncLock{db: db}
}

// Acquire tries to take the advisory lock without blocking. Advisory locks
// are session scoped, so the lock is held on a dedicated connection that
// the release func returns to the pool.
func (l *SyncLock) Acquire(ctx context.Context) (func(), bool, error) {
	conn, err := l.db.Conn(ctx)
	if err != nil {
		return nil, false, err
	}

	var acquired bool
	if err := conn.QueryRowContext(ctx, `SELECT pg_try_advisory_lock($1)`, syncLockKey).Scan(&acquired); err != nil {
		_ = conn.Close()
		return nil, false, err
	}
	if !acquired {
		_ = conn.Close()
		return nil, false, nil
	}

	release := func() {
		if _, err := conn.ExecContext(context.Background(), `SELECT pg_advisory_unlock($1)`, syncLockKey); err != nil {
			logger.GetLogger().WithField("error", err).Warn("failed releasing sync advisory lock")
		}
		_ = conn.Close()
	}
	return release, true, nil
}
