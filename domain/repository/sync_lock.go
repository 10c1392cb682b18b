package repository

import "context"

// ISyncLock is a process-wide single-flight guard for sync cycles.
type ISyncLock interface {
	// Acquire tries to take the lock without blocking. When acquired it
	// returns ok=true and a release func that must be called exactly once.
	Acquire(ctx context.Context) (release func(), ok bool, err error)
}
