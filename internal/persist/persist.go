// Package persist stores session snapshots: a directory of named JSON files
// for local saves plus an HTTP backend for remote sync. Backends share the
// Backend interface so the autosave orchestrator treats them uniformly.
package persist

import "context"

// Backend persists a serialized snapshot. Implementations are independent:
// one backend failing never prevents another from being attempted.
type Backend interface {
	// Name identifies the backend in logs and error reports.
	Name() string
	// Persist writes the encoded snapshot.
	Persist(ctx context.Context, data []byte) error
}
