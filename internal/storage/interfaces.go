package storage

import "context"

// KeyValueStore persists small named string values. Get and Set operate on
// several keys as one unit so a record spread over keys is read and written whole.
type KeyValueStore interface {
	// Get returns the values present for keys; missing keys are absent from the map.
	Get(ctx context.Context, keys ...string) (map[string]string, error)
	Set(ctx context.Context, values map[string]string) error
	Close() error
}

// TranscriptStore defines the interface for storing conversation turns
type TranscriptStore interface {
	AddTurn(turn Turn)
	GetTurns() []Turn
	Clear()
}
