package attendance

import "context"

// RecordSource loads the raw attendance export.
type RecordSource interface {
	// Load reads every row of the export
	Load(ctx context.Context) (Table, error)

	// Fingerprint identifies the current content of the export without loading it
	Fingerprint(ctx context.Context) (string, error)
}

// CachedRecordSource keeps the last loaded export in memory.
type CachedRecordSource interface {
	RecordSource

	// Refresh reloads the export when its fingerprint changed and reports whether it did
	Refresh(ctx context.Context) (bool, error)

	// Invalidate drops the cached export so the next Load reads the source again
	Invalidate()
}
