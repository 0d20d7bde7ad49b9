package meta

import "context"

// Source supplies table metadata. The metadata itself is owned by an
// external introspection service; sources only ferry its output into a
// Catalog.
type Source interface {
	Load(ctx context.Context) (*Catalog, error)
}
