package port

import (
	"context"
	"time"
)

// FileStorage keeps uploaded spreadsheets under slash-separated keys such as
// "agentes/2024/03/<uuid>-<name>.xlsx"
type FileStorage interface {
	Save(ctx context.Context, key string, content []byte) error

	// PruneOlderThan removes files under prefix modified before cutoff
	PruneOlderThan(ctx context.Context, prefix string, cutoff time.Time) (int, error)
}
