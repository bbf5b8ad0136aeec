package port

import (
	"context"
	"io"
	"time"

	"github.com/muni-rrhh/dashboard/internal/domain/event"
)

// SpreadsheetReader reads the first sheet of an uploaded workbook. Every cell
// comes back as a string; the filename decides the format (.xls or .xlsx).
type SpreadsheetReader interface {
	ReadFirstSheet(r io.Reader, filename string) ([][]string, error)
}

// SpreadsheetWriter renders a single-sheet workbook
type SpreadsheetWriter interface {
	Write(w io.Writer, sheetName string, headers []string, rows [][]string) error
}

// Cache stores pre-aggregated analytics. Every Flush starts a new
// generation; SetAt drops values loaded under an older one.
type Cache interface {
	Get(key string) (interface{}, bool)
	Generation() uint64
	SetAt(gen uint64, key string, value interface{}, ttl time.Duration) bool
	Flush()
}

// EventPublisher hands domain events to subscribers. Dispatch returns once
// every subscriber ran; Publish runs them in the background.
type EventPublisher interface {
	Dispatch(ctx context.Context, evt *event.Event) error
	Publish(ctx context.Context, evt *event.Event)
}
