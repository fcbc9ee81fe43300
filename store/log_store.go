// api/internal/store/log_store.go
package store

import (
	"context"
	"time"

	"github.com/ddroy9090-ind/reliant-page-access/models"
)

// DefaultRowLimit bounds how many log rows a single analytics request will
// pull from the store. Large ranges are deliberately truncated in favour of
// bounded latency and memory.
const DefaultRowLimit = 200000

// LogStore is the access-log source and sink. FetchRows returns rows
// ascending by accessed_at, capped at limit; implementations tolerate
// schemas that lack the optional device/source/geo/session columns.
type LogStore interface {
	FetchRows(ctx context.Context, start, end time.Time, limit int) ([]models.AccessEvent, error)
	InsertAccessEvents(ctx context.Context, records []models.AccessLogRecord) error
}
