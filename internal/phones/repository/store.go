package repository

import (
	"context"

	"phonesanitizer/pkg/model"
)

// Store is the record store the sanitizer pipeline writes through.
//
// FetchAll returns an in-memory snapshot; later writes to the store are not
// reflected into records already fetched. MarkDirty queues the record's current
// field values for the next Commit and is idempotent per record id. Commit
// persists everything queued as a unit and clears the queue; with nothing
// queued it is a no-op.
type Store[T model.Record] interface {
	FetchAll(ctx context.Context) ([]T, error)
	MarkDirty(ctx context.Context, record T) error
	Commit(ctx context.Context) error
	Pending() int
	Collection() string
}
