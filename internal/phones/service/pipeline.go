package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	phoneserrors "phonesanitizer/internal/phones/errors"
	"phonesanitizer/internal/phones/repository"
	apperrors "phonesanitizer/pkg/errors"
	"phonesanitizer/pkg/logger"
	"phonesanitizer/pkg/model"
	"phonesanitizer/pkg/sanitizer"
)

const fieldDelimiter = "|"

// BatchCommitted describes one successful commit inside a collection run.
type BatchCommitted struct {
	RunID       string
	Kind        string
	Collection  string
	Batch       int
	Records     int
	CommittedAt time.Time
}

// Notifier is told about every batch once the store has accepted it.
type Notifier interface {
	BatchCommitted(ctx context.Context, event BatchCommitted) error
}

// Env carries what a collection run needs besides its store.
type Env struct {
	RunID    string
	Log      *logger.Logger
	Audit    io.Writer
	Notifier Notifier
}

type Summary struct {
	Kind       string
	Collection string
	Scanned    int
	Updated    int
	Commits    int
	Duration   time.Duration
}

// Run normalizes every tracked field of every record in store. A record whose
// normalized values differ from the originals in any field gets all fields
// rewritten and is marked dirty; the store is committed every batchSize dirty
// records and once more for any remainder.
//
// The returned Summary reflects progress up to the point of failure.
func Run[T model.Record](
	ctx context.Context,
	env Env,
	kind string,
	store repository.Store[T],
	fields []model.PhoneField[T],
	batchSize int,
) (Summary, error) {
	start := time.Now()
	summary := Summary{Kind: kind, Collection: store.Collection()}

	log := env.Log
	if log == nil {
		log = logger.Discard()
	}
	log = log.With(logger.COLLECTION, summary.Collection, "kind", kind)

	if batchSize < 1 {
		return summary, apperrors.Wrap(phoneserrors.ErrInvalidBatchSize, apperrors.CodeInvalidConfig,
			fmt.Sprintf("batch size %d rejected", batchSize))
	}
	if len(fields) == 0 {
		return summary, apperrors.Wrap(phoneserrors.ErrNoTrackedFields, apperrors.CodeInternal,
			fmt.Sprintf("%s pipeline has nothing to normalize", kind))
	}

	finish := func(err error) (Summary, error) {
		summary.Duration = time.Since(start)
		if err != nil {
			log.Error("Phone sanitizing aborted",
				"scanned", summary.Scanned,
				"updated", summary.Updated,
				"commits", summary.Commits,
				"error", err,
			)
			return summary, err
		}
		log.Info("Phone sanitizing finished",
			"scanned", summary.Scanned,
			"updated", summary.Updated,
			"commits", summary.Commits,
			"duration", summary.Duration,
		)
		return summary, nil
	}

	records, err := store.FetchAll(ctx)
	if err != nil {
		return finish(err)
	}
	log.Info("Fetched collection snapshot", "records", len(records))

	dirty := 0
	commit := func() error {
		if err := store.Commit(ctx); err != nil {
			return err
		}
		summary.Commits++
		log.Debug("Batch committed", "batch", summary.Commits, "records", dirty)
		notify(ctx, env, log, BatchCommitted{
			RunID:       env.RunID,
			Kind:        kind,
			Collection:  summary.Collection,
			Batch:       summary.Commits,
			Records:     dirty,
			CommittedAt: time.Now().UTC(),
		})
		dirty = 0
		return nil
	}

	for _, record := range records {
		if err := ctx.Err(); err != nil {
			return finish(apperrors.Canceled(err))
		}
		summary.Scanned++

		audit(env.Audit, log, record, fields)

		if !normalize(record, fields) {
			continue
		}
		if err := store.MarkDirty(ctx, record); err != nil {
			return finish(err)
		}
		summary.Updated++
		dirty++

		if dirty == batchSize {
			if err := commit(); err != nil {
				return finish(err)
			}
		}
	}

	if dirty > 0 {
		if err := commit(); err != nil {
			return finish(err)
		}
	}

	return finish(nil)
}

// normalize sanitizes every field of record and reports whether any value changed.
// When one did, all normalized values are written back.
func normalize[T model.Record](record T, fields []model.PhoneField[T]) bool {
	normalized := make([]*string, len(fields))
	changed := false

	for i, f := range fields {
		original := f.Get(record)
		normalized[i] = sanitizer.SanitizeNumber(original)
		if !sameValue(original, normalized[i]) {
			changed = true
		}
	}

	if !changed {
		return false
	}
	for i, f := range fields {
		f.Set(record, normalized[i])
	}
	return true
}

func sameValue(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// audit writes "<display name> <f1>|<f2>|..." for a record before it is touched.
func audit[T model.Record](w io.Writer, log *logger.Logger, record T, fields []model.PhoneField[T]) {
	values := make([]string, len(fields))
	for i, f := range fields {
		values[i] = f.Text(record)
	}
	line := record.DisplayName() + " " + strings.Join(values, fieldDelimiter)

	log.Debug("Scanning record", "id", record.RecordID().String(), "phones", line)
	if w == nil {
		return
	}
	if _, err := fmt.Fprintln(w, line); err != nil {
		log.Warn("Failed to write audit line", "error", err)
	}
}

func notify(ctx context.Context, env Env, log *logger.Logger, event BatchCommitted) {
	if env.Notifier == nil {
		return
	}
	if err := env.Notifier.BatchCommitted(ctx, event); err != nil {
		log.Warn("Failed to publish batch notification",
			"batch", event.Batch,
			"error", err,
		)
	}
}
