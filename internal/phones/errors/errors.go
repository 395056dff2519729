package errors

import "errors"

var (
	ErrMissingRecordID = errors.New("record has no _id")

	ErrInvalidBatchSize = errors.New("batch size must be at least 1")

	ErrNoTrackedFields = errors.New("record type tracks no phone fields")
)
