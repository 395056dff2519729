package repository

import (
	"context"

	phoneserrors "phonesanitizer/internal/phones/errors"
	apperrors "phonesanitizer/pkg/errors"
	"phonesanitizer/pkg/model"
)

// MemoryStore keeps a collection in process. Records are copied on the way in and
// on the way out, so a fetched snapshot never aliases stored state.
type MemoryStore[T model.Record] struct {
	recordType model.RecordType[T]
	records    []T
	index      map[model.DocumentID]int

	pending      map[model.DocumentID]T
	pendingOrder []model.DocumentID
	commits      int
}

// NewMemoryStore seeds a store with records; every seed must carry an id.
func NewMemoryStore[T model.Record](recordType model.RecordType[T], seed ...T) *MemoryStore[T] {
	s := &MemoryStore[T]{
		recordType: recordType,
		index:      make(map[model.DocumentID]int),
		pending:    make(map[model.DocumentID]T),
	}
	for _, r := range seed {
		s.index[r.RecordID()] = len(s.records)
		s.records = append(s.records, recordType.Clone(r))
	}
	return s
}

func (s *MemoryStore[T]) Collection() string {
	return s.recordType.Collection
}

func (s *MemoryStore[T]) FetchAll(_ context.Context) ([]T, error) {
	out := make([]T, len(s.records))
	for i, r := range s.records {
		out[i] = s.recordType.Clone(r)
	}
	return out, nil
}

func (s *MemoryStore[T]) MarkDirty(_ context.Context, record T) error {
	id := record.RecordID()
	if id.IsZero() {
		return apperrors.InvalidRecord(s.Collection(), phoneserrors.ErrMissingRecordID)
	}
	if _, ok := s.pending[id]; !ok {
		s.pendingOrder = append(s.pendingOrder, id)
	}
	s.pending[id] = s.recordType.Clone(record)
	return nil
}

func (s *MemoryStore[T]) Pending() int {
	return len(s.pending)
}

func (s *MemoryStore[T]) Commit(_ context.Context) error {
	if len(s.pending) == 0 {
		return nil
	}

	for _, id := range s.pendingOrder {
		r := s.pending[id]
		if i, ok := s.index[id]; ok {
			s.records[i] = r
			continue
		}
		s.index[id] = len(s.records)
		s.records = append(s.records, r)
	}

	s.pending = make(map[model.DocumentID]T)
	s.pendingOrder = nil
	s.commits++
	return nil
}

// Commits returns how many non-empty commits have been applied.
func (s *MemoryStore[T]) Commits() int {
	return s.commits
}

// Records returns a copy of the committed state, in insertion order.
func (s *MemoryStore[T]) Records() []T {
	out, _ := s.FetchAll(context.Background())
	return out
}
