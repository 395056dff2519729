package repository

import (
	"context"
	"time"

	phoneserrors "phonesanitizer/internal/phones/errors"
	"phonesanitizer/pkg/config"
	mongotx "phonesanitizer/pkg/db/mongo"
	apperrors "phonesanitizer/pkg/errors"
	"phonesanitizer/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type StoreOptions struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type mongoRecordStore[T model.Record] struct {
	recordType model.RecordType[T]
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
	opts       StoreOptions

	pending []mongo.WriteModel
	index   map[model.DocumentID]int
}

// NewMongoStore opens the store for recordType's collection in the configured database.
func NewMongoStore[T model.Record](cfg *config.Config, recordType model.RecordType[T]) Store[T] {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)

	txManager := mongotx.NewDirectTransactionManager()
	if cfg.MongoUseTransactions {
		txManager = mongotx.NewTransactionManager(cfg.Client.Mongo)
	}

	return NewMongoCollectionStore(db.Collection(recordType.Collection), recordType, txManager, StoreOptions{
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})
}

func NewMongoCollectionStore[T model.Record](
	collection *mongo.Collection,
	recordType model.RecordType[T],
	txManager mongotx.TransactionManager,
	opts StoreOptions,
) Store[T] {
	return &mongoRecordStore[T]{
		recordType: recordType,
		collection: collection,
		txManager:  txManager,
		opts:       opts,
		index:      make(map[model.DocumentID]int),
	}
}

// withTimeout wraps the context with a timeout if not already in a transaction.
// When inside a transaction (SessionContext), returns the original context unchanged
// with a no-op cancel function, as we cannot wrap SessionContext without breaking
// transaction semantics.
func (s *mongoRecordStore[T]) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	if timeout <= 0 {
		return context.WithCancel(ctx)
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	// Use the shorter of remaining time or requested timeout
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func (s *mongoRecordStore[T]) Collection() string {
	return s.collection.Name()
}

func (s *mongoRecordStore[T]) Pending() int {
	return len(s.pending)
}

func (s *mongoRecordStore[T]) FetchAll(ctx context.Context) ([]T, error) {
	ctx, cancel := s.withTimeout(ctx, s.opts.ReadTimeout)
	defer cancel()

	projection := bson.D{{Key: "_id", Value: 1}}
	if s.recordType.NameField != "" {
		projection = append(projection, bson.E{Key: s.recordType.NameField, Value: 1})
	}
	for _, name := range s.recordType.FieldNames() {
		projection = append(projection, bson.E{Key: name, Value: 1})
	}

	opts := options.Find().
		SetProjection(projection).
		SetSort(bson.D{{Key: "_id", Value: 1}})

	cursor, err := s.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, apperrors.StoreUnavailable("fetch", s.Collection(), err)
	}
	defer cursor.Close(ctx)

	var records []T
	if err := cursor.All(ctx, &records); err != nil {
		return nil, apperrors.StoreUnavailable("fetch", s.Collection(), err)
	}

	return records, nil
}

func (s *mongoRecordStore[T]) MarkDirty(_ context.Context, record T) error {
	id := record.RecordID()
	if id.IsZero() {
		return apperrors.InvalidRecord(s.Collection(), phoneserrors.ErrMissingRecordID)
	}

	set := buildUpdate(s.recordType.Fields, record)
	if len(set) == 0 {
		return nil
	}

	update := mongo.NewUpdateOneModel().
		SetFilter(bson.M{"_id": id}).
		SetUpdate(set)

	if i, ok := s.index[id]; ok {
		s.pending[i] = update
		return nil
	}

	s.index[id] = len(s.pending)
	s.pending = append(s.pending, update)
	return nil
}

// buildUpdate $sets every tracked field that holds a value. Nil fields are left
// out: normalization never turns a value into nil, so a nil field was already
// absent or null in the stored document and must stay that way.
func buildUpdate[T model.Record](fields []model.PhoneField[T], record T) bson.D {
	set := bson.D{}
	for _, f := range fields {
		if v := f.Get(record); v != nil {
			set = append(set, bson.E{Key: f.Name, Value: *v})
		}
	}

	if len(set) == 0 {
		return bson.D{}
	}
	return bson.D{{Key: "$set", Value: set}}
}

func (s *mongoRecordStore[T]) Commit(ctx context.Context) error {
	if len(s.pending) == 0 {
		return nil
	}

	ctx, cancel := s.withTimeout(ctx, s.opts.WriteTimeout)
	defer cancel()

	err := s.txManager.ExecuteTransaction(ctx, func(ctx context.Context) error {
		_, err := s.collection.BulkWrite(ctx, s.pending, options.BulkWrite().SetOrdered(true))
		return err
	})
	if err != nil {
		return apperrors.StoreUnavailable("commit", s.Collection(), err)
	}

	s.pending = nil
	s.index = make(map[model.DocumentID]int)
	return nil
}
