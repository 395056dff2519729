package mongo

import (
	"context"
	"fmt"

	apperrors "phonesanitizer/pkg/errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

// TransactionFunc runs the writes of one unit of work. Inside a transaction ctx is
// the session context and must be passed to every driver call.
type TransactionFunc func(ctx context.Context) error

type TransactionManager interface {
	ExecuteTransaction(ctx context.Context, fn TransactionFunc) error
}

type mongoTransactionManager struct {
	client *mongo.Client
}

// NewTransactionManager runs each unit of work in a multi-document transaction.
// Requires a replica set or sharded cluster.
func NewTransactionManager(client *mongo.Client) TransactionManager {
	return &mongoTransactionManager{
		client: client,
	}
}

func (m *mongoTransactionManager) ExecuteTransaction(ctx context.Context, fn TransactionFunc) error {
	session, err := m.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	txnOpts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (any, error) {
		return nil, fn(sessCtx)
	}, txnOpts)

	if err != nil {
		if apperrors.IsAppError(err) {
			return err
		}
		return fmt.Errorf("transaction failed: %w", err)
	}

	return nil
}

type directTransactionManager struct{}

// NewDirectTransactionManager runs each unit of work as-is, without a session.
// Used against standalone servers, where a single ordered bulk write is the unit.
func NewDirectTransactionManager() TransactionManager {
	return directTransactionManager{}
}

func (directTransactionManager) ExecuteTransaction(ctx context.Context, fn TransactionFunc) error {
	return fn(ctx)
}
