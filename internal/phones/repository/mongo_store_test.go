package repository

import (
	"context"
	"testing"
	"time"

	phoneserrors "phonesanitizer/internal/phones/errors"
	mongotx "phonesanitizer/pkg/db/mongo"
	apperrors "phonesanitizer/pkg/errors"
	"phonesanitizer/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

var testStoreOptions = StoreOptions{ReadTimeout: 5 * time.Second, WriteTimeout: 5 * time.Second}

func TestBuildUpdate(t *testing.T) {
	tests := []struct {
		name    string
		account *model.Account
		want    bson.D
	}{
		{
			name:    "all present",
			account: &model.Account{Telephone1: ptr("1"), Telephone2: ptr("2"), Telephone3: ptr("")},
			want: bson.D{
				{Key: "$set", Value: bson.D{
					{Key: "telephone1", Value: "1"},
					{Key: "telephone2", Value: "2"},
					{Key: "telephone3", Value: ""},
				}},
			},
		},
		{
			name:    "nil fields are left out",
			account: &model.Account{Telephone2: ptr("5551234567")},
			want: bson.D{
				{Key: "$set", Value: bson.D{{Key: "telephone2", Value: "5551234567"}}},
			},
		},
		{
			name:    "nothing present",
			account: &model.Account{},
			want:    bson.D{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildUpdate(model.AccountPhoneFields, tt.account))
		})
	}
}

func startedCommands(mt *mtest.T) []string {
	var names []string
	for evt := mt.GetStartedEvent(); evt != nil; evt = mt.GetStartedEvent() {
		names = append(names, evt.CommandName)
	}
	return names
}

func TestMongoStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("fetch decodes snapshot", func(mt *mtest.T) {
		id1, id2 := model.NewDocumentID(), model.NewDocumentID()
		ns := "crm." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{
				{Key: "_id", Value: id1},
				{Key: "fullname", Value: "Ada Lovelace"},
				{Key: "mobilephone", Value: "(555) 123-4567"},
				{Key: "telephone2", Value: ""},
			},
			bson.D{
				{Key: "_id", Value: id2},
				{Key: "fullname", Value: "Alan Turing"},
				{Key: "telephone1", Value: "5550001111"},
			},
		))

		store := NewMongoCollectionStore(mt.Coll, model.ContactType(""), mongotx.NewDirectTransactionManager(), testStoreOptions)

		records, err := store.FetchAll(context.Background())
		require.NoError(mt, err)
		require.Len(mt, records, 2)

		assert.Equal(mt, id1, records[0].ID)
		assert.Equal(mt, "Ada Lovelace", records[0].DisplayName())
		require.NotNil(mt, records[0].MobilePhone)
		assert.Equal(mt, "(555) 123-4567", *records[0].MobilePhone)
		assert.Nil(mt, records[0].Telephone1, "absent field decodes as nil")
		require.NotNil(mt, records[0].Telephone2, "empty field decodes as empty, not nil")
		assert.Equal(mt, "", *records[0].Telephone2)

		assert.Equal(mt, id2, records[1].ID)
		assert.Equal(mt, "5550001111", *records[1].Telephone1)
	})

	mt.Run("fetch failure is a store error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    13,
			Name:    "Unauthorized",
			Message: "not authorized on crm",
		}))

		store := NewMongoCollectionStore(mt.Coll, model.AccountType(""), mongotx.NewDirectTransactionManager(), testStoreOptions)

		records, err := store.FetchAll(context.Background())
		require.Error(mt, err)
		assert.Nil(mt, records)
		assert.True(mt, apperrors.HasCode(err, apperrors.CodeStoreUnavailable))
	})

	mt.Run("mark dirty is idempotent per id and commit clears pending", func(mt *mtest.T) {
		store := NewMongoCollectionStore(mt.Coll, model.AccountType(""), mongotx.NewDirectTransactionManager(), testStoreOptions)
		ctx := context.Background()

		a := &model.Account{ID: model.NewDocumentID(), Name: "Acme", Telephone1: ptr("18005550100")}
		b := &model.Account{ID: model.NewDocumentID(), Name: "Globex", Telephone3: ptr("5550001111")}

		require.NoError(mt, store.MarkDirty(ctx, a))
		require.NoError(mt, store.MarkDirty(ctx, a))
		require.NoError(mt, store.MarkDirty(ctx, b))
		assert.Equal(mt, 2, store.Pending())

		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 2},
			bson.E{Key: "nModified", Value: 2},
		))

		require.NoError(mt, store.Commit(ctx))
		assert.Equal(mt, 0, store.Pending())
	})

	mt.Run("commit with nothing pending sends nothing", func(mt *mtest.T) {
		store := NewMongoCollectionStore(mt.Coll, model.AccountType(""), mongotx.NewDirectTransactionManager(), testStoreOptions)

		// No mock responses queued: any round trip would fail.
		require.NoError(mt, store.Commit(context.Background()))
	})

	mt.Run("failed commit keeps pending", func(mt *mtest.T) {
		store := NewMongoCollectionStore(mt.Coll, model.ContactType(""), mongotx.NewDirectTransactionManager(), testStoreOptions)
		ctx := context.Background()

		require.NoError(mt, store.MarkDirty(ctx, &model.Contact{ID: model.NewDocumentID(), MobilePhone: ptr("1")}))

		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    13,
			Name:    "Unauthorized",
			Message: "not authorized to update",
		}))

		err := store.Commit(ctx)
		require.Error(mt, err)
		assert.True(mt, apperrors.HasCode(err, apperrors.CodeStoreUnavailable))
		assert.Equal(mt, 1, store.Pending())
	})

	mt.Run("record without id is rejected", func(mt *mtest.T) {
		store := NewMongoCollectionStore(mt.Coll, model.ContactType(""), mongotx.NewDirectTransactionManager(), testStoreOptions)

		err := store.MarkDirty(context.Background(), &model.Contact{FullName: "Ghost"})
		require.Error(mt, err)
		assert.ErrorIs(mt, err, phoneserrors.ErrMissingRecordID)
		assert.Equal(mt, 0, store.Pending())
	})

	mt.Run("non-ObjectID keys and null fields survive a rewrite", func(mt *mtest.T) {
		guid := primitive.Binary{Subtype: 4, Data: []byte{
			0x0a, 0x1b, 0x2c, 0x3d, 0x4e, 0x5f, 0x60, 0x71,
			0x82, 0x93, 0xa4, 0xb5, 0xc6, 0xd7, 0xe8, 0xf9,
		}}
		ns := "crm." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{
				{Key: "_id", Value: "0a1b-guid"},
				{Key: "fullname", Value: "Grace Hopper"},
				{Key: "mobilephone", Value: "(555) 222-3333"},
				{Key: "telephone1", Value: nil},
			},
			bson.D{
				{Key: "_id", Value: guid},
				{Key: "fullname", Value: "Edsger Dijkstra"},
				{Key: "telephone2", Value: "555.444.5555"},
			},
		))

		store := NewMongoCollectionStore(mt.Coll, model.ContactType(""), mongotx.NewDirectTransactionManager(), testStoreOptions)
		ctx := context.Background()

		records, err := store.FetchAll(ctx)
		require.NoError(mt, err)
		require.Len(mt, records, 2)

		assert.Equal(mt, model.StringID("0a1b-guid"), records[0].ID)
		assert.Equal(mt, "0a1b-guid", records[0].ID.String())
		assert.Nil(mt, records[0].Telephone1, "null decodes as nil")
		assert.False(mt, records[1].ID.IsZero())

		records[0].MobilePhone = ptr("5552223333")
		records[1].Telephone2 = ptr("5554445555")
		require.NoError(mt, store.MarkDirty(ctx, records[0]))
		require.NoError(mt, store.MarkDirty(ctx, records[1]))

		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 2},
			bson.E{Key: "nModified", Value: 2},
		))
		mt.ClearEvents()
		require.NoError(mt, store.Commit(ctx))

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		require.Equal(mt, "update", evt.CommandName)

		first := evt.Command.Lookup("updates", "0")
		assert.Equal(mt, "0a1b-guid", first.Document().Lookup("q", "_id").StringValue())
		assert.Equal(mt, "5552223333", first.Document().Lookup("u", "$set", "mobilephone").StringValue())
		_, err = first.Document().LookupErr("u", "$unset")
		assert.Error(mt, err, "null field must not be unset")
		_, err = first.Document().LookupErr("u", "$set", "telephone1")
		assert.Error(mt, err, "null field must not be overwritten")

		subtype, data := evt.Command.Lookup("updates", "1", "q", "_id").Binary()
		assert.Equal(mt, guid.Subtype, subtype)
		assert.Equal(mt, guid.Data, data)
	})

	mt.Run("record with nothing to write is not queued", func(mt *mtest.T) {
		store := NewMongoCollectionStore(mt.Coll, model.AccountType(""), mongotx.NewDirectTransactionManager(), testStoreOptions)

		require.NoError(mt, store.MarkDirty(context.Background(), &model.Account{ID: model.NewDocumentID(), Name: "Empty"}))
		assert.Equal(mt, 0, store.Pending())
	})

	mt.Run("transactional commit", func(mt *mtest.T) {
		store := NewMongoCollectionStore(mt.Coll, model.AccountType(""), mongotx.NewTransactionManager(mt.Client), testStoreOptions)
		ctx := context.Background()

		require.NoError(mt, store.MarkDirty(ctx, &model.Account{ID: model.NewDocumentID(), Name: "Acme", Telephone1: ptr("18005550100")}))

		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
			mtest.CreateSuccessResponse(),
		)
		mt.ClearEvents()

		require.NoError(mt, store.Commit(ctx))
		assert.Equal(mt, 0, store.Pending())
		assert.Equal(mt, []string{"update", "commitTransaction"}, startedCommands(mt))
	})

	mt.Run("failed transactional commit keeps pending", func(mt *mtest.T) {
		store := NewMongoCollectionStore(mt.Coll, model.AccountType(""), mongotx.NewTransactionManager(mt.Client), testStoreOptions)
		ctx := context.Background()

		require.NoError(mt, store.MarkDirty(ctx, &model.Account{ID: model.NewDocumentID(), Name: "Acme", Telephone1: ptr("18005550100")}))

		mt.AddMockResponses(
			mtest.CreateCommandErrorResponse(mtest.CommandError{
				Code:    13,
				Name:    "Unauthorized",
				Message: "not authorized to update",
			}),
			mtest.CreateSuccessResponse(),
		)
		mt.ClearEvents()

		err := store.Commit(ctx)
		require.Error(mt, err)
		assert.True(mt, apperrors.HasCode(err, apperrors.CodeStoreUnavailable))
		assert.Equal(mt, 1, store.Pending())
		assert.Equal(mt, []string{"update", "abortTransaction"}, startedCommands(mt))
	})

	mt.Run("session context is not wrapped with a timeout", func(mt *mtest.T) {
		store := &mongoRecordStore[*model.Account]{opts: testStoreOptions}

		session, err := mt.Client.StartSession()
		require.NoError(mt, err)
		defer session.EndSession(context.Background())

		sessCtx := mongo.NewSessionContext(context.Background(), session)
		ctx, cancel := store.withTimeout(sessCtx, time.Second)
		defer cancel()

		assert.Equal(mt, sessCtx, ctx)
		_, hasDeadline := ctx.Deadline()
		assert.False(mt, hasDeadline)

		plain, cancelPlain := store.withTimeout(context.Background(), time.Second)
		defer cancelPlain()
		_, hasDeadline = plain.Deadline()
		assert.True(mt, hasDeadline)
	})
}
