package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"phonesanitizer/internal/migrations/mongo/validators"
	"phonesanitizer/pkg/logger"
	"phonesanitizer/pkg/model"
)

// CollectionSpec is one collection the sanitizer writes to.
type CollectionSpec struct {
	Name      string
	Indexes   []mongo.IndexModel
	Validator bson.M
}

// PhoneIndexes returns one sparse ascending index per tracked phone field.
func PhoneIndexes(fields []string) []mongo.IndexModel {
	models := make([]mongo.IndexModel, 0, len(fields))
	for _, f := range fields {
		models = append(models, mongo.IndexModel{
			Keys:    bson.D{{Key: f, Value: 1}},
			Options: options.Index().SetSparse(true).SetName(f + "_1"),
		})
	}
	return models
}

func specFor[T model.Record](rt model.RecordType[T]) CollectionSpec {
	fields := rt.FieldNames()
	return CollectionSpec{
		Name:      rt.Collection,
		Indexes:   PhoneIndexes(fields),
		Validator: validators.PhoneFieldsValidator(rt.NameField, fields),
	}
}

// Collections lists the contacts and accounts collections, in migration order.
func Collections(contacts, accounts string) []CollectionSpec {
	return []CollectionSpec{
		specFor(model.ContactType(contacts)),
		specFor(model.AccountType(accounts)),
	}
}

func RunMigration(ctx context.Context, db *mongo.Database, log *logger.Logger, collections []CollectionSpec) error {
	log.Info("Running Mongo migrations", "database", db.Name())

	for _, def := range collections {
		if err := ensureCollection(ctx, db, log, def.Name, def.Validator); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", def.Name, err)
		}
		if err := ensureIndexes(ctx, db, log, def.Name, def.Indexes); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", def.Name, err)
		}
	}

	log.Info("All migrations applied successfully")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, log *logger.Logger, name string, validator bson.M) error {
	existing, err := db.ListCollectionSpecifications(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		log.Info("Creating collection", logger.COLLECTION, name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
		return nil
	}

	// Never replace a validator that is already installed.
	if hasValidator(existing[0]) {
		log.Info("Collection already has a validator, leaving it in place", logger.COLLECTION, name)
		return nil
	}

	log.Info("Collection already exists, installing validator", logger.COLLECTION, name)
	command := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
	}
	if err := db.RunCommand(ctx, command).Err(); err != nil {
		log.Warn("Failed updating validator", logger.COLLECTION, name, "error", err)
	}
	return nil
}

func hasValidator(spec *mongo.CollectionSpecification) bool {
	v, err := spec.Options.LookupErr("validator")
	if err != nil {
		return false
	}
	doc, ok := v.DocumentOK()
	if !ok {
		return false
	}
	elems, err := doc.Elements()
	return err == nil && len(elems) > 0
}

func ensureIndexes(ctx context.Context, db *mongo.Database, log *logger.Logger, name string, models []mongo.IndexModel) error {
	if len(models) == 0 {
		return nil
	}
	if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
		return err
	}
	log.Info("Ensured indexes", logger.COLLECTION, name, "count", len(models))
	return nil
}
