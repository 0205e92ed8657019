package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel/trace"

	"github.com/DaneshVerma/CitySettel/domain"
)

const COMBO_COLLECTION = "combos"

type ComboMongoDBStore struct {
	combos *mongo.Collection
	tracer trace.Tracer
}

func NewComboMongoDBStore(client *mongo.Client, tracer trace.Tracer) domain.ComboStore {
	combos := client.Database(DATABASE).Collection(COMBO_COLLECTION)
	return &ComboMongoDBStore{
		combos: combos,
		tracer: tracer,
	}
}

func (store *ComboMongoDBStore) Insert(ctx context.Context, combo *domain.Combo) (*domain.Combo, error) {
	ctx, span := store.tracer.Start(ctx, "ComboStore.Insert")
	defer span.End()

	combo.ID = primitive.NewObjectID()
	combo.CreatedAt = time.Now()
	combo.UpdatedAt = combo.CreatedAt

	result, err := store.combos.InsertOne(ctx, combo)
	if err != nil {
		return nil, err
	}
	combo.ID = result.InsertedID.(primitive.ObjectID)
	return combo, nil
}

func (store *ComboMongoDBStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.Combo, error) {
	ctx, span := store.tracer.Start(ctx, "ComboStore.Get")
	defer span.End()

	result := store.combos.FindOne(ctx, bson.M{"_id": id})
	var combo domain.Combo
	if err := result.Decode(&combo); err != nil {
		return nil, err
	}
	return &combo, nil
}

func (store *ComboMongoDBStore) GetAll(ctx context.Context, query bson.M, sort bson.D, skip, limit int64) ([]*domain.Combo, error) {
	ctx, span := store.tracer.Start(ctx, "ComboStore.GetAll")
	defer span.End()

	opts := options.Find().SetSort(sort).SetSkip(skip).SetLimit(limit)
	cursor, err := store.combos.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	return decodeCombos(ctx, cursor)
}

func (store *ComboMongoDBStore) Count(ctx context.Context, query bson.M) (int64, error) {
	ctx, span := store.tracer.Start(ctx, "ComboStore.Count")
	defer span.End()

	if query == nil {
		query = bson.M{}
	}
	return store.combos.CountDocuments(ctx, query)
}

func (store *ComboMongoDBStore) Update(ctx context.Context, combo *domain.Combo) error {
	ctx, span := store.tracer.Start(ctx, "ComboStore.Update")
	defer span.End()

	combo.UpdatedAt = time.Now()
	_, err := store.combos.ReplaceOne(ctx, bson.M{"_id": combo.ID}, combo)
	return err
}

func (store *ComboMongoDBStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, span := store.tracer.Start(ctx, "ComboStore.Delete")
	defer span.End()

	result, err := store.combos.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func decodeCombos(ctx context.Context, cursor *mongo.Cursor) (combos []*domain.Combo, err error) {
	for cursor.Next(ctx) {
		var combo domain.Combo
		err = cursor.Decode(&combo)
		if err != nil {
			return
		}
		combos = append(combos, &combo)
	}
	err = cursor.Err()
	return
}
