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

const LISTING_COLLECTION = "listings"

type ListingMongoDBStore struct {
	listings *mongo.Collection
	tracer   trace.Tracer
}

func NewListingMongoDBStore(client *mongo.Client, tracer trace.Tracer) domain.ListingStore {
	listings := client.Database(DATABASE).Collection(LISTING_COLLECTION)
	return &ListingMongoDBStore{
		listings: listings,
		tracer:   tracer,
	}
}

func (store *ListingMongoDBStore) Insert(ctx context.Context, listing *domain.Listing) (*domain.Listing, error) {
	ctx, span := store.tracer.Start(ctx, "ListingStore.Insert")
	defer span.End()

	listing.ID = primitive.NewObjectID()
	listing.CreatedAt = time.Now()
	listing.UpdatedAt = listing.CreatedAt

	result, err := store.listings.InsertOne(ctx, listing)
	if err != nil {
		return nil, err
	}
	listing.ID = result.InsertedID.(primitive.ObjectID)
	return listing, nil
}

func (store *ListingMongoDBStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.Listing, error) {
	ctx, span := store.tracer.Start(ctx, "ListingStore.Get")
	defer span.End()

	result := store.listings.FindOne(ctx, bson.M{"_id": id})
	var listing domain.Listing
	if err := result.Decode(&listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

func (store *ListingMongoDBStore) GetMany(ctx context.Context, ids []primitive.ObjectID) ([]*domain.Listing, error) {
	ctx, span := store.tracer.Start(ctx, "ListingStore.GetMany")
	defer span.End()

	if len(ids) == 0 {
		return []*domain.Listing{}, nil
	}

	cursor, err := store.listings.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	return decodeListings(ctx, cursor)
}

func (store *ListingMongoDBStore) GetAll(ctx context.Context, query bson.M, sort bson.D, skip, limit int64) ([]*domain.Listing, error) {
	ctx, span := store.tracer.Start(ctx, "ListingStore.GetAll")
	defer span.End()

	opts := options.Find().SetSort(sort).SetSkip(skip).SetLimit(limit)
	cursor, err := store.listings.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	return decodeListings(ctx, cursor)
}

func (store *ListingMongoDBStore) GetByVendor(ctx context.Context, vendorID primitive.ObjectID) ([]*domain.Listing, error) {
	ctx, span := store.tracer.Start(ctx, "ListingStore.GetByVendor")
	defer span.End()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := store.listings.Find(ctx, bson.M{"vendor": vendorID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	return decodeListings(ctx, cursor)
}

func (store *ListingMongoDBStore) Count(ctx context.Context, query bson.M) (int64, error) {
	ctx, span := store.tracer.Start(ctx, "ListingStore.Count")
	defer span.End()

	if query == nil {
		query = bson.M{}
	}
	return store.listings.CountDocuments(ctx, query)
}

func (store *ListingMongoDBStore) CountByStatus(ctx context.Context, status domain.ApprovalStatus) (int64, error) {
	ctx, span := store.tracer.Start(ctx, "ListingStore.CountByStatus")
	defer span.End()

	return store.listings.CountDocuments(ctx, bson.M{"approvalStatus": status})
}

func (store *ListingMongoDBStore) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	ctx, span := store.tracer.Start(ctx, "ListingStore.CountCreatedSince")
	defer span.End()

	return store.listings.CountDocuments(ctx, bson.M{"createdAt": bson.M{"$gte": since}})
}

func (store *ListingMongoDBStore) Update(ctx context.Context, listing *domain.Listing) error {
	ctx, span := store.tracer.Start(ctx, "ListingStore.Update")
	defer span.End()

	listing.UpdatedAt = time.Now()
	_, err := store.listings.ReplaceOne(ctx, bson.M{"_id": listing.ID}, listing)
	return err
}

func (store *ListingMongoDBStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, span := store.tracer.Start(ctx, "ListingStore.Delete")
	defer span.End()

	result, err := store.listings.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func decodeListings(ctx context.Context, cursor *mongo.Cursor) (listings []*domain.Listing, err error) {
	for cursor.Next(ctx) {
		var listing domain.Listing
		err = cursor.Decode(&listing)
		if err != nil {
			return
		}
		listings = append(listings, &listing)
	}
	err = cursor.Err()
	return
}
