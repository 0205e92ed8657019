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

const (
	DATABASE        = "citysettle"
	USER_COLLECTION = "users"
)

type UserMongoDBStore struct {
	users  *mongo.Collection
	tracer trace.Tracer
}

func NewUserMongoDBStore(client *mongo.Client, tracer trace.Tracer) domain.UserStore {
	users := client.Database(DATABASE).Collection(USER_COLLECTION)
	return &UserMongoDBStore{
		users:  users,
		tracer: tracer,
	}
}

func (store *UserMongoDBStore) Register(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, span := store.tracer.Start(ctx, "UserStore.Register")
	defer span.End()

	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	result, err := store.users.InsertOne(ctx, user)
	if err != nil {
		return nil, err
	}
	user.ID = result.InsertedID.(primitive.ObjectID)
	return user, nil
}

func (store *UserMongoDBStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	ctx, span := store.tracer.Start(ctx, "UserStore.Get")
	defer span.End()

	return store.filterOne(ctx, bson.M{"_id": id})
}

func (store *UserMongoDBStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, span := store.tracer.Start(ctx, "UserStore.GetByEmail")
	defer span.End()

	return store.filterOne(ctx, bson.M{"email": email})
}

func (store *UserMongoDBStore) GetByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	ctx, span := store.tracer.Start(ctx, "UserStore.GetByGoogleID")
	defer span.End()

	return store.filterOne(ctx, bson.M{"googleId": googleID})
}

func (store *UserMongoDBStore) Update(ctx context.Context, user *domain.User) error {
	ctx, span := store.tracer.Start(ctx, "UserStore.Update")
	defer span.End()

	user.UpdatedAt = time.Now()
	_, err := store.users.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$set": user})
	return err
}

func (store *UserMongoDBStore) AddSavedItem(ctx context.Context, userID, listingID primitive.ObjectID) error {
	ctx, span := store.tracer.Start(ctx, "UserStore.AddSavedItem")
	defer span.End()

	update := bson.M{
		"$push": bson.M{"savedItems": listingID},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	_, err := store.users.UpdateOne(ctx, bson.M{"_id": userID}, update)
	return err
}

func (store *UserMongoDBStore) RemoveSavedItem(ctx context.Context, userID, listingID primitive.ObjectID) error {
	ctx, span := store.tracer.Start(ctx, "UserStore.RemoveSavedItem")
	defer span.End()

	update := bson.M{
		"$pull": bson.M{"savedItems": listingID},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	_, err := store.users.UpdateOne(ctx, bson.M{"_id": userID}, update)
	return err
}

func (store *UserMongoDBStore) AppendListing(ctx context.Context, vendorID, listingID primitive.ObjectID) error {
	ctx, span := store.tracer.Start(ctx, "UserStore.AppendListing")
	defer span.End()

	update := bson.M{
		"$push": bson.M{"listings": listingID},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	_, err := store.users.UpdateOne(ctx, bson.M{"_id": vendorID}, update)
	return err
}

func (store *UserMongoDBStore) RemoveListing(ctx context.Context, vendorID, listingID primitive.ObjectID) error {
	ctx, span := store.tracer.Start(ctx, "UserStore.RemoveListing")
	defer span.End()

	update := bson.M{
		"$pull": bson.M{"listings": listingID},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	_, err := store.users.UpdateOne(ctx, bson.M{"_id": vendorID}, update)
	return err
}

func (store *UserMongoDBStore) GetVendor(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	ctx, span := store.tracer.Start(ctx, "UserStore.GetVendor")
	defer span.End()

	return store.filterOne(ctx, bson.M{"_id": id, "role": domain.RoleVendor})
}

func (store *UserMongoDBStore) GetVendors(ctx context.Context, status domain.VerificationStatus, skip, limit int64) ([]*domain.User, error) {
	ctx, span := store.tracer.Start(ctx, "UserStore.GetVendors")
	defer span.End()

	query := bson.M{"role": domain.RoleVendor}
	if status != "" {
		query["verificationStatus"] = status
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := store.users.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	return decodeUsers(ctx, cursor)
}

func (store *UserMongoDBStore) CountVendors(ctx context.Context, status domain.VerificationStatus) (int64, error) {
	ctx, span := store.tracer.Start(ctx, "UserStore.CountVendors")
	defer span.End()

	query := bson.M{"role": domain.RoleVendor}
	if status != "" {
		query["verificationStatus"] = status
	}
	return store.users.CountDocuments(ctx, query)
}

func (store *UserMongoDBStore) CountByRole(ctx context.Context, role domain.Role) (int64, error) {
	ctx, span := store.tracer.Start(ctx, "UserStore.CountByRole")
	defer span.End()

	return store.users.CountDocuments(ctx, bson.M{"role": role})
}

func (store *UserMongoDBStore) CountVendorsCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	ctx, span := store.tracer.Start(ctx, "UserStore.CountVendorsCreatedSince")
	defer span.End()

	query := bson.M{
		"role":      domain.RoleVendor,
		"createdAt": bson.M{"$gte": since},
	}
	return store.users.CountDocuments(ctx, query)
}

func (store *UserMongoDBStore) filterOne(ctx context.Context, filter interface{}) (user *domain.User, err error) {
	result := store.users.FindOne(ctx, filter)
	err = result.Decode(&user)
	return
}

func decodeUsers(ctx context.Context, cursor *mongo.Cursor) (users []*domain.User, err error) {
	for cursor.Next(ctx) {
		var user domain.User
		err = cursor.Decode(&user)
		if err != nil {
			return
		}
		users = append(users, &user)
	}
	err = cursor.Err()
	return
}
