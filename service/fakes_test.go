package application

import (
	"context"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel/trace"

	"github.com/DaneshVerma/CitySettel/domain"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testTracer() trace.Tracer {
	return trace.NewNoopTracerProvider().Tracer("test")
}

type fakeUserStore struct {
	users map[primitive.ObjectID]*domain.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[primitive.ObjectID]*domain.User{}}
}

func (store *fakeUserStore) Register(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	store.users[user.ID] = user
	return user, nil
}

func (store *fakeUserStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	user, ok := store.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return user, nil
}

func (store *fakeUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, user := range store.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (store *fakeUserStore) GetByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	for _, user := range store.users {
		if user.GoogleID != "" && user.GoogleID == googleID {
			return user, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (store *fakeUserStore) Update(ctx context.Context, user *domain.User) error {
	if _, ok := store.users[user.ID]; !ok {
		return mongo.ErrNoDocuments
	}
	store.users[user.ID] = user
	return nil
}

// The mutation helpers replace the stored document instead of mutating it in
// place, so a user loaded before the write stays stale the way a decoded Mongo
// document would.
func (store *fakeUserStore) AddSavedItem(ctx context.Context, userID, listingID primitive.ObjectID) error {
	user, ok := store.users[userID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	updated := *user
	updated.SavedItems = append(append([]primitive.ObjectID{}, user.SavedItems...), listingID)
	store.users[userID] = &updated
	return nil
}

func (store *fakeUserStore) RemoveSavedItem(ctx context.Context, userID, listingID primitive.ObjectID) error {
	user, ok := store.users[userID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	updated := *user
	updated.SavedItems = []primitive.ObjectID{}
	for _, saved := range user.SavedItems {
		if saved != listingID {
			updated.SavedItems = append(updated.SavedItems, saved)
		}
	}
	store.users[userID] = &updated
	return nil
}

func (store *fakeUserStore) AppendListing(ctx context.Context, vendorID, listingID primitive.ObjectID) error {
	vendor, ok := store.users[vendorID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	updated := *vendor
	updated.Listings = append(append([]primitive.ObjectID{}, vendor.Listings...), listingID)
	store.users[vendorID] = &updated
	return nil
}

func (store *fakeUserStore) RemoveListing(ctx context.Context, vendorID, listingID primitive.ObjectID) error {
	vendor, ok := store.users[vendorID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	updated := *vendor
	updated.Listings = []primitive.ObjectID{}
	for _, id := range vendor.Listings {
		if id != listingID {
			updated.Listings = append(updated.Listings, id)
		}
	}
	store.users[vendorID] = &updated
	return nil
}

func (store *fakeUserStore) GetVendor(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	user, ok := store.users[id]
	if !ok || !user.IsVendor() {
		return nil, mongo.ErrNoDocuments
	}
	return user, nil
}

func (store *fakeUserStore) GetVendors(ctx context.Context, status domain.VerificationStatus, skip, limit int64) ([]*domain.User, error) {
	var vendors []*domain.User
	for _, user := range store.users {
		if user.IsVendor() && (status == "" || user.VerificationStatus == status) {
			vendors = append(vendors, user)
		}
	}
	return vendors, nil
}

func (store *fakeUserStore) CountVendors(ctx context.Context, status domain.VerificationStatus) (int64, error) {
	vendors, _ := store.GetVendors(ctx, status, 0, 0)
	return int64(len(vendors)), nil
}

func (store *fakeUserStore) CountByRole(ctx context.Context, role domain.Role) (int64, error) {
	count := int64(0)
	for _, user := range store.users {
		if user.Role == role {
			count++
		}
	}
	return count, nil
}

func (store *fakeUserStore) CountVendorsCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	count := int64(0)
	for _, user := range store.users {
		if user.IsVendor() && user.CreatedAt.After(since) {
			count++
		}
	}
	return count, nil
}

type fakeListingStore struct {
	listings  map[primitive.ObjectID]*domain.Listing
	lastQuery bson.M
}

func newFakeListingStore() *fakeListingStore {
	return &fakeListingStore{listings: map[primitive.ObjectID]*domain.Listing{}}
}

func (store *fakeListingStore) Insert(ctx context.Context, listing *domain.Listing) (*domain.Listing, error) {
	if listing.ID.IsZero() {
		listing.ID = primitive.NewObjectID()
	}
	listing.CreatedAt = time.Now()
	listing.UpdatedAt = listing.CreatedAt
	store.listings[listing.ID] = listing
	return listing, nil
}

func (store *fakeListingStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.Listing, error) {
	listing, ok := store.listings[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return listing, nil
}

func (store *fakeListingStore) GetMany(ctx context.Context, ids []primitive.ObjectID) ([]*domain.Listing, error) {
	found := []*domain.Listing{}
	for _, id := range ids {
		if listing, ok := store.listings[id]; ok {
			found = append(found, listing)
		}
	}
	return found, nil
}

func (store *fakeListingStore) GetAll(ctx context.Context, query bson.M, sort bson.D, skip, limit int64) ([]*domain.Listing, error) {
	store.lastQuery = query
	var all []*domain.Listing
	for _, listing := range store.listings {
		all = append(all, listing)
	}
	return all, nil
}

func (store *fakeListingStore) GetByVendor(ctx context.Context, vendorID primitive.ObjectID) ([]*domain.Listing, error) {
	var owned []*domain.Listing
	for _, listing := range store.listings {
		if listing.Vendor == vendorID {
			owned = append(owned, listing)
		}
	}
	return owned, nil
}

func (store *fakeListingStore) Count(ctx context.Context, query bson.M) (int64, error) {
	return int64(len(store.listings)), nil
}

func (store *fakeListingStore) CountByStatus(ctx context.Context, status domain.ApprovalStatus) (int64, error) {
	count := int64(0)
	for _, listing := range store.listings {
		if listing.ApprovalStatus == status {
			count++
		}
	}
	return count, nil
}

func (store *fakeListingStore) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	count := int64(0)
	for _, listing := range store.listings {
		if listing.CreatedAt.After(since) {
			count++
		}
	}
	return count, nil
}

func (store *fakeListingStore) Update(ctx context.Context, listing *domain.Listing) error {
	if _, ok := store.listings[listing.ID]; !ok {
		return mongo.ErrNoDocuments
	}
	store.listings[listing.ID] = listing
	return nil
}

func (store *fakeListingStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := store.listings[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(store.listings, id)
	return nil
}

type fakeComboStore struct {
	combos    map[primitive.ObjectID]*domain.Combo
	lastQuery bson.M
}

func newFakeComboStore() *fakeComboStore {
	return &fakeComboStore{combos: map[primitive.ObjectID]*domain.Combo{}}
}

func (store *fakeComboStore) Insert(ctx context.Context, combo *domain.Combo) (*domain.Combo, error) {
	if combo.ID.IsZero() {
		combo.ID = primitive.NewObjectID()
	}
	combo.CreatedAt = time.Now()
	combo.UpdatedAt = combo.CreatedAt
	store.combos[combo.ID] = combo
	return combo, nil
}

func (store *fakeComboStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.Combo, error) {
	combo, ok := store.combos[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return combo, nil
}

func (store *fakeComboStore) GetAll(ctx context.Context, query bson.M, sort bson.D, skip, limit int64) ([]*domain.Combo, error) {
	store.lastQuery = query
	var all []*domain.Combo
	for _, combo := range store.combos {
		all = append(all, combo)
	}
	return all, nil
}

func (store *fakeComboStore) Count(ctx context.Context, query bson.M) (int64, error) {
	return int64(len(store.combos)), nil
}

func (store *fakeComboStore) Update(ctx context.Context, combo *domain.Combo) error {
	if _, ok := store.combos[combo.ID]; !ok {
		return mongo.ErrNoDocuments
	}
	store.combos[combo.ID] = combo
	return nil
}

func (store *fakeComboStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := store.combos[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(store.combos, id)
	return nil
}
