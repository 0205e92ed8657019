package domain

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserStore interface {
	Register(ctx context.Context, user *User) (*User, error)
	Get(ctx context.Context, id primitive.ObjectID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByGoogleID(ctx context.Context, googleID string) (*User, error)
	Update(ctx context.Context, user *User) error

	AddSavedItem(ctx context.Context, userID, listingID primitive.ObjectID) error
	RemoveSavedItem(ctx context.Context, userID, listingID primitive.ObjectID) error
	AppendListing(ctx context.Context, vendorID, listingID primitive.ObjectID) error
	RemoveListing(ctx context.Context, vendorID, listingID primitive.ObjectID) error

	GetVendor(ctx context.Context, id primitive.ObjectID) (*User, error)
	GetVendors(ctx context.Context, status VerificationStatus, skip, limit int64) ([]*User, error)
	CountVendors(ctx context.Context, status VerificationStatus) (int64, error)
	CountByRole(ctx context.Context, role Role) (int64, error)
	CountVendorsCreatedSince(ctx context.Context, since time.Time) (int64, error)
}
