package domain

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ListingStore interface {
	Insert(ctx context.Context, listing *Listing) (*Listing, error)
	Get(ctx context.Context, id primitive.ObjectID) (*Listing, error)
	GetMany(ctx context.Context, ids []primitive.ObjectID) ([]*Listing, error)
	GetAll(ctx context.Context, query bson.M, sort bson.D, skip, limit int64) ([]*Listing, error)
	GetByVendor(ctx context.Context, vendorID primitive.ObjectID) ([]*Listing, error)
	Count(ctx context.Context, query bson.M) (int64, error)
	CountByStatus(ctx context.Context, status ApprovalStatus) (int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
	Update(ctx context.Context, listing *Listing) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}
