package domain

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ComboStore interface {
	Insert(ctx context.Context, combo *Combo) (*Combo, error)
	Get(ctx context.Context, id primitive.ObjectID) (*Combo, error)
	GetAll(ctx context.Context, query bson.M, sort bson.D, skip, limit int64) ([]*Combo, error)
	Count(ctx context.Context, query bson.M) (int64, error)
	Update(ctx context.Context, combo *Combo) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}
