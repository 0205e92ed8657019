package application

import (
	"context"
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/DaneshVerma/CitySettel/domain"
	"github.com/DaneshVerma/CitySettel/errors"
)

type UserService struct {
	users    domain.UserStore
	listings domain.ListingStore
	logger   *logrus.Logger
	tracer   trace.Tracer
}

func NewUserService(users domain.UserStore, listings domain.ListingStore, logger *logrus.Logger, tracer trace.Tracer) *UserService {
	return &UserService{
		users:    users,
		listings: listings,
		logger:   logger,
		tracer:   tracer,
	}
}

// Profile returns the user together with the dereferenced saved listings.
func (service *UserService) Profile(ctx context.Context, user *domain.User) ([]*domain.Listing, error) {
	ctx, span := service.tracer.Start(ctx, "UserService.Profile")
	defer span.End()

	saved, err := service.listings.GetMany(ctx, user.SavedItems)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return saved, nil
}

// UpdateProfile applies the allowed subset of fields. Everything else in the
// payload is dropped.
func (service *UserService) UpdateProfile(ctx context.Context, user *domain.User, payload map[string]interface{}) (*domain.User, error) {
	ctx, span := service.tracer.Start(ctx, "UserService.UpdateProfile")
	defer span.End()

	for key := range payload {
		switch key {
		case "fullName", "phone", "city":
		default:
			delete(payload, key)
		}
	}

	updated := *user
	if err := mapstructure.Decode(payload, &updated); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if err := service.users.Update(ctx, &updated); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return &updated, nil
}

// SaveListing bookmarks a listing for the user. Saving the same listing
// twice is a conflict.
func (service *UserService) SaveListing(ctx context.Context, user *domain.User, listingID primitive.ObjectID) ([]primitive.ObjectID, error) {
	ctx, span := service.tracer.Start(ctx, "UserService.SaveListing")
	defer span.End()

	if _, err := service.listings.Get(ctx, listingID); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf(errors.ListingNotFound)
		}
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	for _, saved := range user.SavedItems {
		if saved == listingID {
			return nil, fmt.Errorf(errors.ListingAlreadySaved)
		}
	}

	if err := service.users.AddSavedItem(ctx, user.ID, listingID); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	// Copy before appending so the response slice never shares a backing
	// array with the context-cached user.
	saved := make([]primitive.ObjectID, 0, len(user.SavedItems)+1)
	saved = append(saved, user.SavedItems...)
	return append(saved, listingID), nil
}

// UnsaveListing removes the bookmark; removing an absent one is not an error.
func (service *UserService) UnsaveListing(ctx context.Context, user *domain.User, listingID primitive.ObjectID) ([]primitive.ObjectID, error) {
	ctx, span := service.tracer.Start(ctx, "UserService.UnsaveListing")
	defer span.End()

	if err := service.users.RemoveSavedItem(ctx, user.ID, listingID); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	remaining := make([]primitive.ObjectID, 0, len(user.SavedItems))
	for _, saved := range user.SavedItems {
		if saved != listingID {
			remaining = append(remaining, saved)
		}
	}
	return remaining, nil
}

// SavedListings resolves the bookmarked listing documents.
func (service *UserService) SavedListings(ctx context.Context, user *domain.User) ([]*domain.Listing, error) {
	ctx, span := service.tracer.Start(ctx, "UserService.SavedListings")
	defer span.End()

	saved, err := service.listings.GetMany(ctx, user.SavedItems)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return saved, nil
}
