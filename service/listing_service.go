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

type ListingService struct {
	listings domain.ListingStore
	users    domain.UserStore
	logger   *logrus.Logger
	tracer   trace.Tracer
}

func NewListingService(listings domain.ListingStore, users domain.UserStore, logger *logrus.Logger, tracer trace.Tracer) *ListingService {
	return &ListingService{
		listings: listings,
		users:    users,
		logger:   logger,
		tracer:   tracer,
	}
}

// Listings is the public read path: only available, approved listings ever
// leave this method.
func (service *ListingService) Listings(ctx context.Context, filter domain.ListingFilter) ([]*domain.Listing, domain.Pagination, error) {
	ctx, span := service.tracer.Start(ctx, "ListingService.Listings")
	defer span.End()

	query := filter.PublicQuery()

	listings, err := service.listings.GetAll(ctx, query, filter.Sort(), filter.Skip(), filter.Limit)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, domain.Pagination{}, err
	}

	total, err := service.listings.Count(ctx, query)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, domain.Pagination{}, err
	}

	if listings == nil {
		listings = []*domain.Listing{}
	}
	return listings, domain.NewPagination(filter.Page, filter.Limit, total), nil
}

// Listing fetches by id without the visibility constraint; a direct fetch
// can return a pending or rejected listing.
func (service *ListingService) Listing(ctx context.Context, id primitive.ObjectID) (*domain.Listing, error) {
	ctx, span := service.tracer.Start(ctx, "ListingService.Listing")
	defer span.End()

	listing, err := service.listings.Get(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf(errors.ListingNotFound)
		}
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return listing, nil
}

// Create persists a vendor listing. The approval status is forced to pending
// regardless of the payload, and the owner contact snapshot is taken from
// the creating vendor when the payload carries none. The listing reference
// is appended to the vendor afterwards; the two writes are not atomic.
func (service *ListingService) Create(ctx context.Context, vendor *domain.User, listing *domain.Listing) (*domain.Listing, error) {
	ctx, span := service.tracer.Start(ctx, "ListingService.Create")
	defer span.End()

	listing.ApprovalStatus = domain.ApprovalPending
	listing.RejectionReason = ""
	listing.Vendor = vendor.ID
	if listing.Owner == (domain.OwnerContact{}) {
		listing.Owner = domain.OwnerContact{
			Name:  fmt.Sprintf("%s %s", vendor.FullName.FirstName, vendor.FullName.LastName),
			Phone: vendor.Phone,
			Email: vendor.Email,
		}
	}

	saved, err := service.listings.Insert(ctx, listing)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if err := service.users.AppendListing(ctx, vendor.ID, saved.ID); err != nil {
		span.SetStatus(codes.Error, err.Error())
		service.logger.WithError(err).Error("appending listing to vendor")
		return nil, err
	}

	return saved, nil
}

// Update applies a partial payload onto the stored listing. Ownership of the
// listing is not checked here.
func (service *ListingService) Update(ctx context.Context, id primitive.ObjectID, payload map[string]interface{}) (*domain.Listing, error) {
	ctx, span := service.tracer.Start(ctx, "ListingService.Update")
	defer span.End()

	existing, err := service.listings.Get(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf(errors.ListingNotFound)
		}
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	for key := range payload {
		switch key {
		case "id", "_id", "vendor", "approvalStatus", "rejectionReason", "createdAt", "updatedAt":
			delete(payload, key)
		}
	}

	if err := decodePartial(payload, existing); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if err := existing.Validate(); err != nil {
		return nil, fmt.Errorf(errors.InvalidRequestFormat)
	}

	if err := service.listings.Update(ctx, existing); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return existing, nil
}

// Delete removes the listing and detaches it from its vendor.
func (service *ListingService) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, span := service.tracer.Start(ctx, "ListingService.Delete")
	defer span.End()

	existing, err := service.listings.Get(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return fmt.Errorf(errors.ListingNotFound)
		}
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := service.listings.Delete(ctx, id); err != nil {
		if err == mongo.ErrNoDocuments {
			return fmt.Errorf(errors.ListingNotFound)
		}
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if !existing.Vendor.IsZero() {
		if err := service.users.RemoveListing(ctx, existing.Vendor, id); err != nil {
			service.logger.WithError(err).Error("detaching listing from vendor")
		}
	}
	return nil
}

// VendorListings returns the caller's own listings regardless of approval
// status, newest first.
func (service *ListingService) VendorListings(ctx context.Context, vendor *domain.User) ([]*domain.Listing, error) {
	ctx, span := service.tracer.Start(ctx, "ListingService.VendorListings")
	defer span.End()

	listings, err := service.listings.GetByVendor(ctx, vendor.ID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if listings == nil {
		listings = []*domain.Listing{}
	}
	return listings, nil
}

// decodePartial maps a decoded JSON object onto the target struct, tolerating
// the float64 numbers encoding/json produces.
func decodePartial(payload map[string]interface{}, target interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           target,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(payload)
}
