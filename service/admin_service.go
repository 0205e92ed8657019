package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/DaneshVerma/CitySettel/domain"
	"github.com/DaneshVerma/CitySettel/errors"
)

const recentActivityWindow = 7 * 24 * time.Hour

type AdminService struct {
	listings domain.ListingStore
	users    domain.UserStore
	logger   *logrus.Logger
	tracer   trace.Tracer
}

func NewAdminService(listings domain.ListingStore, users domain.UserStore, logger *logrus.Logger, tracer trace.Tracer) *AdminService {
	return &AdminService{
		listings: listings,
		users:    users,
		logger:   logger,
		tracer:   tracer,
	}
}

type ListingStats struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
}

type VendorStats struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Verified int64 `json:"verified"`
	Rejected int64 `json:"rejected"`
}

type ConsumerStats struct {
	Total int64 `json:"total"`
}

type RecentActivity struct {
	NewListings int64 `json:"newListings"`
	NewVendors  int64 `json:"newVendors"`
}

type DashboardStats struct {
	Listings       ListingStats   `json:"listings"`
	Vendors        VendorStats    `json:"vendors"`
	Consumers      ConsumerStats  `json:"consumers"`
	RecentActivity RecentActivity `json:"recentActivity"`
}

// PendingListings returns the approval queue, newest first.
func (service *AdminService) PendingListings(ctx context.Context, page, limit int64) ([]*domain.Listing, domain.Pagination, error) {
	ctx, span := service.tracer.Start(ctx, "AdminService.PendingListings")
	defer span.End()

	query := bson.M{"approvalStatus": domain.ApprovalPending}
	sort := bson.D{{Key: "createdAt", Value: -1}}

	listings, err := service.listings.GetAll(ctx, query, sort, (page-1)*limit, limit)
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
	return listings, domain.NewPagination(page, limit, total), nil
}

// AllListings is the admin view: any approval status, with the aggregate
// stats block computed alongside the page.
func (service *AdminService) AllListings(ctx context.Context, filter domain.AdminListingFilter) ([]*domain.Listing, ListingStats, domain.Pagination, error) {
	ctx, span := service.tracer.Start(ctx, "AdminService.AllListings")
	defer span.End()

	query := filter.Query()

	listings, err := service.listings.GetAll(ctx, query, filter.Sort(), filter.Skip(), filter.Limit)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, ListingStats{}, domain.Pagination{}, err
	}

	total, err := service.listings.Count(ctx, query)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, ListingStats{}, domain.Pagination{}, err
	}

	stats, err := service.listingStats(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, ListingStats{}, domain.Pagination{}, err
	}

	if listings == nil {
		listings = []*domain.Listing{}
	}
	return listings, stats, domain.NewPagination(filter.Page, filter.Limit, total), nil
}

// ApproveListing makes the listing publicly visible and clears any previous
// rejection reason.
func (service *AdminService) ApproveListing(ctx context.Context, id primitive.ObjectID) (*domain.Listing, error) {
	ctx, span := service.tracer.Start(ctx, "AdminService.ApproveListing")
	defer span.End()

	listing, err := service.listings.Get(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf(errors.ListingNotFound)
		}
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	listing.ApprovalStatus = domain.ApprovalApproved
	listing.RejectionReason = ""

	if err := service.listings.Update(ctx, listing); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	service.logger.WithField("listing", id.Hex()).Info("listing approved")
	return listing, nil
}

// RejectListing requires a non-empty reason and stores it with the listing.
func (service *AdminService) RejectListing(ctx context.Context, id primitive.ObjectID, reason string) (*domain.Listing, error) {
	ctx, span := service.tracer.Start(ctx, "AdminService.RejectListing")
	defer span.End()

	if strings.TrimSpace(reason) == "" {
		return nil, fmt.Errorf(errors.RejectionReasonMissing)
	}

	listing, err := service.listings.Get(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf(errors.ListingNotFound)
		}
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	listing.ApprovalStatus = domain.ApprovalRejected
	listing.RejectionReason = reason

	if err := service.listings.Update(ctx, listing); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	service.logger.WithField("listing", id.Hex()).Info("listing rejected")
	return listing, nil
}

// Vendors lists vendor identities, optionally narrowed by verification
// status, with the aggregate stats block.
func (service *AdminService) Vendors(ctx context.Context, status domain.VerificationStatus, page, limit int64) ([]*domain.User, VendorStats, domain.Pagination, error) {
	ctx, span := service.tracer.Start(ctx, "AdminService.Vendors")
	defer span.End()

	vendors, err := service.users.GetVendors(ctx, status, (page-1)*limit, limit)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, VendorStats{}, domain.Pagination{}, err
	}

	total, err := service.users.CountVendors(ctx, status)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, VendorStats{}, domain.Pagination{}, err
	}

	stats, err := service.vendorStats(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, VendorStats{}, domain.Pagination{}, err
	}

	if vendors == nil {
		vendors = []*domain.User{}
	}
	return vendors, stats, domain.NewPagination(page, limit, total), nil
}

func (service *AdminService) VerifyVendor(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	return service.setVendorStatus(ctx, "AdminService.VerifyVendor", id, domain.VerificationVerified)
}

func (service *AdminService) RejectVendor(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	return service.setVendorStatus(ctx, "AdminService.RejectVendor", id, domain.VerificationRejected)
}

func (service *AdminService) setVendorStatus(ctx context.Context, spanName string, id primitive.ObjectID, status domain.VerificationStatus) (*domain.User, error) {
	ctx, span := service.tracer.Start(ctx, spanName)
	defer span.End()

	vendor, err := service.users.GetVendor(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf(errors.VendorNotFound)
		}
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	vendor.VerificationStatus = status
	if err := service.users.Update(ctx, vendor); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	service.logger.WithFields(logrus.Fields{"vendor": id.Hex(), "status": status}).Info("vendor verification updated")
	return vendor, nil
}

// Stats assembles the admin dashboard aggregates, including the 7-day
// rolling counts of new listings and vendors.
func (service *AdminService) Stats(ctx context.Context) (*DashboardStats, error) {
	ctx, span := service.tracer.Start(ctx, "AdminService.Stats")
	defer span.End()

	listingStats, err := service.listingStats(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	vendorStats, err := service.vendorStats(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	consumers, err := service.users.CountByRole(ctx, domain.RoleConsumer)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	since := time.Now().Add(-recentActivityWindow)
	newListings, err := service.listings.CountCreatedSince(ctx, since)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	newVendors, err := service.users.CountVendorsCreatedSince(ctx, since)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	return &DashboardStats{
		Listings:  listingStats,
		Vendors:   vendorStats,
		Consumers: ConsumerStats{Total: consumers},
		RecentActivity: RecentActivity{
			NewListings: newListings,
			NewVendors:  newVendors,
		},
	}, nil
}

func (service *AdminService) listingStats(ctx context.Context) (ListingStats, error) {
	total, err := service.listings.Count(ctx, nil)
	if err != nil {
		return ListingStats{}, err
	}
	pending, err := service.listings.CountByStatus(ctx, domain.ApprovalPending)
	if err != nil {
		return ListingStats{}, err
	}
	approved, err := service.listings.CountByStatus(ctx, domain.ApprovalApproved)
	if err != nil {
		return ListingStats{}, err
	}
	rejected, err := service.listings.CountByStatus(ctx, domain.ApprovalRejected)
	if err != nil {
		return ListingStats{}, err
	}
	return ListingStats{Total: total, Pending: pending, Approved: approved, Rejected: rejected}, nil
}

func (service *AdminService) vendorStats(ctx context.Context) (VendorStats, error) {
	total, err := service.users.CountVendors(ctx, "")
	if err != nil {
		return VendorStats{}, err
	}
	pending, err := service.users.CountVendors(ctx, domain.VerificationPending)
	if err != nil {
		return VendorStats{}, err
	}
	verified, err := service.users.CountVendors(ctx, domain.VerificationVerified)
	if err != nil {
		return VendorStats{}, err
	}
	rejected, err := service.users.CountVendors(ctx, domain.VerificationRejected)
	if err != nil {
		return VendorStats{}, err
	}
	return VendorStats{Total: total, Pending: pending, Verified: verified, Rejected: rejected}, nil
}
