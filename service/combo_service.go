package application

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/DaneshVerma/CitySettel/domain"
	"github.com/DaneshVerma/CitySettel/errors"
)

type ComboService struct {
	combos   domain.ComboStore
	listings domain.ListingStore
	logger   *logrus.Logger
	tracer   trace.Tracer
}

func NewComboService(combos domain.ComboStore, listings domain.ListingStore, logger *logrus.Logger, tracer trace.Tracer) *ComboService {
	return &ComboService{
		combos:   combos,
		listings: listings,
		logger:   logger,
		tracer:   tracer,
	}
}

// Combos is the public read path; unavailable combos are filtered out.
func (service *ComboService) Combos(ctx context.Context, filter domain.ListingFilter) ([]*domain.Combo, domain.Pagination, error) {
	ctx, span := service.tracer.Start(ctx, "ComboService.Combos")
	defer span.End()

	query := filter.ComboQuery()

	combos, err := service.combos.GetAll(ctx, query, filter.Sort(), filter.Skip(), filter.Limit)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, domain.Pagination{}, err
	}

	total, err := service.combos.Count(ctx, query)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, domain.Pagination{}, err
	}

	if combos == nil {
		combos = []*domain.Combo{}
	}
	service.resolveItems(ctx, combos)
	return combos, domain.NewPagination(filter.Page, filter.Limit, total), nil
}

func (service *ComboService) Combo(ctx context.Context, id primitive.ObjectID) (*domain.Combo, error) {
	ctx, span := service.tracer.Start(ctx, "ComboService.Combo")
	defer span.End()

	combo, err := service.combos.Get(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf(errors.ComboNotFound)
		}
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	service.resolveItems(ctx, []*domain.Combo{combo})
	return combo, nil
}

// Create persists a combo. Item name/type snapshots missing from the payload
// are taken once from the referenced listings; they are never re-synced.
func (service *ComboService) Create(ctx context.Context, combo *domain.Combo) (*domain.Combo, error) {
	ctx, span := service.tracer.Start(ctx, "ComboService.Create")
	defer span.End()

	for i, item := range combo.Items {
		if item.ListingID.IsZero() || (item.Name != "" && item.Type != "") {
			continue
		}
		listing, err := service.listings.Get(ctx, item.ListingID)
		if err != nil {
			// A dangling reference is tolerated; the snapshot stays as sent.
			continue
		}
		if item.Name == "" {
			combo.Items[i].Name = listing.Name
		}
		if item.Type == "" {
			combo.Items[i].Type = listing.Type
		}
	}

	saved, err := service.combos.Insert(ctx, combo)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return saved, nil
}

func (service *ComboService) Update(ctx context.Context, id primitive.ObjectID, payload map[string]interface{}) (*domain.Combo, error) {
	ctx, span := service.tracer.Start(ctx, "ComboService.Update")
	defer span.End()

	existing, err := service.combos.Get(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf(errors.ComboNotFound)
		}
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	for key := range payload {
		switch key {
		case "id", "_id", "createdAt", "updatedAt":
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

	if err := service.combos.Update(ctx, existing); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return existing, nil
}

func (service *ComboService) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, span := service.tracer.Start(ctx, "ComboService.Delete")
	defer span.End()

	if err := service.combos.Delete(ctx, id); err != nil {
		if err == mongo.ErrNoDocuments {
			return fmt.Errorf(errors.ComboNotFound)
		}
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// resolveItems dereferences item listings for display. A combo keeps its
// snapshot when the referenced listing has been deleted since.
func (service *ComboService) resolveItems(ctx context.Context, combos []*domain.Combo) {
	ids := make([]primitive.ObjectID, 0)
	for _, combo := range combos {
		for _, item := range combo.Items {
			if !item.ListingID.IsZero() {
				ids = append(ids, item.ListingID)
			}
		}
	}
	if len(ids) == 0 {
		return
	}

	listings, err := service.listings.GetMany(ctx, ids)
	if err != nil {
		service.logger.WithError(err).Error("resolving combo items")
		return
	}

	byID := make(map[primitive.ObjectID]*domain.Listing, len(listings))
	for _, listing := range listings {
		byID[listing.ID] = listing
	}

	for _, combo := range combos {
		for i, item := range combo.Items {
			if listing, ok := byID[item.ListingID]; ok {
				combo.Items[i].Listing = listing
			}
		}
	}
}
