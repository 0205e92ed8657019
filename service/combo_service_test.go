package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/DaneshVerma/CitySettel/domain"
	"github.com/DaneshVerma/CitySettel/errors"
)

func testCombo(items ...domain.ComboItem) *domain.Combo {
	return &domain.Combo{
		Title:        "Student Starter",
		Description:  "Room plus meals for the first month",
		Price:        11000,
		Items:        items,
		Location:     domain.ComboLocation{City: "Pune"},
		Availability: true,
	}
}

func TestCreateComboSnapshotsItemDetails(t *testing.T) {
	combos := newFakeComboStore()
	listings := newFakeListingStore()
	service := NewComboService(combos, listings, testLogger(), testTracer())

	listing, err := listings.Insert(context.Background(), testListing())
	require.NoError(t, err)

	saved, err := service.Create(context.Background(), testCombo(domain.ComboItem{ListingID: listing.ID}))
	require.NoError(t, err)
	require.Len(t, saved.Items, 1)
	assert.Equal(t, listing.Name, saved.Items[0].Name)
	assert.Equal(t, listing.Type, saved.Items[0].Type)
	assert.True(t, saved.Availability)
}

func TestCreateComboToleratesDanglingReference(t *testing.T) {
	combos := newFakeComboStore()
	listings := newFakeListingStore()
	service := NewComboService(combos, listings, testLogger(), testTracer())

	saved, err := service.Create(context.Background(), testCombo(domain.ComboItem{
		ListingID: primitive.NewObjectID(),
		Name:      "Gone Gym",
	}))
	require.NoError(t, err)
	require.Len(t, saved.Items, 1)
	assert.Equal(t, "Gone Gym", saved.Items[0].Name)
}

func TestCombosResolveItemListings(t *testing.T) {
	combos := newFakeComboStore()
	listings := newFakeListingStore()
	service := NewComboService(combos, listings, testLogger(), testTracer())

	listing, err := listings.Insert(context.Background(), testListing())
	require.NoError(t, err)

	_, err = service.Create(context.Background(), testCombo(domain.ComboItem{ListingID: listing.ID}))
	require.NoError(t, err)

	found, _, err := service.Combos(context.Background(), domain.ListingFilter{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.NotNil(t, found[0].Items[0].Listing)
	assert.Equal(t, listing.ID, found[0].Items[0].Listing.ID)
	assert.Equal(t, true, combos.lastQuery["availability"])
}

func TestUpdateComboIgnoresProtectedFields(t *testing.T) {
	combos := newFakeComboStore()
	listings := newFakeListingStore()
	service := NewComboService(combos, listings, testLogger(), testTracer())

	saved, err := service.Create(context.Background(), testCombo())
	require.NoError(t, err)

	updated, err := service.Update(context.Background(), saved.ID, map[string]interface{}{
		"title": "Student Plus",
		"price": float64(12500),
		"_id":   primitive.NewObjectID().Hex(),
	})
	require.NoError(t, err)
	assert.Equal(t, "Student Plus", updated.Title)
	assert.Equal(t, float64(12500), updated.Price)
	assert.Equal(t, saved.ID, updated.ID)
}

func TestUpdateMissingCombo(t *testing.T) {
	combos := newFakeComboStore()
	listings := newFakeListingStore()
	service := NewComboService(combos, listings, testLogger(), testTracer())

	_, err := service.Update(context.Background(), primitive.NewObjectID(), map[string]interface{}{"title": "x"})
	require.Error(t, err)
	assert.Equal(t, errors.ComboNotFound, err.Error())
}

func TestDeleteMissingCombo(t *testing.T) {
	combos := newFakeComboStore()
	listings := newFakeListingStore()
	service := NewComboService(combos, listings, testLogger(), testTracer())

	err := service.Delete(context.Background(), primitive.NewObjectID())
	require.Error(t, err)
	assert.Equal(t, errors.ComboNotFound, err.Error())
}
