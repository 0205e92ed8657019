package domain

import (
	"encoding/json"
	"io"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type SignupRequest struct {
	FullName FullName `json:"fullName"`
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required,min=6"`
	Phone    string   `json:"phone"`
	City     string   `json:"city"`
	Role     Role     `json:"role" validate:"omitempty,oneof=consumer vendor"`

	BusinessName        string      `json:"businessName"`
	BusinessType        ListingType `json:"businessType" validate:"omitempty,oneof=accommodation food gym essentials"`
	BusinessAddress     string      `json:"businessAddress"`
	BusinessDescription string      `json:"businessDescription"`
}

func (request *SignupRequest) Validate() error {
	if err := validate.Struct(request); err != nil {
		return err
	}
	return validate.Struct(&request.FullName)
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (request *LoginRequest) Validate() error {
	return validate.Struct(request)
}

// FederatedProfile is the opaque shape handed back by the sign-in provider.
type FederatedProfile struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	GivenName  string `json:"givenName"`
	FamilyName string `json:"familyName"`
}

type SaveListingRequest struct {
	ListingID string `json:"listingId" validate:"required"`
}

type RejectListingRequest struct {
	Reason string `json:"reason"`
}

func (listing *Listing) Validate() error {
	if err := validate.Struct(listing); err != nil {
		return err
	}
	if listing.Location.Address == "" || listing.Location.City == "" {
		return validate.Var("", "required")
	}
	return nil
}

func (combo *Combo) Validate() error {
	if err := validate.Struct(combo); err != nil {
		return err
	}
	if combo.Location.City == "" {
		return validate.Var("", "required")
	}
	return nil
}

func (request *SignupRequest) FromJSON(reader io.Reader) error {
	d := json.NewDecoder(reader)
	return d.Decode(request)
}

func (request *LoginRequest) FromJSON(reader io.Reader) error {
	d := json.NewDecoder(reader)
	return d.Decode(request)
}
