package domain

import (
	"encoding/json"
	"io"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleConsumer Role = "consumer"
	RoleVendor   Role = "vendor"
	RoleAdmin    Role = "admin"
)

type ListingType string

const (
	TypeAccommodation ListingType = "accommodation"
	TypeFood          ListingType = "food"
	TypeGym           ListingType = "gym"
	TypeEssentials    ListingType = "essentials"
)

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

type FullName struct {
	FirstName string `bson:"firstName" json:"firstName" validate:"required"`
	LastName  string `bson:"lastName" json:"lastName" validate:"required"`
}

type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName FullName           `bson:"fullName" json:"fullName"`
	Email    string             `bson:"email" json:"email"`
	// Password holds the bcrypt hash. Never serialized to clients; empty
	// for accounts created through Google sign-in.
	Password   string               `bson:"password,omitempty" json:"-"`
	GoogleID   string               `bson:"googleId,omitempty" json:"googleId,omitempty"`
	Role       Role                 `bson:"role" json:"role"`
	Phone      string               `bson:"phone,omitempty" json:"phone,omitempty"`
	City       string               `bson:"city,omitempty" json:"city,omitempty"`
	SavedItems []primitive.ObjectID `bson:"savedItems,omitempty" json:"savedItems,omitempty"`

	// Vendor-only fields.
	BusinessName        string               `bson:"businessName,omitempty" json:"businessName,omitempty"`
	BusinessType        ListingType          `bson:"businessType,omitempty" json:"businessType,omitempty"`
	BusinessAddress     string               `bson:"businessAddress,omitempty" json:"businessAddress,omitempty"`
	BusinessDescription string               `bson:"businessDescription,omitempty" json:"businessDescription,omitempty"`
	VerificationStatus  VerificationStatus   `bson:"verificationStatus,omitempty" json:"verificationStatus,omitempty"`
	Listings            []primitive.ObjectID `bson:"listings,omitempty" json:"listings,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (user *User) IsVendor() bool {
	return user.Role == RoleVendor
}

type Coordinates struct {
	Latitude  float64 `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude float64 `bson:"longitude,omitempty" json:"longitude,omitempty"`
}

type Location struct {
	Address     string       `bson:"address" json:"address"`
	City        string       `bson:"city" json:"city"`
	Coordinates *Coordinates `bson:"coordinates,omitempty" json:"coordinates,omitempty"`
	// Distance in km, precomputed by the seeding pipeline.
	Distance float64 `bson:"distance,omitempty" json:"distance,omitempty"`
}

type OwnerContact struct {
	Name  string `bson:"name,omitempty" json:"name,omitempty"`
	Phone string `bson:"phone,omitempty" json:"phone,omitempty"`
	Email string `bson:"email,omitempty" json:"email,omitempty"`
}

type AccommodationDetails struct {
	RoomType string `bson:"roomType,omitempty" json:"roomType,omitempty"`
	Capacity int    `bson:"capacity,omitempty" json:"capacity,omitempty"`
	Gender   string `bson:"gender,omitempty" json:"gender,omitempty"`
	Meals    bool   `bson:"meals,omitempty" json:"meals,omitempty"`
}

type FoodDetails struct {
	Cuisine           []string `bson:"cuisine,omitempty" json:"cuisine,omitempty"`
	MealType          []string `bson:"mealType,omitempty" json:"mealType,omitempty"`
	DeliveryAvailable bool     `bson:"deliveryAvailable,omitempty" json:"deliveryAvailable,omitempty"`
}

type GymDetails struct {
	Equipment []string `bson:"equipment,omitempty" json:"equipment,omitempty"`
	Trainers  bool     `bson:"trainers,omitempty" json:"trainers,omitempty"`
	Timings   string   `bson:"timings,omitempty" json:"timings,omitempty"`
}

type EssentialsDetails struct {
	Category    string `bson:"category,omitempty" json:"category,omitempty"`
	ServiceType string `bson:"serviceType,omitempty" json:"serviceType,omitempty"`
}

type Listing struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name" validate:"required"`
	Type        ListingType        `bson:"type" json:"type" validate:"required,oneof=accommodation food gym essentials"`
	Description string             `bson:"description" json:"description" validate:"required"`
	Price       float64            `bson:"price" json:"price" validate:"required,gt=0"`
	Images      []string           `bson:"images,omitempty" json:"images,omitempty"`
	Location    Location           `bson:"location" json:"location"`
	Rating      float64            `bson:"rating" json:"rating"`
	ReviewCount int                `bson:"reviewCount" json:"reviewCount"`
	Amenities   []string           `bson:"amenities,omitempty" json:"amenities,omitempty"`
	// Availability defaults to true; a listing is publicly visible only while
	// it is both available and approved.
	Availability    bool               `bson:"availability" json:"availability"`
	Owner           OwnerContact       `bson:"owner,omitempty" json:"owner,omitempty"`
	ApprovalStatus  ApprovalStatus     `bson:"approvalStatus" json:"approvalStatus"`
	RejectionReason string             `bson:"rejectionReason,omitempty" json:"rejectionReason,omitempty"`
	Vendor          primitive.ObjectID `bson:"vendor,omitempty" json:"vendor,omitempty"`

	AccommodationDetails *AccommodationDetails `bson:"accommodationDetails,omitempty" json:"accommodationDetails,omitempty"`
	FoodDetails          *FoodDetails          `bson:"foodDetails,omitempty" json:"foodDetails,omitempty"`
	GymDetails           *GymDetails           `bson:"gymDetails,omitempty" json:"gymDetails,omitempty"`
	EssentialsDetails    *EssentialsDetails    `bson:"essentialsDetails,omitempty" json:"essentialsDetails,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

type ComboItem struct {
	ListingID primitive.ObjectID `bson:"listing,omitempty" json:"listingId,omitempty"`
	Name      string             `bson:"name,omitempty" json:"name,omitempty"`
	Type      ListingType        `bson:"type,omitempty" json:"type,omitempty"`
	// Listing is resolved on reads; the stored document keeps only the
	// reference plus the name/type snapshot taken at creation.
	Listing *Listing `bson:"-" json:"listing,omitempty"`
}

type ComboLocation struct {
	City string `bson:"city" json:"city"`
	Area string `bson:"area,omitempty" json:"area,omitempty"`
}

type Combo struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title         string             `bson:"title" json:"title" validate:"required"`
	Description   string             `bson:"description" json:"description" validate:"required"`
	Price         float64            `bson:"price" json:"price" validate:"required,gt=0"`
	OriginalPrice float64            `bson:"originalPrice,omitempty" json:"originalPrice,omitempty"`
	// Discount is a percentage.
	Discount     float64       `bson:"discount,omitempty" json:"discount,omitempty"`
	Badge        string        `bson:"badge,omitempty" json:"badge,omitempty"`
	Image        string        `bson:"image,omitempty" json:"image,omitempty"`
	Items        []ComboItem   `bson:"items,omitempty" json:"items,omitempty"`
	Location     ComboLocation `bson:"location" json:"location"`
	Rating       float64       `bson:"rating" json:"rating"`
	ReviewCount  int           `bson:"reviewCount" json:"reviewCount"`
	Availability bool          `bson:"availability" json:"availability"`
	ValidTill    *time.Time    `bson:"validTill,omitempty" json:"validTill,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Review is declared for data-model completeness; no endpoint exposes it.
type Review struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	Listing   primitive.ObjectID `bson:"listing,omitempty" json:"listing,omitempty"`
	Combo     primitive.ObjectID `bson:"combo,omitempty" json:"combo,omitempty"`
	Rating    int                `bson:"rating" json:"rating" validate:"required,min=1,max=5"`
	Comment   string             `bson:"comment,omitempty" json:"comment,omitempty"`
	Helpful   int                `bson:"helpful" json:"helpful"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type Claims struct {
	UserID    primitive.ObjectID `json:"id"`
	Role      Role               `json:"role"`
	ExpiresAt time.Time          `json:"expires_at"`
}

// FromJSON decodes a listing payload. Availability defaults to true when the
// payload leaves it out; an explicit false is kept.
func (listing *Listing) FromJSON(reader io.Reader) error {
	listing.Availability = true
	d := json.NewDecoder(reader)
	return d.Decode(listing)
}

func (listing *Listing) ToJSON(writer io.Writer) error {
	e := json.NewEncoder(writer)
	return e.Encode(listing)
}

// FromJSON decodes a combo payload with the same availability default as
// Listing.FromJSON.
func (combo *Combo) FromJSON(reader io.Reader) error {
	combo.Availability = true
	d := json.NewDecoder(reader)
	return d.Decode(combo)
}

func (combo *Combo) ToJSON(writer io.Writer) error {
	e := json.NewEncoder(writer)
	return e.Encode(combo)
}
