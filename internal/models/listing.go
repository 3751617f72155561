package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ListingTypeSale = "sale"
	ListingTypeRent = "rent"

	MaxListingImages    = 6
	DefaultPropertyType = "House"

	SortCreatedAt    = "createdAt"
	SortRegularPrice = "regularPrice"
	OrderAsc         = "asc"
	OrderDesc        = "desc"

	DefaultSearchLimit = 9
	MaxSearchLimit     = 100
)

var ErrDiscountAboveRegular = errors.New("discountPrice must not exceed regularPrice")

type Listing struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string             `bson:"name" json:"name" validate:"required,max=120"`
	Description   string             `bson:"description" json:"description" validate:"required,max=5000"`
	Address       string             `bson:"address" json:"address" validate:"required,max=300"`
	Type          string             `bson:"type" json:"type" validate:"required,oneof=sale rent"`
	Parking       bool               `bson:"parking" json:"parking"`
	Furnished     bool               `bson:"furnished" json:"furnished"`
	Offer         bool               `bson:"offer" json:"offer"`
	Bedrooms      int                `bson:"bedrooms" json:"bedrooms" validate:"gte=1,lte=100"`
	Bathrooms     int                `bson:"bathrooms" json:"bathrooms" validate:"gte=1,lte=100"`
	RegularPrice  float64            `bson:"regularPrice" json:"regularPrice" validate:"gt=0"`
	DiscountPrice float64            `bson:"discountPrice" json:"discountPrice" validate:"gte=0"`
	Area          float64            `bson:"area" json:"area" validate:"gte=0"`
	YearBuilt     int                `bson:"yearBuilt,omitempty" json:"yearBuilt,omitempty" validate:"omitempty,gte=1800,lte=2100"`
	PropertyType  string             `bson:"propertyType" json:"propertyType" validate:"max=60"`
	Amenities     string             `bson:"amenities" json:"amenities" validate:"max=2000"`
	ImageUrls     []string           `bson:"imageUrls" json:"imageUrls" validate:"min=1,max=6,dive,required,url"`
	UserRef       primitive.ObjectID `bson:"userRef" json:"userRef"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Normalize trims text fields, applies defaults and clears the discount of
// listings without an offer.
func (l *Listing) Normalize() {
	l.Name = strings.TrimSpace(l.Name)
	l.Description = strings.TrimSpace(l.Description)
	l.Address = strings.TrimSpace(l.Address)
	l.Type = strings.ToLower(strings.TrimSpace(l.Type))
	l.PropertyType = strings.TrimSpace(l.PropertyType)
	l.Amenities = strings.TrimSpace(l.Amenities)
	if l.PropertyType == "" {
		l.PropertyType = DefaultPropertyType
	}
	if !l.Offer {
		l.DiscountPrice = 0
	}

	urls := make([]string, 0, len(l.ImageUrls))
	for _, u := range l.ImageUrls {
		urls = append(urls, strings.TrimSpace(u))
	}
	l.ImageUrls = urls
}

func (l *Listing) Validate() error {
	if err := Validate.Struct(l); err != nil {
		return err
	}
	if l.Offer && l.DiscountPrice > l.RegularPrice {
		return ErrDiscountAboveRegular
	}
	return nil
}

func (l *Listing) CoverImage() string {
	if len(l.ImageUrls) == 0 {
		return ""
	}
	return l.ImageUrls[0]
}

// ListingDraft is the client payload for a new listing. Ownership and
// timestamps are assigned by the server.
type ListingDraft struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Address       string   `json:"address"`
	Type          string   `json:"type"`
	Parking       bool     `json:"parking"`
	Furnished     bool     `json:"furnished"`
	Offer         bool     `json:"offer"`
	Bedrooms      int      `json:"bedrooms"`
	Bathrooms     int      `json:"bathrooms"`
	RegularPrice  float64  `json:"regularPrice"`
	DiscountPrice float64  `json:"discountPrice"`
	Area          float64  `json:"area"`
	YearBuilt     int      `json:"yearBuilt"`
	PropertyType  string   `json:"propertyType"`
	Amenities     string   `json:"amenities"`
	ImageUrls     []string `json:"imageUrls"`
}

func (d *ListingDraft) ToListing(owner primitive.ObjectID, now time.Time) *Listing {
	l := &Listing{
		ID:            primitive.NewObjectID(),
		Name:          d.Name,
		Description:   d.Description,
		Address:       d.Address,
		Type:          d.Type,
		Parking:       d.Parking,
		Furnished:     d.Furnished,
		Offer:         d.Offer,
		Bedrooms:      d.Bedrooms,
		Bathrooms:     d.Bathrooms,
		RegularPrice:  d.RegularPrice,
		DiscountPrice: d.DiscountPrice,
		Area:          d.Area,
		YearBuilt:     d.YearBuilt,
		PropertyType:  d.PropertyType,
		Amenities:     d.Amenities,
		ImageUrls:     append([]string(nil), d.ImageUrls...),
		UserRef:       owner,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	l.Normalize()
	return l
}

// ListingPatch holds optional changes to a listing. A nil ImageUrls leaves
// the images as they are; an empty one is rejected by validation.
type ListingPatch struct {
	Name          *string   `json:"name,omitempty"`
	Description   *string   `json:"description,omitempty"`
	Address       *string   `json:"address,omitempty"`
	Type          *string   `json:"type,omitempty"`
	Parking       *bool     `json:"parking,omitempty"`
	Furnished     *bool     `json:"furnished,omitempty"`
	Offer         *bool     `json:"offer,omitempty"`
	Bedrooms      *int      `json:"bedrooms,omitempty"`
	Bathrooms     *int      `json:"bathrooms,omitempty"`
	RegularPrice  *float64  `json:"regularPrice,omitempty"`
	DiscountPrice *float64  `json:"discountPrice,omitempty"`
	Area          *float64  `json:"area,omitempty"`
	YearBuilt     *int      `json:"yearBuilt,omitempty"`
	PropertyType  *string   `json:"propertyType,omitempty"`
	Amenities     *string   `json:"amenities,omitempty"`
	ImageUrls     *[]string `json:"imageUrls,omitempty"`
}

// ApplyTo returns a copy of l with the patch merged in. The owner, id and
// creation time never change.
func (p *ListingPatch) ApplyTo(l *Listing, now time.Time) *Listing {
	out := *l
	out.ImageUrls = append([]string(nil), l.ImageUrls...)

	setValue(&out.Name, p.Name)
	setValue(&out.Description, p.Description)
	setValue(&out.Address, p.Address)
	setValue(&out.Type, p.Type)
	setValue(&out.PropertyType, p.PropertyType)
	setValue(&out.Amenities, p.Amenities)
	setValue(&out.Parking, p.Parking)
	setValue(&out.Furnished, p.Furnished)
	setValue(&out.Offer, p.Offer)
	setValue(&out.Bedrooms, p.Bedrooms)
	setValue(&out.Bathrooms, p.Bathrooms)
	setValue(&out.RegularPrice, p.RegularPrice)
	setValue(&out.DiscountPrice, p.DiscountPrice)
	setValue(&out.Area, p.Area)
	setValue(&out.YearBuilt, p.YearBuilt)
	if p.ImageUrls != nil {
		out.ImageUrls = append([]string(nil), (*p.ImageUrls)...)
	}

	out.UpdatedAt = now
	out.Normalize()
	return &out
}

func setValue[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// ListingQuery is the set of search filters accepted by the listing search.
// Boolean flags only narrow the result when true.
type ListingQuery struct {
	SearchTerm string
	Type       string
	Parking    bool
	Furnished  bool
	Offer      bool
	MinPrice   *float64
	MaxPrice   *float64
	UserRef    *primitive.ObjectID
	Sort       string
	Order      string
	Limit      int
	Offset     int
}

// Normalize applies defaults and rejects values the search cannot honour.
func (q *ListingQuery) Normalize() error {
	q.SearchTerm = strings.TrimSpace(q.SearchTerm)

	switch t := strings.ToLower(strings.TrimSpace(q.Type)); t {
	case "", "all":
		q.Type = ""
	case ListingTypeSale, ListingTypeRent:
		q.Type = t
	default:
		return fmt.Errorf("type must be one of sale, rent, all")
	}

	switch strings.TrimSpace(q.Sort) {
	case "", SortCreatedAt, "created_at":
		q.Sort = SortCreatedAt
	case SortRegularPrice:
		q.Sort = SortRegularPrice
	default:
		return fmt.Errorf("sort must be one of createdAt, regularPrice")
	}

	switch o := strings.ToLower(strings.TrimSpace(q.Order)); o {
	case "":
		q.Order = OrderDesc
	case OrderAsc, OrderDesc:
		q.Order = o
	default:
		return fmt.Errorf("order must be one of asc, desc")
	}

	if q.Limit <= 0 {
		q.Limit = DefaultSearchLimit
	}
	if q.Limit > MaxSearchLimit {
		q.Limit = MaxSearchLimit
	}
	if q.Offset < 0 {
		return fmt.Errorf("offset must not be negative")
	}
	if q.MinPrice != nil && *q.MinPrice < 0 {
		return fmt.Errorf("minPrice must not be negative")
	}
	if q.MinPrice != nil && q.MaxPrice != nil && *q.MinPrice > *q.MaxPrice {
		return fmt.Errorf("minPrice must not exceed maxPrice")
	}
	return nil
}
