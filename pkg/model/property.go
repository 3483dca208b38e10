package model

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

const (
	PropertyAvailable  = "available"
	PropertyUnderOffer = "under-offer"
	PropertySold       = "sold"
	PropertyRented     = "rented"
	PropertyOffMarket  = "off-market"
)

var PropertyStatuses = []string{PropertyAvailable, PropertyUnderOffer, PropertySold, PropertyRented, PropertyOffMarket}

// NormalizePropertyStatus lower-cases and hyphenates free text so
// "Under Offer" and "under_offer" are stored the same way.
func NormalizePropertyStatus(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", "-", "_", "-").Replace(s)
	return s
}

func IsPropertyStatus(s string) bool {
	for _, status := range PropertyStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type Property struct {
	ID          string                      `json:"id,omitempty" bson:"_id,omitempty" gorm:"primaryKey;size:24" validate:"omitempty,mongodb"`
	PropertyNo  string                      `json:"property_no" bson:"property_no" gorm:"size:36;uniqueIndex;not null" validate:"omitempty,uuid4"`
	Title       string                      `json:"title" bson:"title" gorm:"size:200;not null" validate:"required,min=2,max=200"`
	Description string                      `json:"description,omitempty" bson:"description,omitempty" gorm:"type:text" validate:"max=5000"`
	Type        string                      `json:"type" bson:"type" gorm:"size:50;not null" validate:"required,min=2,max=50"`
	Price       float64                     `json:"price" bson:"price" validate:"gte=0"`
	Bedrooms    int                         `json:"bedrooms" bson:"bedrooms" validate:"gte=0,lte=100"`
	Bathrooms   int                         `json:"bathrooms" bson:"bathrooms" validate:"gte=0,lte=100"`
	Area        float64                     `json:"area" bson:"area" validate:"gte=0"`
	Floors      int                         `json:"floors" bson:"floors" validate:"gte=0,lte=200"`
	Address     string                      `json:"address" bson:"address" gorm:"size:200;not null" validate:"required,min=2,max=200"`
	City        string                      `json:"city" bson:"city" gorm:"size:100;not null;index" validate:"required,min=2,max=100"`
	State       string                      `json:"state,omitempty" bson:"state,omitempty" gorm:"size:100" validate:"max=100"`
	ZipCode     string                      `json:"zip_code,omitempty" bson:"zip_code,omitempty" gorm:"size:20" validate:"max=20"`
	Status      string                      `json:"status" bson:"status" gorm:"size:20;not null;index" validate:"required,property_status"`
	OwnerID     *string                     `json:"owner_id,omitempty" bson:"owner_id,omitempty" gorm:"size:24;index" validate:"omitempty,mongodb"`
	AgentID     *string                     `json:"agent_id,omitempty" bson:"agent_id,omitempty" gorm:"size:24;index" validate:"omitempty,mongodb"`
	Amenities   datatypes.JSONSlice[string] `json:"amenities" bson:"amenities" validate:"max=50,dive,min=1,max=100"`
	ListedAt    *time.Time                  `json:"listed_at,omitempty" bson:"listed_at,omitempty"`
	CreatedAt   time.Time                   `json:"created_at" bson:"created_at"`
	UpdatedAt   *time.Time                  `json:"updated_at,omitempty" bson:"updated_at,omitempty" gorm:"autoUpdateTime:false"`

	Images []PropertyImage `json:"images,omitempty" bson:"-" gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE" validate:"omitempty,dive"`
	Videos []PropertyVideo `json:"videos,omitempty" bson:"-" gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE" validate:"omitempty,dive"`
	Owner  *Client         `json:"owner,omitempty" bson:"-" gorm:"foreignKey:OwnerID" validate:"-"`
	Agent  *Agent          `json:"agent,omitempty" bson:"-" gorm:"foreignKey:AgentID" validate:"-"`

	// Dependents removed together with the property; never serialised.
	Schedules []Schedule `json:"-" bson:"-" gorm:"foreignKey:PropertyID" validate:"-"`
	Wishlists []Wishlist `json:"-" bson:"-" gorm:"foreignKey:PropertyID" validate:"-"`
}

type PropertyImage struct {
	ID         string    `json:"id,omitempty" bson:"_id,omitempty" gorm:"primaryKey;size:24"`
	PropertyID string    `json:"property_id" bson:"property_id" gorm:"size:24;not null;index"`
	URL        string    `json:"url" bson:"url" gorm:"size:2048;not null" validate:"required,url,max=2048"`
	Caption    string    `json:"caption,omitempty" bson:"caption,omitempty" gorm:"size:200" validate:"max=200"`
	IsPrimary  bool      `json:"is_primary" bson:"is_primary"`
	SortOrder  int       `json:"sort_order" bson:"sort_order" validate:"gte=0"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}

type PropertyVideo struct {
	ID              string    `json:"id,omitempty" bson:"_id,omitempty" gorm:"primaryKey;size:24"`
	PropertyID      string    `json:"property_id" bson:"property_id" gorm:"size:24;not null;index"`
	URL             string    `json:"url" bson:"url" gorm:"size:2048;not null" validate:"required,url,max=2048"`
	Title           string    `json:"title,omitempty" bson:"title,omitempty" gorm:"size:200" validate:"max=200"`
	DurationSeconds int       `json:"duration_seconds,omitempty" bson:"duration_seconds,omitempty" validate:"gte=0"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at"`
}

// PropertyCascade counts the rows removed by a property delete.
type PropertyCascade struct {
	Images    int64 `json:"images"`
	Videos    int64 `json:"videos"`
	Schedules int64 `json:"schedules"`
	Wishlists int64 `json:"wishlists"`
	Property  int64 `json:"property"`
}

func (c PropertyCascade) Total() int64 {
	return c.Images + c.Videos + c.Schedules + c.Wishlists + c.Property
}
