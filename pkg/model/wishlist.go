package model

import "time"

type Wishlist struct {
	ID         string    `json:"id,omitempty" bson:"_id,omitempty" gorm:"primaryKey;size:24" validate:"omitempty,mongodb"`
	WishlistNo string    `json:"wishlist_no" bson:"wishlist_no" gorm:"size:36;uniqueIndex;not null" validate:"omitempty,uuid4"`
	ClientID   string    `json:"client_id" bson:"client_id" gorm:"size:24;not null;uniqueIndex:idx_wishlists_client_property,priority:1" validate:"required,mongodb"`
	PropertyID string    `json:"property_id" bson:"property_id" gorm:"size:24;not null;uniqueIndex:idx_wishlists_client_property,priority:2" validate:"required,mongodb"`
	AddedDate  time.Time `json:"added_date" bson:"added_date"`
	Notes      string    `json:"notes,omitempty" bson:"notes,omitempty" gorm:"size:500" validate:"max=500"`
}
