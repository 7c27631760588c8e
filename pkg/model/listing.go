package model

import "time"

// Listing is the rental unit being offered. Aggregate availability is never
// stored on the listing; it is projected from the slot documents.
type Listing struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	OwnerID      string    `json:"owner_id" bson:"owner_id" validate:"required"`
	Title        string    `json:"title" bson:"title" validate:"required,min=2,max=120"`
	Address      string    `json:"address" bson:"address" validate:"required,min=5,max=200"`
	City         string    `json:"city" bson:"city" validate:"required,min=2,max=60"`
	Country      string    `json:"country" bson:"country" validate:"omitempty,iso3166_1_alpha2"`
	Latitude     float64   `json:"latitude" bson:"latitude" validate:"omitempty,latitude"`
	Longitude    float64   `json:"longitude" bson:"longitude" validate:"omitempty,longitude"`
	MonthlyPrice int64     `json:"monthly_price" bson:"monthly_price" validate:"required,min=1"`
	Currency     string    `json:"currency" bson:"currency" validate:"omitempty,iso4217"`
	Bedrooms     int       `json:"bedrooms" bson:"bedrooms" validate:"required,min=1,max=20"`
	Bathrooms    int       `json:"bathrooms" bson:"bathrooms" validate:"required,min=1,max=20"`
	Furnished    bool      `json:"furnished" bson:"furnished"`
	LeaseMonths  int       `json:"lease_months" bson:"lease_months" validate:"required,min=1,max=36"`
	Requirements string    `json:"requirements,omitempty" bson:"requirements,omitempty" validate:"omitempty,max=2000"`
	PhotoURLs    []string  `json:"photo_urls,omitempty" bson:"photo_urls,omitempty" validate:"omitempty,max=20,dive,url"`
	ContactPhone string    `json:"contact_phone" bson:"contact_phone" validate:"omitempty,e164"`
	TotalSlots   int       `json:"total_slots" bson:"total_slots" validate:"required,min=1"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// ListingUpdate carries owner-editable content fields. Capacity is immutable
// after creation, so total_slots is deliberately absent.
type ListingUpdate struct {
	Title        string   `json:"title,omitempty" validate:"omitempty,min=2,max=120"`
	Address      string   `json:"address,omitempty" validate:"omitempty,min=5,max=200"`
	City         string   `json:"city,omitempty" validate:"omitempty,min=2,max=60"`
	MonthlyPrice *int64   `json:"monthly_price,omitempty" validate:"omitempty,min=1"`
	Bedrooms     *int     `json:"bedrooms,omitempty" validate:"omitempty,min=1,max=20"`
	Bathrooms    *int     `json:"bathrooms,omitempty" validate:"omitempty,min=1,max=20"`
	Furnished    *bool    `json:"furnished,omitempty"`
	LeaseMonths  *int     `json:"lease_months,omitempty" validate:"omitempty,min=1,max=36"`
	Requirements *string  `json:"requirements,omitempty" validate:"omitempty,max=2000"`
	PhotoURLs    []string `json:"photo_urls,omitempty" validate:"omitempty,max=20,dive,url"`
	ContactPhone string   `json:"contact_phone,omitempty" validate:"omitempty,e164"`
}
