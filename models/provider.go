package models

import (
	"time"
)

// GeoPoint represents a GeoJSON Point.
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`               // Always "Point"
	Coordinates []float64 `bson:"coordinates" json:"coordinates"` // [longitude, latitude]
}

// NewGeoPoint builds a GeoJSON point from a latitude/longitude pair.
func NewGeoPoint(lat, lng float64) GeoPoint {
	return GeoPoint{Type: "Point", Coordinates: []float64{lng, lat}}
}

// LatLng returns the point as (lat, lng); ok is false for malformed points.
func (g GeoPoint) LatLng() (lat, lng float64, ok bool) {
	if len(g.Coordinates) < 2 {
		return 0, 0, false
	}
	return g.Coordinates[1], g.Coordinates[0], true
}

const (
	ProviderStatusActive   = "active"
	ProviderStatusInactive = "inactive"
)

type Profile struct {
	ProviderName string   `bson:"providerName" json:"providerName,omitempty"`
	Email        string   `bson:"email" json:"email,omitempty"`
	PhoneNumber  string   `bson:"phoneNumber" json:"phoneNumber,omitempty"`
	Status       string   `bson:"status" json:"status,omitempty"`
	Verified     bool     `bson:"verified" json:"verified"`
	Address      string   `bson:"address" json:"address,omitempty"`
	Rating       float64  `bson:"rating" json:"rating,omitempty"`
	LocationGeo  GeoPoint `bson:"locationGeo" json:"locationGeo"`
}

type Provider struct {
	ID             string       `bson:"id" json:"id,omitempty"`
	Profile        Profile      `bson:"profile" json:"profile"`
	SubCategoryIDs []string     `bson:"subCategoryIds" json:"subCategoryIds,omitempty"`
	Availability   Availability `bson:"availability" json:"availability"`
	FCMToken       string       `bson:"fcmToken,omitempty" json:"-"`
	CreatedAt      time.Time    `bson:"createdAt" json:"createdAt,omitzero"`
	UpdatedAt      time.Time    `bson:"updatedAt" json:"updatedAt,omitzero"`
}
