package models

import "time"

// AvailableSlot is a free [Start, End) interval.
type AvailableSlot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ProviderSlots groups the free slots of one provider.
type ProviderSlots struct {
	ProviderID     string          `json:"providerId"`
	ProviderName   string          `json:"providerName"`
	DistanceKm     float64         `json:"distanceKm"`
	AvailableSlots []AvailableSlot `json:"availableSlots"`
}

// SlotSearch is the input of a slot listing.
type SlotSearch struct {
	ProviderIDs   []string `form:"providerIds" json:"providerIds,omitempty"`
	SubCategoryID string   `form:"subCategoryId" json:"subCategoryId,omitempty"`
	ServiceID     string   `form:"serviceId" json:"serviceId,omitempty"`
	Lat           float64  `form:"lat" json:"lat"`
	Lng           float64  `form:"lng" json:"lng"`
	RadiusKm      float64  `form:"radiusKm" json:"radiusKm"`
	DateFrom      string   `form:"from" json:"from" binding:"required"`
	DateTo        string   `form:"to" json:"to" binding:"required"`
}

// SlotCheck asks which providers are free at one date and time.
type SlotCheck struct {
	ProviderIDs []string `json:"providerIds" binding:"required"`
	Date        string   `json:"date" binding:"required"`
	Time        string   `json:"time" binding:"required"`
	ServiceID   string   `json:"serviceId,omitempty"`
}
