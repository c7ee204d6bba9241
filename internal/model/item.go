package model

import (
	"math"
	"time"
)

// FoundItem is a report of an item someone found and photographed.
// Lat and Lng are nil when the stored record lacks a usable coordinate.
type FoundItem struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	ImageURL   string    `json:"image_url,omitempty"`
	Lat        *float64  `json:"lat,omitempty"`
	Lng        *float64  `json:"lng,omitempty"`
	Status     string    `json:"status"`
	ReporterID *int64    `json:"reporter_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Coordinates returns the item's position if both coordinates are present
// and finite.
func (f *FoundItem) Coordinates() (PickedLocation, bool) {
	if f.Lat == nil || f.Lng == nil {
		return PickedLocation{}, false
	}
	loc := PickedLocation{Lat: *f.Lat, Lng: *f.Lng}
	if !loc.Valid() {
		return PickedLocation{}, false
	}
	return loc, true
}

// LostItem is a report of an item someone lost. It has no photo and its
// location is free text.
type LostItem struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Color       string    `json:"color,omitempty"`
	Location    string    `json:"location,omitempty"`
	Status      string    `json:"status"`
	ReporterID  *int64    `json:"reporter_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Item statuses. Reports start open and are never deleted.
const (
	ItemStatusOpen    = "open"
	ItemStatusClaimed = "claimed"
	ItemStatusClosed  = "closed"
)

// ValidItemStatus reports whether s is a known item status.
func ValidItemStatus(s string) bool {
	switch s {
	case ItemStatusOpen, ItemStatusClaimed, ItemStatusClosed:
		return true
	}
	return false
}

// PickedLocation is a coordinate pair chosen on the picker map.
type PickedLocation struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether both coordinates are finite and within WGS 84 range.
func (p PickedLocation) Valid() bool {
	for _, v := range []float64{p.Lat, p.Lng} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}
