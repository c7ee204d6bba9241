// Package mapview builds the one-shot snapshot of found items shown on
// the map page.
package mapview

import "github.com/erazemk/lostfound/internal/model"

// Pin is a found item with a usable position.
type Pin struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	ImageURL string  `json:"image_url,omitempty"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
}

// Snapshot is what the map renders.
type Snapshot struct {
	Pins   []Pin                `json:"pins"`
	Center model.PickedLocation `json:"center"`
	Zoom   int                  `json:"zoom"`
	// Skipped counts items left off the map for lacking coordinates.
	Skipped int `json:"skipped"`
}

// Build keeps the items whose coordinates are both present and finite,
// in input order. The map centers on the first of them, or on fallback
// when there are none.
func Build(items []model.FoundItem, fallback model.PickedLocation, zoom int) Snapshot {
	s := Snapshot{Pins: []Pin{}, Center: fallback, Zoom: zoom}
	for i := range items {
		loc, ok := items[i].Coordinates()
		if !ok {
			s.Skipped++
			continue
		}
		s.Pins = append(s.Pins, Pin{
			ID:       items[i].ID,
			Name:     items[i].Name,
			ImageURL: items[i].ImageURL,
			Lat:      loc.Lat,
			Lng:      loc.Lng,
		})
	}
	if len(s.Pins) > 0 {
		s.Center = model.PickedLocation{Lat: s.Pins[0].Lat, Lng: s.Pins[0].Lng}
	}
	return s
}
