package model

import (
	"math"
	"testing"
)

func ptr(f float64) *float64 { return &f }

func TestFoundItemCoordinates(t *testing.T) {
	tests := []struct {
		name string
		lat  *float64
		lng  *float64
		ok   bool
	}{
		{"both present", ptr(52.48), ptr(-1.89), true},
		{"zero is a coordinate", ptr(0), ptr(0), true},
		{"missing lat", nil, ptr(1), false},
		{"missing lng", ptr(1), nil, false},
		{"nan", ptr(math.NaN()), ptr(1), false},
		{"inf", ptr(1), ptr(math.Inf(1)), false},
		{"out of range", ptr(91), ptr(0), false},
	}

	for _, tt := range tests {
		item := FoundItem{Lat: tt.lat, Lng: tt.lng}
		_, ok := item.Coordinates()
		if ok != tt.ok {
			t.Errorf("%s: Coordinates() ok = %v, want %v", tt.name, ok, tt.ok)
		}
	}
}

func TestValidItemStatus(t *testing.T) {
	for _, s := range []string{ItemStatusOpen, ItemStatusClaimed, ItemStatusClosed} {
		if !ValidItemStatus(s) {
			t.Errorf("expected %q to be valid", s)
		}
	}
	if ValidItemStatus("deleted") {
		t.Error("expected 'deleted' to be invalid")
	}
}

func TestVerdictTop(t *testing.T) {
	var nilVerdict *Verdict
	if _, ok := nilVerdict.Top(); ok {
		t.Error("nil verdict should have no top candidate")
	}

	v := &Verdict{Decision: DecisionMatch}
	if _, ok := v.Top(); ok {
		t.Error("empty candidate list should have no top candidate")
	}

	v.Candidates = []Candidate{{Text: "Black wallet", ClipScore: 0.91}, {Text: "Red scarf", ClipScore: 0.4}}
	top, ok := v.Top()
	if !ok || top.Text != "Black wallet" {
		t.Errorf("expected first candidate, got %+v", top)
	}
}

func TestDecisionKnown(t *testing.T) {
	if !DecisionNeedsReview.Known() {
		t.Error("needs_review should be known")
	}
	if Decision("maybe").Known() {
		t.Error("maybe should not be known")
	}
	if Decision("").Known() {
		t.Error("empty decision should not be known")
	}
}
