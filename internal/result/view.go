// Package result turns a matching verdict into what the match page shows.
//
// Only the decision is assumed present. Candidate order is taken as given,
// and the optional lookups of the stored reports never hold up the verdict.
package result

import (
	"context"
	"log/slog"

	"github.com/erazemk/lostfound/internal/model"
)

// State selects the page layout.
type State string

const (
	StateEmpty   State = "empty"
	StateMatch   State = "match"
	StateReview  State = "review"
	StateNoMatch State = "no_match"
)

// Placeholders shown when a stored report could not be loaded.
const (
	NoImage       = "No image"
	NoDescription = "No description available."
)

// View is everything the match page renders.
type View struct {
	State State
	// Decision is the raw decision string, kept even when unrecognised.
	Decision string
	Title    string
	Subtitle string
	Badge    string

	GivenID    string
	Confidence *float64
	Reasons    []string

	// Top is set for a match with at least one candidate.
	Top *model.Candidate
	// Candidates is the service's ranked list, set for needs_review.
	Candidates []model.Candidate

	// Found and Lost are nil unless the decision calls for them.
	Found *Panel
	Lost  *Panel

	// HomeAction is the single recovery action of the empty state.
	HomeAction string
}

// HasCandidatePanel reports whether any candidate detail is shown.
func (v View) HasCandidatePanel() bool {
	return v.Top != nil || len(v.Candidates) > 0
}

// Panel is a stored report shown beside the verdict.
type Panel struct {
	ID          string
	Name        string
	Image       string
	Description string
	// Loaded is false when the lookup failed or found nothing and the
	// placeholders are in use.
	Loaded bool
}

// Lookup fetches stored reports by id. A nil result with a nil error
// means the id is unknown.
type Lookup interface {
	FoundItem(ctx context.Context, id string) (*model.FoundItem, error)
	LostItem(ctx context.Context, id string) (*model.LostItem, error)
}

// Build renders v. A nil verdict or one without a decision yields the
// empty state and performs no lookups.
func Build(ctx context.Context, v *model.Verdict, lookup Lookup) View {
	if v == nil || v.Decision == "" {
		return View{
			State:      StateEmpty,
			Title:      "No match data",
			Subtitle:   "There is no match result to show. Submit a found item to get one.",
			HomeAction: "/",
		}
	}

	view := View{
		Decision:   string(v.Decision),
		GivenID:    v.GivenID,
		Confidence: v.Confidence,
		Reasons:    v.Reasons,
	}

	switch v.Decision {
	case model.DecisionMatch:
		view.State = StateMatch
		view.Title = "We found a match!"
		view.Subtitle = "We found a matching lost-item report."
		view.Badge = "MATCH"
		if top, ok := v.Top(); ok {
			view.Top = &top
		}
	case model.DecisionNeedsReview:
		view.State = StateReview
		view.Title = "Needs review"
		view.Subtitle = "We found possible candidates, but a human check is needed."
		view.Badge = "REVIEW"
		view.Candidates = v.Candidates
	default:
		view.State = StateNoMatch
		view.Title = "Not found"
		view.Subtitle = "No confident match was found."
		view.Badge = "NO MATCH"
	}

	if lookup == nil || view.State == StateNoMatch {
		return view
	}

	if v.GivenID != "" {
		view.Found = foundPanel(ctx, lookup, v.GivenID)
	}
	if lostID := lostTarget(v); lostID != "" {
		view.Lost = lostPanel(ctx, lookup, lostID)
	}
	return view
}

// lostTarget prefers the service's matched id and falls back to the top
// candidate.
func lostTarget(v *model.Verdict) string {
	if v.MatchedID != nil && *v.MatchedID != "" {
		return *v.MatchedID
	}
	if top, ok := v.Top(); ok {
		return top.CandidateID
	}
	return ""
}

func foundPanel(ctx context.Context, lookup Lookup, id string) *Panel {
	p := &Panel{ID: id, Image: NoImage, Description: NoDescription}
	item, err := lookup.FoundItem(ctx, id)
	if err != nil {
		slog.WarnContext(ctx, "found item lookup failed", "id", id, "error", err)
		return p
	}
	if item == nil {
		slog.WarnContext(ctx, "found item not in store", "id", id)
		return p
	}
	p.Loaded = true
	p.Name = item.Name
	if item.ImageURL != "" {
		p.Image = item.ImageURL
	}
	return p
}

func lostPanel(ctx context.Context, lookup Lookup, id string) *Panel {
	p := &Panel{ID: id, Image: NoImage, Description: NoDescription}
	item, err := lookup.LostItem(ctx, id)
	if err != nil {
		slog.WarnContext(ctx, "lost item lookup failed", "id", id, "error", err)
		return p
	}
	if item == nil {
		slog.WarnContext(ctx, "lost item not in store", "id", id)
		return p
	}
	p.Loaded = true
	p.Name = item.Name
	if item.Description != "" {
		p.Description = item.Description
	}
	return p
}
