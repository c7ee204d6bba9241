// Package matcher is the reference matching service. Given the id of a
// newly reported item it ranks the open reports of the other collection
// by text similarity and decides from the score margin between the two
// best candidates. An optional verifier may overrule that decision.
package matcher

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/erazemk/lostfound/internal/model"
)

// DefaultMaxCandidates is how many ranked candidates a verdict carries.
const DefaultMaxCandidates = 3

// Margin thresholds between the best and second-best score.
const (
	MatchMargin   = 0.05
	NoMatchMargin = 0.01
)

// MinMatchScore is the lowest top score the rules alone accept as a match.
// A well separated candidate below it is left for review.
const MinMatchScore = 0.5

// ErrItemNotFound is returned when the id is in neither collection.
var ErrItemNotFound = errors.New("item id not found in lost or found items")

// Packet is what the verifier is given to decide on.
type Packet struct {
	GivenID     string            `json:"given_id"`
	Kind        Kind              `json:"kind"`
	Source      string            `json:"source"`
	ScoreMargin float64           `json:"score_margin"`
	Candidates  []model.Candidate `json:"candidates"`
	Proposed    model.Decision    `json:"proposed_decision"`
	ShouldOCR   bool              `json:"should_ocr"`
	OCRText     string            `json:"ocr_results"`

	// Image is the URL of the source item's photo. Lost reports have none.
	Image string `json:"-"`
}

// Verifier reviews a rule-based decision and returns its own verdict.
type Verifier interface {
	Verify(ctx context.Context, p Packet) (*model.Verdict, error)
}

// Service produces verdicts.
type Service struct {
	Source        Source
	Verifier      Verifier
	MaxCandidates int
}

// NewService creates a matching service. verifier may be nil.
func NewService(source Source, verifier Verifier, maxCandidates int) *Service {
	if maxCandidates <= 0 {
		maxCandidates = DefaultMaxCandidates
	}
	return &Service{Source: source, Verifier: verifier, MaxCandidates: maxCandidates}
}

type scored struct {
	item  Item
	score float64
}

// Match returns the verdict for itemID.
func (s *Service) Match(ctx context.Context, itemID string) (*model.Verdict, error) {
	item, err := s.Source.Item(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("looking up item: %w", err)
	}
	if item == nil {
		return nil, fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
	}

	pool, err := s.Source.Open(ctx, item.Kind.opposite())
	if err != nil {
		return nil, fmt.Errorf("listing candidates: %w", err)
	}

	ranked := make([]scored, 0, len(pool))
	for _, c := range pool {
		if c.ID == item.ID {
			continue
		}
		ranked = append(ranked, scored{item: c, score: Similarity(item.Text, c.Text)})
	}
	slices.SortStableFunc(ranked, func(a, b scored) int {
		return cmp.Compare(b.score, a.score)
	})
	if len(ranked) > s.MaxCandidates {
		ranked = ranked[:s.MaxCandidates]
	}

	candidates := make([]model.Candidate, len(ranked))
	for i, r := range ranked {
		candidates[i] = model.Candidate{
			Rank:        i + 1,
			CandidateID: r.item.ID,
			Text:        r.item.Label,
			Image:       r.item.Image,
			ClipScore:   r.score,
		}
	}

	margin := scoreMargin(candidates)
	verdict := decide(itemID, candidates, margin)

	slog.InfoContext(ctx, "rule verdict",
		"item", itemID, "kind", item.Kind, "candidates", len(candidates),
		"margin", margin, "decision", verdict.Decision)

	if s.Verifier == nil {
		return verdict, nil
	}

	checked, err := s.Verifier.Verify(ctx, Packet{
		GivenID:     itemID,
		Kind:        item.Kind,
		Source:      item.Text,
		ScoreMargin: margin,
		Candidates:  candidates,
		Proposed:    verdict.Decision,
		Image:       item.Image,
	})
	if err == nil {
		err = validVerdict(checked)
	}
	if err != nil {
		slog.WarnContext(ctx, "verifier failed, using rule verdict", "item", itemID, "error", err)
		verdict.Reasons = append(verdict.Reasons, "Verifier unavailable; rule-based decision used.")
		return verdict, nil
	}

	checked.GivenID = itemID
	checked.Candidates = candidates
	if checked.Confidence == nil {
		checked.Confidence = verdict.Confidence
	}
	if checked.Decision == model.DecisionMatch && checked.MatchedID == nil && len(candidates) > 0 {
		id := candidates[0].CandidateID
		checked.MatchedID = &id
	}
	slog.InfoContext(ctx, "verifier verdict", "item", itemID, "decision", checked.Decision)
	return checked, nil
}

// scoreMargin is the gap between the two best scores. Fewer than two
// candidates have no separation to measure.
func scoreMargin(candidates []model.Candidate) float64 {
	if len(candidates) < 2 {
		return 0
	}
	return candidates[0].ClipScore - candidates[1].ClipScore
}

// decisionFor applies the margin thresholds.
func decisionFor(margin float64) model.Decision {
	switch {
	case margin >= MatchMargin:
		return model.DecisionMatch
	case margin < NoMatchMargin:
		return model.DecisionNoMatch
	}
	return model.DecisionNeedsReview
}

func decide(givenID string, candidates []model.Candidate, margin float64) *model.Verdict {
	confidence := 0.0
	if len(candidates) > 0 {
		confidence = candidates[0].ClipScore
	}

	v := &model.Verdict{
		Decision:   decisionFor(margin),
		GivenID:    givenID,
		Confidence: &confidence,
		Candidates: candidates,
	}
	if len(candidates) == 0 {
		v.Decision = model.DecisionNoMatch
		v.Reasons = []string{"No open reports to compare against."}
		return v
	}

	v.Reasons = []string{
		fmt.Sprintf("Top candidate %q scored %.3f.", candidates[0].Text, candidates[0].ClipScore),
		fmt.Sprintf("Score margin over the next candidate is %.3f.", margin),
	}
	switch {
	case v.Decision == model.DecisionMatch && candidates[0].ClipScore < MinMatchScore:
		v.Decision = model.DecisionNeedsReview
		v.Reasons = append(v.Reasons, fmt.Sprintf("Top candidate is well ahead but scored below %.2f.", MinMatchScore))
	case v.Decision == model.DecisionMatch:
		id := candidates[0].CandidateID
		v.MatchedID = &id
	case v.Decision == model.DecisionNeedsReview:
		v.Reasons = append(v.Reasons, "Candidates are too close to call without a human check.")
	}
	return v
}

func validVerdict(v *model.Verdict) error {
	if v == nil {
		return errors.New("empty verdict")
	}
	if !v.Decision.Known() {
		return fmt.Errorf("unknown decision %q", v.Decision)
	}
	return nil
}
