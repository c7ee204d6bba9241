package model

// Decision is the matching service's outcome for one item.
type Decision string

// Decisions. needs_review and no_match both mean the evidence was not
// enough to name a match; they are rendered differently.
const (
	DecisionMatch       Decision = "match"
	DecisionNeedsReview Decision = "needs_review"
	DecisionNoMatch     Decision = "no_match"
)

// Known reports whether d is one of the three defined decisions.
func (d Decision) Known() bool {
	switch d {
	case DecisionMatch, DecisionNeedsReview, DecisionNoMatch:
		return true
	}
	return false
}

// Verdict is the matching service's answer for a submitted item. Only
// Decision is expected to be present; every other field may be missing.
type Verdict struct {
	Decision   Decision    `json:"decision,omitempty"`
	GivenID    string      `json:"given_id,omitempty"`
	MatchedID  *string     `json:"matched_id"`
	Confidence *float64    `json:"confidence,omitempty"`
	Candidates []Candidate `json:"candidates,omitempty"`
	Reasons    []string    `json:"reasons,omitempty"`
}

// Candidate is one ranked lost or found item the service considered.
type Candidate struct {
	Rank        int     `json:"rank,omitempty"`
	CandidateID string  `json:"candidate_id,omitempty"`
	Text        string  `json:"text"`
	Image       string  `json:"image,omitempty"`
	ClipScore   float64 `json:"clip_score"`
}

// Top returns the first candidate, if any.
func (v *Verdict) Top() (Candidate, bool) {
	if v == nil || len(v.Candidates) == 0 {
		return Candidate{}, false
	}
	return v.Candidates[0], true
}
