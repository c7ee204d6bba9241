package report

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/lostfound/internal/location"
	"github.com/erazemk/lostfound/internal/model"
)

// DefaultDraftTTL is how long an untouched draft is kept.
const DefaultDraftTTL = time.Hour

// Draft is the server-side state of one found-item form.
type Draft struct {
	ID       string
	Owner    int64
	Photos   PhotoSet
	Location location.Mailbox

	submitting atomic.Bool

	mu      sync.Mutex
	name    string
	verdict *model.Verdict
	item    *model.FoundItem

	lastUsed time.Time
}

// NewDraft creates a draft that is not tracked by any Drafts store.
func NewDraft(owner int64) *Draft {
	return &Draft{ID: uuid.NewString(), Owner: owner}
}

// Submitting reports whether a submission of this draft is in flight.
func (d *Draft) Submitting() bool {
	return d.submitting.Load()
}

// Name returns the item name from the last submit attempt, so a form
// re-rendered after an error keeps it.
func (d *Draft) Name() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.name
}

// Verdict returns the last verdict received for this draft.
func (d *Draft) Verdict() *model.Verdict {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.verdict
}

// Item returns the found item created by the last successful submit.
func (d *Draft) Item() *model.FoundItem {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.item
}

func (d *Draft) setName(name string) {
	d.mu.Lock()
	d.name = name
	d.mu.Unlock()
}

func (d *Draft) setResult(item *model.FoundItem, v *model.Verdict) {
	d.mu.Lock()
	d.item = item
	d.verdict = v
	d.mu.Unlock()
}

// Drafts keeps the open drafts of all users in memory. Expired drafts
// are removed whenever the store is accessed.
type Drafts struct {
	mu     sync.Mutex
	ttl    time.Duration
	now    func() time.Time
	drafts map[string]*Draft
}

// NewDrafts creates a store whose drafts expire after ttl of inactivity.
func NewDrafts(ttl time.Duration) *Drafts {
	if ttl <= 0 {
		ttl = DefaultDraftTTL
	}
	return &Drafts{ttl: ttl, now: time.Now, drafts: make(map[string]*Draft)}
}

// Create starts a new draft for owner.
func (s *Drafts) Create(owner int64) *Draft {
	d := NewDraft(owner)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep()
	d.lastUsed = s.now()
	s.drafts[d.ID] = d
	return d
}

// Get returns the draft with id if it exists, has not expired and
// belongs to owner.
func (s *Drafts) Get(id string, owner int64) (*Draft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep()

	d, ok := s.drafts[id]
	if !ok || d.Owner != owner {
		return nil, false
	}
	d.lastUsed = s.now()
	return d, true
}

// Len returns the number of live drafts.
func (s *Drafts) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep()
	return len(s.drafts)
}

// sweep must be called with s.mu held.
func (s *Drafts) sweep() {
	cutoff := s.now().Add(-s.ttl)
	for id, d := range s.drafts {
		if d.lastUsed.Before(cutoff) {
			delete(s.drafts, id)
		}
	}
}
