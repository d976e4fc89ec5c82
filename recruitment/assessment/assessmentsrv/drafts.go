package assessmentsrv

import (
	"sync"
	"time"

	"github.com/Shashank26122003/entnt-assignment/recruitment/assessment"
	"github.com/google/uuid"
)

// DefaultDraftTTL is how long an untouched draft is kept.
const DefaultDraftTTL = 24 * time.Hour

type draftEntry struct {
	draft   *assessment.Draft
	touched time.Time
	taken   bool
}

// DraftBook holds the drafts of open editing sessions, keyed by a random id.
// Drafts are edited under the book's lock; commits run on a copy outside it.
type DraftBook struct {
	mu     sync.Mutex
	drafts map[string]*draftEntry
	ttl    time.Duration
	now    func() time.Time
}

func NewDraftBook(ttl time.Duration) *DraftBook {
	if ttl <= 0 {
		ttl = DefaultDraftTTL
	}
	return &DraftBook{
		drafts: make(map[string]*draftEntry),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Open stores d and returns its session id. Expired drafts are dropped.
func (b *DraftBook) Open(d *assessment.Draft) assessment.DraftView {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.expireLocked()
	id := uuid.NewString()
	b.drafts[id] = &draftEntry{draft: d, touched: b.now()}
	return d.View(id)
}

// Get returns the draft's current state
func (b *DraftBook) Get(id string) (assessment.DraftView, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	entry, err := b.lookupLocked(id)
	if err != nil {
		return assessment.DraftView{}, err
	}
	entry.touched = b.now()
	return entry.draft.View(id), nil
}

// Update runs fn against the draft. The draft stays open whatever fn
// returns; the view reflects the state after fn.
func (b *DraftBook) Update(id string, fn func(d *assessment.Draft) error) (assessment.DraftView, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	entry, err := b.lookupLocked(id)
	if err != nil {
		return assessment.DraftView{}, err
	}
	if entry.taken {
		return entry.draft.View(id), assessment.ErrDraftBusy().WithDetail("draft_id", id)
	}
	entry.touched = b.now()
	if err := fn(entry.draft); err != nil {
		return entry.draft.View(id), err
	}
	return entry.draft.View(id), nil
}

// Take runs fn against a copy of the draft without holding the book's lock
// and closes the session when fn succeeds. The draft cannot be edited or
// taken again while fn runs.
func (b *DraftBook) Take(id string, fn func(d *assessment.Draft) error) error {
	b.mu.Lock()
	entry, err := b.lookupLocked(id)
	if err != nil {
		b.mu.Unlock()
		return err
	}
	if entry.taken {
		b.mu.Unlock()
		return assessment.ErrDraftBusy().WithDetail("draft_id", id)
	}
	entry.taken = true
	entry.touched = b.now()
	staged := entry.draft.Clone()
	b.mu.Unlock()

	fnErr := fn(staged)

	b.mu.Lock()
	defer b.mu.Unlock()
	entry.taken = false
	entry.touched = b.now()
	if fnErr != nil {
		return fnErr
	}
	if b.drafts[id] == entry {
		delete(b.drafts, id)
	}
	return nil
}

// Discard closes the session without committing
func (b *DraftBook) Discard(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, err := b.lookupLocked(id); err != nil {
		return err
	}
	delete(b.drafts, id)
	return nil
}

// Len returns the number of open drafts
func (b *DraftBook) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.drafts)
}

func (b *DraftBook) lookupLocked(id string) (*draftEntry, error) {
	entry, ok := b.drafts[id]
	if !ok || b.now().Sub(entry.touched) > b.ttl {
		delete(b.drafts, id)
		return nil, assessment.ErrDraftNotFound().WithDetail("draft_id", id)
	}
	return entry, nil
}

func (b *DraftBook) expireLocked() {
	now := b.now()
	for id, entry := range b.drafts {
		if now.Sub(entry.touched) > b.ttl {
			delete(b.drafts, id)
		}
	}
}
