package auth

import (
	"sync"
	"time"

	"github.com/diewo77/customer-portal/internal/form"
	"github.com/diewo77/customer-portal/internal/models"
	"github.com/google/uuid"
)

// Session is one browser's navigation state.
type Session struct {
	ID string

	mu        sync.Mutex
	loggedIn  bool
	flash     *models.Message
	selected  *models.Customer
	rows      []models.Customer
	primed    bool
	drafts     map[string]*form.Draft
	draftOrder []string
	searchPage uint64
	searchSeq  uint64
	seen       time.Time
}

// MaxOpenForms bounds the drafts kept per session; the oldest is dropped first.
const MaxOpenForms = 8

// SearchTicket identifies one search: the list page that issued it and its
// sequence number on that page.
type SearchTicket struct {
	Page uint64
	Seq  uint64
}

func newSession(id string) *Session {
	return &Session{ID: id, seen: time.Now(), drafts: make(map[string]*form.Draft)}
}

func (s *Session) touch() {
	s.mu.Lock()
	s.seen = time.Now()
	s.mu.Unlock()
}

func (s *Session) lastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seen
}

func (s *Session) LoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loggedIn
}

func (s *Session) LogIn() {
	s.mu.Lock()
	s.loggedIn = true
	s.mu.Unlock()
}

// LogOut clears the flag together with everything tied to the signed-in user.
func (s *Session) LogOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loggedIn = false
	s.flash = nil
	s.selected = nil
	s.rows = nil
	s.primed = false
	s.drafts = make(map[string]*form.Draft)
	s.draftOrder = nil
}

// SetFlash replaces the pending one-shot message.
func (s *Session) SetFlash(m models.Message) {
	s.mu.Lock()
	s.flash = &m
	s.mu.Unlock()
}

// TakeFlash returns the pending message and clears it.
func (s *Session) TakeFlash() *models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.flash
	s.flash = nil
	return m
}

// Rows is a copy of the last list shown.
func (s *Session) Rows() []models.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Customer(nil), s.rows...)
}

// SetRows replaces the list. The selection is kept even when the new rows no
// longer contain it.
func (s *Session) SetRows(rows []models.Customer) {
	s.mu.Lock()
	s.rows = rows
	s.mu.Unlock()
}

// PrimeRows stores rows that were just reloaded so the next list view can
// show them without fetching again.
func (s *Session) PrimeRows(rows []models.Customer) {
	s.mu.Lock()
	s.rows = rows
	s.primed = true
	s.mu.Unlock()
}

// TakePrimed returns the primed rows once.
func (s *Session) TakePrimed() ([]models.Customer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.primed {
		return nil, false
	}
	s.primed = false
	return append([]models.Customer(nil), s.rows...), true
}

// Select marks the row with id as selected, replacing any previous one.
// It reports false when id is not among the current rows.
func (s *Session) Select(id uint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.rows {
		if c.ID == id {
			sel := c
			s.selected = &sel
			return true
		}
	}
	return false
}

// Selected returns a copy of the selected row, nil when none.
func (s *Session) Selected() *models.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return nil
	}
	c := *s.selected
	return &c
}

func (s *Session) ClearSelection() {
	s.mu.Lock()
	s.selected = nil
	s.mu.Unlock()
}

// OpenDraft stores d as a newly opened form and returns its token. Each open
// form has its own draft, so its mode and customer stay fixed.
func (s *Session) OpenDraft(d *form.Draft) string {
	token := uuid.NewString()
	c := *d
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[token] = &c
	s.draftOrder = append(s.draftOrder, token)
	for len(s.draftOrder) > MaxOpenForms {
		delete(s.drafts, s.draftOrder[0])
		s.draftOrder = s.draftOrder[1:]
	}
	return token
}

// Draft returns a copy of the draft for token, nil when that form is not open.
func (s *Session) Draft(token string) *form.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[token]
	if !ok {
		return nil
	}
	c := *d
	return &c
}

// SaveDraft replaces the draft for token. It reports false when the form has
// been closed meanwhile.
func (s *Session) SaveDraft(token string, d *form.Draft) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.drafts[token]; !ok {
		return false
	}
	c := *d
	s.drafts[token] = &c
	return true
}

// CloseDraft discards the draft for token.
func (s *Session) CloseDraft(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.drafts[token]; !ok {
		return
	}
	delete(s.drafts, token)
	for i, t := range s.draftOrder {
		if t == token {
			s.draftOrder = append(s.draftOrder[:i], s.draftOrder[i+1:]...)
			break
		}
	}
}

// BeginPage starts a new list page. Searches issued by earlier pages become
// stale and sequence numbers restart from zero.
func (s *Session) BeginPage() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchPage++
	s.searchSeq = 0
	return s.searchPage
}

// BeginSearch hands out the ticket of a new search on the current page.
func (s *Session) BeginSearch() SearchTicket {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchSeq++
	return SearchTicket{Page: s.searchPage, Seq: s.searchSeq}
}

// ObserveSearch records a sequence number assigned by the page so that older
// ones become stale. page 0 means the current page.
func (s *Session) ObserveSearch(page, seq uint64) SearchTicket {
	s.mu.Lock()
	defer s.mu.Unlock()
	if page == 0 {
		page = s.searchPage
	}
	if page == s.searchPage && seq > s.searchSeq {
		s.searchSeq = seq
	}
	return SearchTicket{Page: page, Seq: seq}
}

// FinishSearch stores rows only if t is still the latest search. It reports
// false for a stale result.
func (s *Session) FinishSearch(t SearchTicket, rows []models.Customer) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.Page != s.searchPage || t.Seq != s.searchSeq {
		return false
	}
	s.rows = rows
	return true
}
