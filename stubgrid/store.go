package stubgrid

import (
	"fmt"
	"sync"
)

// Element is one DOM node the stub site exposes to selector queries.
type Element struct {
	ID    string
	Text  string
	Attrs map[string]string
}

// Page maps CSS selectors to the elements a query for them returns, in
// document order. Only the selectors the fixture declares exist; everything
// else matches nothing, exactly like a real page without that markup.
type Page struct {
	URL       string
	Selectors map[string][]*Element
}

// Site is a static virtual website: pages by URL plus an element index.
type Site struct {
	pages    map[string]*Page
	elements map[string]*Element
	seq      int
}

// NewSite creates an empty site.
func NewSite() *Site {
	return &Site{
		pages:    make(map[string]*Page),
		elements: make(map[string]*Element),
	}
}

// AddPage registers an empty page. Adding an existing URL returns the
// page already there.
func (s *Site) AddPage(url string) *Page {
	if p, ok := s.pages[url]; ok {
		return p
	}
	p := &Page{URL: url, Selectors: make(map[string][]*Element)}
	s.pages[url] = p
	return p
}

// AddElement appends an element to a page under the given selector and
// returns its assigned ID.
func (s *Site) AddElement(pageURL, selector, text string, attrs map[string]string) string {
	p := s.AddPage(pageURL)
	s.seq++
	el := &Element{
		ID:    fmt.Sprintf("e%d", s.seq),
		Text:  text,
		Attrs: attrs,
	}
	if el.Attrs == nil {
		el.Attrs = map[string]string{}
	}
	p.Selectors[selector] = append(p.Selectors[selector], el)
	s.elements[el.ID] = el
	return el.ID
}

func (s *Site) page(url string) *Page {
	return s.pages[url]
}

func (s *Site) element(id string) *Element {
	return s.elements[id]
}

// sessionState is one live (or finished) stub session.
type sessionState struct {
	id      string
	caps    map[string]interface{}
	current *Page
	ended   bool
	status  string
	reason  string
}

// sessionStore tracks sessions for the lifetime of the server so verdicts
// stay inspectable after teardown.
type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*sessionState
	seq      int
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[string]*sessionState)}
}

func (st *sessionStore) create(caps map[string]interface{}) *sessionState {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.seq++
	sess := &sessionState{
		id:   fmt.Sprintf("stub-%d", st.seq),
		caps: caps,
	}
	st.sessions[sess.id] = sess
	return sess
}

func (st *sessionStore) get(id string) *sessionState {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.sessions[id]
}

func (st *sessionStore) all() []*sessionState {
	st.mu.Lock()
	defer st.mu.Unlock()
	out := make([]*sessionState, 0, len(st.sessions))
	for _, sess := range st.sessions {
		out = append(out, sess)
	}
	return out
}
