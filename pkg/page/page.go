// Package page is an in-process model of a newsmeme page.
//
// It implements the View, Notifier and Navigator ports so the dispatcher can
// run outside a browser, and records every operation it receives.
package page

import (
	"slices"
	"sync"
)

// Element is one addressable node of the page.
type Element struct {
	ID     string
	Text   string
	Hidden bool
	Faded  bool // hidden through a fade-out
}

// Message is one entry of the message region.
type Message struct {
	Text     string
	Category string
}

// Op names a page operation in the journal.
type Op string

const (
	OpHide        Op = "hide"
	OpFadeOut     Op = "fade_out"
	OpSetText     Op = "set_text"
	OpShowMessage Op = "show_message"
	OpNavigate    Op = "navigate"
	OpReload      Op = "reload"
)

// Mutation is a journal entry. Matched is false when the target id was unknown.
type Mutation struct {
	Op      Op
	Target  string
	Value   string
	Matched bool
}

// Snapshot is a copy of the page state.
type Snapshot struct {
	URL            string
	Reloads        int
	Elements       map[string]Element
	Messages       []Message
	MessagesFading bool
	Journal        []Mutation
}

// Page is safe for concurrent use.
type Page struct {
	mu             sync.RWMutex
	url            string
	reloads        int
	elements       map[string]*Element
	order          []string
	messages       []Message
	messagesFading bool
	journal        []Mutation
}

// New creates an empty page located at url.
func New(url string) *Page {
	return &Page{
		url:      url,
		elements: make(map[string]*Element),
	}
}

// Add places a visible element on the page, replacing any element with the same id.
func (p *Page) Add(id, text string) *Page {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.elements[id]; !ok {
		p.order = append(p.order, id)
	}
	p.elements[id] = &Element{ID: id, Text: text}
	return p
}

// Element returns a copy of the element with the given id.
func (p *Page) Element(id string) (Element, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	el, ok := p.elements[id]
	if !ok {
		return Element{}, false
	}
	return *el, true
}

// IDs lists element ids in insertion order.
func (p *Page) IDs() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return slices.Clone(p.order)
}

func (p *Page) Hide(id string) {
	p.mutate(OpHide, id, "", func(el *Element) {
		el.Hidden = true
	})
}

func (p *Page) FadeOut(id string) {
	p.mutate(OpFadeOut, id, "", func(el *Element) {
		el.Hidden = true
		el.Faded = true
	})
}

func (p *Page) SetText(id, text string) {
	p.mutate(OpSetText, id, text, func(el *Element) {
		el.Text = text
	})
}

func (p *Page) mutate(op Op, id, value string, fn func(*Element)) {
	p.mu.Lock()
	defer p.mu.Unlock()

	el, ok := p.elements[id]
	if ok {
		fn(el)
	}
	p.journal = append(p.journal, Mutation{Op: op, Target: id, Value: value, Matched: ok})
}

// ShowMessage replaces the message region with a single entry and starts its fade-out.
func (p *Page) ShowMessage(text, category string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.messages = []Message{{Text: text, Category: category}}
	p.messagesFading = true
	p.journal = append(p.journal, Mutation{Op: OpShowMessage, Target: category, Value: text, Matched: true})
}

// Messages returns the current content of the message region.
func (p *Page) Messages() []Message {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return slices.Clone(p.messages)
}

// Navigate moves the page to url. Elements and messages are dropped, as a
// browser would on a full navigation.
func (p *Page) Navigate(url string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.url = url
	p.reset()
	p.journal = append(p.journal, Mutation{Op: OpNavigate, Value: url, Matched: true})
}

// Reload reloads the current location. The model keeps its elements, which
// stand in for the freshly rendered page.
func (p *Page) Reload() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.reloads++
	p.messages = nil
	p.messagesFading = false
	p.journal = append(p.journal, Mutation{Op: OpReload, Value: p.url, Matched: true})
}

func (p *Page) reset() {
	p.elements = make(map[string]*Element)
	p.order = nil
	p.messages = nil
	p.messagesFading = false
}

// URL returns the current location.
func (p *Page) URL() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.url
}

// Reloads returns how many times the page was reloaded.
func (p *Page) Reloads() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.reloads
}

// Journal returns every operation applied so far.
func (p *Page) Journal() []Mutation {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return slices.Clone(p.journal)
}

// Snapshot copies the whole page state.
func (p *Page) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()

	elements := make(map[string]Element, len(p.elements))
	for id, el := range p.elements {
		elements[id] = *el
	}
	return Snapshot{
		URL:            p.url,
		Reloads:        p.reloads,
		Elements:       elements,
		Messages:       slices.Clone(p.messages),
		MessagesFading: p.messagesFading,
		Journal:        slices.Clone(p.journal),
	}
}
