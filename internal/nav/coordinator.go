package nav

import (
	"sync"
	"time"
)

type PageID string

const (
	PageHome     PageID = "home"
	PageMenu     PageID = "menu"
	PageAbout    PageID = "about"
	PageDelivery PageID = "delivery"
)

func (p PageID) Valid() bool {
	switch p {
	case PageHome, PageMenu, PageAbout, PageDelivery:
		return true
	}
	return false
}

type ModalID string

const (
	ModalCart      ModalID = "cart"
	ModalOrderForm ModalID = "orderForm"
	ModalThankYou  ModalID = "thankYou"
)

// DefaultStagger separates hiding one modal from showing the next so
// their transition animations never overlap.
const DefaultStagger = 300 * time.Millisecond

// ViewListener receives view transitions. All callbacks run
// synchronously on the goroutine driving the coordinator.
type ViewListener interface {
	ModalShown(id ModalID)
	ModalHidden(id ModalID)
	PageChanged(page PageID)
	// BackVisibilityChanged is pushed after every state transition;
	// the back affordance is a derived value, never set ad hoc.
	BackVisibilityChanged(visible bool)
}

// NopListener satisfies ViewListener with no behavior; embed it when a
// listener only cares about some events.
type NopListener struct{}

func (NopListener) ModalShown(ModalID)         {}
func (NopListener) ModalHidden(ModalID)        {}
func (NopListener) PageChanged(PageID)         {}
func (NopListener) BackVisibilityChanged(bool) {}

// Coordinator is the navigation state machine: one active page out of
// a fixed set, plus a modal stack where only the topmost modal is
// visible and eligible for the back action.
type Coordinator struct {
	stagger  time.Duration
	listener ViewListener

	mu     sync.Mutex
	page   PageID
	modals []ModalID
}

func NewCoordinator(stagger time.Duration, listener ViewListener) *Coordinator {
	if listener == nil {
		listener = NopListener{}
	}
	return &Coordinator{
		stagger:  stagger,
		listener: listener,
		page:     PageHome,
	}
}

// ActivePage returns the current top-level section.
func (c *Coordinator) ActivePage() PageID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

// Topmost returns the modal currently eligible for the back action.
func (c *Coordinator) Topmost() (ModalID, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.modals) == 0 {
		return "", false
	}
	return c.modals[len(c.modals)-1], true
}

// BackVisible derives the back-affordance state: visible whenever the
// active page is not home or any modal is open.
func (c *Coordinator) BackVisible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.backVisibleLocked()
}

func (c *Coordinator) backVisibleLocked() bool {
	return c.page != PageHome || len(c.modals) > 0
}

// NavigateTo activates a top-level page. Modal state is tracked
// independently and left untouched.
func (c *Coordinator) NavigateTo(page PageID) {
	if !page.Valid() {
		return
	}
	c.mu.Lock()
	if c.page == page {
		c.mu.Unlock()
		return
	}
	c.page = page
	visible := c.backVisibleLocked()
	c.mu.Unlock()

	c.listener.PageChanged(page)
	c.listener.BackVisibilityChanged(visible)
}

// OpenModal shows id as the topmost modal. Only one modal may be
// visible, so any currently open modal is closed first, with the
// stagger delay between hide and show.
func (c *Coordinator) OpenModal(id ModalID) {
	c.mu.Lock()
	if len(c.modals) > 0 && c.modals[len(c.modals)-1] == id {
		c.mu.Unlock()
		return
	}

	var hidden ModalID
	hadPrevious := len(c.modals) > 0
	if hadPrevious {
		hidden = c.modals[len(c.modals)-1]
		c.modals = c.modals[:len(c.modals)-1]
	}
	c.modals = append(c.modals, id)
	visible := c.backVisibleLocked()
	c.mu.Unlock()

	if hadPrevious {
		c.listener.ModalHidden(hidden)
		if c.stagger > 0 {
			time.Sleep(c.stagger)
		}
	}
	c.listener.ModalShown(id)
	c.listener.BackVisibilityChanged(visible)
}

// CloseModal hides id if it is open.
func (c *Coordinator) CloseModal(id ModalID) {
	c.mu.Lock()
	found := false
	for i, m := range c.modals {
		if m == id {
			c.modals = append(c.modals[:i], c.modals[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		c.mu.Unlock()
		return
	}
	visible := c.backVisibleLocked()
	c.mu.Unlock()

	c.listener.ModalHidden(id)
	c.listener.BackVisibilityChanged(visible)
}

// ShowThankYou closes the checkout form and opens the thank-you modal.
func (c *Coordinator) ShowThankYou() {
	c.CloseModal(ModalOrderForm)
	c.OpenModal(ModalThankYou)
}

// Back resolves a single external back signal. The topmost modal is
// handled before page navigation: back from the checkout form returns
// to the cart, back from the cart just closes it, then a non-home page
// falls back to home, and on home the signal is a no-op.
func (c *Coordinator) Back() {
	top, ok := c.Topmost()
	switch {
	case ok && top == ModalOrderForm:
		c.CloseModal(ModalOrderForm)
		c.OpenModal(ModalCart)
	case ok:
		c.CloseModal(top)
	case c.ActivePage() != PageHome:
		c.NavigateTo(PageHome)
	}
}
