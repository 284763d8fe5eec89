package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingListener struct {
	events  []string
	backLog []bool
}

func (r *recordingListener) ModalShown(id ModalID)  { r.events = append(r.events, "show:"+string(id)) }
func (r *recordingListener) ModalHidden(id ModalID) { r.events = append(r.events, "hide:"+string(id)) }
func (r *recordingListener) PageChanged(p PageID)   { r.events = append(r.events, "page:"+string(p)) }
func (r *recordingListener) BackVisibilityChanged(v bool) {
	r.backLog = append(r.backLog, v)
}

func newTestCoordinator() (*Coordinator, *recordingListener) {
	l := &recordingListener{}
	// Zero stagger keeps transitions instantaneous under test.
	return NewCoordinator(0, l), l
}

func TestInitialState(t *testing.T) {
	c, _ := newTestCoordinator()

	assert.Equal(t, PageHome, c.ActivePage())
	_, open := c.Topmost()
	assert.False(t, open)
	assert.False(t, c.BackVisible())
}

func TestBack_OrderFormReturnsToCart(t *testing.T) {
	c, _ := newTestCoordinator()
	c.OpenModal(ModalCart)
	c.OpenModal(ModalOrderForm)

	c.Back()

	top, open := c.Topmost()
	require.True(t, open)
	assert.Equal(t, ModalCart, top)
	assert.True(t, c.BackVisible())
}

func TestBack_CartJustCloses(t *testing.T) {
	c, _ := newTestCoordinator()
	c.OpenModal(ModalCart)

	c.Back()

	_, open := c.Topmost()
	assert.False(t, open)
	assert.False(t, c.BackVisible())
}

func TestBack_NonHomePageGoesHome(t *testing.T) {
	c, _ := newTestCoordinator()
	c.NavigateTo(PageAbout)

	c.Back()

	assert.Equal(t, PageHome, c.ActivePage())
	assert.False(t, c.BackVisible())
}

func TestBack_HomeWithNoModalIsNoop(t *testing.T) {
	c, l := newTestCoordinator()

	c.Back()

	assert.Equal(t, PageHome, c.ActivePage())
	assert.Empty(t, l.events)
}

func TestBack_ModalResolvedBeforePage(t *testing.T) {
	c, _ := newTestCoordinator()
	c.NavigateTo(PageMenu)
	c.OpenModal(ModalCart)

	c.Back()

	// The modal absorbs the signal; the page stays put.
	assert.Equal(t, PageMenu, c.ActivePage())
	_, open := c.Topmost()
	assert.False(t, open)
	assert.True(t, c.BackVisible(), "page is still non-home")
}

func TestOpenModal_ClosesPreviousFirst(t *testing.T) {
	c, l := newTestCoordinator()
	c.OpenModal(ModalCart)
	c.OpenModal(ModalOrderForm)

	assert.Equal(t, []string{"show:cart", "hide:cart", "show:orderForm"}, l.events)

	top, open := c.Topmost()
	require.True(t, open)
	assert.Equal(t, ModalOrderForm, top)
}

func TestOpenModal_ReopeningTopmostIsNoop(t *testing.T) {
	c, l := newTestCoordinator()
	c.OpenModal(ModalCart)
	c.OpenModal(ModalCart)

	assert.Equal(t, []string{"show:cart"}, l.events)
}

func TestBackVisibility_RecomputedAfterEveryTransition(t *testing.T) {
	c, l := newTestCoordinator()

	c.OpenModal(ModalCart)    // true
	c.CloseModal(ModalCart)   // false
	c.NavigateTo(PageMenu)    // true
	c.NavigateTo(PageHome)    // false
	c.CloseModal(ModalCart)   // not open: no transition, no push

	assert.Equal(t, []bool{true, false, true, false}, l.backLog)
}

func TestShowThankYou(t *testing.T) {
	c, l := newTestCoordinator()
	c.OpenModal(ModalOrderForm)

	c.ShowThankYou()

	top, open := c.Topmost()
	require.True(t, open)
	assert.Equal(t, ModalThankYou, top)
	assert.Contains(t, l.events, "hide:orderForm")
}

func TestNavigateTo_LeavesModalsAlone(t *testing.T) {
	c, _ := newTestCoordinator()
	c.OpenModal(ModalCart)

	c.NavigateTo(PageDelivery)

	top, open := c.Topmost()
	require.True(t, open)
	assert.Equal(t, ModalCart, top)
	assert.Equal(t, PageDelivery, c.ActivePage())
}

func TestNavigateTo_InvalidPageIgnored(t *testing.T) {
	c, l := newTestCoordinator()

	c.NavigateTo("garage")

	assert.Equal(t, PageHome, c.ActivePage())
	assert.Empty(t, l.events)
}
