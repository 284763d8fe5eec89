package order

import (
	"context"
	"log"
	"sync/atomic"

	"github.com/ovenlight/storefront/internal/cart"
	"github.com/ovenlight/storefront/internal/checkout"
	"github.com/ovenlight/storefront/internal/domain"
	"github.com/ovenlight/storefront/internal/nav"
	"github.com/ovenlight/storefront/internal/notify"
)

// ConfirmPrompt is the explicit two-outcome decision point shown
// before an online payment: the protocol blocks on it and proceeds
// only on an affirmative answer.
type ConfirmPrompt interface {
	ConfirmPayment(ctx context.Context, amount float64) (bool, error)
}

// LinkOpener hands a payment URL to the host platform.
type LinkOpener interface {
	OpenLink(url string)
}

// Progress toggles the host's in-progress indicator around a
// submission attempt.
type Progress interface {
	ShowProgress()
	HideProgress()
}

type Config struct {
	Cart     *cart.Service
	Form     *checkout.Form
	Nav      *nav.Coordinator
	Orders   Service
	Notifier notify.Notifier
	Prompt   ConfirmPrompt
	Opener   LinkOpener
	Progress Progress
}

// Submitter runs the order submission protocol. Each Submit call is
// one sequential attempt; there is no persistent workflow state.
type Submitter struct {
	cfg      Config
	inFlight atomic.Bool
}

func NewSubmitter(cfg Config) *Submitter {
	return &Submitter{cfg: cfg}
}

// Submit executes one attempt: precondition check, validation, order
// creation, the payment branch, and completion. A second call while
// one is running returns ErrSubmissionInFlight without side effects.
// On any error the cart and form state are preserved so the user can
// retry.
func (s *Submitter) Submit(ctx context.Context) error {
	if !s.inFlight.CompareAndSwap(false, true) {
		return ErrSubmissionInFlight
	}
	defer s.inFlight.Store(false)

	lines := s.cfg.Cart.Lines()
	if len(lines) == 0 {
		return ErrEmptyCart
	}

	data := s.cfg.Form.Data()
	if err := data.Validate(); err != nil {
		return err
	}

	s.showProgress()
	defer s.hideProgress()

	created, err := s.cfg.Orders.CreateOrder(ctx, buildRequest(data, lines))
	if err != nil {
		return err
	}

	switch data.PaymentType {
	case domain.PaymentTypeOnline:
		payment, err := s.cfg.Orders.CreatePayment(ctx, created.ID)
		if err != nil {
			// The order already exists server-side; it is left
			// unconfirmed (see DESIGN.md).
			return err
		}

		confirmed, err := s.cfg.Prompt.ConfirmPayment(ctx, created.TotalAmount)
		if err != nil {
			return err
		}
		if !confirmed {
			// User declined: stop with no further side effects.
			return nil
		}

		if s.cfg.Opener != nil {
			s.cfg.Opener.OpenLink(payment.PaymentURL)
		}
		s.publish(ctx, notify.Message{
			OrderID:     created.ID,
			PaymentID:   payment.PaymentID,
			TotalAmount: created.TotalAmount,
			Status:      notify.StatusPaymentInitiated,
		})
	default:
		s.publish(ctx, notify.Message{
			OrderID:     created.ID,
			TotalAmount: created.TotalAmount,
			PaymentType: domain.PaymentTypeCash,
		})
	}

	s.complete(ctx)
	return nil
}

// buildRequest maps form and cart state onto the wire request. Prices
// never ride along: the order service prices the items itself.
func buildRequest(data checkout.Data, lines []domain.CartLine) domain.OrderRequest {
	items := make([]domain.OrderItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, domain.OrderItem{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	return domain.OrderRequest{
		CustomerName:    data.Name,
		CustomerPhone:   data.Phone,
		CustomerAddress: data.Address,
		DeliveryType:    data.DeliveryType,
		PaymentType:     data.PaymentType,
		Comment:         data.Comment,
		Items:           items,
	}
}

// complete finishes a successful attempt: checkout modal closes, the
// thank-you modal opens, and the cart empties.
func (s *Submitter) complete(ctx context.Context) {
	s.cfg.Nav.ShowThankYou()
	s.cfg.Cart.Clear(ctx)
}

func (s *Submitter) publish(ctx context.Context, msg notify.Message) {
	if s.cfg.Notifier == nil {
		return
	}
	if err := s.cfg.Notifier.Publish(ctx, msg); err != nil {
		// The order itself succeeded; a lost notification is logged,
		// never retried.
		log.Printf("failed to publish completion for order %d: %v", msg.OrderID, err)
	}
}

func (s *Submitter) showProgress() {
	if s.cfg.Progress != nil {
		s.cfg.Progress.ShowProgress()
	}
}

func (s *Submitter) hideProgress() {
	if s.cfg.Progress != nil {
		s.cfg.Progress.HideProgress()
	}
}
