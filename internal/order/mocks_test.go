package order

import (
	"context"
	"sync"

	"github.com/ovenlight/storefront/internal/catalog"
	"github.com/ovenlight/storefront/internal/domain"
	"github.com/ovenlight/storefront/internal/notify"
)

// mockOrderService implements Service for testing.
type mockOrderService struct {
	mu sync.Mutex

	order      *domain.Order
	orderErr   error
	payment    *domain.Payment
	paymentErr error

	createOrderCalls   int
	createPaymentCalls int
	lastRequest        domain.OrderRequest

	// When set, CreateOrder blocks until the channel is closed; used
	// to hold a submission in flight.
	block chan struct{}
}

func (m *mockOrderService) CreateOrder(_ context.Context, req domain.OrderRequest) (*domain.Order, error) {
	m.mu.Lock()
	m.createOrderCalls++
	m.lastRequest = req
	block := m.block
	m.mu.Unlock()

	if block != nil {
		<-block
	}
	if m.orderErr != nil {
		return nil, m.orderErr
	}
	return m.order, nil
}

func (m *mockOrderService) CreatePayment(context.Context, int64) (*domain.Payment, error) {
	m.mu.Lock()
	m.createPaymentCalls++
	m.mu.Unlock()

	if m.paymentErr != nil {
		return nil, m.paymentErr
	}
	return m.payment, nil
}

func (m *mockOrderService) orderCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createOrderCalls
}

func (m *mockOrderService) paymentCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createPaymentCalls
}

type mockNotifier struct {
	mu       sync.Mutex
	messages []notify.Message
	err      error
}

func (m *mockNotifier) Publish(_ context.Context, msg notify.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.messages = append(m.messages, msg)
	return nil
}

type mockPrompt struct {
	answer  bool
	err     error
	asked   int
	amounts []float64
}

func (m *mockPrompt) ConfirmPayment(_ context.Context, amount float64) (bool, error) {
	m.asked++
	m.amounts = append(m.amounts, amount)
	return m.answer, m.err
}

type mockOpener struct {
	urls []string
}

func (m *mockOpener) OpenLink(url string) {
	m.urls = append(m.urls, url)
}

type mockProgress struct {
	events []string
}

func (m *mockProgress) ShowProgress() { m.events = append(m.events, "show") }
func (m *mockProgress) HideProgress() { m.events = append(m.events, "hide") }

// stubStore is a persistence no-op for submitter tests.
type stubStore struct{}

func (stubStore) Save(context.Context, []domain.CartLine) error   { return nil }
func (stubStore) Load(context.Context) ([]domain.CartLine, error) { return nil, nil }
func (stubStore) Clear(context.Context) error                     { return nil }

type stubCatalog struct {
	products map[int64]domain.Product
}

func (s *stubCatalog) GetProduct(_ context.Context, id int64) (*domain.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	return &p, nil
}

func (s *stubCatalog) ListProducts(context.Context) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range s.products {
		out = append(out, p)
	}
	return out, nil
}
