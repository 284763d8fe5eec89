package checkout

import (
	"errors"
	"strings"
	"sync"

	"github.com/ovenlight/storefront/internal/domain"
)

var (
	ErrMissingName    = errors.New("please provide your name")
	ErrInvalidPhone   = errors.New("please provide a valid phone number")
	ErrMissingAddress = errors.New("please provide a delivery address")
)

// Free delivery kicks in at the threshold; below it a flat fee applies.
const (
	FreeDeliveryThreshold = 1500.0
	DeliveryCost          = 250.0
)

// Data is an immutable copy of the form, used to build order requests
// and to validate.
type Data struct {
	DeliveryType domain.DeliveryType
	PaymentType  domain.PaymentType
	Name         string
	Phone        string
	Address      string
	Comment      string
}

// Validate returns the first failing rule, checked in fixed precedence
// order: name, then phone, then address.
func (d Data) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrMissingName
	}
	if len(digits(d.Phone)) < 10 {
		return ErrInvalidPhone
	}
	if d.DeliveryType == domain.DeliveryTypeDelivery && strings.TrimSpace(d.Address) == "" {
		return ErrMissingAddress
	}
	return nil
}

// Form holds the checkout selections and customer fields.
type Form struct {
	mu   sync.Mutex
	data Data
}

func NewForm() *Form {
	return &Form{
		data: Data{
			DeliveryType: domain.DeliveryTypeDelivery,
			PaymentType:  domain.PaymentTypeCash,
		},
	}
}

// SetDeliveryType updates the delivery mode; unknown values are
// ignored. Dependent affordances are derived, not stored: callers
// re-query AddressRequired after the update.
func (f *Form) SetDeliveryType(t domain.DeliveryType) {
	if !t.Valid() {
		return
	}
	f.mu.Lock()
	f.data.DeliveryType = t
	f.mu.Unlock()
}

// SetPaymentType updates the payment mode; unknown values are ignored.
func (f *Form) SetPaymentType(t domain.PaymentType) {
	if !t.Valid() {
		return
	}
	f.mu.Lock()
	f.data.PaymentType = t
	f.mu.Unlock()
}

func (f *Form) SetName(name string) {
	f.mu.Lock()
	f.data.Name = name
	f.mu.Unlock()
}

// SetPhone stores the input re-rendered through the canonical mask.
func (f *Form) SetPhone(raw string) {
	f.mu.Lock()
	f.data.Phone = FormatPhone(raw)
	f.mu.Unlock()
}

func (f *Form) SetAddress(address string) {
	f.mu.Lock()
	f.data.Address = address
	f.mu.Unlock()
}

func (f *Form) SetComment(comment string) {
	f.mu.Lock()
	f.data.Comment = comment
	f.mu.Unlock()
}

// Data returns a copy of the current form state.
func (f *Form) Data() Data {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.data
}

func (f *Form) Validate() error {
	return f.Data().Validate()
}

// AddressRequired is a pure derivation of the current delivery mode.
func (f *Form) AddressRequired() bool {
	return f.Data().DeliveryType == domain.DeliveryTypeDelivery
}

// PaymentHint is the helper text shown for the selected payment mode.
func (f *Form) PaymentHint() string {
	if f.Data().PaymentType == domain.PaymentTypeCash {
		return "Pay with cash on delivery"
	}
	return "You will be redirected to the payment page"
}

// DeliveryFee applies the single threshold rule: pickup is free, and
// orders at or above the threshold ship free.
func DeliveryFee(subtotal float64, t domain.DeliveryType) float64 {
	if t == domain.DeliveryTypePickup {
		return 0
	}
	if subtotal >= FreeDeliveryThreshold {
		return 0
	}
	return DeliveryCost
}
