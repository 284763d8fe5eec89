package domain

type DeliveryType string

const (
	DeliveryTypeDelivery DeliveryType = "delivery"
	DeliveryTypePickup   DeliveryType = "pickup"
)

func (d DeliveryType) Valid() bool {
	return d == DeliveryTypeDelivery || d == DeliveryTypePickup
}

type PaymentType string

const (
	PaymentTypeCash   PaymentType = "cash"
	PaymentTypeOnline PaymentType = "online"
)

func (p PaymentType) Valid() bool {
	return p == PaymentTypeCash || p == PaymentTypeOnline
}

// Product is catalog data, read-only for the storefront.
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Image       string  `json:"image,omitempty"`
}

// CartLine is one product/quantity pair. A line never exists with
// quantity below 1; reaching zero removes it from the cart.
type CartLine struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type OrderItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// OrderRequest is the create-order payload. Prices are deliberately
// absent: the order service is the source of truth for pricing.
type OrderRequest struct {
	CustomerName    string       `json:"customer_name"`
	CustomerPhone   string       `json:"customer_phone"`
	CustomerAddress string       `json:"customer_address,omitempty"`
	DeliveryType    DeliveryType `json:"delivery_type"`
	PaymentType     PaymentType  `json:"payment_type"`
	Comment         string       `json:"comment,omitempty"`
	Items           []OrderItem  `json:"items"`
}

// Order is produced by the order service; the storefront holds it only
// for the duration of a submission attempt.
type Order struct {
	ID           int64       `json:"id"`
	Subtotal     float64     `json:"subtotal"`
	DeliveryCost float64     `json:"delivery_cost"`
	TotalAmount  float64     `json:"total_amount"`
	Status       string      `json:"status"`
	Items        []OrderItem `json:"items,omitempty"`
}

type Payment struct {
	PaymentID  string  `json:"payment_id"`
	PaymentURL string  `json:"payment_url"`
	Status     string  `json:"status,omitempty"`
	Amount     float64 `json:"amount,omitempty"`
}
