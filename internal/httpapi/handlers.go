package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/ovenlight/storefront/internal/cart"
	"github.com/ovenlight/storefront/internal/catalog"
	"github.com/ovenlight/storefront/internal/checkout"
	"github.com/ovenlight/storefront/internal/domain"
	"github.com/ovenlight/storefront/internal/nav"
	"github.com/ovenlight/storefront/internal/order"
)

// Handler exposes the storefront state machine over JSON HTTP.
type Handler struct {
	cart      *cart.Service
	catalog   catalog.Reader
	form      *checkout.Form
	nav       *nav.Coordinator
	submitter *order.Submitter
}

func NewHandler(c *cart.Service, cat catalog.Reader, form *checkout.Form, n *nav.Coordinator, s *order.Submitter) *Handler {
	return &Handler{
		cart:      c,
		catalog:   cat,
		form:      form,
		nav:       n,
		submitter: s,
	}
}

// Routes builds the router with the standard middleware chain.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", h.ListProducts)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.GetCart)
			r.Delete("/", h.ClearCart)
			r.Post("/items", h.AddItem)
			r.Put("/items/{product_id}", h.ChangeQuantity)
			r.Delete("/items/{product_id}", h.RemoveItem)
		})

		r.Route("/view", func(r chi.Router) {
			r.Get("/", h.GetView)
			r.Post("/back", h.Back)
			r.Post("/page", h.NavigateTo)
			r.Post("/modal/{modal}/open", h.OpenModal)
			r.Post("/modal/{modal}/close", h.CloseModal)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/open", h.OpenCheckout)
			r.Get("/form", h.GetForm)
			r.Put("/form", h.UpdateForm)
			r.Post("/submit", h.Submit)
		})
	})

	return otelhttp.NewHandler(r, "storefront")
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

type AddItemRequestDTO struct {
	ProductID int64 `json:"product_id"`
}

type ChangeQuantityRequestDTO struct {
	Delta int `json:"delta"`
}

type CartLineDTO struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	LineTotal float64 `json:"line_total"`
}

type CartResponseDTO struct {
	Items     []CartLineDTO `json:"items"`
	ItemCount int           `json:"item_count"`
	Total     float64       `json:"total"`
}

type ViewResponseDTO struct {
	Page        nav.PageID  `json:"page"`
	Modal       nav.ModalID `json:"modal,omitempty"`
	BackVisible bool        `json:"back_visible"`
}

type NavigateRequestDTO struct {
	Page string `json:"page"`
}

// FormUpdateRequestDTO carries a partial update: only non-nil fields
// are applied.
type FormUpdateRequestDTO struct {
	Name         *string `json:"name,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	Address      *string `json:"address,omitempty"`
	Comment      *string `json:"comment,omitempty"`
	DeliveryType *string `json:"delivery_type,omitempty"`
	PaymentType  *string `json:"payment_type,omitempty"`
}

type FormResponseDTO struct {
	Name            string  `json:"name"`
	Phone           string  `json:"phone"`
	Address         string  `json:"address"`
	Comment         string  `json:"comment"`
	DeliveryType    string  `json:"delivery_type"`
	PaymentType     string  `json:"payment_type"`
	AddressRequired bool    `json:"address_required"`
	PaymentHint     string  `json:"payment_hint"`
	DeliveryFee     float64 `json:"delivery_fee"`
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListProducts(r.Context())
	if err != nil {
		respondError(w, http.StatusBadGateway, "catalog_unavailable", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.cartResponse(r))
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}

	h.cart.Add(r.Context(), req.ProductID)
	respondJSON(w, http.StatusCreated, h.cartResponse(r))
}

func (h *Handler) ChangeQuantity(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}

	var req ChangeQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Delta != 1 && req.Delta != -1 {
		respondError(w, http.StatusBadRequest, "invalid_delta", "delta must be 1 or -1")
		return
	}

	h.cart.ChangeQuantity(r.Context(), productID, req.Delta)
	respondJSON(w, http.StatusOK, h.cartResponse(r))
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}

	h.cart.Remove(r.Context(), productID)
	respondJSON(w, http.StatusOK, h.cartResponse(r))
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.cart.Clear(r.Context())
	respondJSON(w, http.StatusOK, h.cartResponse(r))
}

func (h *Handler) GetView(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, h.viewResponse())
}

func (h *Handler) Back(w http.ResponseWriter, _ *http.Request) {
	h.nav.Back()
	respondJSON(w, http.StatusOK, h.viewResponse())
}

func (h *Handler) NavigateTo(w http.ResponseWriter, r *http.Request) {
	var req NavigateRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	page := nav.PageID(req.Page)
	if !page.Valid() {
		respondError(w, http.StatusBadRequest, "unknown_page", "page must be one of home, menu, about, delivery")
		return
	}

	h.nav.NavigateTo(page)
	respondJSON(w, http.StatusOK, h.viewResponse())
}

func (h *Handler) OpenModal(w http.ResponseWriter, r *http.Request) {
	modal, ok := parseModal(chi.URLParam(r, "modal"))
	if !ok {
		respondError(w, http.StatusBadRequest, "unknown_modal", "modal must be one of cart, orderForm, thankYou")
		return
	}

	h.nav.OpenModal(modal)
	respondJSON(w, http.StatusOK, h.viewResponse())
}

func (h *Handler) CloseModal(w http.ResponseWriter, r *http.Request) {
	modal, ok := parseModal(chi.URLParam(r, "modal"))
	if !ok {
		respondError(w, http.StatusBadRequest, "unknown_modal", "modal must be one of cart, orderForm, thankYou")
		return
	}

	h.nav.CloseModal(modal)
	respondJSON(w, http.StatusOK, h.viewResponse())
}

// OpenCheckout opens the order form, guarding against an empty cart.
func (h *Handler) OpenCheckout(w http.ResponseWriter, _ *http.Request) {
	if len(h.cart.Lines()) == 0 {
		respondError(w, http.StatusBadRequest, "empty_cart", order.ErrEmptyCart.Error())
		return
	}

	h.nav.OpenModal(nav.ModalOrderForm)
	respondJSON(w, http.StatusOK, h.viewResponse())
}

func (h *Handler) GetForm(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.formResponse(r))
}

func (h *Handler) UpdateForm(w http.ResponseWriter, r *http.Request) {
	var req FormUpdateRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.Name != nil {
		h.form.SetName(*req.Name)
	}
	if req.Phone != nil {
		h.form.SetPhone(*req.Phone)
	}
	if req.Address != nil {
		h.form.SetAddress(*req.Address)
	}
	if req.Comment != nil {
		h.form.SetComment(*req.Comment)
	}
	if req.DeliveryType != nil {
		h.form.SetDeliveryType(domain.DeliveryType(*req.DeliveryType))
	}
	if req.PaymentType != nil {
		h.form.SetPaymentType(domain.PaymentType(*req.PaymentType))
	}

	respondJSON(w, http.StatusOK, h.formResponse(r))
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	err := h.submitter.Submit(r.Context())
	if err == nil {
		respondJSON(w, http.StatusOK, h.viewResponse())
		return
	}

	var orderErr *order.OrderCreationError
	var paymentErr *order.PaymentCreationError
	switch {
	case errors.Is(err, order.ErrSubmissionInFlight):
		respondError(w, http.StatusConflict, "submission_in_flight", err.Error())
	case errors.Is(err, order.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "empty_cart", err.Error())
	case errors.Is(err, checkout.ErrMissingName),
		errors.Is(err, checkout.ErrInvalidPhone),
		errors.Is(err, checkout.ErrMissingAddress):
		respondError(w, http.StatusBadRequest, "validation_failed", err.Error())
	case errors.As(err, &orderErr):
		respondError(w, http.StatusBadGateway, "order_creation_failed", orderErr.Message)
	case errors.As(err, &paymentErr):
		respondError(w, http.StatusBadGateway, "payment_creation_failed", paymentErr.Message)
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func (h *Handler) cartResponse(r *http.Request) CartResponseDTO {
	lines := h.cart.Lines()
	resp := CartResponseDTO{
		Items:     make([]CartLineDTO, 0, len(lines)),
		ItemCount: h.cart.ItemCount(),
	}
	for _, l := range lines {
		dto := CartLineDTO{ProductID: l.ProductID, Quantity: l.Quantity}
		if p, err := h.catalog.GetProduct(r.Context(), l.ProductID); err == nil {
			dto.Name = p.Name
			dto.Price = p.Price
			dto.LineTotal = p.Price * float64(l.Quantity)
		}
		resp.Items = append(resp.Items, dto)
		resp.Total += dto.LineTotal
	}
	return resp
}

func (h *Handler) viewResponse() ViewResponseDTO {
	resp := ViewResponseDTO{
		Page:        h.nav.ActivePage(),
		BackVisible: h.nav.BackVisible(),
	}
	if top, ok := h.nav.Topmost(); ok {
		resp.Modal = top
	}
	return resp
}

func (h *Handler) formResponse(r *http.Request) FormResponseDTO {
	data := h.form.Data()
	return FormResponseDTO{
		Name:            data.Name,
		Phone:           data.Phone,
		Address:         data.Address,
		Comment:         data.Comment,
		DeliveryType:    string(data.DeliveryType),
		PaymentType:     string(data.PaymentType),
		AddressRequired: h.form.AddressRequired(),
		PaymentHint:     h.form.PaymentHint(),
		DeliveryFee:     checkout.DeliveryFee(h.cart.Total(r.Context()), data.DeliveryType),
	}
}

func parseModal(raw string) (nav.ModalID, bool) {
	switch m := nav.ModalID(raw); m {
	case nav.ModalCart, nav.ModalOrderForm, nav.ModalThankYou:
		return m, true
	}
	return "", false
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}
