package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/middleware"
	"github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/order/domain"
	"github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/order/usecase/command"
	"github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/order/usecase/query"
	"github.com/Lokeshzz7/mrkadalai-backend-sub000/pkg/logger"
)

// OrderHandler handles HTTP requests for orders using CQRS pattern
type OrderHandler struct {
	placeHandler  *command.PlaceOrderHandler
	cancelHandler *command.CancelOrderHandler
	getHandler    *query.GetOrderHandler
	listHandler   *query.ListOrdersHandler
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(
	placeHandler *command.PlaceOrderHandler,
	cancelHandler *command.CancelOrderHandler,
	getHandler *query.GetOrderHandler,
	listHandler *query.ListOrdersHandler,
) *OrderHandler {
	return &OrderHandler{
		placeHandler:  placeHandler,
		cancelHandler: cancelHandler,
		getHandler:    getHandler,
		listHandler:   listHandler,
	}
}

type Response struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	ErrorCode string      `json:"error_code,omitempty"`
	Retryable bool        `json:"retryable,omitempty"`
}

// RegisterRoutes mounts the order endpoints.
func (h *OrderHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/orders", h.PlaceOrder).Methods(http.MethodPost)
	r.HandleFunc("/api/orders", h.ListOrders).Methods(http.MethodGet)
	r.HandleFunc("/api/orders/{id}", h.GetOrder).Methods(http.MethodGet)
	r.HandleFunc("/api/orders/{id}/cancel", h.CancelOrder).Methods(http.MethodPost)
}

type placeOrderRequest struct {
	OutletID      uint                       `json:"outlet_id"`
	Items         []command.OrderItemRequest `json:"items"`
	TotalAmount   float64                    `json:"total_amount"`
	PaymentMethod string                     `json:"payment_method"`
	DeliverySlot  string                     `json:"delivery_slot"`
	CouponCode    string                     `json:"coupon_code,omitempty"`
	Proof         *command.PaymentProof      `json:"payment_proof,omitempty"`
}

// PlaceOrder handles POST /api/orders
func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.CustomerIDFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, Response{Success: false, Error: "authentication required"})
		return
	}

	var req placeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	order, err := h.placeHandler.Handle(r.Context(), command.PlaceOrderCommand{
		CustomerID:    customerID,
		OutletID:      req.OutletID,
		Items:         req.Items,
		TotalAmount:   req.TotalAmount,
		PaymentMethod: req.PaymentMethod,
		DeliverySlot:  req.DeliverySlot,
		CouponCode:    req.CouponCode,
		Proof:         req.Proof,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Order placed successfully",
		Data:    order,
	})
}

// CancelOrder handles POST /api/orders/{id}/cancel
func (h *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.CustomerIDFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, Response{Success: false, Error: "authentication required"})
		return
	}

	orderID, err := parseID(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid order ID"})
		return
	}

	result, err := h.cancelHandler.Handle(r.Context(), command.CancelOrderCommand{
		OrderID:    orderID,
		CustomerID: customerID,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Order cancelled",
		Data:    result,
	})
}

// GetOrder handles GET /api/orders/{id}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := parseID(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid order ID"})
		return
	}

	order, err := h.getHandler.Handle(query.GetOrderQuery{OrderID: orderID})
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			respondJSON(w, http.StatusNotFound, Response{Success: false, Error: "Order not found"})
			return
		}
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: order})
}

// ListOrders handles GET /api/orders
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.CustomerIDFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, Response{Success: false, Error: "authentication required"})
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	orders, err := h.listHandler.Handle(query.ListOrdersQuery{
		CustomerID: customerID,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: orders})
}

func parseID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	return uint(id), err
}

// respondError maps the failure taxonomy onto HTTP statuses. Server faults
// log full context but return a generic message.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	code := domain.CodeOf(err)

	status := http.StatusBadRequest
	message := err.Error()
	switch code {
	case domain.CodeStock, domain.CodeDuplicatePayment:
		status = http.StatusConflict
	case domain.CodeWallet, domain.CodePayment:
		status = http.StatusPaymentRequired
	case domain.CodeValidation, domain.CodeCoupon:
		status = http.StatusBadRequest
	case domain.CodeServer:
		status = http.StatusInternalServerError
		message = "internal server error"
		logger.Error(r.Context()).Err(err).Msg("order request failed")
	}

	respondJSON(w, status, Response{
		Success:   false,
		Error:     message,
		ErrorCode: string(code),
		Retryable: code.Retryable(),
	})
}

func respondJSON(w http.ResponseWriter, status int, response Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}
