package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/middleware"
	"github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/payment"
	"github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/wallet/domain"
	"github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/wallet/usecase/command"
	"github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/wallet/usecase/query"
	"github.com/Lokeshzz7/mrkadalai-backend-sub000/pkg/logger"
)

// WalletHandler handles HTTP requests for wallets
type WalletHandler struct {
	initiateHandler     *command.InitiateRechargeHandler
	rechargeHandler     *command.RechargeHandler
	getHandler          *query.GetWalletHandler
	transactionsHandler *query.ListTransactionsHandler
}

// NewWalletHandler creates a new wallet handler
func NewWalletHandler(
	initiateHandler *command.InitiateRechargeHandler,
	rechargeHandler *command.RechargeHandler,
	getHandler *query.GetWalletHandler,
	transactionsHandler *query.ListTransactionsHandler,
) *WalletHandler {
	return &WalletHandler{
		initiateHandler:     initiateHandler,
		rechargeHandler:     rechargeHandler,
		getHandler:          getHandler,
		transactionsHandler: transactionsHandler,
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// RegisterRoutes mounts the wallet endpoints.
func (h *WalletHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/wallet", h.GetWallet).Methods(http.MethodGet)
	r.HandleFunc("/api/wallet/transactions", h.ListTransactions).Methods(http.MethodGet)
	r.HandleFunc("/api/wallet/recharge/initiate", h.InitiateRecharge).Methods(http.MethodPost)
	r.HandleFunc("/api/wallet/recharge", h.Recharge).Methods(http.MethodPost)
}

// GetWallet handles GET /api/wallet
func (h *WalletHandler) GetWallet(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.CustomerIDFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, Response{Success: false, Error: "authentication required"})
		return
	}

	wallet, err := h.getHandler.Handle(query.GetWalletQuery{CustomerID: customerID})
	if err != nil {
		if errors.Is(err, domain.ErrWalletNotFound) {
			respondJSON(w, http.StatusNotFound, Response{Success: false, Error: "Wallet not found"})
			return
		}
		serverError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: wallet})
}

// ListTransactions handles GET /api/wallet/transactions
func (h *WalletHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.CustomerIDFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, Response{Success: false, Error: "authentication required"})
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	transactions, err := h.transactionsHandler.Handle(query.ListTransactionsQuery{
		CustomerID: customerID,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		if errors.Is(err, domain.ErrWalletNotFound) {
			respondJSON(w, http.StatusNotFound, Response{Success: false, Error: "Wallet not found"})
			return
		}
		serverError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: transactions})
}

// InitiateRecharge handles POST /api/wallet/recharge/initiate
func (h *WalletHandler) InitiateRecharge(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.CustomerIDFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, Response{Success: false, Error: "authentication required"})
		return
	}

	var req struct {
		Amount float64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	result, err := h.initiateHandler.Handle(r.Context(), command.InitiateRechargeCommand{
		CustomerID: customerID,
		Amount:     req.Amount,
	})
	if err != nil {
		serverError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: result})
}

// Recharge handles POST /api/wallet/recharge
func (h *WalletHandler) Recharge(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.CustomerIDFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, Response{Success: false, Error: "authentication required"})
		return
	}

	var req struct {
		Amount         float64 `json:"amount"`
		Method         string  `json:"method"`
		GatewayOrderID string  `json:"gateway_order_id"`
		PaymentID      string  `json:"payment_id"`
		Signature      string  `json:"signature"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	err := h.rechargeHandler.Handle(r.Context(), command.RechargeCommand{
		CustomerID:     customerID,
		Amount:         req.Amount,
		Method:         req.Method,
		GatewayOrderID: req.GatewayOrderID,
		PaymentID:      req.PaymentID,
		Signature:      req.Signature,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicatePayment):
			respondJSON(w, http.StatusConflict, Response{Success: false, Error: err.Error()})
		case errors.Is(err, payment.ErrInvalidSignature),
			errors.Is(err, payment.ErrPaymentNotCaptured),
			errors.Is(err, payment.ErrAmountMismatch):
			respondJSON(w, http.StatusPaymentRequired, Response{Success: false, Error: err.Error()})
		default:
			respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		}
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Wallet recharged"})
}

func serverError(w http.ResponseWriter, r *http.Request, err error) {
	logger.Error(r.Context()).Err(err).Msg("wallet request failed")
	respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "internal server error"})
}

func respondJSON(w http.ResponseWriter, status int, response Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}
