package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/inventory/domain"
	"github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/inventory/usecase/command"
	"github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/inventory/usecase/query"
	"github.com/Lokeshzz7/mrkadalai-backend-sub000/pkg/logger"
)

// InventoryHandler handles HTTP requests for inventory
type InventoryHandler struct {
	restockHandler  *command.RestockHandler
	getHandler      *query.GetInventoryHandler
	lowStockHandler *query.LowStockHandler
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(
	restockHandler *command.RestockHandler,
	getHandler *query.GetInventoryHandler,
	lowStockHandler *query.LowStockHandler,
) *InventoryHandler {
	return &InventoryHandler{
		restockHandler:  restockHandler,
		getHandler:      getHandler,
		lowStockHandler: lowStockHandler,
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// RegisterRoutes mounts the inventory endpoints.
func (h *InventoryHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/inventory/restock", h.Restock).Methods(http.MethodPost)
	r.HandleFunc("/api/inventory/low-stock", h.LowStock).Methods(http.MethodGet)
	r.HandleFunc("/api/inventory/{productId}", h.GetInventory).Methods(http.MethodGet)
}

// Restock handles POST /api/inventory/restock
func (h *InventoryHandler) Restock(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID uint `json:"product_id"`
		OutletID  uint `json:"outlet_id"`
		Amount    int  `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	err := h.restockHandler.Handle(r.Context(), command.RestockCommand{
		ProductID: req.ProductID,
		OutletID:  req.OutletID,
		Amount:    req.Amount,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInventoryNotFound) {
			respondJSON(w, http.StatusNotFound, Response{Success: false, Error: "Inventory not found"})
			return
		}
		logger.Error(r.Context()).Err(err).Msg("Failed to restock")
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Stock added"})
}

// GetInventory handles GET /api/inventory/{productId}
func (h *InventoryHandler) GetInventory(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseUint(mux.Vars(r)["productId"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid product ID"})
		return
	}

	inventory, err := h.getHandler.Handle(query.GetInventoryQuery{ProductID: uint(productID)})
	if err != nil {
		if errors.Is(err, domain.ErrInventoryNotFound) {
			respondJSON(w, http.StatusNotFound, Response{Success: false, Error: "Inventory not found"})
			return
		}
		logger.Error(r.Context()).Err(err).Msg("Failed to get inventory")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "internal server error"})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: inventory})
}

// LowStock handles GET /api/inventory/low-stock?outlet_id=N
func (h *InventoryHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	outletID, err := strconv.ParseUint(r.URL.Query().Get("outlet_id"), 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid outlet ID"})
		return
	}

	inventories, err := h.lowStockHandler.Handle(query.LowStockQuery{OutletID: uint(outletID)})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list low stock")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "internal server error"})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: inventories})
}

func respondJSON(w http.ResponseWriter, status int, response Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}
