package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/coupon"
	"github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/middleware"
)

// CouponHandler handles HTTP requests for coupons
type CouponHandler struct {
	db     *gorm.DB
	engine *coupon.Engine
}

// NewCouponHandler creates a new coupon handler
func NewCouponHandler(db *gorm.DB, engine *coupon.Engine) *CouponHandler {
	return &CouponHandler{db: db, engine: engine}
}

type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// RegisterRoutes mounts the coupon endpoints.
func (h *CouponHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/coupons/preview", h.Preview).Methods(http.MethodPost)
}

type previewRequest struct {
	Code       string  `json:"code"`
	OutletID   uint    `json:"outlet_id"`
	OrderTotal float64 `json:"order_total"`
}

type previewResponse struct {
	Code       string  `json:"code"`
	Discount   float64 `json:"discount"`
	FinalTotal float64 `json:"final_total"`
}

// Preview handles POST /api/coupons/preview. It runs the same validation the
// order flow runs, without consuming the coupon, so clients can show the
// discount before checkout.
func (h *CouponHandler) Preview(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.CustomerIDFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, Response{Success: false, Error: "authentication required"})
		return
	}

	var req previewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}
	if req.Code == "" || req.OutletID == 0 || req.OrderTotal <= 0 {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "code, outlet_id and order_total are required"})
		return
	}

	c, discount, err := h.engine.Validate(h.db.WithContext(r.Context()), req.Code, req.OutletID, customerID, req.OrderTotal, time.Now())
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: previewResponse{
		Code:       c.Code,
		Discount:   discount,
		FinalTotal: req.OrderTotal - discount,
	}})
}

func respondJSON(w http.ResponseWriter, status int, response Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}
