package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/patwikx/retail-inventory-service/internal/auth"
	"github.com/patwikx/retail-inventory-service/internal/errs"
	"github.com/patwikx/retail-inventory-service/internal/inventory"
	"github.com/patwikx/retail-inventory-service/internal/inventory/dto"
	"github.com/patwikx/retail-inventory-service/pkg/logger"
	"go.uber.org/zap"
)

type InventoryHandler struct {
	uc     inventory.UseCase
	logger logger.ZapLogger
}

func NewInventoryHandler(uc inventory.UseCase, log logger.ZapLogger) *InventoryHandler {
	return &InventoryHandler{
		uc:     uc,
		logger: log,
	}
}

// Routes mounts the stock operation endpoints. Mutations require ADMIN or MANAGER.
func (h *InventoryHandler) Routes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireRole(auth.RoleAdmin, auth.RoleManager))
		r.Post("/stock/adjust", h.AdjustStock)
		r.Post("/stock/transfer", h.TransferStock)
	})
	r.Get("/stock/movements", h.ListMovements)
	r.Get("/stock/inventories/{id}", h.GetInventory)
}

type adjustRequest struct {
	InventoryID string  `json:"inventory_id"`
	Type        string  `json:"type"`
	Quantity    float64 `json:"quantity"`
	Reason      string  `json:"reason"`
	Reference   string  `json:"reference"`
}

func (h *InventoryHandler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	var req adjustRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	inv, err := h.uc.Adjust(r.Context(), &dto.AdjustStockInput{
		InventoryID: req.InventoryID,
		Type:        req.Type,
		Quantity:    req.Quantity,
		Reason:      req.Reason,
		Reference:   req.Reference,
		ActorID:     auth.GetUserID(r.Context()),
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"inventory": inv,
	})
}

type transferRequest struct {
	ProductID  string  `json:"product_id"`
	FromSiteID string  `json:"from_site_id"`
	ToSiteID   string  `json:"to_site_id"`
	Quantity   float64 `json:"quantity"`
	Notes      string  `json:"notes"`
}

func (h *InventoryHandler) TransferStock(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.uc.Transfer(r.Context(), &dto.TransferStockInput{
		ProductID:  req.ProductID,
		FromSiteID: req.FromSiteID,
		ToSiteID:   req.ToSiteID,
		Quantity:   req.Quantity,
		Notes:      req.Notes,
		ActorID:    auth.GetUserID(r.Context()),
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (h *InventoryHandler) GetInventory(w http.ResponseWriter, r *http.Request) {
	inv, err := h.uc.GetInventory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"inventory": inv,
	})
}

func (h *InventoryHandler) ListMovements(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(q.Get("page_size"))
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}

	items, total, err := h.uc.ListMovements(r.Context(), &dto.MovementFilters{
		ProductID:    q.Get("product_id"),
		SiteID:       q.Get("site_id"),
		InventoryID:  q.Get("inventory_id"),
		MovementType: q.Get("type"),
		Page:         page,
		PageSize:     pageSize,
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"movements": items,
		"total":     total,
	})
}

// writeDomainError maps the error taxonomy to a structured rejection; anything
// outside it is an internal error and its message is not exposed.
func (h *InventoryHandler) writeDomainError(w http.ResponseWriter, err error) {
	var nfe *errs.NotFoundError
	switch {
	case errors.As(err, &nfe):
		writeError(w, http.StatusNotFound, err.Error())
	case errs.IsDomain(err):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("stock operation failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   msg,
	})
}
