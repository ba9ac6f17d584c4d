package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/patwikx/retail-inventory-service/internal/auth"
	syncpkg "github.com/patwikx/retail-inventory-service/internal/sync"
	"github.com/patwikx/retail-inventory-service/pkg/logger"
	"go.uber.org/zap"
)

type SyncHandler struct {
	orchestrator *syncpkg.Orchestrator
	logger       logger.ZapLogger
}

func NewSyncHandler(orchestrator *syncpkg.Orchestrator, log logger.ZapLogger) *SyncHandler {
	return &SyncHandler{
		orchestrator: orchestrator,
		logger:       log,
	}
}

func (h *SyncHandler) Routes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireRole(auth.RoleAdmin, auth.RoleManager))
		r.Get("/sync/inventory", h.StreamSync)
	})
}

// StreamSync runs a reconciliation for one site and streams progress frames as
// server-sent events. Closing the connection cancels the run between rows.
func (h *SyncHandler) StreamSync(w http.ResponseWriter, r *http.Request) {
	siteCode := r.URL.Query().Get("siteCode")
	if siteCode == "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"error":   "siteCode is required",
		})
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	emit := func(frame syncpkg.Frame) error {
		data, err := json.Marshal(frame)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	}

	h.logger.Info("starting inventory sync",
		zap.String("site_code", siteCode),
		zap.String("actor", auth.GetUserID(r.Context())),
	)

	if err := h.orchestrator.Run(r.Context(), siteCode, emit); err != nil {
		// Frame-level reporting already happened; this is for the operator log.
		h.logger.Error("sync run ended with error", zap.String("site_code", siteCode), zap.Error(err))
	}
}
