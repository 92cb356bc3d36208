package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iudanet/famsync/internal/server/auth"
	"github.com/iudanet/famsync/pkg/api"
)

//go:generate moq -out service_mock.go . SyncService

// SyncService определяет операции протокола синхронизации
type SyncService interface {
	Sync(ctx context.Context, req *api.SyncRequest) (*api.SyncResponse, error)
	Batch(ctx context.Context, req *api.BatchSyncRequest) (*api.BatchSyncResponse, error)
	Status(ctx context.Context, userID string) (*api.SyncStatusResponse, error)
	UpdateOperation(ctx context.Context, userID, operationID, status string) (*api.OperationStatusResponse, error)
	Operation(ctx context.Context, userID, operationID string) (*api.OperationStatusResponse, error)
}

// SyncHandler handles synchronization requests
type SyncHandler struct {
	logger  *slog.Logger
	service SyncService
}

// NewSyncHandler creates a new sync handler
func NewSyncHandler(logger *slog.Logger, service SyncService) *SyncHandler {
	return &SyncHandler{
		logger:  logger,
		service: service,
	}
}

// Sync обрабатывает POST /sync.
// 200 при чистом слиянии, 207 если слияние завершено с конфликтами.
func (h *SyncHandler) Sync(w http.ResponseWriter, r *http.Request) {
	var req api.SyncRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.Warn("Failed to decode sync request", "error", err)
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	if !h.authorize(w, r, req.UserID) {
		return
	}

	resp, err := h.service.Sync(r.Context(), &req)
	if err != nil {
		sendServiceError(h.logger, w, err)
		return
	}

	status := http.StatusOK
	if resp.HasConflicts {
		status = http.StatusMultiStatus
	}
	sendJSON(h.logger, w, resp, status)
}

// Status обрабатывает GET /sync?userId=...
func (h *SyncHandler) Status(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if !h.authorize(w, r, userID) {
		return
	}

	resp, err := h.service.Status(r.Context(), userID)
	if err != nil {
		sendServiceError(h.logger, w, err)
		return
	}
	sendJSON(h.logger, w, resp, http.StatusOK)
}

// UpdateOperation обрабатывает PUT /sync
func (h *SyncHandler) UpdateOperation(w http.ResponseWriter, r *http.Request) {
	var req api.OperationStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.Warn("Failed to decode operation status request", "error", err)
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	if !h.authorize(w, r, req.UserID) {
		return
	}

	resp, err := h.service.UpdateOperation(r.Context(), req.UserID, req.OperationID, req.Status)
	if err != nil {
		sendServiceError(h.logger, w, err)
		return
	}
	sendJSON(h.logger, w, resp, http.StatusOK)
}

// Operation обрабатывает GET /sync/operations/{operationId}?userId=...
func (h *SyncHandler) Operation(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if !h.authorize(w, r, userID) {
		return
	}

	resp, err := h.service.Operation(r.Context(), userID, chi.URLParam(r, "operationId"))
	if err != nil {
		sendServiceError(h.logger, w, err)
		return
	}
	sendJSON(h.logger, w, resp, http.StatusOK)
}

// Batch обрабатывает POST /sync/batch.
// 200 если все элементы обработаны без ошибок, иначе 207 с результатами по элементам.
func (h *SyncHandler) Batch(w http.ResponseWriter, r *http.Request) {
	var req api.BatchSyncRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.Warn("Failed to decode batch request", "error", err)
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	if !h.authorize(w, r, req.UserID) {
		return
	}

	resp, err := h.service.Batch(r.Context(), &req)
	if err != nil {
		sendServiceError(h.logger, w, err)
		return
	}

	status := http.StatusOK
	if resp.TotalFailed > 0 || resp.Aborted {
		status = http.StatusMultiStatus
	}
	sendJSON(h.logger, w, resp, status)
}

// authorize отклоняет запрос, если подтвержденный токен принадлежит другому пользователю.
// Пустой userId пропускается: его отклонит валидация.
func (h *SyncHandler) authorize(w http.ResponseWriter, r *http.Request, userID string) bool {
	if userID == "" || auth.Authorize(r.Context(), userID) {
		return true
	}

	identity, _ := auth.FromContext(r.Context())
	h.logger.Warn("Token subject does not match userId",
		"user_id", userID,
		"token_user_id", identity.UserID,
	)
	sendError(h.logger, w, "token does not belong to userId", http.StatusForbidden)
	return false
}
