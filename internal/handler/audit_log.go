package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dangerclosesec/liaison/internal/model"
	"github.com/dangerclosesec/liaison/internal/repository"
	"github.com/dangerclosesec/liaison/internal/service"
)

// AuditLogHandler handles API requests related to the mutation audit trail
type AuditLogHandler struct {
	auditLogService *service.AuditLogService
}

// NewAuditLogHandler creates a new audit log handler
func NewAuditLogHandler(auditLogService *service.AuditLogService) *AuditLogHandler {
	return &AuditLogHandler{
		auditLogService: auditLogService,
	}
}

type AuditLogsResponse struct {
	Logs   []model.AuditLog `json:"logs"`
	Total  int64            `json:"total"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

// GetAuditLogs handles requests to retrieve the caller's audit logs with filtering
func (h *AuditLogHandler) GetAuditLogs(w http.ResponseWriter, r *http.Request) {
	params := repository.AuditQueryParams{}
	q := r.URL.Query()

	// Apply filters from query parameters
	params.Action = q.Get("action")
	params.EntityType = q.Get("entity_type")
	params.EntityID = q.Get("entity_id")

	if resultStr := q.Get("result"); resultStr != "" {
		result, err := strconv.ParseBool(resultStr)
		if err == nil {
			params.Result = &result
		}
	}

	if startTimeStr := q.Get("start_time"); startTimeStr != "" {
		startTime, err := time.Parse(time.RFC3339, startTimeStr)
		if err == nil {
			params.StartTime = startTime
		}
	}

	if endTimeStr := q.Get("end_time"); endTimeStr != "" {
		endTime, err := time.Parse(time.RFC3339, endTimeStr)
		if err == nil {
			params.EndTime = endTime
		}
	}

	// Pagination
	params.Limit = 100
	if limitStr := q.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err == nil && limit > 0 && limit <= 1000 {
			params.Limit = limit
		}
	}

	if offsetStr := q.Get("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err == nil && offset >= 0 {
			params.Offset = offset
		}
	}

	logs, total, err := h.auditLogService.GetAuditLogs(r.Context(), params)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if logs == nil {
		logs = []model.AuditLog{}
	}

	respondWithJSON(w, http.StatusOK, AuditLogsResponse{
		Logs:   logs,
		Total:  total,
		Limit:  params.Limit,
		Offset: params.Offset,
	})
}
