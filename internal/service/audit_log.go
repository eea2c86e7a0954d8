// internal/service/audit_log.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dangerclosesec/liaison/internal/audit"
	"github.com/dangerclosesec/liaison/internal/auth"
	"github.com/dangerclosesec/liaison/internal/domain"
	"github.com/dangerclosesec/liaison/internal/model"
	"github.com/dangerclosesec/liaison/internal/repository"
	"github.com/go-chi/chi/v5/middleware"
	"gorm.io/datatypes"
)

// Ensure AuditLogService implements the audit.Logger interface
var _ audit.Logger = (*AuditLogService)(nil)

// AuditLogService writes and reads the mutation audit trail
type AuditLogService struct {
	repo repository.AuditLogRepositoryIface
}

// NewAuditLogService creates a new AuditLogService
func NewAuditLogService(repo repository.AuditLogRepositoryIface) *AuditLogService {
	return &AuditLogService{
		repo: repo,
	}
}

// LogMutation records one create, update, delete or join attempt
func (s *AuditLogService) LogMutation(ctx context.Context, entry audit.Entry) error {
	log := &model.AuditLog{
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		ActorID:    entry.ActorID,
		Result:     entry.Err == nil,
		Context:    datatypes.JSONMap(entry.Context),
		Timestamp:  time.Now().UTC(),
		RequestID:  middleware.GetReqID(ctx),
	}
	if entry.Err != nil {
		log.ErrorMessage = entry.Err.Error()
	}

	if meta, ok := audit.RequestFrom(ctx); ok {
		log.ClientIP = meta.ClientIP
		log.UserAgent = meta.UserAgent
	}

	return s.repo.Create(ctx, log)
}

// GetAuditLogs lists the current user's own audit entries. Any ActorID in
// params is replaced.
func (s *AuditLogService) GetAuditLogs(ctx context.Context, params repository.AuditQueryParams) ([]model.AuditLog, int64, error) {
	actor, ok := auth.CurrentUser(ctx)
	if !ok {
		return nil, 0, domain.ErrUnauthorized
	}

	params.ActorID = actor.ID
	logs, total, err := s.repo.Query(ctx, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query audit logs: %w", err)
	}
	return logs, total, nil
}
