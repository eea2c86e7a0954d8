package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/dangerclosesec/liaison/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuditLogRepositoryIface interface {
	Create(ctx context.Context, log *model.AuditLog) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.AuditLog, error)
	Query(ctx context.Context, params AuditQueryParams) ([]model.AuditLog, int64, error)
}

// AuditLogRepository handles database operations for audit logs
type AuditLogRepository struct {
	db *gorm.DB
}

// NewAuditLogRepository creates a new AuditLogRepository
func NewAuditLogRepository(db *gorm.DB) *AuditLogRepository {
	return &AuditLogRepository{
		db: db,
	}
}

// Create inserts a new audit log entry
func (r *AuditLogRepository) Create(ctx context.Context, log *model.AuditLog) error {
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}

	if log.Timestamp.IsZero() {
		log.Timestamp = time.Now().UTC()
	}

	result := r.db.WithContext(ctx).Create(log)
	if result.Error != nil {
		return fmt.Errorf("failed to create audit log: %w", result.Error)
	}

	return nil
}

// FindByID retrieves an audit log entry by its ID
func (r *AuditLogRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.AuditLog, error) {
	var log model.AuditLog
	result := r.db.WithContext(ctx).Where("id = ?", id).Take(&log)
	if result.Error != nil {
		return nil, storeError("finding audit log", result.Error)
	}

	return &log, nil
}

// AuditQueryParams holds parameters for querying audit logs
type AuditQueryParams struct {
	ActorID    string
	Action     string
	EntityType string
	EntityID   string
	Result     *bool
	StartTime  time.Time
	EndTime    time.Time
	Limit      int
	Offset     int
}

// Query retrieves audit logs based on the provided query parameters
func (r *AuditLogRepository) Query(ctx context.Context, params AuditQueryParams) ([]model.AuditLog, int64, error) {
	var logs []model.AuditLog
	var count int64

	query := r.db.WithContext(ctx).Model(&model.AuditLog{})

	if params.ActorID != "" {
		query = query.Where("actor_id = ?", params.ActorID)
	}
	if params.Action != "" {
		query = query.Where("action = ?", params.Action)
	}
	if params.EntityType != "" {
		query = query.Where("entity_type = ?", params.EntityType)
	}
	if params.EntityID != "" {
		query = query.Where("entity_id = ?", params.EntityID)
	}
	if params.Result != nil {
		query = query.Where("result = ?", *params.Result)
	}
	if !params.StartTime.IsZero() {
		query = query.Where("timestamp >= ?", params.StartTime)
	}
	if !params.EndTime.IsZero() {
		query = query.Where("timestamp <= ?", params.EndTime)
	}

	if err := query.Count(&count).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count audit logs: %w", err)
	}

	if params.Limit > 0 {
		query = query.Limit(params.Limit)
	} else {
		query = query.Limit(100) // Default limit
	}

	if params.Offset > 0 {
		query = query.Offset(params.Offset)
	}

	result := query.Order("timestamp DESC").Find(&logs)
	if result.Error != nil {
		return nil, 0, fmt.Errorf("failed to query audit logs: %w", result.Error)
	}

	return logs, count, nil
}
