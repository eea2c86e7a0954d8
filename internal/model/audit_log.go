package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AuditLog records one mutation attempt against an entity.
type AuditLog struct {
	ID           uuid.UUID         `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Timestamp    time.Time         `json:"timestamp" gorm:"default:CURRENT_TIMESTAMP"`
	Action       string            `json:"action"`
	EntityType   string            `json:"entityType"`
	EntityID     string            `json:"entityId"`
	ActorID      string            `json:"actorId"`
	Result       bool              `json:"result"`
	ErrorMessage string            `json:"errorMessage,omitempty"`
	Context      datatypes.JSONMap `json:"context,omitempty" gorm:"type:jsonb"`
	RequestID    string            `json:"requestId"`
	ClientIP     string            `json:"clientIp"`
	UserAgent    string            `json:"userAgent"`
	CreatedAt    time.Time         `json:"createdAt" gorm:"default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time         `json:"updatedAt" gorm:"default:CURRENT_TIMESTAMP"`
}

// TableName specifies the table name for AuditLog
func (AuditLog) TableName() string {
	return "audit_logs"
}

// Audited actions
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionJoin   = "join"
)
