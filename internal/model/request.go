// internal/model/request.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ImportanceType string

const (
	ImportanceHigh   ImportanceType = "HIGH"
	ImportanceMedium ImportanceType = "MEDIUM"
	ImportanceLow    ImportanceType = "LOW"
)

type ClientRequest struct {
	ID               string            `gorm:"type:varchar(191);primaryKey" json:"id"`
	FromClientUserID string            `gorm:"type:varchar(191);not null;index" json:"fromClientUserId"`
	ProductID        string            `gorm:"type:varchar(191);not null" json:"productId"`
	IsArchived       bool              `gorm:"not null" json:"isArchived"`
	IsFavorite       bool              `gorm:"not null" json:"isFavorite"`
	Email            string            `gorm:"type:text;not null" json:"email"`
	Counter          int               `gorm:"not null" json:"counter"`
	Fields           datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"fields"`
	ImportanceType   ImportanceType    `gorm:"type:importance_type;not null" json:"importanceType"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

func (ClientRequest) TableName() string { return "client_requests" }

func (r ClientRequest) RecordID() string { return r.ID }

func (r *ClientRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Fields == nil {
		r.Fields = datatypes.JSONMap{}
	}
	return nil
}

// LiaisonRequest is a client request forwarded by a liaison to one supplier.
type LiaisonRequest struct {
	ID                         string    `gorm:"type:varchar(191);primaryKey" json:"id"`
	FromLiaisonUserID          string    `gorm:"type:varchar(191);not null;index" json:"fromLiaisonUserId"`
	OriginatingClientRequestID string    `gorm:"type:varchar(191);not null" json:"originatingClientRequestId"`
	ForwardedToSupplierID      string    `gorm:"type:varchar(191);not null" json:"forwardedToSupplierId"`
	Notes                      string    `gorm:"type:text;not null" json:"notes"`
	CreatedAt                  time.Time `json:"createdAt"`
	UpdatedAt                  time.Time `json:"updatedAt"`

	ClientRequest *ClientRequest `gorm:"foreignKey:OriginatingClientRequestID;constraint:OnDelete:CASCADE" json:"clientRequest,omitempty"`
	Company       *Company       `gorm:"foreignKey:ForwardedToSupplierID;constraint:OnDelete:CASCADE" json:"company,omitempty"`
}

func (LiaisonRequest) TableName() string { return "liaison_requests" }

func (r LiaisonRequest) RecordID() string { return r.ID }

func (r *LiaisonRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
