// internal/model/response.go
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CostBreakdown is shared by supplier and liaison responses.
type CostBreakdown struct {
	UnitCost       decimal.NullDecimal `gorm:"type:numeric(12,2)" json:"unitCost"`
	PrintPlateCost decimal.NullDecimal `gorm:"type:numeric(12,2)" json:"printPlateCost"`
	DieCost        decimal.NullDecimal `gorm:"type:numeric(12,2)" json:"dieCost"`
	OtherSetupCost decimal.NullDecimal `gorm:"type:numeric(12,2)" json:"otherSetupCost"`
	DeliveryCost   decimal.NullDecimal `gorm:"type:numeric(12,2)" json:"deliveryCost"`
	Tax            decimal.NullDecimal `gorm:"type:numeric(12,2)" json:"tax"`
}

type SupplierResponse struct {
	ID                         string `gorm:"type:varchar(191);primaryKey" json:"id"`
	RespondsToLiaisonRequestID string `gorm:"type:varchar(191);not null" json:"respondsToLiaisonRequestId"`
	FromSupplierUserID         string `gorm:"type:varchar(191);not null;index" json:"fromSupplierUserId"`
	IsApproved                 *bool  `json:"isApproved"`
	Price                      string `gorm:"type:text;not null" json:"price"`
	CostBreakdown              `gorm:"embedded"`
	CreatedAt                  time.Time `json:"createdAt"`
	UpdatedAt                  time.Time `json:"updatedAt"`

	LiaisonRequest *LiaisonRequest `gorm:"foreignKey:RespondsToLiaisonRequestID;constraint:OnDelete:CASCADE" json:"liaisonRequest,omitempty"`
}

func (SupplierResponse) TableName() string { return "supplier_responses" }

func (r SupplierResponse) RecordID() string { return r.ID }

func (r *SupplierResponse) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// LiaisonResponse is the client-facing quote a liaison derives from a
// supplier response.
type LiaisonResponse struct {
	ID                            string              `gorm:"type:varchar(191);primaryKey" json:"id"`
	OriginatingSupplierResponseID string              `gorm:"type:varchar(191);not null" json:"originatingSupplierResponseId"`
	RespondsToClientRequestID     string              `gorm:"type:varchar(191);not null" json:"respondsToClientRequestId"`
	FromLiaisonUserID             string              `gorm:"type:varchar(191);not null;index" json:"fromLiaisonUserId"`
	Margin                        decimal.NullDecimal `gorm:"type:numeric(12,2)" json:"margin"`
	CostBreakdown                 `gorm:"embedded"`
	CreatedAt                     time.Time `json:"createdAt"`
	UpdatedAt                     time.Time `json:"updatedAt"`

	SupplierResponse *SupplierResponse `gorm:"foreignKey:OriginatingSupplierResponseID;constraint:OnDelete:CASCADE" json:"supplierResponse,omitempty"`
	ClientRequest    *ClientRequest    `gorm:"foreignKey:RespondsToClientRequestID;constraint:OnDelete:CASCADE" json:"clientRequest,omitempty"`
}

func (LiaisonResponse) TableName() string { return "liaison_responses" }

func (r LiaisonResponse) RecordID() string { return r.ID }

func (r *LiaisonResponse) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
