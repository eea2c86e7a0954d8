// internal/model/company.go
package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CompanyType string

const (
	CompanyTypeClient   CompanyType = "CLIENT"
	CompanyTypeSupplier CompanyType = "SUPPLIER"
	CompanyTypeLiaison  CompanyType = "LIAISON"
)

type Company struct {
	ID              string                      `gorm:"type:varchar(191);primaryKey" json:"id"`
	Name            string                      `gorm:"type:text;not null" json:"name"`
	CompanyType     CompanyType                 `gorm:"type:company_type;not null" json:"companyType"`
	Email           string                      `gorm:"type:text;not null" json:"email"`
	PhoneNumber     string                      `gorm:"type:text;not null" json:"phoneNumber"`
	WebsiteURL      string                      `gorm:"type:text;not null" json:"websiteUrl"`
	BillingAddress  string                      `gorm:"type:text;not null" json:"billingAddress"`
	ShippingAddress string                      `gorm:"type:text;not null" json:"shippingAddress"`
	Domains         datatypes.JSONSlice[string] `gorm:"type:jsonb;not null;default:'[]'" json:"domains"`
	// Passphrase holds the argon2id hash, never the plaintext.
	Passphrase string    `gorm:"type:text;not null" json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (Company) TableName() string { return "companies" }

func (c Company) RecordID() string { return c.ID }

// BeforeCreate hook for Company
func (c *Company) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Domains == nil {
		c.Domains = datatypes.JSONSlice[string]{}
	}

	switch c.CompanyType {
	case CompanyTypeClient, CompanyTypeSupplier, CompanyTypeLiaison:
		return nil
	default:
		return fmt.Errorf("invalid company type: %s", c.CompanyType)
	}
}

type RoleType string

const (
	RoleTypeClient RoleType = "CLIENT"
	RoleTypeOps    RoleType = "OPS"
	RoleTypeSales  RoleType = "SALES"
	RoleTypeAdmin  RoleType = "ADMIN"
)

type Team struct {
	ID        string    `gorm:"type:varchar(191);primaryKey" json:"id"`
	Title     string    `gorm:"type:text;not null" json:"title"`
	CompanyID string    `gorm:"type:varchar(191);not null" json:"companyId"`
	RoleType  RoleType  `gorm:"type:role_type;not null" json:"roleType"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Company *Company `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE" json:"company,omitempty"`
}

func (Team) TableName() string { return "teams" }

func (t Team) RecordID() string { return t.ID }

func (t *Team) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
