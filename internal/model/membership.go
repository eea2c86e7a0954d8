// internal/model/membership.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UsersToCompany links a user to a company. The row has its own id for the
// API while (user_id, company_id) stays the primary key.
type UsersToCompany struct {
	ID            string    `gorm:"type:varchar(191);uniqueIndex;not null" json:"id"`
	CompanyID     string    `gorm:"type:varchar(191);primaryKey" json:"companyId"`
	UserID        string    `gorm:"type:varchar(191);primaryKey" json:"userId"`
	IsApproved    bool      `gorm:"not null" json:"isApproved"`
	IsAdmin       bool      `gorm:"not null" json:"isAdmin"`
	IsOmnipresent bool      `gorm:"not null" json:"isOmnipresent"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`

	Company *Company `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE" json:"company,omitempty"`
	User    *User    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (UsersToCompany) TableName() string { return "users_to_companies" }

func (m UsersToCompany) RecordID() string { return m.ID }

func (m *UsersToCompany) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

type UsersToTeam struct {
	ID        string    `gorm:"type:varchar(191);uniqueIndex;not null" json:"id"`
	TeamID    string    `gorm:"type:varchar(191);primaryKey" json:"teamId"`
	UserID    string    `gorm:"type:varchar(191);primaryKey" json:"userId"`
	IsAdmin   bool      `gorm:"not null" json:"isAdmin"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Team *Team `gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE" json:"team,omitempty"`
}

func (UsersToTeam) TableName() string { return "users_to_teams" }

func (m UsersToTeam) RecordID() string { return m.ID }

func (m *UsersToTeam) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
