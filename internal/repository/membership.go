// internal/repository/membership.go
package repository

import (
	"context"
	"fmt"

	"github.com/dangerclosesec/liaison/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MembershipRepositoryIface interface {
	IsCompanyMember(ctx context.Context, companyID, userID string) (bool, error)
	IsTeamMember(ctx context.Context, teamID, userID string) (bool, error)
	FindCompanyMember(ctx context.Context, companyID, userID string) (*model.UsersToCompany, error)
	CreateCompanyMember(ctx context.Context, member *model.UsersToCompany) error
	CreateCompanyWithOwner(ctx context.Context, company *model.Company, owner *model.UsersToCompany) error
	CreateTeamWithOwner(ctx context.Context, team *model.Team, owner *model.UsersToTeam) error
	FindPendingCompanyMembers(ctx context.Context, limit int) ([]model.UsersToCompany, error)
	ApproveCompanyMember(ctx context.Context, id string) error
}

type MembershipRepository struct {
	db *gorm.DB
}

func NewMembershipRepository(db *gorm.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

// begin starts a transaction and returns the gorm handle with its wrapper.
func (r *MembershipRepository) begin(ctx context.Context) (*gorm.DB, Transaction, error) {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, nil, storeError("beginning transaction", tx.Error)
	}
	return tx, &gormTransaction{tx: tx}, nil
}

// IsCompanyMember reports whether userID holds an approved membership.
// Pending rows do not count.
func (r *MembershipRepository) IsCompanyMember(ctx context.Context, companyID, userID string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&model.UsersToCompany{}).
		Where("company_id = ? AND user_id = ? AND is_approved = ?", companyID, userID, true).
		Count(&count)
	if result.Error != nil {
		return false, storeError("checking company membership", result.Error)
	}
	return count > 0, nil
}

func (r *MembershipRepository) IsTeamMember(ctx context.Context, teamID, userID string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&model.UsersToTeam{}).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Count(&count)
	if result.Error != nil {
		return false, storeError("checking team membership", result.Error)
	}
	return count > 0, nil
}

func (r *MembershipRepository) FindCompanyMember(ctx context.Context, companyID, userID string) (*model.UsersToCompany, error) {
	var member model.UsersToCompany
	result := r.db.WithContext(ctx).
		Where("company_id = ? AND user_id = ?", companyID, userID).
		Take(&member)
	if result.Error != nil {
		return nil, storeError("finding company member", result.Error)
	}
	return &member, nil
}

func (r *MembershipRepository) CreateCompanyMember(ctx context.Context, member *model.UsersToCompany) error {
	result := r.db.WithContext(ctx).Omit(clause.Associations).Create(member)
	if result.Error != nil {
		return storeError("creating company member", result.Error)
	}
	return nil
}

// CreateCompanyWithOwner inserts the company and the creator's membership in
// one transaction.
func (r *MembershipRepository) CreateCompanyWithOwner(ctx context.Context, company *model.Company, owner *model.UsersToCompany) error {
	tx, t, err := r.begin(ctx)
	if err != nil {
		return err
	}

	if err := tx.Omit(clause.Associations).Create(company).Error; err != nil {
		_ = t.Rollback()
		return storeError("creating companies", err)
	}

	owner.CompanyID = company.ID
	if err := tx.Omit(clause.Associations).Create(owner).Error; err != nil {
		_ = t.Rollback()
		return storeError("creating company owner", err)
	}

	if err := t.Commit(); err != nil {
		return storeError("committing company", err)
	}
	return nil
}

// CreateTeamWithOwner inserts the team and the creator's membership in one
// transaction.
func (r *MembershipRepository) CreateTeamWithOwner(ctx context.Context, team *model.Team, owner *model.UsersToTeam) error {
	tx, t, err := r.begin(ctx)
	if err != nil {
		return err
	}

	if err := tx.Omit(clause.Associations).Create(team).Error; err != nil {
		_ = t.Rollback()
		return storeError("creating teams", err)
	}

	owner.TeamID = team.ID
	if err := tx.Omit(clause.Associations).Create(owner).Error; err != nil {
		_ = t.Rollback()
		return storeError("creating team owner", err)
	}

	if err := t.Commit(); err != nil {
		return storeError("committing team", err)
	}
	return nil
}

// FindPendingCompanyMembers returns unapproved memberships with their user
// and company loaded.
func (r *MembershipRepository) FindPendingCompanyMembers(ctx context.Context, limit int) ([]model.UsersToCompany, error) {
	var members []model.UsersToCompany
	result := r.db.WithContext(ctx).
		Preload("Company").
		Preload("User").
		Where("is_approved = ?", false).
		Order("created_at ASC").
		Limit(limit).
		Find(&members)
	if result.Error != nil {
		return nil, storeError("finding pending company members", result.Error)
	}
	return members, nil
}

func (r *MembershipRepository) ApproveCompanyMember(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Model(&model.UsersToCompany{}).
		Where("id = ?", id).
		Update("is_approved", true)
	if result.Error != nil {
		return storeError(fmt.Sprintf("approving company member %s", id), result.Error)
	}
	return nil
}
