// internal/service/memberships.go
package service

import (
	"github.com/dangerclosesec/liaison/internal/model"
	"github.com/dangerclosesec/liaison/internal/repository"
	"github.com/dangerclosesec/liaison/internal/validation"
)

// NewUsersToCompanyParams requests a membership. It starts pending and
// without admin rights; approval comes from Join or the reconciler.
type NewUsersToCompanyParams struct {
	CompanyID     string          `json:"companyId" validate:"required"`
	IsOmnipresent validation.Bool `json:"isOmnipresent" validate:"coerced"`
}

func (p NewUsersToCompanyParams) NewRecord(actorID string) *model.UsersToCompany {
	return &model.UsersToCompany{
		CompanyID:     p.CompanyID,
		UserID:        actorID,
		IsOmnipresent: p.IsOmnipresent.Value,
	}
}

type UpdateUsersToCompanyParams struct {
	ID string `json:"id" validate:"required"`
	NewUsersToCompanyParams
}

func (p UpdateUsersToCompanyParams) RecordID() string { return p.ID }

// Apply keeps the stored approval and admin flags.
func (p UpdateUsersToCompanyParams) Apply(rec *model.UsersToCompany) {
	if rec.CompanyID != p.CompanyID {
		rec.IsApproved = false
		rec.IsAdmin = false
	}
	rec.CompanyID = p.CompanyID
	rec.IsOmnipresent = p.IsOmnipresent.Value
}

type UsersToCompanyService = Resource[model.UsersToCompany, NewUsersToCompanyParams, UpdateUsersToCompanyParams]

func NewUsersToCompanyService(repo repository.Repository[model.UsersToCompany], deps Deps) *UsersToCompanyService {
	return NewResource[model.UsersToCompany, NewUsersToCompanyParams, UpdateUsersToCompanyParams](ResourceConfig[model.UsersToCompany]{
		Name: "usersToCompany",
		Repo: repo,
		Ownership: OwnedBy("user_id", "company membership", func(m *model.UsersToCompany) string {
			return m.UserID
		}),
		Preload: []string{"Company"},
	}, deps)
}

type NewUsersToTeamParams struct {
	TeamID  string          `json:"teamId" validate:"required"`
	IsAdmin validation.Bool `json:"isAdmin" validate:"coerced"`
}

func (p NewUsersToTeamParams) NewRecord(actorID string) *model.UsersToTeam {
	return &model.UsersToTeam{
		TeamID:  p.TeamID,
		UserID:  actorID,
		IsAdmin: p.IsAdmin.Value,
	}
}

type UpdateUsersToTeamParams struct {
	ID string `json:"id" validate:"required"`
	NewUsersToTeamParams
}

func (p UpdateUsersToTeamParams) RecordID() string { return p.ID }

func (p UpdateUsersToTeamParams) Apply(rec *model.UsersToTeam) {
	rec.TeamID = p.TeamID
	rec.IsAdmin = p.IsAdmin.Value
}

type UsersToTeamService = Resource[model.UsersToTeam, NewUsersToTeamParams, UpdateUsersToTeamParams]

func NewUsersToTeamService(repo repository.Repository[model.UsersToTeam], deps Deps) *UsersToTeamService {
	return NewResource[model.UsersToTeam, NewUsersToTeamParams, UpdateUsersToTeamParams](ResourceConfig[model.UsersToTeam]{
		Name: "usersToTeam",
		Repo: repo,
		Ownership: OwnedBy("user_id", "team membership", func(m *model.UsersToTeam) string {
			return m.UserID
		}),
		Preload: []string{"Team"},
	}, deps)
}
