// internal/service/team.go
package service

import (
	"context"

	"github.com/dangerclosesec/liaison/internal/auth"
	"github.com/dangerclosesec/liaison/internal/model"
	"github.com/dangerclosesec/liaison/internal/repository"
)

type NewTeamParams struct {
	Title     string         `json:"title" validate:"required"`
	CompanyID string         `json:"companyId" validate:"required"`
	RoleType  model.RoleType `json:"roleType" validate:"required,oneof=CLIENT OPS SALES ADMIN"`
}

func (p NewTeamParams) NewRecord(string) *model.Team {
	return &model.Team{
		Title:     p.Title,
		CompanyID: p.CompanyID,
		RoleType:  p.RoleType,
	}
}

type UpdateTeamParams struct {
	ID string `json:"id" validate:"required"`
	NewTeamParams
}

func (p UpdateTeamParams) RecordID() string { return p.ID }

func (p UpdateTeamParams) Apply(rec *model.Team) {
	rec.Title = p.Title
	rec.CompanyID = p.CompanyID
	rec.RoleType = p.RoleType
}

type TeamService = Resource[model.Team, NewTeamParams, UpdateTeamParams]

// NewTeamService scopes teams to the ones the user is a member of. The
// creator becomes the team's first admin.
func NewTeamService(repo repository.Repository[model.Team], membership repository.MembershipRepositoryIface, deps Deps) *TeamService {
	return NewResource[model.Team, NewTeamParams, UpdateTeamParams](ResourceConfig[model.Team]{
		Name: "team",
		Repo: repo,
		Ownership: MemberOf[model.Team](func(userID string) repository.Query {
			return repository.Query{Membership: &repository.MembershipScope{
				Table:      model.UsersToTeam{}.TableName(),
				ForeignKey: "team_id",
				UserID:     userID,
			}}
		}, membership.IsTeamMember, "user does not belong to the team"),
		Preload: []string{"Company"},
		Hooks: Hooks[model.Team]{
			Insert: func(ctx context.Context, actor auth.Identity, t *model.Team) error {
				return membership.CreateTeamWithOwner(ctx, t, &model.UsersToTeam{
					UserID:  actor.ID,
					IsAdmin: true,
				})
			},
		},
	}, deps)
}
