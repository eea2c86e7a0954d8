package service_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/dangerclosesec/liaison/internal/auth"
	"github.com/dangerclosesec/liaison/internal/domain"
	"github.com/dangerclosesec/liaison/internal/mocks"
	"github.com/dangerclosesec/liaison/internal/model"
	"github.com/dangerclosesec/liaison/internal/repository"
	"github.com/dangerclosesec/liaison/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/datatypes"
)

func newTestCache(t *testing.T) (*service.CacheService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return service.NewCacheServiceFromClient(client, time.Minute), mr
}

func companyUpdate(id string) service.UpdateCompanyParams {
	return service.UpdateCompanyParams{
		ID:          id,
		Name:        "Acme",
		CompanyType: model.CompanyTypeSupplier,
	}
}

func TestCompanyUpdateByNonMemberIsDenied(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockRepository[model.Company](ctrl)
	membership := mocks.NewMockMembershipRepositoryIface(ctrl)
	svc := service.NewCompanyService(repo, membership, auth.NewPassphraseHasher(), nil, testDeps())

	repo.EXPECT().First(gomock.Any(), repository.Query{ID: "C1"}).Return(&model.Company{ID: "C1", Name: "Acme"}, nil)
	membership.EXPECT().IsCompanyMember(gomock.Any(), "C1", "U2").Return(false, nil)
	// no Update expectation: reaching the store fails the test

	_, err := svc.Update(ctxAs("U2"), "C1", companyUpdate("C1"))

	require.ErrorIs(t, err, domain.ErrAccessDenied)
	var denied *domain.AccessDeniedError
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, "user does not belong to the company", denied.Message)
}

func TestCompanyCreateHashesPassphraseAndAddsOwner(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockRepository[model.Company](ctrl)
	membership := mocks.NewMockMembershipRepositoryIface(ctrl)
	hasher := auth.NewPassphraseHasher()
	svc := service.NewCompanyService(repo, membership, hasher, nil, testDeps())

	membership.EXPECT().
		CreateCompanyWithOwner(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, c *model.Company, owner *model.UsersToCompany) error {
			assert.True(t, auth.IsHashed(c.Passphrase))
			ok, err := hasher.Verify("open sesame", c.Passphrase)
			require.NoError(t, err)
			assert.True(t, ok)

			assert.Equal(t, "U1", owner.UserID)
			assert.True(t, owner.IsApproved)
			assert.True(t, owner.IsAdmin)
			c.ID = "C1"
			return nil
		})

	company, err := svc.Create(ctxAs("U1"), service.NewCompanyParams{
		Name:        "Acme",
		CompanyType: model.CompanyTypeClient,
		Domains:     []string{" Acme.test ", "acme.test"},
		Passphrase:  "open sesame",
	})
	require.NoError(t, err)
	assert.Equal(t, "C1", company.ID)
	assert.Equal(t, datatypes.JSONSlice[string]{"acme.test"}, company.Domains)
}

func TestCompanyJoin(t *testing.T) {
	hasher := auth.NewPassphraseHasher()
	hashed, err := hasher.Hash("open sesame")
	require.NoError(t, err)

	company := &model.Company{ID: "C1", Name: "Acme", Domains: datatypes.JSONSlice[string]{"acme.test"}, Passphrase: hashed}

	tests := []struct {
		name       string
		email      string
		passphrase string
		isMember   bool
		pending    *model.UsersToCompany
		wantErr    error
	}{
		{name: "email domain admitted", email: "pat@acme.test"},
		{name: "passphrase admitted", email: "pat@elsewhere.test", passphrase: "open sesame"},
		{name: "pending membership approved", email: "pat@acme.test", pending: &model.UsersToCompany{ID: "M1", CompanyID: "C1", UserID: "U9"}},
		{name: "wrong passphrase", email: "pat@elsewhere.test", passphrase: "guess", wantErr: domain.ErrAccessDenied},
		{name: "no passphrase", email: "pat@elsewhere.test", wantErr: domain.ErrAccessDenied},
		{name: "already a member", email: "pat@acme.test", isMember: true, wantErr: domain.ErrConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := mocks.NewMockRepository[model.Company](ctrl)
			membership := mocks.NewMockMembershipRepositoryIface(ctrl)
			svc := service.NewCompanyService(repo, membership, hasher, nil, testDeps())

			repo.EXPECT().First(gomock.Any(), repository.Query{ID: "C1"}).Return(company, nil)
			membership.EXPECT().IsCompanyMember(gomock.Any(), "C1", "U9").Return(tt.isMember, nil)
			switch {
			case tt.wantErr != nil:
			case tt.pending != nil:
				membership.EXPECT().FindCompanyMember(gomock.Any(), "C1", "U9").Return(tt.pending, nil)
				membership.EXPECT().ApproveCompanyMember(gomock.Any(), "M1").Return(nil)
			default:
				membership.EXPECT().FindCompanyMember(gomock.Any(), "C1", "U9").
					Return(nil, fmt.Errorf("finding company member: %w", domain.ErrNotFound))
				membership.EXPECT().
					CreateCompanyMember(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, m *model.UsersToCompany) error {
						assert.Equal(t, "U9", m.UserID)
						assert.True(t, m.IsApproved)
						return nil
					})
			}

			ctx := auth.WithUser(context.Background(), auth.Identity{ID: "U9", Email: tt.email})
			member, err := svc.Join(ctx, "C1", service.JoinCompanyParams{Passphrase: tt.passphrase})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "C1", member.CompanyID)
			assert.True(t, member.IsApproved)
		})
	}
}

func TestSelfCreatedMembershipDoesNotGrantCompanyAccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	memberRepo := mocks.NewMockRepository[model.UsersToCompany](ctrl)
	members := service.NewUsersToCompanyService(memberRepo, testDeps())

	var params service.NewUsersToCompanyParams
	require.NoError(t, json.Unmarshal([]byte(`{"companyId":"C1","isApproved":true,"isAdmin":true}`), &params))

	memberRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, m *model.UsersToCompany) error {
			assert.Equal(t, "U2", m.UserID)
			assert.False(t, m.IsApproved)
			assert.False(t, m.IsAdmin)
			m.ID = "M2"
			return nil
		})
	_, err := members.Create(ctxAs("U2"), params)
	require.NoError(t, err)

	t.Run("update keeps stored flags", func(t *testing.T) {
		var update service.UpdateUsersToCompanyParams
		require.NoError(t, json.Unmarshal([]byte(`{"id":"M2","companyId":"C1","isApproved":true,"isAdmin":true}`), &update))

		rec := &model.UsersToCompany{ID: "M2", CompanyID: "C1", UserID: "U2"}
		update.Apply(rec)
		assert.False(t, rec.IsApproved)
		assert.False(t, rec.IsAdmin)

		approved := &model.UsersToCompany{ID: "M3", CompanyID: "C1", UserID: "U3", IsApproved: true, IsAdmin: true}
		update.Apply(approved)
		assert.True(t, approved.IsApproved)
		assert.True(t, approved.IsAdmin)

		update.CompanyID = "C2"
		update.Apply(approved)
		assert.False(t, approved.IsApproved, "approval does not move to another company")
	})

	t.Run("pending member cannot update the company", func(t *testing.T) {
		repo := mocks.NewMockRepository[model.Company](ctrl)
		membership := mocks.NewMockMembershipRepositoryIface(ctrl)
		companies := service.NewCompanyService(repo, membership, auth.NewPassphraseHasher(), nil, testDeps())

		repo.EXPECT().First(gomock.Any(), repository.Query{ID: "C1"}).Return(&model.Company{ID: "C1", Name: "Acme"}, nil)
		membership.EXPECT().IsCompanyMember(gomock.Any(), "C1", "U2").Return(false, nil)

		_, err := companies.Update(ctxAs("U2"), "C1", companyUpdate("C1"))
		require.ErrorIs(t, err, domain.ErrAccessDenied)
	})
}

func TestCompanyDirectoryIsCached(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockRepository[model.Company](ctrl)
	membership := mocks.NewMockMembershipRepositoryIface(ctrl)
	cache, mr := newTestCache(t)
	svc := service.NewCompanyService(repo, membership, auth.NewPassphraseHasher(), cache, testDeps())

	repo.EXPECT().
		Find(gomock.Any(), repository.Query{}).
		Return([]model.Company{{ID: "C1", Name: "Acme"}}, nil).
		Times(1)

	first, err := svc.List(ctxAs("U1"))
	require.NoError(t, err)
	second, err := svc.List(ctxAs("U2"))
	require.NoError(t, err)

	assert.Equal(t, first[0].ID, second[0].ID)
	assert.True(t, mr.Exists("companies:all"))

	t.Run("mutation invalidates", func(t *testing.T) {
		repo.EXPECT().First(gomock.Any(), repository.Query{ID: "C1"}).Return(&model.Company{ID: "C1"}, nil).Times(2)
		membership.EXPECT().IsCompanyMember(gomock.Any(), "C1", "U1").Return(true, nil)
		repo.EXPECT().Update(gomock.Any(), "C1", gomock.Any()).Return(nil)

		_, err := svc.Update(ctxAs("U1"), "C1", companyUpdate("C1"))
		require.NoError(t, err)

		assert.False(t, mr.Exists("companies:all"))
	})
}
