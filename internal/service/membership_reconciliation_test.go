package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/dangerclosesec/liaison/internal/mocks"
	"github.com/dangerclosesec/liaison/internal/model"
	"github.com/dangerclosesec/liaison/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/datatypes"
)

func pendingMembers() []model.UsersToCompany {
	acme := &model.Company{ID: "C1", Domains: datatypes.JSONSlice[string]{"acme.test"}}
	return []model.UsersToCompany{
		{ID: "M1", CompanyID: "C1", UserID: "U1", Company: acme, User: &model.User{ID: "U1", Email: "pat@ACME.test"}},
		{ID: "M2", CompanyID: "C1", UserID: "U2", Company: acme, User: &model.User{ID: "U2", Email: "lee@other.test"}},
		{ID: "M3", CompanyID: "C1", UserID: "U3", Company: acme},
	}
}

func TestReconcilePendingApprovesMatchingDomains(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	membership := mocks.NewMockMembershipRepositoryIface(ctrl)
	r := service.NewMembershipReconciler(membership, time.Minute, testDeps().Logger)
	r.SetBatchSize(10)

	membership.EXPECT().FindPendingCompanyMembers(gomock.Any(), 10).Return(pendingMembers(), nil)
	membership.EXPECT().ApproveCompanyMember(gomock.Any(), "M1").Return(nil)

	approved, err := r.ReconcilePending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, approved)
}

func TestReconcilePendingDryRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	membership := mocks.NewMockMembershipRepositoryIface(ctrl)
	r := service.NewMembershipReconciler(membership, time.Minute, testDeps().Logger)
	r.SetDryRun(true)

	membership.EXPECT().FindPendingCompanyMembers(gomock.Any(), 100).Return(pendingMembers(), nil)

	approved, err := r.ReconcilePending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, approved)
}

func TestReconcilerStop(t *testing.T) {
	stopped := func(r *service.MembershipReconciler) <-chan struct{} {
		done := make(chan struct{})
		go func() {
			r.Stop()
			r.Stop()
			close(done)
		}()
		return done
	}

	t.Run("without start", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		r := service.NewMembershipReconciler(mocks.NewMockMembershipRepositoryIface(ctrl), time.Hour, testDeps().Logger)

		select {
		case <-stopped(r):
		case <-time.After(time.Second):
			t.Fatal("Stop blocked")
		}
		r.Start()
	})

	t.Run("after start", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		r := service.NewMembershipReconciler(mocks.NewMockMembershipRepositoryIface(ctrl), time.Hour, testDeps().Logger)
		r.Start()
		r.Start()

		select {
		case <-stopped(r):
		case <-time.After(time.Second):
			t.Fatal("Stop blocked")
		}
	})
}
