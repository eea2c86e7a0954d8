// internal/service/liaison_request.go
package service

import (
	"context"

	"github.com/dangerclosesec/liaison/internal/auth"
	"github.com/dangerclosesec/liaison/internal/model"
	"github.com/dangerclosesec/liaison/internal/repository"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type NewLiaisonRequestParams struct {
	OriginatingClientRequestID string `json:"originatingClientRequestId" validate:"required"`
	ForwardedToSupplierID      string `json:"forwardedToSupplierId" validate:"required"`
	Notes                      string `json:"notes"`
}

func (p NewLiaisonRequestParams) NewRecord(actorID string) *model.LiaisonRequest {
	return &model.LiaisonRequest{
		FromLiaisonUserID:          actorID,
		OriginatingClientRequestID: p.OriginatingClientRequestID,
		ForwardedToSupplierID:      p.ForwardedToSupplierID,
		Notes:                      p.Notes,
	}
}

type UpdateLiaisonRequestParams struct {
	ID string `json:"id" validate:"required"`
	NewLiaisonRequestParams
}

func (p UpdateLiaisonRequestParams) RecordID() string { return p.ID }

func (p UpdateLiaisonRequestParams) Apply(rec *model.LiaisonRequest) {
	rec.OriginatingClientRequestID = p.OriginatingClientRequestID
	rec.ForwardedToSupplierID = p.ForwardedToSupplierID
	rec.Notes = p.Notes
}

type LiaisonRequestService = Resource[model.LiaisonRequest, NewLiaisonRequestParams, UpdateLiaisonRequestParams]

var liaisonRequestPreload = []string{"ClientRequest", "Company"}

// NewLiaisonRequestService emails the supplier company after every forwarded
// request. notifier may be nil.
func NewLiaisonRequestService(repo repository.Repository[model.LiaisonRequest], notifier Notifier, deps Deps) *LiaisonRequestService {
	deps = deps.withDefaults()
	if notifier == nil {
		notifier = NoopNotifier{}
	}

	return NewResource[model.LiaisonRequest, NewLiaisonRequestParams, UpdateLiaisonRequestParams](ResourceConfig[model.LiaisonRequest]{
		Name: "liaisonRequest",
		Repo: repo,
		Ownership: OwnedBy("from_liaison_user_id", "liaison request", func(r *model.LiaisonRequest) string {
			return r.FromLiaisonUserID
		}),
		Preload: liaisonRequestPreload,
		Hooks: Hooks[model.LiaisonRequest]{
			AfterCreate: func(ctx context.Context, _ auth.Identity, rec *model.LiaisonRequest) {
				full, err := repo.First(ctx, repository.Query{ID: rec.ID, Preload: liaisonRequestPreload})
				if err != nil {
					deps.Logger.WarnContext(ctx, "failed to load liaison request for notification",
						"id", rec.ID, "requestID", chimw.GetReqID(ctx), "error", err)
					return
				}
				if err := notifier.SupplierRequestForwarded(ctx, full.Company, full, full.ClientRequest); err != nil {
					deps.Logger.WarnContext(ctx, "failed to notify supplier",
						"id", rec.ID, "requestID", chimw.GetReqID(ctx), "error", err)
				}
			},
		},
	}, deps)
}
