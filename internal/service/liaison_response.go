// internal/service/liaison_response.go
package service

import (
	"context"

	"github.com/dangerclosesec/liaison/internal/auth"
	"github.com/dangerclosesec/liaison/internal/model"
	"github.com/dangerclosesec/liaison/internal/repository"
	"github.com/dangerclosesec/liaison/internal/validation"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type NewLiaisonResponseParams struct {
	OriginatingSupplierResponseID string             `json:"originatingSupplierResponseId" validate:"required"`
	RespondsToClientRequestID     string             `json:"respondsToClientRequestId" validate:"required"`
	Margin                        validation.Decimal `json:"margin" validate:"coerced,money"`
	CostParams
}

func (p NewLiaisonResponseParams) NewRecord(actorID string) *model.LiaisonResponse {
	return &model.LiaisonResponse{
		OriginatingSupplierResponseID: p.OriginatingSupplierResponseID,
		RespondsToClientRequestID:     p.RespondsToClientRequestID,
		FromLiaisonUserID:             actorID,
		Margin:                        p.Margin.Null(),
		CostBreakdown:                 p.breakdown(),
	}
}

type UpdateLiaisonResponseParams struct {
	ID string `json:"id" validate:"required"`
	NewLiaisonResponseParams
}

func (p UpdateLiaisonResponseParams) RecordID() string { return p.ID }

func (p UpdateLiaisonResponseParams) Apply(rec *model.LiaisonResponse) {
	rec.OriginatingSupplierResponseID = p.OriginatingSupplierResponseID
	rec.RespondsToClientRequestID = p.RespondsToClientRequestID
	rec.Margin = p.Margin.Null()
	rec.CostBreakdown = p.breakdown()
}

type LiaisonResponseService = Resource[model.LiaisonResponse, NewLiaisonResponseParams, UpdateLiaisonResponseParams]

var liaisonResponsePreload = []string{"SupplierResponse", "ClientRequest"}

// NewLiaisonResponseService emails the client once their quote exists.
// notifier may be nil.
func NewLiaisonResponseService(repo repository.Repository[model.LiaisonResponse], notifier Notifier, deps Deps) *LiaisonResponseService {
	deps = deps.withDefaults()
	if notifier == nil {
		notifier = NoopNotifier{}
	}

	return NewResource[model.LiaisonResponse, NewLiaisonResponseParams, UpdateLiaisonResponseParams](ResourceConfig[model.LiaisonResponse]{
		Name: "liaisonResponse",
		Repo: repo,
		Ownership: OwnedBy("from_liaison_user_id", "liaison response", func(r *model.LiaisonResponse) string {
			return r.FromLiaisonUserID
		}),
		Preload: liaisonResponsePreload,
		Hooks: Hooks[model.LiaisonResponse]{
			AfterCreate: func(ctx context.Context, _ auth.Identity, rec *model.LiaisonResponse) {
				full, err := repo.First(ctx, repository.Query{ID: rec.ID, Preload: liaisonResponsePreload})
				if err != nil {
					deps.Logger.WarnContext(ctx, "failed to load liaison response for notification",
						"id", rec.ID, "requestID", chimw.GetReqID(ctx), "error", err)
					return
				}
				if err := notifier.QuoteReady(ctx, full.ClientRequest, full); err != nil {
					deps.Logger.WarnContext(ctx, "failed to notify client",
						"id", rec.ID, "requestID", chimw.GetReqID(ctx), "error", err)
				}
			},
		},
	}, deps)
}
