// internal/service/supplier_response.go
package service

import (
	"github.com/dangerclosesec/liaison/internal/model"
	"github.com/dangerclosesec/liaison/internal/repository"
	"github.com/dangerclosesec/liaison/internal/validation"
)

// CostParams is the cost breakdown shared by supplier and liaison responses.
// Empty values are stored as NULL.
type CostParams struct {
	UnitCost       validation.Decimal `json:"unitCost" validate:"coerced,money"`
	PrintPlateCost validation.Decimal `json:"printPlateCost" validate:"coerced,money"`
	DieCost        validation.Decimal `json:"dieCost" validate:"coerced,money"`
	OtherSetupCost validation.Decimal `json:"otherSetupCost" validate:"coerced,money"`
	DeliveryCost   validation.Decimal `json:"deliveryCost" validate:"coerced,money"`
	Tax            validation.Decimal `json:"tax" validate:"coerced,money"`
}

func (p CostParams) breakdown() model.CostBreakdown {
	return model.CostBreakdown{
		UnitCost:       p.UnitCost.Null(),
		PrintPlateCost: p.PrintPlateCost.Null(),
		DieCost:        p.DieCost.Null(),
		OtherSetupCost: p.OtherSetupCost.Null(),
		DeliveryCost:   p.DeliveryCost.Null(),
		Tax:            p.Tax.Null(),
	}
}

type NewSupplierResponseParams struct {
	RespondsToLiaisonRequestID string          `json:"respondsToLiaisonRequestId" validate:"required"`
	IsApproved                 validation.Bool `json:"isApproved" validate:"coerced"`
	Price                      string          `json:"price"`
	CostParams
}

func (p NewSupplierResponseParams) NewRecord(actorID string) *model.SupplierResponse {
	return &model.SupplierResponse{
		RespondsToLiaisonRequestID: p.RespondsToLiaisonRequestID,
		FromSupplierUserID:         actorID,
		IsApproved:                 p.IsApproved.Ptr(),
		Price:                      p.Price,
		CostBreakdown:              p.breakdown(),
	}
}

type UpdateSupplierResponseParams struct {
	ID string `json:"id" validate:"required"`
	NewSupplierResponseParams
}

func (p UpdateSupplierResponseParams) RecordID() string { return p.ID }

func (p UpdateSupplierResponseParams) Apply(rec *model.SupplierResponse) {
	rec.RespondsToLiaisonRequestID = p.RespondsToLiaisonRequestID
	rec.IsApproved = p.IsApproved.Ptr()
	rec.Price = p.Price
	rec.CostBreakdown = p.breakdown()
}

type SupplierResponseService = Resource[model.SupplierResponse, NewSupplierResponseParams, UpdateSupplierResponseParams]

func NewSupplierResponseService(repo repository.Repository[model.SupplierResponse], deps Deps) *SupplierResponseService {
	return NewResource[model.SupplierResponse, NewSupplierResponseParams, UpdateSupplierResponseParams](ResourceConfig[model.SupplierResponse]{
		Name: "supplierResponse",
		Repo: repo,
		Ownership: OwnedBy("from_supplier_user_id", "supplier response", func(r *model.SupplierResponse) string {
			return r.FromSupplierUserID
		}),
		Preload: []string{"LiaisonRequest"},
	}, deps)
}
