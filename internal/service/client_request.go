// internal/service/client_request.go
package service

import (
	"github.com/dangerclosesec/liaison/internal/model"
	"github.com/dangerclosesec/liaison/internal/repository"
	"github.com/dangerclosesec/liaison/internal/validation"
	"gorm.io/datatypes"
)

// NewClientRequestParams is the body of a client request create.
type NewClientRequestParams struct {
	ProductID      string               `json:"productId" validate:"required"`
	IsArchived     validation.Bool      `json:"isArchived" validate:"coerced"`
	IsFavorite     validation.Bool      `json:"isFavorite" validate:"coerced"`
	Email          string               `json:"email" validate:"omitempty,email"`
	Counter        validation.Int       `json:"counter" validate:"required,coerced"`
	Fields         datatypes.JSONMap    `json:"fields"`
	ImportanceType model.ImportanceType `json:"importanceType" validate:"required,oneof=HIGH MEDIUM LOW"`
}

func (p NewClientRequestParams) NewRecord(actorID string) *model.ClientRequest {
	return &model.ClientRequest{
		FromClientUserID: actorID,
		ProductID:        p.ProductID,
		IsArchived:       p.IsArchived.Value,
		IsFavorite:       p.IsFavorite.Value,
		Email:            p.Email,
		Counter:          p.Counter.Value,
		Fields:           p.Fields,
		ImportanceType:   p.ImportanceType,
	}
}

// UpdateClientRequestParams replaces every editable column of a client request.
type UpdateClientRequestParams struct {
	ID string `json:"id" validate:"required"`
	NewClientRequestParams
}

func (p UpdateClientRequestParams) RecordID() string { return p.ID }

func (p UpdateClientRequestParams) Apply(rec *model.ClientRequest) {
	rec.ProductID = p.ProductID
	rec.IsArchived = p.IsArchived.Value
	rec.IsFavorite = p.IsFavorite.Value
	rec.Email = p.Email
	rec.Counter = p.Counter.Value
	if p.Fields != nil {
		rec.Fields = p.Fields
	}
	rec.ImportanceType = p.ImportanceType
}

type ClientRequestService = Resource[model.ClientRequest, NewClientRequestParams, UpdateClientRequestParams]

func NewClientRequestService(repo repository.Repository[model.ClientRequest], deps Deps) *ClientRequestService {
	return NewResource[model.ClientRequest, NewClientRequestParams, UpdateClientRequestParams](ResourceConfig[model.ClientRequest]{
		Name: "clientRequest",
		Repo: repo,
		Ownership: OwnedBy("from_client_user_id", "client request", func(r *model.ClientRequest) string {
			return r.FromClientUserID
		}),
	}, deps)
}
