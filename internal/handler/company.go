package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dangerclosesec/liaison/internal/service"
	"github.com/go-chi/chi/v5"
)

// CompanyHandler serves company admission.
type CompanyHandler struct {
	companyService *service.CompanyService
}

func NewCompanyHandler(companyService *service.CompanyService) *CompanyHandler {
	return &CompanyHandler{companyService: companyService}
}

// Join handles POST /api/companies/{id}/join
func (h *CompanyHandler) Join(w http.ResponseWriter, r *http.Request) {
	var params service.JoinCompanyParams
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &params); err != nil {
			handleError(w, r, err)
			return
		}
	}

	member, err := h.companyService.Join(r.Context(), chi.URLParam(r, "id"), params)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, member)
}

// RegisterRPC adds companies.joinCompany, whose input is
// {"id": ..., "passphrase": ...}.
func (h *CompanyHandler) RegisterRPC(rpc *RPCHandler) {
	rpc.Handle("companies.joinCompany", func(ctx context.Context, input json.RawMessage) (interface{}, error) {
		var in struct {
			ID string `json:"id"`
			service.JoinCompanyParams
		}
		if err := decodeInput(input, &in); err != nil {
			return nil, err
		}
		return h.companyService.Join(ctx, in.ID, in.JoinCompanyParams)
	})
}
