package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dangerclosesec/liaison/internal/auth"
	"github.com/dangerclosesec/liaison/internal/domain"
	"github.com/dangerclosesec/liaison/internal/mocks"
	"github.com/dangerclosesec/liaison/internal/model"
	"github.com/dangerclosesec/liaison/internal/repository"
	"github.com/dangerclosesec/liaison/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// fakeClientRequests records the arguments it was called with and returns err
// when set.
type fakeClientRequests struct {
	err        error
	rows       []model.ClientRequest
	lastID     string
	lastCreate service.NewClientRequestParams
	lastUpdate service.UpdateClientRequestParams
}

func (f *fakeClientRequests) List(context.Context) ([]model.ClientRequest, error) {
	return f.rows, f.err
}

func (f *fakeClientRequests) Get(_ context.Context, id string) (*model.ClientRequest, error) {
	f.lastID = id
	if f.err != nil {
		return nil, f.err
	}
	return &model.ClientRequest{ID: id}, nil
}

func (f *fakeClientRequests) Create(_ context.Context, p service.NewClientRequestParams) (*model.ClientRequest, error) {
	f.lastCreate = p
	if f.err != nil {
		return nil, f.err
	}
	return p.NewRecord("U1"), nil
}

func (f *fakeClientRequests) Update(_ context.Context, id string, p service.UpdateClientRequestParams) (*model.ClientRequest, error) {
	f.lastID = id
	f.lastUpdate = p
	if f.err != nil {
		return nil, f.err
	}
	return &model.ClientRequest{ID: id, ProductID: p.ProductID}, nil
}

func (f *fakeClientRequests) Delete(_ context.Context, id string) (*model.ClientRequest, error) {
	f.lastID = id
	if f.err != nil {
		return nil, f.err
	}
	return &model.ClientRequest{ID: id}, nil
}

func newTestRouter(svc *fakeClientRequests) http.Handler {
	r := chi.NewRouter()
	r.Route("/api/clientRequests", NewResourceHandler[model.ClientRequest, service.NewClientRequestParams, service.UpdateClientRequestParams](svc).Register)

	rpc := NewRPCHandler()
	RegisterResource[model.ClientRequest, service.NewClientRequestParams, service.UpdateClientRequestParams](rpc, "clientRequests", "ClientRequest", "ClientRequests", svc)
	r.Post("/rpc/{procedure}", rpc.ServeHTTP)
	return r
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestResourceHandlerCreate(t *testing.T) {
	svc := &fakeClientRequests{}
	h := newTestRouter(svc)

	rec := do(t, h, http.MethodPost, "/api/clientRequests", `{"productId":"P1","importanceType":"HIGH","counter":"3","isFavorite":"on"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	var row model.ClientRequest
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&row))
	assert.Equal(t, "P1", row.ProductID)
	assert.Equal(t, 3, row.Counter)
	assert.True(t, row.IsFavorite)
}

func TestResourceHandlerErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		method     string
		target     string
		body       string
		wantStatus int
		wantError  string
	}{
		{
			name:       "validation",
			err:        domain.NewValidationError("productId", "productId is a required field"),
			method:     http.MethodPost,
			target:     "/api/clientRequests",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "validation failed",
		},
		{
			name:       "malformed body",
			method:     http.MethodPost,
			target:     "/api/clientRequests",
			body:       `{"productId":`,
			wantStatus: http.StatusBadRequest,
			wantError:  "validation failed",
		},
		{
			name:       "access denied",
			err:        &domain.AccessDeniedError{Message: "user does not own the client request"},
			method:     http.MethodPut,
			target:     "/api/clientRequests?id=CR1",
			body:       `{"id":"CR1"}`,
			wantStatus: http.StatusForbidden,
			wantError:  "user does not own the client request",
		},
		{
			name:       "not found",
			err:        domain.ErrNotFound,
			method:     http.MethodDelete,
			target:     "/api/clientRequests?id=CR1",
			wantStatus: http.StatusNotFound,
			wantError:  "not found",
		},
		{
			name:       "unauthorized",
			err:        domain.ErrUnauthorized,
			method:     http.MethodGet,
			target:     "/api/clientRequests",
			wantStatus: http.StatusUnauthorized,
			wantError:  "unauthorized",
		},
		{
			name:       "store failure",
			err:        &domain.StoreError{Op: "listing client_requests", Err: errors.New("connection refused")},
			method:     http.MethodGet,
			target:     "/api/clientRequests",
			wantStatus: http.StatusInternalServerError,
			wantError:  "listing client_requests failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestRouter(&fakeClientRequests{err: tt.err})

			rec := do(t, h, tt.method, tt.target, tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.wantError, body.Error)
			if tt.wantStatus == http.StatusBadRequest {
				assert.NotEmpty(t, body.Fields)
			}
		})
	}
}

func TestResourceHandlerRoutesIDs(t *testing.T) {
	svc := &fakeClientRequests{}
	h := newTestRouter(svc)

	rec := do(t, h, http.MethodPut, "/api/clientRequests?id=CR7", `{"id":"CR7","productId":"P2","counter":1,"importanceType":"LOW"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "CR7", svc.lastID)
	assert.Equal(t, "CR7", svc.lastUpdate.ID)
	assert.Equal(t, "P2", svc.lastUpdate.ProductID)

	rec = do(t, h, http.MethodGet, "/api/clientRequests/CR8", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "CR8", svc.lastID)

	rec = do(t, h, http.MethodGet, "/api/clientRequests", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestRPCHandler(t *testing.T) {
	t.Run("create", func(t *testing.T) {
		h := newTestRouter(&fakeClientRequests{})

		rec := do(t, h, http.MethodPost, "/rpc/clientRequests.createClientRequest", `{"productId":"P1","importanceType":"HIGH","counter":0}`)

		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Result struct {
				Data model.ClientRequest `json:"data"`
			} `json:"result"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "P1", body.Result.Data.ProductID)
	})

	t.Run("get by id", func(t *testing.T) {
		svc := &fakeClientRequests{}
		h := newTestRouter(svc)

		rec := do(t, h, http.MethodPost, "/rpc/clientRequests.getClientRequestById", `{"id":"CR3"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "CR3", svc.lastID)
	})

	t.Run("forbidden", func(t *testing.T) {
		h := newTestRouter(&fakeClientRequests{err: &domain.AccessDeniedError{Message: "user does not own the client request"}})

		rec := do(t, h, http.MethodPost, "/rpc/clientRequests.deleteClientRequest", `{"id":"CR3"}`)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.JSONEq(t, `{"error":{"message":"user does not own the client request","code":"FORBIDDEN"}}`, rec.Body.String())
	})

	t.Run("unknown procedure", func(t *testing.T) {
		h := newTestRouter(&fakeClientRequests{})

		rec := do(t, h, http.MethodPost, "/rpc/clientRequests.explode", `{}`)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("list without body", func(t *testing.T) {
		h := newTestRouter(&fakeClientRequests{rows: []model.ClientRequest{{ID: "CR1"}}})

		rec := do(t, h, http.MethodPost, "/rpc/clientRequests.getClientRequests", "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"id":"CR1"`)
	})
}

func TestRPCProcedureNames(t *testing.T) {
	rpc := NewRPCHandler()
	RegisterResource[model.ClientRequest, service.NewClientRequestParams, service.UpdateClientRequestParams](rpc, "clientRequests", "ClientRequest", "ClientRequests", &fakeClientRequests{})

	assert.Equal(t, []string{
		"clientRequests.createClientRequest",
		"clientRequests.deleteClientRequest",
		"clientRequests.getClientRequestById",
		"clientRequests.getClientRequests",
		"clientRequests.updateClientRequest",
	}, rpc.Procedures())
}

func TestGetAuditLogs(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockAuditLogRepositoryIface(ctrl)
	h := NewAuditLogHandler(service.NewAuditLogService(repo))

	result := false
	repo.EXPECT().
		Query(gomock.Any(), repository.AuditQueryParams{
			ActorID:    "U1",
			EntityType: "team",
			Result:     &result,
			Limit:      20,
			Offset:     40,
		}).
		Return([]model.AuditLog{{EntityType: "team"}}, int64(41), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/audit-logs?entity_type=team&result=false&limit=20&offset=40", nil)
	req = req.WithContext(auth.WithUser(req.Context(), auth.Identity{ID: "U1"}))
	rec := httptest.NewRecorder()

	h.GetAuditLogs(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body AuditLogsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, int64(41), body.Total)
	assert.Len(t, body.Logs, 1)
}
