// internal/handler/resource.go
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ResourceService is the CRUD surface every entity service exposes.
type ResourceService[T any, C any, U any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, params C) (*T, error)
	Update(ctx context.Context, id string, params U) (*T, error)
	Delete(ctx context.Context, id string) (*T, error)
}

// ResourceHandler serves one entity over REST.
type ResourceHandler[T any, C any, U any] struct {
	svc ResourceService[T, C, U]
}

func NewResourceHandler[T any, C any, U any](svc ResourceService[T, C, U]) *ResourceHandler[T, C, U] {
	return &ResourceHandler[T, C, U]{svc: svc}
}

// Register mounts the entity routes on r:
//
//	GET    /         list
//	GET    /{id}     get
//	POST   /         create
//	PUT    /?id=     update
//	DELETE /?id=     delete
func (h *ResourceHandler[T, C, U]) Register(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Put("/", h.Update)
	r.Delete("/", h.Delete)
	r.Get("/{id}", h.Get)
}

func (h *ResourceHandler[T, C, U]) List(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.List(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	if rows == nil {
		rows = []T{}
	}
	respondWithJSON(w, http.StatusOK, rows)
}

func (h *ResourceHandler[T, C, U]) Get(w http.ResponseWriter, r *http.Request) {
	row, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, row)
}

func (h *ResourceHandler[T, C, U]) Create(w http.ResponseWriter, r *http.Request) {
	var params C
	if err := decodeJSON(r, &params); err != nil {
		handleError(w, r, err)
		return
	}

	row, err := h.svc.Create(r.Context(), params)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, row)
}

func (h *ResourceHandler[T, C, U]) Update(w http.ResponseWriter, r *http.Request) {
	var params U
	if err := decodeJSON(r, &params); err != nil {
		handleError(w, r, err)
		return
	}

	row, err := h.svc.Update(r.Context(), r.URL.Query().Get("id"), params)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, row)
}

func (h *ResourceHandler[T, C, U]) Delete(w http.ResponseWriter, r *http.Request) {
	row, err := h.svc.Delete(r.Context(), r.URL.Query().Get("id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, row)
}
