// internal/handler/rpc.go
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/dangerclosesec/liaison/internal/domain"
	"github.com/go-chi/chi/v5"
)

// Procedure handles one RPC call. input is the raw request body.
type Procedure func(ctx context.Context, input json.RawMessage) (interface{}, error)

type rpcResult struct {
	Result struct {
		Data interface{} `json:"data"`
	} `json:"result"`
}

type rpcError struct {
	Error struct {
		Message string              `json:"message"`
		Code    string              `json:"code"`
		Fields  map[string][]string `json:"fields,omitempty"`
	} `json:"error"`
}

// RPCHandler serves POST /rpc/{procedure} with procedures named
// "<router>.<name>", e.g. "clientRequests.createClientRequest".
type RPCHandler struct {
	procedures map[string]Procedure
}

func NewRPCHandler() *RPCHandler {
	return &RPCHandler{procedures: make(map[string]Procedure)}
}

// Handle registers a procedure. Registering a name twice panics.
func (h *RPCHandler) Handle(name string, p Procedure) {
	if _, exists := h.procedures[name]; exists {
		panic(fmt.Sprintf("rpc procedure %s registered twice", name))
	}
	h.procedures[name] = p
}

// Procedures returns the registered names, sorted.
func (h *RPCHandler) Procedures() []string {
	names := make([]string, 0, len(h.procedures))
	for name := range h.procedures {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type idInput struct {
	ID string `json:"id"`
}

// RegisterResource adds the five CRUD procedures of one entity:
// get<Plural>, get<Singular>ById, create<Singular>, update<Singular> and
// delete<Singular>.
func RegisterResource[T any, C any, U any](h *RPCHandler, router, singular, plural string, svc ResourceService[T, C, U]) {
	h.Handle(router+".get"+plural, func(ctx context.Context, _ json.RawMessage) (interface{}, error) {
		rows, err := svc.List(ctx)
		if rows == nil && err == nil {
			rows = []T{}
		}
		return rows, err
	})

	h.Handle(router+".get"+singular+"ById", func(ctx context.Context, input json.RawMessage) (interface{}, error) {
		var in idInput
		if err := decodeInput(input, &in); err != nil {
			return nil, err
		}
		return svc.Get(ctx, in.ID)
	})

	h.Handle(router+".create"+singular, func(ctx context.Context, input json.RawMessage) (interface{}, error) {
		var params C
		if err := decodeInput(input, &params); err != nil {
			return nil, err
		}
		return svc.Create(ctx, params)
	})

	h.Handle(router+".update"+singular, func(ctx context.Context, input json.RawMessage) (interface{}, error) {
		var in idInput
		if err := decodeInput(input, &in); err != nil {
			return nil, err
		}
		var params U
		if err := decodeInput(input, &params); err != nil {
			return nil, err
		}
		return svc.Update(ctx, in.ID, params)
	})

	h.Handle(router+".delete"+singular, func(ctx context.Context, input json.RawMessage) (interface{}, error) {
		var in idInput
		if err := decodeInput(input, &in); err != nil {
			return nil, err
		}
		return svc.Delete(ctx, in.ID)
	})
}

func decodeInput(input json.RawMessage, dst interface{}) error {
	if len(input) == 0 {
		input = json.RawMessage("{}")
	}
	if err := json.Unmarshal(input, dst); err != nil {
		return domain.NewValidationError("body", fmt.Sprintf("invalid JSON: %v", err))
	}
	return nil
}

// ServeHTTP dispatches to the procedure named in the path.
func (h *RPCHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "procedure")
	p, ok := h.procedures[name]
	if !ok {
		respondWithRPCError(w, r, apiError{Status: http.StatusNotFound, Code: "NOT_FOUND", Message: fmt.Sprintf("no procedure %q", name)})
		return
	}

	var input json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil && !errors.Is(err, io.EOF) {
		respondWithRPCError(w, r, classify(domain.NewValidationError("body", "invalid JSON")))
		return
	}

	data, err := p(r.Context(), input)
	if err != nil {
		e := classify(err)
		if e.Status == http.StatusInternalServerError {
			logFailure(r, err)
		}
		respondWithRPCError(w, r, e)
		return
	}

	var res rpcResult
	res.Result.Data = data
	respondWithJSON(w, http.StatusOK, res)
}

func respondWithRPCError(w http.ResponseWriter, _ *http.Request, e apiError) {
	var body rpcError
	body.Error.Message = e.Message
	body.Error.Code = e.Code
	body.Error.Fields = e.Fields
	respondWithJSON(w, e.Status, body)
}
