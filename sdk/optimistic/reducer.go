// Package optimistic keeps a displayed list of records in step with pending
// mutations before the server confirms them.
package optimistic

import (
	"encoding/json"
	"fmt"
)

// DeletedID replaces the id of a record removed by a pending delete.
const DeletedID = "delete"

// ActionType tags an Action.
type ActionType string

const (
	ActionCreate ActionType = "create"
	ActionUpdate ActionType = "update"
	ActionDelete ActionType = "delete"
)

// Action is one pending mutation. Payload is a record of the list's type;
// update payloads only need the fields being changed.
type Action[T any] struct {
	Type    ActionType
	Payload T
	// Fields lists JSON keys an update sets even when their new value is
	// zero and so missing from the payload's encoding.
	Fields []string
}

// UpdateAction builds an update that also applies the zero values of fields,
// e.g. UpdateAction(cr, "isArchived") to unarchive.
func UpdateAction[T any](payload T, fields ...string) Action[T] {
	return Action[T]{Type: ActionUpdate, Payload: payload, Fields: fields}
}

// Record is the pointer side of a record type the reducer can address.
type Record[T any] interface {
	*T
	RecordID() string
	SetRecordID(id string)
}

// Decorator fills a payload's referenced records from lists the caller
// already holds. It returns a *ResolutionError when a reference is missing.
type Decorator[T any] func(rec *T) error

// ResolutionError reports a foreign key that none of the reference lists
// contain.
type ResolutionError struct {
	Field string
	ID    string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("unresolved reference %s=%q", e.Field, e.ID)
}

// Reduce returns the list that results from applying action to state. state
// is not modified. decorate may be nil.
func Reduce[T any, P Record[T]](state []T, action Action[T], decorate Decorator[T]) ([]T, error) {
	switch action.Type {
	case ActionCreate:
		rec := action.Payload
		if decorate != nil {
			if err := decorate(&rec); err != nil {
				return state, err
			}
		}
		next := make([]T, len(state), len(state)+1)
		copy(next, state)
		return append(next, rec), nil

	case ActionUpdate:
		patch := action.Payload
		if decorate != nil {
			if err := decorate(&patch); err != nil {
				return state, err
			}
		}
		id := P(&patch).RecordID()

		next := make([]T, len(state))
		copy(next, state)
		for i := range next {
			if P(&next[i]).RecordID() != id {
				continue
			}
			merged, err := merge(next[i], patch, action.Fields)
			if err != nil {
				return state, err
			}
			next[i] = merged
		}
		return next, nil

	case ActionDelete:
		id := P(&action.Payload).RecordID()

		next := make([]T, len(state))
		copy(next, state)
		for i := range next {
			if P(&next[i]).RecordID() == id {
				P(&next[i]).SetRecordID(DeletedID)
			}
		}
		return next, nil

	default:
		return state, nil
	}
}

// merge overlays the JSON keys present in patch onto base. Keys named in
// zeroed but absent from patch are reset to their zero value.
func merge[T any](base, patch T, zeroed []string) (T, error) {
	var out T

	baseFields, err := fields(base)
	if err != nil {
		return out, err
	}
	patchFields, err := fields(patch)
	if err != nil {
		return out, err
	}
	for k, v := range patchFields {
		baseFields[k] = v
	}
	for _, k := range zeroed {
		if _, ok := patchFields[k]; !ok {
			delete(baseFields, k)
		}
	}

	raw, err := json.Marshal(baseFields)
	if err != nil {
		return out, fmt.Errorf("encoding merged record: %w", err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decoding merged record: %w", err)
	}
	return out, nil
}

func fields(v any) (map[string]json.RawMessage, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding record: %w", err)
	}
	m := make(map[string]json.RawMessage)
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("record is not a JSON object: %w", err)
	}
	return m, nil
}
