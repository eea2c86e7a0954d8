// internal/service/resource.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dangerclosesec/liaison/internal/audit"
	"github.com/dangerclosesec/liaison/internal/auth"
	"github.com/dangerclosesec/liaison/internal/domain"
	"github.com/dangerclosesec/liaison/internal/events"
	"github.com/dangerclosesec/liaison/internal/model"
	"github.com/dangerclosesec/liaison/internal/repository"
	"github.com/dangerclosesec/liaison/internal/validation"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Insertable is implemented by create params. NewRecord builds the row to
// insert, owned by actorID.
type Insertable[T any] interface {
	NewRecord(actorID string) *T
}

// Updatable is implemented by update params. Apply copies the params onto an
// existing row; ownership columns are never touched.
type Updatable[T any] interface {
	RecordID() string
	Apply(rec *T)
}

// Deps are the collaborators shared by every resource.
type Deps struct {
	Validator *validation.Validator
	Audit     audit.Logger
	Events    events.Publisher
	Logger    *slog.Logger
}

func (d Deps) withDefaults() Deps {
	if d.Validator == nil {
		d.Validator = validation.New()
	}
	if d.Audit == nil {
		d.Audit = &audit.NoOpLogger{}
	}
	if d.Events == nil {
		d.Events = events.NoopPublisher{}
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	return d
}

// Hooks customize a Resource. Every field is optional.
type Hooks[T repository.Record] struct {
	// List replaces the scoped repository read.
	List func(ctx context.Context, actor auth.Identity) ([]T, error)
	// BeforeSave runs on the row about to be inserted or updated.
	BeforeSave func(ctx context.Context, rec *T) error
	// Insert replaces Repository.Create.
	Insert func(ctx context.Context, actor auth.Identity, rec *T) error
	// AfterCreate runs after a successful insert. Failures are the hook's to log.
	AfterCreate func(ctx context.Context, actor auth.Identity, rec *T)
	// AfterMutate runs after every successful create, update and delete.
	AfterMutate func(ctx context.Context)
}

// ResourceConfig describes one entity.
type ResourceConfig[T repository.Record] struct {
	// Name is the entity name used in audit rows, events and logs.
	Name      string
	Repo      repository.Repository[T]
	Ownership Ownership[T]
	// Preload lists the read-only decorations loaded on list, get and update.
	Preload []string
	Hooks   Hooks[T]
}

// Resource is the authorized CRUD service for one entity.
type Resource[T repository.Record, C Insertable[T], U Updatable[T]] struct {
	name      string
	repo      repository.Repository[T]
	ownership Ownership[T]
	preload   []string
	hooks     Hooks[T]
	validator *validation.Validator
	audit     audit.Logger
	events    events.Publisher
	logger    *slog.Logger
}

func NewResource[T repository.Record, C Insertable[T], U Updatable[T]](cfg ResourceConfig[T], deps Deps) *Resource[T, C, U] {
	deps = deps.withDefaults()
	return &Resource[T, C, U]{
		name:      cfg.Name,
		repo:      cfg.Repo,
		ownership: cfg.Ownership,
		preload:   cfg.Preload,
		hooks:     cfg.Hooks,
		validator: deps.Validator,
		audit:     deps.Audit,
		events:    deps.Events,
		logger:    deps.Logger,
	}
}

// List returns the rows visible to the current user.
func (s *Resource[T, C, U]) List(ctx context.Context) ([]T, error) {
	actor, ok := auth.CurrentUser(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if s.hooks.List != nil {
		return s.hooks.List(ctx, actor)
	}

	q := s.ownership.Scope(actor.ID)
	q.Preload = s.preload
	rows, err := s.repo.Find(ctx, q)
	if err != nil {
		return nil, s.fail(ctx, "listing", err)
	}
	return rows, nil
}

// Get returns one row under the same scoping as List.
func (s *Resource[T, C, U]) Get(ctx context.Context, id string) (*T, error) {
	actor, ok := auth.CurrentUser(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := validation.ID(id); err != nil {
		return nil, err
	}

	q := s.ownership.Scope(actor.ID)
	q.ID = id
	q.Preload = s.preload
	row, err := s.repo.First(ctx, q)
	if err != nil {
		return nil, s.fail(ctx, "getting", err)
	}
	return row, nil
}

// Create validates params, assigns the current user as owner and inserts the
// row.
func (s *Resource[T, C, U]) Create(ctx context.Context, params C) (*T, error) {
	actor, ok := auth.CurrentUser(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := s.validator.Struct(params); err != nil {
		return nil, err
	}

	rec := params.NewRecord(actor.ID)
	if s.hooks.BeforeSave != nil {
		if err := s.hooks.BeforeSave(ctx, rec); err != nil {
			return nil, err
		}
	}

	insert := func(ctx context.Context, _ auth.Identity, rec *T) error {
		return s.repo.Create(ctx, rec)
	}
	if s.hooks.Insert != nil {
		insert = s.hooks.Insert
	}

	if err := insert(ctx, actor, rec); err != nil {
		s.record(ctx, model.ActionCreate, "", actor, err)
		return nil, s.fail(ctx, "creating", err)
	}

	id := (*rec).RecordID()
	s.record(ctx, model.ActionCreate, id, actor, nil)
	s.mutated(ctx, model.ActionCreate, id, actor)
	if s.hooks.AfterCreate != nil {
		s.hooks.AfterCreate(ctx, actor, rec)
	}
	return rec, nil
}

// Update validates params, checks that the current user may modify the row
// and writes it. The returned row is re-read from the store.
func (s *Resource[T, C, U]) Update(ctx context.Context, id string, params U) (*T, error) {
	actor, ok := auth.CurrentUser(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := validation.ID(id); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(params); err != nil {
		return nil, err
	}
	if params.RecordID() != id {
		return nil, domain.NewValidationError("id", "id does not match the record being updated")
	}

	rec, err := s.repo.First(ctx, repository.Query{ID: id})
	if err != nil {
		return nil, s.fail(ctx, "loading", err)
	}
	if err := s.ownership.Check(ctx, actor.ID, rec); err != nil {
		s.record(ctx, model.ActionUpdate, id, actor, err)
		return nil, s.fail(ctx, "authorizing", err)
	}

	params.Apply(rec)
	if s.hooks.BeforeSave != nil {
		if err := s.hooks.BeforeSave(ctx, rec); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, id, rec); err != nil {
		s.record(ctx, model.ActionUpdate, id, actor, err)
		return nil, s.fail(ctx, "updating", err)
	}
	s.record(ctx, model.ActionUpdate, id, actor, nil)
	s.mutated(ctx, model.ActionUpdate, id, actor)

	updated, err := s.repo.First(ctx, repository.Query{ID: id, Preload: s.preload})
	if err != nil {
		return nil, s.fail(ctx, "reloading", err)
	}
	return updated, nil
}

// Delete checks that the current user may remove the row, deletes it and
// returns it as it was.
func (s *Resource[T, C, U]) Delete(ctx context.Context, id string) (*T, error) {
	actor, ok := auth.CurrentUser(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := validation.ID(id); err != nil {
		return nil, err
	}

	rec, err := s.repo.First(ctx, repository.Query{ID: id, Preload: s.preload})
	if err != nil {
		return nil, s.fail(ctx, "loading", err)
	}
	if err := s.ownership.Check(ctx, actor.ID, rec); err != nil {
		s.record(ctx, model.ActionDelete, id, actor, err)
		return nil, s.fail(ctx, "authorizing", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.record(ctx, model.ActionDelete, id, actor, err)
		return nil, s.fail(ctx, "deleting", err)
	}
	s.record(ctx, model.ActionDelete, id, actor, nil)
	s.mutated(ctx, model.ActionDelete, id, actor)
	return rec, nil
}

// fail logs store failures and wraps err with the operation.
func (s *Resource[T, C, U]) fail(ctx context.Context, op string, err error) error {
	if errors.Is(err, domain.ErrStore) {
		s.logger.ErrorContext(ctx, "store operation failed",
			"entity", s.name,
			"op", op,
			"requestID", chimw.GetReqID(ctx),
			"error", err,
		)
	}
	return fmt.Errorf("%s %s: %w", op, s.name, err)
}

func (s *Resource[T, C, U]) record(ctx context.Context, action, id string, actor auth.Identity, cause error) {
	entry := audit.Entry{
		Action:     action,
		EntityType: s.name,
		EntityID:   id,
		ActorID:    actor.ID,
		Err:        cause,
	}
	if err := s.audit.LogMutation(ctx, entry); err != nil {
		s.logger.WarnContext(ctx, "failed to write audit log",
			"entity", s.name,
			"action", action,
			"error", err,
		)
	}
}

func (s *Resource[T, C, U]) mutated(ctx context.Context, action, id string, actor auth.Identity) {
	s.events.Publish(ctx, events.Event{
		Entity:     s.name,
		Action:     action,
		ID:         id,
		ActorID:    actor.ID,
		OccurredAt: time.Now().UTC(),
	})
	if s.hooks.AfterMutate != nil {
		s.hooks.AfterMutate(ctx)
	}
}
