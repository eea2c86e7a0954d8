// internal/service/ownership.go
package service

import (
	"context"
	"fmt"

	"github.com/dangerclosesec/liaison/internal/domain"
	"github.com/dangerclosesec/liaison/internal/repository"
)

// Ownership decides which rows a user sees and which they may change.
type Ownership[T repository.Record] interface {
	// Scope is the query for rows visible to userID.
	Scope(userID string) repository.Query
	// Check returns an *domain.AccessDeniedError unless userID may modify rec.
	Check(ctx context.Context, userID string, rec *T) error
}

// directOwnership covers rows carrying the owner's id in a column.
type directOwnership[T repository.Record] struct {
	column string
	noun   string
	owner  func(*T) string
}

// OwnedBy scopes rows to column = user and allows mutation by that user only.
func OwnedBy[T repository.Record](column, noun string, owner func(*T) string) Ownership[T] {
	return directOwnership[T]{column: column, noun: noun, owner: owner}
}

func (o directOwnership[T]) Scope(userID string) repository.Query {
	return repository.Query{Where: map[string]interface{}{o.column: userID}}
}

func (o directOwnership[T]) Check(_ context.Context, userID string, rec *T) error {
	if o.owner(rec) != userID {
		return &domain.AccessDeniedError{Message: fmt.Sprintf("user does not own the %s", o.noun)}
	}
	return nil
}

// membershipOwnership covers rows owned through a join table.
type membershipOwnership[T repository.Record] struct {
	scope    func(userID string) repository.Query
	isMember func(ctx context.Context, id, userID string) (bool, error)
	message  string
}

// MemberOf allows mutation by users for which isMember reports true. scope
// may be nil for rows every user can read.
func MemberOf[T repository.Record](scope func(userID string) repository.Query, isMember func(ctx context.Context, id, userID string) (bool, error), message string) Ownership[T] {
	return membershipOwnership[T]{scope: scope, isMember: isMember, message: message}
}

func (o membershipOwnership[T]) Scope(userID string) repository.Query {
	if o.scope == nil {
		return repository.Query{}
	}
	return o.scope(userID)
}

func (o membershipOwnership[T]) Check(ctx context.Context, userID string, rec *T) error {
	ok, err := o.isMember(ctx, (*rec).RecordID(), userID)
	if err != nil {
		return err
	}
	if !ok {
		return &domain.AccessDeniedError{Message: o.message}
	}
	return nil
}
