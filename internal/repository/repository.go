// internal/repository/repository.go
package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/dangerclosesec/liaison/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Record is implemented by every model served through Repository.
type Record interface {
	TableName() string
	RecordID() string
}

// MembershipScope restricts a query to rows the user reaches through a
// membership table, e.g. teams joined through users_to_teams.
type MembershipScope struct {
	Table      string
	ForeignKey string
	UserID     string
}

// Query describes a scoped select. Where keys are bare column names of the
// base table.
type Query struct {
	ID         string
	Where      map[string]interface{}
	Membership *MembershipScope
	Preload    []string
}

// Repository is the store contract shared by every entity.
type Repository[T Record] interface {
	Find(ctx context.Context, q Query) ([]T, error)
	First(ctx context.Context, q Query) (*T, error)
	Create(ctx context.Context, rec *T) error
	Update(ctx context.Context, id string, rec *T) error
	Delete(ctx context.Context, id string) error
}

// GormRepository implements Repository for any model.
type GormRepository[T Record] struct {
	db *gorm.DB
}

func NewGormRepository[T Record](db *gorm.DB) *GormRepository[T] {
	return &GormRepository[T]{db: db}
}

func tableOf[T Record]() string {
	var zero T
	return zero.TableName()
}

func (r *GormRepository[T]) scoped(ctx context.Context, q Query) *gorm.DB {
	table := tableOf[T]()
	tx := r.db.WithContext(ctx).Model(new(T))

	if m := q.Membership; m != nil {
		tx = tx.Select(table+".*").
			Joins(fmt.Sprintf("JOIN %s ON %s.%s = %s.id", m.Table, m.Table, m.ForeignKey, table)).
			Where(m.Table+".user_id = ?", m.UserID)
	}

	if q.ID != "" {
		tx = tx.Where(table+".id = ?", q.ID)
	}

	keys := make([]string, 0, len(q.Where))
	for k := range q.Where {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		tx = tx.Where(fmt.Sprintf("%s.%s = ?", table, k), q.Where[k])
	}

	for _, p := range q.Preload {
		tx = tx.Preload(p)
	}

	return tx
}

func (r *GormRepository[T]) Find(ctx context.Context, q Query) ([]T, error) {
	var rows []T
	result := r.scoped(ctx, q).Order(tableOf[T]() + ".created_at ASC").Find(&rows)
	if result.Error != nil {
		return nil, storeError("listing "+tableOf[T](), result.Error)
	}
	return rows, nil
}

func (r *GormRepository[T]) First(ctx context.Context, q Query) (*T, error) {
	var row T
	result := r.scoped(ctx, q).Take(&row)
	if result.Error != nil {
		return nil, storeError("finding "+tableOf[T](), result.Error)
	}
	return &row, nil
}

func (r *GormRepository[T]) Create(ctx context.Context, rec *T) error {
	result := r.db.WithContext(ctx).Omit(clause.Associations).Create(rec)
	if result.Error != nil {
		return storeError("creating "+tableOf[T](), result.Error)
	}
	return nil
}

// Update writes every column of rec, zero values included, to the row with
// the given id. updated_at is set by gorm.
func (r *GormRepository[T]) Update(ctx context.Context, id string, rec *T) error {
	table := tableOf[T]()
	result := r.db.WithContext(ctx).
		Model(new(T)).
		Where(table+".id = ?", id).
		Select("*").
		Omit(clause.Associations, "created_at").
		Updates(rec)
	if result.Error != nil {
		return storeError("updating "+table, result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *GormRepository[T]) Delete(ctx context.Context, id string) error {
	table := tableOf[T]()
	result := r.db.WithContext(ctx).Where(table+".id = ?", id).Delete(new(T))
	if result.Error != nil {
		return storeError("deleting "+table, result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Transaction interface for handling DB transactions.
type Transaction interface {
	Commit() error
	Rollback() error
}

// gormTransaction is a wrapper for a GORM DB transaction.
type gormTransaction struct {
	tx *gorm.DB
}

// Commit finalizes the transaction.
func (t *gormTransaction) Commit() error {
	return t.tx.Commit().Error
}

// Rollback reverts the transaction.
func (t *gormTransaction) Rollback() error {
	slog.Warn("Rolling back transaction")
	return t.tx.Rollback().Error
}

// isNotFound reports gorm's not-found sentinel.
func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
