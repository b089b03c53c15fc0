// Package store provides the generic filter/update data-access helper shared
// by every repository. Entity types are checked at compile time through the
// type parameter; field names arriving in filter and update maps are checked
// against the parsed gorm schema before any query is built, so a typo fails
// with ErrUnknownField instead of a silent storage error.
//
// # Usage
//
//	books, err := store.New[entities.Book](db)
//	book, err := books.FindOne(store.Filter{"ID": id})
package store

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Filter selects rows: every listed field must equal its value.
type Filter map[string]any

// Fields names the fields a partial update overwrites. Fields absent from the
// map are left untouched.
type Fields map[string]any

var (
	// ErrNotFound signals that no row matched the filter.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate signals a unique-constraint violation.
	ErrDuplicate = errors.New("duplicate record")
	// ErrUnknownField signals a filter or update key that does not exist on
	// the entity. This is a configuration error on the caller's side.
	ErrUnknownField = errors.New("unknown field")
)

// schemaCache is shared across all stores so each entity is parsed once.
var schemaCache = &sync.Map{}

// Store executes filter-map queries and partial updates for one entity type.
type Store[T any] struct {
	db     *gorm.DB
	schema *schema.Schema
}

// New parses the entity schema and returns a store bound to db.
func New[T any](db *gorm.DB) (*Store[T], error) {
	sch, err := schema.Parse(new(T), schemaCache, db.NamingStrategy)
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema for %T: %w", *new(T), err)
	}
	return &Store[T]{db: db, schema: sch}, nil
}

// WithTx returns a store running against tx. The parsed schema is shared.
func (s *Store[T]) WithTx(tx *gorm.DB) *Store[T] {
	return &Store[T]{db: tx, schema: s.schema}
}

// FindOne returns the first row matching every field in filter, in
// store-defined order, or ErrNotFound.
func (s *Store[T]) FindOne(filter Filter) (*T, error) {
	query, err := s.applyFilter(s.db, filter)
	if err != nil {
		return nil, err
	}

	var entity T
	if err := query.First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, s.storageError("find", err)
	}
	return &entity, nil
}

// FindAll returns every row matching the filter. A nil filter matches all rows.
func (s *Store[T]) FindAll(filter Filter) ([]T, error) {
	query, err := s.applyFilter(s.db, filter)
	if err != nil {
		return nil, err
	}

	var entities []T
	if err := query.Find(&entities).Error; err != nil {
		return nil, s.storageError("find", err)
	}
	return entities, nil
}

// Create inserts the entity and returns its store-assigned id.
func (s *Store[T]) Create(entity *T) (uint, error) {
	if err := s.db.Create(entity).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, fmt.Errorf("%w in %s", ErrDuplicate, s.schema.Table)
		}
		return 0, s.storageError("create", err)
	}
	return s.primaryKey(entity), nil
}

// Update locates the first row matching filter, overwrites exactly the fields
// named in fields, and persists the row. Returns the affected count (1) or
// ErrNotFound when the filter matched nothing.
func (s *Store[T]) Update(fields Fields, filter Filter) (int64, error) {
	if len(fields) == 0 {
		return 0, fmt.Errorf("update %s: no fields given", s.schema.Table)
	}

	updates := make(map[string]any, len(fields))
	for _, name := range sortedKeys(fields) {
		column, err := s.column(name)
		if err != nil {
			return 0, err
		}
		updates[column] = fields[name]
	}

	query, err := s.applyFilter(s.db, filter)
	if err != nil {
		return 0, err
	}

	var entity T
	if err := query.First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNotFound
		}
		return 0, s.storageError("update", err)
	}

	result := s.db.Model(&entity).Updates(updates)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return 0, fmt.Errorf("%w in %s", ErrDuplicate, s.schema.Table)
		}
		return 0, s.storageError("update", result.Error)
	}
	return 1, nil
}

// applyFilter adds an equality condition per filter field. A nil value
// matches NULL. Keys are resolved in sorted order so error messages are
// deterministic.
func (s *Store[T]) applyFilter(db *gorm.DB, filter Filter) (*gorm.DB, error) {
	query := db.Model(new(T))
	for _, name := range sortedKeys(filter) {
		column, err := s.column(name)
		if err != nil {
			return nil, err
		}
		if filter[name] == nil {
			query = query.Where(fmt.Sprintf("%s IS NULL", column))
		} else {
			query = query.Where(fmt.Sprintf("%s = ?", column), filter[name])
		}
	}
	return query, nil
}

// column maps a Go field name to its database column. Matching is exact and
// case-sensitive.
func (s *Store[T]) column(name string) (string, error) {
	field, ok := s.schema.FieldsByName[name]
	if !ok || field.DBName == "" {
		return "", fmt.Errorf("%w: %q on entity %s", ErrUnknownField, name, s.schema.Name)
	}
	return field.DBName, nil
}

func (s *Store[T]) primaryKey(entity *T) uint {
	field := s.schema.PrioritizedPrimaryField
	if field == nil {
		return 0
	}
	value, zero := field.ValueOf(context.Background(), reflect.ValueOf(entity))
	if zero {
		return 0
	}
	if id, ok := value.(uint); ok {
		return id
	}
	return 0
}

func (s *Store[T]) storageError(op string, err error) error {
	return fmt.Errorf("storage: %s %s: %w", op, s.schema.Table, err)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
