package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/noah-isme/tutor-center-api/internal/models"
	"github.com/noah-isme/tutor-center-api/pkg/store"
)

// Collection names, also the file names of the file driver.
const (
	CollectionTeachers  = "teachers"
	CollectionStudents  = "students"
	CollectionGroups    = "groups"
	CollectionPayments  = "payments"
	CollectionTasks     = "tasks"
	CollectionCompanies = "companies"
	CollectionBranches  = "branches"
	CollectionUsers     = "users"
)

// AllCollections lists every collection the API persists.
var AllCollections = []string{
	CollectionTeachers,
	CollectionStudents,
	CollectionGroups,
	CollectionPayments,
	CollectionTasks,
	CollectionCompanies,
	CollectionBranches,
	CollectionUsers,
}

// ErrNotFound is returned when no record carries the requested id.
var ErrNotFound = errors.New("record not found")

// Collection is a typed view of one stored collection. Mutating methods read and
// rewrite the whole collection; callers hold the collection lock around them.
type Collection[T models.Record] struct {
	store *store.Store
	name  string
}

// NewCollection binds a record type to a collection name.
func NewCollection[T models.Record](s *store.Store, name string) *Collection[T] {
	return &Collection[T]{store: s, name: name}
}

// Name returns the collection name.
func (c *Collection[T]) Name() string {
	return c.name
}

// All returns every record in stored order.
func (c *Collection[T]) All(ctx context.Context) ([]T, error) {
	var records []T
	if err := c.store.Load(ctx, c.name, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

// SaveAll replaces the collection.
func (c *Collection[T]) SaveAll(ctx context.Context, records []T) error {
	if records == nil {
		records = []T{}
	}
	return c.store.Save(ctx, c.name, records)
}

// Find returns the record with the given id.
func (c *Collection[T]) Find(ctx context.Context, id models.ID) (*T, error) {
	records, err := c.All(ctx)
	if err != nil {
		return nil, err
	}
	if i := indexOf(records, id); i >= 0 {
		return &records[i], nil
	}
	return nil, ErrNotFound
}

// Filter returns the records for which keep reports true.
func (c *Collection[T]) Filter(ctx context.Context, keep func(T) bool) ([]T, error) {
	records, err := c.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(records))
	for _, rec := range records {
		if keep(rec) {
			out = append(out, rec)
		}
	}
	return out, nil
}

// Insert appends a record that already carries its id.
func (c *Collection[T]) Insert(ctx context.Context, rec T) error {
	records, err := c.All(ctx)
	if err != nil {
		return err
	}
	return c.SaveAll(ctx, append(records, rec))
}

// Replace overwrites the record sharing rec's id.
func (c *Collection[T]) Replace(ctx context.Context, rec T) error {
	records, err := c.All(ctx)
	if err != nil {
		return err
	}
	i := indexOf(records, rec.RecordID())
	if i < 0 {
		return ErrNotFound
	}
	records[i] = rec
	return c.SaveAll(ctx, records)
}

// Delete removes the record with the given id and returns it.
func (c *Collection[T]) Delete(ctx context.Context, id models.ID) (T, error) {
	var zero T
	records, err := c.All(ctx)
	if err != nil {
		return zero, err
	}
	i := indexOf(records, id)
	if i < 0 {
		return zero, ErrNotFound
	}
	removed := records[i]
	records = append(records[:i], records[i+1:]...)
	return removed, c.SaveAll(ctx, records)
}

// Count returns the number of stored records.
func (c *Collection[T]) Count(ctx context.Context) (int, error) {
	records, err := c.All(ctx)
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

func indexOf[T models.Record](records []T, id models.ID) int {
	for i, rec := range records {
		if rec.RecordID() == id {
			return i
		}
	}
	return -1
}

// EnsureCollections creates every missing collection so the first request never has to.
func EnsureCollections(ctx context.Context, s *store.Store) error {
	for _, name := range AllCollections {
		var raw []json.RawMessage
		if err := s.Load(ctx, name, &raw); err != nil {
			return err
		}
	}
	return nil
}
