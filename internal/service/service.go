package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/tutor-center-api/internal/models"
	"github.com/noah-isme/tutor-center-api/internal/repository"
	appErrors "github.com/noah-isme/tutor-center-api/pkg/errors"
	"github.com/noah-isme/tutor-center-api/pkg/idgen"
)

// locker serializes writers per collection. *store.Store implements it.
type locker interface {
	Lock(collections ...string) func()
}

// recordStore is the persistence contract shared by every entity repository.
type recordStore[T models.Record] interface {
	Name() string
	All(ctx context.Context) ([]T, error)
	SaveAll(ctx context.Context, records []T) error
	Find(ctx context.Context, id models.ID) (*T, error)
	Insert(ctx context.Context, rec T) error
	Replace(ctx context.Context, rec T) error
	Delete(ctx context.Context, id models.ID) (T, error)
}

// Options carries the collaborators every service shares.
type Options struct {
	Locker    locker
	IDs       idgen.Generator
	Clock     func() time.Time
	Validator *validator.Validate
	Logger    *zap.Logger
}

type base struct {
	locks     locker
	ids       idgen.Generator
	now       func() time.Time
	validator *validator.Validate
	logger    *zap.Logger
}

func newBase(opts Options) base {
	b := base{
		locks:     opts.Locker,
		ids:       opts.IDs,
		now:       opts.Clock,
		validator: opts.Validator,
		logger:    opts.Logger,
	}
	if b.locks == nil {
		b.locks = &localLocker{}
	}
	if b.ids == nil {
		b.ids = idgen.NewMonotonic(nil)
	}
	if b.now == nil {
		b.now = time.Now
	}
	if b.validator == nil {
		b.validator = NewValidator()
	}
	if b.logger == nil {
		b.logger = zap.NewNop()
	}
	return b
}

func (b base) nextID() models.ID {
	return models.ID(b.ids.Next())
}

func (b base) timestamp() string {
	return b.now().Format(models.TimestampLayout)
}

func (b base) today() string {
	return b.now().Format(models.DateLayout)
}

func (b base) validate(v interface{}, what string) error {
	if err := b.validator.Struct(v); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, validationMessage(err, what))
	}
	return nil
}

// localLocker is a single process-wide lock used when no store locker is injected.
type localLocker struct {
	mu sync.Mutex
}

func (l *localLocker) Lock(...string) func() {
	l.mu.Lock()
	var once sync.Once
	return func() { once.Do(l.mu.Unlock) }
}

// NewValidator returns a validator that reports JSON field names.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validationMessage(err error, what string) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Sprintf("invalid %s payload", what)
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// patchRecord overlays a client patch on rec and reports type mismatches as validation errors.
func patchRecord[T any](rec T, patch models.Patch, immutable ...string) (T, error) {
	out, err := models.ApplyPatch(rec, patch, immutable...)
	if err != nil {
		var fieldErr *models.FieldError
		if errors.As(err, &fieldErr) {
			return out, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, fieldErr.Error())
		}
		return out, internalError(err, "failed to merge record")
	}
	return out, nil
}

func takeField(patch models.Patch, field string, dest interface{}) (bool, error) {
	ok, err := patch.Take(field, dest)
	if err != nil {
		return ok, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	return ok, nil
}

func internalError(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}

// lookupError maps a repository miss to a 404 naming the entity.
func lookupError(err error, entity string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return appErrors.Clone(appErrors.ErrNotFound, entity+" not found")
	}
	return internalError(err, "failed to load "+entity)
}

// findRecord is Find with errors already mapped for the request layer.
func findRecord[T models.Record](ctx context.Context, repo recordStore[T], id models.ID, entity string) (*T, error) {
	rec, err := repo.Find(ctx, id)
	if err != nil {
		return nil, lookupError(err, entity)
	}
	return rec, nil
}

func listRecords[T models.Record](ctx context.Context, repo recordStore[T]) ([]T, error) {
	records, err := repo.All(ctx)
	if err != nil {
		return nil, internalError(err, "failed to load "+repo.Name())
	}
	return records, nil
}

func deleteRecord[T models.Record](ctx context.Context, repo recordStore[T], id models.ID, entity string) (T, error) {
	removed, err := repo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return removed, lookupError(err, entity)
	}
	if err != nil {
		return removed, internalError(err, "failed to delete "+entity)
	}
	return removed, nil
}
