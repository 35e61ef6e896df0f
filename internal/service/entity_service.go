package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/school-records-api/internal/repository"
	appErrors "github.com/noah-isme/school-records-api/pkg/errors"
	"github.com/noah-isme/school-records-api/pkg/validation"
)

// Changeset is implemented by request payloads that map onto table columns.
type Changeset interface {
	Changes() (repository.Values, error)
}

type entityStore[T any] interface {
	Entity() string
	Get(ctx context.Context, id int64) (*T, error)
	List(ctx context.Context, filter repository.Filter, order ...repository.Order) ([]T, error)
	Insert(ctx context.Context, values repository.Values) (int64, error)
	Update(ctx context.Context, id int64, values repository.Values) error
	Delete(ctx context.Context, id int64) error
}

type existenceChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// reference ties a foreign key column to the entity it must point at.
type reference struct {
	column  string
	entity  string
	checker existenceChecker
}

func ref(column, entity string, checker existenceChecker) reference {
	return reference{column: column, entity: entity, checker: checker}
}

// EntityService implements find, create, update and remove for a single-key
// table. Writes that carry foreign keys are checked against the referenced
// tables first so a missing parent is reported as NotFound.
type EntityService[T any, C Changeset, U Changeset] struct {
	store      entityStore[T]
	validator  *validator.Validate
	logger     *zap.Logger
	references []reference
}

// NewEntityService creates an EntityService over store.
func NewEntityService[T any, C Changeset, U Changeset](store entityStore[T], validate *validator.Validate, logger *zap.Logger, refs ...reference) *EntityService[T, C, U] {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validation.New()
	}
	return &EntityService[T, C, U]{store: store, validator: validate, logger: logger, references: refs}
}

// FindOne returns the entity with the given key.
func (s *EntityService[T, C, U]) FindOne(ctx context.Context, id int64) (*T, error) {
	item, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFound(s.store.Entity(), id)
		}
		return nil, appErrors.Internal(err, "failed to load %s %d", s.store.Entity(), id)
	}
	return item, nil
}

// FindAll returns entities matching every filter column, ordered by key.
func (s *EntityService[T, C, U]) FindAll(ctx context.Context, filter repository.Filter) ([]T, error) {
	return s.list(ctx, filter)
}

// Create validates input and stores a new entity.
func (s *EntityService[T, C, U]) Create(ctx context.Context, input C) (*T, error) {
	values, err := s.changes(input)
	if err != nil {
		return nil, err
	}
	return s.insert(ctx, values)
}

// Update applies a partial update. The entity must exist before anything
// is validated or written.
func (s *EntityService[T, C, U]) Update(ctx context.Context, id int64, input U) (*T, error) {
	if _, err := s.FindOne(ctx, id); err != nil {
		return nil, err
	}
	values, err := s.changes(input)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, id, values, "update")
}

// Remove deletes the entity and returns its last stored representation.
func (s *EntityService[T, C, U]) Remove(ctx context.Context, id int64) (*T, error) {
	current, err := s.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return nil, s.writeError(err, "delete", id)
	}
	return current, nil
}

func (s *EntityService[T, C, U]) changes(input Changeset) (repository.Values, error) {
	if err := validation.Struct(s.validator, input, fmt.Sprintf("invalid %s payload", strings.ToLower(s.store.Entity()))); err != nil {
		return nil, err
	}
	return input.Changes()
}

func (s *EntityService[T, C, U]) insert(ctx context.Context, values repository.Values) (*T, error) {
	if err := ensureReferences(ctx, s.references, values); err != nil {
		return nil, err
	}
	id, err := s.store.Insert(ctx, values)
	if err != nil {
		return nil, s.writeError(err, "create", 0)
	}
	return s.FindOne(ctx, id)
}

func (s *EntityService[T, C, U]) apply(ctx context.Context, id int64, values repository.Values, op string) (*T, error) {
	if err := ensureReferences(ctx, s.references, values); err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, id, values); err != nil {
		return nil, s.writeError(err, op, id)
	}
	return s.FindOne(ctx, id)
}

func (s *EntityService[T, C, U]) list(ctx context.Context, filter repository.Filter, order ...repository.Order) ([]T, error) {
	items, err := s.store.List(ctx, filter, order...)
	if errors.Is(err, repository.ErrUnknownColumn) {
		return nil, appErrors.Validation(err, "unsupported filter", nil)
	}
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list %s records", strings.ToLower(s.store.Entity()))
	}
	return items, nil
}

// findByParent lists entities referencing parent id through column, after
// confirming the parent exists.
func (s *EntityService[T, C, U]) findByParent(ctx context.Context, parent reference, id int64, order ...repository.Order) ([]T, error) {
	if err := ensureExists(ctx, parent, id); err != nil {
		return nil, err
	}
	return s.list(ctx, repository.Filter{parent.column: id}, order...)
}

func (s *EntityService[T, C, U]) writeError(err error, op string, id int64) error {
	entity := s.store.Entity()
	if uv, ok := repository.AsUniqueViolation(err); ok {
		return appErrors.Conflict(duplicateMessage(entity, uv.Fields), err)
	}
	if errors.Is(err, repository.ErrForeignKeyViolation) {
		if op == "delete" {
			return appErrors.Conflict(fmt.Sprintf("%s %d is still referenced by other records", entity, id), err)
		}
		return appErrors.Conflict(fmt.Sprintf("%s references a record that no longer exists", entity), err)
	}

	s.logger.Error("entity write failed",
		zap.String("entity", entity),
		zap.String("operation", op),
		zap.Int64("id", id),
		zap.Error(err),
	)
	if id == 0 {
		return appErrors.Internal(err, "failed to %s %s", op, entity)
	}
	return appErrors.Internal(err, "failed to %s %s %d", op, entity, id)
}

func duplicateMessage(entity string, columns []string) string {
	if len(columns) == 0 {
		return entity + " already exists"
	}
	fields := make([]string, len(columns))
	for i, col := range columns {
		fields[i] = camelCase(col)
	}
	return fmt.Sprintf("%s with the same %s already exists", entity, strings.Join(fields, ", "))
}

func camelCase(column string) string {
	parts := strings.Split(column, "_")
	for i := 1; i < len(parts); i++ {
		if parts[i] != "" {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, "")
}

// ensureReferences verifies, concurrently, every foreign key present in
// values. Missing parents are reported in the order refs are declared.
func ensureReferences(ctx context.Context, refs []reference, values repository.Values) error {
	missing := make([]bool, len(refs))
	ids := make([]int64, len(refs))

	g, gctx := errgroup.WithContext(ctx)
	for i, r := range refs {
		id, ok := values[r.column].(int64)
		if !ok {
			continue
		}
		ids[i] = id
		i, r := i, r
		g.Go(func() error {
			exists, err := r.checker.Exists(gctx, id)
			if err != nil {
				return fmt.Errorf("check %s %d: %w", r.entity, id, err)
			}
			missing[i] = !exists
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return appErrors.Internal(err, "failed to verify references")
	}

	for i, r := range refs {
		if missing[i] {
			return appErrors.NotFound(r.entity, ids[i])
		}
	}
	return nil
}

func ensureExists(ctx context.Context, r reference, id int64) error {
	exists, err := r.checker.Exists(ctx, id)
	if err != nil {
		return appErrors.Internal(err, "failed to check %s %d", r.entity, id)
	}
	if !exists {
		return appErrors.NotFound(r.entity, id)
	}
	return nil
}

type activatable interface {
	IsActive() bool
}

// toggleStatus flips the boolean status column of an entity.
func toggleStatus[T activatable, C Changeset, U Changeset](ctx context.Context, s *EntityService[T, C, U], id int64, column string) (*T, error) {
	current, err := s.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, id, repository.Values{column: !(*current).IsActive()}, "toggle status of")
}

// statusFilter turns the ?status query value into a filter on column.
func statusFilter(column, status string) (repository.Filter, error) {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "", "all":
		return nil, nil
	case "active":
		return repository.Filter{column: true}, nil
	case "inactive":
		return repository.Filter{column: false}, nil
	}
	return nil, appErrors.Validation(nil, "invalid status filter", map[string]string{
		"status": "status must be one of active, inactive, all",
	})
}
