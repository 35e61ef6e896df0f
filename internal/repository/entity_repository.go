package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

// Values maps column names to the values written by an insert or update.
type Values map[string]interface{}

// Filter maps column names to values matched by equality. A nil value
// matches NULL.
type Filter map[string]interface{}

// Order sorts a listing by a base column.
type Order struct {
	Column string
	Desc   bool
}

// Asc sorts ascending by column.
func Asc(column string) Order { return Order{Column: column} }

// Desc sorts descending by column.
func Desc(column string) Order { return Order{Column: column, Desc: true} }

// Change is one row of a batch update.
type Change struct {
	ID     int64
	Values Values
}

// ListOptions drives paginated searches.
type ListOptions struct {
	Filter   Filter
	Search   string
	Page     int
	PageSize int
	Order    []Order
}

// Normalize applies the default page and page size bounds.
func (o ListOptions) Normalize() ListOptions {
	if o.Page < 1 {
		o.Page = 1
	}
	if o.PageSize <= 0 || o.PageSize > 100 {
		o.PageSize = 20
	}
	return o
}

// ErrUnknownColumn is returned when a filter, order or write names a column
// the resource does not expose.
var ErrUnknownColumn = errors.New("unknown column")

// QueryObserver receives the duration of every statement, labelled
// "<table>.<operation>".
type QueryObserver interface {
	ObserveDBQuery(label string, duration time.Duration)
}

// Model describes the table a resource is stored in.
type Model struct {
	// Entity is the display name used in error messages ("Role").
	Entity     string
	Table      string
	PrimaryKey string
	// Columns lists the readable and writable columns besides the primary
	// key and timestamps.
	Columns []string
	// Searchable holds SQL expressions matched with ILIKE by Page.
	Searchable []string
	Timestamps bool
}

// Include eager-loads a relation: a JOIN clause plus the joined columns,
// aliased as "relation.column" so sqlx scans them into nested structs.
type Include struct {
	Join    string
	Columns []string
}

// Resource is implemented by every table the generic repository serves.
type Resource interface {
	Model() Model
	Includes() []Include
}

// EntityRepository provides generic persistence for single-key tables.
type EntityRepository[T any] struct {
	db        *sqlx.DB
	model     Model
	columns   map[string]struct{}
	fromSQL   string
	selectSQL string
	observer  QueryObserver
}

// NewEntityRepository builds a repository for the given resource. observer
// may be nil.
func NewEntityRepository[T any](db *sqlx.DB, resource Resource, observer QueryObserver) *EntityRepository[T] {
	model := resource.Model()

	columns := map[string]struct{}{model.PrimaryKey: {}}
	selected := []string{"t." + model.PrimaryKey}
	for _, col := range model.Columns {
		columns[col] = struct{}{}
		selected = append(selected, "t."+col)
	}
	if model.Timestamps {
		columns["created_at"] = struct{}{}
		columns["updated_at"] = struct{}{}
		selected = append(selected, "t.created_at", "t.updated_at")
	}

	from := fmt.Sprintf("FROM %s t", model.Table)
	for _, inc := range resource.Includes() {
		from += " " + inc.Join
		selected = append(selected, inc.Columns...)
	}

	return &EntityRepository[T]{
		db:        db,
		model:     model,
		columns:   columns,
		fromSQL:   from,
		selectSQL: fmt.Sprintf("SELECT %s %s", strings.Join(selected, ", "), from),
		observer:  observer,
	}
}

// Entity returns the display name of the stored entity.
func (r *EntityRepository[T]) Entity() string {
	return r.model.Entity
}

// Get returns the row with the given key including its relations, or
// sql.ErrNoRows.
func (r *EntityRepository[T]) Get(ctx context.Context, id int64) (*T, error) {
	defer r.observe("get", time.Now())

	var item T
	query := fmt.Sprintf("%s WHERE t.%s = $1", r.selectSQL, r.model.PrimaryKey)
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get %s %d: %w", r.model.Table, id, err)
	}
	return &item, nil
}

// Exists reports whether a row with the given key exists.
func (r *EntityRepository[T]) Exists(ctx context.Context, id int64) (bool, error) {
	defer r.observe("exists", time.Now())

	var exists bool
	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE %s = $1)", r.model.Table, r.model.PrimaryKey)
	if err := r.db.GetContext(ctx, &exists, query, id); err != nil {
		return false, fmt.Errorf("check %s %d: %w", r.model.Table, id, err)
	}
	return exists, nil
}

// ExistingIDs returns the subset of ids present in the table.
func (r *EntityRepository[T]) ExistingIDs(ctx context.Context, ids []int64) (map[int64]bool, error) {
	found := make(map[int64]bool, len(ids))
	if len(ids) == 0 {
		return found, nil
	}
	defer r.observe("existing_ids", time.Now())

	query, args, err := sqlx.In(fmt.Sprintf("SELECT %s FROM %s WHERE %s IN (?)", r.model.PrimaryKey, r.model.Table, r.model.PrimaryKey), ids)
	if err != nil {
		return nil, fmt.Errorf("build %s id lookup: %w", r.model.Table, err)
	}

	var present []int64
	if err := r.db.SelectContext(ctx, &present, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("lookup %s ids: %w", r.model.Table, err)
	}
	for _, id := range present {
		found[id] = true
	}
	return found, nil
}

// GetMany returns the rows with the given keys ordered by primary key.
func (r *EntityRepository[T]) GetMany(ctx context.Context, ids []int64) ([]T, error) {
	items := make([]T, 0, len(ids))
	if len(ids) == 0 {
		return items, nil
	}
	defer r.observe("get_many", time.Now())

	query, args, err := sqlx.In(fmt.Sprintf("%s WHERE t.%s IN (?) ORDER BY t.%s ASC", r.selectSQL, r.model.PrimaryKey, r.model.PrimaryKey), ids)
	if err != nil {
		return nil, fmt.Errorf("build %s batch lookup: %w", r.model.Table, err)
	}
	if err := r.db.SelectContext(ctx, &items, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("get many %s: %w", r.model.Table, err)
	}
	return items, nil
}

// List returns rows matching filter. Without an explicit order the rows are
// sorted by primary key ascending; the primary key is always the final
// tie-breaker.
func (r *EntityRepository[T]) List(ctx context.Context, filter Filter, order ...Order) ([]T, error) {
	defer r.observe("list", time.Now())

	where, args, err := r.where(filter, nil)
	if err != nil {
		return nil, err
	}
	orderBy, err := r.orderBy(order)
	if err != nil {
		return nil, err
	}

	items := make([]T, 0)
	query := fmt.Sprintf("%s%s ORDER BY %s", r.selectSQL, where, orderBy)
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("list %s: %w", r.model.Table, err)
	}
	return items, nil
}

// Page returns one page of rows matching the filter and search term along
// with the total number of matches.
func (r *EntityRepository[T]) Page(ctx context.Context, opts ListOptions) ([]T, int, error) {
	defer r.observe("page", time.Now())

	opts = opts.Normalize()
	where, args, err := r.where(opts.Filter, r.searchClause(opts.Search))
	if err != nil {
		return nil, 0, err
	}
	orderBy, err := r.orderBy(opts.Order)
	if err != nil {
		return nil, 0, err
	}

	items := make([]T, 0)
	query := fmt.Sprintf("%s%s ORDER BY %s LIMIT %d OFFSET %d", r.selectSQL, where, orderBy, opts.PageSize, (opts.Page-1)*opts.PageSize)
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, 0, fmt.Errorf("page %s: %w", r.model.Table, err)
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) %s%s", r.fromSQL, where)
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", r.model.Table, err)
	}

	return items, total, nil
}

// Insert writes a new row and returns its generated key. Unique and foreign
// key violations are returned as *UniqueViolationError and
// *ForeignKeyViolationError.
func (r *EntityRepository[T]) Insert(ctx context.Context, values Values) (int64, error) {
	defer r.observe("insert", time.Now())
	return r.insertOn(ctx, r.db, values)
}

// Update applies a partial update to the row with the given key.
func (r *EntityRepository[T]) Update(ctx context.Context, id int64, values Values) error {
	defer r.observe("update", time.Now())
	return r.updateOn(ctx, r.db, id, values)
}

// Delete removes the row with the given key.
func (r *EntityRepository[T]) Delete(ctx context.Context, id int64) error {
	defer r.observe("delete", time.Now())

	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", r.model.Table, r.model.PrimaryKey)
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete %s %d: %w", r.model.Table, id, translateError(err))
	}
	return nil
}

// InsertMany writes all rows in one transaction and returns their keys in
// input order. Either every row is stored or none is.
func (r *EntityRepository[T]) InsertMany(ctx context.Context, rows []Values) ([]int64, error) {
	defer r.observe("insert_many", time.Now())

	ids := make([]int64, 0, len(rows))
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		for i, values := range rows {
			id, err := r.insertOn(ctx, tx, values)
			if err != nil {
				return fmt.Errorf("row %d: %w", i, err)
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// UpdateMany applies all changes in one transaction.
func (r *EntityRepository[T]) UpdateMany(ctx context.Context, changes []Change) error {
	defer r.observe("update_many", time.Now())

	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		for _, change := range changes {
			if err := r.updateOn(ctx, tx, change.ID, change.Values); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *EntityRepository[T]) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin %s transaction: %w", r.model.Table, err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s transaction: %w", r.model.Table, err)
	}
	return nil
}

func (r *EntityRepository[T]) insertOn(ctx context.Context, ext sqlx.ExtContext, values Values) (int64, error) {
	keys, err := r.writableKeys(values)
	if err != nil {
		return 0, err
	}

	var query string
	args := make([]interface{}, 0, len(keys))
	if len(keys) == 0 {
		query = fmt.Sprintf("INSERT INTO %s DEFAULT VALUES RETURNING %s", r.model.Table, r.model.PrimaryKey)
	} else {
		placeholders := make([]string, len(keys))
		for i, key := range keys {
			placeholders[i] = fmt.Sprintf("$%d", i+1)
			args = append(args, values[key])
		}
		query = fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
			r.model.Table, strings.Join(keys, ", "), strings.Join(placeholders, ", "), r.model.PrimaryKey)
	}

	var id int64
	if err := ext.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert %s: %w", r.model.Table, translateError(err))
	}
	return id, nil
}

func (r *EntityRepository[T]) updateOn(ctx context.Context, ext sqlx.ExtContext, id int64, values Values) error {
	keys, err := r.writableKeys(values)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}

	sets := make([]string, 0, len(keys)+1)
	args := make([]interface{}, 0, len(keys)+1)
	for i, key := range keys {
		sets = append(sets, fmt.Sprintf("%s = $%d", key, i+1))
		args = append(args, values[key])
	}
	if r.model.Timestamps {
		sets = append(sets, "updated_at = NOW()")
	}
	args = append(args, id)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d", r.model.Table, strings.Join(sets, ", "), r.model.PrimaryKey, len(args))
	if _, err := ext.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update %s %d: %w", r.model.Table, id, translateError(err))
	}
	return nil
}

// writableKeys returns the sorted keys of values, rejecting the primary key,
// timestamps and anything outside the resource's columns.
func (r *EntityRepository[T]) writableKeys(values Values) ([]string, error) {
	keys := make([]string, 0, len(values))
	for key := range values {
		if key == r.model.PrimaryKey || key == "created_at" || key == "updated_at" {
			return nil, fmt.Errorf("%w: %s.%s is not writable", ErrUnknownColumn, r.model.Table, key)
		}
		if _, ok := r.columns[key]; !ok {
			return nil, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, r.model.Table, key)
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

func (r *EntityRepository[T]) where(filter Filter, search *searchClause) (string, []interface{}, error) {
	keys := make([]string, 0, len(filter))
	for key := range filter {
		if _, ok := r.columns[key]; !ok {
			return "", nil, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, r.model.Table, key)
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	conditions := make([]string, 0, len(keys)+1)
	args := make([]interface{}, 0, len(keys)+1)
	for _, key := range keys {
		value := filter[key]
		if value == nil {
			conditions = append(conditions, fmt.Sprintf("t.%s IS NULL", key))
			continue
		}
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf("t.%s = $%d", key, len(args)))
	}

	if search != nil {
		args = append(args, search.pattern)
		matches := make([]string, len(search.expressions))
		for i, expr := range search.expressions {
			matches[i] = fmt.Sprintf("%s ILIKE $%d", expr, len(args))
		}
		conditions = append(conditions, "("+strings.Join(matches, " OR ")+")")
	}

	if len(conditions) == 0 {
		return "", args, nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args, nil
}

func (r *EntityRepository[T]) orderBy(order []Order) (string, error) {
	parts := make([]string, 0, len(order)+1)
	sawKey := false
	for _, o := range order {
		if _, ok := r.columns[o.Column]; !ok {
			return "", fmt.Errorf("%w: %s.%s", ErrUnknownColumn, r.model.Table, o.Column)
		}
		direction := "ASC"
		if o.Desc {
			direction = "DESC"
		}
		parts = append(parts, fmt.Sprintf("t.%s %s", o.Column, direction))
		if o.Column == r.model.PrimaryKey {
			sawKey = true
		}
	}
	if !sawKey {
		parts = append(parts, fmt.Sprintf("t.%s ASC", r.model.PrimaryKey))
	}
	return strings.Join(parts, ", "), nil
}

type searchClause struct {
	expressions []string
	pattern     string
}

func (r *EntityRepository[T]) searchClause(term string) *searchClause {
	term = strings.TrimSpace(term)
	if term == "" || len(r.model.Searchable) == 0 {
		return nil
	}
	escaped := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(term)
	return &searchClause{expressions: r.model.Searchable, pattern: "%" + escaped + "%"}
}

func (r *EntityRepository[T]) observe(op string, start time.Time) {
	if r.observer == nil {
		return
	}
	r.observer.ObserveDBQuery(r.model.Table+"."+op, time.Since(start))
}
