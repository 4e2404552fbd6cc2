package record

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
)

// Criteria are column = value equality predicates, combined with AND.
type Criteria map[string]any

// Record implements the generic CRUD operations for an entity T described by a Schema.
// Entities embed it and pass themselves as self, so the finders and Hydrate return
// the concrete entity.
type Record[T any] struct {
	schema *Schema[T]
	self   T
	store  *Store
}

// New binds schema and self. The store is resolved lazily from Default on first query
// unless Bind is called.
func New[T any](schema *Schema[T], self T) Record[T] {
	return Record[T]{schema: schema, self: self}
}

// Bind pins the record to s instead of the process-wide default.
func (r *Record[T]) Bind(s *Store) T {
	r.store = s
	return r.self
}

// Table returns the table name, or "" if the record has no schema.
func (r *Record[T]) Table() string {
	if r.schema == nil {
		return ""
	}
	return r.schema.table
}

func (r *Record[T]) conn() (*Store, error) {
	if r.schema == nil {
		return nil, ErrNoTable
	}
	if r.store == nil {
		r.store = Default()
	}
	if r.store == nil {
		return nil, ErrNoStore
	}
	return r.store, nil
}

// FindAll returns every row sorted by field/order (defaults: id ASC). Rows are not hydrated.
func (r *Record[T]) FindAll(ctx context.Context, field, order string) ([]Row, error) {
	s, err := r.conn()
	if err != nil {
		return nil, err
	}
	orderBy, err := r.orderBy(field, order)
	if err != nil {
		return nil, err
	}
	return s.query(ctx, "find_all", r.schema.table, "SELECT * FROM "+r.schema.table+orderBy)
}

// FindBy returns the rows matching every criterion, sorted by field/order.
// Predicates are emitted in column-name order. Empty criteria match every row.
func (r *Record[T]) FindBy(ctx context.Context, criteria Criteria, field, order string) ([]Row, error) {
	s, err := r.conn()
	if err != nil {
		return nil, err
	}
	orderBy, err := r.orderBy(field, order)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(criteria))
	for k := range criteria {
		if !r.schema.Has(k) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, k)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	q := "SELECT * FROM " + r.schema.table
	args := make([]any, 0, len(keys))
	if len(keys) > 0 {
		preds := make([]string, len(keys))
		for i, k := range keys {
			preds[i] = k + " = ?"
			args = append(args, criteria[k])
		}
		q += " WHERE " + strings.Join(preds, " AND ")
	}
	return s.query(ctx, "find_by", r.schema.table, q+orderBy, args...)
}

// Find returns the row with the given primary key; false when there is none.
func (r *Record[T]) Find(ctx context.Context, id int64) (Row, bool, error) {
	s, err := r.conn()
	if err != nil {
		return nil, false, err
	}
	return s.queryOne(ctx, "find", r.schema.table,
		"SELECT * FROM "+r.schema.table+" WHERE "+PrimaryKey+" = ?", id)
}

// Create inserts the entity's set columns. Null and blank values ("", 0, false) are
// left out so the store applies its defaults. The generated id is not written back;
// read it from the result.
func (r *Record[T]) Create(ctx context.Context) (sql.Result, error) {
	s, err := r.conn()
	if err != nil {
		return nil, err
	}
	var cols, marks []string
	var args []any
	for _, c := range r.schema.columns {
		v, ok := c.Get(r.self)
		if !ok || blank(v) {
			continue
		}
		cols = append(cols, c.Name)
		marks = append(marks, "?")
		args = append(args, v)
	}
	if len(cols) == 0 {
		return nil, ErrNoColumns
	}
	q := "INSERT INTO " + r.schema.table + " (" + strings.Join(cols, ", ") + ") VALUES (" + strings.Join(marks, ", ") + ")"
	return s.exec(ctx, "create", r.schema.table, q, args...)
}

// Update overwrites every non-null column of the row keyed by the entity's id.
// Null fields are skipped: Update never sets a column to NULL.
func (r *Record[T]) Update(ctx context.Context) (sql.Result, error) {
	s, err := r.conn()
	if err != nil {
		return nil, err
	}
	pk, _ := r.schema.column(PrimaryKey)
	id, ok := pk.Get(r.self)
	if !ok {
		return nil, ErrMissingID
	}
	var sets []string
	var args []any
	for _, c := range r.schema.columns {
		if c.Name == PrimaryKey {
			continue
		}
		v, ok := c.Get(r.self)
		if !ok {
			continue
		}
		sets = append(sets, c.Name+" = ?")
		args = append(args, v)
	}
	if len(sets) == 0 {
		return nil, ErrNoColumns
	}
	args = append(args, id)
	q := "UPDATE " + r.schema.table + " SET " + strings.Join(sets, ", ") + " WHERE " + PrimaryKey + " = ?"
	return s.exec(ctx, "update", r.schema.table, q, args...)
}

// Delete removes the row with the given primary key.
func (r *Record[T]) Delete(ctx context.Context, id int64) (sql.Result, error) {
	s, err := r.conn()
	if err != nil {
		return nil, err
	}
	return s.exec(ctx, "delete", r.schema.table,
		"DELETE FROM "+r.schema.table+" WHERE "+PrimaryKey+" = ?", id)
}

// LimitBy returns at most limit rows sorted by field/order (defaults: id ASC).
func (r *Record[T]) LimitBy(ctx context.Context, limit int, order, field string) ([]Row, error) {
	s, err := r.conn()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	orderBy, err := r.orderBy(field, order)
	if err != nil {
		return nil, err
	}
	return s.query(ctx, "limit_by", r.schema.table,
		"SELECT * FROM "+r.schema.table+orderBy+" LIMIT ?", limit)
}

// Hydrate calls the setter of every key that names a column; other keys are ignored.
// It returns the entity so construction can be chained.
func (r *Record[T]) Hydrate(row Row) (T, error) {
	if r.schema == nil {
		return r.self, ErrNoTable
	}
	for k, v := range row {
		c, ok := r.schema.column(k)
		if !ok {
			continue
		}
		if err := c.Set(r.self, v); err != nil {
			return r.self, fmt.Errorf("hydrate %s.%s: %w", r.schema.table, k, err)
		}
	}
	return r.self, nil
}

// orderBy validates field against the schema and order against ASC/DESC.
func (r *Record[T]) orderBy(field, order string) (string, error) {
	if field == "" {
		field = PrimaryKey
	}
	if !r.schema.Has(field) {
		return "", fmt.Errorf("%w: %s", ErrUnknownColumn, field)
	}
	switch strings.ToUpper(strings.TrimSpace(order)) {
	case "", "ASC":
		order = "ASC"
	case "DESC":
		order = "DESC"
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidOrder, order)
	}
	return " ORDER BY " + field + " " + order, nil
}

// blank mirrors a loose null test: empty strings, zero numbers and false count as unset.
func blank(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case int:
		return x == 0
	case int64:
		return x == 0
	case int32:
		return x == 0
	case float64:
		return x == 0
	case bool:
		return !x
	}
	return false
}
