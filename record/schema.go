package record

import (
	"fmt"
	"regexp"
	"strconv"
)

// PrimaryKey is the column every schema must declare.
const PrimaryKey = "id"

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Column maps one table column to an entity field.
// Get reports false when the field is null (unset); Set receives the raw store value,
// nil meaning NULL.
type Column[T any] struct {
	Name string
	Get  func(T) (any, bool)
	Set  func(T, any) error
}

// Schema is the column registry of one entity type, built once per type.
type Schema[T any] struct {
	table   string
	columns []Column[T]
	index   map[string]int
}

// NewSchema validates the table and column identifiers and indexes the setters.
func NewSchema[T any](table string, columns ...Column[T]) (*Schema[T], error) {
	if !identRe.MatchString(table) {
		return nil, fmt.Errorf("record: invalid table name %q", table)
	}
	s := &Schema[T]{table: table, index: make(map[string]int, len(columns))}
	for _, c := range columns {
		if !identRe.MatchString(c.Name) {
			return nil, fmt.Errorf("record: invalid column name %q", c.Name)
		}
		if c.Get == nil || c.Set == nil {
			return nil, fmt.Errorf("record: column %q needs Get and Set", c.Name)
		}
		if _, dup := s.index[c.Name]; dup {
			return nil, fmt.Errorf("record: duplicate column %q", c.Name)
		}
		s.index[c.Name] = len(s.columns)
		s.columns = append(s.columns, c)
	}
	if _, ok := s.index[PrimaryKey]; !ok {
		return nil, fmt.Errorf("record: table %s has no %s column", table, PrimaryKey)
	}
	return s, nil
}

// MustSchema is NewSchema that panics; meant for package-level schema variables.
func MustSchema[T any](table string, columns ...Column[T]) *Schema[T] {
	s, err := NewSchema(table, columns...)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Schema[T]) Table() string { return s.table }

// Columns returns the column names in declaration order.
func (s *Schema[T]) Columns() []string {
	out := make([]string, len(s.columns))
	for i, c := range s.columns {
		out[i] = c.Name
	}
	return out
}

func (s *Schema[T]) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

func (s *Schema[T]) column(name string) (Column[T], bool) {
	i, ok := s.index[name]
	if !ok {
		return Column[T]{}, false
	}
	return s.columns[i], true
}

// Value adapts a nullable field for Column.Get.
func Value[V any](p *V) (any, bool) {
	if p == nil {
		return nil, false
	}
	return *p, true
}

// SetInt64 stores v into dst, accepting the integer shapes drivers and callers produce.
func SetInt64(dst **int64, v any) error {
	if v == nil {
		*dst = nil
		return nil
	}
	var n int64
	switch x := v.(type) {
	case int64:
		n = x
	case int:
		n = int64(x)
	case int32:
		n = int64(x)
	case float64:
		if x != float64(int64(x)) {
			return fmt.Errorf("%w: %v is not an integer", ErrBadValue, x)
		}
		n = int64(x)
	case string:
		p, err := strconv.ParseInt(x, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: %q is not an integer", ErrBadValue, x)
		}
		n = p
	case []byte:
		return SetInt64(dst, string(x))
	default:
		return fmt.Errorf("%w: %T is not an integer", ErrBadValue, v)
	}
	*dst = &n
	return nil
}

// SetString stores v into dst. Only textual values are accepted.
func SetString(dst **string, v any) error {
	if v == nil {
		*dst = nil
		return nil
	}
	var s string
	switch x := v.(type) {
	case string:
		s = x
	case []byte:
		s = string(x)
	default:
		return fmt.Errorf("%w: %T is not a string", ErrBadValue, v)
	}
	*dst = &s
	return nil
}
