package record

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"cogitRecords/internal/db"
	"cogitRecords/internal/metrics"
)

// Row is one raw result row keyed by column name.
type Row map[string]any

const defaultTimeout = 3 * time.Second

// Store executes the statements built by records against one database handle.
type Store struct {
	db      *sql.DB
	dialect db.Dialect
	timeout time.Duration
	log     zerolog.Logger
	metrics *metrics.Queries
}

type Option func(*Store)

func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithTimeout bounds every statement; zero or negative keeps the default.
func WithTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func WithMetrics(q *metrics.Queries) Option {
	return func(s *Store) { s.metrics = q }
}

func NewStore(d *sql.DB, dialect db.Dialect, opts ...Option) *Store {
	s := &Store{db: d, dialect: dialect, timeout: defaultTimeout, log: zerolog.Nop()}
	for _, o := range opts {
		o(s)
	}
	return s
}

var (
	defaultStore *Store
	defaultMu    sync.RWMutex
)

// Use sets the process-wide store that records fall back to.
func Use(s *Store) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultStore = s
}

// Default returns the currently configured process-wide store, or nil.
func Default() *Store {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultStore
}

func (s *Store) Dialect() db.Dialect { return s.dialect }

// Ping checks the store is reachable.
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.db.PingContext(ctx)
}

func (s *Store) query(ctx context.Context, op, table, q string, args ...any) (out []Row, err error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	defer s.observe(op, table, q, time.Now(), &err)

	rows, err := s.db.QueryContext(ctx, s.dialect.Rebind(q), args...)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", op, table, err)
	}
	defer rows.Close()
	out, err = scanRows(rows)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", op, table, err)
	}
	return out, nil
}

// queryOne returns the first row, or false when the result is empty.
func (s *Store) queryOne(ctx context.Context, op, table, q string, args ...any) (Row, bool, error) {
	rows, err := s.query(ctx, op, table, q, args...)
	if err != nil {
		return nil, false, err
	}
	if len(rows) == 0 {
		return nil, false, nil
	}
	return rows[0], true, nil
}

func (s *Store) exec(ctx context.Context, op, table, q string, args ...any) (res sql.Result, err error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	defer s.observe(op, table, q, time.Now(), &err)

	res, err = s.db.ExecContext(ctx, s.dialect.Rebind(q), args...)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", op, table, err)
	}
	return res, nil
}

func (s *Store) observe(op, table, q string, start time.Time, errp *error) {
	err := *errp
	s.metrics.Observe(op, table, start, err)
	ev := s.log.Debug()
	if err != nil && !errors.Is(err, context.Canceled) {
		ev = s.log.Warn().Err(err)
	}
	ev.Str("op", op).
		Str("table", table).
		Str("sql", q).
		Dur("took", time.Since(start)).
		Msg("record query")
}

func scanRows(rows *sql.Rows) ([]Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var out []Row
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(Row, len(cols))
		for i, c := range cols {
			if b, ok := vals[i].([]byte); ok {
				row[c] = string(b)
				continue
			}
			row[c] = vals[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
