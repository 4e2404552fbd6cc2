package db

import (
	"strconv"
	"strings"
)

// Dialect describes the SQL flavor of an opened store.
// Statements in this module are written with `?` placeholders and rebound per dialect.
type Dialect struct {
	Name   string // "sqlite" | "postgres"
	Driver string // database/sql driver name
	// numbered placeholders ($1, $2, ...) instead of `?`
	numbered bool
}

var (
	SQLite   = Dialect{Name: "sqlite", Driver: "sqlite3"}
	Postgres = Dialect{Name: "postgres", Driver: "pgx", numbered: true}
)

// DialectFor picks the dialect from the DSN: postgres URLs and keyword DSNs select
// Postgres, anything else is treated as a SQLite path or file: URI.
func DialectFor(dsn string) Dialect {
	s := strings.ToLower(strings.TrimSpace(dsn))
	switch {
	case strings.HasPrefix(s, "postgres://"), strings.HasPrefix(s, "postgresql://"):
		return Postgres
	case strings.Contains(s, "host=") && strings.Contains(s, "dbname="):
		return Postgres
	default:
		return SQLite
	}
}

// Rebind rewrites `?` placeholders into the dialect's form.
// Question marks inside single-quoted literals are left alone.
func (d Dialect) Rebind(query string) string {
	if !d.numbered || !strings.Contains(query, "?") {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	inQuote := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			inQuote = !inQuote
			b.WriteByte(c)
		case c == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func (d Dialect) String() string { return d.Name }
