package models

import (
	"context"

	"cogitRecords/internal/session"
	"cogitRecords/record"
)

// UsersTable is the table backing User.
const UsersTable = "cogit_users"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is the active record of one cogit_users row. Every field is nullable;
// an unset field is neither inserted nor updated.
type User struct {
	record.Record[*User]

	id    *int64
	email *string
	psw   *string // bcrypt hash
	role  *string
}

var userSchema = record.MustSchema(UsersTable,
	record.Column[*User]{
		Name: "id",
		Get:  func(u *User) (any, bool) { return record.Value(u.id) },
		Set:  func(u *User, v any) error { return record.SetInt64(&u.id, v) },
	},
	record.Column[*User]{
		Name: "email",
		Get:  func(u *User) (any, bool) { return record.Value(u.email) },
		Set:  func(u *User, v any) error { return record.SetString(&u.email, v) },
	},
	record.Column[*User]{
		Name: "psw",
		Get:  func(u *User) (any, bool) { return record.Value(u.psw) },
		Set:  func(u *User, v any) error { return record.SetString(&u.psw, v) },
	},
	record.Column[*User]{
		Name: "role",
		Get:  func(u *User) (any, bool) { return record.Value(u.role) },
		Set:  func(u *User, v any) error { return record.SetString(&u.role, v) },
	},
)

// NewUser returns an empty user bound to the default store.
func NewUser() *User {
	u := &User{}
	u.Record = record.New(userSchema, u)
	return u
}

// FindOneByEmail returns the row with the given email; false when there is none.
func (u *User) FindOneByEmail(ctx context.Context, email string) (record.Row, bool, error) {
	rows, err := u.FindBy(ctx, record.Criteria{"email": email}, "id", "ASC")
	if err != nil {
		return nil, false, err
	}
	if len(rows) == 0 {
		return nil, false, nil
	}
	return rows[0], true, nil
}

// Projection returns the fields carried in a session.
func (u *User) Projection() session.Projection {
	return session.Projection{ID: u.ID(), Email: u.Email(), Role: u.Role()}
}

// SetSession writes the user's id, email and role into s under session.UserKey.
func (u *User) SetSession(s *session.Session) {
	s.Put(session.UserKey, u.Projection())
}

func (u *User) ID() int64 {
	if u.id == nil {
		return 0
	}
	return *u.id
}

func (u *User) SetID(id int64) *User {
	u.id = &id
	return u
}

func (u *User) Email() string {
	if u.email == nil {
		return ""
	}
	return *u.email
}

func (u *User) SetEmail(email string) *User {
	u.email = &email
	return u
}

// Psw returns the stored password hash.
func (u *User) Psw() string {
	if u.psw == nil {
		return ""
	}
	return *u.psw
}

func (u *User) SetPsw(psw string) *User {
	u.psw = &psw
	return u
}

func (u *User) Role() string {
	if u.role == nil {
		return ""
	}
	return *u.role
}

func (u *User) SetRole(role string) *User {
	u.role = &role
	return u
}

// Public strips the password hash from a user row.
func Public(row record.Row) record.Row {
	out := make(record.Row, len(row))
	for k, v := range row {
		if k == "psw" {
			continue
		}
		out[k] = v
	}
	return out
}
