package models

import (
	"context"

	"cogitRecords/record"
)

// NewAdmin returns an empty user with Role preset to "admin".
func NewAdmin() *User {
	return NewUser().SetRole(RoleAdmin)
}

// EnsureAdmin makes email an admin. A missing user is created with the given
// password hash; an existing one keeps its hash and only has its role raised.
// It reports whether a row was created.
func EnsureAdmin(ctx context.Context, st *record.Store, email, psw string) (bool, error) {
	u := NewUser()
	if st != nil {
		u.Bind(st)
	}
	row, ok, err := u.FindOneByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	if !ok {
		a := NewAdmin().SetEmail(email).SetPsw(psw)
		if st != nil {
			a.Bind(st)
		}
		_, err := a.Create(ctx)
		return err == nil, err
	}
	if role, _ := row["role"].(string); role == RoleAdmin {
		return false, nil
	}
	existing, err := u.Hydrate(record.Row{"id": row["id"]})
	if err != nil {
		return false, err
	}
	_, err = existing.SetRole(RoleAdmin).Update(ctx)
	return false, err
}
