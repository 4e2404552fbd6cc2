package models

import (
	"context"
	"testing"

	"cogitRecords/internal/session"
	"cogitRecords/internal/testutil"
	"cogitRecords/record"
)

func TestUser_CreateAndFindOneByEmail(t *testing.T) {
	st := testutil.OpenStore(t, "usercreate")
	ctx := context.Background()

	res, err := NewUser().Bind(st).SetEmail("a@x.com").SetPsw("hash1").SetRole(RoleUser).Create(ctx)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil || id == 0 {
		t.Fatalf("last insert id: %v %d", err, id)
	}

	row, ok, err := NewUser().Bind(st).FindOneByEmail(ctx, "a@x.com")
	if err != nil || !ok {
		t.Fatalf("find one by email: %v ok=%v", err, ok)
	}
	if row["email"] != "a@x.com" || row["role"] != RoleUser || row["id"] != id {
		t.Fatalf("unexpected row: %+v", row)
	}

	_, ok, err = NewUser().Bind(st).FindOneByEmail(ctx, "nobody@x.com")
	if err != nil || ok {
		t.Fatalf("expected no row, got ok=%v err=%v", ok, err)
	}
}

func TestUser_HydrateGettersAndUpdate(t *testing.T) {
	st := testutil.OpenStore(t, "userupdate")
	ctx := context.Background()

	res, err := NewUser().Bind(st).SetEmail("b@x.com").SetPsw("hash").SetRole(RoleUser).Create(ctx)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	id, _ := res.LastInsertId()

	row, ok, err := NewUser().Bind(st).Find(ctx, id)
	if err != nil || !ok {
		t.Fatalf("find: %v ok=%v", err, ok)
	}
	u, err := NewUser().Bind(st).Hydrate(row)
	if err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	if u.ID() != id || u.Email() != "b@x.com" || u.Psw() != "hash" || u.Role() != RoleUser {
		t.Fatalf("hydrated user mismatch: id=%d email=%s role=%s", u.ID(), u.Email(), u.Role())
	}

	if _, err := u.SetRole(RoleAdmin).Update(ctx); err != nil {
		t.Fatalf("update: %v", err)
	}

	// A partial user only touches the columns it has set.
	if _, err := NewUser().Bind(st).SetID(id).SetEmail("c@x.com").Update(ctx); err != nil {
		t.Fatalf("partial update: %v", err)
	}
	row, _, err = NewUser().Bind(st).Find(ctx, id)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if row["email"] != "c@x.com" || row["role"] != RoleAdmin || row["psw"] != "hash" {
		t.Fatalf("update changed unexpected columns: %+v", row)
	}
}

func TestUser_DeleteAndLimitBy(t *testing.T) {
	st := testutil.OpenStore(t, "userdelete")
	ctx := context.Background()

	var ids []int64
	for _, email := range []string{"1@x.com", "2@x.com", "3@x.com", "4@x.com", "5@x.com"} {
		res, err := NewUser().Bind(st).SetEmail(email).SetPsw("h").Create(ctx)
		if err != nil {
			t.Fatalf("create %s: %v", email, err)
		}
		id, _ := res.LastInsertId()
		ids = append(ids, id)
	}

	top, err := NewUser().Bind(st).LimitBy(ctx, 2, "DESC", "id")
	if err != nil || len(top) != 2 {
		t.Fatalf("limit by: %v len=%d", err, len(top))
	}
	if top[0]["id"] != ids[4] || top[1]["id"] != ids[3] {
		t.Fatalf("limit by order: %v %v", top[0]["id"], top[1]["id"])
	}
	// role omitted on create, store default applies
	if top[0]["role"] != RoleUser {
		t.Fatalf("default role not applied: %+v", top[0])
	}

	if _, err := NewUser().Bind(st).Delete(ctx, ids[0]); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, err := NewUser().Bind(st).Find(ctx, ids[0]); err != nil || ok {
		t.Fatalf("expected deleted row gone, ok=%v err=%v", ok, err)
	}
	all, err := NewUser().Bind(st).FindAll(ctx, "email", "ASC")
	if err != nil || len(all) != 4 {
		t.Fatalf("find all: %v len=%d", err, len(all))
	}
}

func TestUser_SetSession(t *testing.T) {
	u, err := NewUser().Hydrate(record.Row{"id": int64(7), "email": "s@x.com", "psw": "h", "role": RoleAdmin, "ignored": 1})
	if err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	s := session.New()
	u.SetSession(s)

	p, ok := s.User()
	if !ok {
		t.Fatalf("no projection in session")
	}
	if p != (session.Projection{ID: 7, Email: "s@x.com", Role: RoleAdmin}) {
		t.Fatalf("projection mismatch: %+v", p)
	}
}

func TestUser_Table(t *testing.T) {
	if got := NewUser().Table(); got != UsersTable {
		t.Fatalf("table = %q", got)
	}
	if got := Public(record.Row{"id": 1, "psw": "h"}); len(got) != 1 || got["psw"] != nil {
		t.Fatalf("public leaked hash: %+v", got)
	}
}
