package auth

import (
	"context"
	"testing"

	"google.golang.org/grpc"

	"cogitRecords/internal/testutil"
	"cogitRecords/models"
)

func TestRequireRoleHelpers(t *testing.T) {
	ctx := WithPrincipal(context.Background(), &Principal{UserID: 1, Email: "u@x.com", Role: "user"})
	if _, err := RequireRole(ctx, "user"); err != nil {
		t.Fatalf("RequireRole user: %v", err)
	}
	if _, err := RequireRole(ctx, "admin"); err == nil {
		t.Fatalf("expected admin rejection for user")
	}
	if _, err := RequirePrincipal(context.Background()); err == nil {
		t.Fatalf("expected missing principal error")
	}
}

func TestRequireAdmin_WithDBRoleCheck(t *testing.T) {
	st := testutil.OpenStore(t, "authadmin")
	ctx := context.Background()
	res, err := models.NewUser().Bind(st).SetEmail("alice@x.com").SetPsw("h").SetRole(models.RoleUser).Create(ctx)
	if err != nil {
		t.Fatalf("create alice: %v", err)
	}
	id, _ := res.LastInsertId()

	// Token claims admin but the row says user
	pctx := WithPrincipal(ctx, &Principal{UserID: id, Email: "alice@x.com", Role: "admin"})
	if _, err := RequireAdmin(pctx, st); err == nil {
		t.Fatalf("expected PermissionDenied for non-admin role")
	}

	if _, err := models.NewUser().Bind(st).SetID(id).SetRole(models.RoleAdmin).Update(ctx); err != nil {
		t.Fatalf("update role: %v", err)
	}
	if _, err := RequireAdmin(pctx, st); err != nil {
		t.Fatalf("RequireAdmin real admin: %v", err)
	}

	ghost := WithPrincipal(ctx, &Principal{UserID: 99, Email: "ghost@x.com", Role: "admin"})
	if _, err := RequireAdmin(ghost, st); err == nil {
		t.Fatalf("expected rejection for unknown user")
	}
}

func TestUnaryAuthInterceptor(t *testing.T) {
	secret := "s3cr3t"
	interceptor := NewUnaryAuthInterceptor(secret, "/health")

	// Allowlisted path: no header -> handler executes, no principal
	hCalled := false
	_, err := interceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/health"}, func(ctx context.Context, req any) (any, error) {
		hCalled = true
		if p, ok := FromContext(ctx); ok && p != nil {
			t.Fatalf("expected no principal on allowlisted path")
		}
		return 123, nil
	})
	if err != nil || !hCalled {
		t.Fatalf("allowlisted handler err=%v called=%v", err, hCalled)
	}

	// Authenticated path: with token -> principal injected
	tok := testutil.GenerateJWTHS256(t, secret, 2, "bob@x.com", "user")
	ctx := testutil.CtxWithBearer(context.Background(), tok)
	_, err = interceptor(ctx, nil, &grpc.UnaryServerInfo{FullMethod: "/svc/Op"}, func(ctx context.Context, req any) (any, error) {
		p, ok := FromContext(ctx)
		if !ok || p == nil || p.Email != "bob@x.com" || p.Role != "user" {
			t.Fatalf("principal not injected: %+v ok=%v", p, ok)
		}
		return nil, nil
	})
	if err != nil {
		t.Fatalf("interceptor auth path: %v", err)
	}

	// No token on a protected path
	if _, err := interceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/svc/Op"}, func(ctx context.Context, req any) (any, error) {
		t.Fatalf("handler must not run")
		return nil, nil
	}); err == nil {
		t.Fatalf("expected Unauthenticated")
	}
}
