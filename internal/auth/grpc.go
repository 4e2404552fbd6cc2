package auth

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"cogitRecords/models"
	"cogitRecords/record"
)

// NewUnaryAuthInterceptor returns a gRPC unary interceptor that extracts and validates
// a Bearer JWT from incoming metadata and injects the Principal into the context.
// Methods listed in allowUnauthenticated will bypass authentication (e.g., health checks).
func NewUnaryAuthInterceptor(secret string, allowUnauthenticated ...string) grpc.UnaryServerInterceptor {
	allow := make(map[string]struct{}, len(allowUnauthenticated))
	for _, m := range allowUnauthenticated {
		allow[strings.TrimSpace(m)] = struct{}{}
	}
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if _, ok := allow[info.FullMethod]; ok {
			return handler(ctx, req)
		}
		p, err := ParseFromMD(ctx, secret)
		if err != nil {
			return nil, status.Errorf(codes.Unauthenticated, "auth error: %v", err)
		}
		return handler(WithPrincipal(ctx, p), req)
	}
}

// RequirePrincipal ensures a principal is present in context.
func RequirePrincipal(ctx context.Context) (*Principal, error) {
	p, ok := FromContext(ctx)
	if !ok || p == nil {
		return nil, status.Error(codes.Unauthenticated, "missing principal")
	}
	return p, nil
}

// RequireRole ensures the principal carries the given role (lowercased compare).
func RequireRole(ctx context.Context, role string) (*Principal, error) {
	p, err := RequirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	if p.Role != strings.ToLower(role) {
		return nil, status.Errorf(codes.PermissionDenied, "only %s can perform this action", strings.ToLower(role))
	}
	return p, nil
}

// RequireAdmin ensures the caller is an admin principal AND that the underlying
// user row still has role 'admin'. A nil store uses the default store.
func RequireAdmin(ctx context.Context, st *record.Store) (*Principal, error) {
	p, err := RequireRole(ctx, models.RoleAdmin)
	if err != nil {
		return nil, err
	}
	u := models.NewUser()
	if st != nil {
		u.Bind(st)
	}
	row, ok, err := u.FindOneByEmail(ctx, p.Email)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "get user: %v", err)
	}
	if !ok {
		return nil, status.Error(codes.PermissionDenied, "only admin can perform this action")
	}
	role, _ := row["role"].(string)
	if strings.ToLower(strings.TrimSpace(role)) != models.RoleAdmin {
		return nil, status.Error(codes.PermissionDenied, "only admin can perform this action")
	}
	return p, nil
}
