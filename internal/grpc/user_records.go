package grpcserver

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"cogitRecords/internal/auth"
	"cogitRecords/internal/db"
	"cogitRecords/internal/session"
	"cogitRecords/models"
	"cogitRecords/record"
)

const (
	defaultPageSize = 20  // ListUsers limit when none is given.
	maxPageSize     = 100 // Upper bound for ListUsers limit.
)

// UserRecordsServer implements UserRecordsService over the cogit_users records.
type UserRecordsServer struct {
	Store    *record.Store // nil uses the process default store
	Sessions session.Store
	Hasher   *auth.Hasher
	Secret   string
	TokenTTL time.Duration
	Log      zerolog.Logger
}

var _ UserRecordsService = (*UserRecordsServer)(nil)

func (s *UserRecordsServer) user() *models.User {
	u := models.NewUser()
	if s.Store != nil {
		u.Bind(s.Store)
	}
	return u
}

// Register creates a "user" role record with a bcrypt password hash.
func (s *UserRecordsServer) Register(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	email := normalizeEmail(stringField(in, "email"))
	password := stringField(in, "password")
	if email == "" || password == "" {
		return nil, status.Error(codes.InvalidArgument, "email and password are required")
	}

	_, exists, err := s.user().FindOneByEmail(ctx, email)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "find user: %v", err)
	}
	if exists {
		return nil, status.Error(codes.AlreadyExists, "email already registered")
	}

	hash, err := s.Hasher.Hash(password)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "hash password: %v", err)
	}
	if _, err := s.user().SetEmail(email).SetPsw(hash).SetRole(models.RoleUser).Create(ctx); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, status.Error(codes.AlreadyExists, "email already registered")
		}
		return nil, status.Errorf(codes.Internal, "create user: %v", err)
	}

	// LastInsertId is not portable across drivers, so read the row back.
	row, ok, err := s.user().FindOneByEmail(ctx, email)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "find user: %v", err)
	}
	if !ok {
		return nil, status.Error(codes.Internal, "created user not found")
	}
	s.Log.Info().Str("email", email).Msg("user registered")
	return toStruct(map[string]any{"user": map[string]any(models.Public(row))})
}

// Login verifies credentials, stores the user projection in a new session and issues a JWT.
func (s *UserRecordsServer) Login(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	email := normalizeEmail(stringField(in, "email"))
	password := stringField(in, "password")
	if email == "" || password == "" {
		return nil, status.Error(codes.InvalidArgument, "email and password are required")
	}

	row, ok, err := s.user().FindOneByEmail(ctx, email)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "find user: %v", err)
	}
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "invalid credentials")
	}
	u, err := s.user().Hydrate(row)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "hydrate user: %v", err)
	}
	if err := s.Hasher.Compare(u.Psw(), password); err != nil {
		return nil, status.Error(codes.Unauthenticated, "invalid credentials")
	}

	sess := session.New()
	u.SetSession(sess)
	if err := s.Sessions.Save(ctx, sess); err != nil {
		return nil, status.Errorf(codes.Internal, "save session: %v", err)
	}
	token, err := auth.IssueToken(s.Secret, u.Projection(), s.TokenTTL)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "issue token: %v", err)
	}

	s.Log.Info().Int64("user_id", u.ID()).Str("session_id", sess.ID).Msg("user logged in")
	return toStruct(map[string]any{
		"token":      token,
		"session_id": sess.ID,
		"user":       map[string]any(models.Public(row)),
	})
}

// Me returns the caller's own row.
func (s *UserRecordsServer) Me(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	p, err := auth.RequirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	row, ok, err := s.user().Find(ctx, p.UserID)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "find user: %v", err)
	}
	if !ok {
		return nil, status.Error(codes.NotFound, "user not found")
	}
	return toStruct(map[string]any{"user": map[string]any(models.Public(row))})
}

// ListUsers returns up to limit users ordered by field. Admin only.
func (s *UserRecordsServer) ListUsers(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if _, err := auth.RequireAdmin(ctx, s.Store); err != nil {
		return nil, err
	}
	limit := int(numberField(in, "limit"))
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	field := stringField(in, "field")
	if field == "" {
		field = record.PrimaryKey
	}

	rows, err := s.user().LimitBy(ctx, limit, stringField(in, "order"), field)
	if err != nil {
		if isInvalidQuery(err) {
			return nil, status.Errorf(codes.InvalidArgument, "list users: %v", err)
		}
		return nil, status.Errorf(codes.Internal, "list users: %v", err)
	}
	users := make([]any, 0, len(rows))
	for _, row := range rows {
		users = append(users, map[string]any(models.Public(row)))
	}
	return toStruct(map[string]any{"users": users})
}

// DeleteUser removes the user with the given id. Admin only.
func (s *UserRecordsServer) DeleteUser(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	p, err := auth.RequireAdmin(ctx, s.Store)
	if err != nil {
		return nil, err
	}
	id := int64(numberField(in, "id"))
	if id <= 0 {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}
	res, err := s.user().Delete(ctx, id)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "delete user: %v", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, status.Error(codes.NotFound, "user not found")
	}
	s.Log.Info().Int64("user_id", id).Int64("by", p.UserID).Msg("user deleted")
	return toStruct(map[string]any{"deleted": id})
}

func isInvalidQuery(err error) bool {
	return errors.Is(err, record.ErrUnknownColumn) ||
		errors.Is(err, record.ErrInvalidOrder) ||
		errors.Is(err, record.ErrInvalidLimit)
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func stringField(in *structpb.Struct, name string) string {
	return in.GetFields()[name].GetStringValue()
}

func numberField(in *structpb.Struct, name string) float64 {
	return in.GetFields()[name].GetNumberValue()
}

func toStruct(m map[string]any) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}
