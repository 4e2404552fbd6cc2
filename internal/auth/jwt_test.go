package auth

import (
	"context"
	"testing"
	"time"

	"google.golang.org/grpc/metadata"

	"cogitRecords/internal/session"
	"cogitRecords/internal/testutil"
)

const testSecret = "test-secret"

func TestParseFromMD_ValidBearer(t *testing.T) {
	tok := testutil.GenerateJWTHS256(t, testSecret, 4, "alice@x.com", "user")
	ctx := testutil.CtxWithBearer(context.Background(), tok)
	p, err := ParseFromMD(ctx, testSecret)
	if err != nil {
		t.Fatalf("ParseFromMD: %v", err)
	}
	if p.UserID != 4 || p.Email != "alice@x.com" || p.Role != "user" {
		t.Fatalf("principal mismatch: %+v", p)
	}
}

func TestParseFromMD_MissingHeader(t *testing.T) {
	if _, err := ParseFromMD(context.Background(), testSecret); err == nil {
		t.Fatalf("expected error for missing metadata")
	}
}

func TestParseFromMD_InvalidScheme(t *testing.T) {
	tok := testutil.GenerateJWTHS256(t, testSecret, 4, "bob@x.com", "user")
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Basic "+tok))
	if _, err := ParseFromMD(ctx, testSecret); err == nil {
		t.Fatalf("expected error for non-Bearer scheme")
	}
	if _, err := parseJWT(tok, "wrong"); err == nil {
		t.Fatalf("expected error for wrong secret")
	}
}

func TestParseJWT_ClaimsValidation(t *testing.T) {
	tok := testutil.GenerateJWTHS256(t, testSecret, 0, "", "")
	if _, err := parseJWT(tok, testSecret); err == nil {
		t.Fatalf("expected invalid claims error")
	}
}

func TestIssueToken_RoundTrip(t *testing.T) {
	tok, err := IssueToken(testSecret, session.Projection{ID: 9, Email: "root@x.com", Role: "ADMIN"}, time.Minute)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	p, err := parseJWT(tok, testSecret)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if p.UserID != 9 || p.Email != "root@x.com" || p.Role != "admin" {
		t.Fatalf("principal mismatch: %+v", p)
	}

	expired, err := IssueToken(testSecret, session.Projection{ID: 9, Email: "root@x.com", Role: "admin"}, -time.Minute)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if _, err := parseJWT(expired, testSecret); err == nil {
		t.Fatalf("expected expired token rejection")
	}
	if _, err := IssueToken("", session.Projection{}, time.Minute); err == nil {
		t.Fatalf("expected empty secret error")
	}
}
