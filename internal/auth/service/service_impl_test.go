package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/fahimshariar28/eidi/internal/auth/domain"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	schema := []string{
		`CREATE TABLE users (
			id BIGINT PRIMARY KEY,
			email TEXT,
			display_name TEXT NOT NULL DEFAULT '',
			external_id TEXT,
			is_anonymous BOOLEAN NOT NULL DEFAULT FALSE,
			metadata TEXT NOT NULL DEFAULT '{}',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE UNIQUE INDEX ux_users_external_id ON users(external_id)`,
		`CREATE TABLE sessions (
			id BIGINT PRIMARY KEY,
			user_id BIGINT NOT NULL,
			session_token_hash TEXT NOT NULL,
			user_agent TEXT,
			ip_address TEXT,
			expires_at DATETIME NOT NULL,
			revoked_at DATETIME,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			last_seen_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE UNIQUE INDEX ux_sessions_token_hash ON sessions(session_token_hash)`,
	}
	for _, stmt := range schema {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("apply schema: %v", err)
		}
	}
	return db
}

func mustNode(t *testing.T) *snowflake.Node {
	t.Helper()
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	return node
}

func newTestService(t *testing.T) authdomain.Service {
	t.Helper()
	return NewService(ServiceParam{
		DB:    setupTestDB(t),
		Log:   zap.NewNop(),
		GenID: mustNode(t),
	})
}

func TestGuestLoginIssuesAnonymousSession(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	result, err := svc.GuestLogin(ctx, authdomain.SessionRequest{UserAgent: "test", IPAddress: "127.0.0.1"})
	if err != nil {
		t.Fatalf("guest login: %v", err)
	}
	if !result.User.IsAnonymous {
		t.Fatalf("expected anonymous user")
	}
	if result.RawToken == "" {
		t.Fatalf("expected a raw session token")
	}

	principal, err := svc.Authenticate(ctx, result.RawToken)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if principal.User.ID != result.User.ID {
		t.Fatalf("principal user mismatch")
	}
	if !principal.User.IsAnonymous {
		t.Fatalf("expected anonymous principal")
	}
}

func TestFederatedLoginUpsertsByExternalID(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	identity := authdomain.Identity{
		ExternalID:  "google-123",
		Email:       "fahim@example.com",
		DisplayName: "Fahim",
	}

	first, err := svc.FederatedLogin(ctx, identity, authdomain.SessionRequest{})
	if err != nil {
		t.Fatalf("first login: %v", err)
	}
	if first.User.IsAnonymous {
		t.Fatalf("federated user must not be anonymous")
	}
	if first.User.Email == nil || *first.User.Email != "fahim@example.com" {
		t.Fatalf("expected email to be stored, got %v", first.User.Email)
	}

	second, err := svc.FederatedLogin(ctx, identity, authdomain.SessionRequest{})
	if err != nil {
		t.Fatalf("second login: %v", err)
	}
	if second.User.ID != first.User.ID {
		t.Fatalf("expected the same user on repeat login, got %s and %s", first.User.ID, second.User.ID)
	}
	if second.RawToken == first.RawToken {
		t.Fatalf("expected a fresh session token per login")
	}
}

func TestFederatedLoginRejectsEmptyExternalID(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.FederatedLogin(context.Background(), authdomain.Identity{ExternalID: "  "}, authdomain.SessionRequest{})
	if !errors.Is(err, authdomain.ErrInvalidIdentity) {
		t.Fatalf("expected ErrInvalidIdentity, got %v", err)
	}
}

func TestAuthenticateRejectsBadTokens(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Authenticate(ctx, ""); !errors.Is(err, authdomain.ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession for empty token, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "never-issued"); !errors.Is(err, authdomain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	result, err := svc.GuestLogin(ctx, authdomain.SessionRequest{})
	if err != nil {
		t.Fatalf("guest login: %v", err)
	}

	if err := svc.Logout(ctx, result.RawToken); err != nil {
		t.Fatalf("logout: %v", err)
	}

	if _, err := svc.Authenticate(ctx, result.RawToken); !errors.Is(err, authdomain.ErrSessionRevoked) {
		t.Fatalf("expected ErrSessionRevoked after logout, got %v", err)
	}
}
