package domain

import (
	"context"
	"time"
)

type Service interface {
	// GuestLogin creates an anonymous user and a session for it.
	GuestLogin(ctx context.Context, req SessionRequest) (*LoginResult, error)
	// FederatedLogin upserts the user behind an external identity and
	// issues a session. Credential handling stays with the provider.
	FederatedLogin(ctx context.Context, identity Identity, req SessionRequest) (*LoginResult, error)
	Authenticate(ctx context.Context, rawToken string) (*Principal, error)
	Logout(ctx context.Context, rawToken string) error
}

// Identity is what the external federated provider asserts about a user.
type Identity struct {
	ExternalID  string
	Email       string
	DisplayName string
}

type SessionRequest struct {
	UserAgent string
	IPAddress string
}

type LoginResult struct {
	User      User
	RawToken  string
	ExpiresAt time.Time
}
