package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/fahimshariar28/eidi/internal/auth/domain"
	"github.com/fahimshariar28/eidi/pkg/db"
	"github.com/fahimshariar28/eidi/pkg/repository"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const sessionTTL = 30 * 24 * time.Hour

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID       *snowflake.Node
	userrepo    repository.Repository[authdomain.User]
	sessionrepo repository.Repository[authdomain.Session]
}

func NewService(p ServiceParam) authdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("auth.service"),
		genID: p.GenID,

		userrepo:    repository.ProvideStore[authdomain.User](p.DB),
		sessionrepo: repository.ProvideStore[authdomain.Session](p.DB),
	}
}

func (s *Service) GuestLogin(ctx context.Context, req authdomain.SessionRequest) (*authdomain.LoginResult, error) {
	user := authdomain.User{
		ID:          s.genID.Generate(),
		DisplayName: "Guest",
		IsAnonymous: true,
		Metadata:    datatypes.JSONMap{},
	}
	if err := s.userrepo.Create(ctx, &user); err != nil {
		return nil, err
	}

	return s.issueSession(ctx, user, req)
}

func (s *Service) FederatedLogin(ctx context.Context, identity authdomain.Identity, req authdomain.SessionRequest) (*authdomain.LoginResult, error) {
	externalID := strings.TrimSpace(identity.ExternalID)
	if externalID == "" {
		return nil, authdomain.ErrInvalidIdentity
	}

	user, err := s.userrepo.FindOne(ctx, &authdomain.User{ExternalID: &externalID})
	if err != nil {
		return nil, err
	}

	if user == nil {
		email := strings.TrimSpace(identity.Email)
		created := authdomain.User{
			ID:          s.genID.Generate(),
			DisplayName: identity.DisplayName,
			ExternalID:  &externalID,
			Metadata:    datatypes.JSONMap{},
		}
		if email != "" {
			created.Email = &email
		}
		if err := s.userrepo.Create(ctx, &created); err != nil {
			// Two first logins can race on the external_id unique index;
			// the loser picks up the winner's row.
			if !db.IsDuplicateKeyErr(err) {
				return nil, err
			}
			existing, findErr := s.userrepo.FindOne(ctx, &authdomain.User{ExternalID: &externalID})
			if findErr != nil {
				return nil, findErr
			}
			if existing == nil {
				return nil, err
			}
			user = existing
		} else {
			user = &created
			s.log.Info("user created", zap.String("user_id", created.ID.String()))
		}
	}

	return s.issueSession(ctx, *user, req)
}

func (s *Service) Authenticate(ctx context.Context, rawToken string) (*authdomain.Principal, error) {
	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return nil, authdomain.ErrInvalidSession
	}

	session, err := s.sessionrepo.FindOne(ctx, &authdomain.Session{SessionTokenHash: hashToken(rawToken)})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, authdomain.ErrSessionNotFound
	}
	if session.RevokedAt != nil {
		return nil, authdomain.ErrSessionRevoked
	}
	if time.Now().After(session.ExpiresAt) {
		return nil, authdomain.ErrSessionExpired
	}

	user, err := s.userrepo.FindOne(ctx, &authdomain.User{ID: session.UserID})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, authdomain.ErrUserNotFound
	}

	if err := s.sessionrepo.Update(ctx, session.ID.String(), map[string]any{"last_seen_at": time.Now()}); err != nil {
		s.log.Warn("session touch failed", zap.Error(err))
	}

	return &authdomain.Principal{User: *user, Session: *session}, nil
}

func (s *Service) Logout(ctx context.Context, rawToken string) error {
	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return authdomain.ErrInvalidSession
	}

	session, err := s.sessionrepo.FindOne(ctx, &authdomain.Session{SessionTokenHash: hashToken(rawToken)})
	if err != nil {
		return err
	}
	if session == nil {
		return authdomain.ErrSessionNotFound
	}

	now := time.Now()
	return s.sessionrepo.Update(ctx, session.ID.String(), map[string]any{"revoked_at": now})
}

func (s *Service) issueSession(ctx context.Context, user authdomain.User, req authdomain.SessionRequest) (*authdomain.LoginResult, error) {
	rawToken := uuid.NewString() + uuid.NewString()
	now := time.Now()
	session := authdomain.Session{
		ID:               s.genID.Generate(),
		UserID:           user.ID,
		SessionTokenHash: hashToken(rawToken),
		UserAgent:        req.UserAgent,
		IPAddress:        req.IPAddress,
		ExpiresAt:        now.Add(sessionTTL),
		CreatedAt:        now,
		LastSeenAt:       now,
	}
	if err := s.sessionrepo.Create(ctx, &session); err != nil {
		return nil, err
	}

	return &authdomain.LoginResult{
		User:      user,
		RawToken:  rawToken,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
