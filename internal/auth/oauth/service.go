// Package oauth implements the boundary with the external federated
// identity provider. The application never sees credentials; it only
// exchanges an authorization code for an asserted identity.
package oauth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	authdomain "github.com/fahimshariar28/eidi/internal/auth/domain"
	"github.com/fahimshariar28/eidi/internal/config"
)

const defaultTokenSize = 32

var (
	ErrProviderNotConfigured = errors.New("oauth provider not configured")
	ErrInvalidRequest        = errors.New("invalid oauth request")
	ErrExchangeFailed        = errors.New("oauth code exchange failed")
)

type Service interface {
	RedirectURL(ctx context.Context, req RedirectRequest) (*RedirectResult, error)
	Exchange(ctx context.Context, req ExchangeRequest) (*authdomain.Identity, error)
}

type RedirectRequest struct {
	RedirectURI string
}

type RedirectResult struct {
	URL          string
	State        string
	CodeVerifier string
}

type ExchangeRequest struct {
	Code         string
	RedirectURI  string
	CodeVerifier string
}

type service struct {
	cfg        config.Config
	httpClient *http.Client
}

func NewService(cfg config.Config) Service {
	return &service{
		cfg:        cfg,
		httpClient: http.DefaultClient,
	}
}

func (s *service) RedirectURL(ctx context.Context, req RedirectRequest) (*RedirectResult, error) {
	_ = ctx

	if strings.TrimSpace(s.cfg.OAuthGoogleClientID) == "" {
		return nil, ErrProviderNotConfigured
	}
	if strings.TrimSpace(req.RedirectURI) == "" {
		return nil, ErrInvalidRequest
	}

	state, err := randomToken(defaultTokenSize)
	if err != nil {
		return nil, err
	}
	verifier, err := randomToken(defaultTokenSize)
	if err != nil {
		return nil, err
	}

	values := url.Values{}
	values.Set("client_id", s.cfg.OAuthGoogleClientID)
	values.Set("redirect_uri", req.RedirectURI)
	values.Set("response_type", "code")
	values.Set("scope", "openid email profile")
	values.Set("state", state)
	values.Set("code_challenge", pkceChallenge(verifier))
	values.Set("code_challenge_method", "S256")

	return &RedirectResult{
		URL:          s.cfg.OAuthGoogleAuthURL + "?" + values.Encode(),
		State:        state,
		CodeVerifier: verifier,
	}, nil
}

func (s *service) Exchange(ctx context.Context, req ExchangeRequest) (*authdomain.Identity, error) {
	if strings.TrimSpace(req.Code) == "" {
		return nil, ErrInvalidRequest
	}

	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", req.Code)
	form.Set("client_id", s.cfg.OAuthGoogleClientID)
	form.Set("client_secret", s.cfg.OAuthGoogleClientSecret)
	form.Set("redirect_uri", req.RedirectURI)
	if req.CodeVerifier != "" {
		form.Set("code_verifier", req.CodeVerifier)
	}

	tokenReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.OAuthGoogleTokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	tokenReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(tokenReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: token endpoint returned %d", ErrExchangeFailed, resp.StatusCode)
	}

	var token struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&token); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}
	if strings.TrimSpace(token.AccessToken) == "" {
		return nil, ErrExchangeFailed
	}

	return s.fetchIdentity(ctx, token.AccessToken)
}

func (s *service) fetchIdentity(ctx context.Context, accessToken string) (*authdomain.Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.OAuthGoogleUserInfoURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: userinfo endpoint returned %d", ErrExchangeFailed, resp.StatusCode)
	}

	var info struct {
		Sub   string `json:"sub"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&info); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}
	if strings.TrimSpace(info.Sub) == "" {
		return nil, authdomain.ErrInvalidIdentity
	}

	return &authdomain.Identity{
		ExternalID:  info.Sub,
		Email:       info.Email,
		DisplayName: info.Name,
	}, nil
}

func randomToken(size int) (string, error) {
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func pkceChallenge(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
