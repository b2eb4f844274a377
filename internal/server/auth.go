package server

import (
	"net/http"
	"strings"

	authdomain "github.com/fahimshariar28/eidi/internal/auth/domain"
	authoauth "github.com/fahimshariar28/eidi/internal/auth/oauth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	oauthStateCookie    = "_oauth_state"
	oauthVerifierCookie = "_oauth_verifier"
	oauthCookieTTL      = 600
)

// Me reports the current session's identity for the navigation chrome.
// An unauthenticated request is not an error; it yields an empty view.
func (s *Server) Me(c *gin.Context) {
	token, ok := s.sessions.ReadToken(c)
	if !ok {
		c.JSON(http.StatusOK, authdomain.CurrentUserView{})
		return
	}

	principal, err := s.authsvc.Authenticate(c.Request.Context(), token)
	if err != nil {
		c.JSON(http.StatusOK, authdomain.CurrentUserView{})
		return
	}

	view := authdomain.CurrentUserView{
		IsAuthenticated: true,
		IsAnonymous:     principal.User.IsAnonymous,
		DisplayName:     principal.User.DisplayName,
	}
	if principal.User.Email != nil {
		view.Email = *principal.User.Email
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) Logout(c *gin.Context) {
	token, ok := s.sessions.ReadToken(c)
	if ok {
		if err := s.authsvc.Logout(c.Request.Context(), token); err != nil {
			s.log.Warn("logout failed", zap.Error(err))
		}
	}

	s.sessions.Clear(c)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GuestLogin issues an anonymous session so a payer can be tracked
// without signing in.
func (s *Server) GuestLogin(c *gin.Context) {
	result, err := s.authsvc.GuestLogin(c.Request.Context(), authdomain.SessionRequest{
		UserAgent: c.Request.UserAgent(),
		IPAddress: c.ClientIP(),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.sessions.Set(c, result.RawToken, result.ExpiresAt)
	c.JSON(http.StatusOK, authdomain.CurrentUserView{
		IsAuthenticated: true,
		IsAnonymous:     true,
		DisplayName:     result.User.DisplayName,
	})
}

// OAuthLogin redirects to the external identity provider.
func (s *Server) OAuthLogin(c *gin.Context) {
	redirect, err := s.oauthsvc.RedirectURL(c.Request.Context(), authoauth.RedirectRequest{
		RedirectURI: s.callbackURL(),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, redirect.State, oauthCookieTTL, "/", "", s.cfg.AuthCookieSecure, true)
	c.SetCookie(oauthVerifierCookie, redirect.CodeVerifier, oauthCookieTTL, "/", "", s.cfg.AuthCookieSecure, true)

	c.Redirect(http.StatusTemporaryRedirect, redirect.URL)
}

// OAuthCallback completes the provider round trip and issues a session.
func (s *Server) OAuthCallback(c *gin.Context) {
	state := strings.TrimSpace(c.Query("state"))
	code := strings.TrimSpace(c.Query("code"))

	expectedState, err := c.Cookie(oauthStateCookie)
	if err != nil || state == "" || state != expectedState {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	verifier, _ := c.Cookie(oauthVerifierCookie)

	c.SetCookie(oauthStateCookie, "", -1, "/", "", s.cfg.AuthCookieSecure, true)
	c.SetCookie(oauthVerifierCookie, "", -1, "/", "", s.cfg.AuthCookieSecure, true)

	identity, err := s.oauthsvc.Exchange(c.Request.Context(), authoauth.ExchangeRequest{
		Code:         code,
		RedirectURI:  s.callbackURL(),
		CodeVerifier: verifier,
	})
	if err != nil {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	result, err := s.authsvc.FederatedLogin(c.Request.Context(), *identity, authdomain.SessionRequest{
		UserAgent: c.Request.UserAgent(),
		IPAddress: c.ClientIP(),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.sessions.Set(c, result.RawToken, result.ExpiresAt)
	c.Redirect(http.StatusFound, "/dashboard")
}

func (s *Server) callbackURL() string {
	return s.cfg.BaseURL + "/auth/callback/google"
}
