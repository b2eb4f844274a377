package server

import (
	"errors"
	"net/http"
	"testing"

	authdomain "github.com/fahimshariar28/eidi/internal/auth/domain"
	invoicedomain "github.com/fahimshariar28/eidi/internal/invoice/domain"
	"gorm.io/gorm"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{"invoice not found", invoicedomain.ErrNotFound, http.StatusNotFound, "not_found"},
		{"bare record not found", gorm.ErrRecordNotFound, http.StatusNotFound, "not_found"},
		{"invalid amount", invoicedomain.ErrInvalidAmount, http.StatusBadRequest, "validation_error"},
		{"expired session", authdomain.ErrSessionExpired, http.StatusUnauthorized, "unauthorized"},
		{"forbidden", ErrForbidden, http.StatusForbidden, "forbidden"},
		{"rate limited", ErrRateLimited, http.StatusTooManyRequests, "rate_limited"},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, payload := mapError(tc.err)
			if status != tc.wantStatus {
				t.Fatalf("expected status %d, got %d", tc.wantStatus, status)
			}
			if payload.Type != tc.wantType {
				t.Fatalf("expected type %s, got %s", tc.wantType, payload.Type)
			}
		})
	}
}
