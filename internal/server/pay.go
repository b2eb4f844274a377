package server

import (
	"errors"
	"net/http"
	"strings"

	invoicedomain "github.com/fahimshariar28/eidi/internal/invoice/domain"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type MarkPaidRequest struct {
	TxID string `json:"txId"`
}

// GetPublicInvoice serves the payer-facing invoice view. The payment page
// treats any non-2xx as "link has gone stale" and navigates home, so the
// only error shapes here are 404 and 429.
func (s *Server) GetPublicInvoice(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if !s.payLimiter.Allow(payRateKey(id, c.ClientIP())) {
		AbortWithError(c, ErrRateLimited)
		return
	}

	inv, err := s.invoiceSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, inv.ToPublicView())
}

// MarkInvoicePaid records the payer's confirmation. The transaction id is
// caller-supplied and recorded as-is; repeated confirmation overwrites the
// previous value rather than failing.
func (s *Server) MarkInvoicePaid(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if !s.markPaidLimiter.Allow(payRateKey(id, c.ClientIP())) {
		AbortWithError(c, ErrRateLimited)
		return
	}

	var req MarkPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	if _, err := s.invoiceSvc.MarkPaid(c.Request.Context(), id, req.TxID); err != nil {
		if errors.Is(err, invoicedomain.ErrNotFound) {
			AbortWithError(c, err)
			return
		}
		// Store failures surface as a plain message; internal detail
		// stays in the logs.
		s.log.Error("mark paid failed", zap.String("invoice_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update invoice"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func payRateKey(id, clientIP string) string {
	return id + "|" + clientIP
}
