package server

import (
	"net/http"
	"strings"

	invoicedomain "github.com/fahimshariar28/eidi/internal/invoice/domain"
	"github.com/gin-gonic/gin"
)

type CreateInvoiceRequest struct {
	Amount      int64  `json:"amount"`
	TargetName  string `json:"targetName"`
	Message     string `json:"message"`
	BkashNumber string `json:"bkashNumber"`
}

func (s *Server) CreateInvoice(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	created, err := s.invoiceSvc.Create(c.Request.Context(), invoicedomain.CreateInvoiceRequest{
		CreatorID:   principal.User.ID,
		Amount:      req.Amount,
		TargetName:  req.TargetName,
		Message:     req.Message,
		BkashNumber: req.BkashNumber,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data":     created.ToPublicView(),
		"shareUrl": s.cfg.BaseURL + "/pay/" + created.ID.String(),
	})
}

func (s *Server) ListInvoices(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	invoices, err := s.invoiceSvc.ListByCreator(c.Request.Context(), principal.User.ID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	views := make([]invoicedomain.PublicView, 0, len(invoices))
	for _, inv := range invoices {
		views = append(views, inv.ToPublicView())
	}
	c.JSON(http.StatusOK, gin.H{"data": views})
}

func (s *Server) GetInvoiceSummary(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	summary, err := s.invoiceSvc.Summary(c.Request.Context(), principal.User.ID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": summary})
}

func (s *Server) GetInvoiceReceipt(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	inv, err := s.invoiceSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if inv.CreatorID != principal.User.ID {
		AbortWithError(c, ErrForbidden)
		return
	}

	doc, err := s.receipts.Render(inv)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="receipt-`+inv.ID.String()+`.pdf"`)
	c.DataFromReader(http.StatusOK, -1, "application/pdf", doc, nil)
}
