package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type CreateInvoiceRequest struct {
	CreatorID   snowflake.ID
	Amount      int64
	TargetName  string
	Message     string
	BkashNumber string
}

// Summary aggregates a creator's invoices for the dashboard.
type Summary struct {
	TotalInvoices int64 `json:"total_invoices"`
	PaidInvoices  int64 `json:"paid_invoices"`
	TotalReceived int64 `json:"total_received"`
}

type Service interface {
	Create(ctx context.Context, req CreateInvoiceRequest) (Invoice, error)
	GetByID(ctx context.Context, id string) (Invoice, error)
	// MarkPaid sets status PAID and records the caller-supplied transaction
	// id, overwriting any previous value. Repeated calls succeed; the last
	// writer wins.
	MarkPaid(ctx context.Context, id string, transactionID string) (Invoice, error)
	ListByCreator(ctx context.Context, creatorID snowflake.ID) ([]Invoice, error)
	Summary(ctx context.Context, creatorID snowflake.ID) (Summary, error)
}

var (
	ErrNotFound           = errors.New("invoice not found")
	ErrInvalidAmount      = errors.New("invalid_amount")
	ErrInvalidTargetName  = errors.New("invalid_target_name")
	ErrInvalidBkashNumber = errors.New("invalid_bkash_number")
)
