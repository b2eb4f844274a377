package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	invoicedomain "github.com/fahimshariar28/eidi/internal/invoice/domain"
	"github.com/fahimshariar28/eidi/pkg/db/option"
	"github.com/fahimshariar28/eidi/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

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
	invoicerepo repository.Repository[invoicedomain.Invoice]
}

func NewService(p ServiceParam) invoicedomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("invoice.service"),
		genID: p.GenID,

		invoicerepo: repository.ProvideStore[invoicedomain.Invoice](p.DB),
	}
}

func (s *Service) Create(ctx context.Context, req invoicedomain.CreateInvoiceRequest) (invoicedomain.Invoice, error) {
	if req.Amount <= 0 {
		return invoicedomain.Invoice{}, invoicedomain.ErrInvalidAmount
	}
	if strings.TrimSpace(req.TargetName) == "" {
		return invoicedomain.Invoice{}, invoicedomain.ErrInvalidTargetName
	}
	if strings.TrimSpace(req.BkashNumber) == "" {
		return invoicedomain.Invoice{}, invoicedomain.ErrInvalidBkashNumber
	}

	invoice := invoicedomain.Invoice{
		ID:          s.genID.Generate(),
		CreatorID:   req.CreatorID,
		Amount:      req.Amount,
		TargetName:  strings.TrimSpace(req.TargetName),
		Message:     strings.TrimSpace(req.Message),
		BkashNumber: strings.TrimSpace(req.BkashNumber),
		Status:      invoicedomain.InvoiceStatusPending,
		Metadata:    datatypes.JSONMap{},
	}
	if err := s.invoicerepo.Create(ctx, &invoice); err != nil {
		return invoicedomain.Invoice{}, err
	}

	s.log.Info("invoice created",
		zap.String("invoice_id", invoice.ID.String()),
		zap.Int64("amount", invoice.Amount),
	)
	return invoice, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (invoicedomain.Invoice, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return invoicedomain.Invoice{}, invoicedomain.ErrNotFound
	}

	invoice, err := s.invoicerepo.FindOne(ctx, &invoicedomain.Invoice{ID: parsed})
	if err != nil {
		return invoicedomain.Invoice{}, err
	}
	if invoice == nil {
		return invoicedomain.Invoice{}, invoicedomain.ErrNotFound
	}
	return *invoice, nil
}

// MarkPaid updates status and transaction id unconditionally, then re-reads
// the row so the caller sees committed state. A second call with a different
// transaction id overwrites the first; this mirrors the payer flow where a
// retry after a reported failure must always be safe.
func (s *Service) MarkPaid(ctx context.Context, id string, transactionID string) (invoicedomain.Invoice, error) {
	invoice, err := s.GetByID(ctx, id)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}

	now := time.Now()
	updates := map[string]any{
		"status":         invoicedomain.InvoiceStatusPaid,
		"transaction_id": transactionID,
		"paid_at":        now,
		"updated_at":     now,
	}
	if err := s.invoicerepo.Update(ctx, invoice.ID.String(), updates); err != nil {
		return invoicedomain.Invoice{}, err
	}

	s.log.Info("invoice marked paid",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("transaction_id", transactionID),
	)
	return s.GetByID(ctx, invoice.ID.String())
}

func (s *Service) ListByCreator(ctx context.Context, creatorID snowflake.ID) ([]invoicedomain.Invoice, error) {
	// Snowflake ids are time-ordered, so id DESC is newest-first without
	// depending on created_at resolution.
	rows, err := s.invoicerepo.Find(ctx, &invoicedomain.Invoice{CreatorID: creatorID},
		option.WithOrder("id DESC"),
	)
	if err != nil {
		return nil, err
	}

	invoices := make([]invoicedomain.Invoice, 0, len(rows))
	for _, row := range rows {
		invoices = append(invoices, *row)
	}
	return invoices, nil
}

func (s *Service) Summary(ctx context.Context, creatorID snowflake.ID) (invoicedomain.Summary, error) {
	total, err := s.invoicerepo.Count(ctx, &invoicedomain.Invoice{CreatorID: creatorID})
	if err != nil {
		return invoicedomain.Summary{}, err
	}

	paid, err := s.invoicerepo.Count(ctx, &invoicedomain.Invoice{
		CreatorID: creatorID,
		Status:    invoicedomain.InvoiceStatusPaid,
	})
	if err != nil {
		return invoicedomain.Summary{}, err
	}

	var received int64
	err = s.db.WithContext(ctx).
		Model(&invoicedomain.Invoice{}).
		Where(&invoicedomain.Invoice{CreatorID: creatorID, Status: invoicedomain.InvoiceStatusPaid}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&received).Error
	if err != nil {
		return invoicedomain.Summary{}, err
	}

	return invoicedomain.Summary{
		TotalInvoices: total,
		PaidInvoices:  paid,
		TotalReceived: received,
	}, nil
}
