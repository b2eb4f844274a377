// Package payflow drives the payer-facing payment flow against the public
// invoice API: load the invoice, show payment instructions while pending,
// and confirm payment with a locally generated transaction token.
package payflow

import (
	"context"
	"errors"
	"time"

	invoicedomain "github.com/fahimshariar28/eidi/internal/invoice/domain"
	"go.uber.org/zap"
)

// State is the flow's presentation state.
type State string

const (
	StateLoading State = "LOADING"
	StatePending State = "PENDING"
	StatePaid    State = "PAID"
)

var (
	ErrInvoiceUnavailable = errors.New("invoice unavailable")
	ErrNotConfirmable     = errors.New("invoice is not awaiting confirmation")
)

// API is the server surface the flow drives.
type API interface {
	FetchInvoice(ctx context.Context, id string) (invoicedomain.PublicView, error)
	MarkPaid(ctx context.Context, id string, txID string) error
}

// Navigator handles the flow's only navigation: leaving a stale link.
type Navigator interface {
	GoHome()
}

// Alerter surfaces a blocking, user-visible failure message.
type Alerter interface {
	Alert(message string)
}

// Flow is the payment page's state machine. Loading moves to Pending or
// Paid once; Pending moves to Paid only through Confirm.
type Flow struct {
	api   API
	nav   Navigator
	alert Alerter
	log   *zap.Logger

	// cosmetic delay before presenting the paid state, injectable so
	// tests don't wait.
	settleDelay time.Duration
	sleep       func(time.Duration)
	newTxID     func() string

	state     State
	invoiceID string
	invoice   invoicedomain.PublicView
}

type Option func(*Flow)

func WithSettleDelay(d time.Duration) Option {
	return func(f *Flow) { f.settleDelay = d }
}

func WithSleep(fn func(time.Duration)) Option {
	return func(f *Flow) { f.sleep = fn }
}

func WithTxIDGenerator(fn func() string) Option {
	return func(f *Flow) { f.newTxID = fn }
}

func New(api API, nav Navigator, alert Alerter, log *zap.Logger, opts ...Option) *Flow {
	f := &Flow{
		api:         api,
		nav:         nav,
		alert:       alert,
		log:         log.Named("payflow"),
		settleDelay: 1500 * time.Millisecond,
		sleep:       time.Sleep,
		newTxID:     NewTransactionID,
		state:       StateLoading,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Flow) State() State { return f.state }

func (f *Flow) Invoice() invoicedomain.PublicView { return f.invoice }

// Load fetches the invoice. Any failure means the link has gone stale, so
// the flow navigates home instead of rendering an error. An invoice that
// is already paid presents the paid state immediately without writing.
func (f *Flow) Load(ctx context.Context, id string) error {
	invoice, err := f.api.FetchInvoice(ctx, id)
	if err != nil {
		f.log.Warn("invoice fetch failed", zap.String("invoice_id", id), zap.Error(err))
		f.nav.GoHome()
		return ErrInvoiceUnavailable
	}

	f.invoiceID = id
	f.invoice = invoice
	if invoice.Status == string(invoicedomain.InvoiceStatusPaid) {
		f.state = StatePaid
	} else {
		f.state = StatePending
	}
	return nil
}

// Confirm generates a placeholder transaction token, records the payment
// and re-fetches the invoice. On failure the flow stays Pending and the
// user sees an alert; retrying is always safe because the server side
// overwrites rather than rejects.
func (f *Flow) Confirm(ctx context.Context) error {
	if f.state != StatePending {
		return ErrNotConfirmable
	}

	txID := f.newTxID()
	if err := f.api.MarkPaid(ctx, f.invoiceID, txID); err != nil {
		f.alert.Alert("Update failed")
		return err
	}

	updated, err := f.api.FetchInvoice(ctx, f.invoiceID)
	if err != nil {
		f.alert.Alert("Sync failed")
		return err
	}
	f.invoice = updated

	f.sleep(f.settleDelay)
	f.state = StatePaid
	return nil
}
