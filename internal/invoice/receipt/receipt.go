// Package receipt renders a PDF receipt for a paid invoice.
package receipt

import (
	"bytes"
	"fmt"
	"io"

	invoicedomain "github.com/fahimshariar28/eidi/internal/invoice/domain"
	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render produces a receipt document for the given invoice. Only paid
// invoices carry a transaction id; pending ones render without it.
func (r *Renderer) Render(invoice invoicedomain.Invoice) (io.Reader, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(15,
		text.NewCol(12, "Salami Receipt", props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)

	m.AddRow(20,
		col.New(6).Add(
			text.New("Invoice: "+invoice.ID.String(), props.Text{Top: 0, Size: 9}),
			text.New("Issued: "+invoice.CreatedAt.Format("2 Jan 2006"), props.Text{Top: 4, Size: 9}),
		),
		col.New(6),
	)

	m.AddRow(25,
		col.New(6).Add(
			text.New("Sponsor", props.Text{Style: fontstyle.Bold}),
			text.New(invoice.TargetName, props.Text{Top: 5}),
		),
		col.New(6).Add(
			text.New("Send money to (bKash)", props.Text{Style: fontstyle.Bold}),
			text.New(invoice.BkashNumber, props.Text{Top: 5}),
		),
	)

	m.AddRow(15,
		text.NewCol(12, fmt.Sprintf("BDT %d (%s)", invoice.Amount, invoice.Status), props.Text{
			Size:  14,
			Style: fontstyle.Bold,
			Top:   5,
		}),
	)

	if invoice.Message != "" {
		m.AddRow(15,
			text.NewCol(12, invoice.Message, props.Text{Size: 9, Top: 2}),
		)
	}

	if invoice.TransactionID != nil {
		m.AddRow(10,
			text.NewCol(12, "TxID: "+*invoice.TransactionID, props.Text{Size: 9}),
		)
	}
	if invoice.PaidAt != nil {
		m.AddRow(10,
			text.NewCol(12, "Paid on "+invoice.PaidAt.Format("2 Jan 2006 15:04"), props.Text{Size: 9}),
		)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate receipt pdf: %w", err)
	}

	return bytes.NewReader(doc.GetBytes()), nil
}
