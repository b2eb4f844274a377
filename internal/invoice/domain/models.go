// Package domain contains persistence models for invoice tracking.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// InvoiceStatus represents invoice lifecycle states.
type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "PENDING"
	InvoiceStatusPaid    InvoiceStatus = "PAID"
)

// Invoice represents one requested/tracked payment. TransactionID is set
// exactly when the status moves to PAID; it is never present on a PENDING
// record.
type Invoice struct {
	ID            snowflake.ID      `gorm:"primaryKey"`
	CreatorID     snowflake.ID      `gorm:"not null;index"`
	Amount        int64             `gorm:"not null"`
	TargetName    string            `gorm:"type:text;not null"`
	Message       string            `gorm:"type:text;not null;default:''"`
	BkashNumber   string            `gorm:"type:text;not null"`
	Status        InvoiceStatus     `gorm:"type:text;not null;default:'PENDING';index"`
	TransactionID *string           `gorm:"column:transaction_id;type:text"`
	PaidAt        *time.Time        `gorm:""`
	Metadata      datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'"`
	CreatedAt     time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt     time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

// PublicView is the payer-facing wire shape of an invoice.
type PublicView struct {
	ID            string  `json:"id"`
	Amount        int64   `json:"amount"`
	TargetName    string  `json:"targetName"`
	Message       string  `json:"message"`
	BkashNumber   string  `json:"bkashNumber"`
	Status        string  `json:"status"`
	TransactionID *string `json:"transactionId,omitempty"`
}

// ToPublicView projects an invoice onto the payer-facing shape.
func (i Invoice) ToPublicView() PublicView {
	return PublicView{
		ID:            i.ID.String(),
		Amount:        i.Amount,
		TargetName:    i.TargetName,
		Message:       i.Message,
		BkashNumber:   i.BkashNumber,
		Status:        string(i.Status),
		TransactionID: i.TransactionID,
	}
}
