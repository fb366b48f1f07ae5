// Package domain contains core types for resident payments.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

var (
	ErrNotFound    = errors.New("payment not found")
	ErrAlreadyPaid = errors.New("payment already settled")
)

// Payment types and statuses.
const (
	TypeDeposit = "deposit"
	TypeRent    = "rent"

	StatusPending = "pending"
	StatusPaid    = "paid"

	CurrencyINR = "INR"

	DepositDescription = "Security deposit payment"
)

type Payment struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID        snowflake.ID `gorm:"column:user_id;not null;index" json:"user_id"`
	PGPropertyID  snowflake.ID `gorm:"column:pg_property_id;not null;index" json:"pg_property_id"`
	Type          string       `gorm:"column:type;not null" json:"type"`
	Amount        int64        `gorm:"column:amount;not null" json:"amount"`
	Currency      string       `gorm:"column:currency;not null;default:INR" json:"currency"`
	Status        string       `gorm:"column:status;not null;default:pending" json:"status"`
	Description   string       `gorm:"column:description" json:"description"`
	DueDate       time.Time    `gorm:"column:due_date;not null" json:"due_date"`
	PaidAt        *time.Time   `gorm:"column:paid_at" json:"paid_at,omitempty"`
	PaymentMethod *string      `gorm:"column:payment_method" json:"payment_method,omitempty"`
	TransactionID *string      `gorm:"column:transaction_id" json:"transaction_id,omitempty"`
	CreatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Payment) TableName() string { return "payments" }

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, payment *Payment) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Payment, error)
	ListByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID) ([]Payment, error)
	MarkPaid(ctx context.Context, db *gorm.DB, id snowflake.ID, paidAt time.Time, method, transactionID string) error
}

type Service interface {
	Get(ctx context.Context, id snowflake.ID) (*Payment, error)
	ListByUser(ctx context.Context, userID snowflake.ID) ([]Payment, error)
	MarkPaid(ctx context.Context, id snowflake.ID, method, transactionID string) (*Payment, error)
}
