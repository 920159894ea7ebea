package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type TransactionStatus string

const (
	TxnStatusPending TransactionStatus = "pending"
	TxnStatusPaid    TransactionStatus = "paid"
	TxnStatusFailed  TransactionStatus = "failed"
)

type Transaction struct {
	BaseModel
	AccountID   uuid.UUID         `gorm:"type:uuid;index"`
	PlanID      uuid.UUID         `gorm:"type:uuid;index"`
	AmountMinor int64             // e.g., 999 = $9.99
	Currency    string            `gorm:"size:3"` // ISO 4217
	Status      TransactionStatus `gorm:"size:16;index"`

	Provider      string `gorm:"index"`
	ProviderTxnID string `gorm:"index"` // checkout session reference from the webhook

	PaidAt *int64

	// Raw webhook payloads, failure reasons, etc.
	Metadata datatypes.JSON `gorm:"type:jsonb;default:'{}'"`
}
