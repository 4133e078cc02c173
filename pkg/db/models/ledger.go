package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/potionshop-backend/pkg/enums"
)

// LedgerTransaction groups the ledger entries written by one economic event.
// (kind, order_ref) is unique so a redelivered order is recorded once.
type LedgerTransaction struct {
	ID          uuid.UUID                   `gorm:"column:id;type:uuid;primaryKey"`
	Kind        enums.LedgerTransactionKind `gorm:"column:kind;type:ledger_transaction_kind_enum;not null"`
	OrderRef    string                      `gorm:"column:order_ref;not null"`
	Description string                      `gorm:"column:description"`
	CreatedAt   time.Time                   `gorm:"column:created_at;autoCreateTime"`
}

func (LedgerTransaction) TableName() string { return "ledger_transactions" }

func (t *LedgerTransaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// GoldEntry is one signed gold delta. Income is positive, spend negative.
type GoldEntry struct {
	ID            int64     `gorm:"column:id;primaryKey;autoIncrement"`
	TransactionID uuid.UUID `gorm:"column:transaction_id;type:uuid;not null"`
	Change        int       `gorm:"column:change;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (GoldEntry) TableName() string { return "gold_ledger" }

// MaterialEntry records all four color deltas of one delivery or consumption.
type MaterialEntry struct {
	ID            int64     `gorm:"column:id;primaryKey;autoIncrement"`
	TransactionID uuid.UUID `gorm:"column:transaction_id;type:uuid;not null"`
	RedChange     int       `gorm:"column:red_ml_change;not null;default:0"`
	GreenChange   int       `gorm:"column:green_ml_change;not null;default:0"`
	BlueChange    int       `gorm:"column:blue_ml_change;not null;default:0"`
	DarkChange    int       `gorm:"column:dark_ml_change;not null;default:0"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (MaterialEntry) TableName() string { return "ml_ledger" }

// PotionEntry is one signed bottle delta for a potion: positive on bottling,
// negative on sale.
type PotionEntry struct {
	ID            int64     `gorm:"column:id;primaryKey;autoIncrement"`
	TransactionID uuid.UUID `gorm:"column:transaction_id;type:uuid;not null"`
	PotionID      int64     `gorm:"column:potion_id;not null"`
	Change        int       `gorm:"column:potion_change;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (PotionEntry) TableName() string { return "potion_ledger" }
