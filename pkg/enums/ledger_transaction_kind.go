package enums

import "fmt"

// LedgerTransactionKind maps to the ledger_transaction_kind_enum enum in Postgres.
type LedgerTransactionKind string

const (
	LedgerTransactionBarrelDelivery   LedgerTransactionKind = "barrel_delivery"
	LedgerTransactionBottleDelivery   LedgerTransactionKind = "bottle_delivery"
	LedgerTransactionCapacityPurchase LedgerTransactionKind = "capacity_purchase"
	LedgerTransactionPotionSale       LedgerTransactionKind = "potion_sale"
	LedgerTransactionReset            LedgerTransactionKind = "reset"
	LedgerTransactionAdjustment       LedgerTransactionKind = "adjustment"
)

var validLedgerTransactionKinds = []LedgerTransactionKind{
	LedgerTransactionBarrelDelivery,
	LedgerTransactionBottleDelivery,
	LedgerTransactionCapacityPurchase,
	LedgerTransactionPotionSale,
	LedgerTransactionReset,
	LedgerTransactionAdjustment,
}

// IsValid reports whether the value matches the canonical ledger transaction enum.
func (k LedgerTransactionKind) IsValid() bool {
	for _, candidate := range validLedgerTransactionKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseLedgerTransactionKind converts raw input into LedgerTransactionKind.
func ParseLedgerTransactionKind(value string) (LedgerTransactionKind, error) {
	for _, candidate := range validLedgerTransactionKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid ledger transaction kind %q", value)
}
