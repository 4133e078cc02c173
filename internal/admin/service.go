// Package admin holds operator actions that rewrite shop state wholesale.
package admin

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/potionshop-backend/internal/inventory"
	"github.com/angelmondragon/potionshop-backend/internal/ledger"
	"github.com/angelmondragon/potionshop-backend/pkg/config"
	"github.com/angelmondragon/potionshop-backend/pkg/db"
	"github.com/angelmondragon/potionshop-backend/pkg/db/models"
	"github.com/angelmondragon/potionshop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/potionshop-backend/pkg/errors"
	"github.com/angelmondragon/potionshop-backend/pkg/logger"
)

// ResetResult reports the baseline a reset restored.
type ResetResult struct {
	TransactionID  uuid.UUID `json:"transaction_id"`
	Gold           int       `json:"gold"`
	PotionCapacity int       `json:"potion_capacity"`
	MLCapacity     int       `json:"ml_capacity"`
}

// Service exposes administrative operations.
type Service interface {
	Reset(ctx context.Context) (*ResetResult, error)
}

type service struct {
	ledger     ledger.Service
	ledgerRepo ledger.Repository
	capacity   inventory.CapacityRepository
	tx         db.TxRunner
	shop       config.ShopConfig
	logg       *logger.Logger
}

// NewService wires the admin service.
func NewService(ledgerSvc ledger.Service, ledgerRepo ledger.Repository, capacityRepo inventory.CapacityRepository, tx db.TxRunner, shop config.ShopConfig, logg *logger.Logger) (Service, error) {
	if ledgerSvc == nil {
		return nil, fmt.Errorf("ledger service required")
	}
	if ledgerRepo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	if capacityRepo == nil {
		return nil, fmt.Errorf("capacity repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		ledger:     ledgerSvc,
		ledgerRepo: ledgerRepo,
		capacity:   capacityRepo,
		tx:         tx,
		shop:       shop,
		logg:       logg,
	}, nil
}

// Reset wipes every ledger and restores the configured baseline gold and
// capacity in one transaction.
func (s *service) Reset(ctx context.Context) (*ResetResult, error) {
	orderRef := "reset-" + uuid.NewString()
	ctx = s.logg.WithOrderID(ctx, orderRef)
	result := &ResetResult{
		Gold:           s.shop.StartingGold,
		PotionCapacity: s.shop.BasePotionCapacity,
		MLCapacity:     s.shop.BaseMLCapacity,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.ledgerRepo.WithTx(tx).Truncate(ctx); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "truncate ledgers")
		}
		err := s.capacity.WithTx(tx).Replace(ctx, models.Capacity{
			ID:                   models.CapacityID,
			PotionCapacity:       s.shop.BasePotionCapacity,
			MLCapacity:           s.shop.BaseMLCapacity,
			MayBuyPotionCapacity: true,
			MayBuyMLCapacity:     true,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reset capacity")
		}
		txn, err := s.ledger.RecordWithTx(ctx, tx, ledger.RecordInput{
			Kind:        enums.LedgerTransactionReset,
			OrderRef:    orderRef,
			Description: "shop reset to baseline",
			Gold:        s.shop.StartingGold,
		})
		if err != nil {
			return err
		}
		result.TransactionID = txn.ID
		return nil
	})
	if err != nil {
		s.logg.Error(ctx, "shop reset failed", err)
		return nil, err
	}

	ctx = s.logg.WithTransaction(ctx, result.TransactionID.String())
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"gold":            result.Gold,
		"potion_capacity": result.PotionCapacity,
		"ml_capacity":     result.MLCapacity,
	}), "shop reset")
	return result, nil
}
