package inventory

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/angelmondragon/potionshop-backend/internal/ledger"
	"github.com/angelmondragon/potionshop-backend/internal/potions"
	"github.com/angelmondragon/potionshop-backend/pkg/db"
	"github.com/angelmondragon/potionshop-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/potionshop-backend/pkg/errors"
	"github.com/angelmondragon/potionshop-backend/pkg/types"
)

// Service is the read side over the ledgers. Every figure is recomputed from
// ledger sums; nothing is cached.
type Service interface {
	CurrentGold(ctx context.Context) (int, error)
	CurrentML(ctx context.Context) (types.PotionMix, error)
	CurrentPotionStock(ctx context.Context, potionID int64) (int, error)
	CurrentCapacity(ctx context.Context) (*models.Capacity, error)
	Snapshot(ctx context.Context) (*Snapshot, error)
	Audit(ctx context.Context) (*Audit, error)
}

type service struct {
	ledger   ledger.Repository
	potions  potions.Repository
	capacity CapacityRepository
	tx       db.TxRunner
}

// NewService wires the aggregator.
func NewService(ledgerRepo ledger.Repository, potionRepo potions.Repository, capacityRepo CapacityRepository, tx db.TxRunner) (Service, error) {
	if ledgerRepo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	if potionRepo == nil {
		return nil, fmt.Errorf("potion repository required")
	}
	if capacityRepo == nil {
		return nil, fmt.Errorf("capacity repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{ledger: ledgerRepo, potions: potionRepo, capacity: capacityRepo, tx: tx}, nil
}

func (s *service) CurrentGold(ctx context.Context) (int, error) {
	var gold int
	err := s.tx.WithReadTx(ctx, func(tx *gorm.DB) error {
		var err error
		gold, err = s.ledger.WithTx(tx).SumGold(ctx)
		return err
	})
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sum gold")
	}
	return gold, nil
}

func (s *service) CurrentML(ctx context.Context) (types.PotionMix, error) {
	var ml types.PotionMix
	err := s.tx.WithReadTx(ctx, func(tx *gorm.DB) error {
		var err error
		ml, err = s.ledger.WithTx(tx).SumMaterial(ctx)
		return err
	})
	if err != nil {
		return types.PotionMix{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sum ml")
	}
	return ml, nil
}

func (s *service) CurrentPotionStock(ctx context.Context, potionID int64) (int, error) {
	var stock int
	err := s.tx.WithReadTx(ctx, func(tx *gorm.DB) error {
		var err error
		stock, err = s.ledger.WithTx(tx).SumPotion(ctx, potionID)
		return err
	})
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sum potion stock")
	}
	return stock, nil
}

func (s *service) CurrentCapacity(ctx context.Context) (*models.Capacity, error) {
	var capacity *models.Capacity
	err := s.tx.WithReadTx(ctx, func(tx *gorm.DB) error {
		var err error
		capacity, err = s.capacity.WithTx(tx).Get(ctx)
		return err
	})
	if err != nil {
		return nil, wrapRead(err, "load capacity")
	}
	return capacity, nil
}

// Snapshot reads every aggregate inside one read transaction. Any failed
// query discards the whole snapshot.
func (s *service) Snapshot(ctx context.Context) (*Snapshot, error) {
	var snap Snapshot
	err := s.tx.WithReadTx(ctx, func(tx *gorm.DB) error {
		return s.fill(ctx, tx, &snap)
	})
	if err != nil {
		return nil, wrapRead(err, "inventory snapshot")
	}
	return &snap, nil
}

// SnapshotWithTx computes a snapshot on an open transaction, so writers can
// validate against the same state they append to.
func SnapshotWithTx(ctx context.Context, tx *gorm.DB, ledgerRepo ledger.Repository, potionRepo potions.Repository, capacityRepo CapacityRepository) (*Snapshot, error) {
	s := &service{ledger: ledgerRepo, potions: potionRepo, capacity: capacityRepo}
	var snap Snapshot
	if err := s.fill(ctx, tx, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (s *service) fill(ctx context.Context, tx *gorm.DB, snap *Snapshot) error {
	ledgerRepo := s.ledger.WithTx(tx)

	gold, err := ledgerRepo.SumGold(ctx)
	if err != nil {
		return fmt.Errorf("sum gold: %w", err)
	}
	ml, err := ledgerRepo.SumMaterial(ctx)
	if err != nil {
		return fmt.Errorf("sum ml: %w", err)
	}
	stock, err := ledgerRepo.SumPotionsByID(ctx)
	if err != nil {
		return fmt.Errorf("sum potions: %w", err)
	}
	catalog, err := s.potions.WithTx(tx).List(ctx)
	if err != nil {
		return fmt.Errorf("list potions: %w", err)
	}
	capacity, err := s.capacity.WithTx(tx).Get(ctx)
	if err != nil {
		return err
	}

	snap.Gold = gold
	snap.ML = ml
	snap.Capacity = *capacity
	snap.Potions = make([]PotionStock, 0, len(catalog))
	snap.TotalPotions = 0
	for _, p := range catalog {
		qty := stock[p.ID]
		snap.Potions = append(snap.Potions, PotionStock{Potion: p, Stock: qty})
		snap.TotalPotions += qty
	}
	return nil
}

func (s *service) Audit(ctx context.Context) (*Audit, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	audit := snap.Audit()
	return &audit, nil
}

func wrapRead(err error, message string) error {
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, message)
}
