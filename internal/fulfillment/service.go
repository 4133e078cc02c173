package fulfillment

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/angelmondragon/potionshop-backend/internal/capacity"
	"github.com/angelmondragon/potionshop-backend/internal/inventory"
	"github.com/angelmondragon/potionshop-backend/internal/ledger"
	"github.com/angelmondragon/potionshop-backend/internal/potions"
	"github.com/angelmondragon/potionshop-backend/internal/procurement"
	"github.com/angelmondragon/potionshop-backend/pkg/config"
	"github.com/angelmondragon/potionshop-backend/pkg/db"
	"github.com/angelmondragon/potionshop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/potionshop-backend/pkg/errors"
	"github.com/angelmondragon/potionshop-backend/pkg/logger"
	"github.com/angelmondragon/potionshop-backend/pkg/types"
)

// Service applies delivered plans to the ledgers. Every delivery re-checks
// gold, ml room and potion capacity against the live ledger inside its own
// write transaction.
type Service interface {
	DeliverBarrels(ctx context.Context, orderRef string, barrels []procurement.Barrel) (*Result, error)
	DeliverBottles(ctx context.Context, orderRef string, lines []BottleDelivery) (*Result, error)
	DeliverCapacity(ctx context.Context, orderRef string, plan capacity.Plan) (*Result, error)
	RecordSale(ctx context.Context, orderRef string, sku string, quantity int) (*Result, error)
}

// Deps groups the collaborators a fulfillment service needs.
type Deps struct {
	Ledger     ledger.Service
	LedgerRepo ledger.Repository
	Potions    potions.Repository
	Capacity   inventory.CapacityRepository
	Tx         db.TxRunner
	Shop       config.ShopConfig
	Logger     *logger.Logger
}

type service struct {
	ledger     ledger.Service
	ledgerRepo ledger.Repository
	potions    potions.Repository
	capacity   inventory.CapacityRepository
	tx         db.TxRunner
	shop       config.ShopConfig
	logg       *logger.Logger
}

// NewService wires the fulfillment service.
func NewService(deps Deps) (Service, error) {
	switch {
	case deps.Ledger == nil:
		return nil, fmt.Errorf("ledger service required")
	case deps.LedgerRepo == nil:
		return nil, fmt.Errorf("ledger repository required")
	case deps.Potions == nil:
		return nil, fmt.Errorf("potion repository required")
	case deps.Capacity == nil:
		return nil, fmt.Errorf("capacity repository required")
	case deps.Tx == nil:
		return nil, fmt.Errorf("transaction runner required")
	case deps.Logger == nil:
		return nil, fmt.Errorf("logger required")
	case deps.Shop.CapacityUnitPrice <= 0:
		return nil, fmt.Errorf("capacity unit price must be positive")
	}
	return &service{
		ledger:     deps.Ledger,
		ledgerRepo: deps.LedgerRepo,
		potions:    deps.Potions,
		capacity:   deps.Capacity,
		tx:         deps.Tx,
		shop:       deps.Shop,
		logg:       deps.Logger,
	}, nil
}

// unit of work shared by every delivery: dedupe on order ref, lock and read
// the live state, let apply decide line by line, then append.
func (s *service) deliver(
	ctx context.Context,
	kind enums.LedgerTransactionKind,
	orderRef string,
	apply func(tx *gorm.DB, snap *inventory.Snapshot, res *Result) (ledger.RecordInput, error),
) (*Result, error) {
	orderRef = strings.TrimSpace(orderRef)
	if orderRef == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	ctx = s.logg.WithFields(s.logg.WithOrderID(ctx, orderRef), map[string]any{"kind": string(kind)})
	res := newResult(orderRef)

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		existing, err := s.ledgerRepo.WithTx(tx).FindTransaction(ctx, kind, orderRef)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup order")
		}
		if existing != nil {
			res.AlreadyRecorded = true
			return nil
		}

		if _, err := s.capacity.WithTx(tx).Lock(ctx); err != nil {
			return err
		}
		snap, err := inventory.SnapshotWithTx(ctx, tx, s.ledgerRepo, s.potions, s.capacity)
		if err != nil {
			return err
		}

		input, err := apply(tx, snap, res)
		if err != nil {
			return err
		}
		if len(res.Accepted) == 0 {
			return nil
		}
		input.Kind = kind
		input.OrderRef = orderRef
		res.GoldChange = input.Gold
		_, err = s.ledger.RecordWithTx(ctx, tx, input)
		return err
	})
	if err != nil {
		if pkgerrors.As(err) == nil {
			err = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "apply delivery")
		}
		s.logg.Error(ctx, "delivery failed", err)
		return nil, err
	}

	if res.AlreadyRecorded {
		s.logg.Info(ctx, "delivery already recorded")
		return res, nil
	}
	return s.finish(ctx, res)
}

// finish logs the outcome. A delivery where every line was rejected is an
// INSUFFICIENT_RESOURCES error carrying the per-line reasons.
func (s *service) finish(ctx context.Context, res *Result) (*Result, error) {
	fields := map[string]any{"accepted": len(res.Accepted), "rejected": len(res.Rejected), "gold_change": res.GoldChange}
	ctx = s.logg.WithFields(ctx, fields)
	if errs := res.Err(); errs != nil {
		s.logg.Warn(s.logg.WithField(ctx, "rejections", errs.Error()), "delivery lines rejected")
		if len(res.Accepted) == 0 {
			return res, pkgerrors.Wrap(pkgerrors.CodeInsufficient, errs, "no line item could be applied").WithDetails(res.Rejected)
		}
		return res, nil
	}
	s.logg.Info(ctx, "delivery recorded")
	return res, nil
}

func (s *service) DeliverBarrels(ctx context.Context, orderRef string, barrels []procurement.Barrel) (*Result, error) {
	if len(barrels) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one barrel is required")
	}
	return s.deliver(ctx, enums.LedgerTransactionBarrelDelivery, orderRef, func(tx *gorm.DB, snap *inventory.Snapshot, res *Result) (ledger.RecordInput, error) {
		gold := snap.Gold
		room := snap.MLRoom()
		var cost int
		var added types.PotionMix

		for i, b := range barrels {
			ml, err := DeliveredBarrelML(b)
			if err != nil {
				res.reject(i, b.SKU, err)
				continue
			}
			if b.Price > 0 && b.Quantity > gold/b.Price {
				res.reject(i, b.SKU, fmt.Errorf("%s: %d barrels at %d gold exceed %d available", b.SKU, b.Quantity, b.Price, gold))
				continue
			}
			lineCost := b.Price * b.Quantity
			if ml.Total() > room {
				res.reject(i, b.SKU, fmt.Errorf("%s: adds %d ml, %d ml of room", b.SKU, ml.Total(), room))
				continue
			}
			gold -= lineCost
			room -= ml.Total()
			cost += lineCost
			added = added.Add(ml)
			res.accept(i, b.SKU)
		}
		return ledger.RecordInput{
			Description: fmt.Sprintf("%d barrel lines delivered", len(res.Accepted)),
			Gold:        -cost,
			Material:    added,
		}, nil
	})
}

// DeliveredBarrelML validates a delivered barrel line and returns the ml it adds.
func DeliveredBarrelML(b procurement.Barrel) (types.PotionMix, error) {
	switch {
	case b.SKU == "":
		return types.PotionMix{}, fmt.Errorf("barrel sku is required")
	case b.Quantity <= 0:
		return types.PotionMix{}, fmt.Errorf("%s: quantity %d must be positive", b.SKU, b.Quantity)
	case b.MLPerBarrel <= 0:
		return types.PotionMix{}, fmt.Errorf("%s: ml_per_barrel %d must be positive", b.SKU, b.MLPerBarrel)
	case b.Price < 0:
		return types.PotionMix{}, fmt.Errorf("%s: price %d must not be negative", b.SKU, b.Price)
	}
	ml, err := procurement.DeliveredML(b)
	if err != nil {
		return types.PotionMix{}, fmt.Errorf("%s: %w", b.SKU, err)
	}
	return ml, nil
}

func (s *service) DeliverBottles(ctx context.Context, orderRef string, lines []BottleDelivery) (*Result, error) {
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one bottle line is required")
	}
	return s.deliver(ctx, enums.LedgerTransactionBottleDelivery, orderRef, func(tx *gorm.DB, snap *inventory.Snapshot, res *Result) (ledger.RecordInput, error) {
		available := snap.ML
		room := snap.PotionRoom()
		var used types.PotionMix
		bottled := map[int64]int{}
		repo := s.potions.WithTx(tx)

		for i, line := range lines {
			mix, err := types.MixFromInts(line.PotionType)
			if err != nil {
				res.reject(i, "", err)
				continue
			}
			if line.Quantity <= 0 {
				res.reject(i, "", fmt.Errorf("quantity %d must be positive", line.Quantity))
				continue
			}
			potion, err := repo.FindByType(ctx, mix)
			if err != nil {
				return ledger.RecordInput{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup potion")
			}
			if potion == nil {
				res.reject(i, "", fmt.Errorf("no potion with recipe %v", line.PotionType))
				continue
			}
			if err := mix.ValidateRecipe(); err != nil {
				res.reject(i, potion.SKU, err)
				continue
			}
			if line.Quantity > room {
				res.reject(i, potion.SKU, fmt.Errorf("%s: %d potions, %d slots free", potion.SKU, line.Quantity, room))
				continue
			}
			need := mix.Scale(line.Quantity)
			if !available.Covers(need) {
				res.reject(i, potion.SKU, fmt.Errorf("%s: needs %v ml, %v available", potion.SKU, need, available))
				continue
			}
			available = available.Sub(need)
			room -= line.Quantity
			used = used.Add(need)
			bottled[potion.ID] += line.Quantity
			res.accept(i, potion.SKU)
		}
		return ledger.RecordInput{
			Description: fmt.Sprintf("%d bottle lines delivered", len(res.Accepted)),
			Material:    used.Negate(),
			Potions:     bottled,
		}, nil
	})
}

const (
	skuPotionCapacity = "potion_capacity"
	skuMLCapacity     = "ml_capacity"
)

func (s *service) DeliverCapacity(ctx context.Context, orderRef string, plan capacity.Plan) (*Result, error) {
	if plan.PotionCapacityUnits < 0 || plan.MLCapacityUnits < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "capacity units must not be negative")
	}
	if plan.Units() == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "capacity plan buys nothing")
	}
	return s.deliver(ctx, enums.LedgerTransactionCapacityPurchase, orderRef, func(tx *gorm.DB, snap *inventory.Snapshot, res *Result) (ledger.RecordInput, error) {
		gold := snap.Gold
		price := s.shop.CapacityUnitPrice
		potionUnits, mlUnits := 0, 0

		buy := func(line int, sku string, units int, allowed bool) int {
			switch {
			case units > capacity.MaxUnitsPerCycle:
				res.reject(line, sku, fmt.Errorf("%s: %d units requested, at most %d per cycle", sku, units, capacity.MaxUnitsPerCycle))
			case !allowed:
				res.reject(line, sku, fmt.Errorf("%s purchases are disabled", sku))
			case units > gold/price:
				res.reject(line, sku, fmt.Errorf("%s: %d units at %d gold exceed %d available", sku, units, price, gold))
			default:
				gold -= units * price
				res.accept(line, sku)
				return units
			}
			return 0
		}
		if plan.PotionCapacityUnits > 0 {
			potionUnits = buy(0, skuPotionCapacity, plan.PotionCapacityUnits, snap.Capacity.MayBuyPotionCapacity)
		}
		if plan.MLCapacityUnits > 0 {
			mlUnits = buy(1, skuMLCapacity, plan.MLCapacityUnits, snap.Capacity.MayBuyMLCapacity)
		}

		if potionUnits+mlUnits > 0 {
			err := s.capacity.WithTx(tx).Grow(ctx, potionUnits*s.shop.PotionCapacityPerUnit, mlUnits*s.shop.MLCapacityPerUnit)
			if err != nil {
				return ledger.RecordInput{}, err
			}
		}
		return ledger.RecordInput{
			Description: fmt.Sprintf("bought %d potion and %d ml capacity units", potionUnits, mlUnits),
			Gold:        -(potionUnits + mlUnits) * price,
		}, nil
	})
}

func (s *service) RecordSale(ctx context.Context, orderRef string, sku string, quantity int) (*Result, error) {
	sku = strings.TrimSpace(sku)
	var errs error
	if sku == "" {
		errs = multierr.Append(errs, fmt.Errorf("sku is required"))
	}
	if quantity <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("quantity %d must be positive", quantity))
	}
	if errs != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, errs, errs.Error())
	}

	return s.deliver(ctx, enums.LedgerTransactionPotionSale, orderRef, func(tx *gorm.DB, snap *inventory.Snapshot, res *Result) (ledger.RecordInput, error) {
		potion, err := s.potions.WithTx(tx).FindBySKU(ctx, sku)
		if err != nil {
			return ledger.RecordInput{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup potion")
		}
		if potion == nil {
			return ledger.RecordInput{}, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("potion %s not found", sku))
		}
		if stock := snap.StockOf(potion.ID); stock < quantity {
			res.reject(0, sku, fmt.Errorf("%s: %d requested, %d in stock", sku, quantity, stock))
			return ledger.RecordInput{}, nil
		}
		res.accept(0, sku)
		return ledger.RecordInput{
			Description: fmt.Sprintf("sold %d %s", quantity, sku),
			Gold:        potion.Price * quantity,
			Potions:     map[int64]int{potion.ID: -quantity},
		}, nil
	})
}
