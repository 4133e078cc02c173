package potions

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/angelmondragon/potionshop-backend/pkg/config"
	"github.com/angelmondragon/potionshop-backend/pkg/db"
	"github.com/angelmondragon/potionshop-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/potionshop-backend/pkg/errors"
	"github.com/angelmondragon/potionshop-backend/pkg/logger"
	"github.com/angelmondragon/potionshop-backend/pkg/types"
)

// StockReader reports bottled stock per potion id.
type StockReader interface {
	SumPotionsByID(ctx context.Context) (map[int64]int, error)
}

// StockSource binds a StockReader to the catalog's read transaction.
type StockSource func(tx *gorm.DB) StockReader

// Service exposes the recipe catalog to planners and customers.
type Service interface {
	Recipes(ctx context.Context, potions []models.Potion) []Recipe
	Catalog(ctx context.Context) ([]CatalogEntry, error)
	Upsert(ctx context.Context, input UpsertInput) (*models.Potion, error)
}

type service struct {
	repo  Repository
	stock StockSource
	tx    db.TxRunner
	cfg   config.CatalogConfig
	logg  *logger.Logger
}

// NewService wires the catalog service.
func NewService(repo Repository, stock StockSource, tx db.TxRunner, cfg config.CatalogConfig, logg *logger.Logger) (Service, error) {
	switch {
	case repo == nil:
		return nil, fmt.Errorf("potion repository required")
	case stock == nil:
		return nil, fmt.Errorf("stock source required")
	case tx == nil:
		return nil, fmt.Errorf("transaction runner required")
	case logg == nil:
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, stock: stock, tx: tx, cfg: cfg, logg: logg}, nil
}

// ValidateRecipe checks a stored potion_type is a 4-component recipe summing to 100.
func ValidateRecipe(p models.Potion) (types.PotionMix, error) {
	mix, err := p.Mix()
	if err != nil {
		return mix, err
	}
	if err := mix.ValidateRecipe(); err != nil {
		return mix, err
	}
	return mix, nil
}

// Recipes keeps the potions with valid recipes. Rejected rows are logged and
// left out so one bad record never stops a planning cycle.
func (s *service) Recipes(ctx context.Context, potions []models.Potion) []Recipe {
	recipes := make([]Recipe, 0, len(potions))
	for _, p := range potions {
		mix, err := ValidateRecipe(p)
		if err != nil {
			warnCtx := s.logg.WithFields(ctx, map[string]any{"sku": p.SKU, "potion_id": p.ID, "reason": err.Error()})
			s.logg.Warn(warnCtx, "excluding invalid recipe")
			continue
		}
		recipes = append(recipes, recipeFromModel(p, mix))
	}
	return recipes
}

// Catalog lists potions in stock, reading rows and stock in one snapshot.
// Hidden SKUs are dropped, featured SKUs lead, the rest follow by descending
// stock, and the list is capped at MaxEntries.
func (s *service) Catalog(ctx context.Context) ([]CatalogEntry, error) {
	var (
		potions []models.Potion
		stock   map[int64]int
	)
	err := s.tx.WithReadTx(ctx, func(tx *gorm.DB) error {
		var err error
		if potions, err = s.repo.WithTx(tx).List(ctx); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list potions")
		}
		if stock, err = s.stock(tx).SumPotionsByID(ctx); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sum potion stock")
		}
		return nil
	})
	if err != nil {
		if pkgerrors.As(err) == nil {
			err = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "catalog snapshot")
		}
		return nil, err
	}

	entries := make([]CatalogEntry, 0, len(potions))
	for _, p := range potions {
		qty := stock[p.ID]
		if qty <= 0 || containsSKU(s.cfg.HiddenSKUs, p.SKU) {
			continue
		}
		entries = append(entries, CatalogEntry{
			SKU:        p.SKU,
			Name:       p.Name,
			Quantity:   qty,
			Price:      p.Price,
			PotionType: []int64(p.PotionType),
		})
	}

	slices.SortStableFunc(entries, func(a, b CatalogEntry) int {
		af, bf := containsSKU(s.cfg.FeaturedSKUs, a.SKU), containsSKU(s.cfg.FeaturedSKUs, b.SKU)
		if af != bf {
			if af {
				return -1
			}
			return 1
		}
		return b.Quantity - a.Quantity
	})

	if s.cfg.MaxEntries > 0 && len(entries) > s.cfg.MaxEntries {
		entries = entries[:s.cfg.MaxEntries]
	}
	return entries, nil
}

func (s *service) Upsert(ctx context.Context, input UpsertInput) (*models.Potion, error) {
	sku := strings.ToUpper(strings.TrimSpace(input.SKU))
	if sku == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku is required")
	}
	if input.Price < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	if err := input.PotionType.ValidateRecipe(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid recipe")
	}

	potion := &models.Potion{
		SKU:        sku,
		Name:       strings.TrimSpace(input.Name),
		Price:      input.Price,
		PotionType: pq.Int64Array(input.PotionType.Ints()),
	}
	if err := s.repo.Upsert(ctx, potion); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "upsert potion")
	}
	stored, err := s.repo.FindBySKU(ctx, sku)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload potion")
	}
	return stored, nil
}

func containsSKU(list []string, sku string) bool {
	for _, candidate := range list {
		if strings.EqualFold(candidate, sku) {
			return true
		}
	}
	return false
}
