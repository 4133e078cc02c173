package potions

import (
	"context"
	"errors"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/potionshop-backend/pkg/db/models"
	"github.com/angelmondragon/potionshop-backend/pkg/types"
)

// Repository reads and maintains the potion recipe catalog.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	List(ctx context.Context) ([]models.Potion, error)
	FindByID(ctx context.Context, id int64) (*models.Potion, error)
	FindBySKU(ctx context.Context, sku string) (*models.Potion, error)
	FindByType(ctx context.Context, mix types.PotionMix) (*models.Potion, error)
	Upsert(ctx context.Context, potion *models.Potion) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a potion repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) List(ctx context.Context) ([]models.Potion, error) {
	var potions []models.Potion
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&potions).Error; err != nil {
		return nil, err
	}
	return potions, nil
}

func (r *repository) FindByID(ctx context.Context, id int64) (*models.Potion, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *repository) FindBySKU(ctx context.Context, sku string) (*models.Potion, error) {
	return r.first(ctx, "sku = ?", sku)
}

func (r *repository) FindByType(ctx context.Context, mix types.PotionMix) (*models.Potion, error) {
	return r.first(ctx, "potion_type = ?", pq.Int64Array(mix.Ints()))
}

func (r *repository) first(ctx context.Context, query string, args ...any) (*models.Potion, error) {
	var potion models.Potion
	if err := r.db.WithContext(ctx).Where(query, args...).First(&potion).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &potion, nil
}

// Upsert inserts the potion or updates name, price and recipe of the row with
// the same SKU.
func (r *repository) Upsert(ctx context.Context, potion *models.Potion) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "sku"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "price", "potion_type", "updated_at"}),
		}).
		Create(potion).Error
}
