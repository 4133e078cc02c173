package inventory

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/potionshop-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/potionshop-backend/pkg/errors"
)

// CapacityRepository manages the singleton capacity row. It is the only
// inventory record updated in place.
type CapacityRepository interface {
	WithTx(tx *gorm.DB) CapacityRepository
	Get(ctx context.Context) (*models.Capacity, error)
	Lock(ctx context.Context) (*models.Capacity, error)
	Grow(ctx context.Context, potionDelta, mlDelta int) error
	Replace(ctx context.Context, capacity models.Capacity) error
}

type capacityRepository struct {
	db *gorm.DB
}

// NewCapacityRepository returns a capacity repository bound to the provided database.
func NewCapacityRepository(db *gorm.DB) CapacityRepository {
	return &capacityRepository{db: db}
}

func (r *capacityRepository) WithTx(tx *gorm.DB) CapacityRepository {
	if tx == nil {
		return r
	}
	return &capacityRepository{db: tx}
}

func (r *capacityRepository) Get(ctx context.Context) (*models.Capacity, error) {
	var capacity models.Capacity
	if err := r.db.WithContext(ctx).First(&capacity, models.CapacityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "capacity record missing")
		}
		return nil, err
	}
	return &capacity, nil
}

// Lock reads the capacity row with FOR UPDATE on postgres, serializing
// writers that validate against it. SQLite already serializes writers.
func (r *capacityRepository) Lock(ctx context.Context) (*models.Capacity, error) {
	if r.db.Dialector.Name() != "postgres" {
		return r.Get(ctx)
	}
	var capacity models.Capacity
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&capacity, models.CapacityID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "capacity record missing")
		}
		return nil, err
	}
	return &capacity, nil
}

// Grow adds to both capacities. Negative deltas are rejected so capacity only grows.
func (r *capacityRepository) Grow(ctx context.Context, potionDelta, mlDelta int) error {
	if potionDelta < 0 || mlDelta < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "capacity can only grow")
	}
	res := r.db.WithContext(ctx).
		Model(&models.Capacity{}).
		Where("id = ?", models.CapacityID).
		Updates(map[string]any{
			"potion_capacity": gorm.Expr("potion_capacity + ?", potionDelta),
			"ml_capacity":     gorm.Expr("ml_capacity + ?", mlDelta),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "capacity record missing")
	}
	return nil
}

// Replace writes the capacity row wholesale. Only the admin reset uses it.
func (r *capacityRepository) Replace(ctx context.Context, capacity models.Capacity) error {
	capacity.ID = models.CapacityID
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"potion_capacity", "ml_capacity", "may_buy_potion_capacity", "may_buy_ml_capacity", "updated_at",
			}),
		}).
		Create(&capacity).Error
}
