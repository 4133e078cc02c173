package ledger

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/angelmondragon/potionshop-backend/pkg/db/models"
	"github.com/angelmondragon/potionshop-backend/pkg/enums"
	"github.com/angelmondragon/potionshop-backend/pkg/types"
)

// Repository appends to and sums over the gold, ml and potion ledgers.
// Entries are never updated or deleted; Truncate exists for the admin reset.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateTransaction(ctx context.Context, txn *models.LedgerTransaction) error
	FindTransaction(ctx context.Context, kind enums.LedgerTransactionKind, orderRef string) (*models.LedgerTransaction, error)
	AppendGold(ctx context.Context, entry *models.GoldEntry) error
	AppendMaterial(ctx context.Context, entry *models.MaterialEntry) error
	AppendPotion(ctx context.Context, entry *models.PotionEntry) error
	SumGold(ctx context.Context) (int, error)
	SumMaterial(ctx context.Context) (types.PotionMix, error)
	SumPotion(ctx context.Context, potionID int64) (int, error)
	SumPotionsByID(ctx context.Context) (map[int64]int, error)
	SumAllPotions(ctx context.Context) (int, error)
	Truncate(ctx context.Context) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateTransaction(ctx context.Context, txn *models.LedgerTransaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

func (r *repository) FindTransaction(ctx context.Context, kind enums.LedgerTransactionKind, orderRef string) (*models.LedgerTransaction, error) {
	var txn models.LedgerTransaction
	err := r.db.WithContext(ctx).
		Where("kind = ? AND order_ref = ?", kind, orderRef).
		First(&txn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &txn, nil
}

func (r *repository) AppendGold(ctx context.Context, entry *models.GoldEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) AppendMaterial(ctx context.Context, entry *models.MaterialEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) AppendPotion(ctx context.Context, entry *models.PotionEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) SumGold(ctx context.Context) (int, error) {
	var total int
	err := r.db.WithContext(ctx).
		Model(&models.GoldEntry{}).
		Select("COALESCE(SUM(change), 0)").
		Scan(&total).Error
	return total, err
}

type materialTotals struct {
	Red   int
	Green int
	Blue  int
	Dark  int
}

func (r *repository) SumMaterial(ctx context.Context) (types.PotionMix, error) {
	var totals materialTotals
	err := r.db.WithContext(ctx).
		Model(&models.MaterialEntry{}).
		Select(`COALESCE(SUM(red_ml_change), 0) AS red,
			COALESCE(SUM(green_ml_change), 0) AS green,
			COALESCE(SUM(blue_ml_change), 0) AS blue,
			COALESCE(SUM(dark_ml_change), 0) AS dark`).
		Scan(&totals).Error
	if err != nil {
		return types.PotionMix{}, err
	}
	return types.PotionMix{totals.Red, totals.Green, totals.Blue, totals.Dark}, nil
}

func (r *repository) SumPotion(ctx context.Context, potionID int64) (int, error) {
	var total int
	err := r.db.WithContext(ctx).
		Model(&models.PotionEntry{}).
		Select("COALESCE(SUM(potion_change), 0)").
		Where("potion_id = ?", potionID).
		Scan(&total).Error
	return total, err
}

type potionTotal struct {
	PotionID int64
	Total    int
}

func (r *repository) SumPotionsByID(ctx context.Context) (map[int64]int, error) {
	var rows []potionTotal
	err := r.db.WithContext(ctx).
		Model(&models.PotionEntry{}).
		Select("potion_id, COALESCE(SUM(potion_change), 0) AS total").
		Group("potion_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	totals := make(map[int64]int, len(rows))
	for _, row := range rows {
		totals[row.PotionID] = row.Total
	}
	return totals, nil
}

func (r *repository) SumAllPotions(ctx context.Context) (int, error) {
	var total int
	err := r.db.WithContext(ctx).
		Model(&models.PotionEntry{}).
		Select("COALESCE(SUM(potion_change), 0)").
		Scan(&total).Error
	return total, err
}

// Truncate wipes every ledger. Child tables go first for SQLite, which has no
// multi-table TRUNCATE.
func (r *repository) Truncate(ctx context.Context) error {
	db := r.db.WithContext(ctx)
	if db.Dialector.Name() == "postgres" {
		return db.Exec("TRUNCATE potion_ledger, ml_ledger, gold_ledger, ledger_transactions").Error
	}
	for _, table := range []string{"potion_ledger", "ml_ledger", "gold_ledger", "ledger_transactions"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}
	return nil
}
