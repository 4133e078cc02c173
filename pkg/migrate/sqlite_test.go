package migrate

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/potionshop-backend/pkg/db/models"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	return conn
}

func TestApplySQLiteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	conn := openSQLite(t)

	require.NoError(t, ApplySQLite(ctx, conn))
	require.NoError(t, ApplySQLite(ctx, conn))

	for _, table := range []string{"ledger_transactions", "gold_ledger", "ml_ledger", "potions", "potion_ledger", "capacity"} {
		require.True(t, conn.Migrator().HasTable(table), table)
	}
}

func TestSeedSQLiteLoadsCatalog(t *testing.T) {
	ctx := context.Background()
	conn := openSQLite(t)
	require.NoError(t, ApplySQLite(ctx, conn))
	require.NoError(t, SeedSQLite(ctx, conn))
	require.NoError(t, SeedSQLite(ctx, conn))

	var potions []models.Potion
	require.NoError(t, conn.Order("id").Find(&potions).Error)
	require.Len(t, potions, 9)
	require.Equal(t, "RED_POTION", potions[0].SKU)
	require.Equal(t, pq.Int64Array{100, 0, 0, 0}, potions[0].PotionType)
}

func TestSeedSQLiteWritesBaselineOnce(t *testing.T) {
	ctx := context.Background()
	conn := openSQLite(t)
	require.NoError(t, ApplySQLite(ctx, conn))
	require.NoError(t, SeedSQLite(ctx, conn))
	require.NoError(t, SeedSQLite(ctx, conn))

	var gold int64
	require.NoError(t, conn.Raw("SELECT COALESCE(SUM(change), 0) FROM gold_ledger").Scan(&gold).Error)
	require.EqualValues(t, 100, gold)

	var capacity models.Capacity
	require.NoError(t, conn.First(&capacity, models.CapacityID).Error)
	require.Equal(t, 50, capacity.PotionCapacity)
	require.Equal(t, 10000, capacity.MLCapacity)
	require.True(t, capacity.MayBuyPotionCapacity)
}
