// Package dbtest opens throwaway SQLite databases carrying the shop schema.
package dbtest

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/potionshop-backend/pkg/db"
	"github.com/angelmondragon/potionshop-backend/pkg/db/models"
	"github.com/angelmondragon/potionshop-backend/pkg/migrate"
)

// Open returns a client on a fresh in-memory database with the schema applied
// and no rows.
func Open(t testing.TB) *db.Client {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, migrate.ApplySQLite(context.Background(), conn))
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db.NewFromConn(conn)
}

// InsertPotion stores a catalog row and returns it with its id.
func InsertPotion(t testing.TB, client *db.Client, sku string, price int, mix [4]int64) models.Potion {
	t.Helper()
	potion := models.Potion{
		SKU:        sku,
		Name:       sku,
		Price:      price,
		PotionType: pq.Int64Array(mix[:]),
	}
	require.NoError(t, client.DB().Create(&potion).Error)
	return potion
}

// InsertCapacity stores the singleton capacity row.
func InsertCapacity(t testing.TB, client *db.Client, potions, ml int) models.Capacity {
	t.Helper()
	capacity := models.Capacity{
		ID:                   models.CapacityID,
		PotionCapacity:       potions,
		MLCapacity:           ml,
		MayBuyPotionCapacity: true,
		MayBuyMLCapacity:     true,
	}
	require.NoError(t, client.DB().Create(&capacity).Error)
	return capacity
}
