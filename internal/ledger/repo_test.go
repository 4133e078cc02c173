package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/potionshop-backend/pkg/db/dbtest"
	"github.com/angelmondragon/potionshop-backend/pkg/db/models"
	"github.com/angelmondragon/potionshop-backend/pkg/enums"
	"github.com/angelmondragon/potionshop-backend/pkg/types"
)

func TestRepositorySumsEmptyLedgersToZero(t *testing.T) {
	ctx := context.Background()
	client := dbtest.Open(t)
	repo := NewRepository(client.DB())

	gold, err := repo.SumGold(ctx)
	require.NoError(t, err)
	require.Zero(t, gold)

	ml, err := repo.SumMaterial(ctx)
	require.NoError(t, err)
	require.Equal(t, types.PotionMix{}, ml)

	potions, err := repo.SumAllPotions(ctx)
	require.NoError(t, err)
	require.Zero(t, potions)

	byID, err := repo.SumPotionsByID(ctx)
	require.NoError(t, err)
	require.Empty(t, byID)

	one, err := repo.SumPotion(ctx, 42)
	require.NoError(t, err)
	require.Zero(t, one)
}

func TestRepositorySumsSignedEntries(t *testing.T) {
	ctx := context.Background()
	client := dbtest.Open(t)
	repo := NewRepository(client.DB())
	red := dbtest.InsertPotion(t, client, "RED_POTION", 50, [4]int64{100, 0, 0, 0})
	green := dbtest.InsertPotion(t, client, "GREEN_POTION", 50, [4]int64{0, 100, 0, 0})

	txn := &models.LedgerTransaction{Kind: enums.LedgerTransactionAdjustment, OrderRef: "seed"}
	require.NoError(t, repo.CreateTransaction(ctx, txn))

	require.NoError(t, repo.AppendGold(ctx, &models.GoldEntry{TransactionID: txn.ID, Change: 300}))
	require.NoError(t, repo.AppendGold(ctx, &models.GoldEntry{TransactionID: txn.ID, Change: -120}))
	require.NoError(t, repo.AppendMaterial(ctx, &models.MaterialEntry{TransactionID: txn.ID, RedChange: 500, DarkChange: 40}))
	require.NoError(t, repo.AppendMaterial(ctx, &models.MaterialEntry{TransactionID: txn.ID, RedChange: -200, GreenChange: 10}))
	require.NoError(t, repo.AppendPotion(ctx, &models.PotionEntry{TransactionID: txn.ID, PotionID: red.ID, Change: 5}))
	require.NoError(t, repo.AppendPotion(ctx, &models.PotionEntry{TransactionID: txn.ID, PotionID: red.ID, Change: -2}))
	require.NoError(t, repo.AppendPotion(ctx, &models.PotionEntry{TransactionID: txn.ID, PotionID: green.ID, Change: 4}))

	gold, err := repo.SumGold(ctx)
	require.NoError(t, err)
	require.Equal(t, 180, gold)

	ml, err := repo.SumMaterial(ctx)
	require.NoError(t, err)
	require.Equal(t, types.PotionMix{300, 10, 0, 40}, ml)

	redStock, err := repo.SumPotion(ctx, red.ID)
	require.NoError(t, err)
	require.Equal(t, 3, redStock)

	byID, err := repo.SumPotionsByID(ctx)
	require.NoError(t, err)
	require.Equal(t, map[int64]int{red.ID: 3, green.ID: 4}, byID)

	total, err := repo.SumAllPotions(ctx)
	require.NoError(t, err)
	require.Equal(t, 7, total)
}

func TestRepositoryFindTransaction(t *testing.T) {
	ctx := context.Background()
	client := dbtest.Open(t)
	repo := NewRepository(client.DB())

	missing, err := repo.FindTransaction(ctx, enums.LedgerTransactionBarrelDelivery, "order-1")
	require.NoError(t, err)
	require.Nil(t, missing)

	txn := &models.LedgerTransaction{Kind: enums.LedgerTransactionBarrelDelivery, OrderRef: "order-1"}
	require.NoError(t, repo.CreateTransaction(ctx, txn))

	found, err := repo.FindTransaction(ctx, enums.LedgerTransactionBarrelDelivery, "order-1")
	require.NoError(t, err)
	require.NotNil(t, found)
	require.Equal(t, txn.ID, found.ID)

	other, err := repo.FindTransaction(ctx, enums.LedgerTransactionBottleDelivery, "order-1")
	require.NoError(t, err)
	require.Nil(t, other)
}

func TestRepositoryRejectsDuplicateOrderRef(t *testing.T) {
	ctx := context.Background()
	client := dbtest.Open(t)
	repo := NewRepository(client.DB())

	require.NoError(t, repo.CreateTransaction(ctx, &models.LedgerTransaction{Kind: enums.LedgerTransactionPotionSale, OrderRef: "cart-9"}))
	err := repo.CreateTransaction(ctx, &models.LedgerTransaction{Kind: enums.LedgerTransactionPotionSale, OrderRef: "cart-9"})
	require.Error(t, err)
}

func TestRepositoryTruncate(t *testing.T) {
	ctx := context.Background()
	client := dbtest.Open(t)
	repo := NewRepository(client.DB())
	potion := dbtest.InsertPotion(t, client, "RED_POTION", 50, [4]int64{100, 0, 0, 0})

	txn := &models.LedgerTransaction{Kind: enums.LedgerTransactionAdjustment, OrderRef: "seed"}
	require.NoError(t, repo.CreateTransaction(ctx, txn))
	require.NoError(t, repo.AppendGold(ctx, &models.GoldEntry{TransactionID: txn.ID, Change: 99}))
	require.NoError(t, repo.AppendMaterial(ctx, &models.MaterialEntry{TransactionID: txn.ID, BlueChange: 99}))
	require.NoError(t, repo.AppendPotion(ctx, &models.PotionEntry{TransactionID: txn.ID, PotionID: potion.ID, Change: 9}))

	require.NoError(t, repo.Truncate(ctx))

	gold, err := repo.SumGold(ctx)
	require.NoError(t, err)
	require.Zero(t, gold)
	ml, err := repo.SumMaterial(ctx)
	require.NoError(t, err)
	require.Equal(t, types.PotionMix{}, ml)
	total, err := repo.SumAllPotions(ctx)
	require.NoError(t, err)
	require.Zero(t, total)

	found, err := repo.FindTransaction(ctx, enums.LedgerTransactionAdjustment, "seed")
	require.NoError(t, err)
	require.Nil(t, found)

	var potions int64
	require.NoError(t, client.DB().Model(&models.Potion{}).Count(&potions).Error)
	require.EqualValues(t, 1, potions)
}
