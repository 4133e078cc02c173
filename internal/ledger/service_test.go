package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/potionshop-backend/pkg/db/dbtest"
	"github.com/angelmondragon/potionshop-backend/pkg/db/models"
	"github.com/angelmondragon/potionshop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/potionshop-backend/pkg/errors"
	"github.com/angelmondragon/potionshop-backend/pkg/types"
)

func newTestService(t *testing.T) (Service, Repository, *models.Potion) {
	t.Helper()
	client := dbtest.Open(t)
	repo := NewRepository(client.DB())
	svc, err := NewService(repo, client)
	require.NoError(t, err)
	potion := dbtest.InsertPotion(t, client, "RED_POTION", 50, [4]int64{100, 0, 0, 0})
	return svc, repo, &potion
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(nil, nil)
	require.Error(t, err)

	client := dbtest.Open(t)
	_, err = NewService(NewRepository(client.DB()), nil)
	require.Error(t, err)
}

func TestServiceRecordWritesAllEntries(t *testing.T) {
	ctx := context.Background()
	svc, repo, potion := newTestService(t)

	txn, err := svc.Record(ctx, RecordInput{
		Kind:        enums.LedgerTransactionBottleDelivery,
		OrderRef:    "bottle-1",
		Description: "bottled red",
		Gold:        -10,
		Material:    types.PotionMix{-300, 0, 0, 0},
		Potions:     map[int64]int{potion.ID: 3},
	})
	require.NoError(t, err)
	require.NotNil(t, txn)
	require.Equal(t, enums.LedgerTransactionBottleDelivery, txn.Kind)

	gold, err := repo.SumGold(ctx)
	require.NoError(t, err)
	require.Equal(t, -10, gold)
	ml, err := repo.SumMaterial(ctx)
	require.NoError(t, err)
	require.Equal(t, types.PotionMix{-300, 0, 0, 0}, ml)
	stock, err := repo.SumPotion(ctx, potion.ID)
	require.NoError(t, err)
	require.Equal(t, 3, stock)
}

func TestServiceRecordSkipsZeroDeltas(t *testing.T) {
	ctx := context.Background()
	svc, repo, potion := newTestService(t)

	_, err := svc.Record(ctx, RecordInput{
		Kind:     enums.LedgerTransactionAdjustment,
		OrderRef: "noop",
		Potions:  map[int64]int{potion.ID: 0},
	})
	require.NoError(t, err)

	byID, err := repo.SumPotionsByID(ctx)
	require.NoError(t, err)
	require.Empty(t, byID)
}

func TestServiceRecordMaterialRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService(t)

	_, err := svc.Record(ctx, RecordInput{Kind: enums.LedgerTransactionAdjustment, OrderRef: "in", Material: types.PotionMix{500, 0, 0, 0}})
	require.NoError(t, err)
	_, err = svc.Record(ctx, RecordInput{Kind: enums.LedgerTransactionAdjustment, OrderRef: "out", Material: types.PotionMix{-500, 0, 0, 0}})
	require.NoError(t, err)

	ml, err := repo.SumMaterial(ctx)
	require.NoError(t, err)
	require.Equal(t, types.PotionMix{}, ml)
}

func TestServiceRecordDuplicateOrderRef(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService(t)

	input := RecordInput{Kind: enums.LedgerTransactionBarrelDelivery, OrderRef: "order-7", Gold: -100, Material: types.PotionMix{0, 500, 0, 0}}
	first, err := svc.Record(ctx, input)
	require.NoError(t, err)

	again, err := svc.Record(ctx, input)
	require.ErrorIs(t, err, ErrDuplicate)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
	require.Nil(t, again)

	gold, err := repo.SumGold(ctx)
	require.NoError(t, err)
	require.Equal(t, -100, gold)

	exists, err := svc.Exists(ctx, enums.LedgerTransactionBarrelDelivery, "order-7")
	require.NoError(t, err)
	require.True(t, exists)
	require.NotNil(t, first)
}

func TestServiceRecordValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	cases := map[string]RecordInput{
		"bad kind":      {Kind: "refund", OrderRef: "x"},
		"missing ref":   {Kind: enums.LedgerTransactionAdjustment, OrderRef: "  "},
		"bad potion id": {Kind: enums.LedgerTransactionAdjustment, OrderRef: "x", Potions: map[int64]int{0: 1}},
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Record(ctx, input)
			require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "got %v", err)
		})
	}
}

type failingRepo struct {
	Repository
}

func (f failingRepo) WithTx(tx *gorm.DB) Repository {
	return failingRepo{Repository: f.Repository.WithTx(tx)}
}

func (f failingRepo) AppendGold(ctx context.Context, entry *models.GoldEntry) error {
	return errors.New("disk full")
}

func TestServiceRecordRollsBackOnAppendFailure(t *testing.T) {
	ctx := context.Background()
	client := dbtest.Open(t)
	base := NewRepository(client.DB())

	svc, err := NewService(failingRepo{Repository: base}, client)
	require.NoError(t, err)

	_, err = svc.Record(ctx, RecordInput{Kind: enums.LedgerTransactionAdjustment, OrderRef: "boom", Gold: 5})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInternal))

	found, err := base.FindTransaction(ctx, enums.LedgerTransactionAdjustment, "boom")
	require.NoError(t, err)
	require.Nil(t, found)
}
