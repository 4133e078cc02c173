package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/potionshop-backend/pkg/db/dbtest"
	"github.com/angelmondragon/potionshop-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/potionshop-backend/pkg/errors"
)

func TestCapacityRepositoryGrow(t *testing.T) {
	ctx := context.Background()
	client := dbtest.Open(t)
	repo := NewCapacityRepository(client.DB())

	err := repo.Grow(ctx, 50, 0)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	dbtest.InsertCapacity(t, client, 50, 10000)
	require.NoError(t, repo.Grow(ctx, 50, 10000))

	capacity, err := repo.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, 100, capacity.PotionCapacity)
	require.Equal(t, 20000, capacity.MLCapacity)

	err = repo.Grow(ctx, -1, 0)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestCapacityRepositoryReplace(t *testing.T) {
	ctx := context.Background()
	client := dbtest.Open(t)
	repo := NewCapacityRepository(client.DB())

	require.NoError(t, repo.Replace(ctx, models.Capacity{PotionCapacity: 150, MLCapacity: 30000, MayBuyPotionCapacity: false, MayBuyMLCapacity: true}))
	require.NoError(t, repo.Replace(ctx, models.Capacity{PotionCapacity: 50, MLCapacity: 10000, MayBuyPotionCapacity: true, MayBuyMLCapacity: true}))

	capacity, err := repo.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, models.CapacityID, capacity.ID)
	require.Equal(t, 50, capacity.PotionCapacity)
	require.Equal(t, 10000, capacity.MLCapacity)
	require.True(t, capacity.MayBuyPotionCapacity)
}

func TestCapacityRepositoryLockFallsBackOnSQLite(t *testing.T) {
	ctx := context.Background()
	client := dbtest.Open(t)
	repo := NewCapacityRepository(client.DB())

	_, err := repo.Lock(ctx)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	dbtest.InsertCapacity(t, client, 50, 10000)
	capacity, err := repo.Lock(ctx)
	require.NoError(t, err)
	require.Equal(t, 50, capacity.PotionCapacity)
}
