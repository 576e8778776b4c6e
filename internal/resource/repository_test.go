package resource_test

import (
	"context"
	"testing"

	"spaceapp/internal/createplanet"
	"spaceapp/internal/planet"
	"spaceapp/internal/resource"
	"spaceapp/internal/shared/database/databasetest"
	"spaceapp/internal/shared/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_PlanetLifecycle(t *testing.T) {
	db := databasetest.NewMigratedDB(t)
	repo := resource.NewRepository(db, planet.Schema, discardLogger())
	ctx := context.Background()

	mars := planet.Planet{Name: "Mars", Diameter: 6779, Mass: 6.4e23, Gravity: 3.71, OrbitalPeriod: 687, AverageTemperature: -63, Distance: 227900000}

	created, err := repo.Create(ctx, &mars)
	require.NoError(t, err)
	assert.Positive(t, created.ID)

	want := mars
	want.ID = created.ID
	assert.Equal(t, want, *created)

	fetched, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, want, *fetched)

	changed := *fetched
	changed.Name = "Red Planet"
	changed.Gravity = 3.72
	updated, err := repo.Update(ctx, created.ID, &changed)
	require.NoError(t, err)
	assert.Equal(t, changed, *updated)

	require.NoError(t, repo.Delete(ctx, created.ID))

	_, err = repo.Get(ctx, created.ID)
	assert.True(t, errors.IsNotFound(err))
	assert.True(t, errors.IsNotFound(repo.Delete(ctx, created.ID)))
}

func TestRepository_UnknownIDIsNotFound(t *testing.T) {
	db := databasetest.NewMigratedDB(t)
	repo := resource.NewRepository(db, planet.Schema, discardLogger())
	ctx := context.Background()

	_, err := repo.Update(ctx, 999, &planet.Planet{Name: "Ghost"})
	require.Error(t, err)
	assert.Equal(t, "planet not found with id: 999", err.Error())

	items, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestRepository_ListIsOrderedByID(t *testing.T) {
	db := databasetest.NewMigratedDB(t)
	repo := resource.NewRepository(db, createplanet.Schema, discardLogger())
	ctx := context.Background()

	for _, name := range []string{"Aqua", "Gassy", "Rocky"} {
		_, err := repo.Create(ctx, &createplanet.CreatePlanet{Name: name, ColorMode: "terrain", GasType: "none", ShowRings: 1})
		require.NoError(t, err)
	}

	items, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	for i, name := range []string{"Aqua", "Gassy", "Rocky"} {
		assert.Equal(t, name, items[i].Name)
		if i > 0 {
			assert.Less(t, items[i-1].ID, items[i].ID)
		}
	}
	assert.Equal(t, 1.0, items[0].ShowRings)
}
