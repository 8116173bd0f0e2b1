package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torqueup/assistant-api/internal/domain/entity"
)

func seedVehicleRepo(t *testing.T) *memoryVehicleRepository {
	t.Helper()
	repo := NewMemoryVehicleRepository().(*memoryVehicleRepository)
	err := repo.SaveMany(context.Background(), []entity.Vehicle{
		{ID: "v1", Make: "Toyota", Model: "RAV4", Price: 28000, BodyStyle: "suv", Category: "crossover"},
		{ID: "v2", Make: "Toyota", Model: "Corolla", Price: 14000, BodyStyle: "sedan", Category: "economy"},
		{ID: "v3", Make: "Honda", Model: "Civic", Price: 16000, BodyStyle: "sedan", Description: "reliable city commuter"},
	})
	require.NoError(t, err)
	return repo
}

func TestVehicleInsertionOrderIsStable(t *testing.T) {
	repo := seedVehicleRepo(t)

	all, err := repo.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "v1", all[0].ID)
	assert.Equal(t, "v2", all[1].ID)
	assert.Equal(t, "v3", all[2].ID)
}

func TestVehicleSearchDirectSubstring(t *testing.T) {
	repo := seedVehicleRepo(t)

	results, err := repo.Search(context.Background(), "corolla")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "v2", results[0].ID)
}

func TestVehicleSearchSpacedModelName(t *testing.T) {
	repo := seedVehicleRepo(t)

	// "RAV 4" has no direct substring hit but normalizes to "rav4".
	results, err := repo.Search(context.Background(), "RAV 4")
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "v1", results[0].ID)
}

func TestVehicleSearchMatchesDescription(t *testing.T) {
	repo := seedVehicleRepo(t)

	results, err := repo.Search(context.Background(), "commuter")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "v3", results[0].ID)
}

func TestVehicleSearchNoWeakMatches(t *testing.T) {
	repo := seedVehicleRepo(t)

	results, err := repo.Search(context.Background(), "zeppelin")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestReplaceCatalogSwapsInventory(t *testing.T) {
	repo := seedVehicleRepo(t)

	catalog := entity.VehicleCatalog{
		Vehicles:  []entity.Vehicle{{ID: "n1", Make: "Mazda", Model: "CX-5", Price: 26000}},
		UpdatedAt: time.Now(),
		Source:    "catalog.xlsx",
	}
	require.NoError(t, repo.ReplaceCatalog(context.Background(), catalog))

	all, err := repo.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "n1", all[0].ID)

	stored, err := repo.GetCatalog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "catalog.xlsx", stored.Source)
}

func TestGetByIDUnknownVehicle(t *testing.T) {
	repo := seedVehicleRepo(t)

	_, err := repo.GetByID(context.Background(), "nope")
	assert.Error(t, err)
}
