package services

import (
	"testing"

	"apiary_app_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedTasksIsIdempotent(t *testing.T) {
	testDB := setupTestDB(t)

	created, err := SeedTasks(testDB, []string{"feeding", " swarm control ", "", "feeding"})
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	created, err = SeedTasks(testDB, []string{"feeding", "swarm control"})
	require.NoError(t, err)
	assert.Equal(t, 0, created)

	var count int64
	testDB.Model(&models.Task{}).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestListTasksCache(t *testing.T) {
	testDB := setupTestDB(t)
	_, err := SeedTasks(testDB, []string{"feeding"})
	require.NoError(t, err)

	tasks, err := ListTasks(testDB)
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	// Rows written behind the catalogue stay invisible until the cache is dropped
	require.NoError(t, testDB.Create(&models.Task{Name: "honey harvest"}).Error)
	cached, err := ListTasks(testDB)
	require.NoError(t, err)
	assert.Len(t, cached, 1)

	InvalidateTaskCache()
	fresh, err := ListTasks(testDB)
	require.NoError(t, err)
	assert.Len(t, fresh, 2)
}

func TestSeedBeekeeperFromEnv(t *testing.T) {
	testDB := setupTestDB(t)

	t.Setenv("SEED_BEEKEEPER_USERNAME", "seeded")
	t.Setenv("SEED_BEEKEEPER_PASSWORD", "longenough")
	t.Setenv("SEED_BEEKEEPER_NUMBER", "77")

	require.NoError(t, SeedBeekeeperFromEnv(testDB))
	require.NoError(t, SeedBeekeeperFromEnv(testDB))

	var beekeepers []models.Beekeeper
	testDB.Find(&beekeepers)
	require.Len(t, beekeepers, 1)
	assert.Equal(t, 77, beekeepers[0].BeekeeperNumber)
}
