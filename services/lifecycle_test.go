package services

import (
	"errors"
	"testing"

	"apiary_app_go/models"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeactivateSite(t *testing.T) {
	testDB := setupTestDB(t)
	owner := createBeekeeper(t, testDB, "anna")

	north := createSite(t, testDB, owner.ID, "North")
	h1 := createHive(t, testDB, north.ID, owner.ID)
	h2 := createHive(t, testDB, north.ID, owner.ID)
	m1 := createMother(t, testDB, h1.ID, owner.ID, "N-1", nil)
	v1 := insertVisit(t, testDB, h1.ID, "2024-01-01", nil)
	v2 := insertVisit(t, testDB, h2.ID, "2024-01-02", nil)

	south := createSite(t, testDB, owner.ID, "South")
	h3 := createHive(t, testDB, south.ID, owner.ID)
	m3 := createMother(t, testDB, h3.ID, owner.ID, "S-1", nil)
	v3 := insertVisit(t, testDB, h3.ID, "2024-01-03", nil)

	t.Run("cascades to the whole subtree", func(t *testing.T) {
		hives, err := DeactivateSite(testDB, north.ID, owner.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), hives)

		assert.False(t, reload[models.Site](t, testDB, north.ID).Active)
		assert.False(t, reload[models.Hive](t, testDB, h1.ID).Active)
		assert.False(t, reload[models.Hive](t, testDB, h2.ID).Active)
		assert.False(t, reload[models.Mother](t, testDB, m1.ID).Active)
		assert.False(t, reload[models.Visit](t, testDB, v1.ID).Active)
		assert.False(t, reload[models.Visit](t, testDB, v2.ID).Active)
	})

	t.Run("leaves other sites untouched", func(t *testing.T) {
		assert.True(t, reload[models.Site](t, testDB, south.ID).Active)
		assert.True(t, reload[models.Hive](t, testDB, h3.ID).Active)
		assert.True(t, reload[models.Mother](t, testDB, m3.ID).Active)
		assert.True(t, reload[models.Visit](t, testDB, v3.ID).Active)
	})

	t.Run("already inactive site is not available", func(t *testing.T) {
		_, err := DeactivateSite(testDB, north.ID, owner.ID)
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("site of another beekeeper is not available", func(t *testing.T) {
		other := createBeekeeper(t, testDB, "bert")
		_, err := DeactivateSite(testDB, south.ID, other.ID)
		assert.True(t, errors.Is(err, ErrNotFound))
		assert.True(t, reload[models.Site](t, testDB, south.ID).Active)
	})
}

func TestDeactivateHive(t *testing.T) {
	testDB := setupTestDB(t)
	owner := createBeekeeper(t, testDB, "anna")
	site := createSite(t, testDB, owner.ID, "North")
	hive := createHive(t, testDB, site.ID, owner.ID)
	sibling := createHive(t, testDB, site.ID, owner.ID)
	mother := createMother(t, testDB, hive.ID, owner.ID, "Q-1", nil)
	visit := insertVisit(t, testDB, hive.ID, "2024-03-01", nil)
	other := insertVisit(t, testDB, sibling.ID, "2024-03-01", nil)

	require.NoError(t, DeactivateHive(testDB, hive.ID, owner.ID))

	assert.False(t, reload[models.Hive](t, testDB, hive.ID).Active)
	assert.False(t, reload[models.Mother](t, testDB, mother.ID).Active)
	assert.False(t, reload[models.Visit](t, testDB, visit.ID).Active)
	assert.True(t, reload[models.Visit](t, testDB, other.ID).Active)
	assert.True(t, reload[models.Site](t, testDB, site.ID).Active)

	err := DeactivateHive(testDB, hive.ID, owner.ID)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestDeactivateMotherDoesNotCascade(t *testing.T) {
	testDB := setupTestDB(t)
	owner := createBeekeeper(t, testDB, "anna")
	site := createSite(t, testDB, owner.ID, "North")
	hive := createHive(t, testDB, site.ID, owner.ID)
	mother := createMother(t, testDB, hive.ID, owner.ID, "Q-1", nil)
	visit := insertVisit(t, testDB, hive.ID, "2024-03-01", nil)

	require.NoError(t, DeactivateMother(testDB, mother.ID, owner.ID))

	assert.False(t, reload[models.Mother](t, testDB, mother.ID).Active)
	assert.True(t, reload[models.Hive](t, testDB, hive.ID).Active)
	assert.True(t, reload[models.Visit](t, testDB, visit.ID).Active)

	err := DeactivateMother(testDB, mother.ID, owner.ID)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestDeactivateVisitTwice(t *testing.T) {
	testDB := setupTestDB(t)
	owner := createBeekeeper(t, testDB, "anna")
	site := createSite(t, testDB, owner.ID, "North")
	hive := createHive(t, testDB, site.ID, owner.ID)
	visit := insertVisit(t, testDB, hive.ID, "2024-03-01", nil)

	require.NoError(t, DeactivateVisit(testDB, visit.ID, owner.ID))
	assert.False(t, reload[models.Visit](t, testDB, visit.ID).Active)

	// Second call reports differently but the state stays the same
	err := DeactivateVisit(testDB, visit.ID, owner.ID)
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.False(t, reload[models.Visit](t, testDB, visit.ID).Active)
}

func TestEraseMother(t *testing.T) {
	testDB := setupTestDB(t)
	owner := createBeekeeper(t, testDB, "anna")
	site := createSite(t, testDB, owner.ID, "North")
	h1 := createHive(t, testDB, site.ID, owner.ID)
	h2 := createHive(t, testDB, site.ID, owner.ID)
	queen := createMother(t, testDB, h1.ID, owner.ID, "Q-1", nil)
	daughter := createMother(t, testDB, h2.ID, owner.ID, "Q-2", &queen.ID)

	t.Run("active mother cannot be erased", func(t *testing.T) {
		_, err := EraseMother(testDB, queen.ID, owner.ID)
		assert.True(t, errors.Is(err, ErrPreconditionFailed))

		var count int64
		testDB.Model(&models.Mother{}).Where("id = ?", queen.ID).Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("other beekeeper cannot erase", func(t *testing.T) {
		require.NoError(t, DeactivateMother(testDB, queen.ID, owner.ID))
		stranger := createBeekeeper(t, testDB, "bert")
		_, err := EraseMother(testDB, queen.ID, stranger.ID)
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("inactive mother is removed and daughters detached", func(t *testing.T) {
		erased, err := EraseMother(testDB, queen.ID, owner.ID)
		require.NoError(t, err)
		assert.Equal(t, "Q-1", erased.Mark)

		var count int64
		testDB.Model(&models.Mother{}).Where("id = ?", queen.ID).Count(&count)
		assert.Equal(t, int64(0), count)

		d := reload[models.Mother](t, testDB, daughter.ID)
		assert.Nil(t, d.AncestorID)
		assert.True(t, d.Active)
	})
}

func TestDeactivateSiteRollsBack(t *testing.T) {
	testDB := setupTestDB(t)
	owner := createBeekeeper(t, testDB, "anna")
	m := useTestMetrics(t)

	site := createSite(t, testDB, owner.ID, "North")
	h1 := createHive(t, testDB, site.ID, owner.ID)
	h2 := createHive(t, testDB, site.ID, owner.ID)
	mother := createMother(t, testDB, h1.ID, owner.ID, "N-1", nil)
	visit := insertVisit(t, testDB, h2.ID, "2024-01-01", nil)

	// site, hives and mothers are written before the visits update fails
	failUpdates(t, testDB, "visits", 0, errWriteFailed)

	_, err := DeactivateSite(testDB, site.ID, owner.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, errWriteFailed)

	assert.True(t, reload[models.Site](t, testDB, site.ID).Active)
	assert.True(t, reload[models.Hive](t, testDB, h1.ID).Active)
	assert.True(t, reload[models.Hive](t, testDB, h2.ID).Active)
	assert.True(t, reload[models.Mother](t, testDB, mother.ID).Active)
	assert.True(t, reload[models.Visit](t, testDB, visit.ID).Active)
	assert.Equal(t, 0, testutil.CollectAndCount(m, "apiary_deactivations_total"))
}

func TestDeactivateHiveRollsBack(t *testing.T) {
	testDB := setupTestDB(t)
	owner := createBeekeeper(t, testDB, "anna")
	m := useTestMetrics(t)

	site := createSite(t, testDB, owner.ID, "North")
	hive := createHive(t, testDB, site.ID, owner.ID)
	mother := createMother(t, testDB, hive.ID, owner.ID, "N-1", nil)
	visit := insertVisit(t, testDB, hive.ID, "2024-01-01", nil)

	failUpdates(t, testDB, "visits", 0, errWriteFailed)

	err := DeactivateHive(testDB, hive.ID, owner.ID)
	assert.ErrorIs(t, err, errWriteFailed)

	assert.True(t, reload[models.Hive](t, testDB, hive.ID).Active)
	assert.True(t, reload[models.Mother](t, testDB, mother.ID).Active)
	assert.True(t, reload[models.Visit](t, testDB, visit.ID).Active)
	assert.Equal(t, 0, testutil.CollectAndCount(m, "apiary_deactivations_total"))
}

func TestDeactivationMetricsAfterCommit(t *testing.T) {
	testDB := setupTestDB(t)
	owner := createBeekeeper(t, testDB, "anna")
	m := useTestMetrics(t)

	site := createSite(t, testDB, owner.ID, "North")
	hive := createHive(t, testDB, site.ID, owner.ID)
	mother := createMother(t, testDB, hive.ID, owner.ID, "N-1", nil)
	visit := insertVisit(t, testDB, hive.ID, "2024-01-01", nil)

	require.NoError(t, DeactivateVisit(testDB, visit.ID, owner.ID))
	require.NoError(t, DeactivateMother(testDB, mother.ID, owner.ID))
	require.NoError(t, DeactivateHive(testDB, hive.ID, owner.ID))

	// visit, mother and hive series; the hive cascade found nothing left to deactivate
	assert.Equal(t, 3, testutil.CollectAndCount(m, "apiary_deactivations_total"))

	// a rejected call records nothing
	assert.Error(t, DeactivateVisit(testDB, visit.ID, owner.ID))
	assert.Equal(t, 3, testutil.CollectAndCount(m, "apiary_deactivations_total"))
}
