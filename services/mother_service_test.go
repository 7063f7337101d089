package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMother(t *testing.T) {
	testDB := setupTestDB(t)
	owner := createBeekeeper(t, testDB, "anna")
	stranger := createBeekeeper(t, testDB, "bert")
	site := createSite(t, testDB, owner.ID, "North")
	h1 := createHive(t, testDB, site.ID, owner.ID)
	h2 := createHive(t, testDB, site.ID, owner.ID)
	queen := createMother(t, testDB, h1.ID, owner.ID, "Q-1", nil)

	t.Run("hive with an active mother is rejected", func(t *testing.T) {
		_, err := CreateMother(testDB, h1.ID, owner.ID, MotherInput{Mark: "Q-9", Year: 2024})
		assert.Equal(t, KindValidation, KindOf(err))
	})

	t.Run("mark is globally unique", func(t *testing.T) {
		foreign := createSite(t, testDB, stranger.ID, "Z")
		foreignHive := createHive(t, testDB, foreign.ID, stranger.ID)
		_, err := CreateMother(testDB, foreignHive.ID, stranger.ID, MotherInput{Mark: "Q-1", Year: 2024})
		assert.Equal(t, KindValidation, KindOf(err))
	})

	t.Run("hive of another beekeeper is forbidden", func(t *testing.T) {
		_, err := CreateMother(testDB, h2.ID, stranger.ID, MotherInput{Mark: "Q-5", Year: 2024})
		assert.True(t, errors.Is(err, ErrForbidden))
	})

	t.Run("ancestor must be owned", func(t *testing.T) {
		foreign := createSite(t, testDB, stranger.ID, "Y")
		foreignQueen := createMother(t, testDB, createHive(t, testDB, foreign.ID, stranger.ID).ID, stranger.ID, "F-1", nil)
		_, err := CreateMother(testDB, h2.ID, owner.ID, MotherInput{Mark: "Q-2", Year: 2024, AncestorID: &foreignQueen.ID})
		assert.Equal(t, KindValidation, KindOf(err))
	})

	t.Run("year out of range", func(t *testing.T) {
		_, err := CreateMother(testDB, h2.ID, owner.ID, MotherInput{Mark: "Q-2", Year: 1800})
		assert.Equal(t, KindValidation, KindOf(err))
	})

	t.Run("daughter of an owned queen", func(t *testing.T) {
		daughter, err := CreateMother(testDB, h2.ID, owner.ID, MotherInput{Mark: "Q-2", Year: 2024, FemaleLine: "Carnica", AncestorID: &queen.ID})
		require.NoError(t, err)
		assert.Equal(t, queen.ID, *daughter.AncestorID)
		assert.Equal(t, "Q-2 (linie: Carnica)", daughter.DisplayName())
	})

	t.Run("a deactivated mother frees the hive", func(t *testing.T) {
		require.NoError(t, DeactivateMother(testDB, queen.ID, owner.ID))
		_, err := CreateMother(testDB, h1.ID, owner.ID, MotherInput{Mark: "Q-3", Year: 2024})
		assert.NoError(t, err)
	})
}

func TestListMothersIncludesInactive(t *testing.T) {
	testDB := setupTestDB(t)
	owner := createBeekeeper(t, testDB, "anna")
	site := createSite(t, testDB, owner.ID, "North")
	old := createMother(t, testDB, createHive(t, testDB, site.ID, owner.ID).ID, owner.ID, "OLD", nil)
	createMother(t, testDB, createHive(t, testDB, site.ID, owner.ID).ID, owner.ID, "NEW", nil)
	require.NoError(t, DeactivateMother(testDB, old.ID, owner.ID))

	mothers, err := ListMothers(testDB, owner.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"OLD", "NEW"}, marks(mothers))

	stranger := createBeekeeper(t, testDB, "bert")
	none, err := ListMothers(testDB, stranger.ID)
	require.NoError(t, err)
	assert.Empty(t, none)
}
