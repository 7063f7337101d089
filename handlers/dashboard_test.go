package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"apiary_app_go/models"
	"apiary_app_go/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardHandler(t *testing.T) {
	database := setupTestDB(t)
	owner := createTestBeekeeper(t, database, "anna", 1)
	stranger := createTestBeekeeper(t, database, "bert", 2)

	site, err := services.CreateSite(database, owner.ID, services.SiteInput{Name: "Orchard", Type: "stationary"})
	require.NoError(t, err)
	hive, err := services.CreateHive(database, site.ID, owner.ID, services.HiveInput{Type: "langstroth"})
	require.NoError(t, err)

	yield := 14.0
	require.NoError(t, database.Create(&models.Visit{
		HiveID:         &hive.ID,
		Date:           time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		InspectionType: "harvest",
		HoneyYield:     &yield,
	}).Error)

	c, rec := setupEcho(http.MethodGet, "/api/dashboard", "", owner)
	require.NoError(t, DashboardHandler(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var summary services.DashboardSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, int64(1), summary.ActiveSites)
	assert.Equal(t, int64(1), summary.ActiveHives)
	require.Len(t, summary.Sites, 1)
	require.NotNil(t, summary.Sites[0].AvgHoneyYield)
	assert.Equal(t, 14.0, *summary.Sites[0].AvgHoneyYield)

	t.Run("other beekeepers see nothing", func(t *testing.T) {
		c, rec := setupEcho(http.MethodGet, "/api/dashboard", "", stranger)
		require.NoError(t, DashboardHandler(c))

		var empty services.DashboardSummary
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &empty))
		assert.Equal(t, int64(0), empty.ActiveSites)
		assert.Empty(t, empty.Sites)
	})
}

func TestListTasksHandler(t *testing.T) {
	database := setupTestDB(t)
	owner := createTestBeekeeper(t, database, "anna", 1)
	_, err := services.SeedTasks(database, []string{"feeding", "varroa treatment"})
	require.NoError(t, err)

	c, rec := setupEcho(http.MethodGet, "/api/tasks", "", owner)
	require.NoError(t, ListTasksHandler(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var tasks []models.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tasks))
	require.Len(t, tasks, 2)
	assert.Equal(t, "feeding", tasks[0].Name)
}
