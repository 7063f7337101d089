package handlers

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"apiary_app_go/config"
	"apiary_app_go/db"
	"apiary_app_go/middleware"
	"apiary_app_go/models"
	"apiary_app_go/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	// Use unique shared memory name to isolate tests
	dbName := "mem_" + uuid.New().String()
	testDB, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.MigrateSchema(testDB))

	sqlDB, err := testDB.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	// Set global DB
	db.DB = testDB
	services.InvalidateTaskCache()

	return testDB
}

// setupEcho builds a context for method/path with a JSON body and the given beekeeper signed in
func setupEcho(method, path, body string, beekeeper *models.Beekeeper) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	c.Set("config", &config.Config{
		Environment: "test",
	})
	if beekeeper != nil {
		c.Set(middleware.ContextKeyBeekeeper, beekeeper)
	}
	return c, rec
}

func withID(c echo.Context, id uint) echo.Context {
	c.SetParamNames("id")
	c.SetParamValues(strconv.FormatUint(uint64(id), 10))
	return c
}

func createTestBeekeeper(t *testing.T, testDB *gorm.DB, username string, number int) *models.Beekeeper {
	t.Helper()
	b := &models.Beekeeper{Username: username, Password: "x", BeekeeperNumber: number}
	require.NoError(t, testDB.Create(b).Error)
	return b
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}
