package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"apiary_app_go/middleware"
	"apiary_app_go/models"
	"apiary_app_go/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	setupTestDB(t)

	c, rec := setupEcho(http.MethodPost, "/api/register", `{"username":"anna","password":"longenough","beekeeper_id":5}`, nil)
	require.NoError(t, RegisterHandler(c))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, rec.Body.String(), "longenough")

	t.Run("wrong password", func(t *testing.T) {
		c, rec := setupEcho(http.MethodPost, "/api/login", `{"username":"anna","password":"nope-nope"}`, nil)
		require.NoError(t, LoginHandler(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		c, rec := setupEcho(http.MethodPost, "/api/login", `{"username":"anna"}`, nil)
		require.NoError(t, LoginHandler(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("success sets cookie", func(t *testing.T) {
		c, rec := setupEcho(http.MethodPost, "/api/login", `{"username":"anna","password":"longenough"}`, nil)
		require.NoError(t, LoginHandler(c))
		require.Equal(t, http.StatusOK, rec.Code)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, middleware.SessionCookieName, cookies[0].Name)
		assert.NotEmpty(t, cookies[0].Value)

		var beekeeper models.Beekeeper
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &beekeeper))
		assert.Equal(t, 5, beekeeper.BeekeeperNumber)
	})
}

func TestLogoutHandler(t *testing.T) {
	database := setupTestDB(t)
	owner := createTestBeekeeper(t, database, "anna", 1)

	session, err := services.CreateSession(database, owner.ID, "127.0.0.1", "test-agent")
	require.NoError(t, err)

	c, rec := setupEcho(http.MethodPost, "/api/logout", "", owner)
	c.Set(middleware.ContextKeySession, session)
	require.NoError(t, LogoutHandler(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	_, err = services.ValidateSession(database, session.Token)
	assert.Error(t, err)
}
