package handlers

import (
	"errors"
	"net/http"

	"apiary_app_go/db"
	"apiary_app_go/middleware"
	"apiary_app_go/services"

	"github.com/labstack/echo/v4"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterHandler creates a beekeeper account
func RegisterHandler(c echo.Context) error {
	var in services.RegistrationInput
	if err := c.Bind(&in); err != nil {
		return badRequest(c, "Invalid request body")
	}

	beekeeper, err := services.RegisterBeekeeper(db.DB, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, beekeeper)
}

// LoginHandler checks credentials and sets the session cookie
func LoginHandler(c echo.Context) error {
	var in loginRequest
	if err := c.Bind(&in); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if in.Username == "" || in.Password == "" {
		return badRequest(c, "Username and password are required")
	}

	session, err := services.Login(db.DB, in.Username, in.Password, c.RealIP(), c.Request().UserAgent())
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, map[string]string{
				"error":   "unauthorized",
				"message": "Invalid username or password",
			})
		}
		return respondError(c, err)
	}

	middleware.SetSessionCookie(c, session)
	services.LogSecurityEvent("LOGIN_SUCCESS", session.BeekeeperID, "IP: "+c.RealIP())
	return c.JSON(http.StatusOK, session.Beekeeper)
}

// LogoutHandler deletes the current session
func LogoutHandler(c echo.Context) error {
	if session := middleware.GetCurrentSession(c); session != nil {
		if err := services.DeleteSession(db.DB, session.Token); err != nil {
			return respondError(c, err)
		}
		services.LogSecurityEvent("LOGOUT", session.BeekeeperID, "")
	}

	middleware.ClearSessionCookie(c)
	return c.NoContent(http.StatusNoContent)
}

// MeHandler returns the authenticated beekeeper
func MeHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, middleware.GetCurrentBeekeeper(c))
}
