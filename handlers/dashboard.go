package handlers

import (
	"net/http"

	"apiary_app_go/db"
	"apiary_app_go/services"

	"github.com/labstack/echo/v4"
)

// DashboardHandler returns the owner-wide overview
func DashboardHandler(c echo.Context) error {
	summary, err := services.GetDashboard(db.DB, ownerID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}

// ListTasksHandler returns the task catalogue
func ListTasksHandler(c echo.Context) error {
	tasks, err := services.ListTasks(db.DB)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, tasks)
}
