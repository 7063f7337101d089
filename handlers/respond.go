package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"apiary_app_go/middleware"
	"apiary_app_go/services"

	"github.com/labstack/echo/v4"
)

// errorStatus maps service error kinds to HTTP status codes
var errorStatus = map[services.ErrorKind]int{
	services.KindNotFound:           http.StatusNotFound,
	services.KindForbidden:          http.StatusForbidden,
	services.KindValidation:         http.StatusBadRequest,
	services.KindPreconditionFailed: http.StatusPreconditionFailed,
	services.KindDataIntegrity:      http.StatusConflict,
}

// respondError turns a service error into the structured {"error", "message"} result.
// Unclassified errors are logged and reported without details.
func respondError(c echo.Context, err error) error {
	kind := services.KindOf(err)
	if status, ok := errorStatus[kind]; ok {
		services.Metrics.OperationRejected(string(kind))
		return c.JSON(status, map[string]string{
			"error":   string(kind),
			"message": services.MessageOf(err),
		})
	}

	if errors.Is(err, services.ErrNumberingExhausted) {
		services.Metrics.OperationRejected("numbering_exhausted")
		return c.JSON(http.StatusConflict, map[string]string{
			"error":   "numbering_exhausted",
			"message": "The hive number was taken concurrently, please try again",
		})
	}

	log.Printf("[ERROR] %s %s: %v", c.Request().Method, c.Path(), err)
	return c.JSON(http.StatusInternalServerError, map[string]string{
		"error":   "internal",
		"message": "Something went wrong",
	})
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, map[string]string{
		"error":   string(services.KindValidation),
		"message": message,
	})
}

// paramID parses a positive numeric path parameter
func paramID(c echo.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// ownerID returns the id of the authenticated beekeeper
func ownerID(c echo.Context) uint {
	beekeeper := middleware.GetCurrentBeekeeper(c)
	if beekeeper == nil {
		return 0
	}
	return beekeeper.ID
}
