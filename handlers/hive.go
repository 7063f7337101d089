package handlers

import (
	"net/http"

	"apiary_app_go/db"
	"apiary_app_go/services"

	"github.com/labstack/echo/v4"
)

type relocateHivesRequest struct {
	HiveIDs      []uint `json:"hive_ids"`
	TargetSiteID uint   `json:"target_site_id"`
}

// DeleteHiveHandler deactivates a hive with its mothers and visits
func DeleteHiveHandler(c echo.Context) error {
	hiveID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid hive id")
	}

	if err := services.DeactivateHive(db.DB, hiveID, ownerID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Hive removed"})
}

// RelocateHivesHandler moves hives to another site
func RelocateHivesHandler(c echo.Context) error {
	var in relocateHivesRequest
	if err := c.Bind(&in); err != nil {
		return badRequest(c, "Invalid request body")
	}

	moved, err := services.RelocateHives(db.DB, in.HiveIDs, in.TargetSiteID, ownerID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, moved)
}

// ListVisitsHandler returns the inspections of a hive, newest first
func ListVisitsHandler(c echo.Context) error {
	hiveID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid hive id")
	}

	visits, err := services.ListVisits(db.DB, hiveID, ownerID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, visits)
}

// CreateVisitHandler records an inspection
func CreateVisitHandler(c echo.Context) error {
	hiveID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid hive id")
	}

	var in services.VisitInput
	if err := c.Bind(&in); err != nil {
		return badRequest(c, "Invalid request body")
	}

	visit, err := services.CreateVisit(db.DB, hiveID, ownerID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, visit)
}

// VisitDefaultsHandler returns prefill values for a new inspection
func VisitDefaultsHandler(c echo.Context) error {
	hiveID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid hive id")
	}

	defaults, err := services.GetVisitDefaults(db.DB, hiveID, ownerID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, defaults)
}

// CreateMotherHandler places a mother in a hive
func CreateMotherHandler(c echo.Context) error {
	hiveID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid hive id")
	}

	var in services.MotherInput
	if err := c.Bind(&in); err != nil {
		return badRequest(c, "Invalid request body")
	}

	mother, err := services.CreateMother(db.DB, hiveID, ownerID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, mother)
}

// UpdateVisitHandler edits an inspection
func UpdateVisitHandler(c echo.Context) error {
	visitID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid visit id")
	}

	var in services.VisitInput
	if err := c.Bind(&in); err != nil {
		return badRequest(c, "Invalid request body")
	}

	visit, err := services.UpdateVisit(db.DB, visitID, ownerID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, visit)
}

// DeleteVisitHandler deactivates an inspection
func DeleteVisitHandler(c echo.Context) error {
	visitID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid visit id")
	}

	if err := services.DeactivateVisit(db.DB, visitID, ownerID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Visit removed"})
}
