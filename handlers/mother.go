package handlers

import (
	"net/http"

	"apiary_app_go/db"
	"apiary_app_go/services"

	"github.com/labstack/echo/v4"
)

type relocateMotherRequest struct {
	TargetHiveID uint `json:"target_hive_id"`
}

type motherListItem struct {
	ID          uint   `json:"id"`
	DisplayName string `json:"display_name"`
	Year        int    `json:"year"`
	Active      bool   `json:"active"`
	HiveID      *uint  `json:"hive_id"`
	AncestorID  *uint  `json:"ancestor_id"`
}

// ListMothersHandler returns every mother of the current beekeeper, active or not
func ListMothersHandler(c echo.Context) error {
	mothers, err := services.ListMothers(db.DB, ownerID(c))
	if err != nil {
		return respondError(c, err)
	}

	items := make([]motherListItem, 0, len(mothers))
	for i := range mothers {
		m := &mothers[i]
		items = append(items, motherListItem{
			ID:          m.ID,
			DisplayName: m.DisplayName(),
			Year:        m.Year,
			Active:      m.Active,
			HiveID:      m.HiveID,
			AncestorID:  m.AncestorID,
		})
	}
	return c.JSON(http.StatusOK, items)
}

// RelocationTargetsHandler lists the hives a mother can be moved into
func RelocationTargetsHandler(c echo.Context) error {
	targets, err := services.ListRelocationTargets(db.DB, ownerID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, targets)
}

// LineageHandler returns ancestors, daughters and sisters of a mother
func LineageHandler(c echo.Context) error {
	motherID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid mother id")
	}

	lineage, err := services.GetLineage(db.DB, motherID, ownerID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, lineage)
}

// UpdateMotherHandler edits a mother
func UpdateMotherHandler(c echo.Context) error {
	motherID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid mother id")
	}

	var in services.MotherInput
	if err := c.Bind(&in); err != nil {
		return badRequest(c, "Invalid request body")
	}

	mother, err := services.UpdateMother(db.DB, motherID, ownerID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, mother)
}

// DeleteMotherHandler deactivates a mother
func DeleteMotherHandler(c echo.Context) error {
	motherID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid mother id")
	}

	if err := services.DeactivateMother(db.DB, motherID, ownerID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Mother removed"})
}

// EraseMotherHandler permanently removes a deactivated mother
func EraseMotherHandler(c echo.Context) error {
	motherID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid mother id")
	}

	if _, err := services.EraseMother(db.DB, motherID, ownerID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Mother erased"})
}

// RelocateMotherHandler moves a mother into another hive
func RelocateMotherHandler(c echo.Context) error {
	motherID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid mother id")
	}

	var in relocateMotherRequest
	if err := c.Bind(&in); err != nil {
		return badRequest(c, "Invalid request body")
	}

	mother, err := services.RelocateMother(db.DB, motherID, in.TargetHiveID, ownerID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, mother)
}
