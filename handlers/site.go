package handlers

import (
	"fmt"
	"net/http"
	"path"

	"apiary_app_go/db"
	"apiary_app_go/services"

	"github.com/labstack/echo/v4"
)

// ListSitesHandler returns the active sites of the current beekeeper
func ListSitesHandler(c echo.Context) error {
	sites, err := services.ListSites(db.DB, ownerID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, sites)
}

// CreateSiteHandler creates a site
func CreateSiteHandler(c echo.Context) error {
	var in services.SiteInput
	if err := c.Bind(&in); err != nil {
		return badRequest(c, "Invalid request body")
	}

	site, err := services.CreateSite(db.DB, ownerID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, site)
}

// GetSiteHandler returns the per-hive detail of a site
func GetSiteHandler(c echo.Context) error {
	siteID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid site id")
	}

	detail, err := services.GetSiteDetail(db.DB, siteID, ownerID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, detail)
}

// UpdateSiteHandler edits a site
func UpdateSiteHandler(c echo.Context) error {
	siteID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid site id")
	}

	var in services.SiteInput
	if err := c.Bind(&in); err != nil {
		return badRequest(c, "Invalid request body")
	}

	site, err := services.UpdateSite(db.DB, siteID, ownerID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, site)
}

// DeleteSiteHandler deactivates a site and everything on it
func DeleteSiteHandler(c echo.Context) error {
	siteID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid site id")
	}

	hives, err := services.DeactivateSite(db.DB, siteID, ownerID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":           "Site removed",
		"hives_deactivated": hives,
	})
}

// ExportSiteHandler downloads the visit journal of a site as a workbook
func ExportSiteHandler(c echo.Context) error {
	siteID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid site id")
	}

	buf, err := services.ExportSiteVisits(db.DB, siteID, ownerID(c))
	if err != nil {
		return respondError(c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="site_%d_journal.xlsx"`, siteID))
	return c.Blob(http.StatusOK, services.XLSXContentType, buf.Bytes())
}

// ArchiveSiteHandler stores the visit journal of a site in the configured storage
func ArchiveSiteHandler(c echo.Context) error {
	siteID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid site id")
	}

	result, err := services.ArchiveSiteVisits(c.Request().Context(), db.DB, services.Storage, siteID, ownerID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, result)
}

// CreateHiveHandler adds a hive to a site
func CreateHiveHandler(c echo.Context) error {
	siteID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid site id")
	}

	var in services.HiveInput
	if err := c.Bind(&in); err != nil {
		return badRequest(c, "Invalid request body")
	}

	hive, err := services.CreateHive(db.DB, siteID, ownerID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, hive)
}

// ListHivesHandler returns the active hives of a site ordered by number
func ListHivesHandler(c echo.Context) error {
	siteID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid site id")
	}

	hives, err := services.ListHives(db.DB, siteID, ownerID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, hives)
}

// DownloadArchiveHandler streams a stored visit journal, selected by the key query parameter
func DownloadArchiveHandler(c echo.Context) error {
	siteID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid site id")
	}
	key := c.QueryParam("key")
	if key == "" {
		return badRequest(c, "Archive key is required")
	}

	reader, contentType, err := services.OpenSiteArchive(c.Request().Context(), db.DB, services.Storage, siteID, ownerID(c), key)
	if err != nil {
		return respondError(c, err)
	}
	defer reader.Close()

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, path.Base(key)))
	return c.Stream(http.StatusOK, contentType, reader)
}

// DeleteArchiveHandler removes a stored visit journal
func DeleteArchiveHandler(c echo.Context) error {
	siteID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid site id")
	}
	key := c.QueryParam("key")
	if key == "" {
		return badRequest(c, "Archive key is required")
	}

	if err := services.DeleteSiteArchive(c.Request().Context(), db.DB, services.Storage, siteID, ownerID(c), key); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
