package adminapi

import (
	"net/http"

	"github.com/doodhdairy/dairyledger/internal/access"
	"github.com/doodhdairy/dairyledger/internal/webserver"
	"github.com/labstack/echo/v4"
)

func registerSnapshotRoutes() {
	webserver.ApiPOST("/snapshots/:date/generate", generateSnapshot)
	webserver.ApiGET("/snapshots/:date", getSnapshot)
}

func generateSnapshot(c echo.Context) error {
	_, role := caller(c)
	if !access.CanViewCost(role) {
		return fail(c, http.StatusForbidden, "FORBIDDEN", "role may not generate snapshots", nil)
	}
	date, okDate := normalizeDate(c.Param("date"), "")
	if !okDate {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid date", nil)
	}
	res, err := snapshotSvc.GenerateDailyHash(c.Request().Context(), date)
	if err != nil {
		return failFor(c, err)
	}
	return ok(c, res)
}

func getSnapshot(c echo.Context) error {
	_, role := caller(c)
	if role == access.RoleCustomer || !role.Valid() {
		return fail(c, http.StatusForbidden, "FORBIDDEN", "role may not read snapshots", nil)
	}
	date, okDate := normalizeDate(c.Param("date"), "")
	if !okDate {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid date", nil)
	}
	row, err := snapshotSvc.GetSnapshot(c.Request().Context(), date)
	if err != nil {
		return failFor(c, err)
	}
	return ok(c, row)
}
