package adminapi

import (
	"net/http"
	"time"

	"github.com/doodhdairy/dairyledger/internal/access"
	"github.com/doodhdairy/dairyledger/internal/webserver"
	"github.com/doodhdairy/dairyledger/pkg/common"
	"github.com/labstack/echo/v4"
)

func registerReportRoutes() {
	webserver.ApiGET("/reports/daily-profit", dailyProfit)
	webserver.ApiGET("/reports/monthly-profit", monthlyProfit)
	webserver.ApiGET("/reports/monthly-profit/export", monthlyProfitExport)
	webserver.ApiGET("/reports/purchase-summary", purchaseSummary)
	webserver.ApiGET("/reports/purchase-summary/export", purchaseSummaryExport)
	webserver.ApiGET("/reports/selling-summary", sellingSummary)
	webserver.ApiGET("/reports/selling-summary/export", sellingSummaryExport)
	webserver.ApiGET("/reports/worker-activity", workerActivity)
	webserver.ApiGET("/reports/low-stock", lowStock)
	webserver.ApiGET("/reports/future-orders", futureOrders)
}

// reportRole rejects callers that may not read internal reports at all.
func reportRole(c echo.Context) (access.Role, error) {
	_, role := caller(c)
	if !role.Valid() || role == access.RoleCustomer {
		return role, fail(c, http.StatusForbidden, "FORBIDDEN", "role may not read reports", nil)
	}
	return role, nil
}

func dateParam(c echo.Context) (string, bool) {
	return normalizeDate(c.QueryParam("date"), time.Now().Format(common.DateLayout))
}

func dailyProfit(c echo.Context) error {
	role, err := reportRole(c)
	if err != nil {
		return err
	}
	if !access.CanViewCost(role) {
		return fail(c, http.StatusForbidden, "FORBIDDEN", "role may not read profit reports", nil)
	}
	date, okDate := dateParam(c)
	if !okDate {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid date", nil)
	}
	res, err := reportsSvc.DailyProfit(c.Request().Context(), date)
	if err != nil {
		return failFor(c, err)
	}
	return ok(c, access.RedactDailyProfit(role, *res))
}

func monthlyProfit(c echo.Context) error {
	role, err := reportRole(c)
	if err != nil {
		return err
	}
	if !access.CanViewCost(role) {
		return fail(c, http.StatusForbidden, "FORBIDDEN", "role may not read profit reports", nil)
	}
	month := c.QueryParam("month")
	if month == "" {
		month = time.Now().Format("2006-01")
	}
	res, err := reportsSvc.MonthlyProfit(c.Request().Context(), month)
	if err != nil {
		return failFor(c, err)
	}
	return ok(c, access.RedactMonthlyProfit(role, *res))
}

func monthlyProfitExport(c echo.Context) error {
	role, err := reportRole(c)
	if err != nil {
		return err
	}
	if !access.CanViewCost(role) {
		return fail(c, http.StatusForbidden, "FORBIDDEN", "role may not export profit reports", nil)
	}
	month := c.QueryParam("month")
	if month == "" {
		month = time.Now().Format("2006-01")
	}
	data, err := reportsSvc.MonthlyProfitXLSX(c.Request().Context(), month)
	if err != nil {
		return failFor(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="profit-`+month+`.xlsx"`)
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func purchaseSummary(c echo.Context) error {
	role, err := reportRole(c)
	if err != nil {
		return err
	}
	date, okDate := dateParam(c)
	if !okDate {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid date", nil)
	}
	res, err := reportsSvc.PurchaseSummary(c.Request().Context(), date)
	if err != nil {
		return failFor(c, err)
	}
	return ok(c, access.RedactPurchaseSummary(role, *res))
}

func purchaseSummaryExport(c echo.Context) error {
	role, err := reportRole(c)
	if err != nil {
		return err
	}
	if !access.CanViewCost(role) {
		return fail(c, http.StatusForbidden, "FORBIDDEN", "role may not export purchase data", nil)
	}
	date, okDate := dateParam(c)
	if !okDate {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid date", nil)
	}
	data, err := reportsSvc.PurchaseSummaryCSV(c.Request().Context(), date)
	if err != nil {
		return failFor(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="purchases-`+date+`.csv"`)
	return c.Blob(http.StatusOK, "text/csv", data)
}

func sellingSummary(c echo.Context) error {
	role, err := reportRole(c)
	if err != nil {
		return err
	}
	date, okDate := dateParam(c)
	if !okDate {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid date", nil)
	}
	res, err := reportsSvc.SellingSummary(c.Request().Context(), date)
	if err != nil {
		return failFor(c, err)
	}
	return ok(c, access.RedactSellingSummary(role, *res))
}

func sellingSummaryExport(c echo.Context) error {
	if _, err := reportRole(c); err != nil {
		return err
	}
	date, okDate := dateParam(c)
	if !okDate {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid date", nil)
	}
	data, err := reportsSvc.SellingSummaryCSV(c.Request().Context(), date)
	if err != nil {
		return failFor(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="sales-`+date+`.csv"`)
	return c.Blob(http.StatusOK, "text/csv", data)
}

func workerActivity(c echo.Context) error {
	if _, err := reportRole(c); err != nil {
		return err
	}
	date, okDate := dateParam(c)
	if !okDate {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid date", nil)
	}
	res, err := reportsSvc.WorkerActivity(c.Request().Context(), date, c.QueryParam("worker_id"))
	if err != nil {
		return failFor(c, err)
	}
	return ok(c, res)
}

func lowStock(c echo.Context) error {
	role, err := reportRole(c)
	if err != nil {
		return err
	}
	res, err := reportsSvc.LowStockReport(c.Request().Context())
	if err != nil {
		return failFor(c, err)
	}
	return ok(c, access.RedactLowStock(role, *res))
}

func futureOrders(c echo.Context) error {
	if _, err := reportRole(c); err != nil {
		return err
	}
	target, okDate := normalizeDate(c.QueryParam("target_date"),
		time.Now().AddDate(0, 0, 1).Format(common.DateLayout))
	if !okDate {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid target date", nil)
	}
	res, err := reportsSvc.FutureOrders(c.Request().Context(), target)
	if err != nil {
		return failFor(c, err)
	}
	return ok(c, res)
}
