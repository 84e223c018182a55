package adminapi

import (
	"net/http"
	"strconv"

	"github.com/doodhdairy/dairyledger/internal/access"
	"github.com/doodhdairy/dairyledger/internal/domain"
	"github.com/doodhdairy/dairyledger/internal/webserver"
	"github.com/labstack/echo/v4"
)

func registerProductRoutes() {
	webserver.ApiGET("/products", listProducts)
	webserver.ApiGET("/products/:id", getProduct)
	webserver.PubGET("/products", listPublicProducts)
}

func redactOne(role access.Role, p domain.Product) access.ProductView {
	return access.RedactProduct(role, p.ID, p.Name, p.Unit,
		p.SellingPrice, p.PurchasePrice, p.CurrentStock, p.MinimumStock,
		p.ImageURL, p.IsActive)
}

func listProducts(c echo.Context) error {
	_, role := caller(c)
	if !role.Valid() {
		return fail(c, http.StatusForbidden, "FORBIDDEN", "unknown role", nil)
	}
	var rows []domain.Product
	if err := GetDB(c).Where("is_active = ?", true).Order("name ASC").Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}
	views := make([]access.ProductView, 0, len(rows))
	for _, p := range rows {
		views = append(views, redactOne(role, p))
	}
	return ok(c, map[string]interface{}{"products": views, "total": len(views)})
}

func getProduct(c echo.Context) error {
	_, role := caller(c)
	if !role.Valid() {
		return fail(c, http.StatusForbidden, "FORBIDDEN", "unknown role", nil)
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var p domain.Product
	if err := GetDB(c).First(&p, id).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}
	return ok(c, redactOne(role, p))
}

// listPublicProducts serves the unauthenticated catalog. Everything
// goes through the customer redaction: no purchase prices, no stock.
func listPublicProducts(c echo.Context) error {
	var rows []domain.Product
	if err := GetDB(c).Where("is_active = ?", true).Order("name ASC").Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}
	views := make([]access.ProductView, 0, len(rows))
	for _, p := range rows {
		views = append(views, redactOne(access.RoleCustomer, p))
	}
	return ok(c, map[string]interface{}{"products": views, "total": len(views)})
}
