package adminapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/doodhdairy/dairyledger/internal/access"
	"github.com/doodhdairy/dairyledger/internal/ledger"
	"github.com/doodhdairy/dairyledger/internal/webserver"
	"github.com/labstack/echo/v4"
)

type purchasePayload struct {
	ProductID     int64   `json:"product_id,string"`
	Date          string  `json:"date"`
	Quantity      int     `json:"quantity"`
	PurchasePrice float64 `json:"purchase_price"`
	SupplierName  string  `json:"supplier_name"`
}

type salePayload struct {
	ProductID    int64   `json:"product_id,string"`
	Date         string  `json:"date"`
	Quantity     int     `json:"quantity"`
	SellingPrice float64 `json:"selling_price"`
	CustomerType string  `json:"customer_type"`
	DeliveryDate string  `json:"delivery_date"`
}

func registerLedgerRoutes() {
	webserver.ApiPOST("/ledger/purchases", createPurchase)
	webserver.ApiPOST("/ledger/sales", createSale)
	webserver.ApiPOST("/ledger/sales/:id/fulfill", fulfillSale)
}

func createPurchase(c echo.Context) error {
	actor, role := caller(c)
	if !access.CanRecordEntries(role) {
		return fail(c, http.StatusForbidden, "FORBIDDEN", "role may not record entries", nil)
	}

	var payload purchasePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse purchase", err.Error())
	}
	date, okDate := normalizeDate(payload.Date, "")
	if !okDate {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid date", nil)
	}

	entry, err := ledgerSvc.RecordPurchase(c.Request().Context(), ledger.PurchaseInput{
		ProductID:     payload.ProductID,
		Date:          date,
		Quantity:      payload.Quantity,
		PurchasePrice: payload.PurchasePrice,
		SupplierName:  strings.TrimSpace(payload.SupplierName),
		Actor:         actor,
	})
	if err != nil {
		return failFor(c, err)
	}
	return ok(c, entry)
}

func createSale(c echo.Context) error {
	actor, role := caller(c)
	if !access.CanRecordEntries(role) {
		return fail(c, http.StatusForbidden, "FORBIDDEN", "role may not record entries", nil)
	}

	var payload salePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse sale", err.Error())
	}
	date, okDate := normalizeDate(payload.Date, "")
	if !okDate {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid date", nil)
	}
	delivery := ""
	if payload.DeliveryDate != "" {
		var okDelivery bool
		delivery, okDelivery = normalizeDate(payload.DeliveryDate, "")
		if !okDelivery {
			return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid delivery date", nil)
		}
	}

	entry, err := ledgerSvc.RecordSale(c.Request().Context(), ledger.SaleInput{
		ProductID:    payload.ProductID,
		Date:         date,
		Quantity:     payload.Quantity,
		SellingPrice: payload.SellingPrice,
		CustomerType: payload.CustomerType,
		DeliveryDate: delivery,
		Actor:        actor,
	})
	if err != nil {
		return failFor(c, err)
	}
	return ok(c, entry)
}

func fulfillSale(c echo.Context) error {
	actor, role := caller(c)
	if !access.CanRecordEntries(role) {
		return fail(c, http.StatusForbidden, "FORBIDDEN", "role may not record entries", nil)
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid entry ID", nil)
	}
	entry, err := ledgerSvc.FulfillOrder(c.Request().Context(), id, actor)
	if err != nil {
		return failFor(c, err)
	}
	return ok(c, entry)
}
