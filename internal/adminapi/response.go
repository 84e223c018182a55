package adminapi

import (
	"errors"
	"net/http"

	"github.com/doodhdairy/dairyledger/internal/access"
	"github.com/doodhdairy/dairyledger/internal/ledger"
	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"

	"github.com/doodhdairy/dairyledger/internal/webserver"
	"gorm.io/gorm"
)

type apiError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Detail  interface{} `json:"detail,omitempty"`
}

// ok writes a 200 response with the given payload.
func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

// fail writes an error response in the standard envelope.
func fail(c echo.Context, status int, code, message string, detail interface{}) error {
	return c.JSON(status, map[string]interface{}{
		"error": apiError{Code: code, Message: message, Detail: detail},
	})
}

// failFor maps a taxonomy error to its HTTP representation.
func failFor(c echo.Context, err error) error {
	switch {
	case errors.Is(err, ledger.ErrValidation):
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
	case errors.Is(err, ledger.ErrInsufficientStock):
		return fail(c, http.StatusConflict, "INSUFFICIENT_STOCK", err.Error(), nil)
	case errors.Is(err, ledger.ErrNotFound):
		return fail(c, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	case errors.Is(err, ledger.ErrAuthorization):
		return fail(c, http.StatusForbidden, "FORBIDDEN", err.Error(), nil)
	default:
		return fail(c, http.StatusInternalServerError, "PERSISTENCE_ERROR", err.Error(), nil)
	}
}

// GetDB returns the request-scoped database handle.
func GetDB(c echo.Context) *gorm.DB {
	return c.Get(webserver.ContextDBKey).(*gorm.DB)
}

// caller extracts the verified identity from the JWT middleware. The
// role is trusted as asserted by the external identity service; the
// core never re-derives it.
func caller(c echo.Context) (ledger.Actor, access.Role) {
	token, okToken := c.Get("user").(*jwtv5.Token)
	if !okToken {
		return ledger.Actor{}, ""
	}
	claims, okClaims := token.Claims.(jwtv5.MapClaims)
	if !okClaims {
		return ledger.Actor{}, ""
	}
	actor := ledger.Actor{
		ID:   cast.ToString(claims["uid"]),
		Name: cast.ToString(claims["name"]),
	}
	return actor, access.Role(cast.ToString(claims["role"]))
}
