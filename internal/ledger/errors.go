package ledger

import (
	"errors"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

// Error taxonomy for ledger operations. Callers classify failures with
// errors.Is; the HTTP layer maps each sentinel to a status code.
var (
	ErrValidation        = errors.New("validation failed")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrNotFound          = errors.New("not found")
	ErrAuthorization     = errors.New("authorization denied")
	ErrPersistence       = errors.New("persistence failure")
)

// wrapDB classifies a database error into the taxonomy while keeping
// the underlying message. Record-not-found becomes ErrNotFound,
// everything else ErrPersistence.
func wrapDB(err error, msg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(ErrNotFound, msg)
	}
	return pkgerrors.Wrapf(ErrPersistence, "%s: %v", msg, err)
}
