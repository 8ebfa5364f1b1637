package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

var (
	// ErrSaleNotFound is returned when a sale id does not resolve.
	ErrSaleNotFound = errors.New("sale not found")

	// ErrTransactionConflict is returned after the storage layer aborted the
	// transaction due to concurrent modification and retries were exhausted.
	// Safe to retry the whole operation from scratch.
	ErrTransactionConflict = errors.New("transaction aborted by concurrent modification")

	// ErrInvalidCredentials is returned on failed login. Deliberately the same
	// for unknown email and wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmailTaken is returned when registering an already-used email.
	ErrEmailTaken = errors.New("email already registered")
)

// ProductNotFoundError identifies the missing product of a failed operation.
type ProductNotFoundError struct {
	ID uuid.UUID
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.ID)
}

// ProductArchivedError is returned when a sale references an archived product.
type ProductArchivedError struct {
	ID   uuid.UUID
	Name string
}

func (e *ProductArchivedError) Error() string {
	return fmt.Sprintf("product %q is archived and cannot be sold", e.Name)
}

// InsufficientStockError identifies the product whose stock cannot cover the
// requested quantity. No stock change is applied when it is returned.
type InsufficientStockError struct {
	ID        uuid.UUID
	Name      string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %q: %d available, %d requested", e.Name, e.Available, e.Requested)
}

// TotalMismatchError is returned when the caller-supplied sale total does not
// equal the sum of line totals computed from snapshot prices.
type TotalMismatchError struct {
	Provided decimal.Decimal
	Computed decimal.Decimal
}

func (e *TotalMismatchError) Error() string {
	return fmt.Sprintf("total amount %s does not match the sum of line totals %s",
		e.Provided.StringFixed(2), e.Computed.StringFixed(2))
}

// isRetryableTxError reports whether err is a PostgreSQL serialization failure
// or deadlock — aborts that are safe to retry from scratch.
func isRetryableTxError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}
