package orders

import "errors"

var (
	ErrNotFound           = errors.New("order not found")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrStoreClosed        = errors.New("store is closed on that date")
	ErrInvalidTransition  = errors.New("status transition not allowed")
	// ErrCheckoutInProgress means another request holds the same idempotency key.
	ErrCheckoutInProgress = errors.New("checkout with this idempotency key is still in progress")
)

type validationError struct {
	message string
}

func (e validationError) Error() string { return e.message }

func newValidationError(msg string) error {
	return validationError{message: msg}
}

// IsValidation separates bad input from infrastructure failures.
func IsValidation(err error) bool {
	var v validationError
	return errors.As(err, &v)
}
