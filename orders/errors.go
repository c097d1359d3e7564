package orders

import "errors"

var (
	// ErrStorageUnavailable means the order store was never initialized.
	ErrStorageUnavailable = errors.New("order storage unavailable")
	// ErrPersistenceFailure means a write was not acknowledged by the store.
	ErrPersistenceFailure = errors.New("order could not be persisted")
	ErrOrderNotFound      = errors.New("order not found")
	ErrDuplicateOrderID   = errors.New("order id already exists")
	// ErrDuplicateSubmission guards one review and one complaint per order.
	ErrDuplicateSubmission = errors.New("already submitted for this order")
	ErrMissingFields       = errors.New("missing required fields")
)
