package settlementdb

import "errors"

// ErrNotFound is returned when a payment does not exist.
var ErrNotFound = errors.New("payment not found")
