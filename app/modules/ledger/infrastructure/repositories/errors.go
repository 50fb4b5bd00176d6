package ledgerdb

import "errors"

// ErrNotFound is returned when an entry does not exist.
var ErrNotFound = errors.New("ledger entry not found")
