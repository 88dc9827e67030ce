package cli

import "errors"

// ErrEmptyCache is returned when a roster is needed but nothing has been
// fetched yet.
var ErrEmptyCache = errors.New("document cache is empty; run `pokelookup fetch` or set refresh_on_empty")
