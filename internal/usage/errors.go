package usage

import "errors"

// ErrLimitReached indicates the user has no deck generations left this period.
var ErrLimitReached = errors.New("limit reached")
