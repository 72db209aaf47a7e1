package employee

import "errors"

var (
	ErrInvalidSkip      = errors.New("employee: invalid skip")
	ErrInvalidTake      = errors.New("employee: invalid take")
	ErrInvalidTimeZone  = errors.New("employee: invalid display time zone")
	ErrStoreUnavailable = errors.New("employee: store unavailable")
)
