package errs

import (
	"errors"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrBookNotAvailable = errors.New("book not available")
	ErrAlreadyReturned  = errors.New("record already returned")
)
