package apperror

import "errors"

var (
	ErrCellOutOfRange = errors.New("cell index out of range")
)
