package record

import "errors"

var (
	ErrNoStore       = errors.New("record: no store configured")
	ErrNoTable       = errors.New("record: table not set")
	ErrUnknownColumn = errors.New("record: unknown column")
	ErrInvalidOrder  = errors.New("record: order must be ASC or DESC")
	ErrInvalidLimit  = errors.New("record: limit must be positive")
	ErrMissingID     = errors.New("record: missing id")
	ErrNoColumns     = errors.New("record: no columns to write")
	ErrBadValue      = errors.New("record: value does not fit column")
)
