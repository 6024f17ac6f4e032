package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidID            = errors.New("invalid id")
	ErrPlaceholderReference = errors.New("reference to an entity the server does not know")
	ErrEmptyName            = errors.New("name is required")
	ErrNameTooLong          = errors.New("name is too long")
	ErrInvalidColor         = errors.New("invalid color")
	ErrMissingStart         = errors.New("start is required")
	ErrNegativeDuration     = errors.New("duration cannot be negative")
	ErrInvalidEmail         = errors.New("invalid email")
	ErrInvalidFormat        = errors.New("invalid display format")
	ErrInvalidWeekday       = errors.New("beginning of week must be between 0 and 6")
)
