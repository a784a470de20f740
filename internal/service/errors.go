package service

import "errors"

var (
	ErrPageNotFound     = errors.New("page not found")
	ErrSectionNotFound  = errors.New("section not found")
	ErrPostNotFound     = errors.New("blog post not found")
	ErrDivisionNotFound = errors.New("division not found")
	ErrJobNotFound      = errors.New("job posting not found")
	ErrSlugTaken        = errors.New("slug already in use")
)

// ValidationError reports a rejected write caused by caller input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}
