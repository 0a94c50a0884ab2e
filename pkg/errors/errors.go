package errors

import "errors"

var (
	// Validation errors
	ErrInvalidIdentity  = errors.New("invalid identity")
	ErrInvalidLatitude  = errors.New("latitude must be between -90 and 90")
	ErrInvalidLongitude = errors.New("longitude must be between -180 and 180")
	ErrInvalidRadius    = errors.New("radius must be positive")
	ErrInvalidAgeRange  = errors.New("min age cannot exceed max age")
	ErrSelfBlock        = errors.New("cannot block yourself")

	// Storage errors
	ErrLocationNotFound = errors.New("location not found")
)

type AppError struct {
	Err        error
	Message    string
	StatusCode int
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(err error, message string, statusCode int) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		StatusCode: statusCode,
	}
}
