package validator

import (
	"strings"

	apperrors "github.com/wandermate/nearby/pkg/errors"
)

type Validator interface {
	ValidateIdentity(id string) error
	ValidateCoordinates(lat, lon float64) error
	ValidateRadius(radiusMeters float64) error
}

type validator struct{}

func NewValidator() Validator {
	return &validator{}
}

func (v *validator) ValidateIdentity(id string) error {
	trimmed := strings.TrimSpace(id)
	if len(trimmed) == 0 || len(trimmed) > 128 {
		return apperrors.ErrInvalidIdentity
	}
	return nil
}

func (v *validator) ValidateCoordinates(lat, lon float64) error {
	if lat < -90 || lat > 90 {
		return apperrors.ErrInvalidLatitude
	}

	if lon < -180 || lon > 180 {
		return apperrors.ErrInvalidLongitude
	}

	return nil
}

func (v *validator) ValidateRadius(radiusMeters float64) error {
	if radiusMeters <= 0 {
		return apperrors.ErrInvalidRadius
	}

	return nil
}
