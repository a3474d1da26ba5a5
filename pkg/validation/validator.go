package validation

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate is a singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// DelineationRequest represents an inbound delineation request. Latitude and
// longitude bounds are WGS84. Zero is a legitimate coordinate, so the fields
// are range-checked rather than required.
type DelineationRequest struct {
	Lat      float64 `json:"lat" validate:"min=-90,max=90"`
	Lon      float64 `json:"lon" validate:"min=-180,max=180"`
	MaxUnits int     `json:"max_units,omitempty" validate:"omitempty,min=1"`
}

// ValidateDelineationRequest validates an inbound request.
func ValidateDelineationRequest(req *DelineationRequest) error {
	if req == nil {
		return errors.New("delineation request cannot be nil")
	}
	if err := validate.Struct(req); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// formatValidationError converts validator errors into readable messages.
func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		e := verrs[0]
		switch e.Tag() {
		case "required":
			return fmt.Errorf("%s: field is required", e.Field())
		case "min":
			return fmt.Errorf("%s: value is below minimum %s", e.Field(), e.Param())
		case "max":
			return fmt.Errorf("%s: value exceeds maximum %s", e.Field(), e.Param())
		default:
			return fmt.Errorf("%s: failed %s validation", e.Field(), e.Tag())
		}
	}
	return err
}
