package validator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"roomly/pkg/logger"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

// StartCheckoutRequest opens a 15-minute booking window on a listing.
type StartCheckoutRequest struct {
	ListingID   string    `json:"listing_id" validate:"required,mongodb"`
	MoveInDate  time.Time `json:"move_in_date" validate:"required"`
	LeaseMonths int       `json:"lease_months" validate:"required,min=1,max=36"`
}

// CompleteCheckoutRequest finalizes a session into a booking. EndDate is
// optional; the service derives it from the lease length when absent.
type CompleteCheckoutRequest struct {
	StartDate time.Time  `json:"start_date" validate:"required"`
	EndDate   *time.Time `json:"end_date,omitempty"`
}

type CheckoutValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewCheckoutValidator(log *logger.Logger) *CheckoutValidator {
	return &CheckoutValidator{
		validate: validator.New(),
		logger:   log,
	}
}

func (v *CheckoutValidator) ValidateStart(req *StartCheckoutRequest) error {
	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
	}

	if req.MoveInDate.Before(time.Now().Truncate(24 * time.Hour)) {
		return ValidationErrors{
			ValidationError{
				Field:   "MoveInDate",
				Message: "move_in_date cannot be in the past",
			},
		}
	}

	return nil
}

func (v *CheckoutValidator) ValidateComplete(req *CompleteCheckoutRequest) error {
	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
	}

	if req.EndDate != nil && !req.EndDate.After(req.StartDate) {
		return ValidationErrors{
			ValidationError{
				Field:   "EndDate",
				Message: "end_date must be after start_date",
			},
		}
	}

	return nil
}

func translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
