package validator

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"aure-self/internal/pkg/xerrors"
)

// CustomValidator wraps go-playground validator for Echo
type CustomValidator struct {
	validator *BusinessValidator
}

// Validate implements echo.Validator interface
func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Validate(i); err != nil {
		if _, ok := err.(validator.ValidationErrors); ok {
			return xerrors.New(xerrors.CodeInvalidParams, GetValidationErrorMessage(err)).
				WithMetadata("details", TranslateValidationErrors(err))
		}
		return xerrors.New(xerrors.CodeInvalidParams, err.Error())
	}
	return nil
}

// New creates a new custom validator instance
func New() echo.Validator {
	return &CustomValidator{
		validator: NewBusinessValidator(),
	}
}
