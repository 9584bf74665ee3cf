package service

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	apperrors "blogapi/internal/errors"
)

var validate = validator.New()

// checkEmail rejects malformed addresses.
func checkEmail(email string) error {
	if err := validate.Var(email, "email"); err != nil {
		return fmt.Errorf("%w: %q is not a valid email address", apperrors.ErrValidation, email)
	}
	return nil
}
