package auth

import (
	"fmt"

	apperrors "blogapi/internal/errors"
)

// Authorize permits a mutation only when the claimed identity is exactly the
// record's owner attribute. It has no side effects and must run before any
// mutating store call.
func Authorize(claimed, owner string) error {
	if claimed == "" || claimed != owner {
		return fmt.Errorf("%w: %q may not modify a record owned by %q", apperrors.ErrForbidden, claimed, owner)
	}
	return nil
}
