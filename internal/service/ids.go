package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	apperrors "blogapi/internal/errors"
)

const recordCacheTTL = 5 * time.Minute

// parseID treats a malformed id like a missing record.
func parseID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: id %q", apperrors.ErrNotFound, id)
	}
	return parsed, nil
}
