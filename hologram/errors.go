package hologram

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrNoLines     = errors.New("hologram: no lines")
	ErrDuplicateID = errors.New("hologram: duplicate id")
	ErrForeignLine = errors.New("hologram: line belongs to another hologram")
)

// DuplicateIDError is returned when a pool already holds a hologram with
// the same id.
type DuplicateIDError struct {
	ID   uuid.UUID
	Pool string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("hologram: %s already in pool %q", e.ID, e.Pool)
}

func (e *DuplicateIDError) Is(target error) bool {
	return target == ErrDuplicateID
}
