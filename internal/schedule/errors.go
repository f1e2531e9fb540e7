package schedule

import (
	"errors"
	"fmt"
)

// ErrStructureNotFound indicates the table does not have the expected layout.
var ErrStructureNotFound = errors.New("schedule structure not found")

// ErrEmptyName indicates the target employee name is blank.
var ErrEmptyName = errors.New("target name is empty")

// Marker row identifiers reported by StructureNotFoundError.
const (
	MarkerDate      = "date"
	MarkerPosition  = "position"
	MarkerFirstTime = "first time"
	MarkerTotal     = "total headcount"
)

// StructureNotFoundError reports which marker row could not be located.
type StructureNotFoundError struct {
	Marker string // one of the Marker* constants
	Label  string // the text that was searched for in column 0
}

func (e *StructureNotFoundError) Error() string {
	if e.Label == "" {
		return fmt.Sprintf("%v: no %s row", ErrStructureNotFound, e.Marker)
	}
	return fmt.Sprintf("%v: no %s row (column 0 starting with %q)", ErrStructureNotFound, e.Marker, e.Label)
}

func (e *StructureNotFoundError) Is(target error) bool {
	return target == ErrStructureNotFound
}
