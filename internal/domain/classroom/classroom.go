package classroom

import (
	"errors"
	"strings"
)

// Domain errors
var (
	ErrEmptyName       = errors.New("classroom name cannot be empty")
	ErrInvalidCapacity = errors.New("classroom capacity must be at least 1")
)

// Classroom is a bookable room ("aula").
type Classroom struct {
	ID           int64
	Name         string
	Capacity     int
	HasComputers bool
}

// Validate checks if the Classroom has valid data.
// PRE: Classroom struct is populated
// POST: Returns nil if valid, error otherwise
func (c *Classroom) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if c.Capacity < 1 {
		return ErrInvalidCapacity
	}
	return nil
}
