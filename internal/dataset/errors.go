package dataset

import "fmt"

// GenerationError reports that the requested count cannot be satisfied from
// the available template pool without exceeding the repetition tolerance.
type GenerationError struct {
	Category  string
	Requested int
	PoolSize  int
	Tolerance float64
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("cannot generate %d %q samples from a pool of %d templates (repetition tolerance %.1f)",
		e.Requested, e.Category, e.PoolSize, e.Tolerance)
}
