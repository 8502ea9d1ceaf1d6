package evaluation

import "fmt"

// ReasonMissingModalityInput marks records that were asked to be evaluated
// on a modality whose input they do not carry.
const ReasonMissingModalityInput = "MissingModalityInput"

// ReconciliationError signals that a stage produced a different number of
// results than it consumed. It is a pipeline invariant violation and always
// fatal: partial per-record failures are represented inside the batch, never
// by shrinking it.
type ReconciliationError struct {
	Stage    string
	Expected int
	Got      int
}

func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("%s: output count %d does not reconcile with input count %d",
		e.Stage, e.Got, e.Expected)
}
