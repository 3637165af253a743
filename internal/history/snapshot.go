package history

import (
	"time"

	"github.com/mesh-intelligence/abacus/internal/calculation"
)

// Snapshot is an independent copy of the history taken before a mutation.
// Later changes to the live history never affect it.
type Snapshot struct {
	calcs     []*calculation.Calculation
	Timestamp time.Time
}

func newSnapshot(calcs []*calculation.Calculation) Snapshot {
	return Snapshot{calcs: cloneAll(calcs), Timestamp: time.Now()}
}

// History returns a copy of the captured calculations, oldest first.
func (s Snapshot) History() []*calculation.Calculation {
	return cloneAll(s.calcs)
}

// Len returns the number of captured calculations.
func (s Snapshot) Len() int { return len(s.calcs) }

// Records returns the captured calculations in record form.
func (s Snapshot) Records() []calculation.Record {
	out := make([]calculation.Record, len(s.calcs))
	for i, c := range s.calcs {
		out[i] = c.ToRecord()
	}
	return out
}

func cloneAll(calcs []*calculation.Calculation) []*calculation.Calculation {
	out := make([]*calculation.Calculation, len(calcs))
	for i, c := range calcs {
		out[i] = c.Clone()
	}
	return out
}
