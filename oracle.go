package quantum

import "fmt"

// Oracle marks a single basis state for amplification by flipping its phase.
// Applying an oracle twice restores the register (the operator is its own
// inverse).
type Oracle struct {
	marked int
}

// NewOracle creates an oracle for the given marked index over an n-qubit
// register.
func NewOracle(marked, qubits int) (*Oracle, error) {
	if qubits < 1 {
		return nil, &DomainError{Reason: fmt.Sprintf("register size must be at least 1, got %d", qubits)}
	}
	if marked < 0 || marked >= 1<<uint(qubits) {
		return nil, &DomainError{
			Reason: fmt.Sprintf("marked index %d outside [0, %d)", marked, 1<<uint(qubits)),
		}
	}
	return &Oracle{marked: marked}, nil
}

// Marked returns the index the oracle flips.
func (o *Oracle) Marked() int {
	return o.marked
}

// Apply flips the phase of the marked basis state.
func (o *Oracle) Apply(r *Register) {
	r.amps[o.marked] = -r.amps[o.marked]
}

// ReflectAboutMarked applies a phase flip on the given basis state. It is the
// oracle application as a free function for callers composing reflections
// directly.
func ReflectAboutMarked(marked int, r *Register) error {
	oracle, err := NewOracle(marked, r.qubits)
	if err != nil {
		return err
	}
	oracle.Apply(r)
	return nil
}

// ReflectAboutUniform inverts every amplitude about the mean amplitude, the
// diffusion step of the search. Self-adjoint: applying it twice restores the
// register.
func ReflectAboutUniform(r *Register) {
	var mean complex128
	for _, amp := range r.amps {
		mean += amp
	}
	mean /= complex(float64(len(r.amps)), 0)

	for i, amp := range r.amps {
		r.amps[i] = 2*mean - amp
	}
}
