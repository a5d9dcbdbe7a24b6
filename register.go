// Package quantum implements a fixed-iteration amplitude-amplification
// search and a lifecycle client for running it against a remote execution
// backend. The register simulation is a plain statevector; the backend
// abstraction hides all vendor transport.
package quantum

import (
	"fmt"
	"math"
	"math/cmplx"
	"math/rand"
	"time"
)

// Register holds the statevector of an n-qubit register. Basis states are
// indexed 0..2^n-1 with qubit 0 as the least significant bit.
type Register struct {
	qubits int
	amps   []complex128
	rng    *rand.Rand
}

// NewRegister creates an n-qubit register initialized to |0...0>.
func NewRegister(n int) (*Register, error) {
	if n < 1 {
		return nil, &DomainError{Reason: fmt.Sprintf("register size must be at least 1, got %d", n)}
	}
	amps := make([]complex128, 1<<uint(n))
	amps[0] = 1
	return &Register{
		qubits: n,
		amps:   amps,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// Size returns the number of qubits.
func (r *Register) Size() int {
	return r.qubits
}

// States returns the number of basis states, 2^n.
func (r *Register) States() int {
	return len(r.amps)
}

// PrepareUniform puts every basis state at equal amplitude, as if a Hadamard
// were applied to each qubit of |0...0>.
func (r *Register) PrepareUniform() {
	amp := complex(1/math.Sqrt(float64(len(r.amps))), 0)
	for i := range r.amps {
		r.amps[i] = amp
	}
}

// Probabilities returns the normalized measurement probability of each basis
// state.
func (r *Register) Probabilities() []float64 {
	probs := make([]float64, len(r.amps))
	total := 0.0
	for i, amp := range r.amps {
		p := cmplx.Abs(amp)
		p *= p
		probs[i] = p
		total += p
	}
	for i := range probs {
		probs[i] /= total
	}
	return probs
}

// Sample draws one basis-state index from the current distribution without
// collapsing the register.
func (r *Register) Sample() int {
	probs := r.Probabilities()

	x := r.rng.Float64()
	cumulative := 0.0
	outcome := 0
	for i, p := range probs {
		cumulative += p
		if x <= cumulative {
			outcome = i
			break
		}
	}
	return outcome
}

// MeasureAll measures every qubit, collapsing the register onto the measured
// basis state, and returns the outcome as little-endian bits (qubit 0 first).
func (r *Register) MeasureAll() []int {
	outcome := r.Sample()

	collapsed := make([]complex128, len(r.amps))
	collapsed[outcome] = 1
	r.amps = collapsed

	return indexToBits(outcome, r.qubits)
}

// indexToBits expands a basis-state index into little-endian bits.
func indexToBits(index, n int) []int {
	bits := make([]int, n)
	for k := 0; k < n; k++ {
		bits[k] = (index >> uint(k)) & 1
	}
	return bits
}

// bitString renders a basis-state index as a little-endian bit string,
// qubit 0 leftmost.
func bitString(index, n int) string {
	buf := make([]byte, n)
	for k := 0; k < n; k++ {
		buf[k] = byte('0' + ((index >> uint(k)) & 1))
	}
	return string(buf)
}
