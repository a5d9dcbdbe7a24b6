package quantum

import (
	"fmt"
	"math"
)

/*
PlanIterations computes how many reflection rounds maximize the probability
of measuring the single marked state in a uniform superposition over 2^n
basis states:

	round(0.25·π / arcsin(1/√(2^n)) − 0.5)

The count is used exactly once per search to bound the reflection loop; it is
never negative for any n ≥ 1.
*/
func PlanIterations(n int) (int, error) {
	if n < 1 {
		return 0, &DomainError{Reason: fmt.Sprintf("search space needs at least 1 qubit, got %d", n)}
	}
	angle := math.Asin(1 / math.Sqrt(float64(uint64(1)<<uint(n))))
	return int(math.Round(0.25*math.Pi/angle - 0.5)), nil
}

// Program describes one search to run on a backend: the register size and
// the basis state the oracle marks. A Program carries no register state of
// its own; each execution builds and discards its own register.
type Program struct {
	Qubits      int
	MarkedIndex int
}

// NewProgram builds a validated search program.
func NewProgram(qubits, marked int) (Program, error) {
	p := Program{Qubits: qubits, MarkedIndex: marked}
	if err := p.Validate(); err != nil {
		return Program{}, err
	}
	return p, nil
}

// Validate checks the program against the planner's domain.
func (p Program) Validate() error {
	if p.Qubits < 1 {
		return &DomainError{Reason: fmt.Sprintf("register size must be at least 1, got %d", p.Qubits)}
	}
	if p.MarkedIndex < 0 || p.MarkedIndex >= p.States() {
		return &DomainError{
			Reason: fmt.Sprintf("marked index %d outside [0, %d)", p.MarkedIndex, p.States()),
		}
	}
	return nil
}

// States returns the size of the search space, 2^Qubits.
func (p Program) States() int {
	return 1 << uint(p.Qubits)
}

// evolve runs the planned reflection rounds on a fresh register and returns
// it unmeasured, so callers can either sample shots or collapse it.
func evolve(p Program) (*Register, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	reg, err := NewRegister(p.Qubits)
	if err != nil {
		return nil, err
	}
	oracle, err := NewOracle(p.MarkedIndex, p.Qubits)
	if err != nil {
		return nil, err
	}
	rounds, err := PlanIterations(p.Qubits)
	if err != nil {
		return nil, err
	}

	reg.PrepareUniform()
	for i := 0; i < rounds; i++ {
		oracle.Apply(reg)
		ReflectAboutUniform(reg)
	}
	return reg, nil
}

// RunSearch executes the search locally: uniform superposition, the planned
// rounds of (reflect about marked, reflect about uniform), then a full
// measurement. Returns the outcome as little-endian bits.
func RunSearch(p Program) ([]int, error) {
	reg, err := evolve(p)
	if err != nil {
		return nil, err
	}
	return reg.MeasureAll(), nil
}
