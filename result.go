package quantum

import (
	"fmt"
	"sort"
	"strings"
)

// ResultSet is the normalized view of a completed job's measurements,
// immutable once produced. Both the typed and the raw-mapping backend
// payloads normalize to this one shape, so the synchronous and asynchronous
// paths return identical results.
type ResultSet struct {
	register string
	outcomes []string
	counts   map[string]int
	bitOrder BitOrder
}

// Normalize converts a backend payload into a ResultSet. The bit order is the
// backend's declared convention; raw mappings keep their outcome strings
// exactly as reported. Measurement-register names with a vendor "m_" prefix
// are stripped to the bare register name.
func Normalize(raw RawResult, order BitOrder) (*ResultSet, error) {
	switch raw.Kind {
	case ResultTyped:
		return normalizeTyped(raw, order)
	case ResultRawMapping:
		return normalizeMapping(raw, order)
	default:
		return nil, fmt.Errorf("unknown result kind %d", raw.Kind)
	}
}

func normalizeTyped(raw RawResult, order BitOrder) (*ResultSet, error) {
	if len(raw.Outcomes) == 0 {
		return nil, fmt.Errorf("typed result for register %q has no outcomes", raw.Register)
	}
	counts := raw.Counts
	if counts == nil {
		counts = tally(raw.Outcomes)
	}
	return &ResultSet{
		register: registerName(raw.Register),
		outcomes: append([]string(nil), raw.Outcomes...),
		counts:   copyCounts(counts),
		bitOrder: order,
	}, nil
}

func normalizeMapping(raw RawResult, order BitOrder) (*ResultSet, error) {
	if len(raw.Mapping) != 1 {
		return nil, fmt.Errorf("raw mapping has %d registers, want exactly 1", len(raw.Mapping))
	}
	for name, shots := range raw.Mapping {
		if len(shots) == 0 {
			return nil, fmt.Errorf("raw mapping register %q has no shots", name)
		}
		return &ResultSet{
			register: registerName(name),
			outcomes: append([]string(nil), shots...),
			counts:   tally(shots),
			bitOrder: order,
		}, nil
	}
	return nil, fmt.Errorf("raw mapping is empty")
}

// registerName strips a single vendor measurement prefix.
func registerName(name string) string {
	return strings.TrimPrefix(name, "m_")
}

func tally(outcomes []string) map[string]int {
	counts := make(map[string]int, len(outcomes))
	for _, outcome := range outcomes {
		counts[outcome]++
	}
	return counts
}

func copyCounts(counts map[string]int) map[string]int {
	out := make(map[string]int, len(counts))
	for k, v := range counts {
		out[k] = v
	}
	return out
}

// Register returns the measurement register's name.
func (rs *ResultSet) Register() string {
	return rs.register
}

// Shots returns the number of independent executions measured.
func (rs *ResultSet) Shots() int {
	return len(rs.outcomes)
}

// BitOrder returns which bit-ordering convention the outcome strings follow.
func (rs *ResultSet) BitOrder() BitOrder {
	return rs.bitOrder
}

// Outcomes returns the per-shot outcome strings, as reported by the backend.
func (rs *ResultSet) Outcomes() []string {
	return append([]string(nil), rs.outcomes...)
}

// Counts returns how often each outcome occurred.
func (rs *ResultSet) Counts() map[string]int {
	return copyCounts(rs.counts)
}

// Frequencies returns each outcome's share of the total shots.
func (rs *ResultSet) Frequencies() map[string]float64 {
	freqs := make(map[string]float64, len(rs.counts))
	total := float64(len(rs.outcomes))
	for outcome, count := range rs.counts {
		freqs[outcome] = float64(count) / total
	}
	return freqs
}

// TopOutcome returns the most frequent outcome and its count, breaking ties
// by outcome string so the answer is deterministic.
func (rs *ResultSet) TopOutcome() (string, int) {
	outcomes := make([]string, 0, len(rs.counts))
	for outcome := range rs.counts {
		outcomes = append(outcomes, outcome)
	}
	sort.Strings(outcomes)

	best, bestCount := "", 0
	for _, outcome := range outcomes {
		if rs.counts[outcome] > bestCount {
			best, bestCount = outcome, rs.counts[outcome]
		}
	}
	return best, bestCount
}
