package quantum

import "context"

// BitOrder tells a caller which bit-ordering convention applies to the
// outcome strings a backend reports.
type BitOrder int

const (
	// BitOrderLittleEndian: qubit 0 is the leftmost character of an outcome.
	BitOrderLittleEndian BitOrder = iota
	// BitOrderAsReported: outcomes are passed through in whatever convention
	// the backend used; the caller must know the vendor.
	BitOrderAsReported
)

func (b BitOrder) String() string {
	switch b {
	case BitOrderLittleEndian:
		return "little-endian"
	case BitOrderAsReported:
		return "as-reported"
	default:
		return "unknown"
	}
}

/*
Backend is the abstract execution target for search programs. Concrete
transport, authentication and vendor wire formats live entirely behind this
interface; the simulator in this package and any remote service adapter are
interchangeable to the Client.

Submit enqueues work and returns the backend's job identifier immediately.
Status and Result must stay answerable for a job identifier until the backend
expires it, so callers can re-poll after their own deadlines lapse.
*/
type Backend interface {
	Name() string
	BitOrder() BitOrder
	Submit(ctx context.Context, p Program, shots int) (string, error)
	Status(ctx context.Context, jobID string) (JobStatus, error)
	Result(ctx context.Context, jobID string) (RawResult, error)
}

// ResultKind tags which shape a backend's result payload takes.
type ResultKind int

const (
	// ResultTyped: the backend returned a typed measurement-outcome object,
	// carried here as a register name, per-shot outcomes and counts.
	ResultTyped ResultKind = iota
	// ResultRawMapping: the backend returned a raw mapping of register name
	// to per-shot outcome strings.
	ResultRawMapping
)

// RawResult is a backend's result payload before normalization. Exactly one
// variant is populated, selected by Kind.
type RawResult struct {
	Kind ResultKind

	// ResultTyped fields.
	Register string
	Outcomes []string
	Counts   map[string]int

	// ResultRawMapping field.
	Mapping map[string][]string
}
