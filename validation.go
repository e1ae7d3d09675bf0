package hl7

// Level controls how the decoder reacts to reference mismatches.
type Level uint8

const (
	// Strict aborts decoding at the first element name the reference
	// tables cannot resolve.
	Strict Level = iota + 1
	// Tolerant recovers from every reference mismatch without touching
	// declared datatypes.
	Tolerant
	// Quiet recovers like Tolerant and additionally clears a declared
	// primitive datatype when the decoded children contradict it, so
	// schema-violating real-world messages still round-trip.
	Quiet
)

// IsStrict reports whether the level aborts on unresolvable names.
func (l Level) IsStrict() bool {
	return l == Strict
}

// IsQuiet reports whether the level applies the datatype fallback.
func (l Level) IsQuiet() bool {
	return l == Quiet
}

// String returns the lowercase level name.
func (l Level) String() string {
	switch l {
	case Strict:
		return "strict"
	case Tolerant:
		return "tolerant"
	case Quiet:
		return "quiet"
	default:
		return "unknown"
	}
}
