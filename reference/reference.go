// Package reference supplies the per-version structural grammars the
// decoder resolves element names against: message and group structures
// with ordered, cardinality-bounded slots, segment field types, and
// composite datatype component types.
package reference

// Kind classifies a reference structure or slot.
type Kind string

const (
	// Message is a top-level message structure (e.g. ADT_A01).
	Message Kind = "message"
	// Group is a named, possibly repeatable container of segments and
	// nested groups.
	Group Kind = "group"
	// Segment is a three-letter segment structure (e.g. PID).
	Segment Kind = "segment"
	// Field is a positional field of a segment (e.g. PID_5).
	Field Kind = "field"
	// Component is a positional component of a composite datatype
	// (e.g. XPN_1).
	Component Kind = "component"
)

// Unbounded marks a slot with no upper cardinality limit.
const Unbounded = -1

// Slot is one entry in a structure's ordered child list.
type Slot struct {
	Name string
	Kind Kind
	Min  int
	// Max is 1 for non-repeatable slots, Unbounded for unlimited
	// repetitions.
	Max int
}

// Repeatable reports whether the slot admits more than one instance.
func (s Slot) Repeatable() bool {
	return s.Max == Unbounded || s.Max > 1
}

// Structure describes one named element of a version grammar.
// For messages and groups, Slots holds the ordered children. For fields
// and components, Datatype holds the declared type. For segments,
// Varies reports whether the trailing field absorbs arbitrary
// additional repetitions.
type Structure struct {
	Name     string
	Kind     Kind
	Datatype string
	Varies   bool
	Slots    []Slot

	index map[string]int
}

// NewStructure builds a container structure with the given ordered
// slots, indexing them by name. Duplicate slot names keep the first
// declared position.
func NewStructure(name string, kind Kind, slots []Slot) *Structure {
	return &Structure{Name: name, Kind: kind, Slots: slots, index: slotIndex(slots)}
}

// Slot returns the named slot and its declared position, if present.
func (s *Structure) Slot(name string) (Slot, int, bool) {
	if s == nil {
		return Slot{}, -1, false
	}
	i, ok := s.index[name]
	if !ok {
		return Slot{}, -1, false
	}
	return s.Slots[i], i, true
}

// Provider resolves element names against a version grammar. It must be
// safe for concurrent use; the decoder only reads from it.
type Provider interface {
	// Structure returns the reference structure for the named element,
	// or an error carrying errors.ErrInvalidName when the name is not
	// part of the version grammar, or errors.ErrUnsupportedVersion when
	// the version has no table.
	Structure(name, version string) (*Structure, error)

	// IsBaseDatatype reports whether the datatype is a primitive (leaf)
	// type of the given version.
	IsBaseDatatype(datatype, version string) bool

	// SupportsVersion reports whether a grammar table is loaded for the
	// version.
	SupportsVersion(version string) bool
}
