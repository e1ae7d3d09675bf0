package hl7

// Kind identifies the level an Element occupies in the decoded tree.
type Kind uint8

const (
	// KindMessage is the root of a decoded message.
	KindMessage Kind = iota
	// KindGroup is a schema-defined, possibly repeatable container of
	// segments and nested groups.
	KindGroup
	// KindSegment is one carriage-return-delimited unit of the message.
	KindSegment
	// KindField is a field-separator-delimited unit of a segment.
	KindField
	// KindComponent is a component-separator-delimited unit of a field.
	KindComponent
	// KindSubComponent is the leaf level; it carries the decoded value.
	KindSubComponent
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindMessage:
		return "message"
	case KindGroup:
		return "group"
	case KindSegment:
		return "segment"
	case KindField:
		return "field"
	case KindComponent:
		return "component"
	case KindSubComponent:
		return "subcomponent"
	default:
		return "unknown"
	}
}

// Element is one node of a decoded message tree. Name and Datatype are
// empty when the element could not be resolved against the reference
// tables. Value is set on sub-components only.
//
// An element is attached to at most one parent at a time; Append
// transfers ownership, detaching the child from any previous parent.
type Element struct {
	Kind     Kind
	Name     string
	Datatype string
	Version  string
	Value    string

	children []*Element
	parent   *Element
}

// Children returns the ordered child list. The returned slice is owned
// by the element and must not be mutated by callers.
func (e *Element) Children() []*Element {
	if e == nil {
		return nil
	}
	return e.children
}

// Parent returns the element this node is currently attached to, or nil.
func (e *Element) Parent() *Element {
	if e == nil {
		return nil
	}
	return e.parent
}

// Append attaches child as the last child of e. If child is already
// attached elsewhere it is detached first, so a node never has two
// parents.
func (e *Element) Append(child *Element) {
	if e == nil || child == nil {
		return
	}
	if child.parent != nil {
		child.parent.remove(child)
	}
	child.parent = e
	e.children = append(e.children, child)
}

func (e *Element) remove(child *Element) {
	for i, c := range e.children {
		if c == child {
			e.children = append(e.children[:i], e.children[i+1:]...)
			child.parent = nil
			return
		}
	}
}
