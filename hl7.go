// Package hl7 decodes ER7-encoded HL7 v2 messages into a typed element
// tree. The separator set is extracted from the message's control
// segment, element names and datatypes are resolved against per-version
// reference tables, and the flat segment sequence is assigned to the
// nested group structure the message's grammar mandates.
//
// Decoding degrades gracefully by default: names the reference tables
// cannot resolve yield unnamed, untyped elements instead of errors. Only
// a malformed control segment or an invalid separator set fails a
// decode unconditionally.
package hl7

// ParseMessage decodes a full ER7-encoded message with a parser built
// from the given options.
func ParseMessage(text string, opts ...Option) (*Element, error) {
	p, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return p.ParseMessage(text)
}

// ParseSegment decodes a single ER7-encoded segment with a parser built
// from the given options.
func ParseSegment(text string, opts ...Option) (*Element, error) {
	p, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return p.ParseSegment(text)
}
