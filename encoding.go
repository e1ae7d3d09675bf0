package hl7

import (
	"strings"
	"unicode"

	hl7errors "github.com/jacoelho/hl7/errors"
)

// SegmentSeparator delimits segments on the wire. Groups share the same
// separator; grouping is reconstructed from the reference structure, not
// from the text.
const SegmentSeparator = '\r'

// controlTag is the three-letter tag of the control segment carrying the
// encoding characters and message metadata.
const controlTag = "MSH"

// encodingCharCount is the number of characters expected in the second
// field of the control segment.
const encodingCharCount = 4

// EncodingChars is the separator set of one message: the field separator
// read immediately after the control tag, and the four characters of the
// control segment's second field in their fixed order.
type EncodingChars struct {
	Field        byte
	Component    byte
	Repetition   byte
	Escape       byte
	SubComponent byte
}

// DefaultEncodingChars returns the customary separator set `|^~\&`.
func DefaultEncodingChars() EncodingChars {
	return EncodingChars{
		Field:        '|',
		Component:    '^',
		Repetition:   '~',
		Escape:       '\\',
		SubComponent: '&',
	}
}

// Validate checks that the five separators are pairwise distinct.
func (ec EncodingChars) Validate() error {
	chars := [...]byte{ec.Field, ec.Component, ec.Repetition, ec.Escape, ec.SubComponent}
	seen := make(map[byte]struct{}, len(chars))
	for _, c := range chars {
		if _, dup := seen[c]; dup {
			return hl7errors.NewParse(hl7errors.ErrInvalidEncodingChars,
				"found duplicate encoding chars", "")
		}
		seen[c] = struct{}{}
	}
	return nil
}

// messageInfo is the metadata extracted from the control segment.
// Structure and version are best-effort: empty when the control segment
// lacks the corresponding field.
type messageInfo struct {
	encoding  EncodingChars
	structure string
	version   string
}

// extractMessageInfo locates the control segment at offset 0, reads the
// separator set, and extracts the message structure id (field 9) and
// version (field 12).
func extractMessageInfo(text string) (messageInfo, error) {
	if len(text) < len(controlTag)+1 ||
		!strings.HasPrefix(text, controlTag) ||
		unicode.IsSpace(rune(text[len(controlTag)])) {
		return messageInfo{}, hl7errors.NewParse(hl7errors.ErrInvalidMessage, "invalid message", "")
	}
	fieldSep := text[len(controlTag)]

	control := text
	if i := strings.IndexByte(text, SegmentSeparator); i >= 0 {
		control = text[:i]
	}
	fields := strings.Split(control, string(fieldSep))

	seps := fields[1]
	if hasDuplicateChars(seps) {
		return messageInfo{}, hl7errors.NewParse(hl7errors.ErrInvalidEncodingChars,
			"found duplicate encoding chars", "")
	}
	switch {
	case len(seps) < encodingCharCount:
		return messageInfo{}, hl7errors.NewParse(hl7errors.ErrInvalidEncodingChars,
			"missing required encoding chars", "")
	case len(seps) > encodingCharCount:
		return messageInfo{}, hl7errors.NewParsef(hl7errors.ErrInvalidEncodingChars, "",
			"found %d encoding chars", len(seps))
	}

	info := messageInfo{
		encoding: EncodingChars{
			Field:        fieldSep,
			Component:    seps[0],
			Repetition:   seps[1],
			Escape:       seps[2],
			SubComponent: seps[3],
		},
	}
	if err := info.encoding.Validate(); err != nil {
		return messageInfo{}, err
	}

	// MSH-9 (e.g. ADT^A01^ADT_A01) carries the message structure id:
	// prefer the third component, else join the first two.
	if len(fields) > 8 {
		parts := strings.Split(strings.TrimSpace(fields[8]), string(info.encoding.Component))
		switch {
		case len(parts) > 2:
			info.structure = parts[2]
		case len(parts) == 2:
			info.structure = parts[0] + "_" + parts[1]
		}
	}

	// MSH-12 carries the version in its first component.
	if len(fields) > 11 {
		parts := strings.Split(strings.TrimSpace(fields[11]), string(info.encoding.Component))
		info.version = parts[0]
	}

	return info, nil
}

func hasDuplicateChars(s string) bool {
	seen := make(map[byte]struct{}, len(s))
	for i := 0; i < len(s); i++ {
		if _, dup := seen[s[i]]; dup {
			return true
		}
		seen[s[i]] = struct{}{}
	}
	return false
}
