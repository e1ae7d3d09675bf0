// Package errors defines the error codes and error types surfaced by the
// hl7 decoder.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode identifies a class of decode failure.
type ErrorCode string

const (
	// ErrInvalidMessage indicates the text does not start with a valid
	// control segment tag followed by a field separator.
	ErrInvalidMessage ErrorCode = "hl7-invalid-message"
	// ErrInvalidEncodingChars indicates the control segment declares a
	// duplicate, missing, or excess set of encoding characters.
	ErrInvalidEncodingChars ErrorCode = "hl7-invalid-encoding-chars"
	// ErrInvalidName indicates an element name has no reference structure
	// for the active version.
	ErrInvalidName ErrorCode = "hl7-invalid-name"
	// ErrUnsupportedVersion indicates the message version has no loaded
	// reference table.
	ErrUnsupportedVersion ErrorCode = "hl7-unsupported-version"
)

// Parse describes a decode failure with its error code and the element
// name the failure was detected at, when one is known.
type Parse struct {
	Code    ErrorCode
	Message string
	Element string
}

// Error formats the parse error for display, including code and element context.
func (e *Parse) Error() string {
	if e == nil {
		return "parse <nil>"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))
	if e.Element != "" {
		b.WriteString(fmt.Sprintf(" at %s", e.Element))
	}
	return b.String()
}

// NewParse builds a Parse error with a code, message, and optional element name.
func NewParse(code ErrorCode, msg, element string) *Parse {
	return &Parse{Code: code, Message: msg, Element: element}
}

// NewParsef formats a message and builds a Parse error.
func NewParsef(code ErrorCode, element, format string, args ...any) *Parse {
	return NewParse(code, fmt.Sprintf(format, args...), element)
}

// AsParse extracts a Parse error from an error returned by the decoder.
func AsParse(err error) (*Parse, bool) {
	if err == nil {
		return nil, false
	}
	var p *Parse
	if errors.As(err, &p) && p != nil {
		return p, true
	}
	return nil, false
}

// HasCode reports whether err carries the given error code.
func HasCode(err error, code ErrorCode) bool {
	p, ok := AsParse(err)
	return ok && p.Code == code
}
