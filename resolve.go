package hl7

import (
	"strings"

	hl7errors "github.com/jacoelho/hl7/errors"
)

// variesDatatype marks an element whose type is determined dynamically.
const variesDatatype = "varies"

// variesPrefix names the positional components of an untyped field.
const variesPrefix = "VARIES_"

type resolutionStatus uint8

const (
	// statusResolved means the reference tables know the element: the
	// resolution carries its name and declared datatype.
	statusResolved resolutionStatus = iota
	// statusFallback means the element stays unnamed and keeps only the
	// datatype the caller already had, if any.
	statusFallback
)

// resolution is the outcome of one name lookup. Consumers switch on
// status exhaustively instead of branching on errors.
type resolution struct {
	status   resolutionStatus
	name     string
	datatype string
	varies   bool
}

// resolveSegment resolves a segment tag. The varies flag reports that
// the segment's trailing declared field is the open-ended varies kind.
func resolveSegment(ctx decodeContext, name string) (resolution, error) {
	st, err := ctx.provider.Structure(name, ctx.version)
	if err != nil {
		return resolution{status: statusFallback}, err
	}
	return resolution{status: statusResolved, name: name, varies: st.Varies}, nil
}

// resolveField resolves a positional field name such as NK1_2. A field
// past the declared segment length resolves to a forced varies leaf when
// the segment's trailing field absorbs arbitrary repetitions.
func resolveField(ctx decodeContext, name string, forceVaries bool) (resolution, error) {
	if name == "" {
		return resolution{status: statusFallback}, nil
	}
	st, err := ctx.provider.Structure(name, ctx.version)
	if err != nil {
		if forceVaries && hl7errors.HasCode(err, hl7errors.ErrInvalidName) {
			return resolution{status: statusResolved, name: name, datatype: variesDatatype}, nil
		}
		return resolution{status: statusFallback}, err
	}
	return resolution{status: statusResolved, name: name, datatype: st.Datatype}, nil
}

// resolveComponent resolves a positional component or sub-component name
// such as XPN_1. VARIES names never reach the provider: they resolve
// directly to an untyped element.
func resolveComponent(ctx decodeContext, name, datatype string) (resolution, error) {
	if name == "" {
		return resolution{status: statusFallback, datatype: datatype}, nil
	}
	if strings.HasPrefix(name, variesPrefix) {
		return resolution{status: statusResolved, name: name}, nil
	}
	st, err := ctx.provider.Structure(name, ctx.version)
	if err != nil {
		return resolution{status: statusFallback, datatype: datatype}, err
	}
	return resolution{status: statusResolved, name: name, datatype: st.Datatype}, nil
}
