package hl7

import (
	"strconv"
	"strings"

	hl7errors "github.com/jacoelho/hl7/errors"
	"github.com/jacoelho/hl7/reference"
)

// decodeContext carries the per-call state of one decode pass. It is
// never shared across calls.
type decodeContext struct {
	version  string
	encoding EncodingChars
	level    Level
	provider reference.Provider
}

// parseSegments decodes every segment of the text in input order.
func parseSegments(ctx decodeContext, text string) ([]*Element, error) {
	var segments []*Element
	for _, part := range strings.Split(text, string(SegmentSeparator)) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		seg, err := parseSegment(ctx, part)
		if err != nil {
			return nil, err
		}
		segments = append(segments, seg)
	}
	return segments, nil
}

// parseSegment decodes one segment. Unknown segment tags keep their raw
// tag but decode all fields unnamed, preserving positional alignment;
// under strict validation an unknown tag is an error.
func parseSegment(ctx decodeContext, text string) (*Element, error) {
	if len(text) < len(controlTag) {
		return nil, hl7errors.NewParsef(hl7errors.ErrInvalidMessage, "", "segment too short: %q", text)
	}
	name := text[:3]

	res, err := resolveSegment(ctx, name)
	if err != nil {
		if ctx.level.IsStrict() || !hl7errors.HasCode(err, hl7errors.ErrInvalidName) {
			return nil, err
		}
	}

	// The control segment's field separator doubles as its first field,
	// so its body starts right after the tag; every other segment's body
	// starts after the separator.
	var body string
	switch {
	case name == controlTag && len(text) > 3:
		body = text[3:]
	case name != controlTag && len(text) > 4:
		body = text[4:]
	}

	var prefix string
	if res.status == statusResolved {
		prefix = res.name
	}

	seg := &Element{Kind: KindSegment, Name: name, Version: ctx.version}
	fields, err := parseFields(ctx, body, prefix, res.varies)
	if err != nil {
		return nil, err
	}
	for _, f := range fields {
		seg.Append(f)
	}
	return seg, nil
}

// parseFields decodes the fields of one segment body. Empty slots are
// suppressed for known segments, preserved for unknown ones. The control
// segment's first field is synthesized as the field separator itself and
// its second field is never split further.
func parseFields(ctx decodeContext, text, prefix string, forceVaries bool) ([]*Element, error) {
	text = strings.Trim(text, string(SegmentSeparator))

	var fields []*Element
	for i, part := range strings.Split(text, string(ctx.encoding.Field)) {
		var name string
		if prefix != "" {
			name = prefix + "_" + strconv.Itoa(i+1)
		}
		switch {
		case strings.TrimSpace(part) != "" || name == "":
			if name == "MSH_2" {
				f, err := parseField(ctx, part, name, false)
				if err != nil {
					return nil, err
				}
				fields = append(fields, f)
				continue
			}
			for _, rep := range strings.Split(part, string(ctx.encoding.Repetition)) {
				f, err := parseField(ctx, rep, name, forceVaries)
				if err != nil {
					return nil, err
				}
				fields = append(fields, f)
			}
		case name == "MSH_1":
			f, err := parseField(ctx, string(ctx.encoding.Field), name, false)
			if err != nil {
				return nil, err
			}
			fields = append(fields, f)
		}
	}
	return fields, nil
}

// parseField decodes one field repetition. Unresolvable field names fall
// back to an unnamed, untyped field at this boundary regardless of
// policy.
func parseField(ctx decodeContext, text, name string, forceVaries bool) (*Element, error) {
	res, err := resolveField(ctx, name, forceVaries)
	if err != nil {
		if !hl7errors.HasCode(err, hl7errors.ErrInvalidName) {
			return nil, err
		}
		res = resolution{status: statusFallback}
	}

	field := &Element{Kind: KindField, Version: ctx.version}
	if res.status == statusResolved {
		field.Name = res.name
		field.Datatype = res.datatype
	}

	// MSH-1 holds the field separator and MSH-2 the encoding characters:
	// both are stored as a single unsplit leaf since their content is
	// made of separator characters.
	if name == "MSH_1" || name == "MSH_2" {
		sub := &Element{Kind: KindSubComponent, Datatype: "ST", Version: ctx.version, Value: text}
		comp := &Element{Kind: KindComponent, Datatype: "ST", Version: ctx.version}
		comp.Append(sub)
		field.Append(comp)
		return field, nil
	}

	children, err := parseComponents(ctx, text, field.Datatype)
	if err != nil {
		return nil, err
	}
	if ctx.level.IsQuiet() && len(children) > 1 &&
		ctx.provider.IsBaseDatatype(field.Datatype, ctx.version) {
		// the message contradicts its declared primitive type; keep the
		// decoded shape and drop the type instead of failing
		field.Datatype = ""
	}
	for _, c := range children {
		field.Append(c)
	}
	return field, nil
}

// parseComponents decodes the components of one field.
func parseComponents(ctx decodeContext, text, fieldDatatype string) ([]*Element, error) {
	var components []*Element
	for i, part := range strings.Split(text, string(ctx.encoding.Component)) {
		var name, datatype string
		switch {
		case ctx.provider.IsBaseDatatype(fieldDatatype, ctx.version):
			datatype = fieldDatatype
		case fieldDatatype == "" || fieldDatatype == variesDatatype:
			name = variesPrefix + strconv.Itoa(i+1)
		default:
			name = fieldDatatype + "_" + strconv.Itoa(i+1)
		}
		if strings.TrimSpace(part) == "" && name != "" && !strings.HasPrefix(name, variesPrefix) {
			continue
		}
		c, err := parseComponent(ctx, part, name, datatype)
		if err != nil {
			return nil, err
		}
		components = append(components, c)
	}
	return components, nil
}

// parseComponent decodes one component. Unresolvable component names are
// an error under strict validation, a fallback to an unnamed component
// otherwise.
func parseComponent(ctx decodeContext, text, name, datatype string) (*Element, error) {
	res, err := resolveComponent(ctx, name, datatype)
	if err != nil {
		if ctx.level.IsStrict() || !hl7errors.HasCode(err, hl7errors.ErrInvalidName) {
			return nil, err
		}
		res = resolution{status: statusFallback, datatype: datatype}
	}

	component := &Element{Kind: KindComponent, Version: ctx.version, Datatype: res.datatype}
	if res.status == statusResolved {
		component.Name = res.name
	}

	children, err := parseSubComponents(ctx, text, component.Datatype)
	if err != nil {
		return nil, err
	}
	if ctx.level.IsQuiet() && len(children) > 1 &&
		ctx.provider.IsBaseDatatype(component.Datatype, ctx.version) {
		component.Datatype = ""
	}
	for _, s := range children {
		component.Append(s)
	}
	return component, nil
}

// parseSubComponents decodes the sub-components of one component.
func parseSubComponents(ctx decodeContext, text, componentDatatype string) ([]*Element, error) {
	var subs []*Element
	for i, part := range strings.Split(text, string(ctx.encoding.SubComponent)) {
		var name, datatype string
		if componentDatatype == "" || componentDatatype == variesDatatype ||
			ctx.provider.IsBaseDatatype(componentDatatype, ctx.version) {
			datatype = componentDatatype
			if datatype == "" || datatype == variesDatatype {
				datatype = "ST"
			}
		} else {
			name = componentDatatype + "_" + strconv.Itoa(i+1)
		}
		if strings.TrimSpace(part) == "" && name != "" {
			continue
		}
		s, err := parseSubComponent(ctx, part, name, datatype)
		if err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	return subs, nil
}

// parseSubComponent decodes the terminal leaf value.
func parseSubComponent(ctx decodeContext, text, name, datatype string) (*Element, error) {
	res, err := resolveComponent(ctx, name, datatype)
	if err != nil {
		if ctx.level.IsStrict() || !hl7errors.HasCode(err, hl7errors.ErrInvalidName) {
			return nil, err
		}
		res = resolution{status: statusFallback, datatype: "ST"}
	}

	sub := &Element{Kind: KindSubComponent, Version: ctx.version, Datatype: res.datatype, Value: text}
	if res.status == statusResolved {
		sub.Name = res.name
	}
	return sub, nil
}
