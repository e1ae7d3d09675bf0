package hl7

import (
	"fmt"
	"strings"

	hl7errors "github.com/jacoelho/hl7/errors"
	"github.com/jacoelho/hl7/reference"
)

// DefaultVersion is the version assumed when the control segment does
// not declare one and no option overrides it.
const DefaultVersion = "2.5"

// Parser decodes ER7-encoded messages against a reference provider. A
// parser is immutable after construction and safe for concurrent use by
// multiple goroutines; all decoding state is local to one call.
type Parser struct {
	provider   reference.Provider
	version    string
	encoding   EncodingChars
	level      Level
	findGroups bool
}

// New builds a parser. Without options it resolves names against the
// embedded version tables, defaults to version 2.5 and the `|^~\&`
// separators, decodes quietly, and assigns segments to groups.
func New(opts ...Option) (*Parser, error) {
	cfg := applyOptions(opts)

	p := &Parser{
		provider:   cfg.provider,
		version:    DefaultVersion,
		encoding:   DefaultEncodingChars(),
		level:      Quiet,
		findGroups: !cfg.noGroups,
	}
	if cfg.version != "" {
		p.version = cfg.version
	}
	if cfg.encoding != nil {
		p.encoding = *cfg.encoding
	}
	if cfg.level != 0 {
		p.level = cfg.level
	}
	if p.provider == nil {
		provider, err := reference.Default()
		if err != nil {
			return nil, fmt.Errorf("new parser: %w", err)
		}
		p.provider = provider
	}

	if err := p.encoding.Validate(); err != nil {
		return nil, fmt.Errorf("new parser: %w", err)
	}
	if !p.provider.SupportsVersion(p.version) {
		return nil, hl7errors.NewParsef(hl7errors.ErrUnsupportedVersion, "",
			"version %s is not supported", p.version)
	}
	return p, nil
}

// ParseMessage decodes a full ER7-encoded message into its element
// tree. The separator set, structure id, and version are extracted from
// the control segment; segments are assigned to groups when the
// structure id resolves and grouping is enabled, and attach flat to the
// message otherwise.
func (p *Parser) ParseMessage(text string) (*Element, error) {
	text = strings.TrimLeft(text, " \t\r\n")

	info, err := extractMessageInfo(text)
	if err != nil {
		return nil, err
	}

	version := info.version
	if version == "" {
		version = p.version
	}
	if !p.provider.SupportsVersion(version) {
		return nil, hl7errors.NewParsef(hl7errors.ErrUnsupportedVersion, "",
			"version %s is not supported", version)
	}

	ctx := decodeContext{
		version:  version,
		encoding: info.encoding,
		level:    p.level,
		provider: p.provider,
	}

	msg := &Element{Kind: KindMessage, Version: version}
	var root *reference.Structure
	if info.structure != "" {
		// a structure id the tables do not know degrades to an
		// unstructured message rather than failing the decode
		if st, stErr := p.provider.Structure(info.structure, version); stErr == nil && st.Kind == reference.Message {
			msg.Name = info.structure
			root = st
		}
	}

	segments, err := parseSegments(ctx, text)
	if err != nil {
		return nil, err
	}

	if root != nil && p.findGroups {
		assignStructure(ctx, msg, root, segments)
		return msg, nil
	}
	for _, seg := range segments {
		msg.Append(seg)
	}
	return msg, nil
}

// ParseSegments decodes every segment of the text using the parser's
// default version and separators, without grouping.
func (p *Parser) ParseSegments(text string) ([]*Element, error) {
	return parseSegments(p.context(), text)
}

// ParseSegment decodes a single ER7-encoded segment.
func (p *Parser) ParseSegment(text string) (*Element, error) {
	return parseSegment(p.context(), strings.TrimSpace(text))
}

// ParseField decodes a single ER7-encoded field under the given
// positional name (e.g. NK1_2); an empty name decodes an unnamed field.
func (p *Parser) ParseField(text, name string) (*Element, error) {
	return parseField(p.context(), text, name, false)
}

// ParseComponent decodes a single ER7-encoded component under the given
// positional name (e.g. XPN_1) and declared datatype; an empty datatype
// defaults to ST.
func (p *Parser) ParseComponent(text, name, datatype string) (*Element, error) {
	if datatype == "" {
		datatype = "ST"
	}
	return parseComponent(p.context(), text, name, datatype)
}

func (p *Parser) context() decodeContext {
	return decodeContext{
		version:  p.version,
		encoding: p.encoding,
		level:    p.level,
		provider: p.provider,
	}
}
