package reference

import (
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	hl7errors "github.com/jacoelho/hl7/errors"
)

// variesDatatype is the open-ended datatype marker used by version
// tables for extension-point fields.
const variesDatatype = "varies"

// Table is the grammar of a single version, loaded from a declarative
// YAML document. It is immutable after loading and safe for concurrent
// use.
type Table struct {
	version    string
	base       map[string]struct{}
	structures map[string]*Structure
}

type tableFile struct {
	Version       string                 `yaml:"version"`
	BaseDatatypes []string               `yaml:"base_datatypes"`
	Messages      map[string][]slotEntry `yaml:"messages"`
	Groups        map[string][]slotEntry `yaml:"groups"`
	Segments      map[string][]string    `yaml:"segments"`
	Datatypes     map[string][]string    `yaml:"datatypes"`
}

type slotEntry struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`
	Min  int    `yaml:"min"`
	Max  int    `yaml:"max"`
}

// Load reads and parses a version table document.
func Load(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("load reference table: %w", err)
	}
	return Parse(data)
}

// Parse parses a version table document.
func Parse(data []byte) (*Table, error) {
	var file tableFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse reference table: %w", err)
	}
	if file.Version == "" {
		return nil, fmt.Errorf("parse reference table: missing version")
	}

	t := &Table{
		version:    file.Version,
		base:       make(map[string]struct{}, len(file.BaseDatatypes)),
		structures: make(map[string]*Structure),
	}
	for _, dt := range file.BaseDatatypes {
		t.base[dt] = struct{}{}
	}

	for name, entries := range file.Messages {
		if err := t.addContainer(name, Message, entries); err != nil {
			return nil, err
		}
	}
	for name, entries := range file.Groups {
		if err := t.addContainer(name, Group, entries); err != nil {
			return nil, err
		}
	}
	for name, fields := range file.Segments {
		if err := t.addSegment(name, fields); err != nil {
			return nil, err
		}
	}
	for name, components := range file.Datatypes {
		if err := t.addDatatype(name, components); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Version returns the version this table describes.
func (t *Table) Version() string {
	return t.version
}

// Structure implements Provider for this table's version.
func (t *Table) Structure(name, version string) (*Structure, error) {
	if version != t.version {
		return nil, hl7errors.NewParsef(hl7errors.ErrUnsupportedVersion, name,
			"version %s is not supported", version)
	}
	st, ok := t.structures[name]
	if !ok {
		return nil, hl7errors.NewParsef(hl7errors.ErrInvalidName, name,
			"no reference structure for %s in version %s", name, version)
	}
	return st, nil
}

// IsBaseDatatype implements Provider for this table's version.
func (t *Table) IsBaseDatatype(datatype, version string) bool {
	if version != t.version {
		return false
	}
	_, ok := t.base[datatype]
	return ok
}

// SupportsVersion implements Provider.
func (t *Table) SupportsVersion(version string) bool {
	return version == t.version
}

func (t *Table) addContainer(name string, kind Kind, entries []slotEntry) error {
	slots := make([]Slot, 0, len(entries))
	for _, e := range entries {
		if e.Name == "" {
			return fmt.Errorf("reference table %s: %s %s: slot without name", t.version, kind, name)
		}
		slotKind := Segment
		switch e.Kind {
		case "", string(Segment):
		case string(Group):
			slotKind = Group
		default:
			return fmt.Errorf("reference table %s: %s %s: slot %s: unknown kind %q", t.version, kind, name, e.Name, e.Kind)
		}
		max := e.Max
		if max == 0 {
			max = 1
		}
		slots = append(slots, Slot{Name: e.Name, Kind: slotKind, Min: e.Min, Max: max})
	}
	return t.register(NewStructure(name, kind, slots))
}

func (t *Table) addSegment(name string, fields []string) error {
	varies := len(fields) > 0 && fields[len(fields)-1] == variesDatatype
	if err := t.register(&Structure{Name: name, Kind: Segment, Varies: varies}); err != nil {
		return err
	}
	for i, datatype := range fields {
		field := name + "_" + strconv.Itoa(i+1)
		if err := t.register(&Structure{Name: field, Kind: Field, Datatype: datatype}); err != nil {
			return err
		}
	}
	return nil
}

func (t *Table) addDatatype(name string, components []string) error {
	for i, datatype := range components {
		component := name + "_" + strconv.Itoa(i+1)
		if err := t.register(&Structure{Name: component, Kind: Component, Datatype: datatype}); err != nil {
			return err
		}
	}
	return nil
}

func (t *Table) register(st *Structure) error {
	if _, exists := t.structures[st.Name]; exists {
		return fmt.Errorf("reference table %s: duplicate structure %s", t.version, st.Name)
	}
	t.structures[st.Name] = st
	return nil
}

func slotIndex(slots []Slot) map[string]int {
	index := make(map[string]int, len(slots))
	for i, s := range slots {
		if _, exists := index[s.Name]; !exists {
			index[s.Name] = i
		}
	}
	return index
}

// Set is a Provider over one table per version.
type Set struct {
	tables map[string]*Table
}

// NewSet builds a provider from the given tables, one per version.
func NewSet(tables ...*Table) (*Set, error) {
	s := &Set{tables: make(map[string]*Table, len(tables))}
	for _, t := range tables {
		if t == nil {
			continue
		}
		if _, exists := s.tables[t.version]; exists {
			return nil, fmt.Errorf("reference set: duplicate version %s", t.version)
		}
		s.tables[t.version] = t
	}
	return s, nil
}

// Structure implements Provider.
func (s *Set) Structure(name, version string) (*Structure, error) {
	t, ok := s.tables[version]
	if !ok {
		return nil, hl7errors.NewParsef(hl7errors.ErrUnsupportedVersion, name,
			"version %s is not supported", version)
	}
	return t.Structure(name, version)
}

// IsBaseDatatype implements Provider.
func (s *Set) IsBaseDatatype(datatype, version string) bool {
	t, ok := s.tables[version]
	if !ok {
		return false
	}
	return t.IsBaseDatatype(datatype, version)
}

// SupportsVersion implements Provider.
func (s *Set) SupportsVersion(version string) bool {
	_, ok := s.tables[version]
	return ok
}
