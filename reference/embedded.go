package reference

import (
	"embed"
	"fmt"
	"io/fs"
	"sync"
)

//go:embed tables/*.yaml
var tablesFS embed.FS

// Embedded loads the version tables shipped with the module.
func Embedded() (*Set, error) {
	entries, err := fs.Glob(tablesFS, "tables/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("embedded reference tables: %w", err)
	}

	tables := make([]*Table, 0, len(entries))
	for _, name := range entries {
		data, err := tablesFS.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("embedded reference table %s: %w", name, err)
		}
		t, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("embedded reference table %s: %w", name, err)
		}
		tables = append(tables, t)
	}
	return NewSet(tables...)
}

var defaultSet = sync.OnceValues(Embedded)

// Default returns the provider over the embedded version tables. The
// tables are loaded once; the returned set is safe for concurrent use.
func Default() (*Set, error) {
	return defaultSet()
}
