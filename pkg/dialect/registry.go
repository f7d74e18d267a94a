package dialect

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Dialect registry
var (
	dialectsMu sync.RWMutex
	dialects   = make(map[string]*Dialect)
)

// ErrDialectRequired is returned when a dialect is required but not provided.
var ErrDialectRequired = errors.New("dialect is required")

// ErrUnknownDialect is returned by Lookup for names that are not registered.
var ErrUnknownDialect = errors.New("unsupported SQL dialect")

// Get returns a dialect by name. Lookup ignores case and surrounding space.
func Get(name string) (*Dialect, bool) {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	d, ok := dialects[strings.ToLower(strings.TrimSpace(name))]
	return d, ok
}

// Lookup is Get with an error suitable for returning to callers.
func Lookup(name string) (*Dialect, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrDialectRequired
	}
	d, ok := Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDialect, name)
	}
	return d, nil
}

// Register registers a dialect in the global registry.
// Registering a name twice replaces the earlier dialect.
func Register(d *Dialect) {
	dialectsMu.Lock()
	defer dialectsMu.Unlock()
	dialects[strings.ToLower(d.Name)] = d
}

// List returns all registered dialect names (sorted).
func List() []string {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	names := make([]string, 0, len(dialects))
	for name := range dialects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns all registered dialects sorted by name.
func All() []*Dialect {
	names := List()
	out := make([]*Dialect, 0, len(names))
	for _, name := range names {
		if d, ok := Get(name); ok {
			out = append(out, d)
		}
	}
	return out
}

// IsMySQLStyle reports whether name resolves to a dialect using MySQL
// diagnostics. Unknown names fall back to PostgreSQL style.
func IsMySQLStyle(name string) bool {
	d, ok := Get(name)
	return ok && d.IsMySQLStyle()
}
