// Package operations is the registry of reversible byte transforms used to
// store backup images. Compressors register themselves from the compress
// subpackage.
package operations

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Operation names as recorded in the backup index
const (
	OpNone  = "none"
	OpGzip  = "gzip"
	OpBzip2 = "bzip2"
	OpZstd  = "zstd"
)

// Operation is a single reversible transformation.
type Operation interface {
	// Name is the identifier stored in backup entries
	Name() string

	// Extension is appended to backup file names, e.g. ".gz"
	Extension() string

	// Apply transforms input (e.g. compresses it)
	Apply(input []byte) ([]byte, error)

	// Reverse undoes Apply
	Reverse(input []byte) ([]byte, error)
}

// BaseOperation carries the name and extension shared by implementations.
type BaseOperation struct {
	OpName string
	OpExt  string
}

func (o *BaseOperation) Name() string      { return o.OpName }
func (o *BaseOperation) Extension() string { return o.OpExt }

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Operation)
)

// Register makes an operation available by name. Registering a name twice
// replaces the earlier operation.
func Register(op Operation) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[op.Name()] = op
}

// Get retrieves an operation by name.
func Get(name string) (Operation, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	op, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown operation: %q", name)
	}
	return op, nil
}

// Names lists the registered operations in sorted order.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// identity stores data unchanged.
type identity struct {
	BaseOperation
}

func (identity) Apply(input []byte) ([]byte, error) {
	return append([]byte(nil), input...), nil
}

func (identity) Reverse(input []byte) ([]byte, error) {
	return append([]byte(nil), input...), nil
}

func init() {
	Register(&identity{BaseOperation{OpName: OpNone}})
}
