package operation

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/mesh-intelligence/abacus/pkg/types"
)

var errResultOutOfRange = errors.New("result is not a finite number")

// Constructor builds a fresh Operation instance.
type Constructor func() Operation

// Built-in operation names accepted by Create. Lookup is case-insensitive.
const (
	NameAdd                = "add"
	NameSubtract           = "subtract"
	NameMultiply           = "multiply"
	NameDivide             = "divide"
	NamePower              = "power"
	NameRoot               = "root"
	NameModulus            = "modulus"
	NameIntegerDivide      = "integerdivide"
	NamePercentage         = "percentage"
	NameAbsoluteDifference = "absolutedifference"
)

// builtins seeds every new Registry. The last two entries are aliases kept
// for the names the interactive shell has always accepted.
var builtins = []struct {
	name string
	ctor Constructor
}{
	{NameAdd, func() Operation { return Add{} }},
	{NameSubtract, func() Operation { return Subtract{} }},
	{NameMultiply, func() Operation { return Multiply{} }},
	{NameDivide, func() Operation { return Divide{} }},
	{NamePower, func() Operation { return Power{} }},
	{NameRoot, func() Operation { return Root{} }},
	{NameModulus, func() Operation { return Modulus{} }},
	{NameIntegerDivide, func() Operation { return IntegerDivide{} }},
	{NamePercentage, func() Operation { return Percentage{} }},
	{NameAbsoluteDifference, func() Operation { return AbsoluteDifference{} }},
	{"integerdivision", func() Operation { return IntegerDivide{} }},
	{"absolute", func() Operation { return AbsoluteDifference{} }},
}

// BuiltinNames lists the canonical built-in names in catalog order.
func BuiltinNames() []string {
	return []string{
		NameAdd, NameSubtract, NameMultiply, NameDivide, NamePower,
		NameRoot, NameModulus, NameIntegerDivide, NamePercentage,
		NameAbsoluteDifference,
	}
}

// Registry maps lower-cased operation names to constructors.
type Registry struct {
	mu    sync.RWMutex
	ctors map[string]Constructor
}

// NewRegistry returns a Registry seeded with the built-in operations.
func NewRegistry() *Registry {
	r := &Registry{ctors: make(map[string]Constructor, len(builtins))}
	for _, b := range builtins {
		r.ctors[b.name] = b.ctor
	}
	return r
}

// Register inserts or replaces the constructor stored under name. It fails
// with ErrInvalidConstructor when ctor is nil or builds a nil Operation.
func (r *Registry) Register(name string, ctor Constructor) error {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return fmt.Errorf("register operation: %w: empty name", types.ErrInvalidConstructor)
	}
	if ctor == nil || ctor() == nil {
		return fmt.Errorf("register operation %q: %w", name, types.ErrInvalidConstructor)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctors[key] = ctor
	return nil
}

// Create returns a new instance of the named operation. Names match
// case-insensitively against registered keys first and then against the
// Name() of each registered operation, so names read back from stored
// history resolve as well. Unknown names yield an *OperationError wrapping
// ErrUnknownOperation.
func (r *Registry) Create(name string) (Operation, error) {
	key := strings.ToLower(strings.TrimSpace(name))

	r.mu.RLock()
	defer r.mu.RUnlock()

	if ctor, ok := r.ctors[key]; ok {
		return ctor(), nil
	}
	for _, k := range r.namesLocked() {
		if op := r.ctors[k](); op != nil && strings.EqualFold(op.Name(), key) {
			return op, nil
		}
	}
	return nil, &types.OperationError{
		Msg: fmt.Sprintf("Unknown operation type: %s", name),
		Err: types.ErrUnknownOperation,
	}
}

// Names returns the registered keys in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namesLocked()
}

func (r *Registry) namesLocked() []string {
	names := make([]string, 0, len(r.ctors))
	for k := range r.ctors {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}

// defaultRegistry is the process-wide registry used by the package-level
// helpers.
var defaultRegistry = NewRegistry()

// Default returns the process-wide registry.
func Default() *Registry { return defaultRegistry }

// Create resolves name against the process-wide registry.
func Create(name string) (Operation, error) { return defaultRegistry.Create(name) }

// Register adds ctor to the process-wide registry under name.
func Register(name string, ctor Constructor) error { return defaultRegistry.Register(name, ctor) }
