// Package history owns the calculation history, its undo and redo stacks,
// and the observers notified on every new calculation.
package history

import (
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/abacus/internal/calculation"
	"github.com/mesh-intelligence/abacus/internal/input"
	"github.com/mesh-intelligence/abacus/internal/operation"
	"github.com/mesh-intelligence/abacus/pkg/types"
)

// Store persists history in record form.
type Store interface {
	Save(records []calculation.Record) error
	Load() ([]calculation.Record, error)
}

// Manager holds the live history and the undo and redo snapshot stacks.
// A single mutex guards all three and the observer Hub has its own lock.
// Observers run outside both, so an observer may call back into the Manager.
type Manager struct {
	cfg      types.Config
	registry *operation.Registry
	store    Store
	logger   *zap.Logger
	hub      Hub

	mu    sync.Mutex
	calcs []*calculation.Calculation
	undo  []Snapshot
	redo  []Snapshot
}

// Option configures a Manager.
type Option func(*Manager)

// WithRegistry makes the Manager resolve operation names in reg instead of
// the process-wide registry.
func WithRegistry(reg *operation.Registry) Option {
	return func(m *Manager) { m.registry = reg }
}

// WithStore sets the backend used by SaveHistory and LoadHistory.
func WithStore(s Store) Option {
	return func(m *Manager) { m.store = s }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewManager validates cfg and returns an empty Manager.
func NewManager(cfg types.Config, opts ...Option) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	m := &Manager{
		cfg:      cfg,
		registry: operation.Default(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Config returns the configuration the Manager was built with.
func (m *Manager) Config() types.Config { return m.cfg }

// AddObserver registers o for notification after each calculation. Use a
// pointer or another comparable value if o will later be removed.
func (m *Manager) AddObserver(o Observer) {
	m.hub.Add(o)
	m.logger.Info("Added observer", zap.String("observer", fmt.Sprintf("%T", o)))
}

// RemoveObserver unregisters o. It fails with ErrObserverNotFound when o was
// never added.
func (m *Manager) RemoveObserver(o Observer) error {
	if err := m.hub.Remove(o); err != nil {
		return err
	}
	m.logger.Info("Removed observer", zap.String("observer", fmt.Sprintf("%T", o)))
	return nil
}

// PerformOperation resolves name in the registry and performs it on rawA
// and rawB. See Perform.
func (m *Manager) PerformOperation(name string, rawA, rawB any) (decimal.Decimal, error) {
	if strings.TrimSpace(name) == "" {
		return decimal.Zero, noOperation()
	}
	op, err := m.registry.Create(name)
	if err != nil {
		m.logger.Error("Operation failed", zap.Error(err))
		return decimal.Zero, err
	}
	return m.Perform(op, rawA, rawB)
}

// Perform validates both operands, executes op, and appends the resulting
// calculation to the history. Validation errors are returned unchanged;
// every other failure is returned as an *OperationError. A failed call
// leaves the history and both stacks untouched.
//
// When the calculation is recorded but an observer fails, Perform returns
// the result together with an *OperationError wrapping a *NotifyError.
func (m *Manager) Perform(op operation.Operation, rawA, rawB any) (decimal.Decimal, error) {
	if op == nil {
		return decimal.Zero, noOperation()
	}

	calc, err := m.calculate(op, rawA, rawB)
	if err != nil {
		if types.IsValidation(err) {
			m.logger.Warn("Validation error", zap.String("operation", op.Name()), zap.Error(err))
			return decimal.Zero, err
		}
		m.logger.Error("Operation failed", zap.String("operation", op.Name()), zap.Error(err))
		return decimal.Zero, types.NewOperationError("Operation failed", err)
	}

	m.mu.Lock()
	m.undo = append(m.undo, newSnapshot(m.calcs))
	m.redo = nil
	m.calcs = append(m.calcs, calc)
	if len(m.calcs) > m.cfg.MaxHistorySize {
		m.calcs = m.calcs[1:]
	}
	m.mu.Unlock()

	if err := m.hub.Notify(calc); err != nil {
		m.logger.Error("Observer notification failed", zap.Error(err))
		return calc.Result, types.NewOperationError("Observer notification failed", &NotifyError{Err: err})
	}
	return calc.Result, nil
}

// calculate runs the validator and the operation, turning a panic in a
// registered operation into an error.
func (m *Manager) calculate(op operation.Operation, rawA, rawB any) (calc *calculation.Calculation, err error) {
	defer func() {
		if r := recover(); r != nil {
			calc, err = nil, fmt.Errorf("%s panicked: %v", op.Name(), r)
		}
	}()

	a, err := input.ValidateNumber(rawA, m.cfg)
	if err != nil {
		return nil, err
	}
	b, err := input.ValidateNumber(rawB, m.cfg)
	if err != nil {
		return nil, err
	}
	return calculation.FromOperation(op, a, b)
}

func noOperation() error {
	return &types.OperationError{
		Msg: "No operation set. Please set an operation before performing calculations.",
		Err: types.ErrNoOperation,
	}
}

// Undo restores the history captured before the most recent mutation. It
// returns false when there is nothing to undo.
func (m *Manager) Undo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.undo) == 0 {
		return false
	}
	snap := m.undo[len(m.undo)-1]
	m.undo = m.undo[:len(m.undo)-1]
	m.redo = append(m.redo, newSnapshot(m.calcs))
	m.calcs = snap.History()
	return true
}

// Redo re-applies the most recently undone state. It returns false when
// there is nothing to redo.
func (m *Manager) Redo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.redo) == 0 {
		return false
	}
	snap := m.redo[len(m.redo)-1]
	m.redo = m.redo[:len(m.redo)-1]
	m.undo = append(m.undo, newSnapshot(m.calcs))
	m.calcs = snap.History()
	return true
}

// CanUndo reports whether Undo would succeed.
func (m *Manager) CanUndo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.undo) > 0
}

// CanRedo reports whether Redo would succeed.
func (m *Manager) CanRedo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.redo) > 0
}

// UndoDepth returns the number of snapshots on the undo stack.
func (m *Manager) UndoDepth() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.undo)
}

// RedoDepth returns the number of snapshots on the redo stack.
func (m *Manager) RedoDepth() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.redo)
}

// ClearHistory empties the history and both stacks together.
func (m *Manager) ClearHistory() {
	m.mu.Lock()
	m.calcs = nil
	m.undo = nil
	m.redo = nil
	m.mu.Unlock()
	m.logger.Info("History cleared")
}

// History returns a copy of the history, oldest first.
func (m *Manager) History() []*calculation.Calculation {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneAll(m.calcs)
}

// Len returns the number of calculations in the history.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calcs)
}

// Last returns the most recent calculation, or nil when the history is empty.
func (m *Manager) Last() *calculation.Calculation {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calcs) == 0 {
		return nil
	}
	return m.calcs[len(m.calcs)-1].Clone()
}

// SaveHistory writes the current history to the configured store.
func (m *Manager) SaveHistory() error {
	if m.store == nil {
		return types.NewOperationError("Failed to save history", errNoStore)
	}

	m.mu.Lock()
	records := make([]calculation.Record, len(m.calcs))
	for i, c := range m.calcs {
		records[i] = c.ToRecord()
	}
	m.mu.Unlock()

	if err := m.store.Save(records); err != nil {
		m.logger.Error("Failed to save history", zap.Error(err))
		return types.NewOperationError("Failed to save history", err)
	}
	m.logger.Info("History saved", zap.Int("count", len(records)))
	return nil
}

// LoadHistory replaces the history with the contents of the configured
// store and clears both stacks. Only the newest MaxHistorySize records are
// kept. On failure the current state is left unchanged.
func (m *Manager) LoadHistory() error {
	if m.store == nil {
		return types.NewOperationError("Failed to load history", errNoStore)
	}

	records, err := m.store.Load()
	if err != nil {
		m.logger.Error("Failed to load history", zap.Error(err))
		return types.NewOperationError("Failed to load history", err)
	}

	calcs := make([]*calculation.Calculation, 0, len(records))
	for i, rec := range records {
		calc, err := calculation.FromRecordWithRegistry(m.registry, rec, m.logger)
		if err != nil {
			m.logger.Error("Failed to load history", zap.Int("row", i+1), zap.Error(err))
			return types.NewOperationError(fmt.Sprintf("Failed to load history: row %d", i+1), err)
		}
		calcs = append(calcs, calc)
	}
	if over := len(calcs) - m.cfg.MaxHistorySize; over > 0 {
		calcs = calcs[over:]
	}

	m.mu.Lock()
	m.calcs = calcs
	m.undo = nil
	m.redo = nil
	m.mu.Unlock()

	m.logger.Info("History loaded", zap.Int("count", len(calcs)))
	return nil
}
