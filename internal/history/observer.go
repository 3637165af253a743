package history

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/abacus/internal/calculation"
	"github.com/mesh-intelligence/abacus/pkg/types"
)

// Observer is notified after every calculation appended to the history.
// Only observers with a comparable dynamic type (typically pointers) can be
// removed from a Hub.
type Observer interface {
	OnCalculation(calc *calculation.Calculation) error
}

// NotifyError reports observer failures for a calculation that was already
// recorded in the history.
type NotifyError struct {
	Err error
}

func (e *NotifyError) Error() string { return e.Err.Error() }

func (e *NotifyError) Unwrap() error { return e.Err }

// Hub holds observers in registration order. It is safe for concurrent use.
type Hub struct {
	mu        sync.RWMutex
	observers []Observer
}

// Add appends o to the notification list.
func (h *Hub) Add(o Observer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.observers = append(h.observers, o)
}

// Remove deletes the first registration of o. It returns
// ErrObserverNotFound when o is not registered. Observers whose dynamic type
// is not comparable never match.
func (h *Hub) Remove(o Observer) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, cur := range h.observers {
		if sameObserver(cur, o) {
			h.observers = slices.Delete(h.observers, i, i+1)
			return nil
		}
	}
	return fmt.Errorf("remove %T: %w", o, types.ErrObserverNotFound)
}

// sameObserver compares a and b without panicking on uncomparable types.
func sameObserver(a, b Observer) bool {
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	if a == nil {
		return true
	}
	return reflect.ValueOf(a).Comparable() && a == b
}

// Len returns the number of registered observers.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.observers)
}

// Notify calls every observer in registration order. A failing or panicking
// observer does not stop the remaining ones; all failures are combined in the
// returned error. Observers run on a copy of the list, so they may add or
// remove observers while being notified.
func (h *Hub) Notify(calc *calculation.Calculation) error {
	h.mu.RLock()
	observers := slices.Clone(h.observers)
	h.mu.RUnlock()

	var errs error
	for _, o := range observers {
		errs = multierr.Append(errs, notifyOne(o, calc))
	}
	return errs
}

func notifyOne(o Observer, calc *calculation.Calculation) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("observer %T panicked: %v", o, r)
		}
	}()
	return o.OnCalculation(calc)
}

// LoggingObserver writes one audit line per calculation.
type LoggingObserver struct {
	logger *zap.Logger
}

// NewLoggingObserver returns a LoggingObserver writing to logger.
func NewLoggingObserver(logger *zap.Logger) *LoggingObserver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggingObserver{logger: logger}
}

var (
	errNilCalculation = errors.New("calculation is nil")
	errNoStore        = errors.New("no history store configured")
)

func (o *LoggingObserver) OnCalculation(calc *calculation.Calculation) error {
	if calc == nil {
		return errNilCalculation
	}
	o.logger.Info("Calculation performed: "+calc.Describe(),
		zap.String("operation", calc.Operation),
		zap.String("operand1", calc.Operand1.String()),
		zap.String("operand2", calc.Operand2.String()),
		zap.String("result", calc.Result.String()),
	)
	return nil
}

// Saver persists the current history.
type Saver interface {
	SaveHistory() error
}

// AutoSaveObserver saves the history after every calculation when enabled.
type AutoSaveObserver struct {
	saver   Saver
	enabled bool
	logger  *zap.Logger
}

// NewAutoSaveObserver returns an observer that calls saver.SaveHistory when
// enabled is true.
func NewAutoSaveObserver(saver Saver, enabled bool, logger *zap.Logger) *AutoSaveObserver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AutoSaveObserver{saver: saver, enabled: enabled, logger: logger}
}

func (o *AutoSaveObserver) OnCalculation(calc *calculation.Calculation) error {
	if !o.enabled {
		return nil
	}
	if err := o.saver.SaveHistory(); err != nil {
		return err
	}
	o.logger.Info("History auto-saved")
	return nil
}
