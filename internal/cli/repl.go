package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/abacus/internal/calculation"
	"github.com/mesh-intelligence/abacus/internal/history"
	"github.com/mesh-intelligence/abacus/internal/operation"
	"github.com/mesh-intelligence/abacus/pkg/types"
)

const (
	commandPrompt = "Enter command: "
	cancelWord    = "cancel"
)

// runShell opens the application and runs the interactive shell on the
// command's input and output streams.
func runShell(cmd *cobra.Command, flags *rootFlags) error {
	a, err := openApp(flags)
	if err != nil {
		return err
	}
	defer a.Close()

	sh := newShell(a.mgr, a.registry, a.cfg.Precision, cmd.InOrStdin(), cmd.OutOrStdout())
	if a.loadErr != nil {
		sh.println(styles.Warning.Render("Warning: could not load history: " + a.loadErr.Error()))
	}
	return sh.Run()
}

// shell is the read-eval-print loop over a history manager.
type shell struct {
	mgr       *history.Manager
	registry  *operation.Registry
	precision int
	in        *bufio.Scanner
	out       io.Writer
}

func newShell(mgr *history.Manager, reg *operation.Registry, precision int, in io.Reader, out io.Writer) *shell {
	return &shell{
		mgr:       mgr,
		registry:  reg,
		precision: precision,
		in:        bufio.NewScanner(in),
		out:       out,
	}
}

// Run reads commands until "exit" or end of input.
func (s *shell) Run() error {
	s.println(styles.Title.Render("Calculator REPL started. Type 'help' for available commands."))
	for {
		s.println("")
		line, ok := s.ask(commandPrompt)
		if !ok {
			return s.terminated()
		}
		if s.dispatch(strings.ToLower(strings.TrimSpace(line))) {
			return s.in.Err()
		}
	}
}

// dispatch executes one command and reports whether the shell should stop.
func (s *shell) dispatch(command string) bool {
	switch command {
	case "":
		return false
	case "help":
		s.help()
	case "ops":
		s.println("Registered operations: " + strings.Join(s.registry.Names(), ", "))
	case "history":
		s.history()
	case "clear":
		s.mgr.ClearHistory()
		s.println(styles.Success.Render("History cleared."))
	case "undo":
		if s.mgr.Undo() {
			s.println(styles.Success.Render("Last operation undone."))
		} else {
			s.println(styles.Muted.Render("No operations to undo."))
		}
	case "redo":
		if s.mgr.Redo() {
			s.println(styles.Success.Render("Last operation redone."))
		} else {
			s.println(styles.Muted.Render("No operations to redo."))
		}
	case "save":
		if err := s.mgr.SaveHistory(); err != nil {
			s.println(styles.Error.Render("Error saving history: " + err.Error()))
		} else {
			s.println(styles.Success.Render("History saved successfully."))
		}
	case "load":
		if err := s.mgr.LoadHistory(); err != nil {
			s.println(styles.Error.Render("Error loading history: " + err.Error()))
		} else {
			s.println(styles.Success.Render("History loaded successfully."))
		}
	case "exit":
		if err := s.mgr.SaveHistory(); err != nil {
			s.println(styles.Warning.Render("Warning: Could not save history before exiting: " + err.Error()))
		} else {
			s.println(styles.Success.Render("History saved successfully."))
		}
		s.println("Exiting calculator REPL. Goodbye!")
		return true
	default:
		if _, err := s.registry.Create(command); err != nil {
			s.println(styles.Error.Render(fmt.Sprintf("Unknown command: '%s'. Type 'help' for available commands.", command)))
			return false
		}
		return s.calculate(command)
	}
	return false
}

// calculate prompts for two operands and performs the named operation.
// It reports whether input ended while prompting.
func (s *shell) calculate(name string) bool {
	s.println("")
	s.println("Enter numbers (or 'cancel' to abort):")
	a, ok := s.ask("First number: ")
	if !ok {
		s.terminated()
		return true
	}
	if isCancel(a) {
		s.println("Operation cancelled.")
		return false
	}
	b, ok := s.ask("Second number: ")
	if !ok {
		s.terminated()
		return true
	}
	if isCancel(b) {
		s.println("Operation cancelled.")
		return false
	}

	result, err := s.mgr.PerformOperation(name, a, b)
	var notifyErr *history.NotifyError
	switch {
	case err == nil, errors.As(err, &notifyErr):
	case errors.Is(err, types.ErrValidation), errors.Is(err, types.ErrOperation):
		s.println(styles.Error.Render("Error: " + err.Error()))
		return false
	default:
		s.println(styles.Error.Render("An unexpected error occurred: " + err.Error()))
		return false
	}

	s.println("")
	s.println("Result: " + styles.Result.Render(calculation.FormatDecimal(result, s.precision)))
	if notifyErr != nil {
		s.println(styles.Warning.Render("Warning: " + err.Error()))
	}
	return false
}

func (s *shell) help() {
	s.println("")
	s.println(styles.Heading.Render("Available commands:"))
	s.println("  " + strings.Join(operation.BuiltinNames(), ", "))
	s.println("  ops - List every registered operation name")
	s.println("  history - Show calculation history")
	s.println("  undo - Undo the last operation")
	s.println("  redo - Redo the last undone operation")
	s.println("  clear - Clear the history")
	s.println("  save - Save the current history to a file")
	s.println("  load - Load history from a file")
	s.println("  exit - Exit the calculator REPL")
}

func (s *shell) history() {
	calcs := s.mgr.History()
	if len(calcs) == 0 {
		s.println(styles.Muted.Render("No calculations performed yet."))
		return
	}
	s.println("")
	s.println(styles.Heading.Render("Calculation History:"))
	for i, c := range calcs {
		s.println(fmt.Sprintf("%d. %s", i+1, c))
	}
}

// terminated reports end of input and returns any read error.
func (s *shell) terminated() error {
	s.println("")
	s.println("Input terminated by user. Exiting REPL....")
	return s.in.Err()
}

// ask writes prompt and reads one line. ok is false at end of input.
func (s *shell) ask(prompt string) (string, bool) {
	fmt.Fprint(s.out, prompt)
	if !s.in.Scan() {
		return "", false
	}
	return s.in.Text(), true
}

func (s *shell) println(line string) {
	fmt.Fprintln(s.out, line)
}

func isCancel(input string) bool {
	return strings.EqualFold(strings.TrimSpace(input), cancelWord)
}
