package scripting

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/diceroller/internal/dice"
	"github.com/cory-johannsen/diceroller/internal/preset"
)

// ErrScript wraps every failure to load or run a macro, including dice errors
// raised inside the macro and an exhausted instruction limit.
var ErrScript = errors.New("scripting: macro failed")

// Runner executes roll macros. Every run gets a fresh sandboxed state, so
// macros cannot see each other's globals.
//
// Runner is not safe for concurrent use; its Roller's Source is shared by
// every run.
type Runner struct {
	roller    *dice.Roller
	presets   *preset.Registry
	logger    *zap.Logger
	out       io.Writer
	instLimit int
}

// NewRunner creates a Runner whose macros roll with roller and resolve
// dice.preset names against presets. Macro print output goes to os.Stdout
// until SetOutput is called.
//
// Precondition: roller and logger must be non-nil; presets may be nil.
// instLimit >= 0; 0 uses DefaultInstructionLimit.
func NewRunner(roller *dice.Roller, presets *preset.Registry, logger *zap.Logger, instLimit int) *Runner {
	if presets == nil {
		presets = preset.NewRegistry(roller.MaxDice())
	}
	return &Runner{
		roller:    roller,
		presets:   presets,
		logger:    logger,
		out:       os.Stdout,
		instLimit: instLimit,
	}
}

// SetOutput redirects macro print output to w.
//
// Precondition: w must be non-nil.
func (r *Runner) SetOutput(w io.Writer) { r.out = w }

// RunFile executes the macro at path.
//
// Postcondition: Returns nil, or an error wrapping ErrScript.
func (r *Runner) RunFile(ctx context.Context, path string) error {
	return r.run(ctx, path, func(L *lua.LState) error { return L.DoFile(path) })
}

// RunString executes src as a macro; name identifies it in errors and logs.
//
// Postcondition: Returns nil, or an error wrapping ErrScript.
func (r *Runner) RunString(ctx context.Context, name, src string) error {
	return r.run(ctx, name, func(L *lua.LState) error { return L.DoString(src) })
}

func (r *Runner) run(ctx context.Context, name string, exec func(*lua.LState) error) error {
	L, cancel := NewSandboxedState(ctx, r.instLimit)
	defer L.Close()
	defer cancel()
	r.RegisterModules(L)

	logger := r.logger.With(zap.String("script", name))
	logger.Debug("running macro")
	if err := exec(L); err != nil {
		logger.Warn("macro failed", zap.Error(err))
		return fmt.Errorf("%w: %s: %w", ErrScript, name, err)
	}
	logger.Debug("macro finished")
	return nil
}
