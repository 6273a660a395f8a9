package scripting

import (
	"fmt"
	"strings"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cory-johannsen/diceroller/internal/dice"
)

// RegisterModules installs the dice and log tables into L and replaces print
// so that it writes to the Runner's output.
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: dice, log and print are defined in L.
func (r *Runner) RegisterModules(L *lua.LState) {
	L.SetGlobal("dice", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"roll":   r.luaRoll,
		"max":    r.luaMax,
		"min":    r.luaMin,
		"preset": r.luaPreset,
	}))
	L.SetGlobal("log", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"debug": r.luaLog(zap.DebugLevel),
		"info":  r.luaLog(zap.InfoLevel),
		"warn":  r.luaLog(zap.WarnLevel),
		"error": r.luaLog(zap.ErrorLevel),
	}))
	L.SetGlobal("print", L.NewFunction(r.luaPrint))
}

// dice.roll(formula [, advantage [, disadvantage]]) -> result table
func (r *Runner) luaRoll(L *lua.LState) int {
	formula := L.CheckString(1)
	adv := L.OptBool(2, false)
	dis := L.OptBool(3, false)
	res, err := r.roller.Roll(formula, adv, dis)
	if err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}
	L.Push(resultTable(L, res))
	return 1
}

// dice.max(formula) -> number
func (r *Runner) luaMax(L *lua.LState) int {
	res, err := r.roller.Max(L.CheckString(1))
	if err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}
	L.Push(lua.LNumber(res.Total))
	return 1
}

// dice.min(formula) -> number
func (r *Runner) luaMin(L *lua.LState) int {
	res, err := r.roller.Min(L.CheckString(1))
	if err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}
	L.Push(lua.LNumber(res.Total))
	return 1
}

// dice.preset(name) -> result table, rolled with the preset's modifiers
func (r *Runner) luaPreset(L *lua.LState) int {
	name := L.CheckString(1)
	p, ok := r.presets.Get(name)
	if !ok {
		L.RaiseError("unknown preset %q", name)
		return 0
	}
	res, err := r.roller.Roll(p.Formula, p.Advantage, p.Disadvantage)
	if err != nil {
		L.RaiseError("preset %q: %s", name, err.Error())
		return 0
	}
	t := resultTable(L, res)
	t.RawSetString("name", lua.LString(p.Name))
	L.Push(t)
	return 1
}

func (r *Runner) luaLog(level zapcore.Level) lua.LGFunction {
	return func(L *lua.LState) int {
		if ce := r.logger.Check(level, L.CheckString(1)); ce != nil {
			ce.Write(zap.String("source", "lua"))
		}
		return 0
	}
}

func (r *Runner) luaPrint(L *lua.LState) int {
	n := L.GetTop()
	parts := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		parts = append(parts, L.ToStringMeta(L.Get(i)).String())
	}
	fmt.Fprintln(r.out, strings.Join(parts, "\t"))
	return 0
}

// resultTable converts res into {total, formula, id, dice = {...}}.
func resultTable(L *lua.LState, res dice.RollResult) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("total", lua.LNumber(res.Total))
	t.RawSetString("formula", lua.LString(res.Formula))
	t.RawSetString("id", lua.LString(res.ID))
	values := L.NewTable()
	for _, v := range res.Values() {
		values.Append(lua.LNumber(v))
	}
	t.RawSetString("dice", values)
	return t
}
