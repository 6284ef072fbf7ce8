package lua

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/panelink/internal/command"
	"github.com/dshills/panelink/internal/pane"
)

func idsToTable(L *lua.LState, ids []pane.ID) *lua.LTable {
	tbl := L.CreateTable(len(ids), 0)
	for i, id := range ids {
		tbl.RawSetInt(i+1, lua.LString(id))
	}
	return tbl
}

// tableToArgs converts the string-keyed entries of tbl.
func tableToArgs(tbl *lua.LTable) command.Args {
	args := make(command.Args)
	tbl.ForEach(func(k, v lua.LValue) {
		if ks, ok := k.(lua.LString); ok {
			args[string(ks)] = lvalueToAny(v)
		}
	})
	return args
}

func argsToTable(L *lua.LState, args command.Args) *lua.LTable {
	tbl := L.NewTable()
	for k, v := range args {
		tbl.RawSetString(k, anyToLValue(L, v))
	}
	return tbl
}

// settingValue converts a Lua value for config.Settings.Set; whole numbers
// become ints.
func settingValue(v lua.LValue) any {
	if n, ok := v.(lua.LNumber); ok && float64(n) == float64(int64(n)) {
		return int64(n)
	}
	return lvalueToAny(v)
}

func lvalueToAny(v lua.LValue) any {
	switch val := v.(type) {
	case lua.LBool:
		return bool(val)
	case lua.LNumber:
		return float64(val)
	case lua.LString:
		return string(val)
	case *lua.LTable:
		m := make(map[string]any)
		val.ForEach(func(k, v lua.LValue) {
			m[k.String()] = lvalueToAny(v)
		})
		return m
	default:
		return nil
	}
}

func anyToLValue(L *lua.LState, v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(val)
	case int:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case float64:
		return lua.LNumber(val)
	case string:
		return lua.LString(val)
	case pane.ID:
		return lua.LString(val)
	case map[string]any:
		tbl := L.NewTable()
		for k, item := range val {
			tbl.RawSetString(k, anyToLValue(L, item))
		}
		return tbl
	default:
		return lua.LString(fmt.Sprintf("%v", val))
	}
}
