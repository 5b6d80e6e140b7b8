package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers all Lua constructors and helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	registerConstructors(L, coll)
	registerPredicateHelpers(L)
}

func registerConstructors(L *lua.LState, coll *collector) {
	// Game { root = "...", goal = "..." }
	L.SetGlobal("Game", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		if coll.game != nil {
			L.RaiseError("Game{} defined twice")
		}
		coll.game = tbl
		return 0
	}))

	// Region "name" { } declares a region that holds no item locations.
	L.SetGlobal("Region", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		file := coll.file
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.OptTable(1, L.NewTable())
			coll.regions = append(coll.regions, rawRegion{name: name, table: tbl, file: file})
			return 0
		}))
		return 1
	}))

	// Connect("from", "to") { two_way = true, all = ..., hard = ... }
	L.SetGlobal("Connect", L.NewFunction(func(L *lua.LState) int {
		from := L.CheckString(1)
		to := L.CheckString(2)
		file := coll.file
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.connections = append(coll.connections, rawConnection{
				from:  from,
				to:    to,
				table: tbl,
				file:  file,
			})
			return 0
		}))
		return 1
	}))

	// Event("region", "location", "item")
	L.SetGlobal("Event", L.NewFunction(func(L *lua.LState) int {
		coll.events = append(coll.events, rawEvent{
			region:   L.CheckString(1),
			location: L.CheckString(2),
			item:     L.CheckString(3),
			file:     coll.file,
		})
		return 0
	}))
}

func registerPredicateHelpers(L *lua.LState) {
	// Has("item") or Has("item", n)
	L.SetGlobal("Has", L.NewFunction(func(L *lua.LState) int {
		item := L.CheckString(1)
		count := L.OptInt(2, 1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("has"))
		tbl.RawSetString("item", lua.LString(item))
		tbl.RawSetString("count", lua.LNumber(count))
		L.Push(tbl)
		return 1
	}))

	// And(p, q, ...) / Or(p, q, ...)
	for name, kind := range map[string]string{"And": "and", "Or": "or"} {
		kind := kind
		L.SetGlobal(name, L.NewFunction(func(L *lua.LState) int {
			children := L.NewTable()
			for i := 1; i <= L.GetTop(); i++ {
				children.Append(L.CheckTable(i))
			}
			tbl := L.NewTable()
			tbl.RawSetString("type", lua.LString(kind))
			tbl.RawSetString("children", children)
			L.Push(tbl)
			return 1
		}))
	}

	// Free is an always-open guard.
	free := L.NewTable()
	free.RawSetString("type", lua.LString("free"))
	L.SetGlobal("Free", free)
}
