package loader

import (
	"fmt"
	"io/fs"
	"path"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// collector accumulates Lua definitions during file execution.
type collector struct {
	file        string
	game        *lua.LTable
	regions     []rawRegion
	connections []rawConnection
	events      []rawEvent
}

// Load runs every .lua file under dir in fsys (game.lua first), then compiles
// and validates what they declared. The Lua VM does not outlive the call.
func Load(fsys fs.FS, dir string) (*RuleSet, error) {
	files, err := fs.Glob(fsys, path.Join(dir, "*.lua"))
	if err != nil {
		return nil, fmt.Errorf("listing rules in %s: %w", dir, err)
	}
	if len(files) == 0 {
		if _, statErr := fs.Stat(fsys, dir); statErr != nil {
			return nil, fmt.Errorf("reading rules directory %s: %w", dir, statErr)
		}
		return nil, fmt.Errorf("no .lua files found in %s", dir)
	}
	for i, f := range files {
		files[i] = path.Base(f)
	}

	L := newSandbox()
	defer L.Close()

	coll := &collector{}
	registerAPI(L, coll)

	for _, name := range sortedLuaFiles(files) {
		src, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		coll.file = name
		if err := run(L, name, string(src)); err != nil {
			return nil, fmt.Errorf("executing %s: %w", name, err)
		}
	}

	rs, err := compile(coll)
	if err != nil {
		return nil, fmt.Errorf("compiling rules: %w", err)
	}
	if err := validate(rs); err != nil {
		return nil, err
	}
	return rs, nil
}

// run executes one chunk under its file name so Lua errors point at it.
func run(L *lua.LState, name, src string) error {
	fn, err := L.Load(strings.NewReader(src), name)
	if err != nil {
		return err
	}
	L.Push(fn)
	return L.PCall(0, lua.MultRet, nil)
}

// Rule files get the base, table, string and math libraries, minus anything
// that reads files, evaluates strings or draws random numbers.
var (
	safeLibs = []struct {
		name string
		open lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	}

	bannedGlobals = []string{
		"dofile", "loadfile", "load", "loadstring", "require",
		"rawset", "rawget", "rawequal",
		"collectgarbage", "print",
	}

	bannedMath = []string{"random", "randomseed"}
)

func newSandbox() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, lib := range safeLibs {
		L.Push(L.NewFunction(lib.open))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
	for _, name := range bannedGlobals {
		L.SetGlobal(name, lua.LNil)
	}
	if math, ok := L.GetGlobal(lua.MathLibName).(*lua.LTable); ok {
		for _, name := range bannedMath {
			math.RawSetString(name, lua.LNil)
		}
	}
	return L
}
