package scripting

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ove/engine/internal/core/ecs"
	"github.com/ove/engine/internal/core/event"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// ErrMissingBinding is returned when a script names a component that was not
// bound to the engine.
var ErrMissingBinding = errors.New("no component binding")

// Message is published on the event bus by ecs.emit(topic, fields).
type Message struct {
	Topic  string
	Fields map[string]any
}

// Engine wraps a single gopher-lua VM running one script.
// Single-goroutine access only (game loop).
type Engine struct {
	vm       *lua.LState
	log      *zap.Logger
	bindings map[string]Binding
	em       *ecs.Manager
	bus      *event.Bus
}

// NewEngine creates a Lua VM with the ecs API table installed.
func NewEngine(log *zap.Logger, bindings ...Binding) *Engine {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	// Set API version global
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{
		vm:       vm,
		log:      log,
		bindings: make(map[string]Binding, len(bindings)),
	}
	for _, b := range bindings {
		e.bindings[b.Name()] = b
	}
	e.installAPI()
	return e
}

// LoadFile runs a script file, defining its lifecycle globals.
func (e *Engine) LoadFile(path string) error {
	if err := e.vm.DoFile(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	e.log.Debug("loaded lua script", zap.String("file", path))
	return nil
}

// LoadString runs src under the given chunk name.
func (e *Engine) LoadString(name, src string) error {
	fn, err := e.vm.LoadString(src)
	if err != nil {
		return fmt.Errorf("load %s: %w", name, err)
	}
	e.vm.Push(fn)
	if err := e.vm.PCall(0, lua.MultRet, nil); err != nil {
		return fmt.Errorf("run %s: %w", name, err)
	}
	return nil
}

// Binding returns the binding registered under name.
func (e *Engine) Binding(name string) (Binding, error) {
	b, ok := e.bindings[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingBinding, name)
	}
	return b, nil
}

// Global returns a global from the VM, mostly for tests and debugging.
func (e *Engine) Global(name string) lua.LValue {
	return e.vm.GetGlobal(name)
}

// call invokes a global function if the script defines it.
func (e *Engine) call(name string, args ...lua.LValue) error {
	fn := e.vm.GetGlobal(name)
	if fn == lua.LNil {
		return nil
	}
	return e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, args...)
}

// Close shuts down the Lua VM.
func (e *Engine) Close() error {
	e.vm.Close()
	return nil
}

// listScripts returns the .lua files to load from dir: names in the given
// order, or every .lua file in the directory when names is empty.
func listScripts(dir string, names []string) ([]string, error) {
	if len(names) > 0 {
		paths := make([]string, len(names))
		for i, n := range names {
			paths[i] = filepath.Join(dir, n)
		}
		return paths, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // skip missing dirs
		}
		return nil, err
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	return paths, nil
}
