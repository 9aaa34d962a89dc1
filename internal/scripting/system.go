package scripting

import (
	"fmt"
	"path/filepath"

	"github.com/ove/engine/internal/core/ecs"
	"github.com/ove/engine/internal/core/system"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// ScriptSystem runs one Lua script as a system. The script may define any of
// the globals init(), update(dt), render() and clean(). A Lua error is logged
// and the phase moves on to the next system.
type ScriptSystem struct {
	system.Base
	name   string
	engine *Engine
	log    *zap.Logger
}

var _ system.System = (*ScriptSystem)(nil)

// NewScriptSystem loads the script at path into a fresh VM.
func NewScriptSystem(path string, log *zap.Logger, bindings ...Binding) (*ScriptSystem, error) {
	name := filepath.Base(path)
	log = log.With(zap.String("script", name))
	eng := NewEngine(log, bindings...)
	if err := eng.LoadFile(path); err != nil {
		eng.Close()
		return nil, err
	}
	return &ScriptSystem{name: name, engine: eng, log: log}, nil
}

// NewScriptSystemFromString is NewScriptSystem for in-memory sources.
func NewScriptSystemFromString(name, src string, log *zap.Logger, bindings ...Binding) (*ScriptSystem, error) {
	log = log.With(zap.String("script", name))
	eng := NewEngine(log, bindings...)
	if err := eng.LoadString(name, src); err != nil {
		eng.Close()
		return nil, err
	}
	return &ScriptSystem{name: name, engine: eng, log: log}, nil
}

// LoadScripts builds one ScriptSystem per script in dir. names fixes the load
// order; when empty every .lua file in dir is loaded in directory order.
func LoadScripts(dir string, names []string, log *zap.Logger, bindings ...Binding) ([]*ScriptSystem, error) {
	paths, err := listScripts(dir, names)
	if err != nil {
		return nil, fmt.Errorf("list scripts in %s: %w", dir, err)
	}
	out := make([]*ScriptSystem, 0, len(paths))
	for _, p := range paths {
		s, err := NewScriptSystem(p, log, bindings...)
		if err != nil {
			for _, loaded := range out {
				loaded.Close()
			}
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (s *ScriptSystem) Name() string    { return s.name }
func (s *ScriptSystem) Engine() *Engine { return s.engine }

func (s *ScriptSystem) Init(em *ecs.Manager) {
	s.engine.bus = s.EventBus()
	s.run(em, "init")
}

func (s *ScriptSystem) Update(em *ecs.Manager, dt system.Delta) {
	s.run(em, "update", lua.LNumber(dt))
}

func (s *ScriptSystem) Render(em *ecs.Manager) { s.run(em, "render") }
func (s *ScriptSystem) Clean(em *ecs.Manager)  { s.run(em, "clean") }

// Close shuts the VM down. The system manager calls it on Close.
func (s *ScriptSystem) Close() error {
	return s.engine.Close()
}

func (s *ScriptSystem) run(em *ecs.Manager, phase string, args ...lua.LValue) {
	s.engine.em = em
	defer func() { s.engine.em = nil }()
	if err := s.engine.call(phase, args...); err != nil {
		s.log.Error("lua phase error", zap.String("phase", phase), zap.Error(err))
	}
}
