package scripting

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/ability"
	"github.com/cory-johannsen/skirmish/internal/game/condition"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
)

// ErrNoScripts is returned when a hook runs before any scripts were loaded.
var ErrNoScripts = errors.New("scripting: no scripts loaded")

// Manager owns the sandboxed VM holding every effect script and dispatches
// script effects to it. It implements ability.ScriptRunner.
//
// Manager is safe for concurrent use; calls into the VM are serialised.
type Manager struct {
	mu         sync.Mutex
	state      *lua.LState
	instLimit  int
	roller     *dice.Roller
	conditions *condition.Registry
	logger     *zap.Logger

	// participants of the hook call in progress, keyed by combatant ID
	bound  map[string]ability.Combatant
	caster ability.Combatant
}

// NewManager creates a Manager. conditions may be nil, which disables
// skirmish.combat.apply_condition.
//
// Precondition: roller and logger must be non-nil.
func NewManager(roller *dice.Roller, conditions *condition.Registry, logger *zap.Logger) *Manager {
	if roller == nil {
		panic("scripting: NewManager requires a roller")
	}
	if logger == nil {
		panic("scripting: NewManager requires a logger")
	}
	return &Manager{roller: roller, conditions: conditions, logger: logger}
}

// Load creates a fresh VM, registers the skirmish.* modules, and executes
// every *.lua file in scriptDir in lexicographic order. A previous VM is
// closed only after the new one loads successfully.
//
// Precondition: scriptDir must be readable.
func (m *Manager) Load(scriptDir string, instLimit int) error {
	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		return fmt.Errorf("scripting: reading script dir %q: %w", scriptDir, err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			files = append(files, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(files)

	L := NewSandboxedState()
	m.RegisterModules(L)
	for _, path := range files {
		if err := RunLimited(L, instLimit, func() error { return L.DoFile(path) }); err != nil {
			L.Close()
			return fmt.Errorf("scripting: loading %q: %w", path, err)
		}
	}

	m.mu.Lock()
	old := m.state
	m.state = L
	m.instLimit = instLimit
	m.mu.Unlock()
	if old != nil {
		old.Close()
	}
	m.logger.Info("scripts loaded", zap.String("dir", scriptDir), zap.Int("files", len(files)))
	return nil
}

// Has reports whether a global function named hook is defined.
func (m *Manager) Has(hook string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == nil {
		return false
	}
	_, ok := m.state.GetGlobal(hook).(*lua.LFunction)
	return ok
}

// RunEffect calls the Lua function named script with caster and target
// tables. During the call skirmish.combat.* may address either participant by ID.
//
// Postcondition: returns an error if no scripts are loaded, the function is
// undefined, or the script raises or exceeds its instruction budget.
func (m *Manager) RunEffect(script string, caster, target ability.Combatant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == nil {
		return ErrNoScripts
	}
	fn, ok := m.state.GetGlobal(script).(*lua.LFunction)
	if !ok {
		return fmt.Errorf("scripting: effect %q is not defined", script)
	}
	m.caster = caster
	m.bound = map[string]ability.Combatant{caster.ID(): caster, target.ID(): target}
	defer func() {
		m.caster = nil
		m.bound = nil
	}()
	L := m.state
	err := RunLimited(L, m.instLimit, func() error {
		return L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true},
			m.entityTable(L, caster), m.entityTable(L, target))
	})
	if err != nil {
		return fmt.Errorf("scripting: effect %q: %w", script, err)
	}
	return nil
}

// CallHook calls the named global with args and returns its first result.
// An undefined hook returns (LNil, nil). Lua runtime errors are logged at
// Warn and returned.
func (m *Manager) CallHook(hook string, args ...lua.LValue) (lua.LValue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == nil {
		return lua.LNil, ErrNoScripts
	}
	L := m.state
	fn := L.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil, nil
	}
	err := RunLimited(L, m.instLimit, func() error {
		return L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...)
	})
	if err != nil {
		m.logger.Warn("scripting: Lua runtime error", zap.String("hook", hook), zap.Error(err))
		return lua.LNil, err
	}
	ret := L.Get(-1)
	L.Pop(1)
	return ret, nil
}

// Close releases the VM. Later calls report ErrNoScripts.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != nil {
		m.state.Close()
		m.state = nil
	}
}
