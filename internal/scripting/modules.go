package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/ability"
	"github.com/cory-johannsen/skirmish/internal/game/attribute"
	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/resource"
)

// RegisterModules installs the skirmish global: log, dice, entity, and combat.
//
// Precondition: L must be from NewSandboxedState.
func (m *Manager) RegisterModules(L *lua.LState) {
	root := L.NewTable()
	L.SetField(root, "log", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"debug": m.logFn(m.logger.Debug),
		"info":  m.logFn(m.logger.Info),
		"warn":  m.logFn(m.logger.Warn),
		"error": m.logFn(m.logger.Error),
	}))
	L.SetField(root, "dice", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"roll": m.luaRoll,
	}))
	L.SetField(root, "entity", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"get":       m.luaEntityGet,
		"attribute": m.luaEntityAttribute,
	}))
	L.SetField(root, "combat", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"damage":          m.luaDamage,
		"restore":         m.luaRestore,
		"stagger":         m.luaStagger,
		"apply_condition": m.luaApplyCondition,
	}))
	L.SetGlobal("skirmish", root)
}

func (m *Manager) logFn(log func(string, ...zap.Field)) lua.LGFunction {
	return func(L *lua.LState) int {
		log(L.CheckString(1), zap.String("source", "lua"))
		return 0
	}
}

// roll(expr) -> {total=, bonus=, rolls={...}} | nil, err
func (m *Manager) luaRoll(L *lua.LState) int {
	expr, err := dice.Parse(L.CheckString(1))
	if err != nil {
		L.Push(lua.LNil)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	res := m.roller.Roll(expr)
	t := L.NewTable()
	rolls := L.NewTable()
	for _, v := range res.Rolls {
		rolls.Append(lua.LNumber(v))
	}
	L.SetField(t, "rolls", rolls)
	L.SetField(t, "bonus", lua.LNumber(res.Bonus))
	L.SetField(t, "total", lua.LNumber(res.Total()))
	L.Push(t)
	return 1
}

func (m *Manager) lookup(L *lua.LState) ability.Combatant {
	return m.bound[L.CheckString(1)]
}

func (m *Manager) entityTable(L *lua.LState, c ability.Combatant) *lua.LTable {
	t := L.NewTable()
	L.SetField(t, "id", lua.LString(c.ID()))
	if pool := c.Resources(); pool != nil {
		for _, k := range resource.Kinds {
			L.SetField(t, k.String(), lua.LNumber(pool.Current(k)))
			L.SetField(t, "max_"+k.String(), lua.LNumber(pool.Max(k)))
		}
	}
	tr := c.Transform()
	L.SetField(t, "x", lua.LNumber(tr.X))
	L.SetField(t, "y", lua.LNumber(tr.Y))
	L.SetField(t, "z", lua.LNumber(tr.Z))
	return t
}

// get(id) -> table | nil
func (m *Manager) luaEntityGet(L *lua.LState) int {
	c := m.lookup(L)
	if c == nil {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(m.entityTable(L, c))
	return 1
}

// attribute(id, name) -> number | nil
func (m *Manager) luaEntityAttribute(L *lua.LState) int {
	c := m.lookup(L)
	name := attribute.Name(L.CheckString(2))
	if c == nil || c.Attributes() == nil || c.Attributes().Get(name) == nil {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(c.Attributes().Value(name)))
	return 1
}

// damage(id, power, category="physical", can_crit=false) -> dealt | nil, err
// The current caster is the attacker.
func (m *Manager) luaDamage(L *lua.LState) int {
	target := m.lookup(L)
	power := float64(L.CheckNumber(2))
	catName := L.OptString(3, combat.Physical.String())
	canCrit := L.OptBool(4, false)
	if target == nil || m.caster == nil {
		L.Push(lua.LNil)
		L.Push(lua.LString("unknown combatant"))
		return 2
	}
	cat, ok := combat.ParseCategory(catName)
	if !ok {
		L.Push(lua.LNil)
		L.Push(lua.LString("unknown damage category " + catName))
		return 2
	}
	res := combat.Compute(m.caster.Attributes(), target.Attributes(),
		combat.Hit{BasePower: power, Category: cat, CanCrit: canCrit}, m.roller)
	dealt := target.Resources().Spend(resource.Health, res.Damage)
	L.Push(lua.LNumber(dealt))
	return 1
}

// restore(id, resource, amount) -> restored | nil, err
func (m *Manager) luaRestore(L *lua.LState) int {
	c := m.lookup(L)
	kind, ok := resource.ParseKind(L.CheckString(2))
	amount := float64(L.CheckNumber(3))
	if c == nil || !ok {
		L.Push(lua.LNil)
		L.Push(lua.LString("unknown combatant or resource"))
		return 2
	}
	L.Push(lua.LNumber(c.Resources().Restore(kind, amount)))
	return 1
}

// stagger(id, power) -> breach name | nil, err
func (m *Manager) luaStagger(L *lua.LState) int {
	c := m.lookup(L)
	power := float64(L.CheckNumber(2))
	if c == nil {
		L.Push(lua.LNil)
		L.Push(lua.LString("unknown combatant"))
		return 2
	}
	L.Push(lua.LString(c.Resources().ApplyStaggerDamage(power).String()))
	return 1
}

// apply_condition(id, condition_id) -> true | nil, err
func (m *Manager) luaApplyCondition(L *lua.LState) int {
	c := m.lookup(L)
	id := L.CheckString(2)
	if c == nil || m.conditions == nil {
		L.Push(lua.LNil)
		L.Push(lua.LString("unknown combatant or no condition registry"))
		return 2
	}
	def, ok := m.conditions.Get(id)
	if !ok {
		L.Push(lua.LNil)
		L.Push(lua.LString("unknown condition " + id))
		return 2
	}
	if err := c.Modifiers().ApplyDef(def, attribute.StaticSource("condition:"+def.ID)); err != nil {
		L.Push(lua.LNil)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LTrue)
	return 1
}
