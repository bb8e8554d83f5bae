package simulation

import (
	"fmt"

	"github.com/cory-johannsen/skirmish/internal/game/ability"
)

// Validate cross-checks loaded content: every condition step must name a
// defined condition and every script step a loaded Lua hook.
//
// Postcondition: returns one error per broken reference, in catalog order.
func (w *World) Validate() []error {
	var errs []error
	for _, cat := range w.Catalog.Categories() {
		for _, ab := range w.Catalog.InCategory(cat) {
			for i, st := range ab.Steps {
				if err := w.checkStep(st); err != nil {
					errs = append(errs, fmt.Errorf("ability %q step %d: %w", ab.ID, i, err))
				}
			}
		}
	}
	return errs
}

func (w *World) checkStep(st ability.Step) error {
	switch e := st.Effect.(type) {
	case ability.ConditionEffect:
		if _, ok := w.Conditions.Get(e.ConditionID); !ok {
			return fmt.Errorf("undefined condition %q", e.ConditionID)
		}
	case ability.ScriptEffect:
		if w.Scripts == nil {
			return fmt.Errorf("script %q used with scripting disabled", e.Script)
		}
		if !w.Scripts.Has(e.Script) {
			return fmt.Errorf("undefined script hook %q", e.Script)
		}
	}
	return nil
}
