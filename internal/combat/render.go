package combat

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DisplayName title-cases the combatant's name. A Caser keeps state, so one is
// built per call.
func DisplayName(c Combatant) string { return cases.Title(language.English).String(c.Name) }

// renderTurn writes the human trace: the actions of the turn (skipped after a
// reset) and a status line per combatant.
func (e *Env) renderTurn(rogueAction, fighterAction Action) {
	if e.render != RenderHuman {
		return
	}
	if rogueAction != NoAction {
		fmt.Fprintf(e.trace, "%s took action %s. %s took action %s.\n",
			DisplayName(e.rogue), rogueAction, DisplayName(e.fighter), fighterAction)
	}
	for _, c := range []Combatant{e.rogue, e.fighter} {
		fmt.Fprintf(e.trace, "%s has %.3f/%.3f hp and position %.3f.\n",
			DisplayName(c), c.Health, c.MaxHealth, c.Position)
	}
	fmt.Fprintln(e.trace)
}
