package combat

import "testing"

func TestResolveRogue_Attack(t *testing.T) {
	arena := Arena{Size: 30}
	tests := []struct {
		name       string
		rogueX     float64
		fighterX   float64
		wantHealth float64
		effective  bool
	}{
		{"adjacent", 0, 1, 2, true},
		{"same cell", 4, 4, 2, true},
		{"just inside", 5, 4.5, 2, true},
		{"out of range", 0, 1.5, 3, false},
		{"far", 0, 20, 3, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rogue := DefaultRogue().Spawn(tt.rogueX)
			fighter := DefaultFighter().Spawn(tt.fighterX)
			r, f, eff := ResolveRogue(Attack, rogue, fighter, arena)
			if f.Health != tt.wantHealth {
				t.Errorf("fighter health = %v, want %v", f.Health, tt.wantHealth)
			}
			if eff != tt.effective {
				t.Errorf("effective = %v, want %v", eff, tt.effective)
			}
			if r != rogue {
				t.Errorf("attack changed rogue: %+v", r)
			}
			if f.Position != fighter.Position {
				t.Errorf("attack moved fighter")
			}
		})
	}
}

func TestResolveRogue_Heal(t *testing.T) {
	arena := Arena{Size: 30}
	rogue := DefaultRogue().Spawn(3)
	fighter := DefaultFighter().Spawn(4)

	r, f, eff := ResolveRogue(Heal, rogue, fighter, arena)
	if r != rogue || f != fighter || eff {
		t.Errorf("heal at full health should be a no-op, got %+v %+v %v", r, f, eff)
	}

	rogue.Health = 2
	r, f, eff = ResolveRogue(Heal, rogue, fighter, arena)
	if r.Health != 2.5 || !eff {
		t.Errorf("heal = %v (effective %v), want 2.5", r.Health, eff)
	}
	if f != fighter {
		t.Errorf("heal changed fighter")
	}
}

func TestResolveRogue_Move(t *testing.T) {
	arena := Arena{Size: 30}
	tests := []struct {
		name     string
		rogueX   float64
		fighterX float64
		want     float64
	}{
		{"fighter ahead retreats backward", 10, 15, 8},
		{"fighter behind moves forward", 10, 5, 12},
		{"tie picks forward", 10, 10, 12},
		{"at wall with fighter ahead stays", 0, 20, 0},
		{"clamped at zero", 1, 5, 0},
		{"clamped at arena end", 29, 20, 30},
		{"fighter on top at wall", 0, 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rogue := DefaultRogue().Spawn(tt.rogueX)
			fighter := DefaultFighter().Spawn(tt.fighterX)
			r, f, _ := ResolveRogue(Move, rogue, fighter, arena)
			if r.Position != tt.want {
				t.Errorf("position = %v, want %v", r.Position, tt.want)
			}
			if r.Position < 0 || r.Position > arena.Size {
				t.Errorf("position %v outside arena", r.Position)
			}
			if r.Health != rogue.Health || f != fighter {
				t.Errorf("move touched health or fighter")
			}
		})
	}
}

func TestResolveRogue_MoveTieWithClamp(t *testing.T) {
	// Arena of 2 with rogue at 1: both candidates are 1 away from a fighter at 1.
	arena := Arena{Size: 2}
	rogue := DefaultRogue().Spawn(1)
	fighter := DefaultFighter().Spawn(1)
	r, _, _ := ResolveRogue(Move, rogue, fighter, arena)
	if r.Position != 2 {
		t.Errorf("tie should choose forward, got %v", r.Position)
	}
}

func TestResolveRogue_UnknownActionIsNoop(t *testing.T) {
	rogue := DefaultRogue().Spawn(0)
	fighter := DefaultFighter().Spawn(1)
	r, f, eff := ResolveRogue(Action(9), rogue, fighter, Arena{Size: 30})
	if r != rogue || f != fighter || eff {
		t.Errorf("unknown action changed state")
	}
}
