package combat

import "testing"

func TestFighterPolicy_Decide(t *testing.T) {
	tests := []struct {
		name          string
		rogueX        float64
		fighterX      float64
		fighterHealth float64
		wantAction    Action
		wantRogueHP   float64
		wantFighterHP float64
		wantFighterX  float64
	}{
		{"attacks when adjacent", 0, 1, 3, Attack, 4, 3, 1},
		{"attacks even when hurt", 5, 5.5, 1, Attack, 4, 1, 5.5},
		{"heals when hurt and far", 0, 10, 2, Heal, 5, 2.5, 10},
		{"heal caps at max", 0, 10, 2.75, Heal, 5, 3, 10},
		{"moves toward rogue ahead", 10, 20, 3, Move, 5, 3, 19},
		{"moves toward rogue behind", 20, 10, 3, Move, 5, 3, 11},
		{"fractional gap is stepped", 0, 2.5, 3, Move, 5, 3, 1.5},
	}

	p := NewFighterPolicy()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rogue := DefaultRogue().Spawn(tt.rogueX)
			fighter := DefaultFighter().Spawn(tt.fighterX)
			fighter.Health = tt.fighterHealth

			a, r, f := p.Decide(rogue, fighter)
			if a != tt.wantAction {
				t.Errorf("action = %v, want %v", a, tt.wantAction)
			}
			if r.Health != tt.wantRogueHP {
				t.Errorf("rogue hp = %v, want %v", r.Health, tt.wantRogueHP)
			}
			if f.Health != tt.wantFighterHP {
				t.Errorf("fighter hp = %v, want %v", f.Health, tt.wantFighterHP)
			}
			if f.Position != tt.wantFighterX {
				t.Errorf("fighter x = %v, want %v", f.Position, tt.wantFighterX)
			}
			if r.Position != rogue.Position {
				t.Errorf("fighter moved the rogue")
			}
		})
	}
}

func TestFighterPolicy_SnapsWithinStride(t *testing.T) {
	// A gap within the fighter's speed but outside melee range only exists when
	// speed > 1.
	p := NewFighterPolicy()
	rogue := DefaultRogue().Spawn(10)
	fighter := Profile{Name: "fighter", MaxHealth: 3, Speed: 3}.Spawn(12.5)

	a, _, f := p.Decide(rogue, fighter)
	if a != Move || f.Position != 10 {
		t.Errorf("got %v to %v, want MOVE to 10", a, f.Position)
	}
}

func TestFighterPolicy_DeadFighterDoesNothing(t *testing.T) {
	p := NewFighterPolicy()
	rogue := DefaultRogue().Spawn(0)
	fighter := DefaultFighter().Spawn(1)
	fighter.Health = 0

	a, r, f := p.Decide(rogue, fighter)
	if a != NoAction {
		t.Errorf("action = %v, want NoAction", a)
	}
	if r != rogue || f != fighter {
		t.Errorf("dead fighter changed state")
	}
}

func TestFighterPolicy_Deterministic(t *testing.T) {
	p := NewFighterPolicy()
	states := [][2]Combatant{
		{DefaultRogue().Spawn(0), DefaultFighter().Spawn(1)},
		{DefaultRogue().Spawn(0), DefaultFighter().Spawn(17.3)},
		{DefaultRogue().Spawn(30), DefaultFighter().Spawn(0.4)},
	}
	for _, s := range states {
		a1, r1, f1 := p.Decide(s[0], s[1])
		a2, r2, f2 := NewFighterPolicy().Decide(s[0], s[1])
		if a1 != a2 || r1 != r2 || f1 != f2 {
			t.Errorf("Decide not deterministic for %+v", s)
		}
	}
}
