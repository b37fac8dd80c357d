package combat

import (
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"skirmish/internal/util"
)

type RenderMode string

const (
	RenderNone  RenderMode = "none"
	RenderHuman RenderMode = "human"
)

func ParseRenderMode(s string) (RenderMode, error) {
	switch RenderMode(s) {
	case "", RenderNone:
		return RenderNone, nil
	case RenderHuman:
		return RenderHuman, nil
	}
	return "", fmt.Errorf("%w: %q (want none or human)", ErrInvalidRenderMode, s)
}

// Rand is the only source of randomness; it is consulted at reset.
type Rand interface {
	Float64() float64
}

type Phase int

const (
	PhaseUnreset Phase = iota
	PhaseOngoing
	PhaseConcluded
)

func (p Phase) String() string {
	switch p {
	case PhaseOngoing:
		return "ongoing"
	case PhaseConcluded:
		return "concluded"
	}
	return "unreset"
}

type Options struct {
	ArenaSize  float64
	RenderMode string
	Rogue      Profile
	Fighter    Profile
	// Trace receives human-mode rendering; stdout when nil.
	Trace io.Writer
	// Emit, when set, receives every event of the episode.
	Emit func(Event)
	// NewRand builds the random source for a seed; util.New when nil.
	NewRand func(seed int64) Rand
	// Rand is the initial source used until the first seeded reset.
	Rand Rand
}

type ResetOptions struct {
	Seed *int64
	// FighterPosition pins the fighter's start instead of drawing it.
	FighterPosition *float64
}

type Observation struct {
	RogueHealth     float64 `json:"rogue_health"`
	RoguePosition   float64 `json:"rogue_position"`
	FighterHealth   float64 `json:"fighter_health"`
	FighterPosition float64 `json:"fighter_position"`
}

func (o Observation) Vector() [4]float64 {
	return [4]float64{o.RogueHealth, o.RoguePosition, o.FighterHealth, o.FighterPosition}
}

type Info map[string]any

type StepResult struct {
	Observation Observation `json:"observation"`
	Reward      float64     `json:"reward"`
	Terminated  bool        `json:"terminated"`
	Truncated   bool        `json:"truncated"`
	Info        Info        `json:"info,omitempty"`
}

// Environment is the reset/step contract shared by Env and its wrappers.
type Environment interface {
	Reset(opts ResetOptions) (Observation, Info, error)
	Step(a Action) (StepResult, error)
}

// Env runs one skirmish episode at a time. It is not safe for concurrent use.
type Env struct {
	arena    Arena
	render   RenderMode
	rogueP   Profile
	fighterP Profile
	trace    io.Writer
	emit     func(Event)
	newRand  func(seed int64) Rand
	rng      Rand
	policy   *FighterPolicy

	rogue   Combatant
	fighter Combatant
	turn    int
	phase   Phase
	last    Outcome
}

// ValidArenaSize reports whether size is a finite positive length.
func ValidArenaSize(size float64) bool {
	return size > 0 && !math.IsNaN(size) && !math.IsInf(size, 0)
}

func New(opts Options) (*Env, error) {
	mode, err := ParseRenderMode(opts.RenderMode)
	if err != nil {
		return nil, err
	}
	size := opts.ArenaSize
	if size == 0 {
		size = DefaultArenaSize
	}
	if !ValidArenaSize(size) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArenaSize, size)
	}
	rogue, fighter := opts.Rogue, opts.Fighter
	if rogue == (Profile{}) {
		rogue = DefaultRogue()
	}
	if fighter == (Profile{}) {
		fighter = DefaultFighter()
	}
	for _, p := range []Profile{rogue, fighter} {
		if p.MaxHealth <= 0 || p.Speed < 0 {
			return nil, fmt.Errorf("%w: %s max_health=%v speed=%v", ErrInvalidProfile, p.Name, p.MaxHealth, p.Speed)
		}
	}
	e := &Env{
		arena:    Arena{Size: size},
		render:   mode,
		rogueP:   rogue,
		fighterP: fighter,
		trace:    opts.Trace,
		emit:     opts.Emit,
		newRand:  opts.NewRand,
		rng:      opts.Rand,
		policy:   NewFighterPolicy(),
	}
	if e.trace == nil {
		e.trace = os.Stdout
	}
	if e.emit == nil {
		e.emit = func(Event) {}
	}
	if e.newRand == nil {
		e.newRand = func(seed int64) Rand { return util.New(seed) }
	}
	if e.rng == nil {
		e.rng = util.New(time.Now().UnixNano())
	}
	return e, nil
}

func (e *Env) Arena() Arena           { return e.arena }
func (e *Env) Phase() Phase           { return e.phase }
func (e *Env) Turn() int              { return e.turn }
func (e *Env) Rogue() Combatant       { return e.rogue }
func (e *Env) Fighter() Combatant     { return e.fighter }
func (e *Env) LastOutcome() Outcome   { return e.last }
func (e *Env) ObservationSpace() Box  { return ObservationSpace(e.arena) }
func (e *Env) ActionSpace() Discrete  { return ActionSpace() }
func (e *Env) RenderMode() RenderMode { return e.render }

// SetEmitter replaces the event sink; nil discards events.
func (e *Env) SetEmitter(emit func(Event)) {
	if emit == nil {
		emit = func(Event) {}
	}
	e.emit = emit
}

func (e *Env) Reset(opts ResetOptions) (Observation, Info, error) {
	if opts.Seed != nil {
		e.rng = e.newRand(*opts.Seed)
	}
	start := e.rng.Float64() * e.arena.Size
	if opts.FighterPosition != nil {
		start = e.arena.Clamp(*opts.FighterPosition)
	}
	e.rogue = e.rogueP.Spawn(e.arena.Clamp(e.rogueP.Position))
	e.fighter = e.fighterP.Spawn(start)
	e.turn = 0
	e.phase = PhaseOngoing
	e.last = Outcome{}

	for _, c := range []Combatant{e.rogue, e.fighter} {
		e.emit(Event{T: 0, Type: "Spawn", Payload: map[string]any{
			"id": c.Name, "hp": c.Health, "max_hp": c.MaxHealth, "speed": c.Speed, "x": c.Position,
		}})
	}
	e.renderTurn(NoAction, NoAction)
	return e.observe(), Info{}, nil
}

// Step runs one turn: the rogue acts, then the fighter if it still stands, then
// the turn is scored.
func (e *Env) Step(a Action) (StepResult, error) {
	switch e.phase {
	case PhaseUnreset:
		return StepResult{}, ErrNotReset
	case PhaseConcluded:
		return StepResult{}, ErrEpisodeConcluded
	}
	if !a.Valid() {
		return StepResult{}, &InvalidActionError{Action: a}
	}
	e.turn++

	rogue, fighter, effective := ResolveRogue(a, e.rogue, e.fighter, e.arena)
	e.emitAction(e.rogue, a, effective, rogue, fighter)
	e.rogue, e.fighter = rogue, fighter

	before := e.fighter
	fa, rogue, fighter := e.policy.Decide(e.rogue, e.fighter)
	if fa != NoAction {
		e.emitAction(before, fa, true, rogue, fighter)
	}
	e.rogue, e.fighter = rogue, fighter

	out := Evaluate(e.rogue, e.fighter)
	e.last = out
	e.emit(Event{T: e.turn, Type: "Turn", Payload: map[string]any{
		"rogue_action": a.String(), "fighter_action": fa.String(),
		"rogue_hp": e.rogue.Health, "rogue_x": e.rogue.Position,
		"fighter_hp": e.fighter.Health, "fighter_x": e.fighter.Position,
	}})
	if out.Terminated {
		e.phase = PhaseConcluded
		e.emit(Event{T: e.turn, Type: "End", Payload: map[string]any{
			"result": out.Result.String(), "reward": out.Reward,
		}})
	}
	e.renderTurn(a, fa)

	return StepResult{
		Observation: e.observe(),
		Reward:      out.Reward,
		Terminated:  out.Terminated,
		Info: Info{
			"turn":           e.turn,
			"rogue_action":   a.String(),
			"fighter_action": fa.String(),
		},
	}, nil
}

func (e *Env) observe() Observation {
	return Observation{
		RogueHealth:     e.rogue.Health,
		RoguePosition:   e.rogue.Position,
		FighterHealth:   e.fighter.Health,
		FighterPosition: e.fighter.Position,
	}
}

func (e *Env) emitAction(actor Combatant, a Action, effective bool, rogue, fighter Combatant) {
	e.emit(Event{T: e.turn, Type: "Action", Payload: map[string]any{
		"id": actor.Name, "action": a.String(), "effective": effective,
		"rogue_hp": rogue.Health, "fighter_hp": fighter.Health,
		"rogue_x": rogue.Position, "fighter_x": fighter.Position,
	}})
}
