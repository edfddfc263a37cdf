package battle

import (
	"fmt"
)

// PipelineStage is one point of the strict total order every move pipeline
// advances through. An op declares the stage it may run at (input) and the
// stage the pipeline holds afterwards (output); later stages may be reached
// without the ones in between running when the skipped state is irrelevant.
type PipelineStage uint8

const (
	StageGenesis PipelineStage = iota
	StageAccuracyResolved
	StageDamageCalculated
	StageDamageApplied
	StageEffectApplied
	StageFaintChecked
	StageTerminus
)

var pipelineStageNames = [...]string{
	"GENESIS", "ACCURACY_RESOLVED", "DAMAGE_CALCULATED",
	"DAMAGE_APPLIED", "EFFECT_APPLIED", "FAINT_CHECKED", "TERMINUS",
}

func (s PipelineStage) String() string {
	if int(s) < len(pipelineStageNames) {
		return pipelineStageNames[s]
	}
	return fmt.Sprintf("STAGE_%d", uint8(s))
}

// DomainMask declares which state scopes an op or effect may touch.
type DomainMask uint8

const (
	DomainField DomainMask = 1 << iota
	DomainSide
	DomainSlot
	DomainMon
	DomainTransient

	// DomainAll is a convenience mask for effects that sweep everything.
	DomainAll = DomainField | DomainSide | DomainSlot | DomainMon | DomainTransient
)

func (m DomainMask) String() string {
	names := []struct {
		bit  DomainMask
		name string
	}{
		{DomainField, "FIELD"}, {DomainSide, "SIDE"}, {DomainSlot, "SLOT"},
		{DomainMon, "MON"}, {DomainTransient, "TRANSIENT"},
	}
	out := ""
	for _, n := range names {
		if m&n.bit != 0 {
			if out != "" {
				out += "|"
			}
			out += n.name
		}
	}
	if out == "" {
		return "NONE"
	}
	return out
}

// Covers reports whether m grants every scope in sub.
func (m DomainMask) Covers(sub DomainMask) bool {
	return m&sub == sub
}

// Action is a unit of a move pipeline: a single op, or a composition of
// them. Compositions declare the union of their parts' domains and the
// stage window they occupy; Validate enforces both before any battle runs.
type Action interface {
	// Domains is the union of state scopes the action touches.
	Domains() DomainMask
	// InputStage is the latest stage the pipeline must have reached before
	// the action may run.
	InputStage() PipelineStage
	// OutputStage is the stage the pipeline holds after the action runs.
	OutputStage() PipelineStage
	// Run executes the action against the context.
	Run(ctx *Context)
}

// Predicate inspects the context to steer Match and RepeatWhile.
type Predicate func(ctx *Context) bool

// Op is the smallest state-mutating building block.
type Op struct {
	name    string
	domains DomainMask
	in, out PipelineStage
	run     func(ctx *Context)
}

// Domains implements Action.
func (o *Op) Domains() DomainMask { return o.domains }

// InputStage implements Action.
func (o *Op) InputStage() PipelineStage { return o.in }

// OutputStage implements Action.
func (o *Op) OutputStage() PipelineStage { return o.out }

// Run implements Action.
func (o *Op) Run(ctx *Context) { o.run(ctx) }

func (o *Op) String() string { return o.name }

// Sequence runs its actions in order.
type Sequence struct {
	actions []Action
}

// Seq composes actions into a sequence. Stage monotonicity across the
// members is checked by Effect validation, not here.
func Seq(actions ...Action) *Sequence {
	return &Sequence{actions: actions}
}

// Domains implements Action as the union of member domains.
func (s *Sequence) Domains() DomainMask {
	var m DomainMask
	for _, a := range s.actions {
		m |= a.Domains()
	}
	return m
}

// InputStage implements Action.
func (s *Sequence) InputStage() PipelineStage {
	if len(s.actions) == 0 {
		return StageGenesis
	}
	return s.actions[0].InputStage()
}

// OutputStage implements Action.
func (s *Sequence) OutputStage() PipelineStage {
	if len(s.actions) == 0 {
		return StageGenesis
	}
	return s.actions[len(s.actions)-1].OutputStage()
}

// Run implements Action.
func (s *Sequence) Run(ctx *Context) {
	for _, a := range s.actions {
		a.Run(ctx)
	}
}

// Branch is one arm of a Match. A nil predicate marks the default arm.
type Branch struct {
	Name string
	When Predicate
	Do   Action
}

// MatchAction evaluates its branches in order and executes the first whose
// predicate holds. All branches converge to the same declared stage.
type MatchAction struct {
	converge PipelineStage
	branches []Branch
}

// Match builds a branch action converging at the given stage. The last
// branch must be a default (nil predicate); validation rejects otherwise.
func Match(converge PipelineStage, branches ...Branch) *MatchAction {
	return &MatchAction{converge: converge, branches: branches}
}

// Domains implements Action as the union of branch domains.
func (m *MatchAction) Domains() DomainMask {
	var d DomainMask
	for _, b := range m.branches {
		d |= b.Do.Domains()
	}
	return d
}

// InputStage implements Action. Every branch must be runnable when the
// match is entered, so the requirement is the strictest branch input.
func (m *MatchAction) InputStage() PipelineStage {
	var in PipelineStage
	for _, b := range m.branches {
		if b.Do.InputStage() > in {
			in = b.Do.InputStage()
		}
	}
	return in
}

// OutputStage implements Action.
func (m *MatchAction) OutputStage() PipelineStage { return m.converge }

// Run implements Action.
func (m *MatchAction) Run(ctx *Context) {
	for _, b := range m.branches {
		if b.When == nil || b.When(ctx) {
			b.Do.Run(ctx)
			return
		}
	}
}

// RepeatAction runs its body a fixed number of times, exposing the pass
// number through the context iteration counter.
type RepeatAction struct {
	count int
	body  Action
}

// Repeat builds a fixed-count repeat.
func Repeat(count int, body Action) *RepeatAction {
	return &RepeatAction{count: count, body: body}
}

// Domains implements Action.
func (r *RepeatAction) Domains() DomainMask { return r.body.Domains() }

// InputStage implements Action.
func (r *RepeatAction) InputStage() PipelineStage { return r.body.InputStage() }

// OutputStage implements Action.
func (r *RepeatAction) OutputStage() PipelineStage { return r.body.OutputStage() }

// Run implements Action.
func (r *RepeatAction) Run(ctx *Context) {
	for i := 0; i < r.count; i++ {
		ctx.Iteration = i
		r.body.Run(ctx)
	}
}

// RepeatWhileAction runs its body up to max times, stopping early when the
// predicate no longer holds before a pass.
type RepeatWhileAction struct {
	max      int
	while    Predicate
	body     Action
	converge PipelineStage
}

// RepeatWhile builds a bounded conditional repeat converging at the given
// stage.
func RepeatWhile(max int, while Predicate, body Action, converge PipelineStage) *RepeatWhileAction {
	return &RepeatWhileAction{max: max, while: while, body: body, converge: converge}
}

// Domains implements Action.
func (r *RepeatWhileAction) Domains() DomainMask { return r.body.Domains() }

// InputStage implements Action.
func (r *RepeatWhileAction) InputStage() PipelineStage { return r.body.InputStage() }

// OutputStage implements Action.
func (r *RepeatWhileAction) OutputStage() PipelineStage { return r.converge }

// Run implements Action.
func (r *RepeatWhileAction) Run(ctx *Context) {
	for i := 0; i < r.max; i++ {
		if !r.while(ctx) {
			break
		}
		ctx.Iteration = i
		r.body.Run(ctx)
	}
}

// Effect is a named composition of ops wrapping a declared domain mask.
// Effects are registered once at startup; Validate must pass before the
// engine accepts any action.
type Effect struct {
	Name    string
	Domains DomainMask
	Action  Action
}

// Validate enforces the structural guarantees of the pipeline:
//  1. every op's domain mask is covered by the effect's declared mask;
//  2. stage progression through each sequence is monotone non-decreasing;
//  3. all match branches converge to the declared stage, with a trailing
//     default branch;
//  4. the final stage is at most Terminus.
//
// A validation failure is a registration error and must prevent the engine
// from starting.
func (e *Effect) Validate() error {
	if e.Action == nil {
		return fmt.Errorf("effect %s: empty action", e.Name)
	}
	if _, err := e.validateAction(e.Action, StageGenesis); err != nil {
		return err
	}
	if out := e.Action.OutputStage(); out > StageTerminus {
		return fmt.Errorf("effect %s: final stage %s past terminus", e.Name, out)
	}
	return nil
}

// validateAction walks the composition from the given pipeline stage and
// returns the stage after the action.
func (e *Effect) validateAction(a Action, at PipelineStage) (PipelineStage, error) {
	if !e.Domains.Covers(a.Domains()) {
		return at, fmt.Errorf("effect %s (%s): action touches %s outside declared domains",
			e.Name, e.Domains, a.Domains())
	}

	switch v := a.(type) {
	case *Op:
		if v.in > at {
			return at, fmt.Errorf("effect %s: op %s needs stage %s but pipeline is at %s",
				e.Name, v.name, v.in, at)
		}
		// The pipeline never regresses: an op whose output lies behind the
		// current stage leaves the stage where it is.
		if v.out > at {
			at = v.out
		}
		return at, nil

	case *Sequence:
		if len(v.actions) == 0 {
			return at, fmt.Errorf("effect %s: empty sequence", e.Name)
		}
		cur := at
		for _, sub := range v.actions {
			next, err := e.validateAction(sub, cur)
			if err != nil {
				return at, err
			}
			cur = next
		}
		return cur, nil

	case *MatchAction:
		if len(v.branches) == 0 {
			return at, fmt.Errorf("effect %s: match with no branches", e.Name)
		}
		if v.branches[len(v.branches)-1].When != nil {
			return at, fmt.Errorf("effect %s: match has no default branch", e.Name)
		}
		for _, b := range v.branches {
			out, err := e.validateAction(b.Do, at)
			if err != nil {
				return at, err
			}
			if out != v.converge {
				return at, fmt.Errorf("effect %s: match branch %q ends at %s, declared convergence %s",
					e.Name, b.Name, out, v.converge)
			}
		}
		return v.converge, nil

	case *RepeatAction:
		if v.count <= 0 {
			return at, fmt.Errorf("effect %s: repeat count %d", e.Name, v.count)
		}
		// Each pass is its own sub-pipeline: the stage window resets to the
		// body's input at every iteration.
		out, err := e.validateAction(v.body, v.body.InputStage())
		if err != nil {
			return at, err
		}
		if v.body.InputStage() > at {
			return at, fmt.Errorf("effect %s: repeat body needs stage %s but pipeline is at %s",
				e.Name, v.body.InputStage(), at)
		}
		return out, nil

	case *RepeatWhileAction:
		if v.max <= 0 {
			return at, fmt.Errorf("effect %s: repeat-while max %d", e.Name, v.max)
		}
		if v.while == nil {
			return at, fmt.Errorf("effect %s: repeat-while without predicate", e.Name)
		}
		out, err := e.validateAction(v.body, v.body.InputStage())
		if err != nil {
			return at, err
		}
		if out != v.converge {
			return at, fmt.Errorf("effect %s: repeat-while body ends at %s, declared convergence %s",
				e.Name, out, v.converge)
		}
		if v.body.InputStage() > at {
			return at, fmt.Errorf("effect %s: repeat-while body needs stage %s but pipeline is at %s",
				e.Name, v.body.InputStage(), at)
		}
		return v.converge, nil

	default:
		return at, fmt.Errorf("effect %s: unknown action type %T", e.Name, a)
	}
}

// Standard predicates used by registered effects.

// WhenMissed holds when the accuracy check failed.
func WhenMissed(ctx *Context) bool { return ctx.Result.Missed }

// WhenHit holds when the accuracy check passed.
func WhenHit(ctx *Context) bool { return !ctx.Result.Missed }

// WhenDefenderAlive holds while the defender has HP left.
func WhenDefenderAlive(ctx *Context) bool { return !ctx.DefenderMon.IsFainted() }

// WhenNotCharging holds when the attacker has no charge turn in progress.
func WhenNotCharging(ctx *Context) bool { return !ctx.Attacker.HasVolatile(VolCharging) }

// WhenWeather returns a predicate matching the given field weather.
func WhenWeather(w Weather) Predicate {
	return func(ctx *Context) bool { return ctx.Field.Weather == w }
}
