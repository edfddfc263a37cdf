package battle

import (
	"strings"
	"testing"
)

func validHitEffect() *Effect {
	return &Effect{
		Name:    "TestHit",
		Domains: DomainSlot | DomainMon | DomainTransient,
		Action:  Seq(OpCheckAccuracy(), OpCalculateDamage(), OpApplyDamage(), OpCheckFaint()),
	}
}

func TestEffectValidate_HitChain(t *testing.T) {
	if err := validHitEffect().Validate(); err != nil {
		t.Fatalf("Baseline hit should validate: %v", err)
	}
}

func TestEffectValidate_DomainViolation(t *testing.T) {
	eff := &Effect{
		Name:    "BadDomains",
		Domains: DomainSlot, // SetWeather touches Field
		Action:  Seq(OpSetWeather(WeatherRain)),
	}
	err := eff.Validate()
	if err == nil {
		t.Fatal("Expected a domain violation")
	}
	if !strings.Contains(err.Error(), "outside declared domains") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestEffectValidate_NonMonotonicChain(t *testing.T) {
	// CalculateDamage needs AccuracyResolved but the pipeline is at Genesis.
	eff := &Effect{
		Name:    "NoAccuracy",
		Domains: DomainSlot | DomainMon | DomainTransient,
		Action:  Seq(OpCalculateDamage(), OpApplyDamage()),
	}
	err := eff.Validate()
	if err == nil {
		t.Fatal("Expected a stage-order violation")
	}
	if !strings.Contains(err.Error(), "needs stage") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestEffectValidate_MatchMustConverge(t *testing.T) {
	eff := &Effect{
		Name:    "Diverging",
		Domains: DomainSlot | DomainMon | DomainTransient,
		Action: Match(StageFaintChecked,
			Branch{Name: "charge", When: WhenNotCharging, Do: OpBeginCharge(false)},
			// Default ends at EffectApplied, not the declared convergence.
			Branch{Name: "wrong", Do: OpSetMagicCoat()},
		),
	}
	err := eff.Validate()
	if err == nil {
		t.Fatal("Expected a convergence violation")
	}
	if !strings.Contains(err.Error(), "declared convergence") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestEffectValidate_MatchNeedsDefault(t *testing.T) {
	eff := &Effect{
		Name:    "NoDefault",
		Domains: DomainSlot,
		Action: Match(StageFaintChecked,
			Branch{Name: "only", When: WhenNotCharging, Do: OpBeginCharge(false)},
		),
	}
	if err := eff.Validate(); err == nil {
		t.Fatal("Expected a missing-default error")
	}
}

func TestEffectValidate_EmptyAction(t *testing.T) {
	eff := &Effect{Name: "Empty", Domains: DomainAll}
	if err := eff.Validate(); err == nil {
		t.Fatal("Empty effect should not validate")
	}
	eff.Action = Seq()
	if err := eff.Validate(); err == nil {
		t.Fatal("Empty sequence should not validate")
	}
}

func TestEffectValidate_RepeatBody(t *testing.T) {
	eff := &Effect{
		Name:    "Repeated",
		Domains: DomainSlot | DomainMon | DomainTransient,
		Action: Repeat(3,
			Seq(OpCheckAccuracy(), OpCalculateDamage(), OpApplyDamage(), OpCheckFaint())),
	}
	if err := eff.Validate(); err != nil {
		t.Fatalf("Repeated hit chain should validate: %v", err)
	}
}

func TestDomainMaskCovers(t *testing.T) {
	m := DomainSlot | DomainMon
	if !m.Covers(DomainSlot) || !m.Covers(DomainSlot|DomainMon) {
		t.Error("Covers should accept subsets")
	}
	if m.Covers(DomainField) || m.Covers(DomainSlot|DomainField) {
		t.Error("Covers should reject supersets")
	}
}

func TestMatchRunsFirstMatchingBranch(t *testing.T) {
	f := newFixture(nil)

	ran := ""
	mark := func(name string) *Op {
		return &Op{
			name: name, domains: DomainSlot,
			in: StageGenesis, out: StageEffectApplied,
			run: func(*Context) { ran = name },
		}
	}

	m := Match(StageEffectApplied,
		Branch{Name: "charging", When: func(ctx *Context) bool { return ctx.Attacker.HasVolatile(VolCharging) }, Do: mark("charging")},
		Branch{Name: "default", Do: mark("default")},
	)

	m.Run(&f.ctx)
	if ran != "default" {
		t.Errorf("Expected default branch, ran %q", ran)
	}

	f.slots[0].SetVolatile(VolCharging)
	m.Run(&f.ctx)
	if ran != "charging" {
		t.Errorf("Expected charging branch, ran %q", ran)
	}
}

func TestRepeatExposesIteration(t *testing.T) {
	f := newFixture(nil)

	var seen []int
	op := &Op{
		name: "recordIteration", domains: DomainTransient,
		in: StageGenesis, out: StageGenesis,
		run: func(ctx *Context) { seen = append(seen, ctx.Iteration) },
	}

	Repeat(3, op).Run(&f.ctx)
	if len(seen) != 3 || seen[0] != 0 || seen[2] != 2 {
		t.Errorf("Iterations seen: %v", seen)
	}
}

func TestRepeatWhileStopsEarly(t *testing.T) {
	f := newFixture(nil)

	count := 0
	op := &Op{
		name: "count", domains: DomainTransient,
		in: StageGenesis, out: StageGenesis,
		run: func(*Context) { count++ },
	}

	RepeatWhile(5, func(*Context) bool { return count < 2 }, op, StageGenesis).Run(&f.ctx)
	if count != 2 {
		t.Errorf("Expected 2 passes, got %d", count)
	}
}
