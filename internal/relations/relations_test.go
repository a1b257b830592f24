package relations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/hearth/internal/agents"
	"github.com/talgya/hearth/internal/config"
)

func TestNewAcquaintance(t *testing.T) {
	f := newFixture(t)
	owner, subject := pair()

	a, err := NewAcquaintance(f.env, owner, subject, nil)
	require.NoError(t, err)

	assert.Equal(t, KindAcquaintance, a.Kind())
	assert.Same(t, a, f.env.Ledgers.Current(owner.ID, subject.ID))
	assert.Nil(t, f.env.Ledgers.Current(subject.ID, owner.ID), "each owner's ledger is independent")
	assert.True(t, a.Current())
	assert.Nil(t, a.PrecededBy)

	require.NotNil(t, a.WhereTheyMet)
	require.NotNil(t, a.WhenTheyMet)
	assert.Equal(t, owner.Position, *a.WhereTheyMet)
	assert.Equal(t, f.tick, *a.WhenTheyMet)

	assert.Equal(t, Compatibility(owner.Personality, subject.Personality), a.Compatibility)
	assert.Equal(t, a.Charge.Increment, a.Charge.Value)
	assert.Equal(t, a.Spark.Increment, a.Spark.Value)

	assert.True(t, f.minds.HasModel(owner.ID, subject.ID), "meeting forms a mental model")
}

func TestNewAcquaintanceRejectsBadInput(t *testing.T) {
	f := newFixture(t)
	owner, subject := pair()

	_, err := NewAcquaintance(f.env, owner, owner, nil)
	assert.ErrorIs(t, err, ErrSelfRelationship)

	_, err = NewAcquaintance(&Env{Ledgers: NewLedgers()}, owner, subject, nil)
	assert.ErrorIs(t, err, ErrNoConfig)

	_, err = NewAcquaintance(&Env{Config: f.cfg}, owner, subject, nil)
	assert.ErrorIs(t, err, ErrNoLedgers)

	first, err := NewAcquaintance(f.env, owner, subject, nil)
	require.NoError(t, err)
	_, err = NewAcquaintance(f.env, owner, subject, nil)
	assert.ErrorIs(t, err, ErrAlreadyRelated)
	assert.Same(t, first, f.env.Ledgers.Current(owner.ID, subject.ID), "failed construction leaves ledger alone")
}

func TestMentalModelFollowsAcquaintanceOnly(t *testing.T) {
	f := newFixture(t)
	owner, subject := pair()

	a, err := NewAcquaintance(f.env, owner, subject, nil)
	require.NoError(t, err)
	a.Charge = Charge{Increment: 0, Value: 0}

	_, err = a.Progress(f.env)
	require.NoError(t, err)
	model := f.minds.Model(owner.ID, subject.ID)
	require.NotNil(t, model)
	assert.Equal(t, 2, model.Folded, "progressing an acquaintance folds in a fresh observation")

	a.Charge.Value = 100
	next, err := a.Progress(f.env)
	require.NoError(t, err)
	require.IsType(t, &Friendship{}, next)
	folded := model.Folded

	_, err = next.(*Friendship).Progress(f.env)
	require.NoError(t, err)
	assert.Equal(t, folded, model.Folded, "friendships do not touch the mental model")
}

func TestExistingMentalModelIsBuiltUp(t *testing.T) {
	f := newFixture(t)
	owner, subject := pair()

	// Owner heard about subject before meeting them.
	pre := f.minds.Create(owner.ID, f.minds.Observe(subject, owner, 1))

	_, err := NewAcquaintance(f.env, owner, subject, nil)
	require.NoError(t, err)
	assert.Same(t, pre, f.minds.Model(owner.ID, subject.ID))
	assert.Equal(t, 2, pre.Folded)
}

func TestThresholdDeterminism(t *testing.T) {
	t.Run("crosses friendship", func(t *testing.T) {
		f := newFixture(t)
		owner, subject := pair()
		a, err := NewAcquaintance(f.env, owner, subject, nil)
		require.NoError(t, err)
		a.Charge = Charge{Increment: 1.5, Value: 4.0}

		next, err := a.Progress(f.env)
		require.NoError(t, err)
		assert.InDelta(t, 5.5, a.Charge.Value, 1e-12)

		fr, ok := next.(*Friendship)
		require.True(t, ok, "expected a friendship, got %T", next)
		assert.InDelta(t, 5.5, fr.Charge.Value, 1e-12)
		assert.Equal(t, 1.5, fr.Charge.Increment)
	})

	t.Run("no transition", func(t *testing.T) {
		f := newFixture(t)
		owner, subject := pair()
		a, err := NewAcquaintance(f.env, owner, subject, nil)
		require.NoError(t, err)
		a.Charge = Charge{Increment: -2.0, Value: 4.0}

		next, err := a.Progress(f.env)
		require.NoError(t, err)
		assert.Nil(t, next)
		assert.InDelta(t, 2.0, a.Charge.Value, 1e-12)
		assert.Same(t, a, f.env.Ledgers.Current(owner.ID, subject.ID))
	})

	t.Run("crosses enmity", func(t *testing.T) {
		f := newFixture(t)
		owner, subject := pair()
		a, err := NewAcquaintance(f.env, owner, subject, nil)
		require.NoError(t, err)
		a.Charge = Charge{Increment: -2.0, Value: -4.0}

		next, err := a.Progress(f.env)
		require.NoError(t, err)
		assert.IsType(t, &Enmity{}, next)
	})
}

func TestAgeGapDampsCharge(t *testing.T) {
	f := newFixture(t)
	owner := person(1, agents.SexMale, 20)
	subject := person(2, agents.SexFemale, 50)

	a, err := NewAcquaintance(f.env, owner, subject, nil)
	require.NoError(t, err)
	a.Charge = Charge{Increment: 1, Value: 0}

	_, err = a.Progress(f.env)
	require.NoError(t, err)
	want := f.cfg.AgeDifferenceEffect(20, 50)
	assert.InDelta(t, want, a.Charge.Value, 1e-12)
	assert.Less(t, a.Charge.Value, 1.0)
}

func TestSparkDecayMonotonic(t *testing.T) {
	f := newFixture(t)
	owner, subject := pair()
	a, err := NewAcquaintance(f.env, owner, subject, nil)
	require.NoError(t, err)
	a.Charge = Charge{} // stay an acquaintance
	a.Spark = Spark{Increment: 0.8, Value: 0.8}

	prev := a.Spark.Increment
	for i := 0; i < 60; i++ {
		_, err := a.Progress(f.env)
		require.NoError(t, err)
		assert.Less(t, a.Spark.Increment, prev, "step %d", i)
		assert.Greater(t, a.Spark.Increment, 0.0, "sign never flips")
		prev = a.Spark.Increment
	}
	assert.InDelta(t, 0.8*pow(0.9, 60), a.Spark.Increment, 1e-12)

	a.Spark = Spark{Increment: -0.5}
	prevAbs := 0.5
	for i := 0; i < 20; i++ {
		_, err := a.Progress(f.env)
		require.NoError(t, err)
		assert.Less(t, a.Spark.Increment, 0.0)
		assert.Less(t, -a.Spark.Increment, prevAbs)
		prevAbs = -a.Spark.Increment
	}
}

func TestFamilyAndAttractionZeroSpark(t *testing.T) {
	lively := agents.Personality{Openness: 1, Conscientiousness: 1, Extroversion: 1, Agreeableness: 1, Neuroticism: -1}

	f := newFixture(t)
	owner, cousin := pair()
	cousin.Personality = lively
	owner.AddFamily(cousin.ID)
	a, err := NewAcquaintance(f.env, owner, cousin, nil)
	require.NoError(t, err)
	assert.Zero(t, a.Spark.Increment)
	assert.Zero(t, a.Spark.Value)

	stranger := person(3, agents.SexMale, 30)
	stranger.Personality = lively
	b, err := NewAcquaintance(f.env, owner, stranger, nil)
	require.NoError(t, err)
	assert.Zero(t, b.Spark.Increment, "owner is not attracted to men")
	assert.Zero(t, b.Spark.Value)
}

func TestKinshipPrecedence(t *testing.T) {
	f := newFixture(t)
	child := person(1, agents.SexFemale, 9)
	mother := person(2, agents.SexFemale, 35)
	child.AddFamily(mother.ID)

	k, err := NewKinship(f.env, child, mother, "mother")
	require.NoError(t, err)
	assert.Same(t, k, f.env.Ledgers.Current(child.ID, mother.ID))
	assert.Nil(t, k.WhereTheyMet)
	assert.Nil(t, k.WhenTheyMet)
	assert.False(t, k.Met())

	f.tick = 777
	child.Position.Q = 4
	a, err := NewAcquaintance(f.env, child, mother, k)
	require.NoError(t, err)

	assert.Same(t, k, a.PrecededBy)
	assert.Same(t, a, k.SucceededBy)
	assert.Same(t, a, f.env.Ledgers.Current(child.ID, mother.ID))
	require.NotNil(t, a.WhereTheyMet)
	assert.Equal(t, child.Position, *a.WhereTheyMet)
	assert.Equal(t, uint64(777), *a.WhenTheyMet)
	assert.Nil(t, k.WhereTheyMet, "the kinship keeps its unset meeting fields")
	assert.Zero(t, a.Spark.Increment, "no spark toward family")
	require.NoError(t, Verify(a))

	_, err = NewAcquaintance(f.env, child, mother, k)
	assert.ErrorIs(t, err, ErrAlreadySucceeded)
}

func TestNewKinshipRejects(t *testing.T) {
	f := newFixture(t)
	owner, subject := pair()

	_, err := NewKinship(f.env, owner, subject, "")
	assert.ErrorIs(t, err, ErrInvalidLabel)

	_, err = NewAcquaintance(f.env, owner, subject, nil)
	require.NoError(t, err)
	_, err = NewKinship(f.env, owner, subject, "cousin")
	assert.ErrorIs(t, err, ErrAlreadyRelated)
}

func TestKinshipOfAnotherPairCannotPrecede(t *testing.T) {
	f := newFixture(t)
	owner, subject := pair()
	other := person(3, agents.SexMale, 40)

	k, err := NewKinship(f.env, owner, other, "brother")
	require.NoError(t, err)
	_, err = NewAcquaintance(f.env, owner, subject, k)
	assert.ErrorIs(t, err, ErrPairMismatch)
}

func TestTransitionSideEffects(t *testing.T) {
	f := newFixture(t)
	owner, subject := pair()
	a, err := NewAcquaintance(f.env, owner, subject, nil)
	require.NoError(t, err)
	a.Charge = Charge{Increment: 2, Value: 4}

	f.tick = 200
	next, err := a.Progress(f.env)
	require.NoError(t, err)
	fr := next.(*Friendship)

	assert.Same(t, a, fr.PrecededBy)
	assert.Same(t, fr, a.SucceededBy)
	assert.Nil(t, fr.SucceededBy)
	assert.Same(t, fr, f.env.Ledgers.Current(owner.ID, subject.ID))
	assert.Equal(t, a.Charge, fr.Charge, "charge carries over verbatim")
	assert.Same(t, a.WhereTheyMet, fr.WhereTheyMet)
	assert.Same(t, a.WhenTheyMet, fr.WhenTheyMet)
	assert.Equal(t, uint64(200), fr.FormedAt)
	assert.NotEqual(t, a.ID, fr.ID)
}

func TestProgressSupersededRecordFails(t *testing.T) {
	f := newFixture(t)
	owner, subject := pair()
	a, err := NewAcquaintance(f.env, owner, subject, nil)
	require.NoError(t, err)
	a.Charge = Charge{Increment: 3, Value: 4}

	next, err := a.Progress(f.env)
	require.NoError(t, err)
	require.NotNil(t, next)

	before := *a
	_, err = a.Progress(f.env)
	assert.ErrorIs(t, err, ErrSuperseded)
	assert.Equal(t, before.Charge, a.Charge, "stale progress mutates nothing")
	assert.Equal(t, before.Spark, a.Spark)
	assert.Same(t, next, a.SucceededBy)
	assert.Same(t, next, f.env.Ledgers.Current(owner.ID, subject.ID))
}

func TestRepeatedSameTypeTransitions(t *testing.T) {
	f := newFixture(t)
	owner, subject := pair()
	a, err := NewAcquaintance(f.env, owner, subject, nil)
	require.NoError(t, err)
	a.Charge = Charge{Increment: 1, Value: 10}

	var cur Progressor = a
	for i := 0; i < 5; i++ {
		next, err := cur.Progress(f.env)
		require.NoError(t, err)
		require.IsType(t, &Friendship{}, next)
		cur = next.(Progressor)
	}

	chain := History(a)
	require.Len(t, chain, 6)
	for _, r := range chain[1:] {
		assert.Equal(t, KindFriendship, r.Kind())
	}
	charge, _ := ChargeOf(cur)
	assert.InDelta(t, 15.0, charge.Value, 1e-12)
	require.NoError(t, Verify(cur))
}

func TestFriendshipCanTurnToEnmity(t *testing.T) {
	f := newFixture(t)
	owner, subject := pair()
	a, err := NewAcquaintance(f.env, owner, subject, nil)
	require.NoError(t, err)
	a.Charge = Charge{Increment: 1, Value: 5}

	next, err := a.Progress(f.env)
	require.NoError(t, err)
	fr := next.(*Friendship)

	fr.Charge = Charge{Increment: -12, Value: 6}
	next, err = fr.Progress(f.env)
	require.NoError(t, err)
	en, ok := next.(*Enmity)
	require.True(t, ok)
	assert.InDelta(t, -6.0, en.Charge.Value, 1e-12)
	require.NoError(t, Verify(en))
}

func TestBondConstructorsRequireValidPredecessor(t *testing.T) {
	f := newFixture(t)
	owner, subject := pair()

	_, err := NewFriendship(f.env, owner, subject, nil)
	assert.ErrorIs(t, err, ErrNoPredecessor)

	var typedNil *Acquaintance
	_, err = NewEnmity(f.env, owner, subject, typedNil)
	assert.ErrorIs(t, err, ErrNoPredecessor)

	k, err := NewKinship(f.env, owner, subject, "wife")
	require.NoError(t, err)
	_, err = NewFriendship(f.env, owner, subject, k)
	assert.ErrorIs(t, err, ErrInvalidPredecessor)

	a, err := NewAcquaintance(f.env, owner, subject, k)
	require.NoError(t, err)
	other := person(9, agents.SexMale, 30)
	_, err = NewEnmity(f.env, owner, other, a)
	assert.ErrorIs(t, err, ErrPairMismatch)

	fr, err := NewFriendship(f.env, owner, subject, a)
	require.NoError(t, err)
	_, err = NewEnmity(f.env, owner, subject, a)
	assert.ErrorIs(t, err, ErrAlreadySucceeded)
	assert.Same(t, fr, a.SucceededBy, "a successor is assigned at most once")
}

func TestHooksSeeEveryConstruction(t *testing.T) {
	f := newFixture(t)
	var seen []Kind
	f.env.Hooks = append(f.env.Hooks, func(rec Record) {
		assert.Same(t, rec, f.env.Ledgers.Current(rec.Base().Owner.ID, rec.Base().Subject.ID),
			"hooks run after registration")
		seen = append(seen, rec.Kind())
	})

	owner, subject := pair()
	k, err := NewKinship(f.env, owner, subject, "husband")
	require.NoError(t, err)
	a, err := NewAcquaintance(f.env, owner, subject, k)
	require.NoError(t, err)
	a.Charge = Charge{Increment: -1, Value: -5}
	_, err = a.Progress(f.env)
	require.NoError(t, err)

	assert.Equal(t, []Kind{KindKinship, KindAcquaintance, KindEnmity}, seen)
}

// No path out of Friendship or Enmity leads back to Acquaintance or Kinship,
// whatever the tuning and personalities.
func TestNoReversion(t *testing.T) {
	increments := []float64{-3, -1.2, -0.4, 0.3, 1.1, 2.5}
	for _, inc := range increments {
		for _, flip := range []float64{-1, 1} {
			f := newFixture(t)
			owner, subject := pair()
			a, err := NewAcquaintance(f.env, owner, subject, nil)
			require.NoError(t, err)
			a.Charge = Charge{Increment: inc, Value: inc}

			var cur Progressor = a
			leftAcquaintance := false
			for step := 0; step < 40; step++ {
				if step == 20 {
					// Swing the other way to force type changes.
					c := chargeRef(cur)
					c.Increment = flip * 2 * -c.Increment
				}
				next, err := cur.Progress(f.env)
				require.NoError(t, err)
				if next == nil {
					continue
				}
				if leftAcquaintance {
					assert.NotEqual(t, KindAcquaintance, next.Kind())
					assert.NotEqual(t, KindKinship, next.Kind())
				}
				if next.Kind() == KindFriendship || next.Kind() == KindEnmity {
					leftAcquaintance = true
				}
				cur = next.(Progressor)
			}
			require.NoError(t, Verify(cur))
		}
	}
}

func TestDefaultsProgressWithoutError(t *testing.T) {
	cfg := config.DefaultSimulation()
	env := &Env{Config: &cfg, Ledgers: NewLedgers()}
	owner, subject := pair()
	owner.Personality = agents.Personality{Extroversion: 0.9, Agreeableness: 0.4, Openness: 0.2}
	subject.Personality = owner.Personality

	a, err := NewAcquaintance(env, owner, subject, nil)
	require.NoError(t, err)

	var cur Progressor = a
	for i := 0; i < 100; i++ {
		next, err := cur.Progress(env)
		require.NoError(t, err)
		if next != nil {
			cur = next.(Progressor)
		}
	}
	assert.Equal(t, KindFriendship, cur.Kind(), "similar extroverts become friends")
}

func TestDefaultsReachEnmityForIncompatiblePair(t *testing.T) {
	cfg := config.DefaultSimulation()
	env := &Env{Config: &cfg, Ledgers: NewLedgers()}
	owner, subject := pair()
	owner.Personality = agents.Personality{Openness: 1, Extroversion: -1, Agreeableness: 1}
	subject.Personality = agents.Personality{Openness: -1, Extroversion: 1, Agreeableness: -1}

	a, err := NewAcquaintance(env, owner, subject, nil)
	require.NoError(t, err)
	require.Less(t, a.Charge.Increment, 0.0)

	var cur Progressor = a
	for i := 0; i < 100; i++ {
		next, err := cur.Progress(env)
		require.NoError(t, err)
		if next != nil {
			cur = next.(Progressor)
		}
	}
	assert.Equal(t, KindEnmity, cur.Kind(), "a withdrawn owner facing a disagreeable opposite ends in enmity")
}

func chargeRef(p Progressor) *Charge {
	switch r := p.(type) {
	case *Acquaintance:
		return &r.Charge
	case *Friendship:
		return &r.Charge
	case *Enmity:
		return &r.Charge
	}
	return nil
}

func pow(x float64, n int) float64 {
	out := 1.0
	for i := 0; i < n; i++ {
		out *= x
	}
	return out
}
