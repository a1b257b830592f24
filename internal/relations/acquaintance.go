package relations

import (
	"fmt"

	"github.com/talgya/hearth/internal/agents"
)

// NewAcquaintance records owner meeting subject in person for the first time.
// precededBy is the pair's current Kinship, or nil for strangers. The meeting
// place and time are captured here and inherited by every successor.
//
// Compatibility, the charge increment and the initial spark increment are
// computed once; charge and spark start at their increments. The record is
// registered as owner's current record about subject, then owner forms or
// builds up a mental model of subject.
func NewAcquaintance(env *Env, owner, subject *agents.Agent, precededBy *Kinship) (*Acquaintance, error) {
	if err := env.check(); err != nil {
		return nil, err
	}
	if err := checkPair(owner, subject); err != nil {
		return nil, fmt.Errorf("new acquaintance: %w", err)
	}

	cur := env.Ledgers.Current(owner.ID, subject.ID)
	if precededBy == nil {
		if cur != nil {
			return nil, fmt.Errorf("new acquaintance %d→%d over %s: %w",
				owner.ID, subject.ID, cur.Kind(), ErrAlreadyRelated)
		}
	} else {
		if err := checkPredecessor(precededBy, owner, subject); err != nil {
			return nil, fmt.Errorf("new acquaintance: %w", err)
		}
		if cur != Record(precededBy) {
			return nil, fmt.Errorf("new acquaintance %d→%d: kinship is not current: %w",
				owner.ID, subject.ID, ErrAlreadyRelated)
		}
	}

	now := env.now()
	where := owner.Position
	when := now

	a := &Acquaintance{Link: newLink(owner, subject, now)}
	a.WhereTheyMet = &where
	a.WhenTheyMet = &when
	a.Compatibility = Compatibility(owner.Personality, subject.Personality)
	a.Charge.Increment = ChargeIncrement(env.Config, owner, subject, a.Compatibility)
	a.Charge.Value = a.Charge.Increment
	a.Spark.Increment = InitialSparkIncrement(env.Config, owner, subject)
	a.Spark.Value = a.Spark.Increment

	if precededBy != nil {
		a.PrecededBy = precededBy
		precededBy.SucceededBy = a
	}
	if err := env.register(a); err != nil {
		return nil, fmt.Errorf("new acquaintance: %w", err)
	}
	env.formOrBuildUpMentalModel(owner, subject)
	return a, nil
}

// Progress advances the acquaintance by one time step together:
//   - charge grows by its increment, damped by the age gap;
//   - the spark increment decays, then spark grows by it, damped by the age gap;
//   - owner takes a fresh observation of subject into their mental model;
//   - if charge is above the friendship threshold a Friendship supersedes the
//     acquaintance, else if below the enmity threshold an Enmity does.
//
// The successor, if any, is returned. Progressing a superseded record fails
// with ErrSuperseded and changes nothing.
func (a *Acquaintance) Progress(env *Env) (Record, error) {
	if err := env.check(); err != nil {
		return nil, err
	}
	if !a.Current() {
		return nil, staleError(a)
	}

	ageEffect := env.AgeEffect(a.Owner, a.Subject)
	a.Charge.Value += a.Charge.Increment * ageEffect

	a.Spark.Increment *= env.Config.SparkDecayRate
	a.Spark.Value += a.Spark.Increment * ageEffect

	env.formOrBuildUpMentalModel(a.Owner, a.Subject)

	return transition(env, a, a.Charge)
}
