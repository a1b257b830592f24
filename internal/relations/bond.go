package relations

import (
	"fmt"

	"github.com/talgya/hearth/internal/agents"
)

// NewFriendship supersedes precededBy with a Friendship. precededBy must be
// the pair's current Acquaintance, Friendship or Enmity; its charge and
// meeting details carry over unchanged.
func NewFriendship(env *Env, owner, subject *agents.Agent, precededBy Record) (*Friendship, error) {
	b, err := newBond(env, owner, subject, precededBy, KindFriendship)
	if err != nil {
		return nil, err
	}
	f := &Friendship{Bond: b}
	if err := supersede(env, f, precededBy); err != nil {
		return nil, err
	}
	return f, nil
}

// NewEnmity supersedes precededBy with an Enmity, under the same rules as
// NewFriendship.
func NewEnmity(env *Env, owner, subject *agents.Agent, precededBy Record) (*Enmity, error) {
	b, err := newBond(env, owner, subject, precededBy, KindEnmity)
	if err != nil {
		return nil, err
	}
	e := &Enmity{Bond: b}
	if err := supersede(env, e, precededBy); err != nil {
		return nil, err
	}
	return e, nil
}

// Progress moves charge by its increment, damped by the age gap, and
// supersedes the friendship when charge is past either threshold. Crossing
// the friendship threshold again yields a fresh Friendship. Spark and the
// mental model are not touched past the acquaintance stage.
func (f *Friendship) Progress(env *Env) (Record, error) {
	return progressBond(env, f, &f.Bond)
}

// Progress moves charge like Friendship.Progress. Staying below the enmity
// threshold yields a fresh Enmity each step.
func (e *Enmity) Progress(env *Env) (Record, error) {
	return progressBond(env, e, &e.Bond)
}

func progressBond(env *Env, self Record, b *Bond) (Record, error) {
	if err := env.check(); err != nil {
		return nil, err
	}
	if !b.Current() {
		return nil, staleError(self)
	}
	b.Charge.Value += b.Charge.Increment * env.AgeEffect(b.Owner, b.Subject)
	return transition(env, self, b.Charge)
}

// transition constructs the successor charge calls for, if any.
func transition(env *Env, self Record, c Charge) (Record, error) {
	base := self.Base()
	switch {
	case c.Value > env.Config.ChargeThresholdFriendship:
		return NewFriendship(env, base.Owner, base.Subject, self)
	case c.Value < env.Config.ChargeThresholdEnmity:
		return NewEnmity(env, base.Owner, base.Subject, self)
	}
	return nil, nil
}

// newBond validates precededBy and builds the shared fields of its successor.
// Nothing is mutated until supersede.
func newBond(env *Env, owner, subject *agents.Agent, precededBy Record, kind Kind) (Bond, error) {
	if err := env.check(); err != nil {
		return Bond{}, err
	}
	if err := checkPair(owner, subject); err != nil {
		return Bond{}, fmt.Errorf("new %s: %w", kind, err)
	}
	if isNilRecord(precededBy) {
		return Bond{}, fmt.Errorf("new %s %d→%d: %w", kind, owner.ID, subject.ID, ErrNoPredecessor)
	}
	charge, ok := ChargeOf(precededBy)
	if !ok {
		return Bond{}, fmt.Errorf("new %s from %s: %w", kind, precededBy.Kind(), ErrInvalidPredecessor)
	}
	if err := checkPredecessor(precededBy, owner, subject); err != nil {
		return Bond{}, fmt.Errorf("new %s: %w", kind, err)
	}

	prev := precededBy.Base()
	b := Bond{
		Link:   newLink(owner, subject, env.now()),
		Charge: charge,
	}
	b.PrecededBy = precededBy
	b.WhereTheyMet = prev.WhereTheyMet
	b.WhenTheyMet = prev.WhenTheyMet
	return b, nil
}

// supersede links rec after precededBy and registers it as current.
func supersede(env *Env, rec, precededBy Record) error {
	precededBy.Base().SucceededBy = rec
	if err := env.register(rec); err != nil {
		return fmt.Errorf("new %s: %w", rec.Kind(), err)
	}
	base := rec.Base()
	env.log().Debug("relationship transition",
		"from", precededBy.Kind().String(),
		"to", rec.Kind().String(),
		"owner", base.Owner.ID,
		"subject", base.Subject.ID,
	)
	return nil
}

// checkPredecessor verifies precededBy is current and belongs to the pair.
func checkPredecessor(precededBy Record, owner, subject *agents.Agent) error {
	prev := precededBy.Base()
	if prev.Owner == nil || prev.Subject == nil ||
		prev.Owner.ID != owner.ID || prev.Subject.ID != subject.ID {
		return fmt.Errorf("%s for another pair than %d→%d: %w",
			precededBy.Kind(), owner.ID, subject.ID, ErrPairMismatch)
	}
	if !prev.Current() {
		return fmt.Errorf("%s %s: %w", precededBy.Kind(), prev.ID, ErrAlreadySucceeded)
	}
	return nil
}

func staleError(r Record) error {
	base := r.Base()
	return fmt.Errorf("progress %s %s (%d→%d), superseded by %s: %w",
		r.Kind(), base.ID, base.Owner.ID, base.Subject.ID, base.SucceededBy.Kind(), ErrSuperseded)
}

// isNilRecord catches both a nil interface and a typed nil pointer.
func isNilRecord(r Record) bool {
	switch rec := r.(type) {
	case nil:
		return true
	case *Kinship:
		return rec == nil
	case *Acquaintance:
		return rec == nil
	case *Friendship:
		return rec == nil
	case *Enmity:
		return rec == nil
	}
	return false
}
