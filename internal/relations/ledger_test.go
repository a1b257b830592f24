package relations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/hearth/internal/agents"
)

func TestLedgerRegister(t *testing.T) {
	owner, subject := pair()
	l := NewLedger(owner.ID)

	k := &Kinship{Link: newLink(owner, subject, 0), Relationship: "wife"}
	require.NoError(t, l.Register(k))
	assert.Same(t, k, l.Current(subject.ID))

	a := &Acquaintance{Link: newLink(owner, subject, 1)}
	require.NoError(t, l.Register(a))
	assert.Same(t, a, l.Current(subject.ID), "register always overwrites")
	assert.Equal(t, 1, l.Len())

	wrong := &Acquaintance{Link: newLink(subject, owner, 1)}
	assert.ErrorIs(t, l.Register(wrong), ErrWrongOwner)
	assert.Same(t, a, l.Current(subject.ID))

	assert.Error(t, l.Register(nil))
	assert.Error(t, l.Register(&Kinship{}))
}

func TestLedgerQueries(t *testing.T) {
	f := newFixture(t)
	owner := person(1, agents.SexMale, 30)
	others := []*agents.Agent{
		person(5, agents.SexFemale, 30),
		person(3, agents.SexFemale, 30),
		person(4, agents.SexMale, 30),
	}
	_, err := NewKinship(f.env, owner, others[0], "sister")
	require.NoError(t, err)
	for _, o := range others[1:] {
		_, err := NewAcquaintance(f.env, owner, o, nil)
		require.NoError(t, err)
	}

	l := f.env.Ledgers.For(owner.ID)
	assert.Equal(t, []agents.AgentID{3, 4, 5}, l.Subjects())
	assert.Equal(t, map[Kind]int{KindKinship: 1, KindAcquaintance: 2}, l.CountByKind())
	assert.Equal(t, []agents.AgentID{owner.ID}, f.env.Ledgers.Owners())
	assert.Nil(t, f.env.Ledgers.Current(42, owner.ID))
	assert.Same(t, l, f.env.Ledgers.For(owner.ID))

	var seen []Kind
	l.Each(func(subject agents.AgentID, rec Record) {
		assert.Equal(t, subject, rec.Base().Subject.ID)
		seen = append(seen, rec.Kind())
	})
	assert.Equal(t, []Kind{KindAcquaintance, KindAcquaintance, KindKinship}, seen)
}
