package agents

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/hearth/internal/world"
)

func TestPersonalityClamp(t *testing.T) {
	p := Personality{Openness: 3, Conscientiousness: -2, Extroversion: 0.5}.Clamp()
	assert.Equal(t, 1.0, p.Openness)
	assert.Equal(t, -1.0, p.Conscientiousness)
	assert.Equal(t, 0.5, p.Extroversion)
}

func TestPersonalityBlend(t *testing.T) {
	a := Personality{Openness: 1}
	b := Personality{Openness: -1}

	assert.Equal(t, a, Personality{}.Blend(a, 1))
	assert.InDelta(t, 0.0, a.Blend(b, 2).Openness, 1e-9)
}

func TestFamilyAndAttraction(t *testing.T) {
	a := &Agent{ID: 1, Sex: SexFemale, AttractedTo: []Sex{SexMale}}
	a.AddFamily(1, 2, 3)

	assert.False(t, a.IsFamily(1), "an agent is not its own family")
	assert.True(t, a.IsFamily(2))
	assert.Equal(t, []AgentID{2, 3}, a.Family())
	assert.True(t, a.IsAttractedTo(SexMale))
	assert.False(t, a.IsAttractedTo(SexFemale))
	assert.Equal(t, "f", a.Sex.Key())
	assert.Equal(t, "m", SexMale.Key())
}

func TestAgeGap(t *testing.T) {
	assert.Equal(t, 7, AgeGap(&Agent{Age: 30}, &Agent{Age: 37}))
	assert.Equal(t, 7, AgeGap(&Agent{Age: 37}, &Agent{Age: 30}))
}

func TestSpawnHousehold(t *testing.T) {
	s := NewSpawner(42)
	lot := world.HexCoord{Q: 2, R: -1}

	for i := 0; i < 25; i++ {
		h := s.SpawnHousehold(lot, 1, 0)
		require.NotEmpty(t, h.Members)

		for _, m := range h.Members {
			assert.Equal(t, lot, m.Home)
			assert.True(t, m.Alive)
			assert.Len(t, m.ExtendedFamily, len(h.Members)-1)
			for _, trait := range []float64{
				m.Personality.Openness, m.Personality.Conscientiousness, m.Personality.Extroversion,
				m.Personality.Agreeableness, m.Personality.Neuroticism,
			} {
				assert.GreaterOrEqual(t, trait, -1.0)
				assert.LessOrEqual(t, trait, 1.0)
			}
		}
		for _, tie := range h.Ties {
			assert.NotEqual(t, tie.Owner.ID, tie.Subject.ID)
			assert.True(t, tie.Owner.IsFamily(tie.Subject.ID))
			assert.NotEmpty(t, tie.Label)
		}
	}
}

func TestSpawnerIDsAreUnique(t *testing.T) {
	s := NewSpawner(1)
	seen := make(map[AgentID]bool)
	for i := 0; i < 10; i++ {
		for _, m := range s.SpawnHousehold(world.HexCoord{}, 1, 0).Members {
			assert.False(t, seen[m.ID])
			seen[m.ID] = true
		}
	}
}
