package relations

import (
	"testing"

	"github.com/talgya/hearth/internal/agents"
	"github.com/talgya/hearth/internal/config"
	"github.com/talgya/hearth/internal/mind"
	"github.com/talgya/hearth/internal/world"
)

type fixture struct {
	env   *Env
	cfg   *config.Simulation
	minds *mind.Store
	tick  uint64
}

// newFixture returns an Env with thresholds at ±5 and a flat age curve.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := config.DefaultSimulation()
	cfg.ChargeThresholdFriendship = 5
	cfg.ChargeThresholdEnmity = -5
	cfg.SparkDecayRate = 0.9

	f := &fixture{cfg: &cfg, minds: mind.NewStore(), tick: 100}
	f.env = &Env{
		Config:  f.cfg,
		Ledgers: NewLedgers(),
		Minds:   f.minds,
		Clock:   func() uint64 { return f.tick },
	}
	return f
}

func person(id agents.AgentID, sex agents.Sex, age uint16) *agents.Agent {
	other := agents.SexFemale
	if sex == agents.SexFemale {
		other = agents.SexMale
	}
	return &agents.Agent{
		ID:          id,
		Name:        "p",
		Age:         age,
		Sex:         sex,
		AttractedTo: []agents.Sex{other},
		Position:    world.HexCoord{Q: int(id), R: -int(id)},
		Alive:       true,
	}
}

func pair() (*agents.Agent, *agents.Agent) {
	return person(1, agents.SexMale, 30), person(2, agents.SexFemale, 30)
}
