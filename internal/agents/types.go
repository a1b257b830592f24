// Package agents provides the person model the relationship engine reads:
// personality, demographics, attraction, family ties and position.
package agents

import (
	"sort"

	"github.com/talgya/hearth/internal/world"
)

// AgentID is a unique identifier for an agent.
type AgentID uint64

// Sex represents modeled sex for attraction and affect intensity.
type Sex uint8

const (
	SexMale   Sex = 0
	SexFemale Sex = 1
)

// Key returns the sex key used by per-sex configuration tables.
func (s Sex) Key() string {
	if s == SexMale {
		return "m"
	}
	return "f"
}

// String returns "male" or "female".
func (s Sex) String() string {
	if s == SexMale {
		return "male"
	}
	return "female"
}

// Agent is the core entity representing a person in the simulation.
type Agent struct {
	ID   AgentID `json:"id"`
	Name string  `json:"name"`

	// Demographics
	Age uint16 `json:"age"` // Sim-years
	Sex Sex    `json:"sex"`

	// Big Five, each in [-1, 1]
	Personality Personality `json:"personality"`

	// Sexes this person is romantically attracted to.
	AttractedTo []Sex `json:"attracted_to"`

	// Everyone this person counts as family, excluding themselves.
	ExtendedFamily map[AgentID]struct{} `json:"-"`

	// Location
	Position   world.HexCoord `json:"position"`
	Home       world.HexCoord `json:"home"`
	HomeSettID *uint64        `json:"home_settlement_id,omitempty"`

	// Metadata
	BornTick uint64 `json:"born_tick"`
	Alive    bool   `json:"alive"`
}

// IsAttractedTo reports whether the agent is attracted to the given sex.
func (a *Agent) IsAttractedTo(sex Sex) bool {
	for _, s := range a.AttractedTo {
		if s == sex {
			return true
		}
	}
	return false
}

// IsFamily reports whether id is in the agent's extended family.
func (a *Agent) IsFamily(id AgentID) bool {
	_, ok := a.ExtendedFamily[id]
	return ok
}

// AddFamily records ids as extended family. The agent's own id is ignored.
func (a *Agent) AddFamily(ids ...AgentID) {
	if a.ExtendedFamily == nil {
		a.ExtendedFamily = make(map[AgentID]struct{}, len(ids))
	}
	for _, id := range ids {
		if id == a.ID {
			continue
		}
		a.ExtendedFamily[id] = struct{}{}
	}
}

// Family returns the extended family ids in ascending order.
func (a *Agent) Family() []AgentID {
	ids := make([]AgentID, 0, len(a.ExtendedFamily))
	for id := range a.ExtendedFamily {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// AgeGap returns the absolute age difference between two agents in years.
func AgeGap(a, b *Agent) int {
	d := int(a.Age) - int(b.Age)
	if d < 0 {
		return -d
	}
	return d
}
