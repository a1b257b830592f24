// Package mind holds each person's mental models of other people: what they
// have observed about someone and the impression those observations add up to.
package mind

import (
	"sort"

	"github.com/talgya/hearth/internal/agents"
	"github.com/talgya/hearth/internal/world"
)

// MaxObservations bounds the observation stream kept per model.
const MaxObservations = 50

// Observation is one sighting of a subject by a source at a tick.
type Observation struct {
	Subject  agents.AgentID     `json:"subject"`
	Source   agents.AgentID     `json:"source"`
	Tick     uint64             `json:"tick"`
	Age      uint16             `json:"age"`
	Sex      agents.Sex         `json:"sex"`
	Position world.HexCoord     `json:"position"`
	Traits   agents.Personality `json:"traits"`
	Salience float64            `json:"salience"` // 0.0–1.0
}

// Observe produces an observation of subject made by source at tick.
// First-hand sightings of one's own family are less salient than strangers.
func Observe(subject, source *agents.Agent, tick uint64) Observation {
	salience := 0.5
	if subject.ID == source.ID {
		salience = 0
	} else if source.IsFamily(subject.ID) {
		salience = 0.25
	}
	return Observation{
		Subject:  subject.ID,
		Source:   source.ID,
		Tick:     tick,
		Age:      subject.Age,
		Sex:      subject.Sex,
		Position: subject.Position,
		Traits:   subject.Personality,
		Salience: salience,
	}
}

// PersonModel is one owner's conception of another person.
type PersonModel struct {
	Owner   agents.AgentID `json:"owner"`
	Subject agents.AgentID `json:"subject"`

	// Impression is the running mean of every observed trait vector.
	Impression agents.Personality `json:"impression"`
	// Folded counts observations ever folded in, including evicted ones.
	Folded int `json:"folded"`

	FirstFormed  uint64         `json:"first_formed"`
	LastUpdated  uint64         `json:"last_updated"`
	LastSeenAt   world.HexCoord `json:"last_seen_at"`
	Observations []Observation  `json:"observations"`
}

// newPersonModel forms a model from a first observation.
func newPersonModel(owner agents.AgentID, obs Observation) *PersonModel {
	m := &PersonModel{
		Owner:       owner,
		Subject:     obs.Subject,
		FirstFormed: obs.Tick,
	}
	m.BuildUp(obs)
	return m
}

// BuildUp folds an observation into the model. When the stream is full the
// least salient observation is dropped to make room.
func (m *PersonModel) BuildUp(obs Observation) {
	m.Folded++
	m.Impression = m.Impression.Blend(obs.Traits, m.Folded)
	m.LastUpdated = obs.Tick
	m.LastSeenAt = obs.Position

	if len(m.Observations) < MaxObservations {
		m.Observations = append(m.Observations, obs)
		return
	}

	// Find the lowest-salience observation and replace it.
	minIdx := 0
	for i := 1; i < len(m.Observations); i++ {
		if m.Observations[i].Salience < m.Observations[minIdx].Salience {
			minIdx = i
		}
	}
	if obs.Salience >= m.Observations[minIdx].Salience {
		m.Observations[minIdx] = obs
	}
}

// Recent returns the most recent N observations ordered by tick descending.
func (m *PersonModel) Recent(count int) []Observation {
	if len(m.Observations) == 0 {
		return nil
	}

	// Copy and sort by tick descending.
	sorted := make([]Observation, len(m.Observations))
	copy(sorted, m.Observations)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Tick > sorted[j].Tick
	})

	if count > len(sorted) {
		count = len(sorted)
	}
	return sorted[:count]
}
