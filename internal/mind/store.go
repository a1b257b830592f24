package mind

import (
	"github.com/talgya/hearth/internal/agents"
)

// Store holds every owner's mental models, keyed owner → subject.
// It is not safe for concurrent use.
type Store struct {
	models map[agents.AgentID]map[agents.AgentID]*PersonModel
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{models: make(map[agents.AgentID]map[agents.AgentID]*PersonModel)}
}

// Observe produces an observation of subject made by source at tick.
func (s *Store) Observe(subject, source *agents.Agent, tick uint64) Observation {
	return Observe(subject, source, tick)
}

// HasModel reports whether owner has a mental model of subject.
func (s *Store) HasModel(owner, subject agents.AgentID) bool {
	_, ok := s.models[owner][subject]
	return ok
}

// Create forms owner's model of obs.Subject from a first observation,
// replacing any existing one.
func (s *Store) Create(owner agents.AgentID, obs Observation) *PersonModel {
	byOwner, ok := s.models[owner]
	if !ok {
		byOwner = make(map[agents.AgentID]*PersonModel)
		s.models[owner] = byOwner
	}
	m := newPersonModel(owner, obs)
	byOwner[obs.Subject] = m
	return m
}

// BuildUp folds obs into owner's existing model of obs.Subject, creating the
// model if there is none.
func (s *Store) BuildUp(owner agents.AgentID, obs Observation) *PersonModel {
	m, ok := s.models[owner][obs.Subject]
	if !ok {
		return s.Create(owner, obs)
	}
	m.BuildUp(obs)
	return m
}

// Model returns owner's model of subject, or nil.
func (s *Store) Model(owner, subject agents.AgentID) *PersonModel {
	return s.models[owner][subject]
}

// Count returns the number of models owner holds.
func (s *Store) Count(owner agents.AgentID) int {
	return len(s.models[owner])
}
