package relations

import (
	"fmt"
	"log/slog"

	"github.com/talgya/hearth/internal/agents"
	"github.com/talgya/hearth/internal/config"
	"github.com/talgya/hearth/internal/mind"
)

// MentalModels is the owner's cognition the relationship engine feeds.
// *mind.Store implements it.
type MentalModels interface {
	Observe(subject, source *agents.Agent, tick uint64) mind.Observation
	HasModel(owner, subject agents.AgentID) bool
	Create(owner agents.AgentID, obs mind.Observation) *mind.PersonModel
	BuildUp(owner agents.AgentID, obs mind.Observation) *mind.PersonModel
}

// Hook observes every record right after it is registered as current.
type Hook func(rec Record)

// Env is everything record construction and progression read or write
// besides the records themselves. Config is read-only.
type Env struct {
	Config  *config.Simulation
	Ledgers *Ledgers

	// Minds may be nil, in which case no mental models are formed.
	Minds MentalModels

	// Clock returns the current simulation tick. Nil means tick 0.
	Clock func() uint64

	Hooks  []Hook
	Logger *slog.Logger
}

func (e *Env) check() error {
	if e == nil || e.Config == nil {
		return ErrNoConfig
	}
	if e.Ledgers == nil {
		return ErrNoLedgers
	}
	return nil
}

func (e *Env) now() uint64 {
	if e.Clock == nil {
		return 0
	}
	return e.Clock()
}

func (e *Env) log() *slog.Logger {
	if e.Logger == nil {
		return slog.Default()
	}
	return e.Logger
}

// register makes rec the owner's current record about its subject and
// notifies hooks.
func (e *Env) register(rec Record) error {
	base := rec.Base()
	if err := e.Ledgers.For(base.Owner.ID).Register(rec); err != nil {
		return err
	}
	for _, h := range e.Hooks {
		h(rec)
	}
	e.log().Debug("relationship registered",
		"kind", rec.Kind().String(),
		"id", base.ID.String(),
		"owner", base.Owner.ID,
		"subject", base.Subject.ID,
		"tick", base.FormedAt,
	)
	return nil
}

// formOrBuildUpMentalModel gives owner a fresh observation of subject: a new
// model if owner has none, otherwise folded into the existing one. Owners may
// already hold a model of someone they have not met.
func (e *Env) formOrBuildUpMentalModel(owner, subject *agents.Agent) {
	if e.Minds == nil {
		return
	}
	obs := e.Minds.Observe(subject, owner, e.now())
	if !e.Minds.HasModel(owner.ID, subject.ID) {
		e.Minds.Create(owner.ID, obs)
		return
	}
	e.Minds.BuildUp(owner.ID, obs)
}

// AgeEffect returns the configured reduction an age gap applies to charge
// and spark increments for the pair.
func (e *Env) AgeEffect(owner, subject *agents.Agent) float64 {
	return e.Config.AgeDifferenceEffect(int(owner.Age), int(subject.Age))
}

func checkPair(owner, subject *agents.Agent) error {
	if owner == nil || subject == nil {
		return fmt.Errorf("owner and subject required")
	}
	if owner.ID == subject.ID {
		return fmt.Errorf("pair %d: %w", owner.ID, ErrSelfRelationship)
	}
	return nil
}
