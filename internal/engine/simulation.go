// Simulation ties the town, its people and their relationship ledgers
// together and runs them each day.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/talgya/hearth/internal/agents"
	"github.com/talgya/hearth/internal/config"
	"github.com/talgya/hearth/internal/mind"
	"github.com/talgya/hearth/internal/relations"
	"github.com/talgya/hearth/internal/world"
)

// maxEvents bounds the in-memory event log kept between weekly trims.
const maxEvents = 1000

// Simulation holds the complete town state.
type Simulation struct {
	Town       *world.Town
	Drift      *world.Drift
	Agents     []*agents.Agent
	AgentIndex map[agents.AgentID]*agents.Agent
	Ledgers    *relations.Ledgers
	Minds      *mind.Store
	Config     *config.Simulation
	Env        *relations.Env
	Events     []Event // Recent events, trimmed weekly
	LastTick   uint64  // Most recent tick processed

	// Statistics updated per day.
	Stats SimStats

	logger *slog.Logger
}

// CurrentTick returns the most recently processed tick number.
func (s *Simulation) CurrentTick() uint64 {
	return s.LastTick
}

// Event is a notable occurrence in the town.
type Event struct {
	Tick        uint64 `json:"tick"`
	Description string `json:"description"`
	Category    string `json:"category"` // "household", "friendship", "enmity"
}

// SimStats tracks aggregate relationship statistics.
type SimStats struct {
	Population  int                    `json:"population"`
	Current     map[relations.Kind]int `json:"current"`     // Current records by kind
	Meetings    int                    `json:"meetings"`    // Acquaintances formed
	Friendships int                    `json:"friendships"` // Transitions into friendship
	Enmities    int                    `json:"enmities"`    // Transitions into enmity
	Errors      int                    `json:"errors"`      // Rejected constructions or progressions
}

// NewSimulation creates an empty town ready for households. Hooks are called
// for every relationship record registered.
func NewSimulation(town *world.Town, drift *world.Drift, cfg *config.Simulation, logger *slog.Logger, hooks ...relations.Hook) *Simulation {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Simulation{
		Town:       town,
		Drift:      drift,
		AgentIndex: make(map[agents.AgentID]*agents.Agent),
		Ledgers:    relations.NewLedgers(),
		Minds:      mind.NewStore(),
		Config:     cfg,
		logger:     logger,
	}
	s.Env = &relations.Env{
		Config:  cfg,
		Ledgers: s.Ledgers,
		Minds:   s.Minds,
		Clock:   s.CurrentTick,
		Hooks:   hooks,
		Logger:  logger,
	}
	s.updateStats()
	return s
}

// Wire attaches the simulation's daily and weekly layers to an engine.
func (s *Simulation) Wire(e *Engine) {
	e.OnDay = s.TickDay
	e.OnWeek = s.TickWeek
}

// Settle adds a household to the town and records its kinships.
func (s *Simulation) Settle(h agents.Household) error {
	if err := s.checkHousehold(h); err != nil {
		return fmt.Errorf("settle: %w", err)
	}
	for _, m := range h.Members {
		s.Agents = append(s.Agents, m)
		s.AgentIndex[m.ID] = m
	}
	for _, t := range h.Ties {
		if err := s.AssignKinship(t.Owner, t.Subject, t.Label); err != nil {
			return fmt.Errorf("settle: %w", err)
		}
	}
	if len(h.Members) > 0 {
		head := h.Members[0]
		s.EmitEvent("household",
			fmt.Sprintf("the household of %s (%d) settles at %s", head.Name, len(h.Members), s.Town.Name(head.Home)))
	}
	s.updateStats()
	return nil
}

// checkHousehold rejects a household that could only be settled partly:
// members already in town, or ties that AssignKinship would refuse.
func (s *Simulation) checkHousehold(h agents.Household) error {
	members := make(map[agents.AgentID]*agents.Agent, len(h.Members))
	for _, m := range h.Members {
		if m == nil {
			return fmt.Errorf("nil household member")
		}
		if _, dup := s.AgentIndex[m.ID]; dup {
			return fmt.Errorf("agent %d already in town", m.ID)
		}
		if _, dup := members[m.ID]; dup {
			return fmt.Errorf("agent %d listed twice", m.ID)
		}
		members[m.ID] = m
	}

	type pair struct{ owner, subject agents.AgentID }
	seen := make(map[pair]bool, len(h.Ties))
	for _, t := range h.Ties {
		if t.Owner == nil || t.Subject == nil {
			return fmt.Errorf("tie %q without both ends", t.Label)
		}
		if members[t.Owner.ID] != t.Owner || members[t.Subject.ID] != t.Subject {
			return fmt.Errorf("tie %d→%d reaches outside the household", t.Owner.ID, t.Subject.ID)
		}
		if t.Owner.ID == t.Subject.ID {
			return fmt.Errorf("tie %d→%d: %w", t.Owner.ID, t.Subject.ID, relations.ErrSelfRelationship)
		}
		if t.Label == "" {
			return fmt.Errorf("tie %d→%d: %w", t.Owner.ID, t.Subject.ID, relations.ErrInvalidLabel)
		}
		p := pair{t.Owner.ID, t.Subject.ID}
		if seen[p] || s.Ledgers.Current(p.owner, p.subject) != nil {
			return fmt.Errorf("tie %d→%d: %w", p.owner, p.subject, relations.ErrAlreadyRelated)
		}
		seen[p] = true
	}
	return nil
}

// AssignKinship records that owner is related to subject by label.
func (s *Simulation) AssignKinship(owner, subject *agents.Agent, label string) error {
	_, err := relations.NewKinship(s.Env, owner, subject, label)
	return err
}

// EmitEvent appends an event at the current tick.
func (s *Simulation) EmitEvent(category, description string) {
	s.Events = append(s.Events, Event{
		Tick:        s.LastTick,
		Description: description,
		Category:    category,
	})
}

// TickDay runs every sim-day: everyone drifts to where they spend the day,
// then each co-located pair meets or moves their relationship forward.
func (s *Simulation) TickDay(tick uint64) {
	s.LastTick = tick
	day := tick / TicksPerSimDay

	s.drift(day)
	for _, group := range s.gatherings() {
		s.encounterAll(group)
	}
	s.updateStats()

	eventCounts := make(map[string]int)
	for _, e := range s.Events {
		eventCounts[e.Category]++
	}

	s.logger.Info("daily report",
		"tick", tick,
		"time", SimTime(tick),
		"population", s.Stats.Population,
		"acquaintances", s.Stats.Current[relations.KindAcquaintance],
		"friendships", s.Stats.Current[relations.KindFriendship],
		"enmities", s.Stats.Current[relations.KindEnmity],
		"kinships", s.Stats.Current[relations.KindKinship],
		"meetings", s.Stats.Meetings,
		"errors", s.Stats.Errors,
		"events_friendship", eventCounts["friendship"],
		"events_enmity", eventCounts["enmity"],
	)
}

// TickWeek runs every sim-week: summary and event trimming.
func (s *Simulation) TickWeek(tick uint64) {
	s.logger.Info("weekly summary",
		"tick", tick,
		"time", SimTime(tick),
		"events_this_week", len(s.Events),
	)
	if len(s.Events) > maxEvents {
		s.Events = s.Events[len(s.Events)-maxEvents:]
	}
}

func (s *Simulation) updateStats() {
	alive := 0
	for _, a := range s.Agents {
		if a.Alive {
			alive++
		}
	}
	current := make(map[relations.Kind]int)
	for _, owner := range s.Ledgers.Owners() {
		for k, n := range s.Ledgers.For(owner).CountByKind() {
			current[k] += n
		}
	}
	s.Stats.Population = alive
	s.Stats.Current = current
}
