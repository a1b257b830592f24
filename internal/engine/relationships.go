// Relationship dynamics: daily drift, meetings and progression.
package engine

import (
	"errors"
	"fmt"
	"sort"

	"github.com/talgya/hearth/internal/agents"
	"github.com/talgya/hearth/internal/relations"
	"github.com/talgya/hearth/internal/world"
)

// drift moves every living agent to where they spend the given day.
func (s *Simulation) drift(day uint64) {
	for _, a := range s.Agents {
		if !a.Alive {
			continue
		}
		if s.Drift == nil {
			a.Position = a.Home
			continue
		}
		a.Position = s.Drift.Where(uint64(a.ID), a.Home, a.Personality.Extroversion, day)
	}
}

// gatherings groups living agents by position. Groups come back in hex order
// and members in settlement order, so a day replays identically.
func (s *Simulation) gatherings() [][]*agents.Agent {
	byHex := make(map[world.HexCoord][]*agents.Agent)
	for _, a := range s.Agents {
		if a.Alive {
			byHex[a.Position] = append(byHex[a.Position], a)
		}
	}
	hexes := make([]world.HexCoord, 0, len(byHex))
	for h := range byHex {
		hexes = append(hexes, h)
	}
	sort.Slice(hexes, func(i, j int) bool {
		if hexes[i].Q != hexes[j].Q {
			return hexes[i].Q < hexes[j].Q
		}
		return hexes[i].R < hexes[j].R
	})

	out := make([][]*agents.Agent, 0, len(hexes))
	for _, h := range hexes {
		if len(byHex[h]) > 1 {
			out = append(out, byHex[h])
		}
	}
	return out
}

// encounterAll runs one encounter for every ordered pair in a group.
func (s *Simulation) encounterAll(group []*agents.Agent) {
	for _, owner := range group {
		for _, subject := range group {
			if owner == subject {
				continue
			}
			if err := s.encounter(owner, subject); err != nil {
				s.Stats.Errors++
				s.logger.Error("encounter failed",
					"owner", owner.ID, "subject", subject.ID, "error", err)
			}
		}
	}
}

// Meet brings a and b together in person. Each side that has no record of
// the other, or only a kinship, forms an acquaintance. Sides that have
// already met are left alone.
func (s *Simulation) Meet(a, b *agents.Agent) error {
	_, errA := s.meet(a, b)
	_, errB := s.meet(b, a)
	return errors.Join(errA, errB)
}

// meet forms owner's acquaintance with subject when they have not yet met.
func (s *Simulation) meet(owner, subject *agents.Agent) (bool, error) {
	var kin *relations.Kinship
	switch cur := s.Ledgers.Current(owner.ID, subject.ID).(type) {
	case nil:
	case *relations.Kinship:
		kin = cur
	default:
		return false, nil
	}
	if _, err := relations.NewAcquaintance(s.Env, owner, subject, kin); err != nil {
		return false, err
	}
	s.Stats.Meetings++
	return true, nil
}

// encounter is owner's side of one day spent alongside subject: a first
// meeting, or one progression step of the current record.
func (s *Simulation) encounter(owner, subject *agents.Agent) error {
	met, err := s.meet(owner, subject)
	if err != nil || met {
		return err
	}

	cur := s.Ledgers.Current(owner.ID, subject.ID)
	p, ok := cur.(relations.Progressor)
	if !ok {
		return fmt.Errorf("record %s %d→%d cannot progress", cur.Kind(), owner.ID, subject.ID)
	}
	next, err := p.Progress(s.Env)
	if err != nil {
		return err
	}
	if next != nil {
		s.noteTransition(owner, subject, cur, next)
	}
	return nil
}

func (s *Simulation) noteTransition(owner, subject *agents.Agent, from, to relations.Record) {
	switch to.Kind() {
	case relations.KindFriendship:
		s.Stats.Friendships++
		s.EmitEvent("friendship",
			fmt.Sprintf("%s now counts %s a friend (was %s)", owner.Name, subject.Name, from.Kind()))
	case relations.KindEnmity:
		s.Stats.Enmities++
		s.EmitEvent("enmity",
			fmt.Sprintf("%s now counts %s an enemy (was %s)", owner.Name, subject.Name, from.Kind()))
	}
}
