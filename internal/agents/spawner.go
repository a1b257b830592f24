// Agent spawning: creates households with demographics, personality,
// attraction and the kin ties between members.
package agents

import (
	"math/rand"

	"github.com/talgya/hearth/internal/world"
)

// Tie is a family relationship one member holds toward another, e.g. a
// child's tie to its mother carries Label "mother".
type Tie struct {
	Owner   *Agent
	Subject *Agent
	Label   string
}

// Household is a family spawned together on one lot.
type Household struct {
	Members []*Agent
	Ties    []Tie
}

// Spawner creates agents for the simulation.
type Spawner struct {
	rng    *rand.Rand
	nextID AgentID
}

// NewSpawner creates an agent spawner with the given seed.
func NewSpawner(seed int64) *Spawner {
	return &Spawner{
		rng:    rand.New(rand.NewSource(seed + 300)),
		nextID: 1,
	}
}

// SpawnHousehold creates a family on the given lot: usually a couple, sometimes
// a single adult, with up to three children. Every member's ExtendedFamily
// holds every other member and Ties lists both directions of each bond.
func (s *Spawner) SpawnHousehold(lot world.HexCoord, settlementID uint64, tick uint64) Household {
	var h Household

	surname := lastNames[s.rng.Intn(len(lastNames))]
	first := s.spawnOne(lot, settlementID, tick, surname, s.adultAge())
	h.Members = append(h.Members, first)

	var partner *Agent
	if s.rng.Float32() < 0.8 {
		partner = s.spawnOne(lot, settlementID, tick, surname, s.adultAge())
		// Partners are drawn from each other's attraction.
		if first.IsAttractedTo(SexFemale) && !first.IsAttractedTo(SexMale) {
			partner.Sex = SexFemale
		} else if first.IsAttractedTo(SexMale) && !first.IsAttractedTo(SexFemale) {
			partner.Sex = SexMale
		}
		partner.Name = s.generateName(partner.Sex, surname)
		partner.AttractedTo = []Sex{first.Sex}
		h.Members = append(h.Members, partner)
		h.Ties = append(h.Ties,
			Tie{Owner: first, Subject: partner, Label: spouseLabel(partner.Sex)},
			Tie{Owner: partner, Subject: first, Label: spouseLabel(first.Sex)},
		)
	}

	parents := h.Members
	youngest := first.Age
	if partner != nil && partner.Age < youngest {
		youngest = partner.Age
	}

	var children []*Agent
	if youngest >= 20 {
		n := s.rng.Intn(4)
		for i := 0; i < n; i++ {
			maxAge := int(youngest) - 18
			child := s.spawnOne(lot, settlementID, tick, surname, uint16(s.rng.Intn(maxAge+1)))
			child.Personality = s.inheritPersonality(parents)
			children = append(children, child)
		}
	}

	for _, child := range children {
		for _, p := range parents {
			h.Ties = append(h.Ties,
				Tie{Owner: child, Subject: p, Label: parentLabel(p.Sex)},
				Tie{Owner: p, Subject: child, Label: childLabel(child.Sex)},
			)
		}
		for _, sib := range children {
			if sib == child {
				continue
			}
			h.Ties = append(h.Ties, Tie{Owner: child, Subject: sib, Label: siblingLabel(sib.Sex)})
		}
	}
	h.Members = append(h.Members, children...)

	ids := make([]AgentID, len(h.Members))
	for i, m := range h.Members {
		ids[i] = m.ID
	}
	for _, m := range h.Members {
		m.AddFamily(ids...)
	}
	return h
}

func (s *Spawner) spawnOne(lot world.HexCoord, settlementID uint64, tick uint64, surname string, age uint16) *Agent {
	id := s.nextID
	s.nextID++

	sex := SexMale
	if s.rng.Float32() < 0.5 {
		sex = SexFemale
	}

	sid := settlementID
	return &Agent{
		ID:          id,
		Name:        s.generateName(sex, surname),
		Age:         age,
		Sex:         sex,
		Personality: s.randomPersonality(),
		AttractedTo: s.attraction(sex),
		Position:    lot,
		Home:        lot,
		HomeSettID:  &sid,
		BornTick:    tick,
		Alive:       true,
	}
}

func (s *Spawner) adultAge() uint16 {
	// Bell curve centered around 36, range 18–75.
	age := 36.0 + s.rng.NormFloat64()*12.0
	if age < 18 {
		age = 18
	}
	if age > 75 {
		age = 75
	}
	return uint16(age)
}

func (s *Spawner) randomPersonality() Personality {
	trait := func() float64 { return s.rng.NormFloat64() * 0.4 }
	return Personality{
		Openness:          trait(),
		Conscientiousness: trait(),
		Extroversion:      trait(),
		Agreeableness:     trait(),
		Neuroticism:       trait(),
	}.Clamp()
}

// inheritPersonality averages the parents' traits and adds individual variation.
func (s *Spawner) inheritPersonality(parents []*Agent) Personality {
	var mean Personality
	for i, p := range parents {
		mean = mean.Blend(p.Personality, i+1)
	}
	own := s.randomPersonality()
	return Personality{
		Openness:          mean.Openness*0.5 + own.Openness*0.5,
		Conscientiousness: mean.Conscientiousness*0.5 + own.Conscientiousness*0.5,
		Extroversion:      mean.Extroversion*0.5 + own.Extroversion*0.5,
		Agreeableness:     mean.Agreeableness*0.5 + own.Agreeableness*0.5,
		Neuroticism:       mean.Neuroticism*0.5 + own.Neuroticism*0.5,
	}.Clamp()
}

func (s *Spawner) attraction(sex Sex) []Sex {
	other := SexFemale
	if sex == SexFemale {
		other = SexMale
	}
	r := s.rng.Float32()
	switch {
	case r < 0.05:
		return []Sex{sex}
	case r < 0.10:
		return []Sex{SexMale, SexFemale}
	default:
		return []Sex{other}
	}
}

func (s *Spawner) generateName(sex Sex, surname string) string {
	var firsts []string
	if sex == SexMale {
		firsts = maleNames
	} else {
		firsts = femaleNames
	}
	return firsts[s.rng.Intn(len(firsts))] + " " + surname
}

func spouseLabel(sex Sex) string {
	if sex == SexMale {
		return "husband"
	}
	return "wife"
}

func parentLabel(sex Sex) string {
	if sex == SexMale {
		return "father"
	}
	return "mother"
}

func childLabel(sex Sex) string {
	if sex == SexMale {
		return "son"
	}
	return "daughter"
}

func siblingLabel(sex Sex) string {
	if sex == SexMale {
		return "brother"
	}
	return "sister"
}

// Name pools for procedural generation.
var maleNames = []string{
	"Aldric", "Bram", "Cedric", "Doran", "Erik", "Finn", "Gareth",
	"Halvard", "Ivan", "Jasper", "Kael", "Leif", "Magnus", "Nils",
	"Oswin", "Per", "Quinn", "Rowan", "Stellan", "Theron", "Ulric",
	"Varen", "Wren", "Yorick", "Zander", "Arlen", "Beric", "Cade",
	"Dorian", "Edric", "Falk", "Gunnar", "Hugo", "Ivar", "Jorik",
}

var femaleNames = []string{
	"Astrid", "Brenna", "Calla", "Daria", "Elara", "Freya", "Greta",
	"Helene", "Iris", "Juno", "Kira", "Lena", "Mira", "Nessa",
	"Olwen", "Petra", "Runa", "Senna", "Thea", "Una", "Vera",
	"Willa", "Yara", "Zara", "Ava", "Birgit", "Cora", "Dagny",
	"Eira", "Fern", "Gwen", "Hilde", "Inga", "Johanna", "Katla",
}

var lastNames = []string{
	"Voss", "Thornwood", "Blackwood", "Ashford", "Ironhand", "Dunmore",
	"Greenvale", "Stormcrow", "Frostborn", "Hearthstone", "Millward",
	"Copperfield", "Ravenmoor", "Silverdale", "Wolfsbane", "Stoneheart",
	"Deepwell", "Brightwater", "Oakenshield", "Redforge", "Windholm",
	"Marshwood", "Goldhaven", "Nightingale", "Riverstone", "Steelworth",
	"Embercroft", "Holloway", "Dawnridge", "Farrow", "Wyatt", "Thatcher",
	"Briar", "Caldwell", "Frost", "Harper", "Mercer", "Ward", "Cross",
}
