package world

import (
	"fmt"
	"sort"
)

// PlaceKind classifies a hex in the town.
type PlaceKind uint8

const (
	PlaceLot    PlaceKind = iota // Residential lot
	PlaceSquare                  // Town square, always at the center
	PlaceTavern
	PlaceMarket
	PlaceChapel
)

// Place is a named hex people can spend a day on.
type Place struct {
	Coord HexCoord  `json:"coord"`
	Kind  PlaceKind `json:"kind"`
	Name  string    `json:"name"`
}

// Town holds the hex grid of a single small town.
type Town struct {
	Radius int                `json:"radius"`
	Places map[HexCoord]Place `json:"-"`

	gathering []HexCoord // Non-lot places, sorted for deterministic lookup
	lots      []HexCoord // Residential lots, sorted
}

// NewTown lays out a town of the given radius. The center is the square;
// the ring-1 hexes hold a tavern, market and chapel; everything else is a lot.
// A hex grid of radius R contains hexes where max(|q|, |r|, |s|) <= R.
func NewTown(radius int) *Town {
	if radius < 1 {
		radius = 1
	}
	t := &Town{
		Radius: radius,
		Places: make(map[HexCoord]Place),
	}

	center := HexCoord{}
	t.Places[center] = Place{Coord: center, Kind: PlaceSquare, Name: "town square"}

	civic := []struct {
		kind PlaceKind
		name string
	}{
		{PlaceTavern, "tavern"},
		{PlaceMarket, "market"},
		{PlaceChapel, "chapel"},
	}
	for i, c := range civic {
		coord := HexNeighborDirections[i*2]
		t.Places[coord] = Place{Coord: coord, Kind: c.kind, Name: c.name}
	}

	for q := -radius; q <= radius; q++ {
		for r := -radius; r <= radius; r++ {
			coord := HexCoord{Q: q, R: r}
			if !t.InBounds(coord) {
				continue
			}
			if _, taken := t.Places[coord]; taken {
				continue
			}
			t.Places[coord] = Place{
				Coord: coord,
				Kind:  PlaceLot,
				Name:  fmt.Sprintf("lot %d", len(t.lots)+1),
			}
			t.lots = append(t.lots, coord)
		}
	}

	for coord, p := range t.Places {
		if p.Kind != PlaceLot {
			t.gathering = append(t.gathering, coord)
		}
	}
	sortCoords(t.gathering)
	sortCoords(t.lots)
	return t
}

// InBounds returns true if the coordinate is within the town radius.
func (t *Town) InBounds(coord HexCoord) bool {
	return Distance(HexCoord{}, coord) <= t.Radius
}

// Lots returns the residential lots in a stable order.
func (t *Town) Lots() []HexCoord {
	return t.lots
}

// Gathering returns the shared places (square, tavern, ...) in a stable order.
func (t *Town) Gathering() []HexCoord {
	return t.gathering
}

// Lot returns the i-th residential lot, wrapping around when the town is full.
func (t *Town) Lot(i int) HexCoord {
	if len(t.lots) == 0 {
		return HexCoord{}
	}
	return t.lots[i%len(t.lots)]
}

// Name returns the place name of a coordinate, or its coordinate string.
func (t *Town) Name(coord HexCoord) string {
	if p, ok := t.Places[coord]; ok {
		return p.Name
	}
	return coord.String()
}

// HexCount returns the total number of hexes in the town.
func (t *Town) HexCount() int {
	return len(t.Places)
}

// String returns a summary of the town.
func (t *Town) String() string {
	return fmt.Sprintf("Town(radius=%d, hexes=%d, lots=%d)", t.Radius, t.HexCount(), len(t.lots))
}

func sortCoords(cs []HexCoord) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].Q != cs[j].Q {
			return cs[i].Q < cs[j].Q
		}
		return cs[i].R < cs[j].R
	})
}
