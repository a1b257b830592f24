// Daily drift: where each person spends a given day, from layered simplex noise.
package world

import (
	opensimplex "github.com/ojrac/opensimplex-go"
)

// Drift decides each person's daytime position. It is deterministic for a
// given seed, person and day, so replays of a town meet the same way.
type Drift struct {
	town    *Town
	outing  opensimplex.Noise // Whether a person leaves their lot
	venue   opensimplex.Noise // Which gathering place they pick
	homeish float64           // Baseline probability of staying home
}

// NewDrift creates a drift field over the town.
func NewDrift(town *Town, seed int64) *Drift {
	return &Drift{
		town:    town,
		outing:  opensimplex.NewNormalized(seed + 10),
		venue:   opensimplex.NewNormalized(seed + 11),
		homeish: 0.45,
	}
}

// Where returns the hex person id occupies on the given day. Sociability in
// [-1, 1] (typically extroversion) shifts the odds of going out.
func (d *Drift) Where(id uint64, home HexCoord, sociability float64, day uint64) HexCoord {
	gathering := d.town.Gathering()
	if len(gathering) == 0 {
		return home
	}

	x := float64(id) * 1.618
	y := float64(day) * 0.731

	stay := d.homeish - sociability*0.2
	if octaveNoise(d.outing, x, y, 3, 1.0, 0.5) < stay {
		return home
	}

	pick := octaveNoise(d.venue, x, y, 2, 0.5, 0.5)
	idx := int(pick * float64(len(gathering)))
	if idx >= len(gathering) {
		idx = len(gathering) - 1
	}
	if idx < 0 {
		idx = 0
	}
	return gathering[idx]
}

// octaveNoise generates fractal noise by layering multiple frequencies.
// With a normalized source the result stays within [0, 1].
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}
