// Package phi provides the golden-ratio constants the default tuning is built from.
// Default multipliers and rates trace back to powers of Φ rather than ad hoc numbers.
package phi

import "math"

// Phi is the golden ratio.
const Phi = 1.6180339887498948

var (
	// Agnosis (Φ⁻³) ~0.236: small effects, floors.
	Agnosis = math.Pow(Phi, -3)

	// Psyche (Φ⁻²) ~0.382: moderate boosts.
	Psyche = math.Pow(Phi, -2)

	// Matter (Φ⁻¹) ~0.618: the fraction that persists through a reduction.
	Matter = math.Pow(Phi, -1)
)
