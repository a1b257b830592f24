package agents

import "math"

// Personality holds the five-factor traits. Each value is in [-1, 1].
type Personality struct {
	Openness          float64 `json:"openness" yaml:"openness"`
	Conscientiousness float64 `json:"conscientiousness" yaml:"conscientiousness"`
	Extroversion      float64 `json:"extroversion" yaml:"extroversion"`
	Agreeableness     float64 `json:"agreeableness" yaml:"agreeableness"`
	Neuroticism       float64 `json:"neuroticism" yaml:"neuroticism"`
}

// Clamp returns a copy with every trait clamped to [-1, 1].
func (p Personality) Clamp() Personality {
	return Personality{
		Openness:          clampTrait(p.Openness),
		Conscientiousness: clampTrait(p.Conscientiousness),
		Extroversion:      clampTrait(p.Extroversion),
		Agreeableness:     clampTrait(p.Agreeableness),
		Neuroticism:       clampTrait(p.Neuroticism),
	}
}

// Blend returns the running mean after adding q as the n-th sample (n >= 1).
func (p Personality) Blend(q Personality, n int) Personality {
	if n <= 1 {
		return q
	}
	w := 1 / float64(n)
	mix := func(old, new float64) float64 { return old + (new-old)*w }
	return Personality{
		Openness:          mix(p.Openness, q.Openness),
		Conscientiousness: mix(p.Conscientiousness, q.Conscientiousness),
		Extroversion:      mix(p.Extroversion, q.Extroversion),
		Agreeableness:     mix(p.Agreeableness, q.Agreeableness),
		Neuroticism:       mix(p.Neuroticism, q.Neuroticism),
	}
}

func clampTrait(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(-1, math.Min(1, v))
}
