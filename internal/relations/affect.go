package relations

import (
	"math"

	"github.com/talgya/hearth/internal/agents"
	"github.com/talgya/hearth/internal/config"
)

// Compatibility measures personality similarity on openness, extroversion and
// agreeableness. People similar on those traits are more likely to become
// friends. The summed absolute difference d lies in [0, 6] and maps linearly
// onto [-1, 1]: identical traits give 1, maximal divergence gives -1.
func Compatibility(owner, subject agents.Personality) float64 {
	d := math.Abs(owner.Openness-subject.Openness) +
		math.Abs(owner.Extroversion-subject.Extroversion) +
		math.Abs(owner.Agreeableness-subject.Agreeableness)
	return (3 - d) / 3
}

// ChargeIncrement is how much the owner's charge toward subject moves each
// time they spend time together. Extroverts accumulate relationships faster
// and agreeable people are sought out more; pairs that differ in sex are
// damped toward zero.
func ChargeIncrement(cfg *config.Simulation, owner, subject *agents.Agent, compatibility float64) float64 {
	inc := compatibility +
		owner.Personality.Extroversion*cfg.OwnerExtroversionBoostToChargeMultiplier +
		subject.Personality.Agreeableness*cfg.SubjectAgreeablenessBoostToChargeMultiplier
	if owner.Sex != subject.Sex {
		inc *= cfg.ChargeIntensityReductionDueToSexDifference
	}
	return inc
}

// InitialSparkIncrement is the first step of owner's romantic attraction to
// subject. It is zero toward family and toward a sex owner is not attracted
// to; otherwise it sums two personality effects.
func InitialSparkIncrement(cfg *config.Simulation, owner, subject *agents.Agent) float64 {
	if owner.IsFamily(subject.ID) {
		return 0
	}
	if !owner.IsAttractedTo(subject.Sex) {
		return 0
	}
	return ownPersonalitySparkEffect(cfg, owner, subject) +
		subjectPersonalitySparkEffect(cfg, owner, subject)
}

// ownPersonalitySparkEffect is nominally the owner's side of the attraction,
// but it reads the subject's traits, the same input as
// subjectPersonalitySparkEffect. The subject's personality is therefore
// counted twice in the initial spark.
func ownPersonalitySparkEffect(cfg *config.Simulation, owner, subject *agents.Agent) float64 {
	return traitSparkEffect(cfg, owner.Sex.Key(), subject.Personality)
}

// subjectPersonalitySparkEffect is the subject's side of the attraction.
func subjectPersonalitySparkEffect(cfg *config.Simulation, owner, subject *agents.Agent) float64 {
	return traitSparkEffect(cfg, owner.Sex.Key(), subject.Personality)
}

// traitSparkEffect weighs all five traits by the multipliers for sexKey.
func traitSparkEffect(cfg *config.Simulation, sexKey string, p agents.Personality) float64 {
	m := cfg.SparkMultipliers(sexKey)
	return p.Openness*m[0] +
		p.Conscientiousness*m[1] +
		p.Extroversion*m[2] +
		p.Agreeableness*m[3] +
		p.Neuroticism*m[4]
}
