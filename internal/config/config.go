// Package config holds the named, read-only parameters the relationship engine
// consumes, plus the run settings of the hearth binary. Parameters load from
// YAML; run settings can be overridden from HEARTH_* environment variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/talgya/hearth/internal/phi"
)

var (
	// ErrMissingParameter reports a named parameter absent from a config file.
	ErrMissingParameter = errors.New("config: missing parameter")

	// ErrInvalidParameter reports a parameter outside its allowed range.
	ErrInvalidParameter = errors.New("config: invalid parameter")
)

// SexTable holds a multiplier per modeled sex, keyed "m" and "f" in YAML.
type SexTable struct {
	Male   float64 `json:"m" yaml:"m"`
	Female float64 `json:"f" yaml:"f"`
}

// For returns the multiplier for a sex key ("m" or "f").
func (t SexTable) For(key string) float64 {
	if key == "m" {
		return t.Male
	}
	return t.Female
}

// AgeCurve shapes how an age difference reduces affective intensity:
// floor + (1-floor)·exp(-|Δage|/scale).
type AgeCurve struct {
	// Floor is the reduction approached as the gap grows. Range (0, 1].
	Floor float64 `json:"floor" yaml:"floor"`

	// Scale is the gap in years over which the reduction falls by 1/e of its span.
	Scale float64 `json:"scale" yaml:"scale"`
}

// Simulation contains every parameter the relationship engine reads.
type Simulation struct {
	OwnerExtroversionBoostToChargeMultiplier    float64 `json:"owner_extroversion_boost_to_charge_multiplier" yaml:"owner_extroversion_boost_to_charge_multiplier"`
	SubjectAgreeablenessBoostToChargeMultiplier float64 `json:"subject_agreeableness_boost_to_charge_multiplier" yaml:"subject_agreeableness_boost_to_charge_multiplier"`
	ChargeIntensityReductionDueToSexDifference  float64 `json:"charge_intensity_reduction_due_to_sex_difference" yaml:"charge_intensity_reduction_due_to_sex_difference"`

	OpennessBoostToSparkMultiplier          SexTable `json:"openness_boost_to_spark_multiplier" yaml:"openness_boost_to_spark_multiplier"`
	ConscientiousnessBoostToSparkMultiplier SexTable `json:"conscientiousness_boost_to_spark_multiplier" yaml:"conscientiousness_boost_to_spark_multiplier"`
	ExtroversionBoostToSparkMultiplier      SexTable `json:"extroversion_boost_to_spark_multiplier" yaml:"extroversion_boost_to_spark_multiplier"`
	AgreeablenessBoostToSparkMultiplier     SexTable `json:"agreeableness_boost_to_spark_multiplier" yaml:"agreeableness_boost_to_spark_multiplier"`
	NeuroticismBoostToSparkMultiplier       SexTable `json:"neuroticism_boost_to_spark_multiplier" yaml:"neuroticism_boost_to_spark_multiplier"`

	SparkDecayRate            float64 `json:"spark_decay_rate" yaml:"spark_decay_rate"`
	ChargeThresholdFriendship float64 `json:"charge_threshold_friendship" yaml:"charge_threshold_friendship"`
	ChargeThresholdEnmity     float64 `json:"charge_threshold_enmity" yaml:"charge_threshold_enmity"`

	AgeDifference AgeCurve `json:"age_difference" yaml:"age_difference"`
}

// Run contains settings for the hearth binary's driver loop.
type Run struct {
	Seed       int64  `json:"seed" yaml:"seed"`
	Households int    `json:"households" yaml:"households"`
	Days       int    `json:"days" yaml:"days"`
	TownRadius int    `json:"town_radius" yaml:"town_radius"`
	Chronicle  string `json:"chronicle" yaml:"chronicle"` // SQLite DSN for the history index
	LogLevel   string `json:"log_level" yaml:"log_level"`
}

// Config is the full contents of a hearth config file.
type Config struct {
	Simulation Simulation `json:"simulation" yaml:"simulation"`
	Run        Run        `json:"run" yaml:"run"`
}

// requiredParameters lists every key that must appear under "simulation".
var requiredParameters = []string{
	"owner_extroversion_boost_to_charge_multiplier",
	"subject_agreeableness_boost_to_charge_multiplier",
	"charge_intensity_reduction_due_to_sex_difference",
	"openness_boost_to_spark_multiplier",
	"conscientiousness_boost_to_spark_multiplier",
	"extroversion_boost_to_spark_multiplier",
	"agreeableness_boost_to_spark_multiplier",
	"neuroticism_boost_to_spark_multiplier",
	"spark_decay_rate",
	"charge_threshold_friendship",
	"charge_threshold_enmity",
	"age_difference",
}

// requiredSubkeys lists the keys every table-valued parameter must carry.
var requiredSubkeys = map[string][]string{
	"openness_boost_to_spark_multiplier":          {"m", "f"},
	"conscientiousness_boost_to_spark_multiplier": {"m", "f"},
	"extroversion_boost_to_spark_multiplier":      {"m", "f"},
	"agreeableness_boost_to_spark_multiplier":     {"m", "f"},
	"neuroticism_boost_to_spark_multiplier":       {"m", "f"},
	"age_difference":                              {"floor", "scale"},
}

// missingSubkeys returns which of keys the mapping node lacks.
func missingSubkeys(node *yaml.Node, keys []string) ([]string, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	var table map[string]yaml.Node
	if err := node.Decode(&table); err != nil {
		return nil, err
	}
	var missing []string
	for _, k := range keys {
		if _, ok := table[k]; !ok {
			missing = append(missing, k)
		}
	}
	return missing, nil
}

// DefaultSimulation returns the stock tuning.
func DefaultSimulation() Simulation {
	return Simulation{
		OwnerExtroversionBoostToChargeMultiplier:    phi.Psyche,
		SubjectAgreeablenessBoostToChargeMultiplier: phi.Psyche,
		ChargeIntensityReductionDueToSexDifference:  phi.Matter,

		OpennessBoostToSparkMultiplier:          SexTable{Male: 0.5, Female: 0.3},
		ConscientiousnessBoostToSparkMultiplier: SexTable{Male: 0.2, Female: 0.4},
		ExtroversionBoostToSparkMultiplier:      SexTable{Male: 0.3, Female: 0.3},
		AgreeablenessBoostToSparkMultiplier:     SexTable{Male: 0.4, Female: 0.2},
		NeuroticismBoostToSparkMultiplier:       SexTable{Male: -0.3, Female: -0.3},

		SparkDecayRate: 0.8,

		// Compatibility averages about +1/3 over random personalities, so most
		// charge increments are positive and enmity needs a clearly
		// incompatible, withdrawn pair. Friendship is the common outcome.
		ChargeThresholdFriendship: 15,
		ChargeThresholdEnmity:     -15,

		AgeDifference: AgeCurve{Floor: phi.Agnosis, Scale: 12},
	}
}

// DefaultRun returns default driver settings. The chronicle lives in memory.
func DefaultRun() Run {
	return Run{
		Seed:       42,
		Households: 40,
		Days:       365,
		TownRadius: 6,
		Chronicle:  "file:hearth?mode=memory&cache=shared",
		LogLevel:   "info",
	}
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Simulation: DefaultSimulation(),
		Run:        DefaultRun(),
	}
}

// AgeDifferenceEffect returns the multiplier in (0, 1] an age gap applies to
// charge and spark increments. It is 1 for equal ages and decreases
// monotonically with the gap.
func (s *Simulation) AgeDifferenceEffect(age1, age2 int) float64 {
	gap := math.Abs(float64(age1 - age2))
	if gap == 0 {
		return 1
	}
	floor := s.AgeDifference.Floor
	return floor + (1-floor)*math.Exp(-gap/s.AgeDifference.Scale)
}

// SparkMultipliers returns the five per-trait spark multipliers for a sex key,
// in openness, conscientiousness, extroversion, agreeableness, neuroticism order.
func (s *Simulation) SparkMultipliers(sexKey string) [5]float64 {
	return [5]float64{
		s.OpennessBoostToSparkMultiplier.For(sexKey),
		s.ConscientiousnessBoostToSparkMultiplier.For(sexKey),
		s.ExtroversionBoostToSparkMultiplier.For(sexKey),
		s.AgreeablenessBoostToSparkMultiplier.For(sexKey),
		s.NeuroticismBoostToSparkMultiplier.For(sexKey),
	}
}

// Validate checks parameter ranges. A config that fails validation must not
// reach the engine.
func (s *Simulation) Validate() error {
	var problems []string
	check := func(ok bool, format string, args ...any) {
		if !ok {
			problems = append(problems, fmt.Sprintf(format, args...))
		}
	}

	check(s.SparkDecayRate > 0 && s.SparkDecayRate < 1,
		"spark_decay_rate must be in (0, 1), got %g", s.SparkDecayRate)
	check(s.ChargeIntensityReductionDueToSexDifference > 0 && s.ChargeIntensityReductionDueToSexDifference <= 1,
		"charge_intensity_reduction_due_to_sex_difference must be in (0, 1], got %g", s.ChargeIntensityReductionDueToSexDifference)
	check(s.ChargeThresholdEnmity < s.ChargeThresholdFriendship,
		"charge_threshold_enmity (%g) must be below charge_threshold_friendship (%g)",
		s.ChargeThresholdEnmity, s.ChargeThresholdFriendship)
	check(s.AgeDifference.Floor > 0 && s.AgeDifference.Floor <= 1,
		"age_difference.floor must be in (0, 1], got %g", s.AgeDifference.Floor)
	check(s.AgeDifference.Scale > 0,
		"age_difference.scale must be positive, got %g", s.AgeDifference.Scale)

	for name, v := range map[string]float64{
		"owner_extroversion_boost_to_charge_multiplier":    s.OwnerExtroversionBoostToChargeMultiplier,
		"subject_agreeableness_boost_to_charge_multiplier": s.SubjectAgreeablenessBoostToChargeMultiplier,
		"charge_threshold_friendship":                      s.ChargeThresholdFriendship,
		"charge_threshold_enmity":                          s.ChargeThresholdEnmity,
		"spark_decay_rate":                                 s.SparkDecayRate,
		"openness_boost_to_spark_multiplier.m":             s.OpennessBoostToSparkMultiplier.Male,
		"openness_boost_to_spark_multiplier.f":             s.OpennessBoostToSparkMultiplier.Female,
		"conscientiousness_boost_to_spark_multiplier.m":    s.ConscientiousnessBoostToSparkMultiplier.Male,
		"conscientiousness_boost_to_spark_multiplier.f":    s.ConscientiousnessBoostToSparkMultiplier.Female,
		"extroversion_boost_to_spark_multiplier.m":         s.ExtroversionBoostToSparkMultiplier.Male,
		"extroversion_boost_to_spark_multiplier.f":         s.ExtroversionBoostToSparkMultiplier.Female,
		"agreeableness_boost_to_spark_multiplier.m":        s.AgreeablenessBoostToSparkMultiplier.Male,
		"agreeableness_boost_to_spark_multiplier.f":        s.AgreeablenessBoostToSparkMultiplier.Female,
		"neuroticism_boost_to_spark_multiplier.m":          s.NeuroticismBoostToSparkMultiplier.Male,
		"neuroticism_boost_to_spark_multiplier.f":          s.NeuroticismBoostToSparkMultiplier.Female,
	} {
		check(!math.IsNaN(v) && !math.IsInf(v, 0), "%s must be finite", name)
	}

	if len(problems) > 0 {
		sort.Strings(problems)
		return fmt.Errorf("%w: %s", ErrInvalidParameter, strings.Join(problems, "; "))
	}
	return nil
}

// Validate checks the simulation parameters and run settings.
func (c *Config) Validate() error {
	if err := c.Simulation.Validate(); err != nil {
		return err
	}
	if c.Run.Households < 1 {
		return fmt.Errorf("%w: run.households must be at least 1", ErrInvalidParameter)
	}
	if c.Run.Days < 0 {
		return fmt.Errorf("%w: run.days must not be negative", ErrInvalidParameter)
	}
	if c.Run.TownRadius < 1 {
		return fmt.Errorf("%w: run.town_radius must be at least 1", ErrInvalidParameter)
	}
	return nil
}

// LoadFromFile reads a YAML config. Every simulation parameter must be present;
// run settings fall back to DefaultRun. Unknown keys are rejected.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML config document.
func Parse(data []byte) (*Config, error) {
	var raw struct {
		Simulation map[string]yaml.Node `yaml:"simulation"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	var missing []string
	for _, key := range requiredParameters {
		node, ok := raw.Simulation[key]
		if !ok {
			missing = append(missing, key)
			continue
		}
		sub, err := missingSubkeys(&node, requiredSubkeys[key])
		if err != nil {
			return nil, fmt.Errorf("parse config: %s: %w", key, err)
		}
		for _, k := range sub {
			missing = append(missing, key+"."+k)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingParameter, strings.Join(missing, ", "))
	}

	cfg := &Config{Run: DefaultRun()}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Marshal renders the config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return buf.Bytes(), nil
}

// ApplyEnv overrides run settings from HEARTH_SEED, HEARTH_HOUSEHOLDS,
// HEARTH_DAYS, HEARTH_TOWN_RADIUS, HEARTH_CHRONICLE and HEARTH_LOG_LEVEL.
func (c *Config) ApplyEnv() error {
	intVar := func(name string, dst *int) error {
		v := os.Getenv(name)
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidParameter, name, v)
		}
		*dst = n
		return nil
	}

	if v := os.Getenv("HEARTH_SEED"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: HEARTH_SEED=%q is not an integer", ErrInvalidParameter, v)
		}
		c.Run.Seed = n
	}
	if err := intVar("HEARTH_HOUSEHOLDS", &c.Run.Households); err != nil {
		return err
	}
	if err := intVar("HEARTH_DAYS", &c.Run.Days); err != nil {
		return err
	}
	if err := intVar("HEARTH_TOWN_RADIUS", &c.Run.TownRadius); err != nil {
		return err
	}
	if v := os.Getenv("HEARTH_CHRONICLE"); v != "" {
		c.Run.Chronicle = v
	}
	if v := os.Getenv("HEARTH_LOG_LEVEL"); v != "" {
		c.Run.LogLevel = v
	}
	return nil
}
