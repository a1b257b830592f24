package relations

import (
	"fmt"

	"github.com/talgya/hearth/internal/agents"
)

// NewKinship records that owner counts subject as family under label. It is
// the root of the pair's chain: the pair must have no current record. The
// meeting place and time stay unset until an Acquaintance supersedes it.
func NewKinship(env *Env, owner, subject *agents.Agent, label string) (*Kinship, error) {
	if err := env.check(); err != nil {
		return nil, err
	}
	if err := checkPair(owner, subject); err != nil {
		return nil, fmt.Errorf("new kinship: %w", err)
	}
	if label == "" {
		return nil, fmt.Errorf("new kinship %d→%d: %w", owner.ID, subject.ID, ErrInvalidLabel)
	}
	if cur := env.Ledgers.Current(owner.ID, subject.ID); cur != nil {
		return nil, fmt.Errorf("new kinship %d→%d over %s: %w",
			owner.ID, subject.ID, cur.Kind(), ErrAlreadyRelated)
	}

	k := &Kinship{
		Link:         newLink(owner, subject, env.now()),
		Relationship: label,
	}
	if err := env.register(k); err != nil {
		return nil, fmt.Errorf("new kinship: %w", err)
	}
	return k, nil
}
