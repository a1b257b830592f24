// Package relations models the relationship one person (the owner) holds
// toward another (the subject) as a chain of records. Each record is a state:
// Kinship, Acquaintance, Friendship or Enmity. Progressing the current record
// accumulates charge and, at a threshold, constructs a successor that becomes
// the owner's current record while the old one is kept as history.
package relations

import (
	"github.com/google/uuid"

	"github.com/talgya/hearth/internal/agents"
	"github.com/talgya/hearth/internal/world"
)

// Kind tags a record's state.
type Kind uint8

const (
	KindKinship Kind = iota
	KindAcquaintance
	KindFriendship
	KindEnmity
)

// String returns the lowercase state name.
func (k Kind) String() string {
	switch k {
	case KindKinship:
		return "kinship"
	case KindAcquaintance:
		return "acquaintance"
	case KindFriendship:
		return "friendship"
	case KindEnmity:
		return "enmity"
	default:
		return "unknown"
	}
}

// Record is any relationship record.
type Record interface {
	Kind() Kind
	Base() *Link
}

// Progressor is a record that evolves each time the pair spends time together.
// Progress returns the successor when a threshold is crossed, or nil.
type Progressor interface {
	Record
	Progress(env *Env) (Record, error)
}

// Link holds the fields every record shares. PrecededBy and SucceededBy are
// navigation links; a nil SucceededBy means the record is current.
type Link struct {
	ID      uuid.UUID     `json:"id"`
	Owner   *agents.Agent `json:"-"`
	Subject *agents.Agent `json:"-"`

	PrecededBy  Record `json:"-"`
	SucceededBy Record `json:"-"`

	// Set once when the pair first meets, then inherited unchanged.
	WhereTheyMet *world.HexCoord `json:"where_they_met,omitempty"`
	WhenTheyMet  *uint64         `json:"when_they_met,omitempty"`

	FormedAt uint64 `json:"formed_at"` // Tick the record was constructed
}

// Base returns the shared fields.
func (l *Link) Base() *Link {
	return l
}

// Current reports whether the record has not been superseded.
func (l *Link) Current() bool {
	return l.SucceededBy == nil
}

// Met reports whether the pair has met in person.
func (l *Link) Met() bool {
	return l.WhenTheyMet != nil
}

// Charge is the accumulated affective valence and its fixed per-step increment.
type Charge struct {
	Increment float64 `json:"increment"`
	Value     float64 `json:"value"`
}

// Spark is accumulated romantic attraction with a decaying per-step increment.
type Spark struct {
	Increment float64 `json:"increment"`
	Value     float64 `json:"value"`
}

// Kinship is a pre-existing family tie. It carries no affect and does not
// progress; it is superseded by an Acquaintance when the pair first meets.
type Kinship struct {
	Link
	Relationship string `json:"relationship"` // e.g. "mother", "sibling"
}

// Kind returns KindKinship.
func (k *Kinship) Kind() Kind { return KindKinship }

// Acquaintance is the getting-to-know-you state. It is the only state that
// tracks spark and feeds the owner's mental model.
type Acquaintance struct {
	Link
	Compatibility float64 `json:"compatibility"`
	Charge        Charge  `json:"charge"`
	Spark         Spark   `json:"spark"`
}

// Kind returns KindAcquaintance.
func (a *Acquaintance) Kind() Kind { return KindAcquaintance }

// Bond holds what Friendship and Enmity share: charge copied verbatim from
// the record they supersede.
type Bond struct {
	Link
	Charge Charge `json:"charge"`
}

// Friendship is reached when charge rises above the friendship threshold.
type Friendship struct {
	Bond
}

// Kind returns KindFriendship.
func (f *Friendship) Kind() Kind { return KindFriendship }

// Enmity is reached when charge falls below the enmity threshold.
type Enmity struct {
	Bond
}

// Kind returns KindEnmity.
func (e *Enmity) Kind() Kind { return KindEnmity }

// ChargeOf returns the charge of a record and whether it has one.
func ChargeOf(r Record) (Charge, bool) {
	switch rec := r.(type) {
	case *Acquaintance:
		return rec.Charge, true
	case *Friendship:
		return rec.Charge, true
	case *Enmity:
		return rec.Charge, true
	default:
		return Charge{}, false
	}
}

func newLink(owner, subject *agents.Agent, tick uint64) Link {
	return Link{
		ID:       uuid.New(),
		Owner:    owner,
		Subject:  subject,
		FormedAt: tick,
	}
}
