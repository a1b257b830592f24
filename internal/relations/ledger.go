package relations

import (
	"fmt"
	"sort"

	"github.com/talgya/hearth/internal/agents"
)

// Ledger maps each subject an owner knows to the owner's current record
// about them. Every record constructor registers into it as its last step.
type Ledger struct {
	owner   agents.AgentID
	current map[agents.AgentID]Record
}

// NewLedger creates an empty ledger for owner.
func NewLedger(owner agents.AgentID) *Ledger {
	return &Ledger{
		owner:   owner,
		current: make(map[agents.AgentID]Record),
	}
}

// Owner returns the person the ledger belongs to.
func (l *Ledger) Owner() agents.AgentID {
	return l.owner
}

// Current returns the current record about subject, or nil.
func (l *Ledger) Current(subject agents.AgentID) Record {
	return l.current[subject]
}

// Register makes rec the current record for its subject, replacing
// whatever was there.
func (l *Ledger) Register(rec Record) error {
	if rec == nil {
		return fmt.Errorf("register: nil record")
	}
	base := rec.Base()
	if base.Owner == nil || base.Subject == nil {
		return fmt.Errorf("register %s: owner and subject required", rec.Kind())
	}
	if base.Owner.ID != l.owner {
		return fmt.Errorf("register %s owned by %d in ledger of %d: %w",
			rec.Kind(), base.Owner.ID, l.owner, ErrWrongOwner)
	}
	l.current[base.Subject.ID] = rec
	return nil
}

// Len returns the number of subjects in the ledger.
func (l *Ledger) Len() int {
	return len(l.current)
}

// Subjects returns every subject id in ascending order.
func (l *Ledger) Subjects() []agents.AgentID {
	ids := make([]agents.AgentID, 0, len(l.current))
	for id := range l.current {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Each calls fn for every current record in subject order.
func (l *Ledger) Each(fn func(subject agents.AgentID, rec Record)) {
	for _, id := range l.Subjects() {
		fn(id, l.current[id])
	}
}

// CountByKind tallies current records by state.
func (l *Ledger) CountByKind() map[Kind]int {
	counts := make(map[Kind]int)
	for _, rec := range l.current {
		counts[rec.Kind()]++
	}
	return counts
}

// Ledgers holds one Ledger per owner.
type Ledgers struct {
	byOwner map[agents.AgentID]*Ledger
}

// NewLedgers creates an empty collection.
func NewLedgers() *Ledgers {
	return &Ledgers{byOwner: make(map[agents.AgentID]*Ledger)}
}

// For returns owner's ledger, creating it on first use.
func (ls *Ledgers) For(owner agents.AgentID) *Ledger {
	l, ok := ls.byOwner[owner]
	if !ok {
		l = NewLedger(owner)
		ls.byOwner[owner] = l
	}
	return l
}

// Current returns owner's current record about subject, or nil.
func (ls *Ledgers) Current(owner, subject agents.AgentID) Record {
	l, ok := ls.byOwner[owner]
	if !ok {
		return nil
	}
	return l.Current(subject)
}

// Owners returns every owner with a ledger in ascending order.
func (ls *Ledgers) Owners() []agents.AgentID {
	ids := make([]agents.AgentID, 0, len(ls.byOwner))
	for id := range ls.byOwner {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
