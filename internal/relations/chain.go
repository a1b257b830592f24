package relations

import (
	"fmt"
)

// Chain returns the history ending at rec, oldest first.
func Chain(rec Record) []Record {
	if isNilRecord(rec) {
		return nil
	}
	var rev []Record
	seen := make(map[Record]bool)
	for r := rec; !isNilRecord(r) && !seen[r]; r = r.Base().PrecededBy {
		seen[r] = true
		rev = append(rev, r)
	}
	out := make([]Record, len(rev))
	for i, r := range rev {
		out[len(rev)-1-i] = r
	}
	return out
}

// History returns the whole chain rec belongs to, from its root to the
// current record, oldest first.
func History(rec Record) []Record {
	out := Chain(rec)
	if len(out) == 0 {
		return nil
	}
	seen := make(map[Record]bool, len(out))
	for _, r := range out {
		seen[r] = true
	}
	for r := out[len(out)-1].Base().SucceededBy; !isNilRecord(r) && !seen[r]; r = r.Base().SucceededBy {
		seen[r] = true
		out = append(out, r)
	}
	return out
}

// Verify checks the whole chain rec belongs to: links agree in both
// directions, every record concerns the same pair, states follow
// Kinship? → Acquaintance → (Friendship | Enmity)*, and the meeting place and
// time never change once set.
func Verify(rec Record) error {
	chain := History(rec)
	if len(chain) == 0 {
		return fmt.Errorf("%w: empty chain", ErrBrokenChain)
	}

	root := chain[0].Base()
	if !isNilRecord(root.PrecededBy) {
		return fmt.Errorf("%w: cycle through %s %s", ErrBrokenChain, chain[0].Kind(), root.ID)
	}

	var met *Link
	for i, r := range chain {
		base := r.Base()
		if base.Owner != root.Owner || base.Subject != root.Subject {
			return fmt.Errorf("%w: record %d concerns another pair", ErrBrokenChain, i)
		}

		if i > 0 {
			prev := chain[i-1]
			if base.PrecededBy != prev || prev.Base().SucceededBy != r {
				return fmt.Errorf("%w: records %d and %d are not linked both ways", ErrBrokenChain, i-1, i)
			}
			if err := checkStep(prev.Kind(), r.Kind()); err != nil {
				return fmt.Errorf("%w: record %d: %v", ErrBrokenChain, i, err)
			}
		} else if r.Kind() != KindKinship && r.Kind() != KindAcquaintance {
			return fmt.Errorf("%w: chain starts with %s", ErrBrokenChain, r.Kind())
		}

		if i == len(chain)-1 && !base.Current() {
			return fmt.Errorf("%w: last record is superseded", ErrBrokenChain)
		}

		switch {
		case r.Kind() == KindKinship:
			if base.Met() {
				return fmt.Errorf("%w: kinship carries a meeting time", ErrBrokenChain)
			}
		case met == nil:
			if !base.Met() || base.WhereTheyMet == nil {
				return fmt.Errorf("%w: %s without meeting details", ErrBrokenChain, r.Kind())
			}
			met = base
		default:
			if base.WhereTheyMet == nil || base.WhenTheyMet == nil ||
				*base.WhereTheyMet != *met.WhereTheyMet || *base.WhenTheyMet != *met.WhenTheyMet {
				return fmt.Errorf("%w: record %d changed meeting details", ErrBrokenChain, i)
			}
		}
	}
	return nil
}

// checkStep reports whether a record of kind next may supersede one of kind prev.
func checkStep(prev, next Kind) error {
	switch next {
	case KindKinship:
		return fmt.Errorf("kinship after %s", prev)
	case KindAcquaintance:
		if prev != KindKinship {
			return fmt.Errorf("acquaintance after %s", prev)
		}
	case KindFriendship, KindEnmity:
		if prev == KindKinship {
			return fmt.Errorf("%s skips acquaintance", next)
		}
	}
	return nil
}
