package relations

import "errors"

var (
	// ErrNoConfig means an Env was used without a configuration snapshot.
	ErrNoConfig = errors.New("relations: no configuration")

	// ErrNoLedgers means an Env was used without ledgers to register into.
	ErrNoLedgers = errors.New("relations: no ledgers")

	// ErrNoPredecessor means a Friendship or Enmity was constructed without
	// the record it supersedes.
	ErrNoPredecessor = errors.New("relations: predecessor required")

	// ErrInvalidPredecessor means the predecessor's state cannot lead to the
	// requested one, e.g. a Friendship preceded by a Kinship.
	ErrInvalidPredecessor = errors.New("relations: invalid predecessor")

	// ErrAlreadySucceeded means the predecessor already has a successor.
	ErrAlreadySucceeded = errors.New("relations: predecessor already succeeded")

	// ErrSuperseded means Progress was called on a record that is no longer
	// current; the caller is holding a stale reference.
	ErrSuperseded = errors.New("relations: record superseded")

	// ErrPairMismatch means a predecessor belongs to a different owner/subject pair.
	ErrPairMismatch = errors.New("relations: predecessor belongs to another pair")

	// ErrAlreadyRelated means a new chain was started for a pair that already
	// has a current record.
	ErrAlreadyRelated = errors.New("relations: pair already has a current record")

	// ErrSelfRelationship means owner and subject are the same person.
	ErrSelfRelationship = errors.New("relations: owner and subject are the same person")

	// ErrInvalidLabel means a Kinship was given an empty relationship label.
	ErrInvalidLabel = errors.New("relations: kinship label required")

	// ErrWrongOwner means a record was registered in another person's ledger.
	ErrWrongOwner = errors.New("relations: record registered in wrong ledger")

	// ErrBrokenChain reports a history chain that violates its linking rules.
	ErrBrokenChain = errors.New("relations: broken chain")
)
