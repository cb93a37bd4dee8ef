package repository

import "errors"

var (
	// ErrStaleState is returned when a conditional write matched no row because
	// the record was no longer in the expected state.
	ErrStaleState = errors.New("repository: record is not in the expected state")

	// ErrDuplicate is returned when a write would violate a uniqueness rule.
	ErrDuplicate = errors.New("repository: duplicate record")

	// ErrNotAcceptedBidder is returned when a submitter does not own the accepted proposal.
	ErrNotAcceptedBidder = errors.New("repository: submitter is not the accepted bidder")

	// ErrNoAcceptedProposal is returned when a task has no accepted proposal.
	ErrNoAcceptedProposal = errors.New("repository: task has no accepted proposal")

	// ErrSubmissionMissing is returned when a payment is recorded for a task without submission.
	ErrSubmissionMissing = errors.New("repository: task has no submission")
)
