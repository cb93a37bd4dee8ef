package services

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by a service either wraps one of these or
// is unexpected.
var (
	ErrValidation  = errors.New("validation error")
	ErrNotFound    = errors.New("not found")
	ErrForbidden   = errors.New("forbidden")
	ErrConflict    = errors.New("conflict")
	ErrSecurity    = errors.New("security check failed")
	ErrUnavailable = errors.New("service unavailable")
)

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

func newError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

func validationError(format string, args ...interface{}) error {
	return newError(ErrValidation, fmt.Sprintf(format, args...))
}

var (
	ErrUserNotFound         = newError(ErrNotFound, "user not found")
	ErrTaskNotFound         = newError(ErrNotFound, "task not found")
	ErrProposalNotFound     = newError(ErrNotFound, "proposal not found")
	ErrSubmissionNotFound   = newError(ErrNotFound, "submission not found")
	ErrTransactionNotFound  = newError(ErrNotFound, "transaction not found")
	ErrGroupNotFound        = newError(ErrNotFound, "group not found")
	ErrNotificationNotFound = newError(ErrNotFound, "notification not found")

	ErrSelfBid            = newError(ErrForbidden, "you cannot bid on your own task")
	ErrNotTaskPoster      = newError(ErrForbidden, "only the task poster can perform this action")
	ErrNotAcceptedBidder  = newError(ErrForbidden, "only the accepted bidder can submit work")
	ErrNotGroupMember     = newError(ErrForbidden, "you are not a member of this group")
	ErrNotTaskParticipant = newError(ErrForbidden, "only the poster and the accepted bidder can access this")
	ErrNotProfileOwner    = newError(ErrForbidden, "you can only edit your own profile")
	ErrNotPayer           = newError(ErrForbidden, "only the payer can cancel this payment")

	ErrTaskNotOpen             = newError(ErrConflict, "task is not open for proposals")
	ErrTaskNotDeletable        = newError(ErrConflict, "only open tasks can be deleted")
	ErrProposalNotPending      = newError(ErrConflict, "proposal is no longer pending")
	ErrProposalAlreadyAccepted = newError(ErrConflict, "another proposal has already been accepted for this task")
	ErrNoAcceptedProposal      = newError(ErrConflict, "task has no accepted proposal")
	ErrSubmissionExists        = newError(ErrConflict, "work has already been submitted for this task")
	ErrSubmissionMissing       = newError(ErrConflict, "work has not been submitted for this task")
	ErrTaskNotAwaitingPayment  = newError(ErrConflict, "task is not awaiting payment")
	ErrTransactionResolved     = newError(ErrConflict, "transaction is already resolved")
	ErrEmailLinked             = newError(ErrConflict, "email is already linked to another account")

	ErrSignatureMismatch = newError(ErrSecurity, "payment signature verification failed")
	ErrAmountMismatch    = newError(ErrSecurity, "payment amount does not match the accepted proposal")

	ErrPaymentGateway         = newError(ErrUnavailable, "payment gateway rejected the order")
	ErrAIServiceNotConfigured = newError(ErrUnavailable, "AI service is not configured")
	ErrAINoDraft              = newError(ErrUnavailable, "AI did not return a usable task draft")
)
