package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/yukikurage/campus-works/internal/models"
	"github.com/yukikurage/campus-works/internal/notify"
	"github.com/yukikurage/campus-works/internal/payment"
	"github.com/yukikurage/campus-works/internal/repository"
	"gorm.io/gorm"
)

// PaymentService handles paying the accepted bidder
type PaymentService struct {
	taskRepo       repository.TaskRepository
	proposalRepo   repository.ProposalRepository
	submissionRepo repository.SubmissionRepository
	txnRepo        repository.TransactionRepository
	userRepo       repository.UserRepository
	gateway        payment.Gateway
	fees           payment.FeeCalculator
	notifier       Notifier
}

// PaymentRepositories groups the stores PaymentService reads and writes
type PaymentRepositories struct {
	Tasks        repository.TaskRepository
	Proposals    repository.ProposalRepository
	Submissions  repository.SubmissionRepository
	Transactions repository.TransactionRepository
	Users        repository.UserRepository
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(repos PaymentRepositories, gateway payment.Gateway, fees payment.FeeCalculator, notifier Notifier) *PaymentService {
	return &PaymentService{
		taskRepo:       repos.Tasks,
		proposalRepo:   repos.Proposals,
		submissionRepo: repos.Submissions,
		txnRepo:        repos.Transactions,
		userRepo:       repos.Users,
		gateway:        gateway,
		fees:           fees,
		notifier:       notifierOrNop(notifier),
	}
}

// CreateOrderInput represents a payment initiation. Amount is optional; the
// charged amount is always derived from the accepted proposal.
type CreateOrderInput struct {
	TaskID  string
	PayerID string
	Amount  *int64
}

// Order is an initiated payment
type Order struct {
	Transaction *models.Transaction
	Quote       payment.Quote
	PayoutURI   string
}

// ConfirmPaymentInput carries the gateway's completion callback
type ConfirmPaymentInput struct {
	ActorID   string
	OrderID   string
	PaymentID string
	Signature string
}

// InitiatePayment opens a PENDING transaction for the accepted amount plus fee
func (s *PaymentService) InitiatePayment(ctx context.Context, input CreateOrderInput) (*Order, error) {
	task, err := loadTask(ctx, s.taskRepo, input.TaskID)
	if err != nil {
		return nil, err
	}

	if task.PosterID != input.PayerID {
		return nil, ErrNotTaskPoster
	}
	if task.Status != models.TaskStatusInProgress {
		return nil, ErrTaskNotAwaitingPayment
	}

	accepted, err := s.proposalRepo.FindAccepted(ctx, task.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNoAcceptedProposal) {
			return nil, ErrNoAcceptedProposal
		}
		return nil, fmt.Errorf("failed to find accepted proposal: %w", err)
	}

	if _, err := s.submissionRepo.FindByTaskID(ctx, task.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionMissing
		}
		return nil, fmt.Errorf("failed to find submission: %w", err)
	}

	quote := s.fees.Quote(accepted.Amount)
	if input.Amount != nil && *input.Amount != quote.Total {
		return nil, ErrAmountMismatch
	}

	orderID, err := s.gateway.CreateOrder(ctx, quote.Total, task.ID)
	if err != nil {
		log.Printf("payment gateway: create order for task %s: %v", task.ID, err)
		return nil, ErrPaymentGateway
	}

	txn := &models.Transaction{
		TaskID:          task.ID,
		ProposalID:      accepted.ID,
		PayerID:         input.PayerID,
		BaseAmount:      quote.Base,
		FeeAmount:       quote.Fee,
		Amount:          quote.Total,
		ExternalOrderID: orderID,
	}

	if err := s.txnRepo.CreatePending(ctx, txn); err != nil {
		switch {
		case errors.Is(err, repository.ErrStaleState):
			return nil, ErrTaskNotAwaitingPayment
		case errors.Is(err, repository.ErrSubmissionMissing):
			return nil, ErrSubmissionMissing
		default:
			return nil, fmt.Errorf("failed to record transaction: %w", err)
		}
	}

	order := &Order{Transaction: txn, Quote: quote}
	if bidder, err := s.userRepo.FindByID(ctx, accepted.BidderID); err == nil && bidder.PayoutAddress != "" {
		order.PayoutURI = payment.PayoutURI(bidder.PayoutAddress, quote.Base, task.Title)
	}

	return order, nil
}

// ConfirmPayment verifies the gateway signature and completes the
// transaction and the task together. A bad signature changes nothing.
func (s *PaymentService) ConfirmPayment(ctx context.Context, input ConfirmPaymentInput) (*models.Transaction, error) {
	orderID := strings.TrimSpace(input.OrderID)
	paymentID := strings.TrimSpace(input.PaymentID)
	signature := strings.TrimSpace(input.Signature)
	if orderID == "" || paymentID == "" || signature == "" {
		return nil, validationError("order_id, payment_id and signature are required")
	}

	txn, err := s.txnRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to find transaction: %w", err)
	}

	if txn.PayerID != input.ActorID {
		return nil, ErrNotPayer
	}

	if err := s.gateway.VerifySignature(orderID, paymentID, signature); err != nil {
		return nil, ErrSignatureMismatch
	}

	if txn.Status != models.TransactionStatusPending {
		return nil, ErrTransactionResolved
	}

	if err := s.txnRepo.Complete(ctx, txn.ID, paymentID); err != nil {
		if errors.Is(err, repository.ErrStaleState) {
			return nil, ErrTransactionResolved
		}
		return nil, fmt.Errorf("failed to complete transaction: %w", err)
	}

	txn.Status = models.TransactionStatusCompleted
	txn.ExternalPaymentID = paymentID

	if accepted, err := s.proposalRepo.FindByID(ctx, txn.ProposalID); err == nil {
		s.notifier.Notify(accepted.BidderID, notify.Event{
			Kind:    notify.KindPaymentCompleted,
			TaskID:  txn.TaskID,
			Message: fmt.Sprintf("Payment of %d has been completed", txn.BaseAmount),
		})
	}

	return txn, nil
}

// CancelPayment abandons a PENDING transaction so a new order can be created
func (s *PaymentService) CancelPayment(ctx context.Context, transactionID, actorID string) (*models.Transaction, error) {
	txn, err := s.txnRepo.FindByID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to find transaction: %w", err)
	}

	if txn.PayerID != actorID {
		return nil, ErrNotPayer
	}

	if err := s.txnRepo.Fail(ctx, txn.ID); err != nil {
		if errors.Is(err, repository.ErrStaleState) {
			return nil, ErrTransactionResolved
		}
		return nil, fmt.Errorf("failed to cancel transaction: %w", err)
	}

	txn.Status = models.TransactionStatusFailed
	return txn, nil
}

// ListTransactions lists a task's payment attempts for its poster or its
// accepted bidder
func (s *PaymentService) ListTransactions(ctx context.Context, taskID, actorID string) ([]models.Transaction, error) {
	task, err := loadTask(ctx, s.taskRepo, taskID)
	if err != nil {
		return nil, err
	}

	if actorID != task.PosterID {
		accepted, err := s.proposalRepo.FindAccepted(ctx, taskID)
		if err != nil || accepted.BidderID != actorID {
			return nil, ErrNotTaskParticipant
		}
	}

	txns, err := s.txnRepo.ListByTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txns, nil
}
