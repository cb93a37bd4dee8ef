package services

import (
	"context"
	"errors"

	"github.com/yukikurage/campus-works/internal/models"
	"github.com/yukikurage/campus-works/internal/payment"
	"github.com/yukikurage/campus-works/internal/repository"
)

// downGateway refuses every order
type downGateway struct{}

func (downGateway) CreateOrder(context.Context, int64, string) (string, error) {
	return "", errors.New("connection refused")
}

func (downGateway) VerifySignature(string, string, string) error {
	return payment.ErrSignatureMismatch
}

// readyForPayment returns a task whose accepted bidder has submitted work.
func (s *ServiceTestSuite) readyForPayment() (poster, bidder *models.User, task *models.Task) {
	poster = s.createUser("poster")
	bidder = s.createUser("bidder")
	task = s.createTask(poster.ID)
	proposal := s.propose(task.ID, bidder.ID, 700)
	s.accept(proposal.ID, poster.ID)
	s.submit(task.ID, bidder.ID)
	return poster, bidder, task
}

func (s *ServiceTestSuite) transactionStatus(id string) models.TransactionStatus {
	var txn models.Transaction
	s.Require().NoError(s.db.First(&txn, "id = ?", id).Error)
	return txn.Status
}

func (s *ServiceTestSuite) TestInitiatePayment_Rules() {
	poster := s.createUser("poster")
	bidder := s.createUser("bidder")
	task := s.createTask(poster.ID)

	_, err := s.payments.InitiatePayment(s.ctx, CreateOrderInput{TaskID: task.ID, PayerID: poster.ID})
	s.ErrorIs(err, ErrTaskNotAwaitingPayment)

	proposal := s.propose(task.ID, bidder.ID, 700)
	s.accept(proposal.ID, poster.ID)

	_, err = s.payments.InitiatePayment(s.ctx, CreateOrderInput{TaskID: task.ID, PayerID: poster.ID})
	s.ErrorIs(err, ErrSubmissionMissing)

	s.submit(task.ID, bidder.ID)

	_, err = s.payments.InitiatePayment(s.ctx, CreateOrderInput{TaskID: task.ID, PayerID: bidder.ID})
	s.ErrorIs(err, ErrNotTaskPoster)

	_, err = s.payments.InitiatePayment(s.ctx, CreateOrderInput{TaskID: task.ID, PayerID: poster.ID, Amount: int64Ptr(700)})
	s.ErrorIs(err, ErrAmountMismatch)
	s.ErrorIs(err, ErrSecurity)

	order, err := s.payments.InitiatePayment(s.ctx, CreateOrderInput{TaskID: task.ID, PayerID: poster.ID, Amount: int64Ptr(735)})
	s.Require().NoError(err)
	s.Equal(int64(735), order.Transaction.Amount)
	s.Empty(order.PayoutURI)
}

func (s *ServiceTestSuite) TestInitiatePayment_PayoutURI() {
	poster, bidder, task := s.readyForPayment()
	payout := "bidder@upi"
	_, err := s.users.UpdateProfile(s.ctx, bidder.ID, bidder.ID, UpdateProfileInput{PayoutAddress: &payout})
	s.Require().NoError(err)

	order, err := s.payments.InitiatePayment(s.ctx, CreateOrderInput{TaskID: task.ID, PayerID: poster.ID})
	s.Require().NoError(err)
	s.Contains(order.PayoutURI, "pa=bidder%40upi")
	s.Contains(order.PayoutURI, "am=700")
}

func (s *ServiceTestSuite) TestConfirmPayment_ForgedSignatureChangesNothing() {
	poster, _, task := s.readyForPayment()
	order, err := s.payments.InitiatePayment(s.ctx, CreateOrderInput{TaskID: task.ID, PayerID: poster.ID})
	s.Require().NoError(err)
	orderID := order.Transaction.ExternalOrderID

	forged := []string{
		s.gateway.Sign(orderID, "pay_other"),
		"deadbeef",
		"zz",
	}
	for _, sig := range forged {
		_, err := s.payments.ConfirmPayment(s.ctx, ConfirmPaymentInput{ActorID: poster.ID, OrderID: orderID, PaymentID: "pay_1", Signature: sig})
		s.ErrorIs(err, ErrSignatureMismatch)
		s.ErrorIs(err, ErrSecurity)
	}

	s.Equal(models.TransactionStatusPending, s.transactionStatus(order.Transaction.ID))
	s.Equal(models.TaskStatusInProgress, s.taskStatus(task.ID))

	_, err = s.payments.ConfirmPayment(s.ctx, ConfirmPaymentInput{ActorID: poster.ID, OrderID: orderID, PaymentID: "pay_1", Signature: s.gateway.Sign(orderID, "pay_1")})
	s.Require().NoError(err)
	s.Equal(models.TaskStatusCompleted, s.taskStatus(task.ID))
}

func (s *ServiceTestSuite) TestConfirmPayment_Rules() {
	poster, bidder, task := s.readyForPayment()
	order, err := s.payments.InitiatePayment(s.ctx, CreateOrderInput{TaskID: task.ID, PayerID: poster.ID})
	s.Require().NoError(err)
	orderID := order.Transaction.ExternalOrderID
	sig := s.gateway.Sign(orderID, "pay_1")

	_, err = s.payments.ConfirmPayment(s.ctx, ConfirmPaymentInput{ActorID: poster.ID, OrderID: orderID})
	s.ErrorIs(err, ErrValidation)

	_, err = s.payments.ConfirmPayment(s.ctx, ConfirmPaymentInput{ActorID: poster.ID, OrderID: "order_missing", PaymentID: "pay_1", Signature: sig})
	s.ErrorIs(err, ErrTransactionNotFound)

	_, err = s.payments.ConfirmPayment(s.ctx, ConfirmPaymentInput{ActorID: bidder.ID, OrderID: orderID, PaymentID: "pay_1", Signature: sig})
	s.ErrorIs(err, ErrForbidden)

	_, err = s.payments.ConfirmPayment(s.ctx, ConfirmPaymentInput{ActorID: poster.ID, OrderID: orderID, PaymentID: "pay_1", Signature: sig})
	s.Require().NoError(err)

	_, err = s.payments.ConfirmPayment(s.ctx, ConfirmPaymentInput{ActorID: poster.ID, OrderID: orderID, PaymentID: "pay_1", Signature: sig})
	s.ErrorIs(err, ErrTransactionResolved)
	s.ErrorIs(err, ErrConflict)
}

func (s *ServiceTestSuite) TestCancelPayment_AllowsNewOrder() {
	poster, bidder, task := s.readyForPayment()
	first, err := s.payments.InitiatePayment(s.ctx, CreateOrderInput{TaskID: task.ID, PayerID: poster.ID})
	s.Require().NoError(err)

	_, err = s.payments.CancelPayment(s.ctx, first.Transaction.ID, bidder.ID)
	s.ErrorIs(err, ErrNotPayer)

	cancelled, err := s.payments.CancelPayment(s.ctx, first.Transaction.ID, poster.ID)
	s.Require().NoError(err)
	s.Equal(models.TransactionStatusFailed, cancelled.Status)

	_, err = s.payments.CancelPayment(s.ctx, first.Transaction.ID, poster.ID)
	s.ErrorIs(err, ErrTransactionResolved)

	orderID := first.Transaction.ExternalOrderID
	_, err = s.payments.ConfirmPayment(s.ctx, ConfirmPaymentInput{ActorID: poster.ID, OrderID: orderID, PaymentID: "pay_1", Signature: s.gateway.Sign(orderID, "pay_1")})
	s.ErrorIs(err, ErrTransactionResolved)
	s.Equal(models.TaskStatusInProgress, s.taskStatus(task.ID))

	second, err := s.payments.InitiatePayment(s.ctx, CreateOrderInput{TaskID: task.ID, PayerID: poster.ID})
	s.Require().NoError(err)
	s.NotEqual(first.Transaction.ExternalOrderID, second.Transaction.ExternalOrderID)

	txns, err := s.payments.ListTransactions(s.ctx, task.ID, bidder.ID)
	s.Require().NoError(err)
	s.Len(txns, 2)

	outsider := s.createUser("outsider")
	_, err = s.payments.ListTransactions(s.ctx, task.ID, outsider.ID)
	s.ErrorIs(err, ErrNotTaskParticipant)
}

func (s *ServiceTestSuite) TestConfirmPayment_OnlyOneOfTwoPendingOrdersCompletes() {
	poster, _, task := s.readyForPayment()
	first, err := s.payments.InitiatePayment(s.ctx, CreateOrderInput{TaskID: task.ID, PayerID: poster.ID})
	s.Require().NoError(err)
	second, err := s.payments.InitiatePayment(s.ctx, CreateOrderInput{TaskID: task.ID, PayerID: poster.ID})
	s.Require().NoError(err)

	firstOrder := first.Transaction.ExternalOrderID
	_, err = s.payments.ConfirmPayment(s.ctx, ConfirmPaymentInput{ActorID: poster.ID, OrderID: firstOrder, PaymentID: "pay_1", Signature: s.gateway.Sign(firstOrder, "pay_1")})
	s.Require().NoError(err)

	secondOrder := second.Transaction.ExternalOrderID
	_, err = s.payments.ConfirmPayment(s.ctx, ConfirmPaymentInput{ActorID: poster.ID, OrderID: secondOrder, PaymentID: "pay_2", Signature: s.gateway.Sign(secondOrder, "pay_2")})
	s.ErrorIs(err, ErrConflict)
	s.Equal(models.TransactionStatusPending, s.transactionStatus(second.Transaction.ID))
}

func (s *ServiceTestSuite) TestPayment_ZeroAmountProposalCompletes() {
	poster := s.createUser("poster")
	bidder := s.createUser("bidder")
	task := s.createTask(poster.ID)
	proposal := s.propose(task.ID, bidder.ID, 0)
	s.accept(proposal.ID, poster.ID)
	s.submit(task.ID, bidder.ID)

	order, err := s.payments.InitiatePayment(s.ctx, CreateOrderInput{TaskID: task.ID, PayerID: poster.ID, Amount: int64Ptr(0)})
	s.Require().NoError(err)
	s.Equal(int64(0), order.Quote.Total)
	s.Equal(int64(0), order.Transaction.Amount)

	orderID := order.Transaction.ExternalOrderID
	txn, err := s.payments.ConfirmPayment(s.ctx, ConfirmPaymentInput{
		ActorID:   poster.ID,
		OrderID:   orderID,
		PaymentID: "pay_free",
		Signature: s.gateway.Sign(orderID, "pay_free"),
	})
	s.Require().NoError(err)
	s.Equal(models.TransactionStatusCompleted, txn.Status)
	s.Equal(models.TaskStatusCompleted, s.taskStatus(task.ID))
}

func (s *ServiceTestSuite) TestInitiatePayment_GatewayFailureIsUnavailable() {
	poster, _, task := s.readyForPayment()
	payments := NewPaymentService(PaymentRepositories{
		Tasks:        repository.NewTaskRepository(s.db),
		Proposals:    repository.NewProposalRepository(s.db),
		Submissions:  repository.NewSubmissionRepository(s.db),
		Transactions: repository.NewTransactionRepository(s.db),
		Users:        repository.NewUserRepository(s.db),
	}, downGateway{}, payment.NewFeeCalculator(5), nil)

	_, err := payments.InitiatePayment(s.ctx, CreateOrderInput{TaskID: task.ID, PayerID: poster.ID})
	s.ErrorIs(err, ErrPaymentGateway)
	s.ErrorIs(err, ErrUnavailable)

	var count int64
	s.db.Model(&models.Transaction{}).Where("task_id = ?", task.ID).Count(&count)
	s.Zero(count)
	s.Equal(models.TaskStatusInProgress, s.taskStatus(task.ID))
}
