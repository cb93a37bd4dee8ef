package services

import (
	"errors"
	"sync"
	"time"

	"github.com/yukikurage/campus-works/internal/models"
	"github.com/yukikurage/campus-works/internal/notify"
)

func (s *ServiceTestSuite) TestFullLifecycle() {
	u1 := s.createUser("u1")
	u2 := s.createUser("u2")

	task := s.createTask(u1.ID)
	s.Equal(models.TaskStatusOpen, task.Status)

	proposal := s.propose(task.ID, u2.ID, 700)
	s.Equal(models.ProposalStatusPending, proposal.Status)

	decided, err := s.proposals.DecideProposal(s.ctx, DecideProposalInput{
		ProposalID: proposal.ID,
		ActorID:    u1.ID,
		Decision:   models.ProposalStatusAccepted,
	})
	s.Require().NoError(err)
	s.Equal(models.ProposalStatusAccepted, decided.Status)
	s.Equal(models.TaskStatusInProgress, s.taskStatus(task.ID))

	s.submit(task.ID, u2.ID)
	submission, err := s.submissions.GetSubmissionForTask(s.ctx, task.ID, u1.ID)
	s.Require().NoError(err)
	s.Equal(u2.ID, submission.SubmitterID)

	order, err := s.payments.InitiatePayment(s.ctx, CreateOrderInput{TaskID: task.ID, PayerID: u1.ID})
	s.Require().NoError(err)
	s.Equal(int64(700), order.Quote.Base)
	s.Equal(int64(35), order.Quote.Fee)
	s.Equal(int64(735), order.Transaction.Amount)
	s.Equal(models.TransactionStatusPending, order.Transaction.Status)
	s.Equal(models.TaskStatusInProgress, s.taskStatus(task.ID))

	orderID := order.Transaction.ExternalOrderID
	txn, err := s.payments.ConfirmPayment(s.ctx, ConfirmPaymentInput{
		ActorID:   u1.ID,
		OrderID:   orderID,
		PaymentID: "pay_001",
		Signature: s.gateway.Sign(orderID, "pay_001"),
	})
	s.Require().NoError(err)
	s.Equal(models.TransactionStatusCompleted, txn.Status)
	s.Equal(models.TaskStatusCompleted, s.taskStatus(task.ID))

	kinds := map[string]bool{}
	for _, n := range s.inbox(u2.ID) {
		kinds[n.Kind] = true
		s.False(n.Read)
		s.Equal(task.ID, n.TaskID)
	}
	s.True(kinds[string(notify.KindProposalAccepted)])
	s.True(kinds[string(notify.KindPaymentCompleted)])

	posterKinds := map[string]bool{}
	for _, n := range s.inbox(u1.ID) {
		posterKinds[n.Kind] = true
	}
	s.True(posterKinds[string(notify.KindWorkSubmitted)])
}

func (s *ServiceTestSuite) TestCreateTask_Validation() {
	poster := s.createUser("poster")
	future := "2999-01-01T00:00:00Z"

	tests := []struct {
		name  string
		input CreateTaskInput
		want  error
	}{
		{"budget min above max", CreateTaskInput{Title: "t", Description: "d", Category: models.CategoryOther, BudgetMin: int64Ptr(900), BudgetMax: int64Ptr(100), Deadline: future}, ErrValidation},
		{"negative budget", CreateTaskInput{Title: "t", Description: "d", Category: models.CategoryOther, BudgetMin: int64Ptr(-1), BudgetMax: int64Ptr(100), Deadline: future}, ErrValidation},
		{"missing budget", CreateTaskInput{Title: "t", Description: "d", Category: models.CategoryOther, Deadline: future}, ErrValidation},
		{"past deadline", CreateTaskInput{Title: "t", Description: "d", Category: models.CategoryOther, BudgetMin: int64Ptr(1), BudgetMax: int64Ptr(2), Deadline: "2000-01-01"}, ErrValidation},
		{"bad deadline", CreateTaskInput{Title: "t", Description: "d", Category: models.CategoryOther, BudgetMin: int64Ptr(1), BudgetMax: int64Ptr(2), Deadline: "next week"}, ErrValidation},
		{"blank title", CreateTaskInput{Title: "  ", Description: "d", Category: models.CategoryOther, BudgetMin: int64Ptr(1), BudgetMax: int64Ptr(2), Deadline: future}, ErrValidation},
		{"blank description", CreateTaskInput{Title: "t", Description: " ", Category: models.CategoryOther, BudgetMin: int64Ptr(1), BudgetMax: int64Ptr(2), Deadline: future}, ErrValidation},
		{"unknown category", CreateTaskInput{Title: "t", Description: "d", Category: "essay", BudgetMin: int64Ptr(1), BudgetMax: int64Ptr(2), Deadline: future}, ErrValidation},
		{"bad reference url", CreateTaskInput{Title: "t", Description: "d", Category: models.CategoryOther, BudgetMin: int64Ptr(1), BudgetMax: int64Ptr(2), Deadline: future, ReferenceURL: "ftp://x"}, ErrValidation},
		{"unknown poster", CreateTaskInput{PosterID: "ghost", Title: "t", Description: "d", Category: models.CategoryOther, BudgetMin: int64Ptr(1), BudgetMax: int64Ptr(2), Deadline: future}, ErrNotFound},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			if tt.input.PosterID == "" {
				tt.input.PosterID = poster.ID
			}
			_, err := s.tasks.CreateTask(s.ctx, tt.input)
			s.ErrorIs(err, tt.want)
		})
	}
}

func (s *ServiceTestSuite) TestCreateTask_DeadlineMustBeStrictlyFuture() {
	poster := s.createUser("poster")
	now := s.tasks.now()
	s.tasks.now = func() time.Time { return now }
	defer func() { s.tasks.now = time.Now }()

	_, err := s.tasks.CreateTask(s.ctx, CreateTaskInput{
		PosterID: poster.ID, Title: "t", Description: "d", Category: models.CategoryOther,
		BudgetMin: int64Ptr(0), BudgetMax: int64Ptr(0), Deadline: now.Format(time.RFC3339Nano),
	})
	s.ErrorIs(err, ErrValidation)
}

func (s *ServiceTestSuite) TestSubmitProposal_Rules() {
	poster := s.createUser("poster")
	bidder := s.createUser("bidder")
	task := s.createTask(poster.ID)

	_, err := s.proposals.SubmitProposal(s.ctx, SubmitProposalInput{TaskID: task.ID, BidderID: poster.ID, Amount: int64Ptr(600), Text: "mine"})
	s.ErrorIs(err, ErrSelfBid)
	s.ErrorIs(err, ErrForbidden)

	_, err = s.proposals.SubmitProposal(s.ctx, SubmitProposalInput{TaskID: task.ID, BidderID: bidder.ID, Amount: int64Ptr(-5), Text: "cheap"})
	s.ErrorIs(err, ErrValidation)

	_, err = s.proposals.SubmitProposal(s.ctx, SubmitProposalInput{TaskID: task.ID, BidderID: bidder.ID, Text: "no amount"})
	s.ErrorIs(err, ErrValidation)

	_, err = s.proposals.SubmitProposal(s.ctx, SubmitProposalInput{TaskID: "missing", BidderID: bidder.ID, Amount: int64Ptr(1), Text: "x"})
	s.ErrorIs(err, ErrNotFound)

	proposal := s.propose(task.ID, bidder.ID, 700)
	s.accept(proposal.ID, poster.ID)

	late := s.createUser("late")
	_, err = s.proposals.SubmitProposal(s.ctx, SubmitProposalInput{TaskID: task.ID, BidderID: late.ID, Amount: int64Ptr(650), Text: "still available?"})
	s.ErrorIs(err, ErrTaskNotOpen)
	s.ErrorIs(err, ErrConflict)
}

func (s *ServiceTestSuite) TestDecideProposal_OnlyPoster() {
	u1 := s.createUser("u1")
	u2 := s.createUser("u2")
	u3 := s.createUser("u3")
	task := s.createTask(u1.ID)
	proposal := s.propose(task.ID, u2.ID, 700)

	_, err := s.proposals.DecideProposal(s.ctx, DecideProposalInput{ProposalID: proposal.ID, ActorID: u3.ID, Decision: models.ProposalStatusAccepted})
	s.ErrorIs(err, ErrForbidden)

	_, err = s.proposals.DecideProposal(s.ctx, DecideProposalInput{ProposalID: proposal.ID, ActorID: u1.ID, Decision: models.ProposalStatusPending})
	s.ErrorIs(err, ErrValidation)

	s.Equal(models.TaskStatusOpen, s.taskStatus(task.ID))
}

func (s *ServiceTestSuite) TestDecideProposal_AcceptRejectsSiblings() {
	poster := s.createUser("poster")
	a := s.createUser("a")
	b := s.createUser("b")
	c := s.createUser("c")
	task := s.createTask(poster.ID)

	pa := s.propose(task.ID, a.ID, 700)
	pb := s.propose(task.ID, b.ID, 650)
	pc := s.propose(task.ID, c.ID, 800)

	_, err := s.proposals.DecideProposal(s.ctx, DecideProposalInput{ProposalID: pc.ID, ActorID: poster.ID, Decision: models.ProposalStatusRejected})
	s.Require().NoError(err)

	s.accept(pa.ID, poster.ID)

	proposals, err := s.proposals.ListProposals(s.ctx, task.ID)
	s.Require().NoError(err)
	for _, p := range proposals {
		if p.ID == pa.ID {
			s.Equal(models.ProposalStatusAccepted, p.Status)
		} else {
			s.Equal(models.ProposalStatusRejected, p.Status)
		}
	}
	s.Equal(models.TaskStatusInProgress, s.taskStatus(task.ID))

	_, err = s.proposals.DecideProposal(s.ctx, DecideProposalInput{ProposalID: pb.ID, ActorID: poster.ID, Decision: models.ProposalStatusAccepted})
	s.ErrorIs(err, ErrProposalAlreadyAccepted)
	s.ErrorIs(err, ErrConflict)
	s.Equal(1, s.acceptedCount(task.ID))

	_, err = s.proposals.DecideProposal(s.ctx, DecideProposalInput{ProposalID: pa.ID, ActorID: poster.ID, Decision: models.ProposalStatusRejected})
	s.ErrorIs(err, ErrProposalNotPending)

	s.Len(s.inbox(b.ID), 1)
	s.Len(s.inbox(c.ID), 1)
	s.Equal(string(notify.KindProposalAccepted), s.inbox(a.ID)[0].Kind)
}

func (s *ServiceTestSuite) TestDecideProposal_ConcurrentAcceptsHaveOneWinner() {
	poster := s.createUser("poster")
	task := s.createTask(poster.ID)

	const bidders = 8
	ids := make([]string, bidders)
	for i := range ids {
		bidder := s.createUser(string(rune('a' + i)))
		ids[i] = s.propose(task.ID, bidder.ID, int64(500+i)).ID
	}

	var wg sync.WaitGroup
	errs := make([]error, bidders)
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			_, errs[i] = s.proposals.DecideProposal(s.ctx, DecideProposalInput{ProposalID: id, ActorID: poster.ID, Decision: models.ProposalStatusAccepted})
		}(i, id)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		s.True(errors.Is(err, ErrConflict), "unexpected error: %v", err)
	}
	s.Equal(1, wins)
	s.Equal(1, s.acceptedCount(task.ID))
	s.Equal(models.TaskStatusInProgress, s.taskStatus(task.ID))
}

func (s *ServiceTestSuite) TestSubmitWork_Rules() {
	poster := s.createUser("poster")
	bidder := s.createUser("bidder")
	other := s.createUser("other")
	task := s.createTask(poster.ID)

	_, err := s.submissions.SubmitWork(s.ctx, SubmitWorkInput{TaskID: task.ID, SubmitterID: bidder.ID, Description: "early"})
	s.ErrorIs(err, ErrNoAcceptedProposal)

	proposal := s.propose(task.ID, bidder.ID, 700)
	s.accept(proposal.ID, poster.ID)

	_, err = s.submissions.SubmitWork(s.ctx, SubmitWorkInput{TaskID: task.ID, SubmitterID: other.ID, Description: "sneaky"})
	s.ErrorIs(err, ErrNotAcceptedBidder)
	s.ErrorIs(err, ErrForbidden)

	_, err = s.submissions.SubmitWork(s.ctx, SubmitWorkInput{TaskID: task.ID, SubmitterID: bidder.ID, Description: " "})
	s.ErrorIs(err, ErrValidation)

	s.submit(task.ID, bidder.ID)

	_, err = s.submissions.SubmitWork(s.ctx, SubmitWorkInput{TaskID: task.ID, SubmitterID: bidder.ID, Description: "again"})
	s.ErrorIs(err, ErrSubmissionExists)

	_, err = s.submissions.GetSubmissionForTask(s.ctx, task.ID, other.ID)
	s.ErrorIs(err, ErrForbidden)
}

func (s *ServiceTestSuite) TestSubmitWork_ConcurrentSubmissionsHaveOneWinner() {
	poster := s.createUser("poster")
	bidder := s.createUser("bidder")
	task := s.createTask(poster.ID)
	proposal := s.propose(task.ID, bidder.ID, 700)
	s.accept(proposal.ID, poster.ID)

	const attempts = 5
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.submissions.SubmitWork(s.ctx, SubmitWorkInput{TaskID: task.ID, SubmitterID: bidder.ID, Description: "done"})
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		s.ErrorIs(err, ErrConflict)
	}
	s.Equal(1, wins)

	var count int64
	s.Require().NoError(s.db.Model(&models.Submission{}).Where("task_id = ?", task.ID).Count(&count).Error)
	s.Equal(int64(1), count)
}

func (s *ServiceTestSuite) TestUpdateSubmissionStatus() {
	poster := s.createUser("poster")
	bidder := s.createUser("bidder")
	task := s.createTask(poster.ID)
	proposal := s.propose(task.ID, bidder.ID, 700)
	s.accept(proposal.ID, poster.ID)
	s.submit(task.ID, bidder.ID)

	submission, err := s.submissions.GetSubmissionForTask(s.ctx, task.ID, bidder.ID)
	s.Require().NoError(err)

	_, err = s.submissions.UpdateSubmissionStatus(s.ctx, submission.ID, bidder.ID, models.SubmissionStatusApproved)
	s.ErrorIs(err, ErrNotTaskPoster)

	_, err = s.submissions.UpdateSubmissionStatus(s.ctx, submission.ID, poster.ID, "DONE")
	s.ErrorIs(err, ErrValidation)

	updated, err := s.submissions.UpdateSubmissionStatus(s.ctx, submission.ID, poster.ID, models.SubmissionStatusChangesRequested)
	s.Require().NoError(err)
	s.Equal(models.SubmissionStatusChangesRequested, updated.Status)
}

func (s *ServiceTestSuite) TestDeleteTask() {
	poster := s.createUser("poster")
	bidder := s.createUser("bidder")

	open := s.createTask(poster.ID)
	s.propose(open.ID, bidder.ID, 600)

	s.ErrorIs(s.tasks.DeleteTask(s.ctx, open.ID, bidder.ID), ErrNotTaskPoster)
	s.Require().NoError(s.tasks.DeleteTask(s.ctx, open.ID, poster.ID))
	_, err := s.tasks.GetTask(s.ctx, open.ID)
	s.ErrorIs(err, ErrTaskNotFound)

	started := s.createTask(poster.ID)
	proposal := s.propose(started.ID, bidder.ID, 600)
	s.accept(proposal.ID, poster.ID)
	s.ErrorIs(s.tasks.DeleteTask(s.ctx, started.ID, poster.ID), ErrTaskNotDeletable)
}

func (s *ServiceTestSuite) TestListTasks() {
	poster := s.createUser("poster")
	s.createTask(poster.ID)
	s.createTask(poster.ID)

	status := models.TaskStatusOpen
	tasks, total, err := s.tasks.ListTasks(s.ctx, ListTasksInput{Status: &status, Page: 1, PageSize: 1})
	s.Require().NoError(err)
	s.Equal(int64(2), total)
	s.Len(tasks, 1)

	bad := models.TaskStatus("CLOSED")
	_, _, err = s.tasks.ListTasks(s.ctx, ListTasksInput{Status: &bad})
	s.ErrorIs(err, ErrValidation)
}

func (s *ServiceTestSuite) TestDraftTask_NotConfigured() {
	_, err := s.tasks.DraftTask(s.ctx, "need help with my stats homework by friday")
	s.ErrorIs(err, ErrAIServiceNotConfigured)
	s.ErrorIs(err, ErrUnavailable)
}

func (s *ServiceTestSuite) TestNormalizeDraft() {
	past := time.Now().Add(-time.Hour)
	draft, err := s.tasks.normalizeDraft(&TaskDraft{
		Title:     "  Stats homework ",
		Category:  "homework",
		BudgetMin: int64Ptr(800),
		BudgetMax: int64Ptr(300),
		Deadline:  &past,
	})
	s.Require().NoError(err)
	s.Equal("Stats homework", draft.Title)
	s.Equal(string(models.CategoryOther), draft.Category)
	s.Equal(int64(300), *draft.BudgetMin)
	s.Equal(int64(800), *draft.BudgetMax)
	s.Nil(draft.Deadline)

	_, err = s.tasks.normalizeDraft(&TaskDraft{Title: " "})
	s.ErrorIs(err, ErrAINoDraft)
}
