package services

import (
	"github.com/yukikurage/campus-works/internal/identity"
	"github.com/yukikurage/campus-works/internal/models"
	"github.com/yukikurage/campus-works/internal/notify"
	"github.com/yukikurage/campus-works/internal/utils"
)

func (s *ServiceTestSuite) TestSyncUser_IsIdempotent() {
	id := identity.Identity{AccountID: "acct-1", Email: "Asha@Campus.Test", DisplayName: ""}

	user, created, err := s.users.SyncUser(s.ctx, id)
	s.Require().NoError(err)
	s.True(created)
	s.Equal("asha@campus.test", user.Email)
	s.Equal("asha", user.Name)
	s.Equal(1, user.Year)

	again, created, err := s.users.SyncUser(s.ctx, id)
	s.Require().NoError(err)
	s.False(created)
	s.Equal(user.ID, again.ID)

	var count int64
	s.Require().NoError(s.db.Model(&models.User{}).Count(&count).Error)
	s.Equal(int64(1), count)
}

func (s *ServiceTestSuite) TestSyncUser_RefreshKeepsProfile() {
	_, _, err := s.users.SyncUser(s.ctx, identity.Identity{AccountID: "acct-1", Email: "asha@campus.test", DisplayName: "Asha"})
	s.Require().NoError(err)

	bio := "Second year CS"
	year := 2
	skills := []string{"Go", " go ", "", "Figma"}
	_, err = s.users.UpdateProfile(s.ctx, "acct-1", "acct-1", UpdateProfileInput{Bio: &bio, Year: &year, Skills: &skills})
	s.Require().NoError(err)

	user, created, err := s.users.SyncUser(s.ctx, identity.Identity{AccountID: "acct-1", Email: "asha.rao@campus.test", DisplayName: "Asha Rao"})
	s.Require().NoError(err)
	s.False(created)
	s.Equal("asha.rao@campus.test", user.Email)

	stored, err := s.users.GetUser(s.ctx, "acct-1")
	s.Require().NoError(err)
	s.Equal("Asha Rao", stored.Name)
	s.Equal("asha.rao@campus.test", stored.Email)
	s.Equal(bio, stored.Bio)
	s.Equal(2, stored.Year)
	s.Equal([]string{"Go", "Figma"}, stored.Skills)
}

func (s *ServiceTestSuite) TestSyncUser_EmailLinkedElsewhere() {
	_, _, err := s.users.SyncUser(s.ctx, identity.Identity{AccountID: "acct-1", Email: "asha@campus.test"})
	s.Require().NoError(err)

	_, _, err = s.users.SyncUser(s.ctx, identity.Identity{AccountID: "acct-2", Email: "asha@campus.test"})
	s.ErrorIs(err, ErrEmailLinked)
	s.ErrorIs(err, ErrConflict)

	_, _, err = s.users.SyncUser(s.ctx, identity.Identity{AccountID: "acct-3", Email: "not-an-email"})
	s.ErrorIs(err, ErrValidation)
}

func (s *ServiceTestSuite) TestUpdateProfile_Rules() {
	s.createUser("u1")
	s.createUser("u2")

	name := "Someone"
	_, err := s.users.UpdateProfile(s.ctx, "u2", "u1", UpdateProfileInput{Name: &name})
	s.ErrorIs(err, ErrNotProfileOwner)

	year := 5
	_, err = s.users.UpdateProfile(s.ctx, "u1", "u1", UpdateProfileInput{Year: &year})
	s.ErrorIs(err, ErrValidation)

	taken := "u2@campus.test"
	_, err = s.users.UpdateProfile(s.ctx, "u1", "u1", UpdateProfileInput{Email: &taken})
	s.ErrorIs(err, ErrEmailLinked)

	portfolio := "behance"
	_, err = s.users.UpdateProfile(s.ctx, "u1", "u1", UpdateProfileInput{Portfolio: &portfolio})
	s.ErrorIs(err, ErrValidation)

	_, err = s.users.GetUser(s.ctx, "ghost")
	s.ErrorIs(err, ErrUserNotFound)
}

func (s *ServiceTestSuite) TestCreateGroup() {
	s.createUser("lead")
	s.createUser("m1")
	s.createUser("m2")

	group, err := s.groups.CreateGroup(s.ctx, CreateGroupInput{
		ActorID:   "lead",
		Name:      "Design crew",
		MemberIDs: []string{"m1", "m2", "m1", " "},
	})
	s.Require().NoError(err)
	s.Require().Len(group.Members, 3)
	s.Equal("lead", group.Members[0].UserID)
	s.Equal(models.GroupRoleLeader, group.Members[0].Role)
	s.Equal("m1", group.Members[1].UserID)
	s.Equal(models.GroupRoleMember, group.Members[1].Role)

	_, err = s.groups.CreateGroup(s.ctx, CreateGroupInput{ActorID: "lead", Name: "Ghosts", MemberIDs: []string{"ghost"}})
	s.ErrorIs(err, ErrUserNotFound)

	_, err = s.groups.CreateGroup(s.ctx, CreateGroupInput{ActorID: "lead", Name: " "})
	s.ErrorIs(err, ErrValidation)

	groups, err := s.groups.ListGroupsForUser(s.ctx, "m2")
	s.Require().NoError(err)
	s.Len(groups, 1)
}

func (s *ServiceTestSuite) TestSubmitProposal_AsGroup() {
	poster := s.createUser("poster")
	s.createUser("lead")
	s.createUser("outsider")
	task := s.createTask(poster.ID)

	group, err := s.groups.CreateGroup(s.ctx, CreateGroupInput{ActorID: "lead", Name: "Crew"})
	s.Require().NoError(err)

	_, err = s.proposals.SubmitProposal(s.ctx, SubmitProposalInput{TaskID: task.ID, BidderID: "outsider", GroupID: &group.ID, Amount: int64Ptr(600), Text: "us"})
	s.ErrorIs(err, ErrNotGroupMember)

	missing := "missing"
	_, err = s.proposals.SubmitProposal(s.ctx, SubmitProposalInput{TaskID: task.ID, BidderID: "lead", GroupID: &missing, Amount: int64Ptr(600), Text: "us"})
	s.ErrorIs(err, ErrGroupNotFound)

	proposal, err := s.proposals.SubmitProposal(s.ctx, SubmitProposalInput{TaskID: task.ID, BidderID: "lead", GroupID: &group.ID, Amount: int64Ptr(600), Text: "us"})
	s.Require().NoError(err)
	s.Equal(group.ID, *proposal.GroupID)
}

func (s *ServiceTestSuite) TestConversation() {
	poster := s.createUser("poster")
	bidder := s.createUser("bidder")
	outsider := s.createUser("outsider")
	task := s.createTask(poster.ID)

	_, err := s.conversations.AddComment(s.ctx, task.ID, outsider.ID, "Is the deadline flexible?")
	s.Require().NoError(err)
	_, err = s.conversations.AddComment(s.ctx, task.ID, outsider.ID, "  ")
	s.ErrorIs(err, ErrValidation)

	comments, total, err := s.conversations.ListComments(s.ctx, task.ID, utils.NewPaginationParams(1, 10))
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Equal("Is the deadline flexible?", comments[0].Body)

	_, err = s.conversations.SendMessage(s.ctx, task.ID, bidder.ID, "hi")
	s.ErrorIs(err, ErrNotTaskParticipant)

	proposal := s.propose(task.ID, bidder.ID, 700)
	s.accept(proposal.ID, poster.ID)

	_, err = s.conversations.SendMessage(s.ctx, task.ID, bidder.ID, "Starting today")
	s.Require().NoError(err)
	_, err = s.conversations.SendMessage(s.ctx, task.ID, poster.ID, "Thanks")
	s.Require().NoError(err)
	_, err = s.conversations.SendMessage(s.ctx, task.ID, outsider.ID, "me too")
	s.ErrorIs(err, ErrForbidden)

	messages, total, err := s.conversations.ListMessages(s.ctx, task.ID, poster.ID, utils.NewPaginationParams(1, 10))
	s.Require().NoError(err)
	s.Equal(int64(2), total)
	s.Equal("Starting today", messages[0].Body)

	_, _, err = s.conversations.ListMessages(s.ctx, task.ID, outsider.ID, utils.NewPaginationParams(1, 10))
	s.ErrorIs(err, ErrNotTaskParticipant)
}

func (s *ServiceTestSuite) TestNotifications_MarkRead() {
	poster := s.createUser("poster")
	bidder := s.createUser("bidder")
	task := s.createTask(poster.ID)
	proposal := s.propose(task.ID, bidder.ID, 700)
	_, err := s.proposals.DecideProposal(s.ctx, DecideProposalInput{ProposalID: proposal.ID, ActorID: poster.ID, Decision: models.ProposalStatusRejected})
	s.Require().NoError(err)

	inbox := s.inbox(bidder.ID)
	s.Require().Len(inbox, 1)
	s.Equal(string(notify.KindProposalRejected), inbox[0].Kind)

	s.ErrorIs(s.notifications.MarkNotificationRead(s.ctx, poster.ID, inbox[0].ID), ErrNotificationNotFound)
	s.Require().NoError(s.notifications.MarkNotificationRead(s.ctx, bidder.ID, inbox[0].ID))

	unread, total, err := s.notifications.ListNotifications(s.ctx, bidder.ID, true, utils.NewPaginationParams(1, 10))
	s.Require().NoError(err)
	s.Zero(total)
	s.Empty(unread)
}
