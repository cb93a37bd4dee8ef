package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/campus-works/internal/constants"
	"github.com/yukikurage/campus-works/internal/models"
	"github.com/yukikurage/campus-works/internal/repository"
)

// GroupService handles bidding groups
type GroupService struct {
	groupRepo repository.GroupRepository
	userRepo  repository.UserRepository
}

// NewGroupService creates a new GroupService
func NewGroupService(groupRepo repository.GroupRepository, userRepo repository.UserRepository) *GroupService {
	return &GroupService{
		groupRepo: groupRepo,
		userRepo:  userRepo,
	}
}

// CreateGroupInput represents input for creating a group
type CreateGroupInput struct {
	ActorID     string
	Name        string
	Description string
	MemberIDs   []string
}

// CreateGroup creates a group. Members keep the given order with the actor
// prepended when missing, and the first member leads.
func (s *GroupService) CreateGroup(ctx context.Context, input CreateGroupInput) (*models.Group, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, validationError("name is required")
	}
	if len(name) > constants.MaxTitleLength {
		return nil, validationError("name must be at most %d characters", constants.MaxTitleLength)
	}

	memberIDs := uniqueStrings(input.MemberIDs)
	if !containsString(memberIDs, input.ActorID) {
		memberIDs = append([]string{input.ActorID}, memberIDs...)
	}

	count, err := s.userRepo.CountByIDs(ctx, memberIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to verify members: %w", err)
	}
	if int(count) != len(memberIDs) {
		return nil, ErrUserNotFound
	}

	now := time.Now()
	group := &models.Group{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Members:     make([]models.GroupMember, 0, len(memberIDs)),
	}
	for i, userID := range memberIDs {
		role := models.GroupRoleMember
		if i == 0 {
			role = models.GroupRoleLeader
		}
		group.Members = append(group.Members, models.GroupMember{
			UserID:   userID,
			Role:     role,
			Position: i,
			JoinedAt: now,
		})
	}

	if err := s.groupRepo.Create(ctx, group); err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	return s.groupRepo.FindByID(ctx, group.ID)
}

// ListGroupsForUser lists the groups a user belongs to
func (s *GroupService) ListGroupsForUser(ctx context.Context, userID string) ([]models.Group, error) {
	groups, err := s.groupRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	return groups, nil
}

// uniqueStrings trims values and removes blanks and duplicates, keeping order
func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))

	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
