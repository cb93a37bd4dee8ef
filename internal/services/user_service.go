package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/yukikurage/campus-works/internal/constants"
	"github.com/yukikurage/campus-works/internal/identity"
	"github.com/yukikurage/campus-works/internal/models"
	"github.com/yukikurage/campus-works/internal/repository"
	"gorm.io/gorm"
)

// UserService handles the user directory
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// UpdateProfileInput holds the editable profile fields. Nil fields are left
// unchanged.
type UpdateProfileInput struct {
	Name          *string
	Email         *string
	Department    *string
	Year          *int
	Skills        *[]string
	Bio           *string
	Phone         *string
	Portfolio     *string
	PayoutAddress *string
}

// SyncUser creates the user on first sign-in and afterwards only refreshes
// the email and display name. It is idempotent for the same account.
func (s *UserService) SyncUser(ctx context.Context, id identity.Identity) (*models.User, bool, error) {
	accountID := strings.TrimSpace(id.AccountID)
	email := strings.ToLower(strings.TrimSpace(id.Email))
	if accountID == "" {
		return nil, false, validationError("account id is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, false, validationError("a valid email is required")
	}
	name := strings.TrimSpace(id.DisplayName)

	existing, err := s.userRepo.FindByID(ctx, accountID)
	if err == nil {
		return s.refreshIdentity(ctx, existing, email, name)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("failed to find user: %w", err)
	}

	if err := s.ensureEmailFree(ctx, email, accountID); err != nil {
		return nil, false, err
	}

	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}

	user := &models.User{
		ID:     accountID,
		Email:  email,
		Name:   name,
		Year:   constants.MinStudyYear,
		Skills: []string{},
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if !errors.Is(err, repository.ErrDuplicate) {
			return nil, false, fmt.Errorf("failed to create user: %w", err)
		}
		// A concurrent sync for the same account won the insert.
		if existing, findErr := s.userRepo.FindByID(ctx, accountID); findErr == nil {
			return existing, false, nil
		}
		return nil, false, ErrEmailLinked
	}

	return user, true, nil
}

func (s *UserService) refreshIdentity(ctx context.Context, user *models.User, email, name string) (*models.User, bool, error) {
	if name == "" {
		name = user.Name
	}
	if user.Email == email && user.Name == name {
		return user, false, nil
	}

	if user.Email != email {
		if err := s.ensureEmailFree(ctx, email, user.ID); err != nil {
			return nil, false, err
		}
	}

	if err := s.userRepo.UpdateIdentity(ctx, user.ID, email, name); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, false, ErrEmailLinked
		}
		return nil, false, fmt.Errorf("failed to refresh user: %w", err)
	}

	user.Email = email
	user.Name = name
	return user, false, nil
}

// ensureEmailFree fails when email belongs to an account other than accountID.
func (s *UserService) ensureEmailFree(ctx context.Context, email, accountID string) error {
	owner, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("failed to check email: %w", err)
	}
	if owner.ID != accountID {
		return ErrEmailLinked
	}
	return nil
}

// GetUser returns a user profile
func (s *UserService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// UpdateProfile edits the actor's own profile
func (s *UserService) UpdateProfile(ctx context.Context, actorID, userID string, input UpdateProfileInput) (*models.User, error) {
	if actorID != userID {
		return nil, ErrNotProfileOwner
	}

	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, validationError("name cannot be empty")
		}
		user.Name = name
	}
	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, validationError("email is not a valid address")
		}
		if email != user.Email {
			if err := s.ensureEmailFree(ctx, email, user.ID); err != nil {
				return nil, err
			}
		}
		user.Email = email
	}
	if input.Department != nil {
		user.Department = strings.TrimSpace(*input.Department)
	}
	if input.Year != nil {
		if *input.Year < constants.MinStudyYear || *input.Year > constants.MaxStudyYear {
			return nil, validationError("year must be between %d and %d", constants.MinStudyYear, constants.MaxStudyYear)
		}
		user.Year = *input.Year
	}
	if input.Skills != nil {
		user.Skills = normalizeSkills(*input.Skills)
	}
	if input.Bio != nil {
		user.Bio = strings.TrimSpace(*input.Bio)
	}
	if input.Phone != nil {
		user.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Portfolio != nil {
		portfolio := strings.TrimSpace(*input.Portfolio)
		if portfolio != "" && !isWebURL(portfolio) {
			return nil, validationError("portfolio must be an http or https URL")
		}
		user.Portfolio = portfolio
	}
	if input.PayoutAddress != nil {
		user.PayoutAddress = strings.TrimSpace(*input.PayoutAddress)
	}

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailLinked
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return user, nil
}

// normalizeSkills trims skills and drops blanks and case-insensitive repeats,
// keeping the first spelling.
func normalizeSkills(skills []string) []string {
	seen := make(map[string]struct{}, len(skills))
	result := make([]string, 0, len(skills))

	for _, skill := range skills {
		skill = strings.TrimSpace(skill)
		if skill == "" {
			continue
		}
		key := strings.ToLower(skill)
		if _, exists := seen[key]; exists {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, skill)
	}

	return result
}
