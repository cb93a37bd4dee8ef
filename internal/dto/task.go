package dto

import (
	"time"

	"github.com/yukikurage/campus-works/internal/models"
)

// UserDTO represents a user summary in API responses
type UserDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department,omitempty"`
	Year       int    `json:"year"`
}

// ProfileDTO represents a full user profile
type ProfileDTO struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	Department    string    `json:"department"`
	Year          int       `json:"year"`
	Skills        []string  `json:"skills"`
	Bio           string    `json:"bio"`
	Phone         string    `json:"phone"`
	Portfolio     string    `json:"portfolio"`
	PayoutAddress string    `json:"payout_address"`
	CreatedAt     time.Time `json:"created_at"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID            string              `json:"id"`
	Title         string              `json:"title"`
	Description   string              `json:"description"`
	Category      models.TaskCategory `json:"category"`
	BudgetMin     int64               `json:"budget_min"`
	BudgetMax     int64               `json:"budget_max"`
	Deadline      time.Time           `json:"deadline"`
	PosterID      string              `json:"poster_id"`
	Status        models.TaskStatus   `json:"status"`
	ReferenceURL  string              `json:"reference_url,omitempty"`
	ProposalCount *int                `json:"proposal_count,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
	Poster        *UserDTO            `json:"poster,omitempty"`
}

// ProposalDTO represents a bid in API responses
type ProposalDTO struct {
	ID        string                `json:"id"`
	TaskID    string                `json:"task_id"`
	BidderID  string                `json:"bidder_id"`
	GroupID   *string               `json:"group_id,omitempty"`
	Amount    int64                 `json:"amount"`
	Proposal  string                `json:"proposal"`
	Status    models.ProposalStatus `json:"status"`
	CreatedAt time.Time             `json:"created_at"`
	Bidder    *UserDTO              `json:"bidder,omitempty"`
}

// SubmissionDTO represents delivered work in API responses
type SubmissionDTO struct {
	ID          string                  `json:"id"`
	TaskID      string                  `json:"task_id"`
	SubmitterID string                  `json:"submitter_id"`
	Description string                  `json:"description"`
	LinkURL     string                  `json:"link_url,omitempty"`
	FileURL     string                  `json:"file_url,omitempty"`
	Status      models.SubmissionStatus `json:"status"`
	CreatedAt   time.Time               `json:"created_at"`
	Submitter   *UserDTO                `json:"submitter,omitempty"`
}

// Conversion functions

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:         user.ID,
		Name:       user.Name,
		Department: user.Department,
		Year:       user.Year,
	}
}

// ToProfileDTO converts a User model to ProfileDTO
func ToProfileDTO(user models.User) ProfileDTO {
	skills := user.Skills
	if skills == nil {
		skills = []string{}
	}
	return ProfileDTO{
		ID:            user.ID,
		Email:         user.Email,
		Name:          user.Name,
		Department:    user.Department,
		Year:          user.Year,
		Skills:        skills,
		Bio:           user.Bio,
		Phone:         user.Phone,
		Portfolio:     user.Portfolio,
		PayoutAddress: user.PayoutAddress,
		CreatedAt:     user.CreatedAt,
	}
}

// ToPublicProfileDTO converts a User model to a ProfileDTO without contact
// and payout details
func ToPublicProfileDTO(user models.User) ProfileDTO {
	profile := ToProfileDTO(user)
	profile.Email = ""
	profile.Phone = ""
	profile.PayoutAddress = ""
	return profile
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:           task.ID,
		Title:        task.Title,
		Description:  task.Description,
		Category:     task.Category,
		BudgetMin:    task.BudgetMin,
		BudgetMax:    task.BudgetMax,
		Deadline:     task.Deadline,
		PosterID:     task.PosterID,
		Status:       task.Status,
		ReferenceURL: task.ReferenceURL,
		CreatedAt:    task.CreatedAt,
		UpdatedAt:    task.UpdatedAt,
	}

	// Include poster if preloaded
	if task.Poster.ID != "" {
		poster := ToUserDTO(task.Poster)
		dto.Poster = &poster
	}

	// Include proposal count if preloaded
	if task.Proposals != nil {
		count := len(task.Proposals)
		dto.ProposalCount = &count
	}

	return dto
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	result := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		result[i] = ToTaskDTO(task)
	}
	return result
}

// ToProposalDTO converts a Proposal model to ProposalDTO
func ToProposalDTO(p models.Proposal) ProposalDTO {
	dto := ProposalDTO{
		ID:        p.ID,
		TaskID:    p.TaskID,
		BidderID:  p.BidderID,
		GroupID:   p.GroupID,
		Amount:    p.Amount,
		Proposal:  p.Text,
		Status:    p.Status,
		CreatedAt: p.CreatedAt,
	}
	if p.Bidder.ID != "" {
		bidder := ToUserDTO(p.Bidder)
		dto.Bidder = &bidder
	}
	return dto
}

// ToProposalDTOs converts a slice of proposals
func ToProposalDTOs(proposals []models.Proposal) []ProposalDTO {
	result := make([]ProposalDTO, len(proposals))
	for i, p := range proposals {
		result[i] = ToProposalDTO(p)
	}
	return result
}

// ToSubmissionDTO converts a Submission model to SubmissionDTO
func ToSubmissionDTO(s models.Submission) SubmissionDTO {
	dto := SubmissionDTO{
		ID:          s.ID,
		TaskID:      s.TaskID,
		SubmitterID: s.SubmitterID,
		Description: s.Description,
		LinkURL:     s.LinkURL,
		FileURL:     s.FileURL,
		Status:      s.Status,
		CreatedAt:   s.CreatedAt,
	}
	if s.Submitter.ID != "" {
		submitter := ToUserDTO(s.Submitter)
		dto.Submitter = &submitter
	}
	return dto
}
