package dto

// Request bodies. Unknown fields are rejected when binding.

// SyncRequest carries the identity provider's ID token
type SyncRequest struct {
	IDToken string `json:"id_token" binding:"required"`
}

// UpdateProfileRequest holds the editable profile fields
type UpdateProfileRequest struct {
	Name          *string   `json:"name"`
	Email         *string   `json:"email"`
	Department    *string   `json:"department"`
	Year          *int      `json:"year"`
	Skills        *[]string `json:"skills"`
	Bio           *string   `json:"bio"`
	Phone         *string   `json:"phone"`
	Portfolio     *string   `json:"portfolio"`
	PayoutAddress *string   `json:"payout_address"`
}

// CreateTaskRequest represents a new task posting
type CreateTaskRequest struct {
	Title        string `json:"title" binding:"required"`
	Description  string `json:"description" binding:"required"`
	Category     string `json:"category" binding:"required"`
	BudgetMin    *int64 `json:"budget_min" binding:"required"`
	BudgetMax    *int64 `json:"budget_max" binding:"required"`
	Deadline     string `json:"deadline" binding:"required"`
	ReferenceURL string `json:"reference_url"`
}

// DraftTaskRequest carries free text for AI drafting
type DraftTaskRequest struct {
	Text string `json:"text" binding:"required"`
}

// SubmitProposalRequest represents a bid
type SubmitProposalRequest struct {
	Amount   *int64  `json:"amount" binding:"required"`
	Proposal string  `json:"proposal" binding:"required"`
	GroupID  *string `json:"group_id"`
}

// StatusRequest carries a new status value
type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SubmitWorkRequest represents a work delivery
type SubmitWorkRequest struct {
	TaskID      string `json:"task_id" binding:"required"`
	Description string `json:"description" binding:"required"`
	LinkURL     string `json:"link_url"`
	FileURL     string `json:"file_url"`
}

// CreateOrderRequest initiates a payment. Amount is optional and checked
// against the server-side total.
type CreateOrderRequest struct {
	TaskID string `json:"task_id" binding:"required"`
	Amount *int64 `json:"amount"`
}

// VerifyPaymentRequest carries the gateway's completion callback
type VerifyPaymentRequest struct {
	OrderID   string `json:"order_id" binding:"required"`
	PaymentID string `json:"payment_id" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}

// CreateGroupRequest represents a new group
type CreateGroupRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	MemberIDs   []string `json:"member_ids"`
}

// BodyRequest carries a comment or chat message
type BodyRequest struct {
	Body string `json:"body" binding:"required"`
}
