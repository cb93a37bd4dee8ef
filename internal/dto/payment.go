package dto

import (
	"time"

	"github.com/yukikurage/campus-works/internal/models"
	"github.com/yukikurage/campus-works/internal/services"
)

// TransactionDTO represents a payment attempt in API responses
type TransactionDTO struct {
	ID                string                   `json:"id"`
	TaskID            string                   `json:"task_id"`
	ProposalID        string                   `json:"proposal_id"`
	PayerID           string                   `json:"payer_id"`
	BaseAmount        int64                    `json:"base_amount"`
	FeeAmount         int64                    `json:"fee_amount"`
	Amount            int64                    `json:"amount"`
	ExternalOrderID   string                   `json:"order_id"`
	ExternalPaymentID string                   `json:"payment_id,omitempty"`
	Status            models.TransactionStatus `json:"status"`
	CreatedAt         time.Time                `json:"created_at"`
}

// OrderDTO is returned when a payment is initiated
type OrderDTO struct {
	Transaction TransactionDTO `json:"transaction"`
	OrderID     string         `json:"order_id"`
	Amount      int64          `json:"amount"`
	Currency    string         `json:"currency"`
	PayoutURI   string         `json:"payout_uri,omitempty"`
}

// ToTransactionDTO converts a Transaction model to TransactionDTO
func ToTransactionDTO(t models.Transaction) TransactionDTO {
	return TransactionDTO{
		ID:                t.ID,
		TaskID:            t.TaskID,
		ProposalID:        t.ProposalID,
		PayerID:           t.PayerID,
		BaseAmount:        t.BaseAmount,
		FeeAmount:         t.FeeAmount,
		Amount:            t.Amount,
		ExternalOrderID:   t.ExternalOrderID,
		ExternalPaymentID: t.ExternalPaymentID,
		Status:            t.Status,
		CreatedAt:         t.CreatedAt,
	}
}

// ToTransactionDTOs converts a slice of transactions
func ToTransactionDTOs(txns []models.Transaction) []TransactionDTO {
	result := make([]TransactionDTO, len(txns))
	for i, t := range txns {
		result[i] = ToTransactionDTO(t)
	}
	return result
}

// ToOrderDTO converts an initiated order
func ToOrderDTO(order *services.Order) OrderDTO {
	return OrderDTO{
		Transaction: ToTransactionDTO(*order.Transaction),
		OrderID:     order.Transaction.ExternalOrderID,
		Amount:      order.Quote.Total,
		Currency:    "INR",
		PayoutURI:   order.PayoutURI,
	}
}
