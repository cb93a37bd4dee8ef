package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/campus-works/internal/dto"
	apierrors "github.com/yukikurage/campus-works/internal/errors"
	"github.com/yukikurage/campus-works/internal/services"
)

type PaymentHandler struct {
	paymentService *services.PaymentService
}

func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// CreateOrder opens a payment order for the accepted amount plus fee
func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.CreateOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := h.paymentService.InitiatePayment(c.Request.Context(), services.CreateOrderInput{
		TaskID:  req.TaskID,
		PayerID: userID,
		Amount:  req.Amount,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToOrderDTO(order))
}

// VerifyPayment checks the gateway signature and completes the task
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.VerifyPaymentRequest
	if !bindJSON(c, &req) {
		return
	}

	txn, err := h.paymentService.ConfirmPayment(c.Request.Context(), services.ConfirmPaymentInput{
		ActorID:   userID,
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		Signature: req.Signature,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionDTO(*txn))
}

// CancelPayment abandons a PENDING transaction
func (h *PaymentHandler) CancelPayment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	txn, err := h.paymentService.CancelPayment(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionDTO(*txn))
}

// ListTransactions returns a task's payment attempts, newest first
func (h *PaymentHandler) ListTransactions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	txns, err := h.paymentService.ListTransactions(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"transactions": dto.ToTransactionDTOs(txns),
	})
}
