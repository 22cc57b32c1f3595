package httpapi

import (
	"net/http"
	"strconv"

	"prizepool/domain/entities"
	"prizepool/domain/interfaces"
	"prizepool/domain/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentHandler handles payment-related HTTP requests
type PaymentHandler struct {
	uowFactory interfaces.UnitOfWorkFactory
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(uowFactory interfaces.UnitOfWorkFactory) *PaymentHandler {
	return &PaymentHandler{uowFactory: uowFactory}
}

type submitPaymentRequest struct {
	UserID         int64  `json:"user_id" binding:"required"`
	Currency       string `json:"currency" binding:"required"`
	Amount         string `json:"amount" binding:"required"`
	TicketQuantity int    `json:"ticket_quantity" binding:"required"`
	WalletAddress  string `json:"wallet_address" binding:"required"`
	TxRef          string `json:"tx_ref" binding:"required"`
}

type decideRequest struct {
	Decision   string `json:"decision" binding:"required"`
	OperatorID int64  `json:"operator_id" binding:"required"`
}

// SubmitPayment handles POST /api/v1/payments
func (h *PaymentHandler) SubmitPayment(c *gin.Context) {
	var req submitPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount"})
		return
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}

	service := services.NewPaymentService(
		uow.PaymentRepository(),
		uow.TicketRepository(),
		uow.PrizePoolRepository(),
		uow.EventBus(),
	)

	payment, err := service.SubmitPayment(c.Request.Context(), interfaces.SubmitPaymentInput{
		UserID:         req.UserID,
		Currency:       req.Currency,
		Amount:         amount,
		TicketQuantity: req.TicketQuantity,
		WalletAddress:  req.WalletAddress,
		TxRef:          req.TxRef,
	})
	if err != nil {
		_ = uow.Rollback()
		respondError(c, err)
		return
	}

	if err := uow.Commit(); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, payment)
}

// Decide handles POST /api/v1/payments/:id/decision
func (h *PaymentHandler) Decide(c *gin.Context) {
	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment id"})
		return
	}

	var req decideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	outcome := interfaces.PaymentOutcome(req.Decision)
	if outcome != interfaces.PaymentOutcomeApprove && outcome != interfaces.PaymentOutcomeReject {
		c.JSON(http.StatusBadRequest, gin.H{"error": "decision must be approve or reject"})
		return
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}

	service := services.NewPaymentService(
		uow.PaymentRepository(),
		uow.TicketRepository(),
		uow.PrizePoolRepository(),
		uow.EventBus(),
	)

	payment, err := service.Decide(c.Request.Context(), paymentID, outcome, req.OperatorID)
	if err != nil {
		_ = uow.Rollback()
		respondError(c, err)
		return
	}

	if err := uow.Commit(); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, payment)
}

// ListPayments handles GET /api/v1/payments?status=&limit=
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	var status *entities.PaymentStatus
	if raw := c.Query("status"); raw != "" {
		s := entities.PaymentStatus(raw)
		if s != entities.PaymentStatusPending && s != entities.PaymentStatusApproved && s != entities.PaymentStatusRejected {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status filter"})
			return
		}
		status = &s
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	uow := h.uowFactory.Create()
	if err := uow.Begin(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	defer uow.Rollback()

	service := services.NewPaymentService(
		uow.PaymentRepository(),
		uow.TicketRepository(),
		uow.PrizePoolRepository(),
		uow.EventBus(),
	)

	payments, err := service.ListPayments(c.Request.Context(), status, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, payments)
}
