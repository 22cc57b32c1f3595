package httpapi

import (
	"net/http"
	"strconv"

	"prizepool/domain/interfaces"
	"prizepool/domain/services"

	"github.com/gin-gonic/gin"
)

// DrawHandler handles draw and winner HTTP requests
type DrawHandler struct {
	uowFactory interfaces.UnitOfWorkFactory
}

// NewDrawHandler creates a new DrawHandler
func NewDrawHandler(uowFactory interfaces.UnitOfWorkFactory) *DrawHandler {
	return &DrawHandler{uowFactory: uowFactory}
}

type participateRequest struct {
	UserID int64 `json:"user_id" binding:"required"`
}

func (h *DrawHandler) newService(uow interfaces.UnitOfWork) interfaces.DrawService {
	return services.NewDrawService(
		uow.TicketRepository(),
		uow.PrizePoolRepository(),
		uow.WinnerRepository(),
		uow.BalanceRepository(),
		uow.EventBus(),
		nil,
	)
}

// Participate handles POST /api/v1/draws/participate
func (h *DrawHandler) Participate(c *gin.Context) {
	var req participateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}

	result, err := h.newService(uow).Participate(c.Request.Context(), req.UserID)
	if err != nil {
		_ = uow.Rollback()
		respondError(c, err)
		return
	}

	if err := uow.Commit(); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// RecentWinners handles GET /api/v1/winners?limit=
func (h *DrawHandler) RecentWinners(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	uow := h.uowFactory.Create()
	if err := uow.Begin(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	defer uow.Rollback()

	winners, err := h.newService(uow).RecentWinners(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, winners)
}

// PoolSnapshot handles GET /api/v1/pool
func (h *DrawHandler) PoolSnapshot(c *gin.Context) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	defer uow.Rollback()

	snapshot, err := h.newService(uow).PoolSnapshot(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, snapshot)
}
