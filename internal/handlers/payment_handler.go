package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/dto"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/usecase/payment"
	"github.com/BruksfildServices01/barber-booking/internal/usecase/review"
)

// PaymentHandler cobre pagamento e avaliação, ambos pendurados no agendamento.
type PaymentHandler struct {
	process *payment.ProcessPayment
	list    *payment.ListPayments
	review  *review.CreateReview
	log     *zap.Logger
}

func NewPaymentHandler(
	process *payment.ProcessPayment,
	list *payment.ListPayments,
	createReview *review.CreateReview,
	log *zap.Logger,
) *PaymentHandler {
	return &PaymentHandler{
		process: process,
		list:    list,
		review:  createReview,
		log:     log,
	}
}

type PaymentRequest struct {
	Method string `json:"method" binding:"required"`
}

type ReviewRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment" binding:"max=1000"`
}

func (h *PaymentHandler) Pay(c *gin.Context) {
	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	p, err := h.process.Execute(c.Request.Context(), payment.ProcessPaymentInput{
		Actor:     middleware.ActorFrom(c),
		BookingID: c.Param("id"),
		Method:    req.Method,
	})
	if err != nil {
		// recusa do gateway: o pagamento falho vai junto no corpo
		if p != nil && httperr.IsBusiness(err, "payment_declined") {
			c.JSON(http.StatusBadRequest, gin.H{
				"error_code": "payment_declined",
				"message":    "The payment was declined.",
				"payment":    dto.Payment(p),
			})
			return
		}
		httperr.Respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, dto.Payment(p))
}

func (h *PaymentHandler) List(c *gin.Context) {
	items, err := h.list.Execute(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"))
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	httpresp.List(c, dto.Payments(items))
}

func (h *PaymentHandler) Review(c *gin.Context) {
	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	r, err := h.review.Execute(c.Request.Context(), review.CreateReviewInput{
		Actor:     middleware.ActorFrom(c),
		BookingID: c.Param("id"),
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	httpresp.Created(c, dto.Review(r))
}
