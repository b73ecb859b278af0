package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/dto"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type BookingUseCases struct {
	Create     *booking.CreateBooking
	List       *booking.ListBookings
	Get        *booking.GetBooking
	History    *booking.GetHistory
	Stats      *booking.GetStats
	Transition *booking.TransitionStatus
	Cancel     *booking.CancelBooking
	Reschedule *booking.RescheduleBooking
}

type BookingHandler struct {
	uc  BookingUseCases
	log *zap.Logger
}

func NewBookingHandler(uc BookingUseCases, log *zap.Logger) *BookingHandler {
	return &BookingHandler{uc: uc, log: log}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateBookingRequest struct {
	CustomerID string `json:"customer_id"`
	StylistID  string `json:"stylist_id" binding:"required"`
	ServiceID  string `json:"service_id" binding:"required"`
	Date       string `json:"date" binding:"required"`
	Time       string `json:"time" binding:"required"`
	Notes      string `json:"notes" binding:"max=500"`
}

type UpdateBookingRequest struct {
	Date   *string `json:"date"`
	Time   *string `json:"time"`
	Notes  *string `json:"notes" binding:"omitempty,max=500"`
	Reason string  `json:"reason"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

type CancelRequest struct {
	Reason string `json:"reason"`
}

// ======================================================
// CREATE
// ======================================================

func (h *BookingHandler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	b, err := h.uc.Create.Execute(c.Request.Context(), booking.CreateBookingInput{
		Actor:      middleware.ActorFrom(c),
		CustomerID: req.CustomerID,
		StylistID:  req.StylistID,
		ServiceID:  req.ServiceID,
		Date:       req.Date,
		Time:       req.Time,
		Notes:      req.Notes,
	})
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.Created(c, dto.Booking(b))
}

// ======================================================
// LIST / GET
// ======================================================

func parseListFilter(c *gin.Context) (domain.ListFilter, error) {
	f := domain.ListFilter{
		CustomerID: c.Query("customerId"),
		StylistID:  c.Query("stylistId"),
		ServiceID:  c.Query("serviceId"),
		Status:     c.Query("status"),
		SortBy:     c.Query("sortBy"),
	}
	f.Page, _ = strconv.Atoi(c.Query("page"))
	f.Limit, _ = strconv.Atoi(c.Query("limit"))

	desc, err := domain.ParseSortOrder(c.Query("order"))
	if err != nil {
		return f, err
	}
	f.SortDesc = desc

	parse := func(key string) (*time.Time, error) {
		raw := c.Query(key)
		if raw == "" {
			return nil, nil
		}
		d, err := domain.ParseDate(raw)
		if err != nil {
			return nil, httperr.NewBadRequest("invalid_date", key+" must be YYYY-MM-DD")
		}
		return &d, nil
	}
	if f.DateFrom, err = parse("dateFrom"); err != nil {
		return f, err
	}
	if f.DateTo, err = parse("dateTo"); err != nil {
		return f, err
	}
	return f, nil
}

func (h *BookingHandler) List(c *gin.Context) {
	f, err := parseListFilter(c)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	items, total, f, err := h.uc.List.Execute(c.Request.Context(), middleware.ActorFrom(c), f)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.Page(c, dto.Bookings(items), f.Page, f.Limit, total)
}

func (h *BookingHandler) Get(c *gin.Context) {
	b, err := h.uc.Get.Execute(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"))
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	httpresp.OK(c, dto.Booking(b))
}

func (h *BookingHandler) History(c *gin.Context) {
	items, err := h.uc.History.Execute(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"))
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	httpresp.List(c, dto.History(items))
}

func (h *BookingHandler) Stats(c *gin.Context) {
	stats, err := h.uc.Stats.Execute(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	httpresp.OK(c, stats)
}

// ======================================================
// CHANGES
// ======================================================

func (h *BookingHandler) Update(c *gin.Context) {
	var req UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	b, err := h.uc.Reschedule.Execute(c.Request.Context(), booking.RescheduleInput{
		Actor:     middleware.ActorFrom(c),
		BookingID: c.Param("id"),
		Date:      req.Date,
		Time:      req.Time,
		Notes:     req.Notes,
		Reason:    req.Reason,
	})
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	httpresp.OK(c, dto.Booking(b))
}

func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	b, err := h.uc.Transition.Execute(c.Request.Context(), booking.TransitionInput{
		Actor:     middleware.ActorFrom(c),
		BookingID: c.Param("id"),
		Status:    req.Status,
		Reason:    req.Reason,
	})
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	httpresp.OK(c, dto.Booking(b))
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	b, err := h.uc.Cancel.Execute(c.Request.Context(), booking.CancelInput{
		Actor:     middleware.ActorFrom(c),
		BookingID: c.Param("id"),
		Reason:    req.Reason,
	})
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.Booking(b))
}
