package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/dto"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/usecase/booking"
	"github.com/BruksfildServices01/barber-booking/internal/usecase/catalog"
	"github.com/BruksfildServices01/barber-booking/internal/usecase/review"
)

// ======================================================
// HANDLER
// ======================================================

type StylistHandler struct {
	catalog      *catalog.Catalog
	availability *booking.GetAvailability
	reviews      *review.ListStylistReviews
	log          *zap.Logger
}

func NewStylistHandler(
	c *catalog.Catalog,
	availability *booking.GetAvailability,
	reviews *review.ListStylistReviews,
	log *zap.Logger,
) *StylistHandler {
	return &StylistHandler{
		catalog:      c,
		availability: availability,
		reviews:      reviews,
		log:          log,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type ScheduleDayRequest struct {
	Weekday     *int   `json:"weekday" binding:"required"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	IsAvailable bool   `json:"is_available"`
}

type UpdateScheduleRequest struct {
	Days []ScheduleDayRequest `json:"days" binding:"required,dive"`
}

type CreateLeaveRequest struct {
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason" binding:"max=255"`
}

// ======================================================
// PUBLIC
// ======================================================

func (h *StylistHandler) List(c *gin.Context) {
	items, err := h.catalog.ListStylists(c.Request.Context())
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	httpresp.List(c, dto.Stylists(items))
}

// Availability: GET /stylists/:id/availability?date=YYYY-MM-DD&service_id=
func (h *StylistHandler) Availability(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, "missing_date", "date is required (YYYY-MM-DD).")
		return
	}

	res, err := h.availability.Execute(c.Request.Context(), booking.GetAvailabilityInput{
		StylistID: c.Param("id"),
		Date:      date,
		ServiceID: c.Query("service_id"),
	})
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	httpresp.OK(c, dto.Availability(res))
}

func (h *StylistHandler) Reviews(c *gin.Context) {
	page, limit := pageParams(c)

	res, err := h.reviews.Execute(c.Request.Context(), c.Param("id"), page, limit)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":           dto.Reviews(res.Reviews),
		"page":           res.Page,
		"limit":          res.Limit,
		"total":          res.Total,
		"total_pages":    httpresp.TotalPages(res.Total, res.Limit),
		"average_rating": res.AverageRating,
	})
}

// ======================================================
// SCHEDULE (staff)
// ======================================================

func (h *StylistHandler) GetSchedule(c *gin.Context) {
	rows, err := h.catalog.GetSchedule(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"))
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	httpresp.List(c, dto.Schedule(rows))
}

func (h *StylistHandler) UpdateSchedule(c *gin.Context) {
	var req UpdateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	days := make([]domain.ScheduleDay, 0, len(req.Days))
	for _, d := range req.Days {
		days = append(days, domain.ScheduleDay{
			Weekday:     *d.Weekday,
			StartTime:   d.StartTime,
			EndTime:     d.EndTime,
			IsAvailable: d.IsAvailable,
		})
	}

	rows, err := h.catalog.ReplaceSchedule(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"), days)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	httpresp.List(c, dto.Schedule(rows))
}

// ======================================================
// LEAVES (staff)
// ======================================================

func (h *StylistHandler) ListLeaves(c *gin.Context) {
	items, err := h.catalog.ListLeaves(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"))
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	httpresp.List(c, dto.Leaves(items))
}

func (h *StylistHandler) CreateLeave(c *gin.Context) {
	var req CreateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	leave, err := h.catalog.CreateLeave(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"), catalog.LeaveInput{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Reason:    req.Reason,
	})
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	httpresp.Created(c, dto.Leave(leave))
}

func (h *StylistHandler) DeleteLeave(c *gin.Context) {
	err := h.catalog.DeleteLeave(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"), c.Param("leaveId"))
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
