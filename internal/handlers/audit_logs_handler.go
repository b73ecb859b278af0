package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	repo domain.AuditRepository
	log  *zap.Logger
}

func NewAuditLogsHandler(repo domain.AuditRepository, log *zap.Logger) *AuditLogsHandler {
	return &AuditLogsHandler{repo: repo, log: log}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	page, limit := pageParams(c)

	f := domain.AuditFilter{
		Action: c.Query("action"),
		Entity: c.Query("entity"),
		Page:   page,
		Limit:  limit,
	}

	// --------------------------------------------------
	// Período opcional (to inclui o dia inteiro)
	// --------------------------------------------------

	if fromStr := c.Query("from"); fromStr != "" {
		from, err := domain.ParseDate(fromStr)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "from must be YYYY-MM-DD.")
			return
		}
		f.From = &from
	}
	if toStr := c.Query("to"); toStr != "" {
		to, err := domain.ParseDate(toStr)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "to must be YYYY-MM-DD.")
			return
		}
		to = to.AddDate(0, 0, 1)
		f.To = &to
	}

	logs, total, err := h.repo.ListAuditLogs(c.Request.Context(), f)
	if err != nil {
		httperr.Respond(c, h.log, httperr.Database("list audit logs", err))
		return
	}

	httpresp.Page(c, logs, page, limit, total)
}
