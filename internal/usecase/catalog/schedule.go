package catalog

import (
	"context"
	"errors"
	"strings"

	"gorm.io/datatypes"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// stylist confere que o id é de um stylist (ativo ou não).
func (c *Catalog) stylist(ctx context.Context, id string) (*models.User, error) {
	u, err := c.users.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.NewNotFound("stylist_not_found", "stylist not found")
		}
		return nil, httperr.Database("load stylist", err)
	}
	if u.Role != models.RoleStylist {
		return nil, httperr.NewNotFound("stylist_not_found", "stylist not found")
	}
	return u, nil
}

// canManage: staff e admin mexem em qualquer agenda, stylist só na própria.
func canManage(actor domain.Actor, stylistID string) error {
	if !actor.IsStaff() {
		return httperr.NewForbidden("forbidden", "staff only")
	}
	if actor.Role == models.RoleStylist && actor.ID != stylistID {
		return httperr.NewForbidden("forbidden", "stylists can only manage their own schedule")
	}
	return nil
}

// ListStylists é a lista pública (só ativos).
func (c *Catalog) ListStylists(ctx context.Context) ([]models.User, error) {
	users, _, err := c.users.ListUsers(ctx, models.RoleStylist, 1, domain.MaxPageLimit)
	if err != nil {
		return nil, httperr.Database("list stylists", err)
	}
	active := users[:0]
	for _, u := range users {
		if u.Active {
			active = append(active, u)
		}
	}
	return active, nil
}

// ======================================================
// WEEKLY SCHEDULE
// ======================================================

func (c *Catalog) GetSchedule(ctx context.Context, actor domain.Actor, stylistID string) ([]models.WeeklySchedule, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if _, err := c.stylist(ctx, stylistID); err != nil {
		return nil, err
	}
	rows, err := c.schedules.ListWeeklySchedule(ctx, stylistID)
	if err != nil {
		return nil, httperr.Database("list schedule", err)
	}
	return rows, nil
}

// ReplaceSchedule troca a semana inteira de uma vez.
func (c *Catalog) ReplaceSchedule(
	ctx context.Context,
	actor domain.Actor,
	stylistID string,
	days []domain.ScheduleDay,
) ([]models.WeeklySchedule, error) {

	if err := canManage(actor, stylistID); err != nil {
		return nil, err
	}
	if _, err := c.stylist(ctx, stylistID); err != nil {
		return nil, err
	}
	if err := domain.ValidateWeeklySchedule(days); err != nil {
		return nil, err
	}

	rows := domain.ToModels(stylistID, days)
	if err := c.schedules.ReplaceWeeklySchedule(ctx, stylistID, rows); err != nil {
		return nil, httperr.Database("replace schedule", err)
	}

	c.audit.Dispatch(audit.Event{
		UserID:   audit.Ptr(actor.ID),
		Action:   "schedule_updated",
		Entity:   "stylist",
		EntityID: audit.Ptr(stylistID),
		Metadata: days,
	})

	saved, err := c.schedules.ListWeeklySchedule(ctx, stylistID)
	if err != nil {
		return nil, httperr.Database("list schedule", err)
	}
	return saved, nil
}

// ======================================================
// LEAVES
// ======================================================

type LeaveInput struct {
	StartDate string
	EndDate   string
	Reason    string
}

func (c *Catalog) ListLeaves(ctx context.Context, actor domain.Actor, stylistID string) ([]models.LeavePeriod, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if _, err := c.stylist(ctx, stylistID); err != nil {
		return nil, err
	}
	items, err := c.schedules.ListLeaves(ctx, stylistID)
	if err != nil {
		return nil, httperr.Database("list leaves", err)
	}
	return items, nil
}

func (c *Catalog) CreateLeave(ctx context.Context, actor domain.Actor, stylistID string, in LeaveInput) (*models.LeavePeriod, error) {
	if err := canManage(actor, stylistID); err != nil {
		return nil, err
	}
	if _, err := c.stylist(ctx, stylistID); err != nil {
		return nil, err
	}

	start, err := domain.ParseDate(in.StartDate)
	if err != nil {
		return nil, httperr.NewBadRequest("invalid_date", "start_date must be YYYY-MM-DD")
	}
	end := start
	if in.EndDate != "" {
		if end, err = domain.ParseDate(in.EndDate); err != nil {
			return nil, httperr.NewBadRequest("invalid_date", "end_date must be YYYY-MM-DD")
		}
	}
	if err := domain.ValidateLeave(start, end); err != nil {
		return nil, err
	}

	leave := &models.LeavePeriod{
		StylistID: stylistID,
		StartDate: datatypes.Date(start),
		EndDate:   datatypes.Date(end),
		Reason:    strings.TrimSpace(in.Reason),
	}
	if err := c.schedules.CreateLeave(ctx, leave); err != nil {
		return nil, httperr.Database("create leave", err)
	}

	c.audit.Dispatch(audit.Event{
		UserID:   audit.Ptr(actor.ID),
		Action:   "leave_created",
		Entity:   "leave_period",
		EntityID: audit.Ptr(leave.ID),
		Metadata: map[string]any{"stylist_id": stylistID, "start_date": in.StartDate, "end_date": end.Format("2006-01-02")},
	})
	return leave, nil
}

func (c *Catalog) DeleteLeave(ctx context.Context, actor domain.Actor, stylistID, leaveID string) error {
	if err := canManage(actor, stylistID); err != nil {
		return err
	}
	if err := c.schedules.DeleteLeave(ctx, stylistID, leaveID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return httperr.NewNotFound("leave_not_found", "leave period not found")
		}
		return httperr.Database("delete leave", err)
	}

	c.audit.Dispatch(audit.Event{
		UserID:   audit.Ptr(actor.ID),
		Action:   "leave_deleted",
		Entity:   "leave_period",
		EntityID: audit.Ptr(leaveID),
		Metadata: map[string]any{"stylist_id": stylistID},
	})
	return nil
}
