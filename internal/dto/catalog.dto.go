package dto

import (
	"time"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/usecase/booking"
)

type UserDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

func User(u *models.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      u.Role,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
	}
}

func Users(items []models.User) []UserDTO {
	out := make([]UserDTO, 0, len(items))
	for i := range items {
		out = append(out, User(&items[i]))
	}
	return out
}

// StylistDTO é a visão pública: sem e-mail nem telefone.
type StylistDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func Stylists(items []models.User) []StylistDTO {
	out := make([]StylistDTO, 0, len(items))
	for _, u := range items {
		out = append(out, StylistDTO{ID: u.ID, Name: u.Name})
	}
	return out
}

type ServiceDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	DurationMin int    `json:"duration_min"`
	Price       string `json:"price"`
	Category    string `json:"category"`
	Active      bool   `json:"active"`
}

func Service(s *models.Service) ServiceDTO {
	return ServiceDTO{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		DurationMin: s.DurationMin,
		Price:       s.Price.StringFixed(2),
		Category:    s.Category,
		Active:      s.Active,
	}
}

func Services(items []models.Service) []ServiceDTO {
	out := make([]ServiceDTO, 0, len(items))
	for i := range items {
		out = append(out, Service(&items[i]))
	}
	return out
}

type WorkingWindowDTO struct {
	Source string `json:"source"`
	Start  string `json:"start,omitempty"`
	End    string `json:"end,omitempty"`
}

type AvailabilityDTO struct {
	StylistID       string            `json:"stylist_id"`
	Date            string            `json:"date"`
	DurationMinutes int               `json:"duration_minutes"`
	Open            bool              `json:"open"`
	Reason          string            `json:"reason,omitempty"`
	Window          WorkingWindowDTO  `json:"working_window"`
	Slots           []domain.TimeSlot `json:"slots"`
}

func Availability(a *booking.Availability) AvailabilityDTO {
	return AvailabilityDTO{
		StylistID:       a.StylistID,
		Date:            a.Date.Format(dateLayout),
		DurationMinutes: a.DurationMinutes,
		Open:            a.Open,
		Reason:          a.Reason,
		Window: WorkingWindowDTO{
			Source: string(a.WindowSource),
			Start:  a.WindowStart,
			End:    a.WindowEnd,
		},
		Slots: a.Slots,
	}
}

type ScheduleDayDTO struct {
	Weekday     int    `json:"weekday"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	IsAvailable bool   `json:"is_available"`
}

func Schedule(rows []models.WeeklySchedule) []ScheduleDayDTO {
	out := make([]ScheduleDayDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, ScheduleDayDTO{
			Weekday:     r.Weekday,
			StartTime:   r.StartTime,
			EndTime:     r.EndTime,
			IsAvailable: r.IsAvailable,
		})
	}
	return out
}

type LeaveDTO struct {
	ID        string `json:"id"`
	StylistID string `json:"stylist_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason"`
}

func Leave(l *models.LeavePeriod) LeaveDTO {
	return LeaveDTO{
		ID:        l.ID,
		StylistID: l.StylistID,
		StartDate: time.Time(l.StartDate).Format(dateLayout),
		EndDate:   time.Time(l.EndDate).Format(dateLayout),
		Reason:    l.Reason,
	}
}

func Leaves(items []models.LeavePeriod) []LeaveDTO {
	out := make([]LeaveDTO, 0, len(items))
	for i := range items {
		out = append(out, Leave(&items[i]))
	}
	return out
}
