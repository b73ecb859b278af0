package booking

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// ErrNotFound é devolvido pelos repositórios quando a linha não existe.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate indica violação de unicidade na escrita.
var ErrDuplicate = errors.New("duplicate record")

type ScheduleReader interface {
	// GetWeeklySchedule devolve nil, nil quando não há linha para o dia.
	GetWeeklySchedule(
		ctx context.Context,
		stylistID string,
		weekday time.Weekday,
	) (*models.WeeklySchedule, error)

	// FindLeaveCovering devolve nil, nil quando o dia está livre.
	FindLeaveCovering(
		ctx context.Context,
		stylistID string,
		date time.Time,
	) (*models.LeavePeriod, error)
}

type BookingReader interface {
	// FindActiveBookings lista pending/confirmed/in_progress do stylist no dia.
	FindActiveBookings(
		ctx context.Context,
		stylistID string,
		date time.Time,
		excludeID string,
	) ([]models.Booking, error)
}

type AvailabilityReader interface {
	ScheduleReader
	BookingReader
}

type Repository interface {
	AvailabilityReader

	// -------- Users / Services --------
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetService(ctx context.Context, id string) (*models.Service, error)

	// -------- Booking --------
	CreateBooking(ctx context.Context, b *models.Booking) error
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	// GetBookingDetailed carrega cliente, stylist e serviço.
	GetBookingDetailed(ctx context.Context, id string) (*models.Booking, error)
	UpdateBooking(ctx context.Context, b *models.Booking) error
	ListBookings(ctx context.Context, f ListFilter) ([]models.Booking, int64, error)

	// -------- History --------
	AppendHistory(ctx context.Context, h *models.BookingHistory) error
	ListHistory(ctx context.Context, bookingID string) ([]models.BookingHistory, error)

	// -------- Stats --------
	Stats(ctx context.Context, w StatsWindow) (*Stats, error)

	// WithSlotLock executa fn numa transação que segura o lock de
	// (stylistID, date). Checagem e escrita dentro de fn são atômicas.
	WithSlotLock(
		ctx context.Context,
		stylistID string,
		date time.Time,
		fn func(tx Repository) error,
	) error
}

// PaymentRepository guarda as cobranças de um agendamento.
type PaymentRepository interface {
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	ListPayments(ctx context.Context, bookingID string) ([]models.Payment, error)
	CreatePayment(ctx context.Context, p *models.Payment) error

	// WithBookingLock trava a linha do agendamento (FOR UPDATE) durante fn.
	WithBookingLock(
		ctx context.Context,
		bookingID string,
		fn func(tx PaymentRepository, b *models.Booking) error,
	) error
}

type ReviewRepository interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetBooking(ctx context.Context, id string) (*models.Booking, error)

	// FindReviewByBooking devolve nil, nil quando ainda não há review.
	FindReviewByBooking(ctx context.Context, bookingID string) (*models.Review, error)
	CreateReview(ctx context.Context, r *models.Review) error
	ListStylistReviews(ctx context.Context, stylistID string, page, limit int) ([]models.Review, int64, error)
	StylistRating(ctx context.Context, stylistID string) (avg float64, count int64, err error)
}

// -------- Cadastros (fora do núcleo de agenda) --------

type AccountRepository interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	// CreateUser devolve ErrDuplicate quando o e-mail já existe.
	CreateUser(ctx context.Context, u *models.User) error
	UpdatePassword(ctx context.Context, userID, hash string) error
	ListUsers(ctx context.Context, role string, page, limit int) ([]models.User, int64, error)
}

type CatalogRepository interface {
	GetService(ctx context.Context, id string) (*models.Service, error)
	ListServices(ctx context.Context, activeOnly bool) ([]models.Service, error)
	CreateService(ctx context.Context, s *models.Service) error
	UpdateService(ctx context.Context, s *models.Service) error
}

type ScheduleRepository interface {
	ListWeeklySchedule(ctx context.Context, stylistID string) ([]models.WeeklySchedule, error)
	// ReplaceWeeklySchedule troca todas as linhas do stylist numa transação.
	ReplaceWeeklySchedule(ctx context.Context, stylistID string, rows []models.WeeklySchedule) error

	ListLeaves(ctx context.Context, stylistID string) ([]models.LeavePeriod, error)
	CreateLeave(ctx context.Context, l *models.LeavePeriod) error
	DeleteLeave(ctx context.Context, stylistID, leaveID string) error
}

// AuditFilter: campos vazios não filtram; To é exclusivo.
type AuditFilter struct {
	Action string
	Entity string
	From   *time.Time
	To     *time.Time
	Page   int
	Limit  int
}

type AuditRepository interface {
	ListAuditLogs(ctx context.Context, f AuditFilter) ([]models.AuditLog, int64, error)
}
