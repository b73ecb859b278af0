package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/availability"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/handlers"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/notify"
	"github.com/BruksfildServices01/barber-booking/internal/otp"
	pay "github.com/BruksfildServices01/barber-booking/internal/payment"
	"github.com/BruksfildServices01/barber-booking/internal/ratelimit"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
	"github.com/BruksfildServices01/barber-booking/internal/usecase/account"
	ucBooking "github.com/BruksfildServices01/barber-booking/internal/usecase/booking"
	"github.com/BruksfildServices01/barber-booking/internal/usecase/catalog"
	ucPayment "github.com/BruksfildServices01/barber-booking/internal/usecase/payment"
	"github.com/BruksfildServices01/barber-booking/internal/usecase/review"
)

// Deps reúne a infraestrutura já montada pelo main (ou pelos testes).
type Deps struct {
	Bookings  domain.Repository
	Payments  domain.PaymentRepository
	Reviews   domain.ReviewRepository
	Accounts  domain.AccountRepository
	Catalog   domain.CatalogRepository
	Schedules domain.ScheduleRepository
	AuditLogs domain.AuditRepository

	Audit    *audit.Dispatcher
	Notifier notify.Notifier
	Gateway  pay.Gateway
	OTP      *otp.Service
	Tokens   *middleware.Tokens
	Limiter  *ratelimit.Limiter

	Clock            timezone.Clock
	Policy           domain.SchedulePolicy
	MinAdvance       time.Duration
	CheckEmailDomain func(email string) bool

	Metrics *metrics.Metrics
	Log     *zap.Logger
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// 🔧 INFRA
	// ======================================================
	engine := availability.New(d.Bookings, d.Policy, d.Log, d.Metrics)

	bookingDeps := ucBooking.Deps{
		Repo:       d.Bookings,
		Engine:     engine,
		Clock:      d.Clock,
		Notifier:   d.Notifier,
		Audit:      d.Audit,
		Log:        d.Log,
		Metrics:    d.Metrics,
		MinAdvance: d.MinAdvance,
	}

	// ======================================================
	// 🧠 USE CASES
	// ======================================================
	transitionUC := ucBooking.NewTransitionStatus(bookingDeps)

	bookingUC := handlers.BookingUseCases{
		Create:     ucBooking.NewCreateBooking(bookingDeps),
		List:       ucBooking.NewListBookings(d.Bookings),
		Get:        ucBooking.NewGetBooking(d.Bookings),
		History:    ucBooking.NewGetHistory(d.Bookings),
		Stats:      ucBooking.NewGetStats(d.Bookings, d.Clock),
		Transition: transitionUC,
		Cancel:     ucBooking.NewCancelBooking(transitionUC),
		Reschedule: ucBooking.NewRescheduleBooking(bookingDeps),
	}

	accounts := account.New(account.Deps{
		Repo:             d.Accounts,
		Tokens:           d.Tokens,
		OTP:              d.OTP,
		Notifier:         d.Notifier,
		Audit:            d.Audit,
		Log:              d.Log,
		CheckEmailDomain: d.CheckEmailDomain,
	})

	cat := catalog.New(d.Catalog, d.Schedules, d.Accounts, d.Audit)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(accounts, d.Log)
	userHandler := handlers.NewUserHandler(accounts, d.Log)
	serviceHandler := handlers.NewServiceHandler(cat, d.Log)
	bookingHandler := handlers.NewBookingHandler(bookingUC, d.Log)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.AuditLogs, d.Log)

	stylistHandler := handlers.NewStylistHandler(
		cat,
		ucBooking.NewGetAvailability(d.Bookings, engine),
		review.NewListStylistReviews(d.Reviews),
		d.Log,
	)

	paymentHandler := handlers.NewPaymentHandler(
		ucPayment.NewProcessPayment(d.Payments, d.Gateway, d.Clock, d.Log, d.Metrics),
		ucPayment.NewListPayments(d.Payments),
		review.NewCreateReview(d.Reviews),
		d.Log,
	)

	limit := func(key ratelimit.KeyFunc) gin.HandlerFunc {
		if d.Limiter == nil {
			return func(c *gin.Context) { c.Next() }
		}
		return d.Limiter.Middleware(key)
	}

	staff := middleware.RequireRole(models.RoleAdmin, models.RoleStaff, models.RoleStylist)

	api := r.Group("/api")
	{
		// ------------------------------
		// 🌐 API PÚBLICA
		// ------------------------------
		public := api.Group("/", limit(ratelimit.ByClientIP))
		{
			public.POST("/auth/register", authHandler.Register)
			public.POST("/auth/login", authHandler.Login)
			public.POST("/auth/password/forgot", authHandler.ForgotPassword)
			public.POST("/auth/password/reset", authHandler.ResetPassword)

			public.GET("/services", serviceHandler.List)
			public.GET("/stylists", stylistHandler.List)
			public.GET("/stylists/:id/availability", stylistHandler.Availability)
			public.GET("/stylists/:id/reviews", stylistHandler.Reviews)
		}

		// ------------------------------
		// 🔐 API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(d.Tokens), limit(ratelimit.ByUserOrIP))
		{
			secured.GET("/me", userHandler.GetMe)

			// ------------------------------
			// BOOKINGS
			// ------------------------------
			secured.POST("/bookings", bookingHandler.Create)
			secured.GET("/bookings", bookingHandler.List)
			secured.GET("/bookings/stats", staff, bookingHandler.Stats)
			secured.GET("/bookings/:id", bookingHandler.Get)
			secured.GET("/bookings/:id/history", bookingHandler.History)
			secured.PATCH("/bookings/:id", bookingHandler.Update)
			secured.PATCH("/bookings/:id/status", bookingHandler.UpdateStatus)
			secured.POST("/bookings/:id/cancel", bookingHandler.Cancel)

			secured.POST("/bookings/:id/payments", paymentHandler.Pay)
			secured.GET("/bookings/:id/payments", paymentHandler.List)
			secured.POST("/bookings/:id/review", paymentHandler.Review)

			// ------------------------------
			// STAFF
			// ------------------------------
			secured.GET("/stylists/:id/schedule", staff, stylistHandler.GetSchedule)
			secured.PUT("/stylists/:id/schedule", staff, stylistHandler.UpdateSchedule)
			secured.GET("/stylists/:id/leaves", staff, stylistHandler.ListLeaves)
			secured.POST("/stylists/:id/leaves", staff, stylistHandler.CreateLeave)
			secured.DELETE("/stylists/:id/leaves/:leaveId", staff, stylistHandler.DeleteLeave)

			secured.POST("/services", staff, serviceHandler.Create)
			secured.PATCH("/services/:id", staff, serviceHandler.Update)

			secured.GET("/customers", staff, userHandler.ListCustomers)
			secured.GET("/audit-logs", staff, auditLogsHandler.List)

			secured.POST("/users", middleware.RequireRole(models.RoleAdmin), userHandler.Create)
		}
	}
}
