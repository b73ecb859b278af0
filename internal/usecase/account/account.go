package account

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/notify"
	"github.com/BruksfildServices01/barber-booking/internal/otp"
	"github.com/BruksfildServices01/barber-booking/internal/validators"
)

const PurposePasswordReset = "password_reset"

// TokenIssuer assina o JWT de sessão.
type TokenIssuer interface {
	Issue(userID, role string) (string, error)
}

type Deps struct {
	Repo     domain.AccountRepository
	Tokens   TokenIssuer
	OTP      *otp.Service
	Notifier notify.Notifier
	Audit    *audit.Dispatcher
	Log      *zap.Logger

	// CheckEmailDomain consulta MX/A do domínio no cadastro.
	CheckEmailDomain func(email string) bool
}

type Service struct {
	d Deps
}

func New(d Deps) *Service {
	return &Service{d: d}
}

// Session é o retorno de cadastro e login.
type Session struct {
	User  *models.User
	Token string
}

// ======================================================
// REGISTER / CREATE
// ======================================================

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
}

func (s *Service) validate(in RegisterInput) (RegisterInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = validators.NormalizeEmail(in.Email)
	in.Phone = validators.NormalizePhone(in.Phone)

	if in.Name == "" || in.Email == "" {
		return in, httperr.NewBadRequest("missing_fields", "name and email are required")
	}
	if !validators.IsPasswordStrong(in.Password) {
		return in, httperr.NewBadRequest("weak_password", "password must have at least 8 characters with letters and digits")
	}
	if in.Phone != "" && !validators.IsPhoneValid(in.Phone) {
		return in, httperr.NewBadRequest("invalid_phone", "invalid phone number")
	}
	if s.d.CheckEmailDomain != nil && !s.d.CheckEmailDomain(in.Email) {
		return in, httperr.NewBadRequest("invalid_email_domain", "the e-mail domain does not look valid")
	}
	return in, nil
}

func (s *Service) create(ctx context.Context, in RegisterInput, role string) (*models.User, error) {
	in, err := s.validate(in)
	if err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, httperr.Database("hash password", err)
	}

	user := &models.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hashed),
		Phone:        in.Phone,
		Role:         role,
		Active:       true,
	}
	if err := s.d.Repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, httperr.NewConflict("email_already_registered", "e-mail already registered")
		}
		return nil, httperr.Database("create user", err)
	}
	return user, nil
}

// Register cria sempre um cliente.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	user, err := s.create(ctx, in, models.RoleCustomer)
	if err != nil {
		return nil, err
	}
	return s.session(user)
}

// CreateUser é o cadastro feito por um admin (staff, stylist ou admin).
func (s *Service) CreateUser(ctx context.Context, actor domain.Actor, in RegisterInput, role string) (*models.User, error) {
	if actor.Role != models.RoleAdmin {
		return nil, httperr.NewForbidden("forbidden", "only admins can create users")
	}
	if !models.IsStaffRole(role) && role != models.RoleCustomer {
		return nil, httperr.NewBadRequest("invalid_role", "role must be admin, staff, stylist or customer")
	}

	user, err := s.create(ctx, in, role)
	if err != nil {
		return nil, err
	}

	s.d.Audit.Dispatch(audit.Event{
		UserID:   audit.Ptr(actor.ID),
		Action:   "user_created",
		Entity:   "user",
		EntityID: audit.Ptr(user.ID),
		Metadata: map[string]any{"role": role, "email": user.Email},
	})
	return user, nil
}

// ======================================================
// LOGIN
// ======================================================

func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.d.Repo.FindUserByEmail(ctx, validators.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, httperr.Database("find user", err)
	}
	if !user.Active {
		return nil, errInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errInvalidCredentials
	}
	return s.session(user)
}

var errInvalidCredentials = httperr.NewUnauthorized("invalid_credentials", "invalid e-mail or password")

func (s *Service) session(user *models.User) (*Session, error) {
	token, err := s.d.Tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, httperr.Database("issue token", err)
	}
	return &Session{User: user, Token: token}, nil
}

// ======================================================
// PASSWORD RESET
// ======================================================

// RequestPasswordReset responde igual para e-mails desconhecidos.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	email = validators.NormalizeEmail(email)

	user, err := s.d.Repo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return httperr.Database("find user", err)
	}
	if !user.Active {
		return nil
	}

	code, err := s.d.OTP.Issue(ctx, PurposePasswordReset, user.Email)
	if err != nil {
		return httperr.Database("issue reset code", err)
	}

	if err := s.d.Notifier.PasswordReset(ctx, user.Email, code); err != nil {
		s.d.Log.Warn("password reset notification failed",
			zap.String("user_id", user.ID),
			zap.Error(err),
		)
	}
	return nil
}

func (s *Service) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	email = validators.NormalizeEmail(email)

	if !validators.IsPasswordStrong(newPassword) {
		return httperr.NewBadRequest("weak_password", "password must have at least 8 characters with letters and digits")
	}

	if err := s.d.OTP.Verify(ctx, PurposePasswordReset, email, code); err != nil {
		if errors.Is(err, otp.ErrTooManyAttempts) {
			return httperr.NewBadRequest("too_many_attempts", "too many wrong codes, request a new one")
		}
		if errors.Is(err, otp.ErrInvalidCode) {
			return httperr.NewBadRequest("invalid_reset_code", "invalid or expired code")
		}
		return httperr.Database("verify reset code", err)
	}

	user, err := s.d.Repo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return httperr.NewBadRequest("invalid_reset_code", "invalid or expired code")
		}
		return httperr.Database("find user", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return httperr.Database("hash password", err)
	}
	if err := s.d.Repo.UpdatePassword(ctx, user.ID, string(hashed)); err != nil {
		return httperr.Database("update password", err)
	}

	s.d.Log.Info("password reset", zap.String("user_id", user.ID))
	return nil
}

// ======================================================
// QUERIES
// ======================================================

func (s *Service) Me(ctx context.Context, actor domain.Actor) (*models.User, error) {
	user, err := s.d.Repo.GetUser(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.NewNotFound("user_not_found", "user not found")
		}
		return nil, httperr.Database("load user", err)
	}
	return user, nil
}

// ListByRole pagina usuários de um papel.
func (s *Service) ListByRole(ctx context.Context, role string, page, limit int) ([]models.User, int64, error) {
	users, total, err := s.d.Repo.ListUsers(ctx, role, page, limit)
	if err != nil {
		return nil, 0, httperr.Database("list users", err)
	}
	return users, total, nil
}
