package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/dto"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/usecase/account"
)

type UserHandler struct {
	accounts *account.Service
	log      *zap.Logger
}

func NewUserHandler(accounts *account.Service, log *zap.Logger) *UserHandler {
	return &UserHandler{accounts: accounts, log: log}
}

type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Phone    string `json:"phone"`
	Role     string `json:"role" binding:"required"`
}

func (h *UserHandler) GetMe(c *gin.Context) {
	user, err := h.accounts.Me(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	httpresp.OK(c, gin.H{"user": dto.User(user)})
}

// Create: só admin (checado também no use case).
func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	user, err := h.accounts.CreateUser(c.Request.Context(), middleware.ActorFrom(c), account.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
	}, req.Role)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	httpresp.Created(c, dto.User(user))
}

func (h *UserHandler) ListCustomers(c *gin.Context) {
	page, limit := pageParams(c)

	users, total, err := h.accounts.ListByRole(c.Request.Context(), models.RoleCustomer, page, limit)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	httpresp.Page(c, dto.Users(users), page, limit, total)
}
