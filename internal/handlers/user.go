package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	dom "github.com/joaommmadureira/challenges-ignite/internal/domain"
	"github.com/joaommmadureira/challenges-ignite/internal/dto"
	"github.com/joaommmadureira/challenges-ignite/internal/logging"
	"github.com/joaommmadureira/challenges-ignite/internal/service"
)

// UserHandler handles user registration.
type UserHandler struct {
	svc *service.UserService
	log logging.Logger
}

// NewUserHandler returns a new UserHandler.
func NewUserHandler(svc *service.UserService, log logging.Logger) *UserHandler {
	return &UserHandler{svc: svc, log: log}
}

// Create godoc
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateUserRequest  true  "User"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u, err := h.svc.Create(c.Request.Context(), req.Name, req.Username)
	if err != nil {
		if errors.Is(err, service.ErrUserExists) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "User already exists"})
			return
		}
		internalError(c, h.log, "create user", err)
		return
	}

	h.log.Info(c.Request.Context(), "user created", "user_id", u.ID, "username", u.Username)
	c.JSON(http.StatusCreated, userToResponse(u))
}

func userToResponse(u dom.User) dto.UserResponse {
	return dto.UserResponse{
		ID:       u.ID,
		Name:     u.Name,
		Username: u.Username,
		Todos:    todosToResponses(u.Todos),
	}
}

func internalError(c *gin.Context, log logging.Logger, op string, err error) {
	log.Error(c.Request.Context(), op+" failed", "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
