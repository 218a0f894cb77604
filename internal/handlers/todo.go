package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/joaommmadureira/challenges-ignite/internal/auth"
	dom "github.com/joaommmadureira/challenges-ignite/internal/domain"
	"github.com/joaommmadureira/challenges-ignite/internal/dto"
	"github.com/joaommmadureira/challenges-ignite/internal/logging"
	"github.com/joaommmadureira/challenges-ignite/internal/service"
)

type TodoHandler struct {
	svc *service.TodoService
	log logging.Logger
}

func NewTodoHandler(svc *service.TodoService, log logging.Logger) *TodoHandler {
	return &TodoHandler{svc: svc, log: log}
}

// List godoc
// @Summary      List the user's todos
// @Tags         todos
// @Produce      json
// @Param        username  header    string  true  "Acting username"
// @Success      200  {array}   dto.TodoResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /todos [get]
func (h *TodoHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	list, err := h.svc.List(c.Request.Context(), user.ID)
	if err != nil {
		h.fail(c, "list todos", err)
		return
	}
	c.JSON(http.StatusOK, todosToResponses(list))
}

// Create godoc
// @Summary      Create a todo
// @Tags         todos
// @Accept       json
// @Produce      json
// @Param        username  header    string           true  "Acting username"
// @Param        body      body      dto.TodoRequest  true  "Todo body"
// @Success      201   {object}  dto.TodoResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /todos [post]
func (h *TodoHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.TodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	t, err := h.svc.Create(c.Request.Context(), user.ID, req.Title, req.Deadline.Time())
	if err != nil {
		h.fail(c, "create todo", err)
		return
	}
	c.JSON(http.StatusCreated, todoToResponse(t))
}

// Update godoc
// @Summary      Replace a todo's title and deadline
// @Tags         todos
// @Accept       json
// @Produce      json
// @Param        username  header    string           true  "Acting username"
// @Param        id        path      string           true  "Todo ID"
// @Param        body      body      dto.TodoRequest  true  "Todo body"
// @Success      200   {object}  dto.TodoResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /todos/{id} [put]
func (h *TodoHandler) Update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.TodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t, err := h.svc.Update(c.Request.Context(), user.ID, id, req.Title, req.Deadline.Time())
	if err != nil {
		h.fail(c, "update todo", err)
		return
	}
	c.JSON(http.StatusOK, todoToResponse(t))
}

// Complete godoc
// @Summary      Mark a todo as done
// @Tags         todos
// @Produce      json
// @Param        username  header    string  true  "Acting username"
// @Param        id        path      string  true  "Todo ID"
// @Success      200  {object}  dto.TodoResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /todos/{id}/done [patch]
func (h *TodoHandler) Complete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	t, err := h.svc.Complete(c.Request.Context(), user.ID, id)
	if err != nil {
		h.fail(c, "complete todo", err)
		return
	}
	c.JSON(http.StatusOK, todoToResponse(t))
}

// Delete godoc
// @Summary      Delete a todo
// @Tags         todos
// @Param        username  header  string  true  "Acting username"
// @Param        id        path    string  true  "Todo ID"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /todos/{id} [delete]
func (h *TodoHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), user.ID, id); err != nil {
		h.fail(c, "delete todo", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TodoHandler) fail(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, service.ErrTodoNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "To-do not found"})
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	default:
		internalError(c, h.log, op, err)
	}
}

// currentUser must follow auth.RequireUser in the chain.
func currentUser(c *gin.Context) (dom.User, bool) {
	u, ok := auth.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return dom.User{}, false
	}
	return u, true
}

// parseID treats a malformed id like an unknown one: neither names a todo.
func parseID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "To-do not found"})
		return uuid.Nil, false
	}
	return id, true
}

func todoToResponse(t dom.Todo) dto.TodoResponse {
	return dto.TodoResponse{
		ID:        t.ID,
		Title:     t.Title,
		Done:      t.Done,
		Deadline:  t.Deadline,
		CreatedAt: t.CreatedAt,
	}
}

func todosToResponses(list []dom.Todo) []dto.TodoResponse {
	out := make([]dto.TodoResponse, len(list))
	for i := range list {
		out[i] = todoToResponse(list[i])
	}
	return out
}
