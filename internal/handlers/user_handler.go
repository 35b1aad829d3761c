package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uleam/univoz-service/internal/services"
	"github.com/uleam/univoz-service/internal/utils"
	"github.com/uleam/univoz-service/internal/validator"
)

type UserHandler struct {
	BaseHandler
	authService services.AuthService
}

func NewUserHandler(authService services.AuthService, logger utils.Logger) *UserHandler {
	return &UserHandler{
		BaseHandler: NewBaseHandler(logger),
		authService: authService,
	}
}

// ListUsers lists every account without password hashes
// @Summary List users
// @Tags users
// @Produce json
// @Success 200 {array} models.User
// @Failure 500 {object} ErrorResponse
// @Router /usuarios [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	h.LogRequest(c, "Listing users")

	users, err := h.authService.ListUsers(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err, "Error al listar usuarios")
		return
	}

	c.JSON(http.StatusOK, users)
}

// CreateUser creates an account with a hashed password
// @Summary Create user
// @Tags users
// @Accept json
// @Produce json
// @Param request body services.CreateUserRequest true "User"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /usuarios [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req services.CreateUserRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Creating user", "email", derefString(req.Email), "rol", req.Role)

	if err := h.authService.CreateUser(c.Request.Context(), &req); err != nil {
		h.handleServiceError(c, err, "Error al crear usuario (quizás el correo ya existe)")
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Status: statusSuccess, Message: "Usuario creado"})
}

// DeleteUser removes an account; unknown ids succeed
// @Summary Delete user
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /usuarios/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	h.LogRequest(c, "Deleting user", "user_id", id)

	if err := h.authService.DeleteUser(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err, "Error al eliminar")
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Status: statusSuccess, Message: "Usuario eliminado"})
}

// UpdateRole changes the role of an account
// @Summary Update user role
// @Tags users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body services.UpdateRoleRequest true "New role"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /usuarios/{id}/rol [put]
func (h *UserHandler) UpdateRole(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateRoleRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Updating user role", "user_id", id, "rol", req.NewRole)

	if err := h.authService.UpdateRole(c.Request.Context(), id, req.NewRole); err != nil {
		h.handleServiceError(c, err, "Error al actualizar rol")
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Status: statusSuccess})
}

func (h *UserHandler) handleServiceError(c *gin.Context, err error, message string) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Datos inválidos",
			Details: validationErrors,
		})
		return
	}

	// Duplicate emails keep the generic 500 with the hinting message.
	h.LogError(c, err, "User operation failed")
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: message})
}
