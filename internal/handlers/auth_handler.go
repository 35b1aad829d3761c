package handlers

import (
	"errors"
	"fmt"
	"html"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/uleam/univoz-service/internal/services"
	"github.com/uleam/univoz-service/internal/utils"
)

type AuthHandler struct {
	BaseHandler
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService, logger utils.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: NewBaseHandler(logger),
		authService: authService,
	}
}

// Login checks an email and password pair
// @Summary Login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body services.LoginRequest true "Credentials"
// @Success 200 {object} services.LoginResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Login attempt", "email", req.Email)

	resp, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Bootstrap re-runs the idempotent account seeding and answers with HTML
// @Summary Create seed accounts
// @Tags auth
// @Produce html
// @Success 200 {string} string
// @Failure 500 {string} string
// @Router /crear-usuarios [get]
func (h *AuthHandler) Bootstrap(c *gin.Context) {
	h.LogRequest(c, "Bootstrapping seed accounts")

	result, err := h.authService.Bootstrap(c.Request.Context())
	if err != nil {
		h.LogError(c, err, "Failed to bootstrap accounts")
		c.Data(http.StatusInternalServerError, "text/plain; charset=utf-8", []byte("Error creando usuarios: "+err.Error()))
		return
	}

	var b strings.Builder
	b.WriteString("<h1>¡Usuarios creados!</h1>")
	for _, account := range result.Accounts {
		fmt.Fprintf(&b, "<p>%s: %s</p>", html.EscapeString(string(account.Role)), html.EscapeString(account.Email))
	}
	fmt.Fprintf(&b, "<p>Cuentas nuevas: %d</p>", result.Created)

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(b.String()))
}

func (h *AuthHandler) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Usuario no encontrado"})
	case errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Contraseña incorrecta"})
	default:
		h.LogError(c, err, "Login failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Error en el servidor"})
	}
}
