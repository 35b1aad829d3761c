package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uleam/univoz-service/internal/services"
	"github.com/uleam/univoz-service/internal/utils"
	"github.com/uleam/univoz-service/internal/validator"
)

type OpinionHandler struct {
	BaseHandler
	opinionService services.OpinionService
}

func NewOpinionHandler(opinionService services.OpinionService, logger utils.Logger) *OpinionHandler {
	return &OpinionHandler{
		BaseHandler:    NewBaseHandler(logger),
		opinionService: opinionService,
	}
}

// SubmitOpinion stores a rating and comment for a category
// @Summary Submit opinion
// @Tags opinions
// @Accept json
// @Produce json
// @Param request body services.SubmitOpinionRequest true "Opinion"
// @Success 200 {object} SuccessResponse
// @Failure 500 {object} ErrorResponse
// @Router /opinion [post]
func (h *OpinionHandler) SubmitOpinion(c *gin.Context) {
	var req services.SubmitOpinionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Submitting opinion", "email", derefString(req.Email), "categoria", req.Category)

	if err := h.opinionService.SubmitOpinion(c.Request.Context(), &req); err != nil {
		h.handleServiceError(c, err, "Error al guardar opinion")
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Status: statusSuccess})
}

// ListOpinions returns opinions newest first, optionally for one category
// @Summary List opinions
// @Tags opinions
// @Produce json
// @Param categoria query string false "Category"
// @Success 200 {array} models.Opinion
// @Failure 500 {object} ErrorResponse
// @Router /opiniones [get]
func (h *OpinionHandler) ListOpinions(c *gin.Context) {
	category := c.Query("categoria")

	h.LogRequest(c, "Listing opinions", "categoria", category)

	opinions, err := h.opinionService.ListOpinions(c.Request.Context(), category)
	if err != nil {
		h.handleServiceError(c, err, "Error al leer opiniones")
		return
	}

	c.JSON(http.StatusOK, opinions)
}

// DeleteOpinion removes one opinion
// @Summary Delete opinion
// @Tags opinions
// @Produce json
// @Param id path int true "Opinion ID"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /opiniones/{id} [delete]
func (h *OpinionHandler) DeleteOpinion(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	h.LogRequest(c, "Deleting opinion", "opinion_id", id)

	if err := h.opinionService.DeleteOpinion(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err, "Error al eliminar opinión")
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Status: statusSuccess, Message: "Opinión eliminada"})
}

// ResetCategory deletes every opinion of the categoria query parameter
// @Summary Reset opinion category
// @Tags opinions
// @Produce json
// @Param categoria query string true "Category"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /opiniones-reset [delete]
func (h *OpinionHandler) ResetCategory(c *gin.Context) {
	category := c.Query("categoria")

	h.LogRequest(c, "Resetting opinion category", "categoria", category)

	if err := h.opinionService.ResetCategory(c.Request.Context(), category); err != nil {
		h.handleServiceError(c, err, "Error al reiniciar categoría")
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Status:  statusSuccess,
		Message: fmt.Sprintf("Se reinició la categoría %s", category),
	})
}

// ResetAll erases votes and opinions and restarts their ids
// @Summary Reset the survey
// @Tags opinions
// @Produce json
// @Success 200 {object} SuccessResponse
// @Failure 500 {object} ErrorResponse
// @Router /reset [delete]
func (h *OpinionHandler) ResetAll(c *gin.Context) {
	h.LogRequest(c, "Resetting votes and opinions")

	if err := h.opinionService.ResetAll(c.Request.Context()); err != nil {
		h.handleServiceError(c, err, "Error crítico al reiniciar")
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Status: statusSuccess, Message: "Sistema reiniciado"})
}

func (h *OpinionHandler) handleServiceError(c *gin.Context, err error, message string) {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.As(err, &validationErrors):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Datos inválidos",
			Details: validationErrors,
		})
	case errors.Is(err, services.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Falta la categoría"})
	default:
		h.LogError(c, err, "Opinion operation failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: message})
	}
}
