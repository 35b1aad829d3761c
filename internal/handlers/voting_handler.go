package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uleam/univoz-service/internal/services"
	"github.com/uleam/univoz-service/internal/utils"
	"github.com/uleam/univoz-service/internal/validator"
)

type VotingHandler struct {
	BaseHandler
	votingService services.VotingService
}

func NewVotingHandler(votingService services.VotingService, logger utils.Logger) *VotingHandler {
	return &VotingHandler{
		BaseHandler:   NewBaseHandler(logger),
		votingService: votingService,
	}
}

// GetPending reports which surveys an email has answered
// @Summary Pending surveys
// @Tags voting
// @Produce json
// @Param email query string false "User email"
// @Success 200 {object} services.PendingResponse
// @Failure 500 {object} ErrorResponse
// @Router /pendientes [get]
func (h *VotingHandler) GetPending(c *gin.Context) {
	email := c.Query("email")

	h.LogRequest(c, "Getting pending surveys", "email", email)

	pending, err := h.votingService.GetPending(c.Request.Context(), email)
	if err != nil {
		h.handleServiceError(c, err, "Error en el servidor")
		return
	}

	c.JSON(http.StatusOK, pending)
}

// CastVote records the single election vote of an email
// @Summary Cast vote
// @Tags voting
// @Accept json
// @Produce json
// @Param request body services.CastVoteRequest true "Vote"
// @Success 200 {object} SuccessResponse
// @Failure 500 {object} ErrorResponse
// @Router /votar [post]
func (h *VotingHandler) CastVote(c *gin.Context) {
	var req services.CastVoteRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Casting vote", "email", derefString(req.Email), "candidato", req.Candidate)

	if err := h.votingService.CastVote(c.Request.Context(), &req); err != nil {
		h.handleServiceError(c, err, "Error al votar")
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Status: statusSuccess, Message: "Voto guardado"})
}

// GetResults returns the vote count per candidate
// @Summary Election results
// @Tags voting
// @Produce json
// @Success 200 {array} models.CandidateTally
// @Failure 500 {object} ErrorResponse
// @Router /resultados [get]
func (h *VotingHandler) GetResults(c *gin.Context) {
	h.LogRequest(c, "Getting results")

	results, err := h.votingService.GetResults(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err, "Error obteniendo resultados")
		return
	}

	c.JSON(http.StatusOK, results)
}

// DeleteVotes erases every vote
// @Summary Delete all votes
// @Tags voting
// @Produce json
// @Success 200 {object} SuccessResponse
// @Failure 500 {object} ErrorResponse
// @Router /votos [delete]
func (h *VotingHandler) DeleteVotes(c *gin.Context) {
	h.LogRequest(c, "Deleting all votes")

	if err := h.votingService.ResetVotes(c.Request.Context()); err != nil {
		h.handleServiceError(c, err, "Error al eliminar votos")
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Status: statusSuccess, Message: "Votos eliminados correctamente"})
}

func (h *VotingHandler) handleServiceError(c *gin.Context, err error, message string) {
	// A repeated vote is reported in a 200 body, not as an HTTP error.
	if errors.Is(err, services.ErrAlreadyVoted) {
		c.JSON(http.StatusOK, SuccessResponse{Status: statusError, Message: "Usuario ya votó"})
		return
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Datos inválidos",
			Details: validationErrors,
		})
		return
	}

	h.LogError(c, err, "Voting operation failed")
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: message})
}
