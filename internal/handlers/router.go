package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/uleam/univoz-service/internal/services"
	"github.com/uleam/univoz-service/internal/utils"
)

const serviceName = "univoz-service"

type HandlerManager struct {
	authHandler    *AuthHandler
	userHandler    *UserHandler
	votingHandler  *VotingHandler
	opinionHandler *OpinionHandler
	reportHandler  *ReportHandler
	serviceManager services.ServiceManager
	logger         utils.Logger
}

func NewHandlerManager(serviceManager services.ServiceManager, logger utils.Logger) *HandlerManager {
	return &HandlerManager{
		authHandler:    NewAuthHandler(serviceManager.Auth(), logger),
		userHandler:    NewUserHandler(serviceManager.Auth(), logger),
		votingHandler:  NewVotingHandler(serviceManager.Voting(), logger),
		opinionHandler: NewOpinionHandler(serviceManager.Opinion(), logger),
		reportHandler:  NewReportHandler(serviceManager.Report(), logger),
		serviceManager: serviceManager,
		logger:         logger,
	}
}

// SetupRoutes sets up all API routes. Routes carry no authorization;
// callers report their own email and role.
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		// Accounts
		api.GET("/crear-usuarios", hm.authHandler.Bootstrap)
		api.POST("/login", hm.authHandler.Login)

		// Student dashboard
		api.GET("/pendientes", hm.votingHandler.GetPending)
		api.POST("/votar", hm.votingHandler.CastVote)
		api.POST("/opinion", hm.opinionHandler.SubmitOpinion)

		// Admin reads
		api.GET("/resultados", hm.votingHandler.GetResults)
		api.GET("/resultados/export", hm.reportHandler.ExportResults)
		api.GET("/opiniones", hm.opinionHandler.ListOpinions)
		api.GET("/opiniones/export", hm.reportHandler.ExportOpinions)
		api.GET("/votos/export", hm.reportHandler.ExportVotes)

		// Admin resets
		api.DELETE("/reset", hm.opinionHandler.ResetAll)
		api.DELETE("/votos", hm.votingHandler.DeleteVotes)
		api.DELETE("/opiniones/:id", hm.opinionHandler.DeleteOpinion)
		api.DELETE("/opiniones-reset", hm.opinionHandler.ResetCategory)

		// User administration
		users := api.Group("/usuarios")
		{
			users.GET("", hm.userHandler.ListUsers)
			users.POST("", hm.userHandler.CreateUser)
			users.DELETE("/:id", hm.userHandler.DeleteUser)
			users.PUT("/:id/rol", hm.userHandler.UpdateRole)
		}
	}

	router.GET("/health", hm.HealthCheck)
}

// HealthCheck pings the database and, when configured, redis
func (hm *HandlerManager) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := hm.serviceManager.HealthCheck(ctx); err != nil {
		utils.FromContext(c, hm.logger).Error("Health check failed", "error", err.Error())
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unhealthy",
			"service": serviceName,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": serviceName,
	})
}
