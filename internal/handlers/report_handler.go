package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/uleam/univoz-service/internal/services"
	"github.com/uleam/univoz-service/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	BaseHandler
	reportService services.ReportService
}

func NewReportHandler(reportService services.ReportService, logger utils.Logger) *ReportHandler {
	return &ReportHandler{
		BaseHandler:   NewBaseHandler(logger),
		reportService: reportService,
	}
}

// ExportResults downloads the tally as a spreadsheet
// @Summary Export results
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Failure 500 {object} ErrorResponse
// @Router /resultados/export [get]
func (h *ReportHandler) ExportResults(c *gin.Context) {
	h.LogRequest(c, "Exporting results")

	var buf bytes.Buffer
	if err := h.reportService.ExportResults(c.Request.Context(), &buf); err != nil {
		h.LogError(c, err, "Failed to export results")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Error al exportar resultados"})
		return
	}

	h.sendWorkbook(c, "resultados", &buf)
}

// ExportOpinions downloads opinions as a spreadsheet
// @Summary Export opinions
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param categoria query string false "Category"
// @Success 200 {file} file
// @Failure 500 {object} ErrorResponse
// @Router /opiniones/export [get]
func (h *ReportHandler) ExportOpinions(c *gin.Context) {
	category := c.Query("categoria")

	h.LogRequest(c, "Exporting opinions", "categoria", category)

	var buf bytes.Buffer
	if err := h.reportService.ExportOpinions(c.Request.Context(), category, &buf); err != nil {
		h.LogError(c, err, "Failed to export opinions")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Error al exportar opiniones"})
		return
	}

	name := "opiniones"
	if category != "" {
		name += "-" + category
	}
	h.sendWorkbook(c, name, &buf)
}

// ExportVotes downloads every ballot as a spreadsheet
// @Summary Export votes
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Failure 500 {object} ErrorResponse
// @Router /votos/export [get]
func (h *ReportHandler) ExportVotes(c *gin.Context) {
	h.LogRequest(c, "Exporting votes")

	var buf bytes.Buffer
	if err := h.reportService.ExportVotes(c.Request.Context(), &buf); err != nil {
		h.LogError(c, err, "Failed to export votes")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Error al exportar votos"})
		return
	}

	h.sendWorkbook(c, "votos", &buf)
}

func (h *ReportHandler) sendWorkbook(c *gin.Context, name string, buf *bytes.Buffer) {
	filename := fmt.Sprintf("%s-%s.xlsx", name, time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
