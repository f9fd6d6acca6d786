package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/exam-planner-api/internal/service"
	"github.com/noah-isme/exam-planner-api/pkg/response"
)

// ExportHandler serves schedule and seating downloads.
type ExportHandler struct {
	service *service.ExportService
}

// NewExportHandler creates a new handler.
func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// ScheduleCSV godoc
// @Summary Schedule CSV
// @Description Download the department's schedule for one exam type
// @Tags Exports
// @Produce text/csv
// @Param type query string true "Exam type" Enums(midterm, final, makeup)
// @Success 200 {string} string "CSV payload"
// @Failure 400 {object} response.Envelope
// @Router /exports/schedule.csv [get]
// @Security BearerAuth
func (h *ExportHandler) ScheduleCSV(c *gin.Context) {
	departmentID, err := departmentFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	examType := c.Query("type")
	payload, err := h.service.ScheduleCSV(c.Request.Context(), departmentID, examType)
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := fmt.Sprintf("schedule-%s.csv", examType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv", payload)
}

// SeatingPDF godoc
// @Summary Seating plan PDF
// @Description Download the seating plan for one exam event
// @Tags Exports
// @Produce application/pdf
// @Param id path string true "Exam event ID"
// @Success 200 {string} string "PDF payload"
// @Failure 404 {object} response.Envelope
// @Router /exports/seating/{id}.pdf [get]
// @Security BearerAuth
func (h *ExportHandler) SeatingPDF(c *gin.Context) {
	departmentID, err := departmentFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	// the route accepts both /seating/:id and /seating/:id.pdf
	eventID := strings.TrimSuffix(c.Param("id"), ".pdf")
	payload, err := h.service.SeatingPDF(c.Request.Context(), departmentID, eventID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "seating-"+eventID+".pdf"))
	c.Data(http.StatusOK, "application/pdf", payload)
}
