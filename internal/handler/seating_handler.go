package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/exam-planner-api/internal/service"
	"github.com/noah-isme/exam-planner-api/pkg/response"
)

// SeatingHandler exposes seat assignment endpoints.
type SeatingHandler struct {
	seating *service.SeatingService
	exports *service.ExportService
}

// NewSeatingHandler creates a new handler.
func NewSeatingHandler(seating *service.SeatingService, exports *service.ExportService) *SeatingHandler {
	return &SeatingHandler{seating: seating, exports: exports}
}

// Assign godoc
// @Summary Assign seats
// @Description Compute and persist the seat layout for one exam event
// @Tags Seating
// @Produce json
// @Param id path string true "Exam event ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /exams/{id}/seating [post]
// @Security BearerAuth
func (h *SeatingHandler) Assign(c *gin.Context) {
	departmentID, err := departmentFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	eventID := c.Param("id")
	plan, err := h.seating.Assign(c.Request.Context(), departmentID, eventID)
	if err != nil {
		response.Error(c, err)
		return
	}

	if h.exports != nil && len(plan.Seats) > 0 {
		h.exports.EnqueueSeatingRender(departmentID, eventID)
	}

	response.JSON(c, http.StatusOK, plan, nil)
}

// Get godoc
// @Summary Seating plan
// @Description Fetch the stored seat assignments for one exam event
// @Tags Seating
// @Produce json
// @Param id path string true "Exam event ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /exams/{id}/seating [get]
// @Security BearerAuth
func (h *SeatingHandler) Get(c *gin.Context) {
	departmentID, err := departmentFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	plan, err := h.seating.Plan(c.Request.Context(), departmentID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, plan, nil)
}
