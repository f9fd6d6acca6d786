package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/exam-planner-api/internal/dto"
	"github.com/noah-isme/exam-planner-api/internal/service"
	appErrors "github.com/noah-isme/exam-planner-api/pkg/errors"
	"github.com/noah-isme/exam-planner-api/pkg/response"
)

// ExamHandler exposes planning and schedule endpoints.
type ExamHandler struct {
	service *service.PlannerService
}

// NewExamHandler creates a new handler.
func NewExamHandler(svc *service.PlannerService) *ExamHandler {
	return &ExamHandler{service: svc}
}

// Plan godoc
// @Summary Plan exams
// @Description Run the planner over the department's courses and persist the schedule
// @Tags Exams
// @Accept json
// @Produce json
// @Param payload body dto.PlanExamsRequest true "Planning constraints"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /exams/plan [post]
// @Security BearerAuth
func (h *ExamHandler) Plan(c *gin.Context) {
	departmentID, err := departmentFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.PlanExamsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid planning payload"))
		return
	}

	res, err := h.service.PlanExams(c.Request.Context(), departmentID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res, nil)
}

// List godoc
// @Summary Exam schedule
// @Description List the department's schedule for one exam type
// @Tags Exams
// @Produce json
// @Param type query string true "Exam type" Enums(midterm, final, makeup)
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /exams [get]
// @Security BearerAuth
func (h *ExamHandler) List(c *gin.Context) {
	departmentID, err := departmentFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	events, err := h.service.Schedule(c.Request.Context(), departmentID, c.Query("type"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, events, nil)
}

// Create godoc
// @Summary Manual exam entry
// @Description Create one exam event outside a planning run
// @Tags Exams
// @Accept json
// @Produce json
// @Param payload body dto.ManualExamRequest true "Exam payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /exams [post]
// @Security BearerAuth
func (h *ExamHandler) Create(c *gin.Context) {
	departmentID, err := departmentFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.ManualExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid exam payload"))
		return
	}

	event, err := h.service.CreateManualExam(c.Request.Context(), departmentID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, event)
}

// Clear godoc
// @Summary Clear schedule
// @Description Remove every event for one exam type; seat assignments cascade
// @Tags Exams
// @Produce json
// @Param type query string true "Exam type" Enums(midterm, final, makeup)
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /exams [delete]
// @Security BearerAuth
func (h *ExamHandler) Clear(c *gin.Context) {
	departmentID, err := departmentFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	removed, err := h.service.ClearSchedule(c.Request.Context(), departmentID, c.Query("type"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"events_removed": removed}, nil)
}
