package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/exam-planner-api/internal/service"
	"github.com/noah-isme/exam-planner-api/pkg/response"
)

// CourseHandler exposes course and student lookup endpoints.
type CourseHandler struct {
	service *service.CourseService
}

// NewCourseHandler creates a new handler.
func NewCourseHandler(svc *service.CourseService) *CourseHandler {
	return &CourseHandler{service: svc}
}

// List godoc
// @Summary List courses
// @Description List the department's courses with enrollment counts
// @Tags Courses
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /courses [get]
// @Security BearerAuth
func (h *CourseHandler) List(c *gin.Context) {
	departmentID, err := departmentFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	courses, err := h.service.List(c.Request.Context(), departmentID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, courses, nil)
}

// GetStudent godoc
// @Summary Look up student
// @Description Find a student by number together with their courses
// @Tags Courses
// @Produce json
// @Param number path string true "Student number"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{number} [get]
// @Security BearerAuth
func (h *CourseHandler) GetStudent(c *gin.Context) {
	departmentID, err := departmentFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	student, err := h.service.FindStudent(c.Request.Context(), departmentID, c.Param("number"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, student, nil)
}
