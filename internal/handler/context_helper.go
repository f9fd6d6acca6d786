package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/exam-planner-api/internal/middleware"
	"github.com/noah-isme/exam-planner-api/internal/models"
	appErrors "github.com/noah-isme/exam-planner-api/pkg/errors"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// departmentFromContext resolves the department the request operates
// on. Coordinators are bound to their own department; admins pick one
// with the departmentId query parameter.
func departmentFromContext(c *gin.Context) (string, error) {
	claims := claimsFromContext(c)
	if claims == nil {
		return "", appErrors.ErrUnauthorized
	}
	if claims.DepartmentID != nil && *claims.DepartmentID != "" {
		return *claims.DepartmentID, nil
	}
	if dept := c.Query("departmentId"); dept != "" {
		return dept, nil
	}
	return "", appErrors.Clone(appErrors.ErrValidation, "departmentId is required")
}
