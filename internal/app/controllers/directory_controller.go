package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hgonen/assignhub/internal/app/models/dto"
	"github.com/hgonen/assignhub/internal/app/services"
	"github.com/hgonen/assignhub/internal/middleware"
)

// DirectoryController serves lookups against the imported student and
// class-schedule directories
type DirectoryController struct {
	directoryService *services.DirectoryService
}

// NewDirectoryController creates a new DirectoryController
func NewDirectoryController(directoryService *services.DirectoryService) *DirectoryController {
	return &DirectoryController{
		directoryService: directoryService,
	}
}

// LookupStudent resolves a student identifier
// @Summary Look up a student
// @Description Resolves a numeric student ID (exact match) or an ASUrite alias (case-insensitive match). The two resolution paths are never mixed.
// @Tags students
// @Produce json
// @Param identifier path string true "Student ID or ASUrite alias"
// @Success 200 {object} dto.APIResponse{data=models.StudentLookup} "Student retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{identifier} [get]
func (c *DirectoryController) LookupStudent(ctx *gin.Context) {
	student, err := c.directoryService.LookupStudent(ctx, ctx.Param("identifier"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      student,
		Timestamp: time.Now(),
	})
}

// LookupClass resolves a class number
// @Summary Look up a class
// @Description Retrieves a class-schedule entry by class number.
// @Tags classes
// @Produce json
// @Param classNum path string true "Class number"
// @Success 200 {object} dto.APIResponse{data=models.ClassSchedule} "Class retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Class not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /classes/{classNum} [get]
func (c *DirectoryController) LookupClass(ctx *gin.Context) {
	class, err := c.directoryService.LookupClass(ctx, ctx.Param("classNum"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      class,
		Timestamp: time.Now(),
	})
}
