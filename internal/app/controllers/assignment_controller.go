package controllers

import (
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hgonen/assignhub/internal/app/models/dto"
	"github.com/hgonen/assignhub/internal/app/services"
	"github.com/hgonen/assignhub/internal/middleware"
	"github.com/hgonen/assignhub/internal/pkg/helpers"
)

// maxUploadSize caps roster uploads at 5 MB
const maxUploadSize = 5 << 20

// AssignmentController handles work-assignment operations
type AssignmentController struct {
	assignmentService *services.AssignmentService
}

// NewAssignmentController creates a new AssignmentController
func NewAssignmentController(assignmentService *services.AssignmentService) *AssignmentController {
	return &AssignmentController{
		assignmentService: assignmentService,
	}
}

// openUpload extracts the uploaded CSV file from the multipart form
func openUpload(ctx *gin.Context) (multipart.File, bool) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeMalformedFile, "Missing upload file")
		errorDetail = errorDetail.WithDetails("Expected a multipart form field named 'file'")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return nil, false
	}
	if fileHeader.Size > maxUploadSize {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeMalformedFile, "Upload file too large")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return nil, false
	}

	file, err := fileHeader.Open()
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeMalformedFile, "Could not read upload file")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return nil, false
	}
	return file, true
}

// UploadRoster handles a bulk CSV upload
// @Summary Upload a work-assignment roster
// @Description Parses a CSV roster, resolves every row against the student and class directories, derives compensation and cost-center keys, and inserts the whole batch atomically. Any invalid row aborts the entire upload.
// @Tags assignments
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Roster CSV file"
// @Success 201 {object} dto.APIResponse{data=dto.UploadResponse} "Roster uploaded successfully"
// @Failure 400 {object} dto.ErrorResponse "Malformed file or unresolvable row"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 422 {object} dto.ErrorResponse "Payroll derivation failed"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /assignments/upload [post]
func (c *AssignmentController) UploadRoster(ctx *gin.Context) {
	file, ok := openUpload(ctx)
	if !ok {
		return
	}
	defer file.Close()

	inserted, err := c.assignmentService.UploadRoster(ctx, file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data: dto.UploadResponse{
			Message:  strconv.Itoa(inserted) + " assignments uploaded successfully.",
			Inserted: inserted,
		},
		Timestamp: time.Now(),
	})
}

// PreviewRoster resolves a roster without persisting it
// @Summary Preview a work-assignment roster
// @Description Parses and resolves a CSV roster exactly like an upload but persists nothing, returning the snapshot each row would produce.
// @Tags assignments
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Roster CSV file"
// @Success 200 {object} dto.APIResponse{data=[]dto.PreviewRow} "Resolved preview rows"
// @Failure 400 {object} dto.ErrorResponse "Malformed file or unresolvable row"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /assignments/preview [post]
func (c *AssignmentController) PreviewRoster(ctx *gin.Context) {
	file, ok := openUpload(ctx)
	if !ok {
		return
	}
	defer file.Close()

	preview, err := c.assignmentService.PreviewRoster(ctx, file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      preview,
		Timestamp: time.Now(),
	})
}

// DownloadTemplate serves the blank roster form
// @Summary Download the blank roster template
// @Description Returns the CSV header row instructors fill in for a bulk upload.
// @Tags assignments
// @Produce text/csv
// @Success 200 {string} string "CSV template"
// @Router /assignments/template [get]
func (c *AssignmentController) DownloadTemplate(ctx *gin.Context) {
	ctx.Header("Content-Disposition", `attachment; filename="assignment_template.csv"`)
	ctx.Data(http.StatusOK, "text/csv", c.assignmentService.RosterTemplate())
}

// ListAssignments retrieves a page of active assignments
// @Summary List active assignments
// @Description Retrieves a paginated list of active assignment rows; superseded and deleted rows are excluded.
// @Tags assignments
// @Produce json
// @Param page query int false "Page number (1-based)" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.AssignmentListResponse} "Assignments retrieved successfully"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /assignments [get]
func (c *AssignmentController) ListAssignments(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	list, err := c.assignmentService.ListActive(ctx, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      list,
		Timestamp: time.Now(),
	})
}

// BulkEdit applies a batch of edit and delete intents
// @Summary Bulk edit a student's assignments
// @Description Applies edits and deletes for one student in a single transaction. Edited rows are superseded and replaced with recomputed payroll fields; a class change is re-resolved within the original row's term and a failed resolution rolls back the whole batch.
// @Tags assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BulkEditRequest true "Edit and delete intents"
// @Success 200 {object} dto.APIResponse{data=dto.BulkEditResponse} "Batch applied"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Student or class not found"
// @Failure 422 {object} dto.ErrorResponse "Payroll derivation failed"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /assignments/bulk-edit [put]
func (c *AssignmentController) BulkEdit(ctx *gin.Context) {
	var req dto.BulkEditRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid bulk-edit request")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	resp, err := c.assignmentService.BulkEdit(ctx, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      resp,
		Timestamp: time.Now(),
	})
}

// GetOnboarding retrieves the onboarding flags of an assignment
// @Summary Get onboarding flags
// @Description Retrieves the onboarding workflow flags of a single assignment row.
// @Tags onboarding
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Success 200 {object} dto.APIResponse{data=dto.OnboardingResponse} "Onboarding flags retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid assignment ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /assignments/{id}/onboarding [get]
func (c *AssignmentController) GetOnboarding(ctx *gin.Context) {
	id, ok := parseAssignmentID(ctx)
	if !ok {
		return
	}

	resp, err := c.assignmentService.GetOnboarding(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      resp,
		Timestamp: time.Now(),
	})
}

// UpdateOnboarding partially updates the onboarding flags of an assignment
// @Summary Update onboarding flags
// @Description Updates only the onboarding workflow fields that are present in the request; omitted fields are left untouched. Onboarding updates never supersede the row.
// @Tags onboarding
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Param request body dto.OnboardingUpdateRequest true "Flags to update"
// @Success 200 {object} dto.APIResponse{data=dto.OnboardingResponse} "Onboarding flags updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /assignments/{id}/onboarding [patch]
func (c *AssignmentController) UpdateOnboarding(ctx *gin.Context) {
	id, ok := parseAssignmentID(ctx)
	if !ok {
		return
	}

	var req dto.OnboardingUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid onboarding data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.assignmentService.UpdateOnboarding(ctx, id, req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp, err := c.assignmentService.GetOnboarding(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      resp,
		Timestamp: time.Now(),
	})
}

// GetStudentSummary aggregates a student's active assignments
// @Summary Get a student's assignment summary
// @Description Aggregates a student's active assignments into per-session hour buckets and lists each row. The identifier is either a numeric student ID or an ASUrite alias.
// @Tags students
// @Produce json
// @Param identifier path string true "Student ID or ASUrite alias"
// @Success 200 {object} dto.APIResponse{data=dto.StudentSummaryResponse} "Summary retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{identifier}/summary [get]
func (c *AssignmentController) GetStudentSummary(ctx *gin.Context) {
	summary, err := c.assignmentService.StudentSummary(ctx, ctx.Param("identifier"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      summary,
		Timestamp: time.Now(),
	})
}

// GetTotalHours sums weekly hours across all of a student's rows
// @Summary Get a student's total weekly hours
// @Description Sums weekly hours over every assignment row of the student, including superseded and deleted rows.
// @Tags students
// @Produce json
// @Param identifier path string true "Student ID or ASUrite alias"
// @Success 200 {object} dto.APIResponse{data=dto.TotalHoursResponse} "Total retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{identifier}/total-hours [get]
func (c *AssignmentController) GetTotalHours(ctx *gin.Context) {
	total, err := c.assignmentService.TotalHours(ctx, ctx.Param("identifier"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      total,
		Timestamp: time.Now(),
	})
}

func parseAssignmentID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid assignment ID")
		errorDetail = errorDetail.WithDetails("Assignment ID must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}
