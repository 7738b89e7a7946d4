package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/hgonen/assignhub/internal/app/controllers"
	"github.com/hgonen/assignhub/internal/app/models/dto"
	"github.com/hgonen/assignhub/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	assignmentController *controllers.AssignmentController,
	directoryController *controllers.DirectoryController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.RefreshToken)
		auth.POST("/logout", authController.Logout)
	}

	// --- Public read routes ---
	// Directory lookups and assignment reads stay open; only mutations
	// require a token.
	students := v1.Group("/students")
	{
		students.GET("/:identifier", directoryController.LookupStudent)
		students.GET("/:identifier/summary", assignmentController.GetStudentSummary)
		students.GET("/:identifier/total-hours", assignmentController.GetTotalHours)
	}

	classes := v1.Group("/classes")
	{
		classes.GET("/:classNum", directoryController.LookupClass)
	}

	assignments := v1.Group("/assignments")
	{
		assignments.GET("", assignmentController.ListAssignments)
		assignments.GET("/template", assignmentController.DownloadTemplate)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")               // Create a new group for all authenticated routes
	authenticated.Use(authMiddleware.JWTAuth()) // Apply JWT Auth middleware to this group
	authenticatedActive := authenticated.Group("")
	authenticatedActive.Use(authMiddleware.ActiveAccountRequired())
	{
		assignmentsProtected := authenticatedActive.Group("/assignments")
		{
			assignmentsProtected.POST("/upload", assignmentController.UploadRoster)
			assignmentsProtected.POST("/preview", assignmentController.PreviewRoster)
			assignmentsProtected.PUT("/bulk-edit", assignmentController.BulkEdit)

			// Onboarding flags live on individual rows and never supersede them
			assignmentsProtected.GET("/:id/onboarding", assignmentController.GetOnboarding)
			assignmentsProtected.PATCH("/:id/onboarding", assignmentController.UpdateOnboarding)
		}
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Data: gin.H{"status": "ok"},
		})
	})

	// Swagger routes are set up in bootstrap.go already
}
