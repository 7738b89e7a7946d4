package dto

import "github.com/hgonen/assignhub/internal/app/models"

// UploadResponse summarizes a successful bulk upload
type UploadResponse struct {
	Message  string `json:"message" example:"12 assignments uploaded successfully."`
	Inserted int    `json:"inserted" example:"12"`
}

// PreviewRow is one resolved upload row returned by the preview endpoint.
// It mirrors the snapshot that an actual upload would persist, minus the
// derived payroll fields.
type PreviewRow struct {
	Position            string  `json:"position"`
	FultonFellow        string  `json:"fultonFellow"`
	WeeklyHours         int     `json:"weeklyHours"`
	StudentID           int64   `json:"studentId"`
	ASUrite             string  `json:"asurite"`
	ClassNum            string  `json:"classNum"`
	FirstName           string  `json:"firstName"`
	LastName            string  `json:"lastName"`
	Email               string  `json:"email"`
	Degree              string  `json:"degree"`
	CumGPA              float64 `json:"cumGpa"`
	CurGPA              float64 `json:"curGpa"`
	Subject             string  `json:"subject"`
	CatalogNum          string  `json:"catalogNum"`
	Session             string  `json:"session"`
	InstructorID        int64   `json:"instructorId"`
	InstructorFirstName string  `json:"instructorFirstName"`
	InstructorLastName  string  `json:"instructorLastName"`
}

// BulkEditRequest carries a batch of edit and delete intents for one student
type BulkEditRequest struct {
	StudentID string          `json:"studentId" binding:"required"` // numeric ID or alias
	Updates   []AssignmentEdit `json:"updates"`
	Deletes   []int64          `json:"deletes"`
}

// AssignmentEdit is one row-level edit intent. ClassNum is optional; when it
// differs from the original row the class is re-resolved within the original
// row's term.
type AssignmentEdit struct {
	ID          int64  `json:"id" binding:"required"`
	Position    string `json:"position" binding:"required"`
	WeeklyHours int    `json:"weeklyHours" binding:"required"`
	ClassNum    string `json:"classNum"`
}

// UpdatedAssignment is one replacement row in the bulk-edit response,
// annotated with the editable fields whose values changed.
type UpdatedAssignment struct {
	models.StudentClassAssignment
	ChangedFields []string `json:"changed_fields"`
}

// BulkEditResponse reports the outcome of a bulk-edit batch
type BulkEditResponse struct {
	Updated []UpdatedAssignment `json:"updated"`
	Deleted []int64             `json:"deleted"`
	Status  string              `json:"status" example:"success"`
}

// OnboardingUpdateRequest carries a partial update of the onboarding
// workflow flags; nil fields are left untouched
type OnboardingUpdateRequest struct {
	PositionNumber *string `json:"positionNumber"`
	SSNSent        *bool   `json:"ssnSent"`
	OfferSent      *bool   `json:"offerSent"`
	OfferSigned    *bool   `json:"offerSigned"`
}

// OnboardingResponse is the onboarding-flag view of a single assignment
type OnboardingResponse struct {
	ID             int64   `json:"id"`
	PositionNumber *string `json:"positionNumber"`
	SSNSent        bool    `json:"ssnSent"`
	OfferSent      bool    `json:"offerSent"`
	OfferSigned    bool    `json:"offerSigned"`
}

// AssignmentListResponse is a paginated page of active assignments
type AssignmentListResponse struct {
	Assignments []*models.StudentClassAssignment `json:"assignments"`
	Pagination  PaginationInfo                   `json:"pagination"`
}

// SummaryAssignment is one row in the per-student summary
type SummaryAssignment struct {
	ID             int64  `json:"id"`
	Position       string `json:"position"`
	WeeklyHours    int    `json:"weeklyHours"`
	ClassSession   string `json:"classSession"`
	Subject        string `json:"subject"`
	CatalogNum     string `json:"catalogNum"`
	ClassNum       string `json:"classNum"`
	InstructorName string `json:"instructorName"`
	AcadCareer     string `json:"acadCareer"`
}

// StudentSummaryResponse aggregates a student's active assignments into the
// three session buckets and exposes the most recent assignment's position,
// fellowship flag and education level as representative values.
type StudentSummaryResponse struct {
	StudentName    string              `json:"studentName"`
	ASUrite        string              `json:"asurite"`
	StudentID      int64               `json:"studentId"`
	Position       *string             `json:"position"`
	FultonFellow   *string             `json:"fultonFellow"`
	EducationLevel *string             `json:"educationLevel"`
	SessionA       int                 `json:"sessionA"`
	SessionB       int                 `json:"sessionB"`
	SessionC       int                 `json:"sessionC"`
	Assignments    []SummaryAssignment `json:"assignments"`
}

// TotalHoursResponse reports the weekly-hours total across all of a
// student's rows
type TotalHoursResponse struct {
	StudentID  int64 `json:"studentId"`
	TotalHours int   `json:"totalHours"`
}
