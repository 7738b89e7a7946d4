package models

import "time"

// EditState marks the audit state of an assignment row. Rows are never
// physically deleted; editing or deleting an assignment only changes this
// marker on the original row.
type EditState string

const (
	// EditStateActive is the zero value; the row is the current version.
	EditStateActive EditState = ""
	// EditStateSuperseded marks a row replaced by a later bulk edit.
	EditStateSuperseded EditState = "Y"
	// EditStateDeleted marks a soft-deleted row.
	EditStateDeleted EditState = "D"
)

// IsActive reports whether the row is the current, unsuperseded version.
func (s EditState) IsActive() bool { return s == EditStateActive }

// StudentClassAssignment defines one work-assignment instance based on the
// 'assignments' table. Identity, class and GPA fields are snapshots copied at
// creation/edit time; they are not re-validated against the directories
// afterwards.
type StudentClassAssignment struct {
	ID           int64    `json:"id" db:"id"`
	StudentID    int64    `json:"studentId" db:"student_id"`
	ASUrite      string   `json:"asurite" db:"asurite"`
	FirstName    string   `json:"firstName" db:"first_name"`
	LastName     string   `json:"lastName" db:"last_name"`
	Email        string   `json:"email" db:"email"`
	Position     Position `json:"position" db:"position"`
	FultonFellow string   `json:"fultonFellow" db:"fulton_fellow" example:"No"`
	WeeklyHours  int      `json:"weeklyHours" db:"weekly_hours"`

	// Education/GPA snapshot taken from the student directory
	EducationLevel string  `json:"educationLevel" db:"education_level"`
	CumGPA         float64 `json:"cumGpa" db:"cum_gpa"`
	CurGPA         float64 `json:"curGpa" db:"cur_gpa"`

	// Class snapshot taken from the class-schedule directory
	Subject             string     `json:"subject" db:"subject"`
	CatalogNum          string     `json:"catalogNum" db:"catalog_num"`
	ClassSession        string     `json:"classSession" db:"class_session"`
	ClassNum            string     `json:"classNum" db:"class_num"`
	Term                string     `json:"term" db:"term"`
	InstructorID        int64      `json:"instructorId" db:"instructor_id"`
	InstructorFirstName string     `json:"instructorFirstName" db:"instructor_first_name"`
	InstructorLastName  string     `json:"instructorLastName" db:"instructor_last_name"`
	Location            string     `json:"location" db:"location"`
	Campus              string     `json:"campus" db:"campus"`
	AcadCareer          AcadCareer `json:"acadCareer" db:"acad_career"`

	// Derived fields
	Compensation  float64 `json:"compensation" db:"compensation"`
	CostCenterKey string  `json:"costCenterKey" db:"cost_center_key"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	EditState EditState `json:"editState,omitempty" db:"edit_state"`

	// Onboarding workflow flags, mutated independently of the edit-state
	// workflow via the single-record update endpoint
	PositionNumber *string `json:"positionNumber,omitempty" db:"position_number"`
	SSNSent        bool    `json:"ssnSent" db:"ssn_sent"`
	OfferSent      bool    `json:"offerSent" db:"offer_sent"`
	OfferSigned    bool    `json:"offerSigned" db:"offer_signed"`
}
