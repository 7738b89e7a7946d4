package models

// Position defines the kind of work-assignment a student holds
type Position string

const (
	PositionTA     Position = "TA"     // Teaching assistant
	PositionRA     Position = "RA"     // Research assistant
	PositionGrader Position = "GRADER" // Grader
)

// AcadCareer defines the academic career code carried on class schedules
type AcadCareer string

const (
	CareerUndergrad AcadCareer = "UGRD"
	CareerGraduate  AcadCareer = "GRAD"
)

// RoleType defines the user role type
type RoleType string

const (
	RoleStaff RoleType = "STAFF"
	RoleAdmin RoleType = "ADMIN"
)
