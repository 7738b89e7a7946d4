package models

// ClassSchedule defines a read-only class-schedule directory record keyed by
// class number. Session is a single-letter sub-term code (A, B or C).
type ClassSchedule struct {
	ClassNum            string     `json:"classNum" db:"class_num" example:"CS101"`
	Subject             string     `json:"subject" db:"subject" example:"CSE"`
	CatalogNum          string     `json:"catalogNum" db:"catalog_num" example:"110"`
	Session             string     `json:"session" db:"session" example:"C"`
	Term                string     `json:"term" db:"term" example:"2254"`
	Location            string     `json:"location" db:"location" example:"TEMPE"`
	Campus              string     `json:"campus" db:"campus" example:"MAIN"`
	AcadCareer          AcadCareer `json:"acadCareer" db:"acad_career" example:"UGRD"`
	InstructorID        int64      `json:"instructorId" db:"instructor_id"`
	InstructorFirstName string     `json:"instructorFirstName" db:"instructor_first_name"`
	InstructorLastName  string     `json:"instructorLastName" db:"instructor_last_name"`
}
