package models

// StudentLookup defines the read-only student directory record backed by the
// 'students' table. Rows are resolvable either by the numeric student ID or
// by the ASUrite alias (case-insensitive).
type StudentLookup struct {
	StudentID     int64   `json:"studentId" db:"student_id" example:"12345"`
	ASUrite       string  `json:"asurite" db:"asurite" example:"jdoe42"` // Unique alias, matched case-insensitively
	FirstName     string  `json:"firstName" db:"first_name"`
	LastName      string  `json:"lastName" db:"last_name"`
	Email         string  `json:"email" db:"email"`
	Degree        string  `json:"degree" db:"degree" example:"PhD Computer Science"`
	CumulativeGPA float64 `json:"cumulativeGpa" db:"cum_gpa"`
	CurrentGPA    float64 `json:"currentGpa" db:"cur_gpa"`
}
