package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/hgonen/assignhub/internal/app/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Student error types
var (
	ErrStudentNotFound = errors.New("student not found")
)

// StudentRepository handles read-only queries against the student directory
type StudentRepository struct {
	db *pgxpool.Pool
}

// NewStudentRepository creates a new student repository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
	}
}

const studentColumns = `student_id, asurite, first_name, last_name, email, degree, cum_gpa, cur_gpa`

func scanStudent(row pgx.Row) (*models.StudentLookup, error) {
	var s models.StudentLookup
	err := row.Scan(
		&s.StudentID,
		&s.ASUrite,
		&s.FirstName,
		&s.LastName,
		&s.Email,
		&s.Degree,
		&s.CumulativeGPA,
		&s.CurrentGPA,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}
	return &s, nil
}

// GetByID retrieves a student by the numeric student ID
func (r *StudentRepository) GetByID(ctx context.Context, studentID int64) (*models.StudentLookup, error) {
	query := `
		SELECT ` + studentColumns + `
		FROM students
		WHERE student_id = $1
	`
	return scanStudent(r.db.QueryRow(ctx, query, studentID))
}

// GetByAlias retrieves a student by ASUrite alias, case-insensitively
func (r *StudentRepository) GetByAlias(ctx context.Context, alias string) (*models.StudentLookup, error) {
	query := `
		SELECT ` + studentColumns + `
		FROM students
		WHERE LOWER(asurite) = LOWER($1)
	`
	return scanStudent(r.db.QueryRow(ctx, query, alias))
}
