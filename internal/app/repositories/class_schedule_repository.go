package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/hgonen/assignhub/internal/app/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Class schedule error types
var (
	ErrClassNotFound = errors.New("class not found")
)

// ClassScheduleRepository handles read-only queries against the
// class-schedule directory
type ClassScheduleRepository struct {
	db *pgxpool.Pool
}

// NewClassScheduleRepository creates a new class schedule repository
func NewClassScheduleRepository(db *pgxpool.Pool) *ClassScheduleRepository {
	return &ClassScheduleRepository{
		db: db,
	}
}

const classColumns = `class_num, subject, catalog_num, session, term, location, campus, acad_career, instructor_id, instructor_first_name, instructor_last_name`

func scanClass(row pgx.Row) (*models.ClassSchedule, error) {
	var c models.ClassSchedule
	err := row.Scan(
		&c.ClassNum,
		&c.Subject,
		&c.CatalogNum,
		&c.Session,
		&c.Term,
		&c.Location,
		&c.Campus,
		&c.AcadCareer,
		&c.InstructorID,
		&c.InstructorFirstName,
		&c.InstructorLastName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrClassNotFound
		}
		return nil, fmt.Errorf("error retrieving class: %w", err)
	}
	return &c, nil
}

// GetByClassNum retrieves a class by class number
func (r *ClassScheduleRepository) GetByClassNum(ctx context.Context, classNum string) (*models.ClassSchedule, error) {
	query := `
		SELECT ` + classColumns + `
		FROM class_schedule
		WHERE class_num = $1
	`
	return scanClass(r.db.QueryRow(ctx, query, classNum))
}

// GetByClassNumAndTerm retrieves a class by class number scoped to a term.
// Used by bulk edits, which must stay within the original row's term.
func (r *ClassScheduleRepository) GetByClassNumAndTerm(ctx context.Context, classNum, term string) (*models.ClassSchedule, error) {
	query := `
		SELECT ` + classColumns + `
		FROM class_schedule
		WHERE class_num = $1 AND term = $2
	`
	return scanClass(r.db.QueryRow(ctx, query, classNum, term))
}
