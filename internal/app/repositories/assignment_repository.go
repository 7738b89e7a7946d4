package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/hgonen/assignhub/internal/app/models"
	"github.com/hgonen/assignhub/internal/pkg/helpers"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Assignment error types
var (
	ErrAssignmentNotFound = errors.New("assignment not found")
)

// AssignmentRepository handles database operations for work-assignment rows.
// Rows are never deleted at the storage level; supersession and deletion only
// set the edit_state marker.
type AssignmentRepository struct {
	db *pgxpool.Pool
}

// NewAssignmentRepository creates a new assignment repository
func NewAssignmentRepository(db *pgxpool.Pool) *AssignmentRepository {
	return &AssignmentRepository{
		db: db,
	}
}

const assignmentColumns = `id, student_id, asurite, first_name, last_name, email, position, fulton_fellow, weekly_hours, education_level, cum_gpa, cur_gpa, subject, catalog_num, class_session, class_num, term, instructor_id, instructor_first_name, instructor_last_name, location, campus, acad_career, compensation, cost_center_key, created_at, edit_state, position_number, ssn_sent, offer_sent, offer_signed`

const assignmentInsertColumns = `student_id, asurite, first_name, last_name, email, position, fulton_fellow, weekly_hours, education_level, cum_gpa, cur_gpa, subject, catalog_num, class_session, class_num, term, instructor_id, instructor_first_name, instructor_last_name, location, campus, acad_career, compensation, cost_center_key, created_at, edit_state, position_number, ssn_sent, offer_sent, offer_signed`

const assignmentInsertPlaceholders = `$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30`

func assignmentInsertValues(a *models.StudentClassAssignment) []interface{} {
	return []interface{}{
		a.StudentID,
		a.ASUrite,
		a.FirstName,
		a.LastName,
		a.Email,
		string(a.Position),
		a.FultonFellow,
		a.WeeklyHours,
		a.EducationLevel,
		a.CumGPA,
		a.CurGPA,
		a.Subject,
		a.CatalogNum,
		a.ClassSession,
		a.ClassNum,
		a.Term,
		a.InstructorID,
		a.InstructorFirstName,
		a.InstructorLastName,
		a.Location,
		a.Campus,
		string(a.AcadCareer),
		a.Compensation,
		a.CostCenterKey,
		a.CreatedAt,
		helpers.GetContentNullString(string(a.EditState)), // NULL means active
		a.PositionNumber,
		a.SSNSent,
		a.OfferSent,
		a.OfferSigned,
	}
}

func scanAssignment(row pgx.Row) (*models.StudentClassAssignment, error) {
	var a models.StudentClassAssignment
	var editState sql.NullString
	err := row.Scan(
		&a.ID,
		&a.StudentID,
		&a.ASUrite,
		&a.FirstName,
		&a.LastName,
		&a.Email,
		&a.Position,
		&a.FultonFellow,
		&a.WeeklyHours,
		&a.EducationLevel,
		&a.CumGPA,
		&a.CurGPA,
		&a.Subject,
		&a.CatalogNum,
		&a.ClassSession,
		&a.ClassNum,
		&a.Term,
		&a.InstructorID,
		&a.InstructorFirstName,
		&a.InstructorLastName,
		&a.Location,
		&a.Campus,
		&a.AcadCareer,
		&a.Compensation,
		&a.CostCenterKey,
		&a.CreatedAt,
		&editState,
		&a.PositionNumber,
		&a.SSNSent,
		&a.OfferSent,
		&a.OfferSigned,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("error retrieving assignment: %w", err)
	}
	a.EditState = models.EditState(editState.String)
	return &a, nil
}

// GetByID retrieves an assignment by ID regardless of edit state
func (r *AssignmentRepository) GetByID(ctx context.Context, id int64) (*models.StudentClassAssignment, error) {
	query := `
		SELECT ` + assignmentColumns + `
		FROM assignments
		WHERE id = $1
	`
	return scanAssignment(r.db.QueryRow(ctx, query, id))
}

// GetActiveByIDTx retrieves an active assignment by ID within a transaction,
// locking the row for the duration of the batch.
func (r *AssignmentRepository) GetActiveByIDTx(ctx context.Context, tx pgx.Tx, id int64) (*models.StudentClassAssignment, error) {
	query := `
		SELECT ` + assignmentColumns + `
		FROM assignments
		WHERE id = $1 AND edit_state IS NULL
		FOR UPDATE
	`
	return scanAssignment(tx.QueryRow(ctx, query, id))
}

// InsertTx inserts a single assignment within a transaction and fills in the
// generated ID
func (r *AssignmentRepository) InsertTx(ctx context.Context, tx pgx.Tx, a *models.StudentClassAssignment) error {
	query := `
		INSERT INTO assignments (` + assignmentInsertColumns + `)
		VALUES (` + assignmentInsertPlaceholders + `)
		RETURNING id
	`
	if err := tx.QueryRow(ctx, query, assignmentInsertValues(a)...).Scan(&a.ID); err != nil {
		return fmt.Errorf("error inserting assignment: %w", err)
	}
	return nil
}

// InsertBatchTx stages all rows in a single pgx batch within the given
// transaction. Either every row is inserted or none is.
func (r *AssignmentRepository) InsertBatchTx(ctx context.Context, tx pgx.Tx, assignments []*models.StudentClassAssignment) error {
	query := `
		INSERT INTO assignments (` + assignmentInsertColumns + `)
		VALUES (` + assignmentInsertPlaceholders + `)
	`

	batch := &pgx.Batch{}
	for _, a := range assignments {
		batch.Queue(query, assignmentInsertValues(a)...)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for range assignments {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("error inserting assignment batch: %w", err)
		}
	}

	return nil
}

// SetEditStateTx sets the edit-state marker on a row within a transaction.
// Returns false when the row does not exist.
func (r *AssignmentRepository) SetEditStateTx(ctx context.Context, tx pgx.Tx, id int64, state models.EditState) (bool, error) {
	query := `
		UPDATE assignments
		SET edit_state = $1
		WHERE id = $2
	`
	cmdTag, err := tx.Exec(ctx, query, helpers.GetContentNullString(string(state)), id)
	if err != nil {
		return false, fmt.Errorf("error setting edit state: %w", err)
	}
	return cmdTag.RowsAffected() > 0, nil
}

// ListActive retrieves a page of active assignments plus the total count of
// active rows
func (r *AssignmentRepository) ListActive(ctx context.Context, offset uint64, limit int) ([]*models.StudentClassAssignment, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM assignments WHERE edit_state IS NULL`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting assignments: %w", err)
	}

	query := `
		SELECT ` + assignmentColumns + `
		FROM assignments
		WHERE edit_state IS NULL
		ORDER BY id
		OFFSET $1 LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	assignments, err := collectAssignments(rows)
	if err != nil {
		return nil, 0, err
	}
	return assignments, total, nil
}

// ListActiveByStudent retrieves all active assignments for a student, most
// recent first
func (r *AssignmentRepository) ListActiveByStudent(ctx context.Context, studentID int64) ([]*models.StudentClassAssignment, error) {
	query := `
		SELECT ` + assignmentColumns + `
		FROM assignments
		WHERE student_id = $1 AND edit_state IS NULL
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.Query(ctx, query, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAssignments(rows)
}

// TotalWeeklyHours sums weekly hours over all of a student's rows,
// superseded and deleted included. The summary endpoint counts active rows
// only.
func (r *AssignmentRepository) TotalWeeklyHours(ctx context.Context, studentID int64) (int, error) {
	var total int
	query := `SELECT COALESCE(SUM(weekly_hours), 0) FROM assignments WHERE student_id = $1`
	if err := r.db.QueryRow(ctx, query, studentID).Scan(&total); err != nil {
		return 0, fmt.Errorf("error summing weekly hours: %w", err)
	}
	return total, nil
}

// UpdateOnboarding updates the onboarding workflow flags that were provided;
// nil fields are left untouched. Returns false when the row does not exist.
func (r *AssignmentRepository) UpdateOnboarding(ctx context.Context, id int64, positionNumber *string, ssnSent, offerSent, offerSigned *bool) (bool, error) {
	var sets []string
	var args []interface{}

	addSet := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if positionNumber != nil {
		addSet("position_number", *positionNumber)
	}
	if ssnSent != nil {
		addSet("ssn_sent", *ssnSent)
	}
	if offerSent != nil {
		addSet("offer_sent", *offerSent)
	}
	if offerSigned != nil {
		addSet("offer_signed", *offerSigned)
	}

	if len(sets) == 0 {
		// Nothing to update; still report whether the row exists
		var exists bool
		err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM assignments WHERE id = $1)`, id).Scan(&exists)
		if err != nil {
			return false, fmt.Errorf("error checking assignment existence: %w", err)
		}
		return exists, nil
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE assignments SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args))

	cmdTag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("error updating onboarding flags: %w", err)
	}
	return cmdTag.RowsAffected() > 0, nil
}

func collectAssignments(rows pgx.Rows) ([]*models.StudentClassAssignment, error) {
	var assignments []*models.StudentClassAssignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return assignments, nil
}
