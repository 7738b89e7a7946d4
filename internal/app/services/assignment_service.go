package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/hgonen/assignhub/internal/app/models"
	"github.com/hgonen/assignhub/internal/app/models/dto"
	"github.com/hgonen/assignhub/internal/app/repositories"
	"github.com/hgonen/assignhub/internal/db"
	"github.com/hgonen/assignhub/internal/pkg/apperrors"
	"github.com/hgonen/assignhub/internal/pkg/helpers"
	"github.com/hgonen/assignhub/internal/pkg/payroll"
	"github.com/hgonen/assignhub/internal/pkg/roster"
)

// editableFields are the assignment fields a bulk edit may change; the
// changed-field diff in the response is computed over exactly this set.
var editableFields = []string{"Position", "WeeklyHours", "ClassNum"}

// StudentDirectory is the read-only student lookup collaborator
type StudentDirectory interface {
	GetByID(ctx context.Context, studentID int64) (*models.StudentLookup, error)
	GetByAlias(ctx context.Context, alias string) (*models.StudentLookup, error)
}

// ClassDirectory is the read-only class-schedule lookup collaborator
type ClassDirectory interface {
	GetByClassNum(ctx context.Context, classNum string) (*models.ClassSchedule, error)
	GetByClassNumAndTerm(ctx context.Context, classNum, term string) (*models.ClassSchedule, error)
}

// AssignmentStore is the persistence boundary for assignment rows
type AssignmentStore interface {
	GetByID(ctx context.Context, id int64) (*models.StudentClassAssignment, error)
	GetActiveByIDTx(ctx context.Context, tx pgx.Tx, id int64) (*models.StudentClassAssignment, error)
	InsertTx(ctx context.Context, tx pgx.Tx, a *models.StudentClassAssignment) error
	InsertBatchTx(ctx context.Context, tx pgx.Tx, assignments []*models.StudentClassAssignment) error
	SetEditStateTx(ctx context.Context, tx pgx.Tx, id int64, state models.EditState) (bool, error)
	ListActive(ctx context.Context, offset uint64, limit int) ([]*models.StudentClassAssignment, int64, error)
	ListActiveByStudent(ctx context.Context, studentID int64) ([]*models.StudentClassAssignment, error)
	TotalWeeklyHours(ctx context.Context, studentID int64) (int, error)
	UpdateOnboarding(ctx context.Context, id int64, positionNumber *string, ssnSent, offerSent, offerSigned *bool) (bool, error)
}

// TransactionRunner runs a function within a database transaction
type TransactionRunner interface {
	WithTransaction(ctx context.Context, fn db.TransactionFn) error
}

// AssignmentService is the reconciliation engine: it turns CSV uploads and
// bulk-edit batches into consistent sets of storage operations while
// preserving the audit history, and serves the thin read operations.
type AssignmentService struct {
	students    StudentDirectory
	classes     ClassDirectory
	assignments AssignmentStore
	tx          TransactionRunner
	rates       payroll.RateTable
	logger      zerolog.Logger
}

// NewAssignmentService creates a new assignment service
func NewAssignmentService(
	students StudentDirectory,
	classes ClassDirectory,
	assignments AssignmentStore,
	tx TransactionRunner,
	rates payroll.RateTable,
	logger zerolog.Logger,
) *AssignmentService {
	return &AssignmentService{
		students:    students,
		classes:     classes,
		assignments: assignments,
		tx:          tx,
		rates:       rates,
		logger:      logger,
	}
}

// isAllDigits discriminates numeric student IDs from ASUrite aliases
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// resolveStudent resolves an identifier that is either a numeric student ID
// (exact match) or an ASUrite alias (case-insensitive match). The two paths
// are never attempted together.
func (s *AssignmentService) resolveStudent(ctx context.Context, identifier string) (*models.StudentLookup, error) {
	identifier = strings.TrimSpace(identifier)
	if isAllDigits(identifier) {
		id, err := strconv.ParseInt(identifier, 10, 64)
		if err != nil {
			return nil, apperrors.NewValidationError(fmt.Sprintf("invalid student ID %q", identifier))
		}
		return s.students.GetByID(ctx, id)
	}
	return s.students.GetByAlias(ctx, identifier)
}

// resolveRow resolves one upload row against both directories. Errors carry
// the 1-based row index (header row = 1).
func (s *AssignmentService) resolveRow(ctx context.Context, row roster.Row) (*models.StudentLookup, *models.ClassSchedule, error) {
	student, err := s.resolveStudent(ctx, row.StudentRef)
	if err != nil {
		if errors.Is(err, repositories.ErrStudentNotFound) {
			return nil, nil, apperrors.NewCustomError(apperrors.ErrValidationFailed,
				fmt.Sprintf("student %q not found (row %d)", row.StudentRef, row.Index))
		}
		return nil, nil, err
	}

	class, err := s.classes.GetByClassNum(ctx, row.ClassNum)
	if err != nil {
		if errors.Is(err, repositories.ErrClassNotFound) {
			return nil, nil, apperrors.NewCustomError(apperrors.ErrValidationFailed,
				fmt.Sprintf("ClassNum %q not found (row %d)", row.ClassNum, row.Index))
		}
		return nil, nil, err
	}

	return student, class, nil
}

// buildAssignment assembles a full assignment record from a resolved upload
// row, deriving compensation and the cost-center key. Snapshot fields are
// copied now and never re-validated against the directories afterwards.
func (s *AssignmentService) buildAssignment(row roster.Row, student *models.StudentLookup, class *models.ClassSchedule, now time.Time) (*models.StudentClassAssignment, error) {
	position := models.Position(row.Position)

	compensation, err := s.rates.Calculate(payroll.CompensationInput{
		WeeklyHours:    row.WeeklyHours,
		Position:       position,
		EducationLevel: student.Degree,
		FultonFellow:   row.FultonFellow,
		ClassSession:   class.Session,
	})
	if err != nil {
		return nil, apperrors.NewDerivationError(err,
			fmt.Sprintf("cannot derive compensation (row %d): %v", row.Index, err))
	}

	costCenterKey, err := payroll.CostCenterKey(payroll.CostCenterInput{
		Position:   position,
		Location:   class.Location,
		Campus:     class.Campus,
		AcadCareer: class.AcadCareer,
	})
	if err != nil {
		return nil, apperrors.NewDerivationError(err,
			fmt.Sprintf("cannot derive cost center (row %d): %v", row.Index, err))
	}

	return &models.StudentClassAssignment{
		StudentID:           student.StudentID,
		ASUrite:             student.ASUrite,
		FirstName:           student.FirstName,
		LastName:            student.LastName,
		Email:               student.Email,
		Position:            position,
		FultonFellow:        row.FultonFellow,
		WeeklyHours:         row.WeeklyHours,
		EducationLevel:      student.Degree,
		CumGPA:              student.CumulativeGPA,
		CurGPA:              student.CurrentGPA,
		Subject:             class.Subject,
		CatalogNum:          class.CatalogNum,
		ClassSession:        class.Session,
		ClassNum:            row.ClassNum,
		Term:                class.Term,
		InstructorID:        class.InstructorID,
		InstructorFirstName: class.InstructorFirstName,
		InstructorLastName:  class.InstructorLastName,
		Location:            class.Location,
		Campus:              class.Campus,
		AcadCareer:          class.AcadCareer,
		Compensation:        compensation,
		CostCenterKey:       costCenterKey,
		CreatedAt:           now,
		EditState:           models.EditStateActive,
	}, nil
}

// parseRoster parses the CSV stream, translating parse failures into
// row-indexed validation errors.
func parseRoster(r io.Reader) ([]roster.Row, error) {
	rows, err := roster.Parse(r)
	if err != nil {
		var rowErr *roster.RowError
		if errors.As(err, &rowErr) {
			return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, rowErr.Error())
		}
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("could not read CSV: %v", err))
	}
	return rows, nil
}

// RosterTemplate returns the blank CSV form instructors fill in
func (s *AssignmentService) RosterTemplate() []byte {
	return roster.Template()
}

// PreviewRoster parses and resolves an upload file without persisting
// anything, returning the snapshot each row would produce.
func (s *AssignmentService) PreviewRoster(ctx context.Context, r io.Reader) ([]dto.PreviewRow, error) {
	rows, err := parseRoster(r)
	if err != nil {
		return nil, err
	}

	preview := make([]dto.PreviewRow, 0, len(rows))
	for _, row := range rows {
		student, class, err := s.resolveRow(ctx, row)
		if err != nil {
			return nil, err
		}
		preview = append(preview, dto.PreviewRow{
			Position:            row.Position,
			FultonFellow:        row.FultonFellow,
			WeeklyHours:         row.WeeklyHours,
			StudentID:           student.StudentID,
			ASUrite:             student.ASUrite,
			ClassNum:            class.ClassNum,
			FirstName:           student.FirstName,
			LastName:            student.LastName,
			Email:               student.Email,
			Degree:              student.Degree,
			CumGPA:              student.CumulativeGPA,
			CurGPA:              student.CurrentGPA,
			Subject:             class.Subject,
			CatalogNum:          class.CatalogNum,
			Session:             class.Session,
			InstructorID:        class.InstructorID,
			InstructorFirstName: class.InstructorFirstName,
			InstructorLastName:  class.InstructorLastName,
		})
	}

	return preview, nil
}

// UploadRoster parses, resolves and derives every row, then inserts the
// whole batch in one transaction. Any invalid row aborts the entire upload;
// there is no partial commit.
func (s *AssignmentService) UploadRoster(ctx context.Context, r io.Reader) (int, error) {
	rows, err := parseRoster(r)
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	records := make([]*models.StudentClassAssignment, 0, len(rows))
	for _, row := range rows {
		student, class, err := s.resolveRow(ctx, row)
		if err != nil {
			return 0, err
		}
		record, err := s.buildAssignment(row, student, class, now)
		if err != nil {
			return 0, err
		}
		records = append(records, record)
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return s.assignments.InsertBatchTx(ctx, tx, records)
	})
	if err != nil {
		return 0, fmt.Errorf("error inserting roster batch: %w", err)
	}

	s.logger.Info().Int("rows", len(records)).Msg("Roster uploaded")
	return len(records), nil
}

// changedFields returns the editable-field names whose values differ between
// a replacement row and its predecessor.
func changedFields(replacement, original *models.StudentClassAssignment) []string {
	changed := make([]string, 0, len(editableFields))
	for _, field := range editableFields {
		switch field {
		case "Position":
			if replacement.Position != original.Position {
				changed = append(changed, field)
			}
		case "WeeklyHours":
			if replacement.WeeklyHours != original.WeeklyHours {
				changed = append(changed, field)
			}
		case "ClassNum":
			if replacement.ClassNum != original.ClassNum {
				changed = append(changed, field)
			}
		}
	}
	return changed
}

// buildReplacement assembles the superseding row for a bulk edit: the edit's
// new values merged over the original row's unchanged values, with identity,
// GPA snapshot and onboarding flags carried forward and a fresh timestamp.
func (s *AssignmentService) buildReplacement(orig *models.StudentClassAssignment, edit dto.AssignmentEdit, class *models.ClassSchedule, now time.Time) (*models.StudentClassAssignment, error) {
	replacement := *orig
	replacement.ID = 0
	replacement.Position = models.Position(strings.ToUpper(strings.TrimSpace(edit.Position)))
	replacement.WeeklyHours = edit.WeeklyHours
	replacement.CreatedAt = now
	replacement.EditState = models.EditStateActive

	if edit.ClassNum != "" {
		replacement.ClassNum = edit.ClassNum
	}
	if class != nil {
		replacement.Subject = class.Subject
		replacement.CatalogNum = class.CatalogNum
		replacement.ClassSession = class.Session
		replacement.InstructorID = class.InstructorID
		replacement.InstructorFirstName = class.InstructorFirstName
		replacement.InstructorLastName = class.InstructorLastName
		replacement.Location = class.Location
		replacement.Campus = class.Campus
		replacement.AcadCareer = class.AcadCareer
	}

	compensation, err := s.rates.Calculate(payroll.CompensationInput{
		WeeklyHours:    replacement.WeeklyHours,
		Position:       replacement.Position,
		EducationLevel: replacement.EducationLevel,
		FultonFellow:   replacement.FultonFellow,
		ClassSession:   replacement.ClassSession,
	})
	if err != nil {
		return nil, apperrors.NewDerivationError(err,
			fmt.Sprintf("cannot derive compensation for assignment %d: %v", orig.ID, err))
	}
	replacement.Compensation = compensation

	costCenterKey, err := payroll.CostCenterKey(payroll.CostCenterInput{
		Position:   replacement.Position,
		Location:   replacement.Location,
		Campus:     replacement.Campus,
		AcadCareer: replacement.AcadCareer,
	})
	if err != nil {
		return nil, apperrors.NewDerivationError(err,
			fmt.Sprintf("cannot derive cost center for assignment %d: %v", orig.ID, err))
	}
	replacement.CostCenterKey = costCenterKey

	return &replacement, nil
}

// BulkEdit applies a batch of edit and delete intents for one student. The
// whole batch runs in a single transaction: supersede markers, replacement
// rows and delete markers commit together or not at all, so a failed class
// resolution can never leave a superseded row without its replacement.
func (s *AssignmentService) BulkEdit(ctx context.Context, req dto.BulkEditRequest) (*dto.BulkEditResponse, error) {
	if _, err := s.resolveStudent(ctx, req.StudentID); err != nil {
		if errors.Is(err, repositories.ErrStudentNotFound) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, err
	}

	resp := &dto.BulkEditResponse{
		Updated: []dto.UpdatedAssignment{},
		Deleted: []int64{},
		Status:  "success",
	}
	now := time.Now().UTC()

	err := s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for _, edit := range req.Updates {
			orig, err := s.assignments.GetActiveByIDTx(ctx, tx, edit.ID)
			if err != nil {
				if errors.Is(err, repositories.ErrAssignmentNotFound) {
					// Already superseded or never existed; skip, non-fatal
					s.logger.Debug().Int64("id", edit.ID).Msg("Bulk edit target not active, skipping")
					continue
				}
				return err
			}

			if _, err := s.assignments.SetEditStateTx(ctx, tx, orig.ID, models.EditStateSuperseded); err != nil {
				return err
			}

			var class *models.ClassSchedule
			if edit.ClassNum != "" && edit.ClassNum != orig.ClassNum {
				// Re-resolution stays within the original row's term
				class, err = s.classes.GetByClassNumAndTerm(ctx, edit.ClassNum, orig.Term)
				if err != nil {
					if errors.Is(err, repositories.ErrClassNotFound) {
						return apperrors.NewCustomError(apperrors.ErrClassNotFound,
							fmt.Sprintf("ClassNum %q not found in term %q", edit.ClassNum, orig.Term))
					}
					return err
				}
			}

			replacement, err := s.buildReplacement(orig, edit, class, now)
			if err != nil {
				return err
			}
			if err := s.assignments.InsertTx(ctx, tx, replacement); err != nil {
				return err
			}

			resp.Updated = append(resp.Updated, dto.UpdatedAssignment{
				StudentClassAssignment: *replacement,
				ChangedFields:          changedFields(replacement, orig),
			})
		}

		for _, id := range req.Deletes {
			// Missing rows are silently ignored; a second delete is a no-op
			if _, err := s.assignments.SetEditStateTx(ctx, tx, id, models.EditStateDeleted); err != nil {
				return err
			}
			resp.Deleted = append(resp.Deleted, id)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int("updated", len(resp.Updated)).
		Int("deleted", len(resp.Deleted)).
		Msg("Bulk edit applied")
	return resp, nil
}

// ListActive retrieves a page of active assignments
func (s *AssignmentService) ListActive(ctx context.Context, page, size int) (*dto.AssignmentListResponse, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)
	assignments, total, err := s.assignments.ListActive(ctx, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing assignments: %w", err)
	}
	if assignments == nil {
		assignments = []*models.StudentClassAssignment{}
	}
	return &dto.AssignmentListResponse{
		Assignments: assignments,
		Pagination:  helpers.NewPaginationInfo(total, page, limit),
	}, nil
}

// TotalHours sums weekly hours over all of a student's rows regardless of
// edit state.
func (s *AssignmentService) TotalHours(ctx context.Context, identifier string) (*dto.TotalHoursResponse, error) {
	student, err := s.resolveStudent(ctx, identifier)
	if err != nil {
		if errors.Is(err, repositories.ErrStudentNotFound) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, err
	}

	total, err := s.assignments.TotalWeeklyHours(ctx, student.StudentID)
	if err != nil {
		return nil, err
	}
	return &dto.TotalHoursResponse{StudentID: student.StudentID, TotalHours: total}, nil
}

// StudentSummary aggregates a student's active assignments into the three
// session buckets. Rows with an unrecognized session code are excluded from
// every bucket but still listed.
func (s *AssignmentService) StudentSummary(ctx context.Context, identifier string) (*dto.StudentSummaryResponse, error) {
	student, err := s.resolveStudent(ctx, identifier)
	if err != nil {
		if errors.Is(err, repositories.ErrStudentNotFound) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, err
	}

	assignments, err := s.assignments.ListActiveByStudent(ctx, student.StudentID)
	if err != nil {
		return nil, fmt.Errorf("error listing student assignments: %w", err)
	}

	summary := &dto.StudentSummaryResponse{
		StudentName: strings.TrimSpace(student.FirstName + " " + student.LastName),
		ASUrite:     student.ASUrite,
		StudentID:   student.StudentID,
		Assignments: []dto.SummaryAssignment{},
	}

	sessionHours := map[string]*int{
		"A": &summary.SessionA,
		"B": &summary.SessionB,
		"C": &summary.SessionC,
	}

	for _, a := range assignments {
		session := strings.ToUpper(strings.TrimSpace(a.ClassSession))
		if bucket, ok := sessionHours[session]; ok {
			*bucket += a.WeeklyHours
		}
		summary.Assignments = append(summary.Assignments, dto.SummaryAssignment{
			ID:             a.ID,
			Position:       string(a.Position),
			WeeklyHours:    a.WeeklyHours,
			ClassSession:   a.ClassSession,
			Subject:        a.Subject,
			CatalogNum:     a.CatalogNum,
			ClassNum:       a.ClassNum,
			InstructorName: strings.TrimSpace(a.InstructorFirstName + " " + a.InstructorLastName),
			AcadCareer:     string(a.AcadCareer),
		})
	}

	// Representative values from the most recent assignment
	if len(assignments) > 0 {
		latest := assignments[0]
		position := string(latest.Position)
		summary.Position = &position
		summary.FultonFellow = &latest.FultonFellow
		summary.EducationLevel = &latest.EducationLevel
	}

	return summary, nil
}

// GetOnboarding retrieves the onboarding-flag view of a single assignment
func (s *AssignmentService) GetOnboarding(ctx context.Context, id int64) (*dto.OnboardingResponse, error) {
	a, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrAssignmentNotFound) {
			return nil, apperrors.ErrAssignmentNotFound
		}
		return nil, err
	}
	return &dto.OnboardingResponse{
		ID:             a.ID,
		PositionNumber: a.PositionNumber,
		SSNSent:        a.SSNSent,
		OfferSent:      a.OfferSent,
		OfferSigned:    a.OfferSigned,
	}, nil
}

// UpdateOnboarding applies a partial update of the onboarding workflow
// flags; nil fields are left untouched.
func (s *AssignmentService) UpdateOnboarding(ctx context.Context, id int64, req dto.OnboardingUpdateRequest) error {
	found, err := s.assignments.UpdateOnboarding(ctx, id, req.PositionNumber, req.SSNSent, req.OfferSent, req.OfferSigned)
	if err != nil {
		return fmt.Errorf("error updating onboarding flags: %w", err)
	}
	if !found {
		return apperrors.ErrAssignmentNotFound
	}
	return nil
}
