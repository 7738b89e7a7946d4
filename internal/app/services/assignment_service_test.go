package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hgonen/assignhub/internal/app/models"
	"github.com/hgonen/assignhub/internal/app/models/dto"
	"github.com/hgonen/assignhub/internal/pkg/apperrors"
	"github.com/hgonen/assignhub/internal/pkg/payroll"
)

func testStudents() *memStudents {
	return &memStudents{students: []*models.StudentLookup{
		{StudentID: 1217650210, ASUrite: "jsmith42", FirstName: "Jane", LastName: "Smith", Email: "jsmith42@asu.edu", Degree: "PHD", CumulativeGPA: 3.85, CurrentGPA: 3.90},
		{StudentID: 1219480332, ASUrite: "mchen7", FirstName: "Ming", LastName: "Chen", Email: "mchen7@asu.edu", Degree: "MS", CumulativeGPA: 3.60, CurrentGPA: 3.72},
	}}
}

func testClasses() *memClasses {
	return &memClasses{classes: []*models.ClassSchedule{
		{ClassNum: "12345", Subject: "CSE", CatalogNum: "110", Session: "C", Term: "2261", Location: "TEMPE", Campus: "TEMPE", AcadCareer: models.CareerUndergrad, InstructorID: 1, InstructorFirstName: "Alan", InstructorLastName: "Turing"},
		{ClassNum: "23456", Subject: "CSE", CatalogNum: "511", Session: "A", Term: "2261", Location: "TEMPE", Campus: "TEMPE", AcadCareer: models.CareerGraduate, InstructorID: 2, InstructorFirstName: "Grace", InstructorLastName: "Hopper"},
		{ClassNum: "99999", Subject: "CSE", CatalogNum: "599", Session: "Z", Term: "2261", Location: "TEMPE", Campus: "TEMPE", AcadCareer: models.CareerGraduate, InstructorID: 3, InstructorFirstName: "Ada", InstructorLastName: "Lovelace"},
	}}
}

func newTestService(students *memStudents, classes *memClasses, store *memAssignments) *AssignmentService {
	return NewAssignmentService(
		students,
		classes,
		store,
		&memTxRunner{store: store},
		payroll.DefaultRateTable(),
		zerolog.Nop(),
	)
}

func seedAssignment(store *memAssignments, mutate func(*models.StudentClassAssignment)) *models.StudentClassAssignment {
	a := models.StudentClassAssignment{
		StudentID:           1217650210,
		ASUrite:             "jsmith42",
		FirstName:           "Jane",
		LastName:            "Smith",
		Email:               "jsmith42@asu.edu",
		Position:            models.PositionTA,
		FultonFellow:        "No",
		WeeklyHours:         10,
		EducationLevel:      "PHD",
		Subject:             "CSE",
		CatalogNum:          "110",
		ClassSession:        "C",
		ClassNum:            "12345",
		Term:                "2261",
		InstructorID:        1,
		InstructorFirstName: "Alan",
		InstructorLastName:  "Turing",
		Location:            "TEMPE",
		Campus:              "TEMPE",
		AcadCareer:          models.CareerUndergrad,
		Compensation:        3000,
		CostCenterKey:       "UGRD.TEMPE.TEMPE.TA",
		CreatedAt:           time.Now().Add(-time.Hour),
	}
	if mutate != nil {
		mutate(&a)
	}
	return store.add(a)
}

func TestUploadRoster(t *testing.T) {
	store := newMemAssignments()
	svc := newTestService(testStudents(), testClasses(), store)

	csv := "Position,FultonFellow,WeeklyHours,Student_ID (ID number OR ASUrite accepted),ClassNum\n" +
		"TA,No,20,1217650210,12345\n" +
		"ra,Yes,10,MCHEN7,23456\n"

	inserted, err := svc.UploadRoster(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)
	require.Len(t, store.rows, 2)

	first, err := store.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, models.PositionTA, first.Position)
	assert.Equal(t, "Jane", first.FirstName)
	assert.Equal(t, "PHD", first.EducationLevel)
	assert.Equal(t, "2261", first.Term)
	assert.True(t, first.EditState.IsActive())
	// doctoral TA, 20 h/week, full 15-week term
	assert.InDelta(t, 20*20.00*15, first.Compensation, 0.001)
	assert.Equal(t, "UGRD.TEMPE.TEMPE.TA", first.CostCenterKey)

	// alias resolution is case-insensitive; fellow bump applied
	second, err := store.GetByID(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1219480332), second.StudentID)
	assert.Equal(t, models.PositionRA, second.Position)
	assert.InDelta(t, 10*(19.50+2.50)*7.5, second.Compensation, 0.001)
	assert.Equal(t, "GRAD.TEMPE.TEMPE.RA", second.CostCenterKey)
}

func TestUploadRosterUnknownStudentAbortsBatch(t *testing.T) {
	store := newMemAssignments()
	svc := newTestService(testStudents(), testClasses(), store)

	csv := "Position,FultonFellow,WeeklyHours,Student_ID (ID number OR ASUrite accepted),ClassNum\n" +
		"TA,No,20,1217650210,12345\n" +
		"TA,No,20,nobody99,12345\n"

	_, err := svc.UploadRoster(context.Background(), strings.NewReader(csv))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Contains(t, err.Error(), "nobody99")
	assert.Contains(t, err.Error(), "row 3")
	assert.Empty(t, store.rows)
}

func TestUploadRosterUnknownClass(t *testing.T) {
	store := newMemAssignments()
	svc := newTestService(testStudents(), testClasses(), store)

	csv := "Position,FultonFellow,WeeklyHours,Student_ID (ID number OR ASUrite accepted),ClassNum\n" +
		"TA,No,20,1217650210,00000\n"

	_, err := svc.UploadRoster(context.Background(), strings.NewReader(csv))
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Contains(t, err.Error(), "row 2")
	assert.Empty(t, store.rows)
}

func TestUploadRosterDerivationFailure(t *testing.T) {
	store := newMemAssignments()
	svc := newTestService(testStudents(), testClasses(), store)

	// Class 99999 carries session "Z", which the rate table does not know
	csv := "Position,FultonFellow,WeeklyHours,Student_ID (ID number OR ASUrite accepted),ClassNum\n" +
		"TA,No,20,1217650210,99999\n"

	_, err := svc.UploadRoster(context.Background(), strings.NewReader(csv))
	assert.ErrorIs(t, err, apperrors.ErrDerivationFailed)
	assert.ErrorIs(t, err, payroll.ErrUnknownSession)
	assert.Empty(t, store.rows)
}

func TestPreviewRosterPersistsNothing(t *testing.T) {
	store := newMemAssignments()
	svc := newTestService(testStudents(), testClasses(), store)

	csv := "Position,FultonFellow,WeeklyHours,Student_ID (ID number OR ASUrite accepted),ClassNum\n" +
		"TA,No,20,jsmith42,12345\n"

	preview, err := svc.PreviewRoster(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, preview, 1)
	assert.Equal(t, int64(1217650210), preview[0].StudentID)
	assert.Equal(t, "jsmith42", preview[0].ASUrite)
	assert.Equal(t, "CSE", preview[0].Subject)
	assert.Equal(t, "C", preview[0].Session)
	assert.Empty(t, store.rows)
}

func TestBulkEditUpdate(t *testing.T) {
	store := newMemAssignments()
	svc := newTestService(testStudents(), testClasses(), store)
	orig := seedAssignment(store, nil)

	resp, err := svc.BulkEdit(context.Background(), dto.BulkEditRequest{
		StudentID: "1217650210",
		Updates: []dto.AssignmentEdit{
			{ID: orig.ID, Position: "grader", WeeklyHours: 5},
		},
	})
	require.NoError(t, err)
	require.Len(t, resp.Updated, 1)
	assert.Equal(t, "success", resp.Status)

	updated := resp.Updated[0]
	assert.ElementsMatch(t, []string{"Position", "WeeklyHours"}, updated.ChangedFields)
	assert.Equal(t, models.PositionGrader, updated.Position)
	assert.Equal(t, 5, updated.WeeklyHours)
	// Payroll recomputed for the replacement: grader flat rate, full term
	assert.InDelta(t, 5*14.50*15, updated.Compensation, 0.001)
	assert.Equal(t, "UGRD.TEMPE.TEMPE.GR", updated.CostCenterKey)
	// Identity and class snapshot carried over
	assert.Equal(t, orig.StudentID, updated.StudentID)
	assert.Equal(t, orig.ClassNum, updated.ClassNum)

	// Original row superseded, replacement active
	stored, err := store.GetByID(context.Background(), orig.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EditStateSuperseded, stored.EditState)
	replacement, err := store.GetByID(context.Background(), updated.ID)
	require.NoError(t, err)
	assert.True(t, replacement.EditState.IsActive())
}

func TestBulkEditClassChange(t *testing.T) {
	store := newMemAssignments()
	svc := newTestService(testStudents(), testClasses(), store)
	orig := seedAssignment(store, nil)

	resp, err := svc.BulkEdit(context.Background(), dto.BulkEditRequest{
		StudentID: "jsmith42",
		Updates: []dto.AssignmentEdit{
			{ID: orig.ID, Position: "TA", WeeklyHours: 10, ClassNum: "23456"},
		},
	})
	require.NoError(t, err)
	require.Len(t, resp.Updated, 1)

	updated := resp.Updated[0]
	assert.Equal(t, []string{"ClassNum"}, updated.ChangedFields)
	assert.Equal(t, "23456", updated.ClassNum)
	// Class snapshot refreshed from the re-resolved entry
	assert.Equal(t, "511", updated.CatalogNum)
	assert.Equal(t, "A", updated.ClassSession)
	assert.Equal(t, "Grace", updated.InstructorFirstName)
	assert.Equal(t, models.CareerGraduate, updated.AcadCareer)
	// Term preserved and compensation recomputed for the new session
	assert.Equal(t, "2261", updated.Term)
	assert.InDelta(t, 10*20.00*7.5, updated.Compensation, 0.001)
	assert.Equal(t, "GRAD.TEMPE.TEMPE.TA", updated.CostCenterKey)
}

func TestBulkEditUnknownClassRollsBackBatch(t *testing.T) {
	store := newMemAssignments()
	svc := newTestService(testStudents(), testClasses(), store)
	first := seedAssignment(store, nil)
	second := seedAssignment(store, func(a *models.StudentClassAssignment) { a.ClassNum = "23456"; a.ClassSession = "A" })

	_, err := svc.BulkEdit(context.Background(), dto.BulkEditRequest{
		StudentID: "1217650210",
		Updates: []dto.AssignmentEdit{
			{ID: first.ID, Position: "TA", WeeklyHours: 15},
			{ID: second.ID, Position: "TA", WeeklyHours: 15, ClassNum: "00000"},
		},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrClassNotFound)

	// The whole batch rolled back: both originals still active, no replacements
	assert.Len(t, store.rows, 2)
	for _, id := range []int64{first.ID, second.ID} {
		row, err := store.GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.True(t, row.EditState.IsActive())
	}
}

func TestBulkEditSkipsInactiveTargets(t *testing.T) {
	store := newMemAssignments()
	svc := newTestService(testStudents(), testClasses(), store)
	superseded := seedAssignment(store, func(a *models.StudentClassAssignment) { a.EditState = models.EditStateSuperseded })

	resp, err := svc.BulkEdit(context.Background(), dto.BulkEditRequest{
		StudentID: "1217650210",
		Updates: []dto.AssignmentEdit{
			{ID: superseded.ID, Position: "TA", WeeklyHours: 15},
			{ID: 9999, Position: "TA", WeeklyHours: 15},
		},
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Updated)
	assert.Len(t, store.rows, 1)
}

func TestBulkEditDelete(t *testing.T) {
	store := newMemAssignments()
	svc := newTestService(testStudents(), testClasses(), store)
	orig := seedAssignment(store, nil)

	resp, err := svc.BulkEdit(context.Background(), dto.BulkEditRequest{
		StudentID: "1217650210",
		Deletes:   []int64{orig.ID, 424242},
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{orig.ID, 424242}, resp.Deleted)

	row, err := store.GetByID(context.Background(), orig.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EditStateDeleted, row.EditState)

	// Deleting again is a no-op
	resp, err = svc.BulkEdit(context.Background(), dto.BulkEditRequest{
		StudentID: "1217650210",
		Deletes:   []int64{orig.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{orig.ID}, resp.Deleted)
}

func TestBulkEditUnknownStudent(t *testing.T) {
	store := newMemAssignments()
	svc := newTestService(testStudents(), testClasses(), store)

	_, err := svc.BulkEdit(context.Background(), dto.BulkEditRequest{StudentID: "nobody99"})
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
}

func TestStudentSummary(t *testing.T) {
	store := newMemAssignments()
	svc := newTestService(testStudents(), testClasses(), store)

	seedAssignment(store, func(a *models.StudentClassAssignment) { a.ClassSession = "A"; a.WeeklyHours = 10 })
	seedAssignment(store, func(a *models.StudentClassAssignment) { a.ClassSession = "C"; a.WeeklyHours = 5 })
	// Unrecognized session: listed but excluded from every bucket
	seedAssignment(store, func(a *models.StudentClassAssignment) { a.ClassSession = "Z"; a.WeeklyHours = 7 })
	// Deleted rows are excluded entirely
	seedAssignment(store, func(a *models.StudentClassAssignment) { a.EditState = models.EditStateDeleted; a.WeeklyHours = 99 })
	// Most recent row determines the representative values
	seedAssignment(store, func(a *models.StudentClassAssignment) {
		a.ClassSession = "B"
		a.WeeklyHours = 6
		a.Position = models.PositionGrader
		a.FultonFellow = "Yes"
		a.EducationLevel = "MS"
	})

	summary, err := svc.StudentSummary(context.Background(), "JSMITH42")
	require.NoError(t, err)

	assert.Equal(t, "Jane Smith", summary.StudentName)
	assert.Equal(t, int64(1217650210), summary.StudentID)
	assert.Equal(t, 10, summary.SessionA)
	assert.Equal(t, 6, summary.SessionB)
	assert.Equal(t, 5, summary.SessionC)
	assert.Len(t, summary.Assignments, 4)

	require.NotNil(t, summary.Position)
	assert.Equal(t, "GRADER", *summary.Position)
	require.NotNil(t, summary.FultonFellow)
	assert.Equal(t, "Yes", *summary.FultonFellow)
	require.NotNil(t, summary.EducationLevel)
	assert.Equal(t, "MS", *summary.EducationLevel)
}

func TestStudentSummaryNoAssignments(t *testing.T) {
	store := newMemAssignments()
	svc := newTestService(testStudents(), testClasses(), store)

	summary, err := svc.StudentSummary(context.Background(), "mchen7")
	require.NoError(t, err)
	assert.Empty(t, summary.Assignments)
	assert.Nil(t, summary.Position)
	assert.Zero(t, summary.SessionA+summary.SessionB+summary.SessionC)
}

func TestTotalHoursCountsAllEditStates(t *testing.T) {
	store := newMemAssignments()
	svc := newTestService(testStudents(), testClasses(), store)

	seedAssignment(store, func(a *models.StudentClassAssignment) { a.WeeklyHours = 10 })
	seedAssignment(store, func(a *models.StudentClassAssignment) { a.WeeklyHours = 5; a.EditState = models.EditStateSuperseded })
	seedAssignment(store, func(a *models.StudentClassAssignment) { a.WeeklyHours = 3; a.EditState = models.EditStateDeleted })

	resp, err := svc.TotalHours(context.Background(), "jsmith42")
	require.NoError(t, err)
	assert.Equal(t, 18, resp.TotalHours)
	assert.Equal(t, int64(1217650210), resp.StudentID)
}

func TestListActive(t *testing.T) {
	store := newMemAssignments()
	svc := newTestService(testStudents(), testClasses(), store)

	for i := 0; i < 3; i++ {
		seedAssignment(store, nil)
	}
	seedAssignment(store, func(a *models.StudentClassAssignment) { a.EditState = models.EditStateDeleted })

	list, err := svc.ListActive(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Len(t, list.Assignments, 2)
	assert.Equal(t, int64(3), list.Pagination.TotalItems)
	assert.Equal(t, 2, list.Pagination.TotalPages)
}

func TestOnboarding(t *testing.T) {
	store := newMemAssignments()
	svc := newTestService(testStudents(), testClasses(), store)
	orig := seedAssignment(store, nil)

	posNum := "T-10042"
	sent := true
	err := svc.UpdateOnboarding(context.Background(), orig.ID, dto.OnboardingUpdateRequest{
		PositionNumber: &posNum,
		OfferSent:      &sent,
	})
	require.NoError(t, err)

	resp, err := svc.GetOnboarding(context.Background(), orig.ID)
	require.NoError(t, err)
	require.NotNil(t, resp.PositionNumber)
	assert.Equal(t, "T-10042", *resp.PositionNumber)
	assert.True(t, resp.OfferSent)
	// Untouched flags keep their values
	assert.False(t, resp.SSNSent)
	assert.False(t, resp.OfferSigned)

	// Onboarding updates never change the edit state
	row, err := store.GetByID(context.Background(), orig.ID)
	require.NoError(t, err)
	assert.True(t, row.EditState.IsActive())

	err = svc.UpdateOnboarding(context.Background(), 9999, dto.OnboardingUpdateRequest{OfferSent: &sent})
	assert.ErrorIs(t, err, apperrors.ErrAssignmentNotFound)
}
