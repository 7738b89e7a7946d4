package services

import (
	"context"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/hgonen/assignhub/internal/app/models"
	"github.com/hgonen/assignhub/internal/app/repositories"
	"github.com/hgonen/assignhub/internal/db"
)

// In-memory collaborators for service tests. The transaction runner snapshots
// the assignment store before the callback and restores it when the callback
// fails, mirroring a rollback.

type memStudents struct {
	students []*models.StudentLookup
}

func (m *memStudents) GetByID(_ context.Context, studentID int64) (*models.StudentLookup, error) {
	for _, s := range m.students {
		if s.StudentID == studentID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, repositories.ErrStudentNotFound
}

func (m *memStudents) GetByAlias(_ context.Context, alias string) (*models.StudentLookup, error) {
	for _, s := range m.students {
		if strings.EqualFold(s.ASUrite, alias) {
			cp := *s
			return &cp, nil
		}
	}
	return nil, repositories.ErrStudentNotFound
}

type memClasses struct {
	classes []*models.ClassSchedule
}

func (m *memClasses) GetByClassNum(_ context.Context, classNum string) (*models.ClassSchedule, error) {
	for _, c := range m.classes {
		if c.ClassNum == classNum {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repositories.ErrClassNotFound
}

func (m *memClasses) GetByClassNumAndTerm(_ context.Context, classNum, term string) (*models.ClassSchedule, error) {
	for _, c := range m.classes {
		if c.ClassNum == classNum && c.Term == term {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repositories.ErrClassNotFound
}

type memAssignments struct {
	rows   map[int64]*models.StudentClassAssignment
	nextID int64
}

func newMemAssignments() *memAssignments {
	return &memAssignments{rows: map[int64]*models.StudentClassAssignment{}, nextID: 1}
}

func (m *memAssignments) add(a models.StudentClassAssignment) *models.StudentClassAssignment {
	a.ID = m.nextID
	m.nextID++
	m.rows[a.ID] = &a
	return &a
}

func (m *memAssignments) snapshot() map[int64]*models.StudentClassAssignment {
	cp := make(map[int64]*models.StudentClassAssignment, len(m.rows))
	for id, a := range m.rows {
		rowCopy := *a
		cp[id] = &rowCopy
	}
	return cp
}

func (m *memAssignments) GetByID(_ context.Context, id int64) (*models.StudentClassAssignment, error) {
	a, ok := m.rows[id]
	if !ok {
		return nil, repositories.ErrAssignmentNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memAssignments) GetActiveByIDTx(_ context.Context, _ pgx.Tx, id int64) (*models.StudentClassAssignment, error) {
	a, ok := m.rows[id]
	if !ok || !a.EditState.IsActive() {
		return nil, repositories.ErrAssignmentNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memAssignments) InsertTx(_ context.Context, _ pgx.Tx, a *models.StudentClassAssignment) error {
	inserted := m.add(*a)
	a.ID = inserted.ID
	return nil
}

func (m *memAssignments) InsertBatchTx(ctx context.Context, tx pgx.Tx, assignments []*models.StudentClassAssignment) error {
	for _, a := range assignments {
		if err := m.InsertTx(ctx, tx, a); err != nil {
			return err
		}
	}
	return nil
}

func (m *memAssignments) SetEditStateTx(_ context.Context, _ pgx.Tx, id int64, state models.EditState) (bool, error) {
	a, ok := m.rows[id]
	if !ok {
		return false, nil
	}
	a.EditState = state
	return true, nil
}

func (m *memAssignments) ListActive(_ context.Context, offset uint64, limit int) ([]*models.StudentClassAssignment, int64, error) {
	active := m.sorted(func(a *models.StudentClassAssignment) bool { return a.EditState.IsActive() })
	total := int64(len(active))
	if int(offset) >= len(active) {
		return nil, total, nil
	}
	end := int(offset) + limit
	if end > len(active) {
		end = len(active)
	}
	return active[offset:end], total, nil
}

func (m *memAssignments) ListActiveByStudent(_ context.Context, studentID int64) ([]*models.StudentClassAssignment, error) {
	active := m.sorted(func(a *models.StudentClassAssignment) bool {
		return a.EditState.IsActive() && a.StudentID == studentID
	})
	// Most recent first
	sort.Slice(active, func(i, j int) bool { return active[i].ID > active[j].ID })
	return active, nil
}

func (m *memAssignments) TotalWeeklyHours(_ context.Context, studentID int64) (int, error) {
	total := 0
	for _, a := range m.rows {
		if a.StudentID == studentID {
			total += a.WeeklyHours
		}
	}
	return total, nil
}

func (m *memAssignments) UpdateOnboarding(_ context.Context, id int64, positionNumber *string, ssnSent, offerSent, offerSigned *bool) (bool, error) {
	a, ok := m.rows[id]
	if !ok {
		return false, nil
	}
	if positionNumber != nil {
		a.PositionNumber = positionNumber
	}
	if ssnSent != nil {
		a.SSNSent = *ssnSent
	}
	if offerSent != nil {
		a.OfferSent = *offerSent
	}
	if offerSigned != nil {
		a.OfferSigned = *offerSigned
	}
	return true, nil
}

func (m *memAssignments) sorted(keep func(*models.StudentClassAssignment) bool) []*models.StudentClassAssignment {
	var out []*models.StudentClassAssignment
	for _, a := range m.rows {
		if keep(a) {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type memTxRunner struct {
	store *memAssignments
}

func (r *memTxRunner) WithTransaction(ctx context.Context, fn db.TransactionFn) error {
	before := r.store.snapshot()
	beforeNextID := r.store.nextID
	if err := fn(ctx, nil); err != nil {
		r.store.rows = before
		r.store.nextID = beforeNextID
		return err
	}
	return nil
}
