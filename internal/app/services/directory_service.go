package services

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/hgonen/assignhub/internal/app/models"
	"github.com/hgonen/assignhub/internal/app/repositories"
	"github.com/hgonen/assignhub/internal/pkg/apperrors"
)

// DirectoryService serves lookups against the imported student and
// class-schedule directories. Both directories are read-only at runtime;
// rows arrive through the term data import.
type DirectoryService struct {
	students StudentDirectory
	classes  ClassDirectory
}

// NewDirectoryService creates a new directory service
func NewDirectoryService(students StudentDirectory, classes ClassDirectory) *DirectoryService {
	return &DirectoryService{
		students: students,
		classes:  classes,
	}
}

// LookupStudent resolves a numeric student ID or an ASUrite alias
func (s *DirectoryService) LookupStudent(ctx context.Context, identifier string) (*models.StudentLookup, error) {
	identifier = strings.TrimSpace(identifier)

	var (
		student *models.StudentLookup
		err     error
	)
	if isAllDigits(identifier) {
		var id int64
		id, err = strconv.ParseInt(identifier, 10, 64)
		if err != nil {
			return nil, apperrors.NewValidationError("invalid student ID " + strconv.Quote(identifier))
		}
		student, err = s.students.GetByID(ctx, id)
	} else {
		student, err = s.students.GetByAlias(ctx, identifier)
	}

	if err != nil {
		if errors.Is(err, repositories.ErrStudentNotFound) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, err
	}
	return student, nil
}

// LookupClass resolves a class by class number
func (s *DirectoryService) LookupClass(ctx context.Context, classNum string) (*models.ClassSchedule, error) {
	class, err := s.classes.GetByClassNum(ctx, strings.TrimSpace(classNum))
	if err != nil {
		if errors.Is(err, repositories.ErrClassNotFound) {
			return nil, apperrors.ErrClassNotFound
		}
		return nil, err
	}
	return class, nil
}
