package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hgonen/assignhub/internal/pkg/apperrors"
)

func TestLookupStudent(t *testing.T) {
	svc := NewDirectoryService(testStudents(), testClasses())

	// Digit strings resolve by exact ID only
	student, err := svc.LookupStudent(context.Background(), "1217650210")
	require.NoError(t, err)
	assert.Equal(t, "jsmith42", student.ASUrite)

	// Anything else resolves by alias, case-insensitively
	student, err = svc.LookupStudent(context.Background(), " MCHEN7 ")
	require.NoError(t, err)
	assert.Equal(t, int64(1219480332), student.StudentID)

	_, err = svc.LookupStudent(context.Background(), "999999")
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)

	// A numeric-looking alias never falls back to alias lookup
	_, err = svc.LookupStudent(context.Background(), "1219480332x")
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
}

func TestLookupClass(t *testing.T) {
	svc := NewDirectoryService(testStudents(), testClasses())

	class, err := svc.LookupClass(context.Background(), "12345")
	require.NoError(t, err)
	assert.Equal(t, "CSE", class.Subject)
	assert.Equal(t, "110", class.CatalogNum)

	_, err = svc.LookupClass(context.Background(), "00000")
	assert.ErrorIs(t, err, apperrors.ErrClassNotFound)
}
