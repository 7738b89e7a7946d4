package roster

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validCSV = `Position,FultonFellow,WeeklyHours,Student_ID (ID number OR ASUrite accepted),ClassNum
TA,Yes,20,1217650210,12345
grader,,5,jsmith42,23456
`

func TestParse(t *testing.T) {
	rows, err := Parse(strings.NewReader(validCSV))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 2, rows[0].Index)
	assert.Equal(t, "TA", rows[0].Position)
	assert.Equal(t, "Yes", rows[0].FultonFellow)
	assert.Equal(t, 20, rows[0].WeeklyHours)
	assert.Equal(t, "1217650210", rows[0].StudentRef)
	assert.True(t, rows[0].IsNumericRef())

	// Position upper-cased, blank fellowship defaults to No
	assert.Equal(t, 3, rows[1].Index)
	assert.Equal(t, "GRADER", rows[1].Position)
	assert.Equal(t, "No", rows[1].FultonFellow)
	assert.Equal(t, "jsmith42", rows[1].StudentRef)
	assert.False(t, rows[1].IsNumericRef())
}

func TestParseStripsBOM(t *testing.T) {
	rows, err := Parse(strings.NewReader("\uFEFF" + validCSV))
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestParseMissingColumn(t *testing.T) {
	csv := "Position,FultonFellow,WeeklyHours,ClassNum\nTA,No,20,12345\n"
	_, err := Parse(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Student_ID")
}

func TestParseEmptyFile(t *testing.T) {
	_, err := Parse(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestParseMissingField(t *testing.T) {
	csv := validCSV + "TA,No,20,,34567\n"
	_, err := Parse(strings.NewReader(csv))
	require.Error(t, err)

	var rowErr *RowError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, 4, rowErr.Index)
	assert.Equal(t, ColStudentRef, rowErr.Field)
}

func TestParseNonNumericHours(t *testing.T) {
	csv := validCSV + "TA,No,twenty,1217650210,34567\n"
	_, err := Parse(strings.NewReader(csv))

	var rowErr *RowError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, 4, rowErr.Index)
	assert.Equal(t, ColWeeklyHours, rowErr.Field)
}

func TestTemplateRoundTrips(t *testing.T) {
	rows, err := Parse(strings.NewReader(string(Template())))
	require.NoError(t, err)
	assert.Empty(t, rows)
}
