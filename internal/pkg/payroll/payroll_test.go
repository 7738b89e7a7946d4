package payroll

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hgonen/assignhub/internal/app/models"
)

func TestTierForDegree(t *testing.T) {
	tests := []struct {
		degree string
		want   EducationTier
	}{
		{"PHD", TierDoctoral},
		{"Ph.D Computer Science", TierDoctoral},
		{"Doctorate", TierDoctoral},
		{"MS", TierMasters},
		{"MCS", TierMasters},
		{"Master of Science", TierMasters},
		{"BSE", TierOther},
		{"", TierOther},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TierForDegree(tt.degree), "degree %q", tt.degree)
	}
}

func TestCalculate(t *testing.T) {
	table := DefaultRateTable()

	tests := []struct {
		name string
		in   CompensationInput
		want float64
	}{
		{
			name: "doctoral TA full term",
			in:   CompensationInput{WeeklyHours: 20, Position: models.PositionTA, EducationLevel: "PHD", FultonFellow: "No", ClassSession: "C"},
			want: 20 * 20.00 * 15, // 6000
		},
		{
			name: "masters RA half term",
			in:   CompensationInput{WeeklyHours: 10, Position: models.PositionRA, EducationLevel: "MS", FultonFellow: "No", ClassSession: "A"},
			want: 10 * 19.50 * 7.5, // 1462.50
		},
		{
			name: "grader flat rate regardless of degree",
			in:   CompensationInput{WeeklyHours: 5, Position: models.PositionGrader, EducationLevel: "PHD", FultonFellow: "No", ClassSession: "B"},
			want: 5 * 14.50 * 7.5,
		},
		{
			name: "fellow bump applied",
			in:   CompensationInput{WeeklyHours: 10, Position: models.PositionTA, EducationLevel: "BSE", FultonFellow: "Yes", ClassSession: "C"},
			want: 10 * (15.00 + 2.50) * 15,
		},
		{
			name: "session code is case and whitespace insensitive",
			in:   CompensationInput{WeeklyHours: 10, Position: models.PositionTA, EducationLevel: "BSE", FultonFellow: "no", ClassSession: " c "},
			want: 10 * 15.00 * 15,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := table.Calculate(tt.in)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 0.001)
		})
	}
}

func TestCalculateErrors(t *testing.T) {
	table := DefaultRateTable()

	_, err := table.Calculate(CompensationInput{WeeklyHours: 10, Position: "JANITOR", EducationLevel: "MS", ClassSession: "C"})
	assert.ErrorIs(t, err, ErrUnknownPosition)

	_, err = table.Calculate(CompensationInput{WeeklyHours: 10, Position: models.PositionTA, EducationLevel: "MS", ClassSession: "X"})
	assert.ErrorIs(t, err, ErrUnknownSession)

	_, err = table.Calculate(CompensationInput{WeeklyHours: 0, Position: models.PositionTA, EducationLevel: "MS", ClassSession: "C"})
	assert.ErrorIs(t, err, ErrInvalidHours)
}

func TestCostCenterKey(t *testing.T) {
	key, err := CostCenterKey(CostCenterInput{
		Position:   models.PositionTA,
		Location:   "Tempe",
		Campus:     "tempe",
		AcadCareer: models.CareerGraduate,
	})
	require.NoError(t, err)
	assert.Equal(t, "GRAD.TEMPE.TEMPE.TA", key)

	key, err = CostCenterKey(CostCenterInput{
		Position:   models.PositionGrader,
		Location:   "POLY",
		Campus:     "POLY",
		AcadCareer: models.CareerUndergrad,
	})
	require.NoError(t, err)
	assert.Equal(t, "UGRD.POLY.POLY.GR", key)
}

func TestCostCenterKeyErrors(t *testing.T) {
	valid := CostCenterInput{
		Position:   models.PositionRA,
		Location:   "TEMPE",
		Campus:     "TEMPE",
		AcadCareer: models.CareerGraduate,
	}

	in := valid
	in.Location = "  "
	_, err := CostCenterKey(in)
	assert.ErrorIs(t, err, ErrMissingCostCenterInput)

	in = valid
	in.Position = "JANITOR"
	_, err = CostCenterKey(in)
	assert.ErrorIs(t, err, ErrUnknownPosition)

	in = valid
	in.AcadCareer = "LAW"
	_, err = CostCenterKey(in)
	assert.ErrorIs(t, err, ErrUnknownCareer)
}
