package payroll

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/hgonen/assignhub/internal/app/models"
)

// Payroll derivation errors. These are a distinct kind from missing-field
// validation errors: a rule-table miss must surface instead of defaulting to
// a wrong amount.
var (
	ErrUnknownPosition = errors.New("unknown position kind")
	ErrUnknownSession  = errors.New("unknown class session")
	ErrInvalidHours    = errors.New("weekly hours must be positive")
)

// EducationTier buckets the free-text degree string for rate lookup
type EducationTier string

const (
	TierDoctoral EducationTier = "DOCTORAL"
	TierMasters  EducationTier = "MASTERS"
	TierOther    EducationTier = "OTHER"
)

// CompensationInput carries the attributes the rule table operates on
type CompensationInput struct {
	WeeklyHours    int
	Position       models.Position
	EducationLevel string // free-text degree string from the student snapshot
	FultonFellow   string // "Yes" / "No"
	ClassSession   string // single-letter session code
}

// RateTable holds the compensation rule table. It is passed around as data
// rather than embedded in control flow so deployments can substitute their
// own rates and tests can pin known values.
type RateTable struct {
	// HourlyRates maps position -> education tier -> hourly rate
	HourlyRates map[models.Position]map[EducationTier]float64
	// FellowBump is added to the hourly rate when FultonFellow is "Yes"
	FellowBump float64
	// SessionWeeks maps the session code to the number of paid weeks
	SessionWeeks map[string]float64
}

// DefaultRateTable returns the standard rate table. Sessions A and B are
// half-term (7.5 weeks); session C spans the full term (15 weeks).
func DefaultRateTable() RateTable {
	return RateTable{
		HourlyRates: map[models.Position]map[EducationTier]float64{
			models.PositionTA: {
				TierDoctoral: 20.00,
				TierMasters:  18.00,
				TierOther:    15.00,
			},
			models.PositionRA: {
				TierDoctoral: 22.00,
				TierMasters:  19.50,
				TierOther:    16.00,
			},
			models.PositionGrader: {
				TierDoctoral: 14.50,
				TierMasters:  14.50,
				TierOther:    14.50,
			},
		},
		FellowBump: 2.50,
		SessionWeeks: map[string]float64{
			"A": 7.5,
			"B": 7.5,
			"C": 15,
		},
	}
}

// TierForDegree derives the education tier from a free-text degree string.
func TierForDegree(degree string) EducationTier {
	d := strings.ToUpper(degree)
	switch {
	case strings.Contains(d, "PHD"), strings.Contains(d, "PH.D"), strings.Contains(d, "DOCTOR"):
		return TierDoctoral
	case strings.Contains(d, "MS"), strings.Contains(d, "M.S"), strings.Contains(d, "MASTER"), strings.Contains(d, "MCS"):
		return TierMasters
	default:
		return TierOther
	}
}

// Calculate derives the total compensation for an assignment from the rule
// table: hourly rate by (position x education tier), plus the fellowship
// bump, times weekly hours, times session weeks. The result is rounded to
// cents. Unknown positions and sessions are errors, never defaults.
func (t RateTable) Calculate(in CompensationInput) (float64, error) {
	if in.WeeklyHours <= 0 {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidHours, in.WeeklyHours)
	}

	tierRates, ok := t.HourlyRates[in.Position]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownPosition, in.Position)
	}

	weeks, ok := t.SessionWeeks[strings.ToUpper(strings.TrimSpace(in.ClassSession))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownSession, in.ClassSession)
	}

	rate := tierRates[TierForDegree(in.EducationLevel)]
	if strings.EqualFold(strings.TrimSpace(in.FultonFellow), "Yes") {
		rate += t.FellowBump
	}

	total := rate * float64(in.WeeklyHours) * weeks
	return math.Round(total*100) / 100, nil
}
