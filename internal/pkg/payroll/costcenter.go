package payroll

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hgonen/assignhub/internal/app/models"
)

var (
	ErrMissingCostCenterInput = errors.New("missing cost center input")
	ErrUnknownCareer          = errors.New("unknown academic career")
)

// positionCodes maps position kinds to the short codes used in cost-center
// keys. Kept separate from the rate table: funding attribution and pay rates
// change on different schedules.
var positionCodes = map[models.Position]string{
	models.PositionTA:     "TA",
	models.PositionRA:     "RA",
	models.PositionGrader: "GR",
}

// CostCenterInput carries the classification attributes for key derivation
type CostCenterInput struct {
	Position   models.Position
	Location   string
	Campus     string
	AcadCareer models.AcadCareer
}

// CostCenterKey derives the funding/cost bucket key for an assignment as
// CAREER.CAMPUS.LOCATION.POSCODE, all components upper-cased. A missing or
// unrecognized input is a validation error; a malformed key is never
// produced.
func CostCenterKey(in CostCenterInput) (string, error) {
	location := strings.ToUpper(strings.TrimSpace(in.Location))
	campus := strings.ToUpper(strings.TrimSpace(in.Campus))

	switch {
	case in.Position == "":
		return "", fmt.Errorf("%w: position", ErrMissingCostCenterInput)
	case location == "":
		return "", fmt.Errorf("%w: location", ErrMissingCostCenterInput)
	case campus == "":
		return "", fmt.Errorf("%w: campus", ErrMissingCostCenterInput)
	case in.AcadCareer == "":
		return "", fmt.Errorf("%w: academic career", ErrMissingCostCenterInput)
	}

	posCode, ok := positionCodes[in.Position]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownPosition, in.Position)
	}

	switch in.AcadCareer {
	case models.CareerUndergrad, models.CareerGraduate:
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCareer, in.AcadCareer)
	}

	return fmt.Sprintf("%s.%s.%s.%s", in.AcadCareer, campus, location, posCode), nil
}
