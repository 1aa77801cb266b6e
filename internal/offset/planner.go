package offset

import (
	"errors"
	"fmt"
	"math"

	"github.com/lioncitydevops/carbon-calculator/internal/emissions"
)

// Planner errors.
var (
	ErrInvalidPercent   = errors.New("offset percent must be in (0, 100]")
	ErrInvalidEmissions = errors.New("emissions to offset must be a finite, non-negative number")
)

// Line is one project's share of a plan.
type Line struct {
	Project Project `json:"project"`
	Tonnes  float64 `json:"tonnes"`
	Cost    float64 `json:"cost"`
}

// Plan is a priced offset purchase.
type Plan struct {
	Emissions  float64 `json:"emissions"`
	Percent    float64 `json:"percent"`
	ToOffset   float64 `json:"to_offset"`
	PerProject float64 `json:"per_project"`
	Lines      []Line  `json:"lines"`
	TotalCost  float64 `json:"total_cost"`
	// AveragePrice is the unweighted mean of the selected projects' prices.
	AveragePrice float64 `json:"average_price_per_tonne"`
	// EffectivePrice is TotalCost per tonne offset.
	EffectivePrice float64 `json:"effective_price_per_tonne"`
}

// NewPlan offsets percent of emissions (tonnes) split equally across
// projects. With no projects the plan costs nothing and the average price
// is zero.
func NewPlan(emissionsTonnes, percent float64, projects []Project) (Plan, error) {
	if math.IsNaN(emissionsTonnes) || math.IsInf(emissionsTonnes, 0) || emissionsTonnes < 0 {
		return Plan{}, fmt.Errorf("%w: got %v", ErrInvalidEmissions, emissionsTonnes)
	}
	if math.IsNaN(percent) || percent <= 0 || percent > 100 {
		return Plan{}, fmt.Errorf("%w: got %v", ErrInvalidPercent, percent)
	}

	const hundred = 100
	plan := Plan{
		Emissions: emissionsTonnes,
		Percent:   percent,
		ToOffset:  emissionsTonnes * (percent / hundred),
		Lines:     []Line{},
	}
	if len(projects) == 0 {
		return plan, nil
	}

	n := float64(len(projects))
	plan.PerProject = plan.ToOffset / n

	var priceSum float64
	for _, p := range projects {
		cost := emissions.OffsetCost(plan.PerProject, p.PricePerTonne)
		plan.Lines = append(plan.Lines, Line{Project: p, Tonnes: plan.PerProject, Cost: cost})
		plan.TotalCost += cost
		priceSum += p.PricePerTonne
	}
	plan.AveragePrice = priceSum / n
	if plan.ToOffset > 0 {
		plan.EffectivePrice = plan.TotalCost / plan.ToOffset
	}
	return plan, nil
}
