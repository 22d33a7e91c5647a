package engine

import (
	"fmt"
	"sort"
)

// Violation codes reported by CheckFeasibility.
const (
	ViolationCapacityExceeded = "capacity_exceeded"
	ViolationCashShortfall    = "cash_shortfall"
	ViolationCarbonCapAtRisk  = "carbon_cap_at_risk"
)

// Violation describes one constraint the decision would break.
type Violation struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

// Verdict is the outcome of a feasibility check.
type Verdict struct {
	Feasible   bool        `json:"feasible"`
	Violations []Violation `json:"violations"`
}

// baseEmissionsCeiling is the largest base emissions draw Evaluate can make.
const baseEmissionsCeiling = 1200

// CheckFeasibility validates a decision against the snapshot's capacity, cash,
// and carbon constraints. It is a separate pass from Evaluate and shares no
// state with it: scoring remains unconditional, and callers decide what to do
// with the verdict.
func CheckFeasibility(decision Decision, constraints Constraints) Verdict {
	var violations []Violation

	for _, plant := range decision.Plants {
		capacity, ok := constraints.Capacity[plant.PlantID]
		if !ok {
			continue
		}
		produced := 0
		for _, qty := range plant.ProductionQty {
			produced += qty
		}
		if produced > capacity {
			violations = append(violations, Violation{
				Code:   ViolationCapacityExceeded,
				Detail: fmt.Sprintf("plant %s plans %d units against capacity %d", plant.PlantID, produced, capacity),
			})
		}
	}

	spend := plannedSpend(decision, constraints.Costs)
	if constraints.CashOnHand > 0 && spend > constraints.CashOnHand {
		violations = append(violations, Violation{
			Code:   ViolationCashShortfall,
			Detail: fmt.Sprintf("planned spend %.2f exceeds cash on hand %.2f", spend, constraints.CashOnHand),
		})
	}

	overtime := 0
	for _, plant := range decision.Plants {
		overtime += plant.OvertimeHours
	}
	if constraints.CarbonCap > 0 && baseEmissionsCeiling+overtime/2 > constraints.CarbonCap {
		violations = append(violations, Violation{
			Code:   ViolationCarbonCapAtRisk,
			Detail: fmt.Sprintf("worst-case emissions %d exceed carbon cap %d", baseEmissionsCeiling+overtime/2, constraints.CarbonCap),
		})
	}

	return Verdict{
		Feasible:   len(violations) == 0,
		Violations: violations,
	}
}

// plannedSpend totals production, overtime, and outsourcing cost for the
// decision. Missing cost entries count as zero.
func plannedSpend(decision Decision, costs Costs) float64 {
	overtimeRate := 0.0
	if len(costs.OvertimeCostPerHour) > 0 {
		rates := make([]string, 0, len(costs.OvertimeCostPerHour))
		for key := range costs.OvertimeCostPerHour {
			rates = append(rates, key)
		}
		sort.Strings(rates)
		overtimeRate = costs.OvertimeCostPerHour[rates[0]]
	}

	spend := 0.0
	for _, plant := range decision.Plants {
		for sku, qty := range plant.ProductionQty {
			spend += float64(qty) * costs.UnitCost[sku]
		}
		for sku, qty := range plant.OutsourcingQty {
			spend += float64(qty) * costs.OutsourcingCost[sku]
		}
		spend += float64(plant.OvertimeHours) * overtimeRate
	}
	return spend
}
