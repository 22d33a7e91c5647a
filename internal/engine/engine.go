// Package engine implements the round-decision evaluation engine for the
// Adaptive Operations Lab.
package engine

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// Disruption categories, drawn uniformly per evaluation.
const (
	DisruptionMachineFailure = "machine_failure"
	DisruptionDemandSpike    = "demand_spike"
	DisruptionSupplierDelay  = "supplier_delay"
	DisruptionTransportDelay = "transport_delay"
)

// disruptionTypes fixes the category order consumed by the uniform draw.
var disruptionTypes = []string{
	DisruptionMachineFailure,
	DisruptionDemandSpike,
	DisruptionSupplierDelay,
	DisruptionTransportDelay,
}

// defaultUnitRevenueBase is the unit cost assumed for revenue when a SKU has
// no entry in the cost table.
const defaultUnitRevenueBase = 10

// revenueMarkup converts unit cost into unit revenue.
const revenueMarkup = 1.8

// Evaluate scores a round decision against a constraints snapshot.
//
// # Determinism
//
// Evaluate is deterministic with respect to (decision, constraints, seed):
// the same triple always produces an identical Result. All randomness comes
// from a single generator seeded once from seed; no wall clock or shared
// state is consulted, so concurrent evaluations need no coordination.
//
// # Draw order
//
// The generator is consumed in a fixed order, and reordering would change
// output for a given seed:
//
//  1. realized demand, one draw per forecast SKU in sorted SKU order
//  2. base emissions in [800, 1200]
//  3. disruption category, uniform over the four categories
//  4. delivery slip days in [1, 3], for transport_delay only
//  5. work-in-progress in [50, 200]
//  6. next-round seed in [10000, 99999]
//
// # Degradation
//
// Missing optional fields never cause a failure: absent quantities, costs, and
// SKU tables are treated as zero or empty, and SKUs missing from the forecast
// range are scored against zero demand.
func Evaluate(decision Decision, constraints Constraints, seed int64) Result {
	rng := rand.New(rand.NewSource(seed))

	demand := realizeDemand(rng, constraints.ForecastRange)

	production := make(map[string]int)
	outsourcingUsed := make(map[string]int)
	overtimeUsed := 0
	for _, plant := range decision.Plants {
		overtimeUsed += plant.OvertimeHours
		for sku, qty := range plant.OutsourcingQty {
			outsourcingUsed[sku] += qty
		}
		for sku, qty := range plant.ProductionQty {
			production[sku] += qty + plant.OutsourcingQty[sku]
		}
	}

	profit := profitOf(production, constraints.Costs, demand)

	serviceLevel := make(map[string]float64, len(production)+1)
	stockouts := make(map[string]int, len(production))
	for _, sku := range sortedKeys(production) {
		produced := production[sku]
		if produced == 0 {
			continue
		}
		realized := demand[sku]
		service := 1.0
		if realized > 0 {
			service = math.Min(float64(produced)/float64(realized), 1)
		}
		serviceLevel[sku] = round2(service)
		stockouts[sku] = max(0, realized-produced)
	}
	overall := 1.0
	if len(serviceLevel) > 0 {
		sum := 0.0
		for _, service := range serviceLevel {
			sum += service
		}
		overall = sum / float64(len(serviceLevel))
	}
	serviceLevel["overall"] = round2(overall)

	emissions := intBetween(rng, 800, 1200) + overtimeUsed/2
	reputation := max(0, 100-emissions/20)

	disruptionType := disruptionTypes[rng.Intn(len(disruptionTypes))]
	details := map[string]any{
		"note": "probabilistic outcome",
		"seed": seed,
	}
	switch disruptionType {
	case DisruptionMachineFailure:
		details["capacity_loss"] = 0.1
	case DisruptionDemandSpike:
		details["extra_demand_pct"] = 0.2
	case DisruptionSupplierDelay:
		details["outsourcing_cut"] = 0.15
	case DisruptionTransportDelay:
		details["delivery_slip_days"] = intBetween(rng, 1, 3)
	}

	wip := intBetween(rng, 50, 200)

	capacityUsed := make(map[string]int, len(decision.Plants))
	for _, plant := range decision.Plants {
		total := 0
		for _, qty := range plant.ProductionQty {
			total += qty
		}
		capacityUsed[plant.PlantID] = total
	}

	inventoryEnd := decision.InventoryPolicy.Targets
	if inventoryEnd == nil {
		inventoryEnd = map[string]int{}
	}

	return Result{
		TeamID:   decision.TeamID,
		Round:    decision.Round,
		Feasible: true,
		Messages: []Message{
			{Level: "info", Text: "Probabilistic demand realized"},
			{Level: "info", Text: fmt.Sprintf("Disruption: %s", disruptionType)},
		},
		KPIs: KPIs{
			Profit:       profit,
			ServiceLevel: serviceLevel,
			Stockouts:    stockouts,
			WIP:          wip,
			Emissions:    emissions,
			Reputation:   reputation,
		},
		Usage: Usage{
			CapacityUsed:      capacityUsed,
			OvertimeUsedHours: overtimeUsed,
			OutsourcingUsed:   outsourcingUsed,
			InventoryEnd:      inventoryEnd,
			CashEnd:           constraints.CashOnHand + profit,
		},
		Disruption: Disruption{
			Type:    disruptionType,
			Details: details,
		},
		NextStateSeed: int64(intBetween(rng, 10000, 99999)),
	}
}

// realizeDemand draws one uniform demand per forecast SKU, in sorted SKU order
// so the draw sequence is stable for a given seed.
func realizeDemand(rng *rand.Rand, forecastRange map[string][2]int) map[string]int {
	demand := make(map[string]int, len(forecastRange))
	for _, sku := range sortedKeys(forecastRange) {
		bounds := forecastRange[sku]
		demand[sku] = intBetween(rng, bounds[0], bounds[1])
	}
	return demand
}

// profitOf computes revenue minus cost over SKUs with nonzero production.
// Unsold units still incur their full production cost.
func profitOf(production map[string]int, costs Costs, demand map[string]int) float64 {
	revenue := 0.0
	cost := 0.0
	for _, sku := range sortedKeys(production) {
		produced := production[sku]
		if produced == 0 {
			continue
		}
		unitCost, ok := costs.UnitCost[sku]
		unitRevenue := unitCost * revenueMarkup
		if !ok {
			unitRevenue = defaultUnitRevenueBase * revenueMarkup
		}
		sold := min(produced, demand[sku])
		revenue += float64(sold) * unitRevenue
		cost += float64(produced) * unitCost
	}
	return round2(revenue - cost)
}

// intBetween draws a uniform integer in [low, high] inclusive. A degenerate
// range collapses to low.
func intBetween(rng *rand.Rand, low, high int) int {
	if high <= low {
		return low
	}
	return low + rng.Intn(high-low+1)
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
