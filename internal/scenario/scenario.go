// Package scenario holds the per-round scenario catalog for the Adaptive
// Operations Lab. Each round teaches one decision theory; numeric flavour in
// the industry news varies per team from a seeded generator so neighbouring
// teams cannot copy each other's arithmetic.
package scenario

import (
	"fmt"
	"math/rand"

	"github.com/sanjayfuloria/simulation-game/internal/engine"
)

// MaxRound is the highest round with a dedicated scenario; later rounds fall
// back to round 1.
const MaxRound = 5

// Scenario describes one round's constraints and narrative.
type Scenario struct {
	ID                string
	Theory            string
	TheoryDescription string
	OptimalStrategy   string
	Constraints       engine.Constraints
	IndustryNews      []string
}

// ForRound returns the scenario for a round, with team-specific numeric
// variation drawn from teamSeed. Unknown rounds return the round 1 scenario.
func ForRound(round int, teamSeed int64) Scenario {
	rng := rand.New(rand.NewSource(teamSeed + int64(round)*1000))

	switch round {
	case 2:
		return prospectTheory(rng)
	case 3:
		return bayesianUpdating(rng)
	case 4:
		return multiCriteria(rng)
	case 5:
		return boundedRationality(rng)
	default:
		return expectedUtility(rng)
	}
}

// choose picks one option uniformly. Teams with different seeds land on
// different numeric variants of the same teaching point.
func choose[T any](rng *rand.Rand, options ...T) T {
	return options[rng.Intn(len(options))]
}

func expectedUtility(rng *rand.Rand) Scenario {
	supplierReliability := choose(rng, 55, 60, 65, 70)
	highDemandProb := choose(rng, 45, 50, 55, 60)
	highPayoff := choose(rng, 7500, 8000, 8500, 9000)
	lowPayoff := choose(rng, 1500, 2000, 2500, 3000)
	conservativePayoff := choose(rng, 3800, 4000, 4200, 4500)

	highEV := float64(highDemandProb)/100*float64(highPayoff) +
		(1-float64(highDemandProb)/100)*float64(lowPayoff)
	optimal := "Conservative"
	if highEV > float64(conservativePayoff) {
		optimal = "High-volume"
	}

	return Scenario{
		ID:                "S1-EUT",
		Theory:            "Expected Utility Theory",
		TheoryDescription: "Choose the option with the highest expected utility by computing probability × utility for each outcome.",
		OptimalStrategy:   optimal,
		Constraints: engine.Constraints{
			ForecastRange: map[string][2]int{"SKU-A": {450, 650}, "SKU-B": {250, 380}},
			Capacity:      map[string]int{"P1": 900},
			Costs: engine.Costs{
				UnitCost:            map[string]float64{"SKU-A": 12, "SKU-B": 9},
				OvertimeCostPerHour: map[string]float64{"_": 35},
				OutsourcingCost:     map[string]float64{"SKU-A": 20, "SKU-B": 16},
			},
			ServiceTargets: map[string]float64{"SKU-A": 0.95, "SKU-B": 0.9},
			CarbonCap:      1200,
			CashOnHand:     75000,
		},
		IndustryNews: []string{
			"THEORY: Expected Utility Theory - Evaluate choices under uncertainty",
			fmt.Sprintf("Supplier has %d%% chance of delivering on time, %d%% chance of 2-week delay", supplierReliability, 100-supplierReliability),
			fmt.Sprintf("High-volume production yields %d profit if demand is high (%d%% chance), %d if low", highPayoff, highDemandProb, lowPayoff),
			fmt.Sprintf("Conservative production yields %d profit regardless of demand", conservativePayoff),
			"Calculate expected values to determine optimal strategy (hint: compute probability × payoff for each outcome)",
		},
	}
}

func prospectTheory(rng *rand.Rand) Scenario {
	return Scenario{
		ID:                "S2-PT",
		Theory:            "Prospect Theory",
		TheoryDescription: "Losses loom larger than gains. Avoid excessive loss aversion that prevents optimal decisions.",
		OptimalStrategy:   "Risk-taking (Option B)",
		Constraints: engine.Constraints{
			ForecastRange: map[string][2]int{"SKU-A": {500, 750}, "SKU-B": {300, 450}, "SKU-C": {180, 260}},
			Capacity:      map[string]int{"P1": 950, "P2": 600},
			Costs: engine.Costs{
				UnitCost:            map[string]float64{"SKU-A": 12, "SKU-B": 9, "SKU-C": 7},
				OvertimeCostPerHour: map[string]float64{"_": 42},
				OutsourcingCost:     map[string]float64{"SKU-A": 22, "SKU-B": 17, "SKU-C": 12},
			},
			ServiceTargets: map[string]float64{"SKU-A": 0.96, "SKU-B": 0.92, "SKU-C": 0.9},
			CarbonCap:      1100,
			CashOnHand:     70000,
		},
		IndustryNews: []string{
			"THEORY: Prospect Theory - Recognize loss aversion bias",
			fmt.Sprintf("Option A: Guaranteed to avoid %d loss by maintaining excess inventory (costs %d)",
				choose(rng, 4500, 5000, 5500), choose(rng, 2800, 3000, 3200)),
			fmt.Sprintf("Option B: %d%% chance of %d gain, %d%% chance of %d loss",
				choose(rng, 45, 50, 55), choose(rng, 5500, 6000, 6500),
				choose(rng, 45, 50, 55), choose(rng, 1800, 2000, 2200)),
			"Loss-averse managers often choose the 'safe' option, but calculate the expected value of both",
			"Your decision framing affects choices: teams avoiding losses excessively will underperform over multiple rounds",
		},
	}
}

func bayesianUpdating(rng *rand.Rand) Scenario {
	return Scenario{
		ID:                "S3-Bayesian",
		Theory:            "Bayesian Updating",
		TheoryDescription: "Update beliefs continuously based on new evidence to improve forecasts and decisions.",
		OptimalStrategy:   "Bayesian updating",
		Constraints: engine.Constraints{
			ForecastRange: map[string][2]int{"SKU-A": {400, 600}, "SKU-B": {220, 360}, "SKU-C": {150, 240}},
			Capacity:      map[string]int{"P1": 800, "P2": 500},
			Costs: engine.Costs{
				UnitCost:            map[string]float64{"SKU-A": 11, "SKU-B": 8, "SKU-C": 6},
				OvertimeCostPerHour: map[string]float64{"_": 38},
				OutsourcingCost:     map[string]float64{"SKU-A": 20, "SKU-B": 15, "SKU-C": 11},
			},
			ServiceTargets: map[string]float64{"SKU-A": 0.95, "SKU-B": 0.93, "SKU-C": 0.9},
			CarbonCap:      1000,
			CashOnHand:     72000,
		},
		IndustryNews: []string{
			"THEORY: Bayesian Updating - Revise forecasts with new data",
			fmt.Sprintf("Initial forecast: %d%% chance demand will be 'high', %d%% 'low'",
				choose(rng, 55, 60, 65), choose(rng, 35, 40, 45)),
			fmt.Sprintf("New signal: Early order data shows %d%% of indicators point to 'high' demand",
				choose(rng, 65, 70, 75)),
			fmt.Sprintf("Signal reliability: Historical data shows this signal is %d%% accurate",
				choose(rng, 75, 80, 85)),
			"Update your prior belief using Bayes' rule: P(High|Signal) = P(Signal|High) × P(High) / P(Signal)",
			"Teams that properly update forecasts will set optimal production levels",
		},
	}
}

func multiCriteria(rng *rand.Rand) Scenario {
	return Scenario{
		ID:                "S4-MCDA",
		Theory:            "Multi-Criteria Decision Analysis",
		TheoryDescription: "Balance multiple competing objectives (cost, quality, time, sustainability) systematically.",
		OptimalStrategy:   "MCDA weighted scoring",
		Constraints: engine.Constraints{
			ForecastRange: map[string][2]int{"SKU-A": {520, 780}, "SKU-B": {320, 480}, "SKU-D": {200, 340}},
			Capacity:      map[string]int{"P1": 900, "P2": 650},
			Costs: engine.Costs{
				UnitCost:            map[string]float64{"SKU-A": 13, "SKU-B": 9, "SKU-D": 10},
				OvertimeCostPerHour: map[string]float64{"_": 45},
				OutsourcingCost:     map[string]float64{"SKU-A": 24, "SKU-B": 18, "SKU-D": 17},
			},
			ServiceTargets: map[string]float64{"SKU-A": 0.95, "SKU-B": 0.9, "SKU-D": 0.9},
			CarbonCap:      1150,
			CashOnHand:     68000,
		},
		IndustryNews: []string{
			"THEORY: Multi-Criteria Decision Analysis - Evaluate trade-offs",
			fmt.Sprintf("Supplier A: Cost (%dk), Quality (%d/10), Carbon (%dkg), Speed (%.1f weeks)",
				choose(rng, 95, 100, 105), choose(rng, 6, 7, 8), choose(rng, 750, 800, 850), choose(rng, 2.0, 2.5, 3.0)),
			fmt.Sprintf("Supplier B: Cost (%dk), Quality (%d/10), Carbon (%dkg), Speed (%.1f weeks)",
				choose(rng, 125, 130, 135), choose(rng, 8, 9, 9), choose(rng, 380, 400, 420), choose(rng, 3.0, 3.5, 4.0)),
			fmt.Sprintf("Supplier C: Cost (%dk), Quality (%d/10), Carbon (%dkg), Speed (%.1f weeks)",
				choose(rng, 145, 150, 155), choose(rng, 9, 9, 10), choose(rng, 330, 350, 370), choose(rng, 4.0, 4.5, 5.0)),
			fmt.Sprintf("Your company weights: Cost (%d%%), Quality (%d%%), Sustainability (%d%%), Speed (%d%%)",
				choose(rng, 25, 30, 35), choose(rng, 20, 25, 30), choose(rng, 20, 25, 30), choose(rng, 15, 20, 25)),
			"Normalize scores 0-100 for each criterion, then calculate weighted sum to identify best supplier",
		},
	}
}

func boundedRationality(rng *rand.Rand) Scenario {
	return Scenario{
		ID:                "S5-Bounded",
		Theory:            "Bounded Rationality & Satisficing",
		TheoryDescription: "Under time and information constraints, seek 'good enough' solutions rather than perfect optimization.",
		OptimalStrategy:   "Satisficing (Option A)",
		Constraints: engine.Constraints{
			ForecastRange: map[string][2]int{"SKU-A": {480, 700}, "SKU-B": {280, 420}, "SKU-C": {200, 320}, "SKU-D": {150, 260}},
			Capacity:      map[string]int{"P1": 950, "P2": 700},
			Costs: engine.Costs{
				UnitCost:            map[string]float64{"SKU-A": 12, "SKU-B": 9, "SKU-C": 7, "SKU-D": 9},
				OvertimeCostPerHour: map[string]float64{"_": 40},
				OutsourcingCost:     map[string]float64{"SKU-A": 21, "SKU-B": 17, "SKU-C": 12, "SKU-D": 15},
			},
			ServiceTargets: map[string]float64{"SKU-A": 0.96, "SKU-B": 0.92, "SKU-C": 0.91, "SKU-D": 0.9},
			CarbonCap:      1080,
			CashOnHand:     75000,
		},
		IndustryNews: []string{
			"THEORY: Bounded Rationality - Make timely 'good enough' decisions",
			fmt.Sprintf("Time pressure: Decision must be made in %d minutes", choose(rng, 8, 10, 12)),
			fmt.Sprintf("Incomplete information: Only %d%% of supplier data available", choose(rng, 55, 60, 65)),
			fmt.Sprintf("Option A meets %d%% of requirements and is immediately implementable (cost: %d)",
				choose(rng, 80, 85, 88), choose(rng, 2000, 2500, 3000)),
			fmt.Sprintf("Option B could meet %d%% but requires %.1f more hours of analysis (cost: %d + opportunity cost)",
				choose(rng, 92, 95, 97), choose(rng, 2.5, 3.0, 3.5), choose(rng, 1500, 2000, 2500)),
			fmt.Sprintf("Analysis paralysis penalty: Each hour of delay costs %d in lost opportunities",
				choose(rng, 800, 1000, 1200)),
			"Satisficing beats optimization when marginal gains don't justify time/information costs",
		},
	}
}
