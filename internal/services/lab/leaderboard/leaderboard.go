// Package leaderboard aggregates scored results into a cumulative ranking.
package leaderboard

import (
	"math"
	"sort"

	"github.com/sanjayfuloria/simulation-game/internal/services/lab/storage"
)

// Entry is one team's cumulative standing.
type Entry struct {
	Rank          int     `json:"rank"`
	TeamID        string  `json:"team_id"`
	TeamName      string  `json:"team_name,omitempty"`
	RoundsPlayed  int     `json:"rounds_played"`
	TotalProfit   float64 `json:"total_profit"`
	AvgServicePct float64 `json:"avg_service_pct"`
	AvgEmissions  float64 `json:"avg_emissions"`
	AvgReputation float64 `json:"avg_reputation"`
	FinalCash     float64 `json:"final_cash"`
}

type accumulator struct {
	teamID       string
	profit       float64
	service      []float64
	emissions    []float64
	reputation   []float64
	finalCash    float64
	hasCash      bool
	roundsPlayed int
	firstSeen    int
}

// Build folds result records into ranked entries, ordered by total profit
// with average service level breaking ties. Records are expected in
// chronological order so the final cash reflects the latest round.
func Build(records []storage.ResultRecord, teamNames map[string]string) []Entry {
	byTeam := make(map[string]*accumulator)
	for i, record := range records {
		if record.TeamID == "" {
			continue
		}
		agg, ok := byTeam[record.TeamID]
		if !ok {
			agg = &accumulator{teamID: record.TeamID, firstSeen: i}
			byTeam[record.TeamID] = agg
		}
		kpis := record.Payload.KPIs
		agg.profit += kpis.Profit
		agg.roundsPlayed++
		if overall, ok := kpis.ServiceLevel["overall"]; ok {
			agg.service = append(agg.service, overall)
		}
		agg.emissions = append(agg.emissions, float64(kpis.Emissions))
		agg.reputation = append(agg.reputation, float64(kpis.Reputation))
		agg.finalCash = record.Payload.Usage.CashEnd
		agg.hasCash = true
	}

	entries := make([]Entry, 0, len(byTeam))
	order := make(map[string]int, len(byTeam))
	for teamID, agg := range byTeam {
		order[teamID] = agg.firstSeen
		entries = append(entries, Entry{
			TeamID:        teamID,
			TeamName:      teamNames[teamID],
			RoundsPlayed:  agg.roundsPlayed,
			TotalProfit:   math.Round(agg.profit),
			AvgServicePct: roundTo(mean(agg.service)*100, 1),
			AvgEmissions:  math.Round(mean(agg.emissions)),
			AvgReputation: math.Round(mean(agg.reputation)),
			FinalCash:     math.Round(agg.finalCash),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].TotalProfit != entries[j].TotalProfit {
			return entries[i].TotalProfit > entries[j].TotalProfit
		}
		if entries[i].AvgServicePct != entries[j].AvgServicePct {
			return entries[i].AvgServicePct > entries[j].AvgServicePct
		}
		return order[entries[i].TeamID] < order[entries[j].TeamID]
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func roundTo(value float64, places int) float64 {
	shift := math.Pow(10, float64(places))
	return math.Round(value*shift) / shift
}
