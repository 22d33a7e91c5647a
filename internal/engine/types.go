package engine

// Costs holds the per-SKU and per-hour cost tables for a scenario.
type Costs struct {
	UnitCost            map[string]float64 `json:"unit_cost"`
	OvertimeCostPerHour map[string]float64 `json:"overtime_cost_per_hour"`
	OutsourcingCost     map[string]float64 `json:"outsourcing_cost"`
}

// Constraints is the immutable scenario snapshot a decision is scored against.
type Constraints struct {
	ForecastRange  map[string][2]int  `json:"forecast_range"`
	Capacity       map[string]int     `json:"capacity"`
	Costs          Costs              `json:"costs"`
	ServiceTargets map[string]float64 `json:"service_targets"`
	CarbonCap      int                `json:"carbon_cap"`
	CashOnHand     float64            `json:"cash_on_hand"`
}

// PlantDecision captures one plant's production plan for a round.
//
// AllocationPriority is accepted but not consulted by the scoring math; it is
// preserved for forward compatibility with priority-aware allocation.
type PlantDecision struct {
	PlantID            string         `json:"plant_id"`
	ProductionQty      map[string]int `json:"production_qty"`
	OvertimeHours      int            `json:"overtime_hours"`
	OutsourcingQty     map[string]int `json:"outsourcing_qty"`
	AllocationPriority []string       `json:"allocation_priority"`
}

// InventoryPolicy carries per-SKU inventory targets and reorder triggers.
// Targets are echoed back as ending inventory; reorder triggers are unused by
// the scoring math.
type InventoryPolicy struct {
	Targets         map[string]int `json:"targets"`
	ReorderTriggers map[string]int `json:"reorder_triggers"`
}

// RoutingOverride redirects a share of one SKU between two locations.
type RoutingOverride struct {
	From  string  `json:"from"`
	To    string  `json:"to"`
	SKU   string  `json:"sku"`
	Ratio float64 `json:"ratio"`
}

// Decision is a team's full submission for one round.
type Decision struct {
	TeamID              string            `json:"team_id"`
	Round               int               `json:"round"`
	ScenarioID          string            `json:"scenario_id"`
	Seed                int64             `json:"seed"`
	Plants              []PlantDecision   `json:"plants"`
	InventoryPolicy     InventoryPolicy   `json:"inventory_policy"`
	TransportPriorities []string          `json:"transport_priorities"`
	RoutingOverrides    []RoutingOverride `json:"routing_overrides"`
	CapacityRules       map[string]string `json:"capacity_rules"`
	ConstraintsSnapshot Constraints       `json:"constraints_snapshot"`
}

// Message is a typed informational note attached to a result.
type Message struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}

// KPIs are the scored key performance indicators for a round.
type KPIs struct {
	Profit       float64            `json:"profit"`
	ServiceLevel map[string]float64 `json:"service_level"`
	Stockouts    map[string]int     `json:"stockouts"`
	WIP          int                `json:"wip"`
	Emissions    int                `json:"emissions"`
	Reputation   int                `json:"reputation"`
}

// Usage reports the resources a decision consumed.
type Usage struct {
	CapacityUsed      map[string]int `json:"capacity_used"`
	OvertimeUsedHours int            `json:"overtime_used_hours"`
	OutsourcingUsed   map[string]int `json:"outsourcing_used"`
	InventoryEnd      map[string]int `json:"inventory_end"`
	CashEnd           float64        `json:"cash_end"`
}

// Disruption is the narrative event attached to a round outcome. Its details
// are informational only and do not feed back into the scored KPIs.
type Disruption struct {
	Type    string         `json:"type"`
	Details map[string]any `json:"details"`
}

// Result is the scored outcome of one decision.
type Result struct {
	TeamID        string     `json:"team_id"`
	Round         int        `json:"round"`
	Feasible      bool       `json:"feasible"`
	Messages      []Message  `json:"messages"`
	KPIs          KPIs       `json:"kpis"`
	Usage         Usage      `json:"usage"`
	Disruption    Disruption `json:"disruption"`
	NextStateSeed int64      `json:"next_state_seed"`
}
