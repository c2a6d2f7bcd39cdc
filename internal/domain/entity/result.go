package entity

// CityYearResult is the annualized cost and income of one city in one year.
type CityYearResult struct {
	City           string             `json:"City"`
	Country        string             `json:"Country"`
	Year           int                `json:"Year"`
	AnnualCost     float64            `json:"AnnualCost"`
	AnnualIncome   float64            `json:"AnnualIncome"`
	IncomeResolved bool               `json:"-"`
	CostBreakdown  map[string]float64 `json:"CostBreakdown"`
}

// RankedCity is a latest-year result with its deviation from the mean.
type RankedCity struct {
	Result       CityYearResult `json:"result"`
	DeviationPct float64        `json:"deviation_pct"`
}

// Ranking holds the latest-year results sorted by ascending annual cost.
type Ranking struct {
	Year        int          `json:"year"`
	AverageCost float64      `json:"average_cost"`
	Entries     []RankedCity `json:"entries"`
}

// Cheapest returns up to n entries, cheapest first.
func (r *Ranking) Cheapest(n int) []RankedCity {
	if n > len(r.Entries) {
		n = len(r.Entries)
	}
	if n < 0 {
		n = 0
	}
	return r.Entries[:n]
}

// MostExpensive returns up to n entries, most expensive first.
func (r *Ranking) MostExpensive(n int) []RankedCity {
	if n > len(r.Entries) {
		n = len(r.Entries)
	}
	if n < 0 {
		n = 0
	}
	out := make([]RankedCity, 0, n)
	for i := len(r.Entries) - 1; i >= len(r.Entries)-n; i-- {
		out = append(out, r.Entries[i])
	}
	return out
}

// Diagnostic describes a value the engine could not use.
type Diagnostic struct {
	City      string `json:"city"`
	Category  string `json:"category"`
	Value     string `json:"value"`
	Origin    string `json:"origin"`
	ValueType string `json:"value_type"`
	Reason    string `json:"reason"`
}

// Origens possíveis de um Diagnostic.
const (
	OriginPrice    = "price"
	OriginQuantity = "quantity"
)

// CostReport is everything one aggregation run produces.
type CostReport struct {
	RunID       string           `json:"run_id"`
	LatestYear  int              `json:"latest_year"`
	Results     []CityYearResult `json:"results"`
	Ranking     Ranking          `json:"ranking"`
	Diagnostics []Diagnostic     `json:"diagnostics"`
}

// LatestResults returns the results of the latest year, in Results order.
func (c *CostReport) LatestResults() []CityYearResult {
	var out []CityYearResult
	for _, r := range c.Results {
		if r.Year == c.LatestYear {
			out = append(out, r)
		}
	}
	return out
}

// YearlyAverage is the mean annual cost of the qualifying cities of one year.
type YearlyAverage struct {
	Year        int     `json:"year"`
	AverageCost float64 `json:"average_cost"`
	Cities      int     `json:"cities"`
}
