package usecase

import (
	"fmt"
	"sort"

	"github.com/diillson/cost-of-living-go/internal/domain/entity"
)

const monthsPerYear = 12

// CostEngine turns a dataset and a consumption profile into annual costs per city and year.
// It holds no state between calls.
type CostEngine struct {
	income IncomeMatcher
}

// NewCostEngine creates a new CostEngine.
func NewCostEngine(income IncomeMatcher) *CostEngine {
	return &CostEngine{income: income}
}

// IsUnconfigured reports whether every quantity of the profile is exactly zero.
// Non-numeric values count as edited.
func IsUnconfigured(habits *entity.HabitProfile) bool {
	for _, e := range habits.Entries {
		q, err := ParseQuantity(e.Raw)
		if err != nil || q != 0 {
			return false
		}
	}
	return true
}

// Aggregate computes one CityYearResult per (city, year) with a positive annual cost.
//
// Years are processed in ascending order and cities alphabetically within a year.
// Only the first row of a city in a given year is used. Diagnostics are produced
// for unusable values of the latest year only.
func (e *CostEngine) Aggregate(dataset *entity.Dataset, habits *entity.HabitProfile) ([]entity.CityYearResult, []entity.Diagnostic) {
	latestYear := dataset.LatestYear()
	incomeColumn, hasIncome := e.income.Column(dataset.Columns)
	hasCountry := dataset.HasColumn(entity.ColumnCountry)

	var results []entity.CityYearResult
	var diagnostics []entity.Diagnostic

	for _, year := range dataset.Years() {
		for _, record := range firstRecordPerCity(dataset.Records, year) {
			country := record.Country
			if !hasCountry {
				country = "N/A"
			}

			result := entity.CityYearResult{
				City:          record.City,
				Country:       country,
				Year:          year,
				CostBreakdown: make(map[string]float64),
			}

			if hasIncome {
				result.AnnualIncome, result.IncomeResolved = annualIncome(record, incomeColumn)
			}

			for _, habit := range habits.Entries {
				if entity.IsIdentityColumn(habit.Category) || e.income.IsIncomeLike(habit.Category) {
					continue
				}
				cost, applies, diag := categoryCost(record, habit)
				if diag != nil {
					if year == latestYear {
						diagnostics = append(diagnostics, *diag)
					}
					continue
				}
				if !applies {
					continue
				}
				result.AnnualCost += cost
				result.CostBreakdown[habit.Category] = cost
			}

			if result.AnnualCost > 0 {
				results = append(results, result)
			}
		}
	}

	return results, diagnostics
}

// firstRecordPerCity returns the first record of every city for year, sorted by city name.
func firstRecordPerCity(records []entity.PriceRecord, year int) []entity.PriceRecord {
	seen := make(map[string]bool)
	var out []entity.PriceRecord
	for _, r := range records {
		if r.Year != year || seen[r.City] {
			continue
		}
		seen[r.City] = true
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].City < out[j].City
	})
	return out
}

// annualIncome reads the monthly income of the row and annualizes it.
func annualIncome(record entity.PriceRecord, column string) (float64, bool) {
	raw, ok := record.Value(column)
	if !ok {
		return 0, false
	}
	monthly, err := ParseAmount(raw)
	if err != nil {
		return 0, false
	}
	return monthly * monthsPerYear, true
}

// categoryCost returns the annual cost of one habit for a row.
// applies is false when the row has no value for the category or the quantity is not positive.
// A zero price with a positive quantity applies with a zero cost.
func categoryCost(record entity.PriceRecord, habit entity.HabitEntry) (float64, bool, *entity.Diagnostic) {
	raw, present := record.Value(habit.Category)
	if !present {
		return 0, false, nil
	}

	quantity, err := ParseQuantity(habit.Raw)
	if err != nil {
		return 0, false, &entity.Diagnostic{
			City:      record.City,
			Category:  habit.Category,
			Value:     habit.Raw,
			Origin:    entity.OriginQuantity,
			ValueType: jsonValueType(habit.Raw),
			Reason:    err.Error(),
		}
	}
	if quantity <= 0 {
		return 0, false, nil
	}

	price, err := ParseAmount(raw)
	if err != nil {
		return 0, false, &entity.Diagnostic{
			City:      record.City,
			Category:  habit.Category,
			Value:     raw,
			Origin:    entity.OriginPrice,
			ValueType: "string",
			Reason:    err.Error(),
		}
	}

	return price * quantity * monthsPerYear, true, nil
}

// BuildRanking sorts the results of year by ascending cost and computes each
// city's deviation from the mean, (cost - mean) / mean * 100.
func BuildRanking(results []entity.CityYearResult, year int) entity.Ranking {
	ranking := entity.Ranking{Year: year}

	var latest []entity.CityYearResult
	var total float64
	for _, r := range results {
		if r.Year == year {
			latest = append(latest, r)
			total += r.AnnualCost
		}
	}
	if len(latest) == 0 {
		return ranking
	}

	sort.SliceStable(latest, func(i, j int) bool {
		return latest[i].AnnualCost < latest[j].AnnualCost
	})

	ranking.AverageCost = total / float64(len(latest))
	ranking.Entries = make([]entity.RankedCity, len(latest))
	for i, r := range latest {
		ranking.Entries[i] = entity.RankedCity{
			Result:       r,
			DeviationPct: (r.AnnualCost - ranking.AverageCost) / ranking.AverageCost * 100,
		}
	}
	return ranking
}

// YearlyAverages returns the mean annual cost of every year with results, oldest first.
func YearlyAverages(results []entity.CityYearResult) []entity.YearlyAverage {
	sums := make(map[int]float64)
	counts := make(map[int]int)
	var years []int
	for _, r := range results {
		if counts[r.Year] == 0 {
			years = append(years, r.Year)
		}
		sums[r.Year] += r.AnnualCost
		counts[r.Year]++
	}
	sort.Ints(years)

	averages := make([]entity.YearlyAverage, 0, len(years))
	for _, y := range years {
		averages = append(averages, entity.YearlyAverage{
			Year:        y,
			AverageCost: sums[y] / float64(counts[y]),
			Cities:      counts[y],
		})
	}
	return averages
}

// describeDiagnostic formats a diagnostic for the console.
func describeDiagnostic(d entity.Diagnostic) string {
	return fmt.Sprintf("Error processing category '%s' for city '%s': %s (%s value: %s, type: %s)",
		d.Category, d.City, d.Reason, d.Origin, d.Value, d.ValueType)
}
