package repository

import (
	"github.com/diillson/cost-of-living-go/internal/domain/entity"
)

// ExportRepository writes the report artifacts and returns their absolute paths.
type ExportRepository interface {
	ExportAllYearsToCSV(results []entity.CityYearResult) (string, error)
	ExportBreakdownToJSON(year int, results []entity.CityYearResult) (string, error)
	ExportRankingToPDF(ranking entity.Ranking, runID string) (string, error)
}
