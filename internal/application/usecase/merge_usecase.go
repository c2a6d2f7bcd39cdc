package usecase

import (
	"context"
	"fmt"
	"strconv"

	"github.com/diillson/cost-of-living-go/internal/domain/entity"
	"github.com/diillson/cost-of-living-go/internal/domain/repository"
	"github.com/diillson/cost-of-living-go/internal/shared/types"
)

// MergeUseCase downloads yearly tables and merges them into one dataset.
type MergeUseCase struct {
	source  repository.SourceRepository
	console types.ConsoleInterface
}

// NewMergeUseCase creates a new MergeUseCase.
func NewMergeUseCase(source repository.SourceRepository, console types.ConsoleInterface) *MergeUseCase {
	return &MergeUseCase{source: source, console: console}
}

// DownloadHistoricalData fetches every year from endYear down to startYear.
//
// The first year that cannot be retrieved ends the download: older years are
// never requested. The merged dataset keeps descending year order and the
// source's row order within a year. When no year succeeds it returns
// types.ErrNoData.
func (uc *MergeUseCase) DownloadHistoricalData(ctx context.Context, startYear, endYear int) (*entity.Dataset, error) {
	if startYear > endYear {
		return nil, fmt.Errorf("start year %d is after end year %d", startYear, endYear)
	}

	merged := newDatasetBuilder()

	progress := uc.console.ProgressWithTotal(endYear - startYear + 1)
	defer progress.Stop()

	for year := endYear; year >= startYear; year-- {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		uc.console.LogInfo("Fetching data for year %d...", year)
		table, err := uc.source.FetchYear(ctx, year)
		if err == nil && (table == nil || len(table.Rows) == 0) {
			err = fmt.Errorf("%w %d: empty table", types.ErrYearUnavailable, year)
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			uc.console.LogWarning("Failed to fetch data for year %d: %s", year, err)
			uc.console.LogInfo("Stopping historical data collection")
			break
		}

		merged.add(year, table)
		progress.Increment()
		uc.console.LogSuccess("Data for year %d fetched successfully (%d rows)", year, len(table.Rows))
	}

	if len(merged.dataset.Records) == 0 {
		return nil, types.ErrNoData
	}
	return merged.build(), nil
}

// datasetBuilder accumulates yearly tables, keeping the union of columns in first-seen order.
type datasetBuilder struct {
	dataset *entity.Dataset
	seen    map[string]bool
}

func newDatasetBuilder() *datasetBuilder {
	return &datasetBuilder{
		dataset: &entity.Dataset{},
		seen:    map[string]bool{entity.ColumnYear: true},
	}
}

func (b *datasetBuilder) add(year int, table *entity.YearTable) {
	for _, c := range table.Columns {
		if !b.seen[c] {
			b.seen[c] = true
			b.dataset.Columns = append(b.dataset.Columns, c)
		}
	}

	yearStr := strconv.Itoa(year)
	for _, row := range table.Rows {
		values := make(map[string]string, len(row)+1)
		for k, v := range row {
			values[k] = v
		}
		values[entity.ColumnYear] = yearStr

		b.dataset.Records = append(b.dataset.Records, entity.PriceRecord{
			City:    row[entity.ColumnCity],
			Country: row[entity.ColumnCountry],
			Year:    year,
			Values:  values,
		})
	}
}

func (b *datasetBuilder) build() *entity.Dataset {
	b.dataset.Columns = append(b.dataset.Columns, entity.ColumnYear)
	return b.dataset
}
