package repository

import (
	"context"

	"github.com/diillson/cost-of-living-go/internal/domain/entity"
)

// SourceRepository fetches the combined price and income table for one year.
// Any failure means the year is unavailable.
type SourceRepository interface {
	FetchYear(ctx context.Context, year int) (*entity.YearTable, error)
}
