package repository

import (
	"github.com/diillson/cost-of-living-go/internal/domain/entity"
)

// DatasetRepository persists the unified dataset as a delimited text file.
type DatasetRepository interface {
	Save(dataset *entity.Dataset) (string, error)
	Load() (*entity.Dataset, error)
}
