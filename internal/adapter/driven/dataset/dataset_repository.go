package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/diillson/cost-of-living-go/internal/domain/entity"
	"github.com/diillson/cost-of-living-go/internal/domain/repository"
	"github.com/diillson/cost-of-living-go/internal/shared/types"
)

// Separator is the field delimiter of the unified dataset file.
const Separator = ';'

// DatasetRepositoryImpl stores the dataset as a ';' separated file inside the data directory.
type DatasetRepositoryImpl struct {
	path string
}

// NewDatasetRepository creates a dataset repository for dataDir/fileName.
func NewDatasetRepository(dataDir, fileName string) repository.DatasetRepository {
	return &DatasetRepositoryImpl{path: filepath.Join(dataDir, fileName)}
}

// Save overwrites the dataset file and returns its absolute path.
func (r *DatasetRepositoryImpl) Save(dataset *entity.Dataset) (_ string, err error) {
	if err := os.MkdirAll(filepath.Dir(r.path), 0755); err != nil {
		return "", fmt.Errorf("error creating data directory: %w", err)
	}

	file, err := os.Create(r.path)
	if err != nil {
		return "", fmt.Errorf("error creating dataset file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("error closing dataset file: %w", cerr)
		}
	}()

	writer := csv.NewWriter(file)
	writer.Comma = Separator

	if err := writer.Write(dataset.Columns); err != nil {
		return "", fmt.Errorf("error writing dataset header: %w", err)
	}

	record := make([]string, len(dataset.Columns))
	for _, row := range dataset.Records {
		for i, column := range dataset.Columns {
			record[i] = row.Values[column]
		}
		if err := writer.Write(record); err != nil {
			return "", fmt.Errorf("error writing dataset row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("error flushing dataset file: %w", err)
	}

	return filepath.Abs(r.path)
}

// Load reads the dataset file back. A missing file yields types.ErrDatasetNotFound.
func (r *DatasetRepositoryImpl) Load() (*entity.Dataset, error) {
	file, err := os.Open(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w (expected at %s)", types.ErrDatasetNotFound, r.path)
		}
		return nil, fmt.Errorf("error opening dataset file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = Separator
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("dataset file %s is empty", r.path)
	}
	if err != nil {
		return nil, fmt.Errorf("error reading dataset header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	yearIdx := indexOf(header, entity.ColumnYear)
	if yearIdx < 0 {
		return nil, fmt.Errorf("dataset file %s has no %s column", r.path, entity.ColumnYear)
	}

	dataset := &entity.Dataset{Columns: header}

	for line := 2; ; line++ {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading dataset line %d: %w", line, err)
		}

		year, err := strconv.Atoi(strings.TrimSpace(fields[yearIdx]))
		if err != nil {
			return nil, fmt.Errorf("dataset line %d: invalid year %q", line, fields[yearIdx])
		}

		values := make(map[string]string, len(header))
		for i, column := range header {
			values[column] = fields[i]
		}

		dataset.Records = append(dataset.Records, entity.PriceRecord{
			City:    values[entity.ColumnCity],
			Country: values[entity.ColumnCountry],
			Year:    year,
			Values:  values,
		})
	}

	return dataset, nil
}

func indexOf(columns []string, name string) int {
	for i, c := range columns {
		if c == name {
			return i
		}
	}
	return -1
}
