package types

import "errors"

var (
	ErrNoData             = errors.New("no data was collected for any year")
	ErrYearUnavailable    = errors.New("data unavailable for year")
	ErrDatasetNotFound    = errors.New("dataset file not found. Run 'coli fetch' first")
	ErrHabitsNotFound     = errors.New("consumption habits file not found. Run 'coli fetch' to create it")
	ErrHabitsUnconfigured = errors.New("consumption habits file has not been edited yet")
)
