package repository

import (
	"github.com/diillson/cost-of-living-go/internal/domain/entity"
)

// HabitsRepository reads and bootstraps the consumption profile file.
type HabitsRepository interface {
	Path() string
	Exists() (bool, error)
	Load() (*entity.HabitProfile, error)
	// CreateTemplate writes a zero-valued profile unless the file already exists.
	// It reports whether a new file was written.
	CreateTemplate(categories []string) (bool, error)
}
