package repository

import (
	"github.com/diillson/cost-of-living-go/internal/shared/types"
)

// ConfigRepository defines the interface for loading configuration files.
type ConfigRepository interface {
	LoadConfigFile(filePath string) (*types.Config, error)
	// LoadEnv reads an optional .env file and the COLI_* environment variables.
	LoadEnv(envFile string) (*types.Config, error)
}
