package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"

	"github.com/diillson/cost-of-living-go/internal/domain/repository"
	"github.com/diillson/cost-of-living-go/internal/shared/types"
)

// EnvPrefix prefixa todas as variáveis de ambiente lidas pela aplicação.
const EnvPrefix = "COLI_"

// ConfigRepositoryImpl implementa o ConfigRepository.
type ConfigRepositoryImpl struct{}

// NewConfigRepository cria uma nova implementação do ConfigRepository.
func NewConfigRepository() repository.ConfigRepository {
	return &ConfigRepositoryImpl{}
}

// LoadConfigFile carrega um arquivo de configuração TOML, YAML ou JSON.
func (r *ConfigRepositoryImpl) LoadConfigFile(filePath string) (*types.Config, error) {
	fileExtension := filepath.Ext(filePath)
	fileExtension = strings.ToLower(fileExtension)

	// Verifica se o arquivo existe
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("error accessing config file: %w", err)
	}

	if fileInfo.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not a file", filePath)
	}

	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config types.Config

	switch fileExtension {
	case ".toml":
		if err := toml.Unmarshal(fileData, &config); err != nil {
			return nil, fmt.Errorf("error parsing TOML file: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(fileData, &config); err != nil {
			return nil, fmt.Errorf("error parsing YAML file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(fileData, &config); err != nil {
			return nil, fmt.Errorf("error parsing JSON file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s", fileExtension)
	}

	return &config, nil
}

// LoadEnv carrega o arquivo .env opcional e lê as variáveis COLI_*.
// Variáveis já definidas no ambiente têm precedência sobre o arquivo.
func (r *ConfigRepositoryImpl) LoadEnv(envFile string) (*types.Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error loading %s: %w", envFile, err)
		}
	}

	var problems []string
	getInt := func(key string) int {
		value := getEnv(key)
		if value == "" {
			return 0
		}
		i, err := strconv.Atoi(value)
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s%s must be an integer, got '%s'", EnvPrefix, key, value))
			return 0
		}
		return i
	}

	config := &types.Config{
		DataDir:        getEnv("DATA_DIR"),
		StartYear:      getInt("START_YEAR"),
		EndYear:        getInt("END_YEAR"),
		Currency:       getEnv("CURRENCY"),
		BaseURL:        getEnv("BASE_URL"),
		UserAgent:      getEnv("USER_AGENT"),
		TimeoutSeconds: getInt("TIMEOUT_SECONDS"),
		DatasetFile:    getEnv("DATASET_FILE"),
		HabitsFile:     getEnv("HABITS_FILE"),
		ReportType:     getEnvList("REPORT_TYPE"),
		Top:            getInt("TOP"),
		IncomeColumns:  getEnvList("INCOME_COLUMNS"),
		IncomeKeywords: getEnvList("INCOME_KEYWORDS"),
	}

	if value := getEnv("BROWSER"); value != "" {
		b, err := strconv.ParseBool(value)
		if err != nil {
			problems = append(problems, fmt.Sprintf("%sBROWSER must be a boolean, got '%s'", EnvPrefix, value))
		}
		config.Browser = b
	}

	if len(problems) > 0 {
		return nil, fmt.Errorf("invalid environment:\n- %s", strings.Join(problems, "\n- "))
	}

	return config, nil
}

func getEnv(key string) string {
	return strings.TrimSpace(os.Getenv(EnvPrefix + key))
}

func getEnvList(key string) []string {
	value := getEnv(key)
	if value == "" {
		return nil
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
