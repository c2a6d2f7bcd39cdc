package types

import (
	"fmt"
	"strings"
	"time"
)

// Valores padrão da configuração.
const (
	DefaultDataDir        = "data"
	DefaultStartYear      = 2000
	DefaultCurrency       = "EUR"
	DefaultBaseURL        = "https://www.numbeo.com/cost-of-living/historical-prices-by-country"
	DefaultUserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	DefaultTimeoutSeconds = 30
	DefaultDatasetFile    = "cost_of_living_all_years.csv"
	DefaultHabitsFile     = "habits_config.json"
	DefaultTop            = 10
)

// DefaultItemIDs are the Numbeo item ids requested for every year.
var DefaultItemIDs = []int{
	101, 100, 228, 224, 60, 66, 64, 62, 110, 118, 121, 14, 19, 17, 15, 11, 16, 113, 9, 12,
	8, 119, 111, 112, 115, 116, 13, 27, 26, 29, 28, 114, 6, 4, 5, 3, 2, 1, 7, 105,
	106, 44, 40, 42, 24, 20, 18, 109, 108, 107, 206, 25, 30, 33, 34,
}

// Supported report types.
var ValidReportTypes = []string{"csv", "json", "pdf"}

// Config represents the application configuration that can be loaded from a file.
type Config struct {
	DataDir        string   `json:"data_dir" yaml:"data_dir" toml:"data_dir"`
	StartYear      int      `json:"start_year" yaml:"start_year" toml:"start_year"`
	EndYear        int      `json:"end_year" yaml:"end_year" toml:"end_year"`
	Currency       string   `json:"currency" yaml:"currency" toml:"currency"`
	BaseURL        string   `json:"base_url" yaml:"base_url" toml:"base_url"`
	ItemIDs        []int    `json:"item_ids" yaml:"item_ids" toml:"item_ids"`
	UserAgent      string   `json:"user_agent" yaml:"user_agent" toml:"user_agent"`
	TimeoutSeconds int      `json:"timeout_seconds" yaml:"timeout_seconds" toml:"timeout_seconds"`
	Browser        bool     `json:"browser" yaml:"browser" toml:"browser"`
	DatasetFile    string   `json:"dataset_file" yaml:"dataset_file" toml:"dataset_file"`
	HabitsFile     string   `json:"habits_file" yaml:"habits_file" toml:"habits_file"`
	ReportType     []string `json:"report_type" yaml:"report_type" toml:"report_type"`
	Top            int      `json:"top" yaml:"top" toml:"top"`
	IncomeColumns  []string `json:"income_columns" yaml:"income_columns" toml:"income_columns"`
	IncomeKeywords []string `json:"income_keywords" yaml:"income_keywords" toml:"income_keywords"`
}

// DefaultConfig returns the configuration used when nothing else is given.
// The end year is the last complete year relative to now.
func DefaultConfig(now time.Time) *Config {
	return &Config{
		DataDir:        DefaultDataDir,
		StartYear:      DefaultStartYear,
		EndYear:        now.Year() - 1,
		Currency:       DefaultCurrency,
		BaseURL:        DefaultBaseURL,
		ItemIDs:        append([]int(nil), DefaultItemIDs...),
		UserAgent:      DefaultUserAgent,
		TimeoutSeconds: DefaultTimeoutSeconds,
		DatasetFile:    DefaultDatasetFile,
		HabitsFile:     DefaultHabitsFile,
		ReportType:     []string{"csv", "json"},
		Top:            DefaultTop,
		IncomeKeywords: []string{"income", "salary"},
	}
}

// Merge copies every non-zero field of other over c.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}
	if other.DataDir != "" {
		c.DataDir = other.DataDir
	}
	if other.StartYear != 0 {
		c.StartYear = other.StartYear
	}
	if other.EndYear != 0 {
		c.EndYear = other.EndYear
	}
	if other.Currency != "" {
		c.Currency = other.Currency
	}
	if other.BaseURL != "" {
		c.BaseURL = other.BaseURL
	}
	if len(other.ItemIDs) > 0 {
		c.ItemIDs = other.ItemIDs
	}
	if other.UserAgent != "" {
		c.UserAgent = other.UserAgent
	}
	if other.TimeoutSeconds != 0 {
		c.TimeoutSeconds = other.TimeoutSeconds
	}
	if other.Browser {
		c.Browser = true
	}
	if other.DatasetFile != "" {
		c.DatasetFile = other.DatasetFile
	}
	if other.HabitsFile != "" {
		c.HabitsFile = other.HabitsFile
	}
	if len(other.ReportType) > 0 {
		c.ReportType = other.ReportType
	}
	if other.Top != 0 {
		c.Top = other.Top
	}
	if len(other.IncomeColumns) > 0 {
		c.IncomeColumns = other.IncomeColumns
	}
	if len(other.IncomeKeywords) > 0 {
		c.IncomeKeywords = other.IncomeKeywords
	}
}

// ApplyArgs overrides the configuration with command-line arguments.
func (c *Config) ApplyArgs(args *CLIArgs) {
	if args == nil {
		return
	}
	c.Merge(&Config{
		DataDir:    args.Dir,
		StartYear:  args.StartYear,
		EndYear:    args.EndYear,
		Currency:   args.Currency,
		ReportType: args.ReportType,
		Top:        args.Top,
	})
	if args.Browser != nil {
		c.Browser = *args.Browser
	}
}

// Timeout returns the HTTP timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	var errors []string

	if strings.TrimSpace(c.DataDir) == "" {
		errors = append(errors, "data directory cannot be empty")
	}
	if c.StartYear < 1900 || c.StartYear > 2100 {
		errors = append(errors, fmt.Sprintf("invalid start year %d: must be between 1900 and 2100", c.StartYear))
	}
	if c.EndYear < 1900 || c.EndYear > 2100 {
		errors = append(errors, fmt.Sprintf("invalid end year %d: must be between 1900 and 2100", c.EndYear))
	}
	if c.StartYear > c.EndYear {
		errors = append(errors, fmt.Sprintf("start year %d is after end year %d", c.StartYear, c.EndYear))
	}
	if strings.TrimSpace(c.Currency) == "" {
		errors = append(errors, "currency cannot be empty")
	}
	if c.TimeoutSeconds < 1 {
		errors = append(errors, fmt.Sprintf("invalid timeout %ds: must be at least 1 second", c.TimeoutSeconds))
	}
	if c.Top < 1 {
		errors = append(errors, fmt.Sprintf("invalid top %d: must be at least 1", c.Top))
	}
	if c.DatasetFile == "" {
		errors = append(errors, "dataset file name cannot be empty")
	}
	if c.HabitsFile == "" {
		errors = append(errors, "habits file name cannot be empty")
	}
	for _, rt := range c.ReportType {
		valid := false
		for _, known := range ValidReportTypes {
			if rt == known {
				valid = true
				break
			}
		}
		if !valid {
			errors = append(errors, fmt.Sprintf("invalid report type '%s': must be one of %v", rt, ValidReportTypes))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}
