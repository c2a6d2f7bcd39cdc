package usecase

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/diillson/cost-of-living-go/internal/domain/entity"
	"github.com/diillson/cost-of-living-go/internal/shared/types"
)

const testRunID = "4f1c2b7e-0000-4000-8000-000000000001"

type reportFixture struct {
	source  *fakeSource
	dataset *fakeDatasetRepo
	habits  *fakeHabitsRepo
	export  *fakeExportRepo
	config  *fakeConfigRepo
	console *recordingConsole
	uc      *ReportUseCase
	seenCfg *types.Config
}

func newReportFixture() *reportFixture {
	f := &reportFixture{
		source: &fakeSource{tables: map[int]*entity.YearTable{
			2023: newYearTable([]string{"City", "Country", "Rent", "Average Monthly Net Salary (After Tax)"},
				[]string{"Rome", "Italy", "900", "1,700"},
				[]string{"Oslo", "Norway", "1500", "3,400"},
			),
			2022: newYearTable([]string{"City", "Country", "Rent", "Average Monthly Net Salary (After Tax)"},
				[]string{"Rome", "Italy", "850", "1,650"},
			),
		}},
		dataset: &fakeDatasetRepo{},
		habits:  &fakeHabitsRepo{},
		export:  &fakeExportRepo{},
		config:  &fakeConfigRepo{},
		console: &recordingConsole{},
	}

	factory := func(cfg *types.Config) (*Repositories, error) {
		f.seenCfg = cfg
		return &Repositories{Source: f.source, Dataset: f.dataset, Habits: f.habits, Export: f.export}, nil
	}

	f.uc = NewReportUseCase(f.config, factory, f.console)
	f.uc.now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }
	f.uc.newRunID = func() string { return testRunID }
	return f
}

func TestReportUseCase_RunReport_FullPipeline(t *testing.T) {
	f := newReportFixture()
	f.habits.profile = newProfile("Rent", "1", "Average Monthly Net Salary (After Tax)", "0")

	err := f.uc.RunReport(context.Background(), &types.CLIArgs{StartYear: 2022})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.dataset.saved == nil || len(f.dataset.saved.Records) != 3 {
		t.Fatalf("expected the merged dataset to be saved, got %+v", f.dataset.saved)
	}
	if len(f.habits.templates) != 0 {
		t.Error("an existing habits file must not be replaced")
	}
	if want := []string{"csv", "json"}; !reflect.DeepEqual(f.export.calls, want) {
		t.Errorf("export calls = %v, want %v", f.export.calls, want)
	}
	if len(f.export.csvResults) != 3 {
		t.Errorf("CSV should receive every year, got %d results", len(f.export.csvResults))
	}
	if f.export.jsonYear != 2023 || len(f.export.jsonResults) != 2 {
		t.Errorf("JSON should receive the 2023 results, got year %d with %d results", f.export.jsonYear, len(f.export.jsonResults))
	}
	for _, r := range f.export.jsonResults {
		if !r.IncomeResolved {
			t.Errorf("%s: income should be resolved", r.City)
		}
	}
	if len(f.console.trends) != 1 || len(f.console.trends[0]) != 2 {
		t.Errorf("expected a trend with two years, got %v", f.console.trends)
	}
	if len(f.console.tables) != 2 {
		t.Errorf("expected the cheapest and most expensive tables, got %d", len(f.console.tables))
	}
	if !strings.Contains(f.console.infos[0], testRunID) {
		t.Errorf("run id should be logged first, got %q", f.console.infos[0])
	}
}

func TestReportUseCase_RunReport_FirstRunCreatesTemplate(t *testing.T) {
	f := newReportFixture()

	err := f.uc.RunReport(context.Background(), &types.CLIArgs{StartYear: 2022})
	if err != nil {
		t.Fatalf("an unedited profile is not an error, got %v", err)
	}

	if len(f.habits.templates) != 1 {
		t.Fatalf("expected the template to be created once, got %d", len(f.habits.templates))
	}
	want := []string{"Rent", "Average Monthly Net Salary (After Tax)"}
	if !reflect.DeepEqual(f.habits.templates[0], want) {
		t.Errorf("template categories = %v, want %v", f.habits.templates[0], want)
	}
	if len(f.export.calls) != 0 {
		t.Errorf("no report should be written, got %v", f.export.calls)
	}
	if !f.console.hasWarning("has not been modified") {
		t.Errorf("expected the unconfigured warning, got %v", f.console.warnings)
	}
}

func TestReportUseCase_RunReport_FetchOnly(t *testing.T) {
	f := newReportFixture()
	f.habits.profile = newProfile("Rent", "1")

	err := f.uc.RunReport(context.Background(), &types.CLIArgs{StartYear: 2022, FetchOnly: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.dataset.saved == nil {
		t.Error("dataset should be saved")
	}
	if len(f.export.calls) != 0 {
		t.Errorf("fetch only must not export, got %v", f.export.calls)
	}
}

func TestReportUseCase_RunReport_SkipFetch(t *testing.T) {
	tests := []struct {
		name    string
		stored  *entity.Dataset
		loadErr error
		profile *entity.HabitProfile
		wantErr error
	}{
		{
			name:    "dataset missing",
			loadErr: fmt.Errorf("%w (expected at data/x.csv)", types.ErrDatasetNotFound),
			profile: newProfile("Rent", "1"),
			wantErr: types.ErrDatasetNotFound,
		},
		{
			name:    "habits missing",
			stored:  newDataset([]string{"City", "Rent", "Year"}, []string{"Rome", "900", "2023"}),
			wantErr: types.ErrHabitsNotFound,
		},
		{
			name:    "stored dataset",
			stored:  newDataset([]string{"City", "Rent", "Year"}, []string{"Rome", "900", "2023"}),
			profile: newProfile("Rent", "2"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newReportFixture()
			f.dataset.stored = tt.stored
			f.dataset.loadErr = tt.loadErr
			f.habits.profile = tt.profile

			err := f.uc.RunReport(context.Background(), &types.CLIArgs{SkipFetch: true})

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(f.source.requested) != 0 {
				t.Errorf("report must not download, requested %v", f.source.requested)
			}
			if len(f.export.jsonResults) != 1 || !almostEqual(f.export.jsonResults[0].AnnualCost, 21600) {
				t.Errorf("unexpected JSON results %+v", f.export.jsonResults)
			}
		})
	}
}

func TestReportUseCase_RunReport_PDFCarriesRunID(t *testing.T) {
	f := newReportFixture()
	f.habits.profile = newProfile("Rent", "1")

	err := f.uc.RunReport(context.Background(), &types.CLIArgs{StartYear: 2022, ReportType: []string{"pdf"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []string{"pdf"}; !reflect.DeepEqual(f.export.calls, want) {
		t.Errorf("export calls = %v, want %v", f.export.calls, want)
	}
	if f.export.pdfRunID != testRunID {
		t.Errorf("pdf run id = %q, want %q", f.export.pdfRunID, testRunID)
	}
	if f.export.pdfRanking.Year != 2023 || len(f.export.pdfRanking.Entries) != 2 {
		t.Errorf("unexpected ranking %+v", f.export.pdfRanking)
	}
}

func TestReportUseCase_RunReport_EmptyLatestYear(t *testing.T) {
	f := newReportFixture()
	f.dataset.stored = newDataset([]string{"City", "Rent", "Food", "Year"},
		[]string{"Rome", "900", "", "2022"},
		[]string{"Rome", "", "300", "2023"},
	)
	f.habits.profile = newProfile("Rent", "1")

	err := f.uc.RunReport(context.Background(), &types.CLIArgs{SkipFetch: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !f.console.hasWarning("No city has enough data to compute a cost for 2023") {
		t.Errorf("expected the empty ranking warning, got %v", f.console.warnings)
	}
	if f.export.jsonYear != 2023 || len(f.export.jsonResults) != 0 {
		t.Errorf("expected an empty 2023 breakdown, got year %d with %+v", f.export.jsonYear, f.export.jsonResults)
	}
}

func TestReportUseCase_ResolveConfig(t *testing.T) {
	tests := []struct {
		name    string
		file    *types.Config
		env     *types.Config
		args    *types.CLIArgs
		check   func(t *testing.T, cfg *types.Config)
		wantErr string
	}{
		{
			name: "defaults",
			args: &types.CLIArgs{},
			check: func(t *testing.T, cfg *types.Config) {
				if cfg.StartYear != types.DefaultStartYear || cfg.EndYear != 2023 {
					t.Errorf("years = %d-%d, want %d-2023", cfg.StartYear, cfg.EndYear, types.DefaultStartYear)
				}
				if cfg.Currency != "EUR" || cfg.Top != 10 || cfg.DataDir != "data" {
					t.Errorf("unexpected defaults %+v", cfg)
				}
			},
		},
		{
			name: "file then env then flags",
			file: &types.Config{Top: 5, Currency: "USD", DataDir: "from-file"},
			env:  &types.Config{Currency: "GBP"},
			args: &types.CLIArgs{ConfigFile: "coli.toml", Top: 3},
			check: func(t *testing.T, cfg *types.Config) {
				if cfg.Top != 3 {
					t.Errorf("flag should win: Top = %d", cfg.Top)
				}
				if cfg.Currency != "GBP" {
					t.Errorf("env should override the file: Currency = %s", cfg.Currency)
				}
				if cfg.DataDir != "from-file" {
					t.Errorf("file should override defaults: DataDir = %s", cfg.DataDir)
				}
			},
		},
		{
			name: "browser flag can disable file setting",
			file: &types.Config{Browser: true},
			args: &types.CLIArgs{ConfigFile: "coli.yaml", Browser: boolPtr(false)},
			check: func(t *testing.T, cfg *types.Config) {
				if cfg.Browser {
					t.Error("explicit --browser=false should win")
				}
			},
		},
		{
			name:    "missing config file",
			args:    &types.CLIArgs{ConfigFile: "missing.toml"},
			wantErr: "not found",
		},
		{
			name:    "invalid range",
			args:    &types.CLIArgs{StartYear: 2030},
			wantErr: "start year 2030 is after end year 2023",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newReportFixture()
			f.config.file = tt.file
			f.config.env = tt.env

			cfg, err := f.uc.ResolveConfig(tt.args)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, cfg)
		})
	}
}

func boolPtr(b bool) *bool { return &b }

func TestReportUseCase_RunReport_TwoYearsOneCity(t *testing.T) {
	f := newReportFixture()
	f.dataset.stored = newDataset([]string{"City", "Country", "Rent", "Year"},
		[]string{"CityB", "Spain", "100", "2023"},
		[]string{"CityB", "Spain", "100", "2022"},
	)
	f.habits.profile = newProfile("Rent", "1")

	if err := f.uc.RunReport(context.Background(), &types.CLIArgs{SkipFetch: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(f.export.csvResults) != 2 {
		t.Fatalf("expected two CSV rows, got %+v", f.export.csvResults)
	}
	for _, r := range f.export.csvResults {
		if !almostEqual(r.AnnualCost, 1200) {
			t.Errorf("%d: AnnualCost = %v, want 1200", r.Year, r.AnnualCost)
		}
	}
	if len(f.export.jsonResults) != 1 || f.export.jsonResults[0].Year != 2023 {
		t.Errorf("JSON should only hold 2023, got %+v", f.export.jsonResults)
	}
}
