package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/pterm/pterm"

	"github.com/diillson/cost-of-living-go/internal/domain/entity"
	"github.com/diillson/cost-of-living-go/internal/domain/repository"
	"github.com/diillson/cost-of-living-go/internal/shared/types"
	"github.com/diillson/cost-of-living-go/pkg/console"
)

// Repositories groups the driven adapters used by a run.
type Repositories struct {
	Source  repository.SourceRepository
	Dataset repository.DatasetRepository
	Habits  repository.HabitsRepository
	Export  repository.ExportRepository
}

// RepositoryFactory builds the adapters once the configuration is known.
type RepositoryFactory func(cfg *types.Config) (*Repositories, error)

// ReportUseCase handles the main cost of living functionality.
type ReportUseCase struct {
	configRepo repository.ConfigRepository
	factory    RepositoryFactory
	console    types.ConsoleInterface
	now        func() time.Time
	newRunID   func() string
}

// NewReportUseCase creates a new report use case.
func NewReportUseCase(
	configRepo repository.ConfigRepository,
	factory RepositoryFactory,
	console types.ConsoleInterface,
) *ReportUseCase {
	return &ReportUseCase{
		configRepo: configRepo,
		factory:    factory,
		console:    console,
		now:        time.Now,
		newRunID:   uuid.NewString,
	}
}

// ResolveConfig merges defaults, the config file, the environment and the CLI args, in that order.
func (uc *ReportUseCase) ResolveConfig(args *types.CLIArgs) (*types.Config, error) {
	cfg := types.DefaultConfig(uc.now())

	if args.ConfigFile != "" {
		fileCfg, err := uc.configRepo.LoadConfigFile(args.ConfigFile)
		if err != nil {
			return nil, err
		}
		cfg.Merge(fileCfg)
	}

	envCfg, err := uc.configRepo.LoadEnv(".env")
	if err != nil {
		return nil, err
	}
	cfg.Merge(envCfg)
	cfg.ApplyArgs(args)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RunReport executa o fluxo completo: download, persistência, perfil, cálculo e relatórios.
func (uc *ReportUseCase) RunReport(ctx context.Context, args *types.CLIArgs) error {
	cfg, err := uc.ResolveConfig(args)
	if err != nil {
		return err
	}

	repos, err := uc.factory(cfg)
	if err != nil {
		return err
	}

	runID := uc.newRunID()
	uc.console.LogInfo("Run %s, data directory: %s", runID, cfg.DataDir)

	var dataset *entity.Dataset
	if args.SkipFetch {
		dataset, err = repos.Dataset.Load()
		if err != nil {
			return err
		}
		uc.console.LogInfo("Loaded %d rows from the stored dataset", len(dataset.Records))
	} else {
		dataset, err = uc.FetchAndStore(ctx, cfg, repos)
		if err != nil {
			return err
		}
	}

	if args.FetchOnly {
		return nil
	}

	report, err := uc.CalculateCostOfLiving(dataset, repos.Habits, cfg)
	if errors.Is(err, types.ErrHabitsUnconfigured) {
		uc.console.LogWarning("The consumption habits file %s has not been modified.", repos.Habits.Path())
		uc.console.LogWarning("Edit the profile file with your monthly quantities and re-run.")
		return nil
	}
	if err != nil {
		return err
	}
	report.RunID = runID

	uc.displayDiagnostics(report.Diagnostics)
	uc.displaySummary(report, cfg)
	uc.exportReports(report, cfg, repos.Export)

	return nil
}

// FetchAndStore downloads the historical data, saves the unified dataset and
// bootstraps the habits file when it does not exist yet.
func (uc *ReportUseCase) FetchAndStore(ctx context.Context, cfg *types.Config, repos *Repositories) (*entity.Dataset, error) {
	uc.console.LogInfo("Downloading historical data from %d to %d...", cfg.StartYear, cfg.EndYear)

	merger := NewMergeUseCase(repos.Source, uc.console)
	dataset, err := merger.DownloadHistoricalData(ctx, cfg.StartYear, cfg.EndYear)
	if err != nil {
		return nil, err
	}

	status := uc.console.Status("Saving combined dataset...")
	path, err := repos.Dataset.Save(dataset)
	status.Stop()
	if err != nil {
		return nil, fmt.Errorf("saving dataset: %w", err)
	}
	uc.console.LogSuccess("Combined data for all years saved to %s", path)

	created, err := repos.Habits.CreateTemplate(dataset.Categories())
	if err != nil {
		return nil, fmt.Errorf("creating consumption habits file: %w", err)
	}
	if created {
		uc.console.LogSuccess("Consumption habits file created at %s", repos.Habits.Path())
		uc.console.LogInfo("You can modify this file to input your consumption habits.")
	} else {
		uc.console.LogInfo("Consumption habits file already exists at %s", repos.Habits.Path())
	}

	return dataset, nil
}

// CalculateCostOfLiving loads the habits profile and runs the cost engine.
// It returns types.ErrHabitsNotFound when the profile is missing and
// types.ErrHabitsUnconfigured when every quantity is still zero.
func (uc *ReportUseCase) CalculateCostOfLiving(
	dataset *entity.Dataset,
	habitsRepo repository.HabitsRepository,
	cfg *types.Config,
) (*entity.CostReport, error) {
	exists, err := habitsRepo.Exists()
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w (expected at %s)", types.ErrHabitsNotFound, habitsRepo.Path())
	}

	habits, err := habitsRepo.Load()
	if err != nil {
		return nil, err
	}
	if IsUnconfigured(habits) {
		return nil, types.ErrHabitsUnconfigured
	}

	uc.console.LogInfo("Calculating the annual cost of living from your monthly consumption habits...")

	engine := NewCostEngine(NewIncomeMatcher(cfg.IncomeColumns, cfg.IncomeKeywords))
	results, diagnostics := engine.Aggregate(dataset, habits)

	latestYear := dataset.LatestYear()
	return &entity.CostReport{
		LatestYear:  latestYear,
		Results:     results,
		Ranking:     BuildRanking(results, latestYear),
		Diagnostics: diagnostics,
	}, nil
}

// exportReports grava os relatórios solicitados; falhas são registradas sem abortar os demais.
func (uc *ReportUseCase) exportReports(report *entity.CostReport, cfg *types.Config, exportRepo repository.ExportRepository) {
	for _, reportType := range cfg.ReportType {
		switch reportType {
		case "csv":
			csvPath, err := exportRepo.ExportAllYearsToCSV(report.Results)
			if err != nil {
				uc.console.LogError("Failed to export all-years report to CSV: %s", err)
			} else {
				uc.console.LogSuccess("Results for all years saved to %s", csvPath)
			}
		case "json":
			jsonPath, err := exportRepo.ExportBreakdownToJSON(report.LatestYear, report.LatestResults())
			if err != nil {
				uc.console.LogError("Failed to export %d breakdown to JSON: %s", report.LatestYear, err)
			} else {
				uc.console.LogSuccess("Cost breakdown by category for %d saved to %s", report.LatestYear, jsonPath)
			}
		case "pdf":
			pdfPath, err := exportRepo.ExportRankingToPDF(report.Ranking, report.RunID)
			if err != nil {
				uc.console.LogError("Failed to export ranking to PDF: %s", err)
			} else {
				uc.console.LogSuccess("Ranking for %d saved to %s", report.LatestYear, pdfPath)
			}
		}
	}
}

// displayDiagnostics mostra os valores ignorados do último ano.
func (uc *ReportUseCase) displayDiagnostics(diagnostics []entity.Diagnostic) {
	for _, d := range diagnostics {
		uc.console.LogWarning("%s", describeDiagnostic(d))
	}
}

// displaySummary exibe a média, os rankings e a tendência anual.
func (uc *ReportUseCase) displaySummary(report *entity.CostReport, cfg *types.Config) {
	ranking := report.Ranking
	if len(ranking.Entries) == 0 {
		uc.console.LogWarning("No city has enough data to compute a cost for %d", report.LatestYear)
		return
	}

	uc.console.Printf("\n%s\n", pterm.FgYellow.Sprintf("Results for %d", ranking.Year))
	uc.console.Printf("Average annual cost of living: %s\n", console.FormatCost(ranking.AverageCost, cfg.Currency))

	uc.console.Printf("\n%s\n", pterm.FgGreen.Sprintf("Top %d cheapest cities (annual cost)", cfg.Top))
	uc.console.Print(uc.rankingTable(ranking.Cheapest(cfg.Top), cfg.Currency).Render())

	uc.console.Printf("\n%s\n", pterm.FgRed.Sprintf("Top %d most expensive cities (annual cost)", cfg.Top))
	uc.console.Print(uc.rankingTable(ranking.MostExpensive(cfg.Top), cfg.Currency).Render())

	averages := YearlyAverages(report.Results)
	if len(averages) > 1 {
		periodCosts := make([]types.PeriodCost, len(averages))
		for i, a := range averages {
			periodCosts[i] = types.PeriodCost{
				Period: fmt.Sprintf("%d (%d cities)", a.Year, a.Cities),
				Cost:   a.AverageCost,
			}
		}
		uc.console.DisplayTrendBars("Average Annual Cost Trend", periodCosts)
	}
}

// rankingTable cria a tabela de ranking com o desvio em relação à média.
func (uc *ReportUseCase) rankingTable(entries []entity.RankedCity, currency string) types.TableInterface {
	table := uc.console.CreateTable()
	table.AddColumn("#")
	table.AddColumn("City")
	table.AddColumn("Country")
	table.AddColumn("Annual Cost")
	table.AddColumn("Annual Income")
	table.AddColumn("vs Average")

	for i, e := range entries {
		income := pterm.FgGray.Sprint("N/A")
		if e.Result.IncomeResolved {
			income = console.FormatCost(e.Result.AnnualIncome, currency)
		}

		var deviation string
		switch {
		case math.Abs(e.DeviationPct) < 0.05:
			deviation = pterm.FgYellow.Sprintf("%.1f%%", e.DeviationPct)
		case e.DeviationPct > 0:
			deviation = pterm.FgRed.Sprintf("+%.1f%%", e.DeviationPct)
		default:
			deviation = pterm.FgGreen.Sprintf("%.1f%%", e.DeviationPct)
		}

		table.AddRow(
			i+1,
			pterm.FgMagenta.Sprint(e.Result.City),
			e.Result.Country,
			console.FormatCost(e.Result.AnnualCost, currency),
			income,
			deviation,
		)
	}
	return table
}
