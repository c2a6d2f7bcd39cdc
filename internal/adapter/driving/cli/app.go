package cli

import (
	"context"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/diillson/cost-of-living-go/internal/application/usecase"
	"github.com/diillson/cost-of-living-go/internal/shared/types"
	"github.com/diillson/cost-of-living-go/pkg/version"
)

// CLIApp represents the command-line interface application.
type CLIApp struct {
	rootCmd       *cobra.Command
	reportUseCase *usecase.ReportUseCase
	version       string
	quiet         bool
}

// NewCLIApp cria uma nova aplicação CLI.
func NewCLIApp(versionStr string) *CLIApp {
	app := &CLIApp{
		version: versionStr,
	}

	formattedVersion := version.FormatVersion()

	rootCmd := &cobra.Command{
		Use:   "coli",
		Short: "Habit-weighted cost of living across cities and years",
		Long: "Downloads historical city prices, applies your monthly consumption habits " +
			"and ranks cities by annual cost of living.",
		Version:      formattedVersion,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(cmd, false, false)
		},
	}

	rootCmd.SetVersionTemplate(`{{printf "Cost of Living version: %s\n" .Version}}`)

	rootCmd.PersistentFlags().StringP("config-file", "C", "", "Path to a TOML, YAML, or JSON configuration file")
	rootCmd.PersistentFlags().StringP("dir", "d", "", "Data directory for the dataset and habits files (default: data)")
	rootCmd.PersistentFlags().Int("start-year", 0, "First year to download (default: 2000)")
	rootCmd.PersistentFlags().Int("end-year", 0, "Last year to download (default: last complete year)")
	rootCmd.PersistentFlags().StringSliceP("report-type", "y", nil, "Specify report types: csv, json, pdf (default: csv,json)")
	rootCmd.PersistentFlags().IntP("top", "n", 0, "Number of cities shown in each ranking (default: 10)")
	rootCmd.PersistentFlags().Bool("browser", false, "Fetch pages with a headless Chrome instead of plain HTTP")
	rootCmd.PersistentFlags().String("currency", "", "Display currency requested from the data source (default: EUR)")
	rootCmd.PersistentFlags().BoolVarP(&app.quiet, "quiet", "q", false, "Skip the welcome banner and the update check")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "fetch",
		Short: "Download and store the historical dataset, then create the habits file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(cmd, false, true)
		},
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "report",
		Short: "Compute the reports from the stored dataset without downloading",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(cmd, true, false)
		},
	})

	app.rootCmd = rootCmd
	return app
}

// Execute runs the CLI application.
func (app *CLIApp) Execute() error {
	return app.rootCmd.Execute()
}

// ExecuteContext runs the CLI application with the given context.
func (app *CLIApp) ExecuteContext(ctx context.Context) error {
	return app.rootCmd.ExecuteContext(ctx)
}

// parseArgs parses command-line arguments into a CLIArgs struct.
func parseArgs(cmd *cobra.Command) (*types.CLIArgs, error) {
	flags := cmd.Flags()
	configFile, _ := flags.GetString("config-file")
	dir, _ := flags.GetString("dir")
	startYear, _ := flags.GetInt("start-year")
	endYear, _ := flags.GetInt("end-year")
	reportType, _ := flags.GetStringSlice("report-type")
	top, _ := flags.GetInt("top")
	currency, _ := flags.GetString("currency")

	if dir != "" {
		absDir, err := filepath.Abs(dir)
		if err != nil {
			return nil, err
		}
		dir = absDir
	}

	args := &types.CLIArgs{
		ConfigFile: configFile,
		Dir:        dir,
		StartYear:  startYear,
		EndYear:    endYear,
		Currency:   currency,
		ReportType: reportType,
		Top:        top,
	}

	// Só sobrescreve o valor do arquivo de configuração quando a flag foi informada
	if flags.Changed("browser") {
		browser, _ := flags.GetBool("browser")
		args.Browser = &browser
	}

	return args, nil
}

// run é o ponto de entrada comum dos comandos.
func (app *CLIApp) run(cmd *cobra.Command, skipFetch, fetchOnly bool) error {
	if !app.quiet {
		displayWelcomeBanner(app.version)
		go checkLatestVersion(app.version)
	}

	cliArgs, err := parseArgs(cmd)
	if err != nil {
		return err
	}
	cliArgs.SkipFetch = skipFetch
	cliArgs.FetchOnly = fetchOnly

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return app.reportUseCase.RunReport(ctx, cliArgs)
}

// SetReportUseCase sets the report use case for the CLI app.
func (app *CLIApp) SetReportUseCase(useCase *usecase.ReportUseCase) {
	app.reportUseCase = useCase
}
