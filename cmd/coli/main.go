package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/diillson/cost-of-living-go/internal/adapter/driven/config"
	"github.com/diillson/cost-of-living-go/internal/adapter/driven/dataset"
	"github.com/diillson/cost-of-living-go/internal/adapter/driven/export"
	"github.com/diillson/cost-of-living-go/internal/adapter/driven/habits"
	"github.com/diillson/cost-of-living-go/internal/adapter/driven/numbeo"
	"github.com/diillson/cost-of-living-go/internal/adapter/driving/cli"
	"github.com/diillson/cost-of-living-go/internal/application/usecase"
	"github.com/diillson/cost-of-living-go/internal/shared/types"
	"github.com/diillson/cost-of-living-go/pkg/console"
	"github.com/diillson/cost-of-living-go/pkg/version"
)

func main() {
	// Inicializa o aplicativo CLI
	app := cli.NewCLIApp(version.Version)

	configRepo := config.NewConfigRepository()
	consoleImpl := console.NewConsole()

	// Os repositórios dependem da configuração resolvida
	factory := func(cfg *types.Config) (*usecase.Repositories, error) {
		return &usecase.Repositories{
			Source:  numbeo.NewSourceRepository(cfg),
			Dataset: dataset.NewDatasetRepository(cfg.DataDir, cfg.DatasetFile),
			Habits:  habits.NewHabitsRepository(cfg.DataDir, cfg.HabitsFile),
			Export:  export.NewExportRepository(cfg.DataDir),
		}, nil
	}

	reportUseCase := usecase.NewReportUseCase(configRepo, factory, consoleImpl)
	app.SetReportUseCase(reportUseCase)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
