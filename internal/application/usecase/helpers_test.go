package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/diillson/cost-of-living-go/internal/domain/entity"
	"github.com/diillson/cost-of-living-go/internal/shared/types"
)

// recordingConsole guarda as mensagens emitidas para as asserções dos testes.
type recordingConsole struct {
	infos     []string
	warnings  []string
	errors    []string
	successes []string
	printed   strings.Builder
	trends    [][]types.PeriodCost
	tables    []*recordingTable
}

func (c *recordingConsole) Print(a ...interface{})                 { fmt.Fprint(&c.printed, a...) }
func (c *recordingConsole) Printf(format string, a ...interface{}) { fmt.Fprintf(&c.printed, format, a...) }
func (c *recordingConsole) Println(a ...interface{})               { fmt.Fprintln(&c.printed, a...) }

func (c *recordingConsole) LogInfo(format string, a ...interface{}) {
	c.infos = append(c.infos, fmt.Sprintf(format, a...))
}

func (c *recordingConsole) LogWarning(format string, a ...interface{}) {
	c.warnings = append(c.warnings, fmt.Sprintf(format, a...))
}

func (c *recordingConsole) LogError(format string, a ...interface{}) {
	c.errors = append(c.errors, fmt.Sprintf(format, a...))
}

func (c *recordingConsole) LogSuccess(format string, a ...interface{}) {
	c.successes = append(c.successes, fmt.Sprintf(format, a...))
}

func (c *recordingConsole) Status(message string) types.StatusHandle { return noopHandle{} }

func (c *recordingConsole) ProgressWithTotal(total int) types.ProgressHandle { return noopHandle{} }

func (c *recordingConsole) CreateTable() types.TableInterface {
	t := &recordingTable{}
	c.tables = append(c.tables, t)
	return t
}

func (c *recordingConsole) DisplayTrendBars(title string, periodCosts []types.PeriodCost) {
	c.trends = append(c.trends, periodCosts)
}

func (c *recordingConsole) hasWarning(substr string) bool {
	for _, w := range c.warnings {
		if strings.Contains(w, substr) {
			return true
		}
	}
	return false
}

type noopHandle struct{}

func (noopHandle) Update(string) {}
func (noopHandle) Increment()    {}
func (noopHandle) Stop()         {}

type recordingTable struct {
	columns []string
	rows    [][]string
}

func (t *recordingTable) AddColumn(name string, options ...interface{}) {
	t.columns = append(t.columns, name)
}

func (t *recordingTable) AddRow(cells ...interface{}) {
	row := make([]string, len(cells))
	for i, c := range cells {
		row[i] = fmt.Sprint(c)
	}
	t.rows = append(t.rows, row)
}

func (t *recordingTable) Render() string {
	return strings.Join(t.columns, "|") + "\n"
}

// fakeSource devolve tabelas fixas por ano e registra os anos pedidos.
type fakeSource struct {
	tables    map[int]*entity.YearTable
	requested []int
}

func (s *fakeSource) FetchYear(ctx context.Context, year int) (*entity.YearTable, error) {
	s.requested = append(s.requested, year)
	table, ok := s.tables[year]
	if !ok {
		return nil, fmt.Errorf("%w: %d", types.ErrYearUnavailable, year)
	}
	return table, nil
}

type fakeDatasetRepo struct {
	saved   *entity.Dataset
	stored  *entity.Dataset
	loadErr error
}

func (r *fakeDatasetRepo) Save(d *entity.Dataset) (string, error) {
	r.saved = d
	return "/tmp/data/cost_of_living_all_years.csv", nil
}

func (r *fakeDatasetRepo) Load() (*entity.Dataset, error) {
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	return r.stored, nil
}

type fakeHabitsRepo struct {
	profile   *entity.HabitProfile
	templates [][]string
}

func (r *fakeHabitsRepo) Path() string { return "data/habits_config.json" }

func (r *fakeHabitsRepo) Exists() (bool, error) { return r.profile != nil, nil }

func (r *fakeHabitsRepo) Load() (*entity.HabitProfile, error) {
	if r.profile == nil {
		return nil, types.ErrHabitsNotFound
	}
	return r.profile, nil
}

func (r *fakeHabitsRepo) CreateTemplate(categories []string) (bool, error) {
	if r.profile != nil {
		return false, nil
	}
	r.templates = append(r.templates, categories)
	r.profile = entity.NewTemplateProfile(categories)
	return true, nil
}

type fakeExportRepo struct {
	csvResults  []entity.CityYearResult
	jsonYear    int
	jsonResults []entity.CityYearResult
	pdfRanking  *entity.Ranking
	pdfRunID    string
	calls       []string
}

func (r *fakeExportRepo) ExportAllYearsToCSV(results []entity.CityYearResult) (string, error) {
	r.calls = append(r.calls, "csv")
	r.csvResults = results
	return "cost_breakdown.csv", nil
}

func (r *fakeExportRepo) ExportBreakdownToJSON(year int, results []entity.CityYearResult) (string, error) {
	r.calls = append(r.calls, "json")
	r.jsonYear = year
	r.jsonResults = results
	return fmt.Sprintf("cost_breakdown_%d.json", year), nil
}

func (r *fakeExportRepo) ExportRankingToPDF(ranking entity.Ranking, runID string) (string, error) {
	r.calls = append(r.calls, "pdf")
	r.pdfRanking = &ranking
	r.pdfRunID = runID
	return fmt.Sprintf("cost_breakdown_%d.pdf", ranking.Year), nil
}

type fakeConfigRepo struct {
	file *types.Config
	env  *types.Config
}

func (r *fakeConfigRepo) LoadConfigFile(filePath string) (*types.Config, error) {
	if r.file == nil {
		return nil, fmt.Errorf("config file %s not found", filePath)
	}
	return r.file, nil
}

func (r *fakeConfigRepo) LoadEnv(envFile string) (*types.Config, error) {
	if r.env == nil {
		return &types.Config{}, nil
	}
	return r.env, nil
}

// newDataset monta um dataset a partir de um cabeçalho e linhas de células.
// O cabeçalho deve conter City e Year.
func newDataset(columns []string, rows ...[]string) *entity.Dataset {
	d := &entity.Dataset{Columns: columns}
	for _, cells := range rows {
		values := make(map[string]string, len(columns))
		for i, c := range columns {
			values[c] = cells[i]
		}
		year, _ := strconv.Atoi(values[entity.ColumnYear])
		d.Records = append(d.Records, entity.PriceRecord{
			City:    values[entity.ColumnCity],
			Country: values[entity.ColumnCountry],
			Year:    year,
			Values:  values,
		})
	}
	return d
}

// newProfile monta um perfil a partir de pares categoria / valor JSON.
func newProfile(pairs ...string) *entity.HabitProfile {
	p := &entity.HabitProfile{}
	for i := 0; i+1 < len(pairs); i += 2 {
		p.Set(pairs[i], pairs[i+1])
	}
	return p
}

func newYearTable(columns []string, rows ...[]string) *entity.YearTable {
	t := &entity.YearTable{Columns: columns}
	for _, cells := range rows {
		row := make(map[string]string, len(columns))
		for i, c := range columns {
			row[c] = cells[i]
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}
