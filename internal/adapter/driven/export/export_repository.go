package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"github.com/diillson/cost-of-living-go/internal/domain/entity"
	"github.com/diillson/cost-of-living-go/internal/domain/repository"
)

const (
	// AllYearsFileName é o relatório com todos os anos.
	AllYearsFileName = "cost_breakdown.csv"
	// BreakdownFilePattern recebe o ano mais recente.
	BreakdownFilePattern = "cost_breakdown_%d.json"
	// RankingFilePattern recebe o ano do ranking.
	RankingFilePattern = "cost_breakdown_%d.pdf"
)

// ExportRepositoryImpl implementa o ExportRepository.
type ExportRepositoryImpl struct {
	outputDir string
	now       func() time.Time
}

// NewExportRepository cria uma nova implementação do ExportRepository.
func NewExportRepository(outputDir string) repository.ExportRepository {
	return &ExportRepositoryImpl{outputDir: outputDir, now: time.Now}
}

// ExportAllYearsToCSV grava todos os anos, em ordem crescente de custo, com vírgula decimal.
func (r *ExportRepositoryImpl) ExportAllYearsToCSV(results []entity.CityYearResult) (_ string, err error) {
	outputFilename, err := r.outputPath(AllYearsFileName)
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating CSV file: %w", err)
	}
	defer closeFile(file, "CSV", &err)

	writer := csv.NewWriter(file)
	writer.Comma = ';'

	headers := []string{"City", "Country", "Year", "AnnualCost", "AnnualIncome"}
	if err := writer.Write(headers); err != nil {
		return "", fmt.Errorf("error writing CSV header: %w", err)
	}

	for _, row := range sortByCost(results) {
		record := []string{
			row.City,
			row.Country,
			strconv.Itoa(row.Year),
			decimalComma(row.AnnualCost),
			decimalComma(row.AnnualIncome),
		}
		if err := writer.Write(record); err != nil {
			return "", fmt.Errorf("error writing CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("error writing CSV file: %w", err)
	}

	return filepath.Abs(outputFilename)
}

// ExportBreakdownToJSON grava o detalhamento por categoria do ano informado.
func (r *ExportRepositoryImpl) ExportBreakdownToJSON(year int, results []entity.CityYearResult) (_ string, err error) {
	outputFilename, err := r.outputPath(fmt.Sprintf(BreakdownFilePattern, year))
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating JSON file: %w", err)
	}
	defer closeFile(file, "JSON", &err)

	sorted := sortByCost(results)
	if sorted == nil {
		sorted = []entity.CityYearResult{}
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "    ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(sorted); err != nil {
		return "", fmt.Errorf("error encoding JSON data: %w", err)
	}

	return filepath.Abs(outputFilename)
}

// ExportRankingToPDF gera uma tabela com o ranking do último ano e o desvio em relação à média.
func (r *ExportRepositoryImpl) ExportRankingToPDF(ranking entity.Ranking, runID string) (string, error) {
	outputFilename, err := r.outputPath(fmt.Sprintf(RankingFilePattern, ranking.Year))
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	headerColor := [3]int{40, 40, 40}
	headerTextColor := [3]int{255, 255, 255}
	bodyTextColor := [3]int{50, 50, 50}
	lineColor := [3]int{200, 200, 200}

	footerText := fmt.Sprintf("Generated by cost-of-living-go | run %s | %s", runID, r.now().Format("2006-01-02"))
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 10, tr(footerText), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 10, tr(fmt.Sprintf("Page %d", pdf.PageNo())), "", 0, "R", false, 0, "")
	})

	pdf.AddPage()

	pdf.SetFillColor(headerColor[0], headerColor[1], headerColor[2])
	pdf.SetTextColor(headerTextColor[0], headerTextColor[1], headerTextColor[2])
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 12, tr(fmt.Sprintf("  Cost of living ranking %d", ranking.Year)), "", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.SetFillColor(240, 240, 240)
	pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("  Average annual cost: %s", formatAmount(ranking.AverageCost))), "", 1, "L", true, 0, "")
	pdf.Ln(6)

	widths := []float64{12, 55, 45, 40, 38}
	headers := []string{"#", "City", "Country", "Annual Cost", "vs Average"}

	pdf.SetFont("Arial", "B", 10)
	pdf.SetDrawColor(lineColor[0], lineColor[1], lineColor[2])
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "B", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for i, e := range ranking.Entries {
		pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
		pdf.CellFormat(widths[0], 6, strconv.Itoa(i+1), "", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, tr(e.Result.City), "", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 6, tr(e.Result.Country), "", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 6, formatAmount(e.Result.AnnualCost), "", 0, "L", false, 0, "")

		if e.DeviationPct > 0 {
			pdf.SetTextColor(192, 0, 0)
		} else {
			pdf.SetTextColor(0, 128, 0)
		}
		pdf.CellFormat(widths[4], 6, fmt.Sprintf("%+.1f%%", e.DeviationPct), "", 1, "L", false, 0, "")
	}

	if len(ranking.Entries) == 0 {
		pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
		pdf.CellFormat(0, 8, "No city has a computed cost for this year.", "", 1, "L", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(outputFilename); err != nil {
		return "", fmt.Errorf("error writing PDF file: %w", err)
	}

	return filepath.Abs(outputFilename)
}

// closeFile fecha o arquivo e reporta a falha em *err quando nada falhou antes.
func closeFile(file *os.File, kind string, err *error) {
	if cerr := file.Close(); cerr != nil && *err == nil {
		*err = fmt.Errorf("error closing %s file: %w", kind, cerr)
	}
}

func (r *ExportRepositoryImpl) outputPath(name string) (string, error) {
	dir := r.outputDir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("could not get current working directory: %w", err)
		}
		dir = cwd
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("error creating output directory '%s': %w", dir, err)
	}
	return filepath.Join(dir, name), nil
}

// sortByCost devolve uma cópia ordenada de forma estável pelo custo anual.
func sortByCost(results []entity.CityYearResult) []entity.CityYearResult {
	if results == nil {
		return nil
	}
	sorted := make([]entity.CityYearResult, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].AnnualCost < sorted[j].AnnualCost
	})
	return sorted
}

func decimalComma(v float64) string {
	return strings.Replace(decimal.NewFromFloat(v).String(), ".", ",", 1)
}

func formatAmount(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
