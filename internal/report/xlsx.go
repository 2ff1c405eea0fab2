package report

import (
	"context"
	"fmt"

	"product_dashboard/internal/domain"

	"github.com/xuri/excelize/v2"
)

const (
	statisticsSheet  = "Statistics"
	priceRangesSheet = "PriceRanges"
	categoriesSheet  = "Categories"

	uncategorizedLabel = "Uncategorized"
)

// CombinedSource supplies the dashboard data for one month
type CombinedSource interface {
	Combined(ctx context.Context, monthName string) (*domain.Combined, error)
}

// Exporter renders the monthly dashboard as an XLSX workbook
type Exporter struct {
	source CombinedSource
}

func NewExporter(source CombinedSource) *Exporter {
	return &Exporter{source: source}
}

// Export builds the workbook for monthName
func (e *Exporter) Export(ctx context.Context, monthName string) ([]byte, error) {
	data, err := e.source.Combined(ctx, monthName)
	if err != nil {
		return nil, err
	}
	return Build(monthName, data)
}

// Build writes three sheets: statistics, price ranges with a column chart and
// categories with a pie chart.
func Build(monthName string, data *domain.Combined) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", statisticsSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeStatistics(file, monthName, data.Statistics); err != nil {
		return nil, err
	}
	if err := writePriceRanges(file, monthName, data.BarChart); err != nil {
		return nil, err
	}
	if err := writeCategories(file, monthName, data.PieChart); err != nil {
		return nil, err
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeStatistics(file *excelize.File, monthName string, stats domain.Statistics) error {
	rows := [][]interface{}{
		{"Statistics - " + monthName},
		{"Total sale", stats.TotalSale.InexactFloat64()},
		{"Sold items", stats.SoldItems},
		{"Not sold items", stats.NotSoldItems},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := file.SetSheetRow(statisticsSheet, cell, &row); err != nil {
			return fmt.Errorf("write statistics: %w", err)
		}
	}
	return file.SetColWidth(statisticsSheet, "A", "A", 20)
}

func writePriceRanges(file *excelize.File, monthName string, chart domain.BarChart) error {
	if _, err := file.NewSheet(priceRangesSheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", priceRangesSheet, err)
	}
	if err := file.SetSheetRow(priceRangesSheet, "A1", &[]interface{}{"Price range", "Items"}); err != nil {
		return fmt.Errorf("write price ranges: %w", err)
	}
	for i, bucket := range chart {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := file.SetSheetRow(priceRangesSheet, cell, &[]interface{}{bucket.Range, bucket.Count}); err != nil {
			return fmt.Errorf("write price ranges: %w", err)
		}
	}
	if len(chart) == 0 {
		return nil
	}

	lastRow := len(chart) + 1
	return file.AddChart(priceRangesSheet, "D2", &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{
			{
				Name:       fmt.Sprintf("%s!$B$1", priceRangesSheet),
				Categories: fmt.Sprintf("%s!$A$2:$A$%d", priceRangesSheet, lastRow),
				Values:     fmt.Sprintf("%s!$B$2:$B$%d", priceRangesSheet, lastRow),
			},
		},
		Title: []excelize.RichTextRun{
			{Text: "Price ranges - " + monthName},
		},
		Legend: excelize.ChartLegend{
			Position: "none",
		},
		PlotArea: excelize.ChartPlotArea{
			ShowVal: true,
		},
	})
}

func writeCategories(file *excelize.File, monthName string, pie []domain.CategoryCount) error {
	if _, err := file.NewSheet(categoriesSheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", categoriesSheet, err)
	}
	if err := file.SetSheetRow(categoriesSheet, "A1", &[]interface{}{"Category", "Items"}); err != nil {
		return fmt.Errorf("write categories: %w", err)
	}
	for i, cc := range pie {
		label := uncategorizedLabel
		if cc.Category != nil {
			label = *cc.Category
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := file.SetSheetRow(categoriesSheet, cell, &[]interface{}{label, cc.Count}); err != nil {
			return fmt.Errorf("write categories: %w", err)
		}
	}
	if len(pie) == 0 {
		return nil
	}

	lastRow := len(pie) + 1
	return file.AddChart(categoriesSheet, "D2", &excelize.Chart{
		Type: excelize.Pie,
		Series: []excelize.ChartSeries{
			{
				Name:       fmt.Sprintf("%s!$B$1", categoriesSheet),
				Categories: fmt.Sprintf("%s!$A$2:$A$%d", categoriesSheet, lastRow),
				Values:     fmt.Sprintf("%s!$B$2:$B$%d", categoriesSheet, lastRow),
			},
		},
		Title: []excelize.RichTextRun{
			{Text: "Categories - " + monthName},
		},
		Legend: excelize.ChartLegend{
			Position: "right",
		},
		PlotArea: excelize.ChartPlotArea{
			ShowCatName: true,
			ShowPercent: true,
		},
	})
}
