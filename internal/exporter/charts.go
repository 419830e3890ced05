package exporter

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// chartSeries holds the formula references of one series
type chartSeries struct {
	name       string
	categories string
	values     string
}

func (s chartSeries) toExcelize() excelize.ChartSeries {
	return excelize.ChartSeries{Name: s.name, Categories: s.categories, Values: s.values}
}

func richText(text string) []excelize.RichTextRun {
	return []excelize.RichTextRun{{Text: text}}
}

func columnChart(title, xTitle, yTitle, name, categories, values string, width, height uint) *excelize.Chart {
	return &excelize.Chart{
		Type:      excelize.Col,
		Series:    []excelize.ChartSeries{chartSeries{name, categories, values}.toExcelize()},
		Title:     richText(title),
		XAxis:     excelize.ChartAxis{Title: richText(xTitle)},
		YAxis:     excelize.ChartAxis{Title: richText(yTitle)},
		Legend:    excelize.ChartLegend{Position: "none"},
		Dimension: excelize.ChartDimension{Width: width, Height: height},
	}
}

func lineChart(title, xTitle, yTitle string, series []chartSeries, width, height uint) *excelize.Chart {
	out := make([]excelize.ChartSeries, len(series))
	for i, s := range series {
		out[i] = s.toExcelize()
	}
	legend := "bottom"
	if len(series) == 1 {
		legend = "none"
	}
	return &excelize.Chart{
		Type:      excelize.Line,
		Series:    out,
		Title:     richText(title),
		XAxis:     excelize.ChartAxis{Title: richText(xTitle)},
		YAxis:     excelize.ChartAxis{Title: richText(yTitle)},
		Legend:    excelize.ChartLegend{Position: legend},
		Dimension: excelize.ChartDimension{Width: width, Height: height},
	}
}

func pieChart(title, name, categories, values string, width, height uint) *excelize.Chart {
	return &excelize.Chart{
		Type:      excelize.Pie,
		Series:    []excelize.ChartSeries{chartSeries{name, categories, values}.toExcelize()},
		Title:     richText(title),
		Legend:    excelize.ChartLegend{Position: "right"},
		PlotArea:  excelize.ChartPlotArea{ShowPercent: true},
		Dimension: excelize.ChartDimension{Width: width, Height: height},
	}
}

// addChart places chart with its top-left corner at anchor.
func (b *workbookBuilder) addChart(sheet, anchor string, chart *excelize.Chart) error {
	if err := b.f.AddChart(sheet, anchor, chart); err != nil {
		return fmt.Errorf("failed to add chart at %s: %w", anchor, err)
	}
	b.summary.Charts++
	return nil
}
