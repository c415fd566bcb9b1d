// Getaround - Rental Analytics and Pricing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/getaround

package dashboard

import (
	"bytes"
	"fmt"
	"strconv"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/tomtom215/getaround/internal/metrics"
	"github.com/tomtom215/getaround/internal/models"
)

const (
	minChartWidth  = 320
	minChartHeight = 240
	chartPadding   = 60
	maxBarWidth    = 80
)

var (
	barColor   = drawing.ColorFromHex("636efa")
	emptyColor = drawing.ColorFromHex("d0d0d0")
)

// percentTicks is the fixed y axis: every chart reads 0 to 100 percent.
var percentTicks = []chart.Tick{
	{Value: 0, Label: "0%"},
	{Value: 20, Label: "20%"},
	{Value: 40, Label: "40%"},
	{Value: 60, Label: "60%"},
	{Value: 80, Label: "80%"},
	{Value: 100, Label: "100%"},
}

// RenderSVG draws the histogram of info as an SVG bar chart. An empty
// histogram renders a single grey "no data" bar.
func RenderSVG(info *models.ChartInfo, width, height int) ([]byte, error) {
	width = max(width, minChartWidth)
	height = max(height, minChartHeight)

	bars := make([]chart.Value, 0, len(info.Histogram.Buckets))
	for _, b := range info.Histogram.Buckets {
		bars = append(bars, chart.Value{
			Label: b.Label,
			Value: b.Percent,
			Style: chart.Style{FillColor: barColor, StrokeColor: barColor},
		})
	}
	if len(bars) == 0 {
		bars = append(bars, chart.Value{
			Label: "no data",
			Value: 0,
			Style: chart.Style{FillColor: emptyColor, StrokeColor: emptyColor},
		})
	}

	barWidth, spacing := barLayout(width, len(bars))
	graph := chart.BarChart{
		Title:      info.Title,
		TitleStyle: chart.Style{FontSize: 10},
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10}},
		BarWidth:   barWidth,
		BarSpacing: spacing,
		XAxis:      chart.Style{FontSize: 8},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: 100},
			Ticks: percentTicks,
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	err := graph.Render(chart.SVG, &buf)
	metrics.RecordChartRender(strconv.Itoa(info.ID), err)
	if err != nil {
		return nil, fmt.Errorf("render chart %d: %w", info.ID, err)
	}
	return buf.Bytes(), nil
}

// barLayout splits the plot width between n bars and the gaps between them.
func barLayout(width, n int) (barWidth, spacing int) {
	usable := width - 2*chartPadding
	slot := max(usable/max(n, 1), 4)
	barWidth = min(slot*3/4, maxBarWidth)
	spacing = max(slot-barWidth, 2)
	return barWidth, spacing
}
