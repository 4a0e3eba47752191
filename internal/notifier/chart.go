package notifier

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"StockPanel/internal/model"
)

var chartHeader = []string{"date", "close", "sma50", "sma200", "macd", "signal"}

// WriteChartCSV writes the chart series one row per session for an external plotting
// tool. Undefined points are written as empty cells.
func WriteChartCSV(w io.Writer, chart model.Chart) error {
	n := len(chart.Dates)
	for name, s := range map[string]model.Series{
		"close": chart.Close, "sma50": chart.SMA50, "sma200": chart.SMA200,
		"macd": chart.MACD, "signal": chart.Signal,
	} {
		if s.Len() != n {
			return fmt.Errorf("chart series %s has %d points, want %d", name, s.Len(), n)
		}
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(chartHeader); err != nil {
		return err
	}
	row := make([]string, len(chartHeader))
	for i, d := range chart.Dates {
		row[0] = d.Format("2006-01-02")
		row[1] = cell(chart.Close.At(i))
		row[2] = cell(chart.SMA50.At(i))
		row[3] = cell(chart.SMA200.At(i))
		row[4] = cell(chart.MACD.At(i))
		row[5] = cell(chart.Signal.At(i))
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func cell(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', 4, 64)
}
