package history

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// BuildTrendReport annotates runs with deltas against their predecessor and
// a moving average of the saved share over the window.
func BuildTrendReport(runs []Run, window time.Duration) (TrendReport, error) {
	if len(runs) == 0 {
		return TrendReport{}, fmt.Errorf("no runs available")
	}
	if window <= 0 {
		window = 24 * time.Hour
	}

	points := make([]TrendPoint, 0, len(runs))
	for i, run := range runs {
		point := TrendPoint{
			Timestamp:   run.Timestamp,
			Source:      run.Source,
			BytesIn:     run.BytesIn,
			BytesOut:    run.BytesOut,
			SavedBytes:  run.SavedBytes(),
			SavedPct:    round2(run.SavedPct()),
			RenameCount: run.BindingRenames + run.DeclarationRenames,
			WindowHours: round2(window.Hours()),
		}

		if i > 0 {
			prev := runs[i-1]
			point.DeltaBytesOut = run.BytesOut - prev.BytesOut
			point.DeltaSavedPct = round2(run.SavedPct() - prev.SavedPct())
		}

		point.AvgSavedPct = round2(movingAverage(runs, i, window))
		points = append(points, point)
	}

	return TrendReport{
		SchemaVersion: SchemaVersion,
		Since:         runs[0].Timestamp,
		Until:         runs[len(runs)-1].Timestamp,
		Window:        window.String(),
		RunCount:      len(points),
		Points:        points,
	}, nil
}

// movingAverage averages SavedPct over the runs inside the window ending at
// index i.
func movingAverage(runs []Run, i int, window time.Duration) float64 {
	cutoff := runs[i].Timestamp.Add(-window)
	sum := 0.0
	count := 0
	for j := i; j >= 0; j-- {
		if runs[j].Timestamp.Before(cutoff) {
			break
		}
		sum += runs[j].SavedPct()
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatTrendReport renders the report as an aligned text table.
func FormatTrendReport(report TrendReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Minification trend (%d runs, window %s)\n", report.RunCount, report.Window)
	fmt.Fprintf(&b, "%-20s %10s %10s %8s %8s %8s\n",
		"TIMESTAMP", "BYTES_IN", "BYTES_OUT", "SAVED%", "DELTA%", "AVG%")
	for _, p := range report.Points {
		fmt.Fprintf(&b, "%-20s %10d %10d %8.2f %8.2f %8.2f\n",
			p.Timestamp.UTC().Format("2006-01-02 15:04:05"),
			p.BytesIn, p.BytesOut, p.SavedPct, p.DeltaSavedPct, p.AvgSavedPct)
	}
	return b.String()
}
