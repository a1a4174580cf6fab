package overview

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/mpapenbr/ibt-analyzer-go/log"
	"github.com/mpapenbr/ibt-analyzer-go/pkg/model"
)

// writeTrendCharts renders one fastest-lap progression chart per
// track/car pair into dir.
func writeTrendCharts(trends []*model.ImprovementTrend, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("could not create chart dir: %w", err)
	}
	for _, trend := range trends {
		if len(trend.FastestLaps) == 0 {
			continue
		}
		fileName := filepath.Join(dir,
			fmt.Sprintf("trend_%s_%s.png", trend.Track, trend.Car))
		if err := writeTrendChart(trend, fileName); err != nil {
			return err
		}
		log.Debug("chart written", log.String("file", fileName))
	}
	return nil
}

func writeTrendChart(trend *model.ImprovementTrend, fileName string) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s @ %s - fastest laps", trend.Car, trend.Track)
	p.X.Label.Text = "Session"
	p.Y.Label.Text = "Lap time (s)"

	lapPts := make(plotter.XYs, 0, len(trend.FastestLaps))
	for i, lapTime := range trend.FastestLaps {
		lapPts = append(lapPts, plotter.XY{X: float64(i + 1), Y: lapTime})
	}
	lapLine, err := plotter.NewLine(lapPts)
	if err != nil {
		return err
	}
	lapLine.Width = vg.Points(1)
	p.Add(lapLine)
	p.Legend.Add("fastest lap", lapLine)

	if len(trend.MovingAverage) > 1 {
		// each window mean is plotted at the last session it covers
		offset := len(trend.FastestLaps) - len(trend.MovingAverage)
		avgPts := make(plotter.XYs, 0, len(trend.MovingAverage))
		for i, avg := range trend.MovingAverage {
			avgPts = append(avgPts, plotter.XY{X: float64(offset + i + 1), Y: avg})
		}
		avgLine, lineErr := plotter.NewLine(avgPts)
		if lineErr != nil {
			return lineErr
		}
		avgLine.Width = vg.Points(1)
		avgLine.Color = color.RGBA{R: 196, A: 255}
		p.Add(avgLine)
		p.Legend.Add("moving avg", avgLine)
	}
	p.Legend.Top = true

	return p.Save(10*vg.Inch, 5*vg.Inch, fileName)
}
