package metrics

import (
	"fmt"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"

	"github.com/mpapenbr/ibt-analyzer-go/pkg/model"
)

const (
	maxCornerEfficiency  = 100.0
	apexEfficiencyWeight = 50.0
	exitEfficiencyWeight = 30.0
)

// CornerMetrics aggregates the detected corners of a session.
func CornerMetrics(corners []model.Corner) (*model.CornerStats, error) {
	if len(corners) == 0 {
		return nil, fmt.Errorf("%w (no corners)", ErrInsufficientData)
	}
	entrySpeeds := lo.Map(corners, func(c model.Corner, _ int) float64 { return c.EntrySpeed })
	apexSpeeds := lo.Map(corners, func(c model.Corner, _ int) float64 { return c.ApexSpeed })
	exitSpeeds := lo.Map(corners, func(c model.Corner, _ int) float64 { return c.ExitSpeed })

	avgEntry := stat.Mean(entrySpeeds, nil)
	avgApex := stat.Mean(apexSpeeds, nil)
	ret := &model.CornerStats{
		CornerCount:   len(corners),
		AvgEntrySpeed: avgEntry,
		AvgApexSpeed:  avgApex,
		AvgExitSpeed:  stat.Mean(exitSpeeds, nil),
		Efficiency:    cornerEfficiency(corners),
		ByClass:       cornerClassStats(corners),
	}
	if avgEntry > 0 {
		ret.SpeedMaintained = avgApex / avgEntry * 100
	}
	return ret, nil
}

// cornerEfficiency scores how much speed is carried through a corner:
// apex speed relative to entry plus the exit acceleration out of the
// apex, capped at 100 per corner. Corners with unusable speed data are
// skipped.
func cornerEfficiency(corners []model.Corner) float64 {
	vals := make([]float64, 0, len(corners))
	for i := range corners {
		c := &corners[i]
		if c.EntrySpeed <= 0 || c.ApexSpeed <= 0 {
			continue
		}
		eff := c.ApexSpeed/c.EntrySpeed*apexEfficiencyWeight +
			c.ExitSpeed/c.ApexSpeed*exitEfficiencyWeight
		if eff > maxCornerEfficiency {
			eff = maxCornerEfficiency
		}
		vals = append(vals, eff)
	}
	if len(vals) == 0 {
		return 0
	}
	return stat.Mean(vals, nil)
}

func cornerClassStats(corners []model.Corner) map[model.CornerClass]model.CornerClassStats {
	grouped := lo.GroupBy(corners, func(c model.Corner) model.CornerClass { return c.Class })
	ret := make(map[model.CornerClass]model.CornerClassStats, len(grouped))
	for class, items := range grouped {
		avgEntry := stat.Mean(lo.Map(items,
			func(c model.Corner, _ int) float64 { return c.EntrySpeed }), nil)
		avgApex := stat.Mean(lo.Map(items,
			func(c model.Corner, _ int) float64 { return c.ApexSpeed }), nil)
		entry := model.CornerClassStats{
			Count:         len(items),
			AvgEntrySpeed: avgEntry,
			AvgApexSpeed:  avgApex,
			AvgExitSpeed: stat.Mean(lo.Map(items,
				func(c model.Corner, _ int) float64 { return c.ExitSpeed }), nil),
			AvgPeakLatG: stat.Mean(lo.Map(items,
				func(c model.Corner, _ int) float64 { return c.PeakLatG }), nil),
		}
		if avgEntry > 0 {
			entry.SpeedMaintained = avgApex / avgEntry * 100
		}
		ret[class] = entry
	}
	return ret
}
