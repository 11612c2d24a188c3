package analyzer

import (
	"gonum.org/v1/gonum/stat"

	"github.com/archeologit/archeologit/internal/models"
)

// LOCOverTime produces the cumulative net line count time series: a strict
// sequential prefix sum over the chronological (oldest to newest) reversal
// of the walked sequence. One point is emitted per commit; commits whose
// diff failed contribute zero and carry the running total forward. The
// cumulative value may decrease, since net-negative commits are legal.
func LOCOverTime(commits []models.Commit, diffs []models.DiffStats) []models.LOCPoint {
	byHash := make(map[string]models.DiffStats, len(diffs))
	for _, d := range diffs {
		byHash[d.Hash] = d
	}

	points := make([]models.LOCPoint, 0, len(commits))
	cumulative := 0
	for _, c := range chronological(commits) {
		cumulative += byHash[c.Hash].Net()
		points = append(points, models.LOCPoint{
			Hash:          c.Hash,
			CommittedAt:   c.CommittedAt,
			CumulativeLOC: cumulative,
		})
	}
	return points
}

// Trend fits a linear regression to the LOC series indexed by walk position
// and reports slope (net lines per commit), intercept, goodness of fit, and
// correlation. Fewer than two points yield zero values.
func Trend(points []models.LOCPoint) models.LOCTrend {
	if len(points) < 2 {
		return models.LOCTrend{}
	}

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = float64(i)
		ys[i] = float64(p.CumulativeLOC)
	}

	intercept, slope := stat.LinearRegression(xs, ys, nil, false)
	return models.LOCTrend{
		Slope:       slope,
		Intercept:   intercept,
		RSquared:    stat.RSquared(xs, ys, nil, intercept, slope),
		Correlation: stat.Correlation(xs, ys, nil),
	}
}
