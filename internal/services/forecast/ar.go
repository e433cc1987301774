package forecast

import (
	"fmt"
	"math"
	"time"

	"BizPulse/internal/domain/models"
	"BizPulse/internal/domain/service"
	"BizPulse/pkg/util"
)

const arModelName = "ar_lite"

// ARLite is an autoregressive model of fixed order fitted by ordinary least
// squares on its own lags. It needs strictly more observations than its
// order to form even one regression row.
type ARLite struct {
	order int
}

func NewARLite(order int) *ARLite {
	if order < 1 {
		order = 3
	}
	return &ARLite{order: order}
}

func (m *ARLite) Name() string { return arModelName }

func (m *ARLite) Fit(series []float64) (service.ModelFit, error) {
	p := m.order
	if len(series) < p+1 {
		return nil, &InsufficientDataError{Model: arModelName, Minimum: p + 1, Got: len(series)}
	}

	// Rows of the design matrix are [1, y(t-1), ..., y(t-p)] predicting y(t).
	rows := len(series) - p
	cols := p + 1
	x := make([][]float64, rows)
	y := make([]float64, rows)
	for i := 0; i < rows; i++ {
		t := i + p
		row := make([]float64, cols)
		row[0] = 1
		for j := 1; j <= p; j++ {
			row[j] = series[t-j]
		}
		x[i] = row
		y[i] = series[t]
	}

	coef, err := solveLeastSquares(x, y, cols)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", arModelName, err)
	}

	var sumSq float64
	for i := 0; i < rows; i++ {
		pred := coef[0]
		for j := 1; j <= p; j++ {
			pred += coef[j] * x[i][j]
		}
		resid := y[i] - pred
		sumSq += resid * resid
	}
	resStd := math.Sqrt(sumSq / float64(rows))

	// Last p observations, most recent first, seed the forecast recursion.
	lags := make([]float64, p)
	for j := 0; j < p; j++ {
		lags[j] = series[len(series)-1-j]
	}

	return &arFit{coef: coef, lags: lags, resStd: resStd}, nil
}

type arFit struct {
	coef   []float64
	lags   []float64
	resStd float64
}

func (f *arFit) Forecast(lastDate time.Time, horizonDays int, confidenceLevel float64) []models.ForecastPoint {
	z := zScore(confidenceLevel)
	p := len(f.lags)
	lags := make([]float64, p)
	copy(lags, f.lags)

	points := make([]models.ForecastPoint, 0, horizonDays)
	for h := 1; h <= horizonDays; h++ {
		point := f.coef[0]
		for j := 0; j < p; j++ {
			point += f.coef[j+1] * lags[j]
		}
		// Iterated forecasts feed on their own predictions, so uncertainty
		// compounds with the step count.
		half := z * f.resStd * math.Sqrt(float64(h))
		points = append(points, models.ForecastPoint{
			Date:   util.FormatDay(lastDate.AddDate(0, 0, h)),
			Point:  point,
			CILow:  point - half,
			CIHigh: point + half,
		})

		copy(lags[1:], lags[:p-1])
		lags[0] = point
	}
	return points
}

// solveLeastSquares solves the normal equations (X'X)b = X'y by Gaussian
// elimination with partial pivoting. A tiny ridge term on the lag
// coefficients keeps the system solvable when lag columns are collinear,
// which happens on exactly linear or constant histories.
func solveLeastSquares(x [][]float64, y []float64, cols int) ([]float64, error) {
	xtx := make([][]float64, cols)
	xty := make([]float64, cols)
	for i := 0; i < cols; i++ {
		xtx[i] = make([]float64, cols)
	}
	for r := range x {
		for i := 0; i < cols; i++ {
			xty[i] += x[r][i] * y[r]
			for j := 0; j < cols; j++ {
				xtx[i][j] += x[r][i] * x[r][j]
			}
		}
	}

	var trace float64
	for i := 0; i < cols; i++ {
		trace += xtx[i][i]
	}
	ridge := 1e-6 * (trace/float64(cols) + 1)
	for i := 1; i < cols; i++ {
		xtx[i][i] += ridge
	}

	// Augment and eliminate.
	for i := 0; i < cols; i++ {
		pivot := i
		for r := i + 1; r < cols; r++ {
			if math.Abs(xtx[r][i]) > math.Abs(xtx[pivot][i]) {
				pivot = r
			}
		}
		if math.Abs(xtx[pivot][i]) < 1e-12 {
			return nil, fmt.Errorf("singular regression system")
		}
		if pivot != i {
			xtx[i], xtx[pivot] = xtx[pivot], xtx[i]
			xty[i], xty[pivot] = xty[pivot], xty[i]
		}
		for r := i + 1; r < cols; r++ {
			factor := xtx[r][i] / xtx[i][i]
			for c := i; c < cols; c++ {
				xtx[r][c] -= factor * xtx[i][c]
			}
			xty[r] -= factor * xty[i]
		}
	}

	coef := make([]float64, cols)
	for i := cols - 1; i >= 0; i-- {
		sum := xty[i]
		for c := i + 1; c < cols; c++ {
			sum -= xtx[i][c] * coef[c]
		}
		coef[i] = sum / xtx[i][i]
	}
	return coef, nil
}
