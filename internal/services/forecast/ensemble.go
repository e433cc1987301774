package forecast

import (
	"sync"
	"time"

	"BizPulse/internal/domain/models"
	"BizPulse/internal/domain/repository"
	"BizPulse/internal/domain/service"
	"BizPulse/pkg/logger"
)

// Ensemble fits every registered model concurrently and averages the
// forecasts of the ones that succeed. A model that cannot fit the series is
// simply excluded; only when all of them fail does the ensemble give up.
type Ensemble struct {
	models  []service.ForecastModel
	log     *logger.Logger
	metrics repository.Metrics
}

func NewEnsemble(log *logger.Logger, metrics repository.Metrics, models ...service.ForecastModel) *Ensemble {
	return &Ensemble{models: models, log: log, metrics: metrics}
}

// Forecast produces horizonDays averaged points for the days after lastDate.
func (e *Ensemble) Forecast(series []float64, lastDate time.Time, horizonDays int, confidenceLevel float64) ([]models.ForecastPoint, error) {
	type item struct {
		name   string
		points []models.ForecastPoint
		err    error
	}
	ch := make(chan item, len(e.models))
	var wg sync.WaitGroup

	for _, m := range e.models {
		wg.Add(1)
		go func(m service.ForecastModel) {
			defer wg.Done()
			fit, err := m.Fit(series)
			if err != nil {
				ch <- item{name: m.Name(), err: err}
				return
			}
			ch <- item{name: m.Name(), points: fit.Forecast(lastDate, horizonDays, confidenceLevel)}
		}(m)
	}

	go func() { wg.Wait(); close(ch) }()

	failures := map[string]error{}
	var contributions [][]models.ForecastPoint
	for it := range ch {
		if it.err != nil {
			failures[it.name] = it.err
			e.metrics.RecordModelFailure(it.name)
			if IsInsufficientData(it.err) {
				e.log.Debug("model excluded from ensemble", logger.String("model", it.name), logger.Error(it.err))
			} else {
				e.log.Warn("model failed", logger.String("model", it.name), logger.Error(it.err))
			}
			continue
		}
		contributions = append(contributions, it.points)
	}

	if len(contributions) == 0 {
		return nil, &EnsembleExhaustedError{Failures: failures}
	}

	return averagePoints(contributions, horizonDays), nil
}

// averagePoints takes the per-day arithmetic mean of points and bounds across
// the contributing models. Dates are identical across contributions because
// every model generates them from the same lastDate.
func averagePoints(contributions [][]models.ForecastPoint, horizonDays int) []models.ForecastPoint {
	out := make([]models.ForecastPoint, horizonDays)
	n := float64(len(contributions))
	for d := 0; d < horizonDays; d++ {
		var point, low, high float64
		for _, pts := range contributions {
			point += pts[d].Point
			low += pts[d].CILow
			high += pts[d].CIHigh
		}
		out[d] = models.ForecastPoint{
			Date:   contributions[0][d].Date,
			Point:  point / n,
			CILow:  low / n,
			CIHigh: high / n,
		}
	}
	return out
}
