package features

import (
	"sort"
	"time"

	"BizPulse/internal/domain/models"
	"BizPulse/pkg/util"
)

// ExtractFeatures normalizes the five raw record streams into one aligned
// FeatureSet. Dates are the sorted union of all record dates; counts missing
// on a date are filled with 0, rates carry the last observed value forward.
// Empty inputs are a legal degenerate case, not an error: all sequences come
// back empty but present.
func ExtractFeatures(
	revenue []models.RevenueRecord,
	leads []models.LeadRecord,
	customers []models.CustomerRecord,
	operational []models.OperationalRecord,
	engagement []models.EngagementRecord,
) *models.FeatureSet {
	revByDay := make(map[time.Time]models.RevenueRecord, len(revenue))
	leadByDay := make(map[time.Time]models.LeadRecord, len(leads))
	custByDay := make(map[time.Time]models.CustomerRecord, len(customers))
	opsByDay := make(map[time.Time]models.OperationalRecord, len(operational))
	engByDay := make(map[time.Time]models.EngagementRecord, len(engagement))

	daySet := make(map[time.Time]struct{})
	for _, r := range revenue {
		if d, ok := util.ParseDay(r.Date); ok {
			revByDay[d] = r
			daySet[d] = struct{}{}
		}
	}
	for _, r := range leads {
		if d, ok := util.ParseDay(r.Date); ok {
			leadByDay[d] = r
			daySet[d] = struct{}{}
		}
	}
	for _, r := range customers {
		if d, ok := util.ParseDay(r.Date); ok {
			custByDay[d] = r
			daySet[d] = struct{}{}
		}
	}
	for _, r := range operational {
		if d, ok := util.ParseDay(r.Date); ok {
			opsByDay[d] = r
			daySet[d] = struct{}{}
		}
	}
	for _, r := range engagement {
		if d, ok := util.ParseDay(r.Date); ok {
			engByDay[d] = r
			daySet[d] = struct{}{}
		}
	}

	dates := make([]time.Time, 0, len(daySet))
	for d := range daySet {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	n := len(dates)
	fs := &models.FeatureSet{
		Dates:            dates,
		DailyRevenue:     make([]float64, n),
		GrossMargin:      make([]float64, n),
		Refunds:          make([]float64, n),
		LeadVolume:       make([]float64, n),
		Reorders:         make([]float64, n),
		ReorderIntervals: make([]float64, n),
		SLAPromiseMet:    make([]float64, n),
		OnTimePercentage: make([]float64, n),
		RushShare:        make([]float64, n),
		ReceivablesAging: make([]float64, n),
		TopCustomerShare: make([]float64, n),
		Engagement:       make([]float64, n),
		PersonaMix:       map[string]float64{},
		ProductMix:       map[string]float64{},
	}

	// carried-forward state for rate-like series
	var lastSLA, lastOTP, lastRush, lastAging, lastShare float64

	for i, d := range dates {
		if r, ok := revByDay[d]; ok {
			fs.DailyRevenue[i] = r.Revenue
			fs.GrossMargin[i] = r.GrossMargin
			fs.Refunds[i] = r.Refunds
		}
		if r, ok := leadByDay[d]; ok {
			fs.LeadVolume[i] = r.Leads + r.QuoteRequests
		}
		if r, ok := custByDay[d]; ok {
			fs.Reorders[i] = r.Reorders
			fs.ReorderIntervals[i] = r.ReorderInterval
			if r.TopCustomerShare > 0 {
				lastShare = r.TopCustomerShare
			}
			accumulateMix(fs.PersonaMix, r.PersonaMix)
			accumulateMix(fs.ProductMix, r.ProductMix)
		}
		if r, ok := opsByDay[d]; ok {
			lastSLA = r.SLAPromiseMet
			lastOTP = r.OnTimePercentage
			lastRush = r.RushShare + r.FreightShare
			lastAging = r.ReceivablesAging
		}
		if r, ok := engByDay[d]; ok {
			fs.Engagement[i] = r.Sessions + r.EmailOpens + r.PortalLogins
		}
		fs.SLAPromiseMet[i] = lastSLA
		fs.OnTimePercentage[i] = lastOTP
		fs.RushShare[i] = lastRush
		fs.ReceivablesAging[i] = lastAging
		fs.TopCustomerShare[i] = lastShare
	}

	normalizeMix(fs.PersonaMix)
	normalizeMix(fs.ProductMix)

	return fs
}

func accumulateMix(dst, src map[string]float64) {
	for k, v := range src {
		dst[k] += v
	}
}

func normalizeMix(m map[string]float64) {
	var total float64
	for _, v := range m {
		total += v
	}
	if total <= 0 {
		return
	}
	for k, v := range m {
		m[k] = v / total
	}
}
