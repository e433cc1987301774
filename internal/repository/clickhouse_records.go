package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"BizPulse/internal/domain/models"
	pkgch "BizPulse/pkg/clickhouse"
	applogger "BizPulse/pkg/logger"
	"BizPulse/pkg/util"
)

// CHRecordSource implements RecordSource backed by the ClickHouse analytics
// warehouse. One query per business domain; records come back in date order.
type CHRecordSource struct {
	db *sql.DB
	l  *applogger.Logger
}

func NewCHRecordSource(ch *pkgch.Client) *CHRecordSource {
	return &CHRecordSource{db: ch.DB()}
}

// SetLogger injects a structured logger.
func (s *CHRecordSource) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHRecordSource) FetchRecords(ctx context.Context, from, to time.Time) (*models.RawRecords, error) {
	start := time.Now()
	out := &models.RawRecords{}

	var err error
	if out.Revenue, err = s.fetchRevenue(ctx, from, to); err != nil {
		return nil, err
	}
	if out.Leads, err = s.fetchLeads(ctx, from, to); err != nil {
		return nil, err
	}
	if out.Customers, err = s.fetchCustomers(ctx, from, to); err != nil {
		return nil, err
	}
	if out.Operational, err = s.fetchOperational(ctx, from, to); err != nil {
		return nil, err
	}
	if out.Engagement, err = s.fetchEngagement(ctx, from, to); err != nil {
		return nil, err
	}

	if s.l != nil {
		s.l.Info("clickhouse fetch_records ok",
			applogger.String("from", util.FormatDay(from)),
			applogger.String("to", util.FormatDay(to)),
			applogger.Int("revenue_rows", len(out.Revenue)),
			applogger.Int("customer_rows", len(out.Customers)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}

func (s *CHRecordSource) fetchRevenue(ctx context.Context, from, to time.Time) ([]models.RevenueRecord, error) {
	const q = `
        SELECT toString(day), revenue, gross_margin, refunds
        FROM bizpulse.daily_revenue
        WHERE day >= ? AND day <= ?
        ORDER BY day ASC
    `
	rows, err := s.db.QueryContext(ctx, q, from, to)
	if err != nil {
		return nil, s.queryErr("daily_revenue", err)
	}
	defer rows.Close()

	out := make([]models.RevenueRecord, 0, 128)
	for rows.Next() {
		var r models.RevenueRecord
		if err := rows.Scan(&r.Date, &r.Revenue, &r.GrossMargin, &r.Refunds); err != nil {
			return nil, s.scanErr("daily_revenue", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *CHRecordSource) fetchLeads(ctx context.Context, from, to time.Time) ([]models.LeadRecord, error) {
	const q = `
        SELECT toString(day), leads, quote_requests
        FROM bizpulse.daily_leads
        WHERE day >= ? AND day <= ?
        ORDER BY day ASC
    `
	rows, err := s.db.QueryContext(ctx, q, from, to)
	if err != nil {
		return nil, s.queryErr("daily_leads", err)
	}
	defer rows.Close()

	out := make([]models.LeadRecord, 0, 128)
	for rows.Next() {
		var r models.LeadRecord
		if err := rows.Scan(&r.Date, &r.Leads, &r.QuoteRequests); err != nil {
			return nil, s.scanErr("daily_leads", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *CHRecordSource) fetchCustomers(ctx context.Context, from, to time.Time) ([]models.CustomerRecord, error) {
	const q = `
        SELECT toString(day), reorders, reorder_interval, top_customer_share,
               persona_mix.persona, persona_mix.share,
               product_mix.category, product_mix.share
        FROM bizpulse.daily_customers
        WHERE day >= ? AND day <= ?
        ORDER BY day ASC
    `
	rows, err := s.db.QueryContext(ctx, q, from, to)
	if err != nil {
		return nil, s.queryErr("daily_customers", err)
	}
	defer rows.Close()

	out := make([]models.CustomerRecord, 0, 128)
	for rows.Next() {
		var r models.CustomerRecord
		var personaKeys, productKeys []string
		var personaShares, productShares []float64
		if err := rows.Scan(&r.Date, &r.Reorders, &r.ReorderInterval, &r.TopCustomerShare,
			&personaKeys, &personaShares, &productKeys, &productShares); err != nil {
			return nil, s.scanErr("daily_customers", err)
		}
		r.PersonaMix = zipMix(personaKeys, personaShares)
		r.ProductMix = zipMix(productKeys, productShares)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *CHRecordSource) fetchOperational(ctx context.Context, from, to time.Time) ([]models.OperationalRecord, error) {
	const q = `
        SELECT toString(day), sla_promise_met, on_time_pct, rush_share, freight_share, receivables_aging
        FROM bizpulse.daily_operational
        WHERE day >= ? AND day <= ?
        ORDER BY day ASC
    `
	rows, err := s.db.QueryContext(ctx, q, from, to)
	if err != nil {
		return nil, s.queryErr("daily_operational", err)
	}
	defer rows.Close()

	out := make([]models.OperationalRecord, 0, 128)
	for rows.Next() {
		var r models.OperationalRecord
		if err := rows.Scan(&r.Date, &r.SLAPromiseMet, &r.OnTimePercentage, &r.RushShare, &r.FreightShare, &r.ReceivablesAging); err != nil {
			return nil, s.scanErr("daily_operational", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *CHRecordSource) fetchEngagement(ctx context.Context, from, to time.Time) ([]models.EngagementRecord, error) {
	const q = `
        SELECT toString(day), sessions, email_opens, portal_logins
        FROM bizpulse.daily_engagement
        WHERE day >= ? AND day <= ?
        ORDER BY day ASC
    `
	rows, err := s.db.QueryContext(ctx, q, from, to)
	if err != nil {
		return nil, s.queryErr("daily_engagement", err)
	}
	defer rows.Close()

	out := make([]models.EngagementRecord, 0, 128)
	for rows.Next() {
		var r models.EngagementRecord
		if err := rows.Scan(&r.Date, &r.Sessions, &r.EmailOpens, &r.PortalLogins); err != nil {
			return nil, s.scanErr("daily_engagement", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *CHRecordSource) queryErr(table string, err error) error {
	if s.l != nil {
		s.l.Error("clickhouse query error",
			applogger.String("table", table),
			applogger.Error(err),
		)
	}
	return fmt.Errorf("query %s: %w", table, err)
}

func (s *CHRecordSource) scanErr(table string, err error) error {
	if s.l != nil {
		s.l.Error("clickhouse scan error",
			applogger.String("table", table),
			applogger.Error(err),
		)
	}
	return fmt.Errorf("scan %s: %w", table, err)
}

func zipMix(keys []string, shares []float64) map[string]float64 {
	if len(keys) == 0 {
		return nil
	}
	m := make(map[string]float64, len(keys))
	for i, k := range keys {
		if i < len(shares) {
			m[k] = shares[i]
		}
	}
	return m
}

// Schema returns idempotent DDL for the warehouse tables this source reads.
func Schema() []string {
	return []string{
		`CREATE DATABASE IF NOT EXISTS bizpulse`,
		`CREATE TABLE IF NOT EXISTS bizpulse.daily_revenue (
            day Date,
            revenue Float64,
            gross_margin Float64,
            refunds Float64
        ) ENGINE = ReplacingMergeTree ORDER BY day`,
		`CREATE TABLE IF NOT EXISTS bizpulse.daily_leads (
            day Date,
            leads Float64,
            quote_requests Float64
        ) ENGINE = ReplacingMergeTree ORDER BY day`,
		`CREATE TABLE IF NOT EXISTS bizpulse.daily_customers (
            day Date,
            reorders Float64,
            reorder_interval Float64,
            top_customer_share Float64,
            persona_mix Nested(persona String, share Float64),
            product_mix Nested(category String, share Float64)
        ) ENGINE = ReplacingMergeTree ORDER BY day`,
		`CREATE TABLE IF NOT EXISTS bizpulse.daily_operational (
            day Date,
            sla_promise_met Float64,
            on_time_pct Float64,
            rush_share Float64,
            freight_share Float64,
            receivables_aging Float64
        ) ENGINE = ReplacingMergeTree ORDER BY day`,
		`CREATE TABLE IF NOT EXISTS bizpulse.daily_engagement (
            day Date,
            sessions Float64,
            email_opens Float64,
            portal_logins Float64
        ) ENGINE = ReplacingMergeTree ORDER BY day`,
	}
}
